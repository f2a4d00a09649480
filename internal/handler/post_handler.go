package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"souqy/internal/domain"
	"souqy/internal/middleware"
	"souqy/internal/models"
	"souqy/internal/repository"
	"souqy/pkg/cloudinary"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PostHandler struct {
	postRepo *repository.PostRepository
	userRepo *repository.UserRepository
	cloud    cloudinary.Client
}

func NewPostHandler(postRepo *repository.PostRepository, userRepo *repository.UserRepository, cloud cloudinary.Client) *PostHandler {
	return &PostHandler{postRepo: postRepo, userRepo: userRepo, cloud: cloud}
}

// Create accepts a multipart form: media file plus offer fields. Offers of
// type "post" need an image, title, price and expiration; "reel" needs a video
// and a description.
func (h *PostHandler) Create(c *gin.Context) {
	callerID := middleware.GetUserID(c)
	callerRole := middleware.GetRole(c)

	advertiserID := callerID
	if v := c.PostForm("advertiser_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid advertiser_id"})
			return
		}
		advertiserID = uint(id)
	}
	if callerRole != domain.RoleAdmin && advertiserID != callerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "cannot create posts for another advertiser"})
		return
	}
	if advertiserID != callerID {
		if _, err := h.userRepo.GetByID(advertiserID); err != nil {
			writeError(c, err)
			return
		}
	}

	postType := c.PostForm("type")
	title := c.PostForm("title")
	description := c.PostForm("description")
	if postType != domain.PostTypePost && postType != domain.PostTypeReel {
		c.JSON(http.StatusBadRequest, gin.H{"error": `type must be either "post" or "reel"`})
		return
	}
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}

	post := models.Post{
		AdvertiserID: advertiserID,
		Type:         postType,
		Title:        title,
		Description:  description,
	}

	if v := c.PostForm("category_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category_id"})
			return
		}
		cid := uint(id)
		post.CategoryID = &cid
	}

	switch postType {
	case domain.PostTypeReel:
		if description == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "description is required for reels"})
			return
		}
	case domain.PostTypePost:
		price, err := strconv.ParseFloat(c.PostForm("price"), 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "price is required for posts"})
			return
		}
		post.Price = &price
		if v := c.PostForm("old_price"); v != "" {
			op, err := strconv.ParseFloat(v, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid old_price"})
				return
			}
			post.OldPrice = &op
		}
		exp, err := time.Parse(time.RFC3339, c.PostForm("expiration_date"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "expiration_date is required for posts (RFC3339)"})
			return
		}
		post.ExpirationDate = &exp

		post.WithReservation = c.PostForm("with_reservation") == "true"
		if post.WithReservation {
			if v := c.PostForm("reservation_time"); v != "" {
				rt, err := time.Parse(time.RFC3339, v)
				if err != nil {
					c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reservation_time"})
					return
				}
				post.ReservationTime = &rt
			}
			if v := c.PostForm("reservation_limit"); v != "" {
				limit, err := strconv.Atoi(v)
				if err != nil || limit < 1 {
					c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reservation_limit"})
					return
				}
				post.ReservationLimit = &limit
			}
		}
	}

	fileHeader, err := c.FormFile("media")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no media file uploaded"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		writeError(c, err)
		return
	}
	defer file.Close()

	publicID := fmt.Sprintf("%s-%s", postType, uuid.New().String())
	var url, thumb string
	if postType == domain.PostTypeReel {
		url, thumb, err = h.cloud.UploadVideo(c.Request.Context(), file, "reels", publicID)
	} else {
		url, thumb, err = h.cloud.UploadImage(c.Request.Context(), file, "posts", publicID)
	}
	if err != nil {
		writeError(c, err)
		return
	}
	post.MediaURL = url
	post.ThumbnailURL = thumb

	if err := h.postRepo.Create(&post); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "post created successfully",
		"post":    post,
	})
}

func (h *PostHandler) List(c *gin.Context) {
	page, limit := pagination(c)
	var f repository.ListFilter
	f.Type = c.Query("type")
	if v := c.Query("category_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 64); err == nil {
			f.CategoryID = uint(id)
		}
	}
	if v := c.Query("advertiser_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 64); err == nil {
			f.AdvertiserID = uint(id)
		}
	}
	posts, total, err := h.postRepo.List(f, page, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, paginated(posts, page, limit, total))
}

func (h *PostHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	post, err := h.postRepo.GetByID(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

func (h *PostHandler) GetEngagement(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if _, err := h.postRepo.GetByID(id); err != nil {
		writeError(c, err)
		return
	}
	e, err := h.postRepo.GetEngagement(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"engagement": e})
}

// Delete removes a post; only its advertiser or an admin may.
func (h *PostHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	post, err := h.postRepo.GetByID(id)
	if err != nil {
		writeError(c, err)
		return
	}
	if middleware.GetRole(c) != domain.RoleAdmin && post.AdvertiserID != middleware.GetUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "cannot delete another advertiser's post"})
		return
	}
	if err := h.postRepo.Delete(id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "post deleted successfully"})
}

func (h *PostHandler) ToggleLike(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if _, err := h.postRepo.GetByID(id); err != nil {
		writeError(c, err)
		return
	}
	liked, count, err := h.postRepo.ToggleLike(middleware.GetUserID(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	action := "unliked"
	if liked {
		action = "liked"
	}
	c.JSON(http.StatusOK, gin.H{
		"message":     fmt.Sprintf("post %s successfully", action),
		"is_liked":    liked,
		"likes_count": count,
	})
}

func (h *PostHandler) LikeStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	liked, err := h.postRepo.IsLiked(middleware.GetUserID(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"is_liked": liked})
}

func (h *PostHandler) ListLiked(c *gin.Context) {
	page, limit := pagination(c)
	posts, total, err := h.postRepo.ListLiked(middleware.GetUserID(c), page, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, paginated(posts, page, limit, total))
}

func (h *PostHandler) Save(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if _, err := h.postRepo.GetByID(id); err != nil {
		writeError(c, err)
		return
	}
	sp, err := h.postRepo.Save(middleware.GetUserID(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":    "post saved successfully",
		"saved_post": sp,
	})
}

func (h *PostHandler) Unsave(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.postRepo.Unsave(middleware.GetUserID(c), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "post unsaved successfully"})
}

func (h *PostHandler) ListSaved(c *gin.Context) {
	page, limit := pagination(c)
	saved, total, err := h.postRepo.ListSaved(middleware.GetUserID(c), page, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, paginated(saved, page, limit, total))
}
