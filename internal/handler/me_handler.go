package handler

import (
	"net/http"

	"souqy/internal/middleware"
	"souqy/internal/repository"

	"github.com/gin-gonic/gin"
)

type MeHandler struct {
	userRepo *repository.UserRepository
}

func NewMeHandler(userRepo *repository.UserRepository) *MeHandler {
	return &MeHandler{userRepo: userRepo}
}

func (h *MeHandler) GetProfile(c *gin.Context) {
	u, err := h.userRepo.GetWithProfile(middleware.GetUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

// UpdateStore upserts the advertiser's store profile.
func (h *MeHandler) UpdateStore(c *gin.Context) {
	var req struct {
		StoreName        string `json:"store_name" binding:"required"`
		Description      string `json:"description"`
		SocialMediaLinks string `json:"social_media_links"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "store_name is required"})
		return
	}
	profile, err := h.userRepo.UpsertProfile(middleware.GetUserID(c), req.StoreName, req.Description, req.SocialMediaLinks)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "store profile updated",
		"profile": profile,
	})
}

// GetUser returns another user's public profile.
func (h *MeHandler) GetUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	u, err := h.userRepo.GetWithProfile(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}
