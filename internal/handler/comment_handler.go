package handler

import (
	"net/http"

	"souqy/internal/domain"
	"souqy/internal/middleware"
	"souqy/internal/models"
	"souqy/internal/repository"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentRepo *repository.CommentRepository
	postRepo    *repository.PostRepository
}

func NewCommentHandler(commentRepo *repository.CommentRepository, postRepo *repository.PostRepository) *CommentHandler {
	return &CommentHandler{commentRepo: commentRepo, postRepo: postRepo}
}

func (h *CommentHandler) Create(c *gin.Context) {
	postID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content is required"})
		return
	}
	if _, err := h.postRepo.GetByID(postID); err != nil {
		writeError(c, err)
		return
	}
	comment := models.Comment{
		PostID:  postID,
		UserID:  middleware.GetUserID(c),
		Content: req.Content,
	}
	if err := h.commentRepo.Create(&comment); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "comment added successfully",
		"comment": comment,
	})
}

func (h *CommentHandler) ListByPost(c *gin.Context) {
	postID, ok := paramID(c, "id")
	if !ok {
		return
	}
	page, limit := pagination(c)
	comments, total, err := h.commentRepo.ListByPost(postID, page, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, paginated(comments, page, limit, total))
}

// Delete removes a comment; only its author or an admin may.
func (h *CommentHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	comment, err := h.commentRepo.Get(id)
	if err != nil {
		writeError(c, err)
		return
	}
	if middleware.GetRole(c) != domain.RoleAdmin && comment.UserID != middleware.GetUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "cannot delete another user's comment"})
		return
	}
	if err := h.commentRepo.Delete(id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "comment deleted successfully"})
}
