package handler

import (
	"net/http"

	"souqy/internal/middleware"
	"souqy/internal/repository"

	"github.com/gin-gonic/gin"
)

type ReservationHandler struct {
	reservationRepo *repository.ReservationRepository
}

func NewReservationHandler(reservationRepo *repository.ReservationRepository) *ReservationHandler {
	return &ReservationHandler{reservationRepo: reservationRepo}
}

func (h *ReservationHandler) Create(c *gin.Context) {
	var req struct {
		PostID uint `json:"post_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "post_id is required"})
		return
	}
	r, err := h.reservationRepo.Reserve(middleware.GetUserID(c), req.PostID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":     "reservation created successfully",
		"reservation": r,
	})
}

func (h *ReservationHandler) Cancel(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.reservationRepo.Cancel(middleware.GetUserID(c), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "reservation cancelled successfully"})
}

func (h *ReservationHandler) ListMine(c *gin.Context) {
	page, limit := pagination(c)
	rs, total, err := h.reservationRepo.ListByClient(middleware.GetUserID(c), page, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, paginated(rs, page, limit, total))
}

// ListForMyPosts returns reservations made against the advertiser's posts.
func (h *ReservationHandler) ListForMyPosts(c *gin.Context) {
	page, limit := pagination(c)
	rs, total, err := h.reservationRepo.ListByAdvertiser(middleware.GetUserID(c), page, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, paginated(rs, page, limit, total))
}
