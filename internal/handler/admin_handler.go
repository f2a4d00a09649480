package handler

import (
	"net/http"

	"souqy/internal/domain"
	"souqy/internal/repository"

	"github.com/gin-gonic/gin"
)

// AdminHandler covers the non-ledger admin panel: account and content
// management plus the dashboard.
type AdminHandler struct {
	adminRepo       *repository.AdminRepository
	userRepo        *repository.UserRepository
	postRepo        *repository.PostRepository
	reservationRepo *repository.ReservationRepository
	commentRepo     *repository.CommentRepository
}

func NewAdminHandler(
	adminRepo *repository.AdminRepository,
	userRepo *repository.UserRepository,
	postRepo *repository.PostRepository,
	reservationRepo *repository.ReservationRepository,
	commentRepo *repository.CommentRepository,
) *AdminHandler {
	return &AdminHandler{
		adminRepo:       adminRepo,
		userRepo:        userRepo,
		postRepo:        postRepo,
		reservationRepo: reservationRepo,
		commentRepo:     commentRepo,
	}
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, limit := pagination(c)
	users, total, err := h.userRepo.List(domain.RoleUser, page, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, paginated(users, page, limit, total))
}

func (h *AdminHandler) ListAdvertisers(c *gin.Context) {
	page, limit := pagination(c)
	users, total, err := h.userRepo.List(domain.RoleAdvertiser, page, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, paginated(users, page, limit, total))
}

func (h *AdminHandler) ListPosts(c *gin.Context) {
	page, limit := pagination(c)
	posts, total, err := h.postRepo.List(repository.ListFilter{Type: c.Query("type")}, page, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, paginated(posts, page, limit, total))
}

func (h *AdminHandler) ListReservations(c *gin.Context) {
	page, limit := pagination(c)
	rs, total, err := h.reservationRepo.ListAll(page, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, paginated(rs, page, limit, total))
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.userRepo.Delete(id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user deleted successfully"})
}

func (h *AdminHandler) DeletePost(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.postRepo.Delete(id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "post deleted successfully"})
}

func (h *AdminHandler) DeleteReservation(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.reservationRepo.Delete(id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "reservation deleted successfully"})
}

func (h *AdminHandler) DeleteComment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.commentRepo.Delete(id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "comment deleted successfully"})
}

func (h *AdminHandler) GetDashboard(c *gin.Context) {
	stats, err := h.adminRepo.GetDashboardStats()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"dashboard": stats})
}
