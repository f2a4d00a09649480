package repository

import (
	"time"

	"souqy/internal/domain"
	"souqy/internal/models"

	"gorm.io/gorm"
)

type AdminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// DashboardStats is the admin panel overview.
type DashboardStats struct {
	TotalUsers            int64 `json:"total_users"`
	TotalAdvertisers      int64 `json:"total_advertisers"`
	TotalPosts            int64 `json:"total_posts"`
	TotalReservations     int64 `json:"total_reservations"`
	TotalComments         int64 `json:"total_comments"`
	TotalCategories       int64 `json:"total_categories"`
	NewUsersThisMonth     int64 `json:"new_users_this_month"`
	PostsThisMonth        int64 `json:"posts_this_month"`
	ReservationsThisMonth int64 `json:"reservations_this_month"`

	PointsAccounts      int64 `json:"points_accounts"`
	PointsInCirculation int64 `json:"points_in_circulation"`
	PendingWithdrawals  int64 `json:"pending_withdrawals"`

	RecentPosts        []models.Post        `json:"recent_posts"`
	RecentReservations []models.Reservation `json:"recent_reservations"`
}

func (r *AdminRepository) GetDashboardStats() (*DashboardStats, error) {
	s := &DashboardStats{}
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	counts := []struct {
		q    *gorm.DB
		dest *int64
	}{
		{r.db.Model(&models.User{}).Where("role = ?", domain.RoleUser), &s.TotalUsers},
		{r.db.Model(&models.User{}).Where("role = ?", domain.RoleAdvertiser), &s.TotalAdvertisers},
		{r.db.Model(&models.Post{}), &s.TotalPosts},
		{r.db.Model(&models.Reservation{}), &s.TotalReservations},
		{r.db.Model(&models.Comment{}), &s.TotalComments},
		{r.db.Model(&models.Category{}), &s.TotalCategories},
		{r.db.Model(&models.User{}).Where("role != ? AND created_at >= ?", domain.RoleAdmin, monthStart), &s.NewUsersThisMonth},
		{r.db.Model(&models.Post{}).Where("created_at >= ?", monthStart), &s.PostsThisMonth},
		{r.db.Model(&models.Reservation{}).Where("reserved_at >= ?", monthStart), &s.ReservationsThisMonth},
		{r.db.Model(&models.PointsAccount{}), &s.PointsAccounts},
		{r.db.Model(&models.PointWithdrawal{}).Where("status = ?", domain.WithdrawalPending), &s.PendingWithdrawals},
	}
	for _, c := range counts {
		if err := c.q.Count(c.dest).Error; err != nil {
			return nil, err
		}
	}

	var circulation struct{ Total int64 }
	if err := r.db.Model(&models.PointsAccount{}).
		Select("COALESCE(SUM(points_balance), 0) AS total").
		Scan(&circulation).Error; err != nil {
		return nil, err
	}
	s.PointsInCirculation = circulation.Total

	if err := r.db.Order("created_at DESC").Limit(5).Find(&s.RecentPosts).Error; err != nil {
		return nil, err
	}
	if err := r.db.Preload("Post").
		Order("reserved_at DESC").Limit(5).
		Find(&s.RecentReservations).Error; err != nil {
		return nil, err
	}
	return s, nil
}
