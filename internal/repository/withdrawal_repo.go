package repository

import (
	"time"

	"souqy/internal/domain"
	"souqy/internal/models"

	"gorm.io/gorm"
)

type WithdrawalRepository struct {
	db *gorm.DB
}

func NewWithdrawalRepository(db *gorm.DB) *WithdrawalRepository {
	return &WithdrawalRepository{db: db}
}

func (r *WithdrawalRepository) Create(w *models.PointWithdrawal) error {
	return r.db.Create(w).Error
}

func (r *WithdrawalRepository) Get(id uint) (*models.PointWithdrawal, error) {
	var w models.PointWithdrawal
	if err := r.db.First(&w, id).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

// WithdrawalRow is a withdrawal request joined with the requesting subject's
// identity for the admin queue.
type WithdrawalRow struct {
	models.PointWithdrawal
	SubjectName string `json:"subject_name"`
	StoreName   string `json:"store_name,omitempty"`
	Phone       string `json:"phone"`
}

func (r *WithdrawalRepository) ListPending(page, limit int) ([]WithdrawalRow, int64, error) {
	base := r.db.Table("point_withdrawals AS pw").
		Where("pw.status = ?", domain.WithdrawalPending)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []WithdrawalRow
	err := base.
		Select("pw.*, u.full_name AS subject_name, ap.store_name AS store_name, u.phone AS phone").
		Joins("LEFT JOIN users u ON u.id = pw.subject_id AND u.role = pw.subject_type").
		Joins("LEFT JOIN advertiser_profiles ap ON ap.user_id = u.id").
		Order("pw.created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Scan(&rows).Error
	return rows, total, err
}

// MarkProcessed flips a pending request to its terminal status. The status
// filter makes double-processing report zero rows, which the workflow turns
// into a conflict.
func (r *WithdrawalRepository) MarkProcessed(tx *gorm.DB, id uint, status, adminNotes, rejectionReason string) (int64, error) {
	now := time.Now()
	res := tx.Model(&models.PointWithdrawal{}).
		Where("id = ? AND status = ?", id, domain.WithdrawalPending).
		Updates(map[string]interface{}{
			"status":           status,
			"admin_notes":      adminNotes,
			"rejection_reason": rejectionReason,
			"processed_at":     &now,
		})
	return res.RowsAffected, res.Error
}
