package repository

import (
	"souqy/internal/domain"
	"souqy/internal/models"

	"gorm.io/gorm"
)

type PointRequestRepository struct {
	db *gorm.DB
}

func NewPointRequestRepository(db *gorm.DB) *PointRequestRepository {
	return &PointRequestRepository{db: db}
}

func (r *PointRequestRepository) Create(req *models.PointRequest) error {
	return r.db.Create(req).Error
}

func (r *PointRequestRepository) Get(id uint) (*models.PointRequest, error) {
	var req models.PointRequest
	if err := r.db.First(&req, id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// HasOpen reports whether the subject already has a pending or under-review
// request of the given type.
func (r *PointRequestRepository) HasOpen(subject domain.Subject, requestType string) (bool, error) {
	var count int64
	err := r.db.Model(&models.PointRequest{}).
		Where("subject_id = ? AND subject_type = ? AND request_type = ? AND status IN ?",
			subject.ID, subject.Type, requestType,
			[]string{domain.PointRequestPending, domain.PointRequestUnderReview}).
		Count(&count).Error
	return count > 0, err
}

func (r *PointRequestRepository) ListBySubject(subject domain.Subject, status string, page, limit int) ([]models.PointRequest, int64, error) {
	q := r.db.Model(&models.PointRequest{}).
		Where("subject_id = ? AND subject_type = ?", subject.ID, subject.Type)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var reqs []models.PointRequest
	err := q.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&reqs).Error
	return reqs, total, err
}

// PointRequestRow is a request joined with the subject's identity for the
// admin queue.
type PointRequestRow struct {
	models.PointRequest
	SubjectName string `json:"subject_name"`
	Phone       string `json:"phone"`
}

func (r *PointRequestRepository) ListAll(status string, page, limit int) ([]PointRequestRow, int64, error) {
	base := r.db.Table("point_requests AS pr")
	if status != "" {
		base = base.Where("pr.status = ?", status)
	}
	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []PointRequestRow
	err := base.
		Select("pr.*, u.full_name AS subject_name, u.phone AS phone").
		Joins("LEFT JOIN users u ON u.id = pr.subject_id AND u.role = pr.subject_type").
		Order("pr.created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Scan(&rows).Error
	return rows, total, err
}

// Transition moves an open request to the given status. The open-status filter
// means a processed request matches zero rows.
func (r *PointRequestRepository) Transition(tx *gorm.DB, id uint, updates map[string]interface{}) (int64, error) {
	res := tx.Model(&models.PointRequest{}).
		Where("id = ? AND status IN ?", id,
			[]string{domain.PointRequestPending, domain.PointRequestUnderReview}).
		Updates(updates)
	return res.RowsAffected, res.Error
}
