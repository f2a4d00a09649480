package repository

import (
	"errors"

	"souqy/internal/domain"
	"souqy/internal/models"

	"gorm.io/gorm"
)

type PointsRepository struct {
	db *gorm.DB
}

func NewPointsRepository(db *gorm.DB) *PointsRepository {
	return &PointsRepository{db: db}
}

// ApplyDelta applies a signed point delta to the subject's account and appends
// the matching transaction row. It must run inside the caller's transaction:
// the balance update and the log insert commit together or not at all.
//
// The balance is clamped at zero by a single conditional UPDATE, so concurrent
// callers against the same subject serialize on the row lock the statement
// takes. total_earned/total_spent and the transaction row record the requested
// delta, not the clamped effective change; under clamping the transaction sum
// diverges from the balance on purpose (compatibility with existing history).
func (r *PointsRepository) ApplyDelta(tx *gorm.DB, subject domain.Subject, delta int64, txType, description, refType string, refID uint) (*models.PointsAccount, error) {
	if err := r.ensureAccount(tx, subject); err != nil {
		return nil, err
	}

	earned := delta
	if earned < 0 {
		earned = 0
	}
	spent := -delta
	if spent < 0 {
		spent = 0
	}
	err := tx.Model(&models.PointsAccount{}).
		Where("subject_id = ? AND subject_type = ?", subject.ID, subject.Type).
		Updates(map[string]interface{}{
			"points_balance": gorm.Expr("CASE WHEN points_balance + ? < 0 THEN 0 ELSE points_balance + ? END", delta, delta),
			"total_earned":   gorm.Expr("total_earned + ?", earned),
			"total_spent":    gorm.Expr("total_spent + ?", spent),
		}).Error
	if err != nil {
		return nil, err
	}

	record := models.PointTransaction{
		SubjectID:       subject.ID,
		SubjectType:     subject.Type,
		TransactionType: txType,
		PointsChange:    delta,
		Description:     description,
		ReferenceType:   refType,
		ReferenceID:     refID,
	}
	if err := tx.Create(&record).Error; err != nil {
		return nil, err
	}

	var acct models.PointsAccount
	if err := tx.Where("subject_id = ? AND subject_type = ?", subject.ID, subject.Type).Take(&acct).Error; err != nil {
		return nil, err
	}
	return &acct, nil
}

// ensureAccount lazily creates the zeroed account row on first mutation.
// A concurrent creator losing the unique-index race falls back to the
// existing row.
func (r *PointsRepository) ensureAccount(tx *gorm.DB, subject domain.Subject) error {
	var acct models.PointsAccount
	err := tx.Where("subject_id = ? AND subject_type = ?", subject.ID, subject.Type).Take(&acct).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	acct = models.PointsAccount{SubjectID: subject.ID, SubjectType: subject.Type}
	if createErr := tx.Create(&acct).Error; createErr != nil {
		var check models.PointsAccount
		if tx.Where("subject_id = ? AND subject_type = ?", subject.ID, subject.Type).Take(&check).Error == nil {
			return nil
		}
		return createErr
	}
	return nil
}

func (r *PointsRepository) GetAccount(subject domain.Subject) (*models.PointsAccount, error) {
	var acct models.PointsAccount
	err := r.db.Where("subject_id = ? AND subject_type = ?", subject.ID, subject.Type).Take(&acct).Error
	if err != nil {
		return nil, err
	}
	return &acct, nil
}

func (r *PointsRepository) RecentTransactions(subject domain.Subject, limit int) ([]models.PointTransaction, error) {
	var txs []models.PointTransaction
	err := r.db.Where("subject_id = ? AND subject_type = ?", subject.ID, subject.Type).
		Order("created_at DESC").Limit(limit).
		Find(&txs).Error
	return txs, err
}

// AccountRow is a ledger account joined with the subject's identity for admin
// listings.
type AccountRow struct {
	models.PointsAccount
	SubjectName string `json:"subject_name"`
	StoreName   string `json:"store_name,omitempty"`
	Phone       string `json:"phone"`
}

// ListAccounts returns accounts ordered by balance, optionally filtered by
// subject type and a name/phone search.
func (r *PointsRepository) ListAccounts(search, subjectType string, page, limit int) ([]AccountRow, int64, error) {
	base := r.db.Table("points_accounts AS pa").
		Joins("LEFT JOIN users u ON u.id = pa.subject_id AND u.role = pa.subject_type").
		Joins("LEFT JOIN advertiser_profiles ap ON ap.user_id = u.id")
	if search != "" {
		like := "%" + search + "%"
		base = base.Where("LOWER(u.full_name) LIKE LOWER(?) OR u.phone LIKE ?", like, like)
	}
	if subjectType != "" && subjectType != "all" {
		base = base.Where("pa.subject_type = ?", subjectType)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []AccountRow
	err := base.
		Select("pa.*, u.full_name AS subject_name, ap.store_name AS store_name, u.phone AS phone").
		Order("pa.points_balance DESC").
		Offset((page - 1) * limit).Limit(limit).
		Scan(&rows).Error
	return rows, total, err
}

// Overview aggregates the whole ledger for the admin stats endpoint.
type Overview struct {
	TotalAccounts            int64   `json:"total_accounts"`
	TotalPointsInCirculation int64   `json:"total_points_in_circulation"`
	TotalPointsEverEarned    int64   `json:"total_points_ever_earned"`
	TotalPointsEverSpent     int64   `json:"total_points_ever_spent"`
	AveragePointsPerAccount  float64 `json:"average_points_per_account"`
}

func (r *PointsRepository) AccountsOverview() (*Overview, error) {
	var o Overview
	err := r.db.Model(&models.PointsAccount{}).
		Select("COUNT(*) AS total_accounts, " +
			"COALESCE(SUM(points_balance), 0) AS total_points_in_circulation, " +
			"COALESCE(SUM(total_earned), 0) AS total_points_ever_earned, " +
			"COALESCE(SUM(total_spent), 0) AS total_points_ever_spent, " +
			"COALESCE(AVG(points_balance), 0) AS average_points_per_account").
		Scan(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// TransactionRow is a transaction joined with the subject's name for admin
// stats.
type TransactionRow struct {
	models.PointTransaction
	SubjectName string `json:"subject_name"`
}

func (r *PointsRepository) LatestTransactions(limit int) ([]TransactionRow, error) {
	var rows []TransactionRow
	err := r.db.Table("point_transactions AS pt").
		Select("pt.*, u.full_name AS subject_name").
		Joins("LEFT JOIN users u ON u.id = pt.subject_id AND u.role = pt.subject_type").
		Order("pt.created_at DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
