package service

import (
	"errors"
	"fmt"
	"time"

	"souqy/internal/domain"
	"souqy/internal/models"
	"souqy/internal/repository"

	"gorm.io/gorm"
)

// SubjectDirectory answers whether a ledger subject exists and what to call
// it. The ledger itself never touches user or advertiser tables.
type SubjectDirectory interface {
	Exists(id uint, subjectType string) (bool, error)
	DisplayName(id uint, subjectType string) (string, error)
}

// PointsService owns the loyalty ledger: the balance accounts, the
// append-only transaction log, and the two admin-gated workflows in front of
// them. Every balance mutation goes through the repository's ApplyDelta inside
// a single database transaction.
type PointsService struct {
	db          *gorm.DB
	points      *repository.PointsRepository
	withdrawals *repository.WithdrawalRepository
	requests    *repository.PointRequestRepository
	subjects    SubjectDirectory
}

func NewPointsService(
	db *gorm.DB,
	points *repository.PointsRepository,
	withdrawals *repository.WithdrawalRepository,
	requests *repository.PointRequestRepository,
	subjects SubjectDirectory,
) *PointsService {
	return &PointsService{
		db:          db,
		points:      points,
		withdrawals: withdrawals,
		requests:    requests,
		subjects:    subjects,
	}
}

// Balance returns the subject's account and its ten most recent transactions.
func (s *PointsService) Balance(subject domain.Subject) (*models.PointsAccount, []models.PointTransaction, error) {
	if !subject.Valid() {
		return nil, nil, domain.Validation("subject id and type are required")
	}
	acct, err := s.points.GetAccount(subject)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, domain.NotFound("points account not found")
		}
		return nil, nil, err
	}
	txs, err := s.points.RecentTransactions(subject, 10)
	if err != nil {
		return nil, nil, err
	}
	return acct, txs, nil
}

// RequestWithdrawal opens a pending withdrawal after a balance-sufficiency
// check. No points move until an admin approves.
func (s *PointsService) RequestWithdrawal(subject domain.Subject, pointsAmount int64, method, accountDetails string) (*models.PointWithdrawal, error) {
	if !subject.Valid() || method == "" || accountDetails == "" {
		return nil, domain.Validation("subject, points amount, withdrawal method and account details are required")
	}
	if pointsAmount <= 0 {
		return nil, domain.Validation("points amount must be positive")
	}
	if err := s.requireSubject(subject); err != nil {
		return nil, err
	}

	acct, err := s.points.GetAccount(subject)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if acct == nil || acct.PointsBalance < pointsAmount {
		return nil, domain.ErrInsufficientBalance
	}

	w := &models.PointWithdrawal{
		SubjectID:        subject.ID,
		SubjectType:      subject.Type,
		PointsAmount:     pointsAmount,
		WithdrawalMethod: method,
		AccountDetails:   accountDetails,
		Status:           domain.WithdrawalPending,
	}
	if err := s.withdrawals.Create(w); err != nil {
		return nil, err
	}
	return w, nil
}

// ApproveWithdrawal debits the subject and marks the request approved, both in
// one transaction. A request that is no longer pending is rejected with a
// conflict and the balance is left alone.
func (s *PointsService) ApproveWithdrawal(id uint, adminNotes string) (*models.PointWithdrawal, *models.PointsAccount, error) {
	w, err := s.withdrawals.Get(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, domain.NotFound("withdrawal request not found")
		}
		return nil, nil, err
	}
	if w.Status != domain.WithdrawalPending {
		return nil, nil, domain.Conflict("withdrawal request already processed")
	}
	if adminNotes == "" {
		adminNotes = "Approved by admin"
	}

	var acct *models.PointsAccount
	err = s.db.Transaction(func(tx *gorm.DB) error {
		affected, err := s.withdrawals.MarkProcessed(tx, id, domain.WithdrawalApproved, adminNotes, "")
		if err != nil {
			return err
		}
		if affected == 0 {
			return domain.Conflict("withdrawal request already processed")
		}
		subject := domain.Subject{ID: w.SubjectID, Type: w.SubjectType}
		acct, err = s.points.ApplyDelta(tx, subject, -w.PointsAmount,
			domain.TxSpentWithdrawal,
			fmt.Sprintf("Withdrawal approved: %s", w.WithdrawalMethod),
			domain.RefWithdrawal, w.ID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	updated, err := s.withdrawals.Get(id)
	if err != nil {
		return nil, nil, err
	}
	return updated, acct, nil
}

// RejectWithdrawal closes a pending request without touching the ledger.
// Admin notes and a rejection reason are both required.
func (s *PointsService) RejectWithdrawal(id uint, adminNotes, reason string) (*models.PointWithdrawal, error) {
	if adminNotes == "" || reason == "" {
		return nil, domain.Validation("admin notes and rejection reason are required")
	}
	w, err := s.withdrawals.Get(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("withdrawal request not found")
		}
		return nil, err
	}
	if w.Status != domain.WithdrawalPending {
		return nil, domain.Conflict("withdrawal request already processed")
	}
	affected, err := s.withdrawals.MarkProcessed(s.db, id, domain.WithdrawalRejected, adminNotes, reason)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, domain.Conflict("withdrawal request already processed")
	}
	return s.withdrawals.Get(id)
}

func (s *PointsService) ListPendingWithdrawals(page, limit int) ([]repository.WithdrawalRow, int64, error) {
	return s.withdrawals.ListPending(page, limit)
}

// SubmitPointRequest opens a pending ask for bonus points. A subject can hold
// at most one open request per category.
func (s *PointsService) SubmitPointRequest(subject domain.Subject, requestType string, pointsAmount int64, reason, evidence, details string) (*models.PointRequest, error) {
	if !subject.Valid() {
		return nil, domain.Validation("subject id and type are required")
	}
	if !domain.PointRequestTypes[requestType] {
		return nil, domain.Validation("invalid request type")
	}
	if pointsAmount <= 0 || pointsAmount > domain.MaxPointRequestAmount {
		return nil, domain.Validation(fmt.Sprintf("points amount must be between 1 and %d", domain.MaxPointRequestAmount))
	}
	if reason == "" {
		return nil, domain.Validation("reason is required")
	}
	if err := s.requireSubject(subject); err != nil {
		return nil, err
	}

	open, err := s.requests.HasOpen(subject, requestType)
	if err != nil {
		return nil, err
	}
	if open {
		return nil, domain.Conflict("you already have an open request of this type")
	}

	req := &models.PointRequest{
		SubjectID:          subject.ID,
		SubjectType:        subject.Type,
		RequestType:        requestType,
		PointsAmount:       pointsAmount,
		Reason:             reason,
		SupportingEvidence: evidence,
		AdditionalDetails:  details,
		Status:             domain.PointRequestPending,
	}
	if err := s.requests.Create(req); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *PointsService) ListPointRequests(subject domain.Subject, status string, page, limit int) ([]models.PointRequest, int64, error) {
	return s.requests.ListBySubject(subject, status, page, limit)
}

func (s *PointsService) ListAllPointRequests(status string, page, limit int) ([]repository.PointRequestRow, int64, error) {
	return s.requests.ListAll(status, page, limit)
}

// Point request admin actions.
const (
	ActionApprove = "approve"
	ActionReject  = "reject"
	ActionReview  = "review"
)

// ProcessPointRequest applies an admin decision to an open request. Approval
// credits the admin-chosen pointsAdjustment, which deliberately need not match
// the amount the subject asked for. The status update and the credit commit
// together.
func (s *PointsService) ProcessPointRequest(id uint, action string, adminID uint, adminNotes string, pointsAdjustment int64) (*models.PointRequest, *models.PointsAccount, error) {
	req, err := s.requests.Get(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, domain.NotFound("point request not found")
		}
		return nil, nil, err
	}
	if req.Status != domain.PointRequestPending && req.Status != domain.PointRequestUnderReview {
		return nil, nil, domain.NotFound("point request not found or already processed")
	}

	var acct *models.PointsAccount
	now := time.Now()
	switch action {
	case ActionApprove:
		if pointsAdjustment <= 0 {
			return nil, nil, domain.Validation("points adjustment must be positive")
		}
		err = s.db.Transaction(func(tx *gorm.DB) error {
			affected, err := s.requests.Transition(tx, id, map[string]interface{}{
				"status":       domain.PointRequestApproved,
				"admin_notes":  adminNotes,
				"processed_by": adminID,
				"processed_at": &now,
			})
			if err != nil {
				return err
			}
			if affected == 0 {
				return domain.NotFound("point request not found or already processed")
			}
			subject := domain.Subject{ID: req.SubjectID, Type: req.SubjectType}
			acct, err = s.points.ApplyDelta(tx, subject, pointsAdjustment,
				domain.TxAdminBonus,
				fmt.Sprintf("Point request approved: %s", req.RequestType),
				domain.RefPointRequest, req.ID)
			return err
		})
	case ActionReject:
		_, err = s.transitionRequest(id, map[string]interface{}{
			"status":       domain.PointRequestRejected,
			"admin_notes":  adminNotes,
			"processed_by": adminID,
			"processed_at": &now,
		})
	case ActionReview:
		_, err = s.transitionRequest(id, map[string]interface{}{
			"status":      domain.PointRequestUnderReview,
			"admin_notes": adminNotes,
		})
	default:
		return nil, nil, domain.Validation("action must be approve, reject or review")
	}
	if err != nil {
		return nil, nil, err
	}
	updated, err := s.requests.Get(id)
	if err != nil {
		return nil, nil, err
	}
	return updated, acct, nil
}

func (s *PointsService) transitionRequest(id uint, updates map[string]interface{}) (int64, error) {
	affected, err := s.requests.Transition(s.db, id, updates)
	if err != nil {
		return 0, err
	}
	if affected == 0 {
		return 0, domain.NotFound("point request not found or already processed")
	}
	return affected, nil
}

// AdminAdjust moves points directly, outside any workflow. The only path that
// can decrease a balance besides withdrawal approval.
func (s *PointsService) AdminAdjust(subject domain.Subject, pointsChange int64, reason, txType string) (*models.PointsAccount, error) {
	if !subject.Valid() || pointsChange == 0 || reason == "" {
		return nil, domain.Validation("subject id, subject type, points change and reason are required")
	}
	if err := s.requireSubject(subject); err != nil {
		return nil, err
	}
	if txType == "" {
		txType = domain.TxAdminAdjustment
	}

	var acct *models.PointsAccount
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		acct, err = s.points.ApplyDelta(tx, subject, pointsChange, txType, reason, "", 0)
		return err
	})
	if err != nil {
		return nil, err
	}
	return acct, nil
}

func (s *PointsService) ListAccounts(search, subjectType string, page, limit int) ([]repository.AccountRow, int64, error) {
	return s.points.ListAccounts(search, subjectType, page, limit)
}

// Stats is the admin points overview.
type Stats struct {
	Overview           *repository.Overview        `json:"overview"`
	RecentTransactions []repository.TransactionRow `json:"recent_transactions"`
	PendingWithdrawals int64                       `json:"pending_withdrawals"`
}

func (s *PointsService) GetStats() (*Stats, error) {
	overview, err := s.points.AccountsOverview()
	if err != nil {
		return nil, err
	}
	recent, err := s.points.LatestTransactions(10)
	if err != nil {
		return nil, err
	}
	_, pending, err := s.withdrawals.ListPending(1, 1)
	if err != nil {
		return nil, err
	}
	return &Stats{
		Overview:           overview,
		RecentTransactions: recent,
		PendingWithdrawals: pending,
	}, nil
}

func (s *PointsService) requireSubject(subject domain.Subject) error {
	exists, err := s.subjects.Exists(subject.ID, subject.Type)
	if err != nil {
		return err
	}
	if !exists {
		return domain.NotFound(fmt.Sprintf("%s not found", subject.Type))
	}
	return nil
}
