package service_test

import (
	"fmt"
	"testing"

	"souqy/internal/database"
	"souqy/internal/domain"
	"souqy/internal/models"
	"souqy/internal/repository"
	"souqy/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type env struct {
	db       *gorm.DB
	svc      *service.PointsService
	users    *repository.UserRepository
	user     domain.Subject
	store    domain.Subject
	adminID  uint
	txCount  func(t *testing.T) int64
	lastTx   func(t *testing.T) models.PointTransaction
	balance  func(t *testing.T, s domain.Subject) int64
	withdraw *repository.WithdrawalRepository
}

func newEnv(t *testing.T) *env {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	users := repository.NewUserRepository(db)
	points := repository.NewPointsRepository(db)
	withdrawals := repository.NewWithdrawalRepository(db)
	requests := repository.NewPointRequestRepository(db)
	svc := service.NewPointsService(db, points, withdrawals, requests, users)

	u := &models.User{FullName: "Salim", Phone: "0501111111", Role: domain.RoleUser, IsVerified: true}
	require.NoError(t, users.Create(u))
	a := &models.User{FullName: "Nora", Phone: "0502222222", Role: domain.RoleAdvertiser, IsVerified: true}
	require.NoError(t, users.CreateAdvertiser(a, &models.AdvertiserProfile{StoreName: "Nora Sweets"}))
	admin := &models.User{FullName: "Root", Phone: "0509999999", Role: domain.RoleAdmin, IsVerified: true}
	require.NoError(t, users.Create(admin))

	return &env{
		db:       db,
		svc:      svc,
		users:    users,
		user:     domain.Subject{ID: u.ID, Type: domain.SubjectUser},
		store:    domain.Subject{ID: a.ID, Type: domain.SubjectAdvertiser},
		adminID:  admin.ID,
		withdraw: withdrawals,
		txCount: func(t *testing.T) int64 {
			var n int64
			require.NoError(t, db.Model(&models.PointTransaction{}).Count(&n).Error)
			return n
		},
		lastTx: func(t *testing.T) models.PointTransaction {
			var tx models.PointTransaction
			require.NoError(t, db.Order("id DESC").First(&tx).Error)
			return tx
		},
		balance: func(t *testing.T, s domain.Subject) int64 {
			var acct models.PointsAccount
			require.NoError(t, db.Where("subject_id = ? AND subject_type = ?", s.ID, s.Type).Take(&acct).Error)
			return acct.PointsBalance
		},
	}
}

func (e *env) credit(t *testing.T, s domain.Subject, amount int64) {
	_, err := e.svc.AdminAdjust(s, amount, "seed balance", "")
	require.NoError(t, err)
}

func TestAdminAdjust_CreatesAccountLazily(t *testing.T) {
	e := newEnv(t)

	// No account row exists yet for a fresh subject.
	acct, err := e.svc.AdminAdjust(e.user, 200, "welcome bonus", "")
	require.NoError(t, err)

	assert.Equal(t, int64(200), acct.PointsBalance)
	assert.Equal(t, int64(200), acct.TotalEarned)
	assert.Equal(t, int64(0), acct.TotalSpent)

	tx := e.lastTx(t)
	assert.Equal(t, domain.TxAdminAdjustment, tx.TransactionType)
	assert.Equal(t, int64(200), tx.PointsChange)
	assert.Equal(t, "welcome bonus", tx.Description)
}

func TestAdminAdjust_ClampsBalanceAtZero(t *testing.T) {
	e := newEnv(t)
	e.credit(t, e.user, 10)

	acct, err := e.svc.AdminAdjust(e.user, -50, "penalty", "")
	require.NoError(t, err)

	assert.Equal(t, int64(0), acct.PointsBalance)
	// The log keeps the requested delta, not the clamped effective change.
	tx := e.lastTx(t)
	assert.Equal(t, int64(-50), tx.PointsChange)
	assert.Equal(t, int64(50), acct.TotalSpent)
	// The clamp makes recorded totals diverge from the balance.
	assert.NotEqual(t, acct.PointsBalance, acct.TotalEarned-acct.TotalSpent)
}

func TestAdminAdjust_ClampedRunningSum(t *testing.T) {
	e := newEnv(t)

	deltas := []int64{50, -30, -100, 200, -20, -500, 75}
	var want int64
	for _, d := range deltas {
		want += d
		if want < 0 {
			want = 0
		}
		_, err := e.svc.AdminAdjust(e.user, d, "step", "")
		require.NoError(t, err)
	}
	assert.Equal(t, want, e.balance(t, e.user))
}

func TestAdminAdjust_Validation(t *testing.T) {
	e := newEnv(t)

	_, err := e.svc.AdminAdjust(domain.Subject{}, 10, "r", "")
	assert.True(t, domain.IsValidation(err))

	_, err = e.svc.AdminAdjust(e.user, 0, "r", "")
	assert.True(t, domain.IsValidation(err))

	_, err = e.svc.AdminAdjust(e.user, 10, "", "")
	assert.True(t, domain.IsValidation(err))
}

func TestAdminAdjust_SubjectMustExist(t *testing.T) {
	e := newEnv(t)

	_, err := e.svc.AdminAdjust(domain.Subject{ID: 9999, Type: domain.SubjectUser}, 10, "r", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// A user id does not exist as an advertiser subject.
	_, err = e.svc.AdminAdjust(domain.Subject{ID: e.user.ID, Type: domain.SubjectAdvertiser}, 10, "r", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestWithdrawal_InsufficientBalance(t *testing.T) {
	e := newEnv(t)
	e.credit(t, e.user, 100)

	_, err := e.svc.RequestWithdrawal(e.user, 150, "bank_transfer", "SA00 0000")
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)
	assert.Equal(t, int64(100), e.balance(t, e.user))

	// No account at all counts as insufficient, not as a missing subject.
	_, err = e.svc.RequestWithdrawal(e.store, 1, "bank_transfer", "SA00 0000")
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)
}

func TestWithdrawal_ApproveDebitsOnce(t *testing.T) {
	e := newEnv(t)
	e.credit(t, e.user, 100)

	w, err := e.svc.RequestWithdrawal(e.user, 50, "bank_transfer", "SA00 0000")
	require.NoError(t, err)
	assert.Equal(t, domain.WithdrawalPending, w.Status)
	// Requesting alone must not move points.
	assert.Equal(t, int64(100), e.balance(t, e.user))

	approved, acct, err := e.svc.ApproveWithdrawal(w.ID, "")
	require.NoError(t, err)
	assert.Equal(t, domain.WithdrawalApproved, approved.Status)
	assert.NotNil(t, approved.ProcessedAt)
	assert.Equal(t, "Approved by admin", approved.AdminNotes)
	assert.Equal(t, int64(50), acct.PointsBalance)

	tx := e.lastTx(t)
	assert.Equal(t, domain.TxSpentWithdrawal, tx.TransactionType)
	assert.Equal(t, int64(-50), tx.PointsChange)
	assert.Equal(t, domain.RefWithdrawal, tx.ReferenceType)
	assert.Equal(t, w.ID, tx.ReferenceID)

	// Second approval conflicts and the balance stays put.
	_, _, err = e.svc.ApproveWithdrawal(w.ID, "")
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, int64(50), e.balance(t, e.user))
}

func TestWithdrawal_Reject(t *testing.T) {
	e := newEnv(t)
	e.credit(t, e.user, 100)

	w, err := e.svc.RequestWithdrawal(e.user, 40, "paypal", "user@example.com")
	require.NoError(t, err)

	// Both fields are mandatory.
	_, err = e.svc.RejectWithdrawal(w.ID, "", "details missing")
	assert.True(t, domain.IsValidation(err))
	_, err = e.svc.RejectWithdrawal(w.ID, "checked", "")
	assert.True(t, domain.IsValidation(err))

	before := e.txCount(t)
	rejected, err := e.svc.RejectWithdrawal(w.ID, "checked", "account details invalid")
	require.NoError(t, err)
	assert.Equal(t, domain.WithdrawalRejected, rejected.Status)
	assert.Equal(t, "account details invalid", rejected.RejectionReason)
	assert.NotNil(t, rejected.ProcessedAt)
	// Rejection never touches the ledger.
	assert.Equal(t, before, e.txCount(t))
	assert.Equal(t, int64(100), e.balance(t, e.user))

	_, err = e.svc.RejectWithdrawal(w.ID, "again", "again")
	assert.ErrorIs(t, err, domain.ErrConflict)
	_, _, err = e.svc.ApproveWithdrawal(w.ID, "")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestWithdrawal_Validation(t *testing.T) {
	e := newEnv(t)

	_, err := e.svc.RequestWithdrawal(e.user, 0, "bank_transfer", "SA00 0000")
	assert.True(t, domain.IsValidation(err))
	_, err = e.svc.RequestWithdrawal(e.user, -5, "bank_transfer", "SA00 0000")
	assert.True(t, domain.IsValidation(err))
	_, err = e.svc.RequestWithdrawal(e.user, 10, "", "SA00 0000")
	assert.True(t, domain.IsValidation(err))

	_, err = e.svc.RequestWithdrawal(domain.Subject{ID: 9999, Type: domain.SubjectUser}, 10, "bank_transfer", "x")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, _, err = e.svc.ApproveWithdrawal(12345, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPointRequest_SubmitValidation(t *testing.T) {
	e := newEnv(t)

	_, err := e.svc.SubmitPointRequest(e.user, "free_money", 100, "because", "", "")
	assert.True(t, domain.IsValidation(err))

	_, err = e.svc.SubmitPointRequest(e.user, "bonus_points", 0, "because", "", "")
	assert.True(t, domain.IsValidation(err))
	_, err = e.svc.SubmitPointRequest(e.user, "bonus_points", 10001, "because", "", "")
	assert.True(t, domain.IsValidation(err))

	_, err = e.svc.SubmitPointRequest(e.user, "bonus_points", 100, "", "", "")
	assert.True(t, domain.IsValidation(err))

	_, err = e.svc.SubmitPointRequest(domain.Subject{ID: 9999, Type: domain.SubjectUser}, "bonus_points", 100, "r", "", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPointRequest_OnePerTypeWhileOpen(t *testing.T) {
	e := newEnv(t)

	first, err := e.svc.SubmitPointRequest(e.user, "bonus_points", 500, "top seller week", "", "")
	require.NoError(t, err)
	assert.Equal(t, domain.PointRequestPending, first.Status)

	_, err = e.svc.SubmitPointRequest(e.user, "bonus_points", 100, "again", "", "")
	assert.ErrorIs(t, err, domain.ErrConflict)

	// Different category is fine, and so is the same category for another subject.
	_, err = e.svc.SubmitPointRequest(e.user, "compensation", 100, "lost order", "", "")
	require.NoError(t, err)
	_, err = e.svc.SubmitPointRequest(e.store, "bonus_points", 100, "store bonus", "", "")
	require.NoError(t, err)

	// Still blocked while under review.
	_, _, err = e.svc.ProcessPointRequest(first.ID, service.ActionReview, e.adminID, "looking", 0)
	require.NoError(t, err)
	_, err = e.svc.SubmitPointRequest(e.user, "bonus_points", 100, "again", "", "")
	assert.ErrorIs(t, err, domain.ErrConflict)

	// Unblocked once processed.
	_, _, err = e.svc.ProcessPointRequest(first.ID, service.ActionReject, e.adminID, "no", 0)
	require.NoError(t, err)
	_, err = e.svc.SubmitPointRequest(e.user, "bonus_points", 100, "third time", "", "")
	require.NoError(t, err)
}

func TestPointRequest_ApproveCreditsAdminAmount(t *testing.T) {
	e := newEnv(t)
	e.credit(t, e.user, 100)

	req, err := e.svc.SubmitPointRequest(e.user, "bonus_points", 500, "big campaign", "", "")
	require.NoError(t, err)

	// The admin decides the amount; the requested 500 is advisory.
	processed, acct, err := e.svc.ProcessPointRequest(req.ID, service.ActionApprove, e.adminID, "partial grant", 300)
	require.NoError(t, err)
	assert.Equal(t, domain.PointRequestApproved, processed.Status)
	require.NotNil(t, processed.ProcessedBy)
	assert.Equal(t, e.adminID, *processed.ProcessedBy)
	assert.NotNil(t, processed.ProcessedAt)
	assert.Equal(t, int64(400), acct.PointsBalance)

	tx := e.lastTx(t)
	assert.Equal(t, domain.TxAdminBonus, tx.TransactionType)
	assert.Equal(t, int64(300), tx.PointsChange)
	assert.Equal(t, domain.RefPointRequest, tx.ReferenceType)
	assert.Equal(t, req.ID, tx.ReferenceID)

	// Reprocessing a terminal request reads as gone.
	_, _, err = e.svc.ProcessPointRequest(req.ID, service.ActionApprove, e.adminID, "", 300)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, int64(400), e.balance(t, e.user))
}

func TestPointRequest_ApproveRequiresAdjustment(t *testing.T) {
	e := newEnv(t)

	req, err := e.svc.SubmitPointRequest(e.user, "other", 50, "misc", "", "")
	require.NoError(t, err)

	_, _, err = e.svc.ProcessPointRequest(req.ID, service.ActionApprove, e.adminID, "", 0)
	assert.True(t, domain.IsValidation(err))
	_, _, err = e.svc.ProcessPointRequest(req.ID, service.ActionApprove, e.adminID, "", -10)
	assert.True(t, domain.IsValidation(err))

	_, _, err = e.svc.ProcessPointRequest(req.ID, "escalate", e.adminID, "", 0)
	assert.True(t, domain.IsValidation(err))
}

func TestPointRequest_ReviewAndReject(t *testing.T) {
	e := newEnv(t)

	req, err := e.svc.SubmitPointRequest(e.store, "content_quality", 200, "best reels", "", "")
	require.NoError(t, err)

	reviewed, acct, err := e.svc.ProcessPointRequest(req.ID, service.ActionReview, e.adminID, "checking reels", 0)
	require.NoError(t, err)
	assert.Equal(t, domain.PointRequestUnderReview, reviewed.Status)
	assert.Equal(t, "checking reels", reviewed.AdminNotes)
	assert.Nil(t, acct)
	assert.Nil(t, reviewed.ProcessedAt)

	before := e.txCount(t)
	rejected, _, err := e.svc.ProcessPointRequest(req.ID, service.ActionReject, e.adminID, "not eligible", 0)
	require.NoError(t, err)
	assert.Equal(t, domain.PointRequestRejected, rejected.Status)
	assert.NotNil(t, rejected.ProcessedAt)
	assert.Equal(t, before, e.txCount(t))
}

func TestBalance(t *testing.T) {
	e := newEnv(t)

	_, _, err := e.svc.Balance(e.user)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	for i := 0; i < 12; i++ {
		e.credit(t, e.user, 5)
	}
	acct, txs, err := e.svc.Balance(e.user)
	require.NoError(t, err)
	assert.Equal(t, int64(60), acct.PointsBalance)
	assert.Len(t, txs, 10)
}

func TestStats(t *testing.T) {
	e := newEnv(t)
	e.credit(t, e.user, 100)
	e.credit(t, e.store, 300)
	_, err := e.svc.AdminAdjust(e.user, -20, "correction", "")
	require.NoError(t, err)
	_, err = e.svc.RequestWithdrawal(e.store, 50, "bank_transfer", "SA00 0000")
	require.NoError(t, err)

	stats, err := e.svc.GetStats()
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Overview.TotalAccounts)
	assert.Equal(t, int64(380), stats.Overview.TotalPointsInCirculation)
	assert.Equal(t, int64(400), stats.Overview.TotalPointsEverEarned)
	assert.Equal(t, int64(20), stats.Overview.TotalPointsEverSpent)
	assert.Equal(t, int64(1), stats.PendingWithdrawals)
	assert.Len(t, stats.RecentTransactions, 3)
}

func TestListAccounts(t *testing.T) {
	e := newEnv(t)
	e.credit(t, e.user, 50)
	e.credit(t, e.store, 500)

	rows, total, err := e.svc.ListAccounts("", "", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, rows, 2)
	// Ordered by balance, advertiser first, with its store name joined in.
	assert.Equal(t, int64(500), rows[0].PointsBalance)
	assert.Equal(t, "Nora", rows[0].SubjectName)
	assert.Equal(t, "Nora Sweets", rows[0].StoreName)

	rows, total, err = e.svc.ListAccounts("", domain.SubjectUser, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, domain.SubjectUser, rows[0].SubjectType)

	rows, total, err = e.svc.ListAccounts("Salim", "", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Salim", rows[0].SubjectName)
}

func TestListPendingWithdrawals(t *testing.T) {
	e := newEnv(t)
	e.credit(t, e.store, 500)

	w, err := e.svc.RequestWithdrawal(e.store, 100, "bank_transfer", "SA00 0000")
	require.NoError(t, err)

	rows, total, err := e.svc.ListPendingWithdrawals(1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, rows, 1)
	assert.Equal(t, "Nora", rows[0].SubjectName)
	assert.Equal(t, "Nora Sweets", rows[0].StoreName)

	_, _, err = e.svc.ApproveWithdrawal(w.ID, "paid")
	require.NoError(t, err)
	_, total, err = e.svc.ListPendingWithdrawals(1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}
