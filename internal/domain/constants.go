package domain

const (
	RoleUser       = "user"
	RoleAdvertiser = "advertiser"
	RoleAdmin      = "admin"
)

// Subject types the points ledger tracks. Same strings as the roles that own
// balances; admins have no ledger account.
const (
	SubjectUser       = "user"
	SubjectAdvertiser = "advertiser"
)

const (
	PostTypePost = "post"
	PostTypeReel = "reel"
)

const (
	ReservationActive    = "active"
	ReservationCancelled = "cancelled"
)

const (
	OTPTypeVerification  = "verification"
	OTPTypePasswordReset = "password_reset"
)

// Point transaction tags.
const (
	TxAdminAdjustment = "admin_adjustment"
	TxAdminBonus      = "admin_bonus"
	TxSpentWithdrawal = "spent_withdrawal"
)

// Withdrawal request lifecycle: pending -> approved | rejected (terminal).
const (
	WithdrawalPending  = "pending"
	WithdrawalApproved = "approved"
	WithdrawalRejected = "rejected"
)

// Point request lifecycle: pending -> under_review -> approved | rejected,
// or straight from pending. cancelled is reserved for subject-side cancellation.
const (
	PointRequestPending     = "pending"
	PointRequestUnderReview = "under_review"
	PointRequestApproved    = "approved"
	PointRequestRejected    = "rejected"
	PointRequestCancelled   = "cancelled"
)

// Categories a subject may ask bonus points under.
var PointRequestTypes = map[string]bool{
	"bonus_points":       true,
	"compensation":       true,
	"refund":             true,
	"achievement_reward": true,
	"referral_bonus":     true,
	"content_quality":    true,
	"community_help":     true,
	"other":              true,
}

// MaxPointRequestAmount caps a single point request submission.
const MaxPointRequestAmount = 10000

// Reference types linking a point transaction to the workflow row that caused it.
const (
	RefWithdrawal   = "withdrawal"
	RefPointRequest = "point_request"
)

func ValidSubjectType(t string) bool {
	return t == SubjectUser || t == SubjectAdvertiser
}
