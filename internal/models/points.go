package models

import "time"

// PointsAccount is the per-subject balance row. Created lazily on the first
// balance mutation. points_balance is clamped at zero; total_earned and
// total_spent only ever grow.
type PointsAccount struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	SubjectID     uint      `gorm:"not null;uniqueIndex:idx_points_accounts_subject" json:"subject_id"`
	SubjectType   string    `gorm:"size:20;not null;uniqueIndex:idx_points_accounts_subject" json:"subject_type"`
	PointsBalance int64     `gorm:"not null;default:0" json:"points_balance"`
	TotalEarned   int64     `gorm:"not null;default:0" json:"total_earned"`
	TotalSpent    int64     `gorm:"not null;default:0" json:"total_spent"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (PointsAccount) TableName() string { return "points_accounts" }

// PointTransaction is the append-only log of every balance mutation.
// PointsChange records the requested delta, which under clamping can differ
// from the effective balance change.
type PointTransaction struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	SubjectID       uint      `gorm:"not null;index:idx_point_transactions_subject" json:"subject_id"`
	SubjectType     string    `gorm:"size:20;not null;index:idx_point_transactions_subject" json:"subject_type"`
	TransactionType string    `gorm:"size:40;not null;index" json:"transaction_type"`
	PointsChange    int64     `gorm:"not null" json:"points_change"`
	Description     string    `gorm:"size:512" json:"description"`
	ReferenceType   string    `gorm:"size:40" json:"reference_type,omitempty"`
	ReferenceID     uint      `json:"reference_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

func (PointTransaction) TableName() string { return "point_transactions" }

// PointWithdrawal is a subject's ask to cash points out, debited only on admin
// approval.
type PointWithdrawal struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	SubjectID        uint       `gorm:"not null;index" json:"subject_id"`
	SubjectType      string     `gorm:"size:20;not null" json:"subject_type"`
	PointsAmount     int64      `gorm:"not null" json:"points_amount"`
	WithdrawalMethod string     `gorm:"size:64;not null" json:"withdrawal_method"`
	AccountDetails   string     `gorm:"size:255;not null" json:"account_details"`
	Status           string     `gorm:"size:20;not null;default:'pending';index" json:"status"`
	AdminNotes       string     `gorm:"size:512" json:"admin_notes"`
	RejectionReason  string     `gorm:"size:512" json:"rejection_reason"`
	ProcessedAt      *time.Time `json:"processed_at"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (PointWithdrawal) TableName() string { return "point_withdrawals" }

// PointRequest is a subject's ask for bonus/compensation points, credited with
// an admin-chosen amount on approval.
type PointRequest struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	SubjectID          uint       `gorm:"not null;index" json:"subject_id"`
	SubjectType        string     `gorm:"size:20;not null" json:"subject_type"`
	RequestType        string     `gorm:"size:40;not null;index" json:"request_type"`
	PointsAmount       int64      `gorm:"not null" json:"points_amount"`
	Reason             string     `gorm:"size:512;not null" json:"reason"`
	SupportingEvidence string     `gorm:"size:512" json:"supporting_evidence"`
	AdditionalDetails  string     `gorm:"type:text" json:"additional_details"`
	Status             string     `gorm:"size:20;not null;default:'pending';index" json:"status"`
	AdminNotes         string     `gorm:"size:512" json:"admin_notes"`
	ProcessedBy        *uint      `json:"processed_by"`
	ProcessedAt        *time.Time `json:"processed_at"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func (PointRequest) TableName() string { return "point_requests" }
