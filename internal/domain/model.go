package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Conversion constants. These are part of the product contract and must not
// be made configurable.
const (
	// Points per approved rep is 2.5, applied as reps*5/2 to stay in
	// integer arithmetic. Half points are floored.
	PointsPerRepNumerator   int64 = 5
	PointsPerRepDenominator int64 = 2

	// PointsPerRupee converts points into currency units: amount = points/10.
	PointsPerRupee int64 = 10

	MinWithdrawalPoints int64 = 1000
	WithdrawalStep      int64 = 1000

	WithdrawalCooldown = 7 * 24 * time.Hour
)

type AttemptStatus string

const (
	AttemptPending  AttemptStatus = "pending"
	AttemptApproved AttemptStatus = "approved"
	AttemptRejected AttemptStatus = "rejected"
)

type LedgerKind string

const (
	LedgerEarn     LedgerKind = "earn"
	LedgerWithdraw LedgerKind = "withdraw"
)

type WithdrawalStatus string

const (
	StatusPending    WithdrawalStatus = "pending"
	StatusProcessing WithdrawalStatus = "processing"
	StatusCompleted  WithdrawalStatus = "completed"
	StatusFailed     WithdrawalStatus = "failed"
	StatusRejected   WithdrawalStatus = "rejected"
)

// Open reports whether the status still occupies the user's single
// in-flight withdrawal slot.
func (s WithdrawalStatus) Open() bool {
	return s == StatusPending || s == StatusProcessing
}

type NotificationEvent string

const (
	EventWithdrawalRequested NotificationEvent = "withdrawal_requested"
	EventWithdrawalCompleted NotificationEvent = "withdrawal_completed"
	EventWithdrawalFailed    NotificationEvent = "withdrawal_failed"
	EventWithdrawalRejected  NotificationEvent = "withdrawal_rejected"
)

// Attempt is a submitted exercise session. RepCount is authoritative only
// once the attempt is approved.
type Attempt struct {
	ID              uuid.UUID
	UserID          string
	VideoURL        string
	Status          AttemptStatus
	RepCount        int64
	RejectionReason string
	CreatedAt       time.Time
	ReviewedAt      *time.Time
}

// LedgerEntry is one append-only point-affecting event. Points always carry
// a positive magnitude; Kind decides the sign during aggregation.
type LedgerEntry struct {
	ID           uuid.UUID
	UserID       string
	Kind         LedgerKind
	Points       int64
	Source       string
	AttemptID    *uuid.UUID
	WithdrawalID *uuid.UUID
	CreatedAt    time.Time
}

type Withdrawal struct {
	ID              uuid.UUID
	UserID          string
	Points          int64
	Amount          decimal.Decimal
	UpiID           string
	Status          WithdrawalStatus
	RequestedAt     time.Time
	ProcessedAt     *time.Time
	CompletedAt     *time.Time
	ApprovedBy      string
	TransactionID   string
	FailureReason   string
	RejectionReason string
}

type WithdrawalReq struct {
	UserID string `json:"user_id" validate:"required"`
	Points int64  `json:"points" validate:"gt=0"`
	UpiID  string `json:"upi_id" validate:"required,contains=@"`
}

type AttemptReq struct {
	UserID   string `json:"user_id" validate:"required"`
	VideoURL string `json:"video_url" validate:"required,url"`
}

// Eligibility is the point-in-time answer to whether a user may withdraw.
// It is recomputed on every call and never cached.
type Eligibility struct {
	Eligible             bool       `json:"eligible"`
	CurrentPoints        int64      `json:"current_points"`
	MinimumRequired      int64      `json:"minimum_required"`
	HasPendingWithdrawal bool       `json:"has_pending_withdrawal"`
	WeeklyLimitHit       bool       `json:"weekly_limit_hit"`
	NextEligibleDate     *time.Time `json:"next_eligible_date,omitempty"`
	MaxWithdrawable      int64      `json:"max_withdrawable"`
}

// TransferResult classifies a payout gateway outcome. Exactly one of the two
// shapes is meaningful: success carries a transaction id, failure a reason.
type TransferResult struct {
	Success       bool
	TransactionID string
	Reason        string
	TransferID    string
}

// PointsForReps converts an approved repetition count into points.
func PointsForReps(reps int64) int64 {
	return reps * PointsPerRepNumerator / PointsPerRepDenominator
}

// AmountForPoints converts points into currency units.
func AmountForPoints(points int64) decimal.Decimal {
	return decimal.NewFromInt(points).Div(decimal.NewFromInt(PointsPerRupee))
}

// MaxWithdrawable floors a balance to the largest requestable multiple of
// the withdrawal step. Below the minimum it is always zero.
func MaxWithdrawable(balance int64) int64 {
	if balance < MinWithdrawalPoints {
		return 0
	}
	return balance / WithdrawalStep * WithdrawalStep
}

// ValidWithdrawalPoints reports whether points is a positive multiple of the
// withdrawal step.
func ValidWithdrawalPoints(points int64) bool {
	return points > 0 && points%WithdrawalStep == 0
}
