package port

import (
	"context"
	"time"

	"fitcash/internal/domain"

	"github.com/google/uuid"
)

type WithdrawalService interface {
	CreateWithdrawal(ctx context.Context, req *domain.WithdrawalReq) (*domain.Withdrawal, error)
	ApproveWithdrawal(ctx context.Context, id uuid.UUID, approvedBy string) (*domain.Withdrawal, error)
	RejectWithdrawal(ctx context.Context, id uuid.UUID, reason string) (*domain.Withdrawal, error)
	GetWithdrawal(ctx context.Context, id uuid.UUID) (*domain.Withdrawal, error)
	History(ctx context.Context, userID string) ([]domain.Withdrawal, error)
	// StuckProcessing lists withdrawals whose gateway call started more
	// than olderThan ago and never resolved, for manual reconciliation.
	StuckProcessing(ctx context.Context, olderThan time.Duration) ([]domain.Withdrawal, error)
}

type AttemptService interface {
	SubmitAttempt(ctx context.Context, req *domain.AttemptReq) (*domain.Attempt, error)
	ApproveAttempt(ctx context.Context, id uuid.UUID, repCount int64) (*domain.Attempt, error)
	RejectAttempt(ctx context.Context, id uuid.UUID, reason string) (*domain.Attempt, error)
}

type LedgerService interface {
	Balance(ctx context.Context, userID string) (int64, error)
	Entries(ctx context.Context, userID string) ([]domain.LedgerEntry, error)
	LastCompletedWithdrawal(ctx context.Context, userID string) (*domain.Withdrawal, error)
}

type EligibilityService interface {
	Evaluate(ctx context.Context, userID string, now time.Time) (*domain.Eligibility, error)
}

// PayoutGateway executes a single external money transfer. Implementations
// classify every outcome, including transport errors and timeouts, into a
// TransferResult; they never let an error escape.
type PayoutGateway interface {
	Transfer(ctx context.Context, w *domain.Withdrawal) domain.TransferResult
}

// Notifier is fire-and-forget. Errors are logged by callers and never roll
// back a state transition.
type Notifier interface {
	Notify(ctx context.Context, userID string, event domain.NotificationEvent, payload map[string]any) error
}
