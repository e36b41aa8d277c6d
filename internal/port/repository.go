package port

import (
	"context"
	"time"

	"fitcash/internal/domain"

	"github.com/google/uuid"
)

type AttemptRepository interface {
	Create(ctx context.Context, a *domain.Attempt) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Attempt, error)
	// Approve flips pending -> approved and fixes the authoritative rep
	// count. Returns domain.ErrAlreadyReviewed when the attempt is no
	// longer pending.
	Approve(ctx context.Context, id uuid.UUID, repCount int64, reviewedAt time.Time) error
	Reject(ctx context.Context, id uuid.UUID, reason string, reviewedAt time.Time) error
}

type LedgerRepository interface {
	Append(ctx context.Context, e *domain.LedgerEntry) error
	// Totals returns the positive earn and withdraw sums for a user.
	Totals(ctx context.Context, userID string) (earned int64, withdrawn int64, err error)
	ListByUser(ctx context.Context, userID string) ([]domain.LedgerEntry, error)
	// WithUserLock runs fn inside a transaction holding a per-user advisory
	// lock. The transaction is carried in the context handed to fn; every
	// repository call made with it joins the same transaction.
	WithUserLock(ctx context.Context, userID string, fn func(ctx context.Context) error) error
}

type WithdrawalRepository interface {
	// Create inserts a pending withdrawal. A second open withdrawal for the
	// same user violates the one-open-per-user index and is returned as
	// domain.ErrPendingWithdrawal.
	Create(ctx context.Context, w *domain.Withdrawal) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Withdrawal, error)
	GetOpenByUser(ctx context.Context, userID string) (*domain.Withdrawal, error)
	LastCompleted(ctx context.Context, userID string) (*domain.Withdrawal, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Withdrawal, error)
	// MarkProcessing flips pending -> processing under a status guard.
	MarkProcessing(ctx context.Context, id uuid.UUID, approvedBy string, processedAt time.Time) error
	// Complete flips processing -> completed. Callers run it together with
	// the ledger append inside one WithUserLock transaction.
	Complete(ctx context.Context, id uuid.UUID, transactionID string, completedAt time.Time) error
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) error
	MarkRejected(ctx context.Context, id uuid.UUID, reason string) error
	// ListStuckProcessing returns processing withdrawals whose gateway call
	// started before cutoff, for operator reconciliation.
	ListStuckProcessing(ctx context.Context, cutoff time.Time) ([]domain.Withdrawal, error)
}
