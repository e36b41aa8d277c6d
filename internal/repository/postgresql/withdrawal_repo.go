package postgresql

import (
	"context"
	"database/sql"
	"time"

	"fitcash/internal/domain"
	"fitcash/internal/port"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

var (
	uniqueConstraint pq.ErrorCode = "23505"
)

const withdrawalColumns = `id, user_id, points, amount, upi_id, status, requested_at,
	processed_at, completed_at, approved_by, transaction_id, failure_reason, rejection_reason`

type withdrawalRepository struct {
	db *sql.DB
}

func NewWithdrawalRepository(db *sql.DB) port.WithdrawalRepository {
	return &withdrawalRepository{db: db}
}

func (r *withdrawalRepository) Create(ctx context.Context, w *domain.Withdrawal) error {
	const query = `INSERT INTO withdrawals (id, user_id, points, amount, upi_id, status, requested_at, approved_by, transaction_id, failure_reason, rejection_reason)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := pick(ctx, r.db).ExecContext(ctx, query,
		w.ID, w.UserID, w.Points, w.Amount, w.UpiID, w.Status, w.RequestedAt,
		w.ApprovedBy, w.TransactionID, w.FailureReason, w.RejectionReason)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueConstraint {
			if pqErr.Constraint == "withdrawals_one_open_per_user" {
				return domain.ErrPendingWithdrawal
			}
		}
		return err
	}
	return nil
}

func (r *withdrawalRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Withdrawal, error) {
	const query = `SELECT ` + withdrawalColumns + ` FROM withdrawals WHERE id = $1`
	return r.scanOne(pick(ctx, r.db).QueryRowContext(ctx, query, id))
}

func (r *withdrawalRepository) GetOpenByUser(ctx context.Context, userID string) (*domain.Withdrawal, error) {
	const query = `SELECT ` + withdrawalColumns + ` FROM withdrawals
	WHERE user_id = $1 AND status IN ($2, $3)
	ORDER BY requested_at DESC LIMIT 1`

	w, err := r.scanOne(pick(ctx, r.db).QueryRowContext(ctx, query, userID, domain.StatusPending, domain.StatusProcessing))
	if err == domain.ErrWithdrawalNotFound {
		return nil, nil
	}
	return w, err
}

func (r *withdrawalRepository) LastCompleted(ctx context.Context, userID string) (*domain.Withdrawal, error) {
	const query = `SELECT ` + withdrawalColumns + ` FROM withdrawals
	WHERE user_id = $1 AND status = $2
	ORDER BY completed_at DESC LIMIT 1`

	w, err := r.scanOne(pick(ctx, r.db).QueryRowContext(ctx, query, userID, domain.StatusCompleted))
	if err == domain.ErrWithdrawalNotFound {
		return nil, nil
	}
	return w, err
}

func (r *withdrawalRepository) ListByUser(ctx context.Context, userID string) ([]domain.Withdrawal, error) {
	const query = `SELECT ` + withdrawalColumns + ` FROM withdrawals
	WHERE user_id = $1 ORDER BY requested_at DESC`

	rows, err := pick(ctx, r.db).QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	withdrawals := []domain.Withdrawal{}
	for rows.Next() {
		var w domain.Withdrawal
		if err := scanWithdrawal(rows, &w); err != nil {
			return nil, err
		}
		withdrawals = append(withdrawals, w)
	}
	return withdrawals, rows.Err()
}

// MarkProcessing is the compare-and-swap guard against duplicate approvals:
// the update only matches while the row is still pending, so the second of
// two concurrent approvals sees zero rows and a conflict error.
func (r *withdrawalRepository) MarkProcessing(ctx context.Context, id uuid.UUID, approvedBy string, processedAt time.Time) error {
	const query = `UPDATE withdrawals SET status = $1, approved_by = $2, processed_at = $3
	WHERE id = $4 AND status = $5`

	result, err := pick(ctx, r.db).ExecContext(ctx, query,
		domain.StatusProcessing, approvedBy, processedAt, id, domain.StatusPending)
	if err != nil {
		return err
	}
	return r.transitionOutcome(ctx, result, id)
}

func (r *withdrawalRepository) Complete(ctx context.Context, id uuid.UUID, transactionID string, completedAt time.Time) error {
	const query = `UPDATE withdrawals SET status = $1, transaction_id = $2, completed_at = $3
	WHERE id = $4 AND status = $5`

	result, err := pick(ctx, r.db).ExecContext(ctx, query,
		domain.StatusCompleted, transactionID, completedAt, id, domain.StatusProcessing)
	if err != nil {
		return err
	}
	return r.transitionOutcome(ctx, result, id)
}

func (r *withdrawalRepository) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	const query = `UPDATE withdrawals SET status = $1, failure_reason = $2
	WHERE id = $3 AND status = $4`

	result, err := pick(ctx, r.db).ExecContext(ctx, query,
		domain.StatusFailed, reason, id, domain.StatusProcessing)
	if err != nil {
		return err
	}
	return r.transitionOutcome(ctx, result, id)
}

func (r *withdrawalRepository) MarkRejected(ctx context.Context, id uuid.UUID, reason string) error {
	const query = `UPDATE withdrawals SET status = $1, rejection_reason = $2
	WHERE id = $3 AND status = $4`

	result, err := pick(ctx, r.db).ExecContext(ctx, query,
		domain.StatusRejected, reason, id, domain.StatusPending)
	if err != nil {
		return err
	}
	return r.transitionOutcome(ctx, result, id)
}

func (r *withdrawalRepository) ListStuckProcessing(ctx context.Context, cutoff time.Time) ([]domain.Withdrawal, error) {
	const query = `SELECT ` + withdrawalColumns + ` FROM withdrawals
	WHERE status = $1 AND processed_at < $2 ORDER BY processed_at`

	rows, err := pick(ctx, r.db).QueryContext(ctx, query, domain.StatusProcessing, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	withdrawals := []domain.Withdrawal{}
	for rows.Next() {
		var w domain.Withdrawal
		if err := scanWithdrawal(rows, &w); err != nil {
			return nil, err
		}
		withdrawals = append(withdrawals, w)
	}
	return withdrawals, rows.Err()
}

func (r *withdrawalRepository) transitionOutcome(ctx context.Context, result sql.Result, id uuid.UUID) error {
	rows, _ := result.RowsAffected()
	if rows > 0 {
		return nil
	}
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return domain.ErrAlreadyProcessed
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *withdrawalRepository) scanOne(row *sql.Row) (*domain.Withdrawal, error) {
	var w domain.Withdrawal
	err := scanWithdrawal(row, &w)
	if err == sql.ErrNoRows {
		return nil, domain.ErrWithdrawalNotFound
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func scanWithdrawal(row rowScanner, w *domain.Withdrawal) error {
	return row.Scan(
		&w.ID, &w.UserID, &w.Points, &w.Amount, &w.UpiID, &w.Status, &w.RequestedAt,
		&w.ProcessedAt, &w.CompletedAt, &w.ApprovedBy, &w.TransactionID, &w.FailureReason, &w.RejectionReason,
	)
}
