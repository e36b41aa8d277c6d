package postgresql

import (
	"context"
	"database/sql"
	"fmt"

	"fitcash/internal/domain"
	"fitcash/internal/port"
)

type ledgerRepository struct {
	db *sql.DB
}

func NewLedgerRepository(db *sql.DB) port.LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) Append(ctx context.Context, e *domain.LedgerEntry) error {
	const query = `INSERT INTO ledger_entries (id, user_id, kind, points, source, attempt_id, withdrawal_id, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := pick(ctx, r.db).ExecContext(ctx, query,
		e.ID, e.UserID, e.Kind, e.Points, e.Source, e.AttemptID, e.WithdrawalID, e.CreatedAt)
	return err
}

func (r *ledgerRepository) Totals(ctx context.Context, userID string) (int64, int64, error) {
	const query = `SELECT
		COALESCE(SUM(points) FILTER (WHERE kind = 'earn'), 0),
		COALESCE(SUM(points) FILTER (WHERE kind = 'withdraw'), 0)
	FROM ledger_entries WHERE user_id = $1`

	var earned, withdrawn int64
	err := pick(ctx, r.db).QueryRowContext(ctx, query, userID).Scan(&earned, &withdrawn)
	if err != nil {
		return 0, 0, err
	}
	return earned, withdrawn, nil
}

func (r *ledgerRepository) ListByUser(ctx context.Context, userID string) ([]domain.LedgerEntry, error) {
	const query = `SELECT id, user_id, kind, points, source, attempt_id, withdrawal_id, created_at
	FROM ledger_entries WHERE user_id = $1 ORDER BY created_at DESC, id DESC`

	rows, err := pick(ctx, r.db).QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []domain.LedgerEntry{}
	for rows.Next() {
		var e domain.LedgerEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Kind, &e.Points, &e.Source, &e.AttemptID, &e.WithdrawalID, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// WithUserLock serializes all point-affecting writes for one user. The
// advisory lock is transaction scoped, so it releases on commit or rollback.
func (r *ledgerRepository) WithUserLock(ctx context.Context, userID string, fn func(ctx context.Context) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, userID); err != nil {
		return fmt.Errorf("acquire user lock: %w", err)
	}

	if err := fn(withTr(ctx, tx)); err != nil {
		return err
	}

	return tx.Commit()
}
