package postgresql

import (
	"context"
	"database/sql"
	"time"

	"fitcash/internal/domain"
	"fitcash/internal/port"

	"github.com/google/uuid"
)

type attemptRepository struct {
	db *sql.DB
}

func NewAttemptRepository(db *sql.DB) port.AttemptRepository {
	return &attemptRepository{db: db}
}

func (r *attemptRepository) Create(ctx context.Context, a *domain.Attempt) error {
	const query = `INSERT INTO attempts (id, user_id, video_url, status, rep_count, rejection_reason, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := pick(ctx, r.db).ExecContext(ctx, query,
		a.ID, a.UserID, a.VideoURL, a.Status, a.RepCount, a.RejectionReason, a.CreatedAt)
	return err
}

func (r *attemptRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Attempt, error) {
	const query = `SELECT id, user_id, video_url, status, rep_count, rejection_reason, created_at, reviewed_at
	FROM attempts WHERE id = $1`

	var a domain.Attempt
	err := pick(ctx, r.db).QueryRowContext(ctx, query, id).Scan(
		&a.ID, &a.UserID, &a.VideoURL, &a.Status, &a.RepCount, &a.RejectionReason, &a.CreatedAt, &a.ReviewedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrAttemptNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Approve is a guarded update: only a pending attempt may be approved, which
// makes a duplicate review decision a no-op conflict instead of a rewrite.
func (r *attemptRepository) Approve(ctx context.Context, id uuid.UUID, repCount int64, reviewedAt time.Time) error {
	const query = `UPDATE attempts SET status = $1, rep_count = $2, reviewed_at = $3
	WHERE id = $4 AND status = $5`

	result, err := pick(ctx, r.db).ExecContext(ctx, query,
		domain.AttemptApproved, repCount, reviewedAt, id, domain.AttemptPending)
	if err != nil {
		return err
	}
	return r.reviewOutcome(ctx, result, id)
}

func (r *attemptRepository) Reject(ctx context.Context, id uuid.UUID, reason string, reviewedAt time.Time) error {
	const query = `UPDATE attempts SET status = $1, rejection_reason = $2, reviewed_at = $3
	WHERE id = $4 AND status = $5`

	result, err := pick(ctx, r.db).ExecContext(ctx, query,
		domain.AttemptRejected, reason, reviewedAt, id, domain.AttemptPending)
	if err != nil {
		return err
	}
	return r.reviewOutcome(ctx, result, id)
}

func (r *attemptRepository) reviewOutcome(ctx context.Context, result sql.Result, id uuid.UUID) error {
	rows, _ := result.RowsAffected()
	if rows > 0 {
		return nil
	}
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return domain.ErrAlreadyReviewed
}
