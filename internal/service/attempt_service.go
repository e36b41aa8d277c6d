package service

import (
	"context"
	"errors"
	"time"

	"fitcash/internal/domain"
	"fitcash/internal/port"

	"github.com/google/uuid"
)

type attemptService struct {
	attemptRepo port.AttemptRepository
	ledgerRepo  port.LedgerRepository
}

func NewAttemptService(
	attemptRepo port.AttemptRepository,
	ledgerRepo port.LedgerRepository,
) port.AttemptService {
	return &attemptService{
		attemptRepo: attemptRepo,
		ledgerRepo:  ledgerRepo,
	}
}

func (s *attemptService) SubmitAttempt(ctx context.Context, req *domain.AttemptReq) (*domain.Attempt, error) {
	attempt := &domain.Attempt{
		ID:        uuid.New(),
		UserID:    req.UserID,
		VideoURL:  req.VideoURL,
		Status:    domain.AttemptPending,
		CreatedAt: time.Now(),
	}

	if err := s.attemptRepo.Create(ctx, attempt); err != nil {
		return nil, err
	}
	return attempt, nil
}

// ApproveAttempt fixes the rep count and journals the earn entry in the same
// transaction, so an approved attempt and its ledger entry appear together
// or not at all.
func (s *attemptService) ApproveAttempt(ctx context.Context, id uuid.UUID, repCount int64) (*domain.Attempt, error) {
	if repCount <= 0 {
		return nil, errors.New("rep count must be positive")
	}

	attempt, err := s.attemptRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	reviewedAt := time.Now()
	err = s.ledgerRepo.WithUserLock(ctx, attempt.UserID, func(txCtx context.Context) error {
		if err := s.attemptRepo.Approve(txCtx, id, repCount, reviewedAt); err != nil {
			return err
		}
		return s.ledgerRepo.Append(txCtx, &domain.LedgerEntry{
			ID:        uuid.New(),
			UserID:    attempt.UserID,
			Kind:      domain.LedgerEarn,
			Points:    domain.PointsForReps(repCount),
			Source:    "attempt_approval",
			AttemptID: &attempt.ID,
			CreatedAt: reviewedAt,
		})
	})
	if err != nil {
		return nil, err
	}

	attempt.Status = domain.AttemptApproved
	attempt.RepCount = repCount
	attempt.ReviewedAt = &reviewedAt
	return attempt, nil
}

func (s *attemptService) RejectAttempt(ctx context.Context, id uuid.UUID, reason string) (*domain.Attempt, error) {
	attempt, err := s.attemptRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	reviewedAt := time.Now()
	if err := s.attemptRepo.Reject(ctx, id, reason, reviewedAt); err != nil {
		return nil, err
	}

	attempt.Status = domain.AttemptRejected
	attempt.RejectionReason = reason
	attempt.ReviewedAt = &reviewedAt
	return attempt, nil
}
