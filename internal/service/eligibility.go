package service

import (
	"context"
	"time"

	"fitcash/internal/domain"
	"fitcash/internal/port"
)

type eligibilityService struct {
	ledger         port.LedgerService
	withdrawalRepo port.WithdrawalRepository
}

func NewEligibilityService(
	ledger port.LedgerService,
	withdrawalRepo port.WithdrawalRepository,
) port.EligibilityService {
	return &eligibilityService{
		ledger:         ledger,
		withdrawalRepo: withdrawalRepo,
	}
}

// Evaluate recomputes the snapshot from current state on every call. The
// context may carry a transaction, in which case all reads join it.
func (s *eligibilityService) Evaluate(ctx context.Context, userID string, now time.Time) (*domain.Eligibility, error) {
	balance, err := s.ledger.Balance(ctx, userID)
	if err != nil {
		return nil, err
	}

	open, err := s.withdrawalRepo.GetOpenByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	last, err := s.ledger.LastCompletedWithdrawal(ctx, userID)
	if err != nil {
		return nil, err
	}

	var lastCompletedAt *time.Time
	if last != nil {
		lastCompletedAt = last.CompletedAt
	}

	snapshot := Snapshot(balance, open != nil, lastCompletedAt, now)
	return &snapshot, nil
}

// Snapshot is the pure eligibility rule: enough balance, no open withdrawal,
// and outside the cooldown window after the last completed one.
func Snapshot(balance int64, hasOpen bool, lastCompletedAt *time.Time, now time.Time) domain.Eligibility {
	e := domain.Eligibility{
		CurrentPoints:        balance,
		MinimumRequired:      domain.MinWithdrawalPoints,
		HasPendingWithdrawal: hasOpen,
		MaxWithdrawable:      domain.MaxWithdrawable(balance),
	}

	if lastCompletedAt != nil && now.Sub(*lastCompletedAt) < domain.WithdrawalCooldown {
		e.WeeklyLimitHit = true
		next := lastCompletedAt.Add(domain.WithdrawalCooldown)
		e.NextEligibleDate = &next
	}

	e.Eligible = balance >= domain.MinWithdrawalPoints && !hasOpen && !e.WeeklyLimitHit
	return e
}
