package service

import (
	"context"
	"log/slog"

	"fitcash/internal/domain"
	"fitcash/internal/port"
)

type ledgerService struct {
	ledgerRepo     port.LedgerRepository
	withdrawalRepo port.WithdrawalRepository
	logger         *slog.Logger
}

func NewLedgerService(
	ledgerRepo port.LedgerRepository,
	withdrawalRepo port.WithdrawalRepository,
	logger *slog.Logger,
) port.LedgerService {
	return &ledgerService{
		ledgerRepo:     ledgerRepo,
		withdrawalRepo: withdrawalRepo,
		logger:         logger,
	}
}

// Balance never returns a negative number. A negative sum means the ledger
// is corrupt; it is clamped to zero and reported, not failed.
func (s *ledgerService) Balance(ctx context.Context, userID string) (int64, error) {
	earned, withdrawn, err := s.ledgerRepo.Totals(ctx, userID)
	if err != nil {
		return 0, err
	}

	balance := earned - withdrawn
	if balance < 0 {
		s.logger.Warn("negative ledger balance clamped to zero",
			"user_id", userID, "earned", earned, "withdrawn", withdrawn)
		return 0, nil
	}
	return balance, nil
}

func (s *ledgerService) Entries(ctx context.Context, userID string) ([]domain.LedgerEntry, error) {
	return s.ledgerRepo.ListByUser(ctx, userID)
}

func (s *ledgerService) LastCompletedWithdrawal(ctx context.Context, userID string) (*domain.Withdrawal, error) {
	return s.withdrawalRepo.LastCompleted(ctx, userID)
}
