package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fitcash/internal/domain"
	"fitcash/internal/port"

	"github.com/google/uuid"
)

type withdrawalService struct {
	withdrawalRepo port.WithdrawalRepository
	ledgerRepo     port.LedgerRepository
	eligibility    port.EligibilityService
	gateway        port.PayoutGateway
	notifier       port.Notifier
	logger         *slog.Logger
}

func NewWithdrawalService(
	withdrawalRepo port.WithdrawalRepository,
	ledgerRepo port.LedgerRepository,
	eligibility port.EligibilityService,
	gateway port.PayoutGateway,
	notifier port.Notifier,
	logger *slog.Logger,
) port.WithdrawalService {
	return &withdrawalService{
		withdrawalRepo: withdrawalRepo,
		ledgerRepo:     ledgerRepo,
		eligibility:    eligibility,
		gateway:        gateway,
		notifier:       notifier,
		logger:         logger,
	}
}

// CreateWithdrawal validates the request, re-checks eligibility under the
// per-user lock and inserts the pending record. The lock closes the window
// where two concurrent creations could both pass the eligibility check.
func (s *withdrawalService) CreateWithdrawal(ctx context.Context, req *domain.WithdrawalReq) (*domain.Withdrawal, error) {
	if !domain.ValidWithdrawalPoints(req.Points) {
		return nil, domain.ErrInvalidAmount
	}

	var withdrawal *domain.Withdrawal

	err := s.ledgerRepo.WithUserLock(ctx, req.UserID, func(txCtx context.Context) error {
		snapshot, err := s.eligibility.Evaluate(txCtx, req.UserID, time.Now())
		if err != nil {
			return err
		}

		if !snapshot.Eligible {
			switch {
			case snapshot.HasPendingWithdrawal:
				return domain.ErrPendingWithdrawal
			case snapshot.WeeklyLimitHit:
				return domain.ErrCooldownActive
			default:
				return domain.ErrInsufficientBalance
			}
		}

		if req.Points > snapshot.MaxWithdrawable {
			return domain.ErrInsufficientBalance
		}

		withdrawal = &domain.Withdrawal{
			ID:          uuid.New(),
			UserID:      req.UserID,
			Points:      req.Points,
			Amount:      domain.AmountForPoints(req.Points),
			UpiID:       req.UpiID,
			Status:      domain.StatusPending,
			RequestedAt: time.Now(),
		}

		return s.withdrawalRepo.Create(txCtx, withdrawal)
	})

	if err != nil {
		return nil, err
	}

	s.notify(ctx, withdrawal.UserID, domain.EventWithdrawalRequested, map[string]any{
		"withdrawal_id": withdrawal.ID.String(),
		"points":        withdrawal.Points,
		"amount":        withdrawal.Amount.String(),
	})

	return withdrawal, nil
}

// ApproveWithdrawal drives pending -> processing -> completed|failed. The
// pending guard makes a duplicate approval a conflict, not a second payout.
func (s *withdrawalService) ApproveWithdrawal(ctx context.Context, id uuid.UUID, approvedBy string) (*domain.Withdrawal, error) {
	withdrawal, err := s.withdrawalRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	processedAt := time.Now()
	if err := s.withdrawalRepo.MarkProcessing(ctx, id, approvedBy, processedAt); err != nil {
		return nil, err
	}
	withdrawal.Status = domain.StatusProcessing
	withdrawal.ApprovedBy = approvedBy
	withdrawal.ProcessedAt = &processedAt

	result := s.gateway.Transfer(ctx, withdrawal)
	if !result.Success {
		return s.failWithdrawal(ctx, withdrawal, result.Reason)
	}

	completedAt := time.Now()
	err = s.ledgerRepo.WithUserLock(ctx, withdrawal.UserID, func(txCtx context.Context) error {
		if err := s.withdrawalRepo.Complete(txCtx, id, result.TransactionID, completedAt); err != nil {
			return err
		}
		return s.ledgerRepo.Append(txCtx, &domain.LedgerEntry{
			ID:           uuid.New(),
			UserID:       withdrawal.UserID,
			Kind:         domain.LedgerWithdraw,
			Points:       withdrawal.Points,
			Source:       "withdrawal",
			WithdrawalID: &withdrawal.ID,
			CreatedAt:    completedAt,
		})
	})
	if err != nil {
		// Money has moved but the points were not deducted. Loudest
		// failure mode in the system; must be reconciled by an operator
		// using the recorded transaction id, never retried automatically.
		s.logger.Error("consistency_alert: transfer succeeded but completion could not be committed",
			"withdrawal_id", id.String(),
			"user_id", withdrawal.UserID,
			"transaction_id", result.TransactionID,
			"transfer_id", result.TransferID,
			"error", err)
		return nil, fmt.Errorf("%w: withdrawal %s, transaction %s", domain.ErrConsistency, id, result.TransactionID)
	}

	withdrawal.Status = domain.StatusCompleted
	withdrawal.TransactionID = result.TransactionID
	withdrawal.CompletedAt = &completedAt

	s.notify(ctx, withdrawal.UserID, domain.EventWithdrawalCompleted, map[string]any{
		"withdrawal_id":  withdrawal.ID.String(),
		"points":         withdrawal.Points,
		"amount":         withdrawal.Amount.String(),
		"transaction_id": result.TransactionID,
	})

	return withdrawal, nil
}

func (s *withdrawalService) failWithdrawal(ctx context.Context, withdrawal *domain.Withdrawal, reason string) (*domain.Withdrawal, error) {
	if err := s.withdrawalRepo.MarkFailed(ctx, withdrawal.ID, reason); err != nil {
		return nil, err
	}
	withdrawal.Status = domain.StatusFailed
	withdrawal.FailureReason = reason

	s.notify(ctx, withdrawal.UserID, domain.EventWithdrawalFailed, map[string]any{
		"withdrawal_id": withdrawal.ID.String(),
		"reason":        reason,
	})

	return withdrawal, nil
}

func (s *withdrawalService) RejectWithdrawal(ctx context.Context, id uuid.UUID, reason string) (*domain.Withdrawal, error) {
	withdrawal, err := s.withdrawalRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.withdrawalRepo.MarkRejected(ctx, id, reason); err != nil {
		return nil, err
	}
	withdrawal.Status = domain.StatusRejected
	withdrawal.RejectionReason = reason

	s.notify(ctx, withdrawal.UserID, domain.EventWithdrawalRejected, map[string]any{
		"withdrawal_id": withdrawal.ID.String(),
		"reason":        reason,
	})

	return withdrawal, nil
}

func (s *withdrawalService) GetWithdrawal(ctx context.Context, id uuid.UUID) (*domain.Withdrawal, error) {
	return s.withdrawalRepo.GetByID(ctx, id)
}

func (s *withdrawalService) History(ctx context.Context, userID string) ([]domain.Withdrawal, error) {
	return s.withdrawalRepo.ListByUser(ctx, userID)
}

func (s *withdrawalService) StuckProcessing(ctx context.Context, olderThan time.Duration) ([]domain.Withdrawal, error) {
	return s.withdrawalRepo.ListStuckProcessing(ctx, time.Now().Add(-olderThan))
}

// notify is fire-and-forget: notifier failures never roll back a transition.
func (s *withdrawalService) notify(ctx context.Context, userID string, event domain.NotificationEvent, payload map[string]any) {
	if err := s.notifier.Notify(ctx, userID, event, payload); err != nil {
		s.logger.Warn("notification failed", "user_id", userID, "event", string(event), "error", err)
	}
}
