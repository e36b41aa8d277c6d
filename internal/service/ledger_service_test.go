package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestBalance(t *testing.T) {
	ledgerRepo := new(MockLedgerRepository)
	withdrawalRepo := new(MockWithdrawalRepository)
	svc := NewLedgerService(ledgerRepo, withdrawalRepo, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ledgerRepo.On("Totals", mock.Anything, "9876500001").Return(int64(2500), int64(1000), nil)

	balance, err := svc.Balance(context.Background(), "9876500001")

	assert.NoError(t, err)
	assert.Equal(t, int64(1500), balance)
}

func TestBalance_NegativeClampsToZero(t *testing.T) {
	ledgerRepo := new(MockLedgerRepository)
	withdrawalRepo := new(MockWithdrawalRepository)
	svc := NewLedgerService(ledgerRepo, withdrawalRepo, slog.New(slog.NewTextHandler(io.Discard, nil)))

	// Withdrawn exceeding earned means corrupt data; callers still get a
	// usable, non-negative number.
	ledgerRepo.On("Totals", mock.Anything, "9876500001").Return(int64(1000), int64(3000), nil)

	balance, err := svc.Balance(context.Background(), "9876500001")

	assert.NoError(t, err)
	assert.Equal(t, int64(0), balance)
}
