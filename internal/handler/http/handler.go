package http

import (
	"log/slog"
	"net/http"

	"fitcash/internal/port"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	withdrawals port.WithdrawalService
	attempts    port.AttemptService
	ledger      port.LedgerService
	eligibility port.EligibilityService
	validate    *validator.Validate
	authToken   string
	logger      *slog.Logger
}

func NewHandler(
	withdrawals port.WithdrawalService,
	attempts port.AttemptService,
	ledger port.LedgerService,
	eligibility port.EligibilityService,
	authToken string,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		withdrawals: withdrawals,
		attempts:    attempts,
		ledger:      ledger,
		eligibility: eligibility,
		validate:    validator.New(),
		authToken:   authToken,
		logger:      logger,
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(h.logRequest)

	r.Get("/health", h.healthCheck)

	r.Post("/attempts", h.submitAttempt)
	r.Get("/users/{userID}/eligibility", h.getEligibility)
	r.Get("/users/{userID}/ledger", h.getLedger)
	r.Get("/users/{userID}/withdrawals", h.getWithdrawalHistory)
	r.Post("/withdrawals", h.createWithdrawal)
	r.Get("/withdrawals/{id}", h.getWithdrawal)

	// Review and settlement decisions require the operator token.
	r.Group(func(r chi.Router) {
		r.Use(h.adminOnly)
		r.Post("/attempts/{id}/approve", h.approveAttempt)
		r.Post("/attempts/{id}/reject", h.rejectAttempt)
		r.Post("/withdrawals/{id}/approve", h.approveWithdrawal)
		r.Post("/withdrawals/{id}/reject", h.rejectWithdrawal)
		r.Get("/withdrawals/stuck", h.listStuckWithdrawals)
	})

	return r
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
