package http

import (
	"net/http"
	"time"

	"fitcash/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type withdrawalResponse struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"`
	Points          int64      `json:"points"`
	Amount          string     `json:"amount"`
	UpiID           string     `json:"upi_id"`
	Status          string     `json:"status"`
	RequestedAt     time.Time  `json:"requested_at"`
	ProcessedAt     *time.Time `json:"processed_at,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	ApprovedBy      string     `json:"approved_by,omitempty"`
	TransactionID   string     `json:"transaction_id,omitempty"`
	FailureReason   string     `json:"failure_reason,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
}

func toWithdrawalResponse(w *domain.Withdrawal) withdrawalResponse {
	return withdrawalResponse{
		ID:              w.ID.String(),
		UserID:          w.UserID,
		Points:          w.Points,
		Amount:          w.Amount.StringFixed(2),
		UpiID:           w.UpiID,
		Status:          string(w.Status),
		RequestedAt:     w.RequestedAt,
		ProcessedAt:     w.ProcessedAt,
		CompletedAt:     w.CompletedAt,
		ApprovedBy:      w.ApprovedBy,
		TransactionID:   w.TransactionID,
		FailureReason:   w.FailureReason,
		RejectionReason: w.RejectionReason,
	}
}

func (h *Handler) createWithdrawal(w http.ResponseWriter, r *http.Request) {
	var req domain.WithdrawalReq
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	withdrawal, err := h.withdrawals.CreateWithdrawal(r.Context(), &req)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toWithdrawalResponse(withdrawal))
}

func (h *Handler) getWithdrawal(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid withdrawal id")
		return
	}

	withdrawal, err := h.withdrawals.GetWithdrawal(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toWithdrawalResponse(withdrawal))
}

func (h *Handler) approveWithdrawal(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid withdrawal id")
		return
	}

	withdrawal, err := h.withdrawals.ApproveWithdrawal(r.Context(), id, "admin")
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toWithdrawalResponse(withdrawal))
}

type rejectReq struct {
	Reason string `json:"reason" validate:"required"`
}

func (h *Handler) rejectWithdrawal(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid withdrawal id")
		return
	}

	var req rejectReq
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	withdrawal, err := h.withdrawals.RejectWithdrawal(r.Context(), id, req.Reason)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toWithdrawalResponse(withdrawal))
}

// listStuckWithdrawals surfaces processing withdrawals whose gateway call
// never resolved, e.g. after a crash mid-transfer. These are reconciled by
// an operator against the provider using the recorded transfer id.
func (h *Handler) listStuckWithdrawals(w http.ResponseWriter, r *http.Request) {
	olderThan := 15 * time.Minute
	if raw := r.URL.Query().Get("older_than"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid older_than duration")
			return
		}
		olderThan = parsed
	}

	withdrawals, err := h.withdrawals.StuckProcessing(r.Context(), olderThan)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	out := make([]withdrawalResponse, 0, len(withdrawals))
	for i := range withdrawals {
		out = append(out, toWithdrawalResponse(&withdrawals[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) getWithdrawalHistory(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	withdrawals, err := h.withdrawals.History(r.Context(), userID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	out := make([]withdrawalResponse, 0, len(withdrawals))
	for i := range withdrawals {
		out = append(out, toWithdrawalResponse(&withdrawals[i]))
	}
	writeJSON(w, http.StatusOK, out)
}
