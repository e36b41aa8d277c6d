package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) getEligibility(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	snapshot, err := h.eligibility.Evaluate(r.Context(), userID, time.Now())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

type ledgerEntryResponse struct {
	ID           string    `json:"id"`
	Kind         string    `json:"kind"`
	Points       int64     `json:"points"`
	Source       string    `json:"source"`
	AttemptID    string    `json:"attempt_id,omitempty"`
	WithdrawalID string    `json:"withdrawal_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func (h *Handler) getLedger(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	entries, err := h.ledger.Entries(r.Context(), userID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	balance, err := h.ledger.Balance(r.Context(), userID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	out := make([]ledgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp := ledgerEntryResponse{
			ID:        e.ID.String(),
			Kind:      string(e.Kind),
			Points:    e.Points,
			Source:    e.Source,
			CreatedAt: e.CreatedAt,
		}
		if e.AttemptID != nil {
			resp.AttemptID = e.AttemptID.String()
		}
		if e.WithdrawalID != nil {
			resp.WithdrawalID = e.WithdrawalID.String()
		}
		out = append(out, resp)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"balance": balance,
		"entries": out,
	})
}
