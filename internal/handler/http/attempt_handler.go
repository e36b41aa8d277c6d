package http

import (
	"net/http"
	"time"

	"fitcash/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type attemptResponse struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"`
	VideoURL        string     `json:"video_url"`
	Status          string     `json:"status"`
	RepCount        int64      `json:"rep_count"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
}

func toAttemptResponse(a *domain.Attempt) attemptResponse {
	return attemptResponse{
		ID:              a.ID.String(),
		UserID:          a.UserID,
		VideoURL:        a.VideoURL,
		Status:          string(a.Status),
		RepCount:        a.RepCount,
		RejectionReason: a.RejectionReason,
		CreatedAt:       a.CreatedAt,
		ReviewedAt:      a.ReviewedAt,
	}
}

func (h *Handler) submitAttempt(w http.ResponseWriter, r *http.Request) {
	var req domain.AttemptReq
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	attempt, err := h.attempts.SubmitAttempt(r.Context(), &req)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAttemptResponse(attempt))
}

type approveAttemptReq struct {
	RepCount int64 `json:"rep_count" validate:"gt=0"`
}

func (h *Handler) approveAttempt(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid attempt id")
		return
	}

	var req approveAttemptReq
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	attempt, err := h.attempts.ApproveAttempt(r.Context(), id, req.RepCount)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAttemptResponse(attempt))
}

func (h *Handler) rejectAttempt(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid attempt id")
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

	attempt, err := h.attempts.RejectAttempt(r.Context(), id, req.Reason)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAttemptResponse(attempt))
}
