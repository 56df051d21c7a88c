package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/coachdesk/coachdesk/internal/models"
)

// ListCommissions returns all commissions, newest first.
func (h *Handler) ListCommissions(w http.ResponseWriter, r *http.Request) {
	commissions, err := h.db.ListCommissions(r.Context())
	if err != nil {
		h.storeError(w, err, "commission")
		return
	}
	if commissions == nil {
		commissions = []models.Commission{}
	}
	h.JSON(w, http.StatusOK, commissions)
}

// GetCommission returns one commission by id.
func (h *Handler) GetCommission(w http.ResponseWriter, r *http.Request) {
	c, err := h.db.GetCommission(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.storeError(w, err, "commission")
		return
	}
	if c == nil {
		h.Error(w, http.StatusNotFound, "commission not found")
		return
	}
	h.JSON(w, http.StatusOK, c)
}

// ListCounsellorCommissions returns one counsellor's commissions.
func (h *Handler) ListCounsellorCommissions(w http.ResponseWriter, r *http.Request) {
	counsellorID := chi.URLParam(r, "cid")

	counsellor, err := h.db.GetCounsellor(r.Context(), counsellorID)
	if err != nil {
		h.storeError(w, err, "counsellor")
		return
	}
	if counsellor == nil {
		h.Error(w, http.StatusNotFound, "counsellor not found")
		return
	}

	commissions, err := h.db.ListCommissionsByCounsellor(r.Context(), counsellorID)
	if err != nil {
		h.storeError(w, err, "commission")
		return
	}
	if commissions == nil {
		commissions = []models.Commission{}
	}
	h.JSON(w, http.StatusOK, commissions)
}

// CommissionPaymentRequest represents the payment settlement payload.
type CommissionPaymentRequest struct {
	TransactionID string `json:"transaction_id"`
}

// PayCommission marks a commission paid with its settlement transaction id.
func (h *Handler) PayCommission(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req CommissionPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.TransactionID == "" {
		h.Error(w, http.StatusBadRequest, "transaction_id is required")
		return
	}

	if err := h.db.UpdateCommissionPayment(r.Context(), id, req.TransactionID, models.CommissionPaid); err != nil {
		h.storeError(w, err, "commission")
		return
	}

	c, err := h.db.GetCommission(r.Context(), id)
	if err != nil {
		h.storeError(w, err, "commission")
		return
	}
	h.JSON(w, http.StatusOK, c)
}
