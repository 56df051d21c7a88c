package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/coachdesk/coachdesk/internal/ident"
	"github.com/coachdesk/coachdesk/internal/models"
)

// FeePaymentRequest represents a fee payment. Amounts due are always computed
// server-side from the course fee, never trusted from the client.
type FeePaymentRequest struct {
	StudentID     string  `json:"student_id"`
	Amount        float64 `json:"amount"`
	PaymentMode   string  `json:"payment_mode"`
	TransactionID string  `json:"transaction_id"`
}

// CreateFeeReceipt records a student's first fee payment and renders the
// receipt PDF. One receipt per student; later payments go through
// UpdateFeeReceipt.
func (h *Handler) CreateFeeReceipt(w http.ResponseWriter, r *http.Request) {
	var req FeePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.StudentID == "" {
		h.Error(w, http.StatusBadRequest, "student_id is required")
		return
	}
	if req.Amount <= 0 {
		h.Error(w, http.StatusBadRequest, "amount must be positive")
		return
	}

	student, err := h.db.GetStudent(r.Context(), req.StudentID)
	if err != nil {
		h.storeError(w, err, "student")
		return
	}
	if student == nil {
		h.Error(w, http.StatusNotFound, "student not found")
		return
	}

	var course *models.Course
	var totalFees float64
	if student.CourseID != "" {
		course, err = h.db.GetCourse(r.Context(), student.CourseID)
		if err != nil {
			h.storeError(w, err, "course")
			return
		}
		if course != nil {
			totalFees = course.Fees
		}
	}

	now := time.Now().UTC()
	f := &models.FeeReceipt{
		ReceiptID:       ident.New(ident.PrefixFeeReceipt, now),
		StudentID:       req.StudentID,
		PaymentNo:       1,
		PaymentMode:     req.PaymentMode,
		TransactionID:   req.TransactionID,
		Amount:          req.Amount,
		TotalCourseFees: totalFees,
		AmountPaid:      req.Amount,
		AmountDue:       totalFees - req.Amount,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	path, err := h.docs.FeeReceipt(f, student, course)
	if err != nil {
		h.log.Error().Err(err).Str("receipt_id", f.ReceiptID).Msg("receipt pdf failed")
		h.Error(w, http.StatusInternalServerError, "failed to render receipt")
		return
	}
	f.PDFPath = path

	if err := h.db.CreateFeeReceipt(r.Context(), f); err != nil {
		h.storeError(w, err, "fee receipt")
		return
	}
	h.JSON(w, http.StatusCreated, f)
}

// UpdateFeeReceipt records a follow-up payment on an existing receipt and
// regenerates the PDF.
func (h *Handler) UpdateFeeReceipt(w http.ResponseWriter, r *http.Request) {
	f, err := h.db.GetFeeReceipt(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.storeError(w, err, "fee receipt")
		return
	}
	if f == nil {
		h.Error(w, http.StatusNotFound, "fee receipt not found")
		return
	}

	var req FeePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Amount <= 0 {
		h.Error(w, http.StatusBadRequest, "amount must be positive")
		return
	}

	student, err := h.db.GetStudent(r.Context(), f.StudentID)
	if err != nil {
		h.storeError(w, err, "student")
		return
	}
	if student == nil {
		h.Error(w, http.StatusGone, "student no longer exists")
		return
	}

	var course *models.Course
	if student.CourseID != "" {
		course, _ = h.db.GetCourse(r.Context(), student.CourseID)
	}

	f.PaymentNo++
	f.Amount = req.Amount
	f.AmountPaid += req.Amount
	f.AmountDue = f.TotalCourseFees - f.AmountPaid
	if req.PaymentMode != "" {
		f.PaymentMode = req.PaymentMode
	}
	f.TransactionID = req.TransactionID
	f.UpdatedAt = time.Now().UTC()

	path, err := h.docs.FeeReceipt(f, student, course)
	if err != nil {
		h.log.Error().Err(err).Str("receipt_id", f.ReceiptID).Msg("receipt pdf failed")
		h.Error(w, http.StatusInternalServerError, "failed to render receipt")
		return
	}
	f.PDFPath = path

	if err := h.db.UpdateFeeReceipt(r.Context(), f); err != nil {
		h.storeError(w, err, "fee receipt")
		return
	}
	h.JSON(w, http.StatusOK, f)
}

// ListFeeReceipts returns all receipts, newest first.
func (h *Handler) ListFeeReceipts(w http.ResponseWriter, r *http.Request) {
	fees, err := h.db.ListFeeReceipts(r.Context())
	if err != nil {
		h.storeError(w, err, "fee receipt")
		return
	}
	if fees == nil {
		fees = []models.FeeReceipt{}
	}
	h.JSON(w, http.StatusOK, fees)
}

// GetFeeReceipt returns one receipt by id.
func (h *Handler) GetFeeReceipt(w http.ResponseWriter, r *http.Request) {
	f, err := h.db.GetFeeReceipt(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.storeError(w, err, "fee receipt")
		return
	}
	if f == nil {
		h.Error(w, http.StatusNotFound, "fee receipt not found")
		return
	}
	h.JSON(w, http.StatusOK, f)
}

// GetStudentFeeReceipt returns the receipt for a student.
func (h *Handler) GetStudentFeeReceipt(w http.ResponseWriter, r *http.Request) {
	f, err := h.db.GetFeeReceiptByStudent(r.Context(), chi.URLParam(r, "sid"))
	if err != nil {
		h.storeError(w, err, "fee receipt")
		return
	}
	if f == nil {
		h.Error(w, http.StatusNotFound, "fee receipt not found")
		return
	}
	h.JSON(w, http.StatusOK, f)
}

// DeleteFeeReceipt removes a receipt.
func (h *Handler) DeleteFeeReceipt(w http.ResponseWriter, r *http.Request) {
	if err := h.db.DeleteFeeReceipt(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.storeError(w, err, "fee receipt")
		return
	}
	h.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
