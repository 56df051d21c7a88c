package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/coachdesk/coachdesk/internal/ident"
	"github.com/coachdesk/coachdesk/internal/metrics"
	"github.com/coachdesk/coachdesk/internal/models"
)

// EnquiryRequest represents enquiry create/update payloads.
type EnquiryRequest struct {
	StudentName  string `json:"student_name"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	CourseID     string `json:"course_id"`
	CounsellorID string `json:"counsellor_id"`
	Status       string `json:"status"`
}

// CreateEnquiry records an admission enquiry. This is the public-facing
// endpoint behind the tightest rate limit.
func (h *Handler) CreateEnquiry(w http.ResponseWriter, r *http.Request) {
	var req EnquiryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	req.StudentName = sanitizeName(req.StudentName)
	if req.StudentName == "" {
		h.Error(w, http.StatusBadRequest, "student_name is required")
		return
	}
	if !isValidEmail(req.Email) {
		h.Error(w, http.StatusBadRequest, "invalid email")
		return
	}

	now := time.Now().UTC()
	e := &models.Enquiry{
		EnquiryID:    ident.New(ident.PrefixEnquiry, now),
		StudentName:  req.StudentName,
		Phone:        req.Phone,
		Email:        req.Email,
		CourseID:     req.CourseID,
		CounsellorID: req.CounsellorID,
		Status:       models.EnquiryOpen,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := h.db.CreateEnquiry(r.Context(), e); err != nil {
		h.storeError(w, err, "enquiry")
		return
	}
	h.JSON(w, http.StatusCreated, e)
}

// ListEnquiries returns all enquiries, newest first.
func (h *Handler) ListEnquiries(w http.ResponseWriter, r *http.Request) {
	enquiries, err := h.db.ListEnquiries(r.Context())
	if err != nil {
		h.storeError(w, err, "enquiry")
		return
	}
	if enquiries == nil {
		enquiries = []models.Enquiry{}
	}
	h.JSON(w, http.StatusOK, enquiries)
}

// GetEnquiry returns one enquiry by id.
func (h *Handler) GetEnquiry(w http.ResponseWriter, r *http.Request) {
	e, err := h.db.GetEnquiry(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.storeError(w, err, "enquiry")
		return
	}
	if e == nil {
		h.Error(w, http.StatusNotFound, "enquiry not found")
		return
	}
	h.JSON(w, http.StatusOK, e)
}

// UpdateEnquiry updates an enquiry. Status moves through confirm via
// ConfirmEnquiry, not here; this endpoint only allows closing or reopening.
func (h *Handler) UpdateEnquiry(w http.ResponseWriter, r *http.Request) {
	e, err := h.db.GetEnquiry(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.storeError(w, err, "enquiry")
		return
	}
	if e == nil {
		h.Error(w, http.StatusNotFound, "enquiry not found")
		return
	}

	var req EnquiryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.StudentName != "" {
		e.StudentName = sanitizeName(req.StudentName)
	}
	if req.Phone != "" {
		e.Phone = req.Phone
	}
	if req.Email != "" {
		if !isValidEmail(req.Email) {
			h.Error(w, http.StatusBadRequest, "invalid email")
			return
		}
		e.Email = req.Email
	}
	if req.CourseID != "" {
		e.CourseID = req.CourseID
	}
	if req.CounsellorID != "" {
		e.CounsellorID = req.CounsellorID
	}
	if req.Status != "" {
		switch req.Status {
		case models.EnquiryOpen, models.EnquiryClosed:
			e.Status = req.Status
		case models.EnquiryConfirmed:
			h.Error(w, http.StatusBadRequest, "use the confirm endpoint")
			return
		default:
			h.Error(w, http.StatusBadRequest, "invalid status")
			return
		}
	}

	e.UpdatedAt = time.Now().UTC()
	if err := h.db.UpdateEnquiry(r.Context(), e); err != nil {
		h.storeError(w, err, "enquiry")
		return
	}
	h.JSON(w, http.StatusOK, e)
}

// ConfirmEnquiry marks an enquiry confirmed and creates the counsellor's
// commission with its slip PDF. The commission amount is computed from the
// course fee and the counsellor's stored percentage.
func (h *Handler) ConfirmEnquiry(w http.ResponseWriter, r *http.Request) {
	e, err := h.db.GetEnquiry(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.storeError(w, err, "enquiry")
		return
	}
	if e == nil {
		h.Error(w, http.StatusNotFound, "enquiry not found")
		return
	}
	if e.Status == models.EnquiryConfirmed {
		h.Error(w, http.StatusConflict, "enquiry already confirmed")
		return
	}
	if e.CounsellorID == "" {
		h.Error(w, http.StatusBadRequest, "enquiry has no counsellor assigned")
		return
	}

	counsellor, err := h.db.GetCounsellor(r.Context(), e.CounsellorID)
	if err != nil {
		h.storeError(w, err, "counsellor")
		return
	}
	if counsellor == nil {
		h.Error(w, http.StatusGone, "counsellor no longer exists")
		return
	}

	var courseName string
	var courseFees float64
	if e.CourseID != "" {
		course, err := h.db.GetCourse(r.Context(), e.CourseID)
		if err != nil {
			h.storeError(w, err, "course")
			return
		}
		if course != nil {
			courseName = course.Name
			courseFees = course.Fees
		}
	}

	now := time.Now().UTC()
	c := &models.Commission{
		CommissionID:     ident.New(ident.PrefixCommission, now),
		CounsellorID:     e.CounsellorID,
		EnquiryID:        e.EnquiryID,
		StudentName:      e.StudentName,
		CourseID:         e.CourseID,
		CourseName:       courseName,
		CommissionPct:    counsellor.CommissionPct,
		CourseFees:       courseFees,
		CommissionAmount: courseFees * counsellor.CommissionPct / 100,
		PaymentStatus:    models.CommissionPending,
		MonthYear:        now.Format("2006-01"),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	path, err := h.docs.CommissionSlip(c, counsellor)
	if err != nil {
		h.log.Error().Err(err).Str("commission_id", c.CommissionID).Msg("commission pdf failed")
		h.Error(w, http.StatusInternalServerError, "failed to render commission slip")
		return
	}
	c.PDFPath = path

	if err := h.db.CreateCommission(r.Context(), c); err != nil {
		h.storeError(w, err, "commission")
		return
	}

	e.Status = models.EnquiryConfirmed
	e.UpdatedAt = now
	if err := h.db.UpdateEnquiry(r.Context(), e); err != nil {
		h.storeError(w, err, "enquiry")
		return
	}

	metrics.EnquiriesConfirmed.Inc()
	h.JSON(w, http.StatusOK, map[string]interface{}{
		"enquiry":    e,
		"commission": c,
	})
}

// DeleteEnquiry removes an enquiry; its commission rows cascade.
func (h *Handler) DeleteEnquiry(w http.ResponseWriter, r *http.Request) {
	if err := h.db.DeleteEnquiry(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.storeError(w, err, "enquiry")
		return
	}
	h.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
