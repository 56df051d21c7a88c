package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/coachdesk/coachdesk/internal/ident"
	"github.com/coachdesk/coachdesk/internal/models"
)

// SalaryRequest represents one month's salary entry. TotalSalary is computed
// server-side as basic plus allowances minus deductions.
type SalaryRequest struct {
	Month         int     `json:"month"`
	Year          int     `json:"year"`
	BasicSalary   float64 `json:"basic_salary"`
	PF            float64 `json:"pf"`
	SI            float64 `json:"si"`
	DA            float64 `json:"da"`
	PA            float64 `json:"pa"`
	TransactionID string  `json:"transaction_id"`
}

// CreateSalariesRequest represents the batch salary creation payload for one
// teacher.
type CreateSalariesRequest struct {
	TeacherID string          `json:"teacher_id"`
	Entries   []SalaryRequest `json:"entries"`
}

func salaryTotal(req SalaryRequest) float64 {
	return req.BasicSalary + req.DA + req.PA - req.PF - req.SI
}

// CreateSalaries records salary entries for a teacher, one slip PDF each. A
// duplicate month/year entry for the teacher is rejected by the store.
func (h *Handler) CreateSalaries(w http.ResponseWriter, r *http.Request) {
	var req CreateSalariesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.TeacherID == "" {
		h.Error(w, http.StatusBadRequest, "teacher_id is required")
		return
	}
	if len(req.Entries) == 0 {
		h.Error(w, http.StatusBadRequest, "at least one entry is required")
		return
	}

	teacher, err := h.db.GetTeacher(r.Context(), req.TeacherID)
	if err != nil {
		h.storeError(w, err, "teacher")
		return
	}
	if teacher == nil {
		h.Error(w, http.StatusNotFound, "teacher not found")
		return
	}

	created := make([]models.Salary, 0, len(req.Entries))
	for _, entry := range req.Entries {
		if entry.Month < 1 || entry.Month > 12 {
			h.Error(w, http.StatusBadRequest, "month must be between 1 and 12")
			return
		}
		if entry.Year < 2000 {
			h.Error(w, http.StatusBadRequest, "year is out of range")
			return
		}

		now := time.Now().UTC()
		sa := &models.Salary{
			SalaryID:      ident.New(ident.PrefixSalary, now),
			TeacherID:     req.TeacherID,
			Month:         entry.Month,
			Year:          entry.Year,
			BasicSalary:   entry.BasicSalary,
			PF:            entry.PF,
			SI:            entry.SI,
			DA:            entry.DA,
			PA:            entry.PA,
			TotalSalary:   salaryTotal(entry),
			TransactionID: entry.TransactionID,
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		path, err := h.docs.SalarySlip(sa, teacher)
		if err != nil {
			h.log.Error().Err(err).Str("salary_id", sa.SalaryID).Msg("salary pdf failed")
			h.Error(w, http.StatusInternalServerError, "failed to render salary slip")
			return
		}
		sa.PDFPath = path

		if err := h.db.CreateSalary(r.Context(), sa); err != nil {
			h.storeError(w, err, "salary")
			return
		}
		created = append(created, *sa)
	}

	h.JSON(w, http.StatusCreated, created)
}

// ListTeacherSalaries returns a teacher's salary history in month order.
func (h *Handler) ListTeacherSalaries(w http.ResponseWriter, r *http.Request) {
	teacherID := chi.URLParam(r, "tid")

	teacher, err := h.db.GetTeacher(r.Context(), teacherID)
	if err != nil {
		h.storeError(w, err, "teacher")
		return
	}
	if teacher == nil {
		h.Error(w, http.StatusNotFound, "teacher not found")
		return
	}

	salaries, err := h.db.ListSalariesByTeacher(r.Context(), teacherID)
	if err != nil {
		h.storeError(w, err, "salary")
		return
	}
	if salaries == nil {
		salaries = []models.Salary{}
	}
	h.JSON(w, http.StatusOK, salaries)
}

// UpdateSalary amends a salary entry and regenerates its slip.
func (h *Handler) UpdateSalary(w http.ResponseWriter, r *http.Request) {
	sa, err := h.db.GetSalary(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.storeError(w, err, "salary")
		return
	}
	if sa == nil {
		h.Error(w, http.StatusNotFound, "salary not found")
		return
	}

	var req SalaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.Month != 0 {
		if req.Month < 1 || req.Month > 12 {
			h.Error(w, http.StatusBadRequest, "month must be between 1 and 12")
			return
		}
		sa.Month = req.Month
	}
	if req.Year != 0 {
		sa.Year = req.Year
	}
	if req.BasicSalary != 0 {
		sa.BasicSalary = req.BasicSalary
	}
	sa.PF = req.PF
	sa.SI = req.SI
	sa.DA = req.DA
	sa.PA = req.PA
	sa.TotalSalary = sa.BasicSalary + sa.DA + sa.PA - sa.PF - sa.SI
	if req.TransactionID != "" {
		sa.TransactionID = req.TransactionID
	}
	sa.UpdatedAt = time.Now().UTC()

	teacher, err := h.db.GetTeacher(r.Context(), sa.TeacherID)
	if err != nil {
		h.storeError(w, err, "teacher")
		return
	}
	if teacher == nil {
		h.Error(w, http.StatusGone, "teacher no longer exists")
		return
	}

	path, err := h.docs.SalarySlip(sa, teacher)
	if err != nil {
		h.log.Error().Err(err).Str("salary_id", sa.SalaryID).Msg("salary pdf failed")
		h.Error(w, http.StatusInternalServerError, "failed to render salary slip")
		return
	}
	sa.PDFPath = path

	if err := h.db.UpdateSalary(r.Context(), sa); err != nil {
		h.storeError(w, err, "salary")
		return
	}
	h.JSON(w, http.StatusOK, sa)
}

// DeleteSalary removes a salary entry.
func (h *Handler) DeleteSalary(w http.ResponseWriter, r *http.Request) {
	if err := h.db.DeleteSalary(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.storeError(w, err, "salary")
		return
	}
	h.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
