package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/coachdesk/coachdesk/internal/ident"
	"github.com/coachdesk/coachdesk/internal/models"
)

// CourseRequest represents course create/update payloads.
type CourseRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Fees        float64 `json:"fees"`
	Duration    string  `json:"duration"`
}

// CreateCourse adds a course to the catalogue.
func (h *Handler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var req CourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	req.Name = sanitizeName(req.Name)
	if req.Name == "" {
		h.Error(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Fees < 0 {
		h.Error(w, http.StatusBadRequest, "fees must not be negative")
		return
	}

	now := time.Now().UTC()
	c := &models.Course{
		CourseID:    ident.New(ident.PrefixCourse, now),
		Name:        req.Name,
		Description: req.Description,
		Fees:        req.Fees,
		Duration:    req.Duration,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.db.CreateCourse(r.Context(), c); err != nil {
		h.storeError(w, err, "course")
		return
	}
	h.JSON(w, http.StatusCreated, c)
}

// ListCourses returns the course catalogue.
func (h *Handler) ListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.db.ListCourses(r.Context())
	if err != nil {
		h.storeError(w, err, "course")
		return
	}
	if courses == nil {
		courses = []models.Course{}
	}
	h.JSON(w, http.StatusOK, courses)
}

// GetCourse returns one course by id.
func (h *Handler) GetCourse(w http.ResponseWriter, r *http.Request) {
	c, err := h.db.GetCourse(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.storeError(w, err, "course")
		return
	}
	if c == nil {
		h.Error(w, http.StatusNotFound, "course not found")
		return
	}
	h.JSON(w, http.StatusOK, c)
}

// UpdateCourse updates a course.
func (h *Handler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	c, err := h.db.GetCourse(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.storeError(w, err, "course")
		return
	}
	if c == nil {
		h.Error(w, http.StatusNotFound, "course not found")
		return
	}

	var req CourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.Name != "" {
		c.Name = sanitizeName(req.Name)
	}
	if req.Description != "" {
		c.Description = req.Description
	}
	if req.Fees > 0 {
		c.Fees = req.Fees
	}
	if req.Duration != "" {
		c.Duration = req.Duration
	}

	c.UpdatedAt = time.Now().UTC()
	if err := h.db.UpdateCourse(r.Context(), c); err != nil {
		h.storeError(w, err, "course")
		return
	}
	h.JSON(w, http.StatusOK, c)
}

// DeleteCourse removes a course from the catalogue.
func (h *Handler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	if err := h.db.DeleteCourse(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.storeError(w, err, "course")
		return
	}
	h.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
