package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/coachdesk/coachdesk/internal/ident"
	"github.com/coachdesk/coachdesk/internal/metrics"
	"github.com/coachdesk/coachdesk/internal/models"
)

// CreateStudent handles student admission. Multipart form with an optional
// photo field.
func (h *Handler) CreateStudent(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxPhotoSize); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	name := sanitizeName(r.FormValue("full_name"))
	if name == "" {
		h.Error(w, http.StatusBadRequest, "full_name is required")
		return
	}
	email := r.FormValue("email")
	if email == "" || !isValidEmail(email) {
		h.Error(w, http.StatusBadRequest, "valid email is required")
		return
	}

	courseID := r.FormValue("course_id")
	if courseID != "" {
		course, err := h.db.GetCourse(r.Context(), courseID)
		if err != nil {
			h.storeError(w, err, "course")
			return
		}
		if course == nil {
			h.Error(w, http.StatusBadRequest, "course not found")
			return
		}
	}

	var passwordHash string
	if pw := r.FormValue("password"); pw != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
		if err != nil {
			h.Error(w, http.StatusInternalServerError, "failed to hash password")
			return
		}
		passwordHash = string(hash)
	}

	photo, err := h.savePhoto(r, "photo")
	if h.photoError(w, err) {
		return
	}

	now := time.Now().UTC()
	st := &models.Student{
		StudentID:     ident.New(ident.PrefixStudent, now),
		FullName:      name,
		Phone:         r.FormValue("phone"),
		Email:         email,
		Address:       r.FormValue("address"),
		GuardianName:  sanitizeName(r.FormValue("guardian_name")),
		GuardianPhone: r.FormValue("guardian_phone"),
		CourseID:      courseID,
		PhotoPath:     photo,
		PasswordHash:  passwordHash,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := h.db.CreateStudent(r.Context(), st); err != nil {
		h.storeError(w, err, "student")
		return
	}

	metrics.StudentsAdmitted.Inc()
	h.JSON(w, http.StatusCreated, st)
}

// ListStudents returns all students, newest first.
func (h *Handler) ListStudents(w http.ResponseWriter, r *http.Request) {
	students, err := h.db.ListStudents(r.Context())
	if err != nil {
		h.storeError(w, err, "student")
		return
	}
	if students == nil {
		students = []models.Student{}
	}
	h.JSON(w, http.StatusOK, students)
}

// GetStudent returns one student by id.
func (h *Handler) GetStudent(w http.ResponseWriter, r *http.Request) {
	st, err := h.db.GetStudent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.storeError(w, err, "student")
		return
	}
	if st == nil {
		h.Error(w, http.StatusNotFound, "student not found")
		return
	}
	h.JSON(w, http.StatusOK, st)
}

// UpdateStudent updates a student record. Multipart form; absent fields keep
// their stored values.
func (h *Handler) UpdateStudent(w http.ResponseWriter, r *http.Request) {
	st, err := h.db.GetStudent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.storeError(w, err, "student")
		return
	}
	if st == nil {
		h.Error(w, http.StatusNotFound, "student not found")
		return
	}

	if err := r.ParseMultipartForm(maxPhotoSize); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	if v := r.FormValue("full_name"); v != "" {
		st.FullName = sanitizeName(v)
	}
	if v := r.FormValue("phone"); v != "" {
		st.Phone = v
	}
	if v := r.FormValue("email"); v != "" {
		if !isValidEmail(v) {
			h.Error(w, http.StatusBadRequest, "invalid email")
			return
		}
		st.Email = v
	}
	if v := r.FormValue("address"); v != "" {
		st.Address = v
	}
	if v := r.FormValue("guardian_name"); v != "" {
		st.GuardianName = sanitizeName(v)
	}
	if v := r.FormValue("guardian_phone"); v != "" {
		st.GuardianPhone = v
	}
	if v := r.FormValue("course_id"); v != "" {
		course, err := h.db.GetCourse(r.Context(), v)
		if err != nil {
			h.storeError(w, err, "course")
			return
		}
		if course == nil {
			h.Error(w, http.StatusBadRequest, "course not found")
			return
		}
		st.CourseID = v
	}
	if v := r.FormValue("password"); v != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(v), bcrypt.DefaultCost)
		if err != nil {
			h.Error(w, http.StatusInternalServerError, "failed to hash password")
			return
		}
		st.PasswordHash = string(hash)
	}

	photo, err := h.savePhoto(r, "photo")
	if h.photoError(w, err) {
		return
	}
	if photo != "" {
		st.PhotoPath = photo
	}

	st.UpdatedAt = time.Now().UTC()
	if err := h.db.UpdateStudent(r.Context(), st); err != nil {
		h.storeError(w, err, "student")
		return
	}
	h.JSON(w, http.StatusOK, st)
}

// DeleteStudent removes a student and their dependent records via FK cascade.
func (h *Handler) DeleteStudent(w http.ResponseWriter, r *http.Request) {
	if err := h.db.DeleteStudent(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.storeError(w, err, "student")
		return
	}
	h.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// LoginRequest is shared by the student, teacher and counsellor login
// endpoints.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// StudentLogin verifies a student's credentials.
func (h *Handler) StudentLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	st, err := h.db.GetStudentByEmail(r.Context(), req.Email)
	if err != nil {
		h.storeError(w, err, "student")
		return
	}
	if st == nil || bcrypt.CompareHashAndPassword([]byte(st.PasswordHash), []byte(req.Password)) != nil {
		h.Error(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	h.JSON(w, http.StatusOK, st)
}
