package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/coachdesk/coachdesk/internal/ident"
	"github.com/coachdesk/coachdesk/internal/models"
)

// CreateTeacher handles teacher onboarding. Multipart form with an optional
// photo field.
func (h *Handler) CreateTeacher(w http.ResponseWriter, r *http.Request) {
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
	t := &models.Teacher{
		TeacherID:       ident.New(ident.PrefixTeacher, now),
		FullName:        name,
		Phone:           r.FormValue("phone"),
		Email:           email,
		Subject:         r.FormValue("subject"),
		BankAccountName: r.FormValue("bank_account_name"),
		BankBranch:      r.FormValue("bank_branch"),
		PhotoPath:       photo,
		PasswordHash:    passwordHash,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := h.db.CreateTeacher(r.Context(), t); err != nil {
		h.storeError(w, err, "teacher")
		return
	}
	h.JSON(w, http.StatusCreated, t)
}

// ListTeachers returns all teachers, newest first.
func (h *Handler) ListTeachers(w http.ResponseWriter, r *http.Request) {
	teachers, err := h.db.ListTeachers(r.Context())
	if err != nil {
		h.storeError(w, err, "teacher")
		return
	}
	if teachers == nil {
		teachers = []models.Teacher{}
	}
	h.JSON(w, http.StatusOK, teachers)
}

// GetTeacher returns one teacher by id.
func (h *Handler) GetTeacher(w http.ResponseWriter, r *http.Request) {
	t, err := h.db.GetTeacher(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.storeError(w, err, "teacher")
		return
	}
	if t == nil {
		h.Error(w, http.StatusNotFound, "teacher not found")
		return
	}
	h.JSON(w, http.StatusOK, t)
}

// UpdateTeacher updates a teacher record. Absent fields keep their stored
// values.
func (h *Handler) UpdateTeacher(w http.ResponseWriter, r *http.Request) {
	t, err := h.db.GetTeacher(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.storeError(w, err, "teacher")
		return
	}
	if t == nil {
		h.Error(w, http.StatusNotFound, "teacher not found")
		return
	}

	if err := r.ParseMultipartForm(maxPhotoSize); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	if v := r.FormValue("full_name"); v != "" {
		t.FullName = sanitizeName(v)
	}
	if v := r.FormValue("phone"); v != "" {
		t.Phone = v
	}
	if v := r.FormValue("email"); v != "" {
		if !isValidEmail(v) {
			h.Error(w, http.StatusBadRequest, "invalid email")
			return
		}
		t.Email = v
	}
	if v := r.FormValue("subject"); v != "" {
		t.Subject = v
	}
	if v := r.FormValue("bank_account_name"); v != "" {
		t.BankAccountName = v
	}
	if v := r.FormValue("bank_branch"); v != "" {
		t.BankBranch = v
	}
	if v := r.FormValue("password"); v != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(v), bcrypt.DefaultCost)
		if err != nil {
			h.Error(w, http.StatusInternalServerError, "failed to hash password")
			return
		}
		t.PasswordHash = string(hash)
	}

	photo, err := h.savePhoto(r, "photo")
	if h.photoError(w, err) {
		return
	}
	if photo != "" {
		t.PhotoPath = photo
	}

	t.UpdatedAt = time.Now().UTC()
	if err := h.db.UpdateTeacher(r.Context(), t); err != nil {
		h.storeError(w, err, "teacher")
		return
	}
	h.JSON(w, http.StatusOK, t)
}

// DeleteTeacher removes a teacher; salary rows cascade.
func (h *Handler) DeleteTeacher(w http.ResponseWriter, r *http.Request) {
	if err := h.db.DeleteTeacher(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.storeError(w, err, "teacher")
		return
	}
	h.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// TeacherLogin verifies a teacher's credentials.
func (h *Handler) TeacherLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	t, err := h.db.GetTeacherByEmail(r.Context(), req.Email)
	if err != nil {
		h.storeError(w, err, "teacher")
		return
	}
	if t == nil || bcrypt.CompareHashAndPassword([]byte(t.PasswordHash), []byte(req.Password)) != nil {
		h.Error(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	h.JSON(w, http.StatusOK, t)
}
