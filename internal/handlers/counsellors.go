package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/coachdesk/coachdesk/internal/ident"
	"github.com/coachdesk/coachdesk/internal/models"
)

// CreateCounsellorRequest represents the counsellor creation request.
type CreateCounsellorRequest struct {
	FullName      string  `json:"full_name"`
	Phone         string  `json:"phone"`
	Email         string  `json:"email"`
	CommissionPct float64 `json:"commission_pct"`
	Password      string  `json:"password"`
}

// CreateCounsellor handles counsellor onboarding.
func (h *Handler) CreateCounsellor(w http.ResponseWriter, r *http.Request) {
	var req CreateCounsellorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	req.FullName = sanitizeName(req.FullName)
	if req.FullName == "" {
		h.Error(w, http.StatusBadRequest, "full_name is required")
		return
	}
	if req.Email == "" || !isValidEmail(req.Email) {
		h.Error(w, http.StatusBadRequest, "valid email is required")
		return
	}
	if req.CommissionPct < 0 || req.CommissionPct > 100 {
		h.Error(w, http.StatusBadRequest, "commission_pct must be between 0 and 100")
		return
	}

	var passwordHash string
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			h.Error(w, http.StatusInternalServerError, "failed to hash password")
			return
		}
		passwordHash = string(hash)
	}

	now := time.Now().UTC()
	c := &models.Counsellor{
		CounsellorID:  ident.New(ident.PrefixCounsellor, now),
		FullName:      req.FullName,
		Phone:         req.Phone,
		Email:         req.Email,
		CommissionPct: req.CommissionPct,
		PasswordHash:  passwordHash,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := h.db.CreateCounsellor(r.Context(), c); err != nil {
		h.storeError(w, err, "counsellor")
		return
	}
	h.JSON(w, http.StatusCreated, c)
}

// ListCounsellors returns all counsellors, newest first.
func (h *Handler) ListCounsellors(w http.ResponseWriter, r *http.Request) {
	counsellors, err := h.db.ListCounsellors(r.Context())
	if err != nil {
		h.storeError(w, err, "counsellor")
		return
	}
	if counsellors == nil {
		counsellors = []models.Counsellor{}
	}
	h.JSON(w, http.StatusOK, counsellors)
}

// GetCounsellor returns one counsellor by id.
func (h *Handler) GetCounsellor(w http.ResponseWriter, r *http.Request) {
	c, err := h.db.GetCounsellor(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.storeError(w, err, "counsellor")
		return
	}
	if c == nil {
		h.Error(w, http.StatusNotFound, "counsellor not found")
		return
	}
	h.JSON(w, http.StatusOK, c)
}

// UpdateCounsellor updates a counsellor record. Absent fields keep their
// stored values.
func (h *Handler) UpdateCounsellor(w http.ResponseWriter, r *http.Request) {
	c, err := h.db.GetCounsellor(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.storeError(w, err, "counsellor")
		return
	}
	if c == nil {
		h.Error(w, http.StatusNotFound, "counsellor not found")
		return
	}

	var req map[string]string
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if v, ok := req["full_name"]; ok && v != "" {
		c.FullName = sanitizeName(v)
	}
	if v, ok := req["phone"]; ok && v != "" {
		c.Phone = v
	}
	if v, ok := req["email"]; ok && v != "" {
		if !isValidEmail(v) {
			h.Error(w, http.StatusBadRequest, "invalid email")
			return
		}
		c.Email = v
	}
	if v, ok := req["commission_pct"]; ok && v != "" {
		pct, err := strconv.ParseFloat(v, 64)
		if err != nil || pct < 0 || pct > 100 {
			h.Error(w, http.StatusBadRequest, "commission_pct must be between 0 and 100")
			return
		}
		c.CommissionPct = pct
	}
	if v, ok := req["password"]; ok && v != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(v), bcrypt.DefaultCost)
		if err != nil {
			h.Error(w, http.StatusInternalServerError, "failed to hash password")
			return
		}
		c.PasswordHash = string(hash)
	}

	c.UpdatedAt = time.Now().UTC()
	if err := h.db.UpdateCounsellor(r.Context(), c); err != nil {
		h.storeError(w, err, "counsellor")
		return
	}
	h.JSON(w, http.StatusOK, c)
}

// DeleteCounsellor removes a counsellor; commission rows cascade.
func (h *Handler) DeleteCounsellor(w http.ResponseWriter, r *http.Request) {
	if err := h.db.DeleteCounsellor(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.storeError(w, err, "counsellor")
		return
	}
	h.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// CounsellorLogin verifies a counsellor's credentials.
func (h *Handler) CounsellorLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	c, err := h.db.GetCounsellorByEmail(r.Context(), req.Email)
	if err != nil {
		h.storeError(w, err, "counsellor")
		return
	}
	if c == nil || bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(req.Password)) != nil {
		h.Error(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	h.JSON(w, http.StatusOK, c)
}
