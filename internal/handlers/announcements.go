package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/coachdesk/coachdesk/internal/ident"
	"github.com/coachdesk/coachdesk/internal/models"
)

// AnnouncementRequest represents announcement create/update payloads.
type AnnouncementRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// CreateAnnouncement publishes an institute-wide notice.
func (h *Handler) CreateAnnouncement(w http.ResponseWriter, r *http.Request) {
	var req AnnouncementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Title == "" {
		h.Error(w, http.StatusBadRequest, "title is required")
		return
	}

	now := time.Now().UTC()
	a := &models.Announcement{
		AnnouncementID: ident.New(ident.PrefixAnnouncement, now),
		Title:          req.Title,
		Body:           req.Body,
		CreatedBy:      requestUser(r),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := h.db.CreateAnnouncement(r.Context(), a); err != nil {
		h.storeError(w, err, "announcement")
		return
	}
	h.JSON(w, http.StatusCreated, a)
}

// ListAnnouncements returns all notices, newest first.
func (h *Handler) ListAnnouncements(w http.ResponseWriter, r *http.Request) {
	announcements, err := h.db.ListAnnouncements(r.Context())
	if err != nil {
		h.storeError(w, err, "announcement")
		return
	}
	if announcements == nil {
		announcements = []models.Announcement{}
	}
	h.JSON(w, http.StatusOK, announcements)
}

// GetAnnouncement returns one notice by id.
func (h *Handler) GetAnnouncement(w http.ResponseWriter, r *http.Request) {
	a, err := h.db.GetAnnouncement(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.storeError(w, err, "announcement")
		return
	}
	if a == nil {
		h.Error(w, http.StatusNotFound, "announcement not found")
		return
	}
	h.JSON(w, http.StatusOK, a)
}

// UpdateAnnouncement edits a notice.
func (h *Handler) UpdateAnnouncement(w http.ResponseWriter, r *http.Request) {
	a, err := h.db.GetAnnouncement(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.storeError(w, err, "announcement")
		return
	}
	if a == nil {
		h.Error(w, http.StatusNotFound, "announcement not found")
		return
	}

	var req AnnouncementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.Title != "" {
		a.Title = req.Title
	}
	if req.Body != "" {
		a.Body = req.Body
	}

	a.UpdatedAt = time.Now().UTC()
	if err := h.db.UpdateAnnouncement(r.Context(), a); err != nil {
		h.storeError(w, err, "announcement")
		return
	}
	h.JSON(w, http.StatusOK, a)
}

// DeleteAnnouncement removes a notice.
func (h *Handler) DeleteAnnouncement(w http.ResponseWriter, r *http.Request) {
	if err := h.db.DeleteAnnouncement(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.storeError(w, err, "announcement")
		return
	}
	h.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
