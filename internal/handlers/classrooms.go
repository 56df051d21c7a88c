package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/coachdesk/coachdesk/internal/ident"
	"github.com/coachdesk/coachdesk/internal/models"
)

// CreateClassroom creates a classroom with its chat room. Multipart form with
// an optional photo field.
func (h *Handler) CreateClassroom(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxPhotoSize); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	name := sanitizeName(r.FormValue("name"))
	if name == "" {
		h.Error(w, http.StatusBadRequest, "name is required")
		return
	}

	policy := r.FormValue("chat_policy")
	if policy == "" {
		policy = models.ChatPolicyAnnouncement
	}
	if policy != models.ChatPolicyAnnouncement && policy != models.ChatPolicyOpen {
		h.Error(w, http.StatusBadRequest, "chat_policy must be announcement or open")
		return
	}

	photo, err := h.savePhoto(r, "photo")
	if h.photoError(w, err) {
		return
	}

	now := time.Now().UTC()
	c := &models.Classroom{
		RoomID:      ident.New(ident.PrefixClassroom, now),
		Name:        name,
		Description: r.FormValue("description"),
		PhotoPath:   photo,
		CreatedBy:   requestUser(r),
		ChatPolicy:  policy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.db.CreateClassroom(r.Context(), c); err != nil {
		h.storeError(w, err, "classroom")
		return
	}

	// The creator joins as admin so the room is immediately usable.
	if c.CreatedBy != "" {
		m := &models.Membership{
			RoomID:    c.RoomID,
			UserID:    c.CreatedBy,
			Role:      models.MemberRoleAdmin,
			CreatedAt: now,
		}
		if err := h.db.UpsertMembership(r.Context(), m); err != nil {
			h.log.Warn().Err(err).Str("room_id", c.RoomID).Msg("creator membership failed")
		}
	}

	h.JSON(w, http.StatusCreated, c)
}

// ListClassrooms returns all classrooms, newest first.
func (h *Handler) ListClassrooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.db.ListClassrooms(r.Context())
	if err != nil {
		h.storeError(w, err, "classroom")
		return
	}
	if rooms == nil {
		rooms = []models.Classroom{}
	}
	h.JSON(w, http.StatusOK, rooms)
}

// GetClassroom returns one classroom by id.
func (h *Handler) GetClassroom(w http.ResponseWriter, r *http.Request) {
	c, err := h.db.GetClassroom(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.storeError(w, err, "classroom")
		return
	}
	if c == nil {
		h.Error(w, http.StatusNotFound, "classroom not found")
		return
	}
	h.JSON(w, http.StatusOK, c)
}

// UpdateClassroom updates a classroom. Absent fields keep their stored
// values. A chat_policy change applies to the next send; live sessions are
// not interrupted.
func (h *Handler) UpdateClassroom(w http.ResponseWriter, r *http.Request) {
	c, err := h.db.GetClassroom(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.storeError(w, err, "classroom")
		return
	}
	if c == nil {
		h.Error(w, http.StatusNotFound, "classroom not found")
		return
	}

	if err := r.ParseMultipartForm(maxPhotoSize); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	if v := r.FormValue("name"); v != "" {
		c.Name = sanitizeName(v)
	}
	if v := r.FormValue("description"); v != "" {
		c.Description = v
	}
	if v := r.FormValue("chat_policy"); v != "" {
		if v != models.ChatPolicyAnnouncement && v != models.ChatPolicyOpen {
			h.Error(w, http.StatusBadRequest, "chat_policy must be announcement or open")
			return
		}
		c.ChatPolicy = v
	}

	photo, err := h.savePhoto(r, "photo")
	if h.photoError(w, err) {
		return
	}
	if photo != "" {
		c.PhotoPath = photo
	}

	c.UpdatedAt = time.Now().UTC()
	if err := h.db.UpdateClassroom(r.Context(), c); err != nil {
		h.storeError(w, err, "classroom")
		return
	}
	h.JSON(w, http.StatusOK, c)
}

// DeleteClassroom removes a classroom. Memberships and messages cascade, and
// every live chat session is evicted with a room_closed event.
func (h *Handler) DeleteClassroom(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")

	if err := h.db.DeleteClassroom(r.Context(), roomID); err != nil {
		h.storeError(w, err, "classroom")
		return
	}

	h.chat.Evict(roomID)
	h.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// MemberRequest represents the add-member payload.
type MemberRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// AddMember enrols a user in a classroom, or changes their role if already
// enrolled.
func (h *Handler) AddMember(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")

	var req MemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.UserID == "" {
		h.Error(w, http.StatusBadRequest, "user_id is required")
		return
	}
	switch req.Role {
	case models.MemberRoleAdmin, models.MemberRoleTeacher, models.MemberRoleStudent:
	default:
		h.Error(w, http.StatusBadRequest, "role must be admin, teacher or student")
		return
	}

	room, err := h.db.GetClassroom(r.Context(), roomID)
	if err != nil {
		h.storeError(w, err, "classroom")
		return
	}
	if room == nil {
		h.Error(w, http.StatusNotFound, "classroom not found")
		return
	}

	m := &models.Membership{
		RoomID:    roomID,
		UserID:    req.UserID,
		Role:      req.Role,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.db.UpsertMembership(r.Context(), m); err != nil {
		h.storeError(w, err, "classroom")
		return
	}
	h.JSON(w, http.StatusCreated, m)
}

// ListMembers returns a classroom's roster.
func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")

	room, err := h.db.GetClassroom(r.Context(), roomID)
	if err != nil {
		h.storeError(w, err, "classroom")
		return
	}
	if room == nil {
		h.Error(w, http.StatusNotFound, "classroom not found")
		return
	}

	members, err := h.db.ListMembers(r.Context(), roomID)
	if err != nil {
		h.storeError(w, err, "classroom")
		return
	}
	if members == nil {
		members = []models.Membership{}
	}
	h.JSON(w, http.StatusOK, members)
}

// RemoveMember revokes a user's membership. A live session for the user stays
// open but their next send fails the membership check.
func (h *Handler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")
	userID := chi.URLParam(r, "uid")

	if err := h.db.DeleteMembership(r.Context(), roomID, userID); err != nil {
		h.storeError(w, err, "membership")
		return
	}
	h.JSON(w, http.StatusOK, map[string]string{"status": "removed"})
}
