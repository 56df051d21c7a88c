package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/coachdesk/coachdesk/internal/chat"
	"github.com/coachdesk/coachdesk/internal/models"
	"github.com/coachdesk/coachdesk/internal/store"
)

// chatError maps chat-core errors onto HTTP status codes.
func (h *Handler) chatError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, chat.ErrEmptyContent):
		h.Error(w, http.StatusBadRequest, "message content must not be empty")
	case errors.Is(err, chat.ErrNotMember):
		h.Error(w, http.StatusForbidden, "not a member of this classroom")
	case errors.Is(err, chat.ErrForbidden):
		h.Error(w, http.StatusForbidden, "not permitted in this classroom")
	case errors.Is(err, store.ErrRoomGone):
		h.Error(w, http.StatusGone, "classroom no longer exists")
	case errors.Is(err, store.ErrNotFound):
		h.Error(w, http.StatusNotFound, "message not found")
	default:
		h.log.Error().Err(err).Msg("chat operation failed")
		h.Error(w, http.StatusInternalServerError, "chat operation failed")
	}
}

// GetMessages returns recent messages for a classroom, oldest first. Member
// only.
func (h *Handler) GetMessages(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")
	userID := requestUser(r)
	if userID == "" {
		h.Error(w, http.StatusBadRequest, "user_id is required")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	msgs, err := h.chat.History(r.Context(), roomID, userID, limit)
	if err != nil {
		h.chatError(w, err)
		return
	}
	if msgs == nil {
		msgs = []models.Message{}
	}
	h.JSON(w, http.StatusOK, msgs)
}

// PostMessageRequest represents the post message payload. Sender identity
// comes from the session, never from the body.
type PostMessageRequest struct {
	Content string `json:"content"`
}

// PostMessage posts a message over the HTTP path. It funnels through the same
// service call as the WebSocket send path, so persistence order, policy
// checks and fan-out are identical.
func (h *Handler) PostMessage(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")
	userID := requestUser(r)
	if userID == "" {
		h.Error(w, http.StatusBadRequest, "user_id is required")
		return
	}

	var req PostMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	msg, err := h.chat.Post(r.Context(), roomID, userID, req.Content)
	if err != nil {
		h.chatError(w, err)
		return
	}
	h.JSON(w, http.StatusCreated, msg)
}

// DeleteMessage removes a message. Privileged members only; the deletion is
// announced to every live session in the room.
func (h *Handler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")
	messageID := chi.URLParam(r, "mid")
	userID := requestUser(r)
	if userID == "" {
		h.Error(w, http.StatusBadRequest, "user_id is required")
		return
	}

	if err := h.chat.Delete(r.Context(), roomID, messageID, userID); err != nil {
		h.chatError(w, err)
		return
	}
	h.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
