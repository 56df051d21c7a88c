package chat

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/coachdesk/coachdesk/internal/store"
)

// inbound is the frame a client sends over a live connection.
type inbound struct {
	Action  string `json:"action"`
	Content string `json:"content"`
}

// SessionHandler runs one chat session per WebSocket connection: handshake,
// authorization against current membership, history replay, then a read loop
// that feeds sends through the service until the connection closes.
type SessionHandler struct {
	svc      *Service
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

func NewSessionHandler(svc *Service, log zerolog.Logger) *SessionHandler {
	return &SessionHandler{
		svc: svc,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// membership, not origin, is the access control here
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		log: log,
	}
}

// Serve upgrades the request and drives the session to completion.
func (h *SessionHandler) Serve(w http.ResponseWriter, r *http.Request, roomID, userID string) {
	if userID == "" {
		http.Error(w, `{"error":"user_id is required"}`, http.StatusBadRequest)
		return
	}

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}

	sender := newWSSender(ws)

	if _, err := h.svc.Join(r.Context(), roomID, userID, sender); err != nil {
		// single rejection notification, flushed before the terminal close
		switch {
		case errors.Is(err, ErrNotMember):
			_ = sender.Enqueue(errorEvent(http.StatusForbidden, "not a member of this classroom"))
		case errors.Is(err, ErrRoomFull):
			_ = sender.Enqueue(errorEvent(http.StatusServiceUnavailable, "classroom connection limit reached"))
		default:
			h.log.Error().Err(err).Str("room_id", roomID).Msg("chat join failed")
			_ = sender.Enqueue(errorEvent(http.StatusInternalServerError, "chat history unavailable"))
		}
		sender.CloseAfterDrain()
		return
	}

	h.log.Info().Str("room_id", roomID).Str("user_id", userID).Msg("chat session opened")
	defer func() {
		h.svc.Leave(roomID, sender)
		sender.CloseAfterDrain()
		h.log.Info().Str("room_id", roomID).Str("user_id", userID).Msg("chat session closed")
	}()

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			return // client disconnect or transport error
		}

		var in inbound
		if err := json.Unmarshal(data, &in); err != nil {
			_ = sender.Enqueue(errorEvent(http.StatusBadRequest, "invalid JSON"))
			continue
		}
		if in.Action != "send" {
			_ = sender.Enqueue(errorEvent(http.StatusBadRequest, "unknown action"))
			continue
		}

		// sender identity comes from the session, never the payload
		if _, err := h.svc.Post(r.Context(), roomID, userID, in.Content); err != nil {
			if !h.sendError(sender, err) {
				return
			}
		}
	}
}

// sendError reports a rejected send to this session only. Returns false when
// the session must close (the room itself is gone).
func (h *SessionHandler) sendError(sender Sender, err error) bool {
	switch {
	case errors.Is(err, ErrEmptyContent):
		_ = sender.Enqueue(errorEvent(http.StatusBadRequest, "message content is required"))
	case errors.Is(err, ErrNotMember):
		_ = sender.Enqueue(errorEvent(http.StatusForbidden, "membership revoked"))
	case errors.Is(err, ErrForbidden):
		_ = sender.Enqueue(errorEvent(http.StatusForbidden, "only teachers may send in this classroom"))
	case errors.Is(err, store.ErrRoomGone):
		_ = sender.Enqueue(errorEvent(http.StatusGone, "classroom no longer exists"))
		return false
	default:
		_ = sender.Enqueue(errorEvent(http.StatusInternalServerError, "message could not be saved"))
	}
	return true
}
