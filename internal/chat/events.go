package chat

import "github.com/coachdesk/coachdesk/internal/models"

// Event types sent to live connections.
const (
	EventHistory    = "history"
	EventMessage    = "message"
	EventDeleted    = "deleted"
	EventRoomClosed = "room_closed"
	EventError      = "error"
)

// Event is the outbound frame written to a live connection.
type Event struct {
	Type      string           `json:"type"`
	Message   *models.Message  `json:"message,omitempty"`
	Messages  []models.Message `json:"messages,omitempty"`   // history replay, oldest-first
	MessageID string           `json:"message_id,omitempty"` // deleted events
	Code      int              `json:"code,omitempty"`
	Detail    string           `json:"detail,omitempty"`
}

func messageEvent(msg *models.Message) Event {
	return Event{Type: EventMessage, Message: msg}
}

func historyEvent(msgs []models.Message) Event {
	if msgs == nil {
		msgs = []models.Message{}
	}
	return Event{Type: EventHistory, Messages: msgs}
}

func deletedEvent(messageID string) Event {
	return Event{Type: EventDeleted, MessageID: messageID}
}

func errorEvent(code int, detail string) Event {
	return Event{Type: EventError, Code: code, Detail: detail}
}
