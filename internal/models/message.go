package models

import "time"

// Message represents a persisted classroom chat message.
type Message struct {
	MessageID  string    `json:"message_id"` // ULID
	RoomID     string    `json:"room_id"`
	SenderID   string    `json:"sender_id"`
	SenderRole string    `json:"sender_role"` // stored label, display only
	SenderName string    `json:"sender_name,omitempty"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}
