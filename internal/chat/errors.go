package chat

import "errors"

var (
	// ErrNotMember means the user has no membership in the room.
	ErrNotMember = errors.New("not a member of this classroom")

	// ErrForbidden means the user's role does not allow the attempted action.
	ErrForbidden = errors.New("insufficient role for this action")

	// ErrEmptyContent means an inbound send carried no text content.
	ErrEmptyContent = errors.New("message content is empty")

	// ErrRoomFull means the per-room connection cap was reached.
	ErrRoomFull = errors.New("classroom connection limit reached")

	// ErrSlowConsumer means a connection's outbound queue is full or closed.
	// The registry treats it as an implicit disconnect.
	ErrSlowConsumer = errors.New("connection outbound queue full or closed")
)
