package store

import "errors"

var (
	// ErrNotFound means the requested row does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrConflict means a uniqueness constraint was violated.
	ErrConflict = errors.New("record already exists")

	// ErrRoomGone means a message write referenced a classroom that no
	// longer exists. Distinct from ErrNotFound so the chat layer can close
	// the session instead of reporting a local error.
	ErrRoomGone = errors.New("classroom no longer exists")

	// ErrUnavailable means the backing store could not be reached.
	ErrUnavailable = errors.New("storage unavailable")
)
