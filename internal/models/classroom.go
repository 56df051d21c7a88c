package models

import "time"

// Chat policies controlling who may send in a classroom.
const (
	ChatPolicyAnnouncement = "announcement" // only privileged members may send
	ChatPolicyOpen         = "open"         // any member may send
)

// Classroom represents a class grouping participants and chat messages.
type Classroom struct {
	RoomID      string    `json:"room_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	PhotoPath   string    `json:"photo_path,omitempty"`
	CreatedBy   string    `json:"created_by,omitempty"`
	ChatPolicy  string    `json:"chat_policy"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Member roles as stored. For send/delete authorization these collapse to a
// two-tier split: admin and teacher are privileged, student is plain.
const (
	MemberRoleAdmin   = "admin"
	MemberRoleTeacher = "teacher"
	MemberRoleStudent = "student"
)

// Membership is the (room, user) -> role relation. A user holds at most one
// role per room.
type Membership struct {
	RoomID    string    `json:"room_id"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
