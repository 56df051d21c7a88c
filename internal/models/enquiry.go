package models

import "time"

// Enquiry statuses.
const (
	EnquiryOpen      = "open"
	EnquiryConfirmed = "confirmed"
	EnquiryClosed    = "closed"
)

// Enquiry is an admission enquiry handled by a counsellor. Confirming an
// enquiry creates a commission for the counsellor.
type Enquiry struct {
	EnquiryID    string    `json:"enquiry_id"`
	StudentName  string    `json:"student_name"`
	Phone        string    `json:"phone"`
	Email        string    `json:"email,omitempty"`
	CourseID     string    `json:"course_id,omitempty"`
	CounsellorID string    `json:"counsellor_id,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Announcement is an institute-wide notice.
type Announcement struct {
	AnnouncementID string    `json:"announcement_id"`
	Title          string    `json:"title"`
	Body           string    `json:"body"`
	CreatedBy      string    `json:"created_by,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
