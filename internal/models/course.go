package models

import "time"

// Course represents an offered course.
type Course struct {
	CourseID    string    `json:"course_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Fees        float64   `json:"fees"`
	Duration    string    `json:"duration,omitempty"` // e.g. "6 months"
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
