package models

import "time"

// Student is an enrolled student.
type Student struct {
	StudentID     string    `json:"student_id"`
	FullName      string    `json:"full_name"`
	Phone         string    `json:"phone"`
	Email         string    `json:"email"`
	Address       string    `json:"address,omitempty"`
	GuardianName  string    `json:"guardian_name,omitempty"`
	GuardianPhone string    `json:"guardian_phone,omitempty"`
	CourseID      string    `json:"course_id,omitempty"`
	PhotoPath     string    `json:"photo_path,omitempty"`
	PasswordHash  string    `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Teacher is a member of the teaching staff.
type Teacher struct {
	TeacherID       string    `json:"teacher_id"`
	FullName        string    `json:"full_name"`
	Phone           string    `json:"phone"`
	Email           string    `json:"email"`
	Subject         string    `json:"subject,omitempty"`
	BankAccountName string    `json:"bank_account_name,omitempty"`
	BankBranch      string    `json:"bank_branch,omitempty"`
	PhotoPath       string    `json:"photo_path,omitempty"`
	PasswordHash    string    `json:"-"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Counsellor handles admission enquiries and earns per-enquiry commissions.
type Counsellor struct {
	CounsellorID  string    `json:"counsellor_id"`
	FullName      string    `json:"full_name"`
	Phone         string    `json:"phone"`
	Email         string    `json:"email"`
	CommissionPct float64   `json:"commission_pct"`
	PasswordHash  string    `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
