package models

import "time"

// FeeReceipt records a student's fee payment state. One receipt per student;
// AmountDue is always recomputed server-side as total minus paid.
type FeeReceipt struct {
	ReceiptID       string    `json:"receipt_id"`
	StudentID       string    `json:"student_id"`
	PaymentNo       int       `json:"payment_no,omitempty"`
	PaymentMode     string    `json:"payment_mode,omitempty"`
	TransactionID   string    `json:"transaction_id,omitempty"`
	Amount          float64   `json:"amount"`
	TotalCourseFees float64   `json:"total_course_fees"`
	AmountPaid      float64   `json:"amount_paid"`
	AmountDue       float64   `json:"amount_due"`
	PDFPath         string    `json:"pdf_path,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Salary is one month's salary record for a teacher.
type Salary struct {
	SalaryID      string    `json:"salary_id"`
	TeacherID     string    `json:"teacher_id"`
	Month         int       `json:"month"` // 1-12
	Year          int       `json:"year"`
	BasicSalary   float64   `json:"basic_salary"`
	PF            float64   `json:"pf"`
	SI            float64   `json:"si"`
	DA            float64   `json:"da"`
	PA            float64   `json:"pa"`
	TotalSalary   float64   `json:"total_salary"`
	TransactionID string    `json:"transaction_id,omitempty"`
	PDFPath       string    `json:"pdf_path,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Commission payment statuses.
const (
	CommissionPending = "pending"
	CommissionPaid    = "paid"
)

// Commission is a counsellor's commission for a confirmed admission enquiry.
// CommissionAmount is computed server-side as fees * pct / 100.
type Commission struct {
	CommissionID     string    `json:"commission_id"`
	CounsellorID     string    `json:"counsellor_id"`
	EnquiryID        string    `json:"enquiry_id"`
	StudentName      string    `json:"student_name"`
	CourseID         string    `json:"course_id"`
	CourseName       string    `json:"course_name,omitempty"`
	CommissionPct    float64   `json:"commission_pct"`
	CourseFees       float64   `json:"course_fees"`
	CommissionAmount float64   `json:"commission_amount"`
	PDFPath          string    `json:"pdf_path,omitempty"`
	TransactionID    string    `json:"transaction_id,omitempty"`
	PaymentStatus    string    `json:"payment_status"`
	MonthYear        string    `json:"month_year"` // YYYY-MM
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
