package store

import (
	"context"

	"github.com/coachdesk/coachdesk/internal/models"
)

// scanner is satisfied by pgx and database/sql row types alike, so the
// scan helpers are shared between the Postgres and SQLite stores.
type scanner interface {
	Scan(dest ...any) error
}

// DataStore defines the interface for persistent storage.
// Both PostgresStore and SQLiteStore implement this interface.
type DataStore interface {
	// Connection management
	Close()
	Ping(ctx context.Context) error

	// Students
	CreateStudent(ctx context.Context, s *models.Student) error
	GetStudent(ctx context.Context, id string) (*models.Student, error)
	GetStudentByEmail(ctx context.Context, email string) (*models.Student, error)
	ListStudents(ctx context.Context) ([]models.Student, error)
	UpdateStudent(ctx context.Context, s *models.Student) error
	DeleteStudent(ctx context.Context, id string) error

	// Teachers
	CreateTeacher(ctx context.Context, t *models.Teacher) error
	GetTeacher(ctx context.Context, id string) (*models.Teacher, error)
	GetTeacherByEmail(ctx context.Context, email string) (*models.Teacher, error)
	ListTeachers(ctx context.Context) ([]models.Teacher, error)
	UpdateTeacher(ctx context.Context, t *models.Teacher) error
	DeleteTeacher(ctx context.Context, id string) error

	// Counsellors
	CreateCounsellor(ctx context.Context, c *models.Counsellor) error
	GetCounsellor(ctx context.Context, id string) (*models.Counsellor, error)
	GetCounsellorByEmail(ctx context.Context, email string) (*models.Counsellor, error)
	ListCounsellors(ctx context.Context) ([]models.Counsellor, error)
	UpdateCounsellor(ctx context.Context, c *models.Counsellor) error
	DeleteCounsellor(ctx context.Context, id string) error

	// Courses
	CreateCourse(ctx context.Context, c *models.Course) error
	GetCourse(ctx context.Context, id string) (*models.Course, error)
	ListCourses(ctx context.Context) ([]models.Course, error)
	UpdateCourse(ctx context.Context, c *models.Course) error
	DeleteCourse(ctx context.Context, id string) error

	// Classrooms
	CreateClassroom(ctx context.Context, c *models.Classroom) error
	GetClassroom(ctx context.Context, roomID string) (*models.Classroom, error)
	ListClassrooms(ctx context.Context) ([]models.Classroom, error)
	UpdateClassroom(ctx context.Context, c *models.Classroom) error
	DeleteClassroom(ctx context.Context, roomID string) error

	// Memberships
	UpsertMembership(ctx context.Context, m *models.Membership) error
	GetMembership(ctx context.Context, roomID, userID string) (*models.Membership, error)
	ListMembers(ctx context.Context, roomID string) ([]models.Membership, error)
	DeleteMembership(ctx context.Context, roomID, userID string) error

	// Messages
	AppendMessage(ctx context.Context, msg *models.Message) error
	RecentMessages(ctx context.Context, roomID string, limit int) ([]models.Message, error)
	GetMessage(ctx context.Context, roomID, messageID string) (*models.Message, error)
	DeleteMessage(ctx context.Context, roomID, messageID string) error
	DisplayName(ctx context.Context, role, userID string) (string, error)

	// Fee receipts
	CreateFeeReceipt(ctx context.Context, f *models.FeeReceipt) error
	GetFeeReceipt(ctx context.Context, id string) (*models.FeeReceipt, error)
	GetFeeReceiptByStudent(ctx context.Context, studentID string) (*models.FeeReceipt, error)
	ListFeeReceipts(ctx context.Context) ([]models.FeeReceipt, error)
	UpdateFeeReceipt(ctx context.Context, f *models.FeeReceipt) error
	DeleteFeeReceipt(ctx context.Context, id string) error

	// Salaries
	CreateSalary(ctx context.Context, s *models.Salary) error
	GetSalary(ctx context.Context, id string) (*models.Salary, error)
	ListSalariesByTeacher(ctx context.Context, teacherID string) ([]models.Salary, error)
	UpdateSalary(ctx context.Context, s *models.Salary) error
	DeleteSalary(ctx context.Context, id string) error

	// Admission enquiries
	CreateEnquiry(ctx context.Context, e *models.Enquiry) error
	GetEnquiry(ctx context.Context, id string) (*models.Enquiry, error)
	ListEnquiries(ctx context.Context) ([]models.Enquiry, error)
	UpdateEnquiry(ctx context.Context, e *models.Enquiry) error
	DeleteEnquiry(ctx context.Context, id string) error

	// Commissions
	CreateCommission(ctx context.Context, c *models.Commission) error
	GetCommission(ctx context.Context, id string) (*models.Commission, error)
	ListCommissions(ctx context.Context) ([]models.Commission, error)
	ListCommissionsByCounsellor(ctx context.Context, counsellorID string) ([]models.Commission, error)
	UpdateCommissionPayment(ctx context.Context, id, transactionID, status string) error

	// Announcements
	CreateAnnouncement(ctx context.Context, a *models.Announcement) error
	GetAnnouncement(ctx context.Context, id string) (*models.Announcement, error)
	ListAnnouncements(ctx context.Context) ([]models.Announcement, error)
	UpdateAnnouncement(ctx context.Context, a *models.Announcement) error
	DeleteAnnouncement(ctx context.Context, id string) error
}
