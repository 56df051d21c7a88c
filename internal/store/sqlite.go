package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"

	"github.com/mattn/go-sqlite3"

	"github.com/coachdesk/coachdesk/internal/models"
)

// SQLiteStore handles SQLite database operations. It is the development
// fallback when no DATABASE_URL is configured.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store.
// If dbPath is empty, defaults to "./data/coachdesk.db".
func NewSQLiteStore(ctx context.Context, dbPath string) (*SQLiteStore, error) {
	if dbPath == "" {
		dbPath = "./data/coachdesk.db"
	}

	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	store := &SQLiteStore{db: db}

	if err := store.initSchema(ctx); err != nil {
		return nil, err
	}

	return store, nil
}

// initSchema creates tables if they don't exist.
func (s *SQLiteStore) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS courses (
		course_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		fees REAL NOT NULL DEFAULT 0,
		duration TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS students (
		student_id TEXT PRIMARY KEY,
		full_name TEXT NOT NULL,
		phone TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL UNIQUE,
		address TEXT NOT NULL DEFAULT '',
		guardian_name TEXT NOT NULL DEFAULT '',
		guardian_phone TEXT NOT NULL DEFAULT '',
		course_id TEXT NOT NULL DEFAULT '',
		photo_path TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS teachers (
		teacher_id TEXT PRIMARY KEY,
		full_name TEXT NOT NULL,
		phone TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL UNIQUE,
		subject TEXT NOT NULL DEFAULT '',
		bank_account_name TEXT NOT NULL DEFAULT '',
		bank_branch TEXT NOT NULL DEFAULT '',
		photo_path TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS counsellors (
		counsellor_id TEXT PRIMARY KEY,
		full_name TEXT NOT NULL,
		phone TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL UNIQUE,
		commission_pct REAL NOT NULL DEFAULT 0,
		password_hash TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS classrooms (
		room_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		photo_path TEXT NOT NULL DEFAULT '',
		created_by TEXT NOT NULL DEFAULT '',
		chat_policy TEXT NOT NULL DEFAULT 'announcement'
			CHECK (chat_policy IN ('announcement','open')),
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS memberships (
		room_id TEXT NOT NULL REFERENCES classrooms(room_id) ON DELETE CASCADE,
		user_id TEXT NOT NULL,
		role TEXT NOT NULL CHECK (role IN ('admin','teacher','student')),
		created_at DATETIME NOT NULL,
		PRIMARY KEY (room_id, user_id)
	);

	CREATE TABLE IF NOT EXISTS messages (
		message_id TEXT PRIMARY KEY,
		room_id TEXT NOT NULL REFERENCES classrooms(room_id) ON DELETE CASCADE,
		sender_id TEXT NOT NULL,
		sender_role TEXT NOT NULL DEFAULT '',
		sender_name TEXT NOT NULL DEFAULT '',
		content TEXT NOT NULL CHECK (content <> ''),
		created_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_messages_room ON messages(room_id, message_id);

	CREATE TABLE IF NOT EXISTS fee_receipts (
		receipt_id TEXT PRIMARY KEY,
		student_id TEXT NOT NULL UNIQUE REFERENCES students(student_id) ON DELETE CASCADE,
		payment_no INTEGER NOT NULL DEFAULT 0,
		payment_mode TEXT NOT NULL DEFAULT '',
		transaction_id TEXT NOT NULL DEFAULT '',
		amount REAL NOT NULL DEFAULT 0,
		total_course_fees REAL NOT NULL DEFAULT 0,
		amount_paid REAL NOT NULL DEFAULT 0,
		amount_due REAL NOT NULL DEFAULT 0,
		pdf_path TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS salaries (
		salary_id TEXT PRIMARY KEY,
		teacher_id TEXT NOT NULL REFERENCES teachers(teacher_id) ON DELETE CASCADE,
		month INTEGER NOT NULL CHECK (month BETWEEN 1 AND 12),
		year INTEGER NOT NULL,
		basic_salary REAL NOT NULL DEFAULT 0,
		pf REAL NOT NULL DEFAULT 0,
		si REAL NOT NULL DEFAULT 0,
		da REAL NOT NULL DEFAULT 0,
		pa REAL NOT NULL DEFAULT 0,
		total_salary REAL NOT NULL DEFAULT 0,
		transaction_id TEXT NOT NULL DEFAULT '',
		pdf_path TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		UNIQUE (teacher_id, month, year)
	);

	CREATE TABLE IF NOT EXISTS enquiries (
		enquiry_id TEXT PRIMARY KEY,
		student_name TEXT NOT NULL,
		phone TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		course_id TEXT NOT NULL DEFAULT '',
		counsellor_id TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'open' CHECK (status IN ('open','confirmed','closed')),
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS commissions (
		commission_id TEXT PRIMARY KEY,
		counsellor_id TEXT NOT NULL REFERENCES counsellors(counsellor_id) ON DELETE CASCADE,
		enquiry_id TEXT NOT NULL REFERENCES enquiries(enquiry_id) ON DELETE CASCADE,
		student_name TEXT NOT NULL,
		course_id TEXT NOT NULL DEFAULT '',
		course_name TEXT NOT NULL DEFAULT '',
		commission_pct REAL NOT NULL DEFAULT 0,
		course_fees REAL NOT NULL DEFAULT 0,
		commission_amount REAL NOT NULL DEFAULT 0,
		pdf_path TEXT NOT NULL DEFAULT '',
		transaction_id TEXT NOT NULL DEFAULT '',
		payment_status TEXT NOT NULL DEFAULT 'pending',
		month_year TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS announcements (
		announcement_id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		body TEXT NOT NULL DEFAULT '',
		created_by TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Close closes the database.
func (s *SQLiteStore) Close() {
	_ = s.db.Close()
}

// Ping checks the database connection.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// liteErr maps driver errors onto the store sentinels.
func liteErr(err error) error {
	if err == nil {
		return nil
	}
	var se sqlite3.Error
	if errors.As(err, &se) {
		switch se.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return ErrConflict
		case sqlite3.ErrConstraintForeignKey:
			return ErrRoomGone
		}
	}
	return err
}

// Classrooms

func (s *SQLiteStore) CreateClassroom(ctx context.Context, c *models.Classroom) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO classrooms (room_id, name, description, photo_path, created_by, chat_policy, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, c.RoomID, c.Name, c.Description, c.PhotoPath, c.CreatedBy, c.ChatPolicy, c.CreatedAt, c.UpdatedAt)
	return liteErr(err)
}

func (s *SQLiteStore) GetClassroom(ctx context.Context, roomID string) (*models.Classroom, error) {
	c := &models.Classroom{}
	err := s.db.QueryRowContext(ctx, `
		SELECT room_id, name, description, photo_path, created_by, chat_policy, created_at, updated_at
		FROM classrooms WHERE room_id = ?
	`, roomID).Scan(&c.RoomID, &c.Name, &c.Description, &c.PhotoPath, &c.CreatedBy, &c.ChatPolicy, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

func (s *SQLiteStore) ListClassrooms(ctx context.Context) ([]models.Classroom, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT room_id, name, description, photo_path, created_by, chat_policy, created_at, updated_at
		FROM classrooms ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Classroom
	for rows.Next() {
		var c models.Classroom
		if err := rows.Scan(&c.RoomID, &c.Name, &c.Description, &c.PhotoPath, &c.CreatedBy, &c.ChatPolicy, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) UpdateClassroom(ctx context.Context, c *models.Classroom) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE classrooms
		SET name = ?, description = ?, photo_path = ?, chat_policy = ?, updated_at = ?
		WHERE room_id = ?
	`, c.Name, c.Description, c.PhotoPath, c.ChatPolicy, c.UpdatedAt, c.RoomID)
	return requireRow(res, err)
}

func (s *SQLiteStore) DeleteClassroom(ctx context.Context, roomID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM classrooms WHERE room_id = ?`, roomID)
	return requireRow(res, err)
}

// Memberships

func (s *SQLiteStore) UpsertMembership(ctx context.Context, m *models.Membership) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO memberships (room_id, user_id, role, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (room_id, user_id) DO UPDATE SET role = excluded.role
	`, m.RoomID, m.UserID, m.Role, m.CreatedAt)
	return liteErr(err)
}

func (s *SQLiteStore) GetMembership(ctx context.Context, roomID, userID string) (*models.Membership, error) {
	m := &models.Membership{}
	err := s.db.QueryRowContext(ctx, `
		SELECT room_id, user_id, role, created_at
		FROM memberships WHERE room_id = ? AND user_id = ?
	`, roomID, userID).Scan(&m.RoomID, &m.UserID, &m.Role, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return m, nil
}

func (s *SQLiteStore) ListMembers(ctx context.Context, roomID string) ([]models.Membership, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT room_id, user_id, role, created_at
		FROM memberships WHERE room_id = ? ORDER BY created_at
	`, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Membership
	for rows.Next() {
		var m models.Membership
		if err := rows.Scan(&m.RoomID, &m.UserID, &m.Role, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) DeleteMembership(ctx context.Context, roomID, userID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM memberships WHERE room_id = ? AND user_id = ?`, roomID, userID)
	return requireRow(res, err)
}

// Messages

func (s *SQLiteStore) AppendMessage(ctx context.Context, msg *models.Message) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO messages (message_id, room_id, sender_id, sender_role, sender_name, content, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, msg.MessageID, msg.RoomID, msg.SenderID, msg.SenderRole, msg.SenderName, msg.Content, msg.CreatedAt)
	return liteErr(err)
}

func (s *SQLiteStore) RecentMessages(ctx context.Context, roomID string, limit int) ([]models.Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT message_id, room_id, sender_id, sender_role, sender_name, content, created_at
		FROM messages WHERE room_id = ?
		ORDER BY message_id DESC LIMIT ?
	`, roomID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.MessageID, &m.RoomID, &m.SenderID, &m.SenderRole, &m.SenderName, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	reverseMessages(out)
	return out, nil
}

func (s *SQLiteStore) GetMessage(ctx context.Context, roomID, messageID string) (*models.Message, error) {
	m := &models.Message{}
	err := s.db.QueryRowContext(ctx, `
		SELECT message_id, room_id, sender_id, sender_role, sender_name, content, created_at
		FROM messages WHERE room_id = ? AND message_id = ?
	`, roomID, messageID).Scan(&m.MessageID, &m.RoomID, &m.SenderID, &m.SenderRole, &m.SenderName, &m.Content, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return m, nil
}

func (s *SQLiteStore) DeleteMessage(ctx context.Context, roomID, messageID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM messages WHERE room_id = ? AND message_id = ?`, roomID, messageID)
	return requireRow(res, err)
}

func (s *SQLiteStore) DisplayName(ctx context.Context, role, userID string) (string, error) {
	var query string
	switch role {
	case models.MemberRoleTeacher, models.MemberRoleAdmin:
		query = `SELECT full_name FROM teachers WHERE teacher_id = ?`
	case models.MemberRoleStudent:
		query = `SELECT full_name FROM students WHERE student_id = ?`
	default:
		return "", nil
	}
	var name string
	err := s.db.QueryRowContext(ctx, query, userID).Scan(&name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return name, nil
}

// requireRow converts a zero-row update/delete into ErrNotFound.
func requireRow(res sql.Result, err error) error {
	if err != nil {
		return liteErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
