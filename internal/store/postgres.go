package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/coachdesk/coachdesk/internal/models"
)

// PostgresStore handles PostgreSQL database operations.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL store with a connection pool.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

// Close closes the database connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping checks the database connection.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// pgErr maps driver errors onto the store sentinels.
func pgErr(err error) error {
	if err == nil {
		return nil
	}
	var pge *pgconn.PgError
	if errors.As(err, &pge) {
		switch pge.Code {
		case "23505": // unique_violation
			return ErrConflict
		case "23503": // foreign_key_violation
			return ErrRoomGone
		}
	}
	return err
}

// Classrooms

func (s *PostgresStore) CreateClassroom(ctx context.Context, c *models.Classroom) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO classrooms (room_id, name, description, photo_path, created_by, chat_policy, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, c.RoomID, c.Name, c.Description, c.PhotoPath, c.CreatedBy, c.ChatPolicy, c.CreatedAt, c.UpdatedAt)
	return pgErr(err)
}

func (s *PostgresStore) GetClassroom(ctx context.Context, roomID string) (*models.Classroom, error) {
	c := &models.Classroom{}
	err := s.pool.QueryRow(ctx, `
		SELECT room_id, name, description, photo_path, created_by, chat_policy, created_at, updated_at
		FROM classrooms WHERE room_id = $1
	`, roomID).Scan(&c.RoomID, &c.Name, &c.Description, &c.PhotoPath, &c.CreatedBy, &c.ChatPolicy, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

func (s *PostgresStore) ListClassrooms(ctx context.Context) ([]models.Classroom, error) {
	rows, err := s.pool.Query(ctx, `
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

func (s *PostgresStore) UpdateClassroom(ctx context.Context, c *models.Classroom) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE classrooms
		SET name = $2, description = $3, photo_path = $4, chat_policy = $5, updated_at = $6
		WHERE room_id = $1
	`, c.RoomID, c.Name, c.Description, c.PhotoPath, c.ChatPolicy, c.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteClassroom(ctx context.Context, roomID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM classrooms WHERE room_id = $1`, roomID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Memberships

func (s *PostgresStore) UpsertMembership(ctx context.Context, m *models.Membership) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO memberships (room_id, user_id, role, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (room_id, user_id) DO UPDATE SET role = EXCLUDED.role
	`, m.RoomID, m.UserID, m.Role, m.CreatedAt)
	return pgErr(err)
}

func (s *PostgresStore) GetMembership(ctx context.Context, roomID, userID string) (*models.Membership, error) {
	m := &models.Membership{}
	err := s.pool.QueryRow(ctx, `
		SELECT room_id, user_id, role, created_at
		FROM memberships WHERE room_id = $1 AND user_id = $2
	`, roomID, userID).Scan(&m.RoomID, &m.UserID, &m.Role, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return m, nil
}

func (s *PostgresStore) ListMembers(ctx context.Context, roomID string) ([]models.Membership, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT room_id, user_id, role, created_at
		FROM memberships WHERE room_id = $1 ORDER BY created_at
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

func (s *PostgresStore) DeleteMembership(ctx context.Context, roomID, userID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM memberships WHERE room_id = $1 AND user_id = $2`, roomID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Messages

func (s *PostgresStore) AppendMessage(ctx context.Context, msg *models.Message) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO messages (message_id, room_id, sender_id, sender_role, sender_name, content, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, msg.MessageID, msg.RoomID, msg.SenderID, msg.SenderRole, msg.SenderName, msg.Content, msg.CreatedAt)
	return pgErr(err)
}

func (s *PostgresStore) RecentMessages(ctx context.Context, roomID string, limit int) ([]models.Message, error) {
	// message IDs are ULIDs: sorting by id sorts by creation time
	rows, err := s.pool.Query(ctx, `
		SELECT message_id, room_id, sender_id, sender_role, sender_name, content, created_at
		FROM messages WHERE room_id = $1
		ORDER BY message_id DESC LIMIT $2
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
	reverseMessages(out) // oldest-first
	return out, nil
}

func (s *PostgresStore) GetMessage(ctx context.Context, roomID, messageID string) (*models.Message, error) {
	m := &models.Message{}
	err := s.pool.QueryRow(ctx, `
		SELECT message_id, room_id, sender_id, sender_role, sender_name, content, created_at
		FROM messages WHERE room_id = $1 AND message_id = $2
	`, roomID, messageID).Scan(&m.MessageID, &m.RoomID, &m.SenderID, &m.SenderRole, &m.SenderName, &m.Content, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return m, nil
}

func (s *PostgresStore) DeleteMessage(ctx context.Context, roomID, messageID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM messages WHERE room_id = $1 AND message_id = $2`, roomID, messageID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DisplayName(ctx context.Context, role, userID string) (string, error) {
	var query string
	switch role {
	case models.MemberRoleTeacher, models.MemberRoleAdmin:
		query = `SELECT full_name FROM teachers WHERE teacher_id = $1`
	case models.MemberRoleStudent:
		query = `SELECT full_name FROM students WHERE student_id = $1`
	default:
		return "", nil
	}
	var name string
	err := s.pool.QueryRow(ctx, query, userID).Scan(&name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return name, nil
}

func reverseMessages(msgs []models.Message) {
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
}
