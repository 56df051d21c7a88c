package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/coachdesk/coachdesk/internal/models"
)

// Students

const studentCols = `student_id, full_name, phone, email, address, guardian_name, guardian_phone, course_id, photo_path, password_hash, created_at, updated_at`

func scanStudent(row scanner, s *models.Student) error {
	return row.Scan(&s.StudentID, &s.FullName, &s.Phone, &s.Email, &s.Address, &s.GuardianName,
		&s.GuardianPhone, &s.CourseID, &s.PhotoPath, &s.PasswordHash, &s.CreatedAt, &s.UpdatedAt)
}

func (s *PostgresStore) CreateStudent(ctx context.Context, st *models.Student) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO students (`+studentCols+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, st.StudentID, st.FullName, st.Phone, st.Email, st.Address, st.GuardianName,
		st.GuardianPhone, st.CourseID, st.PhotoPath, st.PasswordHash, st.CreatedAt, st.UpdatedAt)
	return pgErr(err)
}

func (s *PostgresStore) GetStudent(ctx context.Context, id string) (*models.Student, error) {
	st := &models.Student{}
	err := scanStudent(s.pool.QueryRow(ctx, `SELECT `+studentCols+` FROM students WHERE student_id = $1`, id), st)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return st, nil
}

func (s *PostgresStore) GetStudentByEmail(ctx context.Context, email string) (*models.Student, error) {
	st := &models.Student{}
	err := scanStudent(s.pool.QueryRow(ctx, `SELECT `+studentCols+` FROM students WHERE email = $1`, email), st)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return st, nil
}

func (s *PostgresStore) ListStudents(ctx context.Context) ([]models.Student, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+studentCols+` FROM students ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Student
	for rows.Next() {
		var st models.Student
		if err := scanStudent(rows, &st); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (s *PostgresStore) UpdateStudent(ctx context.Context, st *models.Student) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE students
		SET full_name = $2, phone = $3, email = $4, address = $5, guardian_name = $6,
		    guardian_phone = $7, course_id = $8, photo_path = $9, password_hash = $10, updated_at = $11
		WHERE student_id = $1
	`, st.StudentID, st.FullName, st.Phone, st.Email, st.Address, st.GuardianName,
		st.GuardianPhone, st.CourseID, st.PhotoPath, st.PasswordHash, st.UpdatedAt)
	if err != nil {
		return pgErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteStudent(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM students WHERE student_id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Teachers

const teacherCols = `teacher_id, full_name, phone, email, subject, bank_account_name, bank_branch, photo_path, password_hash, created_at, updated_at`

func scanTeacher(row scanner, t *models.Teacher) error {
	return row.Scan(&t.TeacherID, &t.FullName, &t.Phone, &t.Email, &t.Subject, &t.BankAccountName,
		&t.BankBranch, &t.PhotoPath, &t.PasswordHash, &t.CreatedAt, &t.UpdatedAt)
}

func (s *PostgresStore) CreateTeacher(ctx context.Context, t *models.Teacher) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO teachers (`+teacherCols+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, t.TeacherID, t.FullName, t.Phone, t.Email, t.Subject, t.BankAccountName,
		t.BankBranch, t.PhotoPath, t.PasswordHash, t.CreatedAt, t.UpdatedAt)
	return pgErr(err)
}

func (s *PostgresStore) GetTeacher(ctx context.Context, id string) (*models.Teacher, error) {
	t := &models.Teacher{}
	err := scanTeacher(s.pool.QueryRow(ctx, `SELECT `+teacherCols+` FROM teachers WHERE teacher_id = $1`, id), t)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return t, nil
}

func (s *PostgresStore) GetTeacherByEmail(ctx context.Context, email string) (*models.Teacher, error) {
	t := &models.Teacher{}
	err := scanTeacher(s.pool.QueryRow(ctx, `SELECT `+teacherCols+` FROM teachers WHERE email = $1`, email), t)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return t, nil
}

func (s *PostgresStore) ListTeachers(ctx context.Context) ([]models.Teacher, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+teacherCols+` FROM teachers ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Teacher
	for rows.Next() {
		var t models.Teacher
		if err := scanTeacher(rows, &t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *PostgresStore) UpdateTeacher(ctx context.Context, t *models.Teacher) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE teachers
		SET full_name = $2, phone = $3, email = $4, subject = $5, bank_account_name = $6,
		    bank_branch = $7, photo_path = $8, password_hash = $9, updated_at = $10
		WHERE teacher_id = $1
	`, t.TeacherID, t.FullName, t.Phone, t.Email, t.Subject, t.BankAccountName,
		t.BankBranch, t.PhotoPath, t.PasswordHash, t.UpdatedAt)
	if err != nil {
		return pgErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteTeacher(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM teachers WHERE teacher_id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Counsellors

const counsellorCols = `counsellor_id, full_name, phone, email, commission_pct, password_hash, created_at, updated_at`

func scanCounsellor(row scanner, c *models.Counsellor) error {
	return row.Scan(&c.CounsellorID, &c.FullName, &c.Phone, &c.Email, &c.CommissionPct,
		&c.PasswordHash, &c.CreatedAt, &c.UpdatedAt)
}

func (s *PostgresStore) CreateCounsellor(ctx context.Context, c *models.Counsellor) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO counsellors (`+counsellorCols+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, c.CounsellorID, c.FullName, c.Phone, c.Email, c.CommissionPct, c.PasswordHash, c.CreatedAt, c.UpdatedAt)
	return pgErr(err)
}

func (s *PostgresStore) GetCounsellor(ctx context.Context, id string) (*models.Counsellor, error) {
	c := &models.Counsellor{}
	err := scanCounsellor(s.pool.QueryRow(ctx, `SELECT `+counsellorCols+` FROM counsellors WHERE counsellor_id = $1`, id), c)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

func (s *PostgresStore) GetCounsellorByEmail(ctx context.Context, email string) (*models.Counsellor, error) {
	c := &models.Counsellor{}
	err := scanCounsellor(s.pool.QueryRow(ctx, `SELECT `+counsellorCols+` FROM counsellors WHERE email = $1`, email), c)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

func (s *PostgresStore) ListCounsellors(ctx context.Context) ([]models.Counsellor, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+counsellorCols+` FROM counsellors ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Counsellor
	for rows.Next() {
		var c models.Counsellor
		if err := scanCounsellor(rows, &c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *PostgresStore) UpdateCounsellor(ctx context.Context, c *models.Counsellor) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE counsellors
		SET full_name = $2, phone = $3, email = $4, commission_pct = $5, password_hash = $6, updated_at = $7
		WHERE counsellor_id = $1
	`, c.CounsellorID, c.FullName, c.Phone, c.Email, c.CommissionPct, c.PasswordHash, c.UpdatedAt)
	if err != nil {
		return pgErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteCounsellor(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM counsellors WHERE counsellor_id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Courses

func (s *PostgresStore) CreateCourse(ctx context.Context, c *models.Course) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO courses (course_id, name, description, fees, duration, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, c.CourseID, c.Name, c.Description, c.Fees, c.Duration, c.CreatedAt, c.UpdatedAt)
	return pgErr(err)
}

func (s *PostgresStore) GetCourse(ctx context.Context, id string) (*models.Course, error) {
	c := &models.Course{}
	err := s.pool.QueryRow(ctx, `
		SELECT course_id, name, description, fees, duration, created_at, updated_at
		FROM courses WHERE course_id = $1
	`, id).Scan(&c.CourseID, &c.Name, &c.Description, &c.Fees, &c.Duration, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

func (s *PostgresStore) ListCourses(ctx context.Context) ([]models.Course, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT course_id, name, description, fees, duration, created_at, updated_at
		FROM courses ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Course
	for rows.Next() {
		var c models.Course
		if err := rows.Scan(&c.CourseID, &c.Name, &c.Description, &c.Fees, &c.Duration, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *PostgresStore) UpdateCourse(ctx context.Context, c *models.Course) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE courses
		SET name = $2, description = $3, fees = $4, duration = $5, updated_at = $6
		WHERE course_id = $1
	`, c.CourseID, c.Name, c.Description, c.Fees, c.Duration, c.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteCourse(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM courses WHERE course_id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
