package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/coachdesk/coachdesk/internal/models"
)

// Students

func (s *SQLiteStore) CreateStudent(ctx context.Context, st *models.Student) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO students (`+studentCols+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, st.StudentID, st.FullName, st.Phone, st.Email, st.Address, st.GuardianName,
		st.GuardianPhone, st.CourseID, st.PhotoPath, st.PasswordHash, st.CreatedAt, st.UpdatedAt)
	return liteErr(err)
}

func (s *SQLiteStore) GetStudent(ctx context.Context, id string) (*models.Student, error) {
	st := &models.Student{}
	err := scanStudent(s.db.QueryRowContext(ctx, `SELECT `+studentCols+` FROM students WHERE student_id = ?`, id), st)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return st, nil
}

func (s *SQLiteStore) GetStudentByEmail(ctx context.Context, email string) (*models.Student, error) {
	st := &models.Student{}
	err := scanStudent(s.db.QueryRowContext(ctx, `SELECT `+studentCols+` FROM students WHERE email = ?`, email), st)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return st, nil
}

func (s *SQLiteStore) ListStudents(ctx context.Context) ([]models.Student, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+studentCols+` FROM students ORDER BY created_at DESC`)
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

func (s *SQLiteStore) UpdateStudent(ctx context.Context, st *models.Student) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE students
		SET full_name = ?, phone = ?, email = ?, address = ?, guardian_name = ?,
		    guardian_phone = ?, course_id = ?, photo_path = ?, password_hash = ?, updated_at = ?
		WHERE student_id = ?
	`, st.FullName, st.Phone, st.Email, st.Address, st.GuardianName,
		st.GuardianPhone, st.CourseID, st.PhotoPath, st.PasswordHash, st.UpdatedAt, st.StudentID)
	return requireRow(res, err)
}

func (s *SQLiteStore) DeleteStudent(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM students WHERE student_id = ?`, id)
	return requireRow(res, err)
}

// Teachers

func (s *SQLiteStore) CreateTeacher(ctx context.Context, t *models.Teacher) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO teachers (`+teacherCols+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.TeacherID, t.FullName, t.Phone, t.Email, t.Subject, t.BankAccountName,
		t.BankBranch, t.PhotoPath, t.PasswordHash, t.CreatedAt, t.UpdatedAt)
	return liteErr(err)
}

func (s *SQLiteStore) GetTeacher(ctx context.Context, id string) (*models.Teacher, error) {
	t := &models.Teacher{}
	err := scanTeacher(s.db.QueryRowContext(ctx, `SELECT `+teacherCols+` FROM teachers WHERE teacher_id = ?`, id), t)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return t, nil
}

func (s *SQLiteStore) GetTeacherByEmail(ctx context.Context, email string) (*models.Teacher, error) {
	t := &models.Teacher{}
	err := scanTeacher(s.db.QueryRowContext(ctx, `SELECT `+teacherCols+` FROM teachers WHERE email = ?`, email), t)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return t, nil
}

func (s *SQLiteStore) ListTeachers(ctx context.Context) ([]models.Teacher, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+teacherCols+` FROM teachers ORDER BY created_at DESC`)
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

func (s *SQLiteStore) UpdateTeacher(ctx context.Context, t *models.Teacher) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE teachers
		SET full_name = ?, phone = ?, email = ?, subject = ?, bank_account_name = ?,
		    bank_branch = ?, photo_path = ?, password_hash = ?, updated_at = ?
		WHERE teacher_id = ?
	`, t.FullName, t.Phone, t.Email, t.Subject, t.BankAccountName,
		t.BankBranch, t.PhotoPath, t.PasswordHash, t.UpdatedAt, t.TeacherID)
	return requireRow(res, err)
}

func (s *SQLiteStore) DeleteTeacher(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM teachers WHERE teacher_id = ?`, id)
	return requireRow(res, err)
}

// Counsellors

func (s *SQLiteStore) CreateCounsellor(ctx context.Context, c *models.Counsellor) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO counsellors (`+counsellorCols+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, c.CounsellorID, c.FullName, c.Phone, c.Email, c.CommissionPct, c.PasswordHash, c.CreatedAt, c.UpdatedAt)
	return liteErr(err)
}

func (s *SQLiteStore) GetCounsellor(ctx context.Context, id string) (*models.Counsellor, error) {
	c := &models.Counsellor{}
	err := scanCounsellor(s.db.QueryRowContext(ctx, `SELECT `+counsellorCols+` FROM counsellors WHERE counsellor_id = ?`, id), c)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

func (s *SQLiteStore) GetCounsellorByEmail(ctx context.Context, email string) (*models.Counsellor, error) {
	c := &models.Counsellor{}
	err := scanCounsellor(s.db.QueryRowContext(ctx, `SELECT `+counsellorCols+` FROM counsellors WHERE email = ?`, email), c)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

func (s *SQLiteStore) ListCounsellors(ctx context.Context) ([]models.Counsellor, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+counsellorCols+` FROM counsellors ORDER BY created_at DESC`)
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

func (s *SQLiteStore) UpdateCounsellor(ctx context.Context, c *models.Counsellor) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE counsellors
		SET full_name = ?, phone = ?, email = ?, commission_pct = ?, password_hash = ?, updated_at = ?
		WHERE counsellor_id = ?
	`, c.FullName, c.Phone, c.Email, c.CommissionPct, c.PasswordHash, c.UpdatedAt, c.CounsellorID)
	return requireRow(res, err)
}

func (s *SQLiteStore) DeleteCounsellor(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM counsellors WHERE counsellor_id = ?`, id)
	return requireRow(res, err)
}

// Courses

func (s *SQLiteStore) CreateCourse(ctx context.Context, c *models.Course) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO courses (course_id, name, description, fees, duration, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, c.CourseID, c.Name, c.Description, c.Fees, c.Duration, c.CreatedAt, c.UpdatedAt)
	return liteErr(err)
}

func (s *SQLiteStore) GetCourse(ctx context.Context, id string) (*models.Course, error) {
	c := &models.Course{}
	err := s.db.QueryRowContext(ctx, `
		SELECT course_id, name, description, fees, duration, created_at, updated_at
		FROM courses WHERE course_id = ?
	`, id).Scan(&c.CourseID, &c.Name, &c.Description, &c.Fees, &c.Duration, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

func (s *SQLiteStore) ListCourses(ctx context.Context) ([]models.Course, error) {
	rows, err := s.db.QueryContext(ctx, `
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

func (s *SQLiteStore) UpdateCourse(ctx context.Context, c *models.Course) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE courses
		SET name = ?, description = ?, fees = ?, duration = ?, updated_at = ?
		WHERE course_id = ?
	`, c.Name, c.Description, c.Fees, c.Duration, c.UpdatedAt, c.CourseID)
	return requireRow(res, err)
}

func (s *SQLiteStore) DeleteCourse(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM courses WHERE course_id = ?`, id)
	return requireRow(res, err)
}
