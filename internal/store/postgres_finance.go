package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/coachdesk/coachdesk/internal/models"
)

// Fee receipts

const feeCols = `receipt_id, student_id, payment_no, payment_mode, transaction_id, amount, total_course_fees, amount_paid, amount_due, pdf_path, created_at, updated_at`

func scanFee(row scanner, f *models.FeeReceipt) error {
	return row.Scan(&f.ReceiptID, &f.StudentID, &f.PaymentNo, &f.PaymentMode, &f.TransactionID,
		&f.Amount, &f.TotalCourseFees, &f.AmountPaid, &f.AmountDue, &f.PDFPath, &f.CreatedAt, &f.UpdatedAt)
}

func (s *PostgresStore) CreateFeeReceipt(ctx context.Context, f *models.FeeReceipt) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO fee_receipts (`+feeCols+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, f.ReceiptID, f.StudentID, f.PaymentNo, f.PaymentMode, f.TransactionID,
		f.Amount, f.TotalCourseFees, f.AmountPaid, f.AmountDue, f.PDFPath, f.CreatedAt, f.UpdatedAt)
	return pgErr(err)
}

func (s *PostgresStore) GetFeeReceipt(ctx context.Context, id string) (*models.FeeReceipt, error) {
	f := &models.FeeReceipt{}
	err := scanFee(s.pool.QueryRow(ctx, `SELECT `+feeCols+` FROM fee_receipts WHERE receipt_id = $1`, id), f)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return f, nil
}

func (s *PostgresStore) GetFeeReceiptByStudent(ctx context.Context, studentID string) (*models.FeeReceipt, error) {
	f := &models.FeeReceipt{}
	err := scanFee(s.pool.QueryRow(ctx, `SELECT `+feeCols+` FROM fee_receipts WHERE student_id = $1`, studentID), f)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return f, nil
}

func (s *PostgresStore) ListFeeReceipts(ctx context.Context) ([]models.FeeReceipt, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+feeCols+` FROM fee_receipts ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.FeeReceipt
	for rows.Next() {
		var f models.FeeReceipt
		if err := scanFee(rows, &f); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (s *PostgresStore) UpdateFeeReceipt(ctx context.Context, f *models.FeeReceipt) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE fee_receipts
		SET payment_no = $2, payment_mode = $3, transaction_id = $4, amount = $5,
		    total_course_fees = $6, amount_paid = $7, amount_due = $8, pdf_path = $9, updated_at = $10
		WHERE receipt_id = $1
	`, f.ReceiptID, f.PaymentNo, f.PaymentMode, f.TransactionID, f.Amount,
		f.TotalCourseFees, f.AmountPaid, f.AmountDue, f.PDFPath, f.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteFeeReceipt(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM fee_receipts WHERE receipt_id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Salaries

const salaryCols = `salary_id, teacher_id, month, year, basic_salary, pf, si, da, pa, total_salary, transaction_id, pdf_path, created_at, updated_at`

func scanSalary(row scanner, sa *models.Salary) error {
	return row.Scan(&sa.SalaryID, &sa.TeacherID, &sa.Month, &sa.Year, &sa.BasicSalary, &sa.PF,
		&sa.SI, &sa.DA, &sa.PA, &sa.TotalSalary, &sa.TransactionID, &sa.PDFPath, &sa.CreatedAt, &sa.UpdatedAt)
}

func (s *PostgresStore) CreateSalary(ctx context.Context, sa *models.Salary) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO salaries (`+salaryCols+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, sa.SalaryID, sa.TeacherID, sa.Month, sa.Year, sa.BasicSalary, sa.PF,
		sa.SI, sa.DA, sa.PA, sa.TotalSalary, sa.TransactionID, sa.PDFPath, sa.CreatedAt, sa.UpdatedAt)
	return pgErr(err)
}

func (s *PostgresStore) GetSalary(ctx context.Context, id string) (*models.Salary, error) {
	sa := &models.Salary{}
	err := scanSalary(s.pool.QueryRow(ctx, `SELECT `+salaryCols+` FROM salaries WHERE salary_id = $1`, id), sa)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return sa, nil
}

func (s *PostgresStore) ListSalariesByTeacher(ctx context.Context, teacherID string) ([]models.Salary, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+salaryCols+` FROM salaries WHERE teacher_id = $1 ORDER BY year, month
	`, teacherID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Salary
	for rows.Next() {
		var sa models.Salary
		if err := scanSalary(rows, &sa); err != nil {
			return nil, err
		}
		out = append(out, sa)
	}
	return out, rows.Err()
}

func (s *PostgresStore) UpdateSalary(ctx context.Context, sa *models.Salary) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE salaries
		SET month = $2, year = $3, basic_salary = $4, pf = $5, si = $6, da = $7, pa = $8,
		    total_salary = $9, transaction_id = $10, pdf_path = $11, updated_at = $12
		WHERE salary_id = $1
	`, sa.SalaryID, sa.Month, sa.Year, sa.BasicSalary, sa.PF, sa.SI, sa.DA, sa.PA,
		sa.TotalSalary, sa.TransactionID, sa.PDFPath, sa.UpdatedAt)
	if err != nil {
		return pgErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteSalary(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM salaries WHERE salary_id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Admission enquiries

const enquiryCols = `enquiry_id, student_name, phone, email, course_id, counsellor_id, status, created_at, updated_at`

func scanEnquiry(row scanner, e *models.Enquiry) error {
	return row.Scan(&e.EnquiryID, &e.StudentName, &e.Phone, &e.Email, &e.CourseID,
		&e.CounsellorID, &e.Status, &e.CreatedAt, &e.UpdatedAt)
}

func (s *PostgresStore) CreateEnquiry(ctx context.Context, e *models.Enquiry) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO enquiries (`+enquiryCols+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, e.EnquiryID, e.StudentName, e.Phone, e.Email, e.CourseID, e.CounsellorID, e.Status, e.CreatedAt, e.UpdatedAt)
	return pgErr(err)
}

func (s *PostgresStore) GetEnquiry(ctx context.Context, id string) (*models.Enquiry, error) {
	e := &models.Enquiry{}
	err := scanEnquiry(s.pool.QueryRow(ctx, `SELECT `+enquiryCols+` FROM enquiries WHERE enquiry_id = $1`, id), e)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return e, nil
}

func (s *PostgresStore) ListEnquiries(ctx context.Context) ([]models.Enquiry, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+enquiryCols+` FROM enquiries ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Enquiry
	for rows.Next() {
		var e models.Enquiry
		if err := scanEnquiry(rows, &e); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *PostgresStore) UpdateEnquiry(ctx context.Context, e *models.Enquiry) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE enquiries
		SET student_name = $2, phone = $3, email = $4, course_id = $5, counsellor_id = $6,
		    status = $7, updated_at = $8
		WHERE enquiry_id = $1
	`, e.EnquiryID, e.StudentName, e.Phone, e.Email, e.CourseID, e.CounsellorID, e.Status, e.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteEnquiry(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM enquiries WHERE enquiry_id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Commissions

const commissionCols = `commission_id, counsellor_id, enquiry_id, student_name, course_id, course_name, commission_pct, course_fees, commission_amount, pdf_path, transaction_id, payment_status, month_year, created_at, updated_at`

func scanCommission(row scanner, c *models.Commission) error {
	return row.Scan(&c.CommissionID, &c.CounsellorID, &c.EnquiryID, &c.StudentName, &c.CourseID,
		&c.CourseName, &c.CommissionPct, &c.CourseFees, &c.CommissionAmount, &c.PDFPath,
		&c.TransactionID, &c.PaymentStatus, &c.MonthYear, &c.CreatedAt, &c.UpdatedAt)
}

func (s *PostgresStore) CreateCommission(ctx context.Context, c *models.Commission) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO commissions (`+commissionCols+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`, c.CommissionID, c.CounsellorID, c.EnquiryID, c.StudentName, c.CourseID, c.CourseName,
		c.CommissionPct, c.CourseFees, c.CommissionAmount, c.PDFPath, c.TransactionID,
		c.PaymentStatus, c.MonthYear, c.CreatedAt, c.UpdatedAt)
	return pgErr(err)
}

func (s *PostgresStore) GetCommission(ctx context.Context, id string) (*models.Commission, error) {
	c := &models.Commission{}
	err := scanCommission(s.pool.QueryRow(ctx, `SELECT `+commissionCols+` FROM commissions WHERE commission_id = $1`, id), c)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

func (s *PostgresStore) ListCommissions(ctx context.Context) ([]models.Commission, error) {
	return s.listCommissions(ctx, `SELECT `+commissionCols+` FROM commissions ORDER BY created_at DESC`)
}

func (s *PostgresStore) ListCommissionsByCounsellor(ctx context.Context, counsellorID string) ([]models.Commission, error) {
	return s.listCommissions(ctx,
		`SELECT `+commissionCols+` FROM commissions WHERE counsellor_id = $1 ORDER BY created_at DESC`, counsellorID)
}

func (s *PostgresStore) listCommissions(ctx context.Context, query string, args ...any) ([]models.Commission, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Commission
	for rows.Next() {
		var c models.Commission
		if err := scanCommission(rows, &c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *PostgresStore) UpdateCommissionPayment(ctx context.Context, id, transactionID, status string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE commissions SET transaction_id = $2, payment_status = $3, updated_at = NOW()
		WHERE commission_id = $1
	`, id, transactionID, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Announcements

func (s *PostgresStore) CreateAnnouncement(ctx context.Context, a *models.Announcement) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO announcements (announcement_id, title, body, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, a.AnnouncementID, a.Title, a.Body, a.CreatedBy, a.CreatedAt, a.UpdatedAt)
	return pgErr(err)
}

func (s *PostgresStore) GetAnnouncement(ctx context.Context, id string) (*models.Announcement, error) {
	a := &models.Announcement{}
	err := s.pool.QueryRow(ctx, `
		SELECT announcement_id, title, body, created_by, created_at, updated_at
		FROM announcements WHERE announcement_id = $1
	`, id).Scan(&a.AnnouncementID, &a.Title, &a.Body, &a.CreatedBy, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return a, nil
}

func (s *PostgresStore) ListAnnouncements(ctx context.Context) ([]models.Announcement, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT announcement_id, title, body, created_by, created_at, updated_at
		FROM announcements ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Announcement
	for rows.Next() {
		var a models.Announcement
		if err := rows.Scan(&a.AnnouncementID, &a.Title, &a.Body, &a.CreatedBy, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *PostgresStore) UpdateAnnouncement(ctx context.Context, a *models.Announcement) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE announcements SET title = $2, body = $3, updated_at = $4
		WHERE announcement_id = $1
	`, a.AnnouncementID, a.Title, a.Body, a.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteAnnouncement(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM announcements WHERE announcement_id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
