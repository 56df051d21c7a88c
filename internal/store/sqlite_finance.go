package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/coachdesk/coachdesk/internal/models"
)

// Fee receipts

func (s *SQLiteStore) CreateFeeReceipt(ctx context.Context, f *models.FeeReceipt) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO fee_receipts (`+feeCols+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, f.ReceiptID, f.StudentID, f.PaymentNo, f.PaymentMode, f.TransactionID,
		f.Amount, f.TotalCourseFees, f.AmountPaid, f.AmountDue, f.PDFPath, f.CreatedAt, f.UpdatedAt)
	return liteErr(err)
}

func (s *SQLiteStore) GetFeeReceipt(ctx context.Context, id string) (*models.FeeReceipt, error) {
	f := &models.FeeReceipt{}
	err := scanFee(s.db.QueryRowContext(ctx, `SELECT `+feeCols+` FROM fee_receipts WHERE receipt_id = ?`, id), f)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return f, nil
}

func (s *SQLiteStore) GetFeeReceiptByStudent(ctx context.Context, studentID string) (*models.FeeReceipt, error) {
	f := &models.FeeReceipt{}
	err := scanFee(s.db.QueryRowContext(ctx, `SELECT `+feeCols+` FROM fee_receipts WHERE student_id = ?`, studentID), f)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return f, nil
}

func (s *SQLiteStore) ListFeeReceipts(ctx context.Context) ([]models.FeeReceipt, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+feeCols+` FROM fee_receipts ORDER BY created_at DESC`)
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

func (s *SQLiteStore) UpdateFeeReceipt(ctx context.Context, f *models.FeeReceipt) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE fee_receipts
		SET payment_no = ?, payment_mode = ?, transaction_id = ?, amount = ?,
		    total_course_fees = ?, amount_paid = ?, amount_due = ?, pdf_path = ?, updated_at = ?
		WHERE receipt_id = ?
	`, f.PaymentNo, f.PaymentMode, f.TransactionID, f.Amount,
		f.TotalCourseFees, f.AmountPaid, f.AmountDue, f.PDFPath, f.UpdatedAt, f.ReceiptID)
	return requireRow(res, err)
}

func (s *SQLiteStore) DeleteFeeReceipt(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM fee_receipts WHERE receipt_id = ?`, id)
	return requireRow(res, err)
}

// Salaries

func (s *SQLiteStore) CreateSalary(ctx context.Context, sa *models.Salary) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO salaries (`+salaryCols+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, sa.SalaryID, sa.TeacherID, sa.Month, sa.Year, sa.BasicSalary, sa.PF,
		sa.SI, sa.DA, sa.PA, sa.TotalSalary, sa.TransactionID, sa.PDFPath, sa.CreatedAt, sa.UpdatedAt)
	return liteErr(err)
}

func (s *SQLiteStore) GetSalary(ctx context.Context, id string) (*models.Salary, error) {
	sa := &models.Salary{}
	err := scanSalary(s.db.QueryRowContext(ctx, `SELECT `+salaryCols+` FROM salaries WHERE salary_id = ?`, id), sa)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return sa, nil
}

func (s *SQLiteStore) ListSalariesByTeacher(ctx context.Context, teacherID string) ([]models.Salary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+salaryCols+` FROM salaries WHERE teacher_id = ? ORDER BY year, month
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

func (s *SQLiteStore) UpdateSalary(ctx context.Context, sa *models.Salary) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE salaries
		SET month = ?, year = ?, basic_salary = ?, pf = ?, si = ?, da = ?, pa = ?,
		    total_salary = ?, transaction_id = ?, pdf_path = ?, updated_at = ?
		WHERE salary_id = ?
	`, sa.Month, sa.Year, sa.BasicSalary, sa.PF, sa.SI, sa.DA, sa.PA,
		sa.TotalSalary, sa.TransactionID, sa.PDFPath, sa.UpdatedAt, sa.SalaryID)
	return requireRow(res, err)
}

func (s *SQLiteStore) DeleteSalary(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM salaries WHERE salary_id = ?`, id)
	return requireRow(res, err)
}

// Admission enquiries

func (s *SQLiteStore) CreateEnquiry(ctx context.Context, e *models.Enquiry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO enquiries (`+enquiryCols+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.EnquiryID, e.StudentName, e.Phone, e.Email, e.CourseID, e.CounsellorID, e.Status, e.CreatedAt, e.UpdatedAt)
	return liteErr(err)
}

func (s *SQLiteStore) GetEnquiry(ctx context.Context, id string) (*models.Enquiry, error) {
	e := &models.Enquiry{}
	err := scanEnquiry(s.db.QueryRowContext(ctx, `SELECT `+enquiryCols+` FROM enquiries WHERE enquiry_id = ?`, id), e)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return e, nil
}

func (s *SQLiteStore) ListEnquiries(ctx context.Context) ([]models.Enquiry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+enquiryCols+` FROM enquiries ORDER BY created_at DESC`)
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

func (s *SQLiteStore) UpdateEnquiry(ctx context.Context, e *models.Enquiry) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE enquiries
		SET student_name = ?, phone = ?, email = ?, course_id = ?, counsellor_id = ?,
		    status = ?, updated_at = ?
		WHERE enquiry_id = ?
	`, e.StudentName, e.Phone, e.Email, e.CourseID, e.CounsellorID, e.Status, e.UpdatedAt, e.EnquiryID)
	return requireRow(res, err)
}

func (s *SQLiteStore) DeleteEnquiry(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM enquiries WHERE enquiry_id = ?`, id)
	return requireRow(res, err)
}

// Commissions

func (s *SQLiteStore) CreateCommission(ctx context.Context, c *models.Commission) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO commissions (`+commissionCols+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, c.CommissionID, c.CounsellorID, c.EnquiryID, c.StudentName, c.CourseID, c.CourseName,
		c.CommissionPct, c.CourseFees, c.CommissionAmount, c.PDFPath, c.TransactionID,
		c.PaymentStatus, c.MonthYear, c.CreatedAt, c.UpdatedAt)
	return liteErr(err)
}

func (s *SQLiteStore) GetCommission(ctx context.Context, id string) (*models.Commission, error) {
	c := &models.Commission{}
	err := scanCommission(s.db.QueryRowContext(ctx, `SELECT `+commissionCols+` FROM commissions WHERE commission_id = ?`, id), c)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

func (s *SQLiteStore) ListCommissions(ctx context.Context) ([]models.Commission, error) {
	return s.listCommissions(ctx, `SELECT `+commissionCols+` FROM commissions ORDER BY created_at DESC`)
}

func (s *SQLiteStore) ListCommissionsByCounsellor(ctx context.Context, counsellorID string) ([]models.Commission, error) {
	return s.listCommissions(ctx,
		`SELECT `+commissionCols+` FROM commissions WHERE counsellor_id = ? ORDER BY created_at DESC`, counsellorID)
}

func (s *SQLiteStore) listCommissions(ctx context.Context, query string, args ...any) ([]models.Commission, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
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

func (s *SQLiteStore) UpdateCommissionPayment(ctx context.Context, id, transactionID, status string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE commissions SET transaction_id = ?, payment_status = ?, updated_at = ?
		WHERE commission_id = ?
	`, transactionID, status, time.Now().UTC(), id)
	return requireRow(res, err)
}

// Announcements

func (s *SQLiteStore) CreateAnnouncement(ctx context.Context, a *models.Announcement) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO announcements (announcement_id, title, body, created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, a.AnnouncementID, a.Title, a.Body, a.CreatedBy, a.CreatedAt, a.UpdatedAt)
	return liteErr(err)
}

func (s *SQLiteStore) GetAnnouncement(ctx context.Context, id string) (*models.Announcement, error) {
	a := &models.Announcement{}
	err := s.db.QueryRowContext(ctx, `
		SELECT announcement_id, title, body, created_by, created_at, updated_at
		FROM announcements WHERE announcement_id = ?
	`, id).Scan(&a.AnnouncementID, &a.Title, &a.Body, &a.CreatedBy, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return a, nil
}

func (s *SQLiteStore) ListAnnouncements(ctx context.Context) ([]models.Announcement, error) {
	rows, err := s.db.QueryContext(ctx, `
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

func (s *SQLiteStore) UpdateAnnouncement(ctx context.Context, a *models.Announcement) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE announcements SET title = ?, body = ?, updated_at = ?
		WHERE announcement_id = ?
	`, a.Title, a.Body, a.UpdatedAt, a.AnnouncementID)
	return requireRow(res, err)
}

func (s *SQLiteStore) DeleteAnnouncement(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM announcements WHERE announcement_id = ?`, id)
	return requireRow(res, err)
}
