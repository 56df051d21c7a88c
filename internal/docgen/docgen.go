package docgen

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/coachdesk/coachdesk/internal/metrics"
	"github.com/coachdesk/coachdesk/internal/models"
)

const instituteName = "CoachDesk Institute"

// Generator writes PDF documents under a base directory and returns paths
// relative to it, which are what gets stored in pdf_path columns and served
// under /documents/.
type Generator struct {
	dir string
}

// New creates a Generator rooted at dir, creating it if needed.
func New(dir string) (*Generator, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &Generator{dir: dir}, nil
}

// Dir returns the base directory, for the static file route.
func (g *Generator) Dir() string {
	return g.dir
}

func newDoc(title string) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, instituteName, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")
	pdf.Ln(4)
	return pdf
}

func row(pdf *fpdf.Fpdf, key, value string) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(60, 8, key, "1", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(120, 8, value, "1", 1, "L", false, 0, "")
}

func (g *Generator) save(pdf *fpdf.Fpdf, name string) (string, error) {
	if err := pdf.OutputFileAndClose(filepath.Join(g.dir, name)); err != nil {
		return "", err
	}
	return name, nil
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// FeeReceipt renders a student's fee receipt and returns its relative path.
func (g *Generator) FeeReceipt(f *models.FeeReceipt, student *models.Student, course *models.Course) (string, error) {
	pdf := newDoc("Fee Receipt")

	row(pdf, "Receipt No", f.ReceiptID)
	row(pdf, "Date", f.UpdatedAt.Format("02 Jan 2006"))
	row(pdf, "Student", student.FullName)
	row(pdf, "Student ID", student.StudentID)
	if course != nil {
		row(pdf, "Course", course.Name)
	}
	row(pdf, "Payment No", fmt.Sprintf("%d", f.PaymentNo))
	row(pdf, "Payment Mode", f.PaymentMode)
	if f.TransactionID != "" {
		row(pdf, "Transaction ID", f.TransactionID)
	}
	pdf.Ln(4)
	row(pdf, "Amount Paid Now", money(f.Amount))
	row(pdf, "Total Course Fees", money(f.TotalCourseFees))
	row(pdf, "Total Paid", money(f.AmountPaid))
	row(pdf, "Amount Due", money(f.AmountDue))

	metrics.DocumentsGenerated.WithLabelValues("fee_receipt").Inc()
	return g.save(pdf, fmt.Sprintf("fee_%s.pdf", f.ReceiptID))
}

// SalarySlip renders one month's salary slip for a teacher.
func (g *Generator) SalarySlip(sa *models.Salary, teacher *models.Teacher) (string, error) {
	pdf := newDoc("Salary Slip")

	row(pdf, "Slip No", sa.SalaryID)
	row(pdf, "Period", fmt.Sprintf("%s %d", time.Month(sa.Month).String(), sa.Year))
	row(pdf, "Teacher", teacher.FullName)
	row(pdf, "Teacher ID", teacher.TeacherID)
	if teacher.BankAccountName != "" {
		row(pdf, "Bank Account", teacher.BankAccountName)
		row(pdf, "Branch", teacher.BankBranch)
	}
	pdf.Ln(4)
	row(pdf, "Basic Salary", money(sa.BasicSalary))
	row(pdf, "PF", money(sa.PF))
	row(pdf, "SI", money(sa.SI))
	row(pdf, "DA", money(sa.DA))
	row(pdf, "PA", money(sa.PA))
	row(pdf, "Total Salary", money(sa.TotalSalary))
	if sa.TransactionID != "" {
		row(pdf, "Transaction ID", sa.TransactionID)
	}

	metrics.DocumentsGenerated.WithLabelValues("salary_slip").Inc()
	return g.save(pdf, fmt.Sprintf("salary_%s.pdf", sa.SalaryID))
}

// CommissionSlip renders a counsellor's commission slip for a confirmed
// admission.
func (g *Generator) CommissionSlip(c *models.Commission, counsellor *models.Counsellor) (string, error) {
	pdf := newDoc("Commission Slip")

	row(pdf, "Slip No", c.CommissionID)
	row(pdf, "Month", c.MonthYear)
	row(pdf, "Counsellor", counsellor.FullName)
	row(pdf, "Counsellor ID", counsellor.CounsellorID)
	row(pdf, "Student", c.StudentName)
	if c.CourseName != "" {
		row(pdf, "Course", c.CourseName)
	}
	pdf.Ln(4)
	row(pdf, "Course Fees", money(c.CourseFees))
	row(pdf, "Commission %", fmt.Sprintf("%.2f", c.CommissionPct))
	row(pdf, "Commission Amount", money(c.CommissionAmount))
	row(pdf, "Payment Status", c.PaymentStatus)

	metrics.DocumentsGenerated.WithLabelValues("commission_slip").Inc()
	return g.save(pdf, fmt.Sprintf("commission_%s.pdf", c.CommissionID))
}
