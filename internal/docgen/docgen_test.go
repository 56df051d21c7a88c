package docgen

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coachdesk/coachdesk/internal/models"
)

func newTestGenerator(t *testing.T) *Generator {
	t.Helper()
	g, err := New(filepath.Join(t.TempDir(), "documents"))
	require.NoError(t, err)
	return g
}

func requirePDF(t *testing.T, g *Generator, name string) {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(g.Dir(), name))
	require.NoError(t, err)
	require.Greater(t, len(data), 4)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestNewCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "documents")
	g, err := New(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, g.Dir())

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestFeeReceipt(t *testing.T) {
	g := newTestGenerator(t)
	now := time.Now().UTC()

	f := &models.FeeReceipt{
		ReceiptID:       "FEE20260828120000-0001",
		StudentID:       "STU20260828120000-0001",
		PaymentNo:       1,
		PaymentMode:     "upi",
		TransactionID:   "TXN-1",
		Amount:          5000,
		TotalCourseFees: 20000,
		AmountPaid:      5000,
		AmountDue:       15000,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	student := &models.Student{StudentID: f.StudentID, FullName: "Asha Verma"}
	course := &models.Course{CourseID: "CRS1", Name: "JEE Foundation", Fees: 20000}

	name, err := g.FeeReceipt(f, student, course)
	require.NoError(t, err)
	assert.Equal(t, "fee_"+f.ReceiptID+".pdf", name)
	requirePDF(t, g, name)
}

func TestFeeReceiptWithoutCourse(t *testing.T) {
	g := newTestGenerator(t)

	f := &models.FeeReceipt{ReceiptID: "FEE1", StudentID: "STU1", Amount: 100, UpdatedAt: time.Now().UTC()}
	student := &models.Student{StudentID: "STU1", FullName: "Asha Verma"}

	name, err := g.FeeReceipt(f, student, nil)
	require.NoError(t, err)
	requirePDF(t, g, name)
}

func TestSalarySlip(t *testing.T) {
	g := newTestGenerator(t)

	sa := &models.Salary{
		SalaryID:    "SAL20260828120000-0001",
		TeacherID:   "TEA1",
		Month:       8,
		Year:        2026,
		BasicSalary: 50000,
		PF:          2000,
		SI:          500,
		DA:          3000,
		PA:          1000,
		TotalSalary: 51500,
	}
	teacher := &models.Teacher{
		TeacherID:       "TEA1",
		FullName:        "Prof. Rao",
		BankAccountName: "S Rao",
		BankBranch:      "Main Branch",
	}

	name, err := g.SalarySlip(sa, teacher)
	require.NoError(t, err)
	assert.Equal(t, "salary_"+sa.SalaryID+".pdf", name)
	requirePDF(t, g, name)
}

func TestCommissionSlip(t *testing.T) {
	g := newTestGenerator(t)

	c := &models.Commission{
		CommissionID:     "COM20260828120000-0001",
		CounsellorID:     "CNS1",
		StudentName:      "Rohit Shah",
		CourseName:       "NEET Crash",
		CommissionPct:    10,
		CourseFees:       30000,
		CommissionAmount: 3000,
		PaymentStatus:    models.CommissionPending,
		MonthYear:        "2026-08",
	}
	counsellor := &models.Counsellor{CounsellorID: "CNS1", FullName: "Meera Joshi"}

	name, err := g.CommissionSlip(c, counsellor)
	require.NoError(t, err)
	assert.Equal(t, "commission_"+c.CommissionID+".pdf", name)
	requirePDF(t, g, name)
}

func TestRegenerationOverwrites(t *testing.T) {
	g := newTestGenerator(t)

	f := &models.FeeReceipt{ReceiptID: "FEE1", StudentID: "STU1", Amount: 100, UpdatedAt: time.Now().UTC()}
	student := &models.Student{StudentID: "STU1", FullName: "Asha Verma"}

	name1, err := g.FeeReceipt(f, student, nil)
	require.NoError(t, err)

	f.PaymentNo = 2
	f.AmountPaid = 200
	name2, err := g.FeeReceipt(f, student, nil)
	require.NoError(t, err)

	assert.Equal(t, name1, name2)
	requirePDF(t, g, name2)
}
