package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coachdesk/coachdesk/internal/ident"
	"github.com/coachdesk/coachdesk/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	st, err := NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(st.Close)
	return st
}

func seedClassroom(t *testing.T, st *SQLiteStore, policy string) *models.Classroom {
	t.Helper()
	now := time.Now().UTC()
	c := &models.Classroom{
		RoomID:     ident.New(ident.PrefixClassroom, now),
		Name:       "Physics Batch A",
		ChatPolicy: policy,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	require.NoError(t, st.CreateClassroom(context.Background(), c))
	return c
}

func TestClassroomCRUD(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	c := seedClassroom(t, st, models.ChatPolicyAnnouncement)

	got, err := st.GetClassroom(ctx, c.RoomID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, c.Name, got.Name)
	assert.Equal(t, models.ChatPolicyAnnouncement, got.ChatPolicy)

	got.ChatPolicy = models.ChatPolicyOpen
	got.UpdatedAt = time.Now().UTC()
	require.NoError(t, st.UpdateClassroom(ctx, got))

	got, err = st.GetClassroom(ctx, c.RoomID)
	require.NoError(t, err)
	assert.Equal(t, models.ChatPolicyOpen, got.ChatPolicy)

	list, err := st.ListClassrooms(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, st.DeleteClassroom(ctx, c.RoomID))
	got, err = st.GetClassroom(ctx, c.RoomID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUpdateMissingClassroom(t *testing.T) {
	st := newTestStore(t)

	err := st.UpdateClassroom(context.Background(), &models.Classroom{
		RoomID:     "CLS-missing",
		Name:       "Ghost",
		ChatPolicy: models.ChatPolicyOpen,
		UpdatedAt:  time.Now().UTC(),
	})
	assert.ErrorIs(t, err, ErrNotFound)

	err = st.DeleteClassroom(context.Background(), "CLS-missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMembershipUpsertOverwritesRole(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	room := seedClassroom(t, st, models.ChatPolicyOpen)

	m := &models.Membership{RoomID: room.RoomID, UserID: "STU1", Role: models.MemberRoleStudent, CreatedAt: time.Now().UTC()}
	require.NoError(t, st.UpsertMembership(ctx, m))

	m.Role = models.MemberRoleTeacher
	require.NoError(t, st.UpsertMembership(ctx, m))

	got, err := st.GetMembership(ctx, room.RoomID, "STU1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.MemberRoleTeacher, got.Role)

	members, err := st.ListMembers(ctx, room.RoomID)
	require.NoError(t, err)
	assert.Len(t, members, 1)
}

func TestMembershipAbsent(t *testing.T) {
	st := newTestStore(t)
	room := seedClassroom(t, st, models.ChatPolicyOpen)

	got, err := st.GetMembership(context.Background(), room.RoomID, "nobody")
	require.NoError(t, err)
	assert.Nil(t, got)

	err = st.DeleteMembership(context.Background(), room.RoomID, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAppendMessageToMissingRoom(t *testing.T) {
	st := newTestStore(t)

	err := st.AppendMessage(context.Background(), &models.Message{
		MessageID: ident.NewMessageID(),
		RoomID:    "CLS-missing",
		SenderID:  "T1",
		Content:   "hello",
		CreatedAt: time.Now().UTC(),
	})
	assert.ErrorIs(t, err, ErrRoomGone)
}

func TestRecentMessagesWindowAndOrder(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	room := seedClassroom(t, st, models.ChatPolicyOpen)

	for i := 0; i < 5; i++ {
		require.NoError(t, st.AppendMessage(ctx, &models.Message{
			MessageID: ident.NewMessageID(),
			RoomID:    room.RoomID,
			SenderID:  "T1",
			Content:   "msg",
			CreatedAt: time.Now().UTC(),
		}))
	}

	msgs, err := st.RecentMessages(ctx, room.RoomID, 3)
	require.NoError(t, err)
	require.Len(t, msgs, 3)

	// oldest-first within the window
	assert.Less(t, msgs[0].MessageID, msgs[1].MessageID)
	assert.Less(t, msgs[1].MessageID, msgs[2].MessageID)
}

func TestDeleteClassroomCascades(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	room := seedClassroom(t, st, models.ChatPolicyOpen)

	require.NoError(t, st.UpsertMembership(ctx, &models.Membership{
		RoomID: room.RoomID, UserID: "STU1", Role: models.MemberRoleStudent, CreatedAt: time.Now().UTC(),
	}))
	msg := &models.Message{
		MessageID: ident.NewMessageID(), RoomID: room.RoomID, SenderID: "STU1",
		Content: "bye", CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, st.AppendMessage(ctx, msg))

	require.NoError(t, st.DeleteClassroom(ctx, room.RoomID))

	m, err := st.GetMembership(ctx, room.RoomID, "STU1")
	require.NoError(t, err)
	assert.Nil(t, m)

	got, err := st.GetMessage(ctx, room.RoomID, msg.MessageID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func seedStudent(t *testing.T, st *SQLiteStore, email string) *models.Student {
	t.Helper()
	now := time.Now().UTC()
	s := &models.Student{
		StudentID: ident.New(ident.PrefixStudent, now),
		FullName:  "Asha Verma",
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, st.CreateStudent(context.Background(), s))
	return s
}

func TestStudentDuplicateEmail(t *testing.T) {
	st := newTestStore(t)

	seedStudent(t, st, "asha@example.com")

	now := time.Now().UTC().Add(time.Second)
	err := st.CreateStudent(context.Background(), &models.Student{
		StudentID: ident.New(ident.PrefixStudent, now),
		FullName:  "Other",
		Email:     "asha@example.com",
		CreatedAt: now,
		UpdatedAt: now,
	})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestGetStudentByEmail(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	s := seedStudent(t, st, "asha@example.com")

	got, err := st.GetStudentByEmail(ctx, "asha@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, s.StudentID, got.StudentID)

	got, err = st.GetStudentByEmail(ctx, "missing@example.com")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDisplayNamePerRole(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	s := seedStudent(t, st, "asha@example.com")

	now := time.Now().UTC()
	teacher := &models.Teacher{
		TeacherID: ident.New(ident.PrefixTeacher, now),
		FullName:  "Prof. Rao",
		Email:     "rao@example.com",
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, st.CreateTeacher(ctx, teacher))

	name, err := st.DisplayName(ctx, models.MemberRoleStudent, s.StudentID)
	require.NoError(t, err)
	assert.Equal(t, "Asha Verma", name)

	name, err = st.DisplayName(ctx, models.MemberRoleTeacher, teacher.TeacherID)
	require.NoError(t, err)
	assert.Equal(t, "Prof. Rao", name)

	name, err = st.DisplayName(ctx, models.MemberRoleStudent, "missing")
	require.NoError(t, err)
	assert.Empty(t, name)
}

func TestSalaryMonthUniqueness(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	teacher := &models.Teacher{
		TeacherID: ident.New(ident.PrefixTeacher, now),
		FullName:  "Prof. Rao",
		Email:     "rao@example.com",
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, st.CreateTeacher(ctx, teacher))

	sal := &models.Salary{
		SalaryID:    ident.New(ident.PrefixSalary, now),
		TeacherID:   teacher.TeacherID,
		Month:       8,
		Year:        2026,
		BasicSalary: 50000,
		TotalSalary: 50000,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, st.CreateSalary(ctx, sal))

	dup := *sal
	dup.SalaryID = ident.New(ident.PrefixSalary, now.Add(time.Second))
	err := st.CreateSalary(ctx, &dup)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCommissionPaymentUpdate(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	counsellor := &models.Counsellor{
		CounsellorID:  ident.New(ident.PrefixCounsellor, now),
		FullName:      "Meera Joshi",
		Email:         "meera@example.com",
		CommissionPct: 10,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	require.NoError(t, st.CreateCounsellor(ctx, counsellor))

	enq := &models.Enquiry{
		EnquiryID:    ident.New(ident.PrefixEnquiry, now),
		StudentName:  "Asha Verma",
		CounsellorID: counsellor.CounsellorID,
		Status:       models.EnquiryOpen,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, st.CreateEnquiry(ctx, enq))

	c := &models.Commission{
		CommissionID:     ident.New(ident.PrefixCommission, now),
		CounsellorID:     counsellor.CounsellorID,
		EnquiryID:        enq.EnquiryID,
		StudentName:      enq.StudentName,
		CommissionPct:    10,
		CourseFees:       20000,
		CommissionAmount: 2000,
		PaymentStatus:    models.CommissionPending,
		MonthYear:        "2026-08",
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	require.NoError(t, st.CreateCommission(ctx, c))

	require.NoError(t, st.UpdateCommissionPayment(ctx, c.CommissionID, "TXN-42", models.CommissionPaid))

	got, err := st.GetCommission(ctx, c.CommissionID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.CommissionPaid, got.PaymentStatus)
	assert.Equal(t, "TXN-42", got.TransactionID)

	err = st.UpdateCommissionPayment(ctx, "missing", "TXN-43", models.CommissionPaid)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFeeReceiptOnePerStudent(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	s := seedStudent(t, st, "asha@example.com")
	now := time.Now().UTC()

	f := &models.FeeReceipt{
		ReceiptID:       ident.New(ident.PrefixFeeReceipt, now),
		StudentID:       s.StudentID,
		PaymentNo:       1,
		Amount:          5000,
		TotalCourseFees: 20000,
		AmountPaid:      5000,
		AmountDue:       15000,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	require.NoError(t, st.CreateFeeReceipt(ctx, f))

	dup := *f
	dup.ReceiptID = ident.New(ident.PrefixFeeReceipt, now.Add(time.Second))
	err := st.CreateFeeReceipt(ctx, &dup)
	assert.ErrorIs(t, err, ErrConflict)

	got, err := st.GetFeeReceiptByStudent(ctx, s.StudentID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, f.ReceiptID, got.ReceiptID)
}
