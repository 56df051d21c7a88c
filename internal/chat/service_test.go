package chat

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coachdesk/coachdesk/internal/models"
	"github.com/coachdesk/coachdesk/internal/store"
)

// memStore is an in-memory Store for service tests.
type memStore struct {
	rooms     map[string]*models.Classroom
	messages  map[string][]models.Message
	appendErr error
}

func newMemStore() *memStore {
	return &memStore{
		rooms:    make(map[string]*models.Classroom),
		messages: make(map[string][]models.Message),
	}
}

func (m *memStore) AppendMessage(_ context.Context, msg *models.Message) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.messages[msg.RoomID] = append(m.messages[msg.RoomID], *msg)
	return nil
}

func (m *memStore) RecentMessages(_ context.Context, roomID string, limit int) ([]models.Message, error) {
	msgs := m.messages[roomID]
	if len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	return append([]models.Message(nil), msgs...), nil
}

func (m *memStore) GetMessage(_ context.Context, roomID, messageID string) (*models.Message, error) {
	for _, msg := range m.messages[roomID] {
		if msg.MessageID == messageID {
			out := msg
			return &out, nil
		}
	}
	return nil, nil
}

func (m *memStore) DeleteMessage(_ context.Context, roomID, messageID string) error {
	msgs := m.messages[roomID]
	for i, msg := range msgs {
		if msg.MessageID == messageID {
			m.messages[roomID] = append(msgs[:i], msgs[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (m *memStore) GetClassroom(_ context.Context, roomID string) (*models.Classroom, error) {
	return m.rooms[roomID], nil
}

func (m *memStore) DisplayName(_ context.Context, role, userID string) (string, error) {
	return "Name of " + userID, nil
}

// memResolver resolves roles from a static map, keyed room + "/" + user.
type memResolver struct {
	roles map[string]string
}

func (r *memResolver) Resolve(_ context.Context, roomID, userID string) (Role, string) {
	label, ok := r.roles[roomID+"/"+userID]
	if !ok {
		return RoleAbsent, ""
	}
	switch label {
	case models.MemberRoleAdmin, models.MemberRoleTeacher:
		return RolePrivileged, label
	default:
		return RolePlain, label
	}
}

type fixture struct {
	svc      *Service
	store    *memStore
	resolver *memResolver
	registry *Registry
}

func newFixture(policy string) *fixture {
	st := newMemStore()
	st.rooms["room1"] = &models.Classroom{RoomID: "room1", Name: "Physics", ChatPolicy: policy}
	res := &memResolver{roles: map[string]string{
		"room1/t1": models.MemberRoleTeacher,
		"room1/s1": models.MemberRoleStudent,
		"room1/a1": models.MemberRoleAdmin,
	}}
	reg := NewRegistry(0, zerolog.Nop())
	return &fixture{
		svc:      NewService(st, res, reg, 50, zerolog.Nop()),
		store:    st,
		resolver: res,
		registry: reg,
	}
}

func TestJoinNonMemberRejected(t *testing.T) {
	f := newFixture(models.ChatPolicyOpen)
	s := &fakeSender{}

	_, err := f.svc.Join(context.Background(), "room1", "stranger", s)
	assert.ErrorIs(t, err, ErrNotMember)
	assert.Equal(t, 0, f.registry.Count("room1"))
}

func TestJoinReplaysHistoryThenLive(t *testing.T) {
	f := newFixture(models.ChatPolicyOpen)

	_, err := f.svc.Post(context.Background(), "room1", "s1", "before join")
	require.NoError(t, err)

	s := &fakeSender{}
	role, err := f.svc.Join(context.Background(), "room1", "s1", s)
	require.NoError(t, err)
	assert.Equal(t, RolePlain, role)

	_, err = f.svc.Post(context.Background(), "room1", "t1", "after join")
	require.NoError(t, err)

	require.Len(t, s.events, 2)
	assert.Equal(t, EventHistory, s.events[0].Type)
	require.Len(t, s.events[0].Messages, 1)
	assert.Equal(t, "before join", s.events[0].Messages[0].Content)
	assert.Equal(t, EventMessage, s.events[1].Type)
	assert.Equal(t, "after join", s.events[1].Message.Content)
}

func TestJoinEmptyRoomGetsEmptyHistory(t *testing.T) {
	f := newFixture(models.ChatPolicyOpen)
	s := &fakeSender{}

	_, err := f.svc.Join(context.Background(), "room1", "s1", s)
	require.NoError(t, err)

	require.Len(t, s.events, 1)
	assert.Equal(t, EventHistory, s.events[0].Type)
	assert.NotNil(t, s.events[0].Messages)
	assert.Empty(t, s.events[0].Messages)
}

func TestPostEmptyContent(t *testing.T) {
	f := newFixture(models.ChatPolicyOpen)

	_, err := f.svc.Post(context.Background(), "room1", "t1", "")
	assert.ErrorIs(t, err, ErrEmptyContent)
}

func TestPostNonMember(t *testing.T) {
	f := newFixture(models.ChatPolicyOpen)

	_, err := f.svc.Post(context.Background(), "room1", "stranger", "hi")
	assert.ErrorIs(t, err, ErrNotMember)
}

func TestPostAnnouncementPolicy(t *testing.T) {
	f := newFixture(models.ChatPolicyAnnouncement)

	_, err := f.svc.Post(context.Background(), "room1", "s1", "can I ask")
	assert.ErrorIs(t, err, ErrForbidden)

	msg, err := f.svc.Post(context.Background(), "room1", "t1", "homework is due Friday")
	require.NoError(t, err)
	assert.Equal(t, models.MemberRoleTeacher, msg.SenderRole)

	_, err = f.svc.Post(context.Background(), "room1", "a1", "admin notice")
	assert.NoError(t, err)
}

func TestPostOpenPolicyAllowsStudents(t *testing.T) {
	f := newFixture(models.ChatPolicyOpen)

	msg, err := f.svc.Post(context.Background(), "room1", "s1", "question")
	require.NoError(t, err)
	assert.Equal(t, "s1", msg.SenderID)
	assert.Equal(t, "Name of s1", msg.SenderName)
	assert.NotEmpty(t, msg.MessageID)
}

func TestPostToDeletedRoom(t *testing.T) {
	f := newFixture(models.ChatPolicyOpen)
	delete(f.store.rooms, "room1")

	// plain members hit the policy lookup, which observes the gone room
	_, err := f.svc.Post(context.Background(), "room1", "s1", "hello?")
	assert.ErrorIs(t, err, store.ErrRoomGone)
}

func TestPostPersistFailureSuppressesBroadcast(t *testing.T) {
	f := newFixture(models.ChatPolicyOpen)

	s := &fakeSender{}
	_, err := f.svc.Join(context.Background(), "room1", "s1", s)
	require.NoError(t, err)

	f.store.appendErr = store.ErrUnavailable
	_, err = f.svc.Post(context.Background(), "room1", "t1", "lost")
	assert.ErrorIs(t, err, store.ErrUnavailable)

	// only the history replay arrived, never the failed message
	assert.Len(t, s.events, 1)
}

func TestRevocationTakesEffectOnNextSend(t *testing.T) {
	f := newFixture(models.ChatPolicyOpen)

	_, err := f.svc.Post(context.Background(), "room1", "s1", "first")
	require.NoError(t, err)

	delete(f.resolver.roles, "room1/s1")
	_, err = f.svc.Post(context.Background(), "room1", "s1", "second")
	assert.ErrorIs(t, err, ErrNotMember)
}

func TestRoleChangeAppliesWithoutReconnect(t *testing.T) {
	f := newFixture(models.ChatPolicyAnnouncement)

	_, err := f.svc.Post(context.Background(), "room1", "s1", "blocked")
	require.ErrorIs(t, err, ErrForbidden)

	f.resolver.roles["room1/s1"] = models.MemberRoleTeacher
	_, err = f.svc.Post(context.Background(), "room1", "s1", "now allowed")
	assert.NoError(t, err)
}

func TestHistoryRequiresMembership(t *testing.T) {
	f := newFixture(models.ChatPolicyOpen)

	_, err := f.svc.History(context.Background(), "room1", "stranger", 10)
	assert.ErrorIs(t, err, ErrNotMember)
}

func TestHistoryClampsLimit(t *testing.T) {
	f := newFixture(models.ChatPolicyOpen)
	for i := 0; i < 60; i++ {
		_, err := f.svc.Post(context.Background(), "room1", "t1", "msg")
		require.NoError(t, err)
	}

	msgs, err := f.svc.History(context.Background(), "room1", "s1", 0)
	require.NoError(t, err)
	assert.Len(t, msgs, 50) // falls back to the configured history limit

	msgs, err = f.svc.History(context.Background(), "room1", "s1", 10)
	require.NoError(t, err)
	assert.Len(t, msgs, 10)

	msgs, err = f.svc.History(context.Background(), "room1", "s1", 500)
	require.NoError(t, err)
	assert.Len(t, msgs, 50)
}

func TestDeleteMissingMessage(t *testing.T) {
	f := newFixture(models.ChatPolicyOpen)

	// existence is checked before authorization, so even a non-member
	// sees 404 semantics rather than a role error
	err := f.svc.Delete(context.Background(), "room1", "nope", "s1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteRequiresPrivilegedRole(t *testing.T) {
	f := newFixture(models.ChatPolicyOpen)

	msg, err := f.svc.Post(context.Background(), "room1", "t1", "to delete")
	require.NoError(t, err)

	err = f.svc.Delete(context.Background(), "room1", msg.MessageID, "s1")
	assert.ErrorIs(t, err, ErrForbidden)

	err = f.svc.Delete(context.Background(), "room1", msg.MessageID, "t1")
	assert.NoError(t, err)
}

func TestDeleteBroadcastsTombstone(t *testing.T) {
	f := newFixture(models.ChatPolicyOpen)

	s := &fakeSender{}
	_, err := f.svc.Join(context.Background(), "room1", "s1", s)
	require.NoError(t, err)

	msg, err := f.svc.Post(context.Background(), "room1", "t1", "oops")
	require.NoError(t, err)
	require.NoError(t, f.svc.Delete(context.Background(), "room1", msg.MessageID, "a1"))

	require.Len(t, s.events, 3) // history, message, deleted
	assert.Equal(t, EventDeleted, s.events[2].Type)
	assert.Equal(t, msg.MessageID, s.events[2].MessageID)

	got, err := f.store.GetMessage(context.Background(), "room1", msg.MessageID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestEvictClosesSessions(t *testing.T) {
	f := newFixture(models.ChatPolicyOpen)

	s := &fakeSender{}
	_, err := f.svc.Join(context.Background(), "room1", "s1", s)
	require.NoError(t, err)

	f.svc.Evict("room1")

	assert.True(t, s.closed)
	require.Len(t, s.events, 2)
	assert.Equal(t, EventRoomClosed, s.events[1].Type)
	assert.Equal(t, 0, f.registry.Count("room1"))
}

func TestRoomLocksLeaveNoResidue(t *testing.T) {
	f := newFixture(models.ChatPolicyOpen)

	for i := 0; i < 5; i++ {
		_, err := f.svc.Post(context.Background(), "room1", "t1", "msg")
		require.NoError(t, err)
	}

	s := &fakeSender{}
	_, err := f.svc.Join(context.Background(), "room1", "s1", s)
	require.NoError(t, err)
	f.svc.Leave("room1", s)

	f.svc.mu.Lock()
	residue := len(f.svc.roomMus)
	f.svc.mu.Unlock()
	assert.Zero(t, residue)
}

func TestMessageIDsSortByCreation(t *testing.T) {
	f := newFixture(models.ChatPolicyOpen)

	first, err := f.svc.Post(context.Background(), "room1", "t1", "one")
	require.NoError(t, err)
	second, err := f.svc.Post(context.Background(), "room1", "t1", "two")
	require.NoError(t, err)

	assert.Less(t, first.MessageID, second.MessageID)
}
