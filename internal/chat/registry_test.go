package chat

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSender records enqueued events and can be told to fail. It tracks
// whether it was torn down abruptly or via the draining path.
type fakeSender struct {
	events  []Event
	fail    bool
	closed  bool
	drained bool
}

func (s *fakeSender) Enqueue(ev Event) error {
	if s.fail {
		return ErrSlowConsumer
	}
	s.events = append(s.events, ev)
	return nil
}

func (s *fakeSender) Close() { s.closed = true }

func (s *fakeSender) CloseAfterDrain() {
	s.drained = true
	s.closed = true
}

func newTestRegistry(maxPerRoom int) *Registry {
	return NewRegistry(maxPerRoom, zerolog.Nop())
}

func TestRegisterAndCount(t *testing.T) {
	reg := newTestRegistry(0)

	a, b := &fakeSender{}, &fakeSender{}
	require.NoError(t, reg.Register("room1", a))
	require.NoError(t, reg.Register("room1", b))

	assert.Equal(t, 2, reg.Count("room1"))
	assert.Equal(t, 0, reg.Count("room2"))
}

func TestRegisterRoomFull(t *testing.T) {
	reg := newTestRegistry(1)

	require.NoError(t, reg.Register("room1", &fakeSender{}))
	err := reg.Register("room1", &fakeSender{})
	assert.ErrorIs(t, err, ErrRoomFull)

	// other rooms are unaffected
	require.NoError(t, reg.Register("room2", &fakeSender{}))
}

func TestUnregisterCleansUpEmptyRoom(t *testing.T) {
	reg := newTestRegistry(0)

	s := &fakeSender{}
	require.NoError(t, reg.Register("room1", s))
	reg.Unregister("room1", s)

	assert.Equal(t, 0, reg.Count("room1"))
	assert.Empty(t, reg.rooms)
}

func TestUnregisterUnknownIsNoop(t *testing.T) {
	reg := newTestRegistry(0)
	reg.Unregister("room1", &fakeSender{}) // must not panic
}

func TestBroadcastDeliversToAllInRoom(t *testing.T) {
	reg := newTestRegistry(0)

	a, b := &fakeSender{}, &fakeSender{}
	other := &fakeSender{}
	require.NoError(t, reg.Register("room1", a))
	require.NoError(t, reg.Register("room1", b))
	require.NoError(t, reg.Register("room2", other))

	reg.Broadcast("room1", Event{Type: EventMessage})

	assert.Len(t, a.events, 1)
	assert.Len(t, b.events, 1)
	assert.Empty(t, other.events)
}

func TestBroadcastReapsFailedConnection(t *testing.T) {
	reg := newTestRegistry(0)

	healthy := &fakeSender{}
	slow := &fakeSender{fail: true}
	require.NoError(t, reg.Register("room1", healthy))
	require.NoError(t, reg.Register("room1", slow))

	reg.Broadcast("room1", Event{Type: EventMessage})

	assert.Len(t, healthy.events, 1)
	assert.True(t, slow.closed)
	assert.Equal(t, 1, reg.Count("room1"))

	// subsequent broadcasts skip the reaped connection
	reg.Broadcast("room1", Event{Type: EventMessage})
	assert.Len(t, healthy.events, 2)
	assert.Empty(t, slow.events)
}

func TestBroadcastOrderPerConnection(t *testing.T) {
	reg := newTestRegistry(0)

	s := &fakeSender{}
	require.NoError(t, reg.Register("room1", s))

	reg.Broadcast("room1", Event{Type: EventMessage, MessageID: "m1"})
	reg.Broadcast("room1", Event{Type: EventDeleted, MessageID: "m1"})

	require.Len(t, s.events, 2)
	assert.Equal(t, EventMessage, s.events[0].Type)
	assert.Equal(t, EventDeleted, s.events[1].Type)
}

func TestEvictRoomClosesAllConnections(t *testing.T) {
	reg := newTestRegistry(0)

	a, b := &fakeSender{}, &fakeSender{}
	require.NoError(t, reg.Register("room1", a))
	require.NoError(t, reg.Register("room1", b))

	reg.EvictRoom("room1", Event{Type: EventRoomClosed, Detail: "classroom deleted"})

	assert.Equal(t, 0, reg.Count("room1"))
	for _, s := range []*fakeSender{a, b} {
		assert.True(t, s.drained) // farewell must flush, not race the close
		require.Len(t, s.events, 1)
		assert.Equal(t, EventRoomClosed, s.events[0].Type)
	}

	// room slot is reusable after eviction
	require.NoError(t, reg.Register("room1", &fakeSender{}))
}

func TestEvictEmptyRoomIsNoop(t *testing.T) {
	reg := newTestRegistry(0)
	reg.EvictRoom("room1", Event{Type: EventRoomClosed})
}

func TestSlowConsumerSentinel(t *testing.T) {
	s := &fakeSender{fail: true}
	err := s.Enqueue(Event{})
	assert.True(t, errors.Is(err, ErrSlowConsumer))
}
