package chat

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/coachdesk/coachdesk/internal/metrics"
)

// Sender is a live connection's outbound side. Enqueue must not block: it
// either accepts the event into the connection's queue or reports a transport
// failure, in which case the registry reaps the connection. Close tears the
// connection down immediately and is the reaping path; CloseAfterDrain first
// flushes queued events, so a farewell enqueued before the call is delivered.
type Sender interface {
	Enqueue(Event) error
	Close()
	CloseAfterDrain()
}

// Registry tracks live connections per room and fans events out to them.
// It is a constructed object with an explicit lifecycle, created at server
// start and passed to session handlers; one mutex guards the whole registry.
type Registry struct {
	mu         sync.Mutex
	rooms      map[string]map[Sender]struct{}
	maxPerRoom int // 0 = unlimited
	log        zerolog.Logger
}

func NewRegistry(maxPerRoom int, log zerolog.Logger) *Registry {
	return &Registry{
		rooms:      make(map[string]map[Sender]struct{}),
		maxPerRoom: maxPerRoom,
		log:        log,
	}
}

// Register adds a connection to the room's set.
func (r *Registry) Register(roomID string, s Sender) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	set := r.rooms[roomID]
	if set == nil {
		set = make(map[Sender]struct{})
		r.rooms[roomID] = set
	}
	if r.maxPerRoom > 0 && len(set) >= r.maxPerRoom {
		return ErrRoomFull
	}
	set[s] = struct{}{}
	metrics.ConnectionsActive.Inc()
	return nil
}

// Unregister removes a connection. A room whose set becomes empty is removed
// from the registry so empty rooms never accumulate.
func (r *Registry) Unregister(roomID string, s Sender) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeLocked(roomID, s)
}

// Broadcast enqueues the event to every connection currently registered in
// the room. Enqueueing happens under the registry lock, so every connection
// observes broadcasts for a room in the same relative order. Delivery is
// best-effort per connection: a failed connection is removed and closed, and
// never blocks delivery to the others.
func (r *Registry) Broadcast(roomID string, ev Event) {
	var failed []Sender

	r.mu.Lock()
	for s := range r.rooms[roomID] {
		if err := s.Enqueue(ev); err != nil {
			failed = append(failed, s)
		}
	}
	for _, s := range failed {
		r.removeLocked(roomID, s)
	}
	r.mu.Unlock()

	for _, s := range failed {
		s.Close()
		r.log.Debug().Str("room_id", roomID).Msg("reaped unresponsive connection during broadcast")
	}
	if n := len(failed); n > 0 {
		metrics.BroadcastFailures.Add(float64(n))
	}
}

// EvictRoom sends a terminal room_closed event to every connection in the
// room, then forcibly unregisters and closes them. Called from the
// administrative classroom-delete path; the registry does not observe room
// deletion on its own.
func (r *Registry) EvictRoom(roomID string, ev Event) {
	r.mu.Lock()
	set := r.rooms[roomID]
	delete(r.rooms, roomID)
	conns := make([]Sender, 0, len(set))
	for s := range set {
		conns = append(conns, s)
	}
	r.mu.Unlock()

	for _, s := range conns {
		_ = s.Enqueue(ev) // best-effort farewell
		s.CloseAfterDrain()
	}
	if len(conns) > 0 {
		metrics.ConnectionsActive.Sub(float64(len(conns)))
		r.log.Info().Str("room_id", roomID).Int("evicted", len(conns)).Msg("room evicted")
	}
}

// Count returns the number of live connections in the room.
func (r *Registry) Count(roomID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rooms[roomID])
}

func (r *Registry) removeLocked(roomID string, s Sender) {
	set := r.rooms[roomID]
	if set == nil {
		return
	}
	if _, ok := set[s]; !ok {
		return
	}
	delete(set, s)
	metrics.ConnectionsActive.Dec()
	if len(set) == 0 {
		delete(r.rooms, roomID)
	}
}
