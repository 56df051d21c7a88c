package chat

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeTimeout = 5 * time.Second
	sendBuffer   = 64
)

// wsSender wraps a gorilla connection behind the Sender interface. A single
// writer goroutine drains the buffered queue, so websocket writes are never
// issued concurrently and a stalled peer only ever stalls its own queue.
type wsSender struct {
	ws        *websocket.Conn
	queue     chan Event
	done      chan struct{}
	draining  chan struct{}
	closeOnce sync.Once
	drainOnce sync.Once
}

func newWSSender(ws *websocket.Conn) *wsSender {
	s := &wsSender{
		ws:       ws,
		queue:    make(chan Event, sendBuffer),
		done:     make(chan struct{}),
		draining: make(chan struct{}),
	}
	go s.writeLoop()
	return s
}

// Enqueue queues the event for writing. It never blocks: a full queue or a
// closed connection is reported as ErrSlowConsumer so the registry can reap
// the connection.
func (s *wsSender) Enqueue(ev Event) error {
	select {
	case <-s.done:
		return ErrSlowConsumer
	default:
	}
	select {
	case s.queue <- ev:
		return nil
	default:
		return ErrSlowConsumer
	}
}

// Close tears the connection down immediately, dropping anything still
// queued. This is the reaping path; terminal notifications go through
// CloseAfterDrain. Safe to call more than once.
func (s *wsSender) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		_ = s.ws.Close()
	})
}

// CloseAfterDrain closes the connection once everything already queued has
// been written. Events enqueued before this call are guaranteed to reach the
// writer, so farewell frames (authorization failure, room_closed) are not
// lost to the teardown.
func (s *wsSender) CloseAfterDrain() {
	s.drainOnce.Do(func() { close(s.draining) })
}

func (s *wsSender) writeLoop() {
	for {
		select {
		case ev := <-s.queue:
			if !s.write(ev) {
				return
			}
		case <-s.draining:
			s.drain()
			return
		case <-s.done:
			return
		}
	}
}

// drain flushes the remaining queue, sends a close frame and tears down.
func (s *wsSender) drain() {
	for {
		select {
		case ev := <-s.queue:
			if !s.write(ev) {
				return
			}
		default:
			deadline := time.Now().Add(writeTimeout)
			_ = s.ws.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
			s.Close()
			return
		}
	}
}

func (s *wsSender) write(ev Event) bool {
	_ = s.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := s.ws.WriteJSON(ev); err != nil {
		s.Close()
		return false
	}
	return true
}
