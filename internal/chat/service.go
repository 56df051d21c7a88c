package chat

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/coachdesk/coachdesk/internal/ident"
	"github.com/coachdesk/coachdesk/internal/metrics"
	"github.com/coachdesk/coachdesk/internal/models"
	"github.com/coachdesk/coachdesk/internal/store"
)

// Store is the slice of the persistence layer the chat core uses.
type Store interface {
	AppendMessage(ctx context.Context, msg *models.Message) error
	RecentMessages(ctx context.Context, roomID string, limit int) ([]models.Message, error)
	GetMessage(ctx context.Context, roomID, messageID string) (*models.Message, error)
	DeleteMessage(ctx context.Context, roomID, messageID string) error
	GetClassroom(ctx context.Context, roomID string) (*models.Classroom, error)
	DisplayName(ctx context.Context, role, userID string) (string, error)
}

// Service sequences persist-then-broadcast for each room. Every send, whether
// it arrives over a live connection or the HTTP POST path, funnels through
// Post; joins take the same per-room lock, so a new session's history replay
// can neither miss nor duplicate a concurrently accepted message.
type Service struct {
	store        Store
	roles        RoleResolver
	registry     *Registry
	log          zerolog.Logger
	historyLimit int

	mu      sync.Mutex
	roomMus map[string]*roomLock
}

// roomLock is a per-room ordering lock with a holder/waiter count, so the
// map entry can be dropped again once nobody references it.
type roomLock struct {
	sync.Mutex
	refs int
}

func NewService(st Store, roles RoleResolver, reg *Registry, historyLimit int, log zerolog.Logger) *Service {
	if historyLimit <= 0 {
		historyLimit = 50
	}
	return &Service{
		store:        st,
		roles:        roles,
		registry:     reg,
		log:          log,
		historyLimit: historyLimit,
		roomMus:      make(map[string]*roomLock),
	}
}

// Registry exposes the connection registry, e.g. for eviction on room delete.
func (s *Service) Registry() *Registry {
	return s.registry
}

// Join authorizes the user for the room, registers the connection and
// enqueues the history replay on it, atomically with respect to Post for the
// same room. Returns the user's role.
func (s *Service) Join(ctx context.Context, roomID, userID string, sender Sender) (Role, error) {
	role, _ := s.roles.Resolve(ctx, roomID, userID)
	if role == RoleAbsent {
		return RoleAbsent, ErrNotMember
	}

	lock := s.lockRoom(roomID)
	defer s.unlockRoom(roomID, lock)

	if err := s.registry.Register(roomID, sender); err != nil {
		return role, err
	}
	history, err := s.store.RecentMessages(ctx, roomID, s.historyLimit)
	if err != nil {
		s.registry.Unregister(roomID, sender)
		return role, err
	}
	if err := sender.Enqueue(historyEvent(history)); err != nil {
		s.registry.Unregister(roomID, sender)
		return role, err
	}
	return role, nil
}

// Leave removes the connection from the registry.
func (s *Service) Leave(roomID string, sender Sender) {
	s.registry.Unregister(roomID, sender)
}

// Post validates, authorizes, persists and broadcasts one message. Sender
// identity comes from the authenticated caller, never from the payload. The
// current role is re-resolved on every call so mid-session role changes and
// revocations take effect immediately.
func (s *Service) Post(ctx context.Context, roomID, senderID, content string) (*models.Message, error) {
	if content == "" {
		return nil, ErrEmptyContent
	}

	role, label := s.roles.Resolve(ctx, roomID, senderID)
	if role == RoleAbsent {
		return nil, ErrNotMember
	}
	if role == RolePlain {
		room, err := s.store.GetClassroom(ctx, roomID)
		if err != nil {
			return nil, err
		}
		if room == nil {
			return nil, store.ErrRoomGone
		}
		if room.ChatPolicy != models.ChatPolicyOpen {
			return nil, ErrForbidden
		}
	}

	name, err := s.store.DisplayName(ctx, label, senderID)
	if err != nil {
		name = "" // display name is cosmetic, never blocks a send
	}

	msg := &models.Message{
		MessageID:  ident.NewMessageID(),
		RoomID:     roomID,
		SenderID:   senderID,
		SenderRole: label,
		SenderName: name,
		Content:    content,
		CreatedAt:  time.Now().UTC(),
	}

	lock := s.lockRoom(roomID)
	defer s.unlockRoom(roomID, lock)

	if err := s.store.AppendMessage(ctx, msg); err != nil {
		return nil, err
	}
	s.registry.Broadcast(roomID, messageEvent(msg))
	metrics.MessagesPosted.Inc()
	return msg, nil
}

// History returns the most recent messages for the room, oldest-first, for
// the HTTP read path. The requester must be a member.
func (s *Service) History(ctx context.Context, roomID, userID string, limit int) ([]models.Message, error) {
	role, _ := s.roles.Resolve(ctx, roomID, userID)
	if role == RoleAbsent {
		return nil, ErrNotMember
	}
	if limit <= 0 || limit > 200 {
		limit = s.historyLimit
	}
	return s.store.RecentMessages(ctx, roomID, limit)
}

// Delete removes a message and announces the deletion to the room. Only
// privileged members may delete; the check is against current membership,
// never a cached role.
func (s *Service) Delete(ctx context.Context, roomID, messageID, requesterID string) error {
	msg, err := s.store.GetMessage(ctx, roomID, messageID)
	if err != nil {
		return err
	}
	if msg == nil {
		return store.ErrNotFound
	}

	role, _ := s.roles.Resolve(ctx, roomID, requesterID)
	if role != RolePrivileged {
		return ErrForbidden
	}

	lock := s.lockRoom(roomID)
	defer s.unlockRoom(roomID, lock)

	if err := s.store.DeleteMessage(ctx, roomID, messageID); err != nil {
		return err
	}
	s.registry.Broadcast(roomID, deletedEvent(messageID))
	metrics.MessagesDeleted.Inc()
	return nil
}

// Evict closes every live connection in the room after a terminal
// room_closed event. Must be called by the administrative delete path, since
// the registry does not observe room deletion on its own.
func (s *Service) Evict(roomID string) {
	s.registry.EvictRoom(roomID, Event{Type: EventRoomClosed, Detail: "classroom deleted"})
}

// lockRoom acquires the room's ordering lock, creating the entry on first
// use. The reference count covers holders and waiters, so unlockRoom can
// delete the entry the moment it drops to zero and idle rooms leave nothing
// in the map.
func (s *Service) lockRoom(roomID string) *roomLock {
	s.mu.Lock()
	lock := s.roomMus[roomID]
	if lock == nil {
		lock = &roomLock{}
		s.roomMus[roomID] = lock
	}
	lock.refs++
	s.mu.Unlock()

	lock.Lock()
	return lock
}

func (s *Service) unlockRoom(roomID string, lock *roomLock) {
	lock.Unlock()

	s.mu.Lock()
	lock.refs--
	if lock.refs == 0 {
		delete(s.roomMus, roomID)
	}
	s.mu.Unlock()
}
