package chat

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/coachdesk/coachdesk/internal/models"
)

// Role is the two-tier authorization class a user holds in a room. The richer
// stored labels (admin, teacher, student) collapse to this split at the
// authorization boundary; the label survives only as a display attribute.
type Role int

const (
	RoleAbsent Role = iota
	RolePlain
	RolePrivileged
)

func (r Role) String() string {
	switch r {
	case RolePlain:
		return "plain"
	case RolePrivileged:
		return "privileged"
	default:
		return "absent"
	}
}

// RoleResolver reports a user's current role in a room. It is consulted on
// every connect, send and delete so role changes apply without reconnection.
type RoleResolver interface {
	// Resolve returns the role and the stored display label. It must fail
	// closed: when membership cannot be determined, the role is RoleAbsent.
	Resolve(ctx context.Context, roomID, userID string) (Role, string)
}

// MembershipStore is the slice of the persistence layer the resolver reads.
type MembershipStore interface {
	GetMembership(ctx context.Context, roomID, userID string) (*models.Membership, error)
}

// StoreResolver resolves roles from the membership table, uncached.
type StoreResolver struct {
	store MembershipStore
	log   zerolog.Logger
}

func NewStoreResolver(store MembershipStore, log zerolog.Logger) *StoreResolver {
	return &StoreResolver{store: store, log: log}
}

func (r *StoreResolver) Resolve(ctx context.Context, roomID, userID string) (Role, string) {
	m, err := r.store.GetMembership(ctx, roomID, userID)
	if err != nil {
		// fail closed: an unreachable store never grants access
		r.log.Warn().Err(err).Str("room_id", roomID).Str("user_id", userID).
			Msg("membership lookup failed, treating as absent")
		return RoleAbsent, ""
	}
	if m == nil {
		return RoleAbsent, ""
	}
	switch m.Role {
	case models.MemberRoleAdmin, models.MemberRoleTeacher:
		return RolePrivileged, m.Role
	default:
		return RolePlain, m.Role
	}
}
