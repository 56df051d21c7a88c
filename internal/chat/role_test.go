package chat

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/coachdesk/coachdesk/internal/models"
	"github.com/coachdesk/coachdesk/internal/store"
)

type membershipFunc func(ctx context.Context, roomID, userID string) (*models.Membership, error)

func (f membershipFunc) GetMembership(ctx context.Context, roomID, userID string) (*models.Membership, error) {
	return f(ctx, roomID, userID)
}

func TestResolveFailsClosedOnStoreError(t *testing.T) {
	r := NewStoreResolver(membershipFunc(func(context.Context, string, string) (*models.Membership, error) {
		return nil, store.ErrUnavailable
	}), zerolog.Nop())

	role, label := r.Resolve(context.Background(), "room1", "u1")
	assert.Equal(t, RoleAbsent, role)
	assert.Empty(t, label)
}

func TestResolveAbsentWithoutMembership(t *testing.T) {
	r := NewStoreResolver(membershipFunc(func(context.Context, string, string) (*models.Membership, error) {
		return nil, nil
	}), zerolog.Nop())

	role, _ := r.Resolve(context.Background(), "room1", "u1")
	assert.Equal(t, RoleAbsent, role)
}

func TestResolveCollapsesStoredRoles(t *testing.T) {
	cases := map[string]Role{
		models.MemberRoleAdmin:   RolePrivileged,
		models.MemberRoleTeacher: RolePrivileged,
		models.MemberRoleStudent: RolePlain,
	}

	for stored, want := range cases {
		r := NewStoreResolver(membershipFunc(func(context.Context, string, string) (*models.Membership, error) {
			return &models.Membership{RoomID: "room1", UserID: "u1", Role: stored}, nil
		}), zerolog.Nop())

		role, label := r.Resolve(context.Background(), "room1", "u1")
		assert.Equal(t, want, role, stored)
		assert.Equal(t, stored, label)
	}
}

func TestRoleString(t *testing.T) {
	assert.Equal(t, "absent", RoleAbsent.String())
	assert.Equal(t, "plain", RolePlain.String())
	assert.Equal(t, "privileged", RolePrivileged.String())
}
