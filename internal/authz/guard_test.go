package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/emprendia/emprendia/internal/domain"
)

func TestCanMutate(t *testing.T) {
	owner := domain.Actor{ID: 7, Kind: domain.ActorKindEntrepreneur, Role: domain.RoleEntrepreneur}
	other := domain.Actor{ID: 8, Kind: domain.ActorKindEntrepreneur, Role: domain.RoleEntrepreneur}
	admin := domain.Actor{ID: 9, Kind: domain.ActorKindUser, Role: domain.RoleAdmin}
	user := domain.Actor{ID: 7, Kind: domain.ActorKindUser, Role: domain.RoleUser}

	assert.True(t, CanMutate(owner, 7), "owner may mutate own resource")
	assert.False(t, CanMutate(other, 7), "non-owning entrepreneur is denied")
	assert.True(t, CanMutate(admin, 7), "admin may mutate any resource")
	assert.False(t, CanMutate(user, 7), "a plain user never owns resources, id match or not")
}

func TestCheckMutate(t *testing.T) {
	owner := domain.Actor{ID: 1, Kind: domain.ActorKindEntrepreneur, Role: domain.RoleEntrepreneur}
	assert.NoError(t, CheckMutate(owner, 1))
	assert.ErrorIs(t, CheckMutate(owner, 2), ErrForbidden)
}

func TestRequireAdmin(t *testing.T) {
	assert.NoError(t, RequireAdmin(domain.Actor{Role: domain.RoleAdmin}))
	assert.ErrorIs(t, RequireAdmin(domain.Actor{Role: domain.RoleEntrepreneur}), ErrForbidden)
	assert.ErrorIs(t, RequireAdmin(domain.Actor{Role: domain.RoleUser}), ErrForbidden)
}
