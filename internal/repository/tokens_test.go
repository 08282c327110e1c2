package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emprendia/emprendia/internal/domain"
)

func TestTokenRevocation(t *testing.T) {
	r := NewTokenRepository(newTestDB(t))
	ctx := context.Background()

	a := &domain.AuthToken{ID: "tok-a", ActorKind: domain.ActorKindUser, ActorID: 1}
	b := &domain.AuthToken{ID: "tok-b", ActorKind: domain.ActorKindUser, ActorID: 1}
	c := &domain.AuthToken{ID: "tok-c", ActorKind: domain.ActorKindEntrepreneur, ActorID: 1}
	require.NoError(t, r.Create(ctx, a))
	require.NoError(t, r.Create(ctx, b))
	require.NoError(t, r.Create(ctx, c))

	got, err := r.FindByID(ctx, "tok-a")
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.ActorID)

	require.NoError(t, r.Revoke(ctx, "tok-a"))
	_, err = r.FindByID(ctx, "tok-a")
	assert.ErrorIs(t, err, ErrNotFound)

	// Logout-all only touches the acting identity space.
	require.NoError(t, r.RevokeAll(ctx, domain.ActorKindUser, 1))
	_, err = r.FindByID(ctx, "tok-b")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = r.FindByID(ctx, "tok-c")
	assert.NoError(t, err, "entrepreneur tokens survive a user logout-all")
}

func TestTokenExpiry(t *testing.T) {
	now := time.Now()
	unexpiring := &domain.AuthToken{ID: "x"}
	assert.False(t, unexpiring.Expired(now), "zero expiry never expires")

	expired := &domain.AuthToken{ID: "y", ExpiresAt: now.Add(-time.Minute)}
	assert.True(t, expired.Expired(now))

	live := &domain.AuthToken{ID: "z", ExpiresAt: now.Add(time.Hour)}
	assert.False(t, live.Expired(now))
}
