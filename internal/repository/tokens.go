package repository

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/emprendia/emprendia/internal/domain"
)

// TokenRepository stores the revocable side of issued bearer tokens.
type TokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

func (r *TokenRepository) Create(ctx context.Context, t *domain.AuthToken) error {
	t.CreatedAt = time.Now()
	t.LastUsedAt = t.CreatedAt
	return errors.Wrap(r.db.WithContext(ctx).Create(t).Error, "create auth token")
}

// FindByID returns the token row, or ErrNotFound for revoked/unknown ids.
func (r *TokenRepository) FindByID(ctx context.Context, id string) (*domain.AuthToken, error) {
	var t domain.AuthToken
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "query auth token")
	}
	return &t, nil
}

// Revoke deletes a single token (logout).
func (r *TokenRepository) Revoke(ctx context.Context, id string) error {
	return errors.Wrap(
		r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.AuthToken{}).Error,
		"revoke auth token")
}

// RevokeAll deletes every token of an actor (logout-all).
func (r *TokenRepository) RevokeAll(ctx context.Context, actorKind string, actorID int64) error {
	return errors.Wrap(
		r.db.WithContext(ctx).
			Where("actor_kind = ? AND actor_id = ?", actorKind, actorID).
			Delete(&domain.AuthToken{}).Error,
		"revoke actor tokens")
}

// TouchLastUsed records token usage; failures here are not fatal to the
// request and are left to the caller to log.
func (r *TokenRepository) TouchLastUsed(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&domain.AuthToken{}).
		Where("id = ?", id).
		UpdateColumn("last_used_at", time.Now()).Error
}
