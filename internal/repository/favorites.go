package repository

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/emprendia/emprendia/internal/domain"
	"github.com/emprendia/emprendia/pkg/common"
)

type FavoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Add is idempotent: favoriting an already-favorited target is a no-op.
func (r *FavoriteRepository) Add(ctx context.Context, userID int64, target domain.FavoriteTarget) error {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Favorite{}).
		Where("user_id = ? AND kind = ? AND target_id = ?", userID, target.Kind, target.TargetID).
		Count(&count).Error
	if err != nil {
		return errors.Wrap(err, "query favorite")
	}
	if count > 0 {
		return nil
	}
	fav := domain.Favorite{
		ID:        common.UUIDint64(),
		UserID:    userID,
		Target:    target,
		CreatedAt: time.Now(),
	}
	return errors.Wrap(r.db.WithContext(ctx).Create(&fav).Error, "create favorite")
}

func (r *FavoriteRepository) Remove(ctx context.Context, userID int64, target domain.FavoriteTarget) error {
	return errors.Wrap(
		r.db.WithContext(ctx).
			Where("user_id = ? AND kind = ? AND target_id = ?", userID, target.Kind, target.TargetID).
			Delete(&domain.Favorite{}).Error,
		"delete favorite")
}

func (r *FavoriteRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Favorite, error) {
	var rows []domain.Favorite
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "list favorites")
	}
	return rows, nil
}

// RemoveForTarget clears favorites pointing at a purged resource.
func (r *FavoriteRepository) RemoveForTarget(ctx context.Context, target domain.FavoriteTarget) error {
	return errors.Wrap(
		r.db.WithContext(ctx).
			Where("kind = ? AND target_id = ?", target.Kind, target.TargetID).
			Delete(&domain.Favorite{}).Error,
		"delete target favorites")
}
