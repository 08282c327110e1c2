package repository

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/emprendia/emprendia/internal/domain"
	"github.com/emprendia/emprendia/pkg/common"
)

// ActorRepository resolves and creates the two actor identity spaces.
type ActorRepository struct {
	db *gorm.DB
}

func NewActorRepository(db *gorm.DB) *ActorRepository {
	return &ActorRepository{db: db}
}

func (r *ActorRepository) CreateUser(ctx context.Context, u *domain.User) error {
	now := time.Now()
	if u.ID == 0 {
		u.ID = common.UUIDint64()
	}
	if u.Role == "" {
		u.Role = domain.RoleUser
	}
	if u.Status == "" {
		u.Status = common.ENABLED
	}
	u.CreatedAt = now
	u.UpdatedAt = now
	return errors.Wrap(r.db.WithContext(ctx).Create(u).Error, "create user")
}

func (r *ActorRepository) CreateEntrepreneur(ctx context.Context, e *domain.Entrepreneur) error {
	now := time.Now()
	if e.ID == 0 {
		e.ID = common.UUIDint64()
	}
	if e.Role == "" {
		e.Role = domain.RoleEntrepreneur
	}
	if e.Status == "" {
		e.Status = common.ENABLED
	}
	e.CreatedAt = now
	e.UpdatedAt = now
	return errors.Wrap(r.db.WithContext(ctx).Create(e).Error, "create entrepreneur")
}

func (r *ActorRepository) FindUserByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "query user")
	}
	return &u, nil
}

func (r *ActorRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "query user by email")
	}
	return &u, nil
}

func (r *ActorRepository) FindEntrepreneurByID(ctx context.Context, id int64) (*domain.Entrepreneur, error) {
	var e domain.Entrepreneur
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "query entrepreneur")
	}
	return &e, nil
}

func (r *ActorRepository) FindEntrepreneurByEmail(ctx context.Context, email string) (*domain.Entrepreneur, error) {
	var e domain.Entrepreneur
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "query entrepreneur by email")
	}
	return &e, nil
}
