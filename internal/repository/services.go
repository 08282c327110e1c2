package repository

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/emprendia/emprendia/internal/domain"
	"github.com/emprendia/emprendia/pkg/common"
)

// serviceSortColumns is the allow-list for public service listings; services
// have no stock or sales columns.
var serviceSortColumns = map[string]string{
	"name":       "nombre_servicio",
	"price":      "precio_base",
	"created_at": "created_at",
}

type ServiceRepository struct {
	db *gorm.DB
}

func NewServiceRepository(db *gorm.DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

func (r *ServiceRepository) Create(ctx context.Context, s *domain.Service) error {
	now := time.Now()
	if s.ID == 0 {
		s.ID = common.UUIDint64()
	}
	if s.Status == "" {
		s.Status = domain.StatusActive
	}
	s.CreatedAt = now
	s.UpdatedAt = now
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		return errors.Wrap(err, "create service")
	}
	return nil
}

func (r *ServiceRepository) FindByID(ctx context.Context, id int64) (*domain.Service, error) {
	var s domain.Service
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "query service")
	}
	return &s, nil
}

func (r *ServiceRepository) Update(ctx context.Context, id int64, updates map[string]interface{}) (*domain.Service, error) {
	if _, err := r.FindByID(ctx, id); err != nil {
		return nil, err
	}
	updates["updated_at"] = time.Now()
	if err := r.db.WithContext(ctx).Model(&domain.Service{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, errors.Wrap(err, "update service")
	}
	return r.FindByID(ctx, id)
}

func (r *ServiceRepository) SoftDelete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Service{})
	if res.Error != nil {
		return errors.Wrap(res.Error, "soft delete service")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ServiceRepository) HardDelete(ctx context.Context, id int64) error {
	return errors.Wrap(
		r.db.WithContext(ctx).Unscoped().Where("id = ?", id).Delete(&domain.Service{}).Error,
		"hard delete service")
}

func (r *ServiceRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Service, error) {
	var rows []domain.Service
	err := r.db.WithContext(ctx).
		Where("entrepreneur_id = ?", ownerID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "list services by owner")
	}
	return rows, nil
}

func (r *ServiceRepository) ListPublic(ctx context.Context, q PublicQuery) ([]domain.Service, int64, error) {
	db := r.db.WithContext(ctx).Model(&domain.Service{})

	if s := strings.TrimSpace(q.Search); s != "" {
		db = searchClause(db, "nombre_servicio", "descripcion", s)
	}
	if q.Category != "" {
		db = db.Where("categoria = ?", q.Category)
	}
	if q.Status != "" {
		db = db.Where("status = ?", q.Status)
	}
	if q.EntrepreneurID != 0 {
		db = db.Where("entrepreneur_id = ?", q.EntrepreneurID)
	}
	if q.MinPrice != nil {
		db = db.Where("precio_base >= ?", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		db = db.Where("precio_base <= ?", *q.MaxPrice)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count services")
	}

	page, perPage := q.page()
	var rows []domain.Service
	err := db.Order(orderClause(serviceSortColumns, q.SortBy, q.SortOrder)).
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&rows).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "list services")
	}
	return rows, total, nil
}

func (r *ServiceRepository) ListDeletedBefore(ctx context.Context, cutoff time.Time) ([]domain.Service, error) {
	var rows []domain.Service
	err := r.db.WithContext(ctx).Unscoped().
		Where("deleted_at IS NOT NULL AND deleted_at < ?", cutoff).
		Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "list deleted services")
	}
	return rows, nil
}

func (r *ServiceRepository) AllMediaRefs(ctx context.Context) (map[string]struct{}, error) {
	var rows []domain.Service
	err := r.db.WithContext(ctx).Unscoped().
		Select("imagen_principal", "galeria_imagenes").
		Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "collect service media refs")
	}
	refs := make(map[string]struct{})
	for i := range rows {
		for _, ref := range rows[i].MediaRefs() {
			refs[ref] = struct{}{}
		}
	}
	return refs, nil
}
