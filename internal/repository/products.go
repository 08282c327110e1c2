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

// productSortColumns is the allow-list for public product listings.
var productSortColumns = map[string]string{
	"name":       "name",
	"price":      "price",
	"created_at": "created_at",
	"stock":      "stock",
	"sales":      "sales",
}

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Create assigns the id and timestamps and inserts the row.
func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	now := time.Now()
	if p.ID == 0 {
		p.ID = common.UUIDint64()
	}
	if p.Status == "" {
		p.Status = domain.StatusActive
	}
	p.CreatedAt = now
	p.UpdatedAt = now
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return errors.Wrap(err, "create product")
	}
	return nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "query product")
	}
	return &p, nil
}

// Update applies only the supplied columns, bumps updated_at, and returns
// the reloaded row.
func (r *ProductRepository) Update(ctx context.Context, id int64, updates map[string]interface{}) (*domain.Product, error) {
	if _, err := r.FindByID(ctx, id); err != nil {
		return nil, err
	}
	updates["updated_at"] = time.Now()
	if err := r.db.WithContext(ctx).Model(&domain.Product{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, errors.Wrap(err, "update product")
	}
	return r.FindByID(ctx, id)
}

func (r *ProductRepository) SoftDelete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Product{})
	if res.Error != nil {
		return errors.Wrap(res.Error, "soft delete product")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// HardDelete permanently removes the row, soft-deleted or not. Media
// cleanup is the lifecycle manager's job, not the repository's.
func (r *ProductRepository) HardDelete(ctx context.Context, id int64) error {
	return errors.Wrap(
		r.db.WithContext(ctx).Unscoped().Where("id = ?", id).Delete(&domain.Product{}).Error,
		"hard delete product")
}

func (r *ProductRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Product, error) {
	var rows []domain.Product
	err := r.db.WithContext(ctx).
		Where("entrepreneur_id = ?", ownerID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "list products by owner")
	}
	return rows, nil
}

// ListPublic returns a filtered, sorted, paginated listing plus the total
// row count for the pagination envelope.
func (r *ProductRepository) ListPublic(ctx context.Context, q PublicQuery) ([]domain.Product, int64, error) {
	db := r.db.WithContext(ctx).Model(&domain.Product{})

	if s := strings.TrimSpace(q.Search); s != "" {
		db = searchClause(db, "name", "description", s)
	}
	if q.Category != "" {
		db = db.Where("category = ?", q.Category)
	}
	if q.Status != "" {
		db = db.Where("status = ?", q.Status)
	}
	if q.EntrepreneurID != 0 {
		db = db.Where("entrepreneur_id = ?", q.EntrepreneurID)
	}
	if q.ExcludeID != 0 {
		db = db.Where("id != ?", q.ExcludeID)
	}
	if q.MinPrice != nil {
		db = db.Where("price >= ?", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		db = db.Where("price <= ?", *q.MaxPrice)
	}
	if q.MinStock != nil {
		db = db.Where("stock >= ?", *q.MinStock)
	}
	if q.Featured != nil {
		db = db.Where("featured = ?", *q.Featured)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count products")
	}

	page, perPage := q.page()
	var rows []domain.Product
	err := db.Order(orderClause(productSortColumns, q.SortBy, q.SortOrder)).
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&rows).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "list products")
	}
	return rows, total, nil
}

// ListDeletedBefore returns soft-deleted products whose deletion timestamp
// is older than cutoff. Used by the purge job.
func (r *ProductRepository) ListDeletedBefore(ctx context.Context, cutoff time.Time) ([]domain.Product, error) {
	var rows []domain.Product
	err := r.db.WithContext(ctx).Unscoped().
		Where("deleted_at IS NOT NULL AND deleted_at < ?", cutoff).
		Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "list deleted products")
	}
	return rows, nil
}

// AllMediaRefs collects every media reference held by any product row,
// including soft-deleted ones. Used by the orphan sweep.
func (r *ProductRepository) AllMediaRefs(ctx context.Context) (map[string]struct{}, error) {
	var rows []domain.Product
	err := r.db.WithContext(ctx).Unscoped().
		Select("main_image", "gallery_images").
		Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "collect product media refs")
	}
	refs := make(map[string]struct{})
	for i := range rows {
		for _, ref := range rows[i].MediaRefs() {
			refs[ref] = struct{}{}
		}
	}
	return refs, nil
}

// IncrementViews bumps the view counter without touching updated_at.
func (r *ProductRepository) IncrementViews(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Model(&domain.Product{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}
