package repository

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/emprendia/emprendia/internal/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(domain.Tables...))
	return db
}

func seedProduct(t *testing.T, r *ProductRepository, p domain.Product) *domain.Product {
	t.Helper()
	require.NoError(t, r.Create(context.Background(), &p))
	return &p
}

func TestProductCreateAndFind(t *testing.T) {
	r := NewProductRepository(newTestDB(t))
	ctx := context.Background()

	p := seedProduct(t, r, domain.Product{
		Name: "Camisa", Category: "ropa", Description: "una camisa de prueba",
		Price: 100, Stock: 5, EntrepreneurID: 1,
	})
	assert.NotZero(t, p.ID)
	assert.Equal(t, domain.StatusActive, p.Status)

	got, err := r.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Camisa", got.Name)

	_, err = r.FindByID(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProductUpdatePartial(t *testing.T) {
	r := NewProductRepository(newTestDB(t))
	ctx := context.Background()

	p := seedProduct(t, r, domain.Product{
		Name: "Camisa", Category: "ropa", Description: "descripción original",
		Price: 100, Stock: 5, EntrepreneurID: 1,
	})

	updated, err := r.Update(ctx, p.ID, map[string]interface{}{"price": 250.0})
	require.NoError(t, err)
	assert.Equal(t, 250.0, updated.Price)
	assert.Equal(t, "Camisa", updated.Name, "untouched columns keep their values")
	assert.Equal(t, "descripción original", updated.Description)

	_, err = r.Update(ctx, 999, map[string]interface{}{"price": 1.0})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProductSoftDeleteHidesRow(t *testing.T) {
	r := NewProductRepository(newTestDB(t))
	ctx := context.Background()

	p := seedProduct(t, r, domain.Product{
		Name: "Camisa", Category: "ropa", Description: "una camisa de prueba",
		Price: 100, EntrepreneurID: 1,
	})
	require.NoError(t, r.SoftDelete(ctx, p.ID))

	_, err := r.FindByID(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	rows, total, err := r.ListPublic(ctx, PublicQuery{})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, rows)

	assert.ErrorIs(t, r.SoftDelete(ctx, p.ID), ErrNotFound, "second delete finds nothing")
}

func TestProductListPublicFilters(t *testing.T) {
	r := NewProductRepository(newTestDB(t))
	ctx := context.Background()

	seedProduct(t, r, domain.Product{Name: "Camisa Azul", Category: "ropa", Description: "algodón azul", Price: 100, Stock: 3, EntrepreneurID: 1})
	seedProduct(t, r, domain.Product{Name: "Zapato Negro", Category: "calzado", Description: "cuero negro", Price: 300, Stock: 0, EntrepreneurID: 1})
	seedProduct(t, r, domain.Product{Name: "CAMISA Roja", Category: "ropa", Description: "lino rojo", Price: 500, Stock: 8, EntrepreneurID: 2, Featured: true})

	rows, total, err := r.ListPublic(ctx, PublicQuery{Search: "camisa"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total, "search is case-insensitive")
	assert.Len(t, rows, 2)

	min, max := 200.0, 400.0
	_, total, err = r.ListPublic(ctx, PublicQuery{MinPrice: &min, MaxPrice: &max})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	one := 1
	_, total, err = r.ListPublic(ctx, PublicQuery{MinStock: &one})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	featured := true
	rows, _, err = r.ListPublic(ctx, PublicQuery{Featured: &featured})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "CAMISA Roja", rows[0].Name)

	_, total, err = r.ListPublic(ctx, PublicQuery{Category: "ropa", EntrepreneurID: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestProductListPublicSorting(t *testing.T) {
	r := NewProductRepository(newTestDB(t))
	ctx := context.Background()

	seedProduct(t, r, domain.Product{Name: "B", Category: "ropa", Description: "segundo producto", Price: 20, EntrepreneurID: 1})
	time.Sleep(5 * time.Millisecond)
	seedProduct(t, r, domain.Product{Name: "A", Category: "ropa", Description: "primer producto", Price: 10, EntrepreneurID: 1})

	rows, _, err := r.ListPublic(ctx, PublicQuery{SortBy: "price", SortOrder: "asc"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 10.0, rows[0].Price)

	// Unknown sort keys fall back to newest-first instead of erroring.
	rows, _, err = r.ListPublic(ctx, PublicQuery{SortBy: "password; DROP TABLE products"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "A", rows[0].Name)
}

func TestProductListPublicPagination(t *testing.T) {
	r := NewProductRepository(newTestDB(t))
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		seedProduct(t, r, domain.Product{Name: "P", Category: "ropa", Description: "producto de relleno", Price: float64(i), EntrepreneurID: 1})
	}

	rows, total, err := r.ListPublic(ctx, PublicQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 20, total)
	assert.Len(t, rows, DefaultPageSize)

	rows, _, err = r.ListPublic(ctx, PublicQuery{Page: 2})
	require.NoError(t, err)
	assert.Len(t, rows, 5)

	rows, _, err = r.ListPublic(ctx, PublicQuery{PerPage: 1000})
	require.NoError(t, err)
	assert.Len(t, rows, 20, "per_page is capped, not erroring")
}

func TestProductPurgeHelpers(t *testing.T) {
	r := NewProductRepository(newTestDB(t))
	ctx := context.Background()

	p := seedProduct(t, r, domain.Product{
		Name: "Viejo", Category: "ropa", Description: "producto viejo",
		MainImage:     "productos/principales/a.png",
		GalleryImages: domain.ImageList{"productos/galeria/b.png"},
		EntrepreneurID: 1,
	})
	require.NoError(t, r.SoftDelete(ctx, p.ID))

	old, err := r.ListDeletedBefore(ctx, time.Now().Add(time.Minute))
	require.NoError(t, err)
	require.Len(t, old, 1)

	none, err := r.ListDeletedBefore(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Empty(t, none, "recently deleted rows are not purge candidates")

	refs, err := r.AllMediaRefs(ctx)
	require.NoError(t, err)
	assert.Contains(t, refs, "productos/principales/a.png")
	assert.Contains(t, refs, "productos/galeria/b.png")

	require.NoError(t, r.HardDelete(ctx, p.ID))
	old, err = r.ListDeletedBefore(ctx, time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.Empty(t, old)
}

func TestIncrementViews(t *testing.T) {
	r := NewProductRepository(newTestDB(t))
	ctx := context.Background()

	p := seedProduct(t, r, domain.Product{Name: "Visto", Category: "ropa", Description: "producto visitado", EntrepreneurID: 1})
	before := p.UpdatedAt

	require.NoError(t, r.IncrementViews(ctx, p.ID))
	require.NoError(t, r.IncrementViews(ctx, p.ID))

	got, err := r.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, got.Views)
	assert.Equal(t, before.Unix(), got.UpdatedAt.Unix(), "view counting must not touch updated_at")
}
