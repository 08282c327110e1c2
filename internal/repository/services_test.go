package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emprendia/emprendia/internal/domain"
)

func seedService(t *testing.T, r *ServiceRepository, s domain.Service) *domain.Service {
	t.Helper()
	require.NoError(t, r.Create(context.Background(), &s))
	return &s
}

func TestServiceCreateAndFind(t *testing.T) {
	r := NewServiceRepository(newTestDB(t))
	ctx := context.Background()

	s := seedService(t, r, domain.Service{
		Name: "Peluquería", Category: "belleza", Description: "corte y peinado",
		Address: "Calle 1", Phone: "3001234567", EntrepreneurID: 1,
	})
	assert.NotZero(t, s.ID)

	got, err := r.FindByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Peluquería", got.Name)
	assert.Equal(t, "belleza", got.Category)

	_, err = r.FindByID(ctx, 12345)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestServiceUpdateSpanishColumns(t *testing.T) {
	r := NewServiceRepository(newTestDB(t))
	ctx := context.Background()

	s := seedService(t, r, domain.Service{
		Name: "Peluquería", Category: "belleza", Description: "corte y peinado",
		Address: "Calle 1", Phone: "3001234567", EntrepreneurID: 1,
	})

	updated, err := r.Update(ctx, s.ID, map[string]interface{}{
		"nombre_servicio": "Peluquería Canina",
		"direccion":       "Carrera 9",
	})
	require.NoError(t, err)
	assert.Equal(t, "Peluquería Canina", updated.Name)
	assert.Equal(t, "Carrera 9", updated.Address)
	assert.Equal(t, "belleza", updated.Category)
}

func TestServiceListPublicSearch(t *testing.T) {
	r := NewServiceRepository(newTestDB(t))
	ctx := context.Background()

	seedService(t, r, domain.Service{Name: "Peluquería Canina", Category: "mascotas", Description: "baño y corte", Address: "a", Phone: "1", EntrepreneurID: 1})
	seedService(t, r, domain.Service{Name: "Jardinería", Category: "hogar", Description: "poda de PELUQUERIA no", Address: "b", Phone: "2", EntrepreneurID: 2})
	seedService(t, r, domain.Service{Name: "Plomería", Category: "hogar", Description: "tuberías", Address: "c", Phone: "3", EntrepreneurID: 2})

	_, total, err := r.ListPublic(ctx, PublicQuery{Search: "peluqueria no"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total, "search matches descriptions too")

	rows, total, err := r.ListPublic(ctx, PublicQuery{Category: "hogar"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, rows, 2)
}

func TestServiceGalleryRoundTrip(t *testing.T) {
	r := NewServiceRepository(newTestDB(t))
	ctx := context.Background()

	s := seedService(t, r, domain.Service{
		Name: "Fotografía", Category: "eventos", Description: "sesiones de fotos",
		Address: "d", Phone: "4", EntrepreneurID: 1,
		GalleryImages: domain.ImageList{"servicios/galeria/a.png", "servicios/galeria/b.png"},
	})

	got, err := r.FindByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ImageList{"servicios/galeria/a.png", "servicios/galeria/b.png"}, got.GalleryImages)
}
