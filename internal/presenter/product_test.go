package presenter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/emprendia/emprendia/internal/domain"
)

type fakeResolver struct{}

func (fakeResolver) PublicURL(ref string) string {
	if ref == "" {
		return ""
	}
	return "/storage/" + ref
}

func TestPublicProduct(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	p := &domain.Product{
		ID:                 42,
		Name:               "Camisa Azul",
		Category:           "ropa",
		Description:        "una camisa azul de algodón",
		Price:              35000,
		DiscountPercentage: 10,
		Stock:              3,
		Status:             domain.StatusActive,
		MainImage:          "productos/principales/a.png",
		GalleryImages:      domain.ImageList{"productos/galeria/b.png"},
		CreatedAt:          now.AddDate(0, 0, -5),
	}

	v := PublicProduct(p, nil, fakeResolver{}, now)

	assert.Equal(t, "$35.000", v.FormattedPrice)
	if assert.NotNil(t, v.DiscountedPrice) {
		assert.InDelta(t, 31500, *v.DiscountedPrice, 0.001)
	}
	assert.Equal(t, "camisa-azul", v.Slug)
	assert.Equal(t, "ropa", v.CategorySlug)
	assert.True(t, v.IsAvailable)
	assert.True(t, v.InStock)
	assert.True(t, v.IsNew)
	if assert.NotNil(t, v.MainImage) {
		assert.Equal(t, "/storage/productos/principales/a.png", *v.MainImage)
	}
	assert.Equal(t, []string{"/storage/productos/galeria/b.png"}, v.GalleryImages)
	assert.Nil(t, v.Entrepreneur, "owner key absent when relation not loaded")
}

func TestPublicProductAvailability(t *testing.T) {
	now := time.Now()

	outOfStock := &domain.Product{Stock: 0, Status: domain.StatusActive}
	v := PublicProduct(outOfStock, nil, fakeResolver{}, now)
	assert.False(t, v.IsAvailable)
	assert.False(t, v.InStock)

	inactive := &domain.Product{Stock: 5, Status: domain.StatusInactive}
	v = PublicProduct(inactive, nil, fakeResolver{}, now)
	assert.False(t, v.IsAvailable)
}

func TestPublicProductEmptyMedia(t *testing.T) {
	v := PublicProduct(&domain.Product{}, nil, fakeResolver{}, time.Now())
	assert.Nil(t, v.MainImage, "missing main image renders as null")
	assert.NotNil(t, v.GalleryImages, "gallery renders as empty array, never null")
	assert.Empty(t, v.GalleryImages)
}

func TestPublicProductWithOwner(t *testing.T) {
	owner := &domain.Entrepreneur{
		ID:           7,
		FirstName:    "Ana",
		LastName:     "Gómez",
		BusinessName: "Tejidos Ana",
		Verified:     true,
	}
	v := PublicProduct(&domain.Product{EntrepreneurID: 7}, owner, fakeResolver{}, time.Now())
	if assert.NotNil(t, v.Entrepreneur) {
		assert.Equal(t, "Ana Gómez", v.Entrepreneur.Name)
		assert.Equal(t, "Tejidos Ana", v.Entrepreneur.BusinessName)
		assert.True(t, v.Entrepreneur.Verified)
	}
}

func TestPublicService(t *testing.T) {
	now := time.Now()
	price := 20000.0
	s := &domain.Service{
		ID:        9,
		Name:      "Peluquería Canina",
		Category:  "Mascotas",
		BasePrice: &price,
		Status:    domain.StatusActive,
	}
	v := PublicService(s, nil, fakeResolver{}, now)
	assert.Equal(t, "mascotas", v.CategorySlug)
	assert.Equal(t, "peluqueria-canina", v.Slug)
	assert.True(t, v.IsAvailable)
	if assert.NotNil(t, v.FormattedPrice) {
		assert.Equal(t, "$20.000", *v.FormattedPrice)
	}

	noPrice := PublicService(&domain.Service{}, nil, fakeResolver{}, now)
	assert.Nil(t, noPrice.BasePrice)
	assert.Nil(t, noPrice.FormattedPrice)
	assert.False(t, noPrice.IsAvailable)
}
