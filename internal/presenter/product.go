package presenter

import (
	"time"

	"github.com/emprendia/emprendia/internal/domain"
)

// URLResolver resolves a media path reference to a public URL.
type URLResolver interface {
	PublicURL(ref string) string
}

// OwnerView is the entrepreneur sub-object embedded in public resource
// views. It is present only when the relation was eagerly loaded.
type OwnerView struct {
	ID           int64  `json:"id,string"`
	Name         string `json:"name"`
	BusinessName string `json:"business_name"`
	BusinessType string `json:"business_type,omitempty"`
	City         string `json:"city,omitempty"`
	Logo         string `json:"logo,omitempty"`
	Verified     bool   `json:"verified"`
}

// ProductView is the stable public JSON shape of a product.
type ProductView struct {
	ID                 int64      `json:"id,string"`
	Name               string     `json:"name"`
	Category           string     `json:"category"`
	CategorySlug       string     `json:"category_slug"`
	Slug               string     `json:"slug"`
	Description        string     `json:"description"`
	Price              float64    `json:"price"`
	FormattedPrice     string     `json:"formatted_price"`
	DiscountPercentage float64    `json:"discount_percentage"`
	DiscountedPrice    *float64   `json:"discounted_price"`
	Stock              int        `json:"stock"`
	Status             string     `json:"status"`
	Featured           bool       `json:"featured"`
	Views              int64      `json:"views"`
	Sales              int64      `json:"sales"`
	MainImage          *string    `json:"main_image"`
	GalleryImages      []string   `json:"gallery_images"`
	IsAvailable        bool       `json:"is_available"`
	InStock            bool       `json:"in_stock"`
	IsNew              bool       `json:"is_new"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	Entrepreneur       *OwnerView `json:"entrepreneur,omitempty"`
}

// PublicProduct projects a product and its optionally-loaded owner. The
// owner key is absent, not null, when the relation was not loaded.
func PublicProduct(p *domain.Product, owner *domain.Entrepreneur, urls URLResolver, now time.Time) ProductView {
	available := p.Stock > 0 && p.Status == domain.StatusActive
	v := ProductView{
		ID:                 p.ID,
		Name:               p.Name,
		Category:           p.Category,
		CategorySlug:       CategorySlug(p.Category),
		Slug:               Slug(p.Name),
		Description:        p.Description,
		Price:              p.Price,
		FormattedPrice:     FormatPrice(p.Price),
		DiscountPercentage: p.DiscountPercentage,
		DiscountedPrice:    DiscountedPrice(p.Price, p.DiscountPercentage),
		Stock:              p.Stock,
		Status:             p.Status,
		Featured:           p.Featured,
		Views:              p.Views,
		Sales:              p.Sales,
		GalleryImages:      resolveAll(p.GalleryImages, urls),
		IsAvailable:        available,
		InStock:            available,
		IsNew:              IsNew(p.CreatedAt, now),
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
	if p.MainImage != "" {
		u := urls.PublicURL(p.MainImage)
		v.MainImage = &u
	}
	if owner != nil {
		v.Entrepreneur = ownerView(owner)
	}
	return v
}

func ownerView(e *domain.Entrepreneur) *OwnerView {
	return &OwnerView{
		ID:           e.ID,
		Name:         e.FullName(),
		BusinessName: e.BusinessName,
		BusinessType: e.BusinessType,
		City:         e.City,
		Logo:         e.Logo,
		Verified:     e.Verified,
	}
}

// resolveAll maps path references to public URLs; empty and nil inputs both
// render as an empty array, never null.
func resolveAll(refs []string, urls URLResolver) []string {
	out := make([]string, 0, len(refs))
	for _, ref := range refs {
		out = append(out, urls.PublicURL(ref))
	}
	return out
}
