package domain

import (
	"time"

	"gorm.io/gorm"
)

// Resource status values. Products additionally use StatusOutOfStock.
const (
	StatusActive     = "active"
	StatusInactive   = "inactive"
	StatusDraft      = "draft"
	StatusOutOfStock = "out_of_stock"
)

// ProductCategories is the closed set of accepted product categories.
var ProductCategories = []string{
	"ropa", "calzado", "accesorios", "hogar", "electronica",
	"deportes", "belleza", "juguetes", "libros", "otros",
}

// Product is a sellable item owned by exactly one entrepreneur.
type Product struct {
	ID                 int64          `gorm:"primaryKey" json:"id,string"`
	Name               string         `gorm:"size:150;index" json:"name" form:"name"`
	Category           string         `gorm:"size:64;index" json:"category" form:"category"`
	Description        string         `gorm:"type:text" json:"description" form:"description"`
	Price              float64        `gorm:"index" json:"price" form:"price"`
	Stock              int            `gorm:"index" json:"stock" form:"stock"`
	MainImage          string         `gorm:"size:1024" json:"main_image"`
	GalleryImages      ImageList      `gorm:"type:text" json:"gallery_images"`
	Status             string         `gorm:"size:16;index;default:active" json:"status"`
	Featured           bool           `gorm:"index" json:"featured"`
	DiscountPercentage float64        `json:"discount_percentage"`
	Views              int64          `json:"views"`
	Sales              int64          `gorm:"index" json:"sales"`
	EntrepreneurID     int64          `gorm:"index" json:"entrepreneur_id,string"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Product) TableName() string {
	return "products"
}

// MediaRefs returns every media path reference held by the product.
func (p *Product) MediaRefs() []string {
	refs := make([]string, 0, len(p.GalleryImages)+1)
	if p.MainImage != "" {
		refs = append(refs, p.MainImage)
	}
	refs = append(refs, p.GalleryImages...)
	return refs
}
