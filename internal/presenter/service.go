package presenter

import (
	"time"

	"github.com/emprendia/emprendia/internal/domain"
)

// ServiceView is the stable public JSON shape of a service; wire names keep
// the original Spanish contract.
type ServiceView struct {
	ID             int64      `json:"id,string"`
	Name           string     `json:"nombre_servicio"`
	Category       string     `json:"categoria"`
	CategorySlug   string     `json:"categoria_slug"`
	Slug           string     `json:"slug"`
	Description    string     `json:"descripcion"`
	Address        string     `json:"direccion"`
	Phone          string     `json:"telefono"`
	BasePrice      *float64   `json:"precio_base"`
	FormattedPrice *string    `json:"formatted_price"`
	BusinessHours  string     `json:"horario_atencion"`
	Status         string     `json:"status"`
	MainImage      *string    `json:"imagen_principal"`
	GalleryImages  []string   `json:"galeria_imagenes"`
	IsAvailable    bool       `json:"is_available"`
	IsNew          bool       `json:"is_new"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	Entrepreneur   *OwnerView `json:"entrepreneur,omitempty"`
}

// PublicService projects a service and its optionally-loaded owner.
// Services carry no stock, so availability is just the active status.
func PublicService(s *domain.Service, owner *domain.Entrepreneur, urls URLResolver, now time.Time) ServiceView {
	v := ServiceView{
		ID:            s.ID,
		Name:          s.Name,
		Category:      s.Category,
		CategorySlug:  CategorySlug(s.Category),
		Slug:          Slug(s.Name),
		Description:   s.Description,
		Address:       s.Address,
		Phone:         s.Phone,
		BasePrice:     s.BasePrice,
		BusinessHours: s.BusinessHours,
		Status:        s.Status,
		GalleryImages: resolveAll(s.GalleryImages, urls),
		IsAvailable:   s.Status == domain.StatusActive,
		IsNew:         IsNew(s.CreatedAt, now),
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
	if s.BasePrice != nil {
		fp := FormatPrice(*s.BasePrice)
		v.FormattedPrice = &fp
	}
	if s.MainImage != "" {
		u := urls.PublicURL(s.MainImage)
		v.MainImage = &u
	}
	if owner != nil {
		v.Entrepreneur = ownerView(owner)
	}
	return v
}
