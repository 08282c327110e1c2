package domain

import (
	"time"

	"gorm.io/gorm"
)

// Service is an offered service owned by exactly one entrepreneur. Column
// and wire names keep the original Spanish public contract.
type Service struct {
	ID             int64          `gorm:"primaryKey" json:"id,string"`
	Name           string         `gorm:"column:nombre_servicio;size:255;index" json:"nombre_servicio" form:"nombre_servicio"`
	Category       string         `gorm:"column:categoria;size:64;index" json:"categoria" form:"categoria"`
	Description    string         `gorm:"column:descripcion;type:text" json:"descripcion" form:"descripcion"`
	Address        string         `gorm:"column:direccion;size:255" json:"direccion" form:"direccion"`
	Phone          string         `gorm:"column:telefono;size:20" json:"telefono" form:"telefono"`
	BasePrice      *float64       `gorm:"column:precio_base;index" json:"precio_base" form:"precio_base"`
	BusinessHours  string         `gorm:"column:horario_atencion;size:255" json:"horario_atencion" form:"horario_atencion"`
	MainImage      string         `gorm:"column:imagen_principal;size:1024" json:"imagen_principal"`
	GalleryImages  ImageList      `gorm:"column:galeria_imagenes;type:text" json:"galeria_imagenes"`
	Status         string         `gorm:"size:16;index;default:active" json:"status"`
	EntrepreneurID int64          `gorm:"index" json:"entrepreneur_id,string"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Service) TableName() string {
	return "servicios"
}

// MediaRefs returns every media path reference held by the service.
func (s *Service) MediaRefs() []string {
	refs := make([]string, 0, len(s.GalleryImages)+1)
	if s.MainImage != "" {
		refs = append(refs, s.MainImage)
	}
	refs = append(refs, s.GalleryImages...)
	return refs
}
