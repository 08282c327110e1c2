package lifecycle

import (
	"context"
	"strings"

	"github.com/emprendia/emprendia/internal/authz"
	"github.com/emprendia/emprendia/internal/domain"
	"github.com/emprendia/emprendia/internal/mediastore"
)

const maxServicePrice = 999999999

// ServiceInput carries a full service submission; field names follow the
// Spanish wire contract at the API edge, not here.
type ServiceInput struct {
	Name           string
	Category       string
	Description    string
	Address        string
	Phone          string
	BasePrice      *float64
	BusinessHours  string
	EntrepreneurID int64
	MainImage      *Upload
	Gallery        []Upload
}

// ServicePatch carries a partial update; nil means "leave unchanged".
type ServicePatch struct {
	Name          *string
	Category      *string
	Description   *string
	Address       *string
	Phone         *string
	BasePrice     *float64
	BusinessHours *string
	Status        *string
	MainImage     *Upload
	Gallery       []Upload
}

func validateServiceInput(in ServiceInput) FieldErrors {
	fe := FieldErrors{}
	if strings.TrimSpace(in.Name) == "" {
		fe.Add("nombre_servicio", "service name is required")
	} else if len(in.Name) > 255 {
		fe.Add("nombre_servicio", "service name must not exceed 255 characters")
	}
	if strings.TrimSpace(in.Category) == "" {
		fe.Add("categoria", "category is required")
	}
	if strings.TrimSpace(in.Description) == "" {
		fe.Add("descripcion", "description is required")
	} else if len(in.Description) < 10 {
		fe.Add("descripcion", "description must be at least 10 characters")
	}
	if strings.TrimSpace(in.Address) == "" {
		fe.Add("direccion", "address is required")
	} else if len(in.Address) > 255 {
		fe.Add("direccion", "address must not exceed 255 characters")
	}
	if strings.TrimSpace(in.Phone) == "" {
		fe.Add("telefono", "phone is required")
	} else if len(in.Phone) > 20 {
		fe.Add("telefono", "phone must not exceed 20 characters")
	}
	if in.BasePrice != nil && (*in.BasePrice < 0 || *in.BasePrice > maxServicePrice) {
		fe.Add("precio_base", "base price must be between 0 and 999999999")
	}
	if len(in.BusinessHours) > 255 {
		fe.Add("horario_atencion", "business hours must not exceed 255 characters")
	}
	if len(fe) > 0 {
		return fe
	}
	return nil
}

func validateServicePatch(p ServicePatch) FieldErrors {
	fe := FieldErrors{}
	if p.Name != nil {
		if strings.TrimSpace(*p.Name) == "" {
			fe.Add("nombre_servicio", "service name must not be empty")
		} else if len(*p.Name) > 255 {
			fe.Add("nombre_servicio", "service name must not exceed 255 characters")
		}
	}
	if p.Description != nil && len(strings.TrimSpace(*p.Description)) < 10 {
		fe.Add("descripcion", "description must be at least 10 characters")
	}
	if p.Address != nil && len(*p.Address) > 255 {
		fe.Add("direccion", "address must not exceed 255 characters")
	}
	if p.Phone != nil && len(*p.Phone) > 20 {
		fe.Add("telefono", "phone must not exceed 20 characters")
	}
	if p.BasePrice != nil && (*p.BasePrice < 0 || *p.BasePrice > maxServicePrice) {
		fe.Add("precio_base", "base price must be between 0 and 999999999")
	}
	if p.Status != nil {
		switch *p.Status {
		case domain.StatusActive, domain.StatusInactive, domain.StatusDraft:
		default:
			fe.Add("status", "status must be active, inactive or draft")
		}
	}
	if len(fe) > 0 {
		return fe
	}
	return nil
}

// CreateService mirrors CreateProduct's ordering: media first, then the
// row, with full media rollback when persistence fails.
func (m *Manager) CreateService(ctx context.Context, actor domain.Actor, in ServiceInput) (*domain.Service, error) {
	ownerID := in.EntrepreneurID
	if ownerID == 0 {
		ownerID = actor.ID
	}
	if err := authz.CheckMutate(actor, ownerID); err != nil {
		return nil, err
	}
	if fe := validateServiceInput(in); fe != nil {
		return nil, fe
	}

	var mainRef string
	if in.MainImage != nil {
		refs, err := m.storeUploads([]Upload{*in.MainImage}, mediastore.BucketServiceMain)
		if err != nil {
			if fe, ok := mediaFieldError(err, "imagen_principal"); ok {
				return nil, fe
			}
			return nil, err
		}
		mainRef = refs[0]
	}

	galleryRefs, err := m.storeUploads(in.Gallery, mediastore.BucketServiceGallery)
	if err != nil {
		if mainRef != "" {
			m.discard([]string{mainRef})
		}
		if fe, ok := mediaFieldError(err, "galeria_imagenes"); ok {
			return nil, fe
		}
		return nil, err
	}

	s := &domain.Service{
		Name:           strings.TrimSpace(in.Name),
		Category:       in.Category,
		Description:    in.Description,
		Address:        in.Address,
		Phone:          in.Phone,
		BasePrice:      in.BasePrice,
		BusinessHours:  in.BusinessHours,
		MainImage:      mainRef,
		GalleryImages:  galleryRefs,
		Status:         domain.StatusActive,
		EntrepreneurID: ownerID,
	}
	if err := m.services.Create(ctx, s); err != nil {
		m.discard(s.MediaRefs())
		return nil, err
	}

	m.publish(AuditEvent{
		ActorKind: actor.Kind, ActorID: actor.ID,
		Action: "create", Resource: "service", TargetID: s.ID,
		Detail: s.Name,
	})
	return s, nil
}

// UpdateService follows the same store-new, persist, delete-old ordering as
// UpdateProduct.
func (m *Manager) UpdateService(ctx context.Context, actor domain.Actor, id int64, patch ServicePatch) (*domain.Service, error) {
	existing, err := m.services.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.CheckMutate(actor, existing.EntrepreneurID); err != nil {
		return nil, err
	}
	if fe := validateServicePatch(patch); fe != nil {
		return nil, fe
	}

	updates := map[string]interface{}{}
	if patch.Name != nil {
		updates["nombre_servicio"] = strings.TrimSpace(*patch.Name)
	}
	if patch.Category != nil {
		updates["categoria"] = *patch.Category
	}
	if patch.Description != nil {
		updates["descripcion"] = *patch.Description
	}
	if patch.Address != nil {
		updates["direccion"] = *patch.Address
	}
	if patch.Phone != nil {
		updates["telefono"] = *patch.Phone
	}
	if patch.BasePrice != nil {
		updates["precio_base"] = *patch.BasePrice
	}
	if patch.BusinessHours != nil {
		updates["horario_atencion"] = *patch.BusinessHours
	}
	if patch.Status != nil {
		updates["status"] = *patch.Status
	}

	var freshRefs, supersededRefs []string
	if patch.MainImage != nil {
		refs, err := m.storeUploads([]Upload{*patch.MainImage}, mediastore.BucketServiceMain)
		if err != nil {
			if fe, ok := mediaFieldError(err, "imagen_principal"); ok {
				return nil, fe
			}
			return nil, err
		}
		freshRefs = append(freshRefs, refs[0])
		updates["imagen_principal"] = refs[0]
		if existing.MainImage != "" {
			supersededRefs = append(supersededRefs, existing.MainImage)
		}
	}
	if patch.Gallery != nil {
		refs, err := m.storeUploads(patch.Gallery, mediastore.BucketServiceGallery)
		if err != nil {
			m.discard(freshRefs)
			if fe, ok := mediaFieldError(err, "galeria_imagenes"); ok {
				return nil, fe
			}
			return nil, err
		}
		freshRefs = append(freshRefs, refs...)
		updates["galeria_imagenes"] = domain.ImageList(refs)
		supersededRefs = append(supersededRefs, existing.GalleryImages...)
	}

	if len(updates) == 0 {
		return existing, nil
	}

	updated, err := m.services.Update(ctx, id, updates)
	if err != nil {
		m.discard(freshRefs)
		return nil, err
	}
	m.release(supersededRefs)

	m.publish(AuditEvent{
		ActorKind: actor.Kind, ActorID: actor.ID,
		Action: "update", Resource: "service", TargetID: id,
		Detail: updated.Name,
	})
	return updated, nil
}

// DeleteService soft-deletes the row, keeping media recoverable.
func (m *Manager) DeleteService(ctx context.Context, actor domain.Actor, id int64) error {
	existing, err := m.services.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := authz.CheckMutate(actor, existing.EntrepreneurID); err != nil {
		return err
	}
	if err := m.services.SoftDelete(ctx, id); err != nil {
		return err
	}
	m.publish(AuditEvent{
		ActorKind: actor.Kind, ActorID: actor.ID,
		Action: "delete", Resource: "service", TargetID: id,
		Detail: existing.Name,
	})
	return nil
}

// PurgeService permanently removes a service, its media, and favorites.
func (m *Manager) PurgeService(ctx context.Context, s *domain.Service) error {
	m.release(s.MediaRefs())
	if err := m.services.HardDelete(ctx, s.ID); err != nil {
		return err
	}
	return m.favorites.RemoveForTarget(ctx, domain.FavoriteTarget{
		Kind: domain.FavoriteService, TargetID: s.ID,
	})
}

// ToggleServiceStatus flips the service between active and inactive.
func (m *Manager) ToggleServiceStatus(ctx context.Context, actor domain.Actor, id int64) (*domain.Service, error) {
	existing, err := m.services.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.CheckMutate(actor, existing.EntrepreneurID); err != nil {
		return nil, err
	}
	next := domain.StatusActive
	if existing.Status == domain.StatusActive {
		next = domain.StatusInactive
	}
	updated, err := m.services.Update(ctx, id, map[string]interface{}{"status": next})
	if err != nil {
		return nil, err
	}
	m.publish(AuditEvent{
		ActorKind: actor.Kind, ActorID: actor.ID,
		Action: "toggle-status", Resource: "service", TargetID: id,
		Detail: next,
	})
	return updated, nil
}
