package lifecycle

import (
	"context"
	"fmt"
	"strings"

	"github.com/emprendia/emprendia/internal/authz"
	"github.com/emprendia/emprendia/internal/domain"
	"github.com/emprendia/emprendia/internal/mediastore"
	"github.com/emprendia/emprendia/pkg/common"
)

const maxProductPrice = 999999.99

// ProductInput carries a full product submission. EntrepreneurID may only
// differ from the acting entrepreneur when the actor is an admin.
type ProductInput struct {
	Name           string
	Category       string
	Description    string
	Price          float64
	Stock          int
	EntrepreneurID int64
	MainImage      *Upload
	Gallery        []Upload
}

// ProductPatch carries a partial update; nil means "leave unchanged".
// A non-nil Gallery replaces the whole gallery.
type ProductPatch struct {
	Name               *string
	Category           *string
	Description        *string
	Price              *float64
	Stock              *int
	Status             *string
	DiscountPercentage *float64
	MainImage          *Upload
	Gallery            []Upload
}

func validateProductInput(in ProductInput) FieldErrors {
	fe := FieldErrors{}
	if strings.TrimSpace(in.Name) == "" {
		fe.Add("name", "name is required")
	} else if len(in.Name) > 150 {
		fe.Add("name", "name must not exceed 150 characters")
	}
	if in.Category == "" {
		fe.Add("category", "category is required")
	} else if !common.InSlice(in.Category, domain.ProductCategories) {
		fe.Add("category", "category is not valid")
	}
	if strings.TrimSpace(in.Description) == "" {
		fe.Add("description", "description is required")
	} else if len(in.Description) < 10 {
		fe.Add("description", "description must be at least 10 characters")
	}
	if in.Price < 0 {
		fe.Add("price", "price must be greater than or equal to 0")
	} else if in.Price > maxProductPrice {
		fe.Add("price", "price must not exceed 999999.99")
	}
	if in.Stock < 0 {
		fe.Add("stock", "stock must be greater than or equal to 0")
	}
	if len(fe) > 0 {
		return fe
	}
	return nil
}

func validateProductPatch(p ProductPatch) FieldErrors {
	fe := FieldErrors{}
	if p.Name != nil {
		if strings.TrimSpace(*p.Name) == "" {
			fe.Add("name", "name must not be empty")
		} else if len(*p.Name) > 150 {
			fe.Add("name", "name must not exceed 150 characters")
		}
	}
	if p.Category != nil && !common.InSlice(*p.Category, domain.ProductCategories) {
		fe.Add("category", "category is not valid")
	}
	if p.Description != nil && len(strings.TrimSpace(*p.Description)) < 10 {
		fe.Add("description", "description must be at least 10 characters")
	}
	if p.Price != nil && (*p.Price < 0 || *p.Price > maxProductPrice) {
		fe.Add("price", "price must be between 0 and 999999.99")
	}
	if p.Stock != nil && *p.Stock < 0 {
		fe.Add("stock", "stock must be greater than or equal to 0")
	}
	if p.Status != nil {
		switch *p.Status {
		case domain.StatusActive, domain.StatusInactive, domain.StatusDraft, domain.StatusOutOfStock:
		default:
			fe.Add("status", "status must be active, inactive, draft or out_of_stock")
		}
	}
	if p.DiscountPercentage != nil && (*p.DiscountPercentage < 0 || *p.DiscountPercentage > 100) {
		fe.Add("discount_percentage", "discount must be between 0 and 100")
	}
	if len(fe) > 0 {
		return fe
	}
	return nil
}

// CreateProduct stores any uploaded media first, then persists the row. If
// persistence fails, every file stored for this attempt is removed before
// the error is returned.
func (m *Manager) CreateProduct(ctx context.Context, actor domain.Actor, in ProductInput) (*domain.Product, error) {
	ownerID := in.EntrepreneurID
	if ownerID == 0 {
		ownerID = actor.ID
	}
	if err := authz.CheckMutate(actor, ownerID); err != nil {
		return nil, err
	}
	if fe := validateProductInput(in); fe != nil {
		return nil, fe
	}

	var mainRef string
	if in.MainImage != nil {
		refs, err := m.storeUploads([]Upload{*in.MainImage}, mediastore.BucketProductMain)
		if err != nil {
			if fe, ok := mediaFieldError(err, "main_image"); ok {
				return nil, fe
			}
			return nil, err
		}
		mainRef = refs[0]
	}

	galleryRefs, err := m.storeUploads(in.Gallery, mediastore.BucketProductGallery)
	if err != nil {
		if mainRef != "" {
			m.discard([]string{mainRef})
		}
		if fe, ok := mediaFieldError(err, "gallery_images"); ok {
			return nil, fe
		}
		return nil, err
	}

	p := &domain.Product{
		Name:           strings.TrimSpace(in.Name),
		Category:       in.Category,
		Description:    in.Description,
		Price:          in.Price,
		Stock:          in.Stock,
		MainImage:      mainRef,
		GalleryImages:  galleryRefs,
		Status:         domain.StatusActive,
		EntrepreneurID: ownerID,
	}
	if err := m.products.Create(ctx, p); err != nil {
		m.discard(p.MediaRefs())
		return nil, err
	}

	m.publish(AuditEvent{
		ActorKind: actor.Kind, ActorID: actor.ID,
		Action: "create", Resource: "product", TargetID: p.ID,
		Detail: p.Name,
	})
	return p, nil
}

// UpdateProduct stores replacement media before touching the row, persists
// the new references, and only then deletes the superseded files. A
// persistence failure rolls back the fresh files and leaves the old ones
// referenced and intact.
func (m *Manager) UpdateProduct(ctx context.Context, actor domain.Actor, id int64, patch ProductPatch) (*domain.Product, error) {
	existing, err := m.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.CheckMutate(actor, existing.EntrepreneurID); err != nil {
		return nil, err
	}
	if fe := validateProductPatch(patch); fe != nil {
		return nil, fe
	}

	updates := map[string]interface{}{}
	if patch.Name != nil {
		updates["name"] = strings.TrimSpace(*patch.Name)
	}
	if patch.Category != nil {
		updates["category"] = *patch.Category
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.Price != nil {
		updates["price"] = *patch.Price
	}
	if patch.Stock != nil {
		updates["stock"] = *patch.Stock
	}
	if patch.Status != nil {
		updates["status"] = *patch.Status
	}
	if patch.DiscountPercentage != nil {
		updates["discount_percentage"] = *patch.DiscountPercentage
	}

	var freshRefs, supersededRefs []string
	if patch.MainImage != nil {
		refs, err := m.storeUploads([]Upload{*patch.MainImage}, mediastore.BucketProductMain)
		if err != nil {
			if fe, ok := mediaFieldError(err, "main_image"); ok {
				return nil, fe
			}
			return nil, err
		}
		freshRefs = append(freshRefs, refs[0])
		updates["main_image"] = refs[0]
		if existing.MainImage != "" {
			supersededRefs = append(supersededRefs, existing.MainImage)
		}
	}
	if patch.Gallery != nil {
		refs, err := m.storeUploads(patch.Gallery, mediastore.BucketProductGallery)
		if err != nil {
			m.discard(freshRefs)
			if fe, ok := mediaFieldError(err, "gallery_images"); ok {
				return nil, fe
			}
			return nil, err
		}
		freshRefs = append(freshRefs, refs...)
		updates["gallery_images"] = domain.ImageList(refs)
		supersededRefs = append(supersededRefs, existing.GalleryImages...)
	}

	if len(updates) == 0 {
		return existing, nil
	}

	updated, err := m.products.Update(ctx, id, updates)
	if err != nil {
		m.discard(freshRefs)
		return nil, err
	}
	m.release(supersededRefs)

	m.publish(AuditEvent{
		ActorKind: actor.Kind, ActorID: actor.ID,
		Action: "update", Resource: "product", TargetID: id,
		Detail: updated.Name,
	})
	return updated, nil
}

// DeleteProduct soft-deletes the row. Media files are kept so the resource
// stays recoverable until the purge job runs.
func (m *Manager) DeleteProduct(ctx context.Context, actor domain.Actor, id int64) error {
	existing, err := m.products.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := authz.CheckMutate(actor, existing.EntrepreneurID); err != nil {
		return err
	}
	if err := m.products.SoftDelete(ctx, id); err != nil {
		return err
	}
	m.publish(AuditEvent{
		ActorKind: actor.Kind, ActorID: actor.ID,
		Action: "delete", Resource: "product", TargetID: id,
		Detail: existing.Name,
	})
	return nil
}

// PurgeProduct permanently removes a (typically soft-deleted) product, its
// media files, and any favorites pointing at it. Not exposed through the
// ordinary API; the purge job and tests call it.
func (m *Manager) PurgeProduct(ctx context.Context, p *domain.Product) error {
	m.release(p.MediaRefs())
	if err := m.products.HardDelete(ctx, p.ID); err != nil {
		return err
	}
	return m.favorites.RemoveForTarget(ctx, domain.FavoriteTarget{
		Kind: domain.FavoriteProduct, TargetID: p.ID,
	})
}

// ToggleProductStatus flips the product between active and inactive.
func (m *Manager) ToggleProductStatus(ctx context.Context, actor domain.Actor, id int64) (*domain.Product, error) {
	existing, err := m.products.FindByID(ctx, id)
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
	updated, err := m.products.Update(ctx, id, map[string]interface{}{"status": next})
	if err != nil {
		return nil, err
	}
	m.publish(AuditEvent{
		ActorKind: actor.Kind, ActorID: actor.ID,
		Action: "toggle-status", Resource: "product", TargetID: id,
		Detail: next,
	})
	return updated, nil
}

// ToggleProductFeatured flips the featured flag; admin only.
func (m *Manager) ToggleProductFeatured(ctx context.Context, actor domain.Actor, id int64) (*domain.Product, error) {
	if err := authz.RequireAdmin(actor); err != nil {
		return nil, err
	}
	existing, err := m.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	updated, err := m.products.Update(ctx, id, map[string]interface{}{"featured": !existing.Featured})
	if err != nil {
		return nil, err
	}
	m.publish(AuditEvent{
		ActorKind: actor.Kind, ActorID: actor.ID,
		Action: "toggle-featured", Resource: "product", TargetID: id,
		Detail: fmt.Sprintf("featured=%v", updated.Featured),
	})
	return updated, nil
}
