// Package lifecycle orchestrates resource mutations together with their
// media files. Persistence and blob storage fail independently, so every
// operation follows one ordering rule: never delete a referenced file
// before its replacement is durably persisted, and never leave a
// stored-but-unreferenced file behind, whether the operation succeeds or
// fails.
package lifecycle

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/emprendia/emprendia/internal/mediastore"
	"github.com/emprendia/emprendia/internal/repository"
)

// Event topics published by the manager.
const (
	TopicResourceAudit = "resource.audit"
	TopicProductViewed = "product.viewed"
)

// AuditEvent describes a completed mutating operation for the audit trail.
type AuditEvent struct {
	ActorKind string
	ActorID   int64
	Action    string
	Resource  string
	TargetID  int64
	Detail    string
}

// Publisher is the event-bus surface the manager needs.
type Publisher interface {
	Publish(topic string, args ...interface{})
}

// Upload is one inbound file: raw bytes plus the client-declared MIME type.
// The store sniffs the real type; the declared one is only used in error
// messages.
type Upload struct {
	Data []byte
	Mime string
	Name string
}

// Manager coordinates the media store and the repositories.
type Manager struct {
	store     *mediastore.Store
	products  *repository.ProductRepository
	services  *repository.ServiceRepository
	favorites *repository.FavoriteRepository
	bus       Publisher
}

func NewManager(
	store *mediastore.Store,
	products *repository.ProductRepository,
	services *repository.ServiceRepository,
	favorites *repository.FavoriteRepository,
	bus Publisher,
) *Manager {
	return &Manager{
		store:     store,
		products:  products,
		services:  services,
		favorites: favorites,
		bus:       bus,
	}
}

func (m *Manager) publish(evt AuditEvent) {
	if m.bus != nil {
		m.bus.Publish(TopicResourceAudit, evt)
	}
}

// storeUploads writes files into bucket in order. If any file fails, the
// ones already written in this call are removed before returning: nothing
// references them yet, so they must not survive.
func (m *Manager) storeUploads(files []Upload, bucket string) ([]string, error) {
	refs := make([]string, 0, len(files))
	for _, f := range files {
		ref, err := m.store.Store(f.Data, bucket)
		if err != nil {
			m.discard(refs)
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// discard removes freshly-stored, never-persisted files. Failures here are
// logged for operator visibility but never surfaced: the caller already
// holds the authoritative error.
func (m *Manager) discard(refs []string) {
	for _, ref := range refs {
		if err := m.store.Delete(ref); err != nil {
			zap.L().Error("media rollback failed",
				zap.String("ref", ref), zap.Error(err))
		}
	}
}

// release removes superseded files after their replacement was persisted.
// Same logging posture as discard.
func (m *Manager) release(refs []string) {
	for _, ref := range refs {
		if err := m.store.Delete(ref); err != nil {
			zap.L().Error("superseded media delete failed",
				zap.String("ref", ref), zap.Error(err))
		}
	}
}

// mediaFieldError maps store validation failures onto the uploading field
// name, so clients see them as ordinary 422 field errors.
func mediaFieldError(err error, field string) (FieldErrors, bool) {
	switch {
	case errors.Is(err, mediastore.ErrUnsupportedMediaType):
		fe := FieldErrors{}
		fe.Add(field, "file must be a jpeg, png, webp or gif image")
		return fe, true
	case errors.Is(err, mediastore.ErrPayloadTooLarge):
		fe := FieldErrors{}
		fe.Add(field, "file exceeds the 2 MiB size limit")
		return fe, true
	}
	return nil, false
}
