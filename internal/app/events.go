package app

import (
	"context"

	"go.uber.org/zap"

	"github.com/emprendia/emprendia/internal/domain"
	"github.com/emprendia/emprendia/internal/lifecycle"
	"github.com/emprendia/emprendia/pkg/common"
)

// initEventSubscribers wires the async side effects of lifecycle events:
// audit rows and view counters are written off the request path.
func (a *Application) initEventSubscribers() {
	if err := a.bus.SubscribeAsync(lifecycle.TopicResourceAudit, a.onResourceAudit, false); err != nil {
		zap.L().Error("audit subscriber registration failed", zap.Error(err))
	}
	if err := a.bus.SubscribeAsync(lifecycle.TopicProductViewed, a.onProductViewed, false); err != nil {
		zap.L().Error("view subscriber registration failed", zap.Error(err))
	}
}

func (a *Application) onResourceAudit(evt lifecycle.AuditEvent) {
	row := domain.AuditLog{
		ID:        common.UUIDint64(),
		ActorKind: evt.ActorKind,
		ActorID:   evt.ActorID,
		Action:    evt.Action,
		Resource:  evt.Resource,
		TargetID:  evt.TargetID,
		Detail:    evt.Detail,
	}
	if err := a.gormDB.Create(&row).Error; err != nil {
		zap.L().Error("audit log write failed", zap.Error(err))
	}
}

func (a *Application) onProductViewed(id int64) {
	if err := a.products.IncrementViews(context.Background(), id); err != nil {
		zap.L().Error("view counter update failed", zap.Int64("id", id), zap.Error(err))
	}
}
