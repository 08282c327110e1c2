package app

import (
	"github.com/asaskevich/EventBus"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/emprendia/emprendia/config"
	"github.com/emprendia/emprendia/internal/lifecycle"
	"github.com/emprendia/emprendia/internal/mediastore"
	"github.com/emprendia/emprendia/internal/repository"
)

// DBProvider provides database access
type DBProvider interface {
	DB() *gorm.DB
}

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// MediaProvider provides the file store behind resource media.
type MediaProvider interface {
	MediaStore() *mediastore.Store
}

// LifecycleProvider provides the resource lifecycle manager.
type LifecycleProvider interface {
	Lifecycle() *lifecycle.Manager
}

// BusProvider provides the in-process event bus.
type BusProvider interface {
	Bus() EventBus.Bus
}

// RepositoryProvider provides the persistence repositories.
type RepositoryProvider interface {
	Products() *repository.ProductRepository
	Services() *repository.ServiceRepository
	Actors() *repository.ActorRepository
	Tokens() *repository.TokenRepository
	Favorites() *repository.FavoriteRepository
}

// SchedulerProvider provides task scheduling capability
type SchedulerProvider interface {
	Scheduler() *cron.Cron
}

// AppContext combines all provider interfaces for full application context.
// Services should depend on specific providers or this combined interface.
type AppContext interface {
	DBProvider
	ConfigProvider
	MediaProvider
	LifecycleProvider
	BusProvider
	RepositoryProvider
	SchedulerProvider

	// Application lifecycle methods
	MigrateDB(track bool) error
	InitDb()
	DropAll()
	// RunPurgeNow triggers the retention purge immediately.
	RunPurgeNow() error
	// RunOrphanSweepNow triggers the orphaned media sweep immediately.
	RunOrphanSweepNow() error
}
