package app

import (
	"os"
	"runtime/debug"
	"time"
	_ "time/tzdata"

	"github.com/asaskevich/EventBus"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/gorm"

	"github.com/emprendia/emprendia/config"
	"github.com/emprendia/emprendia/internal/domain"
	"github.com/emprendia/emprendia/internal/lifecycle"
	"github.com/emprendia/emprendia/internal/mediastore"
	"github.com/emprendia/emprendia/internal/repository"
)

type Application struct {
	appConfig *config.AppConfig
	gormDB    *gorm.DB
	sched     *cron.Cron
	bus       EventBus.Bus
	media     *mediastore.Store

	products  *repository.ProductRepository
	services  *repository.ServiceRepository
	actors    *repository.ActorRepository
	tokens    *repository.TokenRepository
	favorites *repository.FavoriteRepository
	manager   *lifecycle.Manager
}

// Ensure Application implements all interfaces
var (
	_ DBProvider        = (*Application)(nil)
	_ ConfigProvider    = (*Application)(nil)
	_ MediaProvider     = (*Application)(nil)
	_ LifecycleProvider = (*Application)(nil)
	_ BusProvider       = (*Application)(nil)
	_ SchedulerProvider = (*Application)(nil)
	_ AppContext        = (*Application)(nil)
)

func NewApplication(appConfig *config.AppConfig) *Application {
	return &Application{appConfig: appConfig}
}

func (a *Application) Config() *config.AppConfig {
	return a.appConfig
}

func (a *Application) DB() *gorm.DB {
	return a.gormDB
}

// OverrideDB replaces the application's database handle (used in tests).
func (a *Application) OverrideDB(db *gorm.DB) {
	a.gormDB = db
}

func (a *Application) MediaStore() *mediastore.Store { return a.media }
func (a *Application) Lifecycle() *lifecycle.Manager { return a.manager }
func (a *Application) Bus() EventBus.Bus             { return a.bus }
func (a *Application) Scheduler() *cron.Cron         { return a.sched }

func (a *Application) Products() *repository.ProductRepository   { return a.products }
func (a *Application) Services() *repository.ServiceRepository   { return a.services }
func (a *Application) Actors() *repository.ActorRepository       { return a.actors }
func (a *Application) Tokens() *repository.TokenRepository       { return a.tokens }
func (a *Application) Favorites() *repository.FavoriteRepository { return a.favorites }

func (a *Application) Init(cfg *config.AppConfig) {
	loc, err := time.LoadLocation(cfg.System.Location)
	if err != nil {
		zap.S().Error("timezone config error")
	} else {
		time.Local = loc
	}

	a.initLogger(cfg)

	if cfg.Database.Type == "" {
		cfg.Database.Type = "postgres"
	}
	a.gormDB = getDatabase(cfg.Database)
	zap.S().Infof("Database connection successful, type: %s", cfg.Database.Type)

	if err := a.MigrateDB(false); err != nil {
		zap.S().Errorf("database migration failed: %v", err)
	}

	a.media, err = mediastore.NewStore(cfg.Media.Dir, cfg.Media.BaseURL, cfg.Media.MaxFileBytes)
	if err != nil {
		zap.S().Fatalf("media store init failed: %v", err)
	}

	a.bus = EventBus.New()
	a.initRepositories()
	a.initEventSubscribers()

	// wait for database initialization to complete
	go func() {
		time.Sleep(3 * time.Second)
		a.checkAdmin()
	}()

	a.initJob()
}

// initRepositories wires repositories and the lifecycle manager onto the
// current database handle. Tests call it again after OverrideDB.
func (a *Application) initRepositories() {
	a.products = repository.NewProductRepository(a.gormDB)
	a.services = repository.NewServiceRepository(a.gormDB)
	a.actors = repository.NewActorRepository(a.gormDB)
	a.tokens = repository.NewTokenRepository(a.gormDB)
	a.favorites = repository.NewFavoriteRepository(a.gormDB)
	a.manager = lifecycle.NewManager(a.media, a.products, a.services, a.favorites, a.bus)
}

func (a *Application) initLogger(cfg *config.AppConfig) {
	var zapConfig zap.Config
	if cfg.Logger.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	zapConfig.OutputPaths = []string{"stdout"}
	if cfg.Logger.FileEnable {
		zapConfig.OutputPaths = append(zapConfig.OutputPaths, cfg.Logger.Filename)
	}

	var logger *zap.Logger
	if cfg.Logger.FileEnable {
		lumberJackLogger := &lumberjack.Logger{
			Filename:   cfg.Logger.Filename,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
			Compress:   false,
		}

		core := zapcore.NewTee(
			zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(lumberJackLogger),
				zapConfig.Level,
			),
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
				zapcore.AddSync(os.Stdout),
				zapConfig.Level,
			),
		)
		logger = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	} else {
		var err error
		logger, err = zapConfig.Build(zap.AddCaller(), zap.AddCallerSkip(1))
		if err != nil {
			panic(err)
		}
	}

	zap.ReplaceGlobals(logger)
}

func (a *Application) MigrateDB(track bool) (err error) {
	defer func() {
		if err1 := recover(); err1 != nil {
			if os.Getenv("GO_DEGUB_TRACE") != "" {
				debug.PrintStack()
			}
			err2, ok := err1.(error)
			if ok {
				err = err2
				zap.S().Error(err2.Error())
			}
		}
	}()
	if track {
		if err := a.gormDB.Debug().Migrator().AutoMigrate(domain.Tables...); err != nil {
			zap.S().Error(err)
		}
	} else {
		if err := a.gormDB.Migrator().AutoMigrate(domain.Tables...); err != nil {
			zap.S().Error(err)
		}
	}
	return nil
}

func (a *Application) DropAll() {
	_ = a.gormDB.Migrator().DropTable(domain.Tables...)
}

func (a *Application) InitDb() {
	_ = a.gormDB.Migrator().DropTable(domain.Tables...)
	err := a.gormDB.Migrator().AutoMigrate(domain.Tables...)
	if err != nil {
		zap.S().Error(err)
	}
}

// Release releases application resources
func (a *Application) Release() {
	if a.sched != nil {
		a.sched.Stop()
	}
	_ = zap.L().Sync()
}
