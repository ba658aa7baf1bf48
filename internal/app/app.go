package app

import (
	"os"
	"path"
	"time"
	_ "time/tzdata"

	"github.com/avignatattva/storefront/config"
	"github.com/avignatattva/storefront/internal/cart"
	"github.com/avignatattva/storefront/internal/catalog"
	"github.com/avignatattva/storefront/internal/storefront"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/gorm"
)

type Application struct {
	appConfig *config.AppConfig
	gormDB    *gorm.DB
	sched     *cron.Cron
	gateway   *catalog.Gateway
	carts     *cart.Registry
	service   *storefront.Service
	views     *storefront.Views
}

// Ensure Application implements all interfaces
var (
	_ DBProvider         = (*Application)(nil)
	_ ConfigProvider     = (*Application)(nil)
	_ SchedulerProvider  = (*Application)(nil)
	_ CatalogProvider    = (*Application)(nil)
	_ CartProvider       = (*Application)(nil)
	_ StorefrontProvider = (*Application)(nil)
	_ AppContext         = (*Application)(nil)
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

// Scheduler returns the cron scheduler
func (a *Application) Scheduler() *cron.Cron {
	return a.sched
}

func (a *Application) Gateway() *catalog.Gateway {
	return a.gateway
}

func (a *Application) Carts() *cart.Registry {
	return a.carts
}

func (a *Application) Storefront() *storefront.Service {
	return a.service
}

func (a *Application) Views() *storefront.Views {
	return a.views
}

// Init sets up logging, the components and the background jobs
func (a *Application) Init(cfg *config.AppConfig) error {
	loc, err := time.LoadLocation(cfg.System.Location)
	if err != nil {
		zap.S().Error("timezone config error")
	} else {
		time.Local = loc
	}

	initLogger(cfg)

	if err := a.InitComponents(); err != nil {
		return err
	}
	a.initJob()
	return nil
}

// InitComponents opens cart storage and wires the gateway, the cart registry
// and the page services. It does not start any background job.
func (a *Application) InitComponents() error {
	cfg := a.appConfig
	storage, err := a.openCartStorage()
	if err != nil {
		return err
	}
	carts, err := cart.NewRegistry(storage, cfg.Cart.NodeID)
	if err != nil {
		_ = storage.Close()
		return errors.Wrap(err, "cart registry")
	}
	a.carts = carts
	a.gateway = catalog.NewGateway(cfg.Remote)
	a.service = storefront.NewService(a.gateway)
	a.views = storefront.NewViews(a.service)
	zap.S().Infof("storefront ready, remote %s, cart storage %s", cfg.Remote.BaseURL, cfg.Cart.Storage)
	return nil
}

func (a *Application) openCartStorage() (cart.Storage, error) {
	cfg := a.appConfig
	switch cfg.Cart.Storage {
	case "", "memory":
		return cart.NewMemoryStorage(), nil
	case "bolt":
		file := cfg.Cart.BoltFile
		if !path.IsAbs(file) {
			file = path.Join(cfg.GetDataDir(), file)
		}
		if err := os.MkdirAll(path.Dir(file), 0o755); err != nil {
			return nil, errors.Wrap(err, "create cart data dir")
		}
		s, err := cart.OpenBoltStorage(file)
		if err != nil {
			return nil, errors.Wrapf(err, "open cart storage %s", file)
		}
		return s, nil
	case "postgres":
		if a.gormDB == nil {
			a.gormDB = getDatabase(cfg.Database)
		}
		if err := a.MigrateDB(false); err != nil {
			return nil, err
		}
		zap.S().Infof("Database connection successful, type: %s", cfg.Database.Type)
		return cart.NewGormStorage(a.gormDB), nil
	default:
		return nil, errors.Errorf("unknown cart storage %q", cfg.Cart.Storage)
	}
}

func initLogger(cfg *config.AppConfig) {
	var zapConfig zap.Config
	if cfg.Logger.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.OutputPaths = []string{"stdout"}

	var logger *zap.Logger
	var err error
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
		logger = zap.New(core, zap.AddCaller())
	} else {
		logger, err = zapConfig.Build(zap.AddCaller())
		if err != nil {
			panic(err)
		}
	}

	zap.ReplaceGlobals(logger)
}

// Release releases application resources
func (a *Application) Release() {
	if a.sched != nil {
		<-a.sched.Stop().Done()
	}
	if a.carts != nil {
		if err := a.carts.Storage().Close(); err != nil {
			zap.S().Error(err)
		}
	}
	if a.gormDB != nil {
		if sqlDB, err := a.gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	_ = zap.L().Sync()
}
