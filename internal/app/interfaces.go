package app

import (
	"github.com/avignatattva/storefront/config"
	"github.com/avignatattva/storefront/internal/cart"
	"github.com/avignatattva/storefront/internal/catalog"
	"github.com/avignatattva/storefront/internal/storefront"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// DBProvider provides database access. DB is nil unless carts are kept in postgres.
type DBProvider interface {
	DB() *gorm.DB
}

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// SchedulerProvider provides task scheduling capability
type SchedulerProvider interface {
	Scheduler() *cron.Cron
}

// CatalogProvider provides the remote catalog gateway
type CatalogProvider interface {
	Gateway() *catalog.Gateway
}

// CartProvider provides the visitor cart registry
type CartProvider interface {
	Carts() *cart.Registry
}

// StorefrontProvider provides the page services
type StorefrontProvider interface {
	Storefront() *storefront.Service
	Views() *storefront.Views
}

// AppContext combines all provider interfaces for full application context
// Services should depend on specific providers or this combined interface
type AppContext interface {
	DBProvider
	ConfigProvider
	SchedulerProvider
	CatalogProvider
	CartProvider
	StorefrontProvider

	// Application lifecycle methods
	MigrateDB(track bool) error
	InitDb()
	// EvictIdleSessions ends carts and store views idle past the configured window
	EvictIdleSessions()
}
