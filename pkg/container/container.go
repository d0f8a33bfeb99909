package container

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"library-catalog/internal/config"
	catalogHandler "library-catalog/internal/domains/catalog/handler"
	catalogService "library-catalog/internal/domains/catalog/service"
	catalogStore "library-catalog/internal/domains/catalog/store"
	infraCache "library-catalog/internal/infrastructure/cache"
	"library-catalog/internal/infrastructure/database"
	"library-catalog/pkg/cache"
	"library-catalog/pkg/logger"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container is the root of the dependency graph. Every field is a singleton
// for the lifetime of the process.
type Container struct {
	Config *config.Config

	// Infrastructure. DB and SQL stay nil on the memory driver; redis stays
	// nil when the cache is disabled or unreachable.
	DB    *database.PostgresDB
	SQL   *sql.DB
	Cache cache.Cache
	redis *infraCache.RedisClient

	Store    catalogStore.Store
	Services *catalogService.Services
	Handler  *catalogHandler.CatalogHandler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer wires config → store → cache → services → handlers, in that
// order.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	c := &Container{Config: cfg}

	if err := c.initStore(ctx); err != nil {
		c.Cleanup()
		return nil, fmt.Errorf("failed to init store: %w", err)
	}

	c.initCache(ctx)

	c.Services = catalogService.New(catalogService.Deps{
		Store:         c.Store,
		Cache:         c.Cache,
		LookupTimeout: cfg.Catalog.LookupTimeout,
		CountsTTL:     cfg.Catalog.CountsTTL,
	})
	c.Handler = catalogHandler.NewCatalogHandler(c.Services)

	logger.Info("container initialized", map[string]interface{}{
		"store": cfg.Catalog.StoreDriver,
		"cache": c.redis != nil,
	})
	return c, nil
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initStore(ctx context.Context) error {
	if c.Config.Catalog.StoreDriver == config.DriverMemory {
		c.Store = catalogStore.NewMemoryStore()
		return nil
	}

	db := database.NewPostgresDB(c.Config.LoadDatabaseConfig())

	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := db.Connect(connectCtx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DB = db

	sqlDB, err := db.SQLDB()
	if err != nil {
		return err
	}
	c.SQL = sqlDB

	if err := catalogStore.EnsureSchema(ctx, sqlDB); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}

	c.Store = catalogStore.NewPostgresStore(sqlDB)
	return nil
}

// initCache never fails: without Redis the dashboard counts are computed on
// every request.
func (c *Container) initCache(ctx context.Context) {
	rc := c.Config.Redis
	if !rc.Enabled || rc.Addr == "" {
		c.Cache = cache.Nop{}
		return
	}

	client := infraCache.NewRedisClient(rc.Addr, rc.Password, rc.DB)
	if err := client.Connect(ctx); err != nil {
		logger.Warn("redis connection failed (non-critical)", err)
		_ = client.Close()
		c.Cache = cache.Nop{}
		return
	}

	c.redis = client
	c.Cache = client
}

// ========================================
// HELPER METHODS
// ========================================

// Health pings every backing component and reports per-component errors.
// The cache is optional, so only the store decides overall health.
func (c *Container) Health(ctx context.Context) (healthy bool, components map[string]string) {
	components = map[string]string{}
	healthy = true

	if err := c.Store.Ping(ctx); err != nil {
		healthy = false
		components["store"] = err.Error()
	} else {
		components["store"] = "ok"
	}

	switch {
	case c.redis == nil:
		components["cache"] = "disabled"
	case c.redis.HealthCheck(ctx) != nil:
		components["cache"] = "unavailable"
	default:
		components["cache"] = "ok"
	}

	return healthy, components
}

// Cleanup releases resources; called during graceful shutdown.
func (c *Container) Cleanup() {
	if c.SQL != nil {
		if err := c.SQL.Close(); err != nil {
			logger.Warn("failed to close sql handle", err)
		}
	}
	if c.DB != nil {
		_ = c.DB.Close()
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			logger.Warn("failed to close redis", err)
		}
	}
	logger.Debug("container cleanup completed")
}
