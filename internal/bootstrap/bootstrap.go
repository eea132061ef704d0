// Package bootstrap wires configuration into repositories and services.
// The HTTP server and the admin CLI share it.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"equipment-access/internal/listeners"
	"equipment-access/internal/metrics"
	"equipment-access/internal/repositories"
	"equipment-access/internal/repositories/memory"
	"equipment-access/internal/routes"
	"equipment-access/internal/services"
	"equipment-access/pkg/config"
	"equipment-access/pkg/database/postgresql"
	"equipment-access/pkg/eventbus"
	"equipment-access/pkg/imagestore"
	"equipment-access/pkg/qr"
	"equipment-access/pkg/validation"
)

type Container struct {
	Config    *config.Config
	Logger    *zap.Logger
	Pool      *pgxpool.Pool
	Redis     *redis.Client
	Bus       *eventbus.Bus
	Registry  *prometheus.Registry
	Validator *validation.CustomValidator
	Services  routes.Services
}

// New connects to Postgres and, when configured, Redis. Without a Redis
// address scan debouncing stays in process memory.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Container, error) {
	pool, err := postgresql.Connect(ctx, cfg.Postgres, logger)
	if err != nil {
		return nil, err
	}

	c := &Container{
		Config:    cfg,
		Logger:    logger,
		Pool:      pool,
		Bus:       eventbus.New(logger),
		Registry:  prometheus.NewRegistry(),
		Validator: validation.New(),
	}

	var cache repositories.CacheRepositoryInterface = memory.NewCache()
	if cfg.Redis.Address != "" {
		c.Redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := c.Redis.Ping(ctx).Err(); err != nil {
			c.Close()
			return nil, fmt.Errorf("connect to redis at %s: %w", cfg.Redis.Address, err)
		}
		cache = repositories.NewRedisCacheRepository(c.Redis)
		logger.Info("scan debounce backed by redis", zap.String("address", cfg.Redis.Address))
	}

	images, err := imagestore.Open(ctx, cfg.Image)
	if err != nil {
		c.Close()
		return nil, err
	}

	c.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewRecorder(c.Registry)
	listeners.NewAuditListener(logger).Register(c.Bus)
	listeners.NewMetricsListener(recorder).Register(c.Bus)

	personRepo := repositories.NewPersonRepository(pool, logger)
	providerRepo := repositories.NewProviderRepository(pool, logger)
	equipmentRepo := repositories.NewEquipmentRepository(pool, logger)
	accessRepo := repositories.NewAccessRequestRepository(pool, logger)

	equipment := services.NewEquipmentService(equipmentRepo, providerRepo, accessRepo, images, c.Validator, c.Bus, logger)
	toggle := services.NewAccessToggleService(accessRepo, recorder, c.Bus, logger)
	c.Services = routes.Services{
		Persons:        services.NewPersonService(personRepo, accessRepo, c.Validator, logger),
		Providers:      services.NewProviderService(providerRepo, equipmentRepo, c.Validator, logger),
		Equipment:      equipment,
		Import:         services.NewEquipmentImportService(equipment, logger),
		AccessRequests: services.NewAccessRequestService(accessRepo, personRepo, equipmentRepo, c.Validator, c.Bus, logger),
		Toggle:         toggle,
		Scan:           services.NewScanService(toggle, qr.NewDecoder(), cache, cfg.Scan, logger),
		Report:         services.NewAccessReportService(accessRepo, personRepo, equipmentRepo, logger),
		Tokens:         services.NewTokenService(personRepo, equipmentRepo, qr.NewRenderer(cfg.QR.Size)),
	}
	return c, nil
}

// Close waits for in-flight event listeners, then releases connections.
func (c *Container) Close() {
	c.Bus.Wait()
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Logger.Warn("close redis", zap.Error(err))
		}
	}
	c.Pool.Close()
}
