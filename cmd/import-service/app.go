package main

import (
	"fmt"

	"golang-stock-importer/internal/importer/config"
	"golang-stock-importer/internal/importer/metrics"
	"golang-stock-importer/internal/importer/pipeline"
	"golang-stock-importer/internal/importer/repository"
	"golang-stock-importer/internal/importer/service"
	"golang-stock-importer/pkg/logger"
	"golang-stock-importer/pkg/postgres"
	"golang-stock-importer/pkg/redis"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// app holds the dependencies shared by every subcommand.
type app struct {
	cfg      *config.Config
	logger   *logger.Logger
	db       *postgres.DB
	redis    *redis.Client
	registry *prometheus.Registry

	stockRepo repository.StockRepository
	newsRepo  repository.NewsRepository

	stockService service.StockService
	priceService service.StockPriceService
	newsService  service.NewsService
}

func newApp(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	cacheTTL, err := cfg.StockCacheTTL()
	if err != nil {
		return nil, err
	}

	db, err := postgres.NewDB(postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		TimeZone:        cfg.Database.TimeZone,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		LogLevel:        cfg.Database.LogLevel,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	a := &app{cfg: cfg, logger: appLogger, db: db, registry: prometheus.NewRegistry()}
	a.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	eventRepo := repository.NewNoopImportEventRepository()
	if cfg.Redis.Enabled() {
		a.redis, err = redis.NewClient(redis.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			a.close()
			return nil, fmt.Errorf("failed to initialize Redis: %w", err)
		}
		eventRepo = repository.NewImportEventRepository(a.redis.Client, cfg.Redis.StreamMaxLen)
	} else {
		appLogger.Info("Redis host not configured, import events are not published")
	}

	a.stockRepo = repository.NewCachedStockRepository(repository.NewStockRepository(db.DB), cacheTTL)
	a.newsRepo = repository.NewNewsRepository(db.DB)
	priceRepo := repository.NewStockPriceRepository(db.DB)

	importMetrics := metrics.New(a.registry)
	settings := pipeline.Settings{Location: loc}

	a.stockService = service.NewStockService(a.stockRepo, appLogger)
	a.priceService = service.NewStockPriceService(a.stockRepo, priceRepo, eventRepo, importMetrics, settings, appLogger)
	a.newsService = service.NewNewsService(a.stockRepo, a.newsRepo, eventRepo, importMetrics, settings, appLogger)
	return a, nil
}

func (a *app) close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("Failed to close Redis", logger.ErrorField(err))
		}
	}
	if err := a.db.Close(); err != nil {
		a.logger.Warn("Failed to close database", logger.ErrorField(err))
	}
	_ = a.logger.Sync()
}
