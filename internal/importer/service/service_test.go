package service

import (
	"context"
	"testing"
	"time"

	"golang-stock-importer/internal/entity"
	"golang-stock-importer/internal/importer/metrics"
	"golang-stock-importer/internal/importer/pipeline"
	"golang-stock-importer/internal/importer/repository"
	"golang-stock-importer/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type recordingEvents struct {
	streams []string
	events  []repository.ImportEvent
}

func (r *recordingEvents) Publish(_ context.Context, stream string, event repository.ImportEvent) error {
	r.streams = append(r.streams, stream)
	r.events = append(r.events, event)
	return nil
}

type fixture struct {
	db     *gorm.DB
	stocks repository.StockRepository
	prices repository.StockPriceRepository
	news   repository.NewsRepository
	events *recordingEvents
	stock  *entity.Stock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&entity.Stock{}, &entity.StockPrice{}, &entity.News{}))

	f := &fixture{
		db:     db,
		stocks: repository.NewStockRepository(db),
		prices: repository.NewStockPriceRepository(db),
		news:   repository.NewNewsRepository(db),
		events: &recordingEvents{},
	}
	f.stock = &entity.Stock{Code: "7203", Name: "トヨタ自動車"}
	require.NoError(t, f.stocks.Create(context.Background(), f.stock))
	return f
}

func (f *fixture) settings() pipeline.Settings {
	return pipeline.Settings{Location: time.UTC, Now: func() time.Time { return fixedNow }}
}

func (f *fixture) priceService() StockPriceService {
	return NewStockPriceService(f.stocks, f.prices, f.events,
		metrics.New(prometheus.NewRegistry()), f.settings(), logger.NewNop())
}

func (f *fixture) newsService() NewsService {
	return NewNewsService(f.stocks, f.news, f.events,
		metrics.New(prometheus.NewRegistry()), f.settings(), logger.NewNop())
}
