package repository

import (
	"context"
	"testing"
	"time"

	"golang-stock-importer/internal/entity"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
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
	return db
}

func seedStock(t *testing.T, db *gorm.DB, code, name string) *entity.Stock {
	t.Helper()
	stock := &entity.Stock{Code: code, Name: name}
	require.NoError(t, NewStockRepository(db).Create(context.Background(), stock))
	return stock
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func price(stockID uint, date time.Time, close string, volume int64) entity.StockPrice {
	c := decimal.RequireFromString(close)
	return entity.StockPrice{
		StockID:   stockID,
		TradeDate: entity.NewTradeDate(date),
		Open:      c,
		High:      c,
		Low:       c,
		Close:     c,
		Volume:    volume,
	}
}

func ptr[T any](v T) *T { return &v }

func toDay(d *int) *time.Time {
	if d == nil {
		return nil
	}
	t := day(2024, 1, *d)
	return &t
}
