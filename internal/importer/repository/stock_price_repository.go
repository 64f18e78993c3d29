package repository

import (
	"context"
	"fmt"
	"time"

	"golang-stock-importer/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const priceBatchSize = 500

var priceNaturalKey = []clause.Column{{Name: "stock_id"}, {Name: "trade_date"}}

// StockPriceRepository defines the interface for daily price data.
type StockPriceRepository interface {
	ExistsByDate(ctx context.Context, stockID uint, date time.Time) (bool, error)
	Create(ctx context.Context, price *entity.StockPrice) error
	Upsert(ctx context.Context, price *entity.StockPrice) error
	CreateManySkipDuplicates(ctx context.Context, prices []entity.StockPrice) (int64, error)
	DeleteByDateRange(ctx context.Context, stockID uint, start, end *time.Time) (int64, error)
	FindByStockID(ctx context.Context, stockID uint, start, end *time.Time, limit int) ([]entity.StockPrice, error)
}

// NewStockPriceRepository creates a new GORM-based price repository.
func NewStockPriceRepository(db *gorm.DB) StockPriceRepository {
	return &stockPriceRepository{db: db}
}

type stockPriceRepository struct {
	db *gorm.DB
}

func (r *stockPriceRepository) ExistsByDate(ctx context.Context, stockID uint, date time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.StockPrice{}).
		Where("stock_id = ? AND trade_date = ?", stockID, entity.NewTradeDate(date)).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check price existence: %w", err)
	}
	return count > 0, nil
}

func (r *stockPriceRepository) Create(ctx context.Context, price *entity.StockPrice) error {
	return r.db.WithContext(ctx).Create(price).Error
}

// Upsert inserts the price or replaces OHLCV of the existing row for the
// same stock and trade date.
func (r *stockPriceRepository) Upsert(ctx context.Context, price *entity.StockPrice) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   priceNaturalKey,
		DoUpdates: clause.AssignmentColumns([]string{"open", "high", "low", "close", "volume", "updated_at"}),
	}).Create(price).Error
}

// CreateManySkipDuplicates inserts prices in batches inside one transaction,
// ignoring rows whose natural key already exists, and returns how many rows
// were inserted. On error nothing is inserted.
func (r *stockPriceRepository) CreateManySkipDuplicates(ctx context.Context, prices []entity.StockPrice) (int64, error) {
	if len(prices) == 0 {
		return 0, nil
	}

	var inserted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{
			Columns:   priceNaturalKey,
			DoNothing: true,
		}).CreateInBatches(prices, priceBatchSize)
		if res.Error != nil {
			return res.Error
		}
		inserted = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("bulk insert prices: %w", err)
	}
	return inserted, nil
}

// DeleteByDateRange deletes prices with start <= trade_date <= end. Nil
// bounds are open.
func (r *stockPriceRepository) DeleteByDateRange(ctx context.Context, stockID uint, start, end *time.Time) (int64, error) {
	q := r.db.WithContext(ctx).Where("stock_id = ?", stockID)
	if start != nil {
		q = q.Where("trade_date >= ?", entity.NewTradeDate(*start))
	}
	if end != nil {
		q = q.Where("trade_date <= ?", entity.NewTradeDate(*end))
	}

	res := q.Delete(&entity.StockPrice{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete prices: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// FindByStockID returns prices in ascending trade date order. A limit <= 0
// means no limit.
func (r *stockPriceRepository) FindByStockID(ctx context.Context, stockID uint, start, end *time.Time, limit int) ([]entity.StockPrice, error) {
	q := r.db.WithContext(ctx).Where("stock_id = ?", stockID)
	if start != nil {
		q = q.Where("trade_date >= ?", entity.NewTradeDate(*start))
	}
	if end != nil {
		q = q.Where("trade_date <= ?", entity.NewTradeDate(*end))
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var prices []entity.StockPrice
	if err := q.Order("trade_date ASC").Find(&prices).Error; err != nil {
		return nil, fmt.Errorf("failed to find prices: %w", err)
	}
	return prices, nil
}
