package repository

import (
	"context"
	"errors"
	"fmt"

	"golang-stock-importer/internal/entity"

	"gorm.io/gorm"
)

// StockRepository defines the interface for stock master data.
type StockRepository interface {
	FindAll(ctx context.Context) ([]entity.Stock, error)
	// FindByID and FindByCode return nil, nil when no stock matches.
	FindByID(ctx context.Context, id uint) (*entity.Stock, error)
	FindByCode(ctx context.Context, code string) (*entity.Stock, error)
	Create(ctx context.Context, stock *entity.Stock) error
}

// NewStockRepository creates a new GORM-based stock repository.
func NewStockRepository(db *gorm.DB) StockRepository {
	return &stockRepository{db: db}
}

type stockRepository struct {
	db *gorm.DB
}

// FindAll returns every stock ordered by code.
func (r *stockRepository) FindAll(ctx context.Context) ([]entity.Stock, error) {
	var stocks []entity.Stock
	if err := r.db.WithContext(ctx).Order("code ASC").Find(&stocks).Error; err != nil {
		return nil, fmt.Errorf("failed to list stocks: %w", err)
	}
	return stocks, nil
}

func (r *stockRepository) FindByID(ctx context.Context, id uint) (*entity.Stock, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *stockRepository) FindByCode(ctx context.Context, code string) (*entity.Stock, error) {
	return r.first(ctx, "code = ?", code)
}

func (r *stockRepository) first(ctx context.Context, query string, arg interface{}) (*entity.Stock, error) {
	var stock entity.Stock
	err := r.db.WithContext(ctx).Where(query, arg).First(&stock).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find stock: %w", err)
	}
	return &stock, nil
}

// Create inserts a new stock. A duplicate code surfaces as gorm.ErrDuplicatedKey.
func (r *stockRepository) Create(ctx context.Context, stock *entity.Stock) error {
	if err := r.db.WithContext(ctx).Create(stock).Error; err != nil {
		return fmt.Errorf("failed to create stock: %w", err)
	}
	return nil
}
