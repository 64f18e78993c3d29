package repository

import (
	"context"
	"time"

	"golang-stock-importer/internal/entity"
	"golang-stock-importer/pkg/common"

	"github.com/patrickmn/go-cache"
)

// NewCachedStockRepository puts an in-process read-through cache in front
// of code lookups. Only hits are cached so a stock created elsewhere becomes
// visible immediately.
func NewCachedStockRepository(inner StockRepository, ttl time.Duration) StockRepository {
	return &cachedStockRepository{
		StockRepository: inner,
		cache:           cache.New(ttl, 2*ttl),
	}
}

type cachedStockRepository struct {
	StockRepository
	cache *cache.Cache
}

func (r *cachedStockRepository) FindByCode(ctx context.Context, code string) (*entity.Stock, error) {
	key := common.CacheKeyStockByCode + code
	if cached, found := r.cache.Get(key); found {
		stock := cached.(entity.Stock)
		return &stock, nil
	}

	stock, err := r.StockRepository.FindByCode(ctx, code)
	if err != nil || stock == nil {
		return stock, err
	}
	r.cache.Set(key, *stock, cache.DefaultExpiration)
	return stock, nil
}

func (r *cachedStockRepository) Create(ctx context.Context, stock *entity.Stock) error {
	if err := r.StockRepository.Create(ctx, stock); err != nil {
		return err
	}
	r.cache.Set(common.CacheKeyStockByCode+stock.Code, *stock, cache.DefaultExpiration)
	return nil
}
