package service

import (
	"context"

	"golang-stock-importer/internal/entity"
	"golang-stock-importer/internal/importer/pipeline"
	"golang-stock-importer/internal/importer/repository"

	"github.com/shopspring/decimal"
)

// priceRowStore adapts StockPriceRepository to the pipeline's row store
// and bulk creator contracts.
type priceRowStore struct {
	repo repository.StockPriceRepository
}

func (s priceRowStore) Exists(ctx context.Context, stockID uint, row pipeline.PriceRow) (bool, error) {
	return s.repo.ExistsByDate(ctx, stockID, row.TradeDate)
}

func (s priceRowStore) Create(ctx context.Context, stockID uint, row pipeline.PriceRow) error {
	price := toStockPrice(stockID, row)
	return s.repo.Create(ctx, &price)
}

func (s priceRowStore) Upsert(ctx context.Context, stockID uint, row pipeline.PriceRow) error {
	price := toStockPrice(stockID, row)
	return s.repo.Upsert(ctx, &price)
}

func (s priceRowStore) CreateManySkipDuplicates(ctx context.Context, stockID uint, rows []pipeline.PriceRow) (int64, error) {
	prices := make([]entity.StockPrice, len(rows))
	for i, row := range rows {
		prices[i] = toStockPrice(stockID, row)
	}
	return s.repo.CreateManySkipDuplicates(ctx, prices)
}

func toStockPrice(stockID uint, row pipeline.PriceRow) entity.StockPrice {
	return entity.StockPrice{
		StockID:   stockID,
		TradeDate: entity.NewTradeDate(row.TradeDate),
		Open:      row.Open,
		High:      row.High,
		Low:       row.Low,
		Close:     row.Close,
		Volume:    row.Volume.IntPart(),
	}
}

// newsRowStore adapts NewsRepository. It has no bulk path.
type newsRowStore struct {
	repo repository.NewsRepository
}

func (s newsRowStore) Exists(ctx context.Context, stockID uint, row pipeline.NewsRow) (bool, error) {
	news, err := s.repo.FindByKey(ctx, stockID, row.PublishedAt, row.Title)
	return news != nil, err
}

func (s newsRowStore) Create(ctx context.Context, stockID uint, row pipeline.NewsRow) error {
	news := toNews(stockID, row)
	return s.repo.Create(ctx, &news)
}

func (s newsRowStore) Upsert(ctx context.Context, stockID uint, row pipeline.NewsRow) error {
	news := toNews(stockID, row)
	return s.repo.Upsert(ctx, &news)
}

func toNews(stockID uint, row pipeline.NewsRow) entity.News {
	news := entity.News{
		StockID:     stockID,
		PublishedAt: row.PublishedAt.UTC(),
		Title:       row.Title,
		Summary:     row.Summary,
		URL:         row.URL,
		Source:      row.Source,
		Sentiment:   row.Sentiment,
	}
	if row.SentimentScore != nil {
		news.SentimentScore = decimal.NewNullDecimal(*row.SentimentScore)
	}
	return news
}
