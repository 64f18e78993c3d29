package service

import (
	"context"
	"time"

	"golang-stock-importer/internal/entity"
	"golang-stock-importer/internal/importer/dto"
	"golang-stock-importer/internal/importer/metrics"
	"golang-stock-importer/internal/importer/pipeline"
	"golang-stock-importer/internal/importer/repository"
	"golang-stock-importer/pkg/common"
	"golang-stock-importer/pkg/logger"
	"golang-stock-importer/pkg/utils"
)

// StockPriceService defines the interface for daily price data.
type StockPriceService interface {
	ImportFromCSV(ctx context.Context, code, text string, strategy pipeline.DuplicateStrategy) (*pipeline.Result, error)
	GetPrices(ctx context.Context, code string, query dto.DateRangeQuery) ([]dto.PriceResponse, error)
	DeleteByDateRange(ctx context.Context, code, startDate, endDate string) (*dto.DeleteResponse, error)
}

// NewStockPriceService creates a new price service.
func NewStockPriceService(
	stockRepo repository.StockRepository,
	priceRepo repository.StockPriceRepository,
	eventRepo repository.ImportEventRepository,
	importMetrics *metrics.ImportMetrics,
	settings pipeline.Settings,
	logger *logger.Logger,
) StockPriceService {
	settings.Logger = logger
	if settings.Location == nil {
		settings.Location = time.UTC
	}
	return &stockPriceService{
		stockRepo: stockRepo,
		priceRepo: priceRepo,
		importer:  pipeline.NewImporter[pipeline.PriceRow](pipeline.NewPriceSchema(settings), stockRepo, priceRowStore{repo: priceRepo}, settings),
		recorder: &importRecorder{
			format:  "price",
			stream:  common.RedisStreamPriceImported,
			events:  eventRepo,
			metrics: importMetrics,
			logger:  logger,
		},
		loc:    settings.Location,
		logger: logger,
	}
}

type stockPriceService struct {
	stockRepo repository.StockRepository
	priceRepo repository.StockPriceRepository
	importer  *pipeline.Importer[pipeline.PriceRow]
	recorder  *importRecorder
	loc       *time.Location
	logger    *logger.Logger
}

// ImportFromCSV imports a price CSV for the stock identified by code.
func (s *stockPriceService) ImportFromCSV(ctx context.Context, code, text string, strategy pipeline.DuplicateStrategy) (*pipeline.Result, error) {
	code = NormalizeCode(code)
	started := time.Now()
	result, err := s.importer.ImportFromCSV(ctx, code, text, pipeline.Options{DuplicateStrategy: strategy})
	s.recorder.record(ctx, code, started, result, err)
	return result, err
}

// GetPrices returns prices in ascending trade date order. Both bounds are
// inclusive.
func (s *stockPriceService) GetPrices(ctx context.Context, code string, query dto.DateRangeQuery) ([]dto.PriceResponse, error) {
	stock, start, end, err := s.resolve(ctx, code, query.StartDate, query.EndDate)
	if err != nil {
		return nil, err
	}

	prices, err := s.priceRepo.FindByStockID(ctx, stock.ID, start, end, query.Limit)
	if err != nil {
		return nil, err
	}
	if len(prices) == 0 {
		return nil, ErrNoData
	}

	responses := make([]dto.PriceResponse, 0, len(prices))
	for _, p := range prices {
		responses = append(responses, dto.PriceResponse{
			ID:        p.ID,
			StockID:   p.StockID,
			TradeDate: p.TradeDay().Format(utils.DateLayout),
			Open:      p.Open,
			High:      p.High,
			Low:       p.Low,
			Close:     p.Close,
			Volume:    p.Volume,
			CreatedAt: p.CreatedAt,
			UpdatedAt: p.UpdatedAt,
		})
	}
	return responses, nil
}

// DeleteByDateRange removes prices with startDate <= trade date <= endDate.
// Empty bounds are open.
func (s *stockPriceService) DeleteByDateRange(ctx context.Context, code, startDate, endDate string) (*dto.DeleteResponse, error) {
	stock, start, end, err := s.resolve(ctx, code, startDate, endDate)
	if err != nil {
		return nil, err
	}

	deleted, err := s.priceRepo.DeleteByDateRange(ctx, stock.ID, start, end)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to delete prices", logger.ErrorField(err), logger.StringField("stock_code", stock.Code))
		return nil, err
	}

	s.logger.InfoContext(ctx, "Prices deleted", logger.StringField("stock_code", stock.Code), logger.Field("deleted_count", deleted))
	return &dto.DeleteResponse{StockCode: stock.Code, DeletedCount: deleted}, nil
}

func (s *stockPriceService) resolve(ctx context.Context, code, startDate, endDate string) (*entity.Stock, *time.Time, *time.Time, error) {
	start, err := parseQueryDate("startDate", startDate, s.loc)
	if err != nil {
		return nil, nil, nil, err
	}
	end, err := parseQueryDate("endDate", endDate, s.loc)
	if err != nil {
		return nil, nil, nil, err
	}

	code = NormalizeCode(code)
	stock, err := s.stockRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, nil, nil, err
	}
	if stock == nil {
		return nil, nil, nil, &pipeline.EntityNotFoundError{Code: code}
	}
	return stock, start, end, nil
}
