package service

import (
	"context"
	"fmt"
	"strings"

	"golang-stock-importer/internal/entity"
	"golang-stock-importer/internal/importer/dto"
	"golang-stock-importer/internal/importer/pipeline"
	"golang-stock-importer/internal/importer/repository"
	"golang-stock-importer/pkg/logger"
)

// StockService defines the interface for managing stock master data.
type StockService interface {
	List(ctx context.Context) ([]dto.StockResponse, error)
	GetByID(ctx context.Context, id uint) (*dto.StockResponse, error)
	GetByCode(ctx context.Context, code string) (*dto.StockResponse, error)
	Create(ctx context.Context, req *dto.CreateStockRequest) (*dto.StockResponse, error)
}

// NewStockService creates a new stock service.
func NewStockService(stockRepo repository.StockRepository, logger *logger.Logger) StockService {
	return &stockService{
		stockRepo: stockRepo,
		logger:    logger,
	}
}

type stockService struct {
	stockRepo repository.StockRepository
	logger    *logger.Logger
}

// List returns every stock ordered by code.
func (s *stockService) List(ctx context.Context) ([]dto.StockResponse, error) {
	stocks, err := s.stockRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.StockResponse, 0, len(stocks))
	for i := range stocks {
		responses = append(responses, toStockResponse(&stocks[i]))
	}
	return responses, nil
}

func (s *stockService) GetByID(ctx context.Context, id uint) (*dto.StockResponse, error) {
	stock, err := s.stockRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if stock == nil {
		return nil, ErrStockNotFound
	}
	resp := toStockResponse(stock)
	return &resp, nil
}

func (s *stockService) GetByCode(ctx context.Context, code string) (*dto.StockResponse, error) {
	code = NormalizeCode(code)
	stock, err := s.stockRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if stock == nil {
		return nil, &pipeline.EntityNotFoundError{Code: code}
	}
	resp := toStockResponse(stock)
	return &resp, nil
}

// Create registers a new stock. Codes are stored upper-cased.
func (s *stockService) Create(ctx context.Context, req *dto.CreateStockRequest) (*dto.StockResponse, error) {
	stock := &entity.Stock{
		Code: NormalizeCode(req.Code),
		Name: strings.TrimSpace(req.Name),
	}

	existing, err := s.stockRepo.FindByCode(ctx, stock.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s", ErrStockCodeDuplicate, stock.Code)
	}

	if err := s.stockRepo.Create(ctx, stock); err != nil {
		s.logger.ErrorContext(ctx, "Failed to create stock", logger.ErrorField(err), logger.StringField("stock_code", stock.Code))
		return nil, err
	}

	s.logger.InfoContext(ctx, "Stock created", logger.StringField("stock_code", stock.Code), logger.Field("stock_id", stock.ID))
	resp := toStockResponse(stock)
	return &resp, nil
}

func toStockResponse(stock *entity.Stock) dto.StockResponse {
	return dto.StockResponse{
		ID:        stock.ID,
		Code:      stock.Code,
		Name:      stock.Name,
		CreatedAt: stock.CreatedAt,
		UpdatedAt: stock.UpdatedAt,
	}
}
