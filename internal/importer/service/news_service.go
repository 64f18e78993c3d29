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

// NewsService defines the interface for news items.
type NewsService interface {
	ImportFromCSV(ctx context.Context, code, text string, opts pipeline.Options) (*pipeline.Result, error)
	GetNews(ctx context.Context, code string, query dto.DateRangeQuery) ([]dto.NewsResponse, error)
	DeleteByDateRange(ctx context.Context, code, startDate, endDate string) (*dto.DeleteResponse, error)
	CheckDuplicates(ctx context.Context, code string, req *dto.CheckDuplicatesRequest) (*dto.CheckDuplicatesResponse, error)
}

// NewNewsService creates a new news service.
func NewNewsService(
	stockRepo repository.StockRepository,
	newsRepo repository.NewsRepository,
	eventRepo repository.ImportEventRepository,
	importMetrics *metrics.ImportMetrics,
	settings pipeline.Settings,
	logger *logger.Logger,
) NewsService {
	settings.Logger = logger
	if settings.Location == nil {
		settings.Location = time.UTC
	}
	return &newsService{
		stockRepo: stockRepo,
		newsRepo:  newsRepo,
		importer:  pipeline.NewImporter[pipeline.NewsRow](pipeline.NewNewsSchema(settings), stockRepo, newsRowStore{repo: newsRepo}, settings),
		recorder: &importRecorder{
			format:  "news",
			stream:  common.RedisStreamNewsImported,
			events:  eventRepo,
			metrics: importMetrics,
			logger:  logger,
		},
		loc:    settings.Location,
		logger: logger,
	}
}

type newsService struct {
	stockRepo repository.StockRepository
	newsRepo  repository.NewsRepository
	importer  *pipeline.Importer[pipeline.NewsRow]
	recorder  *importRecorder
	loc       *time.Location
	logger    *logger.Logger
}

// ImportFromCSV imports a news CSV. opts.DateFrom and opts.DateTo restrict
// the rows by their published day.
func (s *newsService) ImportFromCSV(ctx context.Context, code, text string, opts pipeline.Options) (*pipeline.Result, error) {
	code = NormalizeCode(code)
	started := time.Now()
	result, err := s.importer.ImportFromCSV(ctx, code, text, opts)
	s.recorder.record(ctx, code, started, result, err)
	return result, err
}

// GetNews returns news newest first. endDate includes the whole day.
func (s *newsService) GetNews(ctx context.Context, code string, query dto.DateRangeQuery) ([]dto.NewsResponse, error) {
	stock, from, before, err := s.resolve(ctx, code, query.StartDate, query.EndDate)
	if err != nil {
		return nil, err
	}

	items, err := s.newsRepo.FindByStockID(ctx, stock.ID, from, before, query.Limit)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.NewsResponse, 0, len(items))
	for i := range items {
		responses = append(responses, toNewsResponse(&items[i]))
	}
	return responses, nil
}

// DeleteByDateRange removes news published between startDate and the end
// of endDate. Empty bounds are open.
func (s *newsService) DeleteByDateRange(ctx context.Context, code, startDate, endDate string) (*dto.DeleteResponse, error) {
	stock, from, before, err := s.resolve(ctx, code, startDate, endDate)
	if err != nil {
		return nil, err
	}

	deleted, err := s.newsRepo.DeleteByPublishedRange(ctx, stock.ID, from, before)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to delete news", logger.ErrorField(err), logger.StringField("stock_code", stock.Code))
		return nil, err
	}

	s.logger.InfoContext(ctx, "News deleted", logger.StringField("stock_code", stock.Code), logger.Field("deleted_count", deleted))
	return &dto.DeleteResponse{StockCode: stock.Code, DeletedCount: deleted}, nil
}

// CheckDuplicates reports which (published at, title) keys already exist
// for the stock.
func (s *newsService) CheckDuplicates(ctx context.Context, code string, req *dto.CheckDuplicatesRequest) (*dto.CheckDuplicatesResponse, error) {
	stock, _, _, err := s.resolve(ctx, code, "", "")
	if err != nil {
		return nil, err
	}

	resp := &dto.CheckDuplicatesResponse{
		StockCode:  stock.Code,
		TotalNews:  len(req.News),
		Duplicates: []dto.DuplicateNews{},
	}
	for _, key := range req.News {
		publishedAt, err := pipeline.ParsePublishedAt(key.PublishedAt, s.loc)
		if err != nil {
			return nil, &pipeline.OptionError{Option: "published_at", Value: key.PublishedAt, Reason: "unrecognised date-time"}
		}

		existing, err := s.newsRepo.FindByKey(ctx, stock.ID, publishedAt, key.Title)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			resp.Duplicates = append(resp.Duplicates, dto.DuplicateNews{
				PublishedAt:    key.PublishedAt,
				Title:          key.Title,
				ExistingNewsID: existing.ID,
			})
		}
	}
	resp.DuplicateCount = len(resp.Duplicates)
	return resp, nil
}

func (s *newsService) resolve(ctx context.Context, code, startDate, endDate string) (*entity.Stock, *time.Time, *time.Time, error) {
	from, err := parseQueryDate("startDate", startDate, s.loc)
	if err != nil {
		return nil, nil, nil, err
	}
	to, err := parseQueryDate("endDate", endDate, s.loc)
	if err != nil {
		return nil, nil, nil, err
	}
	var before *time.Time
	if to != nil {
		b := utils.EndOfDayExclusive(*to)
		before = &b
	}

	code = NormalizeCode(code)
	stock, err := s.stockRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, nil, nil, err
	}
	if stock == nil {
		return nil, nil, nil, &pipeline.EntityNotFoundError{Code: code}
	}
	return stock, from, before, nil
}

func toNewsResponse(news *entity.News) dto.NewsResponse {
	resp := dto.NewsResponse{
		ID:          news.ID,
		StockID:     news.StockID,
		PublishedAt: news.PublishedAt,
		Title:       news.Title,
		Summary:     news.Summary,
		URL:         news.URL,
		Source:      news.Source,
		Sentiment:   string(news.Sentiment),
		CreatedAt:   news.CreatedAt,
		UpdatedAt:   news.UpdatedAt,
	}
	if news.SentimentScore.Valid {
		score := news.SentimentScore.Decimal
		resp.SentimentScore = &score
	}
	return resp
}
