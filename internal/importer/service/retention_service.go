package service

import (
	"context"
	"fmt"
	"time"

	"golang-stock-importer/internal/importer/repository"
	"golang-stock-importer/pkg/logger"
	"golang-stock-importer/pkg/utils"

	"github.com/robfig/cron/v3"
)

// RetentionService periodically deletes news older than a maximum age.
type RetentionService interface {
	Start() error
	Stop()
	Purge(ctx context.Context) (int64, error)
}

// NewRetentionService creates a retention job that runs on the standard
// five-field cron expression schedule, evaluated in loc.
func NewRetentionService(
	stockRepo repository.StockRepository,
	newsRepo repository.NewsRepository,
	schedule string,
	maxAgeDays int,
	loc *time.Location,
	logger *logger.Logger,
) RetentionService {
	return &retentionService{
		stockRepo:  stockRepo,
		newsRepo:   newsRepo,
		schedule:   schedule,
		maxAgeDays: maxAgeDays,
		loc:        loc,
		now:        time.Now,
		cron:       cron.New(cron.WithLocation(loc)),
		logger:     logger,
	}
}

type retentionService struct {
	stockRepo  repository.StockRepository
	newsRepo   repository.NewsRepository
	schedule   string
	maxAgeDays int
	loc        *time.Location
	now        func() time.Time
	cron       *cron.Cron
	logger     *logger.Logger
}

// Start registers the purge job and starts the cron scheduler.
func (s *retentionService) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		if _, err := s.Purge(context.Background()); err != nil {
			s.logger.Error("News retention run failed", logger.ErrorField(err))
		}
	})
	if err != nil {
		return fmt.Errorf("invalid retention cron expression %q: %w", s.schedule, err)
	}

	s.cron.Start()
	s.logger.Info("News retention scheduled",
		logger.StringField("cron", s.schedule), logger.IntField("max_age_days", s.maxAgeDays))
	return nil
}

// Stop waits for a running purge to finish.
func (s *retentionService) Stop() {
	<-s.cron.Stop().Done()
}

// Purge deletes, for every stock, news published before midnight of the day
// maxAgeDays ago.
func (s *retentionService) Purge(ctx context.Context) (int64, error) {
	cutoff := utils.StartOfDay(s.now().In(s.loc)).AddDate(0, 0, -s.maxAgeDays)

	stocks, err := s.stockRepo.FindAll(ctx)
	if err != nil {
		return 0, err
	}

	var total int64
	for _, stock := range stocks {
		deleted, err := s.newsRepo.DeleteByPublishedRange(ctx, stock.ID, nil, &cutoff)
		if err != nil {
			return total, fmt.Errorf("failed to purge news for %s: %w", stock.Code, err)
		}
		total += deleted
	}

	s.logger.Info("News retention finished",
		logger.Field("deleted_count", total), logger.StringField("cutoff", cutoff.Format(time.RFC3339)))
	return total, nil
}
