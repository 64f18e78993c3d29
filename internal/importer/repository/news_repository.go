package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang-stock-importer/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NewsRepository defines the interface for news items.
type NewsRepository interface {
	// FindByKey returns nil, nil when no news item has the natural key.
	FindByKey(ctx context.Context, stockID uint, publishedAt time.Time, title string) (*entity.News, error)
	Create(ctx context.Context, news *entity.News) error
	Upsert(ctx context.Context, news *entity.News) error
	DeleteByPublishedRange(ctx context.Context, stockID uint, from, before *time.Time) (int64, error)
	FindByStockID(ctx context.Context, stockID uint, from, before *time.Time, limit int) ([]entity.News, error)
}

// NewNewsRepository creates a new GORM-based news repository.
func NewNewsRepository(db *gorm.DB) NewsRepository {
	return &newsRepository{db: db}
}

type newsRepository struct {
	db *gorm.DB
}

func (r *newsRepository) FindByKey(ctx context.Context, stockID uint, publishedAt time.Time, title string) (*entity.News, error) {
	var news entity.News
	err := r.db.WithContext(ctx).
		Where("stock_id = ? AND published_at = ? AND title = ?", stockID, publishedAt.UTC(), title).
		First(&news).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find news: %w", err)
	}
	return &news, nil
}

func (r *newsRepository) Create(ctx context.Context, news *entity.News) error {
	news.PublishedAt = news.PublishedAt.UTC()
	return r.db.WithContext(ctx).Create(news).Error
}

// Upsert inserts the news item or refreshes the descriptive fields of the
// row with the same stock, published at and title.
func (r *newsRepository) Upsert(ctx context.Context, news *entity.News) error {
	news.PublishedAt = news.PublishedAt.UTC()
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "stock_id"}, {Name: "published_at"}, {Name: "title"}},
		DoUpdates: clause.AssignmentColumns([]string{"summary", "url", "source", "sentiment", "sentiment_score", "updated_at"}),
	}).Create(news).Error
}

// DeleteByPublishedRange deletes news with from <= published_at < before.
// Nil bounds are open.
func (r *newsRepository) DeleteByPublishedRange(ctx context.Context, stockID uint, from, before *time.Time) (int64, error) {
	res := r.scope(ctx, stockID, from, before).Delete(&entity.News{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete news: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// FindByStockID returns news newest first. A limit <= 0 means no limit.
func (r *newsRepository) FindByStockID(ctx context.Context, stockID uint, from, before *time.Time, limit int) ([]entity.News, error) {
	q := r.scope(ctx, stockID, from, before).Order("published_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var news []entity.News
	if err := q.Find(&news).Error; err != nil {
		return nil, fmt.Errorf("failed to find news: %w", err)
	}
	return news, nil
}

func (r *newsRepository) scope(ctx context.Context, stockID uint, from, before *time.Time) *gorm.DB {
	q := r.db.WithContext(ctx).Where("stock_id = ?", stockID)
	if from != nil {
		q = q.Where("published_at >= ?", from.UTC())
	}
	if before != nil {
		q = q.Where("published_at < ?", before.UTC())
	}
	return q
}
