package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// NewsResponse is one news item.
type NewsResponse struct {
	ID             uint64           `json:"id"`
	StockID        uint             `json:"stock_id"`
	PublishedAt    time.Time        `json:"published_at"`
	Title          string           `json:"title"`
	Summary        *string          `json:"summary"`
	URL            *string          `json:"url"`
	Source         *string          `json:"source"`
	Sentiment      string           `json:"sentiment"`
	SentimentScore *decimal.Decimal `json:"sentiment_score"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// NewsKey identifies a news item by its natural key within a stock.
type NewsKey struct {
	PublishedAt string `json:"published_at" validate:"required"`
	Title       string `json:"title" validate:"required,max=255"`
}

// CheckDuplicatesRequest is the body of POST /news/check-duplicates.
type CheckDuplicatesRequest struct {
	News []NewsKey `json:"news" validate:"required,min=1,max=1000,dive"`
}

// DuplicateNews is a requested key that is already stored.
type DuplicateNews struct {
	PublishedAt    string `json:"published_at"`
	Title          string `json:"title"`
	ExistingNewsID uint64 `json:"existing_news_id"`
}

// CheckDuplicatesResponse lists the requested keys that already exist.
type CheckDuplicatesResponse struct {
	StockCode      string          `json:"stock_code"`
	TotalNews      int             `json:"total_news"`
	DuplicateCount int             `json:"duplicate_count"`
	Duplicates     []DuplicateNews `json:"duplicates"`
}
