package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// Valid reports whether s is one of the three known values.
func (s Sentiment) Valid() bool {
	switch s {
	case SentimentPositive, SentimentNegative, SentimentNeutral:
		return true
	}
	return false
}

// News is a news item attached to a stock. (StockID, PublishedAt, Title) is unique.
type News struct {
	ID             uint64              `gorm:"primaryKey" json:"id"`
	StockID        uint                `gorm:"not null;uniqueIndex:uq_news_stock_published_title,priority:1" json:"stock_id"`
	PublishedAt    time.Time           `gorm:"not null;uniqueIndex:uq_news_stock_published_title,priority:2" json:"published_at"`
	Title          string              `gorm:"type:varchar(255);not null;uniqueIndex:uq_news_stock_published_title,priority:3" json:"title"`
	Summary        *string             `gorm:"type:text" json:"summary,omitempty"`
	URL            *string             `gorm:"column:url;type:varchar(500)" json:"url,omitempty"`
	Source         *string             `gorm:"type:varchar(100)" json:"source,omitempty"`
	Sentiment      Sentiment           `gorm:"type:varchar(10);not null;default:neutral" json:"sentiment"`
	SentimentScore decimal.NullDecimal `gorm:"type:numeric(3,2)" json:"sentiment_score"`
	CreatedAt      time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for the News model.
func (News) TableName() string {
	return "news"
}
