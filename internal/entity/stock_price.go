package entity

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// StockPrice is one daily OHLCV bar. (StockID, TradeDate) is unique.
type StockPrice struct {
	ID        uint64          `gorm:"primaryKey" json:"id"`
	StockID   uint            `gorm:"not null;uniqueIndex:uq_stock_prices_stock_trade_date,priority:1" json:"stock_id"`
	TradeDate datatypes.Date  `gorm:"type:date;not null;uniqueIndex:uq_stock_prices_stock_trade_date,priority:2" json:"trade_date"`
	Open      decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"open"`
	High      decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"high"`
	Low       decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"low"`
	Close     decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"close"`
	Volume    int64           `gorm:"not null" json:"volume"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for the StockPrice model.
func (StockPrice) TableName() string {
	return "stock_prices"
}

// TradeDay returns the trade date as a time.Time at midnight UTC.
func (p StockPrice) TradeDay() time.Time {
	return time.Time(p.TradeDate)
}

// NewTradeDate normalizes t to a UTC calendar date so every writer and
// reader of the column agrees on the stored value.
func NewTradeDate(t time.Time) datatypes.Date {
	y, m, d := t.Date()
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}
