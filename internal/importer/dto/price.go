package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateRangeQuery holds the optional YYYY-MM-DD bounds and limit of list and
// delete endpoints.
type DateRangeQuery struct {
	StartDate string `query:"startDate"`
	EndDate   string `query:"endDate"`
	Limit     int    `query:"limit" validate:"gte=0,lte=10000"`
}

// PriceResponse is one daily price.
type PriceResponse struct {
	ID        uint64          `json:"id"`
	StockID   uint            `json:"stock_id"`
	TradeDate string          `json:"trade_date"`
	Open      decimal.Decimal `json:"open"`
	High      decimal.Decimal `json:"high"`
	Low       decimal.Decimal `json:"low"`
	Close     decimal.Decimal `json:"close"`
	Volume    int64           `json:"volume"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// DeleteResponse reports how many rows a delete removed.
type DeleteResponse struct {
	StockCode    string `json:"stock_code"`
	DeletedCount int64  `json:"deleted_count"`
}
