package dto

import "time"

// CreateStockRequest is the body of POST /stocks.
type CreateStockRequest struct {
	Code string `json:"code" validate:"required,alphanum,len=4"`
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// StockResponse is a stock as returned by the API.
type StockResponse struct {
	ID        uint      `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
