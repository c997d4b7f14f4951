package oracle

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is a single current price for a security identifier.
type Quote struct {
	Symbol   string
	Price    decimal.Decimal
	Currency string
	AsOf     time.Time
}

// quoteResponse mirrors the JSON shape of the quote API.
type quoteResponse struct {
	Symbol    string          `json:"symbol"`
	Price     decimal.Decimal `json:"price"`
	Currency  string          `json:"currency"`
	Timestamp int64           `json:"timestamp"`
	Error     *string         `json:"error,omitempty"`
}
