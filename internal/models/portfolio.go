package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Portfolio groups holdings under a user-chosen name. Names are unique.
// Deleting a portfolio cascades to its holdings; its transactions are retained
// as history (the transaction log is the system of record).
type Portfolio struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// PortfolioSummary is a portfolio with aggregate holding counts and value.
type PortfolioSummary struct {
	Portfolio
	HoldingsCount int             `json:"holdings_count"`
	TotalValue    decimal.Decimal `json:"total_value"`
}

// PortfolioDetail is a portfolio with priced positions and recent activity.
type PortfolioDetail struct {
	Portfolio    Portfolio       `json:"portfolio"`
	Holdings     []PricedHolding `json:"holdings"`
	Transactions []Transaction   `json:"transactions"`
}

// PricedHolding joins a holding with the stock's current price.
type PricedHolding struct {
	Symbol       string          `json:"symbol"`
	Name         string          `json:"name"`
	Quantity     int64           `json:"quantity"`
	AvgBuyPrice  decimal.Decimal `json:"avg_buy_price"`
	CurrentPrice decimal.Decimal `json:"current_price"`
	CurrentValue decimal.Decimal `json:"current_value"`
	ProfitLoss   decimal.Decimal `json:"profit_loss"` // quantity * (current price - avg buy price)
}
