// Package models defines data structures for Paperfolio
package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Stock is a tradable instrument known to the catalog. Prices are refreshed
// externally; a stock is never deleted while holdings or transactions reference it.
type Stock struct {
	Symbol         string          `json:"symbol"` // uppercase, unique key
	Name           string          `json:"name"`
	CurrentPrice   decimal.Decimal `json:"current_price"`
	Watchlist      bool            `json:"watchlist"`
	PriceUpdatedAt time.Time       `json:"price_updated_at"`
}

// NormalizeSymbol canonicalizes a ticker symbol for catalog lookups.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// StockSummary is a stock with cross-portfolio holding aggregates.
type StockSummary struct {
	Stock
	TotalSharesHeld int64           `json:"total_shares_held"`
	TotalValueHeld  decimal.Decimal `json:"total_value_held"`
}

// StockHolding is one portfolio's position in a stock, priced for the detail
// view.
type StockHolding struct {
	PortfolioID   string          `json:"portfolio_id"`
	PortfolioName string          `json:"portfolio_name"`
	Quantity      int64           `json:"quantity"`
	AvgBuyPrice   decimal.Decimal `json:"avg_buy_price"`
	CurrentValue  decimal.Decimal `json:"current_value"`
	ProfitLoss    decimal.Decimal `json:"profit_loss"`
}

// StockDetail is a stock with its positions across every portfolio and its
// recent trading activity.
type StockDetail struct {
	Stock        Stock          `json:"stock"`
	Holdings     []StockHolding `json:"holdings"`
	Transactions []Transaction  `json:"transactions"`
}

// WatchlistEntry is a watchlisted stock with holding aggregates for P&L display.
type WatchlistEntry struct {
	Stock
	TotalSharesHeld int64           `json:"total_shares_held"`
	TotalValueHeld  decimal.Decimal `json:"total_value_held"`
	TotalCostBasis  decimal.Decimal `json:"total_cost_basis"`
}
