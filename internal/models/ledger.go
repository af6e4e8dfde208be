package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeSide is the direction of a transaction.
type TradeSide string

const (
	SideBuy  TradeSide = "BUY"
	SideSell TradeSide = "SELL"
)

// Valid reports whether the side is one of the two recognized values.
func (s TradeSide) Valid() bool {
	return s == SideBuy || s == SideSell
}

// Transaction is one immutable ledger entry. The transaction log is append-only
// and authoritative: holdings are a derived cache of it, never the other way
// around. Seq breaks timestamp ties in log order.
type Transaction struct {
	ID          string          `json:"id"`
	PortfolioID string          `json:"portfolio_id"`
	Symbol      string          `json:"symbol"`
	Side        TradeSide       `json:"type"`
	Quantity    int64           `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Timestamp   time.Time       `json:"timestamp"`
	Seq         int64           `json:"-"`
}

// Value returns quantity times price for this transaction.
func (t Transaction) Value() decimal.Decimal {
	return t.Price.Mul(decimal.NewFromInt(t.Quantity))
}

// Holding is the open position for one stock in one portfolio. At most one
// holding exists per (portfolio, stock); quantity is strictly positive; a
// position reduced to zero is deleted, not kept as a zero row. AvgBuyPrice is
// the quantity-weighted average of the buys backing the position: recomputed on
// every buy, untouched on partial sells.
type Holding struct {
	PortfolioID string          `json:"portfolio_id"`
	Symbol      string          `json:"symbol"`
	Quantity    int64           `json:"quantity"`
	AvgBuyPrice decimal.Decimal `json:"avg_buy_price"`
}

// CostBasis returns quantity times average buy price.
func (h Holding) CostBasis() decimal.Decimal {
	return h.AvgBuyPrice.Mul(decimal.NewFromInt(h.Quantity))
}

// AccountBalance is the single cash register backing all portfolios.
type AccountBalance struct {
	Balance   decimal.Decimal `json:"balance"`
	UpdatedAt time.Time       `json:"last_updated"`
}

// NetWorthSnapshot is one row of the net-worth history, appended after every
// executed trade. The history is a strict event log driven by trade frequency,
// never deduplicated by date.
type NetWorthSnapshot struct {
	ID             string          `json:"-"`
	Date           string          `json:"date"` // YYYY-MM-DD
	CashBalance    decimal.Decimal `json:"account_balance"`
	PortfolioValue decimal.Decimal `json:"portfolio_value"`
	TotalNetWorth  decimal.Decimal `json:"total_net_worth"`
	Timestamp      time.Time       `json:"timestamp"`
	Seq            int64           `json:"-"`
}

// TradeResult is returned by the trade executor on a committed buy or sell.
// Holding is nil when a sell closed the position.
type TradeResult struct {
	Transaction Transaction     `json:"transaction"`
	NewBalance  decimal.Decimal `json:"new_balance"`
	Holding     *Holding        `json:"holding,omitempty"`
}
