package models

import "github.com/shopspring/decimal"

// RealizedPL is the outcome of replaying the full transaction log with FIFO
// lot matching: profit recognized on shares actually sold.
type RealizedPL struct {
	Amount             decimal.Decimal `json:"amount"`
	Percentage         decimal.Decimal `json:"percentage"` // vs sold cost basis, 0 when nothing sold
	TotalSoldValue     decimal.Decimal `json:"total_sold_value"`
	TotalSoldCostBasis decimal.Decimal `json:"total_sold_cost_basis"`
}

// UnrealizedPL is the paper gain/loss on open holdings, valued at current
// prices against weighted-average cost.
type UnrealizedPL struct {
	CostBasis    decimal.Decimal `json:"cost_basis"`
	CurrentValue decimal.Decimal `json:"current_value"`
	Amount       decimal.Decimal `json:"amount"`
	Percentage   decimal.Decimal `json:"percentage"` // vs cost basis, 0 when no holdings
}

// Dashboard aggregates account-wide metrics for the overview screen.
type Dashboard struct {
	Portfolios []PortfolioSummary `json:"portfolios"`
	TotalValue decimal.Decimal    `json:"total_value"`

	// Unrealized P&L (weighted-average cost model)
	UnrealizedProfitLoss decimal.Decimal `json:"total_profit_loss"`
	UnrealizedPLPct      decimal.Decimal `json:"profit_loss_percentage"`
	TotalCostBasis       decimal.Decimal `json:"total_cost_basis"`

	// Realized P&L (FIFO model)
	RealizedProfitLoss decimal.Decimal `json:"realized_profit_loss"`
	RealizedPLPct      decimal.Decimal `json:"realized_pl_percentage"`

	// Combined
	TotalPLAmount decimal.Decimal `json:"total_pl_amount"`
	TotalPLPct    decimal.Decimal `json:"total_pl_percentage"`

	AccountBalance     decimal.Decimal `json:"account_balance"`
	TotalInvested      decimal.Decimal `json:"total_invested"` // open cost basis + sold cost basis
	TotalHoldings      int             `json:"total_holdings"`
	RecentTransactions []Transaction   `json:"recent_transactions"`
}
