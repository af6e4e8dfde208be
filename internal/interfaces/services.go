// Package interfaces defines service contracts for Paperfolio
package interfaces

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/mbeckett/paperfolio/internal/models"
)

// TradeService executes validated buy and sell orders against the ledger.
// A trade either fully commits (transaction, holding, balance, snapshot) or is
// rejected before any mutation.
type TradeService interface {
	// Buy purchases quantity shares of symbol for a portfolio at price.
	Buy(ctx context.Context, portfolioID, symbol string, quantity int64, price decimal.Decimal) (*models.TradeResult, error)

	// Sell disposes quantity shares of symbol from a portfolio at price.
	Sell(ctx context.Context, portfolioID, symbol string, quantity int64, price decimal.Decimal) (*models.TradeResult, error)
}

// PnLService computes profit/loss read-models over the transaction log and
// holdings. Realized and unrealized deliberately use different cost-basis
// conventions: FIFO lots for what was sold, weighted-average for what is held.
type PnLService interface {
	// RealizedPL replays the full transaction log with FIFO lot matching.
	RealizedPL(ctx context.Context) (*models.RealizedPL, error)

	// UnrealizedPL aggregates open holdings at current prices.
	// portfolioID narrows to one portfolio when non-empty.
	UnrealizedPL(ctx context.Context, portfolioID string) (*models.UnrealizedPL, error)

	// Dashboard combines portfolio summaries with both P&L models.
	Dashboard(ctx context.Context) (*models.Dashboard, error)
}

// NetWorthService records and serves the net-worth history.
type NetWorthService interface {
	// Snapshot appends one history row: cash balance plus the market value of
	// all holdings at current prices.
	Snapshot(ctx context.Context) (*models.NetWorthSnapshot, error)

	// History returns up to limit snapshots in chronological order.
	History(ctx context.Context, limit int) ([]*models.NetWorthSnapshot, error)

	// RenderChart renders the history as a PNG time-series chart.
	RenderChart(ctx context.Context, limit int) ([]byte, error)
}

// MarketService is the price catalog and stock registry.
type MarketService interface {
	// CurrentPrice resolves a symbol to its latest catalog price.
	CurrentPrice(ctx context.Context, symbol string) (decimal.Decimal, error)

	// GetStock retrieves one stock by symbol.
	GetStock(ctx context.Context, symbol string) (*models.Stock, error)

	// StockDetail retrieves a stock with its cross-portfolio positions and
	// recent transactions.
	StockDetail(ctx context.Context, symbol string) (*models.StockDetail, error)

	// ListStocks returns all stocks with cross-portfolio holding aggregates.
	ListStocks(ctx context.Context) ([]*models.StockSummary, error)

	// PriceMap returns symbol to current price for every registered stock.
	PriceMap(ctx context.Context) (map[string]decimal.Decimal, error)

	// RegisterStock adds or replaces a stock in the catalog.
	RegisterStock(ctx context.Context, stock *models.Stock) error

	// UpdatePrice ingests an externally-resolved price for a symbol.
	UpdatePrice(ctx context.Context, symbol string, price decimal.Decimal) error

	// RefreshPrices pulls the quote source for every registered symbol.
	RefreshPrices(ctx context.Context) error

	// Watchlist returns watchlisted stocks with holding aggregates.
	Watchlist(ctx context.Context) ([]*models.WatchlistEntry, error)

	// SetWatchlist flags or unflags a symbol on the watchlist.
	SetWatchlist(ctx context.Context, symbol string, watchlist bool) error
}

// PortfolioService manages the portfolio registry and its aggregate views.
type PortfolioService interface {
	// CreatePortfolio creates a portfolio with a unique name.
	CreatePortfolio(ctx context.Context, name, description string) (*models.Portfolio, error)

	// GetPortfolio returns one portfolio with priced holdings and recent transactions.
	GetPortfolio(ctx context.Context, id string) (*models.PortfolioDetail, error)

	// ListPortfolios returns all portfolios with holding counts and total value.
	ListPortfolios(ctx context.Context) ([]*models.PortfolioSummary, error)

	// DeletePortfolio removes a portfolio and cascades to its holdings.
	// Transactions referencing the portfolio are retained as history.
	DeletePortfolio(ctx context.Context, id string) error

	// PortfolioValue returns the market value of one portfolio's holdings.
	PortfolioValue(ctx context.Context, id string) (decimal.Decimal, error)
}
