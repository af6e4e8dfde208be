// Package interfaces defines service contracts for Paperfolio
package interfaces

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mbeckett/paperfolio/internal/models"
)

// StorageManager coordinates access to the ledger database. The four ledger
// tables (transactions, holdings, balance, net-worth history) plus the stock
// and portfolio registries live behind it; services never touch the database
// driver directly.
type StorageManager interface {
	StockStore() StockStore
	PortfolioStore() PortfolioStore
	HoldingStore() HoldingStore
	TransactionStore() TransactionStore
	BalanceStore() BalanceStore
	NetWorthStore() NetWorthStore

	// LedgerLock is the lock serializing ledger mutations. Every writer that
	// validates before writing (trades, portfolio cascades) must hold it from
	// its first read to its last write.
	LedgerLock() sync.Locker

	Close() error
}

// StockStore manages the stock registry, keyed by symbol.
type StockStore interface {
	GetStock(ctx context.Context, symbol string) (*models.Stock, error)
	SaveStock(ctx context.Context, stock *models.Stock) error
	ListStocks(ctx context.Context) ([]*models.Stock, error)
	UpdatePrice(ctx context.Context, symbol string, price decimal.Decimal, at time.Time) error
	SetWatchlist(ctx context.Context, symbol string, watchlist bool) error
}

// PortfolioStore manages portfolios, keyed by id with unique names.
type PortfolioStore interface {
	GetPortfolio(ctx context.Context, id string) (*models.Portfolio, error)
	GetPortfolioByName(ctx context.Context, name string) (*models.Portfolio, error)
	SavePortfolio(ctx context.Context, p *models.Portfolio) error
	ListPortfolios(ctx context.Context) ([]*models.Portfolio, error)
	DeletePortfolio(ctx context.Context, id string) error
}

// HoldingStore manages the mutable holdings aggregate. One row per
// (portfolio, symbol); deleting is how a position reaches zero.
type HoldingStore interface {
	GetHolding(ctx context.Context, portfolioID, symbol string) (*models.Holding, error)
	SaveHolding(ctx context.Context, h *models.Holding) error
	DeleteHolding(ctx context.Context, portfolioID, symbol string) error
	ListHoldings(ctx context.Context, portfolioID string) ([]*models.Holding, error)
	ListAllHoldings(ctx context.Context) ([]*models.Holding, error)
	ListHoldingsBySymbol(ctx context.Context, symbol string) ([]*models.Holding, error)
	DeleteByPortfolio(ctx context.Context, portfolioID string) (int, error)
}

// TransactionStore is the append-only transaction log that the realized P&L
// engine replays. Append assigns the log sequence number.
type TransactionStore interface {
	Append(ctx context.Context, tx *models.Transaction) error
	ListAll(ctx context.Context) ([]*models.Transaction, error)
	ListRecent(ctx context.Context, limit int) ([]*models.Transaction, error)
	ListByPortfolio(ctx context.Context, portfolioID string, limit int) ([]*models.Transaction, error)
	ListBySymbol(ctx context.Context, symbol string, limit int) ([]*models.Transaction, error)
}

// BalanceStore manages the single cash register.
type BalanceStore interface {
	GetBalance(ctx context.Context) (*models.AccountBalance, error)
	SetBalance(ctx context.Context, balance decimal.Decimal, at time.Time) error
}

// NetWorthStore manages the append-only net-worth history. One row is
// recorded per executed trade.
type NetWorthStore interface {
	AppendSnapshot(ctx context.Context, snap *models.NetWorthSnapshot) error
	ListRecentSnapshots(ctx context.Context, limit int) ([]*models.NetWorthSnapshot, error)
}
