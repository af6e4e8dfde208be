// Package market is the price catalog and stock registry.
package market

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mbeckett/paperfolio/internal/common"
	"github.com/mbeckett/paperfolio/internal/interfaces"
	"github.com/mbeckett/paperfolio/internal/models"
)

// stockTransactionLimit caps the recent-activity window on the detail view.
const stockTransactionLimit = 20

// Service implements MarketService. Quotes may be nil, in which case prices
// only move through explicit UpdatePrice calls.
type Service struct {
	storage interfaces.StorageManager
	quotes  interfaces.QuoteClient
	logger  *common.Logger
}

// NewService creates a new market service.
func NewService(storage interfaces.StorageManager, quotes interfaces.QuoteClient, logger *common.Logger) *Service {
	return &Service{
		storage: storage,
		quotes:  quotes,
		logger:  logger,
	}
}

// CurrentPrice resolves a symbol to its latest catalog price.
func (s *Service) CurrentPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	stock, err := s.storage.StockStore().GetStock(ctx, models.NormalizeSymbol(symbol))
	if err != nil {
		return decimal.Zero, err
	}
	return stock.CurrentPrice, nil
}

// GetStock retrieves one stock by symbol.
func (s *Service) GetStock(ctx context.Context, symbol string) (*models.Stock, error) {
	return s.storage.StockStore().GetStock(ctx, models.NormalizeSymbol(symbol))
}

// StockDetail retrieves a stock with its positions across every portfolio and
// its recent transactions, newest first.
func (s *Service) StockDetail(ctx context.Context, symbol string) (*models.StockDetail, error) {
	symbol = models.NormalizeSymbol(symbol)
	stock, err := s.storage.StockStore().GetStock(ctx, symbol)
	if err != nil {
		return nil, err
	}

	holdings, err := s.storage.HoldingStore().ListHoldingsBySymbol(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to load holdings: %w", err)
	}
	positions := make([]models.StockHolding, 0, len(holdings))
	for _, h := range holdings {
		name := ""
		if p, err := s.storage.PortfolioStore().GetPortfolio(ctx, h.PortfolioID); err == nil {
			name = p.Name
		}
		positions = append(positions, models.StockHolding{
			PortfolioID:   h.PortfolioID,
			PortfolioName: name,
			Quantity:      h.Quantity,
			AvgBuyPrice:   h.AvgBuyPrice,
			CurrentValue:  stock.CurrentPrice.Mul(decimal.NewFromInt(h.Quantity)),
			ProfitLoss:    stock.CurrentPrice.Sub(h.AvgBuyPrice).Mul(decimal.NewFromInt(h.Quantity)),
		})
	}
	sort.Slice(positions, func(i, j int) bool {
		return positions[i].PortfolioName < positions[j].PortfolioName
	})

	txs, err := s.storage.TransactionStore().ListBySymbol(ctx, symbol, stockTransactionLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	transactions := make([]models.Transaction, 0, len(txs))
	for _, tx := range txs {
		transactions = append(transactions, *tx)
	}

	return &models.StockDetail{
		Stock:        *stock,
		Holdings:     positions,
		Transactions: transactions,
	}, nil
}

// ListStocks returns every registered stock with cross-portfolio holding
// aggregates.
func (s *Service) ListStocks(ctx context.Context) ([]*models.StockSummary, error) {
	stocks, err := s.storage.StockStore().ListStocks(ctx)
	if err != nil {
		return nil, err
	}
	shares, _, err := s.holdingAggregates(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]*models.StockSummary, 0, len(stocks))
	for _, stock := range stocks {
		held := shares[stock.Symbol]
		summaries = append(summaries, &models.StockSummary{
			Stock:           *stock,
			TotalSharesHeld: held,
			TotalValueHeld:  stock.CurrentPrice.Mul(decimal.NewFromInt(held)),
		})
	}
	return summaries, nil
}

// PriceMap returns the current price for every registered stock.
func (s *Service) PriceMap(ctx context.Context) (map[string]decimal.Decimal, error) {
	stocks, err := s.storage.StockStore().ListStocks(ctx)
	if err != nil {
		return nil, err
	}
	prices := make(map[string]decimal.Decimal, len(stocks))
	for _, stock := range stocks {
		prices[stock.Symbol] = stock.CurrentPrice
	}
	return prices, nil
}

// RegisterStock adds or replaces a stock in the catalog.
func (s *Service) RegisterStock(ctx context.Context, stock *models.Stock) error {
	stock.Symbol = models.NormalizeSymbol(stock.Symbol)
	if stock.Symbol == "" {
		return fmt.Errorf("symbol is required: %w", models.ErrInvalidInput)
	}
	if stock.Name == "" {
		return fmt.Errorf("name is required: %w", models.ErrInvalidInput)
	}
	if stock.CurrentPrice.IsNegative() {
		return fmt.Errorf("price must not be negative: %w", models.ErrInvalidInput)
	}
	if stock.PriceUpdatedAt.IsZero() {
		stock.PriceUpdatedAt = time.Now().UTC()
	}
	if err := s.storage.StockStore().SaveStock(ctx, stock); err != nil {
		return err
	}
	s.logger.Info().
		Str("symbol", stock.Symbol).
		Str("price", stock.CurrentPrice.StringFixed(2)).
		Msg("Stock registered")
	return nil
}

// UpdatePrice ingests an externally resolved price for a symbol.
func (s *Service) UpdatePrice(ctx context.Context, symbol string, price decimal.Decimal) error {
	symbol = models.NormalizeSymbol(symbol)
	if !price.IsPositive() {
		return fmt.Errorf("price must be positive, got %s: %w", price, models.ErrInvalidInput)
	}
	// Existence check keeps UpdatePrice from silently creating catalog rows.
	if _, err := s.storage.StockStore().GetStock(ctx, symbol); err != nil {
		return err
	}
	return s.storage.StockStore().UpdatePrice(ctx, symbol, price, time.Now().UTC())
}

// RefreshPrices pulls the quote source once for every registered symbol.
// Individual quote failures are logged and skipped so one bad symbol does not
// stall the rest of the sweep.
func (s *Service) RefreshPrices(ctx context.Context) error {
	if s.quotes == nil {
		return nil
	}
	stocks, err := s.storage.StockStore().ListStocks(ctx)
	if err != nil {
		return err
	}

	updated := 0
	for _, stock := range stocks {
		price, err := s.quotes.Quote(ctx, stock.Symbol, stock.CurrentPrice)
		if err != nil {
			s.logger.Warn().Err(err).Str("symbol", stock.Symbol).Msg("Quote failed, keeping last price")
			continue
		}
		if err := s.storage.StockStore().UpdatePrice(ctx, stock.Symbol, price, time.Now().UTC()); err != nil {
			return fmt.Errorf("failed to store price for %s: %w", stock.Symbol, err)
		}
		updated++
	}

	s.logger.Debug().Int("updated", updated).Int("total", len(stocks)).Msg("Price refresh complete")
	return nil
}

// Watchlist returns watchlisted stocks with holding aggregates.
func (s *Service) Watchlist(ctx context.Context) ([]*models.WatchlistEntry, error) {
	stocks, err := s.storage.StockStore().ListStocks(ctx)
	if err != nil {
		return nil, err
	}
	shares, cost, err := s.holdingAggregates(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]*models.WatchlistEntry, 0)
	for _, stock := range stocks {
		if !stock.Watchlist {
			continue
		}
		held := shares[stock.Symbol]
		entries = append(entries, &models.WatchlistEntry{
			Stock:           *stock,
			TotalSharesHeld: held,
			TotalValueHeld:  stock.CurrentPrice.Mul(decimal.NewFromInt(held)),
			TotalCostBasis:  cost[stock.Symbol],
		})
	}
	return entries, nil
}

// SetWatchlist flags or unflags a symbol on the watchlist.
func (s *Service) SetWatchlist(ctx context.Context, symbol string, watchlist bool) error {
	symbol = models.NormalizeSymbol(symbol)
	if _, err := s.storage.StockStore().GetStock(ctx, symbol); err != nil {
		return err
	}
	if err := s.storage.StockStore().SetWatchlist(ctx, symbol, watchlist); err != nil {
		return err
	}
	s.logger.Info().Str("symbol", symbol).Bool("watchlist", watchlist).Msg("Watchlist updated")
	return nil
}

// holdingAggregates sums shares and cost basis per symbol across every
// portfolio.
func (s *Service) holdingAggregates(ctx context.Context) (map[string]int64, map[string]decimal.Decimal, error) {
	holdings, err := s.storage.HoldingStore().ListAllHoldings(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load holdings: %w", err)
	}
	shares := make(map[string]int64)
	cost := make(map[string]decimal.Decimal)
	for _, h := range holdings {
		shares[h.Symbol] += h.Quantity
		cost[h.Symbol] = cost[h.Symbol].Add(h.CostBasis())
	}
	return shares, cost, nil
}

// Compile-time check
var _ interfaces.MarketService = (*Service)(nil)
