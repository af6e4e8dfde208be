package ledgerdb

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/timshannon/badgerhold/v4"

	"github.com/mbeckett/paperfolio/internal/models"
)

// --- Stock registry ---

func (s *Store) GetStock(_ context.Context, symbol string) (*models.Stock, error) {
	symbol = models.NormalizeSymbol(symbol)
	var stock models.Stock
	if err := s.db.Get(symbol, &stock); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("stock '%s': %w", symbol, models.ErrStockNotFound)
		}
		return nil, fmt.Errorf("failed to get stock '%s': %w", symbol, err)
	}
	return &stock, nil
}

func (s *Store) SaveStock(_ context.Context, stock *models.Stock) error {
	stock.Symbol = models.NormalizeSymbol(stock.Symbol)
	if stock.Symbol == "" {
		return fmt.Errorf("stock symbol is required: %w", models.ErrInvalidInput)
	}
	if err := s.db.Upsert(stock.Symbol, stock); err != nil {
		return fmt.Errorf("failed to save stock '%s': %w", stock.Symbol, err)
	}
	s.logger.Debug().Str("symbol", stock.Symbol).Msg("Stock saved")
	return nil
}

func (s *Store) ListStocks(_ context.Context) ([]*models.Stock, error) {
	var stocks []models.Stock
	query := badgerhold.Where(badgerhold.Key).Ne("").SortBy("Symbol")
	if err := s.db.Find(&stocks, query); err != nil {
		return nil, fmt.Errorf("failed to list stocks: %w", err)
	}
	result := make([]*models.Stock, len(stocks))
	for i := range stocks {
		result[i] = &stocks[i]
	}
	return result, nil
}

func (s *Store) UpdatePrice(ctx context.Context, symbol string, price decimal.Decimal, at time.Time) error {
	stock, err := s.GetStock(ctx, symbol)
	if err != nil {
		return err
	}
	stock.CurrentPrice = price
	stock.PriceUpdatedAt = at
	if err := s.db.Upsert(stock.Symbol, stock); err != nil {
		return fmt.Errorf("failed to update price for '%s': %w", stock.Symbol, err)
	}
	return nil
}

func (s *Store) SetWatchlist(ctx context.Context, symbol string, watchlist bool) error {
	stock, err := s.GetStock(ctx, symbol)
	if err != nil {
		return err
	}
	stock.Watchlist = watchlist
	if err := s.db.Upsert(stock.Symbol, stock); err != nil {
		return fmt.Errorf("failed to update watchlist for '%s': %w", stock.Symbol, err)
	}
	return nil
}
