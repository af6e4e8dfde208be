package ledgerdb

import (
	"context"
	"fmt"

	"github.com/timshannon/badgerhold/v4"

	"github.com/mbeckett/paperfolio/internal/models"
)

// holdingKey builds the composite (portfolio, symbol) record key.
func holdingKey(portfolioID, symbol string) string {
	return portfolioID + keySep + symbol
}

// --- Holdings aggregate ---

func (s *Store) GetHolding(_ context.Context, portfolioID, symbol string) (*models.Holding, error) {
	symbol = models.NormalizeSymbol(symbol)
	var h models.Holding
	if err := s.db.Get(holdingKey(portfolioID, symbol), &h); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("holding %s in portfolio '%s': %w", symbol, portfolioID, models.ErrHoldingNotFound)
		}
		return nil, fmt.Errorf("failed to get holding %s/%s: %w", portfolioID, symbol, err)
	}
	return &h, nil
}

func (s *Store) SaveHolding(_ context.Context, h *models.Holding) error {
	h.Symbol = models.NormalizeSymbol(h.Symbol)
	if h.PortfolioID == "" || h.Symbol == "" {
		return fmt.Errorf("holding requires portfolio id and symbol: %w", models.ErrInvalidInput)
	}
	if h.Quantity <= 0 {
		// Zero rows are deleted, never stored.
		return fmt.Errorf("holding quantity must be positive: %w", models.ErrInvalidInput)
	}
	if err := s.db.Upsert(holdingKey(h.PortfolioID, h.Symbol), h); err != nil {
		return fmt.Errorf("failed to save holding %s/%s: %w", h.PortfolioID, h.Symbol, err)
	}
	return nil
}

func (s *Store) DeleteHolding(_ context.Context, portfolioID, symbol string) error {
	symbol = models.NormalizeSymbol(symbol)
	if err := s.db.Delete(holdingKey(portfolioID, symbol), models.Holding{}); err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete holding %s/%s: %w", portfolioID, symbol, err)
	}
	return nil
}

func (s *Store) ListHoldings(_ context.Context, portfolioID string) ([]*models.Holding, error) {
	var holdings []models.Holding
	if err := s.db.Find(&holdings, badgerhold.Where("PortfolioID").Eq(portfolioID)); err != nil {
		return nil, fmt.Errorf("failed to list holdings for portfolio '%s': %w", portfolioID, err)
	}
	return holdingPtrs(holdings), nil
}

func (s *Store) ListAllHoldings(_ context.Context) ([]*models.Holding, error) {
	var holdings []models.Holding
	if err := s.db.Find(&holdings, nil); err != nil {
		return nil, fmt.Errorf("failed to list holdings: %w", err)
	}
	return holdingPtrs(holdings), nil
}

func (s *Store) ListHoldingsBySymbol(_ context.Context, symbol string) ([]*models.Holding, error) {
	symbol = models.NormalizeSymbol(symbol)
	var holdings []models.Holding
	if err := s.db.Find(&holdings, badgerhold.Where("Symbol").Eq(symbol)); err != nil {
		return nil, fmt.Errorf("failed to list holdings for '%s': %w", symbol, err)
	}
	return holdingPtrs(holdings), nil
}

func (s *Store) DeleteByPortfolio(ctx context.Context, portfolioID string) (int, error) {
	holdings, err := s.ListHoldings(ctx, portfolioID)
	if err != nil {
		return 0, err
	}
	for _, h := range holdings {
		if err := s.db.Delete(holdingKey(h.PortfolioID, h.Symbol), models.Holding{}); err != nil && err != badgerhold.ErrNotFound {
			return 0, fmt.Errorf("failed to cascade holding %s/%s: %w", h.PortfolioID, h.Symbol, err)
		}
	}
	return len(holdings), nil
}

func holdingPtrs(holdings []models.Holding) []*models.Holding {
	result := make([]*models.Holding, len(holdings))
	for i := range holdings {
		result[i] = &holdings[i]
	}
	return result
}
