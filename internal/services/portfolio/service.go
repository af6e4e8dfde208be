// Package portfolio manages the portfolio registry and its aggregate views.
package portfolio

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mbeckett/paperfolio/internal/common"
	"github.com/mbeckett/paperfolio/internal/interfaces"
	"github.com/mbeckett/paperfolio/internal/models"
)

const portfolioTransactionLimit = 50

// Service implements PortfolioService.
type Service struct {
	storage interfaces.StorageManager
	market  interfaces.MarketService
	logger  *common.Logger
}

// NewService creates a new portfolio service.
func NewService(storage interfaces.StorageManager, market interfaces.MarketService, logger *common.Logger) *Service {
	return &Service{
		storage: storage,
		market:  market,
		logger:  logger,
	}
}

// CreatePortfolio creates a portfolio. Names are unique after trimming.
func (s *Service) CreatePortfolio(ctx context.Context, name, description string) (*models.Portfolio, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("portfolio name is required: %w", models.ErrInvalidInput)
	}

	// Uniqueness check and save under the same lock
	lock := s.storage.LedgerLock()
	lock.Lock()
	defer lock.Unlock()

	existing, err := s.storage.PortfolioStore().GetPortfolioByName(ctx, name)
	if err != nil && !errors.Is(err, models.ErrPortfolioNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("portfolio %q: %w", name, models.ErrPortfolioExists)
	}

	p := &models.Portfolio{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(description),
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.storage.PortfolioStore().SavePortfolio(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info().Str("id", p.ID).Str("name", p.Name).Msg("Portfolio created")
	return p, nil
}

// GetPortfolio returns one portfolio with priced positions and its recent
// transactions.
func (s *Service) GetPortfolio(ctx context.Context, id string) (*models.PortfolioDetail, error) {
	p, err := s.storage.PortfolioStore().GetPortfolio(ctx, id)
	if err != nil {
		return nil, err
	}

	holdings, err := s.storage.HoldingStore().ListHoldings(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load holdings: %w", err)
	}

	priced := make([]models.PricedHolding, 0, len(holdings))
	for _, h := range holdings {
		name := h.Symbol
		price := decimal.Zero
		if stock, err := s.market.GetStock(ctx, h.Symbol); err == nil {
			name = stock.Name
			price = stock.CurrentPrice
		}
		value := price.Mul(decimal.NewFromInt(h.Quantity))
		priced = append(priced, models.PricedHolding{
			Symbol:       h.Symbol,
			Name:         name,
			Quantity:     h.Quantity,
			AvgBuyPrice:  h.AvgBuyPrice,
			CurrentPrice: price,
			CurrentValue: value,
			ProfitLoss:   value.Sub(h.CostBasis()),
		})
	}

	txs, err := s.storage.TransactionStore().ListByPortfolio(ctx, id, portfolioTransactionLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	transactions := make([]models.Transaction, 0, len(txs))
	for _, tx := range txs {
		transactions = append(transactions, *tx)
	}

	return &models.PortfolioDetail{
		Portfolio:    *p,
		Holdings:     priced,
		Transactions: transactions,
	}, nil
}

// ListPortfolios returns all portfolios with holding counts and market value.
func (s *Service) ListPortfolios(ctx context.Context) ([]*models.PortfolioSummary, error) {
	portfolios, err := s.storage.PortfolioStore().ListPortfolios(ctx)
	if err != nil {
		return nil, err
	}

	prices, err := s.market.PriceMap(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]*models.PortfolioSummary, 0, len(portfolios))
	for _, p := range portfolios {
		holdings, err := s.storage.HoldingStore().ListHoldings(ctx, p.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load holdings for portfolio %s: %w", p.ID, err)
		}
		value := decimal.Zero
		for _, h := range holdings {
			value = value.Add(prices[h.Symbol].Mul(decimal.NewFromInt(h.Quantity)))
		}
		summaries = append(summaries, &models.PortfolioSummary{
			Portfolio:     *p,
			HoldingsCount: len(holdings),
			TotalValue:    value,
		})
	}
	return summaries, nil
}

// DeletePortfolio removes a portfolio and cascades to its holdings. The
// portfolio's transactions stay in the log as history. The cascade holds the
// ledger lock so a concurrent trade cannot re-save a holding for the
// portfolio between the holdings sweep and the portfolio delete.
func (s *Service) DeletePortfolio(ctx context.Context, id string) error {
	lock := s.storage.LedgerLock()
	lock.Lock()
	defer lock.Unlock()

	if _, err := s.storage.PortfolioStore().GetPortfolio(ctx, id); err != nil {
		return err
	}

	deleted, err := s.storage.HoldingStore().DeleteByPortfolio(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete holdings: %w", err)
	}
	if err := s.storage.PortfolioStore().DeletePortfolio(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("id", id).Int("holdings_deleted", deleted).Msg("Portfolio deleted")
	return nil
}

// PortfolioValue returns the market value of one portfolio's holdings.
func (s *Service) PortfolioValue(ctx context.Context, id string) (decimal.Decimal, error) {
	if _, err := s.storage.PortfolioStore().GetPortfolio(ctx, id); err != nil {
		return decimal.Zero, err
	}
	holdings, err := s.storage.HoldingStore().ListHoldings(ctx, id)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load holdings: %w", err)
	}
	prices, err := s.market.PriceMap(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	value := decimal.Zero
	for _, h := range holdings {
		value = value.Add(prices[h.Symbol].Mul(decimal.NewFromInt(h.Quantity)))
	}
	return value, nil
}

// Compile-time check
var _ interfaces.PortfolioService = (*Service)(nil)
