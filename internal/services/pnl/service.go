// Package pnl computes realized and unrealized profit/loss read-models.
//
// The two figures deliberately use different cost conventions: realized P&L
// replays the transaction log with FIFO lot matching, while unrealized P&L
// values open holdings against their weighted-average buy price.
package pnl

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mbeckett/paperfolio/internal/common"
	"github.com/mbeckett/paperfolio/internal/interfaces"
	"github.com/mbeckett/paperfolio/internal/models"
)

const recentTransactionLimit = 5

// Service implements PnLService.
type Service struct {
	storage interfaces.StorageManager
	market  interfaces.MarketService
	logger  *common.Logger
}

// NewService creates a new P&L service.
func NewService(storage interfaces.StorageManager, market interfaces.MarketService, logger *common.Logger) *Service {
	return &Service{
		storage: storage,
		market:  market,
		logger:  logger,
	}
}

// RealizedPL replays the full transaction log with FIFO lot matching. The
// log is the only input: holdings are never consulted, so the figure survives
// any holdings rebuild.
func (s *Service) RealizedPL(ctx context.Context) (*models.RealizedPL, error) {
	txs, err := s.storage.TransactionStore().ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load transaction log: %w", err)
	}
	return replay(txs), nil
}

// UnrealizedPL aggregates open holdings at current catalog prices. An empty
// portfolioID spans every portfolio.
func (s *Service) UnrealizedPL(ctx context.Context, portfolioID string) (*models.UnrealizedPL, error) {
	var holdings []*models.Holding
	var err error
	if portfolioID == "" {
		holdings, err = s.storage.HoldingStore().ListAllHoldings(ctx)
	} else {
		holdings, err = s.storage.HoldingStore().ListHoldings(ctx, portfolioID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load holdings: %w", err)
	}

	prices, err := s.market.PriceMap(ctx)
	if err != nil {
		return nil, err
	}

	costBasis := decimal.Zero
	currentValue := decimal.Zero
	for _, h := range holdings {
		costBasis = costBasis.Add(h.CostBasis())
		currentValue = currentValue.Add(prices[h.Symbol].Mul(decimal.NewFromInt(h.Quantity)))
	}

	result := &models.UnrealizedPL{
		CostBasis:    costBasis,
		CurrentValue: currentValue,
		Amount:       currentValue.Sub(costBasis),
	}
	if costBasis.IsPositive() {
		result.Percentage = result.Amount.Div(costBasis).Mul(decimal.NewFromInt(100))
	}
	return result, nil
}

// Dashboard combines portfolio summaries, both P&L models, the cash balance
// and recent activity into one overview. Total invested is the open cost
// basis plus the FIFO cost basis of everything already sold, so the combined
// percentage is measured against all capital ever deployed.
func (s *Service) Dashboard(ctx context.Context) (*models.Dashboard, error) {
	portfolios, err := s.storage.PortfolioStore().ListPortfolios(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list portfolios: %w", err)
	}

	prices, err := s.market.PriceMap(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.PortfolioSummary, 0, len(portfolios))
	totalValue := decimal.Zero
	totalHoldings := 0
	for _, p := range portfolios {
		holdings, err := s.storage.HoldingStore().ListHoldings(ctx, p.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load holdings for portfolio %s: %w", p.ID, err)
		}
		value := decimal.Zero
		for _, h := range holdings {
			value = value.Add(prices[h.Symbol].Mul(decimal.NewFromInt(h.Quantity)))
		}
		summaries = append(summaries, models.PortfolioSummary{
			Portfolio:     *p,
			HoldingsCount: len(holdings),
			TotalValue:    value,
		})
		totalValue = totalValue.Add(value)
		totalHoldings += len(holdings)
	}

	unrealized, err := s.UnrealizedPL(ctx, "")
	if err != nil {
		return nil, err
	}
	realized, err := s.RealizedPL(ctx)
	if err != nil {
		return nil, err
	}

	balance, err := s.storage.BalanceStore().GetBalance(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read balance: %w", err)
	}

	recent, err := s.storage.TransactionStore().ListRecent(ctx, recentTransactionLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent transactions: %w", err)
	}
	recentTxs := make([]models.Transaction, 0, len(recent))
	for _, tx := range recent {
		recentTxs = append(recentTxs, *tx)
	}

	totalInvested := unrealized.CostBasis.Add(realized.TotalSoldCostBasis)
	totalPL := unrealized.Amount.Add(realized.Amount)
	totalPLPct := decimal.Zero
	if totalInvested.IsPositive() {
		totalPLPct = totalPL.Div(totalInvested).Mul(decimal.NewFromInt(100))
	}

	return &models.Dashboard{
		Portfolios:           summaries,
		TotalValue:           totalValue,
		UnrealizedProfitLoss: unrealized.Amount,
		UnrealizedPLPct:      unrealized.Percentage,
		TotalCostBasis:       unrealized.CostBasis,
		RealizedProfitLoss:   realized.Amount,
		RealizedPLPct:        realized.Percentage,
		TotalPLAmount:        totalPL,
		TotalPLPct:           totalPLPct,
		AccountBalance:       balance.Balance,
		TotalInvested:        totalInvested,
		TotalHoldings:        totalHoldings,
		RecentTransactions:   recentTxs,
	}, nil
}

// Compile-time check
var _ interfaces.PnLService = (*Service)(nil)
