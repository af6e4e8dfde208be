// Package networth records and serves the account's net-worth history.
package networth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mbeckett/paperfolio/internal/common"
	"github.com/mbeckett/paperfolio/internal/interfaces"
	"github.com/mbeckett/paperfolio/internal/models"
)

const defaultHistoryLimit = 90

// Service implements NetWorthService.
type Service struct {
	storage interfaces.StorageManager
	market  interfaces.MarketService
	logger  *common.Logger
}

// NewService creates a new net-worth service.
func NewService(storage interfaces.StorageManager, market interfaces.MarketService, logger *common.Logger) *Service {
	return &Service{
		storage: storage,
		market:  market,
		logger:  logger,
	}
}

// Snapshot appends one history row: the cash balance plus the market value of
// every holding at current catalog prices. The trade executor calls this once
// per committed trade; the history is an event log, not a daily series.
func (s *Service) Snapshot(ctx context.Context) (*models.NetWorthSnapshot, error) {
	balance, err := s.storage.BalanceStore().GetBalance(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read balance: %w", err)
	}

	holdings, err := s.storage.HoldingStore().ListAllHoldings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load holdings: %w", err)
	}
	prices, err := s.market.PriceMap(ctx)
	if err != nil {
		return nil, err
	}

	portfolioValue := decimal.Zero
	for _, h := range holdings {
		portfolioValue = portfolioValue.Add(prices[h.Symbol].Mul(decimal.NewFromInt(h.Quantity)))
	}

	now := time.Now().UTC()
	snap := &models.NetWorthSnapshot{
		ID:             uuid.NewString(),
		Date:           now.Format("2006-01-02"),
		CashBalance:    balance.Balance,
		PortfolioValue: portfolioValue,
		TotalNetWorth:  balance.Balance.Add(portfolioValue),
		Timestamp:      now,
	}
	if err := s.storage.NetWorthStore().AppendSnapshot(ctx, snap); err != nil {
		return nil, err
	}

	s.logger.Debug().
		Str("net_worth", snap.TotalNetWorth.StringFixed(2)).
		Str("cash", snap.CashBalance.StringFixed(2)).
		Msg("Net worth recorded")

	return snap, nil
}

// History returns up to limit snapshots in chronological order. A limit of
// zero or less applies the default window.
func (s *Service) History(ctx context.Context, limit int) ([]*models.NetWorthSnapshot, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return s.storage.NetWorthStore().ListRecentSnapshots(ctx, limit)
}

// RenderChart renders the recent history as a PNG time-series chart.
func (s *Service) RenderChart(ctx context.Context, limit int) ([]byte, error) {
	snaps, err := s.History(ctx, limit)
	if err != nil {
		return nil, err
	}
	return renderHistoryChart(snaps)
}

// Compile-time check
var _ interfaces.NetWorthService = (*Service)(nil)
