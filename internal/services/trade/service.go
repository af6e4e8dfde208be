// Package trade executes buy and sell orders against the ledger.
package trade

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mbeckett/paperfolio/internal/common"
	"github.com/mbeckett/paperfolio/internal/interfaces"
	"github.com/mbeckett/paperfolio/internal/models"
)

// Service implements TradeService. All trades are serialized through the
// ledger lock: validation reads and the writes they guard must see a stable
// ledger, and the transaction log must carry the same order the mutations
// happened in.
type Service struct {
	storage  interfaces.StorageManager
	netWorth interfaces.NetWorthService
	logger   *common.Logger
}

// NewService creates a new trade service.
func NewService(storage interfaces.StorageManager, netWorth interfaces.NetWorthService, logger *common.Logger) *Service {
	return &Service{
		storage:  storage,
		netWorth: netWorth,
		logger:   logger,
	}
}

// Buy purchases quantity shares of symbol at price, debiting the cash
// balance. Rejections happen before any write: a failed buy leaves the
// transaction log, holdings, and balance exactly as they were.
func (s *Service) Buy(ctx context.Context, portfolioID, symbol string, quantity int64, price decimal.Decimal) (*models.TradeResult, error) {
	symbol = models.NormalizeSymbol(symbol)
	if err := validateOrder(symbol, quantity, price); err != nil {
		return nil, err
	}

	lock := s.storage.LedgerLock()
	lock.Lock()
	defer lock.Unlock()

	if _, err := s.storage.PortfolioStore().GetPortfolio(ctx, portfolioID); err != nil {
		return nil, err
	}
	if _, err := s.storage.StockStore().GetStock(ctx, symbol); err != nil {
		return nil, err
	}

	cost := price.Mul(decimal.NewFromInt(quantity))
	balance, err := s.storage.BalanceStore().GetBalance(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read balance: %w", err)
	}
	if balance.Balance.LessThan(cost) {
		return nil, &models.InsufficientBalanceError{
			Required:  cost,
			Available: balance.Balance,
		}
	}

	now := time.Now().UTC()
	tx := &models.Transaction{
		ID:          uuid.NewString(),
		PortfolioID: portfolioID,
		Symbol:      symbol,
		Side:        models.SideBuy,
		Quantity:    quantity,
		Price:       price,
		Timestamp:   now,
	}

	// Log first: holdings and balance are derived from the log, so the log
	// entry must exist before any state it explains.
	if err := s.storage.TransactionStore().Append(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}

	holding, err := s.applyBuy(ctx, portfolioID, symbol, quantity, price)
	if err != nil {
		return nil, err
	}

	newBalance := balance.Balance.Sub(cost)
	if err := s.storage.BalanceStore().SetBalance(ctx, newBalance, now); err != nil {
		return nil, fmt.Errorf("failed to update balance: %w", err)
	}

	if _, err := s.netWorth.Snapshot(ctx); err != nil {
		return nil, fmt.Errorf("failed to record net worth: %w", err)
	}

	s.logger.Info().
		Str("portfolio", portfolioID).
		Str("symbol", symbol).
		Int64("quantity", quantity).
		Str("price", price.StringFixed(2)).
		Str("balance", newBalance.StringFixed(2)).
		Msg("Buy executed")

	return &models.TradeResult{
		Transaction: *tx,
		NewBalance:  newBalance,
		Holding:     holding,
	}, nil
}

// Sell disposes quantity shares of symbol at price, crediting the cash
// balance. The holding's average buy price is untouched by a partial sell; a
// position reduced to zero is deleted.
func (s *Service) Sell(ctx context.Context, portfolioID, symbol string, quantity int64, price decimal.Decimal) (*models.TradeResult, error) {
	symbol = models.NormalizeSymbol(symbol)
	if err := validateOrder(symbol, quantity, price); err != nil {
		return nil, err
	}

	lock := s.storage.LedgerLock()
	lock.Lock()
	defer lock.Unlock()

	if _, err := s.storage.PortfolioStore().GetPortfolio(ctx, portfolioID); err != nil {
		return nil, err
	}
	if _, err := s.storage.StockStore().GetStock(ctx, symbol); err != nil {
		return nil, err
	}

	holding, err := s.storage.HoldingStore().GetHolding(ctx, portfolioID, symbol)
	if err != nil {
		if errors.Is(err, models.ErrHoldingNotFound) {
			return nil, &models.InsufficientSharesError{
				Symbol:    symbol,
				Requested: quantity,
				Available: 0,
			}
		}
		return nil, err
	}
	if holding.Quantity < quantity {
		return nil, &models.InsufficientSharesError{
			Symbol:    symbol,
			Requested: quantity,
			Available: holding.Quantity,
		}
	}

	now := time.Now().UTC()
	tx := &models.Transaction{
		ID:          uuid.NewString(),
		PortfolioID: portfolioID,
		Symbol:      symbol,
		Side:        models.SideSell,
		Quantity:    quantity,
		Price:       price,
		Timestamp:   now,
	}
	if err := s.storage.TransactionStore().Append(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}

	var remaining *models.Holding
	if holding.Quantity == quantity {
		if err := s.storage.HoldingStore().DeleteHolding(ctx, portfolioID, symbol); err != nil {
			return nil, fmt.Errorf("failed to close position: %w", err)
		}
	} else {
		remaining = &models.Holding{
			PortfolioID: portfolioID,
			Symbol:      symbol,
			Quantity:    holding.Quantity - quantity,
			AvgBuyPrice: holding.AvgBuyPrice,
		}
		if err := s.storage.HoldingStore().SaveHolding(ctx, remaining); err != nil {
			return nil, fmt.Errorf("failed to update holding: %w", err)
		}
	}

	balance, err := s.storage.BalanceStore().GetBalance(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read balance: %w", err)
	}
	proceeds := price.Mul(decimal.NewFromInt(quantity))
	newBalance := balance.Balance.Add(proceeds)
	if err := s.storage.BalanceStore().SetBalance(ctx, newBalance, now); err != nil {
		return nil, fmt.Errorf("failed to update balance: %w", err)
	}

	if _, err := s.netWorth.Snapshot(ctx); err != nil {
		return nil, fmt.Errorf("failed to record net worth: %w", err)
	}

	s.logger.Info().
		Str("portfolio", portfolioID).
		Str("symbol", symbol).
		Int64("quantity", quantity).
		Str("price", price.StringFixed(2)).
		Str("balance", newBalance.StringFixed(2)).
		Msg("Sell executed")

	return &models.TradeResult{
		Transaction: *tx,
		NewBalance:  newBalance,
		Holding:     remaining,
	}, nil
}

// applyBuy folds a purchase into the holdings aggregate. The average buy
// price is the quantity-weighted mean across every buy backing the position:
// newAvg = (oldQty*oldAvg + qty*price) / (oldQty + qty).
func (s *Service) applyBuy(ctx context.Context, portfolioID, symbol string, quantity int64, price decimal.Decimal) (*models.Holding, error) {
	existing, err := s.storage.HoldingStore().GetHolding(ctx, portfolioID, symbol)
	if err != nil {
		if !errors.Is(err, models.ErrHoldingNotFound) {
			return nil, err
		}
		h := &models.Holding{
			PortfolioID: portfolioID,
			Symbol:      symbol,
			Quantity:    quantity,
			AvgBuyPrice: price,
		}
		if err := s.storage.HoldingStore().SaveHolding(ctx, h); err != nil {
			return nil, fmt.Errorf("failed to create holding: %w", err)
		}
		return h, nil
	}

	newQty := existing.Quantity + quantity
	oldCost := existing.AvgBuyPrice.Mul(decimal.NewFromInt(existing.Quantity))
	addCost := price.Mul(decimal.NewFromInt(quantity))
	h := &models.Holding{
		PortfolioID: portfolioID,
		Symbol:      symbol,
		Quantity:    newQty,
		AvgBuyPrice: oldCost.Add(addCost).Div(decimal.NewFromInt(newQty)),
	}
	if err := s.storage.HoldingStore().SaveHolding(ctx, h); err != nil {
		return nil, fmt.Errorf("failed to update holding: %w", err)
	}
	return h, nil
}

func validateOrder(symbol string, quantity int64, price decimal.Decimal) error {
	if symbol == "" {
		return fmt.Errorf("symbol is required: %w", models.ErrInvalidInput)
	}
	if quantity <= 0 {
		return fmt.Errorf("quantity must be positive, got %d: %w", quantity, models.ErrInvalidInput)
	}
	if !price.IsPositive() {
		return fmt.Errorf("price must be positive, got %s: %w", price, models.ErrInvalidInput)
	}
	return nil
}

// Compile-time check
var _ interfaces.TradeService = (*Service)(nil)
