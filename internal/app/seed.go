package app

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mbeckett/paperfolio/internal/models"
)

// seedLedger writes the configured starting state on first run: the opening
// cash balance and the initial stock catalog. A ledger that already has a
// balance row is left untouched, so restarts never re-seed.
func (a *App) seedLedger(ctx context.Context) error {
	balance, err := a.Storage.BalanceStore().GetBalance(ctx)
	if err != nil {
		return err
	}
	if !balance.UpdatedAt.IsZero() {
		return nil
	}

	starting, err := decimal.NewFromString(a.Config.Seed.StartingBalance)
	if err != nil {
		return fmt.Errorf("invalid starting balance %q: %w", a.Config.Seed.StartingBalance, err)
	}
	now := time.Now().UTC()
	if err := a.Storage.BalanceStore().SetBalance(ctx, starting, now); err != nil {
		return err
	}

	seeded := 0
	for _, s := range a.Config.Seed.Stocks {
		price, err := decimal.NewFromString(s.Price)
		if err != nil {
			return fmt.Errorf("invalid seed price %q for %s: %w", s.Price, s.Symbol, err)
		}
		stock := &models.Stock{
			Symbol:         models.NormalizeSymbol(s.Symbol),
			Name:           s.Name,
			CurrentPrice:   price,
			Watchlist:      s.Watchlist,
			PriceUpdatedAt: now,
		}
		if err := a.Storage.StockStore().SaveStock(ctx, stock); err != nil {
			return err
		}
		seeded++
	}

	a.Logger.Info().
		Str("balance", starting.StringFixed(2)).
		Int("stocks", seeded).
		Msg("Ledger seeded")

	return nil
}
