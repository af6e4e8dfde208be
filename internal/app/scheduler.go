package app

import (
	"context"
	"time"

	"github.com/mbeckett/paperfolio/internal/common"
	"github.com/mbeckett/paperfolio/internal/interfaces"
)

// startPriceScheduler refreshes catalog prices on a fixed interval until the
// context is cancelled.
func startPriceScheduler(ctx context.Context, marketService interfaces.MarketService, logger *common.Logger, interval time.Duration) {
	logger.Info().Dur("interval", interval).Msg("Price scheduler: started")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Price scheduler: stopped")
			return
		case <-ticker.C:
			start := time.Now()
			if err := marketService.RefreshPrices(ctx); err != nil {
				logger.Warn().Err(err).Msg("Price refresh failed")
				continue
			}
			logger.Debug().Dur("elapsed", time.Since(start)).Msg("Price refresh tick")
		}
	}
}
