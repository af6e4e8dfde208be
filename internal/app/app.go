// Package app wires configuration, storage, clients, and services into one
// runnable core.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mbeckett/paperfolio/internal/clients/quote"
	"github.com/mbeckett/paperfolio/internal/common"
	"github.com/mbeckett/paperfolio/internal/interfaces"
	"github.com/mbeckett/paperfolio/internal/services/market"
	"github.com/mbeckett/paperfolio/internal/services/networth"
	"github.com/mbeckett/paperfolio/internal/services/pnl"
	"github.com/mbeckett/paperfolio/internal/services/portfolio"
	"github.com/mbeckett/paperfolio/internal/services/trade"
	"github.com/mbeckett/paperfolio/internal/storage"
)

// App holds all initialized services, clients, and storage.
type App struct {
	Config           *common.Config
	Logger           *common.Logger
	Storage          interfaces.StorageManager
	QuoteClient      interfaces.QuoteClient
	MarketService    interfaces.MarketService
	PortfolioService interfaces.PortfolioService
	TradeService     interfaces.TradeService
	PnLService       interfaces.PnLService
	NetWorthService  interfaces.NetWorthService
	StartupTime      time.Time

	schedulerCancel context.CancelFunc
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes storage, clients, and services. configPath may be empty,
// in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	binDir := getBinaryDir()

	// Config resolution: explicit path, PAPERFOLIO_CONFIG, binary dir, then
	// the development fallback.
	if configPath == "" {
		configPath = os.Getenv("PAPERFOLIO_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "paperfolio.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/paperfolio.toml"
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative storage path to binary directory
	if config.Storage.Path != "" && !filepath.IsAbs(config.Storage.Path) {
		config.Storage.Path = filepath.Join(binDir, config.Storage.Path)
	}

	logger := common.NewLogger(config.Logging.Level)

	storageManager, err := storage.NewManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	var quoteClient interfaces.QuoteClient
	if config.Quotes.Enabled {
		quoteClient = quote.NewClient(
			quote.WithLogger(logger),
			quote.WithRateLimit(config.Quotes.RateLimit),
			quote.WithMaxDrift(config.Quotes.MaxDrift),
		)
	}

	marketService := market.NewService(storageManager, quoteClient, logger)
	portfolioService := portfolio.NewService(storageManager, marketService, logger)
	pnlService := pnl.NewService(storageManager, marketService, logger)
	netWorthService := networth.NewService(storageManager, marketService, logger)
	tradeService := trade.NewService(storageManager, netWorthService, logger)

	a := &App{
		Config:           config,
		Logger:           logger,
		Storage:          storageManager,
		QuoteClient:      quoteClient,
		MarketService:    marketService,
		PortfolioService: portfolioService,
		TradeService:     tradeService,
		PnLService:       pnlService,
		NetWorthService:  netWorthService,
		StartupTime:      startupStart,
	}

	if err := a.seedLedger(context.Background()); err != nil {
		storageManager.Close()
		return nil, fmt.Errorf("failed to seed ledger: %w", err)
	}

	logger.Info().Dur("startup", time.Since(startupStart)).Msg("App initialized")

	return a, nil
}

// StartScheduler launches the background price refresher. No-op when quotes
// are disabled.
func (a *App) StartScheduler() {
	if a.QuoteClient == nil || !a.Config.Quotes.Enabled {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.schedulerCancel = cancel
	go startPriceScheduler(ctx, a.MarketService, a.Logger, a.Config.Quotes.GetInterval())
}

// Close stops background work and releases storage.
func (a *App) Close() error {
	if a.schedulerCancel != nil {
		a.schedulerCancel()
	}
	if a.Storage != nil {
		return a.Storage.Close()
	}
	return nil
}
