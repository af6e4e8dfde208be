// Package common provides shared test infrastructure
package common

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mbeckett/paperfolio/internal/app"
	appcommon "github.com/mbeckett/paperfolio/internal/common"
	"github.com/mbeckett/paperfolio/internal/models"
	"github.com/mbeckett/paperfolio/internal/server"
	"github.com/mbeckett/paperfolio/internal/services/market"
	"github.com/mbeckett/paperfolio/internal/services/networth"
	"github.com/mbeckett/paperfolio/internal/services/pnl"
	"github.com/mbeckett/paperfolio/internal/services/portfolio"
	"github.com/mbeckett/paperfolio/internal/services/trade"
	"github.com/mbeckett/paperfolio/internal/storage"
)

// Env is an isolated in-process test environment: a full application wired
// onto a temp ledger behind an httptest server.
type Env struct {
	t      *testing.T
	app    *app.App
	server *httptest.Server
}

// EnvOptions configures the test environment.
type EnvOptions struct {
	// StartingBalance overrides the default 100000 cash balance.
	StartingBalance string
	// SkipSeed leaves the ledger empty: no balance, stocks, or portfolio.
	SkipSeed bool
}

// NewEnv creates a test environment seeded with the default balance, the
// AAPL catalog entry, and one portfolio named "Growth".
func NewEnv(t *testing.T) *Env {
	return NewEnvWithOptions(t, EnvOptions{})
}

// NewEnvWithOptions creates a test environment with custom options.
func NewEnvWithOptions(t *testing.T, opts EnvOptions) *Env {
	t.Helper()

	logger := appcommon.NewSilentLogger()
	config := appcommon.NewDefaultConfig()
	config.Storage.Path = t.TempDir()

	manager, err := storage.NewManager(logger, config)
	if err != nil {
		t.Fatalf("Failed to open ledger store: %v", err)
	}

	marketService := market.NewService(manager, nil, logger)
	portfolioService := portfolio.NewService(manager, marketService, logger)
	pnlService := pnl.NewService(manager, marketService, logger)
	netWorthService := networth.NewService(manager, marketService, logger)
	tradeService := trade.NewService(manager, netWorthService, logger)

	a := &app.App{
		Config:           config,
		Logger:           logger,
		Storage:          manager,
		MarketService:    marketService,
		PortfolioService: portfolioService,
		TradeService:     tradeService,
		PnLService:       pnlService,
		NetWorthService:  netWorthService,
		StartupTime:      time.Now(),
	}

	env := &Env{
		t:      t,
		app:    a,
		server: httptest.NewServer(server.NewServer(a).Handler()),
	}

	if !opts.SkipSeed {
		env.seed(opts)
	}
	return env
}

func (e *Env) seed(opts EnvOptions) {
	e.t.Helper()
	ctx := context.Background()

	balance := opts.StartingBalance
	if balance == "" {
		balance = "100000"
	}
	amount, err := decimal.NewFromString(balance)
	if err != nil {
		e.t.Fatalf("Invalid starting balance %q: %v", balance, err)
	}
	if err := e.app.Storage.BalanceStore().SetBalance(ctx, amount, time.Now().UTC()); err != nil {
		e.t.Fatalf("Failed to seed balance: %v", err)
	}
	if err := e.app.Storage.StockStore().SaveStock(ctx, &models.Stock{
		Symbol:       "AAPL",
		Name:         "Apple Inc.",
		CurrentPrice: decimal.NewFromFloat(175.43),
		Watchlist:    true,
	}); err != nil {
		e.t.Fatalf("Failed to seed stock: %v", err)
	}
	if _, err := e.app.PortfolioService.CreatePortfolio(ctx, "Growth", "seeded"); err != nil {
		e.t.Fatalf("Failed to seed portfolio: %v", err)
	}
}

// Cleanup tears down the server and closes the ledger.
func (e *Env) Cleanup() {
	e.server.Close()
	if err := e.app.Storage.Close(); err != nil {
		e.t.Logf("Failed to close storage: %v", err)
	}
}

// App exposes the wired application for direct service calls.
func (e *Env) App() *app.App {
	return e.app
}

// DefaultPortfolioID returns the ID of the seeded "Growth" portfolio.
func (e *Env) DefaultPortfolioID() string {
	e.t.Helper()
	p, err := e.app.Storage.PortfolioStore().GetPortfolioByName(context.Background(), "Growth")
	if err != nil {
		e.t.Fatalf("Failed to load seeded portfolio: %v", err)
	}
	return p.ID
}

// HTTPGet performs a GET request against the test server.
func (e *Env) HTTPGet(path string) (*http.Response, error) {
	return e.server.Client().Get(e.server.URL + path)
}

// HTTPPost performs a POST request with a JSON body.
func (e *Env) HTTPPost(path string, body interface{}) (*http.Response, error) {
	return e.httpSend(http.MethodPost, path, body)
}

// HTTPPut performs a PUT request with a JSON body.
func (e *Env) HTTPPut(path string, body interface{}) (*http.Response, error) {
	return e.httpSend(http.MethodPut, path, body)
}

// HTTPDelete performs a DELETE request.
func (e *Env) HTTPDelete(path string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodDelete, e.server.URL+path, nil)
	if err != nil {
		return nil, err
	}
	return e.server.Client().Do(req)
}

func (e *Env) httpSend(method, path string, body interface{}) (*http.Response, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
	}
	req, err := http.NewRequest(method, e.server.URL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return e.server.Client().Do(req)
}
