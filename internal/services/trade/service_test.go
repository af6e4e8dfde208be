package trade

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mbeckett/paperfolio/internal/common"
	"github.com/mbeckett/paperfolio/internal/models"
	"github.com/mbeckett/paperfolio/internal/services/market"
	"github.com/mbeckett/paperfolio/internal/services/networth"
	"github.com/mbeckett/paperfolio/internal/storage"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// newTestService builds a trade service on a real ledger store with one
// portfolio, one stock, and a seeded balance.
func newTestService(t *testing.T, startingBalance string) (*Service, *storage.Manager) {
	t.Helper()
	logger := common.NewSilentLogger()
	config := common.NewDefaultConfig()
	config.Storage.Path = t.TempDir()

	manager, err := storage.NewManager(logger, config)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	t.Cleanup(func() { manager.Close() })

	ctx := context.Background()
	if err := manager.BalanceStore().SetBalance(ctx, dec(startingBalance), time.Now().UTC()); err != nil {
		t.Fatalf("SetBalance: %v", err)
	}
	if err := manager.StockStore().SaveStock(ctx, &models.Stock{
		Symbol: "AAPL", Name: "Apple Inc.", CurrentPrice: dec("175.43"),
	}); err != nil {
		t.Fatalf("SaveStock: %v", err)
	}
	if err := manager.PortfolioStore().SavePortfolio(ctx, &models.Portfolio{
		ID: "p1", Name: "Growth", CreatedAt: time.Now().UTC(),
	}); err != nil {
		t.Fatalf("SavePortfolio: %v", err)
	}

	marketService := market.NewService(manager, nil, logger)
	netWorthService := networth.NewService(manager, marketService, logger)
	return NewService(manager, netWorthService, logger), manager
}

func TestBuyDebitsBalance(t *testing.T) {
	svc, manager := newTestService(t, "100000")
	ctx := context.Background()

	result, err := svc.Buy(ctx, "p1", "AAPL", 10, dec("175.43"))
	if err != nil {
		t.Fatalf("Buy: %v", err)
	}

	if !result.NewBalance.Equal(dec("98245.70")) {
		t.Errorf("balance = %s, want 98245.70", result.NewBalance)
	}
	if result.Holding == nil {
		t.Fatal("holding missing from result")
	}
	if result.Holding.Quantity != 10 {
		t.Errorf("quantity = %d, want 10", result.Holding.Quantity)
	}
	if !result.Holding.AvgBuyPrice.Equal(dec("175.43")) {
		t.Errorf("avg = %s, want 175.43", result.Holding.AvgBuyPrice)
	}

	// One log entry and one net-worth row per trade
	txs, err := manager.TransactionStore().ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(txs) != 1 || txs[0].Side != models.SideBuy {
		t.Errorf("log = %+v, want one BUY", txs)
	}
	snaps, err := manager.NetWorthStore().ListRecentSnapshots(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecentSnapshots: %v", err)
	}
	if len(snaps) != 1 {
		t.Fatalf("snapshots = %d, want 1", len(snaps))
	}
	// 98245.70 cash + 10 shares at 175.43
	if !snaps[0].TotalNetWorth.Equal(dec("100000")) {
		t.Errorf("net worth = %s, want 100000", snaps[0].TotalNetWorth)
	}
}

func TestBuyAveragesCost(t *testing.T) {
	svc, _ := newTestService(t, "100000")
	ctx := context.Background()

	if _, err := svc.Buy(ctx, "p1", "AAPL", 10, dec("10")); err != nil {
		t.Fatalf("first buy: %v", err)
	}
	result, err := svc.Buy(ctx, "p1", "AAPL", 10, dec("20"))
	if err != nil {
		t.Fatalf("second buy: %v", err)
	}

	if result.Holding.Quantity != 20 {
		t.Errorf("quantity = %d, want 20", result.Holding.Quantity)
	}
	if !result.Holding.AvgBuyPrice.Equal(dec("15")) {
		t.Errorf("avg = %s, want 15", result.Holding.AvgBuyPrice)
	}
}

func TestBuyInsufficientBalanceLeavesLedgerUntouched(t *testing.T) {
	svc, manager := newTestService(t, "100")
	ctx := context.Background()

	_, err := svc.Buy(ctx, "p1", "AAPL", 10, dec("175.43"))
	var balErr *models.InsufficientBalanceError
	if !errors.As(err, &balErr) {
		t.Fatalf("Buy = %v, want InsufficientBalanceError", err)
	}
	if !balErr.Required.Equal(dec("1754.30")) || !balErr.Available.Equal(dec("100")) {
		t.Errorf("error detail = %+v", balErr)
	}

	txs, _ := manager.TransactionStore().ListAll(ctx)
	if len(txs) != 0 {
		t.Errorf("log has %d entries after rejection, want 0", len(txs))
	}
	holdings, _ := manager.HoldingStore().ListAllHoldings(ctx)
	if len(holdings) != 0 {
		t.Errorf("holdings = %d after rejection, want 0", len(holdings))
	}
	balance, _ := manager.BalanceStore().GetBalance(ctx)
	if !balance.Balance.Equal(dec("100")) {
		t.Errorf("balance = %s after rejection, want 100", balance.Balance)
	}
	snaps, _ := manager.NetWorthStore().ListRecentSnapshots(ctx, 10)
	if len(snaps) != 0 {
		t.Errorf("snapshots = %d after rejection, want 0", len(snaps))
	}
}

func TestBuyValidation(t *testing.T) {
	svc, _ := newTestService(t, "100000")
	ctx := context.Background()

	cases := []struct {
		name              string
		portfolio, symbol string
		quantity          int64
		price             decimal.Decimal
		want              error
	}{
		{"zero quantity", "p1", "AAPL", 0, dec("10"), models.ErrInvalidInput},
		{"negative quantity", "p1", "AAPL", -5, dec("10"), models.ErrInvalidInput},
		{"zero price", "p1", "AAPL", 10, decimal.Zero, models.ErrInvalidInput},
		{"unknown stock", "p1", "ZZZZ", 10, dec("10"), models.ErrStockNotFound},
		{"unknown portfolio", "nope", "AAPL", 10, dec("10"), models.ErrPortfolioNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Buy(ctx, tc.portfolio, tc.symbol, tc.quantity, tc.price); !errors.Is(err, tc.want) {
				t.Errorf("Buy = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestSellCreditsBalanceAndKeepsAvg(t *testing.T) {
	svc, manager := newTestService(t, "100000")
	ctx := context.Background()

	if _, err := svc.Buy(ctx, "p1", "AAPL", 10, dec("100")); err != nil {
		t.Fatalf("buy: %v", err)
	}
	result, err := svc.Sell(ctx, "p1", "AAPL", 4, dec("150"))
	if err != nil {
		t.Fatalf("sell: %v", err)
	}

	// 100000 - 1000 + 600
	if !result.NewBalance.Equal(dec("99600")) {
		t.Errorf("balance = %s, want 99600", result.NewBalance)
	}
	if result.Holding == nil {
		t.Fatal("holding missing from result")
	}
	if result.Holding.Quantity != 6 {
		t.Errorf("quantity = %d, want 6", result.Holding.Quantity)
	}
	// Partial sells never touch the weighted average
	if !result.Holding.AvgBuyPrice.Equal(dec("100")) {
		t.Errorf("avg = %s, want 100", result.Holding.AvgBuyPrice)
	}

	txs, _ := manager.TransactionStore().ListAll(ctx)
	if len(txs) != 2 || txs[1].Side != models.SideSell {
		t.Errorf("log = %d entries, want BUY then SELL", len(txs))
	}
}

func TestSellFullPositionDeletesHolding(t *testing.T) {
	svc, manager := newTestService(t, "100000")
	ctx := context.Background()

	if _, err := svc.Buy(ctx, "p1", "AAPL", 10, dec("100")); err != nil {
		t.Fatalf("buy: %v", err)
	}
	result, err := svc.Sell(ctx, "p1", "AAPL", 10, dec("150"))
	if err != nil {
		t.Fatalf("sell: %v", err)
	}
	if result.Holding != nil {
		t.Errorf("holding = %+v, want nil for closed position", result.Holding)
	}

	if _, err := manager.HoldingStore().GetHolding(ctx, "p1", "AAPL"); !errors.Is(err, models.ErrHoldingNotFound) {
		t.Errorf("GetHolding after close = %v, want ErrHoldingNotFound", err)
	}
}

func TestSellInsufficientShares(t *testing.T) {
	svc, manager := newTestService(t, "100000")
	ctx := context.Background()

	if _, err := svc.Buy(ctx, "p1", "AAPL", 5, dec("100")); err != nil {
		t.Fatalf("buy: %v", err)
	}

	_, err := svc.Sell(ctx, "p1", "AAPL", 8, dec("150"))
	var sharesErr *models.InsufficientSharesError
	if !errors.As(err, &sharesErr) {
		t.Fatalf("Sell = %v, want InsufficientSharesError", err)
	}
	if sharesErr.Available != 5 || sharesErr.Requested != 8 {
		t.Errorf("error detail = %+v", sharesErr)
	}

	// Rejection recorded nothing
	txs, _ := manager.TransactionStore().ListAll(ctx)
	if len(txs) != 1 {
		t.Errorf("log = %d entries after rejection, want 1", len(txs))
	}
	holding, err := manager.HoldingStore().GetHolding(ctx, "p1", "AAPL")
	if err != nil {
		t.Fatalf("GetHolding: %v", err)
	}
	if holding.Quantity != 5 {
		t.Errorf("quantity = %d after rejection, want 5", holding.Quantity)
	}
}

func TestSellWithNoHolding(t *testing.T) {
	svc, _ := newTestService(t, "100000")
	ctx := context.Background()

	_, err := svc.Sell(ctx, "p1", "AAPL", 1, dec("150"))
	var sharesErr *models.InsufficientSharesError
	if !errors.As(err, &sharesErr) {
		t.Fatalf("Sell = %v, want InsufficientSharesError", err)
	}
	if sharesErr.Available != 0 {
		t.Errorf("available = %d, want 0", sharesErr.Available)
	}
}

func TestSymbolNormalizedOnTrade(t *testing.T) {
	svc, manager := newTestService(t, "100000")
	ctx := context.Background()

	if _, err := svc.Buy(ctx, "p1", " aapl ", 1, dec("100")); err != nil {
		t.Fatalf("buy: %v", err)
	}
	if _, err := manager.HoldingStore().GetHolding(ctx, "p1", "AAPL"); err != nil {
		t.Errorf("holding not stored under normalized symbol: %v", err)
	}
}
