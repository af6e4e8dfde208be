package pnl

import (
	"context"
	"testing"
	"time"

	"github.com/mbeckett/paperfolio/internal/common"
	"github.com/mbeckett/paperfolio/internal/models"
	"github.com/mbeckett/paperfolio/internal/services/market"
	"github.com/mbeckett/paperfolio/internal/storage"
)

func newTestService(t *testing.T) (*Service, *storage.Manager) {
	t.Helper()
	logger := common.NewSilentLogger()
	config := common.NewDefaultConfig()
	config.Storage.Path = t.TempDir()

	manager, err := storage.NewManager(logger, config)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	t.Cleanup(func() { manager.Close() })

	marketService := market.NewService(manager, nil, logger)
	return NewService(manager, marketService, logger), manager
}

func seedStock(t *testing.T, manager *storage.Manager, symbol, price string) {
	t.Helper()
	err := manager.StockStore().SaveStock(context.Background(), &models.Stock{
		Symbol: symbol, Name: symbol, CurrentPrice: dec(price),
	})
	if err != nil {
		t.Fatalf("SaveStock(%s): %v", symbol, err)
	}
}

func appendTx(t *testing.T, manager *storage.Manager, id, symbol string, side models.TradeSide, qty int64, price string) {
	t.Helper()
	err := manager.TransactionStore().Append(context.Background(), &models.Transaction{
		ID: id, PortfolioID: "p1", Symbol: symbol, Side: side,
		Quantity: qty, Price: dec(price), Timestamp: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("Append(%s): %v", id, err)
	}
}

func TestRealizedPLFromLog(t *testing.T) {
	svc, manager := newTestService(t)
	ctx := context.Background()

	appendTx(t, manager, "t1", "AAPL", models.SideBuy, 10, "10")
	appendTx(t, manager, "t2", "AAPL", models.SideBuy, 10, "20")
	appendTx(t, manager, "t3", "AAPL", models.SideSell, 15, "30")

	pl, err := svc.RealizedPL(ctx)
	if err != nil {
		t.Fatalf("RealizedPL: %v", err)
	}
	if !pl.Amount.Equal(dec("250")) {
		t.Errorf("amount = %s, want 250", pl.Amount)
	}
	if !pl.TotalSoldCostBasis.Equal(dec("200")) {
		t.Errorf("basis = %s, want 200", pl.TotalSoldCostBasis)
	}
}

func TestUnrealizedPLAtCurrentPrices(t *testing.T) {
	svc, manager := newTestService(t)
	ctx := context.Background()

	seedStock(t, manager, "AAPL", "150")
	if err := manager.HoldingStore().SaveHolding(ctx, &models.Holding{
		PortfolioID: "p1", Symbol: "AAPL", Quantity: 10, AvgBuyPrice: dec("100"),
	}); err != nil {
		t.Fatalf("SaveHolding: %v", err)
	}

	pl, err := svc.UnrealizedPL(ctx, "")
	if err != nil {
		t.Fatalf("UnrealizedPL: %v", err)
	}
	if !pl.CostBasis.Equal(dec("1000")) {
		t.Errorf("cost basis = %s, want 1000", pl.CostBasis)
	}
	if !pl.CurrentValue.Equal(dec("1500")) {
		t.Errorf("current value = %s, want 1500", pl.CurrentValue)
	}
	if !pl.Amount.Equal(dec("500")) {
		t.Errorf("amount = %s, want 500", pl.Amount)
	}
	if !pl.Percentage.Equal(dec("50")) {
		t.Errorf("percentage = %s, want 50", pl.Percentage)
	}
}

func TestUnrealizedPLScopedToPortfolio(t *testing.T) {
	svc, manager := newTestService(t)
	ctx := context.Background()

	seedStock(t, manager, "AAPL", "100")
	for _, pid := range []string{"p1", "p2"} {
		if err := manager.HoldingStore().SaveHolding(ctx, &models.Holding{
			PortfolioID: pid, Symbol: "AAPL", Quantity: 10, AvgBuyPrice: dec("100"),
		}); err != nil {
			t.Fatalf("SaveHolding(%s): %v", pid, err)
		}
	}

	pl, err := svc.UnrealizedPL(ctx, "p1")
	if err != nil {
		t.Fatalf("UnrealizedPL: %v", err)
	}
	if !pl.CostBasis.Equal(dec("1000")) {
		t.Errorf("scoped cost basis = %s, want 1000", pl.CostBasis)
	}

	all, err := svc.UnrealizedPL(ctx, "")
	if err != nil {
		t.Fatalf("UnrealizedPL(all): %v", err)
	}
	if !all.CostBasis.Equal(dec("2000")) {
		t.Errorf("total cost basis = %s, want 2000", all.CostBasis)
	}
}

func TestUnrealizedPLEmpty(t *testing.T) {
	svc, _ := newTestService(t)

	pl, err := svc.UnrealizedPL(context.Background(), "")
	if err != nil {
		t.Fatalf("UnrealizedPL: %v", err)
	}
	if !pl.Amount.IsZero() || !pl.Percentage.IsZero() {
		t.Errorf("pl = %+v, want all zero", pl)
	}
}

func TestDashboardAggregates(t *testing.T) {
	svc, manager := newTestService(t)
	ctx := context.Background()

	seedStock(t, manager, "AAPL", "30")
	if err := manager.BalanceStore().SetBalance(ctx, dec("5000"), time.Now().UTC()); err != nil {
		t.Fatalf("SetBalance: %v", err)
	}
	if err := manager.PortfolioStore().SavePortfolio(ctx, &models.Portfolio{
		ID: "p1", Name: "Growth", CreatedAt: time.Now().UTC(),
	}); err != nil {
		t.Fatalf("SavePortfolio: %v", err)
	}

	// Bought 20 (10@10 + 10@20), sold 15@30, 5 remain at avg 15
	appendTx(t, manager, "t1", "AAPL", models.SideBuy, 10, "10")
	appendTx(t, manager, "t2", "AAPL", models.SideBuy, 10, "20")
	appendTx(t, manager, "t3", "AAPL", models.SideSell, 15, "30")
	if err := manager.HoldingStore().SaveHolding(ctx, &models.Holding{
		PortfolioID: "p1", Symbol: "AAPL", Quantity: 5, AvgBuyPrice: dec("15"),
	}); err != nil {
		t.Fatalf("SaveHolding: %v", err)
	}

	d, err := svc.Dashboard(ctx)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}

	if !d.RealizedProfitLoss.Equal(dec("250")) {
		t.Errorf("realized = %s, want 250", d.RealizedProfitLoss)
	}
	// Open: 5 shares, basis 75, value 150
	if !d.UnrealizedProfitLoss.Equal(dec("75")) {
		t.Errorf("unrealized = %s, want 75", d.UnrealizedProfitLoss)
	}
	if !d.TotalPLAmount.Equal(dec("325")) {
		t.Errorf("total pl = %s, want 325", d.TotalPLAmount)
	}
	// Invested: open basis 75 + sold basis 200
	if !d.TotalInvested.Equal(dec("275")) {
		t.Errorf("invested = %s, want 275", d.TotalInvested)
	}
	if !d.AccountBalance.Equal(dec("5000")) {
		t.Errorf("balance = %s, want 5000", d.AccountBalance)
	}
	if d.TotalHoldings != 1 {
		t.Errorf("holdings = %d, want 1", d.TotalHoldings)
	}
	if len(d.Portfolios) != 1 || d.Portfolios[0].HoldingsCount != 1 {
		t.Errorf("portfolios = %+v", d.Portfolios)
	}
	if !d.Portfolios[0].TotalValue.Equal(dec("150")) {
		t.Errorf("portfolio value = %s, want 150", d.Portfolios[0].TotalValue)
	}
	if len(d.RecentTransactions) != 3 {
		t.Errorf("recent = %d, want 3", len(d.RecentTransactions))
	}
	// Newest first
	if d.RecentTransactions[0].ID != "t3" {
		t.Errorf("recent[0] = %s, want t3", d.RecentTransactions[0].ID)
	}
}
