package portfolio

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mbeckett/paperfolio/internal/common"
	"github.com/mbeckett/paperfolio/internal/models"
	"github.com/mbeckett/paperfolio/internal/services/market"
	"github.com/mbeckett/paperfolio/internal/services/networth"
	"github.com/mbeckett/paperfolio/internal/services/trade"
	"github.com/mbeckett/paperfolio/internal/storage"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

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

func TestCreatePortfolio(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	p, err := svc.CreatePortfolio(ctx, "  Growth  ", "long term")
	if err != nil {
		t.Fatalf("CreatePortfolio: %v", err)
	}
	if p.ID == "" {
		t.Error("id not assigned")
	}
	if p.Name != "Growth" {
		t.Errorf("name = %q, want trimmed Growth", p.Name)
	}

	if _, err := svc.CreatePortfolio(ctx, "Growth", ""); !errors.Is(err, models.ErrPortfolioExists) {
		t.Errorf("duplicate name = %v, want ErrPortfolioExists", err)
	}
	if _, err := svc.CreatePortfolio(ctx, "   ", ""); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("blank name = %v, want ErrInvalidInput", err)
	}
}

func TestGetPortfolioDetail(t *testing.T) {
	svc, manager := newTestService(t)
	ctx := context.Background()

	p, err := svc.CreatePortfolio(ctx, "Growth", "")
	if err != nil {
		t.Fatalf("CreatePortfolio: %v", err)
	}
	if err := manager.StockStore().SaveStock(ctx, &models.Stock{
		Symbol: "AAPL", Name: "Apple Inc.", CurrentPrice: dec("150"),
	}); err != nil {
		t.Fatalf("SaveStock: %v", err)
	}
	if err := manager.HoldingStore().SaveHolding(ctx, &models.Holding{
		PortfolioID: p.ID, Symbol: "AAPL", Quantity: 10, AvgBuyPrice: dec("100"),
	}); err != nil {
		t.Fatalf("SaveHolding: %v", err)
	}
	if err := manager.TransactionStore().Append(ctx, &models.Transaction{
		ID: "t1", PortfolioID: p.ID, Symbol: "AAPL", Side: models.SideBuy,
		Quantity: 10, Price: dec("100"), Timestamp: time.Now().UTC(),
	}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	detail, err := svc.GetPortfolio(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetPortfolio: %v", err)
	}
	if len(detail.Holdings) != 1 {
		t.Fatalf("holdings = %d, want 1", len(detail.Holdings))
	}
	h := detail.Holdings[0]
	if h.Name != "Apple Inc." {
		t.Errorf("name = %q, want Apple Inc.", h.Name)
	}
	if !h.CurrentValue.Equal(dec("1500")) {
		t.Errorf("current value = %s, want 1500", h.CurrentValue)
	}
	if !h.ProfitLoss.Equal(dec("500")) {
		t.Errorf("profit loss = %s, want 500", h.ProfitLoss)
	}
	if len(detail.Transactions) != 1 {
		t.Errorf("transactions = %d, want 1", len(detail.Transactions))
	}

	if _, err := svc.GetPortfolio(ctx, "missing"); !errors.Is(err, models.ErrPortfolioNotFound) {
		t.Errorf("GetPortfolio(missing) = %v, want ErrPortfolioNotFound", err)
	}
}

func TestListPortfoliosWithValues(t *testing.T) {
	svc, manager := newTestService(t)
	ctx := context.Background()

	p1, _ := svc.CreatePortfolio(ctx, "Alpha", "")
	if _, err := svc.CreatePortfolio(ctx, "Beta", ""); err != nil {
		t.Fatalf("CreatePortfolio: %v", err)
	}
	if err := manager.StockStore().SaveStock(ctx, &models.Stock{
		Symbol: "AAPL", Name: "Apple Inc.", CurrentPrice: dec("100"),
	}); err != nil {
		t.Fatalf("SaveStock: %v", err)
	}
	if err := manager.HoldingStore().SaveHolding(ctx, &models.Holding{
		PortfolioID: p1.ID, Symbol: "AAPL", Quantity: 2, AvgBuyPrice: dec("90"),
	}); err != nil {
		t.Fatalf("SaveHolding: %v", err)
	}

	summaries, err := svc.ListPortfolios(ctx)
	if err != nil {
		t.Fatalf("ListPortfolios: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("len = %d, want 2", len(summaries))
	}
	// Sorted by name
	if summaries[0].Name != "Alpha" || summaries[1].Name != "Beta" {
		t.Errorf("order = %s, %s", summaries[0].Name, summaries[1].Name)
	}
	if summaries[0].HoldingsCount != 1 || !summaries[0].TotalValue.Equal(dec("200")) {
		t.Errorf("Alpha summary = %+v", summaries[0])
	}
	if summaries[1].HoldingsCount != 0 || !summaries[1].TotalValue.IsZero() {
		t.Errorf("Beta summary = %+v", summaries[1])
	}
}

func TestDeletePortfolioCascadesHoldingsKeepsTransactions(t *testing.T) {
	svc, manager := newTestService(t)
	ctx := context.Background()

	p, _ := svc.CreatePortfolio(ctx, "Growth", "")
	if err := manager.HoldingStore().SaveHolding(ctx, &models.Holding{
		PortfolioID: p.ID, Symbol: "AAPL", Quantity: 10, AvgBuyPrice: dec("100"),
	}); err != nil {
		t.Fatalf("SaveHolding: %v", err)
	}
	if err := manager.TransactionStore().Append(ctx, &models.Transaction{
		ID: "t1", PortfolioID: p.ID, Symbol: "AAPL", Side: models.SideBuy,
		Quantity: 10, Price: dec("100"), Timestamp: time.Now().UTC(),
	}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	if err := svc.DeletePortfolio(ctx, p.ID); err != nil {
		t.Fatalf("DeletePortfolio: %v", err)
	}

	holdings, _ := manager.HoldingStore().ListAllHoldings(ctx)
	if len(holdings) != 0 {
		t.Errorf("holdings = %d after delete, want 0", len(holdings))
	}
	// The log is history and survives the delete
	txs, _ := manager.TransactionStore().ListAll(ctx)
	if len(txs) != 1 {
		t.Errorf("transactions = %d after delete, want 1", len(txs))
	}

	if err := svc.DeletePortfolio(ctx, p.ID); !errors.Is(err, models.ErrPortfolioNotFound) {
		t.Errorf("second delete = %v, want ErrPortfolioNotFound", err)
	}
}

func TestPortfolioValue(t *testing.T) {
	svc, manager := newTestService(t)
	ctx := context.Background()

	p, _ := svc.CreatePortfolio(ctx, "Growth", "")
	if err := manager.StockStore().SaveStock(ctx, &models.Stock{
		Symbol: "AAPL", Name: "Apple Inc.", CurrentPrice: dec("100"),
	}); err != nil {
		t.Fatalf("SaveStock: %v", err)
	}
	if err := manager.HoldingStore().SaveHolding(ctx, &models.Holding{
		PortfolioID: p.ID, Symbol: "AAPL", Quantity: 7, AvgBuyPrice: dec("90"),
	}); err != nil {
		t.Fatalf("SaveHolding: %v", err)
	}

	value, err := svc.PortfolioValue(ctx, p.ID)
	if err != nil {
		t.Fatalf("PortfolioValue: %v", err)
	}
	if !value.Equal(dec("700")) {
		t.Errorf("value = %s, want 700", value)
	}

	if _, err := svc.PortfolioValue(ctx, "missing"); !errors.Is(err, models.ErrPortfolioNotFound) {
		t.Errorf("PortfolioValue(missing) = %v, want ErrPortfolioNotFound", err)
	}
}

func TestDeleteSerializesAgainstTrades(t *testing.T) {
	svc, manager := newTestService(t)
	ctx := context.Background()

	marketService := market.NewService(manager, nil, common.NewSilentLogger())
	netWorthService := networth.NewService(manager, marketService, common.NewSilentLogger())
	tradeService := trade.NewService(manager, netWorthService, common.NewSilentLogger())

	if err := manager.StockStore().SaveStock(ctx, &models.Stock{
		Symbol: "AAPL", Name: "Apple Inc.", CurrentPrice: dec("100"),
	}); err != nil {
		t.Fatalf("SaveStock: %v", err)
	}
	if err := manager.BalanceStore().SetBalance(ctx, dec("1000000"), time.Now().UTC()); err != nil {
		t.Fatalf("SetBalance: %v", err)
	}
	p, err := svc.CreatePortfolio(ctx, "Doomed", "")
	if err != nil {
		t.Fatalf("CreatePortfolio: %v", err)
	}

	// Trades racing the delete either land before the cascade or fail the
	// portfolio check; neither may leave a holding behind.
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tradeService.Buy(ctx, p.ID, "AAPL", 1, dec("100"))
		}()
	}
	if err := svc.DeletePortfolio(ctx, p.ID); err != nil {
		t.Fatalf("DeletePortfolio: %v", err)
	}
	wg.Wait()

	holdings, err := manager.HoldingStore().ListHoldings(ctx, p.ID)
	if err != nil {
		t.Fatalf("ListHoldings: %v", err)
	}
	if len(holdings) != 0 {
		t.Errorf("holdings = %+v, want none after delete", holdings)
	}
}
