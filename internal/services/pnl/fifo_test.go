package pnl

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mbeckett/paperfolio/internal/models"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func tx(seq int64, symbol string, side models.TradeSide, qty int64, price string) *models.Transaction {
	return &models.Transaction{
		ID:          fmtSeq(seq),
		PortfolioID: "p1",
		Symbol:      symbol,
		Side:        side,
		Quantity:    qty,
		Price:       dec(price),
		Timestamp:   time.Now().UTC(),
		Seq:         seq,
	}
}

func fmtSeq(seq int64) string {
	return "tx-" + decimal.NewFromInt(seq).String()
}

func TestReplayFIFOAcrossLots(t *testing.T) {
	// Two buy lots, one sell straddling them: 10@10 + 10@20, sell 15@30.
	// FIFO basis = 10*10 + 5*20 = 200, proceeds = 450, profit = 250.
	log := []*models.Transaction{
		tx(1, "AAPL", models.SideBuy, 10, "10"),
		tx(2, "AAPL", models.SideBuy, 10, "20"),
		tx(3, "AAPL", models.SideSell, 15, "30"),
	}

	pl := replay(log)
	if !pl.TotalSoldCostBasis.Equal(dec("200")) {
		t.Errorf("basis = %s, want 200", pl.TotalSoldCostBasis)
	}
	if !pl.TotalSoldValue.Equal(dec("450")) {
		t.Errorf("sold value = %s, want 450", pl.TotalSoldValue)
	}
	if !pl.Amount.Equal(dec("250")) {
		t.Errorf("profit = %s, want 250", pl.Amount)
	}
	if !pl.Percentage.Equal(dec("125")) {
		t.Errorf("percentage = %s, want 125", pl.Percentage)
	}
}

func TestReplayLotsMatchedPerSymbol(t *testing.T) {
	// A sell of MSFT must never consume AAPL lots.
	log := []*models.Transaction{
		tx(1, "AAPL", models.SideBuy, 10, "5"),
		tx(2, "MSFT", models.SideBuy, 10, "100"),
		tx(3, "MSFT", models.SideSell, 10, "110"),
	}

	pl := replay(log)
	if !pl.TotalSoldCostBasis.Equal(dec("1000")) {
		t.Errorf("basis = %s, want 1000", pl.TotalSoldCostBasis)
	}
	if !pl.Amount.Equal(dec("100")) {
		t.Errorf("profit = %s, want 100", pl.Amount)
	}
}

func TestReplayQueueExhaustion(t *testing.T) {
	// Shares sold beyond recorded buys carry zero basis.
	log := []*models.Transaction{
		tx(1, "AAPL", models.SideBuy, 5, "10"),
		tx(2, "AAPL", models.SideSell, 8, "20"),
	}

	pl := replay(log)
	if !pl.TotalSoldCostBasis.Equal(dec("50")) {
		t.Errorf("basis = %s, want 50", pl.TotalSoldCostBasis)
	}
	if !pl.TotalSoldValue.Equal(dec("160")) {
		t.Errorf("sold value = %s, want 160", pl.TotalSoldValue)
	}
	if !pl.Amount.Equal(dec("110")) {
		t.Errorf("profit = %s, want 110", pl.Amount)
	}
}

func TestReplayNothingSold(t *testing.T) {
	log := []*models.Transaction{
		tx(1, "AAPL", models.SideBuy, 10, "10"),
	}

	pl := replay(log)
	if !pl.Amount.IsZero() || !pl.Percentage.IsZero() {
		t.Errorf("pl = %+v, want all zero", pl)
	}
}

func TestReplayEmptyLog(t *testing.T) {
	pl := replay(nil)
	if !pl.Amount.IsZero() || !pl.TotalSoldValue.IsZero() || !pl.TotalSoldCostBasis.IsZero() {
		t.Errorf("pl = %+v, want all zero", pl)
	}
}

func TestReplayRepeatedPartialSells(t *testing.T) {
	// Sells walk through one lot in pieces, then into the next.
	log := []*models.Transaction{
		tx(1, "AAPL", models.SideBuy, 10, "10"),
		tx(2, "AAPL", models.SideBuy, 10, "30"),
		tx(3, "AAPL", models.SideSell, 5, "20"),
		tx(4, "AAPL", models.SideSell, 5, "20"),
		tx(5, "AAPL", models.SideSell, 5, "20"),
	}

	pl := replay(log)
	// Basis: 5*10 + 5*10 + 5*30 = 250; proceeds 300
	if !pl.TotalSoldCostBasis.Equal(dec("250")) {
		t.Errorf("basis = %s, want 250", pl.TotalSoldCostBasis)
	}
	if !pl.Amount.Equal(dec("50")) {
		t.Errorf("profit = %s, want 50", pl.Amount)
	}
}

func TestLotQueueSellExact(t *testing.T) {
	q := &lotQueue{}
	q.push(10, dec("10"))
	cost := q.sell(10)
	if !cost.Equal(dec("100")) {
		t.Errorf("cost = %s, want 100", cost)
	}
	if len(q.lots) != 0 {
		t.Errorf("lots remaining = %d, want 0", len(q.lots))
	}
}
