package pnl

import (
	"github.com/shopspring/decimal"

	"github.com/mbeckett/paperfolio/internal/models"
)

// lot is one unconsumed buy parcel in a symbol's FIFO queue.
type lot struct {
	quantity int64
	price    decimal.Decimal
}

// lotQueue holds the open buy lots for one symbol, oldest first.
type lotQueue struct {
	lots []lot
}

func (q *lotQueue) push(quantity int64, price decimal.Decimal) {
	q.lots = append(q.lots, lot{quantity: quantity, price: price})
}

// sell consumes quantity shares from the front of the queue and returns their
// acquisition cost. Shares beyond what the queue covers carry zero cost: the
// log is trusted as-is and the remainder is treated as basis-free.
func (q *lotQueue) sell(quantity int64) decimal.Decimal {
	cost := decimal.Zero
	remaining := quantity
	for remaining > 0 && len(q.lots) > 0 {
		front := &q.lots[0]
		take := remaining
		if take > front.quantity {
			take = front.quantity
		}
		cost = cost.Add(front.price.Mul(decimal.NewFromInt(take)))
		front.quantity -= take
		remaining -= take
		if front.quantity == 0 {
			q.lots = q.lots[1:]
		}
	}
	return cost
}

// replay runs the FIFO engine over transactions already sorted in log order.
// Lots are matched per symbol across portfolios; the cash account is shared,
// so realized profit is an account-level figure.
func replay(txs []*models.Transaction) *models.RealizedPL {
	queues := make(map[string]*lotQueue)
	soldValue := decimal.Zero
	soldCost := decimal.Zero

	for _, tx := range txs {
		q, ok := queues[tx.Symbol]
		if !ok {
			q = &lotQueue{}
			queues[tx.Symbol] = q
		}
		switch tx.Side {
		case models.SideBuy:
			q.push(tx.Quantity, tx.Price)
		case models.SideSell:
			soldValue = soldValue.Add(tx.Value())
			soldCost = soldCost.Add(q.sell(tx.Quantity))
		}
	}

	result := &models.RealizedPL{
		Amount:             soldValue.Sub(soldCost),
		TotalSoldValue:     soldValue,
		TotalSoldCostBasis: soldCost,
	}
	if soldCost.IsPositive() {
		result.Percentage = result.Amount.Div(soldCost).Mul(decimal.NewFromInt(100))
	}
	return result
}
