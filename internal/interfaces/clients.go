// Package interfaces defines service contracts for Paperfolio
package interfaces

import (
	"context"

	"github.com/shopspring/decimal"
)

// QuoteClient resolves the next market price for a symbol. The catalog refresh
// loop calls it outside any ledger lock; trade requests always carry
// already-resolved prices and never block on a quote lookup.
type QuoteClient interface {
	// Quote returns the next price for symbol given its last known price.
	Quote(ctx context.Context, symbol string, last decimal.Decimal) (decimal.Decimal, error)
}
