package ledgerdb

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/timshannon/badgerhold/v4"

	"github.com/mbeckett/paperfolio/internal/models"
)

// balanceKey is the fixed record key for the single cash register.
const balanceKey = "account"

// GetBalance returns the cash register. A ledger that was never seeded reads
// as a zero balance rather than an error.
func (s *Store) GetBalance(_ context.Context) (*models.AccountBalance, error) {
	var b models.AccountBalance
	if err := s.db.Get(balanceKey, &b); err != nil {
		if err == badgerhold.ErrNotFound {
			return &models.AccountBalance{Balance: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("failed to get account balance: %w", err)
	}
	return &b, nil
}

func (s *Store) SetBalance(_ context.Context, balance decimal.Decimal, at time.Time) error {
	b := &models.AccountBalance{Balance: balance, UpdatedAt: at}
	if err := s.db.Upsert(balanceKey, b); err != nil {
		return fmt.Errorf("failed to set account balance: %w", err)
	}
	s.logger.Debug().Str("balance", balance.StringFixed(2)).Msg("Account balance updated")
	return nil
}
