package ledgerdb

import (
	"context"
	"fmt"
	"sort"

	"github.com/timshannon/badgerhold/v4"

	"github.com/mbeckett/paperfolio/internal/models"
)

// --- Transaction log ---

// Append inserts one immutable log entry and assigns its sequence number.
// Entries are never updated or deleted afterwards.
func (s *Store) Append(_ context.Context, tx *models.Transaction) error {
	if tx.ID == "" {
		return fmt.Errorf("transaction id is required: %w", models.ErrInvalidInput)
	}
	tx.Symbol = models.NormalizeSymbol(tx.Symbol)
	tx.Seq = s.txSeq.Add(1)
	if err := s.db.Insert(tx.ID, tx); err != nil {
		return fmt.Errorf("failed to append transaction %s: %w", tx.ID, err)
	}
	s.logger.Debug().
		Str("id", tx.ID).
		Str("symbol", tx.Symbol).
		Str("side", string(tx.Side)).
		Int64("seq", tx.Seq).
		Msg("Transaction appended")
	return nil
}

// ListAll returns the full log in sequence order, oldest first. This is the
// replay input for the FIFO realized-P&L engine.
func (s *Store) ListAll(_ context.Context) ([]*models.Transaction, error) {
	var txs []models.Transaction
	if err := s.db.Find(&txs, nil); err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	sort.Slice(txs, func(i, j int) bool { return txs[i].Seq < txs[j].Seq })
	return txPtrs(txs), nil
}

// ListRecent returns up to limit entries, newest first.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]*models.Transaction, error) {
	return s.listNewest(ctx, nil, limit)
}

func (s *Store) ListByPortfolio(ctx context.Context, portfolioID string, limit int) ([]*models.Transaction, error) {
	return s.listNewest(ctx, badgerhold.Where("PortfolioID").Eq(portfolioID), limit)
}

func (s *Store) ListBySymbol(ctx context.Context, symbol string, limit int) ([]*models.Transaction, error) {
	return s.listNewest(ctx, badgerhold.Where("Symbol").Eq(models.NormalizeSymbol(symbol)), limit)
}

func (s *Store) listNewest(_ context.Context, query *badgerhold.Query, limit int) ([]*models.Transaction, error) {
	var txs []models.Transaction
	if err := s.db.Find(&txs, query); err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	sort.Slice(txs, func(i, j int) bool { return txs[i].Seq > txs[j].Seq })
	if limit > 0 && len(txs) > limit {
		txs = txs[:limit]
	}
	return txPtrs(txs), nil
}

func txPtrs(txs []models.Transaction) []*models.Transaction {
	result := make([]*models.Transaction, len(txs))
	for i := range txs {
		result[i] = &txs[i]
	}
	return result
}
