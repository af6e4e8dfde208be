// Package ledgerdb implements the ledger database using BadgerHold.
// It holds the stock and portfolio registries, the mutable holdings aggregate,
// the append-only transaction log, the cash balance register, and the
// net-worth history.
package ledgerdb

import (
	"fmt"
	"os"
	"sync/atomic"

	"github.com/timshannon/badgerhold/v4"

	"github.com/mbeckett/paperfolio/internal/common"
	"github.com/mbeckett/paperfolio/internal/models"
)

// keySep is the composite key separator for holding records. A null byte
// cannot appear in a portfolio id or a symbol, so (portfolio, symbol) pairs
// always produce distinct keys.
const keySep = "\x00"

// Store implements all ledger store interfaces on one BadgerHold database.
type Store struct {
	db     *badgerhold.Store
	logger *common.Logger

	txSeq   atomic.Int64 // last assigned transaction log sequence
	snapSeq atomic.Int64 // last assigned snapshot sequence
}

// NewStore opens (or creates) the ledger database at path.
func NewStore(logger *common.Logger, path string) (*Store, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create ledger db path %s: %w", path, err)
	}
	opts := badgerhold.DefaultOptions
	opts.Dir = path
	opts.ValueDir = path
	opts.Logger = nil
	db, err := badgerhold.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger db at %s: %w", path, err)
	}

	s := &Store{db: db, logger: logger}
	if err := s.loadSequences(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info().Str("path", path).Msg("Ledger database opened")
	return s, nil
}

// loadSequences restores the log sequence counters from the stored records so
// ordering survives restarts.
func (s *Store) loadSequences() error {
	var txs []models.Transaction
	if err := s.db.Find(&txs, nil); err != nil {
		return fmt.Errorf("failed to scan transaction log: %w", err)
	}
	for _, tx := range txs {
		if tx.Seq > s.txSeq.Load() {
			s.txSeq.Store(tx.Seq)
		}
	}

	var snaps []models.NetWorthSnapshot
	if err := s.db.Find(&snaps, nil); err != nil {
		return fmt.Errorf("failed to scan net-worth history: %w", err)
	}
	for _, snap := range snaps {
		if snap.Seq > s.snapSeq.Load() {
			s.snapSeq.Store(snap.Seq)
		}
	}
	return nil
}

// Close shuts down the BadgerHold database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
