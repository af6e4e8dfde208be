// Package storage provides the top-level StorageManager over the ledger
// database.
package storage

import (
	"fmt"
	"sync"

	"github.com/mbeckett/paperfolio/internal/common"
	"github.com/mbeckett/paperfolio/internal/interfaces"
	"github.com/mbeckett/paperfolio/internal/storage/ledgerdb"
)

// Manager implements interfaces.StorageManager. All six stores share the one
// ledger database so a single Close releases everything. The manager also
// owns the ledger write lock: validate-then-write sequences in different
// services must serialize against each other, not just within one service.
type Manager struct {
	ledger *ledgerdb.Store
	logger *common.Logger

	mu sync.Mutex
}

// NewManager opens the ledger database at the configured path.
func NewManager(logger *common.Logger, config *common.Config) (*Manager, error) {
	ledger, err := ledgerdb.NewStore(logger, config.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger store: %w", err)
	}

	logger.Info().
		Str("path", config.Storage.Path).
		Msg("Storage manager initialized")

	return &Manager{
		ledger: ledger,
		logger: logger,
	}, nil
}

func (m *Manager) StockStore() interfaces.StockStore {
	return m.ledger
}

func (m *Manager) PortfolioStore() interfaces.PortfolioStore {
	return m.ledger
}

func (m *Manager) HoldingStore() interfaces.HoldingStore {
	return m.ledger
}

func (m *Manager) TransactionStore() interfaces.TransactionStore {
	return m.ledger
}

func (m *Manager) BalanceStore() interfaces.BalanceStore {
	return m.ledger
}

func (m *Manager) NetWorthStore() interfaces.NetWorthStore {
	return m.ledger
}

func (m *Manager) LedgerLock() sync.Locker {
	return &m.mu
}

func (m *Manager) Close() error {
	return m.ledger.Close()
}

// Compile-time check
var _ interfaces.StorageManager = (*Manager)(nil)
