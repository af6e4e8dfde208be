package ledgerdb

import (
	"context"
	"fmt"
	"sort"

	"github.com/mbeckett/paperfolio/internal/models"
)

// Append inserts one history row. The history is append-only: one row per
// executed trade, never deduplicated by date.
func (s *Store) AppendSnapshot(_ context.Context, snap *models.NetWorthSnapshot) error {
	if snap.ID == "" {
		return fmt.Errorf("snapshot id is required: %w", models.ErrInvalidInput)
	}
	snap.Seq = s.snapSeq.Add(1)
	if err := s.db.Insert(snap.ID, snap); err != nil {
		return fmt.Errorf("failed to append net-worth snapshot: %w", err)
	}
	return nil
}

// ListRecentSnapshots returns up to limit rows in chronological order. The
// newest rows are selected first, then re-sorted oldest first for charting.
func (s *Store) ListRecentSnapshots(_ context.Context, limit int) ([]*models.NetWorthSnapshot, error) {
	var snaps []models.NetWorthSnapshot
	if err := s.db.Find(&snaps, nil); err != nil {
		return nil, fmt.Errorf("failed to list net-worth history: %w", err)
	}
	sort.Slice(snaps, func(i, j int) bool { return snaps[i].Seq > snaps[j].Seq })
	if limit > 0 && len(snaps) > limit {
		snaps = snaps[:limit]
	}
	sort.Slice(snaps, func(i, j int) bool { return snaps[i].Seq < snaps[j].Seq })

	result := make([]*models.NetWorthSnapshot, len(snaps))
	for i := range snaps {
		result[i] = &snaps[i]
	}
	return result, nil
}
