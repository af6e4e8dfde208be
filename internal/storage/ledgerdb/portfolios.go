package ledgerdb

import (
	"context"
	"fmt"

	"github.com/timshannon/badgerhold/v4"

	"github.com/mbeckett/paperfolio/internal/models"
)

// --- Portfolio registry ---

func (s *Store) GetPortfolio(_ context.Context, id string) (*models.Portfolio, error) {
	var p models.Portfolio
	if err := s.db.Get(id, &p); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("portfolio '%s': %w", id, models.ErrPortfolioNotFound)
		}
		return nil, fmt.Errorf("failed to get portfolio '%s': %w", id, err)
	}
	return &p, nil
}

func (s *Store) GetPortfolioByName(_ context.Context, name string) (*models.Portfolio, error) {
	var matches []models.Portfolio
	if err := s.db.Find(&matches, badgerhold.Where("Name").Eq(name)); err != nil {
		return nil, fmt.Errorf("failed to look up portfolio '%s': %w", name, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("portfolio '%s': %w", name, models.ErrPortfolioNotFound)
	}
	return &matches[0], nil
}

func (s *Store) SavePortfolio(_ context.Context, p *models.Portfolio) error {
	if p.ID == "" {
		return fmt.Errorf("portfolio id is required: %w", models.ErrInvalidInput)
	}
	if err := s.db.Upsert(p.ID, p); err != nil {
		return fmt.Errorf("failed to save portfolio '%s': %w", p.Name, err)
	}
	s.logger.Debug().Str("id", p.ID).Str("name", p.Name).Msg("Portfolio saved")
	return nil
}

func (s *Store) ListPortfolios(_ context.Context) ([]*models.Portfolio, error) {
	var portfolios []models.Portfolio
	query := badgerhold.Where(badgerhold.Key).Ne("").SortBy("Name")
	if err := s.db.Find(&portfolios, query); err != nil {
		return nil, fmt.Errorf("failed to list portfolios: %w", err)
	}
	result := make([]*models.Portfolio, len(portfolios))
	for i := range portfolios {
		result[i] = &portfolios[i]
	}
	return result, nil
}

func (s *Store) DeletePortfolio(_ context.Context, id string) error {
	if err := s.db.Delete(id, models.Portfolio{}); err != nil {
		if err == badgerhold.ErrNotFound {
			return fmt.Errorf("portfolio '%s': %w", id, models.ErrPortfolioNotFound)
		}
		return fmt.Errorf("failed to delete portfolio '%s': %w", id, err)
	}
	s.logger.Debug().Str("id", id).Msg("Portfolio deleted")
	return nil
}
