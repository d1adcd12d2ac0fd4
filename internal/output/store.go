package output

import (
	"context"
	"fmt"

	"github.com/chrisdamba/nutriparse/internal/models"
	"github.com/chrisdamba/nutriparse/internal/repositories"
)

// StoreOutput saves plans through a repository it does not own.
type StoreOutput struct {
	repo repositories.PlanRepository
}

func NewStoreOutput(repo repositories.PlanRepository) *StoreOutput {
	return &StoreOutput{repo: repo}
}

func (s *StoreOutput) WritePlan(ctx context.Context, rec *models.StoredPlan) error {
	if err := s.repo.Create(ctx, rec); err != nil {
		return fmt.Errorf("failed to store plan %s: %w", rec.ID, err)
	}
	return nil
}

func (s *StoreOutput) Close() error { return nil }
