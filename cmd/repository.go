package cmd

import (
	"context"
	"fmt"

	"github.com/chrisdamba/nutriparse/internal/models"
	"github.com/chrisdamba/nutriparse/internal/repositories"
	"github.com/chrisdamba/nutriparse/internal/repositories/postgres"
	"github.com/chrisdamba/nutriparse/internal/repositories/sqlite"
)

// openRepository returns nil when no database is configured.
func openRepository(ctx context.Context, cfg *models.Config) (repositories.PlanRepository, error) {
	if cfg.Database.DSN == "" {
		return nil, nil
	}

	var (
		repo repositories.PlanRepository
		err  error
	)
	switch cfg.Database.Driver {
	case "", "sqlite":
		repo, err = sqlite.Open(cfg.Database.DSN)
	case "postgres", "postgresql":
		repo, err = postgres.Open(ctx, cfg.Database.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Database.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open plan store: %w", err)
	}

	if err := repo.EnsureSchema(ctx); err != nil {
		repo.Close()
		return nil, fmt.Errorf("failed to prepare plan store: %w", err)
	}
	return repo, nil
}
