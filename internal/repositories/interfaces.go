package repositories

import (
	"context"
	"errors"

	"github.com/chrisdamba/nutriparse/internal/models"
)

var ErrPlanNotFound = errors.New("plan not found")

// PlanRepository stores parsed plans as a JSON document plus one row per option.
type PlanRepository interface {
	EnsureSchema(ctx context.Context) error
	Create(ctx context.Context, plan *models.StoredPlan) error
	Get(ctx context.Context, id string) (*models.StoredPlan, error)
	List(ctx context.Context, limit int) ([]*models.StoredPlan, error)
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) error
	Close() error
}
