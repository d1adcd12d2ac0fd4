package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/chrisdamba/nutriparse/internal/models"
	"github.com/chrisdamba/nutriparse/internal/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS plans (
    id           TEXT PRIMARY KEY,
    source       TEXT NOT NULL,
    user_email   TEXT NOT NULL,
    plan_name    TEXT NOT NULL,
    created_date TEXT NOT NULL,
    document     JSONB NOT NULL,
    stored_at    TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS plan_options (
    plan_id      TEXT NOT NULL REFERENCES plans(id) ON DELETE CASCADE,
    meal         TEXT NOT NULL,
    slot         TEXT NOT NULL,
    position     INTEGER NOT NULL,
    option_id    TEXT NOT NULL,
    name         TEXT NOT NULL,
    qty          BIGINT NOT NULL,
    unit         TEXT NOT NULL,
    visual_help  TEXT NOT NULL,
    carb_cycling BOOLEAN NOT NULL,
    PRIMARY KEY (plan_id, meal, slot, position)
);

CREATE INDEX IF NOT EXISTS idx_plans_user_email ON plans(user_email);
CREATE INDEX IF NOT EXISTS idx_plans_stored_at ON plans(stored_at);
`

type PlanRepository struct {
	pool *pgxpool.Pool
}

func NewPlanRepository(pool *pgxpool.Pool) *PlanRepository {
	return &PlanRepository{pool: pool}
}

// Open connects to dsn and verifies the connection.
func Open(ctx context.Context, dsn string) (*PlanRepository, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("error pinging database: %w", err)
	}
	return NewPlanRepository(pool), nil
}

func (r *PlanRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, schema)
	return err
}

func (r *PlanRepository) Create(ctx context.Context, stored *models.StoredPlan) error {
	document, err := json.Marshal(stored.Plan)
	if err != nil {
		return fmt.Errorf("failed to encode plan: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
        INSERT INTO plans (id, source, user_email, plan_name, created_date, document, stored_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		stored.ID,
		stored.Source,
		stored.Plan.UserEmail,
		stored.Plan.PlanName,
		stored.Plan.CreatedDate,
		document,
		stored.StoredAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert plan: %w", err)
	}

	records := stored.Plan.OptionRecords(stored.ID)
	_, err = tx.CopyFrom(
		ctx,
		pgx.Identifier{"plan_options"},
		[]string{
			"plan_id", "meal", "slot", "position", "option_id", "name",
			"qty", "unit", "visual_help", "carb_cycling",
		},
		pgx.CopyFromSlice(len(records), func(i int) ([]interface{}, error) {
			return []interface{}{
				records[i].PlanID,
				records[i].Meal,
				records[i].Slot,
				records[i].Position,
				records[i].OptionID,
				records[i].Name,
				records[i].Qty,
				records[i].Unit,
				records[i].VisualHelp,
				records[i].CarbCycling,
			}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to copy plan options: %w", err)
	}

	return tx.Commit(ctx)
}

func scanPlan(row pgx.Row) (*models.StoredPlan, error) {
	var (
		stored   models.StoredPlan
		document []byte
		storedAt time.Time
	)
	if err := row.Scan(&stored.ID, &stored.Source, &document, &storedAt); err != nil {
		return nil, err
	}
	stored.StoredAt = storedAt
	stored.Plan = &models.Plan{}
	if err := json.Unmarshal(document, stored.Plan); err != nil {
		return nil, fmt.Errorf("failed to decode plan %s: %w", stored.ID, err)
	}
	return &stored, nil
}

func (r *PlanRepository) Get(ctx context.Context, id string) (*models.StoredPlan, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, source, document, stored_at FROM plans WHERE id = $1`, id)
	stored, err := scanPlan(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repositories.ErrPlanNotFound
	}
	return stored, err
}

func (r *PlanRepository) List(ctx context.Context, limit int) ([]*models.StoredPlan, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.pool.Query(ctx, `
        SELECT id, source, document, stored_at
        FROM plans
        ORDER BY stored_at DESC, id DESC
        LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []*models.StoredPlan
	for rows.Next() {
		stored, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, stored)
	}
	return plans, rows.Err()
}

func (r *PlanRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM plans").Scan(&count)
	return count, err
}

func (r *PlanRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, "TRUNCATE TABLE plans CASCADE")
	return err
}

func (r *PlanRepository) Close() error {
	r.pool.Close()
	return nil
}

var _ repositories.PlanRepository = (*PlanRepository)(nil)
