package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/chrisdamba/nutriparse/internal/models"
	"github.com/chrisdamba/nutriparse/internal/repositories"
)

const schema = `
CREATE TABLE IF NOT EXISTS plans (
    id           TEXT PRIMARY KEY,
    source       TEXT NOT NULL,
    user_email   TEXT NOT NULL,
    plan_name    TEXT NOT NULL,
    created_date TEXT NOT NULL,
    document     TEXT NOT NULL,
    stored_at    DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS plan_options (
    plan_id      TEXT NOT NULL,
    meal         TEXT NOT NULL,
    slot         TEXT NOT NULL,
    position     INTEGER NOT NULL,
    option_id    TEXT NOT NULL,
    name         TEXT NOT NULL,
    qty          INTEGER NOT NULL,
    unit         TEXT NOT NULL,
    visual_help  TEXT NOT NULL,
    carb_cycling BOOLEAN NOT NULL,
    PRIMARY KEY (plan_id, meal, slot, position),
    FOREIGN KEY (plan_id) REFERENCES plans(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_plans_user_email ON plans(user_email);
CREATE INDEX IF NOT EXISTS idx_plans_stored_at ON plans(stored_at);
`

type PlanRepository struct {
	db *sql.DB
}

// Open opens (creating if needed) the database file at path.
func Open(path string) (*PlanRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	return &PlanRepository{db: db}, nil
}

func (r *PlanRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

func (r *PlanRepository) Create(ctx context.Context, stored *models.StoredPlan) error {
	document, err := json.Marshal(stored.Plan)
	if err != nil {
		return fmt.Errorf("failed to encode plan: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
        INSERT INTO plans (id, source, user_email, plan_name, created_date, document, stored_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)`,
		stored.ID, stored.Source, stored.Plan.UserEmail, stored.Plan.PlanName,
		stored.Plan.CreatedDate, string(document), stored.StoredAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert plan: %w", err)
	}

	optionQuery := `
        INSERT INTO plan_options (plan_id, meal, slot, position, option_id, name, qty, unit, visual_help, carb_cycling)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for _, rec := range stored.Plan.OptionRecords(stored.ID) {
		_, err = tx.ExecContext(ctx, optionQuery,
			rec.PlanID, rec.Meal, rec.Slot, rec.Position, rec.OptionID, rec.Name,
			rec.Qty, rec.Unit, rec.VisualHelp, rec.CarbCycling)
		if err != nil {
			return fmt.Errorf("failed to insert option: %w", err)
		}
	}

	return tx.Commit()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanPlan(row scanner) (*models.StoredPlan, error) {
	var (
		stored   models.StoredPlan
		document string
		storedAt time.Time
	)
	if err := row.Scan(&stored.ID, &stored.Source, &document, &storedAt); err != nil {
		return nil, err
	}
	stored.StoredAt = storedAt
	stored.Plan = &models.Plan{}
	if err := json.Unmarshal([]byte(document), stored.Plan); err != nil {
		return nil, fmt.Errorf("failed to decode plan %s: %w", stored.ID, err)
	}
	return &stored, nil
}

func (r *PlanRepository) Get(ctx context.Context, id string) (*models.StoredPlan, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, source, document, stored_at FROM plans WHERE id = ?`, id)
	stored, err := scanPlan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repositories.ErrPlanNotFound
	}
	return stored, err
}

func (r *PlanRepository) List(ctx context.Context, limit int) ([]*models.StoredPlan, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, source, document, stored_at
        FROM plans
        ORDER BY stored_at DESC, id DESC
        LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query plans: %w", err)
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

// OptionCount returns the number of option rows stored for a plan.
func (r *PlanRepository) OptionCount(ctx context.Context, planID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM plan_options WHERE plan_id = ?", planID).Scan(&count)
	return count, err
}

func (r *PlanRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM plans").Scan(&count)
	return count, err
}

func (r *PlanRepository) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM plans")
	return err
}

func (r *PlanRepository) Close() error {
	return r.db.Close()
}

var _ repositories.PlanRepository = (*PlanRepository)(nil)
