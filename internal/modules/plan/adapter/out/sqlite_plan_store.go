package out

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"mih/internal/modules/plan/domain"
	planout "mih/internal/modules/plan/port/out"
	apperrors "mih/internal/platform/errors"
)

const listLimit = 100

// SQLitePlanStore persists goals and plans. Focus areas and goal images are
// stored as JSON blobs, mirroring the wire shape.
type SQLitePlanStore struct {
	db *sql.DB
}

func NewSQLitePlanStore(db *sql.DB) (*SQLitePlanStore, error) {
	store := &SQLitePlanStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

var _ planout.GoalStore = (*SQLitePlanStore)(nil)
var _ planout.PlanStore = (*SQLitePlanStore)(nil)

func (s *SQLitePlanStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS goals (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  raw_input TEXT NOT NULL,
  images TEXT NOT NULL,
  timeline TEXT NOT NULL,
  created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_goals_user ON goals(user_id);

CREATE TABLE IF NOT EXISTS plans (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  goal_id TEXT NOT NULL,
  focus_areas TEXT NOT NULL,
  timeline TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'active',
  created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_plans_user ON plans(user_id);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create plan tables: %w", err)
	}
	return nil
}

func (s *SQLitePlanStore) SaveGoal(ctx context.Context, goal domain.Goal) error {
	images, err := json.Marshal(goal.Images)
	if err != nil {
		return fmt.Errorf("marshal goal images: %w", err)
	}
	const stmt = `INSERT INTO goals (id, user_id, raw_input, images, timeline, created_at) VALUES (?, ?, ?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, stmt,
		goal.ID, goal.UserID, goal.RawInput, string(images), goal.Timeline,
		goal.CreatedAt.UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("insert goal: %w", err)
	}
	return nil
}

func (s *SQLitePlanStore) SavePlan(ctx context.Context, plan domain.Plan) error {
	areas, err := json.Marshal(plan.FocusAreas)
	if err != nil {
		return fmt.Errorf("marshal focus areas: %w", err)
	}
	const stmt = `INSERT INTO plans (id, user_id, goal_id, focus_areas, timeline, status, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, stmt,
		plan.ID, plan.UserID, plan.GoalID, string(areas), plan.Timeline, plan.Status,
		plan.CreatedAt.UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("insert plan: %w", err)
	}
	return nil
}

func (s *SQLitePlanStore) PlansByUser(ctx context.Context, userID string) ([]domain.Plan, error) {
	const stmt = `
SELECT id, user_id, goal_id, focus_areas, timeline, status, created_at
FROM plans WHERE user_id = ? ORDER BY created_at DESC LIMIT ?`
	return s.queryPlans(ctx, stmt, userID, listLimit)
}

func (s *SQLitePlanStore) ActivePlans(ctx context.Context, userID string) ([]domain.Plan, error) {
	const stmt = `
SELECT id, user_id, goal_id, focus_areas, timeline, status, created_at
FROM plans WHERE user_id = ? AND status = 'active' ORDER BY created_at ASC LIMIT ?`
	return s.queryPlans(ctx, stmt, userID, listLimit)
}

func (s *SQLitePlanStore) CurrentPlan(ctx context.Context, userID string) (domain.Plan, error) {
	const stmt = `
SELECT id, user_id, goal_id, focus_areas, timeline, status, created_at
FROM plans WHERE user_id = ? AND status = 'active' ORDER BY created_at DESC LIMIT 1`
	plans, err := s.queryPlans(ctx, stmt, userID)
	if err != nil {
		return domain.Plan{}, err
	}
	if len(plans) == 0 {
		return domain.Plan{}, apperrors.ErrNoActivePlan
	}
	return plans[0], nil
}

func (s *SQLitePlanStore) ArchiveAll(ctx context.Context, userID string) error {
	const stmt = `UPDATE plans SET status = 'archived' WHERE user_id = ? AND status != 'archived'`
	if _, err := s.db.ExecContext(ctx, stmt, userID); err != nil {
		return fmt.Errorf("archive plans: %w", err)
	}
	return nil
}

func (s *SQLitePlanStore) queryPlans(ctx context.Context, stmt string, args ...any) ([]domain.Plan, error) {
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query plans: %w", err)
	}
	defer rows.Close()

	var plans []domain.Plan
	for rows.Next() {
		var p domain.Plan
		var areas, createdAt string
		if err := rows.Scan(&p.ID, &p.UserID, &p.GoalID, &areas, &p.Timeline, &p.Status, &createdAt); err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		if err := json.Unmarshal([]byte(areas), &p.FocusAreas); err != nil {
			return nil, fmt.Errorf("parse focus areas: %w", err)
		}
		ts, err := time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		p.CreatedAt = ts
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("iterate plans: %w", err)
	}
	return plans, nil
}
