package out

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"mih/internal/modules/daily/domain"
	dailyout "mih/internal/modules/daily/port/out"
	apperrors "mih/internal/platform/errors"
)

// SQLiteActionStore persists daily actions. Days are stored as plain
// "2006-01-02" strings so range queries are simple string comparisons.
type SQLiteActionStore struct {
	db *sql.DB
}

func NewSQLiteActionStore(db *sql.DB) (*SQLiteActionStore, error) {
	store := &SQLiteActionStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

var _ dailyout.ActionStore = (*SQLiteActionStore)(nil)

func (s *SQLiteActionStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS daily_actions (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  plan_id TEXT NOT NULL,
  focus_area TEXT NOT NULL,
  action TEXT NOT NULL,
  day TEXT NOT NULL,
  completed INTEGER NOT NULL DEFAULT 0,
  completed_at TEXT,
  rescheduled_from TEXT,
  seq INTEGER
);
CREATE INDEX IF NOT EXISTS idx_actions_user_day ON daily_actions(user_id, day);
CREATE INDEX IF NOT EXISTS idx_actions_user_plan ON daily_actions(user_id, plan_id);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create daily_actions table: %w", err)
	}
	return nil
}

func (s *SQLiteActionStore) InsertActions(ctx context.Context, actions []domain.Action) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert actions: %w", err)
	}
	defer tx.Rollback()

	const stmt = `
INSERT INTO daily_actions (id, user_id, plan_id, focus_area, action, day, completed, completed_at, rescheduled_from, seq)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM daily_actions))`
	for _, a := range actions {
		var completedAt, rescheduledFrom sql.NullString
		if a.CompletedAt != nil {
			completedAt = sql.NullString{String: a.CompletedAt.UTC().Format(time.RFC3339), Valid: true}
		}
		if a.RescheduledFrom != nil {
			rescheduledFrom = sql.NullString{String: a.RescheduledFrom.Format(domain.DayFormat), Valid: true}
		}
		if _, err := tx.ExecContext(ctx, stmt,
			a.ID, a.UserID, a.PlanID, a.FocusArea, a.Text, a.Day.Format(domain.DayFormat),
			boolToInt(a.Completed), completedAt, rescheduledFrom); err != nil {
			return fmt.Errorf("insert action: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit insert actions: %w", err)
	}
	return nil
}

func (s *SQLiteActionStore) ActionsByDay(ctx context.Context, userID string, day time.Time) ([]domain.Action, error) {
	const stmt = selectActions + ` WHERE user_id = ? AND day = ? ORDER BY seq ASC`
	return s.queryActions(ctx, stmt, userID, day.Format(domain.DayFormat))
}

func (s *SQLiteActionStore) CheckIn(ctx context.Context, userID, actionID string, completed bool, completedAt *time.Time) (domain.Action, error) {
	var stamp sql.NullString
	if completedAt != nil {
		stamp = sql.NullString{String: completedAt.UTC().Format(time.RFC3339), Valid: true}
	}
	const stmt = `UPDATE daily_actions SET completed = ?, completed_at = ? WHERE id = ? AND user_id = ?`
	res, err := s.db.ExecContext(ctx, stmt, boolToInt(completed), stamp, actionID, userID)
	if err != nil {
		return domain.Action{}, fmt.Errorf("update action: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.Action{}, fmt.Errorf("update action: %w", err)
	}
	if n == 0 {
		return domain.Action{}, fmt.Errorf("%w: action %s", apperrors.ErrNotFound, actionID)
	}

	actions, err := s.queryActions(ctx, selectActions+` WHERE id = ? AND user_id = ?`, actionID, userID)
	if err != nil {
		return domain.Action{}, err
	}
	if len(actions) == 0 {
		return domain.Action{}, fmt.Errorf("%w: action %s", apperrors.ErrNotFound, actionID)
	}
	return actions[0], nil
}

func (s *SQLiteActionStore) CompletedDays(ctx context.Context, userID string) ([]time.Time, error) {
	const stmt = `SELECT day FROM daily_actions WHERE user_id = ? AND completed = 1`
	rows, err := s.db.QueryContext(ctx, stmt, userID)
	if err != nil {
		return nil, fmt.Errorf("query completed days: %w", err)
	}
	defer rows.Close()

	var days []time.Time
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan day: %w", err)
		}
		day, err := time.Parse(domain.DayFormat, raw)
		if err != nil {
			return nil, fmt.Errorf("parse day: %w", err)
		}
		days = append(days, day)
	}
	return days, rows.Err()
}

func (s *SQLiteActionStore) FirstDay(ctx context.Context, userID, planID string) (time.Time, bool, error) {
	const stmt = `SELECT MIN(day) FROM daily_actions WHERE user_id = ? AND plan_id = ?`
	var raw sql.NullString
	if err := s.db.QueryRowContext(ctx, stmt, userID, planID).Scan(&raw); err != nil {
		return time.Time{}, false, fmt.Errorf("query first day: %w", err)
	}
	if !raw.Valid {
		return time.Time{}, false, nil
	}
	day, err := time.Parse(domain.DayFormat, raw.String)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse first day: %w", err)
	}
	return day, true, nil
}

func (s *SQLiteActionStore) ActionsSince(ctx context.Context, userID string, cutoff time.Time) ([]domain.Action, error) {
	const stmt = selectActions + ` WHERE user_id = ? AND day >= ? ORDER BY day ASC, seq ASC`
	return s.queryActions(ctx, stmt, userID, cutoff.Format(domain.DayFormat))
}

func (s *SQLiteActionStore) ActionsInRange(ctx context.Context, userID string, start, end time.Time) ([]domain.Action, error) {
	const stmt = selectActions + ` WHERE user_id = ? AND day >= ? AND day <= ? ORDER BY day ASC, seq ASC`
	return s.queryActions(ctx, stmt, userID, start.Format(domain.DayFormat), end.Format(domain.DayFormat))
}

func (s *SQLiteActionStore) DeleteAllForUser(ctx context.Context, userID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM daily_actions WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("delete actions: %w", err)
	}
	return nil
}

const selectActions = `
SELECT id, user_id, plan_id, focus_area, action, day, completed, completed_at, rescheduled_from
FROM daily_actions`

func (s *SQLiteActionStore) queryActions(ctx context.Context, stmt string, args ...any) ([]domain.Action, error) {
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query actions: %w", err)
	}
	defer rows.Close()

	var actions []domain.Action
	for rows.Next() {
		var a domain.Action
		var day string
		var completed int
		var completedAt, rescheduledFrom sql.NullString
		if err := rows.Scan(&a.ID, &a.UserID, &a.PlanID, &a.FocusArea, &a.Text, &day, &completed, &completedAt, &rescheduledFrom); err != nil {
			return nil, fmt.Errorf("scan action: %w", err)
		}
		a.Day, err = time.Parse(domain.DayFormat, day)
		if err != nil {
			return nil, fmt.Errorf("parse day: %w", err)
		}
		a.Completed = completed != 0
		if completedAt.Valid {
			ts, err := time.Parse(time.RFC3339, completedAt.String)
			if err != nil {
				return nil, fmt.Errorf("parse completed_at: %w", err)
			}
			a.CompletedAt = &ts
		}
		if rescheduledFrom.Valid {
			from, err := time.Parse(domain.DayFormat, rescheduledFrom.String)
			if err != nil {
				return nil, fmt.Errorf("parse rescheduled_from: %w", err)
			}
			a.RescheduledFrom = &from
		}
		actions = append(actions, a)
	}
	return actions, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
