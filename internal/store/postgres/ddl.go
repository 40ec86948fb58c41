package postgres

import (
	"context"
	"database/sql"
)

// DDL is the reference schema. Deployments normally apply it through
// compose migrations; EnsureSchema exists for dev environments.
const DDL = `
CREATE TABLE IF NOT EXISTS habits (
    habit_id      TEXT PRIMARY KEY,
    user_id       TEXT NOT NULL,
    title         TEXT NOT NULL,
    description   TEXT,
    frequency     TEXT NOT NULL DEFAULT 'daily',
    active        BOOLEAN NOT NULL DEFAULT TRUE,
    creation_time TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_habits_user ON habits(user_id);

CREATE TABLE IF NOT EXISTS completion_logs (
    log_id        TEXT PRIMARY KEY,
    habit_id      TEXT NOT NULL REFERENCES habits(habit_id),
    log_date      TIMESTAMPTZ NOT NULL,
    completed     BOOLEAN NOT NULL,
    notes         TEXT,
    creation_time TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_logs_habit_date ON completion_logs(habit_id, log_date);
`

// EnsureSchema applies the reference DDL.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, DDL)
	return err
}
