package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/habitloop/habitloop/internal/model"
	"github.com/habitloop/habitloop/internal/store"
)

// Open opens a PostgreSQL connection using the pgx stdlib driver and
// verifies connectivity.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewWithDB constructs a native Postgres store backed directly by database/sql.
func NewWithDB(db *sql.DB) store.Store { return &pgStore{db: db} }

type pgStore struct{ db *sql.DB }

func (s *pgStore) Habits() store.Habits       { return &habits{db: s.db} }
func (s *pgStore) Logs() store.CompletionLogs { return &logs{db: s.db} }

// HealthPing implements store.HealthPinger for the Postgres-backed store.
func (s *pgStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Bootstrap performs a connectivity check to ensure Postgres is reachable.
// Ping-only: compose migrations handle schema setup.
func Bootstrap(ctx context.Context, dsn string) error {
	if dsn == "" {
		return nil
	}
	db, err := Open(dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	return db.PingContext(ctx)
}

// --- Habits ---

type habits struct{ db *sql.DB }

func (h *habits) Create(ctx context.Context, m *model.Habit) (*model.Habit, error) {
	id := m.HabitID
	if id == "" {
		id = uuid.New().String()
	}
	freq := m.Frequency
	if freq == "" {
		freq = model.FrequencyDaily
	}
	var created time.Time
	row := h.db.QueryRowContext(ctx, `
        INSERT INTO habits (habit_id, user_id, title, description, frequency, active)
        VALUES ($1,$2,$3,$4,$5,TRUE)
        RETURNING creation_time
    `, id, m.UserID, m.Title, m.Description, string(freq))
	if err := row.Scan(&created); err != nil {
		return nil, err
	}
	out := *m
	out.HabitID = id
	out.Frequency = freq
	out.Active = true
	out.CreationTime = created
	return &out, nil
}

func (h *habits) GetByID(ctx context.Context, userID, habitID string) (*model.Habit, error) {
	row := h.db.QueryRowContext(ctx, `
        SELECT habit_id, user_id, title, description, frequency, active, creation_time
        FROM habits WHERE user_id=$1 AND habit_id=$2
    `, userID, habitID)
	return scanHabit(row)
}

func (h *habits) List(ctx context.Context, userID string) ([]*model.Habit, error) {
	return h.list(ctx, `
        SELECT habit_id, user_id, title, description, frequency, active, creation_time
        FROM habits WHERE user_id=$1 ORDER BY creation_time
    `, userID)
}

func (h *habits) ListActive(ctx context.Context, userID string) ([]*model.Habit, error) {
	return h.list(ctx, `
        SELECT habit_id, user_id, title, description, frequency, active, creation_time
        FROM habits WHERE user_id=$1 AND active ORDER BY creation_time
    `, userID)
}

func (h *habits) list(ctx context.Context, query, userID string) ([]*model.Habit, error) {
	rows, err := h.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []*model.Habit
	for rows.Next() {
		m, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, m)
	}
	return res, rows.Err()
}

func (h *habits) Update(ctx context.Context, userID, habitID string, req model.UpdateHabitRequest) (*model.Habit, error) {
	row := h.db.QueryRowContext(ctx, `
        UPDATE habits SET
            title       = COALESCE($3, title),
            description = COALESCE($4, description),
            frequency   = COALESCE($5, frequency),
            active      = COALESCE($6, active)
        WHERE user_id=$1 AND habit_id=$2
        RETURNING habit_id, user_id, title, description, frequency, active, creation_time
    `, userID, habitID, req.Title, req.Description, (*string)(req.Frequency), req.Active)
	return scanHabit(row)
}

func (h *habits) Deactivate(ctx context.Context, userID, habitID string) error {
	res, err := h.db.ExecContext(ctx, `
        UPDATE habits SET active=FALSE WHERE user_id=$1 AND habit_id=$2
    `, userID, habitID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (h *habits) Delete(ctx context.Context, userID, habitID string) error {
	tx, err := h.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT 1 FROM habits WHERE user_id=$1 AND habit_id=$2`, userID, habitID).Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ErrNotFound
		}
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM completion_logs WHERE habit_id=$1`, habitID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM habits WHERE user_id=$1 AND habit_id=$2`, userID, habitID); err != nil {
		return err
	}
	return tx.Commit()
}

// --- CompletionLogs ---

type logs struct{ db *sql.DB }

func (l *logs) FindRange(ctx context.Context, habitID string, from, to time.Time) ([]*model.CompletionLog, error) {
	rows, err := l.db.QueryContext(ctx, `
        SELECT log_id, habit_id, log_date, completed, notes, creation_time
        FROM completion_logs
        WHERE habit_id=$1 AND log_date >= $2 AND log_date < $3
        ORDER BY log_date
    `, habitID, from.UTC(), to.UTC())
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []*model.CompletionLog
	for rows.Next() {
		lg, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, lg)
	}
	return res, rows.Err()
}

func (l *logs) FindDay(ctx context.Context, habitID string, day time.Time) (*model.CompletionLog, error) {
	row := l.db.QueryRowContext(ctx, `
        SELECT log_id, habit_id, log_date, completed, notes, creation_time
        FROM completion_logs
        WHERE habit_id=$1 AND log_date >= $2 AND log_date < $3
        ORDER BY creation_time LIMIT 1
    `, habitID, day.UTC(), day.UTC().Add(24*time.Hour))
	return scanLog(row)
}

func (l *logs) Upsert(ctx context.Context, habitID string, day time.Time, completed bool) (*model.CompletionLog, error) {
	return l.setDay(ctx, habitID, day, func(existing *bool) bool { return completed })
}

func (l *logs) Toggle(ctx context.Context, habitID string, day time.Time) (*model.CompletionLog, error) {
	return l.setDay(ctx, habitID, day, func(existing *bool) bool {
		if existing == nil {
			return true
		}
		return !*existing
	})
}

// setDay runs the find-or-create/flip sequence in one transaction. The
// row lock (FOR UPDATE) serializes concurrent toggles on the same day.
func (l *logs) setDay(ctx context.Context, habitID string, day time.Time, next func(existing *bool) bool) (*model.CompletionLog, error) {
	day = day.UTC()
	tx, err := l.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx, `
        SELECT log_id, habit_id, log_date, completed, notes, creation_time
        FROM completion_logs
        WHERE habit_id=$1 AND log_date >= $2 AND log_date < $3
        ORDER BY creation_time LIMIT 1
        FOR UPDATE
    `, habitID, day, day.Add(24*time.Hour))

	cur, err := scanLog(row)
	switch {
	case err == nil:
		cur.Completed = next(&cur.Completed)
		if _, err := tx.ExecContext(ctx, `UPDATE completion_logs SET completed=$2 WHERE log_id=$1`, cur.LogID, cur.Completed); err != nil {
			return nil, err
		}
	case errors.Is(err, model.ErrNotFound):
		cur = &model.CompletionLog{
			LogID:     uuid.New().String(),
			HabitID:   habitID,
			LogDate:   day,
			Completed: next(nil),
		}
		var created time.Time
		ins := tx.QueryRowContext(ctx, `
            INSERT INTO completion_logs (log_id, habit_id, log_date, completed, notes)
            VALUES ($1,$2,$3,$4,$5)
            RETURNING creation_time
        `, cur.LogID, cur.HabitID, cur.LogDate, cur.Completed, cur.Notes)
		if err := ins.Scan(&created); err != nil {
			return nil, err
		}
		cur.CreationTime = created
	default:
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return cur, nil
}

// --- scan helpers ---

type rowScanner interface{ Scan(dest ...any) error }

func scanHabit(r rowScanner) (*model.Habit, error) {
	var m model.Habit
	var freq string
	if err := r.Scan(&m.HabitID, &m.UserID, &m.Title, &m.Description, &freq, &m.Active, &m.CreationTime); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	m.Frequency = model.Frequency(freq)
	m.CreationTime = m.CreationTime.UTC()
	return &m, nil
}

func scanLog(r rowScanner) (*model.CompletionLog, error) {
	var lg model.CompletionLog
	if err := r.Scan(&lg.LogID, &lg.HabitID, &lg.LogDate, &lg.Completed, &lg.Notes, &lg.CreationTime); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	lg.LogDate = lg.LogDate.UTC()
	lg.CreationTime = lg.CreationTime.UTC()
	return &lg, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrNotFound
	}
	return nil
}
