package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/habitloop/habitloop/internal/model"
	"github.com/habitloop/habitloop/internal/store"
)

// Open opens (or creates) a SQLite database file and applies the pragmas
// the service relies on.
func Open(path string) (*sql.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is empty")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// The modernc driver serializes through a single connection; keeping the
	// pool at one avoids SQLITE_BUSY under concurrent writes.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`PRAGMA foreign_keys = ON; PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// New opens the database at path, ensures the schema exists, and returns
// a ready store.
func New(path string) (store.Store, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	if err := EnsureSchema(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return NewWithDB(db), nil
}

// NewWithDB allows wiring with an existing connection (used by tests).
func NewWithDB(db *sql.DB) store.Store { return &sqliteStore{db: db} }

// EnsureSchema creates the tables when they do not exist yet.
//
// There is deliberately no uniqueness constraint on (HabitId, LogDate);
// the one-log-per-day invariant is enforced by the transactional toggle.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
        CREATE TABLE IF NOT EXISTS Habits (
            HabitId      TEXT PRIMARY KEY,
            UserId       TEXT NOT NULL,
            Title        TEXT NOT NULL,
            Description  TEXT,
            Frequency    TEXT NOT NULL DEFAULT 'daily',
            Active       INTEGER NOT NULL DEFAULT 1,
            CreationTime TIMESTAMP NOT NULL
        );
        CREATE INDEX IF NOT EXISTS idx_habits_user ON Habits(UserId);

        CREATE TABLE IF NOT EXISTS CompletionLogs (
            LogId        TEXT PRIMARY KEY,
            HabitId      TEXT NOT NULL REFERENCES Habits(HabitId),
            LogDate      TIMESTAMP NOT NULL,
            Completed    INTEGER NOT NULL,
            Notes        TEXT,
            CreationTime TIMESTAMP NOT NULL
        );
        CREATE INDEX IF NOT EXISTS idx_logs_habit_date ON CompletionLogs(HabitId, LogDate);
    `)
	return err
}

type sqliteStore struct{ db *sql.DB }

func (s *sqliteStore) Habits() store.Habits       { return &habits{db: s.db} }
func (s *sqliteStore) Logs() store.CompletionLogs { return &logs{db: s.db} }

// HealthPing implements store.HealthPinger.
func (s *sqliteStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
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
	now := time.Now().UTC()
	_, err := h.db.ExecContext(ctx, `
        INSERT INTO Habits (HabitId, UserId, Title, Description, Frequency, Active, CreationTime)
        VALUES (?,?,?,?,?,1,?)
    `, id, m.UserID, m.Title, m.Description, string(freq), now)
	if err != nil {
		return nil, err
	}
	out := *m
	out.HabitID = id
	out.Frequency = freq
	out.Active = true
	out.CreationTime = now
	return &out, nil
}

func (h *habits) GetByID(ctx context.Context, userID, habitID string) (*model.Habit, error) {
	row := h.db.QueryRowContext(ctx, `
        SELECT HabitId, UserId, Title, Description, Frequency, Active, CreationTime
        FROM Habits WHERE UserId = ? AND HabitId = ?
    `, userID, habitID)
	return scanHabit(row)
}

func (h *habits) List(ctx context.Context, userID string) ([]*model.Habit, error) {
	return h.list(ctx, `
        SELECT HabitId, UserId, Title, Description, Frequency, Active, CreationTime
        FROM Habits WHERE UserId = ? ORDER BY CreationTime
    `, userID)
}

func (h *habits) ListActive(ctx context.Context, userID string) ([]*model.Habit, error) {
	return h.list(ctx, `
        SELECT HabitId, UserId, Title, Description, Frequency, Active, CreationTime
        FROM Habits WHERE UserId = ? AND Active = 1 ORDER BY CreationTime
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
	cur, err := h.GetByID(ctx, userID, habitID)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		cur.Title = *req.Title
	}
	if req.Description != nil {
		cur.Description = req.Description
	}
	if req.Frequency != nil {
		cur.Frequency = *req.Frequency
	}
	if req.Active != nil {
		cur.Active = *req.Active
	}
	_, err = h.db.ExecContext(ctx, `
        UPDATE Habits SET Title = ?, Description = ?, Frequency = ?, Active = ?
        WHERE UserId = ? AND HabitId = ?
    `, cur.Title, cur.Description, string(cur.Frequency), cur.Active, userID, habitID)
	if err != nil {
		return nil, err
	}
	return cur, nil
}

func (h *habits) Deactivate(ctx context.Context, userID, habitID string) error {
	res, err := h.db.ExecContext(ctx, `
        UPDATE Habits SET Active = 0 WHERE UserId = ? AND HabitId = ?
    `, userID, habitID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (h *habits) Delete(ctx context.Context, userID, habitID string) error {
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT 1 FROM Habits WHERE UserId = ? AND HabitId = ?`, userID, habitID).Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ErrNotFound
		}
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM CompletionLogs WHERE HabitId = ?`, habitID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM Habits WHERE UserId = ? AND HabitId = ?`, userID, habitID); err != nil {
		return err
	}
	return tx.Commit()
}

// --- CompletionLogs ---

type logs struct{ db *sql.DB }

func (l *logs) FindRange(ctx context.Context, habitID string, from, to time.Time) ([]*model.CompletionLog, error) {
	rows, err := l.db.QueryContext(ctx, `
        SELECT LogId, HabitId, LogDate, Completed, Notes, CreationTime
        FROM CompletionLogs
        WHERE HabitId = ? AND LogDate >= ? AND LogDate < ?
        ORDER BY LogDate
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
        SELECT LogId, HabitId, LogDate, Completed, Notes, CreationTime
        FROM CompletionLogs
        WHERE HabitId = ? AND LogDate >= ? AND LogDate < ?
        ORDER BY CreationTime LIMIT 1
    `, habitID, day.UTC(), day.UTC().Add(24*time.Hour))
	return scanLog(row)
}

func (l *logs) Upsert(ctx context.Context, habitID string, day time.Time, completed bool) (*model.CompletionLog, error) {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	out, err := setInTx(ctx, tx, habitID, day, func(existing *bool) bool { return completed })
	if err != nil {
		return nil, err
	}
	return out, tx.Commit()
}

func (l *logs) Toggle(ctx context.Context, habitID string, day time.Time) (*model.CompletionLog, error) {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	// Absent day toggles on; an existing log flips.
	out, err := setInTx(ctx, tx, habitID, day, func(existing *bool) bool {
		if existing == nil {
			return true
		}
		return !*existing
	})
	if err != nil {
		return nil, err
	}
	return out, tx.Commit()
}

// setInTx performs the shared find-or-create/flip sequence for one
// (habit, day) inside the caller's transaction.
func setInTx(ctx context.Context, tx *sql.Tx, habitID string, day time.Time, next func(existing *bool) bool) (*model.CompletionLog, error) {
	day = day.UTC()
	row := tx.QueryRowContext(ctx, `
        SELECT LogId, HabitId, LogDate, Completed, Notes, CreationTime
        FROM CompletionLogs
        WHERE HabitId = ? AND LogDate >= ? AND LogDate < ?
        ORDER BY CreationTime LIMIT 1
    `, habitID, day, day.Add(24*time.Hour))

	cur, err := scanLog(row)
	switch {
	case err == nil:
		cur.Completed = next(&cur.Completed)
		if _, err := tx.ExecContext(ctx, `UPDATE CompletionLogs SET Completed = ? WHERE LogId = ?`, cur.Completed, cur.LogID); err != nil {
			return nil, err
		}
		return cur, nil
	case errors.Is(err, model.ErrNotFound):
		now := time.Now().UTC()
		lg := &model.CompletionLog{
			LogID:        uuid.New().String(),
			HabitID:      habitID,
			LogDate:      day,
			Completed:    next(nil),
			CreationTime: now,
		}
		if _, err := tx.ExecContext(ctx, `
            INSERT INTO CompletionLogs (LogId, HabitId, LogDate, Completed, Notes, CreationTime)
            VALUES (?,?,?,?,?,?)
        `, lg.LogID, lg.HabitID, lg.LogDate, lg.Completed, lg.Notes, lg.CreationTime); err != nil {
			return nil, err
		}
		return lg, nil
	default:
		return nil, err
	}
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
