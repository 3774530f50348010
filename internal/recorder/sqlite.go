package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists trial rows to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL so analysis queries can read while sessions write
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS trials (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id      TEXT NOT NULL,
			task            TEXT NOT NULL,
			trial_num       INTEGER NOT NULL,
			pump_count      INTEGER NOT NULL,
			explosion_point INTEGER NOT NULL,
			exploded        INTEGER NOT NULL,
			cashed_out      INTEGER NOT NULL,
			round_earnings  TEXT NOT NULL,
			total_earnings  TEXT NOT NULL,
			recorded_at     INTEGER NOT NULL,
			UNIQUE(session_id, trial_num)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trials_session ON trials(session_id)`,

		`CREATE TABLE IF NOT EXISTS sessions (
			session_id      TEXT PRIMARY KEY,
			rounds          INTEGER NOT NULL,
			aggregate_pumps INTEGER NOT NULL,
			total_earnings  TEXT NOT NULL,
			currency        TEXT NOT NULL,
			finished_at     INTEGER NOT NULL
		)`,
	}
	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordTrial(row TrialRow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, err := r.db.Exec(`INSERT INTO trials
		(session_id, task, trial_num, pump_count, explosion_point, exploded, cashed_out, round_earnings, total_earnings, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		row.SessionID, row.Task, row.TrialNum, row.PumpCount, row.ExplosionPoint,
		boolInt(row.Exploded), boolInt(row.CashedOut),
		row.RoundEarnings.String(), row.TotalEarnings.String(), row.RecordedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("insert trial: %w", err)
	}
	return nil
}

func (r *SQLiteRecorder) RecordSession(row SessionRow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, err := r.db.Exec(`INSERT OR REPLACE INTO sessions
		(session_id, rounds, aggregate_pumps, total_earnings, currency, finished_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		row.SessionID, row.Rounds, row.AggregatePumps, row.TotalEarnings.String(), row.Currency, row.FinishedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// Trials returns a session's rows in trial order.
func (r *SQLiteRecorder) Trials(sessionID string) ([]TrialRow, error) {
	rows, err := r.db.Query(`SELECT session_id, task, trial_num, pump_count, explosion_point,
		exploded, cashed_out, round_earnings, total_earnings, recorded_at
		FROM trials WHERE session_id = ? ORDER BY trial_num`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query trials: %w", err)
	}
	defer rows.Close()

	var out []TrialRow
	for rows.Next() {
		var (
			t                   TrialRow
			exploded, cashedOut int
			roundE, totalE      string
			at                  int64
		)
		if err := rows.Scan(&t.SessionID, &t.Task, &t.TrialNum, &t.PumpCount, &t.ExplosionPoint,
			&exploded, &cashedOut, &roundE, &totalE, &at); err != nil {
			return nil, fmt.Errorf("scan trial: %w", err)
		}
		t.Exploded, t.CashedOut = exploded != 0, cashedOut != 0
		if t.RoundEarnings, err = decimal.NewFromString(roundE); err != nil {
			return nil, fmt.Errorf("trial %d round_earnings: %w", t.TrialNum, err)
		}
		if t.TotalEarnings, err = decimal.NewFromString(totalE); err != nil {
			return nil, fmt.Errorf("trial %d total_earnings: %w", t.TrialNum, err)
		}
		t.RecordedAt = time.UnixMilli(at)
		out = append(out, t)
	}
	return out, rows.Err()
}

// CashedOutPumps re-derives a session's aggregate from stored rows: the sum
// of pump_count over rows that cashed out without exploding.
func (r *SQLiteRecorder) CashedOutPumps(sessionID string) (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COALESCE(SUM(pump_count), 0) FROM trials
		WHERE session_id = ? AND task = ? AND exploded = 0 AND cashed_out = 1`, sessionID, TaskName).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("sum cashed out pumps: %w", err)
	}
	return n, nil
}

// Session returns the recap row, or sql.ErrNoRows if the task never finished.
func (r *SQLiteRecorder) Session(sessionID string) (SessionRow, error) {
	var (
		s      SessionRow
		totalE string
		at     int64
	)
	err := r.db.QueryRow(`SELECT session_id, rounds, aggregate_pumps, total_earnings, currency, finished_at
		FROM sessions WHERE session_id = ?`, sessionID).Scan(&s.SessionID, &s.Rounds, &s.AggregatePumps, &totalE, &s.Currency, &at)
	if err != nil {
		return SessionRow{}, err
	}
	if s.TotalEarnings, err = decimal.NewFromString(totalE); err != nil {
		return SessionRow{}, fmt.Errorf("session total_earnings: %w", err)
	}
	s.FinishedAt = time.UnixMilli(at)
	return s, nil
}

func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
