package persistence

import (
	"context"
	"database/sql"
	"time"
)

// SQLiteTraceStore stores executed-step traces in SQLite.
type SQLiteTraceStore struct {
	db *sql.DB
}

var _ TraceStore = (*SQLiteTraceStore)(nil)

// NewSQLiteTraceStore creates a SQLiteTraceStore on the given database,
// initializing its schema if needed.
func NewSQLiteTraceStore(db *sql.DB) (*SQLiteTraceStore, error) {
	s := &SQLiteTraceStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLiteTraceStore) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS step_traces (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			runner_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			use_case TEXT NOT NULL,
			flow TEXT NOT NULL,
			step TEXT NOT NULL,
			event TEXT NOT NULL DEFAULT '',
			at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_step_traces_runner_id ON step_traces(runner_id, id);
	`)
	return err
}

func (s *SQLiteTraceStore) Append(ctx context.Context, e TraceEntry) error {
	at := e.At
	if at.IsZero() {
		at = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO step_traces (runner_id, seq, use_case, flow, step, event, at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.RunnerID,
		e.Seq,
		e.UseCase,
		e.Flow,
		e.Step,
		e.Event,
		at.UnixNano(),
	)
	return err
}

func (s *SQLiteTraceStore) List(ctx context.Context, runnerID string) ([]TraceEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT runner_id, seq, use_case, flow, step, event, at
		FROM step_traces
		WHERE runner_id = ?
		ORDER BY id ASC`, runnerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TraceEntry
	for rows.Next() {
		var (
			e   TraceEntry
			atN int64
		)
		if err := rows.Scan(&e.RunnerID, &e.Seq, &e.UseCase, &e.Flow, &e.Step, &e.Event, &atN); err != nil {
			return nil, err
		}
		e.At = time.Unix(0, atN)
		out = append(out, e)
	}
	return out, rows.Err()
}
