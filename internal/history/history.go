// Package history records backend runs and update checks in a local SQLite
// database so the front-end can show recent activity.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	appErrors "fastreer-gui/internal/errors"
)

// FileName is the database file inside the per-user directory.
const FileName = "history.db"

// Kind distinguishes the recorded workflows.
type Kind string

const (
	KindJob    Kind = "job"
	KindUpdate Kind = "update"
)

// Entry is one recorded workflow run.
type Entry struct {
	ID         int64
	RunID      string
	Kind       Kind
	Mode       string
	Inputs     []string
	Output     string
	Command    string
	ExitCode   int
	Outcome    string
	Message    string
	StartedAt  time.Time
	FinishedAt time.Time
}

// Duration returns how long the run took.
func (e Entry) Duration() time.Duration {
	if e.FinishedAt.Before(e.StartedAt) {
		return 0
	}
	return e.FinishedAt.Sub(e.StartedAt)
}

// Store persists entries in SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the history database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", buildDSN(path))
	if err != nil {
		return nil, appErrors.New(appErrors.CodeHistory, "open history db", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, appErrors.New(appErrors.CodeHistory, "ping history db", err)
	}

	s := &Store{db: db}
	if err := s.initialize(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func buildDSN(path string) string {
	u := url.URL{
		Scheme: "file",
		Path:   filepath.ToSlash(path),
	}
	q := url.Values{}
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", "busy_timeout(3000)")
	u.RawQuery = q.Encode()
	return u.String()
}

func (s *Store) initialize(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL UNIQUE,
			kind TEXT NOT NULL,
			mode TEXT NOT NULL DEFAULT '',
			inputs TEXT NOT NULL DEFAULT '[]',
			output TEXT NOT NULL DEFAULT '',
			command TEXT NOT NULL DEFAULT '',
			exit_code INTEGER NOT NULL DEFAULT 0,
			outcome TEXT NOT NULL,
			message TEXT NOT NULL DEFAULT '',
			started_at INTEGER NOT NULL,
			finished_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at)`,
	}
	for _, q := range queries {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return appErrors.New(appErrors.CodeHistory, "create history schema", err)
		}
	}
	return nil
}

// Record stores e and returns its assigned ID. An empty RunID is filled
// with a new UUID.
func (s *Store) Record(ctx context.Context, e Entry) (int64, error) {
	if e.RunID == "" {
		e.RunID = uuid.NewString()
	}
	inputs, err := json.Marshal(nonNil(e.Inputs))
	if err != nil {
		return 0, appErrors.New(appErrors.CodeHistory, "encode inputs", err)
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (run_id, kind, mode, inputs, output, command, exit_code, outcome, message, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.RunID, string(e.Kind), e.Mode, string(inputs), e.Output, e.Command, e.ExitCode,
		e.Outcome, e.Message, e.StartedAt.UnixMilli(), e.FinishedAt.UnixMilli(),
	)
	if err != nil {
		return 0, appErrors.New(appErrors.CodeHistory, "insert run", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, appErrors.New(appErrors.CodeHistory, "read run id", err)
	}
	return id, nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, run_id, kind, mode, inputs, output, command, exit_code, outcome, message, started_at, finished_at
		FROM runs
		ORDER BY started_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, appErrors.New(appErrors.CodeHistory, "query runs", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var (
			e                   Entry
			kind, inputs        string
			startedMs, finishMs int64
		)
		if err := rows.Scan(&e.ID, &e.RunID, &kind, &e.Mode, &inputs, &e.Output, &e.Command, &e.ExitCode,
			&e.Outcome, &e.Message, &startedMs, &finishMs); err != nil {
			return nil, appErrors.New(appErrors.CodeHistory, "scan run", err)
		}
		e.Kind = Kind(kind)
		if err := json.Unmarshal([]byte(inputs), &e.Inputs); err != nil {
			return nil, appErrors.New(appErrors.CodeHistory, fmt.Sprintf("decode inputs of run %d", e.ID), err)
		}
		e.StartedAt = time.UnixMilli(startedMs)
		e.FinishedAt = time.UnixMilli(finishMs)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, appErrors.New(appErrors.CodeHistory, "iterate runs", err)
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Summary renders e on one line for listings.
func (e Entry) Summary() string {
	when := e.StartedAt.Format("2006-01-02 15:04:05")
	switch e.Kind {
	case KindJob:
		return fmt.Sprintf("%s  job     %-10s %-8s exit=%d  %d input(s) -> %s", when, e.Mode, e.Outcome, e.ExitCode, len(e.Inputs), e.Output)
	default:
		msg := strings.ReplaceAll(e.Message, "\n", " ")
		return fmt.Sprintf("%s  %-7s %-8s %s", when, e.Kind, e.Outcome, msg)
	}
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
