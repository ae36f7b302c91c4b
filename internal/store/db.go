// Package store provides sqlite-backed repositories for the assistant engine.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// sqliteTimeLayout is the timestamp shape bound into DATETIME columns. Both
// the driver's scan-side time parsing and SQLite's date() function understand
// it; the rollup queries bucket rows with date(created_at) and would silently
// match nothing if timestamps were bound in another format.
const sqliteTimeLayout = "2006-01-02 15:04:05"

// bindTime formats a timestamp for a DATETIME column. Callers must truncate
// the in-struct value to whole seconds so the stored and in-memory views of a
// row agree.
func bindTime(t time.Time) string {
	return t.UTC().Format(sqliteTimeLayout)
}

// DB wraps the database connection shared by all repositories.
type DB struct {
	*sql.DB
}

// Open opens (creating if necessary) the assistant database and runs
// migrations. Use ":memory:" for an ephemeral database in tests.
func Open(dbPath string) (*DB, error) {
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// An in-memory database exists per connection; pin the pool to one so
	// migrations and queries see the same database.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := runMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &DB{db}, nil
}

// Ping checks datastore liveness for readiness probes.
func (d *DB) Ping(ctx context.Context) error {
	return d.DB.PingContext(ctx)
}

func runMigrations(db *sql.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			user_id TEXT,
			fingerprint TEXT,
			audience TEXT NOT NULL,
			current_page TEXT NOT NULL DEFAULT '',
			language TEXT NOT NULL DEFAULT '',
			active INTEGER NOT NULL DEFAULT 1,
			started_at DATETIME NOT NULL,
			last_activity_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_fingerprint ON sessions(fingerprint)`,

		`CREATE TABLE IF NOT EXISTS messages (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			intent TEXT,
			confidence REAL,
			matched_answer_id TEXT,
			latency_ms INTEGER,
			was_helpful INTEGER,
			feedback_comment TEXT,
			created_at DATETIME NOT NULL,
			FOREIGN KEY (session_id) REFERENCES sessions(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_created ON messages(created_at)`,

		`CREATE TABLE IF NOT EXISTS answers (
			id TEXT PRIMARY KEY,
			question TEXT NOT NULL,
			answer TEXT NOT NULL,
			intent_tags TEXT,
			audience TEXT NOT NULL DEFAULT 'all',
			page_contexts TEXT,
			approved INTEGER NOT NULL DEFAULT 0,
			active INTEGER NOT NULL DEFAULT 1,
			usage_count INTEGER NOT NULL DEFAULT 0,
			helpful_count INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_answers_usage ON answers(usage_count)`,

		`CREATE TABLE IF NOT EXISTS scenarios (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			keywords TEXT NOT NULL,
			response_template TEXT NOT NULL,
			requires_escalation INTEGER NOT NULL DEFAULT 0,
			notify_operators INTEGER NOT NULL DEFAULT 0,
			redirect_to_support INTEGER NOT NULL DEFAULT 0,
			priority INTEGER NOT NULL DEFAULT 0,
			active INTEGER NOT NULL DEFAULT 1
		)`,

		// No unique constraint on question: dedup is a read-then-write
		// sequence and a rare concurrent duplicate is accepted.
		`CREATE TABLE IF NOT EXISTS unanswered_questions (
			id TEXT PRIMARY KEY,
			question TEXT NOT NULL,
			audience TEXT NOT NULL,
			context TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'new',
			frequency INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_unanswered_status ON unanswered_questions(status)`,

		`CREATE TABLE IF NOT EXISTS daily_metrics (
			date TEXT PRIMARY KEY,
			conversation_count INTEGER NOT NULL DEFAULT 0,
			answered_count INTEGER NOT NULL DEFAULT 0,
			unanswered_count INTEGER NOT NULL DEFAULT 0,
			escalated_count INTEGER NOT NULL DEFAULT 0,
			avg_confidence REAL NOT NULL DEFAULT 0,
			avg_latency_ms REAL NOT NULL DEFAULT 0,
			helpful_count INTEGER NOT NULL DEFAULT 0,
			unhelpful_count INTEGER NOT NULL DEFAULT 0,
			satisfaction_rate REAL NOT NULL DEFAULT 0,
			new_answer_count INTEGER NOT NULL DEFAULT 0,
			new_topic_count INTEGER NOT NULL DEFAULT 0,
			unique_askers INTEGER NOT NULL DEFAULT 0,
			returning_askers INTEGER NOT NULL DEFAULT 0,
			computed_at DATETIME NOT NULL
		)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}
