// Package session persists per-user dialogue state in SQLite, so a
// multi-step operation (an order entry, a payment) survives restarts without
// leaving half-filled rows in the spreadsheet.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/ledgerline/ledgerline/internal/common"
)

// Session is one user's in-progress dialogue: which step they are on and the
// values collected so far.
type Session struct {
	UserID    int64
	State     string
	Values    map[string]string
	UpdatedAt time.Time
}

// Store persists sessions in SQLite.
type Store struct {
	db     *sql.DB
	dbPath string
}

// NewStore opens (or creates) the session database.
func NewStore(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("%w: session database path is empty", common.ErrInvalidConfig)
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0750); err != nil {
		return nil, fmt.Errorf("failed to create session database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping session database: %w", err)
	}

	store := &Store{db: db, dbPath: dbPath}
	if err := store.migrate(); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			user_id    INTEGER PRIMARY KEY,
			state      TEXT NOT NULL,
			values_json TEXT NOT NULL DEFAULT '{}',
			updated_at TIMESTAMP NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("failed to create sessions table: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the user's current session, or common.ErrNotFound when they
// have none in progress.
func (s *Store) Get(ctx context.Context, userID int64) (Session, error) {
	var (
		session    Session
		valuesJSON string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, state, values_json, updated_at FROM sessions WHERE user_id = ?`,
		userID,
	).Scan(&session.UserID, &session.State, &valuesJSON, &session.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, fmt.Errorf("%w: no session for user %d", common.ErrNotFound, userID)
	}
	if err != nil {
		return Session{}, fmt.Errorf("failed to load session: %w", err)
	}

	if err := json.Unmarshal([]byte(valuesJSON), &session.Values); err != nil {
		return Session{}, fmt.Errorf("failed to decode session values: %w", err)
	}
	return session, nil
}

// Put saves the session, replacing any previous state for the user.
func (s *Store) Put(ctx context.Context, session Session) error {
	if session.State == "" {
		return fmt.Errorf("%w: session state is empty", common.ErrInvalidConfig)
	}
	if session.Values == nil {
		session.Values = map[string]string{}
	}
	valuesJSON, err := json.Marshal(session.Values)
	if err != nil {
		return fmt.Errorf("failed to encode session values: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (user_id, state, values_json, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			state = excluded.state,
			values_json = excluded.values_json,
			updated_at = excluded.updated_at`,
		session.UserID, session.State, string(valuesJSON), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Clear removes the user's session. Clearing a missing session is not an
// error.
func (s *Store) Clear(ctx context.Context, userID int64) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Expire removes sessions untouched for longer than maxAge and reports how
// many were dropped.
func (s *Store) Expire(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-maxAge)
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE updated_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to expire sessions: %w", err)
	}
	dropped, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count expired sessions: %w", err)
	}
	return dropped, nil
}
