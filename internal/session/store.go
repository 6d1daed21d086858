package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/meshline/meshline-go/internal/db"
)

// ErrNoSession is returned when no credential is stored.
var ErrNoSession = errors.New("no active session")

const schema = `CREATE TABLE IF NOT EXISTS session (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	token TEXT NOT NULL,
	user_id TEXT NOT NULL DEFAULT '',
	saved_at INTEGER NOT NULL
)`

// Store holds the bearer credential and last-known user identifier in
// persistent client storage. At most one credential is active per store;
// saving a new one replaces the previous row.
type Store struct {
	conn *db.DB

	mu     sync.Mutex
	token  string
	userID string
	loaded bool
}

// Open opens (or creates) the session database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	conn, err := db.New(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}
	if _, err := conn.Exec(ctx, schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ensure session table: %w", err)
	}

	return &Store{conn: conn}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Save stores the credential, replacing any previous one. userID may be
// empty when the auth response did not include it.
func (s *Store) Save(ctx context.Context, token, userID string) error {
	if token == "" {
		return fmt.Errorf("token is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.conn.Exec(ctx,
		`INSERT OR REPLACE INTO session (id, token, user_id, saved_at) VALUES (1, ?, ?, ?)`,
		token, userID, time.Now().UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	s.token = token
	s.userID = userID
	s.loaded = true
	return nil
}

// Token returns the stored credential, or ErrNoSession.
func (s *Store) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(ctx); err != nil {
		return "", err
	}
	if s.token == "" {
		return "", ErrNoSession
	}
	return s.token, nil
}

// UserID returns the stored user identifier; empty when unknown.
func (s *Store) UserID(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(ctx); err != nil {
		return "", err
	}
	if s.token == "" {
		return "", ErrNoSession
	}
	return s.userID, nil
}

// Active reports whether a usable credential is stored: present and not
// past its expiry. Consumers must call this rather than caching a token:
// any code path may clear the store.
func (s *Store) Active(ctx context.Context) bool {
	tok, err := s.Token(ctx)
	if err != nil {
		return false
	}
	return !Expired(tok, time.Now())
}

// Clear removes the credential. Safe to call when nothing is stored.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.conn.Exec(ctx, `DELETE FROM session`); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}

	s.token = ""
	s.userID = ""
	s.loaded = true
	return nil
}

// load populates the in-memory copy from disk once. Callers hold s.mu.
func (s *Store) load(ctx context.Context) error {
	if s.loaded {
		return nil
	}

	row := s.conn.QueryRow(ctx, `SELECT token, user_id FROM session WHERE id = 1`)
	err := row.Scan(&s.token, &s.userID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("load session: %w", err)
	}

	s.loaded = true
	return nil
}
