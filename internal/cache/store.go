package cache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store is the durable key-value cache backing all fetched payloads.
// Storage failures never reach callers: a failed read is a miss and a
// failed write is a no-op, both logged.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (or creates) the SQLite cache database and runs migrations.
func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=3000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy_timeout: %w", err)
	}

	s := &Store{db: db, now: time.Now}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS cache_entries (
		key         TEXT PRIMARY KEY,
		payload     TEXT NOT NULL,
		captured_at INTEGER NOT NULL
	)`)
	return err
}

// SetClock overrides the wall-clock source. Tests only.
func (s *Store) SetClock(now func() time.Time) { s.now = now }

// Get returns the payload stored under key if the entry is still within its
// category's validity window. Expired entries are deleted on read so the
// table does not grow without bound. Returns ok=false on miss, expiry, or
// any storage error.
func (s *Store) Get(key string, cat Category) (json.RawMessage, bool) {
	var payload string
	var capturedMs int64
	err := s.db.QueryRow(
		`SELECT payload, captured_at FROM cache_entries WHERE key = ?`, key,
	).Scan(&payload, &capturedMs)
	if err == sql.ErrNoRows {
		return nil, false
	}
	if err != nil {
		log.Printf("[WARN] cache read %s: %v", key, err)
		return nil, false
	}

	capturedAt := time.UnixMilli(capturedMs)
	if s.now().Sub(capturedAt) >= Validity(cat, capturedAt) {
		if _, err := s.db.Exec(`DELETE FROM cache_entries WHERE key = ?`, key); err != nil {
			log.Printf("[WARN] cache evict %s: %v", key, err)
		}
		return nil, false
	}
	return json.RawMessage(payload), true
}

// Set stores payload under key with capturedAt = now, replacing any prior
// entry wholesale. Storage errors are logged and swallowed.
func (s *Store) Set(key string, payload json.RawMessage) {
	_, err := s.db.Exec(
		`INSERT INTO cache_entries (key, payload, captured_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, captured_at = excluded.captured_at`,
		key, string(payload), s.now().UnixMilli(),
	)
	if err != nil {
		log.Printf("[WARN] cache write %s: %v", key, err)
	}
}

// Evict removes one entry regardless of freshness.
func (s *Store) Evict(key string) {
	if _, err := s.db.Exec(`DELETE FROM cache_entries WHERE key = ?`, key); err != nil {
		log.Printf("[WARN] cache evict %s: %v", key, err)
	}
}

// Clear drops every cached entry. Wired to the dashboard's cache-clear action.
func (s *Store) Clear() {
	if _, err := s.db.Exec(`DELETE FROM cache_entries`); err != nil {
		log.Printf("[WARN] cache clear: %v", err)
	}
}

func (s *Store) Close() error {
	return s.db.Close()
}
