// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package kv persists application state as versioned key/value records in a
// local SQLite database. Each collection (history, saved prompts, saved
// lyrics, folders, theme) is stored under its own key and read and written
// independently.
package kv

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const dbFile = "vocal-architect.db"

// Versioned key names. A schema change gets a new suffix so old data never
// decodes into the new shape.
const (
	KeyHistory      = "vocal_architect_history_v1"
	KeySavedPrompts = "vocal_architect_saved_prompts_v1"
	KeySavedLyrics  = "vocal_architect_saved_lyrics_v1"
	KeyFolders      = "vocal_architect_folders_v1"
	KeyTheme        = "vocal_architect_theme_v1"
)

// Store is a SQLite-backed key/value store.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at dataDir/vocal-architect.db and
// creates the schema if it does not exist.
func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS entries (
		key TEXT PRIMARY KEY,
		value BLOB NOT NULL,
		updated_at TEXT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	return nil
}

// Get returns the raw value stored under key. The boolean is false when the
// key has never been written.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM entries WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading %s: %w", key, err)
	}
	return value, true, nil
}

// Put replaces the value stored under key.
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO entries (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE key = ?`, key); err != nil {
		return fmt.Errorf("deleting %s: %w", key, err)
	}
	return nil
}

// Keys lists all stored keys in lexical order.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM entries ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("listing keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scanning key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// LoadJSON decodes the JSON value under key into v. It reports false when
// the key is missing. A value that cannot be read or decoded is reported on
// warn and treated as missing, so corrupt data never blocks startup.
func (s *Store) LoadJSON(ctx context.Context, key string, v any, warn io.Writer) bool {
	if warn == nil {
		warn = io.Discard
	}

	data, ok, err := s.Get(ctx, key)
	if err != nil {
		fmt.Fprintf(warn, "warning: %v\n", err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		fmt.Fprintf(warn, "warning: ignoring corrupt %s: %v\n", key, err)
		return false
	}
	return true
}

// SaveJSON encodes v as JSON and stores it under key.
func (s *Store) SaveJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", key, err)
	}
	return s.Put(ctx, key, data)
}
