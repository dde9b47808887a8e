package profile

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

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// DatabaseFile is the profile database filename under the data directory.
const DatabaseFile = "profiles.db"

// Store defines the persistence contract for employee profiles.
// Abstracted so the engine and tools can be tested against fakes.
type Store interface {
	// Load returns the profile for a normalized email, or nil (not an
	// error) when none exists.
	Load(email string) (*Profile, error)
	// Save writes the full profile, refreshing LastUpdated — the only
	// place LastUpdated changes — and rebuilds the derived index.
	Save(p *Profile) error
	// List returns all profiles, most recently updated first.
	List() ([]*Profile, error)
	// Index returns the derived listing rows, most recent first.
	Index() ([]IndexEntry, error)
	Close() error
}

// SQLiteStore persists profiles in a local SQLite database: one row per
// normalized email holding the profile as JSON, plus a profile_index
// table regenerated inside the same transaction on every write. The index
// exists only for fast listing and can be rebuilt from the profile rows
// at any time.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens the profile database under dataDir, creating the
// directory and schema as needed.
func NewSQLiteStore(dataDir string) (*SQLiteStore, error) {
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("profile: create data dir: %w", err)
	}

	db, err := openDB("sqlite", filepath.Join(dataDir, DatabaseFile))
	if err != nil {
		return nil, fmt.Errorf("profile: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return nil, fmt.Errorf("profile: pragma %q: %w", p, err)
		}
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("profile: migration: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS profiles (
			email        TEXT PRIMARY KEY,
			data         TEXT NOT NULL,
			last_updated TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_profiles_updated ON profiles(last_updated DESC);

		CREATE TABLE IF NOT EXISTS profile_index (
			email        TEXT PRIMARY KEY,
			current_step INTEGER NOT NULL,
			last_updated TEXT NOT NULL
		);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Load reads one profile by normalized email.
func (s *SQLiteStore) Load(email string) (*Profile, error) {
	var data string
	err := s.db.QueryRow(
		`SELECT data FROM profiles WHERE email = ?`, NormalizeEmail(email),
	).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("profile: load %s: %w", email, err)
	}

	var p Profile
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("profile: parse record for %s: %w", email, err)
	}
	return &p, nil
}

// Save upserts the profile row and regenerates the whole index table in
// one transaction. LastUpdated is refreshed here and nowhere else.
func (s *SQLiteStore) Save(p *Profile) error {
	p.LastUpdated = timeNow().UTC().Format(time.RFC3339)

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("profile: marshal %s: %w", p.Email, err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("profile: begin save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(
		`INSERT INTO profiles (email, data, last_updated) VALUES (?, ?, ?)
		 ON CONFLICT(email) DO UPDATE SET
		   data = excluded.data,
		   last_updated = excluded.last_updated`,
		p.Email, string(data), p.LastUpdated,
	); err != nil {
		return fmt.Errorf("profile: save %s: %w", p.Email, err)
	}

	// The index is derived, never merged: wipe and rebuild from the
	// authoritative rows.
	if _, err := tx.Exec(`DELETE FROM profile_index`); err != nil {
		return fmt.Errorf("profile: clear index: %w", err)
	}
	if _, err := tx.Exec(
		`INSERT INTO profile_index (email, current_step, last_updated)
		 SELECT email, json_extract(data, '$.current_step'), last_updated
		 FROM profiles`,
	); err != nil {
		return fmt.Errorf("profile: rebuild index: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("profile: commit save: %w", err)
	}
	return nil
}

// List returns all profiles ordered by recency. Unparsable rows are
// skipped with a warning rather than failing the listing.
func (s *SQLiteStore) List() ([]*Profile, error) {
	rows, err := s.db.Query(
		`SELECT email, data FROM profiles ORDER BY last_updated DESC, email`,
	)
	if err != nil {
		return nil, fmt.Errorf("profile: list: %w", err)
	}
	defer rows.Close()

	var result []*Profile
	for rows.Next() {
		var email, data string
		if err := rows.Scan(&email, &data); err != nil {
			return nil, fmt.Errorf("profile: scan row: %w", err)
		}
		var p Profile
		if err := json.Unmarshal([]byte(data), &p); err != nil {
			log.Printf("WARNING: profile: skipping unreadable record %s: %v", email, err)
			continue
		}
		result = append(result, &p)
	}
	return result, rows.Err()
}

// Index returns the derived listing rows, most recent first.
func (s *SQLiteStore) Index() ([]IndexEntry, error) {
	rows, err := s.db.Query(
		`SELECT email, current_step, last_updated
		 FROM profile_index ORDER BY last_updated DESC, email`,
	)
	if err != nil {
		return nil, fmt.Errorf("profile: read index: %w", err)
	}
	defer rows.Close()

	var result []IndexEntry
	for rows.Next() {
		var e IndexEntry
		if err := rows.Scan(&e.Email, &e.CurrentStep, &e.LastUpdated); err != nil {
			return nil, fmt.Errorf("profile: scan index row: %w", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}
