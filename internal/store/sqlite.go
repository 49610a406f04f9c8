package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/playok/compliancemon/internal/model"
	_ "modernc.org/sqlite"
)

// Store keeps the current-view slot in SQLite so a restarted dashboard can
// show the last known view before its first pass completes. It never keeps
// more than one snapshot.
type Store struct {
	db     *sql.DB
	dbPath string
}

// New opens (or creates) the SQLite database and runs migrations.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite single-writer
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}
	return &Store{db: db, dbPath: dbPath}, nil
}

// DBPath returns the database file path.
func (s *Store) DBPath() string { return s.dbPath }

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveSnapshot overwrites the slot with snap.
func (s *Store) SaveSnapshot(snap *model.Snapshot) error {
	if snap == nil {
		return nil
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO current_view (id, pass_id, snapshot, updated) VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET pass_id = excluded.pass_id, snapshot = excluded.snapshot, updated = excluded.updated`,
		snap.PassID, string(data), time.Now().Unix())
	return err
}

// LoadSnapshot returns the stored snapshot, or nil if the slot is empty.
func (s *Store) LoadSnapshot() (*model.Snapshot, error) {
	var data string
	err := s.db.QueryRow("SELECT snapshot FROM current_view WHERE id = 1").Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var snap model.Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.View != nil {
		if snap.View.RecentAudits == nil {
			snap.View.RecentAudits = []string{}
		}
		if snap.View.SecurityAlerts == nil {
			snap.View.SecurityAlerts = []string{}
		}
	}
	return &snap, nil
}

// ClearSnapshot empties the slot.
func (s *Store) ClearSnapshot() error {
	_, err := s.db.Exec("DELETE FROM current_view")
	return err
}
