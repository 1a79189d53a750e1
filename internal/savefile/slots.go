package savefile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNoSaves is returned by Latest when no save has been recorded.
var ErrNoSaves = errors.New("no saves recorded")

// Slot is one recorded save.
type Slot struct {
	ID      string
	Path    string
	MapID   int
	SavedAt time.Time
}

// Slots indexes save files in a sqlite database.
type Slots struct {
	db *sql.DB
}

// OpenSlots opens or creates the slot index at path.
func OpenSlots(path string) (*Slots, error) {
	if path == "" {
		return nil, fmt.Errorf("empty slot db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Slots{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("sqlite pragma %q: %w", p, err)
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS saves (
			id          TEXT PRIMARY KEY,
			path        TEXT NOT NULL,
			map_id      INTEGER NOT NULL,
			saved_at_ns INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS saves_saved_at ON saves(saved_at_ns);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("sqlite schema: %w", err)
		}
	}
	return nil
}

// Record adds or replaces a slot.
func (s *Slots) Record(ctx context.Context, slot Slot) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO saves (id, path, map_id, saved_at_ns) VALUES (?, ?, ?, ?)`,
		slot.ID, slot.Path, slot.MapID, slot.SavedAt.UnixNano())
	return err
}

// Latest returns the most recently saved slot.
func (s *Slots) Latest(ctx context.Context) (Slot, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, path, map_id, saved_at_ns FROM saves ORDER BY saved_at_ns DESC, id DESC LIMIT 1`)
	slot, err := scanSlot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Slot{}, ErrNoSaves
	}
	return slot, err
}

// List returns every slot, newest first.
func (s *Slots) List(ctx context.Context) ([]Slot, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, path, map_id, saved_at_ns FROM saves ORDER BY saved_at_ns DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Slot
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, slot)
	}
	return out, rows.Err()
}

// Delete removes a slot from the index. The save file is left alone.
func (s *Slots) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM saves WHERE id = ?`, id)
	return err
}

// Close closes the database.
func (s *Slots) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSlot(r scanner) (Slot, error) {
	var (
		slot Slot
		ns   int64
	)
	if err := r.Scan(&slot.ID, &slot.Path, &slot.MapID, &ns); err != nil {
		return Slot{}, err
	}
	slot.SavedAt = time.Unix(0, ns).UTC()
	return slot, nil
}
