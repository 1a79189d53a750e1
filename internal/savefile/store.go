package savefile

import (
	"context"
	"fmt"
	"path/filepath"
)

// Store writes saves into a directory and records them in a slot index.
type Store struct {
	dir   string
	slots *Slots
}

// OpenStore opens a store rooted at dir with its index at dbPath.
func OpenStore(dir, dbPath string) (*Store, error) {
	slots, err := OpenSlots(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open slots: %w", err)
	}
	return &Store{dir: dir, slots: slots}, nil
}

// Save writes env and records it. It returns the file path.
func (s *Store) Save(ctx context.Context, env *Envelope) (string, error) {
	path := filepath.Join(s.dir, env.Header.ID+FileExt)
	if err := Write(path, env); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	slot := Slot{
		ID:      env.Header.ID,
		Path:    path,
		MapID:   env.Header.MapID,
		SavedAt: env.Header.SavedAt,
	}
	if err := s.slots.Record(ctx, slot); err != nil {
		return "", fmt.Errorf("record %s: %w", env.Header.ID, err)
	}
	return path, nil
}

// LoadLatest reads the most recent save. It returns ErrNoSaves when the
// index is empty.
func (s *Store) LoadLatest(ctx context.Context) (*Envelope, error) {
	slot, err := s.slots.Latest(ctx)
	if err != nil {
		return nil, err
	}
	env, err := Read(slot.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", slot.Path, err)
	}
	return env, nil
}

// Slots returns the underlying index.
func (s *Store) Slots() *Slots {
	return s.slots
}

// Close closes the index.
func (s *Store) Close() error {
	return s.slots.Close()
}
