// Package savefile stores game saves: a JSON envelope with one section per
// plugin, zstd-compressed on disk and indexed in a sqlite slot table.
package savefile

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Version is the envelope format written by this package.
const Version = 1

// ErrVersion is returned when reading an envelope of an unknown version.
var ErrVersion = errors.New("unsupported save version")

// Header is the first line of a save file, readable without decoding the
// body.
type Header struct {
	Version int       `json:"version"`
	ID      string    `json:"id"`
	SavedAt time.Time `json:"saved_at"`
	MapID   int       `json:"map_id"`
}

// Player is the party's saved position on the header's map.
type Player struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Envelope is a complete save.
type Envelope struct {
	Header   Header                     `json:"header"`
	Player   Player                     `json:"player"`
	Switches []int                      `json:"switches"` // ids of switches that are on
	Plugins  map[string]json.RawMessage `json:"plugins"`
}

// Extension is a subsystem that stores its own section of a save.
type Extension interface {
	SaveKey() string
	MakeSaveContents() (json.RawMessage, error)
	// ExtractSaveContents restores the subsystem; raw is nil when the save
	// has no section for it.
	ExtractSaveContents(raw json.RawMessage) error
}

// New creates an envelope with a fresh id and timestamp.
func New(mapID int, player Player, switches []int) *Envelope {
	return &Envelope{
		Header: Header{
			Version: Version,
			ID:      uuid.NewString(),
			SavedAt: time.Now().UTC(),
			MapID:   mapID,
		},
		Player:   player,
		Switches: append([]int(nil), switches...),
		Plugins:  make(map[string]json.RawMessage),
	}
}

// Collect stores each extension's contents under its key.
func (e *Envelope) Collect(exts ...Extension) error {
	if e.Plugins == nil {
		e.Plugins = make(map[string]json.RawMessage)
	}
	for _, ext := range exts {
		raw, err := ext.MakeSaveContents()
		if err != nil {
			return fmt.Errorf("save %s: %w", ext.SaveKey(), err)
		}
		e.Plugins[ext.SaveKey()] = raw
	}
	return nil
}

// Distribute hands each extension its section.
func (e *Envelope) Distribute(exts ...Extension) error {
	for _, ext := range exts {
		if err := ext.ExtractSaveContents(e.Plugins[ext.SaveKey()]); err != nil {
			return fmt.Errorf("load %s: %w", ext.SaveKey(), err)
		}
	}
	return nil
}

// Keys returns the plugin section keys in sorted order.
func (e *Envelope) Keys() []string {
	keys := make([]string, 0, len(e.Plugins))
	for k := range e.Plugins {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (h Header) validate() error {
	if h.Version != Version {
		return fmt.Errorf("version %d: %w", h.Version, ErrVersion)
	}
	if _, err := uuid.Parse(h.ID); err != nil {
		return fmt.Errorf("save id %q: %w", h.ID, err)
	}
	return nil
}
