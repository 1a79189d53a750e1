package gamedata

import (
	"errors"
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// TileDef defines a tile loaded from JSON.
type TileDef struct {
	ID       int    `json:"id"`       // Tile id stored in map layers
	Name     string `json:"name"`     // Display name (e.g., "cracked floor")
	Glyph    string `json:"glyph"`    // Single character for rendering
	Color    string `json:"color"`    // Hex color code (e.g., "#8A8A8A")
	Passable bool   `json:"passable"` // Whether the party can stand on it
}

// GlyphRune returns the glyph as a rune for rendering.
func (t *TileDef) GlyphRune() rune {
	for _, r := range t.Glyph {
		return r
	}
	return '?'
}

// TCellColor returns the color as a tcell.Color.
func (t *TileDef) TCellColor() tcell.Color {
	color, err := ParseHexColor(t.Color)
	if err != nil {
		return tcell.ColorWhite // fallback
	}
	return color
}

// TilesFile represents the structure of tiles.json.
type TilesFile struct {
	Tiles []TileDef `json:"tiles"`
}

// Validate checks tile ids and colors.
func (f *TilesFile) Validate() error {
	seen := make(map[int]bool, len(f.Tiles))
	var errs []error
	for _, t := range f.Tiles {
		if t.ID <= 0 {
			errs = append(errs, fmt.Errorf("tile %q: id must be > 0", t.Name))
		}
		if seen[t.ID] {
			errs = append(errs, fmt.Errorf("tile %d: duplicate id", t.ID))
		}
		seen[t.ID] = true
		if _, err := ParseHexColor(t.Color); err != nil {
			errs = append(errs, fmt.Errorf("tile %d: %w", t.ID, err))
		}
	}
	return errors.Join(errs...)
}

// LoadTiles loads tile definitions from the embedded tiles.json file.
func LoadTiles() ([]TileDef, error) {
	file, err := Load[TilesFile]("tiles.json")
	if err != nil {
		return nil, err
	}
	return file.Tiles, nil
}
