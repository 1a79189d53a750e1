package gamedata

import (
	"errors"
)

// TileRegistry holds loaded tile definitions and provides lookup utilities.
type TileRegistry struct {
	tiles map[int]*TileDef
	all   []TileDef
}

// NewTileRegistry creates a registry from loaded tile definitions.
func NewTileRegistry(tiles []TileDef) *TileRegistry {
	registry := &TileRegistry{
		tiles: make(map[int]*TileDef),
		all:   tiles,
	}
	for i := range tiles {
		registry.tiles[tiles[i].ID] = &tiles[i]
	}
	return registry
}

// LoadTileRegistry loads and creates a registry from the embedded tiles.json.
func LoadTileRegistry() (*TileRegistry, error) {
	tiles, err := LoadTiles()
	if err != nil {
		return nil, err
	}
	if len(tiles) == 0 {
		return nil, errors.New("no tiles loaded from tiles.json")
	}
	return NewTileRegistry(tiles), nil
}

// MustLoadTileRegistry loads a registry, panicking on error.
func MustLoadTileRegistry() *TileRegistry {
	registry, err := LoadTileRegistry()
	if err != nil {
		panic(err)
	}
	return registry
}

// GetByID returns the tile definition with the given ID, or nil if not found.
func (r *TileRegistry) GetByID(id int) *TileDef {
	return r.tiles[id]
}

// Passable reports whether the party can stand on a tile.
// Id 0 (no tile) and unknown ids are passable.
func (r *TileRegistry) Passable(id int) bool {
	t := r.tiles[id]
	return t == nil || t.Passable
}

// All returns all tile definitions.
func (r *TileRegistry) All() []TileDef {
	return r.all
}

// Count returns the number of tiles in the registry.
func (r *TileRegistry) Count() int {
	return len(r.all)
}
