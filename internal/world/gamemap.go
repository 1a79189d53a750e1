package world

import (
	"github.com/samdwyer/brittlefloor/internal/floor"
	"github.com/samdwyer/brittlefloor/internal/gamedata"
	"github.com/samdwyer/brittlefloor/internal/host"
)

// GameMap is a loaded map: tile layers, region tags, transfers and the
// template events brittle floors read their tiles from.
type GameMap struct {
	id     int
	name   string
	width  int
	height int
	layers [layerCount][]int
	region []int
	tiles  TileSet

	start     gamedata.Point
	transfers []gamedata.Transfer
	templates map[int]host.Template
	floors    []floor.SetCommand

	dirty bool
}

// NewGameMap creates an empty map of the given size. A nil tile set makes
// everything except walls passable.
func NewGameMap(id int, name string, width, height int, tiles TileSet) *GameMap {
	if tiles == nil {
		tiles = openTiles{}
	}
	m := &GameMap{
		id:        id,
		name:      name,
		width:     width,
		height:    height,
		region:    make([]int, width*height),
		tiles:     tiles,
		templates: make(map[int]host.Template),
		dirty:     true,
	}
	for z := range m.layers {
		m.layers[z] = make([]int, width*height)
	}
	return m
}

// FromDefinition builds a map from its data definition.
func FromDefinition(def *gamedata.MapDef, tiles TileSet) *GameMap {
	w, h := def.Size()
	m := NewGameMap(def.ID, def.Name, w, h, tiles)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c, _ := def.CellAt(x, y)
			m.Paint(x, y, c.Tile, c.Region)
		}
	}
	m.start = def.Start
	m.transfers = append(m.transfers, def.Transfers...)
	for _, t := range def.Templates {
		m.AddTemplate(t)
	}
	m.floors = append(m.floors, def.Floors...)
	return m
}

func (m *GameMap) index(x, y int) (int, bool) {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return 0, false
	}
	return y*m.width + x, true
}

// ID implements host.TileMap.
func (m *GameMap) ID() int { return m.id }

// Name returns the display name.
func (m *GameMap) Name() string { return m.name }

// Width implements host.TileMap.
func (m *GameMap) Width() int { return m.width }

// Height implements host.TileMap.
func (m *GameMap) Height() int { return m.height }

// RegionID implements host.TileMap.
func (m *GameMap) RegionID(x, y int) int {
	i, ok := m.index(x, y)
	if !ok {
		return 0
	}
	return m.region[i]
}

// TileID implements host.TileMap.
func (m *GameMap) TileID(x, y, layer int) int {
	i, ok := m.index(x, y)
	if !ok || layer < 0 || layer >= layerCount {
		return 0
	}
	return m.layers[layer][i]
}

// SetTileID implements host.TileMap.
func (m *GameMap) SetTileID(x, y, layer, id int) {
	i, ok := m.index(x, y)
	if !ok || layer < 0 || layer >= layerCount {
		return
	}
	m.layers[layer][i] = id
}

// Refresh implements host.TileMap.
func (m *GameMap) Refresh() { m.dirty = true }

// TakeDirty reports whether tiles changed since the last call.
func (m *GameMap) TakeDirty() bool {
	d := m.dirty
	m.dirty = false
	return d
}

// Paint sets the ground tile and region tag of a cell.
func (m *GameMap) Paint(x, y, tile, region int) {
	i, ok := m.index(x, y)
	if !ok {
		return
	}
	m.layers[LayerGround][i] = tile
	m.region[i] = region
}

// TopTile returns the topmost non-empty tile of a cell.
func (m *GameMap) TopTile(x, y int) int {
	for z := layerCount - 1; z >= 0; z-- {
		if id := m.TileID(x, y, z); id != 0 {
			return id
		}
	}
	return 0
}

// IsPassable returns true if the given position can be walked on.
// The topmost tile decides.
func (m *GameMap) IsPassable(x, y int) bool {
	if _, ok := m.index(x, y); !ok {
		return false
	}
	return m.tiles.Passable(m.TopTile(x, y))
}

// Start returns the party's entry point when none is given.
func (m *GameMap) Start() (int, int) {
	return m.start.X, m.start.Y
}

// TransferAt returns the transfer placed on a cell.
func (m *GameMap) TransferAt(x, y int) (gamedata.Transfer, bool) {
	for _, t := range m.transfers {
		if t.X == x && t.Y == y {
			return t, true
		}
	}
	return gamedata.Transfer{}, false
}

// AddTemplate registers a template event.
func (m *GameMap) AddTemplate(t host.Template) {
	m.templates[t.ID] = t
}

// Template returns a template event of this map.
func (m *GameMap) Template(eventID int) (host.Template, bool) {
	t, ok := m.templates[eventID]
	return t, ok
}

// Floors returns the brittle-floor commands the map runs on load.
func (m *GameMap) Floors() []floor.SetCommand {
	return m.floors
}
