// Package host declares the engine services the brittle-floor subsystem
// consumes. The engine owns these objects; the subsystem only calls them.
package host

// TileMap is read/write access to the active map's tile data.
type TileMap interface {
	// ID returns the map id.
	ID() int
	Width() int
	Height() int

	// RegionID returns the region tag painted on the cell, 0 if none or out of bounds.
	RegionID(x, y int) int
	// TileID returns the tile on the given layer, 0 if empty or out of bounds.
	TileID(x, y, layer int) int
	// SetTileID writes a tile into the live map data.
	SetTileID(x, y, layer, id int)
	// Refresh notifies the renderer that tile data changed.
	Refresh()
}

// TemplatePage is one visual state of a template event.
type TemplatePage struct {
	TileID int `json:"tileId"`
}

// Template is an event whose pages carry the tiles used for governed floors.
// Page 0 is the cracked tile, page 1 the collapsed tile.
type Template struct {
	ID    int            `json:"id"`
	Pages []TemplatePage `json:"pages"`
}

// TemplateSource resolves template events of a map.
type TemplateSource interface {
	Template(mapID, eventID int) (Template, bool)
}

// Switches is the engine's boolean flag store.
type Switches interface {
	Value(id int) bool
	SetValue(id int, value bool)
}

// Cue describes a sound effect to play.
type Cue struct {
	Name   string `json:"name" yaml:"name"`
	Volume int    `json:"volume" yaml:"volume"`
	Pitch  int    `json:"pitch" yaml:"pitch"`
	Pan    int    `json:"pan" yaml:"pan"`
}

// AudioPlayer plays sound effects immediately.
type AudioPlayer interface {
	PlaySE(cue Cue)
}
