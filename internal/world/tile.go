// Package world provides the demo's map runtime: tile maps, the atlas of
// loadable maps, the switch store and procedural map generation.
package world

// Tile layers. Layer 0 holds the ground, layer 1 the overlay written by
// brittle floors.
const (
	LayerGround  = 0
	LayerOverlay = 1
	layerCount   = 2
)

// Ground tile ids used by the generator. They match tiles.json.
const (
	TileWall   = 1
	TileFloor  = 2
	TileMosaic = 3
	TileStairs = 5
)

// TileSet answers tile properties by id.
type TileSet interface {
	Passable(id int) bool
}

// openTiles treats every tile except walls as passable.
type openTiles struct{}

func (openTiles) Passable(id int) bool { return id != TileWall }
