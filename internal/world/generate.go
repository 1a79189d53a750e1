package world

import (
	"context"
	"math/rand"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/brittlefloor/internal/floor"
	"github.com/samdwyer/brittlefloor/internal/gamedata"
	"github.com/samdwyer/brittlefloor/internal/host"
	"github.com/samdwyer/brittlefloor/internal/telemetry"
)

const (
	// Default generated map dimensions
	DefaultWidth  = 60
	DefaultHeight = 22

	// BSP parameters
	minRoomSize = 6  // Minimum room dimension
	maxRoomSize = 12 // Maximum room dimension
	minLeafSize = 9  // Minimum BSP leaf size before stopping split
)

// GenerateOptions describes a generated brittle-floor map.
type GenerateOptions struct {
	ID     int
	Name   string
	Width  int
	Height int
	// Seed for the layout. A seed of 0 means a random seed.
	Seed int64

	// Exit is placed in the first room; its X and Y are overwritten.
	Exit     gamedata.Transfer
	Template host.Template
	Floor    floor.SetCommand
}

// generator carves a map using binary space partitioning.
type generator struct {
	m     *GameMap
	rooms []Room
	rng   *rand.Rand
}

// Generate creates a map layout using the BSP algorithm. Rooms after the
// first alternate between plain and brittle; brittle rooms carry the floor
// command's region with the special region at their center. The party
// starts in the first room, next to the exit.
func Generate(ctx context.Context, opts GenerateOptions, tiles TileSet) (*GameMap, []Room) {
	tracer := telemetry.Tracer("world")
	_, span := tracer.Start(ctx, "world.generate")
	defer span.End()

	startTime := time.Now()

	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = DefaultWidth, DefaultHeight
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	g := &generator{
		m:   NewGameMap(opts.ID, opts.Name, opts.Width, opts.Height, tiles),
		rng: rand.New(rand.NewSource(seed)),
	}
	g.fill(TileWall)

	// Start BSP with the entire map as root
	root := &bspNode{
		x:      1,
		y:      1,
		width:  opts.Width - 2,
		height: opts.Height - 2,
	}

	g.splitNode(root)
	g.createRooms(root)
	g.connectRooms(root)
	brittle := g.paintRegions(opts.Floor)
	g.placeEntrance(opts.Exit)

	g.m.AddTemplate(opts.Template)
	g.m.floors = []floor.SetCommand{opts.Floor}

	// Record telemetry
	span.SetAttributes(
		attribute.Int("world.map_id", opts.ID),
		attribute.Int("world.width", opts.Width),
		attribute.Int("world.height", opts.Height),
		attribute.Int("world.room_count", len(g.rooms)),
		attribute.Int("world.brittle_cells", brittle),
		attribute.Int64("world.generation_ms", time.Since(startTime).Milliseconds()),
	)

	return g.m, g.rooms
}

func (g *generator) fill(tile int) {
	for y := 0; y < g.m.height; y++ {
		for x := 0; x < g.m.width; x++ {
			g.m.Paint(x, y, tile, 0)
		}
	}
}

// bspNode represents a node in the BSP tree.
type bspNode struct {
	x, y          int
	width, height int
	left, right   *bspNode
	room          *Room
}

// isLeaf returns true if this node has no children.
func (n *bspNode) isLeaf() bool {
	return n.left == nil && n.right == nil
}

// splitNode recursively splits a BSP node.
func (g *generator) splitNode(node *bspNode) {
	if node.width < minLeafSize*2 && node.height < minLeafSize*2 {
		return
	}

	var splitHorizontally bool
	switch {
	case node.width > node.height && node.width >= minLeafSize*2:
		splitHorizontally = false
	case node.height >= minLeafSize*2:
		splitHorizontally = true
	case node.width >= minLeafSize*2:
		splitHorizontally = false
	default:
		return
	}

	extent := node.width
	if splitHorizontally {
		extent = node.height
	}
	lo, hi := minLeafSize, extent-minLeafSize
	if hi <= lo {
		return
	}
	splitPos := lo + g.rng.Intn(hi-lo+1)

	if splitHorizontally {
		node.left = &bspNode{x: node.x, y: node.y, width: node.width, height: splitPos}
		node.right = &bspNode{x: node.x, y: node.y + splitPos, width: node.width, height: node.height - splitPos}
	} else {
		node.left = &bspNode{x: node.x, y: node.y, width: splitPos, height: node.height}
		node.right = &bspNode{x: node.x + splitPos, y: node.y, width: node.width - splitPos, height: node.height}
	}

	g.splitNode(node.left)
	g.splitNode(node.right)
}

// createRooms creates rooms in leaf nodes of the BSP tree.
func (g *generator) createRooms(node *bspNode) {
	if node == nil {
		return
	}
	if !node.isLeaf() {
		g.createRooms(node.left)
		g.createRooms(node.right)
		return
	}

	roomWidth := minRoomSize + g.rng.Intn(max(min(maxRoomSize-minRoomSize+1, node.width-minRoomSize+1), 1))
	roomHeight := minRoomSize + g.rng.Intn(max(min(maxRoomSize-minRoomSize+1, node.height-minRoomSize+1), 1))

	// Ensure room fits within leaf
	roomWidth = min(roomWidth, node.width-2)
	roomHeight = min(roomHeight, node.height-2)
	if roomWidth < minRoomSize || roomHeight < minRoomSize {
		return
	}

	room := Room{
		X:      node.x + 1 + g.rng.Intn(max(node.width-roomWidth-1, 1)),
		Y:      node.y + 1 + g.rng.Intn(max(node.height-roomHeight-1, 1)),
		Width:  roomWidth,
		Height: roomHeight,
	}
	node.room = &room
	g.rooms = append(g.rooms, room)
	g.carve(room)
}

// carve sets all tiles within the room to floor, keeping the border wall.
func (g *generator) carve(room Room) {
	for y := room.Y; y < room.Y+room.Height; y++ {
		for x := room.X; x < room.X+room.Width; x++ {
			g.carveCell(x, y)
		}
	}
}

func (g *generator) carveCell(x, y int) {
	if x > 0 && x < g.m.width-1 && y > 0 && y < g.m.height-1 {
		g.m.Paint(x, y, TileFloor, 0)
	}
}

// connectRooms connects sibling subtrees with corridors.
func (g *generator) connectRooms(node *bspNode) {
	if node == nil || node.isLeaf() {
		return
	}

	g.connectRooms(node.left)
	g.connectRooms(node.right)

	leftRoom := g.getRoom(node.left)
	rightRoom := g.getRoom(node.right)
	if leftRoom != nil && rightRoom != nil {
		g.carveCorridor(*leftRoom, *rightRoom)
	}
}

// getRoom returns a room from a subtree (any room will do).
func (g *generator) getRoom(node *bspNode) *Room {
	if node == nil {
		return nil
	}
	if node.room != nil {
		return node.room
	}
	if room := g.getRoom(node.left); room != nil {
		return room
	}
	return g.getRoom(node.right)
}

// carveCorridor creates an L-shaped corridor between two room centers.
func (g *generator) carveCorridor(room1, room2 Room) {
	x1, y1 := room1.Center()
	x2, y2 := room2.Center()

	if g.rng.Intn(2) == 0 {
		g.carveLine(x1, y1, x2, y1)
		g.carveLine(x2, y1, x2, y2)
	} else {
		g.carveLine(x1, y1, x1, y2)
		g.carveLine(x1, y2, x2, y2)
	}
}

// carveLine carves a horizontal or vertical run of floor.
func (g *generator) carveLine(x1, y1, x2, y2 int) {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	for y := y1; y <= y2; y++ {
		for x := x1; x <= x2; x++ {
			g.carveCell(x, y)
		}
	}
}

// paintRegions tags the interior of every second room as brittle, with the
// special region on its center cell. It returns the number of tagged cells.
func (g *generator) paintRegions(cmd floor.SetCommand) int {
	if cmd.RegionID == 0 {
		return 0
	}
	n := 0
	for i := 1; i < len(g.rooms); i += 2 {
		inner := g.rooms[i].Inset(1)
		for y := inner.Y; y < inner.Y+inner.Height; y++ {
			for x := inner.X; x < inner.X+inner.Width; x++ {
				g.m.Paint(x, y, TileFloor, cmd.RegionID)
				n++
			}
		}
		if cmd.SpecialRegionID != 0 && inner.Area() > 0 {
			cx, cy := inner.Center()
			g.m.Paint(cx, cy, TileMosaic, cmd.SpecialRegionID)
		}
	}
	return n
}

// placeEntrance puts the start point at the first room's center and the exit
// stairs in its top-left corner.
func (g *generator) placeEntrance(exit gamedata.Transfer) {
	if len(g.rooms) == 0 {
		g.m.start = gamedata.Point{X: g.m.width / 2, Y: g.m.height / 2}
		g.carveCell(g.m.start.X, g.m.start.Y)
		return
	}
	first := g.rooms[0]
	cx, cy := first.Center()
	g.m.start = gamedata.Point{X: cx, Y: cy}

	exit.X, exit.Y = first.X, first.Y
	if exit.ToMap != 0 {
		g.m.Paint(exit.X, exit.Y, TileStairs, 0)
		g.m.transfers = append(g.m.transfers, exit)
	}
}
