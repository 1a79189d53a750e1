package world

import (
	"context"
	"testing"

	"github.com/samdwyer/brittlefloor/internal/floor"
	"github.com/samdwyer/brittlefloor/internal/gamedata"
	"github.com/samdwyer/brittlefloor/internal/host"
)

func testGenerateOptions(seed int64) GenerateOptions {
	return GenerateOptions{
		ID:       3,
		Name:     "test vaults",
		Width:    DefaultWidth,
		Height:   DefaultHeight,
		Seed:     seed,
		Exit:     gamedata.Transfer{ToMap: 1, ToX: -1, ToY: -1},
		Template: host.Template{ID: 1, Pages: []host.TemplatePage{{TileID: 101}, {TileID: 102}}},
		Floor:    floor.SetCommand{RegionID: 41, SpecialRegionID: 42, EventID: 1},
	}
}

func TestGenerateReproducibility(t *testing.T) {
	// Generate two maps with the same seed
	ctx := context.Background()
	m1, rooms1 := Generate(ctx, testGenerateOptions(12345), nil)
	m2, rooms2 := Generate(ctx, testGenerateOptions(12345), nil)

	// Verify same number of rooms
	if len(rooms1) != len(rooms2) {
		t.Fatalf("Room count mismatch: %d != %d", len(rooms1), len(rooms2))
	}

	// Verify rooms are in same positions
	for i := range rooms1 {
		if rooms1[i] != rooms2[i] {
			t.Errorf("Room %d mismatch: %+v != %+v", i, rooms1[i], rooms2[i])
		}
	}

	// Verify tiles and regions are identical
	for y := 0; y < m1.Height(); y++ {
		for x := 0; x < m1.Width(); x++ {
			if m1.TileID(x, y, LayerGround) != m2.TileID(x, y, LayerGround) {
				t.Errorf("Tile mismatch at (%d,%d)", x, y)
			}
			if m1.RegionID(x, y) != m2.RegionID(x, y) {
				t.Errorf("Region mismatch at (%d,%d)", x, y)
			}
		}
	}
}

func TestGenerateDifferentSeeds(t *testing.T) {
	ctx := context.Background()
	_, rooms1 := Generate(ctx, testGenerateOptions(12345), nil)
	_, rooms2 := Generate(ctx, testGenerateOptions(54321), nil)

	// With different seeds, at least room positions should differ
	identical := len(rooms1) == len(rooms2)
	for i := 0; identical && i < len(rooms1); i++ {
		if rooms1[i].X != rooms2[i].X || rooms1[i].Y != rooms2[i].Y {
			identical = false
		}
	}

	if identical {
		t.Error("Maps with different seeds should not be identical")
	}
}

func TestGeneratePaintsBrittleRooms(t *testing.T) {
	m, rooms := Generate(context.Background(), testGenerateOptions(7), nil)
	if len(rooms) < 2 {
		t.Fatalf("Expected at least 2 rooms, got %d", len(rooms))
	}

	base, special := 0, 0
	for y := 0; y < m.Height(); y++ {
		for x := 0; x < m.Width(); x++ {
			switch m.RegionID(x, y) {
			case 41:
				base++
			case 42:
				special++
				if m.TileID(x, y, LayerGround) != TileMosaic {
					t.Errorf("Special cell (%d,%d) should be mosaic", x, y)
				}
			}
			if m.RegionID(x, y) != 0 && !m.IsPassable(x, y) {
				t.Errorf("Brittle cell (%d,%d) is not passable", x, y)
			}
		}
	}
	if base == 0 {
		t.Error("No brittle cells painted")
	}
	if special != len(rooms)/2 {
		t.Errorf("Expected %d special cells, got %d", len(rooms)/2, special)
	}

	for x := 0; x < rooms[0].Width; x++ {
		for y := 0; y < rooms[0].Height; y++ {
			if m.RegionID(rooms[0].X+x, rooms[0].Y+y) != 0 {
				t.Fatal("The entrance room must not be brittle")
			}
		}
	}

	sx, sy := m.Start()
	if !rooms[0].Contains(sx, sy) || !m.IsPassable(sx, sy) {
		t.Errorf("Start (%d,%d) should be a passable cell of the first room", sx, sy)
	}
	tr, ok := m.TransferAt(rooms[0].X, rooms[0].Y)
	if !ok || tr.ToMap != 1 {
		t.Errorf("Expected exit transfer in the first room, got %+v, %v", tr, ok)
	}
	if _, ok := m.Template(1); !ok {
		t.Error("Generated map should carry its template event")
	}
	if len(m.Floors()) != 1 || m.Floors()[0].RegionID != 41 {
		t.Errorf("Unexpected floor commands: %+v", m.Floors())
	}
}

func TestRoom(t *testing.T) {
	r := Room{X: 2, Y: 3, Width: 5, Height: 4}
	if x, y := r.Center(); x != 4 || y != 5 {
		t.Errorf("Center = (%d,%d), want (4,5)", x, y)
	}
	if !r.Contains(2, 3) || r.Contains(7, 3) {
		t.Error("Contains is off by one")
	}
	in := r.Inset(1)
	if in != (Room{X: 3, Y: 4, Width: 3, Height: 2}) || in.Area() != 6 {
		t.Errorf("Inset = %+v", in)
	}
	if r.Inset(3).Area() != 0 {
		t.Error("Over-inset room should be empty")
	}
}
