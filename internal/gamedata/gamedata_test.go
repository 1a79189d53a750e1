package gamedata

import (
	"strings"
	"testing"
	"testing/fstest"
)

func TestLoadTiles(t *testing.T) {
	tiles, err := LoadTiles()
	if err != nil {
		t.Fatalf("Failed to load tiles: %v", err)
	}

	// Verify the tiles the maps depend on exist
	expectedIDs := map[int]bool{1: false, 2: false, 101: false, 102: false}
	for _, tile := range tiles {
		if _, ok := expectedIDs[tile.ID]; ok {
			expectedIDs[tile.ID] = true
		}
	}

	for id, found := range expectedIDs {
		if !found {
			t.Errorf("Expected tile %d not found", id)
		}
	}
}

func TestTileRegistry(t *testing.T) {
	registry, err := LoadTileRegistry()
	if err != nil {
		t.Fatalf("Failed to load registry: %v", err)
	}

	hole := registry.GetByID(102)
	if hole == nil {
		t.Fatal("Hole tile not found by ID")
	}
	if hole.Passable || registry.Passable(102) {
		t.Error("Hole should not be passable")
	}
	if !registry.Passable(101) {
		t.Error("Cracked floor should be passable")
	}
	if !registry.Passable(0) {
		t.Error("Empty tile id should be passable")
	}
	if registry.Passable(1) {
		t.Error("Wall should not be passable")
	}
	if registry.Count() != len(registry.All()) {
		t.Errorf("Count %d != len(All) %d", registry.Count(), len(registry.All()))
	}
}

func TestLoadMaps(t *testing.T) {
	maps, err := LoadMaps()
	if err != nil {
		t.Fatalf("Failed to load maps: %v", err)
	}

	if maps.StartMap != 1 {
		t.Errorf("Expected start map 1, got %d", maps.StartMap)
	}

	registry := MustLoadTileRegistry()
	for _, m := range maps.Maps {
		if len(m.Floors) == 0 {
			t.Errorf("Map %d has no brittle floors", m.ID)
		}
		for _, tpl := range m.Templates {
			for _, p := range tpl.Pages {
				if registry.GetByID(p.TileID) == nil {
					t.Errorf("Map %d template %d uses unknown tile %d", m.ID, tpl.ID, p.TileID)
				}
			}
		}
		for _, cell := range m.Legend {
			if registry.GetByID(cell.Tile) == nil {
				t.Errorf("Map %d legend uses unknown tile %d", m.ID, cell.Tile)
			}
		}
	}

	if len(maps.Generated) == 0 {
		t.Error("Expected a generated map")
	}
}

func TestMapDefValidate(t *testing.T) {
	base := func() MapDef {
		return MapDef{
			ID:     9,
			Start:  Point{1, 0},
			Legend: map[string]Cell{"#": {Tile: 1}, ".": {Tile: 2}},
			Rows:   []string{"#..#"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*MapDef)
		wantErr string
	}{
		{"valid", func(*MapDef) {}, ""},
		{"ragged", func(m *MapDef) { m.Rows = append(m.Rows, "#.") }, "width"},
		{"unknown glyph", func(m *MapDef) { m.Rows[0] = "#.x#" }, "not in legend"},
		{"start outside", func(m *MapDef) { m.Start = Point{9, 9} }, "start"},
		{"transfer outside", func(m *MapDef) { m.Transfers = []Transfer{{X: -1, Y: 0}} }, "transfer"},
		{"no rows", func(m *MapDef) { m.Rows = nil }, "no rows"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := base()
			tt.mutate(&m)
			err := m.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadFSValidates(t *testing.T) {
	fsys := fstest.MapFS{
		"bad.json": {Data: []byte(`{"tiles": [{"id": 1, "color": "#ZZZZZZ"}, {"id": 1, "color": "#000"}]}`)},
	}
	if _, err := LoadFS[TilesFile](fsys, "bad.json"); err == nil {
		t.Error("Expected validation error for bad color and duplicate id")
	}
	if _, err := LoadFS[TilesFile](fsys, "missing.json"); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		input string
		valid bool
	}{
		{"#FF0000", true},
		{"FF0000", true},
		{"#00FF00", true},
		{"#F80", true},
		{"#FFFFFF", true},
		{"#000000", true},
		{"invalid", false},
		{"#FFFF", false},
		{"#GG0000", false},
	}

	for _, tt := range tests {
		_, err := ParseHexColor(tt.input)
		if tt.valid && err != nil {
			t.Errorf("ParseHexColor(%q) should be valid, got error: %v", tt.input, err)
		}
		if !tt.valid && err == nil {
			t.Errorf("ParseHexColor(%q) should be invalid, got no error", tt.input)
		}
	}
}

func TestParseHexColorShortForm(t *testing.T) {
	short, err := ParseHexColor("#F80")
	if err != nil {
		t.Fatalf("ParseHexColor failed: %v", err)
	}
	long, _ := ParseHexColor("#FF8800")
	if short != long {
		t.Errorf("Short form %v != long form %v", short, long)
	}
}

func TestTileDefMethods(t *testing.T) {
	def := TileDef{ID: 7, Name: "test", Glyph: "%", Color: "#FF0000"}

	if def.GlyphRune() != '%' {
		t.Errorf("Expected glyph '%%', got %c", def.GlyphRune())
	}
	if (&TileDef{}).GlyphRune() != '?' {
		t.Error("Empty glyph should render as '?'")
	}

	color := def.TCellColor()
	if color == 0 {
		t.Error("TCellColor returned zero color")
	}
}
