package gamedata

import (
	"errors"
	"fmt"

	"github.com/samdwyer/brittlefloor/internal/floor"
	"github.com/samdwyer/brittlefloor/internal/host"
)

// Point is a map cell.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Cell is what one legend character paints: a ground tile and an optional
// region tag.
type Cell struct {
	Tile   int `json:"tile"`
	Region int `json:"region,omitempty"`
}

// Transfer moves the party to another map when stepped on.
// A negative ToX sends the party to the destination's start point.
type Transfer struct {
	X     int `json:"x"`
	Y     int `json:"y"`
	ToMap int `json:"toMap"`
	ToX   int `json:"toX"`
	ToY   int `json:"toY"`
}

// MapDef defines a hand-made map. Rows are drawn with legend characters.
type MapDef struct {
	ID        int                `json:"id"`
	Name      string             `json:"name"`
	Start     Point              `json:"start"`
	Legend    map[string]Cell    `json:"legend"`
	Rows      []string           `json:"rows"`
	Transfers []Transfer         `json:"transfers"`
	Templates []host.Template    `json:"templates"`
	Floors    []floor.SetCommand `json:"floors"`
}

// Size returns the map dimensions.
func (m *MapDef) Size() (width, height int) {
	if len(m.Rows) == 0 {
		return 0, 0
	}
	return len([]rune(m.Rows[0])), len(m.Rows)
}

// CellAt returns the legend cell drawn at (x, y).
func (m *MapDef) CellAt(x, y int) (Cell, bool) {
	if y < 0 || y >= len(m.Rows) {
		return Cell{}, false
	}
	row := []rune(m.Rows[y])
	if x < 0 || x >= len(row) {
		return Cell{}, false
	}
	c, ok := m.Legend[string(row[x])]
	return c, ok
}

// Validate checks the map is rectangular and fully described by its legend.
func (m *MapDef) Validate() error {
	w, h := m.Size()
	if w == 0 || h == 0 {
		return fmt.Errorf("map %d: no rows", m.ID)
	}
	var errs []error
	for y, row := range m.Rows {
		runes := []rune(row)
		if len(runes) != w {
			errs = append(errs, fmt.Errorf("map %d: row %d has width %d, want %d", m.ID, y, len(runes), w))
			continue
		}
		for x, r := range runes {
			if _, ok := m.Legend[string(r)]; !ok {
				errs = append(errs, fmt.Errorf("map %d: %q at (%d,%d) not in legend", m.ID, r, x, y))
			}
		}
	}
	if !m.inBounds(m.Start) {
		errs = append(errs, fmt.Errorf("map %d: start (%d,%d) out of bounds", m.ID, m.Start.X, m.Start.Y))
	}
	for _, t := range m.Transfers {
		if !m.inBounds(Point{t.X, t.Y}) {
			errs = append(errs, fmt.Errorf("map %d: transfer at (%d,%d) out of bounds", m.ID, t.X, t.Y))
		}
	}
	for _, f := range m.Floors {
		if !m.hasTemplate(f.EventID) {
			errs = append(errs, fmt.Errorf("map %d: floor region %d uses unknown template event %d", m.ID, f.RegionID, f.EventID))
		}
	}
	return errors.Join(errs...)
}

func (m *MapDef) inBounds(p Point) bool {
	w, h := m.Size()
	return p.X >= 0 && p.X < w && p.Y >= 0 && p.Y < h
}

func (m *MapDef) hasTemplate(eventID int) bool {
	for _, t := range m.Templates {
		if t.ID == eventID {
			return true
		}
	}
	return false
}

// GeneratedDef describes a procedurally generated brittle-floor map.
type GeneratedDef struct {
	ID       int              `json:"id"`
	Name     string           `json:"name"`
	Width    int              `json:"width"`
	Height   int              `json:"height"`
	Exit     Transfer         `json:"exit"` // X and Y are ignored; the exit is placed in the first room
	Template host.Template    `json:"template"`
	Floor    floor.SetCommand `json:"floor"`
}

// MapsFile represents the structure of maps.json.
type MapsFile struct {
	StartMap  int            `json:"startMap"`
	Maps      []MapDef       `json:"maps"`
	Generated []GeneratedDef `json:"generated"`
}

// Validate checks every map and that ids are unique.
func (f *MapsFile) Validate() error {
	seen := make(map[int]bool)
	var errs []error
	for i := range f.Maps {
		m := &f.Maps[i]
		if seen[m.ID] {
			errs = append(errs, fmt.Errorf("map %d: duplicate id", m.ID))
		}
		seen[m.ID] = true
		if err := m.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	for _, g := range f.Generated {
		if seen[g.ID] {
			errs = append(errs, fmt.Errorf("map %d: duplicate id", g.ID))
		}
		seen[g.ID] = true
		if g.Template.ID != g.Floor.EventID {
			errs = append(errs, fmt.Errorf("map %d: floor uses template event %d, have %d", g.ID, g.Floor.EventID, g.Template.ID))
		}
	}
	if !seen[f.StartMap] {
		errs = append(errs, fmt.Errorf("start map %d not defined", f.StartMap))
	}
	return errors.Join(errs...)
}

// LoadMaps loads map definitions from the embedded maps.json file.
func LoadMaps() (*MapsFile, error) {
	file, err := Load[MapsFile]("maps.json")
	if err != nil {
		return nil, err
	}
	return &file, nil
}
