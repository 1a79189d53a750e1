package world

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/samdwyer/brittlefloor/internal/gamedata"
	"github.com/samdwyer/brittlefloor/internal/host"
)

// ErrUnknownMap is returned when loading a map id the atlas does not hold.
var ErrUnknownMap = errors.New("unknown map")

// Atlas holds every loadable map. Each Load builds a fresh copy from the
// map's definition, the way an engine reloads pristine map data on entry.
type Atlas struct {
	tiles     TileSet
	builders  map[int]func(context.Context) *GameMap
	templates map[int]map[int]host.Template
}

// NewAtlas creates an empty atlas whose maps use tiles for passability.
func NewAtlas(tiles TileSet) *Atlas {
	return &Atlas{
		tiles:     tiles,
		builders:  make(map[int]func(context.Context) *GameMap),
		templates: make(map[int]map[int]host.Template),
	}
}

// NewAtlasFromData creates an atlas holding every hand-made and generated
// map of a maps file. Generated maps use seed for their layout.
func NewAtlasFromData(file *gamedata.MapsFile, tiles TileSet, seed int64) (*Atlas, error) {
	a := NewAtlas(tiles)
	for i := range file.Maps {
		if err := a.AddDefinition(file.Maps[i]); err != nil {
			return nil, err
		}
	}
	for _, g := range file.Generated {
		opts := GenerateOptions{
			ID:       g.ID,
			Name:     g.Name,
			Width:    g.Width,
			Height:   g.Height,
			Seed:     seed,
			Exit:     g.Exit,
			Template: g.Template,
			Floor:    g.Floor,
		}
		if err := a.AddGenerated(opts); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// AddDefinition adds a hand-made map.
func (a *Atlas) AddDefinition(def gamedata.MapDef) error {
	if err := def.Validate(); err != nil {
		return err
	}
	if _, ok := a.builders[def.ID]; ok {
		return fmt.Errorf("map %d: duplicate id", def.ID)
	}
	a.builders[def.ID] = func(context.Context) *GameMap { return FromDefinition(&def, a.tiles) }
	a.indexTemplates(def.ID, def.Templates)
	return nil
}

// AddGenerated adds a generated map. The seed is fixed on the first call so
// every load produces the same layout.
func (a *Atlas) AddGenerated(opts GenerateOptions) error {
	if _, ok := a.builders[opts.ID]; ok {
		return fmt.Errorf("map %d: duplicate id", opts.ID)
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	a.builders[opts.ID] = func(ctx context.Context) *GameMap {
		m, _ := Generate(ctx, opts, a.tiles)
		return m
	}
	a.indexTemplates(opts.ID, []host.Template{opts.Template})
	return nil
}

func (a *Atlas) indexTemplates(mapID int, templates []host.Template) {
	byID := make(map[int]host.Template, len(templates))
	for _, t := range templates {
		byID[t.ID] = t
	}
	a.templates[mapID] = byID
}

// Load builds a fresh copy of a map.
func (a *Atlas) Load(ctx context.Context, mapID int) (*GameMap, error) {
	build, ok := a.builders[mapID]
	if !ok {
		return nil, fmt.Errorf("load map %d: %w", mapID, ErrUnknownMap)
	}
	return build(ctx), nil
}

// Template implements host.TemplateSource.
func (a *Atlas) Template(mapID, eventID int) (host.Template, bool) {
	t, ok := a.templates[mapID][eventID]
	return t, ok
}

// IDs returns every map id in ascending order.
func (a *Atlas) IDs() []int {
	ids := make([]int, 0, len(a.builders))
	for id := range a.builders {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
