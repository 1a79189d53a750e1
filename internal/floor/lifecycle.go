package floor

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/brittlefloor/internal/host"
)

// EntryKind classifies a map load.
type EntryKind int

const (
	// FreshEntry resets the map to pristine tiles.
	FreshEntry EntryKind = iota
	// ReturningSameMap replays the map's recorded diffs when the map is
	// loaded again straight after itself.
	ReturningSameMap
	// LoadedFromSave is the first map load after a save was restored.
	LoadedFromSave
	// FixedCarryOver replays diffs because the map's tiles were frozen
	// after completion and nothing has collapsed since.
	FixedCarryOver
)

// String returns a human-readable entry kind.
func (k EntryKind) String() string {
	switch k {
	case FreshEntry:
		return "fresh"
	case ReturningSameMap:
		return "returning"
	case LoadedFromSave:
		return "loaded"
	case FixedCarryOver:
		return "fixed"
	default:
		return "unknown"
	}
}

// OnMapLoaded makes m the active map and decides whether to replay its
// recorded diffs or reset it. It returns how the entry was classified.
func (s *Session) OnMapLoaded(ctx context.Context, m host.TileMap) EntryKind {
	ctx, span := s.tracer.Start(ctx, "floor.map_loaded")
	defer span.End()

	s.tiles = m
	s.clearActive()

	id := m.ID()
	opts := DefaultOptions()
	if c := s.registry.Get(id); c != nil {
		opts = c.Options
	}

	kind := s.classify(id, opts)
	s.prevMapID = id
	switch kind {
	case LoadedFromSave:
		if opts.PersistProgress {
			s.diffs.Apply(m)
		}
		s.rebuildFromTiles()
		s.fromLoad = false
	case ReturningSameMap, FixedCarryOver:
		s.diffs.Apply(m)
		s.rebuildFromTiles()
	default:
		s.reset(ctx, id)
	}

	span.SetAttributes(
		attribute.Int("floor.map_id", id),
		attribute.String("floor.entry", kind.String()),
		attribute.Int("floor.visited", s.coverage.Count()),
		attribute.Int("floor.target", s.coverage.Target()),
	)
	s.log.V(1).Info("map loaded", "map", id, "entry", kind.String(),
		"visited", s.coverage.Count(), "target", s.coverage.Target())
	return kind
}

func (s *Session) classify(mapID int, opts Options) EntryKind {
	if s.fromLoad {
		return LoadedFromSave
	}
	if s.prevMapID == mapID && opts.PersistProgress && s.diffs.Len(mapID) > 0 {
		return ReturningSameMap
	}
	if s.progress.TilesFixed(mapID) && !s.switchOn(opts.CrumbleSwitch) {
		return FixedCarryOver
	}
	return FreshEntry
}

// Reset is the administrative reset command: it restores the map's original
// tiles, switches its crumble and all-step switches off, and clears its
// completion flags. The map stays configured.
func (s *Session) Reset(ctx context.Context, mapID int) error {
	c := s.registry.Get(mapID)
	if c == nil || !c.Enabled {
		return fmt.Errorf("reset map %d: %w", mapID, ErrNotConfigured)
	}
	s.reset(ctx, mapID)
	return nil
}

func (s *Session) reset(ctx context.Context, mapID int) {
	_, span := s.tracer.Start(ctx, "floor.reset")
	defer span.End()

	reverted := 0
	if s.isActive(mapID) {
		reverted = s.diffs.Revert(s.tiles)
	} else {
		s.diffs.Drop(mapID)
	}

	if c := s.registry.Get(mapID); c != nil {
		s.setSwitch(c.CrumbleSwitch, false)
		s.setSwitch(c.AllStepSwitch, false)
	}
	s.progress.clear(mapID)

	if s.isActive(mapID) {
		s.clearActive()
		s.recomputeTarget()
		s.tiles.Refresh()
	}
	span.SetAttributes(
		attribute.Int("floor.map_id", mapID),
		attribute.Int("floor.reverted", reverted),
	)
}

// recomputeTarget counts the governed cells of the active map.
func (s *Session) recomputeTarget() {
	cfg := s.activeConfig()
	if cfg == nil || !cfg.Enabled {
		s.coverage.setTarget(0)
		return
	}
	n := 0
	w, h := s.tiles.Width(), s.tiles.Height()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if cfg.Governs(s.tiles.RegionID(x, y)) {
				n++
			}
		}
	}
	s.coverage.setTarget(n)
}

// rebuildFromTiles reconstructs cell states and coverage of the active map
// from its current tiles: a governed cell showing its entry's crack tile is
// cracked, one showing the hole tile is collapsed. Original tile ids come
// from the diff store when recorded.
func (s *Session) rebuildFromTiles() {
	s.clearActive()
	cfg := s.activeConfig()
	if cfg == nil || !cfg.Enabled {
		return
	}

	mapID := s.tiles.ID()
	w, h := s.tiles.Width(), s.tiles.Height()
	target := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx, ok := cfg.Lookup(s.tiles.RegionID(x, y))
			if !ok {
				continue
			}
			target++

			e := cfg.Entries[idx]
			id := s.tiles.TileID(x, y, TileLayer)
			count := Pristine
			switch id {
			case e.CrackTileID:
				count = Cracked
			case e.HoleTileID:
				count = Collapsed
			}
			if count == Pristine {
				continue
			}

			orig := id
			if d, ok := s.diffs.Entry(mapID, CellIndex(w, h, x, y, TileLayer)); ok {
				orig = d.Original
			}
			k := CellKey{X: x, Y: y}
			s.cells[k] = &CellState{Count: count, Original: orig}
			s.coverage.RecordVisit(k)
		}
	}
	s.coverage.setTarget(target)
}
