package floor

import (
	"context"
	"math"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/samdwyer/brittlefloor/internal/event"
)

type stagedCrack struct {
	key     CellKey
	crackID int
	cell    *CellState
}

// OnStep handles a completed player step onto (x, y). It records the visit
// for coverage, fires the one-shot success transition when the last
// unvisited governed cell is reached, then advances the cell's state.
func (s *Session) OnStep(ctx context.Context, x, y int) {
	cfg := s.activeConfig()
	if cfg == nil || !cfg.Enabled {
		return
	}
	regionID := s.tiles.RegionID(x, y)
	idx, ok := cfg.Lookup(regionID)
	if !ok {
		return
	}

	ctx, span := s.tracer.Start(ctx, "floor.step")
	defer span.End()

	mapID := s.tiles.ID()
	entry := cfg.Entries[idx]
	key := CellKey{X: x, Y: y}
	cell := s.cell(key)

	if s.coverage.RecordVisit(key) && s.coverage.IsComplete() && !s.progress.AllCompleted(mapID) {
		s.completeTraversal(ctx, mapID, cfg, entry, regionID)
	}

	span.SetAttributes(
		attribute.Int("floor.map_id", mapID),
		attribute.Int("floor.x", x),
		attribute.Int("floor.y", y),
		attribute.Int("floor.visited", s.coverage.Count()),
		attribute.Int("floor.target", s.coverage.Target()),
	)

	if cell.early {
		// The crack was already applied part-way through the move.
		cell.early = false
		span.SetAttributes(attribute.Bool("floor.staged", true))
		return
	}

	s.advance(mapID, key, cell, cfg, entry)
	span.SetAttributes(attribute.String("floor.state", cell.Count.String()))
}

// completeTraversal latches the success flags for a map.
func (s *Session) completeTraversal(ctx context.Context, mapID int, cfg *RegionConfig, entry Entry, regionID int) {
	lastSpecial := entry.SpecialRegionID != 0 && regionID == entry.SpecialRegionID

	if !cfg.OnlySpecialAllSwitch || lastSpecial {
		s.setSwitch(cfg.AllStepSwitch, true)
	}
	s.progress.complete(mapID, lastSpecial, cfg.KeepTilesFixed)

	trace.SpanFromContext(ctx).AddEvent("floor.traversal_complete", trace.WithAttributes(
		attribute.Bool("floor.last_special", lastSpecial),
	))
	s.log.Info("all brittle floors traversed", "map", mapID, "cells", s.coverage.Target(), "lastSpecial", lastSpecial)
}

// advance moves a cell one state forward: pristine cells crack, cracked
// cells collapse unless suppressed. Collapsed cells stay collapsed.
func (s *Session) advance(mapID int, key CellKey, cell *CellState, cfg *RegionConfig, entry Entry) {
	switch cell.Count {
	case Pristine:
		s.setTile(key, entry.CrackTileID)
		s.cues.Enqueue(s.params.CrackCue, 0)
		cell.Count = Cracked

	case Cracked:
		if !s.suppressed(mapID, cfg) {
			s.setTile(key, entry.HoleTileID)
			s.cues.Enqueue(s.params.CrumbleCue, s.params.SecondHitWait)
			s.setSwitch(cfg.CrumbleSwitch, true)
			s.progress.unfix(mapID)
		}
		cell.Count = Collapsed
	}
}

// suppressed reports whether cracked cells stop collapsing on this map.
func (s *Session) suppressed(mapID int, cfg *RegionConfig) bool {
	return cfg.NoCrumbleAfterAll &&
		s.progress.AllCompleted(mapID) &&
		(!cfg.OnlySpecialNoCrumble || s.progress.LastVisitWasSpecial(mapID))
}

// OnMoveStarted reserves a staged crack for the destination cell when the
// crack timing threshold is enabled and the cell is governed and pristine.
func (s *Session) OnMoveStarted(toX, toY int) {
	if s.params.CrackTimingThreshold <= 0 {
		return
	}
	cfg := s.activeConfig()
	if cfg == nil || !cfg.Enabled {
		return
	}
	idx, ok := cfg.Lookup(s.tiles.RegionID(toX, toY))
	if !ok {
		return
	}

	key := CellKey{X: toX, Y: toY}
	cell := s.cell(key)
	if cell.Count > Pristine || cell.queued {
		return
	}
	s.staged = append(s.staged, stagedCrack{key: key, crackID: cfg.Entries[idx].CrackTileID, cell: cell})
	cell.queued = true
}

// OnMoveProgress applies reserved cracks once the player is close enough to
// the destination cell.
func (s *Session) OnMoveProgress(p event.ProgressPayload) {
	if len(s.staged) == 0 {
		return
	}
	th := s.params.CrackTimingThreshold
	dx := math.Abs(p.RealX - float64(p.X))
	dy := math.Abs(p.RealY - float64(p.Y))
	if dx >= th || dy >= th {
		return
	}

	for i := len(s.staged) - 1; i >= 0; i-- {
		st := s.staged[i]
		s.setTile(st.key, st.crackID)
		s.cues.Enqueue(s.params.CrackCue, 0)
		st.cell.Count = Cracked
		st.cell.early = true
		st.cell.queued = false
	}
	s.staged = nil
}
