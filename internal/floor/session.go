// Package floor implements brittle floors: governed cells crack on the first
// step and collapse on the second, and visiting every governed cell of a map
// exactly once raises a success switch.
//
// A Session owns the save-scoped state (region configuration, tile diffs,
// completion flags) and the state of the active map (per-cell visit counts,
// coverage). The host drives it through the event router and the configure
// and reset commands; it never runs concurrently with itself.
package floor

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-logr/logr"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/samdwyer/brittlefloor/internal/event"
	"github.com/samdwyer/brittlefloor/internal/host"
	"github.com/samdwyer/brittlefloor/internal/telemetry"
)

var (
	// ErrInvalidTemplate is returned by Configure when the template event is
	// missing or does not carry two tile pages.
	ErrInvalidTemplate = errors.New("invalid template event")
	// ErrNotConfigured is returned by Reset for maps without brittle floors.
	ErrNotConfigured = errors.New("map has no brittle floor configuration")
)

// SetCommand is the configure command: one governed region plus the map's
// options.
type SetCommand struct {
	RegionID        int `json:"regionId"`
	SpecialRegionID int `json:"specialRegionId"`
	EventID         int `json:"eventId"`
	Options
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the diagnostic logger.
func WithLogger(l logr.Logger) Option {
	return func(s *Session) { s.log = l }
}

// WithParams sets the plugin parameters.
func WithParams(p Params) Option {
	return func(s *Session) { s.params = p }
}

// WithTracer sets the tracer used for spans.
func WithTracer(t trace.Tracer) Option {
	return func(s *Session) { s.tracer = t }
}

// Session is the brittle-floor subsystem for one game session.
type Session struct {
	params    Params
	log       logr.Logger
	tracer    trace.Tracer
	switches  host.Switches
	templates host.TemplateSource
	cues      *CueQueue

	// Save-scoped.
	registry *Registry
	diffs    *DiffStore
	progress *Progress
	fromLoad bool

	// Active map.
	tiles    host.TileMap
	cells    map[CellKey]*CellState
	coverage *Coverage
	staged   []stagedCrack

	// Id of the map loaded before the active one; 0 before the first load.
	prevMapID int
}

// NewSession creates a session bound to the host's switch store, template
// source and audio player.
func NewSession(switches host.Switches, templates host.TemplateSource, audio host.AudioPlayer, opts ...Option) *Session {
	s := &Session{
		params:    DefaultParams(),
		log:       logr.Discard(),
		tracer:    telemetry.Tracer("floor"),
		switches:  switches,
		templates: templates,
		cues:      NewCueQueue(audio),
		registry:  NewRegistry(),
		diffs:     NewDiffStore(),
		progress:  NewProgress(),
		cells:     make(map[CellKey]*CellState),
		coverage:  NewCoverage(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EventTypes implements event.Handler.
func (s *Session) EventTypes() []event.Type {
	return []event.Type{
		event.NewGame,
		event.MapLoaded,
		event.MoveStarted,
		event.MoveProgress,
		event.StepCompleted,
		event.Frame,
	}
}

// HandleEvent implements event.Handler.
func (s *Session) HandleEvent(ctx context.Context, ev event.Event) {
	switch ev.Type {
	case event.NewGame:
		s.NewGame()
	case event.MapLoaded:
		if p, ok := ev.Payload.(event.MapLoadedPayload); ok {
			s.OnMapLoaded(ctx, p.Map)
		}
	case event.MoveStarted:
		if p, ok := ev.Payload.(event.MovePayload); ok {
			s.OnMoveStarted(p.ToX, p.ToY)
		}
	case event.MoveProgress:
		if p, ok := ev.Payload.(event.ProgressPayload); ok {
			s.OnMoveProgress(p)
		}
	case event.StepCompleted:
		if p, ok := ev.Payload.(event.StepPayload); ok {
			s.OnStep(ctx, p.X, p.Y)
		}
	case event.Frame:
		s.cues.Tick()
	}
}

// Configure upserts a governed region for a map and enables brittle floors
// there. The crack and hole tiles come from the template event's first two
// pages. On a bad template the error is logged and nothing changes.
func (s *Session) Configure(ctx context.Context, mapID int, cmd SetCommand) error {
	_, span := s.tracer.Start(ctx, "floor.configure")
	defer span.End()
	span.SetAttributes(
		attribute.Int("floor.map_id", mapID),
		attribute.Int("floor.region_id", cmd.RegionID),
		attribute.Int("floor.event_id", cmd.EventID),
	)

	crackID, holeID, err := s.templateTiles(mapID, cmd.EventID)
	if err != nil {
		span.RecordError(err)
		s.log.Error(err, "configure ignored", "map", mapID, "region", cmd.RegionID, "event", cmd.EventID)
		return err
	}

	c := s.registry.GetOrCreate(mapID)
	c.Enabled = true
	c.upsert(Entry{
		BaseRegionID:    cmd.RegionID,
		SpecialRegionID: cmd.SpecialRegionID,
		CrackTileID:     crackID,
		HoleTileID:      holeID,
	})
	c.Options = cmd.Options

	if s.isActive(mapID) {
		s.recomputeTarget()
		span.SetAttributes(attribute.Int("floor.target", s.coverage.Target()))
	}
	s.log.V(1).Info("configured", "map", mapID, "region", cmd.RegionID, "special", cmd.SpecialRegionID,
		"crack", crackID, "hole", holeID)
	return nil
}

func (s *Session) templateTiles(mapID, eventID int) (crackID, holeID int, err error) {
	if s.templates == nil {
		return 0, 0, fmt.Errorf("event %d: %w", eventID, ErrInvalidTemplate)
	}
	tpl, ok := s.templates.Template(mapID, eventID)
	if !ok {
		return 0, 0, fmt.Errorf("event %d not found: %w", eventID, ErrInvalidTemplate)
	}
	if len(tpl.Pages) < 2 {
		return 0, 0, fmt.Errorf("event %d has %d pages, need 2: %w", eventID, len(tpl.Pages), ErrInvalidTemplate)
	}
	crackID, holeID = tpl.Pages[0].TileID, tpl.Pages[1].TileID
	if crackID <= 0 || holeID <= 0 {
		return 0, 0, fmt.Errorf("event %d pages are not tile images: %w", eventID, ErrInvalidTemplate)
	}
	return crackID, holeID, nil
}

// NewGame drops every map's configuration and progress.
func (s *Session) NewGame() {
	s.registry.Clear()
	s.diffs = NewDiffStore()
	s.progress = NewProgress()
	s.fromLoad = false
	s.cues.Clear()
	s.tiles = nil
	s.clearActive()
}

// Registry returns the region configuration registry.
func (s *Session) Registry() *Registry { return s.registry }

// Diffs returns the tile diff store.
func (s *Session) Diffs() *DiffStore { return s.diffs }

// Progress returns the persisted completion flags.
func (s *Session) Progress() *Progress { return s.progress }

// Coverage returns the active map's coverage tracker.
func (s *Session) Coverage() *Coverage { return s.coverage }

// Cues returns the sound cue queue.
func (s *Session) Cues() *CueQueue { return s.cues }

// Cell returns the state of a cell on the active map.
// Cells never stepped on report Pristine and false.
func (s *Session) Cell(x, y int) (CellState, bool) {
	c, ok := s.cells[CellKey{X: x, Y: y}]
	if !ok {
		return CellState{}, false
	}
	return *c, true
}

// ActiveMapID returns the id of the active map, 0 if none.
func (s *Session) ActiveMapID() int {
	if s.tiles == nil {
		return 0
	}
	return s.tiles.ID()
}

func (s *Session) isActive(mapID int) bool {
	return s.tiles != nil && s.tiles.ID() == mapID
}

func (s *Session) activeConfig() *RegionConfig {
	if s.tiles == nil {
		return nil
	}
	return s.registry.Get(s.tiles.ID())
}

func (s *Session) clearActive() {
	s.cells = make(map[CellKey]*CellState)
	s.coverage = NewCoverage()
	s.staged = nil
}

// cell returns the state of a governed cell, creating it pristine.
func (s *Session) cell(k CellKey) *CellState {
	c, ok := s.cells[k]
	if !ok {
		c = &CellState{Original: s.tiles.TileID(k.X, k.Y, TileLayer)}
		s.cells[k] = c
	}
	return c
}

// setTile writes a tile on the brittle layer, recording the change.
func (s *Session) setTile(k CellKey, id int) {
	old := s.tiles.TileID(k.X, k.Y, TileLayer)
	if old == id || id == 0 {
		return
	}
	index := CellIndex(s.tiles.Width(), s.tiles.Height(), k.X, k.Y, TileLayer)
	s.diffs.Record(s.tiles.ID(), index, old, id)
	s.tiles.SetTileID(k.X, k.Y, TileLayer, id)
	s.tiles.Refresh()
}

func (s *Session) setSwitch(id int, value bool) {
	if id == 0 || s.switches == nil {
		return
	}
	s.switches.SetValue(id, value)
}

func (s *Session) switchOn(id int) bool {
	if id == 0 || s.switches == nil {
		return false
	}
	return s.switches.Value(id)
}
