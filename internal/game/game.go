package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/go-logr/logr"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/samdwyer/brittlefloor/internal/audio"
	"github.com/samdwyer/brittlefloor/internal/config"
	"github.com/samdwyer/brittlefloor/internal/entity"
	"github.com/samdwyer/brittlefloor/internal/event"
	"github.com/samdwyer/brittlefloor/internal/floor"
	"github.com/samdwyer/brittlefloor/internal/gamedata"
	"github.com/samdwyer/brittlefloor/internal/host"
	"github.com/samdwyer/brittlefloor/internal/savefile"
	"github.com/samdwyer/brittlefloor/internal/telemetry"
	"github.com/samdwyer/brittlefloor/internal/ui"
	"github.com/samdwyer/brittlefloor/internal/world"
)

// FallFrames is how many frames the party falls before landing back at the
// map's start.
const FallFrames = 30

const frameRate = 60

// ErrNoStore is returned by Save and LoadLatest when the game was created
// without a save store.
var ErrNoStore = errors.New("saving is disabled")

// Options configure a Game.
type Options struct {
	Config config.Config
	Log    logr.Logger
	Audio  host.AudioPlayer // nil logs cues instead
	Store  *savefile.Store  // nil disables save and load
	Screen *ui.Screen       // nil runs headless; Run needs a screen
	Tracer trace.Tracer     // nil uses the global provider
}

// Game holds the entire game state.
type Game struct {
	cfg      config.Config
	log      logr.Logger
	tracer   trace.Tracer
	atlas    *world.Atlas
	switches *world.Switches
	router   *event.Router
	floor    *floor.Session
	store    *savefile.Store

	screen   *ui.Screen
	renderer *ui.Renderer

	current   *world.GameMap
	party     *entity.Party
	state     State
	falling   int
	message   string
	running   bool
	needsDraw bool
}

// New creates a new game instance from the embedded game data.
func New(opts Options) (*Game, error) {
	tiles, err := gamedata.LoadTileRegistry()
	if err != nil {
		return nil, fmt.Errorf("load tiles: %w", err)
	}
	maps, err := gamedata.LoadMaps()
	if err != nil {
		return nil, fmt.Errorf("load maps: %w", err)
	}
	atlas, err := world.NewAtlasFromData(maps, tiles, opts.Config.Seed)
	if err != nil {
		return nil, fmt.Errorf("build atlas: %w", err)
	}

	log := opts.Log
	if log.GetSink() == nil {
		log = logr.Discard()
	}
	player := opts.Audio
	if player == nil {
		player = audio.LogPlayer{Log: log.WithName("audio")}
	}
	floorOpts := []floor.Option{
		floor.WithLogger(log.WithName("floor")),
		floor.WithParams(opts.Config.Floor),
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = telemetry.Tracer("game")
	} else {
		floorOpts = append(floorOpts, floor.WithTracer(tracer))
	}

	switches := world.NewSwitches()
	session := floor.NewSession(switches, atlas, player, floorOpts...)
	router := event.NewRouter()
	router.Register(session)

	g := &Game{
		cfg:      opts.Config,
		log:      log,
		tracer:   tracer,
		atlas:    atlas,
		switches: switches,
		router:   router,
		floor:    session,
		store:    opts.Store,
		screen:   opts.Screen,
		state:    StateExplore,
	}
	if opts.Screen != nil {
		g.renderer = ui.NewRenderer(opts.Screen, tiles)
	}
	return g, nil
}

// Start begins a new game on the configured start map.
func (g *Game) Start(ctx context.Context) error {
	ctx, span := g.tracer.Start(ctx, "game.new")
	defer span.End()

	g.switches.Clear()
	g.router.Emit(ctx, event.NewGame, nil)
	g.message = ""
	if err := g.enterMap(ctx, g.cfg.StartMap, -1, -1); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

// Run executes the main game loop until the player quits or ctx is done.
func (g *Game) Run(ctx context.Context) error {
	if g.screen == nil {
		return errors.New("game has no screen")
	}
	if err := g.Start(ctx); err != nil {
		return err
	}

	// PollEvent blocks, so input is read on its own goroutine. Close
	// unblocks it.
	events := make(chan tcell.Event, 16)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			ev := g.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	ticker := time.NewTicker(time.Second / frameRate)
	defer ticker.Stop()

	g.running = true
	g.needsDraw = true
	for g.running {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			g.handleInput(ctx, ev)
		case <-ticker.C:
			g.Tick(ctx)
			g.render()
		}
	}
	return nil
}

// Tick advances the game by one frame.
func (g *Game) Tick(ctx context.Context) {
	switch g.state {
	case StateMoving:
		arrived := g.party.Advance()
		g.router.Emit(ctx, event.MoveProgress, event.ProgressPayload{
			X: g.party.X, Y: g.party.Y,
			RealX: g.party.RealX, RealY: g.party.RealY,
		})
		if arrived {
			g.state = StateExplore
			g.router.Emit(ctx, event.StepCompleted, event.StepPayload{X: g.party.X, Y: g.party.Y})
			g.afterStep(ctx)
		}
		g.needsDraw = true
	case StateFalling:
		g.falling--
		if g.falling <= 0 {
			g.land(ctx)
		}
		g.needsDraw = true
	}
	g.router.Emit(ctx, event.Frame, nil)
}

// handleInput processes a single input event.
func (g *Game) handleInput(ctx context.Context, ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		g.HandleKey(ctx, ev)
	case *tcell.EventResize:
		g.screen.Sync()
		g.needsDraw = true
	}
}

// HandleKey processes keyboard input.
func (g *Game) HandleKey(ctx context.Context, ev *tcell.EventKey) {
	g.needsDraw = true

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		g.running = false

	case tcell.KeyUp:
		g.tryMove(ctx, 0, -1)
	case tcell.KeyDown:
		g.tryMove(ctx, 0, 1)
	case tcell.KeyLeft:
		g.tryMove(ctx, -1, 0)
	case tcell.KeyRight:
		g.tryMove(ctx, 1, 0)

	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			g.running = false
		case 'n', 'N':
			if err := g.Start(ctx); err != nil {
				g.fail("new game failed", err)
				return
			}
			g.message = "New game."
		case 's', 'S':
			if g.state != StateExplore {
				return
			}
			if _, err := g.Save(ctx); err != nil {
				g.fail("save failed", err)
				return
			}
			g.message = "Saved."
		case 'l', 'L':
			if g.state != StateExplore {
				return
			}
			if err := g.LoadLatest(ctx); err != nil {
				g.fail("load failed", err)
				return
			}
			g.message = "Loaded."
		case 'r', 'R':
			if g.state != StateExplore {
				return
			}
			if err := g.floor.Reset(ctx, g.current.ID()); err != nil {
				g.fail("reset failed", err)
				return
			}
			g.message = "The floor is restored."
		}
	}
}

func (g *Game) fail(msg string, err error) {
	g.log.Error(err, msg)
	g.message = fmt.Sprintf("%s: %v", msg, err)
}

// tryMove starts moving the party by the given delta if the target cell
// is passable.
func (g *Game) tryMove(ctx context.Context, dx, dy int) {
	if g.state != StateExplore {
		return
	}
	fromX, fromY := g.party.Position()
	if !g.current.IsPassable(fromX+dx, fromY+dy) {
		return
	}
	toX, toY := g.party.StartMove(dx, dy, g.cfg.MoveFrames)
	g.state = StateMoving
	g.router.Emit(ctx, event.MoveStarted, event.MovePayload{FromX: fromX, FromY: fromY, ToX: toX, ToY: toY})
}

// afterStep reacts to the switches the floor may have raised, then follows
// a transfer on the party's cell.
func (g *Game) afterStep(ctx context.Context) {
	x, y := g.party.Position()
	floors := g.current.Floors()

	for _, cmd := range floors {
		if cmd.CrumbleSwitch != 0 && g.switches.Value(cmd.CrumbleSwitch) {
			g.state = StateFalling
			g.falling = FallFrames
			g.message = "The floor gives way!"
			g.log.Info("party fell", "map", g.current.ID(), "x", x, "y", y)
			return
		}
	}
	for _, cmd := range floors {
		if cmd.AllStepSwitch != 0 && g.switches.Value(cmd.AllStepSwitch) {
			g.message = "Every brittle tile crossed."
		}
	}

	if t, ok := g.current.TransferAt(x, y); ok {
		if err := g.enterMap(ctx, t.ToMap, t.ToX, t.ToY); err != nil {
			g.fail("transfer failed", err)
		}
	}
}

// land ends a fall: the map is reset and the party starts over.
func (g *Game) land(ctx context.Context) {
	g.state = StateExplore
	id := g.current.ID()
	if err := g.floor.Reset(ctx, id); err != nil {
		g.log.Error(err, "reset after fall", "map", id)
	}
	if err := g.enterMap(ctx, id, -1, -1); err != nil {
		g.fail("landing failed", err)
		return
	}
	g.message = "You climb back to the entrance."
}

// enterMap loads a fresh copy of a map, places the party and runs the map's
// floor commands. A negative x or y places the party at the map's start.
func (g *Game) enterMap(ctx context.Context, mapID, x, y int) error {
	ctx, span := g.tracer.Start(ctx, "game.enter_map")
	defer span.End()

	m, err := g.atlas.Load(ctx, mapID)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("enter map %d: %w", mapID, err)
	}
	if x < 0 || y < 0 {
		x, y = m.Start()
	}

	g.current = m
	if g.party == nil {
		g.party = entity.NewParty(x, y)
	} else {
		g.party.Place(x, y)
	}
	g.state = StateExplore

	g.router.Emit(ctx, event.MapLoaded, event.MapLoadedPayload{Map: m})
	for _, cmd := range m.Floors() {
		// Configure logs its own failures.
		_ = g.floor.Configure(ctx, mapID, cmd)
	}

	span.SetAttributes(
		attribute.Int("map.id", mapID),
		attribute.Int("party.x", x),
		attribute.Int("party.y", y),
	)
	g.log.V(1).Info("entered map", "map", mapID, "name", m.Name(), "x", x, "y", y)
	return nil
}

// Save writes the current game to the store and returns the file path.
func (g *Game) Save(ctx context.Context) (string, error) {
	if g.store == nil {
		return "", ErrNoStore
	}
	ctx, span := g.tracer.Start(ctx, "game.save")
	defer span.End()

	x, y := g.party.Position()
	env := savefile.New(g.current.ID(), savefile.Player{X: x, Y: y}, g.switches.On())
	if err := env.Collect(g.floor); err != nil {
		span.RecordError(err)
		return "", err
	}
	path, err := g.store.Save(ctx, env)
	if err != nil {
		span.RecordError(err)
		return "", err
	}
	span.SetAttributes(attribute.String("save.id", env.Header.ID))
	g.log.Info("saved", "id", env.Header.ID, "path", path)
	return path, nil
}

// LoadLatest restores the most recent save.
func (g *Game) LoadLatest(ctx context.Context) error {
	if g.store == nil {
		return ErrNoStore
	}
	ctx, span := g.tracer.Start(ctx, "game.load")
	defer span.End()

	env, err := g.store.LoadLatest(ctx)
	if err != nil {
		span.RecordError(err)
		return err
	}
	g.switches.Restore(env.Switches)
	if err := env.Distribute(g.floor); err != nil {
		span.RecordError(err)
		return err
	}
	span.SetAttributes(attribute.String("save.id", env.Header.ID))
	g.log.Info("loaded", "id", env.Header.ID, "map", env.Header.MapID)
	return g.enterMap(ctx, env.Header.MapID, env.Player.X, env.Player.Y)
}

// render draws the frame when something changed.
func (g *Game) render() {
	if g.renderer == nil || g.current == nil {
		return
	}
	dirty := g.current.TakeDirty()
	if !dirty && !g.needsDraw {
		return
	}
	g.needsDraw = false
	g.renderer.Render(ui.View{
		Map:     g.current,
		Party:   g.party,
		Status:  g.Status(),
		Message: g.message,
	})
}

// Status returns the status line: map name, floor coverage and the
// switches that are on.
func (g *Game) Status() string {
	if g.current == nil {
		return ""
	}
	cov := g.floor.Coverage()
	return fmt.Sprintf("%s | floor %d/%d | switches %v | %s",
		g.current.Name(), cov.Count(), cov.Target(), g.switches.On(), g.state)
}

// State returns the current game state.
func (g *Game) State() State { return g.state }

// Party returns the player's party.
func (g *Game) Party() *entity.Party { return g.party }

// Map returns the active map.
func (g *Game) Map() *world.GameMap { return g.current }

// Floor returns the brittle-floor subsystem.
func (g *Game) Floor() *floor.Session { return g.floor }

// Switches returns the switch store.
func (g *Game) Switches() *world.Switches { return g.switches }

// Message returns the last message shown to the player.
func (g *Game) Message() string { return g.message }

// Running reports whether the main loop keeps going.
func (g *Game) Running() bool { return g.running }

// Close cleans up game resources.
func (g *Game) Close() {
	if g.screen != nil {
		g.screen.Close()
	}
}
