// Package game runs the particle field: it owns the current pool, the interaction
// machine, background loading and the UI, and drives them once per frame.
package game

import (
	"log/slog"
	"math/rand"

	"github.com/kolloid-cable/drift/config"
	"github.com/kolloid-cable/drift/content"
	"github.com/kolloid-cable/drift/device"
	"github.com/kolloid-cable/drift/field"
	"github.com/kolloid-cable/drift/inspector"
	"github.com/kolloid-cable/drift/interaction"
	"github.com/kolloid-cable/drift/modeflag"
	"github.com/kolloid-cable/drift/opener"
	"github.com/kolloid-cable/drift/pool"
	"github.com/kolloid-cable/drift/renderer"
	"github.com/kolloid-cable/drift/sources"
	"github.com/kolloid-cable/drift/systems"
	"github.com/kolloid-cable/drift/telemetry"
	"github.com/kolloid-cable/drift/ui"
)

// Game holds the complete application state.
type Game struct {
	cfg      *config.Config
	rng      *rand.Rand
	logger   *slog.Logger
	headless bool
	logStats bool

	width, height float32

	field *field.Field
	pool  *pool.Pool // current pool, refreshed by the rebuild hook
	dir   content.Directory

	// Interaction
	links     *modeflag.Flag
	tracker   *device.Tracker
	machine   *interaction.Machine
	lastHover uint32
	mouseX    float32
	mouseY    float32

	// Rendering (faces and renderers are nil in headless mode)
	face       *renderer.Typeface
	background *renderer.BackgroundRenderer
	particles  *renderer.ParticleRenderer
	ui         *ui.Renderer
	header     *ui.Header
	card       *ui.Card
	panel      *ui.InfoPanel
	hud        *ui.HUD
	inspector  *inspector.Inspector

	// Telemetry
	tick      int32
	perf      *telemetry.PerfCollector
	collector *telemetry.Collector
	output    *telemetry.OutputManager
}

// NewGame creates a game and starts the first load. In graphics mode the raylib
// window must already be open.
func NewGame(opts Options) *Game {
	cfg := config.Cfg()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	tracker, err := device.NewTracker(cfg.Input.Modality)
	if err != nil {
		// config validation already rejects unknown values
		logger.Warn("falling back to automatic modality", "error", err)
		tracker, _ = device.NewTracker("auto")
	}

	g := &Game{
		cfg:       cfg,
		rng:       rand.New(rand.NewSource(opts.Seed)),
		logger:    logger,
		headless:  opts.Headless,
		logStats:  opts.LogStats,
		width:     cfg.Derived.ScreenW32,
		height:    cfg.Derived.ScreenH32,
		links:     modeflag.New(opts.Links),
		tracker:   tracker,
		dir:       loadDirectory(opts.Contributors, logger),
		perf:      telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow, cfg.Derived.TickDT),
		collector: telemetry.NewCollector(cfg.Telemetry.PerfWindow),
	}

	g.setupOutput(opts.OutputDir)
	g.setupUI()

	fetch := opts.Fetch
	if fetch == nil {
		fetch = field.NewFetcher(opts.Sources, sources.Options{AWSRegion: cfg.Sources.AWSRegion}, cfg.Loader.MaxConcurrency, logger)
	}
	g.field = field.New(field.Options{
		Config: cfg,
		RNG:    g.rng,
		Probe:  tracker.Probe(),
		Links:  g.links,
		Fetch:  fetch,
		Width:  g.width,
		Height: g.height,
		Hooks: field.Hooks{
			Sampled: g.recordSelection,
			Rebuilt: g.rebuilt,
		},
		Logger: logger,
	})

	open := opts.Opener
	if open == nil {
		if opts.Headless {
			open = opener.Log{Logger: logger}
		} else {
			open = windowOpener{}
		}
	}
	g.machine = interaction.New(nil, interaction.Options{
		Mode:      g.links.Enabled,
		Opener:    countingOpener{next: open, collector: g.collector},
		Listener:  activityListener{next: g.panel, collector: g.collector},
		Zones:     g.zones,
		TouchSlop: float32(cfg.Input.TouchSlop),
		Logger:    logger,
	})

	g.field.Start()
	return g
}

// setupUI builds the chrome. Headless runs keep the layout objects (the header
// rect is a physics input) but never draw.
func (g *Game) setupUI() {
	layout := g.cfg.Layout
	if !g.headless {
		g.face = renderer.NewTypeface(layout.FontPath, int32(layout.FontSize))
		g.face.Require(layout.Title)
		g.background = renderer.NewBackgroundRenderer(renderer.Paper)
		g.particles = renderer.NewParticleRenderer()
	}
	g.ui = ui.NewRenderer(g.face)
	g.header = ui.NewHeader(g.ui, layout.Title, float32(layout.HeaderHeight))
	g.header.Refresh(g.width)
	g.card = ui.NewCard(g.ui, g.dir)
	g.panel = ui.NewInfoPanel(g.ui, g.dir, float32(layout.PanelWidth), float32(layout.PanelHeight))
	g.hud = ui.NewHUD(g.ui)
	g.inspector = inspector.NewInspector(int32(g.width), int32(layout.HeaderHeight))
}

func loadDirectory(path string, logger *slog.Logger) content.Directory {
	if path == "" {
		return content.Directory{}
	}
	dir, err := content.LoadDirectory(path)
	if err != nil {
		logger.Warn("contributor directory unavailable, showing ids", "path", path, "error", err)
		return content.Directory{}
	}
	logger.Info("contributor directory loaded", "path", path, "contributors", len(dir))
	return dir
}

// zones returns the protected screen areas for the interaction machine.
func (g *Game) zones() []systems.Rect {
	return []systems.Rect{g.header.Rect(), g.panel.Zone()}
}

// Links returns the shared links switch.
func (g *Game) Links() *modeflag.Flag { return g.links }

// Pool returns the current particle pool.
func (g *Game) Pool() *pool.Pool { return g.pool }

// Machine returns the interaction machine.
func (g *Game) Machine() *interaction.Machine { return g.machine }

// Generation returns the current pool generation.
func (g *Game) Generation() uint64 { return g.field.Generation() }

// Pending reports whether a fetch for the current generation is outstanding.
func (g *Game) Pending() bool { return g.field.Pending() }

// Tick returns the number of completed frames.
func (g *Game) Tick() int32 { return g.tick }

// Unload stops background work and releases resources.
func (g *Game) Unload() {
	g.field.Close()
	if g.face != nil {
		g.face.Unload()
	}
	if g.output != nil {
		if err := g.output.Close(); err != nil {
			g.logger.Error("failed to close output", "error", err)
		}
		g.output = nil
	}
}
