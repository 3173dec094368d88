package main

import (
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/kolloid-cable/drift/config"
	"github.com/kolloid-cable/drift/content"
	"github.com/kolloid-cable/drift/device"
	"github.com/kolloid-cable/drift/field"
	"github.com/kolloid-cable/drift/interaction"
	"github.com/kolloid-cable/drift/modeflag"
	"github.com/kolloid-cable/drift/pool"
	"github.com/kolloid-cable/drift/systems"
)

// App is the terminal frontend: a pointer-only view of the particle field.
type App struct {
	cfg    *config.Config
	logger *slog.Logger
	title  string

	field   *field.Field
	machine *interaction.Machine
	links   *modeflag.Flag
	dir     content.Directory

	cols, rows int
	mouseX     int
	mouseY     int
	hasMouse   bool
	buttons    tcell.ButtonMask
}

// AppOptions configures an App.
type AppOptions struct {
	Config     *config.Config
	Field      field.Options // Config, Links, Probe and Hooks are filled in by NewApp
	Opener     interaction.Opener
	Directory  content.Directory
	Cols, Rows int
	Logger     *slog.Logger
}

// NewApp builds the app and its first pool.
func NewApp(opts AppOptions) *App {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	links := opts.Field.Links
	if links == nil {
		links = modeflag.New(true)
	}

	a := &App{
		cfg:    opts.Config,
		logger: logger,
		title:  opts.Config.Layout.Title,
		links:  links,
		dir:    opts.Directory,
		cols:   opts.Cols,
		rows:   opts.Rows,
	}

	fo := opts.Field
	fo.Config = opts.Config
	fo.Links = links
	fo.Probe = device.Fixed(device.Pointer)
	fo.Width, fo.Height = canvasSize(opts.Cols, opts.Rows)
	fo.Logger = logger
	fo.Hooks = field.Hooks{Rebuilt: a.rebuilt}
	a.field = field.New(fo)

	a.machine = interaction.New(nil, interaction.Options{
		Mode:   links.Enabled,
		Opener: opts.Opener,
		Zones:  a.zones,
		Logger: logger,
	})
	a.field.Start()
	return a
}

func (a *App) rebuilt(p *pool.Pool, _ []content.Item) {
	a.machine.Reset(p)
}

// headerRect is row 0 on the canvas.
func (a *App) headerRect() systems.Rect {
	w, _ := canvasSize(a.cols, a.rows)
	return systems.Rect{Left: 0, Top: 0, Right: w, Bottom: cellH}
}

func (a *App) zones() []systems.Rect {
	return []systems.Rect{a.headerRect()}
}

// Resize adopts a new terminal size.
func (a *App) Resize(cols, rows int) {
	if cols == a.cols && rows == a.rows {
		return
	}
	a.cols, a.rows = cols, rows
	a.field.Resize(canvasSize(cols, rows))
}

// Tick advances one frame: loading, physics and hover refresh.
func (a *App) Tick() {
	a.field.SyncLinks()
	a.field.Poll()
	a.machine.Sync(device.Pointer)

	p := a.field.Pool()
	frozen, hasFrozen := a.machine.Frozen()
	p.Integrate(a.headerRect(), frozen, hasFrozen)
	p.Relax()

	// Particles drift under a still cursor
	if a.hasMouse {
		a.machine.PointerMove(cellCenter(a.mouseX, a.mouseY))
	}
}

// HandleEvent applies one terminal event. It returns false when the app should quit.
func (a *App) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC:
			return false
		case ev.Key() == tcell.KeyRune && (ev.Rune() == 'q' || ev.Rune() == 'Q'):
			return false
		case ev.Key() == tcell.KeyRune && (ev.Rune() == 'l' || ev.Rune() == 'L'):
			a.toggleLinks()
		}
	case *tcell.EventMouse:
		a.handleMouse(ev)
	case *tcell.EventResize:
		cols, rows := ev.Size()
		a.Resize(cols, rows)
	}
	return true
}

func (a *App) handleMouse(ev *tcell.EventMouse) {
	cx, cy := ev.Position()
	buttons := ev.Buttons()
	pressed := buttons&tcell.Button1 != 0 && a.buttons&tcell.Button1 == 0
	a.buttons = buttons
	a.mouseX, a.mouseY, a.hasMouse = cx, cy, true

	if cy == 0 {
		first, last := linksSpan(a.cols, a.links.Enabled())
		if pressed && cx >= first && cx <= last {
			a.toggleLinks()
		}
	}

	x, y := cellCenter(cx, cy)
	a.machine.PointerMove(x, y)
	if pressed {
		a.machine.PointerClick(x, y)
	}
}

func (a *App) toggleLinks() {
	on := a.links.Toggle()
	a.logger.Info("links toggled", "enabled", on)
}

// Draw paints the frame onto s.
func (a *App) Draw(s Surface) {
	clearSurface(s)
	focus := a.machine.Focus()
	drawParticles(s, a.field.Pool(), focus)
	drawHeader(s, a.title, a.links.Enabled())
	if focus != nil && a.hasMouse {
		drawCard(s, a.dir.Caption(focus), a.mouseX, a.mouseY)
	}
}

// Run drives the app on screen until the user quits.
func (a *App) Run(screen tcell.Screen) {
	fps := a.cfg.Screen.TargetFPS
	if fps <= 0 {
		fps = 30
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				// screen finalized
				return
			}
			eventChan <- ev
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if !a.HandleEvent(ev) {
				return
			}
		case <-ticker.C:
			a.Tick()
			a.Draw(screen)
			screen.Show()
		}
	}
}

// Field returns the pool lifecycle.
func (a *App) Field() *field.Field { return a.field }

// Machine returns the interaction machine.
func (a *App) Machine() *interaction.Machine { return a.machine }

// Close stops background loading.
func (a *App) Close() {
	a.field.Close()
}
