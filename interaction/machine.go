// Package interaction implements hover, tap-to-select and confirm-to-open over a particle pool.
//
// Pointer input hovers and clicks; touch input taps to select and freeze a particle and
// opens its link through an explicit Confirm from the info panel. The machine is in
// exactly one of None, Hovered or Selected, and never holds more than one target.
package interaction

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/kolloid-cable/drift/content"
	"github.com/kolloid-cable/drift/device"
	"github.com/kolloid-cable/drift/systems"
)

// State is the interaction state.
type State uint8

const (
	None State = iota
	Hovered
	Selected
)

func (s State) String() string {
	switch s {
	case Hovered:
		return "hovered"
	case Selected:
		return "selected"
	default:
		return "none"
	}
}

// Cursor is the pointer shape requested by the machine.
type Cursor uint8

const (
	CursorDefault Cursor = iota
	CursorPointer
)

// Bodies is the particle pool as seen by the machine.
type Bodies interface {
	HitTest(x, y, slop float32) (ecs.Entity, bool)
	Item(e ecs.Entity) *content.Item
	Freeze(e ecs.Entity)
	Resume(e ecs.Entity)
}

// ModeProvider reports whether links are currently enabled. It is read on every
// event and every frame.
type ModeProvider func() bool

// Zones returns the protected screen rectangles (header, visible info panel).
type Zones func() []systems.Rect

// Opener opens a URL outside the application.
type Opener interface {
	Open(url string) error
}

// Listener is notified when the touch selection changes.
type Listener interface {
	Selected(item *content.Item) // nil for filler particles
	Cleared()
}

// Options configures a Machine.
type Options struct {
	Mode      ModeProvider
	Opener    Opener
	Listener  Listener
	Zones     Zones
	TouchSlop float32
	Logger    *slog.Logger
}

// Machine tracks hover and selection for one pool build at a time.
type Machine struct {
	bodies    Bodies
	mode      ModeProvider
	opener    Opener
	listener  Listener
	zones     Zones
	touchSlop float32
	logger    *slog.Logger

	modality device.Modality
	state    State
	target   ecs.Entity
	cursor   Cursor
}

// New creates a machine over bodies.
func New(bodies Bodies, opts Options) *Machine {
	m := &Machine{
		bodies:    bodies,
		mode:      opts.Mode,
		opener:    opts.Opener,
		listener:  opts.Listener,
		zones:     opts.Zones,
		touchSlop: opts.TouchSlop,
		logger:    opts.Logger,
	}
	if m.mode == nil {
		m.mode = func() bool { return true }
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	return m
}

// Sync applies the modality for this cycle and the current link mode. Call it once
// per frame before dispatching input events.
func (m *Machine) Sync(modality device.Modality) {
	m.modality = modality

	if !m.mode() {
		m.clearHover()
		m.release()
		return
	}
	switch modality {
	case device.Pointer:
		m.release()
	case device.Touch:
		m.clearHover()
	}
}

// PointerMove updates the hover target.
func (m *Machine) PointerMove(x, y float32) {
	if !m.mode() || m.protected(x, y) || m.modality == device.Touch {
		m.clearHover()
		return
	}

	e, ok := m.bodies.HitTest(x, y, 0)
	if !ok {
		m.clearHover()
		return
	}
	m.state = Hovered
	m.target = e
	m.cursor = CursorDefault
	if m.bodies.Item(e).HasLink() {
		m.cursor = CursorPointer
	}
}

// PointerClick opens the hovered particle's link. Clicks in a protected zone,
// on touch devices or with links off are ignored.
func (m *Machine) PointerClick(x, y float32) {
	if !m.mode() || m.modality == device.Touch || m.protected(x, y) {
		return
	}
	if m.state != Hovered {
		return
	}
	m.open(m.bodies.Item(m.target))
}

// Tap handles a touch start. It reports whether the tap was consumed; an
// unconsumed tap should pass through to whatever lies beneath (scrolling).
func (m *Machine) Tap(x, y float32) bool {
	if !m.mode() || m.modality != device.Touch || m.protected(x, y) {
		return false
	}

	e, ok := m.bodies.HitTest(x, y, m.touchSlop)
	if !ok {
		m.release()
		return false
	}

	if m.state == Selected && m.target == e {
		// Re-tapping keeps the selection; navigation goes through Confirm.
		return true
	}

	m.release()
	m.state = Selected
	m.target = e
	m.bodies.Freeze(e)

	item := m.bodies.Item(e)
	m.logger.Debug("particle selected", "entity", e.ID(), "bound", item != nil)
	if m.listener != nil {
		m.listener.Selected(item)
	}
	return true
}

// Confirm opens the selected particle's link. It reports whether a link was opened.
func (m *Machine) Confirm() bool {
	if !m.mode() || m.state != Selected {
		return false
	}
	return m.open(m.bodies.Item(m.target))
}

// Clear drops any selection, letting the selected particle drift again.
func (m *Machine) Clear() {
	m.release()
	m.clearHover()
}

// Reset forgets hover and selection without touching the current bodies, then
// switches to next. Use it when the pool is rebuilt.
func (m *Machine) Reset(next Bodies) {
	wasSelected := m.state == Selected
	m.state = None
	m.target = ecs.Entity{}
	m.cursor = CursorDefault
	m.bodies = next
	if wasSelected && m.listener != nil {
		m.listener.Cleared()
	}
}

// State returns the current state.
func (m *Machine) State() State { return m.state }

// Cursor returns the requested pointer shape.
func (m *Machine) Cursor() Cursor { return m.cursor }

// Modality returns the modality applied by the last Sync.
func (m *Machine) Modality() device.Modality { return m.modality }

// Hovered returns the hovered particle.
func (m *Machine) Hovered() (ecs.Entity, bool) {
	return m.target, m.state == Hovered
}

// Selected returns the selected particle.
func (m *Machine) Selected() (ecs.Entity, bool) {
	return m.target, m.state == Selected
}

// Frozen returns the particle that physics must hold still.
func (m *Machine) Frozen() (ecs.Entity, bool) {
	return m.target, m.state == Selected && m.modality == device.Touch
}

// Focus returns the item to describe in a tooltip or panel, if any.
func (m *Machine) Focus() *content.Item {
	if m.state == None || !m.mode() {
		return nil
	}
	return m.bodies.Item(m.target)
}

func (m *Machine) protected(x, y float32) bool {
	if m.zones == nil {
		return false
	}
	for _, r := range m.zones() {
		if r.Contains(x, y) {
			return true
		}
	}
	return false
}

func (m *Machine) clearHover() {
	if m.state == Hovered {
		m.state = None
		m.target = ecs.Entity{}
	}
	m.cursor = CursorDefault
}

// release resumes and forgets the selected particle.
func (m *Machine) release() {
	if m.state != Selected {
		return
	}
	m.bodies.Resume(m.target)
	m.state = None
	m.target = ecs.Entity{}
	if m.listener != nil {
		m.listener.Cleared()
	}
}

func (m *Machine) open(item *content.Item) bool {
	if !item.HasLink() || m.opener == nil {
		return false
	}
	if err := m.opener.Open(item.Link); err != nil {
		m.logger.Warn("opening link failed", "url", item.Link, "error", err)
		return false
	}
	m.logger.Info("link opened", "url", item.Link, "contributor", item.Contributor)
	return true
}
