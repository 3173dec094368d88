package interaction

import (
	"errors"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/kolloid-cable/drift/components"
	"github.com/kolloid-cable/drift/content"
	"github.com/kolloid-cable/drift/device"
	"github.com/kolloid-cable/drift/systems"
)

type fakeParticle struct {
	x, y, r float32
	item    *content.Item
	vel     components.Velocity
}

// fakeBodies mints real entities from an ark world but keeps geometry in plain maps.
type fakeBodies struct {
	world  *ecs.World
	mapper *ecs.Map1[components.Position]
	order  []ecs.Entity
	parts  map[ecs.Entity]*fakeParticle
	resume int
}

func newFakeBodies() *fakeBodies {
	w := ecs.NewWorld()
	return &fakeBodies{
		world:  w,
		mapper: ecs.NewMap1[components.Position](w),
		parts:  make(map[ecs.Entity]*fakeParticle),
	}
}

func (f *fakeBodies) add(x, y, r float32, item *content.Item) ecs.Entity {
	e := f.mapper.NewEntity(&components.Position{X: x, Y: y})
	f.order = append(f.order, e)
	f.parts[e] = &fakeParticle{x: x, y: y, r: r, item: item, vel: components.Velocity{X: 0.1, Y: 0.1}}
	return e
}

func (f *fakeBodies) HitTest(x, y, slop float32) (ecs.Entity, bool) {
	for i := len(f.order) - 1; i >= 0; i-- {
		p := f.parts[f.order[i]]
		dx, dy, r := x-p.x, y-p.y, p.r+slop
		if dx*dx+dy*dy <= r*r {
			return f.order[i], true
		}
	}
	return ecs.Entity{}, false
}

func (f *fakeBodies) Item(e ecs.Entity) *content.Item {
	if p, ok := f.parts[e]; ok {
		return p.item
	}
	return nil
}

func (f *fakeBodies) Freeze(e ecs.Entity) { f.parts[e].vel = components.Velocity{} }

func (f *fakeBodies) Resume(e ecs.Entity) {
	f.resume++
	f.parts[e].vel = components.Velocity{X: 0.2, Y: -0.1}
}

type recordingOpener struct {
	urls []string
	err  error
}

func (o *recordingOpener) Open(url string) error {
	if o.err != nil {
		return o.err
	}
	o.urls = append(o.urls, url)
	return nil
}

type recordingListener struct {
	selected []*content.Item
	cleared  int
}

func (l *recordingListener) Selected(item *content.Item) { l.selected = append(l.selected, item) }
func (l *recordingListener) Cleared()                    { l.cleared++ }

type fixture struct {
	bodies   *fakeBodies
	opener   *recordingOpener
	listener *recordingListener
	links    bool
	zones    []systems.Rect
	m        *Machine

	a, b, filler ecs.Entity
}

func newFixture(modality device.Modality) *fixture {
	f := &fixture{
		bodies:   newFakeBodies(),
		opener:   &recordingOpener{},
		listener: &recordingListener{},
		links:    true,
		zones:    []systems.Rect{{Left: 0, Top: 0, Right: 800, Bottom: 56}},
	}
	f.a = f.bodies.add(100, 200, 20, &content.Item{ID: "a", Link: "https://example.com/a", Title: "A", Contributor: "x"})
	f.b = f.bodies.add(300, 200, 20, &content.Item{ID: "b", Link: "https://example.com/b", Title: "B", Contributor: "y"})
	f.filler = f.bodies.add(500, 200, 20, nil)

	f.m = New(f.bodies, Options{
		Mode:      func() bool { return f.links },
		Opener:    f.opener,
		Listener:  f.listener,
		Zones:     func() []systems.Rect { return f.zones },
		TouchSlop: 18,
	})
	f.m.Sync(modality)
	return f
}

func TestPointerHoverAndClick(t *testing.T) {
	f := newFixture(device.Pointer)

	f.m.PointerMove(105, 195)
	if e, ok := f.m.Hovered(); !ok || e != f.a {
		t.Fatalf("Hovered() = %v, %v; want a", e, ok)
	}
	if f.m.Cursor() != CursorPointer {
		t.Error("cursor over a linked particle is not a pointer")
	}

	f.m.PointerClick(105, 195)
	if len(f.opener.urls) != 1 || f.opener.urls[0] != "https://example.com/a" {
		t.Errorf("opened %v, want a's link", f.opener.urls)
	}

	f.m.PointerMove(500, 200)
	if f.m.Cursor() != CursorDefault {
		t.Error("cursor over filler should stay default")
	}
	f.m.PointerClick(500, 200)
	if len(f.opener.urls) != 1 {
		t.Errorf("clicking filler opened %v", f.opener.urls)
	}

	f.m.PointerMove(700, 500)
	if f.m.State() != None {
		t.Errorf("state over empty space = %v, want none", f.m.State())
	}
}

func TestPointerProtectedZone(t *testing.T) {
	f := newFixture(device.Pointer)
	// A particle under the header still cannot be hovered through it
	f.bodies.add(400, 40, 20, &content.Item{ID: "h", Link: "https://example.com/h", Title: "H", Contributor: "z"})

	f.m.PointerMove(400, 40)
	if f.m.State() != None || f.m.Cursor() != CursorDefault {
		t.Errorf("hover inside header: state %v cursor %v", f.m.State(), f.m.Cursor())
	}
	f.m.PointerClick(400, 40)
	if len(f.opener.urls) != 0 {
		t.Errorf("click in header opened %v", f.opener.urls)
	}
}

func TestLinksOffDisablesEverything(t *testing.T) {
	f := newFixture(device.Pointer)
	f.m.PointerMove(100, 200)

	f.links = false
	f.m.Sync(device.Pointer)
	if f.m.State() != None || f.m.Cursor() != CursorDefault {
		t.Errorf("links off: state %v cursor %v", f.m.State(), f.m.Cursor())
	}
	f.m.PointerMove(100, 200)
	f.m.PointerClick(100, 200)
	if f.m.State() != None || len(f.opener.urls) != 0 {
		t.Error("pointer input acted with links off")
	}

	tf := newFixture(device.Touch)
	tf.links = false
	if tf.m.Tap(100, 200) {
		t.Error("tap consumed with links off")
	}
}

func TestTapSelectThenEmptySpaceResumes(t *testing.T) {
	f := newFixture(device.Touch)

	if !f.m.Tap(100, 200) {
		t.Fatal("tap on a particle was not consumed")
	}
	if e, ok := f.m.Selected(); !ok || e != f.a {
		t.Fatalf("Selected() = %v, %v; want a", e, ok)
	}
	if !f.bodies.parts[f.a].vel.Stopped() {
		t.Error("selected particle not frozen")
	}
	if e, ok := f.m.Frozen(); !ok || e != f.a {
		t.Error("Frozen() does not report the touch selection")
	}

	if f.m.Tap(700, 500) {
		t.Error("tap on empty space was consumed")
	}
	if f.m.State() != None {
		t.Errorf("state = %v, want none", f.m.State())
	}
	vel := f.bodies.parts[f.a].vel
	if vel.Stopped() || vel.X < -0.25 || vel.X > 0.25 || vel.Y < -0.25 || vel.Y > 0.25 {
		t.Errorf("released velocity = %+v, want non-zero within ±0.25", vel)
	}
	if f.listener.cleared != 1 {
		t.Errorf("Cleared notifications = %d, want 1", f.listener.cleared)
	}
}

func TestTapSlop(t *testing.T) {
	f := newFixture(device.Touch)
	// 35 from a's centre: outside r=20, inside r+18
	if !f.m.Tap(135, 200) {
		t.Error("tap within touch slop missed")
	}
}

func TestTapFillerNeverNavigates(t *testing.T) {
	f := newFixture(device.Touch)

	if !f.m.Tap(500, 200) {
		t.Fatal("tap on filler was not consumed")
	}
	if e, ok := f.m.Selected(); !ok || e != f.filler {
		t.Fatal("filler not selected")
	}
	f.m.Tap(500, 200)
	if f.m.Confirm() {
		t.Error("Confirm on filler opened something")
	}
	if len(f.opener.urls) != 0 {
		t.Errorf("filler opened %v", f.opener.urls)
	}
	if len(f.listener.selected) != 1 || f.listener.selected[0] != nil {
		t.Errorf("listener got %v, want one nil selection", f.listener.selected)
	}
}

func TestTapOtherReleasesPrevious(t *testing.T) {
	f := newFixture(device.Touch)

	f.m.Tap(100, 200)
	f.m.Tap(300, 200)

	if e, ok := f.m.Selected(); !ok || e != f.b {
		t.Fatal("b not selected")
	}
	if f.bodies.parts[f.a].vel.Stopped() {
		t.Error("a still frozen after selecting b")
	}
	if !f.bodies.parts[f.b].vel.Stopped() {
		t.Error("b not frozen")
	}
	if f.bodies.resume != 1 {
		t.Errorf("Resume calls = %d, want 1", f.bodies.resume)
	}
}

func TestRetapKeepsSelectionAndConfirmOpens(t *testing.T) {
	f := newFixture(device.Touch)

	f.m.Tap(100, 200)
	if !f.m.Tap(100, 200) {
		t.Error("re-tap not consumed")
	}
	if len(f.opener.urls) != 0 {
		t.Errorf("re-tap navigated to %v", f.opener.urls)
	}
	if e, ok := f.m.Selected(); !ok || e != f.a {
		t.Error("re-tap lost the selection")
	}

	if !f.m.Confirm() {
		t.Fatal("Confirm did not open")
	}
	if len(f.opener.urls) != 1 || f.opener.urls[0] != "https://example.com/a" {
		t.Errorf("opened %v, want a's link", f.opener.urls)
	}
}

func TestTapInProtectedZoneIgnored(t *testing.T) {
	f := newFixture(device.Touch)
	f.m.Tap(100, 200)

	// Tapping the info panel must not deselect
	f.zones = append(f.zones, systems.Rect{Left: 600, Top: 400, Right: 800, Bottom: 600})
	if f.m.Tap(700, 500) {
		t.Error("tap in panel was consumed")
	}
	if _, ok := f.m.Selected(); !ok {
		t.Error("tap in panel cleared the selection")
	}
	if f.m.Tap(50, 20) {
		t.Error("tap in header was consumed")
	}
}

func TestModalitySwitchDropsState(t *testing.T) {
	f := newFixture(device.Touch)
	f.m.Tap(100, 200)

	f.m.Sync(device.Pointer)
	if f.m.State() != None {
		t.Errorf("selection survived switch to pointer: %v", f.m.State())
	}
	if f.bodies.parts[f.a].vel.Stopped() {
		t.Error("selected particle not resumed on switch")
	}

	f.m.PointerMove(300, 200)
	f.m.Sync(device.Touch)
	if f.m.State() != None {
		t.Errorf("hover survived switch to touch: %v", f.m.State())
	}
	// Pointer events are ignored on touch devices
	f.m.PointerMove(300, 200)
	if f.m.State() != None {
		t.Error("pointer move hovered on a touch device")
	}
}

func TestResetDoesNotTouchOldBodies(t *testing.T) {
	f := newFixture(device.Touch)
	f.m.Tap(100, 200)

	next := newFakeBodies()
	f.m.Reset(next)

	if f.m.State() != None {
		t.Errorf("state after Reset = %v", f.m.State())
	}
	if f.bodies.resume != 0 {
		t.Error("Reset resumed a particle of the discarded pool")
	}
	if f.listener.cleared != 1 {
		t.Errorf("Cleared notifications = %d, want 1", f.listener.cleared)
	}
	if f.m.Tap(100, 200) {
		t.Error("tap hit a particle of the discarded pool")
	}
}

func TestOpenerFailureIsNotFatal(t *testing.T) {
	f := newFixture(device.Touch)
	f.opener.err = errors.New("no browser")

	f.m.Tap(100, 200)
	if f.m.Confirm() {
		t.Error("Confirm reported success despite opener error")
	}
	if _, ok := f.m.Selected(); !ok {
		t.Error("failed open cleared the selection")
	}
}

func TestFocus(t *testing.T) {
	f := newFixture(device.Pointer)
	if f.m.Focus() != nil {
		t.Error("Focus with nothing hovered")
	}
	f.m.PointerMove(300, 200)
	if it := f.m.Focus(); it == nil || it.ID != "b" {
		t.Errorf("Focus() = %v, want b", it)
	}
	f.links = false
	if f.m.Focus() != nil {
		t.Error("Focus with links off")
	}
}
