package ui

import (
	"strings"
	"testing"

	"github.com/kolloid-cable/drift/content"
	"github.com/kolloid-cable/drift/systems"
	"github.com/kolloid-cable/drift/telemetry"
)

func TestCardLines(t *testing.T) {
	dir := content.Directory{"mika": {DisplayName: "Mika S."}}

	tests := []struct {
		name string
		item content.Item
		want [3]string
	}{
		{
			name: "resolved name",
			item: content.Item{Title: "Rain", Contributor: "mika", Genre: "詩"},
			want: [3]string{"Title: Rain", "By: Mika S.", "Genre: 詩"},
		},
		{
			name: "unknown contributor and no genre",
			item: content.Item{Title: "Dawn", Contributor: "ken"},
			want: [3]string{"Title: Dawn", "By: ken", "Genre: —"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CardLines(&tt.item, dir); got != tt.want {
				t.Errorf("CardLines = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPlaceCard(t *testing.T) {
	th := DefaultTheme()

	tests := []struct {
		name   string
		ax, ay float32
		wantX  float32
		wantY  float32
	}{
		{"offset from anchor", 100, 100, 114, 114},
		{"right edge", 750, 100, 800 - 200 - 10, 114},
		{"bottom edge", 100, 580, 114, 600 - 66 - 10},
		{"corner", 790, 590, 590, 524},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := PlaceCard(tt.ax, tt.ay, 200, 66, 800, 600, th)
			if r.X != tt.wantX || r.Y != tt.wantY {
				t.Errorf("PlaceCard = (%v, %v), want (%v, %v)", r.X, r.Y, tt.wantX, tt.wantY)
			}
			if r.Width != 200 || r.Height != 66 {
				t.Errorf("size = %vx%v, want 200x66", r.Width, r.Height)
			}
		})
	}
}

func TestInfoPanelFollowsSelection(t *testing.T) {
	p := NewInfoPanel(NewRenderer(nil), nil, 280, 132)
	if p.Visible() || !p.Zone().Empty() {
		t.Fatal("new panel should be hidden with an empty zone")
	}

	item := &content.Item{Title: "t", Contributor: "c", Link: "https://example.com"}
	p.Selected(item)
	p.Place(100, 100, 1280, 800, nil)
	if !p.Visible() || p.Item() != item {
		t.Fatal("panel not showing the selected item")
	}
	want := systems.Rect{Left: 114, Top: 114, Right: 394, Bottom: 246}
	if z := p.Zone(); z != want {
		t.Errorf("Zone = %+v, want %+v", z, want)
	}

	// Filler selection hides the panel
	p.Selected(nil)
	if p.Visible() {
		t.Error("panel visible for filler selection")
	}

	p.Selected(item)
	p.Cleared()
	if p.Visible() || p.Item() != nil || !p.Zone().Empty() {
		t.Error("Cleared did not hide the panel")
	}
}

func TestInfoPanelWidensForLongLines(t *testing.T) {
	p := NewInfoPanel(NewRenderer(nil), nil, 100, 132)
	p.Selected(&content.Item{Title: "a long title", Contributor: "c"})
	p.Place(0, 0, 1280, 800, func(s string) float32 { return float32(len(s)) * 10 })

	z := p.Zone()
	if got, want := z.Right-z.Left, float32(len("Title: a long title")*10+20); got != want {
		t.Errorf("width = %v, want %v", got, want)
	}
}

func TestHeaderRect(t *testing.T) {
	h := NewHeader(NewRenderer(nil), "KoLLOID", 56)
	if !h.Rect().Empty() {
		t.Error("header rect set before Refresh")
	}
	h.Refresh(1024)
	if got := h.Rect(); got != (systems.Rect{Right: 1024, Bottom: 56}) {
		t.Errorf("Rect = %+v", got)
	}
	if !h.Rect().Contains(500, 56) || h.Rect().Contains(500, 57) {
		t.Error("header edge handling wrong")
	}
}

func TestHUDStatusLines(t *testing.T) {
	lines := StatusLines(HUDData{
		Generation: 3,
		Particles:  56,
		Bound:      40,
		Pending:    true,
		Links:      true,
		Modality:   "touch",
		State:      "selected",
		Perf:       telemetry.PerfStats{FPS: 30},
	})
	joined := strings.Join(lines, "\n")
	for _, want := range []string{"gen 3", "loading", "fps 30", "particles 56 (40 bound)", "touch", "selected", "links true"} {
		if !strings.Contains(joined, want) {
			t.Errorf("status lines missing %q:\n%s", want, joined)
		}
	}
	if LinksLabel(false) != "Links: off" {
		t.Errorf("LinksLabel(false) = %q", LinksLabel(false))
	}
}
