package game

import (
	"time"

	"github.com/kolloid-cable/drift/content"
	"github.com/kolloid-cable/drift/pool"
)

// rebuilt adopts a freshly built pool.
func (g *Game) rebuilt(p *pool.Pool, selected []content.Item) {
	g.pool = p
	g.requireGlyphs(selected)
	g.machine.Reset(p)
	g.lastHover = 0
	g.collector.RecordRebuild()
}

// WaitForItems blocks until the outstanding fetch completes or timeout passes.
// It reports whether a result arrived.
func (g *Game) WaitForItems(timeout time.Duration) bool {
	return g.field.Wait(timeout)
}

// Resize adopts a new canvas size and rebuilds the pool for it.
func (g *Game) Resize(w, h float32) {
	if w == g.width && h == g.height {
		return
	}
	g.width, g.height = w, h
	g.header.Refresh(w)
	g.inspector.Resize(int32(w))
	g.field.Resize(w, h)
}

// requireGlyphs loads glyphs for everything the cards may show.
func (g *Game) requireGlyphs(items []content.Item) {
	if g.face == nil || len(items) == 0 {
		return
	}
	texts := make([]string, 0, len(items)*3)
	for _, it := range items {
		texts = append(texts, it.Title, g.dir.DisplayName(it.Contributor), it.Genre)
	}
	g.face.Require(texts...)
}
