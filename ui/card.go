package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/kolloid-cable/drift/content"
)

// CardLines returns the three card lines for item: title, contributor display name
// and genre.
func CardLines(item *content.Item, dir content.Directory) [3]string {
	return dir.Caption(item)
}

// PlaceCard positions a w x h card below and to the right of the anchor, pulled
// back inside the screen when it would cross the right or bottom edge.
func PlaceCard(anchorX, anchorY, w, h, screenW, screenH float32, theme Theme) rl.Rectangle {
	x := anchorX + theme.CardOffset
	y := anchorY + theme.CardOffset
	if x+w > screenW {
		x = screenW - w - theme.CardMargin
	}
	if y+h > screenH {
		y = screenH - h - theme.CardMargin
	}
	return rl.Rectangle{X: x, Y: y, Width: w, Height: h}
}

// Card is the hover tooltip shown in pointer mode.
type Card struct {
	r   *Renderer
	dir content.Directory
}

// NewCard creates a card that resolves contributor names through dir.
func NewCard(r *Renderer, dir content.Directory) *Card {
	return &Card{r: r, dir: dir}
}

// SetDirectory swaps the contributor directory.
func (c *Card) SetDirectory(dir content.Directory) {
	c.dir = dir
}

// Size returns the card size for lines.
func (c *Card) Size(lines [3]string) (w, h float32) {
	th := c.r.Theme
	var widest float32
	for _, l := range lines {
		widest = max(widest, c.r.Measure(l))
	}
	return widest + th.Padding*2, th.Padding*2 + th.LineHeight*2 + th.FontSize + 2
}

// Draw renders the card for item anchored at (x, y).
func (c *Card) Draw(item *content.Item, x, y, screenW, screenH float32) {
	if item == nil {
		return
	}
	th := c.r.Theme
	lines := CardLines(item, c.dir)
	w, h := c.Size(lines)
	rect := PlaceCard(x, y, w, h, screenW, screenH, th)

	c.r.DrawCard(rect, th.CardBg)
	c.drawLines(lines, rect.X+th.Padding, rect.Y+th.Padding)
}

func (c *Card) drawLines(lines [3]string, x, y float32) {
	th := c.r.Theme
	colors := [3]rl.Color{th.CardTitle, th.CardByline, th.CardGenre}
	for i, l := range lines {
		c.r.DrawText(l, x, y+float32(i)*th.LineHeight, colors[i])
	}
}
