package main

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/kolloid-cable/drift/content"
	"github.com/kolloid-cable/drift/pool"
)

// Terminal cells are mapped onto a pixel canvas so the pool keeps its usual
// sizes and speeds. A cell is twice as tall as it is wide.
const (
	cellW = 8
	cellH = 16
)

// Surface is the part of tcell.Screen the drawing code needs.
type Surface interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	Size() (width, height int)
}

// cellCenter returns the canvas position of the centre of cell (cx, cy).
func cellCenter(cx, cy int) (x, y float32) {
	return (float32(cx) + 0.5) * cellW, (float32(cy) + 0.5) * cellH
}

// canvasSize returns the canvas size for a terminal of cols x rows.
func canvasSize(cols, rows int) (w, h float32) {
	return float32(cols * cellW), float32(rows * cellH)
}

func tintColor(t content.Tint) tcell.Color {
	return tcell.NewRGBColor(int32(t[0]), int32(t[1]), int32(t[2]))
}

// paperStyle is the style of empty canvas cells.
var paperStyle = tcell.StyleDefault.
	Background(tintColor(content.PaperTint)).
	Foreground(tcell.NewRGBColor(40, 40, 40))

// cellAlpha doubles the opacity: a cell has no antialiasing to soften a disc,
// so pastel fills at their window opacity all but vanish on paper.
func cellAlpha(a uint8) uint8 {
	return uint8(min(255, 2*int(a)))
}

// clearSurface fills the surface with paper.
func clearSurface(s Surface) {
	cols, rows := s.Size()
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			s.SetContent(x, y, ' ', nil, paperStyle)
		}
	}
}

// drawParticles paints every particle as a disc of cells, in insertion order so
// later particles cover earlier ones like the hit test expects. Row 0 is left to
// the header.
func drawParticles(s Surface, p *pool.Pool, hovered *content.Item) {
	cols, rows := s.Size()
	p.Each(func(pt pool.Particle) {
		alpha := cellAlpha(pt.Body.Alpha)
		if hovered != nil && pt.Item == hovered {
			alpha = 255
		}
		style := tcell.StyleDefault.Background(tintColor(pt.Item.Tint().Over(content.PaperTint, alpha)))

		r := pt.Body.Radius
		x0 := max(0, int(math.Floor(float64((pt.Pos.X-r)/cellW))))
		x1 := min(cols-1, int(math.Floor(float64((pt.Pos.X+r)/cellW))))
		y0 := max(1, int(math.Floor(float64((pt.Pos.Y-r)/cellH))))
		y1 := min(rows-1, int(math.Floor(float64((pt.Pos.Y+r)/cellH))))

		painted := false
		for cy := y0; cy <= y1; cy++ {
			for cx := x0; cx <= x1; cx++ {
				x, y := cellCenter(cx, cy)
				dx, dy := x-pt.Pos.X, y-pt.Pos.Y
				if dx*dx+dy*dy <= r*r {
					s.SetContent(cx, cy, ' ', nil, style)
					painted = true
				}
			}
		}
		// Small bodies still get the cell under their centre
		if !painted {
			cx, cy := int(pt.Pos.X/cellW), int(pt.Pos.Y/cellH)
			if cx >= 0 && cx < cols && cy >= 1 && cy < rows {
				s.SetContent(cx, cy, ' ', nil, style)
			}
		}
	})
}

// drawText writes str from (x, y) and returns the column after it. Wide runes
// take two columns.
func drawText(s Surface, x, y int, str string, style tcell.Style) int {
	cols, _ := s.Size()
	for _, r := range str {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if x+w > cols {
			break
		}
		s.SetContent(x, y, r, nil, style)
		x += w
	}
	return x
}

// header layout
const linksPad = 1

// linksLabel is the clickable switch text in the header.
func linksLabel(on bool) string {
	if on {
		return "[ Links: on ]"
	}
	return "[ Links: off ]"
}

// linksSpan returns the first and last column of the links switch.
func linksSpan(cols int, on bool) (first, last int) {
	w := runewidth.StringWidth(linksLabel(on))
	first = max(0, cols-w-linksPad)
	return first, first + w - 1
}

var (
	headerStyle = tcell.StyleDefault.Background(tcell.NewRGBColor(255, 255, 255)).Foreground(tcell.NewRGBColor(40, 40, 40)).Bold(true)
	switchStyle = tcell.StyleDefault.Background(tcell.NewRGBColor(255, 255, 255)).Foreground(tcell.NewRGBColor(90, 90, 90))
)

// drawHeader paints the title bar on row 0.
func drawHeader(s Surface, title string, linksOn bool) {
	cols, _ := s.Size()
	for x := 0; x < cols; x++ {
		s.SetContent(x, 0, ' ', nil, headerStyle)
	}
	drawText(s, 1, 0, title, headerStyle)
	first, _ := linksSpan(cols, linksOn)
	drawText(s, first, 0, linksLabel(linksOn), switchStyle)
}

var (
	cardStyle  = tcell.StyleDefault.Background(tcell.NewRGBColor(255, 255, 255)).Foreground(tcell.NewRGBColor(40, 40, 40))
	cardBorder = tcell.StyleDefault.Background(tcell.NewRGBColor(255, 255, 255)).Foreground(tcell.NewRGBColor(200, 190, 185))
)

// cardRect places a w x h card below and right of the anchor cell, pulled back
// inside the screen at the right and bottom edges.
func cardRect(ax, ay, w, h, cols, rows int) (x, y int) {
	x, y = ax+2, ay+1
	if x+w > cols {
		x = max(0, cols-w-1)
	}
	if y+h > rows {
		y = max(1, rows-h-1)
	}
	return x, y
}

// drawCard paints the hover card for lines anchored at cell (ax, ay).
func drawCard(s Surface, lines [3]string, ax, ay int) {
	cols, rows := s.Size()
	inner := 0
	for _, l := range lines {
		inner = max(inner, runewidth.StringWidth(l))
	}
	w, h := inner+4, len(lines)+2
	x, y := cardRect(ax, ay, w, h, cols, rows)

	for cy := y; cy < y+h && cy < rows; cy++ {
		for cx := x; cx < x+w && cx < cols; cx++ {
			top, bottom := cy == y, cy == y+h-1
			left, right := cx == x, cx == x+w-1
			var r rune = ' '
			switch {
			case top && left:
				r = tcell.RuneULCorner
			case top && right:
				r = tcell.RuneURCorner
			case bottom && left:
				r = tcell.RuneLLCorner
			case bottom && right:
				r = tcell.RuneLRCorner
			case top || bottom:
				r = tcell.RuneHLine
			case left || right:
				r = tcell.RuneVLine
			}
			style := cardStyle
			if r != ' ' {
				style = cardBorder
			}
			s.SetContent(cx, cy, r, nil, style)
		}
	}
	for i, l := range lines {
		drawText(s, x+2, y+1+i, l, cardStyle)
	}
}
