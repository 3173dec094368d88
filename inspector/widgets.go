package inspector

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

var (
	ColorBarBg   = rl.Color{R: 40, G: 40, B: 40, A: 255}
	ColorBarFill = rl.Color{R: 100, G: 180, B: 100, A: 255}
	ColorText    = rl.Color{R: 220, G: 220, B: 220, A: 255}
	ColorTextDim = rl.Color{R: 150, G: 150, B: 150, A: 255}
)

const (
	rowHeight = 18
	textSize  = 14
	barOffset = 80
	barWidth  = 120
)

// DrawField draws one row and returns its height.
func DrawField(x, y int32, f Field) int32 {
	v, numeric := f.Float()
	if f.Widget != WidgetBar || !numeric {
		rl.DrawText(fmt.Sprintf("%s: %s", f.Name, f.Text()), x, y, textSize, ColorText)
		return rowHeight
	}

	rl.DrawText(f.Name, x, y, textSize, ColorTextDim)
	bx := x + barOffset
	rl.DrawRectangle(bx, y, barWidth, textSize, ColorBarBg)
	rl.DrawRectangle(bx, y, int32(barWidth*f.Ratio()), textSize, ColorBarFill)
	rl.DrawText(fmt.Sprintf("%.0f", v), bx+barWidth+5, y, textSize, ColorTextDim)
	return rowHeight
}
