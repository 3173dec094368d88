// Package ui draws the chrome around the particle field: the header with its links
// switch, the hover card, the touch info panel and the debug HUD.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Theme holds UI styling constants.
type Theme struct {
	CardBg        rl.Color
	CardTitle     rl.Color
	CardByline    rl.Color
	CardGenre     rl.Color
	HeaderBg      rl.Color
	HeaderRule    rl.Color
	HeaderText    rl.Color
	PanelBorder   rl.Color
	HUDBg         rl.Color
	HUDText       rl.Color
	HUDWarm       rl.Color
	HUDHot        rl.Color
	Padding       float32
	LineHeight    float32
	FontSize      float32
	TitleFontSize float32
	CardOffset    float32 // gap between the anchor point and the card corner
	CardMargin    float32 // distance kept from the right and bottom edges
	CardRadius    float32
	ButtonHeight  float32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		CardBg:        rl.Color{R: 255, G: 255, B: 255, A: 230},
		CardTitle:     rl.Color{R: 40, G: 40, B: 40, A: 255},
		CardByline:    rl.Color{R: 70, G: 70, B: 70, A: 255},
		CardGenre:     rl.Color{R: 90, G: 90, B: 90, A: 255},
		HeaderBg:      rl.Color{R: 247, G: 245, B: 242, A: 235},
		HeaderRule:    rl.Color{R: 220, G: 214, B: 206, A: 255},
		HeaderText:    rl.Color{R: 60, G: 56, B: 52, A: 255},
		PanelBorder:   rl.Color{R: 230, G: 222, B: 214, A: 255},
		HUDBg:         rl.Color{R: 20, G: 25, B: 30, A: 200},
		HUDText:       rl.LightGray,
		HUDWarm:       rl.Orange,
		HUDHot:        rl.Red,
		Padding:       10,
		LineHeight:    16,
		FontSize:      12,
		TitleFontSize: 18,
		CardOffset:    14,
		CardMargin:    10,
		CardRadius:    12,
		ButtonHeight:  28,
	}
}
