package renderer

import "testing"

func TestGenreColor(t *testing.T) {
	tests := []struct {
		genre   string
		r, g, b uint8
	}{
		{"音楽", 255, 198, 170},
		{"旅", 255, 200, 156},
		{"", 255, 190, 170},
		{"unknown", 255, 190, 170},
	}

	for _, tt := range tests {
		c := GenreColor(tt.genre, 90)
		if c.R != tt.r || c.G != tt.g || c.B != tt.b {
			t.Errorf("GenreColor(%q) = (%d,%d,%d), want (%d,%d,%d)", tt.genre, c.R, c.G, c.B, tt.r, tt.g, tt.b)
		}
		if c.A != 90 {
			t.Errorf("GenreColor(%q).A = %d, want 90", tt.genre, c.A)
		}
	}

	if f := FillerColor(60); f != GenreColor("", 60) {
		t.Errorf("FillerColor = %v, want the unknown-genre tint", f)
	}
}
