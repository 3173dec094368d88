package content

// Tint is an RGB colour without opacity.
type Tint [3]uint8

// PaperTint is the canvas colour.
var PaperTint = Tint{247, 245, 242}

// FillerTint colours particles without an item and items with an unknown genre.
var FillerTint = Tint{255, 190, 170}

// genreTints are warm pastels, one per genre label used by the directory.
var genreTints = map[string]Tint{
	"文章":    {255, 206, 164},
	"音楽":    {255, 198, 170},
	"短歌・和歌": {255, 190, 184},
	"詩":     {255, 194, 198},
	"写真":    {255, 204, 192},
	"絵":     {255, 210, 176},
	"映像":    {255, 196, 188},
	"食":     {255, 212, 160},
	"旅":     {255, 200, 156},
}

// GenreTint returns the tint for a genre, FillerTint when the genre is unknown.
func GenreTint(genre string) Tint {
	if t, ok := genreTints[genre]; ok {
		return t
	}
	return FillerTint
}

// Tint returns the tint for the item, FillerTint for a nil item.
func (it *Item) Tint() Tint {
	if it == nil {
		return FillerTint
	}
	return GenreTint(it.Genre)
}

// Over blends t at the given opacity onto bg.
func (t Tint) Over(bg Tint, alpha uint8) Tint {
	a := uint32(alpha)
	var out Tint
	for i := range out {
		out[i] = uint8((uint32(t[i])*a + uint32(bg[i])*(255-a) + 127) / 255)
	}
	return out
}
