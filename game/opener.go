package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/kolloid-cable/drift/opener"
)

// windowOpener opens links through raylib.
type windowOpener struct{}

func (windowOpener) Open(raw string) error {
	if err := opener.CheckURL(raw); err != nil {
		return err
	}
	rl.OpenURL(raw)
	return nil
}
