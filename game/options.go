package game

import (
	"log/slog"

	"github.com/kolloid-cable/drift/interaction"
	"github.com/kolloid-cable/drift/loader"
)

// Options configures a Game.
type Options struct {
	Seed      int64
	OutputDir string // CSV logs and config snapshot; empty disables output
	Headless  bool
	LogStats  bool // log selection and activity windows via slog

	Links        bool     // start with links enabled
	Sources      []string // item source URIs, merged in order
	Contributors string   // contributor directory file

	// Fetch overrides the source-backed fetcher. Tests use it to feed items directly.
	Fetch loader.FetchFunc
	// Opener overrides how links are opened. Defaults to the window opener, or a
	// logging opener in headless mode.
	Opener interaction.Opener
	Logger *slog.Logger
}
