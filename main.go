package main

import (
	"flag"
	"log/slog"
	"os"
	"strings"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/kolloid-cable/drift/config"
	"github.com/kolloid-cable/drift/game"
)

// sourceList collects repeated -source flags.
type sourceList []string

func (s *sourceList) String() string { return strings.Join(*s, ",") }

func (s *sourceList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func main() {
	var srcs sourceList

	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	links := flag.Bool("links", true, "Start with particle links enabled")
	logStats := flag.Bool("log-stats", false, "Output selection and activity stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	contributors := flag.String("contributors", "", "Contributor directory file (overrides config)")
	flag.Var(&srcs, "source", "Item source URI: http(s)://, s3://bucket/key or a file path (repeatable, overrides config)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	uris := []string(srcs)
	if len(uris) == 0 {
		uris = cfg.Sources.URIs
	}
	dir := *contributors
	if dir == "" {
		dir = cfg.Sources.Contributors
	}

	opts := game.Options{
		Seed:         rngSeed,
		OutputDir:    *outputDir,
		Headless:     *headless,
		LogStats:     *logStats,
		Links:        *links,
		Sources:      uris,
		Contributors: dir,
		Logger:       logger,
	}

	if *headless {
		// Headless mode - load, sample and step without raylib
		g := game.NewGame(opts)
		defer g.Unload()

		slog.Info("starting headless run",
			"seed", rngSeed,
			"sources", len(uris),
			"links", *links,
			"max_ticks", *maxTicks,
		)
		g.WaitForItems(cfg.Loader.Timeout + time.Second)

		for {
			g.UpdateHeadless()

			if *maxTicks > 0 && int(g.Tick()) >= *maxTicks {
				slog.Info("max ticks reached", "tick", g.Tick())
				return
			}
		}
	}

	// Graphical mode
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), cfg.Layout.Title)
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g := game.NewGame(opts)
	defer g.Unload()

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()

		if *maxTicks > 0 && int(g.Tick()) >= *maxTicks {
			break
		}
	}
}
