// Command kolloid-tty shows the particle field in a terminal. Hover a particle
// with the mouse to see its card; click to open its link.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/kolloid-cable/drift/config"
	"github.com/kolloid-cable/drift/content"
	"github.com/kolloid-cable/drift/field"
	"github.com/kolloid-cable/drift/interaction"
	"github.com/kolloid-cable/drift/modeflag"
	"github.com/kolloid-cable/drift/opener"
	"github.com/kolloid-cable/drift/sources"
)

// sourceList collects repeated -source flags.
type sourceList []string

func (s *sourceList) String() string { return strings.Join(*s, ",") }

func (s *sourceList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// chimeOpener plays the chime after every successful open.
type chimeOpener struct {
	next  interaction.Opener
	chime *Chime
}

func (o chimeOpener) Open(url string) error {
	if err := o.next.Open(url); err != nil {
		return err
	}
	o.chime.Play()
	return nil
}

func main() {
	var srcs sourceList

	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	links := flag.Bool("links", true, "Start with particle links enabled")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	contributors := flag.String("contributors", "", "Contributor directory file (overrides config)")
	logFile := flag.String("log-file", "", "Write JSON logs to this file (the terminal is busy drawing)")
	volume := flag.Float64("volume", 0.3, "Chime volume, 0 mutes")
	flag.Var(&srcs, "source", "Item source URI: http(s)://, s3://bucket/key or a file path (repeatable, overrides config)")
	flag.Parse()

	var logOut io.Writer = io.Discard
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	logger := slog.New(slog.NewJSONHandler(logOut, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
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
	dirPath := *contributors
	if dirPath == "" {
		dirPath = cfg.Sources.Contributors
	}
	dir := content.Directory{}
	if dirPath != "" {
		d, err := content.LoadDirectory(dirPath)
		if err != nil {
			logger.Warn("contributor directory unavailable, showing ids", "path", dirPath, "error", err)
		} else {
			dir = d
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.HideCursor()

	chime, err := NewChime(*volume, logger)
	if err != nil {
		// Non-fatal, the field runs without sound
		logger.Warn("chime disabled", "error", err)
	}
	defer chime.Close()

	cols, rows := screen.Size()
	app := NewApp(AppOptions{
		Config: cfg,
		Field: field.Options{
			RNG:   rand.New(rand.NewSource(rngSeed)),
			Links: modeflag.New(*links),
			Fetch: field.NewFetcher(uris, sources.Options{AWSRegion: cfg.Sources.AWSRegion}, cfg.Loader.MaxConcurrency, logger),
		},
		Opener:    chimeOpener{next: opener.System{}, chime: chime},
		Directory: dir,
		Cols:      cols,
		Rows:      rows,
		Logger:    logger,
	})
	defer app.Close()

	logger.Info("starting terminal view", "seed", rngSeed, "sources", len(uris), "cols", cols, "rows", rows)
	app.Run(screen)
}
