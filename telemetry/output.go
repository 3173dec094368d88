package telemetry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"

	"github.com/kolloid-cable/drift/config"
)

// csvSink appends gocsv records to one file, writing the header once.
type csvSink struct {
	name   string
	f      *os.File
	header bool
}

func openSink(dir, name string) (*csvSink, error) {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", name, err)
	}
	return &csvSink{name: name, f: f}, nil
}

func (s *csvSink) append(records any) error {
	var err error
	if s.header {
		err = gocsv.MarshalWithoutHeaders(records, s.f)
	} else {
		err = gocsv.Marshal(records, s.f)
		s.header = err == nil
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", s.name, err)
	}
	return nil
}

// OutputManager writes the run directory: config.yaml plus one CSV per record kind.
// A nil manager is valid and discards everything.
type OutputManager struct {
	dir   string
	runID string

	selections *csvSink
	perf       *csvSink
	activity   *csvSink
}

// NewOutputManager creates dir and its CSV files. An empty dir disables output
// and returns a nil manager.
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir, runID: uuid.NewString()}
	for _, s := range []struct {
		dst  **csvSink
		name string
	}{
		{&om.selections, "selections.csv"},
		{&om.perf, "perf.csv"},
		{&om.activity, "activity.csv"},
	} {
		sink, err := openSink(dir, s.name)
		if err != nil {
			om.Close()
			return nil, err
		}
		*s.dst = sink
	}
	return om, nil
}

// RunID identifies this run in every CSV row.
func (om *OutputManager) RunID() string {
	if om == nil {
		return ""
	}
	return om.runID
}

// Dir returns the output directory.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// WriteConfig snapshots cfg as config.yaml.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteSelection appends one sampling pass.
func (om *OutputManager) WriteSelection(stats SelectionStats) error {
	if om == nil {
		return nil
	}
	return om.selections.append([]SelectionStats{stats})
}

// WritePerf appends the frame timings of the window ending at windowEnd.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int32, particles int) error {
	if om == nil {
		return nil
	}
	return om.perf.append([]PerfStatsCSV{stats.ToCSV(windowEnd, particles)})
}

// WriteActivity appends one window of interaction counters.
func (om *OutputManager) WriteActivity(stats ActivityStats) error {
	if om == nil {
		return nil
	}
	return om.activity.append([]ActivityStats{stats})
}

// Close closes every file that was opened.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	var errs []error
	for _, s := range []*csvSink{om.selections, om.perf, om.activity} {
		if s != nil {
			errs = append(errs, s.f.Close())
		}
	}
	return errors.Join(errs...)
}
