// Package main provides CMA-ES tuning of the item sampler parameters against
// a fairness objective: fill every slot, spread slots evenly across contributors
// and keep the recent share near the configured ratio.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/kolloid-cable/drift/config"
	"github.com/kolloid-cable/drift/content"
)

// sourceList collects repeated -source flags.
type sourceList []string

func (s *sourceList) String() string { return strings.Join(*s, ",") }

func (s *sourceList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

type options struct {
	configPath      string
	seeds           int
	maxEvals        int
	population      int
	outputDir       string
	synContributors int
	synItems        int
	sources         sourceList
}

// evalRow is one tune_log.csv record.
type evalRow struct {
	Eval          int     `csv:"eval"`
	Fitness       float64 `csv:"fitness"`
	Fill          float64 `csv:"fill"`
	Evenness      float64 `csv:"evenness"`
	MaxShare      float64 `csv:"max_share"`
	Recency       float64 `csv:"recency"`
	NewRatio      float64 `csv:"new_ratio"`
	RecentDays    float64 `csv:"recent_days"`
	FallbackRatio float64 `csv:"fallback_ratio"`
	CapMin        float64 `csv:"cap_min"`
	CapMax        float64 `csv:"cap_max"`
}

func newEvalRow(n int, fitness float64, m Metrics, x []float64) evalRow {
	return evalRow{
		Eval: n, Fitness: fitness,
		Fill: m.Fill, Evenness: m.Evenness, MaxShare: m.MaxShare, Recency: m.Recency,
		NewRatio: x[0], RecentDays: x[1], FallbackRatio: x[2], CapMin: x[3], CapMax: x[4],
	}
}

// tuner tracks the best point seen across optimizer callbacks.
type tuner struct {
	params    *ParamVector
	evaluator *FitnessEvaluator
	log       *os.File
	logged    bool
	logger    *slog.Logger
	maxEvals  int

	evals   int
	best    float64
	bestX   []float64
	started time.Time
}

func (t *tuner) record(row evalRow) error {
	rows := []evalRow{row}
	if t.logged {
		return gocsv.MarshalWithoutHeaders(rows, t.log)
	}
	t.logged = true
	return gocsv.Marshal(rows, t.log)
}

// objective evaluates a normalized point. The optimizer never sees out-of-range values.
func (t *tuner) objective(norm []float64) float64 {
	x := t.params.Clamp(t.params.Denormalize(norm))
	fitness := t.evaluator.Evaluate(x)
	m := t.evaluator.LastMetrics()
	t.evals++
	if fitness < t.best {
		t.best, t.bestX = fitness, x
	}

	if err := t.record(newEvalRow(t.evals, fitness, m, x)); err != nil {
		t.logger.Warn("tune log write failed", "error", err)
	}

	elapsed := time.Since(t.started)
	eta := time.Duration(t.maxEvals-t.evals) * (elapsed / time.Duration(t.evals))
	t.logger.Info("eval",
		"n", t.evals,
		"fitness", fitness,
		"best", t.best,
		"metrics", m.String(),
		"elapsed", elapsed.Round(time.Second),
		"eta", eta.Round(time.Second),
	)
	return fitness
}

func corpus(opts options, cfg *config.Config, now time.Time, logger *slog.Logger) ([]content.Item, error) {
	if len(opts.sources) == 0 {
		return syntheticCorpus(opts.synContributors, opts.synItems, 42, now), nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Loader.Timeout)
	defer cancel()
	return loadCorpus(ctx, opts.sources, cfg, logger)
}

func run(opts options, logger *slog.Logger) error {
	if opts.outputDir == "" {
		return errors.New("-output is required")
	}
	if err := os.MkdirAll(opts.outputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := config.Init(opts.configPath); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	base := config.Cfg()

	now := time.Now()
	items, err := corpus(opts, base, now, logger)
	if err != nil {
		return fmt.Errorf("loading corpus: %w", err)
	}
	if len(items) == 0 {
		return errors.New("corpus is empty")
	}

	seeds := make([]int64, opts.seeds)
	for i := range seeds {
		seeds[i] = int64(i*1000 + 42)
	}

	params := NewParamVector()
	evaluator := NewFitnessEvaluator(params, items, seeds, base, now)

	logFile, err := os.Create(filepath.Join(opts.outputDir, "tune_log.csv"))
	if err != nil {
		return fmt.Errorf("creating tune log: %w", err)
	}
	defer logFile.Close()

	start := params.ExtractFromConfig(base)
	t := &tuner{
		params:    params,
		evaluator: evaluator,
		log:       logFile,
		logger:    logger,
		maxEvals:  opts.maxEvals,
		best:      evaluator.Evaluate(start),
		bestX:     params.Clamp(start),
		started:   time.Now(),
	}

	pop := opts.population
	if pop == 0 {
		pop = 4 + 3*params.Dim()/2
	}
	logger.Info("tuning",
		"params", params.Dim(),
		"items", len(items),
		"population", pop,
		"max_evals", opts.maxEvals,
		"baseline", evaluator.LastMetrics().String(),
		"baseline_fitness", t.best,
	)

	_, err = optimize.Minimize(
		optimize.Problem{Func: t.objective},
		params.Normalize(start),
		&optimize.Settings{FuncEvaluations: opts.maxEvals},
		&optimize.CmaEsChol{InitStepSize: 0.3, Population: pop},
	)
	if err != nil {
		logger.Warn("optimization ended", "error", err)
	}

	attrs := []any{"evals", t.evals, "elapsed", time.Since(t.started).Round(time.Second), "fitness", t.best}
	for i, spec := range params.Specs {
		attrs = append(attrs, spec.Path, t.bestX[i])
	}
	logger.Info("best", attrs...)

	bestCfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("reloading config: %w", err)
	}
	params.ApplyToConfig(bestCfg, t.bestX)
	out := filepath.Join(opts.outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(out); err != nil {
		return fmt.Errorf("writing best config: %w", err)
	}
	logger.Info("best config saved", "path", out)
	return nil
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "Base config YAML file (empty = use defaults)")
	flag.IntVar(&opts.seeds, "seeds", 8, "Number of seeds per evaluation")
	flag.IntVar(&opts.maxEvals, "max-evals", 300, "Maximum number of evaluations")
	flag.IntVar(&opts.population, "population", 0, "CMA-ES population size (0 = auto)")
	flag.StringVar(&opts.outputDir, "output", "", "Output directory for results")
	flag.IntVar(&opts.synContributors, "synthetic-contributors", 40, "Contributors in the synthetic corpus")
	flag.IntVar(&opts.synItems, "synthetic-items", 600, "Items in the synthetic corpus")
	flag.Var(&opts.sources, "source", "Item source URI to tune against (repeatable; default = synthetic corpus)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if err := run(opts, logger); err != nil {
		logger.Error("tune failed", "error", err)
		os.Exit(1)
	}
}
