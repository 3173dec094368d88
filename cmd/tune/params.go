package main

import (
	"math"

	"github.com/kolloid-cable/drift/config"
)

// ParamSpec is one tunable field of the sampling section.
type ParamSpec struct {
	Name     string
	Path     string
	Min, Max float64
	Int      bool // rounded when written back

	get func(*config.SamplingConfig) float64
	set func(*config.SamplingConfig, float64)
}

// ParamVector maps between optimizer space ([0,1] per dimension) and sampler settings.
type ParamVector struct {
	Specs []ParamSpec
}

func floatParam(name string, lo, hi float64, field func(*config.SamplingConfig) *float64) ParamSpec {
	return ParamSpec{
		Name: name, Path: "sampling." + name, Min: lo, Max: hi,
		get: func(s *config.SamplingConfig) float64 { return *field(s) },
		set: func(s *config.SamplingConfig, v float64) { *field(s) = v },
	}
}

func intParam(name string, lo, hi float64, field func(*config.SamplingConfig) *int) ParamSpec {
	return ParamSpec{
		Name: name, Path: "sampling." + name, Min: lo, Max: hi, Int: true,
		get: func(s *config.SamplingConfig) float64 { return float64(*field(s)) },
		set: func(s *config.SamplingConfig, v float64) { *field(s) = int(math.Round(v)) },
	}
}

// NewParamVector returns the tuned sampler parameters. The Instagram cap and the
// relax steps are not tuned.
func NewParamVector() *ParamVector {
	return &ParamVector{Specs: []ParamSpec{
		floatParam("new_ratio", 0.05, 0.6, func(s *config.SamplingConfig) *float64 { return &s.NewRatio }),
		intParam("recent_days", 7, 120, func(s *config.SamplingConfig) *int { return &s.RecentDays }),
		floatParam("fallback_ratio", 0.2, 1, func(s *config.SamplingConfig) *float64 { return &s.FallbackRatio }),
		intParam("cap_min", 1, 4, func(s *config.SamplingConfig) *int { return &s.CapMin }),
		intParam("cap_max", 3, 10, func(s *config.SamplingConfig) *int { return &s.CapMax }),
	}}
}

// Dim is the search space dimension.
func (pv *ParamVector) Dim() int { return len(pv.Specs) }

// DefaultVector reads the stock values from the embedded defaults.
func (pv *ParamVector) DefaultVector() []float64 {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}
	return pv.ExtractFromConfig(cfg)
}

func (pv *ParamVector) mapEach(v []float64, f func(ParamSpec, float64) float64) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		out[i] = f(spec, v[i])
	}
	return out
}

// Normalize maps raw values into [0,1].
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	return pv.mapEach(raw, func(s ParamSpec, x float64) float64 { return (x - s.Min) / (s.Max - s.Min) })
}

// Denormalize maps [0,1] values back to raw ones.
func (pv *ParamVector) Denormalize(norm []float64) []float64 {
	return pv.mapEach(norm, func(s ParamSpec, x float64) float64 { return s.Min + x*(s.Max-s.Min) })
}

// Clamp keeps every value within its bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	return pv.mapEach(v, func(s ParamSpec, x float64) float64 { return max(s.Min, min(s.Max, x)) })
}

// ApplyToConfig writes values into cfg.Sampling. cap_min is lowered to cap_max
// when the optimizer crosses them.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	for i, x := range pv.Clamp(values) {
		pv.Specs[i].set(&cfg.Sampling, x)
	}
	cfg.Sampling.CapMin = min(cfg.Sampling.CapMin, cfg.Sampling.CapMax)
}

// ExtractFromConfig reads the current values from cfg.Sampling.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		out[i] = spec.get(&cfg.Sampling)
	}
	return out
}
