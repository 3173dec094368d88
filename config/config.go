// Package config provides configuration loading and access for the particle field.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all application configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Motion    MotionConfig    `yaml:"motion"`
	Sizes     SizesConfig     `yaml:"sizes"`
	Sampling  SamplingConfig  `yaml:"sampling"`
	Density   []DensityTier   `yaml:"density"`
	Sources   SourcesConfig   `yaml:"sources"`
	Loader    LoaderConfig    `yaml:"loader"`
	Input     InputConfig     `yaml:"input"`
	Layout    LayoutConfig    `yaml:"layout"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// PhysicsConfig holds the per-frame step parameters.
type PhysicsConfig struct {
	BoundsMargin     float64 `yaml:"bounds_margin"`      // Respawn once a particle is this far outside the canvas
	OverlapPadding   float64 `yaml:"overlap_padding"`    // Extra gap kept between neighbouring bodies
	OverlapPasses    int     `yaml:"overlap_passes"`     // Relaxation passes per frame
	MinSeparation    float64 `yaml:"min_separation"`     // Distance substituted for coincident centres
	ZonePushMin      float64 `yaml:"zone_push_min"`      // Random offset below a forbidden zone (min)
	ZonePushMax      float64 `yaml:"zone_push_max"`      // Random offset below a forbidden zone (max)
	ZoneDownwardKick float64 `yaml:"zone_downward_kick"` // Added to |vy| when an upward particle is pushed out
}

// MotionConfig holds velocity and opacity ranges for spawned particles.
type MotionConfig struct {
	Speed       float64     `yaml:"speed"`        // Spawn velocity is uniform in [-speed, speed]
	ResumeSpeed float64     `yaml:"resume_speed"` // Velocity range after a selection is released
	AlphaMin    float64     `yaml:"alpha_min"`
	AlphaMax    float64     `yaml:"alpha_max"`
	SafeInset   InsetConfig `yaml:"safe_inset"` // First-spawn region as canvas fractions
}

// InsetConfig is a rectangle expressed as fractions of the canvas.
type InsetConfig struct {
	Left   float64 `yaml:"left"`
	Top    float64 `yaml:"top"`
	Right  float64 `yaml:"right"`
	Bottom float64 `yaml:"bottom"`
}

// SizesConfig holds the radius distribution presets per input modality.
type SizesConfig struct {
	Touch   SizeProfileConfig `yaml:"touch"`
	Pointer SizeProfileConfig `yaml:"pointer"`
}

// SizeProfileConfig describes a power-law radius distribution with a rare oversized tail.
type SizeProfileConfig struct {
	Min       float64 `yaml:"min"`
	Max       float64 `yaml:"max"`
	Power     float64 `yaml:"power"`      // >1 favours small radii
	BigChance float64 `yaml:"big_chance"` // Probability of drawing from the oversized range
	BigMin    float64 `yaml:"big_min"`
	BigMax    float64 `yaml:"big_max"`
	BigPower  float64 `yaml:"big_power"` // <1 leans towards the top of the oversized range
}

// SamplingConfig holds the item sampler parameters.
type SamplingConfig struct {
	NewRatio               float64 `yaml:"new_ratio"`                 // Fraction of slots reserved for recent items
	RecentDays             int     `yaml:"recent_days"`               // Recency window
	InstagramPerAccountCap int     `yaml:"instagram_per_account_cap"` // Max items per Instagram account
	FallbackRatio          float64 `yaml:"fallback_ratio"`            // New pool size when nothing is recent (x total)
	CapMin                 int     `yaml:"cap_min"`                   // Lower clamp of the contributor cap
	CapMax                 int     `yaml:"cap_max"`                   // Upper clamp of the contributor cap
	RelaxSteps             []int   `yaml:"relax_steps"`               // Cap increments tried on shortfall
}

// DensityTier maps a maximum viewport width to a particle count.
// A tier with MaxWidth 0 matches any width.
type DensityTier struct {
	MaxWidth int `yaml:"max_width"`
	Count    int `yaml:"count"`
}

// SourcesConfig lists item sources.
type SourcesConfig struct {
	URIs         []string `yaml:"uris"`         // http(s)://, s3://bucket/key or file paths
	Contributors string   `yaml:"contributors"` // Optional contributor directory file
	AWSRegion    string   `yaml:"aws_region"`
}

// LoaderConfig holds fetch parameters.
type LoaderConfig struct {
	Timeout        time.Duration `yaml:"timeout"`
	MaxConcurrency int           `yaml:"max_concurrency"`
	RefetchEvery   time.Duration `yaml:"refetch_every"` // Minimum interval between network refetches
	RefetchBurst   int           `yaml:"refetch_burst"`
}

// InputConfig holds interaction parameters.
type InputConfig struct {
	Modality  string  `yaml:"modality"`   // auto, pointer or touch
	TouchSlop float64 `yaml:"touch_slop"` // Extra hit radius for fingers
}

// LayoutConfig holds the fixed UI chrome geometry.
type LayoutConfig struct {
	Title              string  `yaml:"title"`
	FontPath           string  `yaml:"font_path"` // TTF/OTF with CJK glyphs; empty uses the built-in font
	FontSize           int     `yaml:"font_size"` // Atlas size in pixels
	HeaderHeight       float64 `yaml:"header_height"`
	HeaderRefreshTicks int     `yaml:"header_refresh_ticks"` // Frames between cached rect refreshes
	PanelWidth         float64 `yaml:"panel_width"`
	PanelHeight        float64 `yaml:"panel_height"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	PerfWindow int `yaml:"perf_window"` // Frames per perf.csv row
}

// DerivedConfig holds values computed from the loaded config.
type DerivedConfig struct {
	ScreenW32 float32
	ScreenH32 float32
	TickDT    time.Duration
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg, err := Defaults()
	if err != nil {
		return nil, err
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Defaults returns the embedded default configuration.
func Defaults() (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	cfg.computeDerived()
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Input.Modality {
	case "auto", "pointer", "touch":
	default:
		return fmt.Errorf("input.modality: unknown value %q", c.Input.Modality)
	}
	if c.Sampling.NewRatio < 0 || c.Sampling.NewRatio > 1 {
		return fmt.Errorf("sampling.new_ratio: %v outside [0, 1]", c.Sampling.NewRatio)
	}
	if c.Sampling.CapMin > c.Sampling.CapMax {
		return fmt.Errorf("sampling: cap_min %d above cap_max %d", c.Sampling.CapMin, c.Sampling.CapMax)
	}
	if len(c.Density) == 0 {
		return fmt.Errorf("density: at least one tier required")
	}
	// The last relax step must lift the contributor cap to the largest target
	steps := c.Sampling.RelaxSteps
	if len(steps) == 0 {
		return fmt.Errorf("sampling.relax_steps: at least one step required")
	}
	largest := 0
	for _, tier := range c.Density {
		largest = max(largest, tier.Count)
	}
	if last := steps[len(steps)-1]; c.Sampling.CapMin+last < largest {
		return fmt.Errorf("sampling.relax_steps: last step %d leaves the cap below the largest target %d", last, largest)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
	if c.Screen.TargetFPS > 0 {
		c.Derived.TickDT = time.Second / time.Duration(c.Screen.TargetFPS)
	}

	// Bounded tiers first, ascending; the catch-all tier (0) goes last
	sort.SliceStable(c.Density, func(i, j int) bool {
		a, b := c.Density[i].MaxWidth, c.Density[j].MaxWidth
		if a == 0 || b == 0 {
			return b == 0 && a != 0
		}
		return a < b
	})
}

// TargetCount returns the particle count for a viewport width.
func (c *Config) TargetCount(width int) int {
	for _, tier := range c.Density {
		if tier.MaxWidth == 0 || width <= tier.MaxWidth {
			return tier.Count
		}
	}
	if n := len(c.Density); n > 0 {
		return c.Density[n-1].Count
	}
	return 0
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
