package main

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/starfield/config"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for the YAML snippet
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Format  string  // Printf format for the value label
	Integer bool    // Round to whole numbers
}

// ParamVector holds the set of all tunable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the starfield's tunable parameters.
// Order must match ApplyToConfig and ExtractFromConfig.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "Count (particles)", Path: "starfield.count", Min: 1, Max: 1000, Format: "%.0f", Integer: true},
			{Name: "Speed (max drift per frame)", Path: "starfield.speed", Min: 0.05, Max: 3, Format: "%.2f"},
			{Name: "Twinkle rate (phase per frame)", Path: "starfield.twinkle_rate", Min: 0.001, Max: 0.1, Format: "%.3f"},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// Clamp ensures all values are within bounds, rounding integer parameters.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := v[i]
		if spec.Integer {
			val = float64(int(val + 0.5))
		}
		if val < spec.Min {
			val = spec.Min
		}
		if val > spec.Max {
			val = spec.Max
		}
		clamped[i] = val
	}
	return clamped
}

// Label formats value i for display.
func (pv *ParamVector) Label(i int, v float64) string {
	return fmt.Sprintf(pv.Specs[i].Format, v)
}

// ApplyToConfig writes parameter values into cfg's starfield section and
// recomputes the options the animator is mounted with.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)

	cfg.Starfield.Count = int(clamped[0])
	cfg.Starfield.Speed = clamped[1]
	cfg.Starfield.TwinkleRate = clamped[2]

	opts := cfg.Derived.Options
	opts.Count = cfg.Starfield.Count
	opts.Speed = cfg.Starfield.Speed
	opts.TwinkleRate = cfg.Starfield.TwinkleRate
	cfg.Derived.Options = opts
}

// ExtractFromConfig extracts current parameter values from cfg.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	opts := cfg.Derived.Options
	return pv.Clamp([]float64{
		float64(opts.Count),
		opts.Speed,
		opts.TwinkleRate,
	})
}

// YAML renders the starfield section for pasting into a config file.
func (pv *ParamVector) YAML(cfg *config.Config) (string, error) {
	out, err := yaml.Marshal(struct {
		Starfield config.StarfieldConfig `yaml:"starfield"`
	}{cfg.Starfield})
	if err != nil {
		return "", fmt.Errorf("marshaling starfield section: %w", err)
	}
	return string(out), nil
}
