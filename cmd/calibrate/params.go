package main

import (
	"github.com/pthm-cable/sprout/config"
)

// ParamSpec defines a single calibrated parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the tropism weights under calibration.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the four tropism weight parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "geo", Path: "roots.weights.geo", Min: 0, Max: 3, Default: 1.0},
			{Name: "hydro", Path: "roots.weights.hydro", Min: 0, Max: 6, Default: 3.0},
			{Name: "chemo", Path: "roots.weights.chemo", Min: 0, Max: 4, Default: 1.5},
			{Name: "thermo", Path: "roots.weights.thermo", Min: 0, Max: 2, Default: 0.5},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig writes clamped weights into cfg. Order matches Specs.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)
	cfg.Roots.Weights = config.TropismWeights{
		Geo:    clamped[0],
		Hydro:  clamped[1],
		Chemo:  clamped[2],
		Thermo: clamped[3],
	}
}

// ExtractFromConfig reads the current weights from cfg.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	w := cfg.Roots.Weights
	return []float64{w.Geo, w.Hydro, w.Chemo, w.Thermo}
}
