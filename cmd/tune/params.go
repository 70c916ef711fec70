// Package main provides CMA-ES tuning for the genetic solver's
// hyperparameters.
package main

import (
	"github.com/pthm-cable/pointmorph/config"
	"github.com/pthm-cable/pointmorph/solver"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all tunable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the tunable genetic hyperparameters.
// Generations are fixed per run so fitness compares equal budgets.
func NewParamVector() *ParamVector {
	d := solver.DefaultGeneticParams()
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "population", Min: 2, Max: 16, Default: float64(d.Population)},
			{Name: "swaps_per_gen", Min: 64, Max: 2048, Default: float64(d.SwapsPerGen)},
			{Name: "init_temp", Min: 0.001, Max: 0.2, Default: d.InitTemp},
			{Name: "cooling", Min: 0.99, Max: 0.9999, Default: d.Cooling},
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
		val := v[i]
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

// ToGeneticParams converts clamped values into solver parameters.
func (pv *ParamVector) ToGeneticParams(values []float64, generations int) solver.GeneticParams {
	clamped := pv.Clamp(values)
	return solver.GeneticParams{
		Population:  int(clamped[0]),
		Generations: generations,
		SwapsPerGen: int(clamped[1]),
		InitTemp:    clamped[2],
		Cooling:     clamped[3],
	}
}

// ApplyToConfig applies parameter values to a Config struct.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64, generations int) {
	clamped := pv.Clamp(values)
	cfg.Solver.Genetic.Population = int(clamped[0])
	cfg.Solver.Genetic.SwapsPerGen = int(clamped[1])
	cfg.Solver.Genetic.InitTemp = clamped[2]
	cfg.Solver.Genetic.Cooling = clamped[3]
	cfg.Solver.Genetic.Generations = generations
}
