// Package sweep enumerates a Cartesian product of simulation and GBM
// parameter sets and runs the simulator once per combination.
package sweep

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"gbmsynth/internal/gbm"
)

var (
	ErrEmptyGrid     = errors.New("sweep: grid has no combinations")
	ErrUnknownPreset = errors.New("sweep: unknown preset")
)

const (
	DefaultS0 = 100.0
	DefaultT  = 1.0
)

type SimulationParams struct {
	N int `yaml:"n" json:"n"`
	M int `yaml:"M" json:"M"`
}

type GBMParams struct {
	Mu    float64 `yaml:"mu" json:"mu"`
	Sigma float64 `yaml:"sigma" json:"sigma"`
}

// Grid is a sweep definition. Combinations are enumerated with Simulation as
// the outer loop and GBM as the inner loop.
type Grid struct {
	Name       string             `yaml:"name"`
	Format     string             `yaml:"format,omitempty"`
	S0         float64            `yaml:"s0"`
	T          float64            `yaml:"t"`
	Simulation []SimulationParams `yaml:"simulation_parameters"`
	GBM        []GBMParams        `yaml:"gbm_parameters"`
}

// Combination is one point of the grid with its sequential id (from 1) and
// the seed derived for it.
type Combination struct {
	ID         int
	Seed       int64
	Simulation SimulationParams
	GBM        GBMParams
	Params     gbm.Params
}

func (g Grid) Size() int {
	return len(g.Simulation) * len(g.GBM)
}

// Validate checks that the grid is non-empty and every combination is a valid
// simulator input.
func (g Grid) Validate() error {
	if g.Size() == 0 {
		return ErrEmptyGrid
	}
	for _, c := range g.Combinations(0) {
		if err := c.Params.Validate(); err != nil {
			return fmt.Errorf("combination %d: %w", c.ID, err)
		}
	}
	return nil
}

// Combinations lists the grid in run order. Combination i gets seed
// baseSeed+i, so any single file can be regenerated on its own.
func (g Grid) Combinations(baseSeed int64) []Combination {
	out := make([]Combination, 0, g.Size())
	id := 1
	for _, sim := range g.Simulation {
		for _, gp := range g.GBM {
			out = append(out, Combination{
				ID:         id,
				Seed:       baseSeed + int64(id),
				Simulation: sim,
				GBM:        gp,
				Params: gbm.Params{
					S0:    g.S0,
					T:     g.T,
					N:     sim.N,
					M:     sim.M,
					Mu:    gp.Mu,
					Sigma: gp.Sigma,
				},
			})
			id++
		}
	}
	return out
}

var presetGBM = []GBMParams{
	{Mu: 0.1, Sigma: 0.2},
	{Mu: 0.3, Sigma: 0.1},
	{Mu: 0.5, Sigma: 0.4},
	{Mu: 0.7, Sigma: 0.1},
	{Mu: 0.5, Sigma: 0},
	{Mu: 0, Sigma: 0.3},
}

var presets = map[string]Grid{
	"diffusionts": {
		Name:   "diffusionts",
		Format: "csv",
		S0:     DefaultS0,
		T:      DefaultT,
		Simulation: []SimulationParams{
			{N: 1000, M: 1},
			{N: 5000, M: 1},
			{N: 20000, M: 1},
		},
		GBM: presetGBM,
	},
	"tsdiff": {
		Name:   "tsdiff",
		Format: "jsonl",
		S0:     DefaultS0,
		T:      DefaultT,
		Simulation: []SimulationParams{
			{N: 252, M: 1000},
			{N: 1000, M: 1000},
		},
		GBM: presetGBM,
	},
}

func PresetNames() []string {
	return []string{"diffusionts", "tsdiff"}
}

func Preset(name string) (Grid, error) {
	g, ok := presets[name]
	if !ok {
		return Grid{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	g.Simulation = append([]SimulationParams(nil), g.Simulation...)
	g.GBM = append([]GBMParams(nil), g.GBM...)
	return g, nil
}

// Parse decodes a YAML grid. Missing s0 and t default to 100 and 1; unknown
// keys are rejected.
func Parse(data []byte) (Grid, error) {
	g := Grid{S0: DefaultS0, T: DefaultT}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&g); err != nil {
		return Grid{}, fmt.Errorf("decode grid: %w", err)
	}
	if err := g.Validate(); err != nil {
		return Grid{}, err
	}
	return g, nil
}

func LoadFile(path string) (Grid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Grid{}, fmt.Errorf("read grid %s: %w", path, err)
	}
	g, err := Parse(data)
	if err != nil {
		return Grid{}, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}
