// Package config loads optional engine tuning from an HCL file.
// Absent file or absent settings fall back to the built-in defaults,
// so deployments only write down what they change.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/holdem-equity/internal/equity"
	"github.com/lox/holdem-equity/internal/statistics"
)

// File is the root of the tuning file.
type File struct {
	Simulation *SimulationSettings `hcl:"simulation,block"`
}

// SimulationSettings tunes the Monte Carlo engine.
type SimulationSettings struct {
	PreflopTrials int     `hcl:"preflop_trials,optional"`
	FlopTrials    int     `hcl:"flop_trials,optional"`
	TurnTrials    int     `hcl:"turn_trials,optional"`
	RiverTrials   int     `hcl:"river_trials,optional"`
	Workers       int     `hcl:"workers,optional"`
	BatchSize     int     `hcl:"batch_size,optional"`
	CheckEvery    int     `hcl:"check_every,optional"`
	MinTrials     int     `hcl:"min_trials,optional"`
	TargetMargin  float64 `hcl:"target_margin,optional"`
	Confidence    float64 `hcl:"confidence,optional"`
	TimeoutMS     int     `hcl:"timeout_ms,optional"`
}

// Default returns the built-in tuning.
func Default() *File {
	return &File{
		Simulation: &SimulationSettings{
			PreflopTrials: equity.DefaultBudgets.Preflop,
			FlopTrials:    equity.DefaultBudgets.Flop,
			TurnTrials:    equity.DefaultBudgets.Turn,
			RiverTrials:   equity.DefaultBudgets.River,
			Workers:       1,
			BatchSize:     250,
			CheckEvery:    50,
			MinTrials:     500,
			TargetMargin:  0.02,
			Confidence:    0.95,
			TimeoutMS:     5000,
		},
	}
}

// Load reads a tuning file. A missing file is not an error: the
// defaults apply, same as any setting the file leaves out.
func Load(filename string) (*File, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg File
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *File) {
	def := Default().Simulation
	if cfg.Simulation == nil {
		cfg.Simulation = def
		return
	}

	s := cfg.Simulation
	if s.PreflopTrials == 0 {
		s.PreflopTrials = def.PreflopTrials
	}
	if s.FlopTrials == 0 {
		s.FlopTrials = def.FlopTrials
	}
	if s.TurnTrials == 0 {
		s.TurnTrials = def.TurnTrials
	}
	if s.RiverTrials == 0 {
		s.RiverTrials = def.RiverTrials
	}
	if s.Workers == 0 {
		s.Workers = def.Workers
	}
	if s.BatchSize == 0 {
		s.BatchSize = def.BatchSize
	}
	if s.CheckEvery == 0 {
		s.CheckEvery = def.CheckEvery
	}
	if s.MinTrials == 0 {
		s.MinTrials = def.MinTrials
	}
	if s.TargetMargin == 0 {
		s.TargetMargin = def.TargetMargin
	}
	if s.Confidence == 0 {
		s.Confidence = def.Confidence
	}
	if s.TimeoutMS == 0 {
		s.TimeoutMS = def.TimeoutMS
	}
}

// Validate rejects settings the engine would silently misbehave on.
func (f *File) Validate() error {
	s := f.Simulation

	budgets := f.Budgets()
	if err := budgets.Validate(); err != nil {
		return err
	}

	if s.TargetMargin <= 0 || s.TargetMargin >= 1 {
		return fmt.Errorf("target_margin must be in (0, 1), got %v", s.TargetMargin)
	}
	if !statistics.SupportedConfidence(s.Confidence) {
		return fmt.Errorf("confidence must be one of 0.90, 0.95, 0.99, got %v", s.Confidence)
	}
	if s.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", s.Workers)
	}
	if s.BatchSize < 1 {
		return fmt.Errorf("batch_size must be at least 1, got %d", s.BatchSize)
	}
	if s.MinTrials < s.CheckEvery {
		return fmt.Errorf("min_trials (%d) must be at least check_every (%d)", s.MinTrials, s.CheckEvery)
	}
	return nil
}

// Budgets maps the per-street trial settings into engine budgets.
func (f *File) Budgets() equity.Budgets {
	s := f.Simulation
	return equity.Budgets{
		Preflop: s.PreflopTrials,
		Flop:    s.FlopTrials,
		Turn:    s.TurnTrials,
		River:   s.RiverTrials,
	}
}

// EngineConfig translates the file into an engine configuration.
// Logger, ranker, clock and seed remain the caller's to fill in.
func (f *File) EngineConfig() equity.Config {
	s := f.Simulation
	return equity.Config{
		Workers:      s.Workers,
		BatchSize:    s.BatchSize,
		CheckEvery:   s.CheckEvery,
		MinTrials:    s.MinTrials,
		TargetMargin: s.TargetMargin,
		Confidence:   s.Confidence,
		Budgets:      f.Budgets(),
		Timeout:      time.Duration(s.TimeoutMS) * time.Millisecond,
	}
}
