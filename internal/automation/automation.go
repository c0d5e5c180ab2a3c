// Package automation runs scripted sequences of launcher simulations and
// Monte Carlo studies of launch tolerances.
package automation

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/coilgun/internal/config"
	"github.com/san-kum/coilgun/internal/optim"
	"github.com/san-kum/coilgun/internal/recorder"
	"github.com/san-kum/coilgun/internal/sim"
)

// Scenario defines a scripted simulation sequence.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`

	dir string
}

// ScenarioStep is one launcher run. Config, when set, takes precedence over
// Preset; relative paths are resolved against the scenario file.
type ScenarioStep struct {
	Preset  string             `yaml:"preset"`
	Config  string             `yaml:"config"`
	Params  map[string]float64 `yaml:"params"`
	MaxTime float64            `yaml:"max_time"`
	SaveAs  string             `yaml:"save_as"`
}

// LoadScenario loads a scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sc, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}
	sc.dir = filepath.Dir(path)
	return sc, nil
}

func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("error parsing scenario: %w", err)
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", sc.Name)
	}
	return &sc, nil
}

// launcher resolves the step's config with its params applied.
func (sc *Scenario) launcher(step ScenarioStep) (*config.Config, error) {
	var base *config.Config
	switch {
	case step.Config != "":
		path := step.Config
		if !filepath.IsAbs(path) && sc.dir != "" {
			path = filepath.Join(sc.dir, path)
		}
		c, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		base = c
	case step.Preset != "":
		base = config.GetPreset(step.Preset)
		if base == nil {
			return nil, fmt.Errorf("unknown preset: %s", step.Preset)
		}
	default:
		base = config.DefaultConfig()
	}

	cfg, err := optim.Apply(base, step.Params)
	if err != nil {
		return nil, err
	}
	if step.MaxTime > 0 {
		cfg.MaxTime = step.MaxTime
	}
	return cfg, nil
}

// Saver persists a run and returns its id.
type Saver interface {
	Save(name string, res *recorder.Result) (string, error)
}

// StepResult is the outcome of one scenario step. RunID is empty unless the
// step was saved.
type StepResult struct {
	Name   string
	RunID  string
	Result *recorder.Result
}

// RunScenario executes all steps in order. Steps with SaveAs are saved
// through saver when it is non-nil. The results of completed steps are
// returned along with the first error.
func RunScenario(ctx context.Context, sc *Scenario, saver Saver, log zerolog.Logger) ([]StepResult, error) {
	results := make([]StepResult, 0, len(sc.Steps))

	for i, step := range sc.Steps {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		cfg, err := sc.launcher(step)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		name := step.SaveAs
		if name == "" {
			name = cfg.Name
		}
		log.Info().Int("step", i+1).Int("of", len(sc.Steps)).Str("launcher", name).Msg("running scenario step")

		s, err := cfg.Build()
		if err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}
		s.SetLogger(log)

		res, err := s.Run(cfg.MaxTime)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		out := StepResult{Name: name, Result: res}
		if step.SaveAs != "" && saver != nil {
			if out.RunID, err = saver.Save(step.SaveAs, res); err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		results = append(results, out)
	}

	return results, nil
}

// MonteCarloConfig perturbs the capsule's initial position and velocity
// uniformly by up to the given jitter.
type MonteCarloConfig struct {
	Base           *config.Config
	PositionJitter float64
	VelocityJitter float64
	NumTrials      int
	Seed           int64
	Workers        int
}

// MonteCarloResult is one perturbed launch.
type MonteCarloResult struct {
	TrialID         int
	InitialPosition float64
	InitialVelocity float64
	FinalVelocity   float64
	FinalPosition   float64
	Exited          bool
}

// RunMonteCarlo runs every trial concurrently. A zero seed is replaced by
// the current time.
func RunMonteCarlo(ctx context.Context, cfg MonteCarloConfig) ([]MonteCarloResult, error) {
	if cfg.Base == nil {
		return nil, fmt.Errorf("monte carlo needs a base launcher")
	}
	if cfg.NumTrials < 1 {
		return nil, fmt.Errorf("monte carlo needs at least one trial, got %d", cfg.NumTrials)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	results := make([]MonteCarloResult, cfg.NumTrials)
	builders := make([]sim.Builder, cfg.NumTrials)
	for trial := range builders {
		c := cfg.Base.Clone()
		c.Capsule.Position += (rng.Float64() - 0.5) * 2 * cfg.PositionJitter
		c.Capsule.Velocity += (rng.Float64() - 0.5) * 2 * cfg.VelocityJitter
		results[trial] = MonteCarloResult{
			TrialID:         trial,
			InitialPosition: c.Capsule.Position,
			InitialVelocity: c.Capsule.Velocity,
		}
		builders[trial] = c.Build
	}

	batch := sim.NewBatch(builders, cfg.Base.MaxTime)
	batch.SetWorkers(cfg.Workers)
	runs, err := batch.Run(ctx)
	if err != nil {
		return nil, err
	}

	for i, r := range runs {
		results[i].FinalVelocity = r.FinalVelocity
		results[i].FinalPosition = r.FinalPosition
		results[i].Exited = r.FinalPosition >= cfg.Base.TubeLength
	}
	return results, nil
}

// MonteCarloSummary aggregates a study.
type MonteCarloSummary struct {
	Trials       int
	Exited       int
	MeanVelocity float64
	StdVelocity  float64
	MinVelocity  float64
	MaxVelocity  float64
}

// MonteCarloStats computes summary statistics from Monte Carlo results.
func MonteCarloStats(results []MonteCarloResult) MonteCarloSummary {
	sum := MonteCarloSummary{Trials: len(results), MinVelocity: math.Inf(1), MaxVelocity: math.Inf(-1)}
	if len(results) == 0 {
		sum.MinVelocity, sum.MaxVelocity = 0, 0
		return sum
	}

	vs := make([]float64, len(results))
	for i, r := range results {
		if r.Exited {
			sum.Exited++
		}
		vs[i] = r.FinalVelocity
		sum.MinVelocity = math.Min(sum.MinVelocity, r.FinalVelocity)
		sum.MaxVelocity = math.Max(sum.MaxVelocity, r.FinalVelocity)
	}
	if len(vs) > 1 {
		sum.MeanVelocity, sum.StdVelocity = stat.MeanStdDev(vs, nil)
	} else {
		sum.MeanVelocity = vs[0]
	}
	return sum
}
