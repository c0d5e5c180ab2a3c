package automation

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/san-kum/coilgun/internal/config"
	"github.com/san-kum/coilgun/internal/recorder"
)

type memorySaver struct {
	saved []string
}

func (m *memorySaver) Save(name string, res *recorder.Result) (string, error) {
	id := fmt.Sprintf("%s_%d", name, len(m.saved))
	m.saved = append(m.saved, id)
	return id, nil
}

const scenarioYAML = `
name: voltage ladder
description: single stage at two voltages
steps:
  - preset: single
    max_time: 0.002
    params:
      voltage: 200
  - preset: single
    max_time: 0.002
    params:
      voltage: 800
    save_as: high
`

func TestParseScenario(t *testing.T) {
	sc, err := ParseScenario([]byte(scenarioYAML))
	if err != nil {
		t.Fatal(err)
	}
	if sc.Name != "voltage ladder" || len(sc.Steps) != 2 {
		t.Fatalf("unexpected scenario %+v", sc)
	}
	if sc.Steps[1].Params["voltage"] != 800 || sc.Steps[1].SaveAs != "high" {
		t.Errorf("unexpected step %+v", sc.Steps[1])
	}

	if _, err := ParseScenario([]byte("name: empty\n")); err == nil {
		t.Error("expected error for scenario without steps")
	}
}

func TestRunScenario(t *testing.T) {
	sc, err := ParseScenario([]byte(scenarioYAML))
	if err != nil {
		t.Fatal(err)
	}

	saver := &memorySaver{}
	results, err := RunScenario(context.Background(), sc, saver, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].RunID != "" || results[1].RunID != "high_0" {
		t.Errorf("unexpected run ids %q %q", results[0].RunID, results[1].RunID)
	}
	if results[1].Result.FinalVelocity <= results[0].Result.FinalVelocity {
		t.Errorf("800 V step should be faster: %v vs %v",
			results[1].Result.FinalVelocity, results[0].Result.FinalVelocity)
	}
	if got := results[0].Result.Parameters.MaxTime; got != 0.002 {
		t.Errorf("expected max time override, got %v", got)
	}
}

func TestRunScenarioConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfg := config.GetPreset("single")
	cfg.MaxTime = 0.001
	if err := config.Save(filepath.Join(dir, "launcher.yaml"), cfg); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "scenario.yaml")
	if err := os.WriteFile(path, []byte("name: file\nsteps:\n  - config: launcher.yaml\n"), 0644); err != nil {
		t.Fatal(err)
	}

	sc, err := LoadScenario(path)
	if err != nil {
		t.Fatal(err)
	}
	results, err := RunScenario(context.Background(), sc, nil, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Name != "single" {
		t.Errorf("unexpected results %+v", results)
	}
}

func TestRunScenarioErrors(t *testing.T) {
	sc := &Scenario{Steps: []ScenarioStep{
		{Preset: "single", MaxTime: 0.001},
		{Preset: "nope"},
	}}
	results, err := RunScenario(context.Background(), sc, nil, zerolog.Nop())
	if err == nil {
		t.Fatal("expected error for unknown preset")
	}
	if len(results) != 1 {
		t.Errorf("expected the first step's result, got %d", len(results))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := RunScenario(ctx, sc, nil, zerolog.Nop()); err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRunMonteCarlo(t *testing.T) {
	results, err := RunMonteCarlo(context.Background(), MonteCarloConfig{
		Base:           config.GetPreset("exit"),
		PositionJitter: 0.001,
		VelocityJitter: 0.01,
		NumTrials:      4,
		Seed:           7,
		Workers:        2,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 trials, got %d", len(results))
	}
	for _, r := range results {
		if r.InitialPosition < 0.149 || r.InitialPosition > 0.151 {
			t.Errorf("trial %d: position %v outside jitter", r.TrialID, r.InitialPosition)
		}
		if !r.Exited {
			t.Errorf("trial %d: expected exit, got x=%v", r.TrialID, r.FinalPosition)
		}
	}

	sum := MonteCarloStats(results)
	if sum.Trials != 4 || sum.Exited != 4 {
		t.Errorf("unexpected summary %+v", sum)
	}
	if sum.MinVelocity > sum.MeanVelocity || sum.MeanVelocity > sum.MaxVelocity {
		t.Errorf("inconsistent velocity stats %+v", sum)
	}
}

func TestRunMonteCarloDeterministic(t *testing.T) {
	base := config.GetPreset("single")
	base.MaxTime = 0.001
	cfg := MonteCarloConfig{Base: base, PositionJitter: 0.005, NumTrials: 3, Seed: 42}

	a, err := RunMonteCarlo(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	b, err := RunMonteCarlo(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("trial %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestRunMonteCarloValidation(t *testing.T) {
	if _, err := RunMonteCarlo(context.Background(), MonteCarloConfig{NumTrials: 1}); err == nil {
		t.Error("expected error without base")
	}
	if _, err := RunMonteCarlo(context.Background(), MonteCarloConfig{Base: config.DefaultConfig()}); err == nil {
		t.Error("expected error for zero trials")
	}
}

func TestMonteCarloStatsEmpty(t *testing.T) {
	sum := MonteCarloStats(nil)
	if sum.Trials != 0 || sum.MinVelocity != 0 || sum.MaxVelocity != 0 {
		t.Errorf("unexpected empty summary %+v", sum)
	}
}
