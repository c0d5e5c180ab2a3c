package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/coilgun/internal/physics"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if len(cfg.Stages) != 6 {
		t.Fatalf("expected 6 stages, got %d", len(cfg.Stages))
	}
	if math.Abs(cfg.Stages[5].Position-0.45) > 1e-12 {
		t.Errorf("expected last stage at 0.45, got %f", cfg.Stages[5].Position)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestBuild(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Capsule.Velocity = 0.3

	s, err := cfg.Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if s.Capsule().Position() != 0.02 || s.Capsule().Velocity() != 0.3 {
		t.Errorf("unexpected capsule state x=%g v=%g", s.Capsule().Position(), s.Capsule().Velocity())
	}
	if len(s.Stages()) != 6 {
		t.Errorf("expected 6 stages, got %d", len(s.Stages()))
	}
	if s.InitialEnergy() != 6*80 {
		t.Errorf("expected 480 J, got %g", s.InitialEnergy())
	}
}

func TestBuildInvalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero mass", func(c *Config) { c.Capsule.Mass = 0 }},
		{"zero tube", func(c *Config) { c.TubeLength = 0 }},
		{"negative step", func(c *Config) { c.TimeStep = -1 }},
		{"zero max time", func(c *Config) { c.MaxTime = 0 }},
		{"bad stage", func(c *Config) { c.Stages[2].Capacitance = 0 }},
		{"empty layout", func(c *Config) {
			c.Stages = nil
			c.Layout = &LayoutConfig{}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if _, err := cfg.Build(); !errors.Is(err, physics.ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestLayout(t *testing.T) {
	l := &LayoutConfig{Count: 4, Turns: 50, Diameter: 0.05, Capacitance: 1e-3, Voltage: 300}
	stages := l.Stages(0.4)

	if len(stages) != 4 {
		t.Fatalf("expected 4 stages, got %d", len(stages))
	}
	for i, s := range stages {
		if s.ID != i {
			t.Errorf("expected id %d, got %d", i, s.ID)
		}
		if math.Abs(s.Length-0.06) > 1e-12 {
			t.Errorf("expected coil length 0.06, got %g", s.Length)
		}
	}
	if math.Abs(stages[3].Position-0.3) > 1e-12 {
		t.Errorf("expected last stage at 0.3, got %g", stages[3].Position)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "launcher.yaml")
	cfg := DefaultConfig()
	cfg.Name = "roundtrip"
	cfg.SetVoltage(650)

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Name != "roundtrip" || len(loaded.Stages) != 6 || loaded.Stages[0].Voltage != 650 {
		t.Errorf("unexpected config %+v", loaded)
	}
}

func TestParsePartial(t *testing.T) {
	data := []byte(`
name: layout
tube_length: 0.6
layout:
  count: 3
  start: 0.05
  spacing: 0.15
  turns: 80
  diameter: 0.09
  capacitance: 0.002
  voltage: 500
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.TimeStep != DefaultTimeStep || cfg.Capsule.Mass != DefaultCapsuleMass {
		t.Errorf("expected defaults for missing fields, got dt=%g mass=%g", cfg.TimeStep, cfg.Capsule.Mass)
	}
	stages := cfg.StageConfigs()
	if len(stages) != 3 || stages[2].Voltage != 500 {
		t.Fatalf("unexpected stages %+v", stages)
	}
	if _, err := cfg.Build(); err != nil {
		t.Errorf("build failed: %v", err)
	}
}

func TestParseInvalid(t *testing.T) {
	if _, err := Parse([]byte("tube_length: [1, 2")); err == nil {
		t.Error("expected parse error")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("single")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.TubeLength != 0.2 || cfg.MaxTime != 5.0 {
		t.Errorf("unexpected single preset %+v", cfg)
	}

	cfg.Stages[0].Voltage = 1
	if Presets["single"].Stages[0].Voltage != DefaultVoltage {
		t.Error("expected preset copies to be independent")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	expected := []string{"default", "demo", "exit", "short", "single"}
	if len(names) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, names)
	}
	for i := range expected {
		if names[i] != expected[i] {
			t.Errorf("expected %v, got %v", expected, names)
		}
	}
}

func TestPresetsBuild(t *testing.T) {
	for _, name := range ListPresets() {
		t.Run(name, func(t *testing.T) {
			if _, err := GetPreset(name).Build(); err != nil {
				t.Errorf("build failed: %v", err)
			}
		})
	}
}

func TestExitPreset(t *testing.T) {
	cfg := GetPreset("exit")
	s, err := cfg.Build()
	if err != nil {
		t.Fatal(err)
	}
	res, err := s.Run(cfg.MaxTime)
	if err != nil {
		t.Fatal(err)
	}
	if res.FinalPosition < cfg.TubeLength {
		t.Errorf("expected capsule to leave the tube, got x=%g", res.FinalPosition)
	}
	if res.TotalTime >= cfg.MaxTime {
		t.Errorf("expected exit before %gs, got %g", cfg.MaxTime, res.TotalTime)
	}
}

func TestShortPresetProducesThrust(t *testing.T) {
	cfg := GetPreset("short")
	s, err := cfg.Build()
	if err != nil {
		t.Fatal(err)
	}
	res, err := s.Run(cfg.MaxTime)
	if err != nil {
		t.Fatal(err)
	}
	if res.MaxForce() <= 0 {
		t.Errorf("expected positive peak force, got %g", res.MaxForce())
	}
}
