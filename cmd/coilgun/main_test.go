package main

import (
	"testing"

	"github.com/spf13/cobra"

	"github.com/san-kum/coilgun/internal/recorder"
)

func newLauncherCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	launcherFlags(cmd)
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return cmd
}

func TestLoadLauncherOverrides(t *testing.T) {
	cmd := newLauncherCmd(t, "--preset", "single", "--voltage", "600", "--max-time", "0.002", "--capsule-mass", "0.5")
	cfg, err := loadLauncher(cmd)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Name != "single" || cfg.MaxTime != 0.002 || cfg.Capsule.Mass != 0.5 {
		t.Errorf("unexpected config %+v", cfg)
	}
	for _, s := range cfg.Stages {
		if s.Voltage != 600 {
			t.Errorf("stage %d voltage %v", s.ID, s.Voltage)
		}
	}
	if cfg.TubeLength != 0.2 {
		t.Errorf("tube length should keep the preset value, got %v", cfg.TubeLength)
	}
}

func TestLoadLauncherUnknownPreset(t *testing.T) {
	cmd := newLauncherCmd(t, "--preset", "nope")
	if _, err := loadLauncher(cmd); err == nil {
		t.Error("expected error for unknown preset")
	}
}

func TestObjective(t *testing.T) {
	res := &recorder.Result{FinalVelocity: 3, Metrics: map[string]float64{"stages_fired": 2}}
	if v := objective("velocity")(res); v != 3 {
		t.Errorf("velocity objective: %v", v)
	}
	if v := objective("stages_fired")(res); v != 2 {
		t.Errorf("metric objective: %v", v)
	}
}
