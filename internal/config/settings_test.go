package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSettingsDefaults(t *testing.T) {
	v, err := NewViper("")
	if err != nil {
		t.Fatal(err)
	}
	s, err := LoadSettings(v)
	if err != nil {
		t.Fatal(err)
	}
	if s.DataDir != ".coilgun" || s.Backend != "files" || s.LogLevel != "info" {
		t.Errorf("unexpected defaults %+v", s)
	}
}

func TestSettingsEnv(t *testing.T) {
	t.Setenv("COILGUN_BACKEND", "SQLite")
	t.Setenv("COILGUN_DATA_DIR", "/tmp/runs")

	v, err := NewViper("")
	if err != nil {
		t.Fatal(err)
	}
	s, err := LoadSettings(v)
	if err != nil {
		t.Fatal(err)
	}
	if s.Backend != "sqlite" || s.DataDir != "/tmp/runs" {
		t.Errorf("expected env overrides, got %+v", s)
	}
}

func TestSettingsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coilgun.yaml")
	if err := os.WriteFile(path, []byte("log_level: debug\n"), 0644); err != nil {
		t.Fatal(err)
	}
	v, err := NewViper(path)
	if err != nil {
		t.Fatal(err)
	}
	s, _ := LoadSettings(v)
	if s.LogLevel != "debug" {
		t.Errorf("expected debug, got %q", s.LogLevel)
	}

	if _, err := NewViper(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing settings file")
	}
}
