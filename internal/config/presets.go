package config

import "sort"

var Presets = map[string]*Config{
	"default": DefaultConfig(),
	"single": {
		Name: "single",
		Capsule: CapsuleConfig{
			Mass: 1.0, Diameter: 0.083, Length: 0.02, Position: 0.02,
		},
		Stages:     []StageConfig{defaultStage(1, 0.05)},
		TubeLength: 0.2, TimeStep: 1e-5, MaxTime: 5.0,
	},
	"demo": {
		Name: "demo",
		Capsule: CapsuleConfig{
			Mass: 1.0, Diameter: 0.083, Length: 0.02, Position: 0.02,
		},
		Layout: &LayoutConfig{
			Count: 6, Start: 0.083, Spacing: 0.083, Turns: 100, Diameter: 0.09,
			Length: 0.05, Capacitance: 1000e-6, Voltage: 400,
		},
		TubeLength: 0.6, TimeStep: 1e-5, MaxTime: 0.02,
	},
	"short": {
		Name: "short",
		Capsule: CapsuleConfig{
			Mass: 1.0, Diameter: 0.083, Length: 0.02, Position: 0,
		},
		Layout: &LayoutConfig{
			Count: 3, Start: 0, Spacing: 0.083, Turns: 100, Diameter: 0.09,
			Length: 0.05, Capacitance: 1000e-6, Voltage: 400,
		},
		TubeLength: 0.5, TimeStep: 1e-5, MaxTime: 0.01,
	},
	"exit": {
		Name: "exit",
		Capsule: CapsuleConfig{
			Mass: 0.1, Diameter: 0.083, Length: 0.02, Position: 0.15, Velocity: 0.5,
		},
		Stages: []StageConfig{{
			ID: 1, Position: 0.16, Turns: 100, Diameter: 0.09, Length: 0.05,
			Capacitance: 1000e-6, Voltage: 800,
		}},
		TubeLength: 0.2, TimeStep: 1e-5, MaxTime: 1.0,
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
