// Package config describes a launcher in YAML and builds simulators from it.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/coilgun/internal/coil"
	"github.com/san-kum/coilgun/internal/physics"
	"github.com/san-kum/coilgun/internal/sim"
)

const (
	DefaultTimeStep   = 1e-5
	DefaultMaxTime    = 0.01
	DefaultTubeLength = 0.5

	DefaultCapsuleMass     = 1.0
	DefaultCapsuleDiameter = 0.083
	DefaultCapsuleLength   = 0.02
	DefaultCapsuleStart    = 0.02

	DefaultTurns        = 100
	DefaultCoilDiameter = 0.09
	DefaultCoilLength   = 0.05
	DefaultCapacitance  = 1000e-6
	DefaultVoltage      = 400.0
)

type Config struct {
	Name       string        `yaml:"name"`
	Capsule    CapsuleConfig `yaml:"capsule"`
	Stages     []StageConfig `yaml:"stages,omitempty"`
	Layout     *LayoutConfig `yaml:"layout,omitempty"`
	TubeLength float64       `yaml:"tube_length"`
	TimeStep   float64       `yaml:"time_step"`
	MaxTime    float64       `yaml:"max_time"`
}

type CapsuleConfig struct {
	Mass     float64 `yaml:"mass"`
	Diameter float64 `yaml:"diameter"`
	Length   float64 `yaml:"length"`
	Position float64 `yaml:"position"`
	Velocity float64 `yaml:"velocity"`
}

type StageConfig struct {
	ID          int     `yaml:"id"`
	Position    float64 `yaml:"position"`
	Turns       int     `yaml:"turns"`
	Diameter    float64 `yaml:"diameter"`
	Length      float64 `yaml:"length"`
	Capacitance float64 `yaml:"capacitance"`
	Voltage     float64 `yaml:"voltage"`
}

func defaultStage(id int, position float64) StageConfig {
	return StageConfig{
		ID:          id,
		Position:    position,
		Turns:       DefaultTurns,
		Diameter:    DefaultCoilDiameter,
		Length:      DefaultCoilLength,
		Capacitance: DefaultCapacitance,
		Voltage:     DefaultVoltage,
	}
}

// DefaultConfig is a 1 kg capsule and six 400 V stages spaced 8 cm apart
// in a 0.5 m tube.
func DefaultConfig() *Config {
	stages := make([]StageConfig, 6)
	for i := range stages {
		stages[i] = defaultStage(i, 0.05+float64(i)*0.08)
	}
	return &Config{
		Name: "default",
		Capsule: CapsuleConfig{
			Mass:     DefaultCapsuleMass,
			Diameter: DefaultCapsuleDiameter,
			Length:   DefaultCapsuleLength,
			Position: DefaultCapsuleStart,
		},
		Stages:     stages,
		TubeLength: DefaultTubeLength,
		TimeStep:   DefaultTimeStep,
		MaxTime:    DefaultMaxTime,
	}
}

// Load reads a YAML launcher description. Fields missing from the file keep
// their DefaultConfig values; a file that lists a layout replaces the
// default stages.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	cfg.Stages = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if len(cfg.Stages) == 0 && cfg.Layout == nil {
		cfg.Stages = DefaultConfig().Stages
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Stages = append([]StageConfig(nil), c.Stages...)
	if c.Layout != nil {
		l := *c.Layout
		out.Layout = &l
	}
	return &out
}

// StageConfigs returns the explicit stages, or the layout's stages when
// none are listed.
func (c *Config) StageConfigs() []StageConfig {
	if len(c.Stages) > 0 || c.Layout == nil {
		return c.Stages
	}
	return c.Layout.Stages(c.TubeLength)
}

// SetVoltage overrides the voltage of every stage.
func (c *Config) SetVoltage(v float64) {
	for i := range c.Stages {
		c.Stages[i].Voltage = v
	}
	if c.Layout != nil {
		c.Layout.Voltage = v
	}
}

// Validate checks the run-level fields. Element geometry is checked when the
// simulator is built.
func (c *Config) Validate() error {
	if err := physics.Positive("tube_length", c.TubeLength); err != nil {
		return err
	}
	if err := physics.Positive("time_step", c.TimeStep); err != nil {
		return err
	}
	if err := physics.Positive("max_time", c.MaxTime); err != nil {
		return err
	}
	if c.Layout != nil && len(c.Stages) == 0 {
		return c.Layout.Validate()
	}
	return nil
}

// Build constructs the capsule, stages and simulator described by c.
func (c *Config) Build() (*sim.Simulator, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	capsule, err := coil.NewCapsule(c.Capsule.Mass, c.Capsule.Diameter, c.Capsule.Length)
	if err != nil {
		return nil, fmt.Errorf("capsule: %w", err)
	}
	capsule.UpdatePosition(c.Capsule.Position)
	capsule.SetVelocity(c.Capsule.Velocity)

	specs := c.StageConfigs()
	stages := make([]*coil.Stage, len(specs))
	for i, s := range specs {
		stages[i], err = coil.NewStage(s.ID, s.Position, s.Turns, s.Diameter, s.Length, s.Capacitance, s.Voltage)
		if err != nil {
			return nil, fmt.Errorf("stage %d: %w", s.ID, err)
		}
	}

	return sim.New(capsule, stages, c.TubeLength, c.TimeStep)
}
