package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/coilgun/internal/config"
	"github.com/san-kum/coilgun/internal/export"
	"github.com/san-kum/coilgun/internal/metrics"
	"github.com/san-kum/coilgun/internal/viz"
)

// loadLauncher resolves --config or --preset and applies the flag overrides
// that were set.
func loadLauncher(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	if configFile != "" {
		c, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
	} else {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	f := cmd.Flags()
	if f.Changed("max-time") {
		cfg.MaxTime = maxTime
	}
	if f.Changed("tube-length") {
		cfg.TubeLength = tubeLength
	}
	if f.Changed("time-step") {
		cfg.TimeStep = timeStep
	}
	if f.Changed("capsule-mass") {
		cfg.Capsule.Mass = mass
	}
	if f.Changed("voltage") {
		cfg.SetVoltage(voltage)
	}
	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	if format != "text" && format != "json" {
		return fmt.Errorf("unknown output format: %s", format)
	}

	cfg, err := loadLauncher(cmd)
	if err != nil {
		return err
	}

	s, err := cfg.Build()
	if err != nil {
		return err
	}
	s.SetLogger(log)
	for _, m := range metrics.Default() {
		s.AddMetric(m)
	}

	log.Info().
		Str("launcher", cfg.Name).
		Int("stages", len(s.Stages())).
		Float64("max_time", cfg.MaxTime).
		Msg("running simulation")
	start := time.Now()

	result, err := s.Run(cfg.MaxTime)
	if err != nil {
		return err
	}
	log.Info().Dur("elapsed", time.Since(start)).Int("steps", len(result.Records)).Msg("simulation complete")

	meta := export.Meta{Name: cfg.Name, Created: time.Now().UTC()}
	if save {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		meta.ID, err = st.Save(cfg.Name, result)
		if err != nil {
			return err
		}
		log.Info().Str("run_id", meta.ID).Msg("run saved")
	}

	if format == "json" {
		return export.WriteJSON(os.Stdout, meta, result)
	}

	fmt.Println(viz.Summary(cfg.Name, result, viz.ThemeLab))
	if meta.ID != "" {
		fmt.Printf("run id: %s\n", meta.ID)
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := newTable("NAME\tSTAGES\tTUBE\tMAX TIME\tCAPSULE")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%d\t%.3fm\t%gs\t%gkg @ %.3fm\n",
			name,
			len(cfg.StageConfigs()),
			cfg.TubeLength,
			cfg.MaxTime,
			cfg.Capsule.Mass,
			cfg.Capsule.Position,
		)
	}
	return w.Flush()
}
