package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/san-kum/coilgun/internal/config"
	"github.com/san-kum/coilgun/internal/logging"
	"github.com/san-kum/coilgun/internal/storage"
)

var (
	settingsFile string
	settings     config.Settings
	log          = zerolog.Nop()

	// launcher selection, shared by every command that builds one
	preset     string
	configFile string
	maxTime    float64
	tubeLength float64
	timeStep   float64
	mass       float64
	voltage    float64

	format  string
	output  string
	save    bool
	pngDir  string
	series  []string
	gifPath string
	width   int
	height  int

	sweepVoltages  []float64
	searchVoltages []float64
	masses         []float64
	turns          []float64
	workers        int
	goal           string

	trials         int
	seed           int64
	positionJitter float64
	velocityJitter float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "coilgun",
		Short:         "multi-stage coilgun simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&settingsFile, "settings", "", "settings file (yaml, json or toml)")
	pf.String("data", ".coilgun", "data directory")
	pf.String("backend", "files", "run store backend (files, sqlite)")
	pf.String("log-level", "info", "log level (debug, info, warn, error, off)")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		v, err := config.NewViper(settingsFile)
		if err != nil {
			return err
		}
		for key, flag := range map[string]string{
			config.KeyDataDir:  "data",
			config.KeyBackend:  "backend",
			config.KeyLogLevel: "log-level",
		} {
			if err := bindFlag(v, key, cmd, flag); err != nil {
				return err
			}
		}
		if settings, err = config.LoadSettings(v); err != nil {
			return err
		}
		log = logging.New(os.Stderr, settings.LogLevel)
		return nil
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a launcher simulation",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	launcherFlags(runCmd)
	runCmd.Flags().StringVarP(&format, "output", "o", "text", "output format (text, json)")
	runCmd.Flags().BoolVar(&save, "save", false, "save the run to the data directory")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "summarise a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringSliceVar(&series, "series", []string{"position", "velocity", "force"}, "series to plot")
	plotCmd.Flags().StringVar(&pngDir, "png", "", "write PNG plots into this directory instead")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run records to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of the stage current",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "position-velocity phase plot",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().IntVar(&width, "width", 70, "plot width")
	phaseCmd.Flags().IntVar(&height, "height", 20, "plot height")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run a launcher at several charging voltages",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	launcherFlags(sweepCmd)
	sweepCmd.Flags().Float64SliceVar(&sweepVoltages, "voltages", []float64{200, 400, 600, 800}, "charging voltages")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "concurrent runs (default one per CPU)")

	searchCmd := &cobra.Command{
		Use:   "search",
		Short: "grid search over voltage, capsule mass and coil turns",
		Args:  cobra.NoArgs,
		RunE:  gridSearch,
	}
	launcherFlags(searchCmd)
	searchCmd.Flags().Float64SliceVar(&searchVoltages, "voltages", []float64{400, 800}, "charging voltages")
	searchCmd.Flags().Float64SliceVar(&masses, "masses", nil, "capsule masses")
	searchCmd.Flags().Float64SliceVar(&turns, "turns", nil, "turns per stage")
	searchCmd.Flags().StringVar(&goal, "objective", "velocity", "objective (velocity, efficiency, or a metric name)")

	replayCmd := &cobra.Command{
		Use:   "replay [run_id]",
		Short: "replay a saved run in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  replayRun,
	}
	replayCmd.Flags().StringVar(&gifPath, "gif", "replay.gif", "file for G recordings")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted sequence of launchers",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "perturb the capsule's start and count launches that leave the tube",
		Args:  cobra.NoArgs,
		RunE:  runMonteCarlo,
	}
	launcherFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&trials, "trials", 20, "number of trials")
	monteCarloCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 uses the clock)")
	monteCarloCmd.Flags().Float64Var(&positionJitter, "position-jitter", 0.002, "max start position offset in meters")
	monteCarloCmd.Flags().Float64Var(&velocityJitter, "velocity-jitter", 0, "max start velocity offset in m/s")
	monteCarloCmd.Flags().IntVar(&workers, "workers", 0, "concurrent runs (default one per CPU)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list launcher presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	rootCmd.AddCommand(runCmd, listCmd, showCmd, plotCmd, exportJSONCmd, exportCSVCmd,
		analyzeCmd, phaseCmd, sweepCmd, searchCmd, scenarioCmd, monteCarloCmd, replayCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func launcherFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&preset, "preset", "default", "preset launcher")
	f.StringVar(&configFile, "config", "", "launcher config file (yaml), overrides --preset")
	f.Float64Var(&maxTime, "max-time", 0, "simulated time limit in seconds")
	f.Float64Var(&tubeLength, "tube-length", 0, "tube length in meters")
	f.Float64Var(&timeStep, "time-step", 0, "integration step in seconds")
	f.Float64Var(&mass, "capsule-mass", 0, "capsule mass in kg")
	f.Float64Var(&voltage, "voltage", 0, "charging voltage of every stage")
}

func bindFlag(v *viper.Viper, key string, cmd *cobra.Command, name string) error {
	flag := cmd.Root().PersistentFlags().Lookup(name)
	if flag == nil {
		return fmt.Errorf("no flag %q", name)
	}
	return v.BindPFlag(key, flag)
}

func openStore() (storage.Store, error) {
	st, err := storage.Open(settings.Backend, settings.DataDir)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("backend", settings.Backend).Str("dir", settings.DataDir).Msg("opened run store")
	return st, nil
}
