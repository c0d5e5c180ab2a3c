package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/coilgun/internal/optim"
)

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadLauncher(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Info().Str("launcher", cfg.Name).Int("runs", len(sweepVoltages)).Msg("sweeping voltage")
	points, err := optim.VoltageSweep(ctx, cfg, sweepVoltages, workers)
	if err != nil {
		return err
	}

	w := newTable("VOLTAGE\tV FINAL\tX FINAL\tMAX FORCE\tEFFICIENCY")
	for _, p := range points {
		fmt.Fprintf(w, "%.0fV\t%.4fm/s\t%.4fm\t%.4gN\t%.3g%%\n",
			p.Voltage, p.FinalVelocity, p.FinalPosition, p.MaxForce, p.Efficiency*100)
	}
	return w.Flush()
}

func objective(name string) optim.Objective {
	switch name {
	case "velocity":
		return optim.FinalVelocity
	case "efficiency":
		return optim.Efficiency
	default:
		return optim.Metric(name)
	}
}

func gridSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadLauncher(cmd)
	if err != nil {
		return err
	}

	var names []string
	var ranges [][]float64
	for _, p := range []struct {
		name   string
		values []float64
	}{
		{optim.ParamVoltage, searchVoltages},
		{optim.ParamCapsuleMass, masses},
		{optim.ParamTurns, turns},
	} {
		if len(p.values) > 0 {
			names = append(names, p.name)
			ranges = append(ranges, p.values)
		}
	}

	g, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Info().Strs("params", names).Int("points", g.Size()).Str("objective", goal).Msg("grid search")
	best, score, err := g.Search(ctx, optim.Runner(cfg), objective(goal))
	if err != nil {
		return err
	}

	parts := make([]string, 0, len(names))
	for _, n := range names {
		parts = append(parts, fmt.Sprintf("%s=%g", n, best[n]))
	}
	fmt.Printf("best: %s\n", strings.Join(parts, " "))
	fmt.Printf("%s: %.6g\n", goal, score)
	return nil
}
