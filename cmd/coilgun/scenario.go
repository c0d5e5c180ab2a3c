package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/san-kum/coilgun/internal/automation"
)

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := automation.RunScenario(ctx, sc, st, log)

	w := newTable("STEP\tLAUNCHER\tV FINAL\tX FINAL\tTIME\tRUN ID")
	for i, r := range results {
		fmt.Fprintf(w, "%d\t%s\t%.4fm/s\t%.4fm\t%.5fs\t%s\n",
			i+1, r.Name, r.Result.FinalVelocity, r.Result.FinalPosition, r.Result.TotalTime, r.RunID)
	}
	if ferr := w.Flush(); err == nil {
		err = ferr
	}
	return err
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := loadLauncher(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Info().Str("launcher", cfg.Name).Int("trials", trials).Msg("monte carlo")
	results, err := automation.RunMonteCarlo(ctx, automation.MonteCarloConfig{
		Base:           cfg,
		PositionJitter: positionJitter,
		VelocityJitter: velocityJitter,
		NumTrials:      trials,
		Seed:           seed,
		Workers:        workers,
	})
	if err != nil {
		return err
	}

	sum := automation.MonteCarloStats(results)
	fmt.Printf("trials: %d\n", sum.Trials)
	fmt.Printf("left the tube: %d (%.1f%%)\n", sum.Exited, 100*float64(sum.Exited)/float64(sum.Trials))
	fmt.Printf("final velocity: mean %.4f m/s  std %.4f  min %.4f  max %.4f\n",
		sum.MeanVelocity, sum.StdVelocity, sum.MinVelocity, sum.MaxVelocity)
	return nil
}
