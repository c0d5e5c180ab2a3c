package main

import (
	"fmt"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/coilgun/internal/analysis"
	"github.com/san-kum/coilgun/internal/coil"
)

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, res, err := loadRun(args[0])
	if err != nil {
		return err
	}

	dt := res.Parameters.TimeStep
	if dt <= 0 && len(res.Records) > 1 {
		dt = res.Records[1].Time - res.Records[0].Time
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("samples: %d at %gs\n\n", len(res.Records), dt)

	current := res.StageCurrents()
	ps := analysis.PowerSpectrum(current)
	if len(ps) > 8 {
		plotData := ps[1 : len(ps)/4]
		fmt.Println(asciigraph.Plot(plotData,
			asciigraph.Height(15),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum (stage current)"),
		))
		fmt.Println()
	}

	freq, err := analysis.DominantFrequency(current, dt)
	if err != nil {
		return err
	}
	fmt.Printf("dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3g s\n", 1.0/freq)
	}

	if len(res.Parameters.Stages) > 0 {
		fmt.Println("\nstage discharge:")
	}
	for _, p := range res.Parameters.Stages {
		st, err := coil.NewStage(p.ID, p.Position, p.Turns, p.Diameter, p.Length, p.Capacitance, p.Voltage)
		if err != nil {
			return err
		}
		fmt.Printf("  #%d %-17s ω0 %.1f rad/s  α %.1f 1/s  ringing %.3f hz\n",
			p.ID, st.Regime(), st.NaturalFrequency(), st.DampingCoefficient(), analysis.RingingFrequency(st))
	}
	return nil
}
