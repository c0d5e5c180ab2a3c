package viz

import (
	"fmt"
	"sort"
	"strings"

	"github.com/san-kum/coilgun/internal/recorder"
)

const sparkWidth = 40

// Summary renders the outcome of a run as a bordered panel.
func Summary(name string, res *recorder.Result, theme Theme) string {
	s := newStyles(theme)
	var b strings.Builder

	b.WriteString(s.title.Render(strings.ToUpper(name)) + "\n\n")
	b.WriteString(s.row("Final velocity", fmt.Sprintf("%.4f m/s", res.FinalVelocity)))
	b.WriteString(s.row("Final position", fmt.Sprintf("%.4f m", res.FinalPosition)))
	b.WriteString(s.row("Time", fmt.Sprintf("%.5f s", res.TotalTime)))
	b.WriteString(s.row("Kinetic energy", fmt.Sprintf("%.4g J", res.FinalKineticEnergy())))
	b.WriteString(s.row("Max force", fmt.Sprintf("%.4g N", res.MaxForce())))
	b.WriteString(s.row("Steps", fmt.Sprintf("%d", len(res.Records))))

	eff := res.EnergyEfficiency()
	b.WriteString(s.label.Render("Efficiency") + s.ProgressBar(eff, 20) +
		s.value.Render(fmt.Sprintf(" %.4g%%", eff*100)) + "\n")

	if tube := res.Parameters.TubeLength; tube > 0 {
		b.WriteString(s.label.Render("Tube") + s.ProgressBar(res.FinalPosition/tube, 20) +
			s.value.Render(fmt.Sprintf(" %.3f / %.3f m", res.FinalPosition, tube)) + "\n")
	}

	if len(res.Records) > 1 {
		b.WriteString("\n")
		b.WriteString(s.label.Render("velocity") + s.high.Render(Sparkline(res.Velocities(), sparkWidth)) + "\n")
		b.WriteString(s.label.Render("force") + s.mid.Render(Sparkline(res.Forces(), sparkWidth)) + "\n")
		b.WriteString(s.label.Render("stage current") + s.low.Render(Sparkline(res.StageCurrents(), sparkWidth)) + "\n")
	}

	if stages := res.Parameters.Stages; len(stages) > 0 {
		b.WriteString("\n" + s.subtle.Render("stages") + "\n")
		for _, st := range stages {
			b.WriteString(s.row(fmt.Sprintf("  #%d @ %.3f m", st.ID, st.Position),
				fmt.Sprintf("%d turns  %.0f V  %.0f µF", st.Turns, st.Voltage, st.Capacitance*1e6)))
		}
	}

	if len(res.Metrics) > 0 {
		names := make([]string, 0, len(res.Metrics))
		for k := range res.Metrics {
			names = append(names, k)
		}
		sort.Strings(names)

		b.WriteString("\n" + s.subtle.Render("metrics") + "\n")
		for _, k := range names {
			b.WriteString(s.row("  "+k, fmt.Sprintf("%.4g", res.Metrics[k])))
		}
	}

	return s.panel.Render(strings.TrimSuffix(b.String(), "\n"))
}
