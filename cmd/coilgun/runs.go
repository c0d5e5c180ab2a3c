package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/coilgun/internal/analysis"
	"github.com/san-kum/coilgun/internal/export"
	"github.com/san-kum/coilgun/internal/plotting"
	"github.com/san-kum/coilgun/internal/recorder"
	"github.com/san-kum/coilgun/internal/storage"
	"github.com/san-kum/coilgun/internal/viz"
)

func newTable(header string) *tabwriter.Writer {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, header)
	return w
}

// loadRun reads a saved run with its records.
func loadRun(id string) (*storage.RunMetadata, *recorder.Result, error) {
	st, err := openStore()
	if err != nil {
		return nil, nil, err
	}
	defer st.Close()

	meta, err := st.Load(id)
	if err != nil {
		return nil, nil, err
	}
	records, err := st.LoadRecords(id)
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("run %s has no records", id)
	}
	return meta, meta.Result(records), nil
}

// outputWriter opens output, or stdout when it is empty.
func outputWriter() (io.WriteCloser, error) {
	if output == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(output)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func listRuns(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := newTable("ID\tNAME\tTIME\tSTEPS\tV FINAL\tX FINAL\tEFFICIENCY")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.4fm/s\t%.4fm\t%.3g%%\n",
			run.ID,
			run.Name,
			run.Timestamp.Local().Format("2006-01-02 15:04:05"),
			run.Steps,
			run.FinalVelocity,
			run.FinalPosition,
			run.EnergyEfficiency*100,
		)
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	meta, res, err := loadRun(args[0])
	if err != nil {
		return err
	}
	fmt.Println(viz.Summary(meta.ID, res, viz.ThemeLab))
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, res, err := loadRun(args[0])
	if err != nil {
		return err
	}

	for _, name := range series {
		s, err := plotting.Lookup(name)
		if err != nil {
			return err
		}

		if pngDir != "" {
			path := filepath.Join(pngDir, fmt.Sprintf("%s_%s.png", meta.ID, s.Name))
			if err := plotting.SavePNG(path, res, s, plotting.DefaultOptions); err != nil {
				return err
			}
			fmt.Println(path)
			continue
		}

		graph := asciigraph.Plot(s.Values(res),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("%s %s", s.Name, s.Label)),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, res, err := loadRun(args[0])
	if err != nil {
		return err
	}
	w, err := outputWriter()
	if err != nil {
		return err
	}
	if err := export.WriteJSON(w, export.Meta{ID: meta.ID, Name: meta.Name, Created: meta.Timestamp}, res); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, res, err := loadRun(args[0])
	if err != nil {
		return err
	}
	w, err := outputWriter()
	if err != nil {
		return err
	}
	if err := export.WriteCSV(w, res.Records); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func phasePlot(cmd *cobra.Command, args []string) error {
	meta, res, err := loadRun(args[0])
	if err != nil {
		return err
	}

	portrait := analysis.NewPhasePortrait(res.Records, width*height)
	fmt.Printf("run: %s\n", meta.ID)
	fmt.Println("velocity (up) against position (right), o start, x end")
	fmt.Print(analysis.PhasePortraitToASCII(portrait, width, height))
	return nil
}

func replayRun(cmd *cobra.Command, args []string) error {
	meta, res, err := loadRun(args[0])
	if err != nil {
		return err
	}

	m := viz.NewReplay(meta.ID, res.Records, res.Parameters)
	m.SetGIFPath(gifPath)
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
