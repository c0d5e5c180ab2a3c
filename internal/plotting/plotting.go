// Package plotting draws recorded series of a run as PNG images.
package plotting

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/san-kum/coilgun/internal/recorder"
)

// Series describes one plottable column of a result.
type Series struct {
	Name  string
	Label string
	data  func(*recorder.Result) []float64
}

var series = map[string]Series{
	"position":        {"position", "x (m)", (*recorder.Result).Positions},
	"velocity":        {"velocity", "v (m/s)", (*recorder.Result).Velocities},
	"force":           {"force", "F (N)", (*recorder.Result).Forces},
	"kinetic_energy":  {"kinetic_energy", "KE (J)", (*recorder.Result).Energies},
	"capsule_current": {"capsule_current", "Ic (A)", (*recorder.Result).CapsuleCurrents},
	"stage_current":   {"stage_current", "Is (A)", (*recorder.Result).StageCurrents},
}

// SeriesNames lists the names accepted by Lookup.
func SeriesNames() []string {
	names := make([]string, 0, len(series))
	for name := range series {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func Lookup(name string) (Series, error) {
	s, ok := series[name]
	if !ok {
		return Series{}, fmt.Errorf("unknown series %q (have %v)", name, SeriesNames())
	}
	return s, nil
}

// Values returns the series sampled at every record of res.
func (s Series) Values(res *recorder.Result) []float64 { return s.data(res) }

// Options sizes the image.
type Options struct {
	Width, Height vg.Length
	DPI           int
}

var DefaultOptions = Options{Width: 8 * vg.Inch, Height: 5 * vg.Inch, DPI: 150}

// linearTicker places n evenly spaced labelled ticks.
func linearTicker(n int, format string) plot.Ticker {
	if n < 2 {
		n = 2
	}
	return plot.TickerFunc(func(min, max float64) []plot.Tick {
		if math.IsNaN(min) || math.IsNaN(max) || math.IsInf(min, 0) || math.IsInf(max, 0) {
			return nil
		}
		if min == max {
			return []plot.Tick{{Value: min, Label: fmt.Sprintf(format, min)}}
		}
		step := (max - min) / float64(n-1)
		ticks := make([]plot.Tick, n)
		for i := range ticks {
			v := min + float64(i)*step
			ticks[i] = plot.Tick{Value: v, Label: fmt.Sprintf(format, v)}
		}
		return ticks
	})
}

// New builds a line plot of s against time.
func New(res *recorder.Result, s Series) (*plot.Plot, error) {
	if res == nil || len(res.Records) == 0 {
		return nil, fmt.Errorf("no records to plot")
	}
	ts, ys := res.Times(), s.Values(res)

	p := plot.New()
	p.Title.Text = s.Name
	p.X.Label.Text = "t (s)"
	p.Y.Label.Text = s.Label
	p.X.Tick.Marker = linearTicker(6, "%.4g")
	p.Y.Tick.Marker = linearTicker(6, "%.3g")
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(ts))
	for i := range ts {
		pts[i].X = ts[i]
		pts[i].Y = ys[i]
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	line.LineStyle.Width = vg.Points(1.5)
	p.Add(line)
	return p, nil
}

// WritePNG renders s of res to w.
func WritePNG(w io.Writer, res *recorder.Result, s Series, opts Options) error {
	p, err := New(res, s)
	if err != nil {
		return err
	}

	c := vgimg.NewWith(vgimg.UseWH(opts.Width, opts.Height), vgimg.UseDPI(opts.DPI))
	p.Draw(draw.New(c))

	bw := bufio.NewWriter(w)
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(bw); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	return bw.Flush()
}

// SavePNG writes the plot to path, creating its directory.
func SavePNG(path string, res *recorder.Result, s Series, opts Options) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WritePNG(f, res, s, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
