package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/coilgun/internal/recorder"
)

// RunFunc runs one launcher configured by params.
type RunFunc func(params map[string]float64) (*recorder.Result, error)

// Objective scores a run. Higher is better.
type Objective func(*recorder.Result) float64

func FinalVelocity(r *recorder.Result) float64 { return r.FinalVelocity }
func Efficiency(r *recorder.Result) float64    { return r.EnergyEfficiency() }

// Metric scores a run by one of its recorded metrics.
func Metric(name string) Objective {
	return func(r *recorder.Result) float64 {
		v, ok := r.Metrics[name]
		if !ok {
			return math.Inf(-1)
		}
		return v
	}
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("%d parameters but %d ranges", len(params), len(ranges))
	}
	for i, r := range ranges {
		if len(r) == 0 {
			return nil, fmt.Errorf("parameter %q has no values", params[i])
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Size is the number of grid points.
func (g *GridSearch) Size() int {
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

// Search runs every grid point and returns the parameters with the highest
// objective. Failed runs are skipped; if every run fails the last error is
// returned.
func (g *GridSearch) Search(ctx context.Context, run RunFunc, objective Objective) (map[string]float64, float64, error) {
	s := &search{run: run, objective: objective, best: math.Inf(-1)}
	if err := g.searchRecursive(ctx, 0, make(map[string]float64), s); err != nil {
		return nil, 0, err
	}
	if s.bestParams == nil {
		if s.lastErr == nil {
			s.lastErr = fmt.Errorf("no grid point produced a score")
		}
		return nil, 0, s.lastErr
	}
	return s.bestParams, s.best, nil
}

type search struct {
	run        RunFunc
	objective  Objective
	best       float64
	bestParams map[string]float64
	lastErr    error
}

func (g *GridSearch) searchRecursive(ctx context.Context, depth int, current map[string]float64, s *search) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		result, err := s.run(current)
		if err != nil {
			s.lastErr = err
			return nil
		}

		val := s.objective(result)
		if val > s.best {
			s.best = val
			s.bestParams = make(map[string]float64, len(current))
			for k, v := range current {
				s.bestParams[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, s); err != nil {
			return err
		}
	}
	return nil
}
