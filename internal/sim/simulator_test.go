package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/coilgun/internal/coil"
	"github.com/san-kum/coilgun/internal/physics"
)

func newSingleStage(voltage float64) (*Simulator, error) {
	c, err := coil.NewCapsule(1.0, 0.083, 0.02)
	if err != nil {
		return nil, err
	}
	c.UpdatePosition(0.02)
	st, err := coil.NewStage(1, 0.05, 100, 0.09, 0.05, 1000e-6, voltage)
	if err != nil {
		return nil, err
	}
	return New(c, []*coil.Stage{st}, 0.2, 1e-5)
}

func singleStage(t testing.TB, voltage float64) *Simulator {
	t.Helper()
	s, err := newSingleStage(voltage)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestNewValidation(t *testing.T) {
	c, _ := coil.NewCapsule(1, 0.08, 0.02)

	tests := []struct {
		name    string
		capsule *coil.Capsule
		tube    float64
		dt      float64
	}{
		{"nil capsule", nil, 0.2, 1e-5},
		{"zero tube", c, 0, 1e-5},
		{"negative dt", c, 0.2, -1e-5},
		{"zero dt", c, 0.2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.capsule, nil, tt.tube, tt.dt)
			if !errors.Is(err, physics.ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestSimulatorRun(t *testing.T) {
	s := singleStage(t, 400)

	res, err := s.Run(0.01)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if n := len(res.Records); math.Abs(float64(n)-0.01/1e-5) > 1 {
		t.Errorf("expected ~1000 records, got %d", n)
	}
	if res.TotalTime > 0.01 {
		t.Errorf("expected total time ≤ 0.01, got %g", res.TotalTime)
	}
	if res.FinalVelocity <= 0 {
		t.Errorf("expected forward velocity, got %g", res.FinalVelocity)
	}
	if res.FinalPosition <= 0.02 {
		t.Errorf("expected capsule to advance from 0.02, got %g", res.FinalPosition)
	}
	if res.InitialEnergy != 80 {
		t.Errorf("expected 80 J stored, got %g", res.InitialEnergy)
	}
	if s.State() != Terminated {
		t.Errorf("expected terminated, got %s", s.State())
	}
}

func TestSimulatorStageFiresAtStart(t *testing.T) {
	s := singleStage(t, 400)
	if _, err := s.Run(1e-4); err != nil {
		t.Fatal(err)
	}
	st := s.Stages()[0]
	if !st.Active() || st.ActivationTime() != 0 {
		t.Errorf("expected stage fired at t=0, got active=%v t=%g", st.Active(), st.ActivationTime())
	}
}

func TestSimulatorExitsTube(t *testing.T) {
	c, _ := coil.NewCapsule(1, 0.083, 0.02)
	c.UpdatePosition(0.199)
	c.SetVelocity(1.0)

	s, err := New(c, nil, 0.2, 1e-4)
	if err != nil {
		t.Fatal(err)
	}
	res, err := s.Run(5.0)
	if err != nil {
		t.Fatal(err)
	}
	if res.FinalPosition < 0.2 {
		t.Errorf("expected capsule past the tube end, got %g", res.FinalPosition)
	}
	if res.TotalTime >= 5.0 {
		t.Errorf("expected early termination, got t=%g", res.TotalTime)
	}
	if len(res.Records) > 11 {
		t.Errorf("expected about 10 steps, got %d", len(res.Records))
	}
}

// A single 400 V stage cannot push a 1 kg capsule out of a 0.2 m tube: it
// coasts for the whole run and stops short of the exit.
func TestSingleStageScenario(t *testing.T) {
	if testing.Short() {
		t.Skip("500k steps")
	}
	s := singleStage(t, 400)
	res, err := s.Run(5.0)
	if err != nil {
		t.Fatal(err)
	}

	if res.FinalVelocity < 0 {
		t.Errorf("expected non-negative final velocity, got %g", res.FinalVelocity)
	}
	if math.Abs(res.FinalVelocity-0.010541) > 1e-5 {
		t.Errorf("expected final velocity ~0.010541, got %g", res.FinalVelocity)
	}
	if math.Abs(res.FinalPosition-0.0727) > 1e-4 {
		t.Errorf("expected final position ~0.0727, got %g", res.FinalPosition)
	}
	if res.FinalPosition >= s.TubeLength() {
		t.Errorf("expected capsule to stay inside the %g m tube, got %g", s.TubeLength(), res.FinalPosition)
	}
	if len(res.Records) != 500001 {
		t.Errorf("expected 500001 records, got %d", len(res.Records))
	}
	if math.Abs(res.MaxForce()-30.48) > 0.01 {
		t.Errorf("expected max force ~30.48 N, got %g", res.MaxForce())
	}
}

func TestSimulatorEmptyRun(t *testing.T) {
	tests := []struct {
		name    string
		maxTime float64
		start   float64
	}{
		{"zero max time", 0, 0.02},
		{"already outside", 1, 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := singleStage(t, 400)
			s.Capsule().UpdatePosition(tt.start)
			_, err := s.Run(tt.maxTime)
			if !errors.Is(err, physics.ErrEmptyState) {
				t.Errorf("expected ErrEmptyState, got %v", err)
			}
		})
	}
}

func TestSimulatorRunTwice(t *testing.T) {
	s := singleStage(t, 400)
	if _, err := s.Run(1e-3); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Run(1e-3); !errors.Is(err, physics.ErrNotIdle) {
		t.Errorf("expected ErrNotIdle, got %v", err)
	}
}

func TestSimulatorReset(t *testing.T) {
	s := singleStage(t, 400)
	first, err := s.Run(2e-3)
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Reset(); err != nil {
		t.Fatal(err)
	}
	if s.Time() != 0 || s.State() != Idle {
		t.Errorf("expected idle at t=0, got %s at %g", s.State(), s.Time())
	}
	c := s.Capsule()
	if c.Position() != 0.02 || c.Velocity() != 0 || c.Current() != 0 {
		t.Errorf("expected capsule restored, got x=%g v=%g i=%g", c.Position(), c.Velocity(), c.Current())
	}
	if s.Stages()[0].Active() {
		t.Error("expected stage cleared")
	}

	second, err := s.Run(2e-3)
	if err != nil {
		t.Fatal(err)
	}
	if first.FinalVelocity != second.FinalVelocity || len(first.Records) != len(second.Records) {
		t.Errorf("expected identical reruns, got v=%g/%g n=%d/%d",
			first.FinalVelocity, second.FinalVelocity, len(first.Records), len(second.Records))
	}
}

func TestSimulatorDeterminism(t *testing.T) {
	a, err := singleStage(t, 400).Run(5e-3)
	if err != nil {
		t.Fatal(err)
	}
	b, err := singleStage(t, 400).Run(5e-3)
	if err != nil {
		t.Fatal(err)
	}

	if math.Abs(a.FinalVelocity-b.FinalVelocity) > 1e-12 ||
		math.Abs(a.FinalPosition-b.FinalPosition) > 1e-12 ||
		len(a.Records) != len(b.Records) {
		t.Errorf("expected identical runs, got (%g, %g, %d) and (%g, %g, %d)",
			a.FinalVelocity, a.FinalPosition, len(a.Records),
			b.FinalVelocity, b.FinalPosition, len(b.Records))
	}
}

func TestVoltageScaling(t *testing.T) {
	prev := 0.0
	for _, v := range []float64{200, 400, 800} {
		res, err := singleStage(t, v).Run(0.05)
		if err != nil {
			t.Fatal(err)
		}
		if res.FinalVelocity <= prev {
			t.Errorf("%gV: expected velocity above %g, got %g", v, prev, res.FinalVelocity)
		}
		prev = res.FinalVelocity
	}
}

type countMetric struct {
	steps int
}

func (m *countMetric) Name() string { return "count" }
func (m *countMetric) Observe(Step) error {
	m.steps++
	return nil
}
func (m *countMetric) Value() float64 { return float64(m.steps) }
func (m *countMetric) Reset()         { m.steps = 0 }

func TestSimulatorMetrics(t *testing.T) {
	s := singleStage(t, 400)
	metric := &countMetric{}
	s.AddMetric(metric)

	res, err := s.Run(1e-3)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if res.Metrics["count"] != float64(len(res.Records)) {
		t.Errorf("expected one observation per record, got %g for %d", res.Metrics["count"], len(res.Records))
	}
}

type failingMetric struct{ countMetric }

func (m *failingMetric) Observe(Step) error { return errors.New("boom") }

func TestSimulatorMetricError(t *testing.T) {
	s := singleStage(t, 400)
	s.AddMetric(&failingMetric{})

	_, err := s.Run(1e-3)
	var stepErr *StepError
	if !errors.As(err, &stepErr) || stepErr.Step != 0 {
		t.Errorf("expected StepError at step 0, got %v", err)
	}
}

func TestBatch(t *testing.T) {
	voltages := []float64{200, 400, 800}
	builders := make([]Builder, len(voltages))
	for i, v := range voltages {
		builders[i] = func() (*Simulator, error) { return newSingleStage(v) }
	}

	b := NewBatch(builders, 5e-3)
	b.SetWorkers(2)
	results, err := b.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	for i, res := range results {
		if res.Parameters.Stages[0].Voltage != voltages[i] {
			t.Errorf("result %d: expected %gV, got %gV", i, voltages[i], res.Parameters.Stages[0].Voltage)
		}
	}
}

func TestBatchBuildError(t *testing.T) {
	builders := []Builder{func() (*Simulator, error) {
		return New(nil, nil, 1, 1)
	}}
	if _, err := NewBatch(builders, 1).Run(context.Background()); !errors.Is(err, physics.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func BenchmarkSimulatorStep(b *testing.B) {
	s := singleStage(b, 400)
	s.activateStages()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := s.step(i); err != nil {
			b.Fatal(err)
		}
	}
}
