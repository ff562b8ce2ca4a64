package foam

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/notargets/gofoam/foam/elements"
	"github.com/notargets/gofoam/foam/properties"
	"github.com/notargets/gofoam/types"
	"github.com/notargets/gofoam/utils"
	"go.uber.org/multierr"
	"gonum.org/v1/gonum/spatial/r3"
)

// Series is the sequence of time steps of one simulation.
type Series struct {
	Config   Config
	Steps    []*Foam
	detected [][]types.T1
	stepErrs []error
}

func NewSeries(raw *RawSeries, cfg Config) (s *Series, err error) {
	schema, err := NewSchema(raw.Schema)
	if err != nil {
		return nil, err
	}
	s = &Series{Config: cfg}
	for step, rts := range raw.TimeSteps {
		var f *Foam
		if f, err = NewFoam(step, rts, schema, cfg); err != nil {
			return nil, err
		}
		s.Steps = append(s.Steps, f)
	}
	return
}

// NewSeriesFromSteps wraps time steps that were built directly, in order.
func NewSeriesFromSteps(steps []*Foam, cfg Config) *Series {
	return &Series{Config: cfg, Steps: steps}
}

/*
Process runs every time step, ParallelDegree of them at once, then the properties that span
consecutive time steps: T1 detection, body velocity and volume change rate. A failed time step is
left out of those and its error is part of the combined error returned.
*/
func (s *Series) Process() (err error) {
	var (
		Nsteps = len(s.Steps)
		NP     = utils.ParallelDegree(s.Config.ParallelDegree, Nsteps)
		pm     = utils.NewPartitionMap(NP, Nsteps)
	)
	s.stepErrs = make([]error, Nsteps)
	wg := sync.WaitGroup{}
	for np := 0; np < NP; np++ {
		wg.Add(1)
		go func(np int) {
			kMin, kMax := pm.GetBucketRange(np)
			for k := kMin; k < kMax; k++ {
				s.stepErrs[k] = s.Steps[k].Process()
			}
			wg.Done()
		}(np)
	}
	wg.Wait()
	err = multierr.Combine(s.stepErrs...)
	s.detectT1s()
	s.calculateRates()
	slog.Info("series processed", "steps", Nsteps, "workers", NP, "failed", len(multierr.Errors(err)))
	return
}

func (s *Series) stepOK(step int) bool {
	if step < 0 || step >= len(s.stepErrs) {
		return false
	}
	return s.stepErrs[step] == nil && s.Steps[step].IsProcessed()
}

func (s *Series) detectT1s() {
	s.detected = make([][]types.T1, len(s.Steps))
	for t := 0; t+1 < len(s.Steps); t++ {
		if !s.stepOK(t) || !s.stepOK(t+1) {
			continue
		}
		s.detected[t] = properties.DetectT1s(s.Steps[t].Contacts(), s.Steps[t+1].Contacts(), t,
			s.Steps[t].Is2D())
		if len(s.detected[t]) != 0 {
			slog.Debug("T1s detected", "step", t, "count", len(s.detected[t]))
		}
	}
}

// rateStep picks the time step a rate at step t is differenced against:
// the next one, or the previous one for the last time step.
func (s *Series) rateStep(t int) (other int, sign float64, ok bool) {
	switch {
	case s.stepOK(t + 1):
		return t + 1, 1, true
	case t+1 == len(s.Steps) && s.stepOK(t-1):
		return t - 1, -1, true
	}
	return
}

func (s *Series) calculateRates() {
	dt := s.Config.TimeInterval
	if dt <= 0 {
		dt = 1
	}
	for t, f := range s.Steps {
		if !s.stepOK(t) {
			continue
		}
		other, sign, ok := s.rateStep(t)
		for _, b := range f.ProcessedBodies() {
			if v, given := velocityAttribute(b); given {
				b.SetVelocity(v)
			}
			if !ok {
				continue
			}
			ob, found := s.Steps[other].Body(b.ID())
			if !found || ob.UnwrapError() != nil {
				continue
			}
			if _, given := velocityAttribute(b); !given {
				d := f.Domain.MinimumImage(r3.Sub(ob.Center(), b.Center()))
				b.SetVelocity(r3.Scale(sign/dt, d))
			}
			b.SetVolumeChangeRate(sign * (ob.Volume() - b.Volume()) / dt)
		}
	}
}

func velocityAttribute(b *elements.Body) (v r3.Vec, ok bool) {
	vs, ok := b.Attributes().Reals(elements.VelocityAttribute)
	if !ok || len(vs) != 3 {
		return v, false
	}
	return r3.Vec{X: vs[0], Y: vs[1], Z: vs[2]}, true
}

// T1s returns the T1s between step and step+1. T1s listed in the input
// records take precedence over detected ones.
func (s *Series) T1s(step int) []types.T1 {
	if step < 0 || step >= len(s.Steps) {
		return nil
	}
	if in := s.Steps[step].InputT1s(); len(in) != 0 {
		return in
	}
	return s.DetectedT1s(step)
}

// DetectedT1s returns the T1s found by comparing the neighbors of step and
// step+1.
func (s *Series) DetectedT1s(step int) []types.T1 {
	if step < 0 || step >= len(s.detected) {
		return nil
	}
	return s.detected[step]
}

func (s *Series) StepError(step int) error {
	if step < 0 || step >= len(s.stepErrs) {
		return nil
	}
	return s.stepErrs[step]
}

// VolumeChangeRate returns the volume change rate of body id at step.
func (s *Series) VolumeChangeRate(step, id int) (float64, error) {
	if !s.stepOK(step) {
		return 0, fmt.Errorf("time step %d is not processed", step)
	}
	b, ok := s.Steps[step].Body(id)
	if !ok || b.UnwrapError() != nil {
		return 0, fmt.Errorf("time step %d has no processed body %d", step, id)
	}
	return b.VolumeChangeRate(), nil
}
