package cosmo

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/nlcemu/internal/interp"
	"github.com/san-kum/nlcemu/internal/numeric"
)

// Clock maps cosmic time onto the emulator's step numbers. Scale factors are
// tabulated log-uniformly on [1/(1+ZMax), 1]; step numbers grow linearly in
// cosmic time from 0 at ZMax to NSteps today.
type Clock struct {
	exp *Expansion

	scale []float64
	times []float64
	steps []float64

	timeToStep *interp.Monotone
	stepToLogA *interp.Monotone
}

func newClock(e *Expansion, samples int) (*Clock, error) {
	if samples < 3 {
		return nil, fmt.Errorf("clock needs at least 3 samples, got %d: %w", samples, numeric.ErrDimensionMismatch)
	}

	c := &Clock{
		exp:   e,
		scale: make([]float64, samples),
		times: make([]float64, samples),
		steps: make([]float64, samples),
	}

	aMin := 1 / (1 + ZMax)
	logMin := math.Log(aMin)
	for i := range c.scale {
		c.scale[i] = math.Exp(logMin * (1 - float64(i)/float64(samples-1)))
	}
	c.scale[0] = aMin
	c.scale[samples-1] = 1

	t, err := e.CosmicTime(0, c.scale[0])
	if err != nil {
		return nil, err
	}
	c.times[0] = t
	for i := 1; i < samples; i++ {
		dt, err := e.CosmicTime(c.scale[i-1], c.scale[i])
		if err != nil {
			return nil, err
		}
		c.times[i] = c.times[i-1] + dt
	}

	t0, tN := c.times[0], c.times[samples-1]
	for i, ti := range c.times {
		c.steps[i] = NSteps * (ti - t0) / (tN - t0)
	}

	if c.timeToStep, err = interp.NewMonotone("cosmic time", c.times, c.steps); err != nil {
		return nil, err
	}
	logA := make([]float64, samples)
	for i, a := range c.scale {
		logA[i] = math.Log(a)
	}
	if c.stepToLogA, err = interp.NewMonotone("step", c.steps, logA); err != nil {
		return nil, err
	}
	return c, nil
}

// Time returns cosmic time at scale factor a in units of 1/H0. It integrates
// from the nearest tabulated scale factor, so tabulated points reproduce the
// table exactly.
func (c *Clock) Time(a float64) (float64, error) {
	if err := checkScaleFactor(a); err != nil {
		return 0, err
	}
	j := sort.SearchFloat64s(c.scale, a)
	switch {
	case j == len(c.scale):
		j--
	case c.scale[j] != a && j > 0:
		j--
	}
	dt, err := c.exp.CosmicTime(c.scale[j], a)
	if err != nil {
		return 0, err
	}
	return c.times[j] + dt, nil
}

// StepNumber converts a redshift into a continuous step number in [0, NSteps].
func (c *Clock) StepNumber(z float64) (float64, error) {
	outside := &numeric.DomainError{Axis: "redshift", Value: z, Min: 0, Max: ZMax}
	if !(z > -1) {
		return 0, outside
	}
	t, err := c.Time(1 / (1 + z))
	if err != nil {
		return 0, err
	}
	s, err := c.timeToStep.Eval(t)
	if errors.Is(err, numeric.ErrSplineDomain) {
		return 0, outside
	}
	if err != nil {
		return 0, err
	}
	// spline roundoff at the window ends
	return math.Min(math.Max(s, 0), NSteps), nil
}

// RedshiftAtStep inverts StepNumber.
func (c *Clock) RedshiftAtStep(step float64) (float64, error) {
	logA, err := c.stepToLogA.Eval(step)
	if err != nil {
		return 0, err
	}
	return math.Max(0, math.Exp(-logA)-1), nil
}

// Samples returns copies of the tabulated scale factors, times and steps.
func (c *Clock) Samples() (scale, times, steps []float64) {
	return append([]float64(nil), c.scale...), append([]float64(nil), c.times...), append([]float64(nil), c.steps...)
}
