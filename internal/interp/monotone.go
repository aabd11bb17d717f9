package interp

import (
	"fmt"
	"math"

	"github.com/san-kum/nlcemu/internal/numeric"
	"gonum.org/v1/gonum/interp"
)

// Monotone is a Fritsch-Butland monotone cubic spline that refuses to
// extrapolate: lookups outside [xs[0], xs[n-1]] return a *numeric.DomainError.
type Monotone struct {
	axis   string
	lo, hi float64
	fb     interp.FritschButland
}

// NewMonotone fits a monotone spline through (xs, ys). xs must be strictly
// increasing and hold at least three points.
func NewMonotone(axis string, xs, ys []float64) (*Monotone, error) {
	if err := checkAxis(axis, xs, 3); err != nil {
		return nil, err
	}
	if len(ys) != len(xs) {
		return nil, fmt.Errorf("%s spline: %d abscissae, %d ordinates: %w", axis, len(xs), len(ys), numeric.ErrDimensionMismatch)
	}
	if err := checkFinite(axis, ys); err != nil {
		return nil, err
	}

	m := &Monotone{axis: axis, lo: xs[0], hi: xs[len(xs)-1]}
	if err := m.fb.Fit(xs, ys); err != nil {
		return nil, fmt.Errorf("%s spline: %w", axis, err)
	}
	return m, nil
}

func (m *Monotone) Eval(x float64) (float64, error) {
	if err := numeric.CheckDomain(m.axis, x, m.lo, m.hi); err != nil {
		return 0, err
	}
	return m.fb.Predict(x), nil
}

func (m *Monotone) Domain() (lo, hi float64) { return m.lo, m.hi }

func checkAxis(axis string, xs []float64, minLen int) error {
	if len(xs) < minLen {
		return fmt.Errorf("%s axis: need at least %d points, got %d: %w", axis, minLen, len(xs), numeric.ErrDimensionMismatch)
	}
	if err := checkFinite(axis, xs); err != nil {
		return err
	}
	for i := 1; i < len(xs); i++ {
		if !(xs[i] > xs[i-1]) {
			return fmt.Errorf("%s axis not strictly increasing at index %d (%g after %g): %w", axis, i, xs[i], xs[i-1], numeric.ErrDimensionMismatch)
		}
	}
	return nil
}

func checkFinite(axis string, vs []float64) error {
	for i, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s: non-finite value %g at index %d: %w", axis, v, i, numeric.ErrDimensionMismatch)
		}
	}
	return nil
}
