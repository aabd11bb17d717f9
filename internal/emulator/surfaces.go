package emulator

import (
	"fmt"
	"math"

	"github.com/san-kum/nlcemu/internal/cosmo"
	"github.com/san-kum/nlcemu/internal/interp"
)

const (
	axisLogK = "log wavenumber"
	axisStep = "step number"
)

// Surfaces holds one bicubic spline per principal component over
// (log k, step number).
type Surfaces [NumComponents]*interp.Bicubic

func buildSurfaces(t *CoefficientTable) (*Surfaces, error) {
	logk := make([]float64, len(t.Wavenumbers))
	for i, k := range t.Wavenumbers {
		logk[i] = math.Log(k)
	}
	steps := make([]float64, NZ)
	for i := range steps {
		steps[i] = float64(i) * cosmo.NSteps / float64(NZ-1)
	}

	var s Surfaces
	for p, g := range t.Components {
		b, err := interp.NewBicubic(axisLogK, axisStep, logk, steps, g.Values)
		if err != nil {
			return nil, fmt.Errorf("component %d: %w", p, err)
		}
		s[p] = b
	}
	return &s, nil
}

// Eval returns component p at (log k, step).
func (s *Surfaces) Eval(p int, logk, step float64) (float64, error) {
	if p < 0 || p >= NumComponents {
		return 0, fmt.Errorf("component %d out of range [0, %d)", p, NumComponents)
	}
	return s[p].Eval(logk, step)
}
