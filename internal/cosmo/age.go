package cosmo

import (
	"math"

	"github.com/san-kum/nlcemu/internal/integrators"
)

// A2TIntegrand is dt/da = 1/(a H(a)) in units of 1/H0, written as
// a / sqrt(a⁴E²) so that it vanishes smoothly at a = 0.
func (e *Expansion) A2TIntegrand(a float64) (float64, error) {
	if a == 0 {
		return 0, nil
	}
	s, err := e.scaledE2(a)
	if err != nil {
		return 0, err
	}
	return a / math.Sqrt(s), nil
}

// CosmicTime integrates dt/da from a0 to a1, in units of 1/H0.
func (e *Expansion) CosmicTime(a0, a1 float64) (float64, error) {
	var inner error
	f := integrators.Func(func(a float64) float64 {
		v, err := e.A2TIntegrand(a)
		if err != nil {
			if inner == nil {
				inner = err
			}
			return math.NaN()
		}
		return v
	})

	t, err := e.quad.Integrate("a2t", f, a0, a1)
	if inner != nil {
		return 0, inner
	}
	return t, err
}

// HubbleTimeGyr is 1/H0 in Gyr.
func (e *Expansion) HubbleTimeGyr() float64 {
	h0 := 100 * e.params.H * 1000 / megaparsec
	return 1 / h0 / secondsPerGyr
}
