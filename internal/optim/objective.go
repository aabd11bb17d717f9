package optim

import (
	"context"

	"github.com/san-kum/nlcemu/internal/cosmo"
	"github.com/san-kum/nlcemu/internal/emulator"
)

// PointObjective scores a cosmology by its correction at (z, k). With
// maximize set the score is negated, so Search finds the largest value.
func PointObjective(e *emulator.Emulator, z, k float64, maximize bool, opts ...cosmo.Option) Objective {
	sign := 1.0
	if maximize {
		sign = -1
	}
	return func(ctx context.Context, p cosmo.Params) (float64, error) {
		c, err := cosmo.New(p, opts...)
		if err != nil {
			return 0, err
		}
		m, err := e.ComputeNLC(ctx, c, []float64{z}, []float64{k})
		if err != nil {
			return 0, err
		}
		return sign * m.At(0, 0), nil
	}
}
