package emulator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/san-kum/nlcemu/internal/cosmo"
	"github.com/san-kum/nlcemu/internal/numeric"
)

// chunk is the smallest wavenumber block handed to one worker.
const chunk = 16

// Emulator reconstructs the nonlinear correction from a coefficient table.
// It is immutable after New and safe for concurrent use.
type Emulator struct {
	table    *CoefficientTable
	surfaces *Surfaces
	kmin     float64
	kmax     float64
	logger   *slog.Logger
	workers  int
}

type options struct {
	logger  *slog.Logger
	workers int
}

type Option func(*options)

func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithWorkers bounds the goroutines used by ComputeNLC. Zero or less means
// GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// New validates t and builds the component surfaces. Failures are
// *numeric.LoadError.
func New(t *CoefficientTable, opts ...Option) (*Emulator, error) {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	s, err := buildSurfaces(t)
	if err != nil {
		return nil, &numeric.LoadError{Reason: "build surfaces", Err: err}
	}

	e := &Emulator{
		table:    t,
		surfaces: s,
		kmin:     t.Wavenumbers[0],
		kmax:     t.Wavenumbers[len(t.Wavenumbers)-1],
		logger:   o.logger,
		workers:  o.workers,
	}
	e.logger.Debug("emulator ready",
		slog.Int("wavenumbers", len(t.Wavenumbers)),
		slog.Float64("k_min", e.kmin),
		slog.Float64("k_max", e.kmax),
		slog.Int("coefficients", LayoutOf(t).totalCoefficients()))
	return e, nil
}

func (e *Emulator) Table() *CoefficientTable { return e.table }
func (e *Emulator) Surfaces() *Surfaces      { return e.surfaces }

// WavenumberRange is the tabulated k interval.
func (e *Emulator) WavenumberRange() (lo, hi float64) { return e.kmin, e.kmax }

// PCEWeights evaluates the polynomial chaos expansion of every weighted
// component at the normalized parameters n. Entry p-1 is the weight of
// component p.
func (e *Emulator) PCEWeights(n cosmo.Normalized) [NumWeighted]float64 {
	var basis [cosmo.NumParams][]float64
	for i, x := range n {
		basis[i] = LegendreBasis(x, LMax, nil)
	}

	var w [NumWeighted]float64
	for i, coeffs := range e.table.Coefficients {
		mis := e.table.MultiIndices[i]
		sum := 0.0
		for j, c := range coeffs {
			prod := 1.0
			for ip, l := range mis[j] {
				prod *= basis[ip][l]
			}
			sum += c * prod
		}
		w[i] = sum
	}
	return w
}

// ComputeNLC evaluates the correction for cosmology c at every
// (redshift, wavenumber) pair. Zero redshifts or wavenumbers yield an empty
// matrix. Redshifts outside [0, ZMax] and wavenumbers outside the table
// fail with a *numeric.DomainError.
func (e *Emulator) ComputeNLC(ctx context.Context, c *cosmo.Cosmology, zs, ks []float64) (*NLCMatrix, error) {
	if c == nil {
		return nil, errors.New("emulator: nil cosmology")
	}
	if len(zs) == 0 || len(ks) == 0 {
		return newMatrix(zs, nil, ks), nil
	}
	start := time.Now()

	steps, err := c.StepNumbers(zs)
	if err != nil {
		return nil, err
	}
	logk := make([]float64, len(ks))
	for ik, k := range ks {
		if err := numeric.CheckDomain("wavenumber", k, e.kmin, e.kmax); err != nil {
			return nil, fmt.Errorf("wavenumber[%d]: %w", ik, err)
		}
		logk[ik] = math.Log(k)
	}

	w := e.PCEWeights(c.Normalized())
	scale := [NumComponents]float64{1}
	copy(scale[1:], w[:])

	m := newMatrix(zs, steps, ks)
	err = numeric.ParallelFor(ctx, len(ks), e.workers, chunk, func(ctx context.Context, lo, hi int) error {
		for ik := lo; ik < hi; ik++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			for p, s := range e.surfaces {
				col, err := s.Column(logk[ik])
				if err != nil {
					return fmt.Errorf("component %d, wavenumber[%d]: %w", p, ik, err)
				}
				for iz, step := range steps {
					v, err := col.Eval(step)
					if err != nil {
						return fmt.Errorf("component %d, redshift[%d]: %w", p, iz, err)
					}
					m.Values[iz][ik] += scale[p] * v
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.Debug("nlc computed",
		slog.Int("redshifts", len(zs)),
		slog.Int("wavenumbers", len(ks)),
		slog.Duration("elapsed", time.Since(start)))
	return m, nil
}

// ComponentInfo summarises one weighted component's expansion.
type ComponentInfo struct {
	Component    int
	Coefficients int
	MaxAbsCoeff  float64
	MaxDegree    int
}

// Info summarises the expansion of every weighted component.
func (e *Emulator) Info() []ComponentInfo {
	out := make([]ComponentInfo, NumWeighted)
	for i, coeffs := range e.table.Coefficients {
		ci := ComponentInfo{Component: i + 1, Coefficients: len(coeffs)}
		for _, c := range coeffs {
			ci.MaxAbsCoeff = math.Max(ci.MaxAbsCoeff, math.Abs(c))
		}
		for _, mi := range e.table.MultiIndices[i] {
			if d := mi.Degree(); d > ci.MaxDegree {
				ci.MaxDegree = d
			}
		}
		out[i] = ci
	}
	return out
}
