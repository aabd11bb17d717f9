package cosmo

import (
	"fmt"
	"log/slog"

	"github.com/san-kum/nlcemu/internal/integrators"
)

// Cosmology is a validated parameter set together with its expansion history
// and step clock. All state is built in New and never mutated afterwards,
// so a Cosmology may be shared between goroutines.
type Cosmology struct {
	params     Params
	normalized Normalized
	exp        *Expansion
	clock      *Clock
}

type options struct {
	logger  *slog.Logger
	quad    *integrators.Adaptive
	samples int
}

type Option func(*options)

func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithQuadrature replaces the default adaptive integrator (relative
// tolerance 1e-8, 200 subdivisions).
func WithQuadrature(q *integrators.Adaptive) Option {
	return func(o *options) { o.quad = q }
}

// WithClockSamples sets how many scale factors the step clock tabulates.
func WithClockSamples(n int) Option {
	return func(o *options) { o.samples = n }
}

// New validates p and builds the step clock. It fails with a
// *numeric.ParameterError when p is out of range, or with a
// *numeric.IntegrationError when the expansion history cannot be integrated.
func New(p Params, opts ...Option) (*Cosmology, error) {
	o := options{
		logger:  slog.Default(),
		samples: DefaultClockSamples,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.quad == nil {
		o.quad = integrators.NewAdaptive()
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	exp, err := NewExpansion(p, o.quad)
	if err != nil {
		return nil, fmt.Errorf("expansion history: %w", err)
	}
	clock, err := newClock(exp, o.samples)
	if err != nil {
		return nil, fmt.Errorf("step clock: %w", err)
	}

	o.logger.Debug("cosmology ready",
		slog.String("params", p.String()),
		slog.Int("clock_samples", o.samples),
		slog.Float64("omega_de0", exp.OmegaDE0()),
		slog.Float64("omega_nu0", exp.OmegaNu0()))

	return &Cosmology{
		params:     p,
		normalized: p.Normalized(),
		exp:        exp,
		clock:      clock,
	}, nil
}

func (c *Cosmology) Params() Params                        { return c.params }
func (c *Cosmology) Normalized() Normalized                { return c.normalized }
func (c *Cosmology) Expansion() *Expansion                 { return c.exp }
func (c *Cosmology) Clock() *Clock                         { return c.clock }
func (c *Cosmology) StepNumber(z float64) (float64, error) { return c.clock.StepNumber(z) }

// StepNumbers converts every redshift, stopping at the first failure.
func (c *Cosmology) StepNumbers(zs []float64) ([]float64, error) {
	steps := make([]float64, len(zs))
	for i, z := range zs {
		s, err := c.clock.StepNumber(z)
		if err != nil {
			return nil, fmt.Errorf("redshift[%d]: %w", i, err)
		}
		steps[i] = s
	}
	return steps, nil
}

func (c *Cosmology) RedshiftAtStep(step float64) (float64, error) {
	return c.clock.RedshiftAtStep(step)
}

// Age returns the cosmic time at redshift z in Gyr.
func (c *Cosmology) Age(z float64) (float64, error) {
	t, err := c.clock.Time(1 / (1 + z))
	if err != nil {
		return 0, err
	}
	return t * c.exp.HubbleTimeGyr(), nil
}
