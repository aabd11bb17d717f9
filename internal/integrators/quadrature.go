package integrators

import (
	"math"

	"github.com/san-kum/nlcemu/internal/numeric"
	"gonum.org/v1/gonum/integrate/quad"
)

const (
	DefaultAbsTol          = 0.0
	DefaultRelTol          = 1e-8
	DefaultMaxSubdivisions = 200

	coarseOrder = 10
	fineOrder   = 21
)

// Func is a scalar integrand.
type Func func(x float64) float64

// Adaptive integrates by bisecting the subinterval with the largest error
// estimate until the summed estimate meets the tolerance. The error on each
// subinterval is the difference between a 10-point and a 21-point
// Gauss-Legendre panel.
//
// An Adaptive holds only its immutable rule tables and may be shared.
type Adaptive struct {
	AbsTol          float64
	RelTol          float64
	MaxSubdivisions int

	coarse rule
	fine   rule
}

type rule struct {
	x, w []float64
}

func newRule(n int) rule {
	r := rule{x: make([]float64, n), w: make([]float64, n)}
	quad.Legendre{}.FixedLocations(r.x, r.w, -1, 1)
	return r
}

func (r rule) apply(f Func, lo, hi float64) float64 {
	half := 0.5 * (hi - lo)
	mid := 0.5 * (hi + lo)
	sum := 0.0
	for i, x := range r.x {
		sum += r.w[i] * f(mid+half*x)
	}
	return sum * half
}

func NewAdaptive() *Adaptive {
	return &Adaptive{
		AbsTol:          DefaultAbsTol,
		RelTol:          DefaultRelTol,
		MaxSubdivisions: DefaultMaxSubdivisions,
		coarse:          newRule(coarseOrder),
		fine:            newRule(fineOrder),
	}
}

// WithTolerance returns a copy using the given tolerances. Non-positive
// maxSub keeps the current subdivision limit.
func (q *Adaptive) WithTolerance(absTol, relTol float64, maxSub int) *Adaptive {
	c := *q
	c.AbsTol = absTol
	c.RelTol = relTol
	if maxSub > 0 {
		c.MaxSubdivisions = maxSub
	}
	return &c
}

type segment struct {
	lo, hi float64
	value  float64
	err    float64
}

func (q *Adaptive) panel(f Func, lo, hi float64) segment {
	fine := q.fine.apply(f, lo, hi)
	coarse := q.coarse.apply(f, lo, hi)
	return segment{lo: lo, hi: hi, value: fine, err: math.Abs(fine - coarse)}
}

// Integrate returns the integral of f over [a, b]. The name identifies the
// integral in a failure report.
func (q *Adaptive) Integrate(name string, f Func, a, b float64) (float64, error) {
	if a == b {
		return 0, nil
	}
	if a > b {
		v, err := q.Integrate(name, f, b, a)
		return -v, err
	}
	if q.MaxSubdivisions < 1 {
		return 0, &numeric.IntegrationError{Integral: name, Lower: a, Upper: b, Reason: "subdivision limit must be positive"}
	}

	segs := make([]segment, 1, q.MaxSubdivisions)
	segs[0] = q.panel(f, a, b)

	for {
		total, errSum := 0.0, 0.0
		worst := 0
		for i, s := range segs {
			total += s.value
			errSum += s.err
			if s.err > segs[worst].err {
				worst = i
			}
		}

		fail := func(reason string) error {
			return &numeric.IntegrationError{
				Integral:     name,
				Lower:        a,
				Upper:        b,
				Estimate:     total,
				AbsErr:       errSum,
				Subdivisions: len(segs),
				Reason:       reason,
			}
		}

		if math.IsNaN(total) || math.IsInf(total, 0) {
			return 0, fail("non-finite integrand")
		}
		if errSum <= math.Max(q.AbsTol, q.RelTol*math.Abs(total)) {
			return total, nil
		}
		if len(segs) >= q.MaxSubdivisions {
			return 0, fail("subdivision limit reached")
		}

		s := segs[worst]
		mid := 0.5 * (s.lo + s.hi)
		if mid <= s.lo || mid >= s.hi {
			return 0, fail("roundoff prevents further bisection")
		}
		segs[worst] = q.panel(f, s.lo, mid)
		segs = append(segs, q.panel(f, mid, s.hi))
	}
}
