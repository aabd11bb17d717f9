package interp

import (
	"fmt"

	"github.com/san-kum/nlcemu/internal/numeric"
	"gonum.org/v1/gonum/interp"
)

// Bicubic is a tensor-product natural cubic spline over a rectangular grid.
// Each row of constant y carries its own spline along x; a lookup evaluates
// every row at x and fits one more spline through those values along y.
//
// Construction is the only mutation, so a Bicubic may be read from any
// number of goroutines.
type Bicubic struct {
	xAxis, yAxis string
	xs, ys       []float64
	rows         []interp.NaturalCubic
}

// NewBicubic builds the surface from z laid out row-major in y:
// z[j*len(xs)+i] is the value at (xs[i], ys[j]).
func NewBicubic(xAxis, yAxis string, xs, ys, z []float64) (*Bicubic, error) {
	if err := checkAxis(xAxis, xs, 3); err != nil {
		return nil, err
	}
	if err := checkAxis(yAxis, ys, 3); err != nil {
		return nil, err
	}
	nx, ny := len(xs), len(ys)
	if len(z) != nx*ny {
		return nil, fmt.Errorf("surface over %s x %s: want %d x %d = %d values, got %d: %w",
			xAxis, yAxis, nx, ny, nx*ny, len(z), numeric.ErrDimensionMismatch)
	}
	if err := checkFinite(xAxis+"/"+yAxis+" surface", z); err != nil {
		return nil, err
	}

	b := &Bicubic{
		xAxis: xAxis,
		yAxis: yAxis,
		xs:    append([]float64(nil), xs...),
		ys:    append([]float64(nil), ys...),
		rows:  make([]interp.NaturalCubic, ny),
	}
	for j := range b.rows {
		if err := b.rows[j].Fit(b.xs, z[j*nx:(j+1)*nx]); err != nil {
			return nil, fmt.Errorf("surface row %d: %w", j, err)
		}
	}
	return b, nil
}

// Column is the surface restricted to one x, as a spline along y.
type Column struct {
	axis   string
	lo, hi float64
	spline interp.NaturalCubic
}

// Column fixes x and returns the spline along y through the row values.
func (b *Bicubic) Column(x float64) (*Column, error) {
	if err := numeric.CheckDomain(b.xAxis, x, b.xs[0], b.xs[len(b.xs)-1]); err != nil {
		return nil, err
	}
	vals := make([]float64, len(b.rows))
	for j := range b.rows {
		vals[j] = b.rows[j].Predict(x)
	}
	c := &Column{axis: b.yAxis, lo: b.ys[0], hi: b.ys[len(b.ys)-1]}
	if err := c.spline.Fit(b.ys, vals); err != nil {
		return nil, fmt.Errorf("surface column at %s=%g: %w", b.xAxis, x, err)
	}
	return c, nil
}

func (c *Column) Eval(y float64) (float64, error) {
	if err := numeric.CheckDomain(c.axis, y, c.lo, c.hi); err != nil {
		return 0, err
	}
	return c.spline.Predict(y), nil
}

func (b *Bicubic) Eval(x, y float64) (float64, error) {
	if err := numeric.CheckDomain(b.yAxis, y, b.ys[0], b.ys[len(b.ys)-1]); err != nil {
		return 0, err
	}
	c, err := b.Column(x)
	if err != nil {
		return 0, err
	}
	return c.Eval(y)
}

// EvalGrid evaluates the surface on every (xq[i], yq[j]) pair and returns
// out[j][i]. Nothing is returned if any point lies off the grid.
func (b *Bicubic) EvalGrid(xq, yq []float64) ([][]float64, error) {
	for _, y := range yq {
		if err := numeric.CheckDomain(b.yAxis, y, b.ys[0], b.ys[len(b.ys)-1]); err != nil {
			return nil, err
		}
	}
	out := make([][]float64, len(yq))
	for j := range out {
		out[j] = make([]float64, len(xq))
	}
	for i, x := range xq {
		c, err := b.Column(x)
		if err != nil {
			return nil, err
		}
		for j, y := range yq {
			out[j][i] = c.spline.Predict(y)
		}
	}
	return out, nil
}

// Domain returns the tabulated extent along both axes.
func (b *Bicubic) Domain() (xlo, xhi, ylo, yhi float64) {
	return b.xs[0], b.xs[len(b.xs)-1], b.ys[0], b.ys[len(b.ys)-1]
}
