package emulator

import (
	"fmt"
	"math"

	"github.com/san-kum/nlcemu/internal/cosmo"
	"github.com/san-kum/nlcemu/internal/numeric"
)

const (
	// NumComponents principal components; component 0 is the PCA mean.
	NumComponents = 15
	// NumWeighted components carry a PCE weight (components 1..14).
	NumWeighted = NumComponents - 1

	// NK and NZ are the production grid sizes. NZ is fixed by the step clock.
	NK = 613
	NZ = cosmo.NSteps + 1

	// LMax is the highest Legendre degree appearing in a multi-index.
	LMax = 16
)

// CoefficientCounts lists the production PCE lengths of components 1..14.
var CoefficientCounts = [NumWeighted]int{53, 53, 117, 117, 53, 117, 117, 117, 117, 521, 117, 1539, 173, 457}

// Grid is one principal component sampled on (wavenumber, step).
// Values[iz*NK+ik] is the value at wavenumber ik and step iz.
type Grid struct {
	NK     int
	NZ     int
	Values []float64
}

func (g Grid) At(ik, iz int) float64 { return g.Values[iz*g.NK+ik] }

// MultiIndex holds the Legendre degree applied to each cosmological parameter.
type MultiIndex [cosmo.NumParams]uint8

// Degree is the total polynomial degree.
func (m MultiIndex) Degree() int {
	d := 0
	for _, l := range m {
		d += int(l)
	}
	return d
}

// MultiIndicesFromFloats converts a table stored as doubles, row-major by
// coefficient then parameter, into typed multi-indices. Every value must be
// a non-negative integer no larger than LMax.
func MultiIndicesFromFloats(vals []float64) ([]MultiIndex, error) {
	if len(vals)%cosmo.NumParams != 0 {
		return nil, fmt.Errorf("multi-index table of %d values is not a multiple of %d: %w", len(vals), cosmo.NumParams, numeric.ErrDimensionMismatch)
	}
	out := make([]MultiIndex, len(vals)/cosmo.NumParams)
	for i, v := range vals {
		if v != math.Trunc(v) || v < 0 || v > LMax {
			return nil, fmt.Errorf("multi-index entry %d (coefficient %d, parameter %s) = %g is not an integer in [0, %d]: %w",
				i, i/cosmo.NumParams, cosmo.ParamNames[i%cosmo.NumParams], v, LMax, numeric.ErrDimensionMismatch)
		}
		out[i/cosmo.NumParams][i%cosmo.NumParams] = uint8(v)
	}
	return out, nil
}

// CoefficientTable is the parsed emulator data: principal components, PCE
// coefficients and multi-indices for components 1..14, and the wavenumber
// grid. Index p-1 of Coefficients and MultiIndices belongs to component p.
type CoefficientTable struct {
	Components   [NumComponents]Grid
	Coefficients [NumWeighted][]float64
	MultiIndices [NumWeighted][]MultiIndex
	Wavenumbers  []float64
}

// Validate checks shapes and values. Failures are *numeric.LoadError.
func (t *CoefficientTable) Validate() error {
	if t == nil {
		return &numeric.LoadError{Reason: "no table"}
	}
	nk := len(t.Wavenumbers)
	if nk < 3 {
		return &numeric.LoadError{Reason: fmt.Sprintf("need at least 3 wavenumbers, got %d", nk)}
	}
	for i, k := range t.Wavenumbers {
		if !(k > 0) || math.IsInf(k, 0) {
			return &numeric.LoadError{Reason: fmt.Sprintf("wavenumber %d = %g is not positive and finite", i, k)}
		}
		if i > 0 && !(k > t.Wavenumbers[i-1]) {
			return &numeric.LoadError{Reason: fmt.Sprintf("wavenumbers not strictly increasing at index %d", i)}
		}
	}
	for p, g := range t.Components {
		if g.NK != nk || g.NZ != NZ || len(g.Values) != nk*NZ {
			return &numeric.LoadError{Reason: fmt.Sprintf("component %d is %dx%d with %d values, want %dx%d",
				p, g.NK, g.NZ, len(g.Values), nk, NZ)}
		}
	}
	for i := range t.Coefficients {
		if len(t.Coefficients[i]) != len(t.MultiIndices[i]) {
			return &numeric.LoadError{Reason: fmt.Sprintf("component %d has %d coefficients but %d multi-indices",
				i+1, len(t.Coefficients[i]), len(t.MultiIndices[i]))}
		}
		for j, c := range t.Coefficients[i] {
			if math.IsNaN(c) || math.IsInf(c, 0) {
				return &numeric.LoadError{Reason: fmt.Sprintf("component %d coefficient %d is not finite", i+1, j)}
			}
		}
		for j, mi := range t.MultiIndices[i] {
			for ip, l := range mi {
				if l > LMax {
					return &numeric.LoadError{Reason: fmt.Sprintf("component %d multi-index %d degree %d for %s exceeds %d",
						i+1, j, l, cosmo.ParamNames[ip], LMax)}
				}
			}
		}
	}
	return nil
}
