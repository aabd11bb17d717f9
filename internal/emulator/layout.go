package emulator

import (
	"fmt"

	"github.com/san-kum/nlcemu/internal/cosmo"
	"github.com/san-kum/nlcemu/internal/numeric"
)

// Layout describes the flat float64 encoding of a CoefficientTable:
// the 15 component grids (step-major), the 14 coefficient vectors, the 14
// multi-index tables (8 values per coefficient), then the wavenumbers.
type Layout struct {
	NK     int
	Counts [NumWeighted]int
}

// ProductionLayout is the layout of the published data file.
func ProductionLayout() Layout {
	return Layout{NK: NK, Counts: CoefficientCounts}
}

// LayoutOf returns the layout t would be encoded with.
func LayoutOf(t *CoefficientTable) Layout {
	l := Layout{NK: len(t.Wavenumbers)}
	for i, c := range t.Coefficients {
		l.Counts[i] = len(c)
	}
	return l
}

func (l Layout) totalCoefficients() int {
	n := 0
	for _, c := range l.Counts {
		n += c
	}
	return n
}

// Len is the number of float64 values in the encoding.
func (l Layout) Len() int {
	return NumComponents*l.NK*NZ + (1+cosmo.NumParams)*l.totalCoefficients() + l.NK
}

// Decode splits data according to l and validates the result.
// Failures are *numeric.LoadError.
func Decode(l Layout, data []float64) (*CoefficientTable, error) {
	if l.NK < 1 {
		return nil, &numeric.LoadError{Reason: fmt.Sprintf("layout has %d wavenumbers", l.NK)}
	}
	if len(data) != l.Len() {
		return nil, &numeric.LoadError{Reason: fmt.Sprintf("have %d values, layout needs %d", len(data), l.Len())}
	}

	t := &CoefficientTable{}
	idx := 0
	take := func(n int) []float64 {
		s := append([]float64(nil), data[idx:idx+n]...)
		idx += n
		return s
	}

	for p := range t.Components {
		t.Components[p] = Grid{NK: l.NK, NZ: NZ, Values: take(l.NK * NZ)}
	}
	for i, n := range l.Counts {
		t.Coefficients[i] = take(n)
	}
	for i, n := range l.Counts {
		mi, err := MultiIndicesFromFloats(data[idx : idx+n*cosmo.NumParams])
		if err != nil {
			return nil, &numeric.LoadError{Reason: fmt.Sprintf("component %d multi-indices", i+1), Err: err}
		}
		t.MultiIndices[i] = mi
		idx += n * cosmo.NumParams
	}
	t.Wavenumbers = take(l.NK)

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Encode flattens t in the order Decode reads it.
func Encode(t *CoefficientTable) []float64 {
	l := LayoutOf(t)
	out := make([]float64, 0, l.Len())
	for _, g := range t.Components {
		out = append(out, g.Values...)
	}
	for _, c := range t.Coefficients {
		out = append(out, c...)
	}
	for _, mis := range t.MultiIndices {
		for _, mi := range mis {
			for _, e := range mi {
				out = append(out, float64(e))
			}
		}
	}
	return append(out, t.Wavenumbers...)
}
