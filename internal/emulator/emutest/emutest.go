// Package emutest builds small coefficient tables with closed-form
// surfaces for tests.
package emutest

import (
	"math"

	"github.com/san-kum/nlcemu/internal/cosmo"
	"github.com/san-kum/nlcemu/internal/emulator"
)

const (
	KMin = 0.01
	KMax = 10.0
	NK   = 25
)

// Wavenumbers is NK log-spaced values on [KMin, KMax] with exact ends.
func Wavenumbers() []float64 {
	ks := make([]float64, NK)
	lo, hi := math.Log(KMin), math.Log(KMax)
	for i := range ks {
		ks[i] = math.Exp(lo + (hi-lo)*float64(i)/float64(NK-1))
	}
	ks[0], ks[NK-1] = KMin, KMax
	return ks
}

// Mean is the PCA mean surface, bilinear in (log k, step).
func Mean(logk, step float64) float64 { return 1 + 0.1*logk + 0.002*step }

// Component is every weighted surface, bilinear in (log k, step).
func Component(logk, step float64) float64 { return 0.01 * (1 + logk) * step / cosmo.NSteps }

// Expansion is the PCE shared by every weighted component of Table:
// 1 + 0.5 L2(Sum_m_nu) + 0.25 L2(h) with orthonormal Legendre L2.
var Expansion = struct {
	Coefficients []float64
	MultiIndices []emulator.MultiIndex
}{
	Coefficients: []float64{1.0, 0.5, 0.25},
	MultiIndices: []emulator.MultiIndex{
		{},
		{cosmo.IdxSumMNu: 2},
		{cosmo.IdxH: 2},
	},
}

// Weight is the closed-form value of Expansion at normalized parameters n.
func Weight(n cosmo.Normalized) float64 {
	l2 := func(x float64) float64 { return math.Sqrt(5) * (3*x*x - 1) / 2 }
	return 1 + 0.5*l2(n[cosmo.IdxSumMNu]) + 0.25*l2(n[cosmo.IdxH])
}

// NLC is the exact correction Table reproduces at (k, step).
func NLC(n cosmo.Normalized, k, step float64) float64 {
	logk := math.Log(k)
	return Mean(logk, step) + float64(emulator.NumWeighted)*Weight(n)*Component(logk, step)
}

func grid(ks []float64, f func(logk, step float64) float64) emulator.Grid {
	g := emulator.Grid{NK: len(ks), NZ: emulator.NZ, Values: make([]float64, len(ks)*emulator.NZ)}
	for iz := 0; iz < emulator.NZ; iz++ {
		for ik, k := range ks {
			g.Values[iz*len(ks)+ik] = f(math.Log(k), float64(iz))
		}
	}
	return g
}

// Table returns a valid table whose surfaces are Mean and Component and
// whose expansions are all Expansion.
func Table() *emulator.CoefficientTable {
	ks := Wavenumbers()
	t := &emulator.CoefficientTable{Wavenumbers: ks}
	t.Components[0] = grid(ks, Mean)
	for p := 1; p < emulator.NumComponents; p++ {
		t.Components[p] = grid(ks, Component)
	}
	for i := range t.Coefficients {
		t.Coefficients[i] = append([]float64(nil), Expansion.Coefficients...)
		t.MultiIndices[i] = append([]emulator.MultiIndex(nil), Expansion.MultiIndices...)
	}
	return t
}

// MeanOnly returns Table with every expansion emptied, so the correction
// reduces to the PCA mean.
func MeanOnly() *emulator.CoefficientTable {
	t := Table()
	for i := range t.Coefficients {
		t.Coefficients[i] = nil
		t.MultiIndices[i] = nil
	}
	return t
}
