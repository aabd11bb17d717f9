package cosmo

import (
	"fmt"
	"strings"

	"github.com/san-kum/nlcemu/internal/numeric"
)

// NumParams is the length of the cosmological parameter vector.
const NumParams = 8

// Parameter order shared by Params.Vector, Minima/Maxima and PCE multi-indices.
const (
	IdxOmegaB = iota
	IdxOmegaM
	IdxSumMNu
	IdxNS
	IdxH
	IdxW0
	IdxWA
	IdxAs
)

var (
	ParamNames = [NumParams]string{"Omega_b", "Omega_m", "Sum_m_nu", "n_s", "h", "w_0", "w_a", "A_s"}
	Minima     = [NumParams]float64{0.04, 0.24, 0.00, 0.92, 0.61, -1.3, -0.7, 1.7e-9}
	Maxima     = [NumParams]float64{0.06, 0.40, 0.15, 1.00, 0.73, -0.7, 0.7, 2.5e-9}
)

// Params is a flat wCDM cosmology with massive neutrinos.
// SumMNu is in eV; OmegaM includes baryons and massive neutrinos.
type Params struct {
	OmegaB float64
	OmegaM float64
	SumMNu float64
	NS     float64
	H      float64
	W0     float64
	WA     float64
	As     float64
}

// Fiducial is the reference cosmology at the centre of the emulated box
// (with massless neutrinos).
func Fiducial() Params {
	return Params{
		OmegaB: 0.05,
		OmegaM: 0.32,
		SumMNu: 0.0,
		NS:     0.96,
		H:      0.67,
		W0:     -1.0,
		WA:     0.0,
		As:     2.1e-9,
	}
}

func (p Params) Vector() [NumParams]float64 {
	return [NumParams]float64{p.OmegaB, p.OmegaM, p.SumMNu, p.NS, p.H, p.W0, p.WA, p.As}
}

func ParamsFromVector(v [NumParams]float64) Params {
	return Params{
		OmegaB: v[IdxOmegaB],
		OmegaM: v[IdxOmegaM],
		SumMNu: v[IdxSumMNu],
		NS:     v[IdxNS],
		H:      v[IdxH],
		W0:     v[IdxW0],
		WA:     v[IdxWA],
		As:     v[IdxAs],
	}
}

// Validate checks every parameter against its closed admissible interval and
// reports the first violation as a *numeric.ParameterError. NaN fails.
func (p Params) Validate() error {
	for i, v := range p.Vector() {
		switch {
		case !(v >= Minima[i]):
			return &numeric.ParameterError{Index: i, Name: ParamNames[i], Value: v, Bound: numeric.Lower, Min: Minima[i], Max: Maxima[i]}
		case !(v <= Maxima[i]):
			return &numeric.ParameterError{Index: i, Name: ParamNames[i], Value: v, Bound: numeric.Upper, Min: Minima[i], Max: Maxima[i]}
		}
	}
	return nil
}

// Normalized is the parameter vector mapped affinely onto [-1, 1].
type Normalized [NumParams]float64

func (p Params) Normalized() Normalized {
	var n Normalized
	for i, v := range p.Vector() {
		n[i] = 2*(v-Minima[i])/(Maxima[i]-Minima[i]) - 1
	}
	return n
}

func (p Params) String() string {
	var b strings.Builder
	for i, v := range p.Vector() {
		if i > 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "%s=%g", ParamNames[i], v)
	}
	return b.String()
}
