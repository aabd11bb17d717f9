package cosmo

import (
	"math"

	"github.com/san-kum/nlcemu/internal/integrators"
	"github.com/san-kum/nlcemu/internal/numeric"
)

// Expansion evaluates the background expansion history of a validated
// cosmology. Densities are in units of today's critical density.
type Expansion struct {
	params Params
	quad   *integrators.Adaptive

	rhoCrit     float64
	omegaGamma0 float64
	omegaNu0    float64
	omegaCB     float64
	omegaDE0    float64

	// nuPrefactor turns the dimensionless momentum integral into a density at a = 1.
	nuPrefactor float64
	// yPerA is m_i / (k_B T_ν0); the integrand's mass parameter is yPerA * a.
	yPerA float64
}

// NewExpansion derives present-day densities for p, which must already be
// validated. Flatness fixes the dark energy density.
func NewExpansion(p Params, q *integrators.Adaptive) (*Expansion, error) {
	if q == nil {
		q = integrators.NewAdaptive()
	}
	e := &Expansion{params: p, quad: q}

	h0 := 100 * p.H * 1000 / megaparsec
	e.rhoCrit = 3 * h0 * h0 / (8 * math.Pi * gravitational)

	radiationConstant := 4 * stefanBoltzman / speedOfLight
	e.omegaGamma0 = radiationConstant * math.Pow(TCMB, 4) / (e.rhoCrit * speedOfLight * speedOfLight)

	e.nuPrefactor = e.omegaGamma0 * NEff * 15 / math.Pow(math.Pi, 4) * math.Pow(4.0/11.0, 4.0/3.0)
	tNu0 := math.Cbrt(4.0/11.0) * math.Pow(NEff/NumNeutrinos, 0.25) * TCMB
	e.yPerA = (p.SumMNu / NumNeutrinos) / (boltzmannEV * tNu0)

	nu0, err := e.NeutrinoDensity(1)
	if err != nil {
		return nil, err
	}
	e.omegaNu0 = nu0

	e.omegaCB = p.OmegaM
	if p.SumMNu > 0 {
		e.omegaCB -= e.omegaNu0
	}
	e.omegaDE0 = 1 - e.omegaCB - e.omegaGamma0 - e.omegaNu0

	return e, nil
}

func (e *Expansion) Params() Params       { return e.params }
func (e *Expansion) RhoCrit() float64     { return e.rhoCrit }
func (e *Expansion) OmegaGamma0() float64 { return e.omegaGamma0 }
func (e *Expansion) OmegaNu0() float64    { return e.omegaNu0 }
func (e *Expansion) OmegaCB0() float64    { return e.omegaCB }
func (e *Expansion) OmegaDE0() float64    { return e.omegaDE0 }

// RhoNuIntegrand is the Fermi-Dirac energy integrand p² √(p² + y²) / (eᵖ + 1)
// for one neutrino species with mass parameter y = m a / (k_B T_ν0).
func RhoNuIntegrand(y float64) integrators.Func {
	y2 := y * y
	return func(p float64) float64 {
		return p * p * math.Sqrt(p*p+y2) / (math.Exp(p) + 1)
	}
}

// neutrinoIntegral evaluates ∫ RhoNuIntegrand at scale factor a. While the
// species is still relativistic the closed form 7π⁴/120 is used directly.
func (e *Expansion) neutrinoIntegral(a float64) (float64, error) {
	y := e.yPerA * a
	if y < masslessLimit {
		return relativisticIntegral, nil
	}
	return e.quad.Integrate("rho_nu_i", RhoNuIntegrand(y), 0, fermiCutoff)
}

func (e *Expansion) MatterDensity(a float64) float64 {
	return e.omegaCB / (a * a * a)
}

func (e *Expansion) PhotonDensity(a float64) float64 {
	return e.omegaGamma0 / (a * a * a * a)
}

func (e *Expansion) NeutrinoDensity(a float64) (float64, error) {
	in, err := e.neutrinoIntegral(a)
	if err != nil {
		return 0, err
	}
	return e.nuPrefactor * in / (a * a * a * a), nil
}

// DarkEnergyDensity uses the CPL equation of state w(a) = w0 + wa (1 - a).
func (e *Expansion) DarkEnergyDensity(a float64) float64 {
	w0, wa := e.params.W0, e.params.WA
	return e.omegaDE0 * math.Pow(a, -3*(1+w0+wa)) * math.Exp(-3*wa*(1-a))
}

// scaledE2 returns a⁴ E²(a), which stays finite as a → 0 where the
// radiation terms dominate.
func (e *Expansion) scaledE2(a float64) (float64, error) {
	in, err := e.neutrinoIntegral(a)
	if err != nil {
		return 0, err
	}
	w0, wa := e.params.W0, e.params.WA
	de := e.omegaDE0 * math.Pow(a, 1-3*(w0+wa)) * math.Exp(-3*wa*(1-a))
	return e.omegaCB*a + e.omegaGamma0 + e.nuPrefactor*in + de, nil
}

func checkScaleFactor(a float64) error {
	if a > 0 && !math.IsInf(a, 1) {
		return nil
	}
	return &numeric.DomainError{Axis: "scale factor", Value: a, Min: 0, Max: math.Inf(1)}
}

// Hubble returns H(a)/H0.
func (e *Expansion) Hubble(a float64) (float64, error) {
	if err := checkScaleFactor(a); err != nil {
		return 0, err
	}
	s, err := e.scaledE2(a)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(s) / (a * a), nil
}

func (e *Expansion) fraction(a, density float64) (float64, error) {
	if err := checkScaleFactor(a); err != nil {
		return 0, err
	}
	s, err := e.scaledE2(a)
	if err != nil {
		return 0, err
	}
	a4 := a * a * a * a
	return density * a4 / s, nil
}

// OmegaMatter is the cold matter (CDM + baryon) density fraction at a.
func (e *Expansion) OmegaMatter(a float64) (float64, error) {
	return e.fraction(a, e.MatterDensity(a))
}

func (e *Expansion) OmegaGamma(a float64) (float64, error) {
	return e.fraction(a, e.PhotonDensity(a))
}

func (e *Expansion) OmegaNu(a float64) (float64, error) {
	if err := checkScaleFactor(a); err != nil {
		return 0, err
	}
	nu, err := e.NeutrinoDensity(a)
	if err != nil {
		return 0, err
	}
	return e.fraction(a, nu)
}

func (e *Expansion) OmegaDE(a float64) (float64, error) {
	return e.fraction(a, e.DarkEnergyDensity(a))
}
