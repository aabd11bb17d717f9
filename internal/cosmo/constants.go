package cosmo

import "math"

// Physical constants (SI unless noted).
const (
	speedOfLight   = 299792458.0
	gravitational  = 6.67430e-11
	stefanBoltzman = 5.670374419e-8
	megaparsec     = 3.0856775814913673e22
	boltzmannEV    = 8.617333262e-5 // eV/K
	secondsPerGyr  = 3.15576e16

	TCMB = 2.7255
	NEff = 3.046

	// NumNeutrinos degenerate species share SumMNu equally.
	NumNeutrinos = 3
)

// Emulated time window.
const (
	// ZMax is the earliest redshift the step clock covers.
	ZMax = 10.0
	// NSteps is the step number at z = 0; steps run over [0, NSteps].
	NSteps = 100
	// DefaultClockSamples is the number of scale factors tabulated by the clock.
	DefaultClockSamples = NSteps + 1
)

const (
	// masslessLimit is the y = m a / kT below which the relativistic limit is exact to ~1e-9.
	masslessLimit = 1e-4
	// fermiCutoff bounds the momentum integral; the Fermi-Dirac tail beyond it is below 1e-20.
	fermiCutoff = 60.0
)

// relativisticIntegral is the neutrino energy integral for massless species, 7π⁴/120.
var relativisticIntegral = 7 * math.Pow(math.Pi, 4) / 120
