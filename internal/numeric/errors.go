package numeric

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the emulator. Every typed error below unwraps to
// exactly one of these.
var (
	// ErrParameterOutOfRange indicates a cosmological parameter outside its admissible interval.
	ErrParameterOutOfRange = errors.New("nlcemu: parameter out of admissible range")

	// ErrIntegrationFailure indicates adaptive quadrature did not converge.
	ErrIntegrationFailure = errors.New("nlcemu: integration failed to converge")

	// ErrSplineDomain indicates a lookup outside a spline's tabulated domain.
	ErrSplineDomain = errors.New("nlcemu: value outside interpolation domain")

	// ErrLoad indicates a missing, truncated or malformed coefficient table.
	ErrLoad = errors.New("nlcemu: coefficient table load failed")

	// ErrDimensionMismatch indicates arrays whose lengths disagree.
	ErrDimensionMismatch = errors.New("nlcemu: dimension mismatch")
)

// Bound names the side of an interval that was violated.
type Bound string

const (
	Lower Bound = "minimum"
	Upper Bound = "maximum"
)

// ParameterError identifies the offending cosmological parameter.
type ParameterError struct {
	Index int
	Name  string
	Value float64
	Bound Bound
	Min   float64
	Max   float64
}

func (e *ParameterError) Error() string {
	limit := e.Min
	if e.Bound == Upper {
		limit = e.Max
	}
	return fmt.Sprintf("parameter %d (%s) = %g violates %s %g (admissible [%g, %g])",
		e.Index, e.Name, e.Value, e.Bound, limit, e.Min, e.Max)
}

func (e *ParameterError) Unwrap() error { return ErrParameterOutOfRange }

// IntegrationError reports which integral failed and how far it got.
type IntegrationError struct {
	Integral     string
	Lower, Upper float64
	Estimate     float64
	AbsErr       float64
	Subdivisions int
	Reason       string
}

func (e *IntegrationError) Error() string {
	return fmt.Sprintf("integral %s on [%g, %g]: %s (estimate %g, abserr %.3g after %d subdivisions)",
		e.Integral, e.Lower, e.Upper, e.Reason, e.Estimate, e.AbsErr, e.Subdivisions)
}

func (e *IntegrationError) Unwrap() error { return ErrIntegrationFailure }

// DomainError reports a lookup outside [Min, Max] along the named axis.
type DomainError struct {
	Axis  string
	Value float64
	Min   float64
	Max   float64
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s = %g outside interpolation domain [%g, %g]", e.Axis, e.Value, e.Min, e.Max)
}

func (e *DomainError) Unwrap() error { return ErrSplineDomain }

// LoadError describes why a coefficient table was rejected.
type LoadError struct {
	Path   string
	Reason string
	Err    error
}

func (e *LoadError) Error() string {
	msg := "load coefficient table"
	if e.Path != "" {
		msg += " " + e.Path
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both ErrLoad and the underlying cause.
func (e *LoadError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrLoad, e.Err}
	}
	return []error{ErrLoad}
}

// CheckDomain returns a *DomainError when v is NaN or outside [lo, hi].
func CheckDomain(axis string, v, lo, hi float64) error {
	if v >= lo && v <= hi {
		return nil
	}
	return &DomainError{Axis: axis, Value: v, Min: lo, Max: hi}
}
