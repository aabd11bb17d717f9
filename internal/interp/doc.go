// Package interp provides the splines the emulator is built on, as thin
// wrappers over gonum's interp package that add strict domain checks.
//
//   - [Monotone]: 1D Fritsch-Butland monotone cubic
//   - [Bicubic]: 2D tensor-product natural cubic over a rectangular grid
//
// Neither type extrapolates. A lookup outside the tabulated range returns a
// *numeric.DomainError instead of a clamped value.
package interp
