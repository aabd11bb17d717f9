// Package emulator reconstructs the nonlinear matter power-spectrum
// correction from principal components and polynomial chaos expansions.
//
// # Model
//
// The correction at wavenumber k and step s is
//
//	NLC(k, s) = PC_0(log k, s) + sum_{p=1..14} w_p(theta) PC_p(log k, s)
//
// where each PC_p is a bicubic surface over the tabulated grid and each
// weight w_p is a sum of coefficients times products of orthonormal
// Legendre polynomials of the normalized parameters theta.
//
// # Concurrency
//
// An [Emulator] is read-only after [New]. [Emulator.ComputeNLC] splits the
// wavenumbers into disjoint blocks and fills the output without locking.
package emulator
