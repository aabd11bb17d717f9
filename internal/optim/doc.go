// Package optim scans the cosmological parameter box on a grid, looking for
// the cosmology that minimises a scalar objective such as the correction at
// one (redshift, wavenumber) point.
package optim
