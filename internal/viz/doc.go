// Package viz renders NLC matrices in the terminal.
//
//   - [MatrixTable], [ParamsTable], [InfoTable]: lipgloss tables
//   - [PlotNLC]: asciigraph plot of NLC(k), one series per redshift
//   - [Browser]: bubbletea model for paging through a matrix
//
// # Key Bindings
//
//	↑/↓ k/j  - previous/next redshift
//	←/→ h/l  - previous/next wavenumber
//	g/G      - first/last wavenumber
//	q        - quit
package viz
