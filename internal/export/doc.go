// Package export writes NLC matrices as standalone SVG plots.
package export
