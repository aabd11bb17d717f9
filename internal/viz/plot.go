package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/nlcemu/internal/emulator"
)

const (
	DefaultPlotWidth  = 72
	DefaultPlotHeight = 14
)

var seriesColors = []asciigraph.AnsiColor{
	asciigraph.Blue, asciigraph.Red, asciigraph.Green, asciigraph.Yellow,
	asciigraph.Magenta, asciigraph.Cyan, asciigraph.White,
}

// ResampleLogK interpolates row linearly in log k onto n points evenly
// spaced in log k, so asciigraph's uniform x axis reads as log k.
func ResampleLogK(ks, row []float64, n int) []float64 {
	if len(ks) == 0 || n < 1 {
		return nil
	}
	if len(ks) == 1 {
		out := make([]float64, n)
		for i := range out {
			out[i] = row[0]
		}
		return out
	}

	lo, hi := math.Log(ks[0]), math.Log(ks[len(ks)-1])
	out := make([]float64, n)
	j := 0
	for i := range out {
		x := lo
		if n > 1 {
			x = lo + (hi-lo)*float64(i)/float64(n-1)
		}
		for j < len(ks)-2 && math.Log(ks[j+1]) < x {
			j++
		}
		x0, x1 := math.Log(ks[j]), math.Log(ks[j+1])
		t := 0.0
		if x1 > x0 {
			t = (x - x0) / (x1 - x0)
		}
		out[i] = row[j] + t*(row[j+1]-row[j])
	}
	return out
}

// PlotNLC draws NLC(k) for every redshift in m on a log k axis.
func PlotNLC(m *emulator.NLCMatrix, width, height int) string {
	if m.Empty() {
		return Subtle.Render("nothing to plot")
	}
	if width <= 0 {
		width = DefaultPlotWidth
	}
	if height <= 0 {
		height = DefaultPlotHeight
	}

	series := make([][]float64, len(m.Redshifts))
	colors := make([]asciigraph.AnsiColor, len(m.Redshifts))
	legend := make([]string, len(m.Redshifts))
	for iz, z := range m.Redshifts {
		series[iz] = ResampleLogK(m.Wavenumbers, m.Row(iz), width)
		colors[iz] = seriesColors[iz%len(seriesColors)]
		legend[iz] = fmt.Sprintf("%sz=%g%s", colors[iz], z, asciigraph.Default)
	}

	caption := fmt.Sprintf("NLC vs log k, k in [%.3g, %.3g]", m.Wavenumbers[0], m.Wavenumbers[len(m.Wavenumbers)-1])
	graph := asciigraph.PlotMany(series,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Precision(3),
		asciigraph.SeriesColors(colors...),
		asciigraph.Caption(caption),
	)
	return graph + "\n" + strings.Join(legend, "  ")
}
