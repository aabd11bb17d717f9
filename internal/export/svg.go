package export

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/nlcemu/internal/emulator"
)

var strokeColors = []string{"#00ccff", "#ff4444", "#00ff88", "#ffcc00", "#ff00ff", "#ffffff"}

const margin = 48.0

// NLCToSVG draws NLC(k) on a log k axis, one path per redshift.
func NLCToSVG(m *emulator.NLCMatrix, width, height int) string {
	if m == nil || len(m.Wavenumbers) < 2 || len(m.Redshifts) == 0 {
		return ""
	}

	minX, maxX := math.Log10(m.Wavenumbers[0]), math.Log10(m.Wavenumbers[len(m.Wavenumbers)-1])
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, row := range m.Values {
		minY = math.Min(minY, floats.Min(row))
		maxY = math.Max(maxY, floats.Max(row))
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	plotW := float64(width) - 2*margin
	plotH := float64(height) - 2*margin
	px := func(k float64) float64 { return margin + (math.Log10(k)-minX)/rangeX*plotW }
	py := func(v float64) float64 { return margin + plotH - (v-minY)/rangeY*plotH }

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g stroke="#444466" fill="none">
<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f"/>
</g>
<g fill="#888899" font-family="monospace" font-size="11">
`, width, height, width, height, margin, margin, plotW, plotH)

	for d := math.Ceil(minX); d <= maxX; d++ {
		x := margin + (d-minX)/rangeX*plotW
		fmt.Fprintf(&sb, `<text x="%.1f" y="%.1f" text-anchor="middle">1e%d</text>
`, x, margin+plotH+16, int(d))
	}
	fmt.Fprintf(&sb, `<text x="%.1f" y="%.1f" text-anchor="end">%.3g</text>
<text x="%.1f" y="%.1f" text-anchor="end">%.3g</text>
<text x="%.1f" y="%.1f" text-anchor="middle">k</text>
</g>
`, margin-4, py(maxY)+4, maxY, margin-4, py(minY), minY, margin+plotW/2, float64(height)-8)

	for iz, z := range m.Redshifts {
		color := strokeColors[iz%len(strokeColors)]
		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, color)
		for ik, k := range m.Wavenumbers {
			if ik > 0 {
				sb.WriteString(" L")
			}
			fmt.Fprintf(&sb, "%.1f,%.1f", px(k), py(m.Values[iz][ik]))
		}
		sb.WriteString(`"/>
`)
		fmt.Fprintf(&sb, `<text x="%.1f" y="%.1f" fill="%s" font-family="monospace" font-size="11">z=%g</text>
`, margin+8, margin+14*float64(iz+1), color, z)
	}

	sb.WriteString("</svg>")
	return sb.String()
}
