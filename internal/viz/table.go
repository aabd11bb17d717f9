package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/nlcemu/internal/cosmo"
	"github.com/san-kum/nlcemu/internal/emulator"
)

// Table lays out rows under a header with right-aligned columns.
func Table(header []string, rows [][]string) string {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}

	pad := func(cells []string, style *lipgloss.Style) string {
		out := make([]string, len(widths))
		for i := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			s := lipgloss.NewStyle().Width(widths[i]).Align(lipgloss.Right)
			if style != nil {
				s = s.Inherit(*style)
			}
			out[i] = s.Render(cell)
		}
		return strings.Join(out, "  ")
	}

	var b strings.Builder
	b.WriteString(pad(header, &Label))
	for _, row := range rows {
		b.WriteString("\n")
		b.WriteString(pad(row, nil))
	}
	return b.String()
}

// MatrixTable renders m with one row per redshift, colouring values by
// their position in the matrix range.
func MatrixTable(m *emulator.NLCMatrix) string {
	header := []string{"z", "step"}
	for _, k := range m.Wavenumbers {
		header = append(header, fmt.Sprintf("k=%.4g", k))
	}

	lo, hi := valueRange(m)
	rows := make([][]string, len(m.Redshifts))
	for iz, z := range m.Redshifts {
		row := []string{fmt.Sprintf("%.4g", z), ""}
		if iz < len(m.Steps) {
			row[1] = fmt.Sprintf("%.3f", m.Steps[iz])
		}
		for _, v := range m.Values[iz] {
			row = append(row, Heat(v, lo, hi).Render(fmt.Sprintf("%.5f", v)))
		}
		rows[iz] = row
	}
	return Table(header, rows)
}

// ParamsTable lists p with the admissible interval of each parameter.
func ParamsTable(p cosmo.Params) string {
	n := p.Normalized()
	rows := make([][]string, cosmo.NumParams)
	for i, v := range p.Vector() {
		rows[i] = []string{
			cosmo.ParamNames[i],
			Value.Render(fmt.Sprintf("%g", v)),
			fmt.Sprintf("%+.3f", n[i]),
			Subtle.Render(fmt.Sprintf("[%g, %g]", cosmo.Minima[i], cosmo.Maxima[i])),
		}
	}
	return Table([]string{"param", "value", "normalized", "range"}, rows)
}

// InfoTable summarises the PCE of every weighted component.
func InfoTable(info []emulator.ComponentInfo) string {
	rows := make([][]string, len(info))
	for i, ci := range info {
		rows[i] = []string{
			fmt.Sprintf("%d", ci.Component),
			fmt.Sprintf("%d", ci.Coefficients),
			fmt.Sprintf("%.3g", ci.MaxAbsCoeff),
			fmt.Sprintf("%d", ci.MaxDegree),
		}
	}
	return Table([]string{"pc", "coeffs", "max |c|", "max degree"}, rows)
}

func valueRange(m *emulator.NLCMatrix) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, row := range m.Values {
		if len(row) == 0 {
			continue
		}
		lo = math.Min(lo, floats.Min(row))
		hi = math.Max(hi, floats.Max(row))
	}
	return lo, hi
}
