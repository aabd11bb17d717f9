package emulator

import "math"

// NLCMatrix is the nonlinear correction on a redshift x wavenumber grid.
// Values[iz][ik] belongs to Redshifts[iz] and Wavenumbers[ik].
type NLCMatrix struct {
	Redshifts   []float64
	Steps       []float64
	Wavenumbers []float64
	Values      [][]float64
}

func newMatrix(zs, steps, ks []float64) *NLCMatrix {
	m := &NLCMatrix{
		Redshifts:   append([]float64(nil), zs...),
		Steps:       append([]float64(nil), steps...),
		Wavenumbers: append([]float64(nil), ks...),
		Values:      make([][]float64, len(zs)),
	}
	for iz := range m.Values {
		m.Values[iz] = make([]float64, len(ks))
	}
	return m
}

func (m *NLCMatrix) At(iz, ik int) float64 { return m.Values[iz][ik] }

// Row is NLC(k) at redshift index iz.
func (m *NLCMatrix) Row(iz int) []float64 { return m.Values[iz] }

// Column is NLC(z) at wavenumber index ik.
func (m *NLCMatrix) Column(ik int) []float64 {
	out := make([]float64, len(m.Values))
	for iz, row := range m.Values {
		out[iz] = row[ik]
	}
	return out
}

func (m *NLCMatrix) Empty() bool { return len(m.Redshifts) == 0 || len(m.Wavenumbers) == 0 }

func (m *NLCMatrix) IsFinite() bool {
	for _, row := range m.Values {
		for _, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}
