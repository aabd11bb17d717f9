package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/nlcemu/internal/cosmo"
	"github.com/san-kum/nlcemu/internal/emulator"
)

type ExportData struct {
	Cosmology   map[string]float64 `json:"cosmology"`
	Redshifts   []float64          `json:"redshifts"`
	Steps       []float64          `json:"steps"`
	Wavenumbers []float64          `json:"wavenumbers"`
	NLC         [][]float64        `json:"nlc"`
}

// ExportJSON writes p and m as one indented JSON document.
func ExportJSON(w io.Writer, p cosmo.Params, m *emulator.NLCMatrix) error {
	data := ExportData{
		Cosmology:   paramMap(p),
		Redshifts:   m.Redshifts,
		Steps:       m.Steps,
		Wavenumbers: m.Wavenumbers,
		NLC:         m.Values,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
