package emulator_test

import (
	"encoding/binary"
	"math"
	"os"

	"github.com/san-kum/nlcemu/internal/emulator"
)

// loadProduction decodes the published file without the storage package,
// which imports emulator.
func loadProduction(path string) (*emulator.CoefficientTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	vals := make([]float64, len(raw)/8)
	for i := range vals {
		vals[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[8*i:]))
	}
	return emulator.Decode(emulator.ProductionLayout(), vals)
}
