package storage

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/san-kum/nlcemu/internal/emulator"
	"github.com/san-kum/nlcemu/internal/numeric"
)

const wordSize = 8

// LoadTable reads the production coefficient file.
func LoadTable(path string) (*emulator.CoefficientTable, error) {
	return LoadTableLayout(path, emulator.ProductionLayout())
}

// LoadTableLayout reads a flat little-endian float64 file laid out as l.
// Every failure is a *numeric.LoadError carrying path.
func LoadTableLayout(path string, l emulator.Layout) (*emulator.CoefficientTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &numeric.LoadError{Path: path, Reason: "read", Err: err}
	}
	want := l.Len() * wordSize
	if len(raw) != want {
		return nil, &numeric.LoadError{Path: path, Reason: fmt.Sprintf("file is %d bytes, want %d", len(raw), want)}
	}

	vals := make([]float64, l.Len())
	for i := range vals {
		vals[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[i*wordSize:]))
	}

	t, err := emulator.Decode(l, vals)
	if err != nil {
		var le *numeric.LoadError
		if errors.As(err, &le) {
			le.Path = path
			return nil, le
		}
		return nil, &numeric.LoadError{Path: path, Reason: "decode", Err: err}
	}
	return t, nil
}

// WriteTable writes t in the layout LoadTableLayout reads and returns
// that layout.
func WriteTable(path string, t *emulator.CoefficientTable) (emulator.Layout, error) {
	l := emulator.LayoutOf(t)
	vals := emulator.Encode(t)
	raw := make([]byte, len(vals)*wordSize)
	for i, v := range vals {
		binary.LittleEndian.PutUint64(raw[i*wordSize:], math.Float64bits(v))
	}
	if err := os.WriteFile(path, raw, 0644); err != nil {
		return l, err
	}
	return l, nil
}
