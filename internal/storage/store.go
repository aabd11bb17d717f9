package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/nlcemu/internal/cosmo"
	"github.com/san-kum/nlcemu/internal/emulator"
)

const (
	metadataFile = "metadata.json"
	matrixFile   = "nlc.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

// Run describes how a stored matrix was produced.
type Run struct {
	Label    string
	DataFile string
	Params   cosmo.Params
}

type RunMetadata struct {
	ID          string             `json:"id"`
	Label       string             `json:"label,omitempty"`
	DataFile    string             `json:"data_file,omitempty"`
	Timestamp   time.Time          `json:"timestamp"`
	Cosmology   map[string]float64 `json:"cosmology"`
	Redshifts   []float64          `json:"redshifts"`
	Steps       []float64          `json:"steps"`
	Wavenumbers []float64          `json:"wavenumbers"`
}

// Params rebuilds the cosmological parameters from the stored map.
func (m *RunMetadata) Params() (cosmo.Params, error) {
	var v [cosmo.NumParams]float64
	for i, name := range cosmo.ParamNames {
		x, ok := m.Cosmology[name]
		if !ok {
			return cosmo.Params{}, fmt.Errorf("run %s: missing parameter %s", m.ID, name)
		}
		v[i] = x
	}
	return cosmo.ParamsFromVector(v), nil
}

func paramMap(p cosmo.Params) map[string]float64 {
	out := make(map[string]float64, cosmo.NumParams)
	for i, v := range p.Vector() {
		out[cosmo.ParamNames[i]] = v
	}
	return out
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

// Save writes metadata.json and nlc.csv under a fresh run directory and
// returns the run ID.
func (s *Store) Save(run Run, m *emulator.NLCMatrix) (string, error) {
	runID := uuid.NewString()
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:          runID,
		Label:       run.Label,
		DataFile:    run.DataFile,
		Timestamp:   time.Now().UTC(),
		Cosmology:   paramMap(run.Params),
		Redshifts:   m.Redshifts,
		Steps:       m.Steps,
		Wavenumbers: m.Wavenumbers,
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, matrixFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	header := []string{"z", "step"}
	for _, k := range m.Wavenumbers {
		header = append(header, formatFloat(k))
	}
	if err := w.Write(header); err != nil {
		return "", err
	}
	for iz, z := range m.Redshifts {
		step := 0.0
		if iz < len(m.Steps) {
			step = m.Steps[iz]
		}
		row := []string{formatFloat(z), formatFloat(step)}
		for _, v := range m.Values[iz] {
			row = append(row, formatFloat(v))
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return runID, nil
}

// List returns every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	return &meta, nil
}

// LoadMatrix reads a stored nlc.csv back into a matrix.
func (s *Store) LoadMatrix(runID string) (*emulator.NLCMatrix, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, matrixFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	if len(records) == 0 || len(records[0]) < 2 {
		return nil, fmt.Errorf("run %s: %s has no header", runID, matrixFile)
	}

	parse := func(row, col int) (float64, error) {
		v, err := strconv.ParseFloat(records[row][col], 64)
		if err != nil {
			return 0, fmt.Errorf("run %s: %s line %d column %d: %w", runID, matrixFile, row+1, col+1, err)
		}
		return v, nil
	}

	header := records[0]
	m := &emulator.NLCMatrix{
		Wavenumbers: make([]float64, len(header)-2),
		Redshifts:   make([]float64, 0, len(records)-1),
		Steps:       make([]float64, 0, len(records)-1),
		Values:      make([][]float64, 0, len(records)-1),
	}
	for i := range m.Wavenumbers {
		if m.Wavenumbers[i], err = parse(0, i+2); err != nil {
			return nil, err
		}
	}

	for r := 1; r < len(records); r++ {
		z, err := parse(r, 0)
		if err != nil {
			return nil, err
		}
		step, err := parse(r, 1)
		if err != nil {
			return nil, err
		}
		row := make([]float64, len(m.Wavenumbers))
		for i := range row {
			if row[i], err = parse(r, i+2); err != nil {
				return nil, err
			}
		}
		m.Redshifts = append(m.Redshifts, z)
		m.Steps = append(m.Steps, step)
		m.Values = append(m.Values, row)
	}

	return m, nil
}
