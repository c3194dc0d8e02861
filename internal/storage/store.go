package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/arda-guler/ThomsonProblemNumericalSolution/internal/geom"
	"github.com/arda-guler/ThomsonProblemNumericalSolution/internal/relax"
)

// Store persists solve runs under a base directory, one subdirectory per
// run holding metadata.json, positions.csv and convergence.csv.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID               string             `json:"id"`
	Timestamp        time.Time          `json:"timestamp"`
	N                int                `json:"n"`
	Tolerance        float64            `json:"tolerance"`
	RelaxationFactor float64            `json:"relaxation_factor"`
	Seed             int64              `json:"seed"`
	Iterations       int                `json:"iterations"`
	Converged        bool               `json:"converged"`
	Energy           float64            `json:"energy"`
	Metrics          map[string]float64 `json:"metrics"`
}

// Save writes one run and returns its id.
func (s *Store) Save(cfg relax.Config, result *relax.Result) (string, error) {
	runID := fmt.Sprintf("n%d_%d", cfg.N, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:               runID,
		Timestamp:        time.Now(),
		N:                cfg.N,
		Tolerance:        cfg.Tolerance,
		RelaxationFactor: cfg.RelaxationFactor,
		Seed:             cfg.Seed,
		Iterations:       result.Iterations,
		Converged:        result.Converged,
		Energy:           result.Energy,
		Metrics:          result.Metrics,
	}

	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}

	if err := writePositions(filepath.Join(runDir, "positions.csv"), result.Positions); err != nil {
		return "", err
	}

	if err := writeHistory(filepath.Join(runDir, "convergence.csv"), result.History); err != nil {
		return "", err
	}

	return runID, nil
}

func writeJSON(path string, meta RunMetadata) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func writePositions(path string, positions []geom.Vec3) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	if err := w.Write([]string{"index", "x", "y", "z"}); err != nil {
		return err
	}

	for i, p := range positions {
		row := []string{
			strconv.Itoa(i),
			strconv.FormatFloat(p.X, 'f', 12, 64),
			strconv.FormatFloat(p.Y, 'f', 12, 64),
			strconv.FormatFloat(p.Z, 'f', 12, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func writeHistory(path string, history []float64) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	if err := w.Write([]string{"iteration", "max_displacement"}); err != nil {
		return err
	}

	for i, d := range history {
		row := []string{
			strconv.Itoa(i + 1),
			strconv.FormatFloat(d, 'e', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

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

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadPositions reads the final charge positions of a run, in creation
// order.
func (s *Store) LoadPositions(runID string) ([]geom.Vec3, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "positions.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	positions := make([]geom.Vec3, 0, len(records))
	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) < 4 {
			continue
		}

		x, errX := strconv.ParseFloat(record[1], 64)
		y, errY := strconv.ParseFloat(record[2], 64)
		z, errZ := strconv.ParseFloat(record[3], 64)
		if errX != nil || errY != nil || errZ != nil {
			continue
		}

		positions = append(positions, geom.Vec3{X: x, Y: y, Z: z})
	}

	return positions, nil
}

// LoadHistory reads the per-iteration maximum displacements of a run.
func (s *Store) LoadHistory(runID string) ([]float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "convergence.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	history := make([]float64, 0, len(records))
	for i := 1; i < len(records); i++ {
		if len(records[i]) < 2 {
			continue
		}
		d, err := strconv.ParseFloat(records[i][1], 64)
		if err != nil {
			continue
		}
		history = append(history, d)
	}

	return history, nil
}
