package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/arda-guler/ThomsonProblemNumericalSolution/internal/geom"
)

type ExportData struct {
	ID               string             `json:"id"`
	N                int                `json:"n"`
	Tolerance        float64            `json:"tolerance"`
	RelaxationFactor float64            `json:"relaxation_factor"`
	Seed             int64              `json:"seed"`
	Iterations       int                `json:"iterations"`
	Converged        bool               `json:"converged"`
	Energy           float64            `json:"energy"`
	Positions        [][3]float64       `json:"positions"`
	History          []float64          `json:"convergence_history"`
	Metrics          map[string]float64 `json:"metrics"`
}

func buildExport(meta *RunMetadata, positions []geom.Vec3, history []float64) ExportData {
	data := ExportData{
		ID:               meta.ID,
		N:                meta.N,
		Tolerance:        meta.Tolerance,
		RelaxationFactor: meta.RelaxationFactor,
		Seed:             meta.Seed,
		Iterations:       meta.Iterations,
		Converged:        meta.Converged,
		Energy:           meta.Energy,
		Positions:        make([][3]float64, len(positions)),
		History:          history,
		Metrics:          meta.Metrics,
	}

	for i, p := range positions {
		data.Positions[i] = [3]float64{p.X, p.Y, p.Z}
	}

	return data
}

func ExportJSON(w io.Writer, meta *RunMetadata, positions []geom.Vec3, history []float64) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(buildExport(meta, positions, history))
}

func ExportJSONFile(path string, meta *RunMetadata, positions []geom.Vec3, history []float64) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return ExportJSON(file, meta, positions, history)
}
