package storage

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/san-kum/odestep/internal/sim"
)

type ExportData struct {
	Run    RunMetadata `json:"run"`
	Times  []float64   `json:"times"`
	States [][]float64 `json:"states"`
}

// ExportJSON writes a run with its trajectory as indented JSON.
func ExportJSON(w io.Writer, meta RunMetadata, states [][]float64, times []float64) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{Run: meta, Times: times, States: states})
}

// ExportResult writes an unsaved result the same way.
func ExportResult(w io.Writer, meta RunMetadata, result *sim.Result) error {
	states := make([][]float64, len(result.States))
	for i, s := range result.States {
		states[i] = s
	}
	meta.Steps = result.StepsTaken
	meta.Evaluations = result.Evaluations
	meta.Metrics = result.Metrics
	return ExportJSON(w, meta, states, result.Times)
}

// ExportCSV copies a stored run's states.csv to w.
func (s *Store) ExportCSV(w io.Writer, runID string) error {
	dir, err := s.runDir(runID)
	if err != nil {
		return err
	}
	f, err := os.Open(filepath.Join(dir, "states.csv"))
	if err != nil {
		return notFound(runID, err)
	}
	defer f.Close()
	_, err = io.Copy(w, f)
	return err
}
