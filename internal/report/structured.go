package report

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/gyaneshwarpardhi/circuitlab/internal/engine"
)

// JSON writes indented JSON, one document per call.
type JSON struct{}

func (JSON) Name() string { return "json" }

func (JSON) Outcome(w io.Writer, o *engine.Outcome) error {
	return writeJSON(w, o)
}

func (JSON) Puzzles(w io.Writer, reports []engine.PuzzleReport) error {
	return writeJSON(w, reports)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("render json: %w", err)
	}
	return nil
}

// YAML writes YAML documents.
type YAML struct{}

func (YAML) Name() string { return "yaml" }

func (YAML) Outcome(w io.Writer, o *engine.Outcome) error {
	return writeYAML(w, o)
}

func (YAML) Puzzles(w io.Writer, reports []engine.PuzzleReport) error {
	return writeYAML(w, reports)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("render yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("render yaml: %w", err)
	}
	return nil
}
