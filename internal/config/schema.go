package config

import (
	"github.com/gyaneshwarpardhi/circuitlab/internal/snapshot"
	"github.com/gyaneshwarpardhi/circuitlab/internal/validate"
)

// LibraryConfig is the top-level YAML structure.
type LibraryConfig struct {
	Version  string     `yaml:"version"`
	Engine   EngineConf `yaml:"engine"`
	Log      LogConf    `yaml:"log"`
	Circuits []Puzzle   `yaml:"circuits"`
}

// EngineConf holds tunable concurrency settings.
type EngineConf struct {
	Workers    int `yaml:"workers"`
	QueueDepth int `yaml:"queue_depth"`
	TimeoutMs  int `yaml:"timeout_ms"`
	CacheSize  int `yaml:"cache_size"` // 0 disables memoization
}

// LogConf configures the slog handler.
type LogConf struct {
	Level string `yaml:"level"` // info | debug | trace
}

// Puzzle is a named circuit with an objective to reach.
type Puzzle struct {
	ID          string            `yaml:"id"`
	Description string            `yaml:"description"`
	Variant     validate.Variant  `yaml:"variant"`
	Goal        string            `yaml:"goal"` // empty: the circuit only has to validate
	Circuit     snapshot.Document `yaml:"circuit"`
}
