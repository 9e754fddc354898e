package config

import (
	"fmt"
	"strings"

	"github.com/gyaneshwarpardhi/circuitlab/internal/goal"
	"github.com/gyaneshwarpardhi/circuitlab/internal/snapshot"
	"github.com/gyaneshwarpardhi/circuitlab/internal/validate"
)

// Validate checks the library for:
//   - a version
//   - non-negative engine settings
//   - missing or duplicate puzzle IDs
//   - unknown variants
//   - goals that do not parse
//   - circuits that fail the snapshot boundary checks
//
// All problems are reported together.
func Validate(cfg *LibraryConfig) error {
	if cfg.Version == "" {
		return fmt.Errorf("config: version is required")
	}
	var errs []string

	e := cfg.Engine
	if e.Workers < 0 || e.QueueDepth < 0 || e.TimeoutMs < 0 || e.CacheSize < 0 {
		errs = append(errs, "engine: settings must not be negative")
	}

	seen := make(map[string]int)
	for i, p := range cfg.Circuits {
		if p.ID == "" {
			errs = append(errs, fmt.Sprintf("circuits[%d]: id is required", i))
			continue
		}
		if prev, ok := seen[p.ID]; ok {
			errs = append(errs, fmt.Sprintf("duplicate id %q (circuits[%d] and circuits[%d])", p.ID, prev, i))
		} else {
			seen[p.ID] = i
		}
		if _, err := validate.ParseVariant(string(p.Variant)); err != nil {
			errs = append(errs, fmt.Sprintf("circuit %s: %v", p.ID, err))
		}
		if p.Goal != "" {
			if _, err := goal.Parse(p.Goal); err != nil {
				errs = append(errs, fmt.Sprintf("circuit %s: goal %q: %v", p.ID, p.Goal, err))
			}
		}
		doc := p.Circuit
		if _, err := snapshot.Build(&doc); err != nil {
			errs = append(errs, fmt.Sprintf("circuit %s: %v", p.ID, err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
