package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gyaneshwarpardhi/circuitlab/internal/config"
	"github.com/gyaneshwarpardhi/circuitlab/internal/engine"
	"github.com/gyaneshwarpardhi/circuitlab/internal/logging"
	"github.com/gyaneshwarpardhi/circuitlab/internal/snapshot"
	"github.com/gyaneshwarpardhi/circuitlab/internal/validate"
)

func newValidateCmd(opts *globalOpts) *cobra.Command {
	var variant string
	cmd := &cobra.Command{
		Use:   "validate FILE",
		Short: "Validate one circuit snapshot (YAML or JSON)",
		Long: `Validate a circuit snapshot with the LED or vehicle rule set.

The file format follows the extension: .json is JSON, anything else YAML.
Exits 2 when the circuit is invalid.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := validate.ParseVariant(variant)
			if err != nil {
				return err
			}
			rd, err := renderer(opts)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			logger := logging.FromContext(ctx)

			eng := engine.New(ctx, config.DefaultEngineConf(), logger)
			defer eng.Shutdown()

			o, err := validateFile(ctx, eng, args[0], v)
			if err != nil {
				return err
			}
			if err := rd.Outcome(cmd.OutOrStdout(), o); err != nil {
				return err
			}
			if !o.Valid() {
				return fmt.Errorf("%s: %w", args[0], errRejected)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&variant, "variant", string(validate.VariantLED), "Rule set: led or vehicle")
	return cmd
}

// validateFile loads, builds and validates one snapshot.
func validateFile(ctx context.Context, eng *engine.Engine, path string, v validate.Variant) (*engine.Outcome, error) {
	doc, err := snapshot.Load(path)
	if err != nil {
		return nil, err
	}
	g, err := snapshot.Build(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logging.FromContext(ctx).Debug("snapshot loaded",
		slog.String("path", path), slog.Int("nodes", g.NodeCount()), slog.Int("edges", g.EdgeCount()))
	return eng.Validate(ctx, engine.Request{ID: filepath.Base(path), Variant: v, Graph: g})
}
