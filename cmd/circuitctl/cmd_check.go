package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gyaneshwarpardhi/circuitlab/internal/config"
	"github.com/gyaneshwarpardhi/circuitlab/internal/engine"
	"github.com/gyaneshwarpardhi/circuitlab/internal/logging"
	"github.com/gyaneshwarpardhi/circuitlab/internal/report"
)

func newCheckCmd(opts *globalOpts) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "check [ID...]",
		Short: "Check every puzzle in the circuit library against its goal",
		Long: `Validate each library circuit and evaluate its goal expression.

With IDs, only those puzzles are checked. Exits 2 when a puzzle errors,
or with --strict when any puzzle is unsolved.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rd, err := renderer(opts)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			loader, err := config.NewLoader(opts.configPath, logging.FromContext(ctx))
			if err != nil {
				return err
			}
			puzzles, err := selectPuzzles(loader.Config().Circuits, args)
			if err != nil {
				return err
			}
			return checkLibrary(ctx, cmd.OutOrStdout(), rd, loader.Config().Engine, puzzles, strict)
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail when any puzzle is unsolved")
	return cmd
}

func selectPuzzles(all []config.Puzzle, ids []string) ([]config.Puzzle, error) {
	if len(ids) == 0 {
		return all, nil
	}
	byID := make(map[string]config.Puzzle, len(all))
	for _, p := range all {
		byID[p.ID] = p
	}
	out := make([]config.Puzzle, 0, len(ids))
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("no puzzle with id %q", id)
		}
		out = append(out, p)
	}
	return out, nil
}

// checkLibrary runs one pass over puzzles and renders the reports.
func checkLibrary(ctx context.Context, w io.Writer, rd report.Renderer, conf config.EngineConf, puzzles []config.Puzzle, strict bool) error {
	logger := logging.FromContext(ctx)
	eng := engine.New(ctx, conf, logger)
	defer eng.Shutdown()

	reports := eng.CheckLibrary(ctx, puzzles)
	if err := rd.Puzzles(w, reports); err != nil {
		return err
	}

	var failed, unsolved int
	for _, r := range reports {
		switch r.Status {
		case engine.StatusError:
			failed++
		case engine.StatusUnsolved:
			unsolved++
		}
	}
	logger.Info("library checked", "puzzles", len(reports), "errors", failed, "unsolved", unsolved)
	if failed > 0 || (strict && unsolved > 0) {
		return fmt.Errorf("%d error(s), %d unsolved: %w", failed, unsolved, errRejected)
	}
	return nil
}
