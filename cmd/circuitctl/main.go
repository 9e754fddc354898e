package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyaneshwarpardhi/circuitlab/internal/logging"
	"github.com/gyaneshwarpardhi/circuitlab/internal/metrics"
	"github.com/gyaneshwarpardhi/circuitlab/internal/report"
)

var (
	version = "0.1.0-dev"
	commit  = "none"
)

// errRejected marks a run that completed but whose circuit or puzzles did not
// pass. It maps to exit code 2.
var errRejected = errors.New("rejected")

type globalOpts struct {
	configPath  string
	format      string
	logLevel    string
	logJSON     bool
	metricsFile string
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts := &globalOpts{}
	root := newRootCmd(opts)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)

	if opts.metricsFile != "" {
		if merr := metrics.WriteTextfile(opts.metricsFile); merr != nil {
			fmt.Fprintln(stderr, merr)
			if err == nil {
				return 1
			}
		}
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, errRejected):
		return 2
	default:
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
}

func newRootCmd(opts *globalOpts) *cobra.Command {
	root := &cobra.Command{
		Use:   "circuitctl",
		Short: "Validate circuit snapshots and check puzzle libraries",
		Long: `circuitctl checks user-built circuits: directed graphs of batteries, LEDs,
switches, potentiometers, motors and microcontrollers joined by wires.

It finds completed circuits, reports rule violations and derives the
runtime state of vehicle components from the graph alone.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			var logger *slog.Logger
			if opts.logJSON {
				logger = logging.NewJSONLogger(opts.logLevel, cmd.ErrOrStderr())
			} else {
				logger = logging.NewLogger(opts.logLevel, cmd.ErrOrStderr())
			}
			cmd.SetContext(logging.WithLogger(cmd.Context(), logger))
		},
	}

	// Global flags
	root.PersistentFlags().StringVar(&opts.configPath, "config", "configs/circuits.yaml", "Path to the circuit library YAML")
	root.PersistentFlags().StringVarP(&opts.format, "format", "o", "text", "Output format: text, json or yaml")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "Log level: trace, debug, info, warn, error")
	root.PersistentFlags().BoolVar(&opts.logJSON, "log-json", false, "Log as JSON")
	root.PersistentFlags().StringVar(&opts.metricsFile, "metrics-file", "", "Write Prometheus metrics to this file on exit")

	root.AddCommand(
		newValidateCmd(opts),
		newCheckCmd(opts),
		newWatchCmd(opts),
		newKindsCmd(),
		newVersionCmd(),
	)
	return root
}

// renderer resolves the --format flag.
func renderer(opts *globalOpts) (report.Renderer, error) {
	return report.Default().Get(opts.format)
}
