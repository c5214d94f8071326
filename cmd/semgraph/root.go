package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/semgraph/semgraph/internal/logging"
)

var logLevel string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "semgraph",
		Short:         "Cross-language source comprehension engine",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error (default: warn, or $LLMCC_LOG)")
	root.AddCommand(newAnalyzeCmd(), newQueryCmd())
	return root
}

// buildLogger resolves --log-level / LLMCC_LOG into a zap.Logger, the CLI's
// half of internal/logging's contract (internal/logging.New builds the
// logger; FromEnv resolves the level spec.md §7 calls "RUST_LOG
// equivalent").
func buildLogger() (*zap.Logger, error) {
	level := logging.FromEnv(logging.LevelWarn)
	if logLevel != "" {
		level = logging.Level(logLevel)
	}
	return logging.New(level)
}
