package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// logger is the application logger, injected by Execute and shared by all
// subcommands.
var logger *zap.Logger

// RootCmd is the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "tally",
	Short: "Tally counts source lines and keyword usage in a codebase",
	Long: `Tally walks a directory tree for one programming language, filters out
non-source content (virtual environments, build artifacts, VCS metadata),
and reports file counts, line counts, code-line counts, and per-keyword
frequencies.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and runs it.
func Execute(l *zap.Logger) error {
	logger = l
	return RootCmd.Execute()
}
