// deepthink is a stdio tool server that walks an external AI agent through
// bounded iterative refinement of an answer. See internal/thinking for the
// engine and internal/protocol for the tool surface.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

const version = "0.3.0"

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "deepthink",
	Short: "Bounded iterative-refinement thinking tool",
	Long: `deepthink serves a single deep_thinking tool over stdio JSON-RPC.

An agent calls action=start with a task to receive an initial analysis
prompt, then feeds each of its responses back with action=iterate. The
server tracks depth and self-reported confidence per session and stops
once the answer looks production ready or a configured limit is hit.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", ".deepthink/config.yaml",
		"Path to the YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Log level (debug, info, warn, error); overrides the config file")
}

// newLogger builds the process logger. Logs go to stderr so stdout stays
// reserved for protocol responses.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
