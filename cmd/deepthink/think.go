package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/steveyegge/deepthink/internal/protocol"
	"github.com/steveyegge/deepthink/internal/repl"
	"github.com/steveyegge/deepthink/internal/session"
	"github.com/steveyegge/deepthink/internal/thinking"
)

var (
	thinkMaxDepth      int
	thinkMinConfidence float64
	thinkMaxIterations int
)

var thinkCmd = &cobra.Command{
	Use:   "think [task...]",
	Short: "Run a refinement session interactively",
	Long: `Run a refinement session in the terminal, playing the agent yourself.

deepthink prints the prompt it would hand the agent; you type the agent's
answer (include a line like "confidence: 0.8"); the session advances until
it completes or you press Ctrl-D.

Example:
  $ deepthink think Build a rate limiter for the API gateway`,
	RunE: func(cmd *cobra.Command, args []string) error {
		handler := protocol.NewHandler(thinking.NewEngine(), session.NewMemoryStore(),
			newLogger("error"), "deepthink", version)

		cfg := &thinking.Config{
			MaxDepth:      thinkMaxDepth,
			MinConfidence: thinkMinConfidence,
			MaxIterations: thinkMaxIterations,
		}

		r, err := repl.New(&repl.Config{Handler: handler, Thinking: cfg})
		if err != nil {
			return err
		}
		return r.Run(cmd.Context(), strings.Join(args, " "))
	},
}

func init() {
	thinkCmd.Flags().IntVar(&thinkMaxDepth, "max-depth", thinking.DefaultMaxDepth,
		"Maximum refinement rounds")
	thinkCmd.Flags().Float64Var(&thinkMinConfidence, "min-confidence", thinking.DefaultMinConfidence,
		"Stop once reported confidence reaches this")
	thinkCmd.Flags().IntVar(&thinkMaxIterations, "max-iterations", thinking.DefaultMaxIterations,
		"Hard cap on rounds taken")
	rootCmd.AddCommand(thinkCmd)
}
