// Package repl provides an interactive shell for driving a refinement
// session by hand. It plays the agent role: deepthink prints the prompt it
// would send, the user types the agent's answer, and the session advances
// until a stopping rule fires. Useful for tuning prompts and thresholds
// without a client attached.
package repl

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/steveyegge/deepthink/internal/protocol"
	"github.com/steveyegge/deepthink/internal/thinking"
)

// REPL drives one session through the same boundary the server uses.
type REPL struct {
	handler *protocol.Handler
	cfg     *thinking.Config
	rl      *readline.Instance
}

// Config holds REPL configuration.
type Config struct {
	Handler *protocol.Handler
	// Thinking optionally overrides the session config.
	Thinking *thinking.Config
}

// New creates a REPL instance.
func New(cfg *Config) (*REPL, error) {
	if cfg.Handler == nil {
		return nil, fmt.Errorf("handler is required")
	}
	return &REPL{handler: cfg.Handler, cfg: cfg.Thinking}, nil
}

// Run starts one session for task and loops until it completes or the user
// exits. An empty task is prompted for interactively.
func (r *REPL) Run(ctx context.Context, task string) error {
	cyan := color.New(color.FgCyan).SprintFunc()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            cyan("agent> "),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()
	r.rl = rl

	if strings.TrimSpace(task) == "" {
		task, err = r.readLine(cyan("task> "))
		if err != nil {
			return err
		}
	}

	result, err := r.handler.Call(ctx, &protocol.CallParams{
		Action: "start",
		Task:   task,
		Config: r.cfg,
	})
	if err != nil {
		return err
	}

	r.printWelcome(result.SessionID)
	r.printPrompt(result.Prompt)

	for {
		response, err := r.readLine(cyan("agent> "))
		if err == io.EOF {
			fmt.Println("\nSession abandoned.")
			return nil
		}
		if err != nil {
			return err
		}
		if response == "" {
			continue
		}

		result, err = r.handler.Call(ctx, &protocol.CallParams{
			Action:    "iterate",
			SessionID: result.SessionID,
			Response:  response,
		})
		if err != nil {
			red := color.New(color.FgRed).SprintFunc()
			fmt.Printf("%s %v\n", red("Error:"), err)
			continue
		}

		r.printState(result.State)
		if result.IsComplete {
			green := color.New(color.FgGreen, color.Bold).SprintFunc()
			fmt.Printf("\n%s session complete (%s) after %d round(s)\n",
				green("✓"), result.StopReason, result.State.Depth)
			return nil
		}
		r.printPrompt(result.Prompt)
	}
}

// readLine reads one line, treating interrupts as EOF.
func (r *REPL) readLine(prompt string) (string, error) {
	r.rl.SetPrompt(prompt)
	line, err := r.rl.Readline()
	if err == readline.ErrInterrupt {
		return "", io.EOF
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (r *REPL) printWelcome(sessionID string) {
	gray := color.New(color.FgHiBlack).SprintFunc()
	fmt.Printf("%s\n", gray("session "+sessionID))
	fmt.Printf("%s\n\n", gray("type the agent's answer after each prompt; include a line like 'confidence: 0.8'"))
}

func (r *REPL) printPrompt(prompt string) {
	yellow := color.New(color.FgYellow).SprintFunc()
	fmt.Printf("\n%s\n%s\n", yellow("--- prompt ---"), prompt)
}

func (r *REPL) printState(st thinking.State) {
	gray := color.New(color.FgHiBlack).SprintFunc()
	fmt.Printf("%s\n", gray(fmt.Sprintf("depth %d, confidence %.2f", st.Depth, st.Confidence)))
}
