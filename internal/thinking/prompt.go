package thinking

import (
	"fmt"
	"strings"
)

// Task excerpt bounds. The initial prompt gets a longer excerpt to establish
// a baseline; refinement prompts only need enough to re-anchor the agent.
const (
	initialTaskChars    = 200
	refinementTaskChars = 100
)

// GeneratePrompt produces the next prompt to show the agent. Depth zero gets
// an initial analysis prompt; later depths get refinement prompts that embed
// the round number, a compressed excerpt of the previous answer, and the
// current confidence. Pure function; always returns a non-empty string.
//
// Prompt size is bounded no matter how long the task or the previous answer
// is: task excerpts are truncated and insights are capped by
// CompressInsights.
func GeneratePrompt(task string, st State, cfg Config) string {
	cfg = cfg.Normalize()
	if st.Depth == 0 {
		return initialPrompt(task)
	}
	return refinementPrompt(task, st, cfg)
}

func initialPrompt(task string) string {
	var b strings.Builder
	b.WriteString("Analyze this task and give your initial take:\n\n")
	fmt.Fprintf(&b, "Task: %s\n\n", truncate(task, initialTaskChars))
	b.WriteString("Answer as a single short paragraph covering:\n")
	b.WriteString("[approach] how you would solve it\n")
	b.WriteString("[potential_issues] risks or unknowns you foresee\n")
	b.WriteString("[confidence_0-1] your confidence as a number between 0 and 1\n")
	return b.String()
}

func refinementPrompt(task string, st State, cfg Config) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Refine your solution (depth %d/%d).\n\n", st.Depth, cfg.MaxDepth)
	fmt.Fprintf(&b, "Task: %s...\n\n", truncate(task, refinementTaskChars))

	if insights := CompressInsights(st.LastResult); insights != "" {
		fmt.Fprintf(&b, "Key insights so far:\n%s\n\n", insights)
	}

	fmt.Fprintf(&b, "Previous confidence: %.2f\n\n", st.Confidence)
	b.WriteString("Be concise and action-oriented:\n")
	b.WriteString("[refinement] your improved solution\n")
	b.WriteString("[what_to_improve] what still needs work\n")
	b.WriteString("[new_confidence] updated confidence between 0 and 1\n")
	return b.String()
}

func truncate(s string, maxChars int) string {
	if len(s) <= maxChars {
		return s
	}
	return s[:maxChars]
}
