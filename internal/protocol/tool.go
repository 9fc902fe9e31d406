package protocol

import (
	"github.com/steveyegge/deepthink/internal/thinking"
)

// ToolName is the single tool this server exposes.
const ToolName = "deep_thinking"

// CallParams are the arguments of a deep_thinking call.
type CallParams struct {
	// Action selects the operation: "start" or "iterate".
	Action string `json:"action"`

	// Task is the original task text. Required for start; must be threaded
	// by the caller on iterate as well (it is also persisted with the
	// session, so the stored copy wins if the two disagree).
	Task string `json:"task,omitempty"`

	// Response is the agent's latest answer. Required for iterate.
	Response string `json:"response,omitempty"`

	// SessionID identifies the session. Minted by the server on start when
	// absent; required for iterate.
	SessionID string `json:"sessionId,omitempty"`

	// Config overrides the default thinking configuration. Only honored on
	// start; the session keeps the config it was started with.
	Config *thinking.Config `json:"config,omitempty"`
}

// CallResult is the structured result of a deep_thinking call.
type CallResult struct {
	SessionID string `json:"sessionId"`

	// Prompt is the next prompt to show the agent. Empty once the session
	// is complete.
	Prompt string `json:"prompt,omitempty"`

	State      thinking.State     `json:"state"`
	IsComplete bool               `json:"isComplete"`
	StopReason thinking.StopReason `json:"stopReason,omitempty"`
}

// DeepThinkingTool returns the advertised definition of the deep_thinking
// tool. The config bounds and defaults in the schema are the authoritative
// ones from internal/thinking.
func DeepThinkingTool() ToolDefinition {
	return ToolDefinition{
		Name: ToolName,
		Description: "Iteratively refine an answer to a task over a bounded number of rounds. " +
			"Call with action=start and a task to get the initial analysis prompt, then call " +
			"action=iterate with each agent response (including a line like 'confidence: 0.8') " +
			"until isComplete is true.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"action": map[string]any{
					"type":        "string",
					"enum":        []string{"start", "iterate"},
					"description": "Operation to perform",
				},
				"task": map[string]any{
					"type":        "string",
					"description": "The task to think about (required for start)",
				},
				"response": map[string]any{
					"type":        "string",
					"description": "The agent's latest response (required for iterate)",
				},
				"sessionId": map[string]any{
					"type":        "string",
					"description": "Session identifier returned by start",
				},
				"config": map[string]any{
					"type":        "object",
					"description": "Session configuration, applied on start",
					"properties": map[string]any{
						"maxDepth": map[string]any{
							"type":        "integer",
							"description": "Maximum refinement rounds",
							"default":     thinking.DefaultMaxDepth,
							"minimum":     thinking.MinMaxDepth,
							"maximum":     thinking.MaxMaxDepth,
						},
						"minConfidence": map[string]any{
							"type":        "number",
							"description": "Stop once reported confidence reaches this",
							"default":     thinking.DefaultMinConfidence,
							"minimum":     0,
							"maximum":     1,
						},
						"maxIterations": map[string]any{
							"type":        "integer",
							"description": "Hard cap on rounds taken",
							"default":     thinking.DefaultMaxIterations,
							"minimum":     thinking.MinMaxIteration,
							"maximum":     thinking.MaxMaxIteration,
						},
						"temperature": map[string]any{
							"type":        "number",
							"description": "Reserved for future use",
						},
					},
				},
			},
			"required": []string{"action"},
		},
	}
}
