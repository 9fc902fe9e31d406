package thinking

// Config bounds for clamping out-of-range values. These mirror the limits
// advertised by the tool schema.
const (
	MinMaxDepth     = 1
	MaxMaxDepth     = 10
	MinMaxIteration = 1
	MaxMaxIteration = 20
)

// Defaults applied by Normalize for omitted Config fields.
const (
	DefaultMaxDepth      = 5
	DefaultMinConfidence = 0.85
	DefaultMaxIterations = 8
)

// Config controls one refinement session. It is immutable for the lifetime
// of the session; callers supply it on every call rather than the engine
// holding it.
type Config struct {
	// MaxDepth bounds the number of refinement rounds. Default 5, range 1-10.
	MaxDepth int `json:"maxDepth" yaml:"max_depth"`

	// MinConfidence is the stopping threshold on the agent's self-reported
	// confidence. Default 0.85, range [0,1].
	MinConfidence float64 `json:"minConfidence" yaml:"min_confidence"`

	// MaxIterations is a hard cap on rounds taken, independent of MaxDepth.
	// Default 8, range 1-20. With the current one-append-per-round design
	// depth and iteration count coincide, so this only bites when configured
	// below MaxDepth; it is kept as a separate safeguard.
	MaxIterations int `json:"maxIterations" yaml:"max_iterations"`

	// Temperature is carried for forward compatibility and unused by the
	// current stopping logic.
	Temperature float64 `json:"temperature,omitempty" yaml:"temperature,omitempty"`
}

// DefaultConfig returns the stock session configuration.
func DefaultConfig() Config {
	return Config{
		MaxDepth:      DefaultMaxDepth,
		MinConfidence: DefaultMinConfidence,
		MaxIterations: DefaultMaxIterations,
	}
}

// Normalize applies defaults for omitted fields and clamps out-of-range
// values to the documented bounds. The zero Config normalizes to
// DefaultConfig.
func (c Config) Normalize() Config {
	if c.MaxDepth == 0 {
		c.MaxDepth = DefaultMaxDepth
	}
	c.MaxDepth = clampInt(c.MaxDepth, MinMaxDepth, MaxMaxDepth)

	if c.MinConfidence == 0 {
		c.MinConfidence = DefaultMinConfidence
	}
	c.MinConfidence = clampFloat(c.MinConfidence, 0, 1)

	if c.MaxIterations == 0 {
		c.MaxIterations = DefaultMaxIterations
	}
	c.MaxIterations = clampInt(c.MaxIterations, MinMaxIteration, MaxMaxIteration)

	return c
}

// State is the full refinement history for one session. It is replaced, not
// merged, on each iteration: ProcessIteration computes a fresh State from the
// previous one plus the new response, and the caller persists it.
//
// Invariants: Depth == len(Iterations) after any call; Depth increases by
// exactly one per processed iteration; once Complete is true the session is
// terminal and no further prompt is produced.
type State struct {
	// Depth is the count of completed refinement rounds.
	Depth int `json:"depth"`

	// Confidence is the most recently parsed confidence value, clamped to
	// [0,1]. Zero until the first iteration.
	Confidence float64 `json:"confidence"`

	// Iterations holds one agent response per processed round, in
	// chronological order.
	Iterations []string `json:"iterations"`

	// LastResult is the most recent agent response, verbatim.
	LastResult string `json:"lastResult"`

	// Complete is set once a stopping rule fires.
	Complete bool `json:"isComplete"`
}

// NewState returns the initial state for a fresh session.
func NewState() State {
	return State{Iterations: []string{}}
}

// StopReason identifies which stopping rule completed a session.
type StopReason string

const (
	// StopNone means the session is still in progress.
	StopNone StopReason = ""

	// StopProductionReady means the readiness policy accepted the answer.
	StopProductionReady StopReason = "production_ready"

	// StopConfidence means parsed confidence reached MinConfidence.
	StopConfidence StopReason = "confidence_threshold"

	// StopDepthLimit means depth reached MaxDepth.
	StopDepthLimit StopReason = "depth_limit"

	// StopIterationLimit means depth reached the MaxIterations hard cap.
	StopIterationLimit StopReason = "iteration_limit"
)

// Outcome is the result of one ProcessIteration call. When the session
// completed, NextPrompt is empty and Reason records the rule that fired.
type Outcome struct {
	// NextPrompt is the prompt to show the agent next, or "" if the session
	// is complete.
	NextPrompt string `json:"nextPrompt,omitempty"`

	// State is the new session state. The caller is responsible for
	// persisting it.
	State State `json:"state"`

	// Reason is the stopping rule that completed the session, or StopNone.
	Reason StopReason `json:"stopReason,omitempty"`
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
