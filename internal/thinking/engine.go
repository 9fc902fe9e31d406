package thinking

// Engine bundles the pluggable strategies with the iteration state machine.
// The zero value uses the default heuristics; an Engine is stateless and
// safe for concurrent use across sessions.
type Engine struct {
	// Parser extracts confidence from agent responses. Nil means
	// ParseConfidence.
	Parser ConfidenceParser

	// Policy judges production readiness. Nil means HeuristicReadiness.
	Policy ReadinessPolicy
}

// NewEngine returns an Engine with the default confidence parser and
// readiness policy.
func NewEngine() *Engine {
	return &Engine{
		Parser: ParseConfidence,
		Policy: HeuristicReadiness{},
	}
}

// Start begins a fresh session: an initial state plus the first prompt for
// the agent. The original task must be threaded by the caller into every
// subsequent ProcessIteration call; the engine never infers it from history.
func (e *Engine) Start(task string, cfg Config) (State, string) {
	st := NewState()
	return st, GeneratePrompt(task, st, cfg)
}

// ProcessIteration runs one refinement round. It parses confidence out of
// the response, appends the response to history, evaluates the stopping
// rules, and either emits the next prompt or marks the session complete.
//
// Pure: the previous state is not mutated and no I/O happens. The caller
// persists Outcome.State. Calling with an already-complete state is not
// forbidden, but well-behaved callers stop once Complete is set.
func (e *Engine) ProcessIteration(task, response string, prev State, cfg Config) Outcome {
	cfg = cfg.Normalize()

	parse := e.Parser
	if parse == nil {
		parse = ParseConfidence
	}
	policy := e.Policy
	if policy == nil {
		policy = HeuristicReadiness{}
	}

	confidence, ok := parse(response)
	if !ok {
		confidence = DefaultConfidence
	}

	next := State{
		Depth:      prev.Depth + 1,
		Confidence: confidence,
		Iterations: append(append([]string{}, prev.Iterations...), response),
		LastResult: response,
	}

	if reason := stopReason(next, response, confidence, cfg, policy); reason != StopNone {
		next.Complete = true
		return Outcome{State: next, Reason: reason}
	}

	return Outcome{
		NextPrompt: GeneratePrompt(task, next, cfg),
		State:      next,
	}
}

// stopReason evaluates the stopping rules in precedence order. Readiness is
// checked first so a genuinely finished answer is reported as such even when
// it also happens to hit a limit.
func stopReason(st State, response string, confidence float64, cfg Config, policy ReadinessPolicy) StopReason {
	if policy.ProductionReady(response, confidence) {
		return StopProductionReady
	}
	if st.Depth >= cfg.MaxDepth {
		return StopDepthLimit
	}
	if confidence >= cfg.MinConfidence {
		return StopConfidence
	}
	// Depth and iteration count coincide in the current design, so this only
	// fires when MaxIterations is configured below MaxDepth.
	if st.Depth >= cfg.MaxIterations {
		return StopIterationLimit
	}
	return StopNone
}
