package thinking

import "strings"

// Readiness heuristics. The confidence floor is intentionally fixed and
// independent of the configured MinConfidence: it answers "does this look
// shippable" rather than "did we hit the caller's bar".
const (
	readinessConfidenceFloor = 0.85
	readinessMinLength       = 50
)

// readinessKeywords is the vocabulary of a completed, non-trivial answer.
var readinessKeywords = []string{
	"implement",
	"complete",
	"final",
	"solution",
	"ready",
	"tested",
	"handle",
	"error",
	"edge case",
	"deploy",
}

// ReadinessPolicy judges whether the agent's latest answer is production
// ready. Implementations must be pure predicates. The policy is pluggable on
// Engine so the keyword heuristic can later be replaced by a real classifier
// without changing the state machine.
type ReadinessPolicy interface {
	ProductionReady(result string, confidence float64) bool
}

// HeuristicReadiness is the default ReadinessPolicy: a structural proxy for
// "the agent believes this is a shippable, non-trivial answer".
type HeuristicReadiness struct{}

// ProductionReady returns true iff confidence is at least 0.85, the result
// mentions readiness vocabulary, and the result is longer than 50 characters.
func (HeuristicReadiness) ProductionReady(result string, confidence float64) bool {
	return IsProductionReady(result, confidence)
}

// IsProductionReady is the heuristic behind HeuristicReadiness, exported for
// direct use and testing.
func IsProductionReady(result string, confidence float64) bool {
	if confidence < readinessConfidenceFloor {
		return false
	}
	if len(result) <= readinessMinLength {
		return false
	}

	lower := strings.ToLower(result)
	for _, kw := range readinessKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
