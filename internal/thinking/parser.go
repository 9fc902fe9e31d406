package thinking

import (
	"regexp"
	"strconv"
)

// DefaultConfidence is assumed when a response carries no parsable
// confidence token. Malformed responses degrade to this rather than failing.
const DefaultConfidence = 0.5

// Pre-compiled: matches "confidence" in any case, optional separators, then
// a decimal number. Examples: "confidence: 0.92", "Confidence=0.6",
// "CONFIDENCE 0.75", "new confidence: .8".
var confidenceRegex = regexp.MustCompile(`(?i)confidence[\s:=]*([0-9]*\.?[0-9]+)`)

// ConfidenceParser extracts a confidence value from free agent text. The
// second return reports whether a token was found; callers fall back to
// DefaultConfidence when it is false. Pluggable on Engine.
type ConfidenceParser func(text string) (float64, bool)

// ParseConfidence is the default ConfidenceParser. Parsed values are clamped
// to [0,1] so a runaway "confidence: 12" cannot satisfy thresholds it
// shouldn't.
func ParseConfidence(text string) (float64, bool) {
	m := confidenceRegex.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return clampFloat(v, 0, 1), true
}
