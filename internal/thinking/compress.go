package thinking

import "strings"

// maxInsightChars caps the compressed excerpt carried into the next prompt.
const maxInsightChars = 500

// insightKeywords marks lines worth carrying forward. A line survives
// compression if its lowercased content contains any of these.
var insightKeywords = []string{
	"therefore",
	"conclusion",
	"solution",
	"approach",
	"error",
	"issue",
	"fixed",
	"implement",
}

// CompressInsights extracts the essential lines of an agent response so the
// next prompt stays bounded regardless of response length. It keeps
// non-blank lines containing at least one insight keyword, joins them with
// newlines, and truncates the result to maxInsightChars. Returns "" when no
// line matches.
//
// This is a deliberately crude stand-in for semantic compression: the goal
// is bounding carried context, not summarization quality.
func CompressInsights(text string) string {
	var kept []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lower := strings.ToLower(line)
		for _, kw := range insightKeywords {
			if strings.Contains(lower, kw) {
				kept = append(kept, line)
				break
			}
		}
	}

	joined := strings.Join(kept, "\n")
	if len(joined) > maxInsightChars {
		joined = joined[:maxInsightChars]
	}
	return joined
}
