package thinking

import (
	"fmt"
	"strings"
	"testing"
)

func TestProcessIteration_FirstRound(t *testing.T) {
	engine := NewEngine()

	out := engine.ProcessIteration(
		"Build a REST API",
		"I will use Express and handle errors, confidence: 0.6",
		NewState(),
		DefaultConfig(),
	)

	if out.State.Depth != 1 {
		t.Errorf("expected depth 1, got %d", out.State.Depth)
	}
	if out.State.Confidence != 0.6 {
		t.Errorf("expected confidence 0.6, got %v", out.State.Confidence)
	}
	if out.State.Complete {
		t.Error("session should not be complete after a low-confidence round")
	}
	if out.Reason != StopNone {
		t.Errorf("expected no stop reason, got %q", out.Reason)
	}
	if out.NextPrompt == "" {
		t.Fatal("expected a continuation prompt")
	}
	if !strings.Contains(out.NextPrompt, "depth 1/5") {
		t.Errorf("continuation prompt should contain depth 1/5, got:\n%s", out.NextPrompt)
	}
	if len(out.State.Iterations) != 1 || out.State.Iterations[0] != out.State.LastResult {
		t.Error("response should be appended to history and mirrored in LastResult")
	}
}

func TestProcessIteration_ProductionReadyStops(t *testing.T) {
	engine := NewEngine()

	out := engine.ProcessIteration(
		"Build a REST API",
		"Final implemented solution, fully tested and ready to deploy, confidence: 0.9",
		NewState(),
		DefaultConfig(),
	)

	if !out.State.Complete {
		t.Fatal("expected completion on a production-ready response")
	}
	if out.Reason != StopProductionReady {
		t.Errorf("expected reason %q, got %q", StopProductionReady, out.Reason)
	}
	if out.NextPrompt != "" {
		t.Errorf("complete session must not carry a prompt, got %q", out.NextPrompt)
	}
}

func TestProcessIteration_ConfidenceThresholdStops(t *testing.T) {
	engine := NewEngine()

	// High confidence but no readiness vocabulary and a short answer, so
	// only the MinConfidence rule can fire.
	out := engine.ProcessIteration("task", "confidence: 0.86", NewState(), DefaultConfig())

	if !out.State.Complete || out.Reason != StopConfidence {
		t.Errorf("expected confidence_threshold stop, got complete=%v reason=%q",
			out.State.Complete, out.Reason)
	}
}

func TestProcessIteration_DepthLimitStops(t *testing.T) {
	engine := NewEngine()
	cfg := DefaultConfig() // MaxDepth 5

	st := NewState()
	for i := 1; i <= 5; i++ {
		out := engine.ProcessIteration("task", fmt.Sprintf("round %d, still unsure", i), st, cfg)
		st = out.State

		if st.Depth != i {
			t.Fatalf("after %d rounds expected depth %d, got %d", i, i, st.Depth)
		}
		if len(st.Iterations) != i {
			t.Fatalf("after %d rounds expected %d history entries, got %d", i, i, len(st.Iterations))
		}
		if st.Confidence != DefaultConfidence {
			t.Fatalf("unparsable responses should default to %v, got %v", DefaultConfidence, st.Confidence)
		}

		if i < 5 {
			if st.Complete {
				t.Fatalf("round %d should not complete", i)
			}
			if out.NextPrompt == "" {
				t.Fatalf("round %d should produce a prompt", i)
			}
		} else {
			if !st.Complete || out.Reason != StopDepthLimit {
				t.Fatalf("round 5 should stop on depth limit, got complete=%v reason=%q",
					st.Complete, out.Reason)
			}
			if out.NextPrompt != "" {
				t.Fatal("round 5 should not produce a prompt")
			}
		}
	}
}

// MaxIterations is enforced as a cap independent of MaxDepth. The two bounds
// are redundant when MaxIterations >= MaxDepth (history grows one entry per
// round, so depth and iteration count coincide); this pins down the behavior
// when MaxIterations is the smaller of the two.
func TestProcessIteration_IterationLimitIndependentOfDepth(t *testing.T) {
	engine := NewEngine()
	cfg := Config{MaxDepth: 10, MinConfidence: 0.99, MaxIterations: 2}

	st := NewState()
	out := engine.ProcessIteration("task", "no idea yet", st, cfg)
	if out.State.Complete {
		t.Fatal("first round should not complete")
	}

	out = engine.ProcessIteration("task", "still no idea", out.State, cfg)
	if !out.State.Complete || out.Reason != StopIterationLimit {
		t.Errorf("expected iteration_limit stop at round 2, got complete=%v reason=%q",
			out.State.Complete, out.Reason)
	}
}

func TestProcessIteration_DoesNotMutatePrevious(t *testing.T) {
	engine := NewEngine()

	prev := State{
		Depth:      1,
		Confidence: 0.4,
		Iterations: []string{"first"},
		LastResult: "first",
	}
	engine.ProcessIteration("task", "second, confidence: 0.5", prev, DefaultConfig())

	if prev.Depth != 1 || len(prev.Iterations) != 1 || prev.Iterations[0] != "first" {
		t.Error("previous state must not be mutated")
	}
}

func TestProcessIteration_ZeroValueEngine(t *testing.T) {
	var engine Engine // nil Parser and Policy fall back to defaults

	out := engine.ProcessIteration("task", "confidence: 0.9", NewState(), DefaultConfig())
	if !out.State.Complete {
		t.Error("zero-value engine should apply the default parser and policy")
	}
}

func TestProcessIteration_PluggableStrategies(t *testing.T) {
	// A parser that trusts nothing and a policy that accepts everything:
	// readiness should win immediately regardless of response content.
	engine := &Engine{
		Parser: func(string) (float64, bool) { return 0, false },
		Policy: acceptAllPolicy{},
	}

	out := engine.ProcessIteration("task", "anything", NewState(), DefaultConfig())
	if out.Reason != StopProductionReady {
		t.Errorf("custom policy should drive the stop decision, got %q", out.Reason)
	}
	if out.State.Confidence != DefaultConfidence {
		t.Errorf("custom parser miss should fall back to %v, got %v",
			DefaultConfidence, out.State.Confidence)
	}
}

type acceptAllPolicy struct{}

func (acceptAllPolicy) ProductionReady(string, float64) bool { return true }

func TestStart(t *testing.T) {
	engine := NewEngine()

	st, prompt := engine.Start("Build a REST API", DefaultConfig())

	if st.Depth != 0 || st.Confidence != 0 || len(st.Iterations) != 0 ||
		st.LastResult != "" || st.Complete {
		t.Errorf("Start should return a zero state, got %+v", st)
	}
	if !strings.Contains(prompt, "Build a REST API") {
		t.Error("initial prompt should embed the task")
	}
}

func TestConfigNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   Config
		want Config
	}{
		{"zero gets defaults", Config{}, DefaultConfig()},
		{"clamps high maxDepth", Config{MaxDepth: 50, MinConfidence: 0.5, MaxIterations: 3},
			Config{MaxDepth: 10, MinConfidence: 0.5, MaxIterations: 3}},
		{"clamps negative", Config{MaxDepth: -1, MinConfidence: -2, MaxIterations: -5},
			Config{MaxDepth: 1, MinConfidence: 0, MaxIterations: 1}},
		{"clamps confidence above one", Config{MaxDepth: 5, MinConfidence: 3, MaxIterations: 8},
			Config{MaxDepth: 5, MinConfidence: 1, MaxIterations: 8}},
		{"temperature passes through", Config{Temperature: 0.7},
			Config{MaxDepth: 5, MinConfidence: 0.85, MaxIterations: 8, Temperature: 0.7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Normalize(); got != tt.want {
				t.Errorf("Normalize(%+v) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}
