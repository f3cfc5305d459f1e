package analysis

import "testing"

func TestSuffixFallbackMode(t *testing.T) {
	h := NewSuffixHeuristic("Signal$", SuffixFallback)

	if !h.Matches("countSignal", false) {
		t.Error("fallback should match when no import evidence exists")
	}
	if h.Matches("countSignal", true) {
		t.Error("import evidence must outrank the heuristic in fallback mode")
	}
	if h.Matches("counter", false) {
		t.Error("non-matching spelling should not classify")
	}
}

func TestSuffixAlwaysMode(t *testing.T) {
	h := NewSuffixHeuristic("Signal$", SuffixAlways)
	if !h.Matches("countSignal", true) {
		t.Error("always mode matches regardless of import evidence")
	}
}

func TestSuffixOff(t *testing.T) {
	h := NewSuffixHeuristic("Signal$", SuffixOff)
	if h.Enabled() || h.Matches("countSignal", false) {
		t.Error("off mode never matches")
	}
}

func TestSuffixInvalidPatternDisables(t *testing.T) {
	h := NewSuffixHeuristic("(unclosed", SuffixFallback)
	if h.Enabled() {
		t.Error("a malformed pattern must disable the heuristic, not fail the run")
	}
	if h.Matches("countSignal", false) {
		t.Error("disabled heuristic must not match")
	}
}

func TestPatternCacheSharing(t *testing.T) {
	a, err := compilePattern("Store$")
	if err != nil {
		t.Fatal(err)
	}
	b, err := compilePattern("Store$")
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Error("identical patterns should share one compilation")
	}
}
