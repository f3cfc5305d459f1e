package analysis

import (
	"log/slog"
	"regexp"
	"sync"
)

// SuffixMode controls when the naming heuristic participates in
// classification.
type SuffixMode string

const (
	SuffixOff      SuffixMode = "off"
	SuffixFallback SuffixMode = "fallback" // only when no import evidence exists
	SuffixAlways   SuffixMode = "always"
)

const DefaultSuffixPattern = "Signal$"

// patternCache memoizes compiled patterns across files. Keyed by the pattern
// string itself, so identical configs share one compilation and distinct
// configs can never observe each other's results.
var patternCache = struct {
	sync.RWMutex
	compiled map[string]*regexp.Regexp
}{compiled: make(map[string]*regexp.Regexp)}

// SuffixHeuristic matches identifier spellings against a configurable
// pattern. A malformed pattern disables the heuristic for the run instead of
// failing the analysis.
type SuffixHeuristic struct {
	mode SuffixMode
	re   *regexp.Regexp
}

func NewSuffixHeuristic(pattern string, mode SuffixMode) *SuffixHeuristic {
	if mode == SuffixOff || mode == "" {
		return &SuffixHeuristic{mode: SuffixOff}
	}
	if pattern == "" {
		pattern = DefaultSuffixPattern
	}
	re, err := compilePattern(pattern)
	if err != nil {
		slog.Warn("invalid suffix pattern, heuristic disabled", "pattern", pattern, "error", err)
		return &SuffixHeuristic{mode: SuffixOff}
	}
	return &SuffixHeuristic{mode: mode, re: re}
}

func compilePattern(pattern string) (*regexp.Regexp, error) {
	patternCache.RLock()
	re, ok := patternCache.compiled[pattern]
	patternCache.RUnlock()
	if ok {
		return re, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	patternCache.Lock()
	patternCache.compiled[pattern] = re
	patternCache.Unlock()
	return re, nil
}

// Matches reports whether the name triggers the heuristic.
// hasImportEvidence gates fallback mode: import-based classification always
// outranks spelling.
func (h *SuffixHeuristic) Matches(name string, hasImportEvidence bool) bool {
	switch h.mode {
	case SuffixAlways:
		return h.re.MatchString(name)
	case SuffixFallback:
		return !hasImportEvidence && h.re.MatchString(name)
	default:
		return false
	}
}

func (h *SuffixHeuristic) Enabled() bool {
	return h.mode != SuffixOff
}
