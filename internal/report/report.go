package report

import (
	"fmt"
	"sort"

	coreerrors "sigwatch/internal/core/errors"
	"sigwatch/internal/parser"
)

// Severity of a diagnostic. "off" disables a rule entirely.
type Severity string

const (
	SeverityError Severity = "error"
	SeverityWarn  Severity = "warn"
	SeverityOff   Severity = "off"
)

func ParseSeverity(s string) (Severity, error) {
	switch Severity(s) {
	case SeverityError, SeverityWarn, SeverityOff:
		return Severity(s), nil
	}
	return "", coreerrors.New(coreerrors.CodeValidationError, fmt.Sprintf("unknown severity %q", s))
}

// Edit replaces the half-open byte range [Start, End) with NewText.
type Edit struct {
	Start   int
	End     int
	NewText string
}

// EditSet is a group of edits applied atomically or not at all. Edits within
// one set must not overlap.
type EditSet struct {
	Edits []Edit
}

// Validate checks range sanity and pairwise disjointness.
func (s EditSet) Validate(sourceLen int) error {
	edits := make([]Edit, len(s.Edits))
	copy(edits, s.Edits)
	sort.Slice(edits, func(i, j int) bool { return edits[i].Start < edits[j].Start })
	prevEnd := 0
	for _, e := range edits {
		if e.Start < 0 || e.End < e.Start || e.End > sourceLen {
			return coreerrors.New(coreerrors.CodeValidationError,
				fmt.Sprintf("edit range [%d,%d) out of bounds", e.Start, e.End))
		}
		if e.Start < prevEnd {
			return coreerrors.New(coreerrors.CodeValidationError,
				fmt.Sprintf("overlapping edit at offset %d", e.Start))
		}
		prevEnd = e.End
	}
	return nil
}

// Apply rewrites the source with all edits, atomically: any invalid edit
// leaves the input untouched and returns an error.
func (s EditSet) Apply(source []byte) ([]byte, error) {
	if err := s.Validate(len(source)); err != nil {
		return nil, err
	}
	edits := make([]Edit, len(s.Edits))
	copy(edits, s.Edits)
	sort.Slice(edits, func(i, j int) bool { return edits[i].Start < edits[j].Start })

	out := make([]byte, 0, len(source))
	cursor := 0
	for _, e := range edits {
		out = append(out, source[cursor:e.Start]...)
		out = append(out, e.NewText...)
		cursor = e.End
	}
	out = append(out, source[cursor:]...)
	return out, nil
}

// Diagnostic is one finding handed to the host. The core does not retain it.
type Diagnostic struct {
	Rule     string
	Severity Severity
	Location parser.Location
	Message  string
	Data     map[string]string

	// Fix is the safe primary rewrite, if one exists.
	Fix *EditSet
	// Suggestions are alternative rewrites that may change behavior and
	// need human review.
	Suggestions []EditSet
}

// Collector is the default host sink: it accumulates diagnostics in emission
// (source) order.
type Collector struct {
	Diagnostics []Diagnostic
}

func (c *Collector) Report(d Diagnostic) {
	c.Diagnostics = append(c.Diagnostics, d)
}
