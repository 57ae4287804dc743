package clauerr

import "strings"

// contextRadius is how many lines before/after the offending line are
// kept.
const contextRadius = 3

// Enrich attaches surrounding source lines to d, for terminal or editor
// rendering. It returns d unmodified if its line number falls outside
// source's bounds.
func Enrich(d *Diagnostic, source string) *Diagnostic {
	lines := strings.Split(source, "\n")
	lineIdx := d.Location.Line - 1 // convert to 0-based
	if lineIdx < 0 || lineIdx >= len(lines) {
		return d
	}

	start := lineIdx - contextRadius
	if start < 0 {
		start = 0
	}
	end := lineIdx + contextRadius + 1
	if end > len(lines) {
		end = len(lines)
	}

	col := d.Location.Column - 1 // convert to 0-based
	if col < 0 {
		col = 0
	}

	d.Context = &SourceContext{
		Lines:          append([]string(nil), lines[start:end]...),
		HighlightIndex: lineIdx - start,
		HighlightStart: col,
		HighlightEnd:   col + 1,
	}
	return d
}
