package logparser

import (
	"strings"

	"github.com/evildarkarchon/scanner111/internal/domain"
)

// markerTokens maps the literal header token a segment starts with to its
// SegmentName. A marker must make up the whole trimmed line, so a line with
// text after the colon is not a marker. The marker line itself is not part
// of the segment body.
var markerTokens = map[string]domain.SegmentName{
	"SYSTEM SPECS:": domain.SegmentSystemSpecs,
	"SETTINGS:":     domain.SegmentSettings,
	"MODULES:":      domain.SegmentModules,
	"XSE MODULES:":  domain.SegmentXSEModules,
	"PLUGINS:":      domain.SegmentPlugins,
	"CALLSTACK:":    domain.SegmentCallstack,
	"REGISTERS:":    domain.SegmentRegisters,
	"STACK:":        domain.SegmentStack,
}

// Split walks text looking for known section markers and returns a map of
// segment name to its lines (leading whitespace preserved). Unknown
// markers are ignored; a duplicate marker is discarded in favor of the
// first occurrence. An empty body yields an empty map (spec.md §4.2).
func Split(text string) map[domain.SegmentName]domain.LogSegment {
	segments := make(map[domain.SegmentName]domain.LogSegment)
	if strings.TrimSpace(text) == "" {
		return segments
	}

	var current domain.SegmentName
	var active bool
	var lines []string

	flush := func() {
		if active {
			if _, exists := segments[current]; !exists {
				segments[current] = domain.LogSegment{Name: current, Lines: lines}
			}
		}
		lines = nil
	}

	for _, rawLine := range strings.Split(strings.TrimSuffix(text, "\n"), "\n") {
		trimmed := strings.TrimRight(rawLine, "\r")
		if name, ok := markerTokens[strings.TrimSpace(trimmed)]; ok {
			flush()
			current = name
			active = true
			continue
		}
		if active {
			lines = append(lines, trimmed)
		}
	}
	flush()

	return segments
}
