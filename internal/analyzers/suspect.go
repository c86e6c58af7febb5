package analyzers

import (
	"fmt"
	"sort"
	"strings"

	"github.com/evildarkarchon/scanner111/internal/domain"
	"github.com/evildarkarchon/scanner111/internal/report"
)

// SuspectScanner matches configured error and stack patterns against the
// header's main error text and the CALLSTACK segment (§4.4.2).
type SuspectScanner struct{}

func (SuspectScanner) Name() string           { return "Suspects" }
func (SuspectScanner) Priority() int          { return 20 }
func (SuspectScanner) CanRunInParallel() bool { return true }

type suspectMatch struct {
	pattern domain.SuspectPattern
}

func (SuspectScanner) Analyze(ctx *Context) (report.Fragment, error) {
	if ctx.Game == nil {
		return report.New("Suspects", domain.FragmentInfo, SuspectScanner{}.Priority()), nil
	}

	var matches []suspectMatch

	for _, p := range ctx.Game.ErrorPatterns {
		if len(p.Substrings) == 0 {
			continue
		}
		if strings.Contains(ctx.Log.Header.MainError, p.Substrings[0]) {
			matches = append(matches, suspectMatch{pattern: p})
		}
	}

	callstackText := ""
	if seg, ok := ctx.Log.Segment(domain.SegmentCallstack); ok {
		callstackText = seg.Text()
	}

	for _, p := range ctx.Game.StackPatterns {
		if matchesOrderPreserving(p.Substrings, callstackText) {
			matches = append(matches, suspectMatch{pattern: p})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].pattern.Severity != matches[j].pattern.Severity {
			return matches[i].pattern.Severity > matches[j].pattern.Severity
		}
		return matches[i].pattern.Label < matches[j].pattern.Label
	})

	var lines []string
	var titles []string
	for _, m := range matches {
		lines = append(lines, fmt.Sprintf("- %s (severity: %s)", m.pattern.Label, severityLabel(m.pattern.Severity)))
		titles = append(titles, m.pattern.Label)
	}

	title := "Suspects"
	if len(titles) > 0 {
		title = "Suspects: " + strings.Join(titles, ", ")
	}

	fragType := domain.FragmentInfo
	if len(matches) > 0 {
		fragType = domain.FragmentWarning
	}
	if len(lines) == 0 {
		lines = []string{"No suspect patterns matched."}
	}

	return report.New(title, fragType, SuspectScanner{}.Priority(), lines...), nil
}

// matchesOrderPreserving reports whether each of substrings is found in text
// at a position not before the previous substring's match (§4.4.2, Testable
// Property §8.4).
func matchesOrderPreserving(substrings []string, text string) bool {
	if len(substrings) == 0 {
		return false
	}
	pos := 0
	for _, s := range substrings {
		idx := strings.Index(text[pos:], s)
		if idx < 0 {
			return false
		}
		pos += idx + len(s)
	}
	return true
}

func severityLabel(s domain.Severity) string {
	switch s {
	case domain.SeverityCritical:
		return "critical"
	case domain.SeverityHigh:
		return "high"
	case domain.SeverityMedium:
		return "medium"
	default:
		return "low"
	}
}
