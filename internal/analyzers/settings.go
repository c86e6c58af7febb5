package analyzers

import (
	"fmt"
	"sort"
	"strings"

	"github.com/evildarkarchon/scanner111/internal/domain"
	"github.com/evildarkarchon/scanner111/internal/report"
)

// SettingsScanner parses key=value lines from the SETTINGS segment and
// flags mismatches against game-specific expected values (§4.4.4).
type SettingsScanner struct{}

func (SettingsScanner) Name() string           { return "Settings" }
func (SettingsScanner) Priority() int          { return 50 }
func (SettingsScanner) CanRunInParallel() bool { return true }

func (SettingsScanner) Analyze(ctx *Context) (report.Fragment, error) {
	seg, ok := ctx.Log.Segment(domain.SegmentSettings)
	if !ok || ctx.Game == nil {
		return report.New("Settings", domain.FragmentInfo, SettingsScanner{}.Priority(), "No SETTINGS segment present."), nil
	}

	actual := parseKeyValueLines(seg.Lines)

	var mismatched []string
	for key, expected := range ctx.Game.ExpectedSettings {
		got, present := actual[key]
		if present && got == expected {
			continue
		}
		mismatched = append(mismatched, key)
	}
	sort.Strings(mismatched)

	crashGenName := strings.ToLower(strings.ReplaceAll(ctx.Log.Header.CrashGenName, " ", ""))
	if crashGenName == "" {
		crashGenName = "crashgen"
	}

	var lines []string
	for _, key := range mismatched {
		expected := ctx.Game.ExpectedSettings[key]
		got, present := actual[key]
		if !present {
			got = "(not set)"
		}
		lines = append(lines, fmt.Sprintf(
			"- %s: found %s, expected %s. FIX: set %s to %s in %s.toml",
			key, got, expected, key, expected, crashGenName,
		))
	}

	fragType := domain.FragmentInfo
	if len(lines) > 0 {
		fragType = domain.FragmentWarning
	} else {
		lines = []string{"All checked settings match expected values."}
	}

	return report.New("Settings", fragType, SettingsScanner{}.Priority(), lines...), nil
}

// parseKeyValueLines extracts "key=value" pairs (trimmed) from lines,
// ignoring ones that don't contain an "=".
func parseKeyValueLines(lines []string) map[string]string {
	out := make(map[string]string)
	for _, line := range lines {
		idx := strings.Index(line, "=")
		if idx < 0 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		value := strings.TrimSpace(line[idx+1:])
		if key == "" {
			continue
		}
		out[key] = value
	}
	return out
}
