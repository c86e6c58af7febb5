package analyzers

import (
	"fmt"
	"sort"
	"strings"

	"github.com/evildarkarchon/scanner111/internal/domain"
	"github.com/evildarkarchon/scanner111/internal/report"
	"github.com/grafana/regexp"
)

// pluginLinePattern matches a PLUGINS segment entry: two hex digits in
// brackets, then the plugin filename (§4.4.1).
var pluginLinePattern = regexp.MustCompile(`^\s*\[([0-9A-Fa-f]{2})\]\s*(\S.*?)\s*$`)

// PluginAnalyzer parses the PLUGINS segment and cross-references the
// CALLSTACK segment to flag suspected plugins (§4.4.1).
type PluginAnalyzer struct{}

func (PluginAnalyzer) Name() string           { return "Plugins" }
func (PluginAnalyzer) Priority() int          { return 10 }
func (PluginAnalyzer) CanRunInParallel() bool { return true }

func (PluginAnalyzer) Analyze(ctx *Context) (report.Fragment, error) {
	plugins := make(map[string]domain.PluginRecord)

	seg, ok := ctx.Log.Segment(domain.SegmentPlugins)
	if ok {
		for _, line := range seg.Lines {
			m := pluginLinePattern.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			name := m[2]
			if _, exists := plugins[name]; exists {
				continue
			}
			plugins[name] = domain.PluginRecord{
				Filename:       name,
				LoadOrderIndex: strings.ToUpper(m[1]),
			}
		}
	}

	if callstack, ok := ctx.Log.Segment(domain.SegmentCallstack); ok {
		text := callstack.Text()
		for name, rec := range plugins {
			base := strings.TrimSuffix(name, filepathExt(name))
			if base != "" && strings.Contains(text, base) {
				rec.Suspected = true
				plugins[name] = rec
			}
		}
	}

	ctx.Shared.Plugins = plugins

	names := make([]string, 0, len(plugins))
	for name := range plugins {
		names = append(names, name)
	}
	sort.Strings(names)

	var lines []string
	suspectedCount := 0
	for _, name := range names {
		rec := plugins[name]
		if rec.Suspected {
			suspectedCount++
			lines = append(lines, fmt.Sprintf("- [%s] %s (suspected)", rec.LoadOrderIndex, rec.Filename))
		}
	}

	header := fmt.Sprintf("Total plugins: %d | Suspected: %d", len(plugins), suspectedCount)
	allLines := append([]string{header}, lines...)

	fragType := domain.FragmentInfo
	if suspectedCount > 0 {
		fragType = domain.FragmentWarning
	}

	return report.New("Plugins", fragType, PluginAnalyzer{}.Priority(), allLines...), nil
}

// filepathExt returns the extension of name including the leading dot, or
// "" if name has none. Duplicated here (rather than importing path/filepath)
// because plugin filenames are not filesystem paths and never contain
// separators.
func filepathExt(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i:]
	}
	return ""
}
