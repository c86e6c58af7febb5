package analyzers

import (
	"fmt"
	"sort"
	"strings"

	"github.com/evildarkarchon/scanner111/internal/domain"
	"github.com/evildarkarchon/scanner111/internal/report"
	"github.com/grafana/regexp"
)

// formIDPattern matches a "Form ID:" line in the CALLSTACK segment (§4.4.3).
var formIDPattern = regexp.MustCompile(`(?i)^\s*Form ID:\s*0x([0-9A-Fa-f]{8})`)

// maxSimplifiedFormIDLines caps the FormIDs listing when simplify_logs is set.
const maxSimplifiedFormIDLines = 20

// FormIdAnalyzer extracts FormIDs from the CALLSTACK segment, excludes
// synthetic ("FF"-prefixed) ids, and resolves plugin + optional descriptive
// value for each (§4.4.3). It does not run in parallel because it reads
// Shared.Plugins, which PluginAnalyzer writes at the same priority; the
// orchestrator runs a level's sequential analyzers after its parallel ones.
type FormIdAnalyzer struct{}

func (FormIdAnalyzer) Name() string           { return "FormIDs" }
func (FormIdAnalyzer) Priority() int          { return 10 }
func (FormIdAnalyzer) CanRunInParallel() bool { return false }

func (FormIdAnalyzer) Analyze(ctx *Context) (report.Fragment, error) {
	seg, ok := ctx.Log.Segment(domain.SegmentCallstack)
	if !ok {
		ctx.Shared.FormIDs = nil
		return report.New("FormIDs", domain.FragmentInfo, FormIdAnalyzer{}.Priority(), "No CALLSTACK segment present."), nil
	}

	counts := make(map[string]int)
	for _, line := range seg.Lines {
		m := formIDPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		hex8 := strings.ToUpper(m[1])
		if hex8[:2] == "FF" {
			continue
		}
		counts[hex8]++
	}

	hexes := make([]string, 0, len(counts))
	for h := range counts {
		hexes = append(hexes, h)
	}
	sort.Strings(hexes)

	refs := make([]domain.FormIdRef, 0, len(hexes))
	for _, h := range hexes {
		refs = append(refs, domain.FormIdRef{
			Hex8:   h,
			Prefix: h[:2],
			Suffix: h[2:],
			Count:  counts[h],
		})
	}
	ctx.Shared.FormIDs = refs

	if len(refs) == 0 {
		return report.New("FormIDs", domain.FragmentInfo, FormIdAnalyzer{}.Priority(), "No FormIDs found."), nil
	}

	pluginByIndex := make(map[string]string, len(ctx.Shared.Plugins))
	for _, rec := range ctx.Shared.Plugins {
		pluginByIndex[rec.LoadOrderIndex] = rec.Filename
	}

	canLookupValues := ctx.ShowFormIDValues && ctx.FormIDs != nil && ctx.FormIDs.Exists()

	// simplifyCap bounds the listing under simplify_logs (§6); 0 means no cap.
	simplifyCap := 0
	if ctx.SimplifyLogs {
		simplifyCap = maxSimplifiedFormIDLines
	}

	lines := make([]string, 0, len(refs)+1)
	for i, ref := range refs {
		if simplifyCap > 0 && i >= simplifyCap {
			lines = append(lines, fmt.Sprintf("- (+%d more FormIDs omitted, simplify_logs enabled)", len(refs)-simplifyCap))
			break
		}
		plugin, known := pluginByIndex[ref.Prefix]
		if !known {
			plugin = "unknown"
		}

		if canLookupValues && known {
			if value, found := ctx.FormIDs.Lookup(plugin, ref.Suffix); found {
				lines = append(lines, fmt.Sprintf("- Form ID: %s | [%s] | %s | %d", ref.Hex8, plugin, value, ref.Count))
				continue
			}
		}
		lines = append(lines, fmt.Sprintf("- Form ID: %s | [%s] | %d", ref.Hex8, plugin, ref.Count))
	}

	crashGenName := ctx.Log.Header.CrashGenName
	if crashGenName == "" {
		crashGenName = "the crash generator"
	}
	lines = append(lines, fmt.Sprintf("FormIDs are reported by %s and may reference records from any loaded plugin.", crashGenName))

	return report.New("FormIDs", domain.FragmentInfo, FormIdAnalyzer{}.Priority(), lines...), nil
}
