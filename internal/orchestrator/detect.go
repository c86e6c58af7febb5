package orchestrator

import (
	"strconv"
	"strings"

	"github.com/evildarkarchon/scanner111/internal/analyzers"
	"github.com/evildarkarchon/scanner111/internal/domain"
)

// crashGenBooleanKeys maps a CrashGenSettings field to the key name its
// value is reported under in the SETTINGS segment.
var crashGenBooleanKeys = []struct {
	key    string
	assign func(*analyzers.CrashGenSettings, bool)
}{
	{"MemoryManager", func(c *analyzers.CrashGenSettings, v bool) { c.MemoryManager = v }},
	{"HavokMemorySystem", func(c *analyzers.CrashGenSettings, v bool) { c.HavokMemorySystem = v }},
	{"BSTextureStreamerLocalHeap", func(c *analyzers.CrashGenSettings, v bool) { c.BSTextureStreamerLocalHeap = v }},
	{"ScaleformAllocator", func(c *analyzers.CrashGenSettings, v bool) { c.ScaleformAllocator = v }},
	{"SmallBlockAllocator", func(c *analyzers.CrashGenSettings, v bool) { c.SmallBlockAllocator = v }},
}

// deriveCrashGenSettings reads the fixed set of memory-manager booleans
// MemoryManagementValidator needs out of the SETTINGS segment (§4.4.5).
func deriveCrashGenSettings(segments map[domain.SegmentName]domain.LogSegment) analyzers.CrashGenSettings {
	var out analyzers.CrashGenSettings
	seg, ok := segments[domain.SegmentSettings]
	if !ok {
		return out
	}
	kv := make(map[string]string, len(seg.Lines))
	for _, line := range seg.Lines {
		idx := strings.Index(line, "=")
		if idx < 0 {
			continue
		}
		kv[strings.TrimSpace(line[:idx])] = strings.TrimSpace(line[idx+1:])
	}
	for _, entry := range crashGenBooleanKeys {
		if raw, present := kv[entry.key]; present {
			if v, err := strconv.ParseBool(raw); err == nil {
				entry.assign(&out, v)
			}
		}
	}
	return out
}

// modDetectionMarkers maps a module filename substring (case-insensitive) to
// the ModDetectionSettings flag it implies, searched across MODULES and XSE
// MODULES (§4.4.5, GLOSSARY "XCell / Baka ScrapHeap").
var modDetectionMarkers = []struct {
	marker string
	assign func(*analyzers.ModDetectionSettings, bool)
}{
	{"x-cell-og.dll", func(m *analyzers.ModDetectionSettings, v bool) { m.HasXCell = v }},
	{"x-cell-fo4.dll", func(m *analyzers.ModDetectionSettings, v bool) { m.HasXCell = v }},
	{"x-cell-vr.dll", func(m *analyzers.ModDetectionSettings, v bool) { m.HasXCell = v }},
	{"bakascrapheap.dll", func(m *analyzers.ModDetectionSettings, v bool) { m.HasBakaScrapHeap = v }},
}

// oldXCellVersionMarker flags a known-outdated XCell module name; current
// releases ship with the names in modDetectionMarkers instead.
const oldXCellVersionMarker = "x-cell-fo4-og.dll"

// deriveModDetectionSettings scans MODULES and XSE MODULES for known memory
// manager replacement mod filenames.
func deriveModDetectionSettings(segments map[domain.SegmentName]domain.LogSegment) analyzers.ModDetectionSettings {
	var out analyzers.ModDetectionSettings

	text := strings.ToLower(segments[domain.SegmentModules].Text() + "\n" + segments[domain.SegmentXSEModules].Text())

	for _, entry := range modDetectionMarkers {
		if strings.Contains(text, entry.marker) {
			entry.assign(&out, true)
		}
	}
	if strings.Contains(text, oldXCellVersionMarker) {
		out.HasOldXCell = true
	}

	return out
}
