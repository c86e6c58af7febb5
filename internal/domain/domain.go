// Package domain holds the value types shared across Scanner111's parser,
// analyzers, orchestrator, and executor. They carry no behavior beyond
// simple accessors — the engine components own the logic that produces
// and consumes them.
package domain

import "time"

// Game identifies a supported Bethesda title + crash-generator combination.
type Game string

const (
	GameFallout4    Game = "Fallout 4"
	GameFallout4VR  Game = "Fallout4VR"
	GameSkyrimSE    Game = "Skyrim Special Edition"
	GameSkyrimVR    Game = "SkyrimVR"
	GameUnsupported Game = ""
)

// CrashHeader is the fixed set of fields extracted from the first ~2000
// bytes of a crash log. A game-version line is required for the header to
// count as present; CrashGenName, CrashGenVersion, MainError, and Timestamp
// may each independently be empty/zero without invalidating the header.
type CrashHeader struct {
	Game            Game
	GameVersion     string
	CrashGenName    string
	CrashGenVersion string
	MainError       string
	Timestamp       time.Time
	HasTimestamp    bool
}

// SegmentName enumerates the recognized crash-log section markers.
type SegmentName string

const (
	SegmentSystemSpecs SegmentName = "SYSTEM SPECS"
	SegmentSettings    SegmentName = "SETTINGS"
	SegmentModules     SegmentName = "MODULES"
	SegmentXSEModules  SegmentName = "XSE MODULES"
	SegmentPlugins     SegmentName = "PLUGINS"
	SegmentCallstack   SegmentName = "CALLSTACK"
	SegmentRegisters   SegmentName = "REGISTERS"
	SegmentStack       SegmentName = "STACK"
)

// KnownSegmentMarkers lists the markers SegmentSplitter recognizes, in the
// order they are conventionally emitted by crash generators. The splitter
// itself does not require this order — any marker may start a segment
// anywhere in the body.
var KnownSegmentMarkers = []SegmentName{
	SegmentSystemSpecs,
	SegmentSettings,
	SegmentModules,
	SegmentXSEModules,
	SegmentPlugins,
	SegmentCallstack,
	SegmentRegisters,
	SegmentStack,
}

// LogSegment is a contiguous, named region of a crash log.
type LogSegment struct {
	Name  SegmentName
	Lines []string
}

// Text joins the segment's lines with newlines, the form analyzers scan.
func (s LogSegment) Text() string {
	out := ""
	for i, l := range s.Lines {
		if i > 0 {
			out += "\n"
		}
		out += l
	}
	return out
}

// ParsedLog is the immutable result of parsing one crash log's header and
// body. It is shared read-only with every analyzer for a given log.
type ParsedLog struct {
	Path     string
	Header   CrashHeader
	Segments map[SegmentName]LogSegment
}

// Segment returns the named segment and whether it was present.
func (p *ParsedLog) Segment(name SegmentName) (LogSegment, bool) {
	seg, ok := p.Segments[name]
	return seg, ok
}

// PluginRecord is one entry from the PLUGINS segment.
type PluginRecord struct {
	Filename       string
	LoadOrderIndex string // 2-char hex, e.g. "00", "FE"
	Suspected      bool
}

// FormIdRef is a 32-bit FormID split into its plugin-selecting prefix and
// the record-identifying suffix, with an occurrence count from the
// callstack scan.
type FormIdRef struct {
	Hex8   string // normalized 8 hex chars, upper-case
	Prefix string // first 2 hex chars
	Suffix string // remaining 6 hex chars
	Count  int
}

// IsSynthetic reports whether the FormID's prefix marks it as runtime
// generated rather than plugin-sourced (prefix "FF").
func (f FormIdRef) IsSynthetic() bool {
	return f.Prefix == "FF"
}

// Severity orders SuspectPattern matches for deterministic reporting.
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

// SuspectPattern is a named signature. An error pattern's single entry in
// Substrings is matched against the header's main-error text; a stack
// pattern's Substrings are matched against the CALLSTACK segment in order,
// each required to appear after the previous match.
type SuspectPattern struct {
	Label      string
	Substrings []string
	Severity   Severity
}

// FragmentType selects the sort key and Markdown rendering for a
// ReportFragment.
type FragmentType int

const (
	FragmentInfo FragmentType = iota
	FragmentWarning
	FragmentError
	FragmentSuccess
	FragmentSection
)

// AnalyzerResult is what one analyzer invocation produces.
type AnalyzerResult struct {
	AnalyzerName string
	Success      bool
	Duration     time.Duration
	ErrorMessage string
}

// ScanStatistics accumulates batch-level counters. Scanned counts every log
// the executor attempted, so it equals Completed+Incomplete+Failed (and
// Completed+Incomplete when no log failed); Completed and Failed are
// disjoint.
type ScanStatistics struct {
	Scanned    int
	Completed  int
	Incomplete int
	Failed     int
	StartedAt  time.Time
}

// BatchResult is sealed once a ScanExecutor run finishes.
type BatchResult struct {
	Statistics     ScanStatistics
	FailedPaths    []string
	ProcessedPaths []string
	Duration       time.Duration
	Cancelled      bool
}
