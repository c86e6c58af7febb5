// Package analyzers implements the independent per-log analyzers described
// in spec.md §4.4: plugin cross-referencing, suspect-pattern matching, FormID
// resolution, settings validation, memory-manager conflict detection,
// crash-generator version comparison, and game-file integrity checking.
package analyzers

import (
	"time"

	"github.com/evildarkarchon/scanner111/internal/domain"
	"github.com/evildarkarchon/scanner111/internal/formid"
	"github.com/evildarkarchon/scanner111/internal/gameconfig"
	"github.com/evildarkarchon/scanner111/internal/report"
)

// Analyzer is the common capability every per-log analyzer implements. The
// set of analyzers is a plain slice assembled by the caller — there is no
// runtime registration graph (§9 Design Notes).
type Analyzer interface {
	Name() string
	Priority() int
	CanRunInParallel() bool
	Analyze(ctx *Context) (report.Fragment, error)
}

// SharedData is the typed, priority-stratified handoff between analyzers
// described in §9 Design Notes: priority-10 analyzers populate it, later
// analyzers read it. FormIdAnalyzer also reads Plugins within priority 10; it
// runs sequentially, after PluginAnalyzer. It deliberately exposes named
// fields rather than a stringly-typed map.
type SharedData struct {
	// Plugins maps a plugin's filename to its parsed record, populated by
	// PluginAnalyzer.
	Plugins map[string]domain.PluginRecord

	// FormIDs holds the deduplicated, counted FormID references extracted
	// from the CALLSTACK segment, populated by FormIdAnalyzer.
	FormIDs []domain.FormIdRef
}

// CrashGenSettings carries the memory-manager related booleans
// MemoryManagementValidator consumes (§4.4.5). They are derived from the
// SETTINGS segment by the orchestrator before analyzers run.
type CrashGenSettings struct {
	MemoryManager              bool
	HavokMemorySystem          bool
	BSTextureStreamerLocalHeap bool
	ScaleformAllocator         bool
	SmallBlockAllocator        bool
}

// ModDetectionSettings carries the mod-presence booleans
// MemoryManagementValidator consumes (§4.4.5), derived from the MODULES /
// XSE MODULES segments by the orchestrator.
type ModDetectionSettings struct {
	HasXCell         bool
	HasOldXCell      bool
	HasBakaScrapHeap bool
}

// Context is the per-log, read-mostly state handed to every analyzer
// invocation. It is owned by a single LogOrchestrator run and shared
// read-only with analyzers at the same priority level; priority-10
// analyzers write into Shared, later analyzers only read it (§9 Design
// Notes, §5 shared resources).
type Context struct {
	Log    *domain.ParsedLog
	Game   *gameconfig.GameSettings
	Shared *SharedData

	CrashGen CrashGenSettings
	ModState ModDetectionSettings

	// GameRoot is the directory FileIntegrityAnalyzer checks, when known.
	// LogOrchestrator does not derive it from the crash log, so it is empty
	// unless the caller sets it, and FileIntegrityAnalyzer then skips.
	GameRoot string

	// ShowFormIDValues mirrors the batch-level show_form_id_values flag
	// (§6) consulted by FormIdAnalyzer.
	ShowFormIDValues bool

	// FCXMode mirrors the batch-level fcx_mode flag (§6, GLOSSARY "FCX
	// mode") gating FileIntegrityAnalyzer participation.
	FCXMode bool

	// SimplifyLogs mirrors the batch-level simplify_logs flag (§6). It asks
	// analyzers with potentially long per-item listings to cap themselves to
	// a summary, trading detail for a shorter report.
	SimplifyLogs bool

	// FormIDs is nil when no FormIdDatabase was configured; FormIdAnalyzer
	// treats that the same as Exists()==false.
	FormIDs *formid.Database
}

// NewContext builds a Context with an initialized Shared handoff.
func NewContext(log *domain.ParsedLog, game *gameconfig.GameSettings) *Context {
	return &Context{
		Log:    log,
		Game:   game,
		Shared: &SharedData{Plugins: make(map[string]domain.PluginRecord)},
	}
}

// AnalyzerOutcome pairs an AnalyzerResult with the fragment it produced
// (empty fragment on failure), as handed back to the LogOrchestrator.
type AnalyzerOutcome struct {
	Result   domain.AnalyzerResult
	Fragment report.Fragment
}

// Run executes a single analyzer, converting a panic-free error return into
// an AnalyzerFailure fragment rather than propagating it (§7 AnalyzerFailure:
// "convert to error-type fragment; continue other analyzers").
func Run(a Analyzer, ctx *Context) AnalyzerOutcome {
	start := time.Now()
	frag, err := a.Analyze(ctx)
	dur := time.Since(start)

	if err != nil {
		return AnalyzerOutcome{
			Result: domain.AnalyzerResult{
				AnalyzerName: a.Name(),
				Success:      false,
				Duration:     dur,
				ErrorMessage: err.Error(),
			},
			Fragment: report.New(a.Name(), domain.FragmentError, a.Priority(), err.Error()),
		}
	}

	return AnalyzerOutcome{
		Result: domain.AnalyzerResult{
			AnalyzerName: a.Name(),
			Success:      true,
			Duration:     dur,
		},
		Fragment: frag,
	}
}

// All returns the fixed set of analyzers in the order they are typically
// registered. Callers may further order them by Priority(); All itself makes
// no priority guarantee.
func All() []Analyzer {
	return []Analyzer{
		PluginAnalyzer{},
		SuspectScanner{},
		FormIdAnalyzer{},
		SettingsScanner{},
		MemoryManagementValidator{},
		BuffoutVersionAnalyzer{},
		FileIntegrityAnalyzer{},
	}
}
