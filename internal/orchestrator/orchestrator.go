// Package orchestrator implements LogOrchestrator (spec.md §4.5): the
// single-log pipeline of header/segment parsing, game configuration
// resolution, priority-ordered analyzer fan-out, and fragment composition.
package orchestrator

import (
	"context"
	"os"
	"sort"
	"strings"

	"github.com/evildarkarchon/scanner111/internal/analyzers"
	"github.com/evildarkarchon/scanner111/internal/domain"
	"github.com/evildarkarchon/scanner111/internal/formid"
	"github.com/evildarkarchon/scanner111/internal/gameconfig"
	"github.com/evildarkarchon/scanner111/internal/logparser"
	"github.com/evildarkarchon/scanner111/internal/report"
	"golang.org/x/sync/errgroup"
)

// InvalidOrIncompleteText is the literal substring every invalid-or-incomplete
// report must contain (§4.5 step 1-2, Testable Properties §8).
const InvalidOrIncompleteText = "Invalid or incomplete"

// Result is what analyzing a single log produces.
type Result struct {
	Parsed   bool
	Warnings []string
	Report   report.Fragment
}

// LogOrchestrator runs the per-log pipeline described in §4.5, sharing the
// FormIdDatabase connection pool and ConfigurationCache across every log it
// processes in a batch.
type LogOrchestrator struct {
	Games            *gameconfig.Cache
	FormIDs          *formid.Database
	ShowFormIDValues bool
	FCXMode          bool
	SimplifyLogs     bool
	Analyzers        []analyzers.Analyzer
}

// New builds a LogOrchestrator with the fixed analyzer set from
// analyzers.All(), ordered by ascending priority as §4.5 step 5 requires.
func New(games *gameconfig.Cache, formIDs *formid.Database, showFormIDValues, fcxMode bool) *LogOrchestrator {
	set := analyzers.All()
	sort.SliceStable(set, func(i, j int) bool { return set[i].Priority() < set[j].Priority() })
	return &LogOrchestrator{
		Games:            games,
		FormIDs:          formIDs,
		ShowFormIDValues: showFormIDValues,
		FCXMode:          fcxMode,
		Analyzers:        set,
	}
}

// WithSimplifyLogs sets the simplify_logs flag (§6) passed through to every
// analyzer's Context and returns the receiver for chaining after New.
func (o *LogOrchestrator) WithSimplifyLogs(simplify bool) *LogOrchestrator {
	o.SimplifyLogs = simplify
	return o
}

// Analyze runs the §4.5 sequence for a single log file. ctx cancellation is
// honored cooperatively at the read and per-priority-level boundaries (§5).
func (o *LogOrchestrator) Analyze(ctx context.Context, logPath string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	raw, err := os.ReadFile(logPath)
	if err != nil {
		return Result{}, err
	}

	text := toValidUTF8(raw)

	if len(text) == 0 {
		return invalidResult(), nil
	}

	header, ok := logparser.ParseHeader(text)
	if !ok {
		return invalidResult(), nil
	}

	segments := logparser.Split(text)

	parsed := &domain.ParsedLog{
		Path:     logPath,
		Header:   header,
		Segments: segments,
	}

	gameSettings, gameErr := o.Games.Get(header.Game)

	analyzerCtx := analyzers.NewContext(parsed, gameSettings)
	analyzerCtx.ShowFormIDValues = o.ShowFormIDValues
	analyzerCtx.FCXMode = o.FCXMode
	analyzerCtx.SimplifyLogs = o.SimplifyLogs
	analyzerCtx.FormIDs = o.FormIDs
	analyzerCtx.CrashGen = deriveCrashGenSettings(segments)
	analyzerCtx.ModState = deriveModDetectionSettings(segments)

	var warnings []string
	if gameErr != nil {
		warnings = append(warnings, gameErr.Error())
	}

	root := report.New("", domain.FragmentSection, 0)

	for _, level := range priorityLevels(o.Analyzers) {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		outcomes, err := runLevel(ctx, level, analyzerCtx)
		if err != nil {
			return Result{}, err
		}

		for _, outcome := range outcomes {
			if outcome.Fragment.IsEmpty() {
				continue
			}
			root = root.WithChild(outcome.Fragment)
			if !outcome.Result.Success {
				warnings = append(warnings, outcome.Result.AnalyzerName+": "+outcome.Result.ErrorMessage)
			}
		}
	}

	root = root.SortChildren()

	return Result{Parsed: true, Warnings: warnings, Report: root}, nil
}

// runLevel executes one priority level's analyzers, joining
// can-run-in-parallel ones via an errgroup and running the rest in sequence,
// preserving each analyzer's output position regardless of completion order
// (§5 ordering guarantees).
func runLevel(ctx context.Context, level []analyzers.Analyzer, actx *analyzers.Context) ([]analyzers.AnalyzerOutcome, error) {
	outcomes := make([]analyzers.AnalyzerOutcome, len(level))

	var parallelIdx []int
	var sequentialIdx []int
	for i, a := range level {
		if a.CanRunInParallel() {
			parallelIdx = append(parallelIdx, i)
		} else {
			sequentialIdx = append(sequentialIdx, i)
		}
	}

	if len(parallelIdx) > 0 {
		g, _ := errgroup.WithContext(ctx)
		for _, i := range parallelIdx {
			i := i
			g.Go(func() error {
				outcomes[i] = analyzers.Run(level[i], actx)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	for _, i := range sequentialIdx {
		outcomes[i] = analyzers.Run(level[i], actx)
	}

	return outcomes, nil
}

// priorityLevels groups analyzers (already sorted by priority) into
// same-priority batches, preserving their relative order.
func priorityLevels(sorted []analyzers.Analyzer) [][]analyzers.Analyzer {
	var levels [][]analyzers.Analyzer
	var current []analyzers.Analyzer
	currentPriority := 0

	for i, a := range sorted {
		if i == 0 || a.Priority() != currentPriority {
			if len(current) > 0 {
				levels = append(levels, current)
			}
			current = nil
			currentPriority = a.Priority()
		}
		current = append(current, a)
	}
	if len(current) > 0 {
		levels = append(levels, current)
	}
	return levels
}

func invalidResult() Result {
	return Result{
		Parsed: false,
		Report: report.InvalidOrIncomplete(""),
	}
}

// toValidUTF8 replaces invalid byte sequences the way §4.5 step 1 requires
// ("UTF-8, replacement on invalid bytes") rather than rejecting the log.
func toValidUTF8(raw []byte) string {
	return strings.ToValidUTF8(string(raw), "�")
}
