// Package scanexecutor implements ScanExecutor (spec.md §4.6): batch
// discovery of crash logs under a scan path, bounded-concurrency fan-out of
// LogOrchestrator invocations, statistics accumulation, report writing, and
// the optional move of unsolved logs into a sibling directory.
package scanexecutor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/evildarkarchon/scanner111/internal/domain"
	"github.com/evildarkarchon/scanner111/internal/orchestrator"
	"github.com/evildarkarchon/scanner111/internal/report"
	"github.com/sourcegraph/conc/pool"
)

// DefaultPerLogTimeout is the per-log wall-clock budget from §5.
const DefaultPerLogTimeout = 5 * time.Minute

// ErrCancelled is returned when the batch was stopped by external
// cancellation before all logs finished (§5 Cancellation, §7 Cancelled).
var ErrCancelled = errors.New("scan cancelled")

// Config enumerates the batch-level options §4.6 lists.
type Config struct {
	ScanPath      string
	MaxConcurrent int // 1..100 (checked by gameconfig.RunConfig.Validate, whose default is 50); Execute treats <= 0 as 1
	MoveUnsolved  bool
	PerLogTimeout time.Duration
}

// ProgressFunc is called at most once per completed log (§4.6 step 4), with
// the wall-clock time spent analyzing that one log.
type ProgressFunc func(logPath string, parsed bool, dur time.Duration, err error)

// ScanExecutor fans LogOrchestrator invocations out under a bounded
// concurrency pool, one goroutine group per batch.
type ScanExecutor struct {
	Orchestrator *orchestrator.LogOrchestrator
	Progress     ProgressFunc
}

// New builds a ScanExecutor around an already-constructed LogOrchestrator.
func New(orch *orchestrator.LogOrchestrator, progress ProgressFunc) *ScanExecutor {
	return &ScanExecutor{Orchestrator: orch, Progress: progress}
}

// Execute enumerates crash-*.log / crash-*.txt files under cfg.ScanPath
// (non-recursive), analyzes each under a concurrency pool capped at
// cfg.MaxConcurrent, writes a report per log, and returns a sealed
// BatchResult (§4.6).
func (e *ScanExecutor) Execute(ctx context.Context, cfg Config) (domain.BatchResult, error) {
	paths, err := discoverLogs(cfg.ScanPath)
	if err != nil {
		return domain.BatchResult{}, fmt.Errorf("enumerate crash logs: %w", err)
	}

	timeout := cfg.PerLogTimeout
	if timeout <= 0 {
		timeout = DefaultPerLogTimeout
	}
	maxConcurrent := cfg.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}

	start := time.Now()
	stats := domain.ScanStatistics{StartedAt: start}

	var mu sync.Mutex
	var failedPaths, processedPaths []string
	var cancelled atomic.Bool

	p := pool.New().WithMaxGoroutines(maxConcurrent).WithContext(ctx).WithCancelOnError()

	for _, logPath := range paths {
		logPath := logPath
		p.Go(func(taskCtx context.Context) error {
			if taskCtx.Err() != nil {
				cancelled.Store(true)
				return taskCtx.Err()
			}

			logStart := time.Now()
			result, err := e.analyzeWithTimeout(taskCtx, logPath, timeout)
			dur := time.Since(logStart)

			mu.Lock()
			defer mu.Unlock()

			stats.Scanned++
			if err != nil {
				stats.Failed++
				failedPaths = append(failedPaths, logPath)
				if e.Progress != nil {
					e.Progress(logPath, false, dur, err)
				}
				return nil
			}

			if writeErr := report.Write(logPath, result.Report); writeErr != nil {
				stats.Failed++
				failedPaths = append(failedPaths, logPath)
				if e.Progress != nil {
					e.Progress(logPath, result.Parsed, dur, writeErr)
				}
				return nil
			}

			var progressErr error
			if result.Parsed {
				stats.Completed++
			} else {
				stats.Incomplete++
				if cfg.MoveUnsolved {
					if moveErr := moveToUnsolved(logPath); moveErr != nil {
						// ExternalFailure (§7): log-move failure degrades gracefully, move skipped.
						progressErr = fmt.Errorf("move to Unsolved: %w", moveErr)
					}
				}
			}
			processedPaths = append(processedPaths, logPath)
			if e.Progress != nil {
				e.Progress(logPath, result.Parsed, dur, progressErr)
			}
			return nil
		})
	}

	waitErr := p.Wait()

	sort.Strings(processedPaths)
	sort.Strings(failedPaths)

	batch := domain.BatchResult{
		Statistics:     stats,
		FailedPaths:    failedPaths,
		ProcessedPaths: processedPaths,
		Duration:       time.Since(start),
		Cancelled:      cancelled.Load() || errors.Is(waitErr, context.Canceled),
	}

	if batch.Cancelled {
		return batch, ErrCancelled
	}
	return batch, nil
}

// analyzeWithTimeout runs the orchestrator for one log under the per-log
// deadline (§5 Timeouts); exceeding it surfaces as a failed log, not a
// batch-level error.
func (e *ScanExecutor) analyzeWithTimeout(ctx context.Context, logPath string, timeout time.Duration) (orchestrator.Result, error) {
	logCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result, err := e.Orchestrator.Analyze(logCtx, logPath)
	if err != nil {
		if errors.Is(logCtx.Err(), context.DeadlineExceeded) {
			return orchestrator.Result{}, fmt.Errorf("timeout analyzing %s", logPath)
		}
		return orchestrator.Result{}, err
	}
	return result, nil
}

// discoverLogs lists files directly under dir matching "crash-*.log" or
// "crash-*.txt" (§4.6 step 1, non-recursive).
func discoverLogs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if matchesCrashLogName(name) {
			paths = append(paths, filepath.Join(dir, name))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func matchesCrashLogName(name string) bool {
	ok, _ := filepath.Match("crash-*.log", name)
	if ok {
		return true
	}
	ok, _ = filepath.Match("crash-*.txt", name)
	return ok
}

// moveToUnsolved moves an unparseable log (and, if present, its rendered
// report) into a sibling Unsolved/ directory (§4.6 step 5).
func moveToUnsolved(logPath string) error {
	dir := filepath.Dir(logPath)
	unsolvedDir := filepath.Join(dir, "Unsolved")
	if err := os.MkdirAll(unsolvedDir, 0o755); err != nil {
		return fmt.Errorf("create Unsolved directory: %w", err)
	}

	dest := filepath.Join(unsolvedDir, filepath.Base(logPath))
	if err := os.Rename(logPath, dest); err != nil {
		return fmt.Errorf("move log to Unsolved: %w", err)
	}

	reportPath := report.ReportPath(logPath)
	if _, err := os.Stat(reportPath); err == nil {
		reportDest := filepath.Join(unsolvedDir, filepath.Base(reportPath))
		_ = os.Rename(reportPath, reportDest)
	}
	return nil
}
