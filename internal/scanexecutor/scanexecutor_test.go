package scanexecutor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/evildarkarchon/scanner111/internal/formid"
	"github.com/evildarkarchon/scanner111/internal/gameconfig"
	"github.com/evildarkarchon/scanner111/internal/orchestrator"
)

const sampleGameDoc = `
expected_settings: {}
plugin_ignore_list: []
error_patterns: []
stack_patterns: []
latest_crashgen_version:
  standard: "1.26.2"
  vr: ""
expected_hashes: {}
`

func newTestScanDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	configDir := filepath.Join(dir, "config")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatalf("mkdir config: %v", err)
	}
	if err := os.WriteFile(filepath.Join(configDir, "fallout4.yaml"), []byte(sampleGameDoc), 0o644); err != nil {
		t.Fatalf("write game doc: %v", err)
	}
	return dir
}

func newTestExecutor(t *testing.T, configDir string) *ScanExecutor {
	t.Helper()
	games := gameconfig.NewCache(configDir)
	db, err := formid.Open(nil, 8)
	if err != nil {
		t.Fatalf("formid.Open: %v", err)
	}
	orch := orchestrator.New(games, db, false, false)
	return New(orch, nil)
}

func TestExecuteDiscoversOnlyMatchingFilenames(t *testing.T) {
	dir := newTestScanDir(t)
	scanPath := filepath.Join(dir, "logs")
	if err := os.MkdirAll(scanPath, 0o755); err != nil {
		t.Fatalf("mkdir scan path: %v", err)
	}
	write := func(name, content string) {
		if err := os.WriteFile(filepath.Join(scanPath, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	write("crash-a.log", "")
	write("crash-b.txt", "")
	write("notes.md", "not a crash log")
	write("other.log", "also not matched (missing crash- prefix)")

	executor := newTestExecutor(t, filepath.Join(dir, "config"))
	batch, err := executor.Execute(context.Background(), Config{ScanPath: scanPath, MaxConcurrent: 4})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if batch.Statistics.Scanned != 2 {
		t.Errorf("Scanned = %d, want 2 (non-matching files must be excluded)", batch.Statistics.Scanned)
	}
}

func TestExecuteStatisticsInvariant(t *testing.T) {
	dir := newTestScanDir(t)
	scanPath := filepath.Join(dir, "logs")
	if err := os.MkdirAll(scanPath, 0o755); err != nil {
		t.Fatalf("mkdir scan path: %v", err)
	}
	// One empty (incomplete) log, one well-formed (completed) log.
	if err := os.WriteFile(filepath.Join(scanPath, "crash-empty.log"), []byte(""), 0o644); err != nil {
		t.Fatalf("write empty log: %v", err)
	}
	happy := "Fallout 4 v1.10.163.0\nBuffout 4 v1.26.2\n\nPLUGINS:\n  [00] Fallout4.esm\n"
	if err := os.WriteFile(filepath.Join(scanPath, "crash-happy.log"), []byte(happy), 0o644); err != nil {
		t.Fatalf("write happy log: %v", err)
	}

	executor := newTestExecutor(t, filepath.Join(dir, "config"))
	batch, err := executor.Execute(context.Background(), Config{ScanPath: scanPath, MaxConcurrent: 2})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if got, want := batch.Statistics.Scanned, batch.Statistics.Completed+batch.Statistics.Incomplete; got != want {
		t.Errorf("scanned=%d, completed+incomplete=%d — invariant violated", got, want)
	}
	if batch.Statistics.Completed != 1 || batch.Statistics.Incomplete != 1 {
		t.Errorf("expected 1 completed + 1 incomplete, got completed=%d incomplete=%d",
			batch.Statistics.Completed, batch.Statistics.Incomplete)
	}

	if _, err := os.Stat(filepath.Join(scanPath, "crash-happy-AUTOSCAN.md")); err != nil {
		t.Errorf("expected report file for the well-formed log: %v", err)
	}
	if _, err := os.Stat(filepath.Join(scanPath, "crash-empty-AUTOSCAN.md")); err != nil {
		t.Errorf("expected report file for the empty log too (§6: one output file per readable log): %v", err)
	}
}

func TestExecuteMoveUnsolved(t *testing.T) {
	dir := newTestScanDir(t)
	scanPath := filepath.Join(dir, "logs")
	if err := os.MkdirAll(scanPath, 0o755); err != nil {
		t.Fatalf("mkdir scan path: %v", err)
	}
	if err := os.WriteFile(filepath.Join(scanPath, "crash-empty.log"), []byte(""), 0o644); err != nil {
		t.Fatalf("write empty log: %v", err)
	}

	executor := newTestExecutor(t, filepath.Join(dir, "config"))
	_, err := executor.Execute(context.Background(), Config{ScanPath: scanPath, MaxConcurrent: 1, MoveUnsolved: true})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if _, err := os.Stat(filepath.Join(scanPath, "crash-empty.log")); err == nil {
		t.Error("expected the unparseable log to be moved out of the scan directory")
	}
	if _, err := os.Stat(filepath.Join(scanPath, "Unsolved", "crash-empty.log")); err != nil {
		t.Errorf("expected the unparseable log under Unsolved/: %v", err)
	}
}

func TestExecuteConcurrencyEquivalence(t *testing.T) {
	dir := newTestScanDir(t)
	scanPath := filepath.Join(dir, "logs")
	if err := os.MkdirAll(scanPath, 0o755); err != nil {
		t.Fatalf("mkdir scan path: %v", err)
	}
	happy := "Fallout 4 v1.10.163.0\nBuffout 4 v1.26.2\n\nPLUGINS:\n  [00] Fallout4.esm\nCALLSTACK:\n    Form ID: 0x00012345\n"
	for i := 0; i < 5; i++ {
		name := "crash-" + string(rune('a'+i)) + ".log"
		if err := os.WriteFile(filepath.Join(scanPath, name), []byte(happy), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	run := func(concurrency int) map[string]string {
		executor := newTestExecutor(t, filepath.Join(dir, "config"))
		_, err := executor.Execute(context.Background(), Config{ScanPath: scanPath, MaxConcurrent: concurrency})
		if err != nil {
			t.Fatalf("Execute(concurrency=%d): %v", concurrency, err)
		}
		out := make(map[string]string)
		entries, _ := os.ReadDir(scanPath)
		for _, e := range entries {
			if filepath.Ext(e.Name()) == ".md" {
				content, _ := os.ReadFile(filepath.Join(scanPath, e.Name()))
				out[e.Name()] = string(content)
			}
		}
		return out
	}

	seq := run(1)
	par := run(5)

	if len(seq) != len(par) {
		t.Fatalf("report file count differs: concurrency=1 -> %d, concurrency=5 -> %d", len(seq), len(par))
	}
	for name, content := range seq {
		if par[name] != content {
			t.Errorf("report %s differs between concurrency=1 and concurrency=5 runs", name)
		}
	}
}
