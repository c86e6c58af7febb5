package analyzers

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/evildarkarchon/scanner111/internal/domain"
	"github.com/evildarkarchon/scanner111/internal/gameconfig"
)

func TestFileIntegrityAnalyzerSkippedWithoutFCXMode(t *testing.T) {
	ctx := contextWithGame(nil, &gameconfig.GameSettings{Game: domain.GameFallout4})
	ctx.GameRoot = t.TempDir()

	frag, err := FileIntegrityAnalyzer{}.Analyze(ctx)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !frag.IsEmpty() {
		t.Errorf("expected an empty fragment when FCX mode is off, got %+v", frag)
	}
}

func TestFileIntegrityAnalyzerMatchingHash(t *testing.T) {
	dir := t.TempDir()
	content := []byte("pretend-executable-bytes")
	if err := os.WriteFile(filepath.Join(dir, "Fallout4.exe"), content, 0o644); err != nil {
		t.Fatalf("write fixture exe: %v", err)
	}
	sum := sha256.Sum256(content)
	hash := hex.EncodeToString(sum[:])

	game := &gameconfig.GameSettings{
		Game:           domain.GameFallout4,
		ExpectedHashes: map[string]string{"1.10.163.0": hash},
	}
	ctx := contextWithGame(nil, game)
	ctx.FCXMode = true
	ctx.GameRoot = dir
	ctx.Log.Header.GameVersion = "1.10.163.0"

	frag, err := FileIntegrityAnalyzer{}.Analyze(ctx)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if frag.Type != domain.FragmentSuccess {
		t.Errorf("expected success type on matching hash, got %v", frag.Type)
	}
}

func TestFileIntegrityAnalyzerMismatchedHash(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Fallout4.exe"), []byte("actual-bytes"), 0o644); err != nil {
		t.Fatalf("write fixture exe: %v", err)
	}

	game := &gameconfig.GameSettings{
		Game:           domain.GameFallout4,
		ExpectedHashes: map[string]string{"1.10.163.0": "deadbeef"},
	}
	ctx := contextWithGame(nil, game)
	ctx.FCXMode = true
	ctx.GameRoot = dir
	ctx.Log.Header.GameVersion = "1.10.163.0"

	frag, err := FileIntegrityAnalyzer{}.Analyze(ctx)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if frag.Type != domain.FragmentWarning {
		t.Errorf("expected warning on hash mismatch, got %v", frag.Type)
	}
}
