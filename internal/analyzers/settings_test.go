package analyzers

import (
	"strings"
	"testing"

	"github.com/evildarkarchon/scanner111/internal/domain"
	"github.com/evildarkarchon/scanner111/internal/gameconfig"
)

func TestSettingsScannerFlagsMismatch(t *testing.T) {
	game := &gameconfig.GameSettings{
		ExpectedSettings: map[string]string{"bUseCombinedObjects": "1"},
	}
	ctx := contextWithGame(map[domain.SegmentName]domain.LogSegment{
		domain.SegmentSettings: {Lines: []string{"bUseCombinedObjects=0"}},
	}, game)
	ctx.Log.Header.CrashGenName = "Buffout 4"

	frag, err := SettingsScanner{}.Analyze(ctx)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if frag.Type != domain.FragmentWarning {
		t.Errorf("expected warning on mismatch, got %v", frag.Type)
	}
	joined := strings.Join(frag.Lines, "\n")
	if !strings.Contains(joined, "buffout4.toml") {
		t.Errorf("expected FIX reference to buffout4.toml, got %q", joined)
	}
}

func TestSettingsScannerNoMismatch(t *testing.T) {
	game := &gameconfig.GameSettings{
		ExpectedSettings: map[string]string{"bUseCombinedObjects": "1"},
	}
	ctx := contextWithGame(map[domain.SegmentName]domain.LogSegment{
		domain.SegmentSettings: {Lines: []string{"bUseCombinedObjects=1"}},
	}, game)

	frag, err := SettingsScanner{}.Analyze(ctx)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if frag.Type != domain.FragmentInfo {
		t.Errorf("expected info type with no mismatches, got %v", frag.Type)
	}
}
