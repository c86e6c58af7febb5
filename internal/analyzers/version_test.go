package analyzers

import (
	"testing"

	"github.com/evildarkarchon/scanner111/internal/domain"
	"github.com/evildarkarchon/scanner111/internal/gameconfig"
)

func TestBuffoutVersionAnalyzerWarnsWhenOlder(t *testing.T) {
	game := &gameconfig.GameSettings{
		Game:           domain.GameFallout4,
		LatestCrashGen: gameconfig.LatestCrashGenVersions{Standard: "1.26.2"},
	}
	ctx := contextWithGame(nil, game)
	ctx.Log.Header.CrashGenName = "Buffout 4"
	ctx.Log.Header.CrashGenVersion = "1.26.0"

	frag, err := BuffoutVersionAnalyzer{}.Analyze(ctx)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if frag.Type != domain.FragmentWarning {
		t.Errorf("expected warning for an older version, got %v", frag.Type)
	}
}

func TestBuffoutVersionAnalyzerOkWhenCurrent(t *testing.T) {
	game := &gameconfig.GameSettings{
		Game:           domain.GameFallout4,
		LatestCrashGen: gameconfig.LatestCrashGenVersions{Standard: "1.26.2"},
	}
	ctx := contextWithGame(nil, game)
	ctx.Log.Header.CrashGenName = "Buffout 4"
	ctx.Log.Header.CrashGenVersion = "1.26.2"

	frag, err := BuffoutVersionAnalyzer{}.Analyze(ctx)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if frag.Type != domain.FragmentInfo {
		t.Errorf("expected info type when current, got %v", frag.Type)
	}
}

func TestBuffoutVersionAnalyzerAbsentVersionSkipsComparison(t *testing.T) {
	ctx := contextWithGame(nil, &gameconfig.GameSettings{Game: domain.GameFallout4})

	frag, err := BuffoutVersionAnalyzer{}.Analyze(ctx)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if frag.Type != domain.FragmentInfo {
		t.Errorf("expected info type with no crash-gen version, got %v", frag.Type)
	}
}
