package analyzers

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/evildarkarchon/scanner111/internal/domain"
	"github.com/evildarkarchon/scanner111/internal/report"
)

// gameExecutableNames maps a detected game to the executable file integrity
// is checked against.
var gameExecutableNames = map[domain.Game]string{
	domain.GameFallout4:   "Fallout4.exe",
	domain.GameFallout4VR: "Fallout4VR.exe",
	domain.GameSkyrimSE:   "SkyrimSE.exe",
	domain.GameSkyrimVR:   "SkyrimVR.exe",
}

// FileIntegrityAnalyzer verifies the game executable's SHA-256 hash against
// the expected hash for its reported version (§4.4.7). Skipped silently
// when no game root is known or FCX mode is off (SPEC_FULL.md §12).
type FileIntegrityAnalyzer struct{}

func (FileIntegrityAnalyzer) Name() string           { return "File Integrity" }
func (FileIntegrityAnalyzer) Priority() int          { return 30 }
func (FileIntegrityAnalyzer) CanRunInParallel() bool { return true }

func (FileIntegrityAnalyzer) Analyze(ctx *Context) (report.Fragment, error) {
	if !ctx.FCXMode || ctx.GameRoot == "" || ctx.Game == nil {
		return report.Fragment{}, nil
	}

	exeName, ok := gameExecutableNames[ctx.Game.Game]
	if !ok {
		return report.Fragment{}, nil
	}

	exePath := filepath.Join(ctx.GameRoot, exeName)
	actualHash, err := sha256File(exePath)
	if err != nil {
		return report.New("File Integrity", domain.FragmentWarning, FileIntegrityAnalyzer{}.Priority(),
			fmt.Sprintf("Could not read %s: %v", exeName, err)), nil
	}

	expected, ok := ctx.Game.ExpectedHashes[ctx.Log.Header.GameVersion]
	if !ok {
		return report.New("File Integrity", domain.FragmentInfo, FileIntegrityAnalyzer{}.Priority(),
			fmt.Sprintf("No expected hash configured for %s version %s.", exeName, ctx.Log.Header.GameVersion)), nil
	}

	if actualHash != expected {
		return report.New("File Integrity", domain.FragmentWarning, FileIntegrityAnalyzer{}.Priority(),
			fmt.Sprintf("%s hash mismatch: expected %s, got %s.", exeName, expected, actualHash)), nil
	}

	return report.New("File Integrity", domain.FragmentSuccess, FileIntegrityAnalyzer{}.Priority(),
		fmt.Sprintf("%s hash matches the expected value for version %s.", exeName, ctx.Log.Header.GameVersion)), nil
}

func sha256File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
