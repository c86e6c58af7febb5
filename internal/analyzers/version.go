package analyzers

import (
	"fmt"
	"strings"

	"github.com/evildarkarchon/scanner111/internal/domain"
	"github.com/evildarkarchon/scanner111/internal/report"
	"golang.org/x/mod/semver"
)

// BuffoutVersionAnalyzer compares the crash generator's reported version
// against the configured "latest" version for the detected game/variant
// (§4.4.6).
type BuffoutVersionAnalyzer struct{}

func (BuffoutVersionAnalyzer) Name() string           { return "Crash Generator Version" }
func (BuffoutVersionAnalyzer) Priority() int          { return 20 }
func (BuffoutVersionAnalyzer) CanRunInParallel() bool { return true }

func (BuffoutVersionAnalyzer) Analyze(ctx *Context) (report.Fragment, error) {
	current := ctx.Log.Header.CrashGenVersion
	if current == "" || ctx.Game == nil {
		return report.New("Crash Generator Version", domain.FragmentInfo, BuffoutVersionAnalyzer{}.Priority(),
			fmt.Sprintf("%s %s", ctx.Log.Header.CrashGenName, current)), nil
	}

	vr := strings.Contains(string(ctx.Game.Game), "VR")
	latest := ctx.Game.LatestVersion(vr)

	line := fmt.Sprintf("%s v%s (latest known: v%s)", ctx.Log.Header.CrashGenName, current, latest)

	if latest == "" {
		return report.New("Crash Generator Version", domain.FragmentInfo, BuffoutVersionAnalyzer{}.Priority(), line), nil
	}

	currentCanon := toSemver(current)
	latestCanon := toSemver(latest)

	if semver.IsValid(currentCanon) && semver.IsValid(latestCanon) && semver.Compare(currentCanon, latestCanon) < 0 {
		return report.New("Crash Generator Version", domain.FragmentWarning, BuffoutVersionAnalyzer{}.Priority(),
			line, fmt.Sprintf("A newer version (v%s) is available.", latest)), nil
	}

	return report.New("Crash Generator Version", domain.FragmentInfo, BuffoutVersionAnalyzer{}.Priority(), line), nil
}

// toSemver prefixes a bare "X.Y.Z" version with "v" so it satisfies
// golang.org/x/mod/semver's required "vMAJOR.MINOR.PATCH" form.
func toSemver(v string) string {
	if strings.HasPrefix(v, "v") {
		return v
	}
	return "v" + v
}
