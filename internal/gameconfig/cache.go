package gameconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/evildarkarchon/scanner111/internal/domain"
	"gopkg.in/yaml.v3"
)

// allowSkyrimVariantsEnv gates the Skyrim SE/VR entries in SupportedGames.
// spec.md §9 Open Questions notes the source's Skyrim support is stubbed
// and instructs keeping it behind a feature flag, excluded by default.
const allowSkyrimVariantsEnv = "SCANNER111_ALLOW_SKYRIM_VARIANTS"

// GameDoc is the on-disk shape of one game's configuration document,
// named "<game-key>.yaml" inside the configuration directory.
type GameDoc struct {
	ExpectedSettings map[string]string `yaml:"expected_settings"`
	PluginIgnoreList []string          `yaml:"plugin_ignore_list"`
	ErrorPatterns    []errorPatternDoc `yaml:"error_patterns"`
	StackPatterns    []stackPatternDoc `yaml:"stack_patterns"`
	LatestCrashGen   LatestCrashGenVersions `yaml:"latest_crashgen_version"`
	ExpectedHashes   map[string]string `yaml:"expected_hashes"` // version -> sha256 hex
}

type errorPatternDoc struct {
	Label     string `yaml:"label"`
	Substring string `yaml:"substring"`
	Severity  string `yaml:"severity"`
}

type stackPatternDoc struct {
	Label      string   `yaml:"label"`
	Substrings []string `yaml:"substrings"`
	Severity   string   `yaml:"severity"`
}

type LatestCrashGenVersions struct {
	Standard string `yaml:"standard"`
	VR       string `yaml:"vr"`
}

// GameSettings is the resolved, in-memory form of a GameDoc handed to
// analyzers — patterns parsed into domain.SuspectPattern and severities
// resolved to domain.Severity.
type GameSettings struct {
	Game             domain.Game
	ExpectedSettings map[string]string
	PluginIgnoreList map[string]bool
	ErrorPatterns    []domain.SuspectPattern
	StackPatterns    []domain.SuspectPattern
	LatestCrashGen   LatestCrashGenVersions
	ExpectedHashes   map[string]string
}

func parseSeverity(s string) domain.Severity {
	switch s {
	case "critical":
		return domain.SeverityCritical
	case "high":
		return domain.SeverityHigh
	case "medium":
		return domain.SeverityMedium
	default:
		return domain.SeverityLow
	}
}

// Cache loads and memoizes GameSettings from a configuration directory.
// A game's document is loaded on the first Get for that game and served
// from the memo map afterwards; the map is guarded by a read-write mutex.
// Two concurrent first requests for the same game may both load the
// document, and the one stored last is kept.
type Cache struct {
	dir string

	mu       sync.RWMutex
	settings map[domain.Game]*GameSettings
}

// NewCache creates a Cache rooted at dir. It performs no I/O until a game
// is first requested.
func NewCache(dir string) *Cache {
	return &Cache{dir: dir, settings: make(map[domain.Game]*GameSettings)}
}

// gameFileNames maps a domain.Game to its configuration document's base
// name (without extension) inside the configuration directory.
var gameFileNames = map[domain.Game]string{
	domain.GameFallout4:   "fallout4",
	domain.GameFallout4VR: "fallout4vr",
	domain.GameSkyrimSE:   "skyrimse",
	domain.GameSkyrimVR:   "skyrimvr",
}

// SupportedGames lists the games ConfigurationCache will resolve settings
// for. Skyrim variants are excluded unless SCANNER111_ALLOW_SKYRIM_VARIANTS
// is set (spec.md §9 Open Questions).
func SupportedGames() []domain.Game {
	games := []domain.Game{domain.GameFallout4, domain.GameFallout4VR}
	if os.Getenv(allowSkyrimVariantsEnv) == "1" {
		games = append(games, domain.GameSkyrimSE, domain.GameSkyrimVR)
	}
	return games
}

// ErrGameNotSupported is returned when the detected game is not in
// SupportedGames (unrecognized, or excluded by the Skyrim feature flag). A
// missing or unreadable configuration document is reported by Get as a read
// or parse error instead.
var ErrGameNotSupported = fmt.Errorf("game configuration not found or not enabled")

// Get returns the resolved settings for game, loading and caching them on
// first access.
func (c *Cache) Get(game domain.Game) (*GameSettings, error) {
	c.mu.RLock()
	if s, ok := c.settings[game]; ok {
		c.mu.RUnlock()
		return s, nil
	}
	c.mu.RUnlock()

	supported := false
	for _, g := range SupportedGames() {
		if g == game {
			supported = true
			break
		}
	}
	if !supported {
		return nil, ErrGameNotSupported
	}

	base, ok := gameFileNames[game]
	if !ok {
		return nil, ErrGameNotSupported
	}

	doc, err := loadGameDoc(filepath.Join(c.dir, base+".yaml"))
	if err != nil {
		return nil, err
	}

	settings := resolveGameSettings(game, doc)

	c.mu.Lock()
	c.settings[game] = settings
	c.mu.Unlock()

	return settings, nil
}

func loadGameDoc(path string) (*GameDoc, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read game configuration %s: %w", path, err)
	}
	var doc GameDoc
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("parse game configuration %s: %w", path, err)
	}
	return &doc, nil
}

func resolveGameSettings(game domain.Game, doc *GameDoc) *GameSettings {
	ignore := make(map[string]bool, len(doc.PluginIgnoreList))
	for _, p := range doc.PluginIgnoreList {
		ignore[p] = true
	}

	errorPatterns := make([]domain.SuspectPattern, 0, len(doc.ErrorPatterns))
	for _, ep := range doc.ErrorPatterns {
		errorPatterns = append(errorPatterns, domain.SuspectPattern{
			Label:      ep.Label,
			Substrings: []string{ep.Substring},
			Severity:   parseSeverity(ep.Severity),
		})
	}

	stackPatterns := make([]domain.SuspectPattern, 0, len(doc.StackPatterns))
	for _, sp := range doc.StackPatterns {
		stackPatterns = append(stackPatterns, domain.SuspectPattern{
			Label:      sp.Label,
			Substrings: append([]string(nil), sp.Substrings...),
			Severity:   parseSeverity(sp.Severity),
		})
	}

	return &GameSettings{
		Game:             game,
		ExpectedSettings: doc.ExpectedSettings,
		PluginIgnoreList: ignore,
		ErrorPatterns:    errorPatterns,
		StackPatterns:    stackPatterns,
		LatestCrashGen:   doc.LatestCrashGen,
		ExpectedHashes:   doc.ExpectedHashes,
	}
}

// LatestVersion returns the configured "latest" crash-generator version for
// vr or standard variants (spec.md §4.4.6).
func (g *GameSettings) LatestVersion(vr bool) string {
	if vr {
		return g.LatestCrashGen.VR
	}
	return g.LatestCrashGen.Standard
}
