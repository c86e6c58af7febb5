// Package logparser implements CrashHeaderParser and SegmentSplitter
// (spec.md §4.1-4.2): extracting the fixed header fields from the first
// bytes of a crash log, then splitting the remainder into named segments.
package logparser

import (
	"strings"
	"time"

	"github.com/evildarkarchon/scanner111/internal/domain"
	"github.com/grafana/regexp"
)

// HeaderScanBytes bounds how much of the log text the header parser
// consults. A crash-generator line past this offset is not recognized —
// documented in spec.md §8 as a required-for-performance boundary, not a
// bug.
const HeaderScanBytes = 2000

var gameVersionPattern = regexp.MustCompile(
	`(?i)^(Fallout 4|Fallout4VR|Skyrim SE|Skyrim Special Edition|SkyrimVR)\s+v(\d+(?:\.\d+)+)`)

var crashGenPattern = regexp.MustCompile(
	`(?i)(Buffout 4|Crash Logger(?: SSE| VR)?)\s+v(\S+)`)

var mainErrorPattern = regexp.MustCompile(
	`(?i)^Unhandled exception\s+"([^"]+)"`)

var timestampPattern = regexp.MustCompile(
	`(?i)Crash log (?:generated )?at (\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2})`)

func normalizeGame(raw string) domain.Game {
	switch strings.ToLower(raw) {
	case "fallout 4":
		return domain.GameFallout4
	case "fallout4vr":
		return domain.GameFallout4VR
	case "skyrim se", "skyrim special edition":
		return domain.GameSkyrimSE
	case "skyrimvr":
		return domain.GameSkyrimVR
	default:
		return domain.GameUnsupported
	}
}

// ParseHeader extracts game/crash-gen identity, the main exception, and an
// optional timestamp from the first HeaderScanBytes bytes of text. It
// returns ok=false only when no game-version line is found; every other
// field is independently optional (spec.md §4.1).
func ParseHeader(text string) (domain.CrashHeader, bool) {
	region := text
	if len(region) > HeaderScanBytes {
		region = region[:HeaderScanBytes]
	}

	var header domain.CrashHeader

	gameMatch := gameVersionPattern.FindStringSubmatch(firstNonBlankLine(region))
	if gameMatch == nil {
		// The game line need not be the very first line of the region in
		// malformed logs; scan line-by-line as a fallback.
		for _, line := range strings.Split(region, "\n") {
			if m := gameVersionPattern.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
				gameMatch = m
				break
			}
		}
	}
	if gameMatch == nil {
		return domain.CrashHeader{}, false
	}
	header.Game = normalizeGame(gameMatch[1])
	header.GameVersion = gameMatch[2]

	if m := crashGenPattern.FindStringSubmatch(region); m != nil {
		header.CrashGenName = m[1]
		header.CrashGenVersion = m[2]
	}

	for _, line := range strings.Split(region, "\n") {
		if m := mainErrorPattern.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			header.MainError = m[1]
			break
		}
	}

	if m := timestampPattern.FindStringSubmatch(region); m != nil {
		if ts, err := time.ParseInLocation("2006-01-02 15:04:05", m[1], time.Local); err == nil {
			header.Timestamp = ts
			header.HasTimestamp = true
		}
	}

	return header, true
}

func firstNonBlankLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			return trimmed
		}
	}
	return ""
}
