package logparser

import (
	"strings"
	"testing"

	"github.com/evildarkarchon/scanner111/internal/domain"
)

func TestParseHeaderHappyPath(t *testing.T) {
	log := "Fallout 4 v1.10.163.0\n" +
		"Buffout 4 v1.26.2\n\n" +
		`Unhandled exception "EXCEPTION_ACCESS_VIOLATION" at 0x7FF6AAAA1234 Fallout4.exe+1234` + "\n" +
		"Crash log generated at 2023-05-01 12:30:00\n"

	header, ok := ParseHeader(log)
	if !ok {
		t.Fatal("ParseHeader returned ok=false for a well-formed header")
	}
	if header.Game != domain.GameFallout4 {
		t.Errorf("Game = %q, want Fallout 4", header.Game)
	}
	if header.GameVersion != "1.10.163.0" {
		t.Errorf("GameVersion = %q", header.GameVersion)
	}
	if header.CrashGenName != "Buffout 4" || header.CrashGenVersion != "1.26.2" {
		t.Errorf("CrashGen = %q v%q", header.CrashGenName, header.CrashGenVersion)
	}
	if header.MainError != "EXCEPTION_ACCESS_VIOLATION" {
		t.Errorf("MainError = %q", header.MainError)
	}
	if !header.HasTimestamp {
		t.Error("expected timestamp to be parsed")
	}
}

func TestParseHeaderPartialSuccess(t *testing.T) {
	// No crash-gen line, no main error, no timestamp: still a valid header.
	log := "Fallout 4 v1.10.163.0\n"
	header, ok := ParseHeader(log)
	if !ok {
		t.Fatal("expected ok=true when game-version line is present")
	}
	if header.CrashGenVersion != "" {
		t.Errorf("expected empty CrashGenVersion, got %q", header.CrashGenVersion)
	}
	if header.MainError != "" {
		t.Errorf("expected empty MainError, got %q", header.MainError)
	}
	if header.HasTimestamp {
		t.Error("expected HasTimestamp=false")
	}
}

func TestParseHeaderAbsentWithoutGameLine(t *testing.T) {
	_, ok := ParseHeader("this is garbage content with no recognizable header\nmore garbage\n")
	if ok {
		t.Error("expected ok=false for garbage content")
	}
}

func TestParseHeaderOnlyConsultsFirst2000Bytes(t *testing.T) {
	padding := strings.Repeat("x", 2500)
	log := padding + "\nBuffout 4 v1.26.2\n"
	header, ok := ParseHeader(log)
	if ok {
		t.Fatal("expected ok=false since no game-version line exists at all")
	}
	_ = header

	// Now put a real game line in the scanned region, and a crash-gen line past 2000 bytes.
	log2 := "Fallout 4 v1.10.163.0\n" + strings.Repeat("x", 2500) + "\nBuffout 4 v1.26.2\n"
	header2, ok2 := ParseHeader(log2)
	if !ok2 {
		t.Fatal("expected ok=true")
	}
	if header2.CrashGenName != "" {
		t.Errorf("expected crash-gen line past byte 2000 to be unrecognized, got %q", header2.CrashGenName)
	}
}

func TestParseHeaderInvalidTimestampFieldsAbsentButOtherFieldsRemain(t *testing.T) {
	log := "Fallout 4 v1.10.163.0\n" +
		"Buffout 4 v1.26.2\n" +
		"Crash log generated at 2023-13-40 25:99:99\n"
	header, ok := ParseHeader(log)
	if !ok {
		t.Fatal("expected ok=true")
	}
	if header.HasTimestamp {
		t.Error("expected invalid timestamp fields to leave HasTimestamp=false")
	}
	if header.CrashGenName != "Buffout 4" {
		t.Errorf("other fields should remain populated, got CrashGenName=%q", header.CrashGenName)
	}
}
