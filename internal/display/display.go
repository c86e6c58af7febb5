// Package display renders ScanExecutor progress and batch summaries.
package display

import (
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/term"
)

// Display handles batch-scan progress output.
type Display struct {
	theme     *Theme
	termWidth int
	quiet     bool
}

// New creates a Display with default color output.
func New() *Display {
	return NewWithOptions(false)
}

// NewWithOptions creates a Display; quiet suppresses per-log progress lines.
func NewWithOptions(quiet bool) *Display {
	d := &Display{
		termWidth: getTerminalWidth(),
		quiet:     quiet,
	}
	if quiet {
		d.theme = NoColorTheme()
	} else {
		d.theme = DefaultTheme()
	}
	return d
}

func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width < 40 {
		return 80
	}
	if width > 120 {
		return 120
	}
	return width
}

// Box prints a titled, bordered block of lines.
func (d *Display) Box(title string, lines ...string) {
	if len(lines) == 0 {
		return
	}

	width := d.termWidth - 2
	titleLen := len(title) + 4
	remainingWidth := width - titleLen
	if remainingWidth < 0 {
		remainingWidth = 0
	}

	topLine := BoxTopLeft + BoxHorizontal + " " + title + " " + strings.Repeat(BoxHorizontal, remainingWidth) + BoxTopRight
	fmt.Println(d.theme.Border(topLine))

	for _, line := range lines {
		padded := d.padRight(line, width-2)
		fmt.Println(d.theme.Border(BoxVertical) + " " + d.theme.Text(padded) + " " + d.theme.Border(BoxVertical))
	}

	bottomLine := BoxBottomLeft + strings.Repeat(BoxHorizontal, width) + BoxBottomRight
	fmt.Println(d.theme.Border(bottomLine))
}

// Status prints a single timestamped status line.
func (d *Display) Status(symbol, message string) {
	if d.quiet {
		return
	}
	timestamp := time.Now().Format("[15:04:05]")
	fmt.Printf("%s %s %s\n", d.theme.Dim(timestamp), symbol, d.theme.Text(message))
}

// LogScanned reports completion of a single log's analysis.
func (d *Display) LogScanned(path string, parsed bool, dur time.Duration) {
	if parsed {
		d.Status(d.theme.Success(SymbolSuccess), fmt.Sprintf("%s (%s)", path, dur.Round(time.Millisecond)))
	} else {
		d.Status(d.theme.Warning(SymbolWarning), fmt.Sprintf("%s — invalid or incomplete", path))
	}
}

// LogFailed reports a log that failed outright (timeout, read error).
func (d *Display) LogFailed(path string, err error) {
	d.Status(d.theme.Error(SymbolError), fmt.Sprintf("%s — %v", path, err))
}

func (d *Display) Success(message string) { d.Status(d.theme.Success(SymbolSuccess), message) }
func (d *Display) Error(message string)   { d.Status(d.theme.Error(SymbolError), message) }
func (d *Display) Warning(message string) { d.Status(d.theme.Warning(SymbolWarning), message) }
func (d *Display) Info(label, message string) {
	d.Status(d.theme.Info(label+":"), message)
}

// SectionBreak prints a horizontal separator.
func (d *Display) SectionBreak() {
	if d.quiet {
		return
	}
	fmt.Println(d.theme.Separator(strings.Repeat(SectionBreak, d.termWidth)))
}

// Summary prints the final batch-result box.
func (d *Display) Summary(scanned, completed, incomplete, failed int, dur time.Duration) {
	if d.quiet {
		return
	}
	d.Box("SCAN COMPLETE",
		fmt.Sprintf("Scanned:    %d", scanned),
		fmt.Sprintf("Completed:  %d", completed),
		fmt.Sprintf("Incomplete: %d", incomplete),
		fmt.Sprintf("Failed:     %d", failed),
		fmt.Sprintf("Duration:   %s", dur.Round(time.Millisecond)),
	)
}

// Theme returns the current theme for external use.
func (d *Display) Theme() *Theme { return d.theme }

func (d *Display) padRight(s string, width int) string {
	if width < 0 {
		width = 0
	}
	if len(s) >= width {
		return s[:width]
	}
	return s + strings.Repeat(" ", width-len(s))
}

// Truncate truncates text to max length with ellipsis.
func Truncate(s string, max int) string {
	s = CleanText(s)
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

// CleanText removes newlines and collapses repeated spaces.
func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	for strings.Contains(s, "  ") {
		s = strings.ReplaceAll(s, "  ", " ")
	}
	return strings.TrimSpace(s)
}
