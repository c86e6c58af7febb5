package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/evildarkarchon/scanner111/internal/domain"
)

// Render serializes a root fragment tree to Markdown following §4.7:
//   - root line "# Crash Log Analysis" then a blank line
//   - each child becomes a heading whose depth grows with nesting, capped
//     at "######"
//   - warning sections are headed "## ❌ CAUTION : <title>"
//   - success-type lines are prefixed "✔️ "
func Render(root Fragment) string {
	sorted := root.SortChildren()
	var b strings.Builder
	b.WriteString("# Crash Log Analysis\n\n")
	for _, child := range sorted.Children {
		writeFragment(&b, child, 2)
	}
	return b.String()
}

func writeFragment(b *strings.Builder, f Fragment, depth int) {
	if depth > 6 {
		depth = 6
	}
	heading := strings.Repeat("#", depth)
	title := f.Title
	if f.Type == domain.FragmentWarning {
		heading = "##"
		title = "❌ CAUTION : " + f.Title
	}
	if title != "" {
		b.WriteString(heading + " " + title + "\n\n")
	}
	for _, line := range f.Lines {
		if f.Type == domain.FragmentSuccess && line != "" && !strings.HasPrefix(line, "✔️ ") {
			line = "✔️ " + line
		}
		b.WriteString(line + "\n")
	}
	if len(f.Lines) > 0 {
		b.WriteString("\n")
	}
	for _, child := range f.Children {
		writeFragment(b, child, depth+1)
	}
}

// ReportPath replaces a log path's .log/.txt extension (case preserved)
// with "-AUTOSCAN.md".
func ReportPath(logPath string) string {
	ext := filepath.Ext(logPath)
	base := strings.TrimSuffix(logPath, ext)
	return base + "-AUTOSCAN.md"
}

// Write renders root and atomically writes it to the report path derived
// from logPath: write to a temp file in the same directory, fsync, then
// rename over the destination, so a reader never observes a partial file.
func Write(logPath string, root Fragment) error {
	dest := ReportPath(logPath)
	dir := filepath.Dir(dest)

	tmp, err := os.CreateTemp(dir, ".autoscan-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp report file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once renamed

	if _, err := tmp.WriteString(Render(root)); err != nil {
		tmp.Close()
		return fmt.Errorf("write report content: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("fsync report file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp report file: %w", err)
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		return fmt.Errorf("rename report file into place: %w", err)
	}
	return nil
}

// InvalidOrIncomplete builds the fixed root fragment written for a log
// that could not be parsed (empty file, missing header) — §4.5 step 1-2.
func InvalidOrIncomplete(reason string) Fragment {
	lines := []string{"Invalid or incomplete"}
	if reason != "" {
		lines = append(lines, "", "Reason: "+reason)
	}
	return New("", domain.FragmentInfo, 0).WithChild(
		New("Result", domain.FragmentWarning, 0, lines...),
	)
}
