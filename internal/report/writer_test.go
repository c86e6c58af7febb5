package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/evildarkarchon/scanner111/internal/domain"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// TestRenderedMarkdownParsesExpectedSections feeds the rendered report
// through goldmark and checks the heading structure round-trips — the
// rendering idempotence property (§8.6) extended with an actual Markdown
// parser instead of a second string comparison.
func TestRenderedMarkdownParsesExpectedSections(t *testing.T) {
	root := New("", domain.FragmentSection, 0)
	root = root.WithChild(New("Plugins", domain.FragmentInfo, 10, "Total: 3"))
	root = root.WithChild(New("Suspect Scan", domain.FragmentWarning, 20, "AllocateMemory"))
	rendered := Render(root)

	src := []byte(rendered)
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	var headings []string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if h, ok := n.(*ast.Heading); ok {
				var buf bytes.Buffer
				for c := h.FirstChild(); c != nil; c = c.NextSibling() {
					buf.Write(c.Text(src))
				}
				headings = append(headings, buf.String())
			}
		}
		return ast.WalkContinue, nil
	})

	if len(headings) < 3 {
		t.Fatalf("expected at least 3 headings (root + 2 sections), got %v", headings)
	}
	if headings[0] != "Crash Log Analysis" {
		t.Errorf("first heading = %q, want %q", headings[0], "Crash Log Analysis")
	}
	foundWarning := false
	for _, h := range headings {
		if strings.Contains(h, "CAUTION") && strings.Contains(h, "Suspect Scan") {
			foundWarning = true
		}
	}
	if !foundWarning {
		t.Errorf("no CAUTION heading found among %v", headings)
	}
}

func TestReportPathReplacesExtension(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"crash-fo4.log", "crash-fo4-AUTOSCAN.md"},
		{"crash-FO4.LOG", "crash-FO4-AUTOSCAN.md"},
		{"/var/logs/crash-2023.txt", "/var/logs/crash-2023-AUTOSCAN.md"},
	}
	for _, tt := range tests {
		if got := ReportPath(tt.in); got != tt.want {
			t.Errorf("ReportPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestInvalidOrIncompleteContainsLiteralText(t *testing.T) {
	frag := InvalidOrIncomplete("empty file")
	rendered := Render(frag)
	if want := "Invalid or incomplete"; !strings.Contains(rendered, want) {
		t.Errorf("rendered report missing %q: %s", want, rendered)
	}
}
