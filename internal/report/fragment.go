// Package report implements the ReportFragment composition tree and the
// writer that renders it to a per-log Markdown file.
package report

import (
	"sort"
	"strings"

	"github.com/evildarkarchon/scanner111/internal/domain"
)

// MaxDepth bounds fragment nesting (§9 Design Notes). Children constructed
// past this depth are flattened into the parent's lines instead of being
// attached as a seventh level.
const MaxDepth = 6

// Fragment is an immutable tree node: a title, ordered lines, a type, a
// sort priority, and ordered children. Value semantics — callers clone by
// copying since the only mutable fields (Lines, Children) are replaced,
// never mutated in place, by the constructors below.
type Fragment struct {
	Title    string
	Lines    []string
	Type     domain.FragmentType
	Priority int
	Children []Fragment
}

// New creates a leaf fragment.
func New(title string, fragType domain.FragmentType, priority int, lines ...string) Fragment {
	return Fragment{
		Title:    title,
		Lines:    append([]string(nil), lines...),
		Type:     fragType,
		Priority: priority,
	}
}

// WithChild returns a copy of f with child appended, respecting MaxDepth:
// any descendant that would sit more than MaxDepth levels below f is
// flattened (title, lines and its own descendants) into the lines of its
// ancestor at level MaxDepth rather than nested further.
func (f Fragment) WithChild(child Fragment) Fragment {
	return f.withChildAtDepth(child, 1)
}

func (f Fragment) withChildAtDepth(child Fragment, depth int) Fragment {
	out := f
	if depth > MaxDepth {
		out.Lines = append(append([]string(nil), f.Lines...), flatten(child)...)
		return out
	}
	rebuilt := child
	rebuilt.Children = nil
	for _, c := range child.Children {
		rebuilt = rebuilt.withChildAtDepth(c, depth+1)
	}
	out.Children = append(append([]Fragment(nil), f.Children...), rebuilt)
	return out
}

// flatten renders a fragment (and its descendants) into a flat line list,
// used when a fragment would otherwise nest past MaxDepth.
func flatten(f Fragment) []string {
	lines := append([]string(nil), f.Lines...)
	if f.Title != "" {
		lines = append([]string{f.Title}, lines...)
	}
	for _, c := range f.Children {
		lines = append(lines, flatten(c)...)
	}
	return lines
}

// WithHeader prepends a header line and a blank separator ahead of the
// fragment's existing lines. If the fragment has no content (no lines, no
// children), WithHeader is the identity — it does not manufacture an empty
// section (Testable Property §8.2).
func (f Fragment) WithHeader(header string) Fragment {
	if len(f.Lines) == 0 && len(f.Children) == 0 {
		return f
	}
	out := f
	out.Lines = append([]string{header, ""}, f.Lines...)
	return out
}

// Merge concatenates two fragments' lines and children under a's title,
// type, and priority. merge(a, b).Lines == a.Lines ++ b.Lines when neither
// is empty (Testable Property §8.2); if only a has content, Merge is
// equivalent to returning a unchanged plus b's children.
func Merge(a, b Fragment) Fragment {
	out := a
	out.Lines = append(append([]string(nil), a.Lines...), b.Lines...)
	out.Children = append(append([]Fragment(nil), a.Children...), b.Children...)
	return out
}

// SortChildren orders children by (Priority ascending, stable insertion
// order) as required by LogOrchestrator composition (§4.5 step 6).
func (f Fragment) SortChildren() Fragment {
	out := f
	out.Children = append([]Fragment(nil), f.Children...)
	sort.SliceStable(out.Children, func(i, j int) bool {
		return out.Children[i].Priority < out.Children[j].Priority
	})
	for i, c := range out.Children {
		out.Children[i] = c.SortChildren()
	}
	return out
}

// IsEmpty reports whether the fragment carries no renderable content.
func (f Fragment) IsEmpty() bool {
	return f.Title == "" && len(f.Lines) == 0 && len(f.Children) == 0
}

// PlainText renders the fragment tree as plain (non-Markdown) text, used
// only for diagnostics and tests that need a quick human-readable dump.
func (f Fragment) PlainText() string {
	var b strings.Builder
	writePlain(&b, f, 0)
	return b.String()
}

func writePlain(b *strings.Builder, f Fragment, depth int) {
	indent := strings.Repeat("  ", depth)
	if f.Title != "" {
		b.WriteString(indent + f.Title + "\n")
	}
	for _, l := range f.Lines {
		b.WriteString(indent + l + "\n")
	}
	for _, c := range f.Children {
		writePlain(b, c, depth+1)
	}
}
