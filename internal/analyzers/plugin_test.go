package analyzers

import (
	"strings"
	"testing"

	"github.com/evildarkarchon/scanner111/internal/domain"
)

func newTestContext(segments map[domain.SegmentName]domain.LogSegment) *Context {
	log := &domain.ParsedLog{Path: "crash-test.log", Segments: segments}
	return NewContext(log, nil)
}

func TestPluginAnalyzerMarksSuspected(t *testing.T) {
	ctx := newTestContext(map[domain.SegmentName]domain.LogSegment{
		domain.SegmentPlugins: {Name: domain.SegmentPlugins, Lines: []string{
			"  [00] Fallout4.esm",
			"  [01] SomeMod.esp",
		}},
		domain.SegmentCallstack: {Name: domain.SegmentCallstack, Lines: []string{
			"    [SomeMod] + 0x1234",
		}},
	})

	frag, err := PluginAnalyzer{}.Analyze(ctx)
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}

	if !strings.Contains(frag.Lines[0], "Total plugins: 2") {
		t.Errorf("header line = %q", frag.Lines[0])
	}
	if frag.Type != domain.FragmentWarning {
		t.Errorf("expected warning type when a plugin is suspected, got %v", frag.Type)
	}

	rec, ok := ctx.Shared.Plugins["SomeMod.esp"]
	if !ok || !rec.Suspected {
		t.Errorf("expected SomeMod.esp to be recorded as suspected, got %+v ok=%v", rec, ok)
	}
}

func TestPluginAnalyzerNoPluginsSegment(t *testing.T) {
	ctx := newTestContext(nil)

	frag, err := PluginAnalyzer{}.Analyze(ctx)
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	if frag.Type != domain.FragmentInfo {
		t.Errorf("expected info type with no plugins, got %v", frag.Type)
	}
	if len(ctx.Shared.Plugins) != 0 {
		t.Errorf("expected no plugins recorded, got %d", len(ctx.Shared.Plugins))
	}
}
