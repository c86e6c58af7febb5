package analyzers

import (
	"github.com/evildarkarchon/scanner111/internal/domain"
	"github.com/evildarkarchon/scanner111/internal/report"
)

// MemoryManagementValidator applies the fixed MemMgr/XCell/Baka decision
// table from §4.4.5 and checks the four per-allocator flags when XCell is
// present.
type MemoryManagementValidator struct{}

func (MemoryManagementValidator) Name() string           { return "Memory Manager" }
func (MemoryManagementValidator) Priority() int          { return 50 }
func (MemoryManagementValidator) CanRunInParallel() bool { return true }

func (MemoryManagementValidator) Analyze(ctx *Context) (report.Fragment, error) {
	mm := ctx.CrashGen.MemoryManager
	xcell := ctx.ModState.HasXCell
	baka := ctx.ModState.HasBakaScrapHeap

	var verdict string
	warn := false

	switch {
	case mm && xcell:
		verdict = "Conflict: MemoryManager and XCell are both enabled. change MemoryManager to FALSE in the crash generator configuration."
		warn = true
	case mm && !xcell && baka:
		verdict = "Conflict: Baka ScrapHeap is installed alongside MemoryManager. Remove Baka ScrapHeap."
		warn = true
	case mm && !xcell && !baka:
		verdict = "OK: MemoryManager is enabled with no conflicting allocator mods."
	case !mm && xcell && baka:
		verdict = "Conflict: Baka ScrapHeap is installed alongside XCell. Remove Baka ScrapHeap."
		warn = true
	case !mm && xcell && !baka:
		verdict = "OK: XCell configuration detected."
	case !mm && !xcell && baka:
		verdict = "Warning: remove Baka ScrapHeap and enable MemoryManager."
		warn = true
	default:
		verdict = "No memory manager or replacement allocator detected."
	}

	lines := []string{verdict}

	if xcell {
		allocators := []struct {
			label   string
			enabled bool
		}{
			{"HavokMemorySystem", ctx.CrashGen.HavokMemorySystem},
			{"BSTextureStreamerLocalHeap", ctx.CrashGen.BSTextureStreamerLocalHeap},
			{"ScaleformAllocator", ctx.CrashGen.ScaleformAllocator},
			{"SmallBlockAllocator", ctx.CrashGen.SmallBlockAllocator},
		}
		for _, a := range allocators {
			if a.enabled {
				lines = append(lines, "- "+a.label+": conflict, must be disabled when XCell is installed.")
				warn = true
			} else {
				lines = append(lines, "- "+a.label+": OK (disabled).")
			}
		}
	}

	if ctx.ModState.HasOldXCell {
		lines = append(lines, "- An outdated XCell version was detected. Update at https://www.nexusmods.com/fallout4/mods/81933.")
		warn = true
	}

	fragType := domain.FragmentInfo
	if warn {
		fragType = domain.FragmentWarning
	}

	return report.New("Memory Manager", fragType, MemoryManagementValidator{}.Priority(), lines...), nil
}
