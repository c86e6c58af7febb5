package cli

import (
	"errors"

	"github.com/evildarkarchon/scanner111/internal/scanexecutor"
)

// Exit codes from §6 EXTERNAL INTERFACES.
const (
	ExitSuccess           = 0
	ExitScanPathNotFound  = 1
	ExitInvalidArgument   = 2
	ExitCancelled         = 3
	ExitUnexpectedFailure = 4
)

// ClassifyExitCode maps an error returned by Execute to the §6 exit code
// table. A nil err is ExitSuccess. Errors cobra itself returns for
// malformed flags (before any RunE runs) fall through to
// ExitUnexpectedFailure, same as any other error this package did not
// anticipate — ErrInvalidArgument is reserved for configuration values the
// engine itself rejects (e.g. concurrency out of range).
func ClassifyExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrScanPathNotFound):
		return ExitScanPathNotFound
	case errors.Is(err, ErrInvalidArgument):
		return ExitInvalidArgument
	case errors.Is(err, scanexecutor.ErrCancelled):
		return ExitCancelled
	default:
		return ExitUnexpectedFailure
	}
}
