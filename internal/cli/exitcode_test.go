package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/evildarkarchon/scanner111/internal/scanexecutor"
)

func TestClassifyExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"scan path not found", fmt.Errorf("%w: /nope", ErrScanPathNotFound), ExitScanPathNotFound},
		{"invalid argument", fmt.Errorf("%w: max_concurrent out of range", ErrInvalidArgument), ExitInvalidArgument},
		{"cancelled", fmt.Errorf("batch: %w", scanexecutor.ErrCancelled), ExitCancelled},
		{"unexpected", errors.New("boom"), ExitUnexpectedFailure},
		{"config missing", ErrConfigMissing, ExitUnexpectedFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyExitCode(tt.err); got != tt.want {
				t.Errorf("ClassifyExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
