// Package cli wires the scanner111 command tree: a persistent --config flag
// locating the configuration directory, and the scan/version subcommands
// that exercise the engine (§6 CLI surface — specified only for the command
// the core consumes; argument parsing itself carries no domain logic).
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version is set by goreleaser via ldflags.
	Version = "dev"
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "scanner111",
	Short: "Crash log analysis for Bethesda-engine games",
	Long: `scanner111 scans Buffout 4 / Crash Logger SSE crash logs and writes a
Markdown analysis report next to each log it can read.

  scanner111 scan --scan-path ./crash-logs
  scanner111 scan ./crash-logs --fcx-mode --show-fid-values
  scanner111 version`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the command tree and returns the error RunE produced, if
// any, so cmd/scanner111 can map it to an exit code (§6 exit codes) and
// print it itself.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "configuration directory (default: walk up from cwd for .scanner111)")
	rootCmd.SetVersionTemplate(fmt.Sprintf("scanner111 version %s\n", Version))
}
