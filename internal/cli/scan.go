package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/evildarkarchon/scanner111/internal/display"
	"github.com/evildarkarchon/scanner111/internal/formid"
	"github.com/evildarkarchon/scanner111/internal/gameconfig"
	"github.com/evildarkarchon/scanner111/internal/orchestrator"
	"github.com/evildarkarchon/scanner111/internal/scanexecutor"
	"github.com/evildarkarchon/scanner111/internal/workspace"
	"github.com/spf13/cobra"
)

// ErrScanPathNotFound maps to exit code 1 (§6 exit codes).
var ErrScanPathNotFound = errors.New("scan path not found")

// ErrConfigMissing maps to exit code 4 (§7 ConfigurationMissing).
var ErrConfigMissing = errors.New("no .scanner111 configuration directory found and --config was not given")

// ErrInvalidArgument maps to exit code 2 (§6 exit codes).
var ErrInvalidArgument = errors.New("invalid argument")

var (
	scanPathFlag     string
	fcxModeFlag      bool
	showFidFlag      bool
	moveUnsolvedFlag bool
	simplifyLogsFlag bool
	concurrencyFlag  int
	quietFlag        bool
)

var scanCmd = &cobra.Command{
	Use:   "scan [scan-path]",
	Short: "Scan a directory of crash logs and write analysis reports",
	Long: `scan discovers crash-*.log and crash-*.txt files directly under
scan-path, analyzes each one, and writes a "<name>-AUTOSCAN.md" report
next to it.

The scan path may be given positionally or via --scan-path; the flag wins
if both are set.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		scanPath := scanPathFlag
		if scanPath == "" && len(args) == 1 {
			scanPath = args[0]
		}

		configDir, err := resolveConfigDir()
		if err != nil {
			return err
		}

		runCfg, err := gameconfig.LoadRunConfig(configDir)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrConfigMissing, err)
		}
		applyScanFlags(cmd, runCfg, scanPath)

		if err := runCfg.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}

		if info, statErr := os.Stat(runCfg.ScanPath); statErr != nil || !info.IsDir() {
			return fmt.Errorf("%w: %s", ErrScanPathNotFound, runCfg.ScanPath)
		}

		games := gameconfig.NewCache(configDir)

		var dbPaths []string
		for _, p := range runCfg.CustomPaths {
			dbPaths = append(dbPaths, p)
		}
		formIDs, err := formid.Open(dbPaths, 8)
		if err != nil {
			return fmt.Errorf("open form id databases: %w", err)
		}
		defer formIDs.Close()

		orch := orchestrator.New(games, formIDs, runCfg.ShowFormIDValues, runCfg.FCXMode).
			WithSimplifyLogs(runCfg.SimplifyLogs)

		disp := display.NewWithOptions(runCfg.Quiet)

		exec := scanexecutor.New(orch, func(logPath string, parsed bool, dur time.Duration, progressErr error) {
			if progressErr != nil {
				disp.LogFailed(logPath, progressErr)
				return
			}
			disp.LogScanned(logPath, parsed, dur)
		})

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		batch, err := exec.Execute(ctx, scanexecutor.Config{
			ScanPath:      runCfg.ScanPath,
			MaxConcurrent: runCfg.MaxConcurrent,
			MoveUnsolved:  runCfg.MoveUnsolvedLogs,
		})
		if err != nil && !errors.Is(err, scanexecutor.ErrCancelled) {
			return err
		}

		disp.Summary(batch.Statistics.Scanned, batch.Statistics.Completed,
			batch.Statistics.Incomplete, batch.Statistics.Failed, batch.Duration)

		if errors.Is(err, scanexecutor.ErrCancelled) {
			return err
		}
		return nil
	},
}

func init() {
	scanCmd.Flags().StringVar(&scanPathFlag, "scan-path", "", "directory of crash logs to scan")
	scanCmd.Flags().BoolVar(&fcxModeFlag, "fcx-mode", false, "enable file-integrity checking (FCX mode)")
	scanCmd.Flags().BoolVar(&showFidFlag, "show-fid-values", false, "resolve FormID values against the configured databases")
	scanCmd.Flags().BoolVar(&moveUnsolvedFlag, "move-unsolved", false, "move unparseable logs into a sibling Unsolved/ directory")
	scanCmd.Flags().BoolVar(&simplifyLogsFlag, "simplify-logs", false, "abbreviate long per-item listings in the report")
	scanCmd.Flags().IntVar(&concurrencyFlag, "concurrency", 0, "max concurrent log analyses (1-100, default from configuration)")
	scanCmd.Flags().BoolVar(&quietFlag, "quiet", false, "suppress per-log progress output")
	rootCmd.AddCommand(scanCmd)
}

// applyScanFlags overlays CLI flags on top of the loaded RunConfig; an
// explicitly set flag always wins over the configuration document.
func applyScanFlags(cmd *cobra.Command, cfg *gameconfig.RunConfig, scanPath string) {
	if scanPath != "" {
		cfg.ScanPath = scanPath
	}
	if cmd.Flags().Changed("fcx-mode") {
		cfg.FCXMode = fcxModeFlag
	}
	if cmd.Flags().Changed("show-fid-values") {
		cfg.ShowFormIDValues = showFidFlag
	}
	if cmd.Flags().Changed("move-unsolved") {
		cfg.MoveUnsolvedLogs = moveUnsolvedFlag
	}
	if cmd.Flags().Changed("simplify-logs") {
		cfg.SimplifyLogs = simplifyLogsFlag
	}
	if cmd.Flags().Changed("concurrency") {
		cfg.MaxConcurrent = concurrencyFlag
	}
	if cmd.Flags().Changed("quiet") {
		cfg.Quiet = quietFlag
	}
}

// resolveConfigDir honors --config when given, otherwise walks up from cwd
// looking for a .scanner111 directory (§6 Environment: configuration
// directory location).
func resolveConfigDir() (string, error) {
	if cfgFile != "" {
		return filepath.Clean(cfgFile), nil
	}
	dir, err := workspace.Find()
	if err != nil {
		return "", fmt.Errorf("%w", ErrConfigMissing)
	}
	return dir, nil
}
