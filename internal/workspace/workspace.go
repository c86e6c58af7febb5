// Package workspace locates the Scanner111 configuration directory: the
// ".scanner111" directory holding scanner111.yaml (the run configuration,
// §6) and the per-game documents ConfigurationCache loads (§4.4).
package workspace

import (
	"errors"
	"os"
	"path/filepath"
)

// ConfigDirName is the directory name Find looks for, analogous to how
// per-project tool configuration directories are conventionally named.
const ConfigDirName = ".scanner111"

// ErrNoConfigDir is returned by Find when no ConfigDirName directory is
// found walking up from the current directory.
var ErrNoConfigDir = errors.New("no .scanner111 configuration directory found")

// Find walks up from the current working directory looking for a
// ConfigDirName directory, the way version-control and workspace tools
// locate their root.
func Find() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return FindFrom(dir)
}

// FindFrom walks up from start looking for a ConfigDirName directory.
func FindFrom(start string) (string, error) {
	dir := start
	for {
		candidate := filepath.Join(dir, ConfigDirName)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNoConfigDir
		}
		dir = parent
	}
}

// RunConfigPath returns the scanner111.yaml path within a configuration
// directory (§6 recognized configuration options).
func RunConfigPath(configDir string) string {
	return filepath.Join(configDir, "scanner111.yaml")
}

// UnsolvedDir returns the sibling Unsolved/ directory ScanExecutor moves
// unparseable logs into when move_unsolved_logs is set (§4.6 step 5).
func UnsolvedDir(scanPath string) string {
	return filepath.Join(scanPath, "Unsolved")
}
