// Package paths resolves the platform-specific directories the launcher
// writes to. Only launcher diagnostics live here; analysis data always stays
// in the workspace directory next to the scripts.
package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const appDir = "packhero"

// LogDir returns the directory launcher logs are written to.
//
// The PACKHERO_LOG_DIR environment variable overrides the platform default.
// Defaults:
//   - Linux:   ~/.local/state/packhero/logs
//   - macOS:   ~/Library/Application Support/packhero/logs
//   - Windows: %LOCALAPPDATA%\packhero\logs
func LogDir() string {
	if dir := os.Getenv("PACKHERO_LOG_DIR"); dir != "" {
		return dir
	}
	return filepath.Join(xdg.StateHome, appDir, "logs")
}

// LogFile returns the path of the launcher's rotating log file.
func LogFile() string {
	return filepath.Join(LogDir(), "packhero.log")
}
