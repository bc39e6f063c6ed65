// Package workspace manages the host-side data directory shared with the
// isolated environment. The directory is a sibling of the launcher's own
// directory and persists across sessions.
package workspace

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// DirName is the workspace directory's name next to the launcher's directory.
const DirName = "workspace"

// DeriveDir returns the workspace directory for a launcher located at
// launcherPath: the parent of the launcher's directory joined with
// "workspace". A launcher at /a/b/scripts/packhero maps to /a/b/workspace.
func DeriveDir(launcherPath string) string {
	scriptDir := filepath.Dir(launcherPath)
	return filepath.Join(filepath.Dir(scriptDir), DirName)
}

// Ensure creates dir recursively if it is absent. An already existing
// directory satisfies the call.
func Ensure(dir string) error {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create workspace directory %s: %w", dir, err)
	}
	return nil
}

// Size walks dir and sums the sizes of its regular files.
func Size(dir string) (int64, error) {
	var total int64
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		total += info.Size()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to measure workspace %s: %w", dir, err)
	}
	return total, nil
}
