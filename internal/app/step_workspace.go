package app

import (
	"context"
	"fmt"
	"log/slog"

	launcherrors "packhero/internal/errors"
	"packhero/internal/workspace"
)

// WorkspaceStep ensures the host-side workspace directory exists before any
// container operation runs.
type WorkspaceStep struct {
	dir      string
	isDryRun bool
}

// NewWorkspaceStep creates a new workspace preparation step.
func NewWorkspaceStep(dir string, isDryRun bool) *WorkspaceStep {
	return &WorkspaceStep{
		dir:      dir,
		isDryRun: isDryRun,
	}
}

// Name returns the name of the step.
func (s *WorkspaceStep) Name() string {
	return "prepare-workspace"
}

// Execute creates the workspace directory if it is absent. Failure is fatal;
// every later step depends on the directory.
func (s *WorkspaceStep) Execute(ctx context.Context, record *SessionRecord) error {
	if s.isDryRun {
		fmt.Printf("%s🔍 DRY RUN: Would create workspace directory: %s%s\n", ColorYellow, s.dir, ColorReset)
		fmt.Printf("%s✅ Workspace simulation completed successfully%s\n", ColorGreen, ColorReset)
		return nil
	}

	if err := workspace.Ensure(s.dir); err != nil {
		return launcherrors.NewWorkspaceError(
			fmt.Sprintf("Failed to prepare workspace directory %s", s.dir),
			err.Error(),
			"Check that the launcher's parent directory is writable.",
			err,
		)
	}

	fmt.Printf("%s✅ Workspace ready: %s%s\n", ColorGreen, s.dir, ColorReset)
	slog.Info("Workspace prepared", "dir", s.dir)
	return nil
}
