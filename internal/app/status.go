package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/docker/go-units"

	launcherrors "packhero/internal/errors"
	"packhero/internal/workspace"
	"packhero/pkg/runtime"
)

// StatusOptions configures the status report.
type StatusOptions struct {
	File         string
	LauncherPath string
	Runtime      runtime.ContainerRuntime
}

// Status reports the instance state, image presence, workspace footprint and
// the last recorded session.
func Status(opts StatusOptions) error {
	ctx := context.Background()

	resolved, _, err := resolveEnvironment(opts.File, opts.LauncherPath)
	if err != nil {
		return err
	}
	env := resolved.Env

	rt, err := selectRuntime(opts.Runtime, false)
	if err != nil {
		return err
	}

	state, err := rt.ContainerState(ctx, env.Spec.Instance.Name)
	if err != nil {
		return launcherrors.NewRuntimeError(
			fmt.Sprintf("Failed to inspect instance '%s'", env.Spec.Instance.Name),
			err.Error(),
			"",
			err,
		)
	}

	present, err := rt.ImagePresent(ctx, env.Spec.Image.Name)
	if err != nil {
		return launcherrors.NewRuntimeError(
			fmt.Sprintf("Failed to inspect image '%s'", env.Spec.Image.Name),
			err.Error(),
			"",
			err,
		)
	}

	fmt.Printf("%s🔒 PackHero environment status%s\n", ColorBlue, ColorReset)
	fmt.Printf("   Instance:  %s (%s)\n", env.Spec.Instance.Name, state)
	if present {
		fmt.Printf("   Image:     %s (built)\n", env.Spec.Image.Name)
	} else {
		fmt.Printf("   Image:     %s (not built)\n", env.Spec.Image.Name)
	}

	if size, sizeErr := workspace.Size(resolved.WorkspaceDir); sizeErr == nil {
		fmt.Printf("   Workspace: %s (%s)\n", resolved.WorkspaceDir, units.HumanSize(float64(size)))
	} else {
		fmt.Printf("   Workspace: %s (not created)\n", resolved.WorkspaceDir)
	}

	record, err := loadRecord(resolved.WorkspaceDir)
	if err != nil {
		slog.Debug("Could not read session record", "error", err)
		return nil
	}
	if record != nil {
		fmt.Printf("   Last run:  %s (step: %s, exit code: %d)\n",
			record.StartedAt.Format(time.RFC3339), record.LastStep, record.ExitCode)
	}

	return nil
}
