package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"packhero/internal/config"
	launcherrors "packhero/internal/errors"
	"packhero/pkg/runtime"
)

// RunStep starts the interactive instance and blocks until the session ends.
// The inner session's exit status is recorded but never turns into a launcher
// failure; only failing to create or start the instance does.
type RunStep struct {
	runtime  runtime.ContainerRuntime
	resolved *config.Resolved
	isDryRun bool
}

// NewRunStep creates a new interactive session step.
func NewRunStep(rt runtime.ContainerRuntime, resolved *config.Resolved, isDryRun bool) *RunStep {
	return &RunStep{
		runtime:  rt,
		resolved: resolved,
		isDryRun: isDryRun,
	}
}

// Name returns the name of the step.
func (s *RunStep) Name() string {
	return "run-session"
}

// mounts assembles the session's bind mounts: the workspace read-write first,
// then every script read-only, in definition order.
func (s *RunStep) mounts() []runtime.BindMount {
	mounts := []runtime.BindMount{{
		Source: s.resolved.WorkspaceDir,
		Target: s.resolved.Env.Spec.Workspace.Target,
	}}

	for _, script := range s.resolved.Scripts {
		mounts = append(mounts, runtime.BindMount{
			Source:   script.Source,
			Target:   script.Target,
			ReadOnly: true,
		})
	}
	return mounts
}

// Execute runs the interactive session in the foreground.
func (s *RunStep) Execute(ctx context.Context, record *SessionRecord) error {
	instance := s.resolved.Env.Spec.Instance
	imageName := s.resolved.Env.Spec.Image.Name

	if s.isDryRun {
		fmt.Printf("%s🔍 DRY RUN: Would start interactive instance '%s' from image '%s'%s\n",
			ColorYellow, instance.Name, imageName, ColorReset)
		for _, m := range s.mounts() {
			mode := "rw"
			if m.ReadOnly {
				mode = "ro"
			}
			fmt.Printf("%s🔍 DRY RUN: Would mount %s -> %s (%s)%s\n", ColorYellow, m.Source, m.Target, mode, ColorReset)
		}
		fmt.Printf("%s🔍 DRY RUN: Would set working directory to %s%s\n", ColorYellow, instance.WorkingDir, ColorReset)
		fmt.Printf("%s✅ Session simulation completed successfully%s\n", ColorGreen, ColorReset)
		return nil
	}

	s.warnMissingScripts()

	fmt.Printf("%s🚀 Entering isolated session (exit the shell to leave)%s\n", ColorCyan, ColorReset)

	exitCode, err := s.runtime.RunContainer(ctx, runtime.RunSpec{
		Name:        instance.Name,
		Image:       imageName,
		Mounts:      s.mounts(),
		WorkingDir:  instance.WorkingDir,
		AutoRemove:  instance.AutoRemove,
		Interactive: true,
	})
	if err != nil {
		return launcherrors.NewSessionError(
			fmt.Sprintf("Failed to run instance '%s'", instance.Name),
			err.Error(),
			"Check the Docker daemon logs; another container may still hold the instance name.",
			err,
		)
	}

	record.ExitCode = exitCode
	if exitCode != 0 {
		fmt.Printf("%s⚠️  Session ended with exit code %d%s\n", ColorYellow, exitCode, ColorReset)
	}
	slog.Info("Isolated session ended", "name", instance.Name, "exitCode", exitCode)
	return nil
}

// warnMissingScripts flags script mounts whose host file is absent. A missing
// source would be bind-mounted into the instance as an empty directory.
func (s *RunStep) warnMissingScripts() {
	for _, script := range s.resolved.Scripts {
		if _, err := os.Stat(script.Source); err != nil {
			fmt.Printf("%s⚠️  Script not found on host: %s%s\n", ColorYellow, script.Source, ColorReset)
			slog.Warn("Script mount source missing", "path", script.Source)
		}
	}
}
