package app

import (
	"context"
	"fmt"
	"log/slog"

	"packhero/pkg/runtime"
)

// RemoveStep force-removes any stale instance a previous session left behind.
// The runtime already treats a missing instance as success; any other removal
// failure is surfaced as a warning without halting the pipeline, so the
// launch itself stays visible as the real failure if the name is still taken.
type RemoveStep struct {
	runtime      runtime.ContainerRuntime
	instanceName string
	isDryRun     bool
}

// NewRemoveStep creates a new stale-instance removal step.
func NewRemoveStep(rt runtime.ContainerRuntime, instanceName string, isDryRun bool) *RemoveStep {
	return &RemoveStep{
		runtime:      rt,
		instanceName: instanceName,
		isDryRun:     isDryRun,
	}
}

// Name returns the name of the step.
func (s *RemoveStep) Name() string {
	return "remove-stale-instance"
}

// Execute removes the named instance best-effort.
func (s *RemoveStep) Execute(ctx context.Context, record *SessionRecord) error {
	if s.isDryRun {
		fmt.Printf("%s🔍 DRY RUN: Would force-remove stale instance '%s'%s\n", ColorYellow, s.instanceName, ColorReset)
		fmt.Printf("%s✅ Removal simulation completed successfully%s\n", ColorGreen, ColorReset)
		return nil
	}

	if err := s.runtime.RemoveContainer(ctx, s.instanceName); err != nil {
		fmt.Printf("%s⚠️  Could not remove stale instance '%s': %v%s\n", ColorYellow, s.instanceName, err, ColorReset)
		slog.Warn("Stale instance removal failed", "name", s.instanceName, "error", err)
		return nil
	}

	fmt.Printf("%s✅ No stale instance in the way%s\n", ColorGreen, ColorReset)
	slog.Info("Stale instance cleanup finished", "name", s.instanceName)
	return nil
}
