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

// BuildStep rebuilds the environment image before every session so the
// instance always starts from the current build specification.
type BuildStep struct {
	runtime  runtime.ContainerRuntime
	resolved *config.Resolved
	noCache  bool
	isDryRun bool
}

// NewBuildStep creates a new image build step.
func NewBuildStep(rt runtime.ContainerRuntime, resolved *config.Resolved, noCache, isDryRun bool) *BuildStep {
	return &BuildStep{
		runtime:  rt,
		resolved: resolved,
		noCache:  noCache,
		isDryRun: isDryRun,
	}
}

// Name returns the name of the step.
func (s *BuildStep) Name() string {
	return "build-image"
}

// Execute builds the environment image. A build failure is fatal and carries
// the build's own exit status up to the process exit.
func (s *BuildStep) Execute(ctx context.Context, record *SessionRecord) error {
	image := s.resolved.Env.Spec.Image

	if s.isDryRun {
		fmt.Printf("%s🔍 DRY RUN: Would build image '%s' from %s (dockerfile: %s)%s\n",
			ColorYellow, image.Name, s.resolved.ContextDir, image.Dockerfile, ColorReset)
		fmt.Printf("%s✅ Build simulation completed successfully%s\n", ColorGreen, ColorReset)
		return nil
	}

	spec := runtime.BuildSpec{
		Tag:        image.Name,
		ContextDir: s.resolved.ContextDir,
		Dockerfile: image.Dockerfile,
		NoCache:    s.noCache || image.NoCache,
		Output:     os.Stdout,
	}

	if err := s.runtime.BuildImage(ctx, spec); err != nil {
		return launcherrors.NewBuildError(
			fmt.Sprintf("Failed to build environment image '%s'", image.Name),
			err.Error(),
			fmt.Sprintf("Check the %s in %s and rerun.", image.Dockerfile, s.resolved.ContextDir),
			err,
		)
	}

	fmt.Printf("%s✅ Environment image built: %s%s\n", ColorGreen, image.Name, ColorReset)
	slog.Info("Image build finished", "tag", image.Name)
	return nil
}
