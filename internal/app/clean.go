package app

import (
	"context"
	"fmt"
	"log/slog"

	launcherrors "packhero/internal/errors"
	"packhero/pkg/runtime"
)

// CleanOptions configures the cleanup command.
type CleanOptions struct {
	File         string
	RemoveImage  bool
	LauncherPath string
	Runtime      runtime.ContainerRuntime
}

// Clean force-removes the instance and, when asked, the environment image.
// The workspace directory is never touched.
func Clean(opts CleanOptions) error {
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

	if err := rt.RemoveContainer(ctx, env.Spec.Instance.Name); err != nil {
		return launcherrors.NewRuntimeError(
			fmt.Sprintf("Failed to remove instance '%s'", env.Spec.Instance.Name),
			err.Error(),
			"Stop the instance manually and retry.",
			err,
		)
	}
	fmt.Printf("%s✅ No instance named '%s' remains%s\n", ColorGreen, env.Spec.Instance.Name, ColorReset)

	if opts.RemoveImage {
		if err := rt.RemoveImage(ctx, env.Spec.Image.Name); err != nil {
			return launcherrors.NewRuntimeError(
				fmt.Sprintf("Failed to remove image '%s'", env.Spec.Image.Name),
				err.Error(),
				"Remove containers still using the image and retry.",
				err,
			)
		}
		fmt.Printf("%s✅ Image '%s' no longer present%s\n", ColorGreen, env.Spec.Image.Name, ColorReset)
	}

	fmt.Printf("%s✨ Workspace data preserved at %s%s\n", ColorWhite, resolved.WorkspaceDir, ColorReset)
	slog.Info("Cleanup finished", "instance", env.Spec.Instance.Name, "imageRemoved", opts.RemoveImage)
	return nil
}
