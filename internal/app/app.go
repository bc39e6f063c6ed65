package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"packhero/internal/config"
	launcherrors "packhero/internal/errors"
	dockerruntime "packhero/internal/runtime"
	"packhero/pkg/environment"
	"packhero/pkg/runtime"
)

const (
	// Color codes for console output
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorPurple = "\033[35m"
	ColorCyan   = "\033[36m"
	ColorWhite  = "\033[37m"
)

// LaunchOptions configures a single run of the launch pipeline.
type LaunchOptions struct {
	// File is an explicit environment definition. Empty means discovery:
	// packhero.yaml in the current directory when present, the built-in
	// defaults otherwise.
	File    string
	DryRun  bool
	NoCache bool

	// LauncherPath overrides the self-resolved launcher location. Tests use it.
	LauncherPath string
	// Runtime overrides the Docker-backed runtime. Tests inject a mock.
	Runtime runtime.ContainerRuntime
}

// Launch orchestrates the full environment start: prepare the workspace,
// remove any stale instance, rebuild the image and run the interactive
// session in the foreground. The pipeline halts at the first fatal step.
func Launch(opts LaunchOptions) error {
	ctx := context.Background()

	resolved, envFile, err := resolveEnvironment(opts.File, opts.LauncherPath)
	if err != nil {
		return err
	}
	env := resolved.Env

	slog.Info("Starting launch pipeline", "instance", env.Spec.Instance.Name, "image", env.Spec.Image.Name, "dryRun", opts.DryRun)

	fmt.Printf("%s🔒 PackHero isolated environment%s\n", ColorBlue, ColorReset)
	if envFile != "" {
		fmt.Printf("   Definition: %s\n", envFile)
	}
	fmt.Printf("   Workspace:  %s\n", resolved.WorkspaceDir)
	fmt.Println()

	if opts.DryRun {
		fmt.Printf("%s🔍 DRY RUN MODE - No actual changes will be made%s\n", ColorYellow, ColorReset)
		fmt.Println()
	}

	rt, err := selectRuntime(opts.Runtime, opts.DryRun)
	if err != nil {
		return err
	}

	record := newRecord(uuid.New().String(), env.Spec.Instance.Name, env.Spec.Image.Name, envFile)

	steps := []Step{
		NewWorkspaceStep(resolved.WorkspaceDir, opts.DryRun),
		NewRemoveStep(rt, env.Spec.Instance.Name, opts.DryRun),
		NewBuildStep(rt, resolved, opts.NoCache, opts.DryRun),
		NewRunStep(rt, resolved, opts.DryRun),
	}

	for i, step := range steps {
		fmt.Printf("%s🚧 Step %d/%d: %s%s\n", ColorCyan, i+1, len(steps), stepTitle(step.Name()), ColorReset)
		if err := step.Execute(ctx, record); err != nil {
			return err
		}

		record.LastStep = step.Name()
		if !opts.DryRun {
			saveRecord(record, resolved.WorkspaceDir)
		}
		fmt.Println()
	}

	// The closing message is unconditional: the inner session's exit status
	// never turns a completed launch into a failure.
	if opts.DryRun {
		fmt.Printf("%s🎉 DRY RUN COMPLETED - All steps simulated successfully!%s\n", ColorGreen, ColorReset)
		fmt.Printf("%sNo instance was started and nothing was written.%s\n", ColorYellow, ColorReset)
	} else {
		fmt.Printf("%s🎉 PackHero environment exited.%s\n", ColorGreen, ColorReset)
		fmt.Printf("%s✨ Workspace data persists in %s%s\n", ColorWhite, resolved.WorkspaceDir, ColorReset)
	}

	slog.Info("Launch pipeline completed", "instance", env.Spec.Instance.Name, "exitCode", record.ExitCode, "dryRun", opts.DryRun)
	return nil
}

// resolveEnvironment loads the environment definition and resolves its host
// paths. An explicit file must exist; otherwise packhero.yaml is discovered
// in the current directory and the built-in defaults cover the rest.
func resolveEnvironment(file, launcherPath string) (*config.Resolved, string, error) {
	workDir, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("failed to determine current directory: %w", err)
	}

	var env *environment.Environment
	var envFile string
	if file != "" {
		env, err = config.Load(file)
		envFile = file
	} else {
		env, envFile, err = config.Discover(workDir)
	}
	if err != nil {
		return nil, "", launcherrors.NewConfigError(
			"Invalid environment definition",
			err.Error(),
			"Fix the environment file (or pass a valid --file) and rerun.",
			err,
		)
	}

	if launcherPath == "" {
		launcherPath, err = config.LauncherPath()
		if err != nil {
			return nil, "", launcherrors.NewConfigError(
				"Cannot locate the launcher binary",
				err.Error(),
				"Invoke the launcher through a regular filesystem path.",
				err,
			)
		}
	}

	resolved, err := config.Resolve(env, launcherPath, workDir)
	if err != nil {
		return nil, "", launcherrors.NewConfigError("Invalid environment definition", err.Error(), "", err)
	}

	return resolved, envFile, nil
}

// selectRuntime returns the injected runtime when one is given, dials Docker
// otherwise. Dry runs without an injected runtime never dial the daemon.
func selectRuntime(injected runtime.ContainerRuntime, isDryRun bool) (runtime.ContainerRuntime, error) {
	if injected != nil {
		return injected, nil
	}
	if isDryRun {
		return nil, nil
	}

	dockerRt, err := dockerruntime.NewDockerRuntime()
	if err != nil {
		return nil, launcherrors.NewDaemonError(
			"Cannot reach the Docker daemon",
			err.Error(),
			"Start Docker (or point DOCKER_HOST at a reachable daemon) and rerun.",
			err,
		)
	}
	return dockerRt, nil
}

// saveRecord persists the record without letting bookkeeping failures touch
// the pipeline outcome.
func saveRecord(record *SessionRecord, workspaceDir string) {
	if err := record.save(workspaceDir); err != nil {
		slog.Debug("Could not write session record", "error", err)
	}
}

// stepTitle maps a step's identifier to its banner line.
func stepTitle(name string) string {
	switch name {
	case "prepare-workspace":
		return "Preparing workspace"
	case "remove-stale-instance":
		return "Removing stale instance"
	case "build-image":
		return "Building environment image"
	case "run-session":
		return "Starting isolated session"
	default:
		return name
	}
}
