package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"packhero/internal/app"
	launcherrors "packhero/internal/errors"
)

// version is set at build time via ldflags
var version = "dev"

var rootCmd = &cobra.Command{
	Use:     "packhero",
	Short:   "PackHero - Isolated analysis environment launcher",
	Version: version,
	Long: `PackHero launches the isolated Docker environment used to prepare malware
datasets. Invoked without arguments it prepares the workspace, rebuilds the
environment image and drops you into an interactive session with the
workspace and helper scripts mounted.`,
	Run: func(cmd *cobra.Command, args []string) {
		runLaunch(cmd)
	},
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Launch the isolated environment",
	Long: `Up executes the complete launch sequence: it prepares the host workspace,
removes any stale instance, rebuilds the environment image and starts an
interactive foreground session. The instance removes itself when you exit.`,
	Run: func(cmd *cobra.Command, args []string) {
		runLaunch(cmd)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show environment state",
	Long: `Status reports whether the instance is running, whether the environment
image is built, where the workspace lives and what the last session did.`,
	Run: func(cmd *cobra.Command, args []string) {
		file, _ := cmd.Flags().GetString("file")

		if err := app.Status(app.StatusOptions{File: file}); err != nil {
			launcherrors.HandleError(err)
			os.Exit(launcherrors.ExitCode(err))
		}
	},
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the instance and optionally the image",
	Long: `Clean force-removes the named instance. With --image the environment image
is removed as well. The workspace directory and its data are always kept.`,
	Run: func(cmd *cobra.Command, args []string) {
		file, _ := cmd.Flags().GetString("file")
		removeImage, _ := cmd.Flags().GetBool("image")

		if err := app.Clean(app.CleanOptions{File: file, RemoveImage: removeImage}); err != nil {
			launcherrors.HandleError(err)
			os.Exit(launcherrors.ExitCode(err))
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the launcher version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("packhero %s\n", version)
	},
}

// runLaunch runs the launch pipeline for both the bare root invocation and
// the explicit up subcommand.
func runLaunch(cmd *cobra.Command) {
	file, _ := cmd.Flags().GetString("file")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	noCache, _ := cmd.Flags().GetBool("no-cache")

	if err := app.Launch(app.LaunchOptions{File: file, DryRun: dryRun, NoCache: noCache}); err != nil {
		launcherrors.HandleError(err)
		os.Exit(launcherrors.ExitCode(err))
	}
}

// registerLaunchFlags adds the launch flags shared by the root command and up.
func registerLaunchFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("file", "f", "", "Path to an environment definition YAML (default: packhero.yaml if present)")
	cmd.Flags().Bool("dry-run", false, "Print the planned operations without touching Docker or the filesystem")
	cmd.Flags().Bool("no-cache", false, "Rebuild the environment image without the layer cache")
}

func init() {
	registerLaunchFlags(rootCmd)

	registerLaunchFlags(upCmd)
	rootCmd.AddCommand(upCmd)

	statusCmd.Flags().StringP("file", "f", "", "Path to an environment definition YAML (default: packhero.yaml if present)")
	rootCmd.AddCommand(statusCmd)

	cleanCmd.Flags().StringP("file", "f", "", "Path to an environment definition YAML (default: packhero.yaml if present)")
	cleanCmd.Flags().Bool("image", false, "Also remove the environment image")
	rootCmd.AddCommand(cleanCmd)

	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
