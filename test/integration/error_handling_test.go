package integration

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// buildLauncher compiles the packhero binary into dir and returns its path.
func buildLauncher(t *testing.T, dir string) string {
	t.Helper()

	originalDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to determine working directory: %v", err)
	}

	binaryPath := filepath.Join(dir, "packhero")
	buildCmd := exec.Command("go", "build", "-o", binaryPath, "../../cmd/packhero")
	buildCmd.Dir = originalDir
	if out, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build CLI binary: %v\n%s", err, out)
	}
	return binaryPath
}

func TestCLI_ErrorHandling_MissingEnvironmentFile(t *testing.T) {
	tempDir := t.TempDir()
	binaryPath := buildLauncher(t, tempDir)

	// An explicit --file that does not exist must fail before any Docker
	// operation, so this needs no daemon.
	cmd := exec.Command(binaryPath, "up", "-f", "nonexistent.yaml")
	cmd.Dir = tempDir
	cmd.Env = append(os.Environ(), "PACKHERO_LOG_DIR="+tempDir)
	output, err := cmd.CombinedOutput()

	if err == nil {
		t.Error("Expected command to fail but it succeeded")
	}

	outputStr := string(output)
	expectedParts := []string{
		"Error:",
		"Invalid environment definition",
		"Cause:",
		"environment file not found",
		"Suggestion:",
	}
	for _, part := range expectedParts {
		if !strings.Contains(outputStr, part) {
			t.Errorf("Expected output to contain %q, but got: %s", part, outputStr)
		}
	}

	// The structured log entry lands in the overridden log directory.
	logFile := filepath.Join(tempDir, "packhero.log")
	if _, err := os.Stat(logFile); os.IsNotExist(err) {
		t.Error("Expected packhero.log to be created")
	}
}

func TestCLI_ErrorHandling_InvalidEnvironmentFile(t *testing.T) {
	tempDir := t.TempDir()
	binaryPath := buildLauncher(t, tempDir)

	invalidYAML := `invalid: yaml: content:
  - this is not valid
    yaml: structure
      with: improper
    indentation`
	if err := os.WriteFile(filepath.Join(tempDir, "packhero.yaml"), []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("Failed to create invalid environment file: %v", err)
	}

	cmd := exec.Command(binaryPath, "up")
	cmd.Dir = tempDir
	cmd.Env = append(os.Environ(), "PACKHERO_LOG_DIR="+tempDir)
	output, err := cmd.CombinedOutput()

	if err == nil {
		t.Error("Expected command to fail but it succeeded")
	}

	outputStr := string(output)
	if !strings.Contains(outputStr, "Error:") {
		t.Errorf("Expected error output, but got: %s", outputStr)
	}

	logFile := filepath.Join(tempDir, "packhero.log")
	if _, err := os.Stat(logFile); os.IsNotExist(err) {
		t.Error("Expected packhero.log to be created")
	}
}

func TestCLI_ErrorHandling_WrongKind(t *testing.T) {
	tempDir := t.TempDir()
	binaryPath := buildLauncher(t, tempDir)

	wrongKind := `apiVersion: packhero.dev/v1
kind: Blueprint
metadata:
  name: wrong
`
	if err := os.WriteFile(filepath.Join(tempDir, "packhero.yaml"), []byte(wrongKind), 0644); err != nil {
		t.Fatalf("Failed to create environment file: %v", err)
	}

	cmd := exec.Command(binaryPath, "up")
	cmd.Dir = tempDir
	cmd.Env = append(os.Environ(), "PACKHERO_LOG_DIR="+tempDir)
	output, err := cmd.CombinedOutput()

	if err == nil {
		t.Error("Expected command to fail but it succeeded")
	}

	outputStr := string(output)
	if !strings.Contains(outputStr, "Error:") {
		t.Errorf("Expected error output, but got: %s", outputStr)
	}
	if !strings.Contains(outputStr, "must be 'Environment'") {
		t.Errorf("Expected the validation message, but got: %s", outputStr)
	}
}

func TestCLI_ErrorHandling_InvalidFlag(t *testing.T) {
	tempDir := t.TempDir()
	binaryPath := buildLauncher(t, tempDir)

	cmd := exec.Command(binaryPath, "up", "--invalid-flag")
	output, err := cmd.CombinedOutput()

	if err == nil {
		t.Error("Expected command to fail but it succeeded")
	}

	outputStr := string(output)
	if !strings.Contains(outputStr, "unknown flag") {
		t.Errorf("Expected error output about unknown flag, but got: %s", outputStr)
	}
}

func TestCLI_SuccessfulExecution_DryRun(t *testing.T) {
	tempDir := t.TempDir()
	binaryPath := buildLauncher(t, tempDir)

	// Dry runs never dial the daemon and never touch the filesystem, so the
	// full pipeline succeeds without Docker.
	cmd := exec.Command(binaryPath, "up", "--dry-run")
	cmd.Dir = tempDir
	cmd.Env = append(os.Environ(), "PACKHERO_LOG_DIR="+tempDir)
	output, err := cmd.CombinedOutput()

	outputStr := string(output)
	if err != nil {
		t.Fatalf("Expected dry run to succeed, got %v:\n%s", err, outputStr)
	}

	expectedParts := []string{
		"DRY RUN MODE",
		"Would create workspace directory",
		"Would force-remove stale instance 'packhero-isolated'",
		"Would build image 'packhero-env'",
		"Would start interactive instance 'packhero-isolated'",
		"Would mount",
		"Would set working directory to /workspace",
		"DRY RUN COMPLETED",
	}
	for _, part := range expectedParts {
		if !strings.Contains(outputStr, part) {
			t.Errorf("Expected output to contain %q, but got: %s", part, outputStr)
		}
	}

	// Nothing may be created: the binary sits in tempDir, so the derived
	// workspace would be tempDir's sibling "workspace" directory.
	workspaceDir := filepath.Join(filepath.Dir(tempDir), "workspace")
	if _, err := os.Stat(workspaceDir); !os.IsNotExist(err) {
		t.Errorf("Expected no workspace directory at %s in dry-run mode", workspaceDir)
	}
}

func TestCLI_RootCommandRunsLaunchSequence(t *testing.T) {
	tempDir := t.TempDir()
	binaryPath := buildLauncher(t, tempDir)

	// The zero-argument contract: the bare root command runs the same
	// pipeline as `up`.
	cmd := exec.Command(binaryPath, "--dry-run")
	cmd.Dir = tempDir
	cmd.Env = append(os.Environ(), "PACKHERO_LOG_DIR="+tempDir)
	output, err := cmd.CombinedOutput()

	outputStr := string(output)
	if err != nil {
		t.Fatalf("Expected bare invocation dry run to succeed, got %v:\n%s", err, outputStr)
	}
	if !strings.Contains(outputStr, "DRY RUN COMPLETED") {
		t.Errorf("Expected the launch pipeline output, but got: %s", outputStr)
	}
}
