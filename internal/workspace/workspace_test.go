package workspace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDeriveDir(t *testing.T) {
	tests := []struct {
		name         string
		launcherPath string
		expected     string
	}{
		{
			name:         "launcher in a scripts directory",
			launcherPath: "/opt/packhero/scripts/packhero",
			expected:     "/opt/packhero/workspace",
		},
		{
			name:         "launcher directly under root",
			launcherPath: "/tools/packhero",
			expected:     "/workspace",
		},
		{
			name:         "deeply nested install",
			launcherPath: "/home/analyst/lab/malware/scripts/packhero",
			expected:     "/home/analyst/lab/malware/workspace",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveDir(tt.launcherPath)
			if got != tt.expected {
				t.Errorf("DeriveDir(%q) = %q, expected %q", tt.launcherPath, got, tt.expected)
			}
		})
	}
}

func TestDeriveDir_IsSiblingOfLauncherDir(t *testing.T) {
	launcherPath := "/a/b/scripts/packhero"
	derived := DeriveDir(launcherPath)

	if filepath.Dir(derived) != filepath.Dir(filepath.Dir(launcherPath)) {
		t.Errorf("Expected workspace to be a sibling of the launcher's directory, got %q", derived)
	}
	if filepath.Base(derived) != DirName {
		t.Errorf("Expected workspace directory name %q, got %q", DirName, filepath.Base(derived))
	}
}

func TestEnsure_CreatesNestedDirectories(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "lab", "workspace")

	if err := Ensure(dir); err != nil {
		t.Fatalf("Ensure failed: %s", err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("Expected directory to exist: %s", err)
	}
	if !info.IsDir() {
		t.Errorf("Expected %s to be a directory", dir)
	}
}

func TestEnsure_IsIdempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "workspace")

	if err := Ensure(dir); err != nil {
		t.Fatalf("First Ensure failed: %s", err)
	}

	// Existing content must survive a second call.
	marker := filepath.Join(dir, "samples.txt")
	if err := os.WriteFile(marker, []byte("kept"), 0644); err != nil {
		t.Fatalf("Failed to write marker file: %s", err)
	}

	if err := Ensure(dir); err != nil {
		t.Fatalf("Second Ensure failed: %s", err)
	}

	data, err := os.ReadFile(marker)
	if err != nil {
		t.Fatalf("Expected marker file to survive: %s", err)
	}
	if string(data) != "kept" {
		t.Errorf("Marker content changed: %q", data)
	}
}

func TestEnsure_FailsWhenPathIsAFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "workspace")
	if err := os.WriteFile(path, []byte("not a directory"), 0644); err != nil {
		t.Fatalf("Failed to create blocking file: %s", err)
	}

	err := Ensure(path)
	if err == nil {
		t.Fatal("Expected error when the workspace path is a regular file, got nil")
	}
	if !strings.Contains(err.Error(), "failed to create workspace directory") {
		t.Errorf("Expected wrapped creation error, got: %v", err)
	}
}

func TestSize(t *testing.T) {
	dir := t.TempDir()

	if err := os.WriteFile(filepath.Join(dir, "a.bin"), make([]byte, 100), 0644); err != nil {
		t.Fatal(err)
	}
	subDir := filepath.Join(dir, "organized")
	if err := os.MkdirAll(subDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(subDir, "b.bin"), make([]byte, 150), 0644); err != nil {
		t.Fatal(err)
	}

	size, err := Size(dir)
	if err != nil {
		t.Fatalf("Size failed: %s", err)
	}
	if size != 250 {
		t.Errorf("Expected size 250, got %d", size)
	}
}

func TestSize_MissingDirectory(t *testing.T) {
	_, err := Size(filepath.Join(t.TempDir(), "absent"))
	if err == nil {
		t.Fatal("Expected error for a missing directory, got nil")
	}
}
