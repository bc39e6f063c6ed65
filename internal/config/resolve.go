package config

import (
	"fmt"
	"os"
	"path/filepath"

	"packhero/internal/workspace"
	"packhero/pkg/environment"
)

// Resolved is an environment definition with every host path made absolute,
// ready for the pipeline to execute.
type Resolved struct {
	Env          *environment.Environment
	LauncherDir  string
	WorkspaceDir string
	ContextDir   string
	Scripts      []environment.ScriptMount
}

// Resolve computes the absolute host paths for env. launcherPath locates the
// launcher binary itself and anchors relative script sources; workDir is the
// invocation directory and anchors relative build contexts and workspace
// overrides. Resolve touches no files.
func Resolve(env *environment.Environment, launcherPath, workDir string) (*Resolved, error) {
	if env == nil {
		return nil, fmt.Errorf("environment cannot be nil")
	}

	launcherDir := filepath.Dir(launcherPath)

	workspaceDir := env.Spec.Workspace.HostDir
	if workspaceDir == "" {
		workspaceDir = workspace.DeriveDir(launcherPath)
	} else if !filepath.IsAbs(workspaceDir) {
		workspaceDir = filepath.Join(workDir, workspaceDir)
	}

	contextDir := env.Spec.Image.ContextDir
	if !filepath.IsAbs(contextDir) {
		contextDir = filepath.Join(workDir, contextDir)
	}

	scripts := make([]environment.ScriptMount, len(env.Spec.Scripts))
	for i, s := range env.Spec.Scripts {
		source := s.Source
		if !filepath.IsAbs(source) {
			source = filepath.Join(launcherDir, source)
		}
		scripts[i] = environment.ScriptMount{Source: source, Target: s.Target}
	}

	return &Resolved{
		Env:          env,
		LauncherDir:  launcherDir,
		WorkspaceDir: workspaceDir,
		ContextDir:   contextDir,
		Scripts:      scripts,
	}, nil
}

// LauncherPath returns the absolute, symlink-resolved path of the running
// launcher binary.
func LauncherPath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to locate launcher binary: %w", err)
	}

	resolved, err := filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("failed to resolve launcher binary path: %w", err)
	}
	return resolved, nil
}
