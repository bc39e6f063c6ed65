package runtime

import (
	"context"
	"io"
)

// BindMount maps a single host path into the instance.
type BindMount struct {
	Source   string
	Target   string
	ReadOnly bool
}

// BuildSpec defines the parameters for building the environment image.
type BuildSpec struct {
	Tag        string
	ContextDir string
	Dockerfile string
	NoCache    bool
	// Output receives the build progress stream. A nil Output discards it.
	Output io.Writer
}

// RunSpec defines the parameters for starting the instance.
type RunSpec struct {
	Name       string
	Image      string
	Mounts     []BindMount
	EnvVars    []string
	WorkingDir string
	AutoRemove bool
	// Interactive attaches the calling terminal to the instance's primary
	// process. Stdin, Stdout and Stderr default to the process streams.
	Interactive bool
	Stdin       io.Reader
	Stdout      io.Writer
	Stderr      io.Writer
}

// InstanceState reports whether a named instance exists and is running.
type InstanceState int

const (
	StateNotCreated InstanceState = iota
	StateStopped
	StateRunning
)

func (s InstanceState) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return "not created"
	}
}

// ContainerRuntime defines the contract for container operations.
type ContainerRuntime interface {
	// RemoveContainer force-removes the named instance. Removing an instance
	// that does not exist is not an error.
	RemoveContainer(ctx context.Context, name string) error

	// BuildImage builds an image from spec.ContextDir and tags it with spec.Tag.
	BuildImage(ctx context.Context, spec BuildSpec) error

	// RunContainer creates and starts the named instance, blocks until its
	// primary process exits, and returns that process's exit status.
	RunContainer(ctx context.Context, spec RunSpec) (int, error)

	// ContainerState inspects the named instance.
	ContainerState(ctx context.Context, name string) (InstanceState, error)

	// ImagePresent reports whether the image ref exists locally.
	ImagePresent(ctx context.Context, ref string) (bool, error)

	// RemoveImage removes the named image. A missing image is not an error.
	RemoveImage(ctx context.Context, ref string) error
}
