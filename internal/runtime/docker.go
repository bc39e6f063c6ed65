package runtime

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/docker/errdefs"

	"packhero/pkg/runtime"
)

// DockerRuntime implements the ContainerRuntime interface using Docker client.
type DockerRuntime struct {
	client *client.Client
}

// NewDockerRuntime creates a new DockerRuntime instance using client.FromEnv.
func NewDockerRuntime() (*DockerRuntime, error) {
	dockerClient, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create Docker client: %w", err)
	}

	// Check if Docker daemon is accessible
	ctx := context.Background()
	_, err = dockerClient.Ping(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Docker daemon: %w", err)
	}

	return &DockerRuntime{
		client: dockerClient,
	}, nil
}

// RemoveContainer force-removes the named instance. A previous session may
// have left one behind, or none may exist; absence is not an error.
func (d *DockerRuntime) RemoveContainer(ctx context.Context, name string) error {
	slog.Info("Removing instance", "name", name)

	err := d.client.ContainerRemove(ctx, name, container.RemoveOptions{Force: true})
	if err != nil {
		if errdefs.IsNotFound(err) {
			slog.Debug("No instance to remove", "name", name)
			return nil
		}
		return fmt.Errorf("failed to remove instance %s: %w", name, err)
	}

	slog.Info("Removed stale instance", "name", name)
	return nil
}

// ContainerState inspects the named instance and maps the result to the
// running / stopped / not-created tri-state.
func (d *DockerRuntime) ContainerState(ctx context.Context, name string) (runtime.InstanceState, error) {
	inspect, err := d.client.ContainerInspect(ctx, name)
	if err != nil {
		if errdefs.IsNotFound(err) {
			return runtime.StateNotCreated, nil
		}
		return runtime.StateNotCreated, fmt.Errorf("failed to inspect instance %s: %w", name, err)
	}

	if inspect.State != nil && inspect.State.Running {
		return runtime.StateRunning, nil
	}
	return runtime.StateStopped, nil
}

// ImagePresent reports whether the image ref exists locally.
func (d *DockerRuntime) ImagePresent(ctx context.Context, ref string) (bool, error) {
	_, _, err := d.client.ImageInspectWithRaw(ctx, ref)
	if err != nil {
		if errdefs.IsNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to inspect image %s: %w", ref, err)
	}
	return true, nil
}

// RemoveImage removes the named image. A missing image is not an error.
func (d *DockerRuntime) RemoveImage(ctx context.Context, ref string) error {
	slog.Info("Removing image", "image", ref)

	_, err := d.client.ImageRemove(ctx, ref, image.RemoveOptions{PruneChildren: true})
	if err != nil {
		if errdefs.IsNotFound(err) {
			slog.Debug("No image to remove", "image", ref)
			return nil
		}
		return fmt.Errorf("failed to remove image %s: %w", ref, err)
	}

	slog.Info("Removed image", "image", ref)
	return nil
}
