package runtime

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/mount"
	"github.com/docker/docker/pkg/stdcopy"
	"golang.org/x/term"

	"packhero/pkg/runtime"
)

// RunContainer creates and starts the named instance, attaches the calling
// process's streams to its primary process, and blocks until that process
// exits. The returned int is the process's exit status.
func (d *DockerRuntime) RunContainer(ctx context.Context, spec runtime.RunSpec) (int, error) {
	stdin, stdout, stderr := sessionStreams(spec)
	tty := isTerminalSession(spec.Interactive, stdin, stdout)

	var mounts []mount.Mount
	for _, m := range spec.Mounts {
		mounts = append(mounts, mount.Mount{
			Type:     mount.TypeBind,
			Source:   m.Source,
			Target:   m.Target,
			ReadOnly: m.ReadOnly,
		})
	}

	containerConfig := &container.Config{
		Image:        spec.Image,
		Env:          spec.EnvVars,
		WorkingDir:   spec.WorkingDir,
		Tty:          tty,
		OpenStdin:    spec.Interactive,
		StdinOnce:    spec.Interactive,
		AttachStdin:  spec.Interactive,
		AttachStdout: true,
		AttachStderr: true,
	}

	hostConfig := &container.HostConfig{
		AutoRemove: spec.AutoRemove,
		Mounts:     mounts,
	}

	slog.Info("Creating instance", "name", spec.Name, "image", spec.Image, "tty", tty)

	resp, err := d.client.ContainerCreate(ctx, containerConfig, hostConfig, nil, nil, spec.Name)
	if err != nil {
		return -1, fmt.Errorf("failed to create instance %s: %w", spec.Name, err)
	}
	containerID := resp.ID

	// The wait must be registered before the instance starts so a fast exit
	// is not missed. Under auto-remove the terminal condition is removal.
	waitCond := container.WaitConditionNextExit
	if spec.AutoRemove {
		waitCond = container.WaitConditionRemoved
	}
	statusCh, waitErrCh := d.client.ContainerWait(ctx, containerID, waitCond)

	attach, err := d.client.ContainerAttach(ctx, containerID, container.AttachOptions{
		Stream: true,
		Stdin:  spec.Interactive,
		Stdout: true,
		Stderr: true,
	})
	if err != nil {
		d.removeAfterFailure(ctx, containerID)
		return -1, fmt.Errorf("failed to attach to instance %s: %w", spec.Name, err)
	}
	defer attach.Close()

	if err := d.client.ContainerStart(ctx, containerID, container.StartOptions{}); err != nil {
		d.removeAfterFailure(ctx, containerID)
		return -1, fmt.Errorf("failed to start instance %s: %w", spec.Name, err)
	}

	if tty {
		restore, err := d.beginRawTerminal(ctx, containerID, stdin)
		if err != nil {
			slog.Warn("Failed to switch terminal to raw mode", "error", err)
		} else {
			defer restore()
		}
	}

	outputDone := make(chan error, 1)
	go func() {
		var copyErr error
		if tty {
			_, copyErr = io.Copy(stdout, attach.Reader)
		} else {
			_, copyErr = stdcopy.StdCopy(stdout, stderr, attach.Reader)
		}
		outputDone <- copyErr
	}()

	if spec.Interactive {
		go func() {
			// EOF on the caller's stdin half-closes the attach stream so the
			// instance sees its own stdin close.
			_, _ = io.Copy(attach.Conn, stdin)
			_ = attach.CloseWrite()
		}()
	}

	select {
	case err := <-waitErrCh:
		return -1, fmt.Errorf("failed while waiting for instance %s: %w", spec.Name, err)
	case status := <-statusCh:
		if copyErr := <-outputDone; copyErr != nil {
			slog.Debug("Output stream ended with error", "error", copyErr)
		}
		if status.Error != nil {
			return -1, fmt.Errorf("instance %s wait failed: %s", spec.Name, status.Error.Message)
		}
		return int(status.StatusCode), nil
	case <-ctx.Done():
		return -1, ctx.Err()
	}
}

// sessionStreams applies the process-stream defaults for unset spec streams.
func sessionStreams(spec runtime.RunSpec) (io.Reader, io.Writer, io.Writer) {
	stdin := io.Reader(os.Stdin)
	if spec.Stdin != nil {
		stdin = spec.Stdin
	}
	stdout := io.Writer(os.Stdout)
	if spec.Stdout != nil {
		stdout = spec.Stdout
	}
	stderr := io.Writer(os.Stderr)
	if spec.Stderr != nil {
		stderr = spec.Stderr
	}
	return stdin, stdout, stderr
}

// isTerminalSession reports whether the session can take over the calling
// terminal: interactive mode with both stdin and stdout on a TTY.
func isTerminalSession(interactive bool, stdin io.Reader, stdout io.Writer) bool {
	if !interactive {
		return false
	}
	fin, ok := stdin.(*os.File)
	if !ok || !term.IsTerminal(int(fin.Fd())) {
		return false
	}
	fout, ok := stdout.(*os.File)
	if !ok || !term.IsTerminal(int(fout.Fd())) {
		return false
	}
	return true
}

// beginRawTerminal switches the calling terminal to raw mode, syncs the
// instance's terminal size once, and forwards subsequent SIGWINCH resizes.
// The returned func restores the terminal and stops the forwarding.
func (d *DockerRuntime) beginRawTerminal(ctx context.Context, containerID string, stdin io.Reader) (func(), error) {
	f, ok := stdin.(*os.File)
	if !ok {
		return nil, fmt.Errorf("stdin is not a terminal")
	}
	fd := int(f.Fd())

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("failed to set raw terminal mode: %w", err)
	}

	d.resizeInstance(ctx, containerID, fd)

	winch := make(chan os.Signal, 1)
	signal.Notify(winch, syscall.SIGWINCH)
	go func() {
		for range winch {
			d.resizeInstance(ctx, containerID, fd)
		}
	}()

	return func() {
		signal.Stop(winch)
		close(winch)
		if err := term.Restore(fd, oldState); err != nil {
			slog.Warn("Failed to restore terminal mode", "error", err)
		}
	}, nil
}

// resizeInstance propagates the current terminal dimensions to the instance.
func (d *DockerRuntime) resizeInstance(ctx context.Context, containerID string, fd int) {
	width, height, err := term.GetSize(fd)
	if err != nil {
		return
	}
	if err := d.client.ContainerResize(ctx, containerID, container.ResizeOptions{
		Height: uint(height),
		Width:  uint(width),
	}); err != nil {
		slog.Debug("Failed to resize instance terminal", "error", err)
	}
}

// removeAfterFailure cleans up an instance whose attach or start failed.
func (d *DockerRuntime) removeAfterFailure(ctx context.Context, containerID string) {
	if err := d.client.ContainerRemove(ctx, containerID, container.RemoveOptions{Force: true}); err != nil {
		slog.Error("Failed to remove instance after start failure", "containerID", containerID, "error", err)
	}
}
