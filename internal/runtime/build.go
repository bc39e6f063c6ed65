package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/pkg/archive"
	"github.com/docker/docker/pkg/jsonmessage"
	"golang.org/x/term"

	launcherrors "packhero/internal/errors"
	"packhero/pkg/runtime"
)

// BuildImage builds the environment image from spec.ContextDir and tags it
// with spec.Tag. Build progress streams to spec.Output. A failing build step
// inside the Dockerfile is returned as an ExitCodeError carrying the step's
// own exit status.
func (d *DockerRuntime) BuildImage(ctx context.Context, spec runtime.BuildSpec) error {
	slog.Info("Building image", "tag", spec.Tag, "context", spec.ContextDir, "dockerfile", spec.Dockerfile)

	buildCtx, err := archive.TarWithOptions(spec.ContextDir, &archive.TarOptions{})
	if err != nil {
		return fmt.Errorf("failed to prepare build context %s: %w", spec.ContextDir, err)
	}
	defer buildCtx.Close()

	resp, err := d.client.ImageBuild(ctx, buildCtx, types.ImageBuildOptions{
		Tags:       []string{spec.Tag},
		Dockerfile: spec.Dockerfile,
		NoCache:    spec.NoCache,
		Remove:     true,
	})
	if err != nil {
		return fmt.Errorf("failed to start image build: %w", err)
	}
	defer resp.Body.Close()

	out := spec.Output
	if out == nil {
		out = io.Discard
	}

	fd, isTerm := outputFd(out)
	if err := jsonmessage.DisplayJSONMessagesStream(resp.Body, out, fd, isTerm, nil); err != nil {
		var jsonErr *jsonmessage.JSONError
		if errors.As(err, &jsonErr) {
			code := jsonErr.Code
			if code == 0 {
				code = 1
			}
			return &launcherrors.ExitCodeError{
				Code: code,
				Err:  fmt.Errorf("image build failed: %s", jsonErr.Message),
			}
		}
		return fmt.Errorf("failed to stream build output: %w", err)
	}

	slog.Info("Successfully built image", "tag", spec.Tag)
	return nil
}

// outputFd reports the descriptor and TTY-ness of w so the build stream can
// render terminal progress when attached to one.
func outputFd(w io.Writer) (uintptr, bool) {
	if f, ok := w.(*os.File); ok {
		return f.Fd(), term.IsTerminal(int(f.Fd()))
	}
	return 0, false
}
