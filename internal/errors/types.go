package errors

import (
	"errors"
	"fmt"
)

var (
	ErrConfigInvalid     = errors.New("environment configuration invalid")
	ErrWorkspaceFailed   = errors.New("workspace preparation failed")
	ErrDaemonUnavailable = errors.New("container daemon unavailable")
	ErrBuildFailed       = errors.New("image build failed")
	ErrSessionFailed     = errors.New("interactive session failed")
	ErrRuntimeFailed     = errors.New("runtime operation failed")
	ErrFileSystemFailed  = errors.New("filesystem operation failed")
)

type LaunchError struct {
	Type        error
	Context     string
	Cause       string
	Suggestion  string
	OriginalErr error
}

func (e *LaunchError) Error() string {
	return e.OriginalErr.Error()
}

func (e *LaunchError) Unwrap() error {
	return e.OriginalErr
}

func NewLaunchError(errorType error, context, cause, suggestion string, originalErr error) *LaunchError {
	return &LaunchError{
		Type:        errorType,
		Context:     context,
		Cause:       cause,
		Suggestion:  suggestion,
		OriginalErr: originalErr,
	}
}

func NewConfigError(context, cause, suggestion string, originalErr error) *LaunchError {
	return NewLaunchError(ErrConfigInvalid, context, cause, suggestion, originalErr)
}

func NewWorkspaceError(context, cause, suggestion string, originalErr error) *LaunchError {
	return NewLaunchError(ErrWorkspaceFailed, context, cause, suggestion, originalErr)
}

func NewDaemonError(context, cause, suggestion string, originalErr error) *LaunchError {
	return NewLaunchError(ErrDaemonUnavailable, context, cause, suggestion, originalErr)
}

func NewBuildError(context, cause, suggestion string, originalErr error) *LaunchError {
	return NewLaunchError(ErrBuildFailed, context, cause, suggestion, originalErr)
}

func NewSessionError(context, cause, suggestion string, originalErr error) *LaunchError {
	return NewLaunchError(ErrSessionFailed, context, cause, suggestion, originalErr)
}

func NewRuntimeError(context, cause, suggestion string, originalErr error) *LaunchError {
	return NewLaunchError(ErrRuntimeFailed, context, cause, suggestion, originalErr)
}

func NewFileSystemError(context, cause, suggestion string, originalErr error) *LaunchError {
	return NewLaunchError(ErrFileSystemFailed, context, cause, suggestion, originalErr)
}

// ExitCodeError carries a specific process exit code up to main. The build
// step uses it so a failed image build terminates the launcher with the
// build's own exit status.
type ExitCodeError struct {
	Code int
	Err  error
}

func (e *ExitCodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (exit code %d)", e.Err.Error(), e.Code)
	}
	return fmt.Sprintf("exit code %d", e.Code)
}

func (e *ExitCodeError) Unwrap() error {
	return e.Err
}

// ExitCode maps err to the process exit status: the embedded code when err
// wraps an ExitCodeError, 1 for any other non-nil error, 0 for nil.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitCodeError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}
