package app

import (
	"context"
)

// Step represents a single step in the launch pipeline. Each step implements
// this interface to provide a name and execution logic; the pipeline halts at
// the first step that returns an error.
type Step interface {
	Name() string
	Execute(ctx context.Context, record *SessionRecord) error
}
