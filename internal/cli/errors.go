package cli

import (
	"errors"

	"shelf-cli/internal/mutate"
	"shelf-cli/internal/store"
	"shelf-cli/internal/tree"
)

// Exit codes for scripted callers.
const (
	ExitOK         = 0
	ExitFailure    = 1
	ExitValidation = 2
	ExitNotFound   = 3
)

// errTreeIssues is returned by `doctor --fail` when the check found errors.
var errTreeIssues = errors.New("doctor found errors")

// ExitCode maps a command error to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var ce *tree.CycleError
	switch {
	case mutate.IsValidation(err), errors.As(err, &ce):
		return ExitValidation
	case store.IsNotFound(err):
		return ExitNotFound
	default:
		return ExitFailure
	}
}
