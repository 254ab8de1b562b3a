package cli

import (
	"errors"

	"github.com/ZabraveniGeroi/blogc/internal/configloader"
	"github.com/ZabraveniGeroi/blogc/pkg/runner"
)

// Exit codes for blogc.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0

	// ExitBuildFailed indicates at least one source could not be built.
	ExitBuildFailed = 1

	// ExitBuildWarnings indicates the build produced warnings (when strict mode).
	ExitBuildWarnings = 2

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

var (
	// ErrBuildFailed is returned when sources could not be built.
	ErrBuildFailed = errors.New("build failed")

	// ErrBuildWarnings is returned in strict mode when the build produced warnings.
	ErrBuildWarnings = errors.New("build produced warnings")

	// ErrUsage wraps invalid command-line usage.
	ErrUsage = errors.New("invalid usage")
)

// ExitCodeFromResult determines the exit code based on result and strict mode.
func ExitCodeFromResult(result *runner.Result, strict bool) int {
	if result == nil {
		return ExitSuccess
	}

	if result.HasFailures() {
		return ExitBuildFailed
	}

	if strict && result.HasWarnings() {
		return ExitBuildWarnings
	}

	return ExitSuccess
}

// ExitCodeFromError maps a command error to an exit code.
func ExitCodeFromError(err error) int {
	var validationErr *configloader.ValidationError

	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrBuildFailed):
		return ExitBuildFailed
	case errors.Is(err, ErrBuildWarnings):
		return ExitBuildWarnings
	case errors.Is(err, ErrUsage):
		return ExitInvalidUsage
	case errors.As(err, &validationErr), errors.Is(err, errConfig):
		return ExitConfigError
	case errors.Is(err, errIO):
		return ExitIOError
	default:
		return ExitInternalError
	}
}

// IsReported reports whether err only signals an exit status whose cause
// has already been printed.
func IsReported(err error) bool {
	return errors.Is(err, ErrBuildFailed) || errors.Is(err, ErrBuildWarnings)
}

var (
	errConfig = errors.New("failed to load configuration")
	errIO     = errors.New("i/o error")
)
