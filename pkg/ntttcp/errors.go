package ntttcp

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

var ErrToolNotFound = errors.New("ntttcp executable not found")

// ProcessError is returned when a tool process cannot be started or exits
// unsuccessfully.
type ProcessError struct {
	Role Role
	// ExitCode is -1 if the process did not exit normally
	ExitCode int
	Stderr   string
	Err      error
}

func newProcessError(role Role, err error, stderr string) *ProcessError {
	pe := &ProcessError{
		Role:     role,
		ExitCode: -1,
		Stderr:   stderr,
		Err:      err,
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		pe.ExitCode = exitErr.ExitCode()
	}
	return pe
}

func (e *ProcessError) Error() string {
	msg := fmt.Sprintf("ntttcp %s failed (exit code %d): %v", e.Role, e.ExitCode, e.Err)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}
