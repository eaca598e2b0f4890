package main

import (
	"errors"
	"os/exec"
)

// exitCode maps a run's error to the process exit code.  When the failing
// step was an external tool that exited non-zero, the run exits with that
// same code; everything else is 1.
func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
		return exitErr.ExitCode()
	}
	return 1
}
