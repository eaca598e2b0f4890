// Package build runs the external PEP 517 build frontend that turns a source
// tree into distribution files.  Packaging itself is entirely the frontend's
// business; this package just invokes it and reports how it exited.
package build

import (
	"context"
	"fmt"
	"os"

	"github.com/datawire/dlib/dexec"
)

type Options struct {
	// ProjectDir is the source tree to build; "" means the current
	// directory.
	ProjectDir string
	// DistDir is where the frontend leaves the artifact files; ""
	// means the frontend's default ("dist").
	DistDir string

	// SdistOnly and WheelOnly restrict the artifact kinds; with neither
	// set the frontend builds both.
	SdistOnly bool
	WheelOnly bool

	// Python is the interpreter to run the frontend with; "" means
	// "python3".
	Python string
}

// Error is a build failure.  It wraps the frontend's *exec.ExitError, so the
// frontend's exit code stays recoverable with errors.As.
type Error struct {
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("build: %v", e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Run invokes `python -m build`, blocking until it exits.  The frontend's
// output goes to our stderr unchanged; its exit status is the only result
// evaluated here.
func Run(ctx context.Context, opts Options) error {
	python := opts.Python
	if python == "" {
		python = "python3"
	}

	args := []string{"-m", "build"}
	if opts.SdistOnly {
		args = append(args, "--sdist")
	}
	if opts.WheelOnly {
		args = append(args, "--wheel")
	}
	if opts.DistDir != "" {
		args = append(args, "--outdir", opts.DistDir)
	}
	if opts.ProjectDir != "" {
		args = append(args, opts.ProjectDir)
	}

	cmd := dexec.CommandContext(ctx, python, args...)
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return &Error{Err: err}
	}
	return nil
}
