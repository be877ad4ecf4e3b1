// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"kernel-janitor/pkg/types"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// ErrCommandFailed is the sentinel error wrapped by ExitError.
var ErrCommandFailed = errors.New("command failed")

type (
	// Runner executes shell commands.
	Runner interface {
		Run(ctx context.Context, cmd Command) error
	}

	// Command is one shell script to run.
	Command struct {
		// Dir is the working directory. Empty means the current directory.
		Dir types.FilesystemPath
		// Script is parsed as POSIX shell.
		Script string
		// Env entries are added on top of the host environment.
		Env map[string]string
	}

	// ExitError is returned when a script exits with a non-zero status.
	ExitError struct {
		Script string
		Code   types.ExitCode
	}

	// Virtual runs commands with the mvdan.cc/sh interpreter. External
	// programs such as make are started through the interpreter's default
	// exec handler.
	Virtual struct {
		stdin  io.Reader
		stdout io.Writer
		stderr io.Writer
	}
)

// NewVirtual creates a Virtual runner writing command output to stdout and stderr.
func NewVirtual(stdout, stderr io.Writer) *Virtual {
	return &Virtual{stdout: stdout, stderr: stderr}
}

// WithStdin returns a copy of v that feeds r to commands, which interactive
// steps such as "make menuconfig" need.
func (v *Virtual) WithStdin(r io.Reader) *Virtual {
	cp := *v
	cp.stdin = r
	return &cp
}

// Run parses cmd.Script and executes it.
func (v *Virtual) Run(ctx context.Context, cmd Command) error {
	prog, err := syntax.NewParser().Parse(strings.NewReader(cmd.Script), "script")
	if err != nil {
		return fmt.Errorf("failed to parse script %q: %w", cmd.Script, err)
	}

	opts := []interp.RunnerOption{
		interp.Env(expand.ListEnviron(buildEnv(os.Environ(), cmd.Env)...)),
		interp.StdIO(v.stdin, v.stdout, v.stderr),
	}
	if cmd.Dir != "" {
		opts = append(opts, interp.Dir(string(cmd.Dir)))
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return fmt.Errorf("failed to create interpreter: %w", err)
	}

	if err := runner.Run(ctx, prog); err != nil {
		var exitStatus interp.ExitStatus
		if errors.As(err, &exitStatus) {
			return &ExitError{Script: cmd.Script, Code: types.ExitCode(exitStatus)}
		}
		return fmt.Errorf("script execution failed: %w", err)
	}
	return nil
}

// String renders the command the way a user would type it.
func (c Command) String() string {
	var sb strings.Builder
	for _, key := range slices.Sorted(maps.Keys(c.Env)) {
		fmt.Fprintf(&sb, "%s=%s ", key, c.Env[key])
	}
	sb.WriteString(c.Script)
	if c.Dir != "" {
		fmt.Fprintf(&sb, " (in %s)", c.Dir)
	}
	return sb.String()
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return fmt.Sprintf("%q exited with status %s", e.Script, e.Code)
}

// Unwrap returns ErrCommandFailed for errors.Is() compatibility.
func (e *ExitError) Unwrap() error { return ErrCommandFailed }

// buildEnv appends extra to base in sorted key order; later entries win in
// expand.ListEnviron.
func buildEnv(base []string, extra map[string]string) []string {
	env := slices.Clone(base)
	for _, key := range slices.Sorted(maps.Keys(extra)) {
		env = append(env, key+"="+extra[key])
	}
	return env
}
