// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"errors"
	"io"
	"os"

	"golang.org/x/term"
)

const keyCtrlC = "ctrl+c"

// ErrCancelled is returned when the user aborts a prompt.
var ErrCancelled = errors.New("cancelled by user")

// Config holds the terminal a prompt runs on.
type Config struct {
	// Input is read for key presses.
	Input io.Reader
	// Output receives the rendered prompt.
	Output io.Writer
	// Width limits the rendered width (0 for unlimited).
	Width int
}

// DefaultConfig returns a Config bound to the process terminal. The prompt
// is drawn on stderr so that piping stdout does not swallow it.
func DefaultConfig() Config {
	return Config{Input: os.Stdin, Output: os.Stderr}
}

// IsInteractive reports whether stdin is a terminal a prompt can read from.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
