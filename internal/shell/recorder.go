// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"context"
	"sync"
)

// Recorder is a Runner that records commands instead of running them. It
// backs dry runs and tests.
type Recorder struct {
	mu       sync.Mutex
	commands []Command
	// FailOn, when set, is consulted for every command; a non-nil result is
	// returned from Run after the command has been recorded.
	FailOn func(Command) error
}

// Run records cmd.
func (r *Recorder) Run(_ context.Context, cmd Command) error {
	r.mu.Lock()
	r.commands = append(r.commands, cmd)
	r.mu.Unlock()
	if r.FailOn != nil {
		return r.FailOn(cmd)
	}
	return nil
}

// Commands returns a copy of every recorded command in call order.
func (r *Recorder) Commands() []Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Command, len(r.commands))
	copy(out, r.commands)
	return out
}

// Scripts returns the script of every recorded command in call order.
func (r *Recorder) Scripts() []string {
	cmds := r.Commands()
	out := make([]string, 0, len(cmds))
	for _, c := range cmds {
		out = append(out, c.Script)
	}
	return out
}
