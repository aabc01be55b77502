// Package action spawns the configured idle command.
package action

import (
	"fmt"
	"os/exec"
)

// waiter is what a started process must support so the child can be
// reaped.
type waiter interface {
	Wait() error
}

// Runner starts the idle action without supervising it: output is
// discarded and the exit status is reaped but not interpreted.
type Runner struct {
	start func(command string, args []string) (waiter, error)
}

// NewRunner creates a runner backed by os/exec.
func NewRunner() *Runner {
	return &Runner{start: startProcess}
}

func startProcess(command string, args []string) (waiter, error) {
	cmd := exec.Command(command, args...)
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return cmd, nil
}

// Run spawns the command and returns as soon as it has started. The
// child runs detached; a background goroutine reaps it.
func (r *Runner) Run(command string, args []string) error {
	proc, err := r.start(command, args)
	if err != nil {
		return fmt.Errorf("start %s: %w", command, err)
	}
	go func() { _ = proc.Wait() }()
	return nil
}
