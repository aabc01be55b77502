// Package watcher runs the idle decision loop.
package watcher

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/idlewatcher/idlewatcher/pkg/config"
	"github.com/idlewatcher/idlewatcher/pkg/interfaces"
)

// Watcher fuses the session and compositor idle signals and fires the
// configured action once per idle episode. Both signals must agree: a
// busy terminal keeps the machine awake even when the compositor says
// idle, and vice versa.
type Watcher struct {
	cfg       *config.Config
	sessions  interfaces.SessionSampler
	graphical interfaces.GraphicalSource
	runner    interfaces.ActionRunner

	// triggered latches after the action fires and clears only when
	// the fused condition turns false, so each idle episode fires at
	// most once.
	triggered bool

	stderr io.Writer
}

// New creates a watcher over the given signal sources and runner.
func New(cfg *config.Config, sessions interfaces.SessionSampler, graphical interfaces.GraphicalSource, runner interfaces.ActionRunner) *Watcher {
	return &Watcher{
		cfg:       cfg,
		sessions:  sessions,
		graphical: graphical,
		runner:    runner,
		stderr:    os.Stderr,
	}
}

// SetStderr redirects diagnostics. Used by tests.
func (w *Watcher) SetStderr(wr io.Writer) {
	w.stderr = wr
}

// Tick executes one decision cycle: sample the tty signal, then poll
// the compositor signal, then fuse. The decision always uses the
// values produced within this tick.
func (w *Watcher) Tick() {
	ttyIdle, sampled := w.sessions.Sample()
	// An unavailable sample cannot prove activity, so it never holds
	// the machine awake on its own.
	ttyExceeded := !sampled || ttyIdle > w.cfg.IdleTimeout

	graphicalIdle := w.graphical.Poll()

	fire := ttyExceeded && graphicalIdle
	switch {
	case fire && !w.triggered:
		if sampled {
			fmt.Fprintf(w.stderr, "idlewatcher: sessions idle for %v, over limit\n", ttyIdle.Round(time.Second))
		} else {
			fmt.Fprintf(w.stderr, "idlewatcher: no session activity visible\n")
		}
		fmt.Fprintf(w.stderr, "idlewatcher: compositor reports idle, running %s\n", w.cfg.Command)
		if err := w.runner.Run(w.cfg.Command, w.cfg.Args); err != nil {
			fmt.Fprintf(w.stderr, "idlewatcher: action failed: %v\n", err)
		}
		// Latched even when the spawn fails: retry next episode, not
		// next tick.
		w.triggered = true
	case !fire:
		w.triggered = false
	}
}

// Run ticks at the configured interval until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		w.Tick()
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
