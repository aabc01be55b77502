package watcher

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/idlewatcher/idlewatcher/pkg/config"
	"github.com/idlewatcher/idlewatcher/pkg/testutil"
)

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.IdleTimeout = 10 * time.Second
	cfg.PollInterval = time.Millisecond
	return cfg
}

func newTestWatcher(sessions *testutil.MockSessionSampler, graphical *testutil.MockGraphicalSource, runner *testutil.MockRunner) (*Watcher, *bytes.Buffer) {
	w := New(testConfig(), sessions, graphical, runner)
	var buf bytes.Buffer
	w.SetStderr(&buf)
	return w, &buf
}

func TestFusionRule(t *testing.T) {
	tests := []struct {
		name          string
		ttyIdle       time.Duration
		ttySampled    bool
		graphicalIdle bool
		wantFire      bool
	}{
		{
			name:          "Both signals idle",
			ttyIdle:       20 * time.Second,
			ttySampled:    true,
			graphicalIdle: true,
			wantFire:      true,
		},
		{
			name:          "Only tty idle",
			ttyIdle:       20 * time.Second,
			ttySampled:    true,
			graphicalIdle: false,
			wantFire:      false,
		},
		{
			name:          "Only compositor idle",
			ttyIdle:       time.Second,
			ttySampled:    true,
			graphicalIdle: true,
			wantFire:      false,
		},
		{
			name:          "Neither idle",
			ttyIdle:       time.Second,
			ttySampled:    true,
			graphicalIdle: false,
			wantFire:      false,
		},
		{
			name:          "Tty exactly at threshold does not fire",
			ttyIdle:       10 * time.Second,
			ttySampled:    true,
			graphicalIdle: true,
			wantFire:      false,
		},
		{
			name:          "Unavailable sample counts as idle",
			ttySampled:    false,
			graphicalIdle: true,
			wantFire:      true,
		},
		{
			name:          "Unavailable sample still needs the compositor",
			ttySampled:    false,
			graphicalIdle: false,
			wantFire:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := &testutil.MockSessionSampler{Idle: tt.ttyIdle, OK: tt.ttySampled}
			graphical := &testutil.MockGraphicalSource{IdleFlag: tt.graphicalIdle}
			runner := &testutil.MockRunner{}
			w, _ := newTestWatcher(sessions, graphical, runner)

			w.Tick()

			fired := len(runner.Calls) > 0
			if fired != tt.wantFire {
				t.Errorf("fired = %v, want %v", fired, tt.wantFire)
			}
		})
	}
}

func TestActionFiresOncePerEpisode(t *testing.T) {
	sessions := &testutil.MockSessionSampler{Idle: 20 * time.Second, OK: true}
	graphical := &testutil.MockGraphicalSource{IdleFlag: true}
	runner := &testutil.MockRunner{}
	w, _ := newTestWatcher(sessions, graphical, runner)

	// The idle episode persists across many ticks; the action fires on
	// the first one only.
	for i := 0; i < 10; i++ {
		w.Tick()
	}

	if len(runner.Calls) != 1 {
		t.Fatalf("action fired %d times in one episode, want 1", len(runner.Calls))
	}
	if runner.Calls[0].Command != "/usr/bin/systemctl" {
		t.Errorf("command = %q, want /usr/bin/systemctl", runner.Calls[0].Command)
	}
	if len(runner.Calls[0].Args) != 1 || runner.Calls[0].Args[0] != "suspend" {
		t.Errorf("args = %v, want [suspend]", runner.Calls[0].Args)
	}
}

func TestEpisodeResetRearmsAction(t *testing.T) {
	sessions := &testutil.MockSessionSampler{Idle: 20 * time.Second, OK: true}
	graphical := &testutil.MockGraphicalSource{IdleFlag: true}
	runner := &testutil.MockRunner{}
	w, _ := newTestWatcher(sessions, graphical, runner)

	w.Tick()
	w.Tick()
	if len(runner.Calls) != 1 {
		t.Fatalf("action fired %d times, want 1", len(runner.Calls))
	}

	// Resume event ends the episode.
	graphical.IdleFlag = false
	w.Tick()
	if len(runner.Calls) != 1 {
		t.Fatalf("action fired during an active period")
	}

	// A fresh idle episode fires again.
	graphical.IdleFlag = true
	w.Tick()
	if len(runner.Calls) != 2 {
		t.Errorf("action fired %d times after a second episode, want 2", len(runner.Calls))
	}
}

func TestHeadlessNeverFires(t *testing.T) {
	// Scenario: one session idle for an hour, compositor never linked.
	sessions := &testutil.MockSessionSampler{Idle: time.Hour, OK: true}
	graphical := &testutil.MockGraphicalSource{IdleFlag: false}
	runner := &testutil.MockRunner{}
	w, _ := newTestWatcher(sessions, graphical, runner)

	for i := 0; i < 100; i++ {
		w.Tick()
	}

	if len(runner.Calls) != 0 {
		t.Errorf("action fired %d times without a compositor signal, want 0", len(runner.Calls))
	}
}

func TestSpawnFailureLatchesAndContinues(t *testing.T) {
	sessions := &testutil.MockSessionSampler{Idle: 20 * time.Second, OK: true}
	graphical := &testutil.MockGraphicalSource{IdleFlag: true}
	runner := &testutil.MockRunner{Err: fmt.Errorf("fork failed")}
	w, buf := newTestWatcher(sessions, graphical, runner)

	w.Tick()
	w.Tick()

	// No retry within the episode, even though the spawn failed.
	if len(runner.Calls) != 1 {
		t.Errorf("spawn attempted %d times in one episode, want 1", len(runner.Calls))
	}
	if !strings.Contains(buf.String(), "fork failed") {
		t.Errorf("diagnostics %q missing the spawn error", buf.String())
	}

	// The next episode attempts again.
	graphical.IdleFlag = false
	w.Tick()
	graphical.IdleFlag = true
	w.Tick()
	if len(runner.Calls) != 2 {
		t.Errorf("spawn attempted %d times across two episodes, want 2", len(runner.Calls))
	}
}

// orderedSources verifies that the tty sample is taken before the
// compositor poll within a tick.
type orderedSampler struct {
	order *[]string
}

func (s *orderedSampler) Sample() (time.Duration, bool) {
	*s.order = append(*s.order, "sample")
	return time.Hour, true
}

type orderedSource struct {
	order *[]string
}

func (s *orderedSource) Poll() bool {
	*s.order = append(*s.order, "poll")
	return false
}

func (s *orderedSource) Linked() bool { return false }

func TestTickOrdering(t *testing.T) {
	var order []string
	w := New(testConfig(), &orderedSampler{order: &order}, &orderedSource{order: &order}, &testutil.MockRunner{})
	w.SetStderr(&bytes.Buffer{})

	w.Tick()

	if len(order) != 2 || order[0] != "sample" || order[1] != "poll" {
		t.Errorf("tick order = %v, want [sample poll]", order)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	sessions := &testutil.MockSessionSampler{OK: true}
	graphical := &testutil.MockGraphicalSource{}
	runner := &testutil.MockRunner{}
	w, _ := newTestWatcher(sessions, graphical, runner)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	// Let a few ticks happen, then cancel.
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run() did not stop after cancellation")
	}

	if sessions.Samples == 0 {
		t.Error("loop never ticked")
	}
}
