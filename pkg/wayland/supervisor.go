package wayland

import (
	"fmt"
	"io"
	"time"
)

// idleLink is the surface the supervisor drives. Satisfied by *Link and
// by test fakes.
type idleLink interface {
	Service() error
	Idle() bool
	Close()
}

// Supervisor owns the compositor link and its two-state lifecycle:
// unlinked (no connection, nothing held) and linked (live connection).
// It is the sole mutator of the link; a headless session simply keeps
// it unlinked forever.
type Supervisor struct {
	dial func() (idleLink, error)
	link idleLink

	stderr  io.Writer
	lastMsg string
}

// NewSupervisor creates an unlinked supervisor. display may name a
// Wayland display explicitly; when empty the display is resolved on
// every connect attempt. Diagnostics go to stderr.
func NewSupervisor(threshold time.Duration, display, seat string, stderr io.Writer) *Supervisor {
	s := &Supervisor{stderr: stderr}
	s.dial = func() (idleLink, error) {
		name := display
		if name == "" {
			resolved, err := ResolveDisplay()
			if err != nil {
				return nil, err
			}
			name = resolved
		}
		return Dial(name, threshold, seat)
	}
	return s
}

// Poll runs one supervision cycle: reconnect when unlinked, otherwise
// service the link and read its idle flag. An unlinked source always
// reads as not idle. A link whose servicing fails still decides this
// cycle with its last known flag value and is discarded afterwards.
func (s *Supervisor) Poll() bool {
	if s.link == nil {
		link, err := s.dial()
		if err != nil {
			s.report(fmt.Sprintf("idlewatcher: wayland unavailable: %v", err))
			return false
		}
		s.link = link
		s.report("idlewatcher: wayland idle notifier linked")
	}

	err := s.link.Service()
	idle := s.link.Idle()
	if err != nil {
		s.report(fmt.Sprintf("idlewatcher: wayland connection lost: %v", err))
		s.link.Close()
		s.link = nil
	}
	return idle
}

// Linked reports whether a live link is held.
func (s *Supervisor) Linked() bool {
	return s.link != nil
}

// Close discards the link, if any.
func (s *Supervisor) Close() {
	if s.link != nil {
		s.link.Close()
		s.link = nil
	}
}

// report writes a diagnostic, suppressing consecutive repeats so a
// headless box does not emit the same line every poll.
func (s *Supervisor) report(msg string) {
	if msg == s.lastMsg {
		return
	}
	s.lastMsg = msg
	fmt.Fprintln(s.stderr, msg)
}
