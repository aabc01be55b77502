package session

import (
	"time"

	"github.com/godbus/dbus/v5"
)

const (
	logindService      = "org.freedesktop.login1"
	logindManagerPath  = "/org/freedesktop/login1"
	listSessionsMethod = "org.freedesktop.login1.Manager.ListSessions"
	idleSinceProperty  = "org.freedesktop.login1.Session.IdleSinceHint"
)

// logindSession matches one element of the a(susso) reply to
// ListSessions.
type logindSession struct {
	ID   string
	UID  uint32
	User string
	Seat string
	Path dbus.ObjectPath
}

// logindBus is the slice of the system bus the sampler needs.
type logindBus interface {
	ListSessions() ([]logindSession, error)
	IdleSince(path dbus.ObjectPath) (time.Time, error)
	Close()
}

// LogindSampler asks systemd-logind for per-session idle hints. It is
// the fallback for systems where the utmp table is absent or empty.
type LogindSampler struct {
	dial func() (logindBus, error)
	bus  logindBus
	now  func() time.Time
}

// NewLogindSampler creates a sampler over the logind D-Bus API. The
// system bus is dialed lazily on first use and redialed after errors.
func NewLogindSampler() *LogindSampler {
	return &LogindSampler{
		dial: dialSystemBus,
		now:  time.Now,
	}
}

// Sample returns the minimum idle duration across logind sessions with
// a known idle hint. ok is false on bus failure or when no session
// carries a usable hint.
func (s *LogindSampler) Sample() (time.Duration, bool) {
	if s.bus == nil {
		bus, err := s.dial()
		if err != nil {
			return 0, false
		}
		s.bus = bus
	}

	sessions, err := s.bus.ListSessions()
	if err != nil {
		s.bus.Close()
		s.bus = nil
		return 0, false
	}

	now := s.now()
	var min time.Duration
	ok := false
	for _, sess := range sessions {
		since, err := s.bus.IdleSince(sess.Path)
		if err != nil || since.IsZero() {
			continue
		}
		idle := now.Sub(since)
		if idle < 0 {
			idle = 0
		}
		if !ok || idle < min {
			min, ok = idle, true
		}
	}
	return min, ok
}

// systemBus implements logindBus over a live connection.
type systemBus struct {
	conn *dbus.Conn
}

func dialSystemBus() (logindBus, error) {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, err
	}
	return &systemBus{conn: conn}, nil
}

func (b *systemBus) ListSessions() ([]logindSession, error) {
	var sessions []logindSession
	obj := b.conn.Object(logindService, logindManagerPath)
	if err := obj.Call(listSessionsMethod, 0).Store(&sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (b *systemBus) IdleSince(path dbus.ObjectPath) (time.Time, error) {
	variant, err := b.conn.Object(logindService, path).GetProperty(idleSinceProperty)
	if err != nil {
		return time.Time{}, err
	}
	usec, isUint := variant.Value().(uint64)
	if !isUint || usec == 0 {
		// 0 means logind has no idle hint for this session.
		return time.Time{}, nil
	}
	return time.UnixMicro(int64(usec)), nil
}

func (b *systemBus) Close() {
	_ = b.conn.Close()
}
