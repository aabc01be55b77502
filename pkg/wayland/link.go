package wayland

import (
	"fmt"
	"sync"
	"time"

	"github.com/rajveermalviya/go-wayland/wayland/client"
	"github.com/rajveermalviya/go-wayland/wayland/staging/ext-idle-notify-v1"
)

// idleNotifierVersion is the ext_idle_notifier_v1 version bound on the
// registry. Only major version 1 is supported.
const idleNotifierVersion = 1

// Link is a live connection to the compositor's idle notifier. The idle
// flag is flipped by idled/resumed events applied on the dispatch
// goroutine and read through Idle.
type Link struct {
	display       *client.Display
	notifier      *ext_idle_notify.IdleNotifier
	notifications []*ext_idle_notify.IdleNotification

	mu   sync.Mutex
	idle bool

	errc chan error
}

// Dial connects to the named display, binds the idle notifier and
// subscribes for idle notifications at the given threshold. With an
// empty seatName every advertised seat is subscribed, otherwise only
// the named one. Any failure tears the connection down; Dial never
// returns a partially initialized Link.
func Dial(displayName string, threshold time.Duration, seatName string) (*Link, error) {
	display, err := client.Connect(displayName)
	if err != nil {
		return nil, fmt.Errorf("connect to compositor: %w", err)
	}

	l := &Link{
		display: display,
		errc:    make(chan error, 1),
	}
	if err := l.bind(threshold, seatName); err != nil {
		display.Context().Close()
		return nil, err
	}

	go l.dispatch()
	return l, nil
}

func (l *Link) bind(threshold time.Duration, seatName string) error {
	registry, err := l.display.GetRegistry()
	if err != nil {
		return fmt.Errorf("get registry: %w", err)
	}

	type seatInfo struct {
		seat *client.Seat
		name string
	}
	var (
		notifierName    uint32
		notifierVersion uint32
		seats           []*seatInfo
	)

	registry.SetGlobalHandler(func(e client.RegistryGlobalEvent) {
		switch e.Interface {
		case "ext_idle_notifier_v1":
			notifierName = e.Name
			notifierVersion = e.Version
		case "wl_seat":
			seat := client.NewSeat(l.display.Context())
			if err := registry.Bind(e.Name, e.Interface, e.Version, seat); err != nil {
				return
			}
			info := &seatInfo{seat: seat}
			seat.SetNameHandler(func(e client.SeatNameEvent) {
				info.name = e.Name
			})
			seats = append(seats, info)
		}
	})

	// Two round-trips: the first collects globals, the second settles
	// the name events generated by binding the seats.
	if err := l.roundTrip(); err != nil {
		return fmt.Errorf("initial roundtrip: %w", err)
	}
	if err := l.roundTrip(); err != nil {
		return fmt.Errorf("settle roundtrip: %w", err)
	}

	if notifierName == 0 {
		return fmt.Errorf("compositor does not advertise ext_idle_notifier_v1")
	}
	if notifierVersion < idleNotifierVersion {
		return fmt.Errorf("ext_idle_notifier_v1 version %d is unsupported", notifierVersion)
	}
	if len(seats) == 0 {
		return fmt.Errorf("compositor advertises no seats")
	}

	l.notifier = ext_idle_notify.NewIdleNotifier(l.display.Context())
	if err := registry.Bind(notifierName, "ext_idle_notifier_v1", idleNotifierVersion, l.notifier); err != nil {
		return fmt.Errorf("bind idle notifier: %w", err)
	}

	timeoutMs := uint32(threshold / time.Millisecond)
	for _, info := range seats {
		if seatName != "" && info.name != seatName {
			continue
		}
		notification, err := l.notifier.GetIdleNotification(timeoutMs, info.seat)
		if err != nil {
			return fmt.Errorf("subscribe on seat %q: %w", info.name, err)
		}
		notification.SetIdledHandler(func(ext_idle_notify.IdleNotificationIdledEvent) {
			l.setIdle(true)
		})
		notification.SetResumedHandler(func(ext_idle_notify.IdleNotificationResumedEvent) {
			l.setIdle(false)
		})
		l.notifications = append(l.notifications, notification)
	}
	if len(l.notifications) == 0 {
		return fmt.Errorf("no seat named %q", seatName)
	}

	return nil
}

// roundTrip blocks until the compositor has processed everything sent
// so far.
func (l *Link) roundTrip() error {
	callback, err := l.display.Sync()
	if err != nil {
		return err
	}
	defer func() { _ = callback.Destroy() }()

	done := false
	callback.SetDoneHandler(func(client.CallbackDoneEvent) {
		done = true
	})
	for !done {
		if err := l.display.Context().Dispatch(); err != nil {
			return err
		}
	}
	return nil
}

// dispatch applies compositor events until the connection fails or is
// closed. The terminal error is handed to the next Service call.
func (l *Link) dispatch() {
	for {
		if err := l.display.Context().Dispatch(); err != nil {
			l.errc <- err
			return
		}
	}
}

// Service reports the health of the link without blocking. Nil means
// the link is live and any pending events have been applied; an error
// means the connection is dead and the link must be discarded.
func (l *Link) Service() error {
	select {
	case err := <-l.errc:
		return err
	default:
		return nil
	}
}

// Idle reports the compositor's current idle determination.
func (l *Link) Idle() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.idle
}

func (l *Link) setIdle(v bool) {
	l.mu.Lock()
	l.idle = v
	l.mu.Unlock()
}

// Close releases the connection. Safe to call after a dispatch failure.
func (l *Link) Close() {
	for _, notification := range l.notifications {
		_ = notification.Destroy()
	}
	l.display.Context().Close()
}
