//go:build linux

package idle

import (
	"context"
	"fmt"
	"time"

	"github.com/godbus/dbus/v5"
)

const (
	mutterDest = "org.gnome.Mutter.IdleMonitor"
	mutterPath = "/org/gnome/Mutter/IdleMonitor/Core"
	mutterCall = "org.gnome.Mutter.IdleMonitor.GetIdletime"
	screenDest = "org.freedesktop.ScreenSaver"
	screenPath = "/org/freedesktop/ScreenSaver"
	screenCall = "org.freedesktop.ScreenSaver.GetSessionIdleTime"
)

type dbusQuerier struct{}

// New returns a querier asking the desktop session over D-Bus: GNOME's
// Mutter idle monitor first, then the freedesktop screensaver interface.
func New() Querier {
	return dbusQuerier{}
}

func (dbusQuerier) IdleDuration() (time.Duration, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return 0, fmt.Errorf("connect session bus: %w", err)
	}
	return queryIdle(func(ctx context.Context, dest, path, method string, out any) error {
		return conn.Object(dest, dbus.ObjectPath(path)).CallWithContext(ctx, method, 0).Store(out)
	}, queryTimeout)
}

// busCall makes one D-Bus method call and stores its reply in out.
type busCall func(ctx context.Context, dest, path, method string, out any) error

// queryIdle tries Mutter, then the screensaver interface. Each call gets its
// own timeout so a hung Mutter does not starve the fallback.
func queryIdle(call busCall, timeout time.Duration) (time.Duration, error) {
	var ms uint64
	err := callWithTimeout(call, timeout, mutterDest, mutterPath, mutterCall, &ms)
	if err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}

	var secs uint32
	if serr := callWithTimeout(call, timeout, screenDest, screenPath, screenCall, &secs); serr == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return 0, fmt.Errorf("query idle time: %w", err)
}

func callWithTimeout(call busCall, timeout time.Duration, dest, path, method string, out any) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return call(ctx, dest, path, method, out)
}
