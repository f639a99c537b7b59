// Package timer runs the elapsed-time display behind the tray icon and ends
// the session when the user goes idle or the machine sleeps.
package timer

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/fremvaerk/horalis/internal/daemon/events"
	"github.com/fremvaerk/horalis/internal/daemon/idle"
	"github.com/fremvaerk/horalis/internal/metrics"
)

const (
	// DefaultPollInterval is how often a running session is checked.
	DefaultPollInterval = 10 * time.Second
	// DefaultIdleTimeoutMinutes applies when a start request gives none.
	DefaultIdleTimeoutMinutes = 5
)

// Display is the surface the elapsed time is written to.
type Display interface {
	SetLabel(text string) error
}

// Options tune an Engine. Zero values take the defaults.
type Options struct {
	PollInterval time.Duration
	// SleepThreshold is the wall-clock gap between two wakes treated as a
	// host suspend. Defaults to three poll intervals. Severe scheduler
	// starvation can trip it too.
	SleepThreshold time.Duration
	Now            func() time.Time
}

func (o Options) withDefaults() Options {
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	if o.SleepThreshold <= 0 {
		o.SleepThreshold = 3 * o.PollInterval
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// StartOptions describes a new session.
type StartOptions struct {
	StartMs            int64
	IdleEnabled        bool
	IdleTimeoutMinutes int
}

// Session is the running timer.
type Session struct {
	StartMs     int64
	IdleEnabled bool
	IdleTimeout time.Duration
}

// Elapsed returns the time since the session started, never negative.
func (s Session) Elapsed(now time.Time) time.Duration {
	d := time.Duration(now.UnixMilli()-s.StartMs) * time.Millisecond
	if d < 0 {
		return 0
	}
	return d
}

func (s Session) minutes(now time.Time) int64 {
	return int64(s.Elapsed(now) / time.Minute)
}

// FormatElapsed renders seconds as H:MM. Hours are unbounded; negative input
// is treated as zero.
func FormatElapsed(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/3600, seconds%3600/60)
}

// Engine owns at most one timer session and the loop polling it.
//
// Each Start bumps a generation counter and cancels the previous loop without
// waiting for it. A loop that wakes under a stale generation exits without
// touching the display, and every render happens under mu after that check.
type Engine struct {
	display Display
	idle    idle.Querier
	events  events.Emitter
	opts    Options

	mu         sync.Mutex
	gen        uint64
	cancel     context.CancelFunc
	session    *Session
	lastWake   time.Time
	lastMinute int64

	renderLog rate.Sometimes
	idleLog   rate.Sometimes
}

// New creates a stopped engine. q may be nil to disable idle detection.
func New(display Display, q idle.Querier, em events.Emitter, opts Options) *Engine {
	return &Engine{
		display:   display,
		idle:      q,
		events:    em,
		opts:      opts.withDefaults(),
		renderLog: rate.Sometimes{Interval: time.Minute},
		idleLog:   rate.Sometimes{Interval: time.Minute},
	}
}

// Start replaces any running session with a new one and shows its elapsed
// time immediately.
func (e *Engine) Start(so StartOptions) {
	timeout := so.IdleTimeoutMinutes
	if timeout <= 0 {
		timeout = DefaultIdleTimeoutMinutes
	}

	e.mu.Lock()
	e.gen++
	gen := e.gen
	if e.cancel != nil {
		e.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel

	now := e.opts.Now()
	e.session = &Session{
		StartMs:     so.StartMs,
		IdleEnabled: so.IdleEnabled,
		IdleTimeout: time.Duration(timeout) * time.Minute,
	}
	e.lastWake = now
	e.lastMinute = e.session.minutes(now)
	e.render(FormatElapsed(e.lastMinute * 60))
	e.mu.Unlock()

	metrics.TimerStarts.Inc()
	log.Printf("[timer] Started session (start=%d, idle=%v, timeout=%dm)", so.StartMs, so.IdleEnabled, timeout)
	go e.loop(ctx, gen)
}

// Stop ends the running session and clears the label. It reports whether a
// session was running; stopping a stopped engine does nothing.
func (e *Engine) Stop() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return false
	}
	e.endLocked()
	metrics.TimerStops.WithLabelValues("stop").Inc()
	log.Println("[timer] Stopped session")
	return true
}

// Status returns the running session, if any.
func (e *Engine) Status() (Session, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return Session{}, false
	}
	return *e.session, true
}

// Running reports whether a session is active.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session != nil
}

func (e *Engine) loop(ctx context.Context, gen uint64) {
	ticker := time.NewTicker(e.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !e.tick(gen) {
				return
			}
		}
	}
}

// tick runs one wake of generation gen and reports whether the loop should
// keep going.
func (e *Engine) tick(gen uint64) bool {
	e.mu.Lock()
	if gen != e.gen || e.session == nil {
		e.mu.Unlock()
		return false
	}

	now := e.opts.Now()
	// Round(0) drops the monotonic reading, which does not advance while
	// the host is suspended.
	gap := now.Round(0).Sub(e.lastWake.Round(0))
	e.lastWake = now
	if gap >= e.opts.SleepThreshold {
		e.endLocked()
		e.emit(events.Event{Type: events.SystemSleep, Seconds: int64(gap / time.Second)})
		e.mu.Unlock()
		metrics.TimerStops.WithLabelValues("sleep").Inc()
		log.Printf("[timer] System sleep detected (gap %s), session ended", gap.Round(time.Second))
		return false
	}
	sess := *e.session
	e.mu.Unlock()

	if sess.IdleEnabled && e.idle != nil {
		idleFor, err := e.idle.IdleDuration()
		if err != nil {
			e.idleLog.Do(func() { log.Printf("[timer] Idle query failed, assuming active: %v", err) })
		} else if idleFor >= sess.IdleTimeout {
			e.mu.Lock()
			defer e.mu.Unlock()
			if gen != e.gen || e.session == nil {
				return false
			}
			e.endLocked()
			e.emit(events.Event{Type: events.IdleTimeout, Seconds: int64(idleFor / time.Second)})
			metrics.TimerStops.WithLabelValues("idle").Inc()
			log.Printf("[timer] Idle for %s, session ended", idleFor.Round(time.Second))
			return false
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.gen || e.session == nil {
		return false
	}
	if m := e.session.minutes(now); m != e.lastMinute {
		e.lastMinute = m
		e.render(FormatElapsed(m * 60))
	}
	return true
}

// endLocked clears the session, cancels its loop and blanks the label.
func (e *Engine) endLocked() {
	e.session = nil
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	e.render("")
}

func (e *Engine) render(label string) {
	if e.display == nil {
		return
	}
	if err := e.display.SetLabel(label); err != nil {
		metrics.RenderErrors.Inc()
		e.renderLog.Do(func() { log.Printf("[timer] Failed to update label: %v", err) })
	}
}

func (e *Engine) emit(ev events.Event) {
	if e.events != nil {
		e.events.Emit(ev)
	}
}
