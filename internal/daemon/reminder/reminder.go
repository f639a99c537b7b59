// Package reminder nags the user with a desktop notification when no time is
// being tracked during their working hours.
package reminder

import (
	"context"
	"log"
	"slices"
	"sync"
	"time"

	"github.com/fremvaerk/horalis/internal/daemon/events"
	"github.com/fremvaerk/horalis/internal/metrics"
)

const (
	// DefaultPollInterval is how often the policy is evaluated.
	DefaultPollInterval = 60 * time.Second

	DefaultTitle   = "Horalis"
	DefaultMessage = "You're not tracking time. Start a timer?"
)

// Notifier delivers a notification to the desktop.
type Notifier interface {
	Notify(title, message string) error
}

// Options tune a Scheduler. Zero values take the defaults.
type Options struct {
	PollInterval time.Duration
	Now          func() time.Time
}

// Scheduler owns at most one reminder policy and the loop evaluating it.
type Scheduler struct {
	notifier Notifier
	running  func() bool
	events   events.Emitter
	opts     Options

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	policy *Policy
	last   time.Time
}

// New creates an idle scheduler. running reports whether time is currently
// being tracked; nil means never.
func New(n Notifier, running func() bool, em events.Emitter, opts Options) *Scheduler {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Scheduler{notifier: n, running: running, events: em, opts: opts}
}

// Configure replaces the current policy. A disabled policy just stops the
// scheduler. The last-notification time is reset either way.
func (s *Scheduler) Configure(p Policy) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	s.stopLocked()
	if !p.Enabled {
		log.Println("[reminder] Disabled")
		return
	}

	p.Weekdays = slices.Clone(p.Weekdays)
	if p.Title == "" {
		p.Title = DefaultTitle
	}
	if p.Message == "" {
		p.Message = DefaultMessage
	}
	s.policy = &p

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	log.Printf("[reminder] Enabled (every %s, %s-%s, days %v)", p.Interval, p.Start, p.End, p.Weekdays)
	go s.loop(ctx, s.gen)
}

// Disable stops the scheduler and forgets the policy.
func (s *Scheduler) Disable() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	if s.policy != nil {
		log.Println("[reminder] Disabled")
	}
	s.stopLocked()
}

// Status returns the active policy and the time of the last notification.
func (s *Scheduler) Status() (Policy, time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.policy == nil {
		return Policy{}, time.Time{}, false
	}
	p := *s.policy
	p.Weekdays = slices.Clone(p.Weekdays)
	return p, s.last, true
}

func (s *Scheduler) stopLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.policy = nil
	s.last = time.Time{}
}

func (s *Scheduler) loop(ctx context.Context, gen uint64) {
	ticker := time.NewTicker(s.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !s.tick(gen) {
				return
			}
		}
	}
}

// tick evaluates the policy of generation gen once and reports whether the
// loop should keep going.
func (s *Scheduler) tick(gen uint64) bool {
	s.mu.Lock()
	if gen != s.gen || s.policy == nil {
		s.mu.Unlock()
		return false
	}
	p := *s.policy
	last := s.last
	s.mu.Unlock()

	now := s.opts.Now()
	running := s.running != nil && s.running()
	d := Evaluate(p, now, last, running)
	metrics.ReminderChecks.WithLabelValues(d.String()).Inc()
	if d != Fire {
		return true
	}

	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return false
	}
	s.last = now.Truncate(time.Second)
	s.mu.Unlock()

	if s.notifier != nil {
		if err := s.notifier.Notify(p.Title, p.Message); err != nil {
			log.Printf("[reminder] Failed to deliver notification: %v", err)
		}
	}
	if s.events != nil {
		s.events.Emit(events.Event{Type: events.Reminder, Message: p.Message, At: now})
	}
	return true
}
