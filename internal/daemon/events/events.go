// Package events carries daemon notifications (timer terminations, tray
// clicks, fired reminders) to whoever is listening.
package events

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/fremvaerk/horalis/internal/metrics"
)

// Type identifies an event.
type Type string

const (
	IdleTimeout       Type = "idle-timeout"
	SystemSleep       Type = "system-sleep"
	StopTimer         Type = "stop-timer"
	StartProjectTimer Type = "start-project-timer"
	ToggleWindow      Type = "toggle-window"
	OpenDashboard     Type = "open-dashboard"
	Reminder          Type = "reminder"
	Quit              Type = "quit"
)

// Event is a single notification. Seconds is set for IdleTimeout and
// SystemSleep, ProjectID for StartProjectTimer, Message for Reminder.
type Event struct {
	Type      Type      `json:"type"`
	Seconds   int64     `json:"seconds,omitempty"`
	ProjectID int64     `json:"project_id,omitempty"`
	Message   string    `json:"message,omitempty"`
	At        time.Time `json:"at"`
}

// Emitter accepts events without blocking.
type Emitter interface {
	Emit(Event)
}

// Bus fans events out to subscribers. A subscriber whose buffer is full
// misses the event; Emit never waits.
type Bus struct {
	mu      sync.RWMutex
	subs    map[uint64]chan Event
	next    uint64
	dropped atomic.Uint64
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[uint64]chan Event)}
}

// Emit delivers ev to every subscriber with room for it.
func (b *Bus) Emit(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	metrics.EventsEmitted.WithLabelValues(string(ev.Type)).Inc()

	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			b.dropped.Add(1)
			metrics.EventsDropped.Inc()
		}
	}
}

// Subscribe registers a subscriber with the given buffer size. The returned
// func unsubscribes and closes the channel; calling it again is harmless.
func (b *Bus) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Event, buffer)

	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}
}

// Subscribers returns the current subscriber count.
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Dropped returns how many deliveries were skipped because a subscriber was
// full.
func (b *Bus) Dropped() uint64 {
	return b.dropped.Load()
}
