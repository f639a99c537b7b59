// Package tracker ties the time-entry store to the tray: it opens and closes
// entries, keeps the icon and timer in step with them, and reacts to tray
// clicks and timer terminations.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fremvaerk/horalis/internal/daemon/events"
	"github.com/fremvaerk/horalis/internal/daemon/timer"
	"github.com/fremvaerk/horalis/internal/daemon/tray"
	"github.com/fremvaerk/horalis/internal/store"
)

// ErrUnknownProject is returned when starting a project that does not exist.
var ErrUnknownProject = errors.New("unknown project")

// Store is the subset of the time-entry store the tracker needs.
type Store interface {
	ListProjects(ctx context.Context) ([]store.Project, error)
	Project(ctx context.Context, id int64) (store.Project, error)
	RunningEntry(ctx context.Context) (store.TimeEntry, error)
	StartEntry(ctx context.Context, projectID int64, start time.Time) (store.TimeEntry, error)
	StopOpenEntriesAt(ctx context.Context, end time.Time) (int64, error)
}

// Timer is the elapsed-time engine.
type Timer interface {
	Start(timer.StartOptions)
	Stop() bool
	Running() bool
}

// Surface is the tray icon and menu.
type Surface interface {
	SetColor(color, name string) error
	ResetIcon() error
	UpdateMenu(items []tray.ProjectItem, running bool) error
}

// Reporter receives usage events.
type Reporter interface {
	Track(event string, props map[string]any)
}

// Config holds the settings that shape tracking.
type Config struct {
	ShowTimer          bool
	IdleEnabled        bool
	IdleTimeoutMinutes int
}

// Tracker serializes every tracking change.
type Tracker struct {
	store    Store
	timer    Timer
	surface  Surface
	reporter Reporter
	now      func() time.Time

	mu       sync.Mutex
	cfg      Config
	tracking atomic.Bool
}

// New creates a tracker. reporter may be nil.
func New(st Store, tm Timer, sf Surface, reporter Reporter, cfg Config) *Tracker {
	return &Tracker{
		store:    st,
		timer:    tm,
		surface:  sf,
		reporter: reporter,
		now:      time.Now,
		cfg:      cfg,
	}
}

// SetConfig replaces the tracking settings. A running session keeps the
// settings it started with.
func (t *Tracker) SetConfig(cfg Config) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cfg = cfg
}

// Config returns the tracking settings.
func (t *Tracker) Config() Config {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cfg
}

// Tracking reports whether an entry is open. It never blocks.
func (t *Tracker) Tracking() bool {
	return t.tracking.Load()
}

// StartProject closes any open entry and starts tracking projectID.
func (t *Tracker) StartProject(ctx context.Context, projectID int64) (store.TimeEntry, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	p, err := t.store.Project(ctx, projectID)
	if errors.Is(err, store.ErrNotFound) {
		return store.TimeEntry{}, fmt.Errorf("%w: %d", ErrUnknownProject, projectID)
	}
	if err != nil {
		return store.TimeEntry{}, err
	}

	now := t.now()
	if _, err := t.store.StopOpenEntriesAt(ctx, now); err != nil {
		return store.TimeEntry{}, err
	}
	entry, err := t.store.StartEntry(ctx, p.ID, now)
	if err != nil {
		return store.TimeEntry{}, err
	}
	t.tracking.Store(true)

	t.showEntryLocked(entry)
	t.refreshMenuLocked(ctx)
	t.track("timer_started", map[string]any{"show_timer": t.cfg.ShowTimer, "idle": t.cfg.IdleEnabled})
	log.Printf("[tracker] Tracking %q (entry %d)", p.Name, entry.ID)
	return entry, nil
}

// Stop closes the open entry, if any, and returns the tray to neutral.
func (t *Tracker) Stop(ctx context.Context) (int64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	n, err := t.closeLocked(ctx, t.now())
	if err != nil {
		return 0, err
	}
	t.timer.Stop()
	if n > 0 {
		t.track("timer_stopped", map[string]any{"reason": "user"})
		log.Printf("[tracker] Stopped %d entries", n)
	}
	return n, nil
}

// Restore picks up an entry left open by a previous run, resuming the timer
// from the entry's original start.
func (t *Tracker) Restore(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, err := t.store.RunningEntry(ctx)
	switch {
	case errors.Is(err, store.ErrNotFound):
		t.tracking.Store(false)
		t.resetIconLocked()
	case err != nil:
		return fmt.Errorf("load running entry: %w", err)
	default:
		t.tracking.Store(true)
		t.showEntryLocked(entry)
		log.Printf("[tracker] Resumed %q from %s", entry.ProjectName, entry.StartTime.Local().Format(time.Kitchen))
	}
	t.refreshMenuLocked(ctx)
	return nil
}

// RefreshMenu reloads the project list into the tray menu.
func (t *Tracker) RefreshMenu(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.refreshMenuLocked(ctx)
}

// HandleEvent reacts to one bus event.
func (t *Tracker) HandleEvent(ctx context.Context, ev events.Event) {
	switch ev.Type {
	case events.IdleTimeout, events.SystemSleep:
		t.endAway(ctx, ev)
	case events.StopTimer:
		if _, err := t.Stop(ctx); err != nil {
			log.Printf("[tracker] Stop failed: %v", err)
		}
	case events.StartProjectTimer:
		if _, err := t.StartProject(ctx, ev.ProjectID); err != nil {
			log.Printf("[tracker] Start project %d failed: %v", ev.ProjectID, err)
		}
	}
}

// Run handles events from ch until ctx is done or ch is closed.
func (t *Tracker) Run(ctx context.Context, ch <-chan events.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			t.HandleEvent(ctx, ev)
		}
	}
}

// endAway closes the open entry at the moment the user left: ev.Seconds
// before now.
func (t *Tracker) endAway(ctx context.Context, ev events.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()

	// A session started after the event was emitted is not the one that
	// went idle.
	if t.timer.Running() {
		log.Printf("[tracker] Ignoring stale %s event", ev.Type)
		return
	}

	at := ev.At
	if at.IsZero() {
		at = t.now()
	}
	end := at.Add(-time.Duration(ev.Seconds) * time.Second)
	n, err := t.closeLocked(ctx, end)
	if err != nil {
		log.Printf("[tracker] Failed to close entry after %s: %v", ev.Type, err)
		return
	}
	if n > 0 {
		t.track("timer_stopped", map[string]any{"reason": string(ev.Type), "seconds": ev.Seconds})
		log.Printf("[tracker] Closed entry at %s after %s", end.Local().Format(time.Kitchen), ev.Type)
	}
}

func (t *Tracker) closeLocked(ctx context.Context, end time.Time) (int64, error) {
	n, err := t.store.StopOpenEntriesAt(ctx, end)
	if err != nil {
		return 0, err
	}
	t.tracking.Store(false)
	t.resetIconLocked()
	t.refreshMenuLocked(ctx)
	return n, nil
}

func (t *Tracker) showEntryLocked(entry store.TimeEntry) {
	if err := t.surface.SetColor(entry.ProjectColor, entry.ProjectName); err != nil {
		log.Printf("[tracker] Failed to color icon: %v", err)
	}
	if !t.cfg.ShowTimer {
		t.timer.Stop()
		return
	}
	t.timer.Start(timer.StartOptions{
		StartMs:            entry.StartTime.UnixMilli(),
		IdleEnabled:        t.cfg.IdleEnabled,
		IdleTimeoutMinutes: t.cfg.IdleTimeoutMinutes,
	})
}

func (t *Tracker) resetIconLocked() {
	if err := t.surface.ResetIcon(); err != nil {
		log.Printf("[tracker] Failed to reset icon: %v", err)
	}
}

func (t *Tracker) refreshMenuLocked(ctx context.Context) error {
	projects, err := t.store.ListProjects(ctx)
	if err != nil {
		log.Printf("[tracker] Failed to load projects: %v", err)
		return err
	}
	items := make([]tray.ProjectItem, 0, len(projects))
	for _, p := range projects {
		items = append(items, tray.ProjectItem{ID: p.ID, Name: p.Name, Color: p.Color})
	}
	return t.surface.UpdateMenu(items, t.tracking.Load())
}

func (t *Tracker) track(event string, props map[string]any) {
	if t.reporter != nil {
		t.reporter.Track(event, props)
	}
}
