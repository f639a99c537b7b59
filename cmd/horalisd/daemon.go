package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/fremvaerk/horalis/internal/config"
	"github.com/fremvaerk/horalis/internal/daemon/events"
	"github.com/fremvaerk/horalis/internal/daemon/idle"
	"github.com/fremvaerk/horalis/internal/daemon/reminder"
	"github.com/fremvaerk/horalis/internal/daemon/server"
	"github.com/fremvaerk/horalis/internal/daemon/timer"
	"github.com/fremvaerk/horalis/internal/daemon/tracker"
	"github.com/fremvaerk/horalis/internal/daemon/tray"
	"github.com/fremvaerk/horalis/internal/daemon/watcher"
	"github.com/fremvaerk/horalis/internal/glyph"
	"github.com/fremvaerk/horalis/internal/icon"
	"github.com/fremvaerk/horalis/internal/models"
	"github.com/fremvaerk/horalis/internal/notify"
	"github.com/fremvaerk/horalis/internal/store"
	"github.com/fremvaerk/horalis/internal/telemetry"
	"github.com/fremvaerk/horalis/internal/updater"
)

// exitTimeout bounds the open-entry cleanup on the way out.
const exitTimeout = 2 * time.Second

// brandColor tints the notification icon.
const brandColor = "#5BA4C4"

// daemon wires the engines, the store and the server together.
type daemon struct {
	bus       *events.Bus
	store     *store.Store
	surface   *tray.Surface
	timer     *timer.Engine
	reminder  *reminder.Scheduler
	tracker   *tracker.Tracker
	telemetry *telemetry.Client
	server    *server.Server
	watcher   *watcher.Watcher
	shutdown  func()

	mu       sync.Mutex
	settings *models.Settings

	closeOnce sync.Once
}

func newDaemon(port int, backend tray.Backend, bus *events.Bus, shutdown func()) (*daemon, error) {
	settings, err := config.LoadSettings()
	if err != nil {
		log.Printf("Failed to load settings, using defaults: %v", err)
		settings = models.NewSettings()
	}
	if config.EnsureInstallID(settings) {
		if err := config.SaveSettings(settings); err != nil {
			log.Printf("Failed to save install id: %v", err)
		}
	}

	dbPath, err := config.GlobalDatabaseFile()
	if err != nil {
		return nil, err
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}

	renderer := icon.NewRenderer(glyph.Load(fontPaths(settings)))
	surface := tray.NewSurface(backend, renderer)
	tm := timer.New(surface, idle.New(), bus, timer.Options{})
	tel := telemetry.New(settings.Telemetry)
	tr := tracker.New(st, tm, surface, tel, trackerConfig(settings))

	var notifyIcon []byte
	if data, err := icon.EncodePNG(renderer.StatusIcon(brandColor, 'H')); err == nil {
		notifyIcon = data
	}
	rem := reminder.New(notify.NewDesktop(notifyIcon), func() bool {
		return tr.Tracking() || tm.Running()
	}, bus, reminder.Options{})

	d := &daemon{
		bus:       bus,
		store:     st,
		surface:   surface,
		timer:     tm,
		reminder:  rem,
		tracker:   tr,
		telemetry: tel,
		shutdown:  shutdown,
		settings:  settings,
	}

	d.server, err = server.New(server.Options{
		Port:           port,
		WebPort:        settings.Server.WebPort,
		AllowedOrigins: settings.Server.AllowedOrigins,
	}, server.Deps{
		Timer:    tm,
		Reminder: rem,
		Surface:  surface,
		Tracker:  tr,
		Store:    st,
		Bus:      bus,
		Shutdown: shutdown,
	})
	if err != nil {
		st.Close()
		return nil, err
	}

	d.watcher, err = watcher.New("")
	if err != nil {
		log.Printf("Settings watcher unavailable: %v", err)
	}
	return d, nil
}

// run restores state, starts the background loops and serves gRPC until
// the server is stopped.
func (d *daemon) run(ctx context.Context) error {
	if err := d.tracker.Restore(ctx); err != nil {
		log.Printf("Failed to restore tracking: %v", err)
	}

	d.mu.Lock()
	d.applyReminder(nil, d.settings.Reminder)
	d.mu.Unlock()

	ch, unsubscribe := d.bus.Subscribe(64)
	go func() {
		defer unsubscribe()
		d.tracker.Run(ctx, ch)
	}()

	if d.watcher != nil {
		if err := d.watcher.Start(); err != nil {
			log.Printf("Failed to watch settings: %v", err)
		} else {
			go d.watchSettings(ctx)
		}
	}

	info := models.NewDaemonInfo(server.DefaultHost, d.server.Port(), d.server.WebPort(), os.Getpid())
	if err := config.SaveDaemonInfo(info); err != nil {
		return fmt.Errorf("write daemon info: %w", err)
	}
	log.Printf("Daemon started on port %d (PID %d)", d.server.Port(), os.Getpid())

	d.server.StartUpdateCheck(updater.CheckForUpdate)
	return d.server.Serve()
}

func (d *daemon) trayState() *server.TrayState {
	return server.NewTrayState(d.server, d.shutdown)
}

func (d *daemon) watchSettings(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-d.watcher.Events():
			next := models.NewSettings()
			if ev.Type == watcher.EventSettingsChanged {
				loaded, err := config.LoadSettings()
				if err != nil {
					log.Printf("Ignoring settings change: %v", err)
					continue
				}
				next = loaded
			}
			d.applySettings(ctx, next)
		}
	}
}

// applySettings brings the running engines in line with s.
func (d *daemon) applySettings(ctx context.Context, s *models.Settings) {
	d.mu.Lock()
	defer d.mu.Unlock()

	prev := d.settings
	d.settings = s

	cfg := trackerConfig(s)
	if cfg != trackerConfig(prev) {
		d.tracker.SetConfig(cfg)
		// Re-show the open entry so the timer picks up the new settings.
		if err := d.tracker.Restore(ctx); err != nil {
			log.Printf("Failed to apply tracking settings: %v", err)
		}
		log.Printf("Applied tracking settings (show timer %v, idle %v/%dm)", cfg.ShowTimer, cfg.IdleEnabled, cfg.IdleTimeoutMinutes)
	}

	d.applyReminder(&prev.Reminder, s.Reminder)

	if prev.Server.WebPort != s.Server.WebPort || prev.Telemetry != s.Telemetry {
		log.Println("Server and telemetry settings take effect after a restart")
	}
}

// applyReminder reconfigures the scheduler when the policy changed. A
// reconfigure resets the last-notification time, so unchanged policies are
// left alone. Caller holds d.mu.
func (d *daemon) applyReminder(prev *models.ReminderSettings, next models.ReminderSettings) {
	if prev != nil && reminderEqual(*prev, next) {
		return
	}
	p, err := reminder.FromSettings(next)
	if err != nil {
		log.Printf("Reminder disabled: %v", err)
		d.reminder.Disable()
		return
	}
	d.reminder.Configure(p)
}

// close stops everything. Safe to call more than once.
func (d *daemon) close() {
	d.closeOnce.Do(func() {
		if d.watcher != nil {
			d.watcher.Stop()
		}
		d.reminder.Disable()
		d.timer.Stop()
		d.server.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), exitTimeout)
		defer cancel()
		if n, err := d.store.StopOpenEntries(ctx); err != nil {
			log.Printf("Failed to stop open entries: %v", err)
		} else if n > 0 {
			log.Printf("Stopped %d open entries", n)
		}

		if err := d.telemetry.Close(); err != nil {
			log.Printf("Failed to flush telemetry: %v", err)
		}
		if err := d.store.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
			log.Printf("Failed to close store: %v", err)
		}
		if err := config.RemoveDaemonInfo(); err != nil {
			log.Printf("Failed to remove daemon info: %v", err)
		}
	})
}

func trackerConfig(s *models.Settings) tracker.Config {
	return tracker.Config{
		ShowTimer:          s.Tray.ShowTimer,
		IdleEnabled:        s.Idle.Enabled,
		IdleTimeoutMinutes: s.Idle.TimeoutMinutes,
	}
}

// fontPaths puts user-configured fonts ahead of the platform defaults.
func fontPaths(s *models.Settings) []string {
	return append(slices.Clone(s.Fonts.Paths), glyph.SearchPaths()...)
}

func reminderEqual(a, b models.ReminderSettings) bool {
	return a.Enabled == b.Enabled &&
		a.IntervalMinutes == b.IntervalMinutes &&
		a.Start == b.Start &&
		a.End == b.End &&
		slices.Equal(a.Weekdays, b.Weekdays) &&
		a.Title == b.Title &&
		a.Message == b.Message
}
