// Package main is the entry point for the horalisd daemon.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/fremvaerk/horalis/internal/config"
	"github.com/fremvaerk/horalis/internal/daemon/events"
	"github.com/fremvaerk/horalis/internal/daemon/tray"
)

func main() {
	foreground := flag.Bool("foreground", false, "Run in foreground (no system tray)")
	port := flag.Int("port", 0, "Port to listen on (0 for dynamic allocation)")
	version := flag.Bool("version", false, "Print version information and exit")
	flag.Parse()

	if *version {
		printVersion(os.Stdout)
		return
	}

	log.SetPrefix("[horalisd] ")
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	if err := config.EnsureGlobalDir(); err != nil {
		log.Fatalf("Failed to create global directory: %v", err)
	}

	running, info, err := config.IsDaemonRunning()
	if err != nil {
		log.Fatalf("Failed to check daemon status: %v", err)
	}
	if running {
		log.Fatalf("Daemon already running on port %d (PID %d)", info.Port, info.PID)
	}

	if *foreground {
		log.Println("Running in foreground mode (no system tray)")
		runForeground(*port)
	} else {
		// Spawned daemons have no terminal; keep a log file as well.
		if f, err := config.OpenDaemonLog(); err == nil {
			defer f.Close()
			log.SetOutput(io.MultiWriter(os.Stderr, f))
		} else {
			log.Printf("Failed to open log file: %v", err)
		}
		log.Println("Running in background mode (with system tray)")
		runWithTray(*port)
	}
}

// runForeground runs the daemon without a system tray, blocking on signals.
func runForeground(port int) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	d, err := newDaemon(port, tray.NewLogBackend(), events.NewBus(), stop)
	if err != nil {
		log.Fatalf("Failed to start daemon: %v", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- d.run(ctx)
	}()

	select {
	case <-ctx.Done():
		log.Println("Shutting down...")
	case err := <-errCh:
		log.Printf("Server error: %v", err)
	}

	d.close()
	fmt.Println("Daemon stopped")
}

// runWithTray runs the daemon with a system tray icon on the main goroutine.
// systray.Run must occupy the main goroutine on macOS (Cocoa requirement).
func runWithTray(port int) {
	var current atomic.Pointer[daemon]
	ctx, cancel := context.WithCancel(context.Background())
	bus := events.NewBus()

	onStart := func() {
		d, err := newDaemon(port, tray.SystrayBackend(), bus, tray.Quit)
		if err != nil {
			log.Printf("Failed to start daemon: %v", err)
			tray.Quit()
			return
		}
		current.Store(d)

		go func() {
			if err := d.run(ctx); err != nil {
				log.Printf("Server error: %v", err)
			}
			tray.Quit()
		}()

		// Quit the tray on SIGINT/SIGTERM
		go func() {
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			sig := <-sigCh
			log.Printf("Received signal %v, shutting down...", sig)
			tray.Quit()
		}()
	}

	onExit := func() {
		cancel()
		if d := current.Load(); d != nil {
			d.close()
		}
		fmt.Println("Daemon stopped")
	}

	// The tray needs a DaemonState before the daemon exists.
	lazyState := &lazyDaemonState{get: current.Load}

	// This blocks the main goroutine until tray exits.
	tray.Run(lazyState, bus, onStart, onExit)
}

// lazyDaemonState defers to the daemon once onStart has built it.
type lazyDaemonState struct {
	get func() *daemon
}

func (l *lazyDaemonState) Port() int {
	if d := l.get(); d != nil {
		return d.trayState().Port()
	}
	return 0
}

func (l *lazyDaemonState) RequestShutdown() {
	if d := l.get(); d != nil {
		d.trayState().RequestShutdown()
		return
	}
	tray.Quit()
}
