// Package server implements the gRPC server for the daemon.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"google.golang.org/grpc"

	"github.com/fremvaerk/horalis/internal/api"
	"github.com/fremvaerk/horalis/internal/daemon/events"
	"github.com/fremvaerk/horalis/internal/daemon/reminder"
	"github.com/fremvaerk/horalis/internal/daemon/timer"
	"github.com/fremvaerk/horalis/internal/daemon/tracker"
	"github.com/fremvaerk/horalis/internal/daemon/tray"
	"github.com/fremvaerk/horalis/internal/store"
)

// DefaultHost is the only interface the daemon listens on.
const DefaultHost = "127.0.0.1"

// Options configures the listeners.
type Options struct {
	// Port for native gRPC. 0 picks a free port.
	Port int
	// WebPort serves gRPC-web, h2c gRPC and /metrics. 0 disables it.
	WebPort int
	// AllowedOrigins for gRPC-web. Empty allows any origin.
	AllowedOrigins []string
}

// Deps are the daemon components the service drives.
type Deps struct {
	Timer    *timer.Engine
	Reminder *reminder.Scheduler
	Surface  *tray.Surface
	Tracker  *tracker.Tracker
	Store    *store.Store
	Bus      *events.Bus
	// Shutdown asks the daemon to exit. Called from its own goroutine.
	Shutdown func()
}

// Server is the daemon's gRPC server.
type Server struct {
	grpcServer *grpc.Server
	listener   net.Listener
	port       int

	web         *http.Server
	webListener net.Listener
	webPort     int

	startedAt   time.Time
	done        chan struct{}
	stopOnce    sync.Once
	updateState UpdateState
}

// New creates a server listening on 127.0.0.1.
func New(opts Options, deps Deps) (*Server, error) {
	listener, err := (&net.ListenConfig{}).Listen(context.TODO(), "tcp", net.JoinHostPort(DefaultHost, strconv.Itoa(opts.Port)))
	if err != nil {
		return nil, fmt.Errorf("failed to listen: %w", err)
	}

	srv := newServer(listener, deps)

	if opts.WebPort > 0 {
		webListener, err := (&net.ListenConfig{}).Listen(context.TODO(), "tcp", net.JoinHostPort(DefaultHost, strconv.Itoa(opts.WebPort)))
		if err != nil {
			listener.Close()
			return nil, fmt.Errorf("failed to listen for web clients: %w", err)
		}
		srv.webListener = webListener
		srv.webPort = webListener.Addr().(*net.TCPAddr).Port
		srv.web = &http.Server{
			Handler:           newWebHandler(srv.grpcServer, opts.AllowedOrigins),
			ReadHeaderTimeout: 10 * time.Second,
		}
	}

	return srv, nil
}

func newServer(listener net.Listener, deps Deps) *Server {
	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(recoverUnary, metricsUnary),
		grpc.ChainStreamInterceptor(metricsStream),
	)

	srv := &Server{
		grpcServer: grpcServer,
		listener:   listener,
		startedAt:  time.Now(),
		done:       make(chan struct{}),
	}
	if addr, ok := listener.Addr().(*net.TCPAddr); ok {
		srv.port = addr.Port
	}

	api.RegisterTrayServiceServer(grpcServer, &trayService{deps: deps, server: srv})
	return srv
}

// Port returns the port the server is listening on.
func (s *Server) Port() int {
	return s.port
}

// WebPort returns the web listener's port, or 0 when it is disabled.
func (s *Server) WebPort() int {
	return s.webPort
}

// Serve starts serving requests. This blocks until Stop is called.
func (s *Server) Serve() error {
	if s.web != nil {
		go func() {
			log.Printf("[server] Web listener on %s", s.webListener.Addr())
			if err := s.web.Serve(s.webListener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("[server] Web listener stopped: %v", err)
			}
		}()
	}
	return s.grpcServer.Serve(s.listener)
}

// Stop ends event streams and gracefully stops both listeners.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
		if s.web != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = s.web.Shutdown(ctx)
		}
		s.grpcServer.GracefulStop()
	})
}

// TrayState adapts a Server to the tray.DaemonState interface.
type TrayState struct {
	srv      *Server
	shutdown func()
}

// NewTrayState creates a TrayState for the given server.
func NewTrayState(srv *Server, shutdown func()) *TrayState {
	return &TrayState{srv: srv, shutdown: shutdown}
}

// Port returns the port the server is listening on.
func (t *TrayState) Port() int {
	return t.srv.Port()
}

// RequestShutdown asks the daemon to exit.
func (t *TrayState) RequestShutdown() {
	if t.shutdown != nil {
		t.shutdown()
	}
}
