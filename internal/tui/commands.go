package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/fremvaerk/horalis/internal/api"
)

const requestTimeout = 5 * time.Second

func fetchStatusCmd(c Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		st, err := c.GetStatus(ctx)
		if err != nil {
			if isConnectionLost(err) {
				return DaemonDisconnectedMsg{}
			}
			return ErrorMsg{Err: fmt.Errorf("failed to load status: %w", err)}
		}
		return StatusMsg{Status: st}
	}
}

func stopTrackingCmd(c Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		res, err := c.StopTracking(ctx)
		if err != nil {
			return ErrorMsg{Err: fmt.Errorf("failed to stop: %w", err)}
		}
		return StoppedMsg{Stopped: res.Stopped}
	}
}

// subscribeCmd opens the event stream and forwards events to the program
// from a goroutine until ctx is cancelled or the stream ends.
func subscribeCmd(ctx context.Context, c Client, program *programRef) tea.Cmd {
	return func() tea.Msg {
		go func() {
			err := c.Subscribe(ctx, func(ev *api.Event) error {
				program.Send(EventMsg{Event: ev})
				return nil
			})
			if ctx.Err() != nil {
				return
			}
			if err != nil && isConnectionLost(err) {
				program.Send(DaemonDisconnectedMsg{})
				return
			}
			program.Send(StreamEndedMsg{Err: err})
		}()
		return SubscribedMsg{}
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

func clearErrorAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(_ time.Time) tea.Msg {
		return ClearErrorMsg{}
	})
}

func reconnectTick() tea.Cmd {
	return tea.Tick(3*time.Second, func(_ time.Time) tea.Msg {
		return ReconnectMsg{}
	})
}

// isConnectionLost checks if a gRPC error indicates the server is gone.
func isConnectionLost(err error) bool {
	if errors.Is(err, context.Canceled) {
		return true
	}
	code := status.Code(err)
	return code == codes.Unavailable || code == codes.Canceled
}
