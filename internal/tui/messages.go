package tui

import "github.com/fremvaerk/horalis/internal/api"

// StatusMsg carries the reply of GetStatus.
type StatusMsg struct {
	Status *api.DaemonStatus
}

// EventMsg carries one event from the Subscribe stream.
type EventMsg struct {
	Event *api.Event
}

// SubscribedMsg signals the event stream is open.
type SubscribedMsg struct{}

// StreamEndedMsg signals the event stream closed.
type StreamEndedMsg struct {
	Err error
}

// DaemonDisconnectedMsg signals the daemon connection was lost.
type DaemonDisconnectedMsg struct{}

// StoppedMsg reports how many entries StopTracking closed.
type StoppedMsg struct {
	Stopped int64
}

// ErrorMsg carries an error to display.
type ErrorMsg struct {
	Err error
}

// TickMsg advances the elapsed-time display.
type TickMsg struct{}

// ClearErrorMsg clears the error display.
type ClearErrorMsg struct{}

// ReconnectMsg triggers a reconnection attempt.
type ReconnectMsg struct{}
