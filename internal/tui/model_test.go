package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/fremvaerk/horalis/internal/api"
)

type fakeClient struct {
	status  *api.DaemonStatus
	stopped int64
}

func (f *fakeClient) GetStatus(context.Context) (*api.DaemonStatus, error) {
	return f.status, nil
}

func (f *fakeClient) StopTracking(context.Context) (*api.StopResult, error) {
	return &api.StopResult{Stopped: f.stopped}, nil
}

func (f *fakeClient) Subscribe(ctx context.Context, fn func(*api.Event) error) error {
	<-ctx.Done()
	return nil
}

func newTestModel(t *testing.T) (Model, *fakeClient) {
	t.Helper()
	c := &fakeClient{status: &api.DaemonStatus{Version: "1.2.0"}}
	m := NewModel(c, &programRef{})
	t.Cleanup(m.streamCancel)
	m.now = func() time.Time { return time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC) }
	return m, c
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

func TestStatusSubscribesOnce(t *testing.T) {
	m, c := newTestModel(t)

	m, cmd := update(t, m, StatusMsg{Status: c.status})
	require.NotNil(t, cmd)
	assert.True(t, m.connected)
	assert.True(t, m.subscribed)
	assert.IsType(t, SubscribedMsg{}, cmd())

	_, cmd = update(t, m, StatusMsg{Status: c.status})
	assert.Nil(t, cmd)
}

func TestEventsAreCapped(t *testing.T) {
	m, _ := newTestModel(t)
	for i := 0; i < maxEvents+5; i++ {
		var cmd tea.Cmd
		m, cmd = update(t, m, EventMsg{Event: &api.Event{Type: "reminder", AtMs: int64(i)}})
		assert.NotNil(t, cmd, "each event refreshes the status")
	}
	require.Len(t, m.events, maxEvents)
	assert.Equal(t, int64(5), m.events[0].AtMs)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	assert.Empty(t, m.events)
}

func TestQuitCancelsStream(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Error(t, m.streamCtx.Err())
}

func TestStopKeyCallsDaemon(t *testing.T) {
	m, c := newTestModel(t)
	c.stopped = 1
	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	require.NotNil(t, cmd)
	assert.Equal(t, StoppedMsg{Stopped: 1}, cmd())
}

func TestReconnectIsScheduledOnce(t *testing.T) {
	m, _ := newTestModel(t)
	m.connected = true
	m.subscribed = true

	m, cmd := update(t, m, StreamEndedMsg{Err: status.Error(codes.Unavailable, "gone")})
	assert.NotNil(t, cmd)
	assert.False(t, m.connected)
	assert.False(t, m.subscribed)

	m, cmd = update(t, m, DaemonDisconnectedMsg{})
	assert.Nil(t, cmd)

	m, cmd = update(t, m, ReconnectMsg{})
	assert.NotNil(t, cmd)
	assert.False(t, m.reconnecting)
}

func TestStreamErrorIsShown(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = update(t, m, StreamEndedMsg{Err: errors.New("bad frame")})
	assert.EqualError(t, m.err, "bad frame")
	assert.Contains(t, m.View(), "bad frame")

	m, _ = update(t, m, ClearErrorMsg{})
	assert.NoError(t, m.err)
}

func TestViewShowsTracking(t *testing.T) {
	m, _ := newTestModel(t)
	start := m.now().Add(-25 * time.Minute).UnixMilli()
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	m.status = &api.DaemonStatus{
		Version:      "1.2.0",
		Tracking:     &api.Entry{ProjectName: "Work", ProjectColor: "#22C55E", StartTimeMs: start},
		TodaySeconds: 3600,
		WeekSeconds:  7200,
	}
	m.connected = true

	view := m.View()
	assert.Contains(t, view, "Work")
	assert.Contains(t, view, "0:25")
	assert.Contains(t, view, "1:25", "today includes the running entry")
	assert.Contains(t, view, "2:25", "week includes the running entry")
	assert.Contains(t, view, "Connected")
	assert.Contains(t, view, "No events yet.")
}

func TestViewNotTracking(t *testing.T) {
	m, _ := newTestModel(t)
	m.status = &api.DaemonStatus{}
	view := m.View()
	assert.Contains(t, view, "Not tracking")
	assert.Contains(t, view, "Disconnected")
}

func TestFormatEvent(t *testing.T) {
	line := formatEvent(&api.Event{Type: "idle-timeout", Seconds: 600})
	assert.Contains(t, line, "idle-timeout")
	assert.Contains(t, line, "idle for 0:10")

	line = formatEvent(&api.Event{Type: "reminder", Message: "Start a timer?"})
	assert.Contains(t, line, "Start a timer?")
}
