package server

import (
	"context"
	"errors"
	"net"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/fremvaerk/horalis/internal/api"
	"github.com/fremvaerk/horalis/internal/daemon/events"
	"github.com/fremvaerk/horalis/internal/daemon/reminder"
	"github.com/fremvaerk/horalis/internal/daemon/timer"
	"github.com/fremvaerk/horalis/internal/daemon/tracker"
	"github.com/fremvaerk/horalis/internal/daemon/tray"
	"github.com/fremvaerk/horalis/internal/glyph"
	"github.com/fremvaerk/horalis/internal/icon"
	"github.com/fremvaerk/horalis/internal/store"
)

type nopNotifier struct{}

func (nopNotifier) Notify(string, string) error { return nil }

type harness struct {
	client   *api.Client
	server   *Server
	deps     Deps
	shutdown chan struct{}
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "horalis.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	bus := events.NewBus()
	surface := tray.NewSurface(tray.NewLogBackend(), icon.NewRenderer(glyph.NewBitmapSource()))
	tm := timer.New(surface, nil, bus, timer.Options{PollInterval: time.Hour})
	t.Cleanup(func() { tm.Stop() })
	tr := tracker.New(st, tm, surface, nil, tracker.Config{ShowTimer: true})
	rem := reminder.New(nopNotifier{}, tr.Tracking, bus, reminder.Options{PollInterval: time.Hour})
	t.Cleanup(rem.Disable)

	h := &harness{shutdown: make(chan struct{})}
	var once sync.Once
	h.deps = Deps{
		Timer:    tm,
		Reminder: rem,
		Surface:  surface,
		Tracker:  tr,
		Store:    st,
		Bus:      bus,
		Shutdown: func() { once.Do(func() { close(h.shutdown) }) },
	}

	lis := bufconn.Listen(1 << 20)
	h.server = newServer(lis, h.deps)
	go func() { _ = h.server.Serve() }()
	t.Cleanup(h.server.Stop)

	h.client, err = api.Dial("passthrough:///bufnet", grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	}))
	require.NoError(t, err)
	t.Cleanup(func() { h.client.Close() })
	return h
}

func ctx(t *testing.T) context.Context {
	t.Helper()
	c, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return c
}

func TestStartAndGetTimer(t *testing.T) {
	h := newHarness(t)
	start := time.Now().Add(-65 * time.Minute).UnixMilli()

	st, err := h.client.StartTimer(ctx(t), &api.StartTimerRequest{StartTimeMs: start, IdleEnabled: true})
	require.NoError(t, err)
	assert.True(t, st.Running)
	assert.Equal(t, start, st.StartTimeMs)
	assert.Equal(t, "1:05", st.Label)
	assert.True(t, st.IdleEnabled)
	assert.Equal(t, timer.DefaultIdleTimeoutMinutes, st.IdleTimeoutMinutes)

	got, err := h.client.GetTimer(ctx(t))
	require.NoError(t, err)
	assert.Equal(t, start, got.StartTimeMs)
	assert.Equal(t, "1:05", h.deps.Surface.Snapshot().Label)

	stopped, err := h.client.StopTimer(ctx(t))
	require.NoError(t, err)
	assert.False(t, stopped.Running)
	assert.Empty(t, h.deps.Surface.Snapshot().Label)
}

func TestStartTimerZeroMeansNow(t *testing.T) {
	h := newHarness(t)
	before := time.Now().UnixMilli()

	st, err := h.client.StartTimer(ctx(t), &api.StartTimerRequest{})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, st.StartTimeMs, before)
	assert.Equal(t, "0:00", st.Label)
}

func TestSurfaceCommands(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.client.SetStatusLabel(ctx(t), "0:42"))
	require.NoError(t, h.client.SetStatusColor(ctx(t), "#FF0000", "Work"))
	snap := h.deps.Surface.Snapshot()
	assert.Equal(t, "0:42", snap.Label)
	assert.Equal(t, "#FF0000", snap.Color)
	assert.Equal(t, "Work", snap.Name)

	require.NoError(t, h.client.ClearStatusLabel(ctx(t)))
	require.NoError(t, h.client.ResetStatusIcon(ctx(t)))
	snap = h.deps.Surface.Snapshot()
	assert.Empty(t, snap.Label)
	assert.Equal(t, icon.NeutralColor, snap.Color)

	err := h.client.UpdateMenu(ctx(t), &api.MenuRequest{
		Projects: []api.MenuProject{{ID: 7, Name: "Side", Color: "#00FF00"}},
		Running:  true,
	})
	require.NoError(t, err)
	snap = h.deps.Surface.Snapshot()
	assert.True(t, snap.Running)
	assert.Equal(t, []tray.ProjectItem{{ID: 7, Name: "Side", Color: "#00FF00"}}, snap.Projects)
}

func TestReminderValidation(t *testing.T) {
	h := newHarness(t)

	tests := []struct {
		name string
		req  *api.ReminderRequest
	}{
		{"weekday too large", &api.ReminderRequest{Enabled: true, IntervalMinutes: 30, Weekdays: []int{7}}},
		{"weekday negative", &api.ReminderRequest{Enabled: true, IntervalMinutes: 30, Weekdays: []int{-1}}},
		{"zero interval", &api.ReminderRequest{Enabled: true, Weekdays: []int{1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.client.StartReminder(ctx(t), tt.req)
			assert.Equal(t, codes.InvalidArgument, status.Code(err))
		})
	}

	// A disabled policy doesn't need an interval.
	st, err := h.client.StartReminder(ctx(t), &api.ReminderRequest{Enabled: false})
	require.NoError(t, err)
	assert.False(t, st.Enabled)
}

func TestReminderLifecycle(t *testing.T) {
	h := newHarness(t)

	st, err := h.client.StartReminder(ctx(t), &api.ReminderRequest{
		Enabled:         true,
		IntervalMinutes: 30,
		Start:           "09:00",
		End:             "17:00",
		Weekdays:        []int{1, 2, 3, 4, 5},
	})
	require.NoError(t, err)
	assert.True(t, st.Enabled)
	assert.Equal(t, 30, st.IntervalMinutes)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, st.Weekdays)

	got, err := h.client.GetReminder(ctx(t))
	require.NoError(t, err)
	assert.Equal(t, "17:00", got.End)

	st, err = h.client.StopReminder(ctx(t))
	require.NoError(t, err)
	assert.False(t, st.Enabled)
}

func TestProjectsAndTracking(t *testing.T) {
	h := newHarness(t)

	projects, err := h.client.ListProjects(ctx(t))
	require.NoError(t, err)
	assert.Len(t, projects, 5)

	p, err := h.client.CreateProject(ctx(t), "Client Alpha", "#123456")
	require.NoError(t, err)
	assert.Equal(t, "Client Alpha", p.Name)
	assert.Len(t, h.deps.Surface.Snapshot().Projects, 6)

	_, err = h.client.CreateProject(ctx(t), "", "")
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	entry, err := h.client.TrackProject(ctx(t), p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, entry.ProjectID)
	assert.Zero(t, entry.EndTimeMs)
	assert.Equal(t, "#123456", h.deps.Surface.Snapshot().Color)

	ds, err := h.client.GetStatus(ctx(t))
	require.NoError(t, err)
	require.NotNil(t, ds.Tracking)
	assert.Equal(t, entry.ID, ds.Tracking.ID)
	assert.True(t, ds.Timer.Running)

	res, err := h.client.StopTracking(ctx(t))
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.Stopped)
	assert.Equal(t, icon.NeutralColor, h.deps.Surface.Snapshot().Color)

	_, err = h.client.TrackProject(ctx(t), 9999)
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestListEntriesAndWeekTotal(t *testing.T) {
	h := newHarness(t)
	st := h.deps.Store

	projects, err := st.ListProjects(ctx(t))
	require.NoError(t, err)
	base := time.Now().Add(-3 * time.Hour).Truncate(time.Second)
	for i := 0; i < 3; i++ {
		start := base.Add(time.Duration(i) * 40 * time.Minute)
		_, err := st.StartEntry(ctx(t), projects[i].ID, start)
		require.NoError(t, err)
		_, err = st.StopOpenEntriesAt(ctx(t), start.Add(10*time.Minute))
		require.NoError(t, err)
	}

	entries, err := h.client.ListEntries(ctx(t), 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, projects[2].ID, entries[0].ProjectID)
	assert.Equal(t, base.Add(80*time.Minute).UnixMilli(), entries[0].StartTimeMs)
	assert.EqualValues(t, 600, entries[0].DurationSeconds)
	assert.NotZero(t, entries[0].EndTimeMs)

	entries, err = h.client.ListEntries(ctx(t), 1)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	ds, err := h.client.GetStatus(ctx(t))
	require.NoError(t, err)
	assert.EqualValues(t, 1800, ds.WeekSeconds)
	assert.LessOrEqual(t, ds.TodaySeconds, ds.WeekSeconds)
}

func TestSubscribeDeliversEvents(t *testing.T) {
	h := newHarness(t)
	subCtx, cancel := context.WithCancel(ctx(t))
	defer cancel()

	got := make(chan *api.Event, 1)
	done := make(chan error, 1)
	go func() {
		done <- h.client.Subscribe(subCtx, func(ev *api.Event) error {
			got <- ev
			return errStop
		})
	}()

	require.Eventually(t, func() bool { return h.deps.Bus.Subscribers() == 1 }, 5*time.Second, 10*time.Millisecond)
	h.deps.Bus.Emit(events.Event{Type: events.StartProjectTimer, ProjectID: 3})

	select {
	case ev := <-got:
		assert.Equal(t, string(events.StartProjectTimer), ev.Type)
		assert.EqualValues(t, 3, ev.ProjectID)
		assert.NotZero(t, ev.AtMs)
	case <-time.After(5 * time.Second):
		t.Fatal("no event received")
	}
	assert.ErrorIs(t, <-done, errStop)
	require.Eventually(t, func() bool { return h.deps.Bus.Subscribers() == 0 }, 5*time.Second, 10*time.Millisecond)
}

var errStop = errors.New("stop")

func TestStopEndsSubscriptions(t *testing.T) {
	h := newHarness(t)

	done := make(chan error, 1)
	go func() {
		done <- h.client.Subscribe(ctx(t), func(*api.Event) error { return nil })
	}()
	require.Eventually(t, func() bool { return h.deps.Bus.Subscribers() == 1 }, 5*time.Second, 10*time.Millisecond)

	h.server.Stop()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("subscription outlived the server")
	}
}

func TestShutdownRequest(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.client.Shutdown(ctx(t)))
	select {
	case <-h.shutdown:
	case <-time.After(5 * time.Second):
		t.Fatal("shutdown was not requested")
	}
}

func TestReminderPolicyConversion(t *testing.T) {
	p, err := reminderPolicy(&api.ReminderRequest{
		Enabled:         true,
		IntervalMinutes: 45,
		Weekdays:        []int{0, 6},
	})
	require.NoError(t, err)
	assert.Equal(t, 45*time.Minute, p.Interval)
	assert.Equal(t, []time.Weekday{time.Sunday, time.Saturday}, p.Weekdays)
}

func TestOriginAllowed(t *testing.T) {
	assert.True(t, originAllowed(nil)("http://anything"))
	allow := originAllowed([]string{"tauri://localhost"})
	assert.True(t, allow("tauri://localhost"))
	assert.False(t, allow("http://evil.test"))
}
