package timer

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fremvaerk/horalis/internal/daemon/events"
	"github.com/fremvaerk/horalis/internal/daemon/idle"
)

type recordingDisplay struct {
	mu     sync.Mutex
	labels []string
	err    error
}

func (d *recordingDisplay) SetLabel(text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.labels = append(d.labels, text)
	return d.err
}

func (d *recordingDisplay) all() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.labels...)
}

type recordingEmitter struct {
	mu  sync.Mutex
	evs []events.Event
}

func (r *recordingEmitter) Emit(ev events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.evs = append(r.evs, ev)
}

func (r *recordingEmitter) all() []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]events.Event(nil), r.evs...)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// newTestEngine returns an engine whose loop never wakes on its own, so
// tests drive it through tick.
func newTestEngine(q idle.Querier) (*Engine, *recordingDisplay, *recordingEmitter, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)}
	display := &recordingDisplay{}
	em := &recordingEmitter{}
	e := New(display, q, em, Options{
		PollInterval:   time.Hour,
		SleepThreshold: 30 * time.Second,
		Now:            clock.Now,
	})
	return e, display, em, clock
}

func currentGen(e *Engine) uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gen
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{0, "0:00"},
		{59, "0:00"},
		{60, "0:01"},
		{3599, "0:59"},
		{3600, "1:00"},
		{3661, "1:01"},
		{3600 * 25, "25:00"},
		{-30, "0:00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatElapsed(tt.seconds), "seconds=%d", tt.seconds)
	}
}

func TestOptionsDefaults(t *testing.T) {
	o := Options{}.withDefaults()
	assert.Equal(t, DefaultPollInterval, o.PollInterval)
	assert.Equal(t, 30*time.Second, o.SleepThreshold)
	assert.NotNil(t, o.Now)

	o = Options{PollInterval: time.Second}.withDefaults()
	assert.Equal(t, 3*time.Second, o.SleepThreshold)
}

func TestStartRendersImmediately(t *testing.T) {
	e, display, _, clock := newTestEngine(nil)
	start := clock.Now().Add(-(61*time.Minute + 5*time.Second)).UnixMilli()

	e.Start(StartOptions{StartMs: start})
	defer e.Stop()

	assert.Equal(t, []string{"1:01"}, display.all())
	sess, ok := e.Status()
	require.True(t, ok)
	assert.Equal(t, start, sess.StartMs)
	assert.Equal(t, 5*time.Minute, sess.IdleTimeout, "timeout defaults to five minutes")
	assert.True(t, e.Running())
}

func TestTickRendersOnlyOnMinuteChange(t *testing.T) {
	e, display, em, clock := newTestEngine(nil)
	e.Start(StartOptions{StartMs: clock.Now().UnixMilli()})
	defer e.Stop()
	gen := currentGen(e)

	clock.Advance(10 * time.Second)
	assert.True(t, e.tick(gen))
	clock.Advance(10 * time.Second)
	assert.True(t, e.tick(gen))
	assert.Equal(t, []string{"0:00"}, display.all())

	for i := 0; i < 4; i++ {
		clock.Advance(10 * time.Second)
		assert.True(t, e.tick(gen))
	}
	assert.Equal(t, []string{"0:00", "0:01"}, display.all())
	assert.Empty(t, em.all())
}

func TestStopTwiceIsNoop(t *testing.T) {
	e, display, em, clock := newTestEngine(nil)
	e.Start(StartOptions{StartMs: clock.Now().UnixMilli()})

	assert.True(t, e.Stop())
	assert.False(t, e.Stop())
	assert.Equal(t, []string{"0:00", ""}, display.all())
	assert.Empty(t, em.all())
	assert.False(t, e.Running())
}

func TestStopEndsLoop(t *testing.T) {
	e, _, _, clock := newTestEngine(nil)
	e.Start(StartOptions{StartMs: clock.Now().UnixMilli()})
	gen := currentGen(e)
	e.Stop()

	clock.Advance(10 * time.Second)
	assert.False(t, e.tick(gen))
}

func TestStartSupersedesPreviousLoop(t *testing.T) {
	e, display, _, clock := newTestEngine(nil)
	first := clock.Now().Add(-3 * time.Hour).UnixMilli()
	second := clock.Now().UnixMilli()

	e.Start(StartOptions{StartMs: first})
	oldGen := currentGen(e)
	e.Start(StartOptions{StartMs: second})
	newGen := currentGen(e)
	defer e.Stop()
	require.NotEqual(t, oldGen, newGen)

	clock.Advance(10 * time.Second)
	assert.False(t, e.tick(oldGen), "superseded loop exits")
	assert.Equal(t, []string{"3:00", "0:00"}, display.all(), "superseded loop never renders")

	for i := 0; i < 5; i++ {
		assert.True(t, e.tick(newGen))
		clock.Advance(10 * time.Second)
	}
	assert.True(t, e.tick(newGen))
	assert.Equal(t, []string{"3:00", "0:00", "0:01"}, display.all())
}

func TestSleepDetection(t *testing.T) {
	tests := []struct {
		name  string
		gap   time.Duration
		sleep bool
	}{
		{"normal wake", 10 * time.Second, false},
		{"late wake below threshold", 29 * time.Second, false},
		{"exactly threshold", 30 * time.Second, true},
		{"long suspend", 2 * time.Hour, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, display, em, clock := newTestEngine(nil)
			e.Start(StartOptions{StartMs: clock.Now().UnixMilli()})
			defer e.Stop()
			gen := currentGen(e)

			clock.Advance(tt.gap)
			keepGoing := e.tick(gen)

			if !tt.sleep {
				assert.True(t, keepGoing)
				assert.Empty(t, em.all())
				assert.True(t, e.Running())
				return
			}
			assert.False(t, keepGoing)
			evs := em.all()
			require.Len(t, evs, 1)
			assert.Equal(t, events.SystemSleep, evs[0].Type)
			assert.Equal(t, int64(tt.gap/time.Second), evs[0].Seconds)
			assert.False(t, e.Running())
			labels := display.all()
			assert.Equal(t, "", labels[len(labels)-1])

			// The loop is gone: a further wake neither emits nor renders.
			clock.Advance(tt.gap)
			assert.False(t, e.tick(gen))
			assert.Len(t, em.all(), 1)
			assert.Equal(t, labels, display.all())
		})
	}
}

func TestIdleTimeout(t *testing.T) {
	idleFor := 4 * time.Minute
	var mu sync.Mutex
	q := idle.Func(func() (time.Duration, error) {
		mu.Lock()
		defer mu.Unlock()
		return idleFor, nil
	})

	e, display, em, clock := newTestEngine(q)
	e.Start(StartOptions{StartMs: clock.Now().UnixMilli(), IdleEnabled: true, IdleTimeoutMinutes: 5})
	defer e.Stop()
	gen := currentGen(e)

	clock.Advance(10 * time.Second)
	assert.True(t, e.tick(gen), "below the timeout")
	assert.Empty(t, em.all())

	mu.Lock()
	idleFor = 5*time.Minute + 30*time.Second
	mu.Unlock()
	clock.Advance(10 * time.Second)
	assert.False(t, e.tick(gen))

	evs := em.all()
	require.Len(t, evs, 1)
	assert.Equal(t, events.IdleTimeout, evs[0].Type)
	assert.Equal(t, int64(330), evs[0].Seconds)
	assert.False(t, e.Running())
	assert.Equal(t, []string{"0:00", ""}, display.all())
}

func TestIdleDisabledNeverQueries(t *testing.T) {
	q := idle.Func(func() (time.Duration, error) {
		t.Error("idle queried with detection disabled")
		return time.Hour, nil
	})
	e, _, em, clock := newTestEngine(q)
	e.Start(StartOptions{StartMs: clock.Now().UnixMilli(), IdleEnabled: false})
	defer e.Stop()

	clock.Advance(10 * time.Second)
	assert.True(t, e.tick(currentGen(e)))
	assert.Empty(t, em.all())
}

func TestIdleQueryFailureFailsOpen(t *testing.T) {
	q := idle.Func(func() (time.Duration, error) {
		return 0, idle.ErrUnsupported
	})
	e, _, em, clock := newTestEngine(q)
	e.Start(StartOptions{StartMs: clock.Now().UnixMilli(), IdleEnabled: true})
	defer e.Stop()

	clock.Advance(10 * time.Second)
	assert.True(t, e.tick(currentGen(e)))
	assert.Empty(t, em.all())
	assert.True(t, e.Running())
}

func TestSleepCheckedBeforeIdle(t *testing.T) {
	q := idle.Func(func() (time.Duration, error) {
		return time.Hour, nil
	})
	e, _, em, clock := newTestEngine(q)
	e.Start(StartOptions{StartMs: clock.Now().UnixMilli(), IdleEnabled: true, IdleTimeoutMinutes: 1})
	defer e.Stop()

	clock.Advance(time.Hour)
	assert.False(t, e.tick(currentGen(e)))

	evs := em.all()
	require.Len(t, evs, 1)
	assert.Equal(t, events.SystemSleep, evs[0].Type)
}

func TestRenderErrorsAreSwallowed(t *testing.T) {
	e, display, _, clock := newTestEngine(nil)
	display.err = errors.New("tray gone")

	e.Start(StartOptions{StartMs: clock.Now().UnixMilli()})
	gen := currentGen(e)
	for i := 0; i < 6; i++ {
		clock.Advance(10 * time.Second)
		assert.True(t, e.tick(gen))
	}
	assert.True(t, e.Stop())
	assert.Len(t, display.all(), 3)
}

func TestLoopDetectsIdleLive(t *testing.T) {
	bus := events.NewBus()
	ch, unsub := bus.Subscribe(4)
	defer unsub()

	q := idle.Func(func() (time.Duration, error) { return time.Hour, nil })
	e := New(&recordingDisplay{}, q, bus, Options{
		PollInterval:   5 * time.Millisecond,
		SleepThreshold: time.Hour,
	})
	e.Start(StartOptions{StartMs: time.Now().UnixMilli(), IdleEnabled: true})

	select {
	case ev := <-ch:
		assert.Equal(t, events.IdleTimeout, ev.Type)
	case <-time.After(2 * time.Second):
		t.Fatal("loop never reported idle")
	}
	assert.Eventually(t, func() bool { return !e.Running() }, time.Second, 5*time.Millisecond)
	assert.False(t, e.Stop())
}
