package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "horalis.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenSeedsDefaultProjects(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	projects, err := s.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 5)

	names := map[string]string{}
	for _, p := range projects {
		names[p.Name] = p.Color
		assert.False(t, p.CreatedAt.IsZero())
	}
	assert.Equal(t, "#3B82F6", names["Work"])
	assert.Equal(t, "#8B5CF6", names["Side Project"])
	// Ordered by name.
	assert.Equal(t, "Health", projects[0].Name)
}

func TestOpenDoesNotReseed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "horalis.db")
	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.CreateProject(context.Background(), "Extra", "#000000")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	projects, err := s.ListProjects(context.Background())
	require.NoError(t, err)
	assert.Len(t, projects, 6)
}

func TestCreateProject(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	p, err := s.CreateProject(ctx, "  Reading ", "")
	require.NoError(t, err)
	assert.Equal(t, "Reading", p.Name)
	assert.Equal(t, DefaultColor, p.Color)

	got, err := s.Project(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p, got)

	_, err = s.CreateProject(ctx, " ", "#FFFFFF")
	assert.Error(t, err)
}

func TestProjectNotFound(t *testing.T) {
	s := testStore(t)
	_, err := s.Project(context.Background(), 999)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestEntryLifecycle(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	start := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return start.Add(90 * time.Minute) }

	_, err := s.RunningEntry(ctx)
	require.ErrorIs(t, err, ErrNotFound)

	projects, err := s.ListProjects(ctx)
	require.NoError(t, err)
	work := projects[len(projects)-1]
	require.Equal(t, "Work", work.Name)

	started, err := s.StartEntry(ctx, work.ID, start)
	require.NoError(t, err)
	assert.Equal(t, "Work", started.ProjectName)

	running, err := s.RunningEntry(ctx)
	require.NoError(t, err)
	assert.Equal(t, started.ID, running.ID)
	assert.Equal(t, start, running.StartTime)
	assert.Equal(t, "#3B82F6", running.ProjectColor)
	assert.Nil(t, running.EndTime)

	n, err := s.StopOpenEntries(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = s.RunningEntry(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	recent, err := s.RecentEntries(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, int64(5400), recent[0].Duration)
	require.NotNil(t, recent[0].EndTime)
	assert.Equal(t, start.Add(90*time.Minute), *recent[0].EndTime)

	n, err = s.StopOpenEntries(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "nothing left open")
}

func TestStartEntryUnknownProject(t *testing.T) {
	s := testStore(t)
	_, err := s.StartEntry(context.Background(), 12345, time.Now())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStopOpenEntriesAtNeverNegative(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	start := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

	projects, err := s.ListProjects(ctx)
	require.NoError(t, err)
	_, err = s.StartEntry(ctx, projects[0].ID, start)
	require.NoError(t, err)

	n, err := s.StopOpenEntriesAt(ctx, start.Add(-10*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	recent, err := s.RecentEntries(ctx, 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, int64(0), recent[0].Duration)
	assert.Equal(t, start, *recent[0].EndTime)
}

func TestTodayTotal(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	now := time.Date(2024, 3, 4, 15, 0, 0, 0, time.Local)
	s.now = func() time.Time { return now }

	projects, err := s.ListProjects(ctx)
	require.NoError(t, err)
	pid := projects[0].ID

	// Yesterday's entry does not count.
	_, err = s.StartEntry(ctx, pid, now.AddDate(0, 0, -1))
	require.NoError(t, err)
	_, err = s.StopOpenEntriesAt(ctx, now.AddDate(0, 0, -1).Add(time.Hour))
	require.NoError(t, err)

	_, err = s.StartEntry(ctx, pid, now.Add(-2*time.Hour))
	require.NoError(t, err)
	_, err = s.StopOpenEntriesAt(ctx, now.Add(-time.Hour))
	require.NoError(t, err)

	// Still running: not counted until closed.
	_, err = s.StartEntry(ctx, pid, now.Add(-30*time.Minute))
	require.NoError(t, err)

	total, err := s.TodayTotal(ctx)
	require.NoError(t, err)
	assert.Equal(t, time.Hour, total)
}

func TestWeekTotal(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	now := time.Date(2024, 3, 11, 15, 0, 0, 0, time.Local)
	s.now = func() time.Time { return now }

	projects, err := s.ListProjects(ctx)
	require.NoError(t, err)
	pid := projects[0].ID

	closed := func(start time.Time, d time.Duration) {
		t.Helper()
		_, err := s.StartEntry(ctx, pid, start)
		require.NoError(t, err)
		_, err = s.StopOpenEntriesAt(ctx, start.Add(d))
		require.NoError(t, err)
	}

	// Eight days back is outside the window; seven days back at 00:30 is in.
	closed(time.Date(2024, 3, 3, 10, 0, 0, 0, time.Local), time.Hour)
	closed(time.Date(2024, 3, 4, 0, 30, 0, 0, time.Local), 30*time.Minute)
	closed(time.Date(2024, 3, 8, 9, 0, 0, 0, time.Local), 2*time.Hour)
	closed(now.Add(-time.Hour), 15*time.Minute)

	total, err := s.WeekTotal(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour+45*time.Minute, total)

	today, err := s.TodayTotal(ctx)
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, today)
}

func TestRecentEntriesNewestFirstAndLimited(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

	projects, err := s.ListProjects(ctx)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		start := base.Add(time.Duration(i) * time.Hour)
		_, err := s.StartEntry(ctx, projects[i].ID, start)
		require.NoError(t, err)
		_, err = s.StopOpenEntriesAt(ctx, start.Add(20*time.Minute))
		require.NoError(t, err)
	}
	// Open entries are not history.
	_, err = s.StartEntry(ctx, projects[0].ID, base.Add(5*time.Hour))
	require.NoError(t, err)

	entries, err := s.RecentEntries(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, base.Add(2*time.Hour), entries[0].StartTime)
	assert.Equal(t, projects[2].Name, entries[0].ProjectName)
	assert.Equal(t, int64(1200), entries[0].Duration)

	entries, err = s.RecentEntries(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 3, "zero limit falls back to the default")
}

func TestDBTimeScan(t *testing.T) {
	want := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	for _, src := range []any{"2024-03-04 09:00:00", []byte("2024-03-04T09:00:00Z"), want} {
		var dt dbTime
		require.NoError(t, dt.Scan(src))
		assert.True(t, dt.Valid)
		assert.True(t, want.Equal(dt.Time))
	}

	var dt dbTime
	require.NoError(t, dt.Scan(nil))
	assert.False(t, dt.Valid)
	assert.Error(t, dt.Scan("yesterday"))
	assert.Error(t, dt.Scan(42))
}
