package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// TimeEntry is one tracked interval. EndTime is nil while it is running.
type TimeEntry struct {
	ID           int64      `json:"id"`
	ProjectID    int64      `json:"project_id"`
	ProjectName  string     `json:"project_name"`
	ProjectColor string     `json:"project_color"`
	StartTime    time.Time  `json:"start_time"`
	EndTime      *time.Time `json:"end_time,omitempty"`
	// Duration is in whole seconds, set once the entry is closed.
	Duration int64 `json:"duration"`
}

// RunningEntry returns the open entry, or ErrNotFound when nothing is
// being tracked.
func (s *Store) RunningEntry(ctx context.Context) (TimeEntry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT te.id, te.project_id, p.name, COALESCE(p.color, ''),
		       te.start_time, te.end_time, COALESCE(te.duration, 0)
		FROM time_entries te
		JOIN projects p ON te.project_id = p.id
		WHERE te.end_time IS NULL
		ORDER BY te.start_time DESC
		LIMIT 1
	`)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return TimeEntry{}, fmt.Errorf("running entry: %w", ErrNotFound)
	}
	return e, err
}

// StartEntry opens a new entry for projectID starting at start.
func (s *Store) StartEntry(ctx context.Context, projectID int64, start time.Time) (TimeEntry, error) {
	p, err := s.Project(ctx, projectID)
	if err != nil {
		return TimeEntry{}, err
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO time_entries (project_id, start_time, created_at) VALUES (?, ?, ?)
	`, projectID, formatTime(start), formatTime(s.now()))
	if err != nil {
		return TimeEntry{}, fmt.Errorf("insert entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return TimeEntry{}, err
	}
	return TimeEntry{
		ID:           id,
		ProjectID:    p.ID,
		ProjectName:  p.Name,
		ProjectColor: p.Color,
		StartTime:    start.UTC().Truncate(time.Second),
	}, nil
}

// StopOpenEntries closes every open entry now. It returns how many were
// closed.
func (s *Store) StopOpenEntries(ctx context.Context) (int64, error) {
	return s.StopOpenEntriesAt(ctx, s.now())
}

// StopOpenEntriesAt closes every open entry at end. An end before an
// entry's start closes it at its start, so durations are never negative.
func (s *Store) StopOpenEntriesAt(ctx context.Context, end time.Time) (int64, error) {
	at := formatTime(end)
	res, err := s.db.ExecContext(ctx, `
		UPDATE time_entries
		SET end_time = MAX(?, start_time),
		    duration = CAST(strftime('%s', MAX(?, start_time)) AS INTEGER)
		             - CAST(strftime('%s', start_time) AS INTEGER)
		WHERE end_time IS NULL
	`, at, at)
	if err != nil {
		return 0, fmt.Errorf("stop open entries: %w", err)
	}
	return res.RowsAffected()
}

// Entry history limits.
const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 500
)

// RecentEntries returns up to limit closed entries, newest first. A limit
// <= 0 means DefaultHistoryLimit; larger than MaxHistoryLimit is capped.
func (s *Store) RecentEntries(ctx context.Context, limit int) ([]TimeEntry, error) {
	switch {
	case limit <= 0:
		limit = DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		limit = MaxHistoryLimit
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT te.id, te.project_id, p.name, COALESCE(p.color, ''),
		       te.start_time, te.end_time, COALESCE(te.duration, 0)
		FROM time_entries te
		JOIN projects p ON te.project_id = p.id
		WHERE te.end_time IS NOT NULL
		ORDER BY te.start_time DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []TimeEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// TodayTotal sums closed entries started today in the local time zone.
func (s *Store) TodayTotal(ctx context.Context) (time.Duration, error) {
	dayStart := startOfDay(s.now())
	return s.totalBetween(ctx, dayStart, dayStart.AddDate(0, 0, 1))
}

// WeekTotal sums closed entries started from local midnight seven days ago
// until the end of today.
func (s *Store) WeekTotal(ctx context.Context) (time.Duration, error) {
	dayStart := startOfDay(s.now())
	return s.totalBetween(ctx, dayStart.AddDate(0, 0, -7), dayStart.AddDate(0, 0, 1))
}

func (s *Store) totalBetween(ctx context.Context, from, to time.Time) (time.Duration, error) {
	var total sql.NullInt64
	err := s.db.QueryRowContext(ctx, `
		SELECT SUM(duration) FROM time_entries
		WHERE end_time IS NOT NULL AND start_time >= ? AND start_time < ?
	`, formatTime(from), formatTime(to)).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum entries: %w", err)
	}
	return time.Duration(total.Int64) * time.Second, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func scanEntry(row scanner) (TimeEntry, error) {
	var e TimeEntry
	var start, end dbTime
	if err := row.Scan(&e.ID, &e.ProjectID, &e.ProjectName, &e.ProjectColor, &start, &end, &e.Duration); err != nil {
		return TimeEntry{}, err
	}
	e.StartTime = start.Time
	if end.Valid {
		t := end.Time
		e.EndTime = &t
	}
	return e, nil
}
