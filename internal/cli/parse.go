package cli

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/fremvaerk/horalis/internal/api"
	"github.com/fremvaerk/horalis/internal/daemon/reminder"
)

var dayNames = map[string]int{
	"sun": 0, "mon": 1, "tue": 2, "wed": 3, "thu": 4, "fri": 5, "sat": 6,
}

// parseDays parses a weekday list such as "mon-fri", "sat,sun", "1,3,5",
// "weekdays", "weekends" or "all". Sunday is 0. Ranges may wrap
// ("fri-mon"). The result is sorted and free of duplicates.
func parseDays(s string) ([]int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "":
		return nil, fmt.Errorf("no days given")
	case "all", "daily", "everyday":
		return []int{0, 1, 2, 3, 4, 5, 6}, nil
	case "weekdays":
		return []int{1, 2, 3, 4, 5}, nil
	case "weekends":
		return []int{0, 6}, nil
	}

	var days []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		from, to, isRange := strings.Cut(part, "-")
		a, err := parseDay(from)
		if err != nil {
			return nil, err
		}
		if !isRange {
			days = append(days, a)
			continue
		}
		b, err := parseDay(to)
		if err != nil {
			return nil, err
		}
		for d := a; ; d = (d + 1) % 7 {
			days = append(days, d)
			if d == b {
				break
			}
		}
	}
	slices.Sort(days)
	return slices.Compact(days), nil
}

func parseDay(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n > 6 {
			return 0, fmt.Errorf("day %d out of range 0..6", n)
		}
		return n, nil
	}
	if len(s) >= 3 {
		if d, ok := dayNames[s[:3]]; ok {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown day %q", s)
}

// formatDays renders weekday numbers as short names.
func formatDays(days []int) string {
	names := make([]string, 0, len(days))
	for _, d := range days {
		if d >= 0 && d <= 6 {
			names = append(names, time.Weekday(d).String()[:3])
		}
	}
	return strings.Join(names, ",")
}

// parseMenuItem parses "id:name[:color]". The name may itself contain
// colons when a color is given.
func parseMenuItem(s string) (api.MenuProject, error) {
	idPart, rest, ok := strings.Cut(s, ":")
	if !ok {
		return api.MenuProject{}, fmt.Errorf("menu item %q: want id:name[:color]", s)
	}
	id, err := strconv.ParseInt(strings.TrimSpace(idPart), 10, 64)
	if err != nil || id <= 0 {
		return api.MenuProject{}, fmt.Errorf("menu item %q: invalid project id", s)
	}

	item := api.MenuProject{ID: id, Name: rest}
	if i := strings.LastIndex(rest, ":"); i >= 0 && strings.HasPrefix(rest[i+1:], "#") {
		item.Name, item.Color = rest[:i], rest[i+1:]
	}
	if strings.TrimSpace(item.Name) == "" {
		return api.MenuProject{}, fmt.Errorf("menu item %q: empty name", s)
	}
	return item, nil
}

// validateClock checks an "HH:MM" flag value.
func validateClock(flag, v string) error {
	if _, ok := reminder.ParseClock(v); !ok {
		return fmt.Errorf("--%s: %q is not a 24-hour HH:MM time", flag, v)
	}
	return nil
}

// parseStartMs accepts Unix milliseconds, an RFC 3339 time, or a duration
// ago such as "25m". Empty means now (0).
func parseStartMs(s string, now time.Time) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ms, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UnixMilli(), nil
	}
	if d, err := time.ParseDuration(s); err == nil && d >= 0 {
		return now.Add(-d).UnixMilli(), nil
	}
	return 0, fmt.Errorf("invalid start %q: want Unix ms, RFC 3339 or a duration ago", s)
}
