package reminder

import (
	"slices"
	"time"
)

// Policy describes when reminders may fire: on Weekdays, inside the
// inclusive window [Start, End], at most once per Interval. When Start is
// later than End the window wraps past midnight, so "22:00"-"06:00" covers
// the night.
type Policy struct {
	Enabled  bool
	Interval time.Duration
	// Start and End bound the active window as 24-hour "HH:MM", inclusive.
	// A window whose start is after its end runs past midnight.
	Start, End string
	// Weekdays lists the days reminders may fire on (Sunday is 0).
	Weekdays []time.Weekday
	Title    string
	Message  string
}

// Decision is the outcome of evaluating a policy at one instant.
type Decision int

const (
	Fire Decision = iota
	SkipTimerRunning
	SkipWeekday
	SkipWindow
	SkipInterval
)

func (d Decision) String() string {
	switch d {
	case Fire:
		return "fire"
	case SkipTimerRunning:
		return "skip_timer_running"
	case SkipWeekday:
		return "skip_weekday"
	case SkipWindow:
		return "skip_window"
	case SkipInterval:
		return "skip_interval"
	}
	return "unknown"
}

// Evaluate decides whether p fires at now, given the previous notification
// time (zero if none yet) and whether a timer is running. Checks run in a
// fixed order and the first one that applies wins.
func Evaluate(p Policy, now, last time.Time, timerRunning bool) Decision {
	if timerRunning {
		return SkipTimerRunning
	}
	if !slices.Contains(p.Weekdays, now.Weekday()) {
		return SkipWeekday
	}
	if !InWindow(p.Start, p.End, now) {
		return SkipWindow
	}
	if !last.IsZero() && now.Sub(last) < p.Interval {
		return SkipInterval
	}
	return Fire
}

// InWindow reports whether the minute of now lies within [start, end].
// Malformed bounds never match.
func InWindow(start, end string, now time.Time) bool {
	from, ok := ParseClock(start)
	if !ok {
		return false
	}
	to, ok := ParseClock(end)
	if !ok {
		return false
	}
	m := now.Hour()*60 + now.Minute()
	if from <= to {
		return m >= from && m <= to
	}
	return m >= from || m <= to
}

// ParseClock parses a 24-hour "HH:MM" string into minutes after midnight.
// All four digit positions must be ASCII digits.
func ParseClock(s string) (int, bool) {
	if len(s) != 5 || s[2] != ':' {
		return 0, false
	}
	for _, i := range [...]int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	if h > 23 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}
