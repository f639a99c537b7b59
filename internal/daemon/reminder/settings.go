package reminder

import (
	"errors"
	"fmt"
	"time"

	"github.com/fremvaerk/horalis/internal/models"
)

// ErrInvalidPolicy is wrapped by every FromSettings validation error.
var ErrInvalidPolicy = errors.New("invalid reminder policy")

// FromSettings builds a policy from its settings form. Weekdays must lie in
// 0..6 and an enabled policy needs a positive interval.
func FromSettings(s models.ReminderSettings) (Policy, error) {
	p := Policy{
		Enabled:  s.Enabled,
		Interval: time.Duration(s.IntervalMinutes) * time.Minute,
		Start:    s.Start,
		End:      s.End,
		Weekdays: make([]time.Weekday, 0, len(s.Weekdays)),
		Title:    s.Title,
		Message:  s.Message,
	}
	for _, d := range s.Weekdays {
		if d < 0 || d > 6 {
			return Policy{}, fmt.Errorf("%w: weekday %d out of range 0..6", ErrInvalidPolicy, d)
		}
		p.Weekdays = append(p.Weekdays, time.Weekday(d))
	}
	if p.Enabled && s.IntervalMinutes <= 0 {
		return Policy{}, fmt.Errorf("%w: interval_minutes must be positive", ErrInvalidPolicy)
	}
	return p, nil
}
