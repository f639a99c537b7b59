package reminder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fremvaerk/horalis/internal/models"
)

func TestFromSettingsDefaults(t *testing.T) {
	s := models.NewSettings().Reminder
	s.Enabled = true

	p, err := FromSettings(s)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, p.Interval)
	assert.Equal(t, []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}, p.Weekdays)
	assert.Equal(t, "09:00", p.Start)
	assert.Equal(t, DefaultMessage, p.Message)
}

func TestFromSettingsRejects(t *testing.T) {
	tests := []struct {
		name string
		s    models.ReminderSettings
	}{
		{"weekday 7", models.ReminderSettings{Enabled: true, IntervalMinutes: 5, Weekdays: []int{7}}},
		{"weekday -1", models.ReminderSettings{IntervalMinutes: 5, Weekdays: []int{-1}}},
		{"zero interval", models.ReminderSettings{Enabled: true}},
		{"negative interval", models.ReminderSettings{Enabled: true, IntervalMinutes: -5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromSettings(tt.s)
			assert.ErrorIs(t, err, ErrInvalidPolicy)
		})
	}
}

func TestFromSettingsDisabledSkipsIntervalCheck(t *testing.T) {
	p, err := FromSettings(models.ReminderSettings{})
	require.NoError(t, err)
	assert.False(t, p.Enabled)
}
