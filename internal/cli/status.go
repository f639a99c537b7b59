package cli

import (
	"fmt"
	"time"

	"github.com/fremvaerk/horalis/internal/api"
)

// printStatus prints the live state reported by GetStatus.
func printStatus(st *api.DaemonStatus) {
	if st.Tracking != nil {
		since := time.UnixMilli(st.Tracking.StartTimeMs).Local().Format(time.Kitchen)
		fmt.Printf("  %s %s %s %s\n",
			styleLabel.Render("Tracking:  "),
			swatch(st.Tracking.ProjectColor),
			styleValue.Render(st.Tracking.ProjectName),
			styleHint.Render("since "+since),
		)
	} else {
		fmt.Printf("  %s %s\n", styleLabel.Render("Tracking:  "), badgeStopped.Render("nothing"))
	}

	if st.Timer.Running {
		fmt.Printf("  %s %s\n", styleLabel.Render("Timer:     "), badgeRunning.Render(st.Timer.Label))
	} else {
		fmt.Printf("  %s %s\n", styleLabel.Render("Timer:     "), badgeStopped.Render("stopped"))
	}

	today := time.Duration(st.TodaySeconds) * time.Second
	fmt.Printf("  %s %s\n", styleLabel.Render("Today:     "), styleValue.Render(formatTotal(today)))
	week := time.Duration(st.WeekSeconds) * time.Second
	fmt.Printf("  %s %s\n", styleLabel.Render("Week:      "), styleValue.Render(formatTotal(week)))

	if st.Reminder.Enabled {
		fmt.Printf("  %s %s\n", styleLabel.Render("Reminder:  "), styleValue.Render(fmt.Sprintf("every %dm, %s-%s, %s",
			st.Reminder.IntervalMinutes, st.Reminder.Start, st.Reminder.End, formatDays(st.Reminder.Weekdays))))
	} else {
		fmt.Printf("  %s %s\n", styleLabel.Render("Reminder:  "), badgeStopped.Render("off"))
	}

	if st.Label != "" {
		fmt.Printf("  %s %s\n", styleLabel.Render("Label:     "), styleValue.Render(st.Label))
	}
	if st.Subscribers > 0 {
		fmt.Printf("  %s %s\n", styleLabel.Render("Watchers:  "), styleValue.Render(fmt.Sprint(st.Subscribers)))
	}
	if st.UpdateAvailable {
		fmt.Println()
		fmt.Println(styleUpdate.Render(fmt.Sprintf("  Update available: v%s (run: horalis update)", st.LatestVersion)))
	}
}

// formatTotal renders a duration as "3h 05m" or "12m".
func formatTotal(d time.Duration) string {
	d = d.Truncate(time.Minute)
	h := int(d / time.Hour)
	m := int((d % time.Hour) / time.Minute)
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %02dm", h, m)
}
