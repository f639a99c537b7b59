package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fremvaerk/horalis/internal/api"
)

var reminderCmd = &cobra.Command{
	Use:   "reminder",
	Short: "Configure the \"not tracking\" reminder",
	Long: `Configure the desktop notification that reminds you to start a timer.

The reminder fires every --interval minutes inside the --start/--end
window on the chosen days, and only while nothing is being tracked.
The policy set here lasts until the daemon restarts; persistent
defaults live in the settings file.`,
}

var (
	reminderInterval int
	reminderStart    string
	reminderEnd      string
	reminderDays     string
	reminderTitle    string
	reminderMessage  string
)

var reminderStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Enable the reminder",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if reminderInterval <= 0 {
			return fmt.Errorf("--interval must be positive")
		}
		if err := validateClock("start", reminderStart); err != nil {
			return err
		}
		if err := validateClock("end", reminderEnd); err != nil {
			return err
		}
		days, err := parseDays(reminderDays)
		if err != nil {
			return err
		}
		return withDaemon(cmd.Context(), func(ctx context.Context, c *api.Client) error {
			st, err := c.StartReminder(ctx, &api.ReminderRequest{
				Enabled:         true,
				IntervalMinutes: reminderInterval,
				Start:           reminderStart,
				End:             reminderEnd,
				Weekdays:        days,
				Title:           reminderTitle,
				Message:         reminderMessage,
			})
			if err != nil {
				return err
			}
			printReminder(st)
			return nil
		})
	},
}

var reminderStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Disable the reminder",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDaemon(cmd.Context(), func(ctx context.Context, c *api.Client) error {
			st, err := c.StopReminder(ctx)
			if err != nil {
				return err
			}
			printReminder(st)
			return nil
		})
	},
}

var reminderStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the reminder policy",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDaemon(cmd.Context(), func(ctx context.Context, c *api.Client) error {
			st, err := c.GetReminder(ctx)
			if err != nil {
				return err
			}
			printReminder(st)
			return nil
		})
	},
}

func init() {
	f := reminderStartCmd.Flags()
	f.IntVar(&reminderInterval, "interval", 30, "Minutes between reminders")
	f.StringVar(&reminderStart, "start", "09:00", "Window start (HH:MM)")
	f.StringVar(&reminderEnd, "end", "17:00", "Window end (HH:MM); earlier than --start wraps past midnight")
	f.StringVar(&reminderDays, "days", "mon-fri", "Days to remind on, e.g. mon-fri or sat,sun")
	f.StringVar(&reminderTitle, "title", "", "Notification title")
	f.StringVar(&reminderMessage, "message", "", "Notification body")

	reminderCmd.AddCommand(reminderStartCmd)
	reminderCmd.AddCommand(reminderStatusCmd)
	reminderCmd.AddCommand(reminderStopCmd)
}

func printReminder(st *api.ReminderStatus) {
	if !st.Enabled {
		fmt.Println(badgeStopped.Render("Reminder off."))
		return
	}
	fmt.Printf("%s every %s, %s, %s\n",
		badgeRunning.Render("Reminder on:"),
		styleValue.Render(fmt.Sprintf("%dm", st.IntervalMinutes)),
		styleValue.Render(st.Start+"-"+st.End),
		styleValue.Render(formatDays(st.Weekdays)),
	)
	if st.LastNotifiedMs > 0 {
		last := time.UnixMilli(st.LastNotifiedMs).Local().Format(time.Kitchen)
		fmt.Printf("  %s %s\n", styleLabel.Render("Last reminder:"), styleValue.Render(last))
	}
}
