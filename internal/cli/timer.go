package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fremvaerk/horalis/internal/api"
)

var timerCmd = &cobra.Command{
	Use:   "timer",
	Short: "Control the tray timer display",
	Long: `Control the elapsed-time display next to the tray icon.

These commands drive the display only. Use "horalis track" to record
time against a project.`,
}

var (
	timerStart       string
	timerIdle        bool
	timerIdleTimeout int
)

var timerStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start (or restart) the timer display",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		startMs, err := parseStartMs(timerStart, time.Now())
		if err != nil {
			return err
		}
		return withDaemon(cmd.Context(), func(ctx context.Context, c *api.Client) error {
			st, err := c.StartTimer(ctx, &api.StartTimerRequest{
				StartTimeMs:        startMs,
				IdleEnabled:        timerIdle,
				IdleTimeoutMinutes: timerIdleTimeout,
			})
			if err != nil {
				return err
			}
			printTimer(st)
			return nil
		})
	},
}

var timerStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the timer display",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDaemon(cmd.Context(), func(ctx context.Context, c *api.Client) error {
			st, err := c.StopTimer(ctx)
			if err != nil {
				return err
			}
			printTimer(st)
			return nil
		})
	},
}

var timerStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the timer state",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDaemon(cmd.Context(), func(ctx context.Context, c *api.Client) error {
			st, err := c.GetTimer(ctx)
			if err != nil {
				return err
			}
			printTimer(st)
			return nil
		})
	},
}

func init() {
	timerStartCmd.Flags().StringVar(&timerStart, "start-ms", "", "Session start: Unix ms, RFC 3339, or a duration ago like 25m (default now)")
	timerStartCmd.Flags().BoolVar(&timerIdle, "idle", false, "End the session after the idle timeout")
	timerStartCmd.Flags().IntVar(&timerIdleTimeout, "idle-timeout", 5, "Idle timeout in minutes")

	timerCmd.AddCommand(timerStartCmd)
	timerCmd.AddCommand(timerStatusCmd)
	timerCmd.AddCommand(timerStopCmd)
}

func printTimer(st *api.TimerStatus) {
	if !st.Running {
		fmt.Println(badgeStopped.Render("Timer stopped."))
		return
	}
	started := time.UnixMilli(st.StartTimeMs).Local().Format(time.Kitchen)
	fmt.Printf("%s %s %s\n", badgeRunning.Render("●"), styleValue.Render(st.Label), styleHint.Render("since "+started))
	if st.IdleEnabled {
		fmt.Printf("  %s %s\n", styleLabel.Render("Idle timeout:"), styleValue.Render(fmt.Sprintf("%dm", st.IdleTimeoutMinutes)))
	}
}
