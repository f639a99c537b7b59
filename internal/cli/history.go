package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fremvaerk/horalis/internal/api"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:     "history",
	Aliases: []string{"log"},
	Short:   "List recent time entries",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDaemon(cmd.Context(), func(ctx context.Context, c *api.Client) error {
			entries, err := c.ListEntries(ctx, historyLimit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println(styleHint.Render("No finished entries yet. Start one with: horalis track <project>"))
				return nil
			}
			day := ""
			for _, e := range entries {
				start := time.UnixMilli(e.StartTimeMs).Local()
				if d := start.Format("Mon Jan 2"); d != day {
					day = d
					fmt.Println(styleLabel.Render(d))
				}
				fmt.Printf("  %s %s %s\n", swatch(e.ProjectColor), styleValue.Render(e.ProjectName), styleHint.Render(entrySpan(e)))
			}
			return nil
		})
	},
}

// entrySpan renders "09:00-10:30 (1h 30m)" in local time.
func entrySpan(e api.Entry) string {
	start := time.UnixMilli(e.StartTimeMs).Local()
	end := "..."
	if e.EndTimeMs != 0 {
		end = time.UnixMilli(e.EndTimeMs).Local().Format("15:04")
	}
	return fmt.Sprintf("%s-%s (%s)", start.Format("15:04"), end, formatTotal(time.Duration(e.DurationSeconds)*time.Second))
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 50, "Maximum number of entries to show")
}
