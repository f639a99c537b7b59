package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fremvaerk/horalis/internal/api"
)

var trackCmd = &cobra.Command{
	Use:   "track <project>",
	Short: "Start tracking time on a project",
	Long: `Start tracking time on a project, given by id or by name.
Any entry that is already running is stopped first.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDaemon(cmd.Context(), func(ctx context.Context, c *api.Client) error {
			id, err := resolveProject(ctx, c, args[0])
			if err != nil {
				return err
			}
			entry, err := c.TrackProject(ctx, id)
			if err != nil {
				return err
			}
			fmt.Printf("%s Tracking %s\n", swatch(entry.ProjectColor), styleValue.Render(entry.ProjectName))
			return nil
		})
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop tracking time",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDaemon(cmd.Context(), func(ctx context.Context, c *api.Client) error {
			res, err := c.StopTracking(ctx)
			if err != nil {
				return err
			}
			if res.Stopped == 0 {
				fmt.Println(styleHint.Render("Nothing was being tracked."))
				return nil
			}
			fmt.Println(styleSuccess.Render("Stopped."))
			return nil
		})
	},
}

// resolveProject accepts a numeric id or a case-insensitive project name.
func resolveProject(ctx context.Context, c *api.Client, arg string) (int64, error) {
	if id, err := strconv.ParseInt(arg, 10, 64); err == nil {
		return id, nil
	}
	projects, err := c.ListProjects(ctx)
	if err != nil {
		return 0, err
	}
	return matchProject(projects, arg)
}

func matchProject(projects []api.Project, name string) (int64, error) {
	var matches []api.Project
	for _, p := range projects {
		if strings.EqualFold(p.Name, name) {
			return p.ID, nil
		}
		if strings.HasPrefix(strings.ToLower(p.Name), strings.ToLower(name)) {
			matches = append(matches, p)
		}
	}
	switch len(matches) {
	case 0:
		return 0, fmt.Errorf("no project named %q", name)
	case 1:
		return matches[0].ID, nil
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m.Name)
	}
	return 0, fmt.Errorf("%q matches several projects: %s", name, strings.Join(names, ", "))
}
