package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fremvaerk/horalis/internal/api"
	"github.com/fremvaerk/horalis/internal/icon"
)

var projectsCmd = &cobra.Command{
	Use:     "projects",
	Aliases: []string{"project", "p"},
	Short:   "List and create projects",
}

var projectsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List projects",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDaemon(cmd.Context(), func(ctx context.Context, c *api.Client) error {
			projects, err := c.ListProjects(ctx)
			if err != nil {
				return err
			}
			if len(projects) == 0 {
				fmt.Println(styleHint.Render("No projects yet. Add one with: horalis projects add <name>"))
				return nil
			}
			for _, p := range projects {
				fmt.Printf("  %s %s %s\n", styleLabel.Render(fmt.Sprintf("%3d", p.ID)), swatch(p.Color), styleValue.Render(p.Name))
			}
			return nil
		})
	},
}

var projectColor string

var projectsAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if projectColor != "" {
			if _, ok := icon.ParseHexColor(projectColor); !ok {
				return fmt.Errorf("invalid hex color: %s (expected format: #RRGGBB)", projectColor)
			}
		}
		return withDaemon(cmd.Context(), func(ctx context.Context, c *api.Client) error {
			p, err := c.CreateProject(ctx, args[0], projectColor)
			if err != nil {
				return err
			}
			fmt.Printf("%s Created %s %s\n", swatch(p.Color), styleValue.Render(p.Name), styleHint.Render(fmt.Sprintf("(id %d)", p.ID)))
			return nil
		})
	},
}

func init() {
	projectsAddCmd.Flags().StringVar(&projectColor, "color", "", "Project color as #RRGGBB")

	projectsCmd.AddCommand(projectsAddCmd)
	projectsCmd.AddCommand(projectsListCmd)
}
