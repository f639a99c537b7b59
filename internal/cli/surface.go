package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fremvaerk/horalis/internal/api"
	"github.com/fremvaerk/horalis/internal/icon"
)

var labelCmd = &cobra.Command{
	Use:   "label",
	Short: "Set the text next to the tray icon",
}

var labelSetCmd = &cobra.Command{
	Use:   "set <text>",
	Short: "Set the tray label",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDaemon(cmd.Context(), func(ctx context.Context, c *api.Client) error {
			return c.SetStatusLabel(ctx, args[0])
		})
	},
}

var labelClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the tray label",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDaemon(cmd.Context(), func(ctx context.Context, c *api.Client) error {
			return c.ClearStatusLabel(ctx)
		})
	},
}

var iconCmd = &cobra.Command{
	Use:   "icon",
	Short: "Color the tray icon",
}

var iconName string

var iconColorCmd = &cobra.Command{
	Use:   "color <#RRGGBB>",
	Short: "Color the tray icon, optionally lettered with --name",
	Long: `Color the tray icon. An invalid color falls back to the default blue
on the daemon side; the CLI warns about it first.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, ok := icon.ParseHexColor(args[0]); !ok {
			fmt.Println(styleWarning.Render(fmt.Sprintf("%q is not a #RRGGBB color; the icon will use the default blue.", args[0])))
		}
		return withDaemon(cmd.Context(), func(ctx context.Context, c *api.Client) error {
			return c.SetStatusColor(ctx, args[0], iconName)
		})
	},
}

var iconResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Return the tray icon to its default",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDaemon(cmd.Context(), func(ctx context.Context, c *api.Client) error {
			return c.ResetStatusIcon(ctx)
		})
	},
}

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Rebuild the tray menu",
}

var (
	menuItems   []string
	menuRunning bool
)

var menuSetCmd = &cobra.Command{
	Use:     "set",
	Short:   "Replace the project entries of the tray menu",
	Example: `  horalis menu set --item 1:Work --item "2:Side project:#22C55E" --running`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		req := &api.MenuRequest{Running: menuRunning, Projects: make([]api.MenuProject, 0, len(menuItems))}
		for _, s := range menuItems {
			item, err := parseMenuItem(s)
			if err != nil {
				return err
			}
			req.Projects = append(req.Projects, item)
		}
		return withDaemon(cmd.Context(), func(ctx context.Context, c *api.Client) error {
			return c.UpdateMenu(ctx, req)
		})
	},
}

var menuRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Rebuild the tray menu from the stored projects",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDaemon(cmd.Context(), func(ctx context.Context, c *api.Client) error {
			projects, err := c.ListProjects(ctx)
			if err != nil {
				return err
			}
			st, err := c.GetStatus(ctx)
			if err != nil {
				return err
			}
			return c.UpdateMenu(ctx, menuFromProjects(projects, st.Tracking != nil))
		})
	},
}

func init() {
	labelCmd.AddCommand(labelClearCmd)
	labelCmd.AddCommand(labelSetCmd)

	iconColorCmd.Flags().StringVar(&iconName, "name", "", "Name whose first letter is drawn on the icon")
	iconCmd.AddCommand(iconColorCmd)
	iconCmd.AddCommand(iconResetCmd)

	menuSetCmd.Flags().StringArrayVar(&menuItems, "item", nil, "Menu entry as id:name[:#color] (repeatable)")
	menuSetCmd.Flags().BoolVar(&menuRunning, "running", false, "Enable the Stop entry")
	menuCmd.AddCommand(menuRefreshCmd)
	menuCmd.AddCommand(menuSetCmd)
}

func menuFromProjects(projects []api.Project, running bool) *api.MenuRequest {
	req := &api.MenuRequest{Running: running, Projects: make([]api.MenuProject, 0, len(projects))}
	for _, p := range projects {
		req.Projects = append(req.Projects, api.MenuProject{ID: p.ID, Name: p.Name, Color: p.Color})
	}
	return req
}
