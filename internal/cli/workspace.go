package cli

import (
	"storyboard-cli/internal/store"

	"github.com/spf13/cobra"
)

func newWorkspaceCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workspace",
		Short: "Workspace management (the default workspace is fine for most uses)",
	}
	cmd.AddCommand(newWorkspaceListCmd(app))
	cmd.AddCommand(newWorkspaceUseCmd(app))
	cmd.AddCommand(newWorkspaceNewCmd(app))
	return cmd
}

func newWorkspaceListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List known workspaces",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := store.ListWorkspaces()
			if err != nil {
				return writeErr(cmd, err)
			}
			current := ""
			if cfg, err := store.LoadConfig(); err == nil {
				current = cfg.CurrentWorkspace
			}
			return writeOut(cmd, app, map[string]any{
				"workspaces": names,
				"current":    current,
			})
		},
	}
	return cmd
}

func newWorkspaceUseCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "use <name>",
		Short: "Set the current workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := store.NormalizeWorkspaceName(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			cfg.CurrentWorkspace = name
			if err := store.SaveConfig(cfg); err != nil {
				return writeErr(cmd, err)
			}
			app.Workspace = name
			return writeOut(cmd, app, map[string]any{"workspace": name})
		},
	}
	return cmd
}

func newWorkspaceNewCmd(app *App) *cobra.Command {
	var use bool

	cmd := &cobra.Command{
		Use:   "new <name>",
		Short: "Create a workspace directory under the config dir",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := store.NormalizeWorkspaceName(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			dir, err := store.WorkspaceDir(name)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := (store.Store{Dir: dir}).Ensure(); err != nil {
				return writeErr(cmd, err)
			}
			if use {
				cfg, err := store.LoadConfig()
				if err != nil {
					return writeErr(cmd, err)
				}
				cfg.CurrentWorkspace = name
				if err := store.SaveConfig(cfg); err != nil {
					return writeErr(cmd, err)
				}
				app.Workspace = name
				app.Dir = dir
			}
			return writeOut(cmd, app, map[string]any{
				"workspace": name,
				"dir":       dir,
				"used":      use,
			})
		},
	}

	cmd.Flags().BoolVar(&use, "use", false, "Also set as current workspace")
	return cmd
}
