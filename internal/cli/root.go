package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"storyboard-cli/internal/format"
	"storyboard-cli/internal/state"
	"storyboard-cli/internal/store"
	"storyboard-cli/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	Dir        string
	Workspace  string
	PrettyJSON bool
	Format     string
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "storyboard",
		Short:        "Storyboard (local-first) CLI + TUI",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  storyboard

  # Load a project export
  storyboard load project.json

  # Scriptable commands
  storyboard show --pretty
  storyboard tree --expand-all
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("STORYBOARD_DIR", ""), "Path to store dir (advanced: overrides workspace resolution; use only for fixtures/tests)")
	cmd.PersistentFlags().StringVar(&app.Workspace, "workspace", envOr("STORYBOARD_WORKSPACE", ""), "Workspace name (default: 'default')")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("STORYBOARD_FORMAT", "json"), "Output format (json|edn)")

	cmd.AddCommand(newLoadCmd(app))
	cmd.AddCommand(newShowCmd(app))
	cmd.AddCommand(newTreeCmd(app))
	cmd.AddCommand(newPromptsCmd(app))
	cmd.AddCommand(newAuthCmd(app))
	cmd.AddCommand(newWorkspaceCmd(app))

	return cmd
}

func runTUI(app *App) error {
	ws, err := loadStore(app)
	if err != nil {
		return err
	}
	a, found, err := ws.LoadApproval(context.Background())
	if err != nil {
		return err
	}
	if !found {
		return errors.New("no approval record; run `storyboard auth login <email>` first")
	}
	if !a.Approved() {
		return fmt.Errorf("access %s for %s; an approver must run `storyboard auth approve`", a.UserInfo.Status, a.UserInfo.Email)
	}

	doc, err := ws.Load()
	if err != nil {
		return err
	}
	st := state.New()
	if doc != nil {
		st.Set(state.KeyCurrentData, doc)
	}
	if prompts, err := ws.LoadPrompts(context.Background()); err == nil && len(prompts) > 0 {
		st.Set(state.KeyEditedPrompts, prompts)
	}
	return tui.Run(ws, st)
}

// loadStore resolves the workspace directory for this invocation.
//
// Resolution order:
// 1) --dir (or STORYBOARD_DIR)
// 2) --workspace (or STORYBOARD_WORKSPACE)
// 3) ~/.storyboard/config.json currentWorkspace
// 4) the implicit "default" workspace
func loadStore(app *App) (store.Store, error) {
	dir := app.Dir
	if dir == "" {
		if app.Workspace != "" {
			d, err := store.WorkspaceDir(app.Workspace)
			if err != nil {
				return store.Store{}, err
			}
			dir = d
		} else if cfg, err := store.LoadConfig(); err == nil && cfg.CurrentWorkspace != "" {
			d, err := store.WorkspaceDir(cfg.CurrentWorkspace)
			if err != nil {
				return store.Store{}, err
			}
			app.Workspace = cfg.CurrentWorkspace
			dir = d
		} else {
			app.Workspace = "default"
			d, err := store.WorkspaceDir(app.Workspace)
			if err != nil {
				return store.Store{}, err
			}
			dir = d
		}
		app.Dir = dir
	}

	s := store.Store{Dir: dir}
	if err := s.Ensure(); err != nil {
		return s, err
	}
	return s, nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
