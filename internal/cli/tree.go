package cli

import (
	"errors"
	"fmt"

	"storyboard-cli/internal/tui"

	"github.com/spf13/cobra"
)

func newTreeCmd(app *App) *cobra.Command {
	var expandAll bool

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the sequence/scene/shot navigation tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := loadStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			doc, err := ws.Load()
			if err != nil {
				return writeErr(cmd, err)
			}
			if doc == nil {
				return writeErr(cmd, errors.New("no project loaded; run `storyboard load <file>` first"))
			}

			exp := tui.NewExpansionState()
			if expandAll {
				exp.ExpandAll(doc)
			}
			fmt.Fprintln(cmd.OutOrStdout(), tui.Render(doc, exp, ""))
			return nil
		},
	}

	cmd.Flags().BoolVar(&expandAll, "expand-all", false, "Expand every sequence and scene")
	return cmd
}
