package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

func newShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the canonical project document",
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
			return writeOut(cmd, app, doc)
		},
	}
	return cmd
}
