package cli

import (
	"fmt"
	"io"

	"storyboard-cli/internal/ingest"
	"storyboard-cli/internal/model"
	"storyboard-cli/internal/state"

	"github.com/spf13/cobra"
)

func newLoadCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load <file>",
		Short: "Ingest a project JSON export into the current workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := loadStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}

			st := state.New()
			// Prompt-only exports merge into whatever was loaded before.
			if doc, err := ws.Load(); err == nil && doc != nil {
				st.Set(state.KeyCurrentData, doc)
			}

			n := &printNotifier{out: cmd.OutOrStdout(), errOut: cmd.ErrOrStderr()}
			p := &ingest.Pipeline{
				Store:    st,
				Saver:    ws,
				Renderer: noRenderer{},
				Notifier: n,
			}
			if err := p.IngestFile(args[0]); err != nil {
				return err
			}
			if n.failed {
				return fmt.Errorf("load failed: %s", n.lastFailure)
			}
			return nil
		},
	}
	return cmd
}

// printNotifier reports pipeline outcomes on the command's streams.
type printNotifier struct {
	out         io.Writer
	errOut      io.Writer
	failed      bool
	lastFailure string
}

func (n *printNotifier) Success(msg string) {
	fmt.Fprintln(n.out, msg)
}

func (n *printNotifier) Failure(msg string) {
	n.failed = true
	n.lastFailure = msg
	fmt.Fprintln(n.errOut, msg)
}

// noRenderer satisfies ingest.Renderer for headless loads.
type noRenderer struct{}

func (noRenderer) Refresh(*model.ProjectDocument) {}
