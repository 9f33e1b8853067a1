package cli

import (
	"context"
	"fmt"

	"storyboard-cli/internal/state"

	"github.com/spf13/cobra"
)

func newPromptsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prompts",
		Short: "Edited prompt overrides (persisted per workspace)",
	}
	cmd.AddCommand(newPromptsGetCmd(app))
	cmd.AddCommand(newPromptsSetCmd(app))
	return cmd
}

func newPromptsGetCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get [<shot-id> <tool> <image-id>]",
		Short: "Print edited prompts (all, or one by shot/tool/image)",
		Args:  cobra.RangeArgs(0, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 3 {
				return writeErr(cmd, fmt.Errorf("expected 0 or 3 args, got %d", len(args)))
			}
			ws, err := loadStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			prompts, err := ws.LoadPrompts(context.Background())
			if err != nil {
				return writeErr(cmd, err)
			}

			if len(args) == 3 {
				key := state.PromptKey(args[0], args[1], args[2])
				text, ok := prompts[key]
				if !ok {
					return writeErr(cmd, fmt.Errorf("no edited prompt for %s", key))
				}
				return writeOut(cmd, app, map[string]any{
					"key":  key,
					"text": text,
				})
			}
			return writeOut(cmd, app, map[string]any{"prompts": prompts})
		},
	}
	return cmd
}

func newPromptsSetCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <shot-id> <tool> <image-id> <text>",
		Short: "Store an edited prompt override",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := loadStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			key := state.PromptKey(args[0], args[1], args[2])
			if err := ws.SavePrompt(context.Background(), key, args[3]); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"key":  key,
				"text": args[3],
			})
		},
	}
	return cmd
}
