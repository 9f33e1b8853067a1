package cli

import (
	"context"
	"errors"
	"strings"

	"storyboard-cli/internal/store"

	"github.com/spf13/cobra"
)

func newAuthCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Local approval record for the interactive UI",
	}
	cmd.AddCommand(newAuthLoginCmd(app))
	cmd.AddCommand(newAuthStatusCmd(app))
	cmd.AddCommand(newAuthSetStatusCmd(app, "approve", store.StatusApproved))
	cmd.AddCommand(newAuthSetStatusCmd(app, "reject", store.StatusRejected))
	return cmd
}

func newAuthLoginCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login <email>",
		Short: "Create a pending approval record with a fresh token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			email := strings.TrimSpace(args[0])
			if email == "" || !strings.Contains(email, "@") {
				return writeErr(cmd, errors.New("invalid email"))
			}
			ws, err := loadStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			token, err := store.NewToken()
			if err != nil {
				return writeErr(cmd, err)
			}
			a := store.Approval{
				Token: token,
				UserInfo: store.UserInfo{
					Email:  email,
					Status: store.StatusPending,
				},
			}
			if err := ws.SaveApproval(context.Background(), a); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, a)
		},
	}
	return cmd
}

func newAuthStatusCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Print the current approval record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := loadStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			a, found, err := ws.LoadApproval(context.Background())
			if err != nil {
				return writeErr(cmd, err)
			}
			if !found {
				return writeErr(cmd, errors.New("no approval record; run `storyboard auth login <email>` first"))
			}
			return writeOut(cmd, app, a)
		},
	}
	return cmd
}

// newAuthSetStatusCmd builds approve/reject, which flip the stored record.
// This is the local stand-in for the remote approver flow.
func newAuthSetStatusCmd(app *App, use string, status store.ApprovalStatus) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: "Mark the approval record " + string(status),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := loadStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			a, found, err := ws.LoadApproval(context.Background())
			if err != nil {
				return writeErr(cmd, err)
			}
			if !found {
				return writeErr(cmd, errors.New("no approval record; run `storyboard auth login <email>` first"))
			}
			a.UserInfo.Status = status
			if err := ws.SaveApproval(context.Background(), a); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, a)
		},
	}
	return cmd
}
