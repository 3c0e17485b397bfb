// Package account holds the per-user maintenance commands
package account

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/MahdiIsse/project-management-sub001/internal/cli"
	"github.com/MahdiIsse/project-management-sub001/internal/cli/handler"
)

// AccountCmd returns the account parent command
func AccountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Seed or wipe your data",
	}
	cmd.AddCommand(SeedCmd())
	cmd.AddCommand(CleanupCmd())
	return cmd
}

// SeedCmd returns the account seed subcommand
func SeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the onboarding board",
		Long:  "Create a sample workspace with columns, tasks, tags and assignees. Fails if you already have a workspace.",
		Args:  cobra.NoArgs,
		RunE: handler.Command(func(ctx context.Context, c *cli.CLI, _ *handler.Arguments) (*handler.Result, error) {
			if err := c.Backend.SeedOnboardingData(ctx); err != nil {
				return nil, err
			}
			c.Board.Refresh()
			return &handler.Result{Message: "Onboarding board created"}, nil
		}),
	}
	cli.AddOutputFlags(cmd)
	return cmd
}

// CleanupCmd returns the account cleanup subcommand
func CleanupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete all of your workspaces, tags and assignees",
		Long:  "Delete everything you own (requires confirmation unless --force, --quiet or --json).",
		Args:  cobra.NoArgs,
		RunE: handler.Command(func(ctx context.Context, c *cli.CLI, args *handler.Arguments) (*handler.Result, error) {
			if !cli.Confirm(args.GetCmd(), "Delete ALL of your workspaces, tags and assignees?") {
				return &handler.Result{Message: "Cancelled"}, nil
			}
			if err := c.Backend.CleanupUserData(ctx); err != nil {
				return nil, err
			}
			c.Board.Refresh()
			return &handler.Result{Message: "All data deleted"}, nil
		}),
	}
	cmd.Flags().Bool("force", false, "Skip confirmation")
	cli.AddOutputFlags(cmd)
	return cmd
}
