package workspace

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MahdiIsse/project-management-sub001/internal/cli"
	"github.com/MahdiIsse/project-management-sub001/internal/cli/handler"
	"github.com/MahdiIsse/project-management-sub001/internal/types"
)

// DeleteCmd returns the workspace delete subcommand
func DeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <workspace-id>",
		Short: "Delete a workspace",
		Long:  "Delete a workspace with all its columns and tasks (requires confirmation unless --force, --quiet or --json).",
		Args:  cobra.MaximumNArgs(1),
		RunE:  handler.Command(runDelete),
	}
	cmd.Flags().Int("id", 0, "Workspace ID")
	cmd.Flags().Bool("force", false, "Skip confirmation")
	cli.AddOutputFlags(cmd)
	return cmd
}

func runDelete(ctx context.Context, c *cli.CLI, args *handler.Arguments) (*handler.Result, error) {
	n, err := cli.IDArg(args.GetCmd(), args.Args, "workspace id")
	if err != nil {
		return nil, err
	}
	id := types.WorkspaceID(n)

	ws, err := c.Backend.GetWorkspace(ctx, id)
	if err != nil {
		return nil, err
	}
	if !cli.Confirm(args.GetCmd(), "Delete workspace #%d '%s' and everything in it?", ws.ID, ws.Title) {
		return &handler.Result{Message: "Cancelled"}, nil
	}

	if err := c.Board.DeleteWorkspace(ctx, id); err != nil {
		return nil, err
	}
	return &handler.Result{Message: fmt.Sprintf("Workspace %d deleted", id)}, nil
}
