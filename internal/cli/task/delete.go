package task

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MahdiIsse/project-management-sub001/internal/cli"
	"github.com/MahdiIsse/project-management-sub001/internal/cli/handler"
)

// DeleteCmd returns the task delete subcommand
func DeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <task-id>",
		Short: "Delete a task",
		Long:  "Delete a task by ID (requires confirmation unless --force, --quiet or --json).",
		Args:  cobra.MaximumNArgs(1),
		RunE:  handler.Command(runDelete),
	}
	cmd.Flags().Int("id", 0, "Task ID")
	cmd.Flags().Bool("force", false, "Skip confirmation")
	cli.AddOutputFlags(cmd)
	return cmd
}

func runDelete(ctx context.Context, c *cli.CLI, args *handler.Arguments) (*handler.Result, error) {
	id, err := taskArg(args)
	if err != nil {
		return nil, err
	}
	t, err := lookup(ctx, c, id)
	if err != nil {
		return nil, err
	}
	if !cli.Confirm(args.GetCmd(), "Delete task #%d '%s'?", t.ID, t.Title) {
		return &handler.Result{Message: "Cancelled"}, nil
	}
	if err := c.Board.DeleteTask(ctx, t.WorkspaceID, id); err != nil {
		return nil, err
	}
	return &handler.Result{Message: fmt.Sprintf("Task %d deleted", id)}, nil
}
