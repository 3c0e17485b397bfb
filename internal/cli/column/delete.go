package column

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MahdiIsse/project-management-sub001/internal/cli"
	"github.com/MahdiIsse/project-management-sub001/internal/cli/handler"
	"github.com/MahdiIsse/project-management-sub001/internal/types"
)

// DeleteCmd returns the column delete subcommand
func DeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <column-id>",
		Short: "Delete a column",
		Long:  "Delete a column and the tasks in it (requires confirmation unless --force, --quiet or --json).",
		Args:  cobra.MaximumNArgs(1),
		RunE:  handler.Command(runDelete),
	}
	cmd.Flags().Int("id", 0, "Column ID")
	cmd.Flags().Bool("force", false, "Skip confirmation")
	cli.AddOutputFlags(cmd)
	return cmd
}

func runDelete(ctx context.Context, c *cli.CLI, args *handler.Arguments) (*handler.Result, error) {
	id, err := cli.IDArg(args.GetCmd(), args.Args, "column id")
	if err != nil {
		return nil, err
	}
	if !cli.Confirm(args.GetCmd(), "Delete column #%d and its tasks?", id) {
		return &handler.Result{Message: "Cancelled"}, nil
	}
	if err := c.Board.DeleteColumn(ctx, 0, types.ColumnID(id)); err != nil {
		return nil, err
	}
	return &handler.Result{Message: fmt.Sprintf("Column %d deleted", id)}, nil
}
