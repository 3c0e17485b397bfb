package column

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MahdiIsse/project-management-sub001/internal/cli"
	"github.com/MahdiIsse/project-management-sub001/internal/cli/handler"
	"github.com/MahdiIsse/project-management-sub001/internal/types"
)

// MoveCmd returns the column move subcommand
func MoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move <column-id>",
		Short: "Move a column left or right",
		Long: `Swap a column with its neighbour.

Examples:
  workboard column move 4 --left
  workboard column move 4 --right --workspace=1
`,
		Args: cobra.MaximumNArgs(1),
		RunE: handler.Command(runMove),
	}
	cmd.Flags().Int("id", 0, "Column ID")
	cmd.Flags().Bool("left", false, "Move one place left")
	cmd.Flags().Bool("right", false, "Move one place right")
	cmd.MarkFlagsMutuallyExclusive("left", "right")
	cmd.MarkFlagsOneRequired("left", "right")
	addWorkspaceFlag(cmd)
	cli.AddOutputFlags(cmd)
	return cmd
}

func runMove(ctx context.Context, c *cli.CLI, args *handler.Arguments) (*handler.Result, error) {
	id, err := cli.IDArg(args.GetCmd(), args.Args, "column id")
	if err != nil {
		return nil, err
	}
	wsID, err := args.Parser().WorkspaceID()
	if err != nil {
		return nil, err
	}
	delta := 1
	if args.GetBool("left") {
		delta = -1
	}
	if err := c.Board.MoveColumn(ctx, wsID, types.ColumnID(id), delta); err != nil {
		return nil, err
	}
	return &handler.Result{Message: fmt.Sprintf("Column %d moved", id)}, nil
}
