package task

import (
	"context"
	"math"

	"github.com/spf13/cobra"

	"github.com/MahdiIsse/project-management-sub001/internal/cli"
	"github.com/MahdiIsse/project-management-sub001/internal/cli/handler"
	"github.com/MahdiIsse/project-management-sub001/internal/types"
)

// MoveCmd returns the task move subcommand
func MoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move <task-id>",
		Short: "Move a task on the board",
		Long: `Move a task to another column or place. Positions in the affected
columns are renumbered and saved together.

Examples:
  workboard task move 12 --column 3            # bottom of column 3
  workboard task move 12 --column 3 --index 0  # top of column 3
  workboard task move 12 --up
  workboard task move 12 --right
`,
		Args: cobra.MaximumNArgs(1),
		RunE: handler.Command(runMove),
	}
	cmd.Flags().Int("id", 0, "Task ID")
	cmd.Flags().Int("column", 0, "Target column ID")
	cmd.Flags().Int("index", -1, "Target index in the column (default: bottom)")
	cmd.Flags().Bool("up", false, "Move one place up")
	cmd.Flags().Bool("down", false, "Move one place down")
	cmd.Flags().Bool("left", false, "Move to the column on the left")
	cmd.Flags().Bool("right", false, "Move to the column on the right")
	cmd.MarkFlagsMutuallyExclusive("column", "up", "down", "left", "right")
	cmd.MarkFlagsOneRequired("column", "up", "down", "left", "right")
	cli.AddOutputFlags(cmd)
	return cmd
}

func runMove(ctx context.Context, c *cli.CLI, args *handler.Arguments) (*handler.Result, error) {
	id, err := taskArg(args)
	if err != nil {
		return nil, err
	}
	t, err := lookup(ctx, c, id)
	if err != nil {
		return nil, err
	}
	ws := t.WorkspaceID

	switch {
	case args.GetBool("up"):
		err = c.Board.MoveTaskBy(ctx, ws, id, -1)
	case args.GetBool("down"):
		err = c.Board.MoveTaskBy(ctx, ws, id, 1)
	case args.GetBool("left"):
		err = c.Board.MoveTaskToNeighbour(ctx, ws, id, -1)
	case args.GetBool("right"):
		err = c.Board.MoveTaskToNeighbour(ctx, ws, id, 1)
	default:
		col, perr := args.Parser().ID("column")
		if perr != nil {
			return nil, perr
		}
		index := args.GetInt("index", -1)
		if index < 0 {
			// Past the end clamps to the bottom
			index = math.MaxInt
		}
		err = c.Board.MoveTask(ctx, ws, id, types.ColumnID(col), index)
	}
	if err != nil {
		return nil, err
	}

	moved, err := c.Backend.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	return taskResult(moved), nil
}
