package task

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/MahdiIsse/project-management-sub001/internal/board"
	"github.com/MahdiIsse/project-management-sub001/internal/cli"
	"github.com/MahdiIsse/project-management-sub001/internal/cli/handler"
)

// PriorityCmd returns the task priority subcommand
func PriorityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "priority <task-id> [low|medium|high]",
		Short: "Set or cycle a task's priority",
		Long: `With a priority, set it. Without one, cycle Low → Medium → High → Low.

Examples:
  workboard task priority 12 high
  workboard task priority 12
`,
		Args: cobra.RangeArgs(1, 2),
		RunE: handler.Command(runPriority),
	}
	cli.AddOutputFlags(cmd)
	return cmd
}

func runPriority(ctx context.Context, c *cli.CLI, args *handler.Arguments) (*handler.Result, error) {
	id, err := taskArg(args)
	if err != nil {
		return nil, err
	}
	if len(args.Args) == 1 {
		t, err := c.Board.CyclePriority(ctx, 0, id)
		if err != nil {
			return nil, err
		}
		return taskResult(t), nil
	}

	p, err := cli.ParsePriority(args.Args[1])
	if err != nil {
		return nil, err
	}
	t, err := lookup(ctx, c, id)
	if err != nil {
		return nil, err
	}
	updated, err := c.Board.UpdateTask(ctx, t.WorkspaceID, id, board.TaskPatch{Priority: &p})
	if err != nil {
		return nil, err
	}
	return taskResult(updated), nil
}
