package task

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/MahdiIsse/project-management-sub001/internal/board"
	"github.com/MahdiIsse/project-management-sub001/internal/cli"
	"github.com/MahdiIsse/project-management-sub001/internal/cli/handler"
	"github.com/MahdiIsse/project-management-sub001/internal/types"
)

// UpdateCmd returns the task update subcommand
func UpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <task-id>",
		Short: "Update a task",
		Long: `Change a task's fields. Only the flags you pass are changed.

Examples:
  workboard task update 12 --title "Fix login redirect"
  workboard task update 12 --priority high --due 2026-11-30
  workboard task update 12 --clear-due
  workboard task update 12 --column 3
`,
		Args: cobra.MaximumNArgs(1),
		RunE: handler.Command(runUpdate),
	}
	cmd.Flags().Int("id", 0, "Task ID")
	cmd.Flags().String("title", "", "New title")
	cmd.Flags().String("description", "", "New markdown description, or - to read stdin")
	cmd.Flags().String("priority", "", "low, medium or high")
	cmd.Flags().String("due", "", "Due date as YYYY-MM-DD")
	cmd.Flags().Bool("clear-due", false, "Remove the due date")
	cmd.Flags().Int("column", 0, "Move to this column")
	cmd.MarkFlagsMutuallyExclusive("due", "clear-due")
	cli.AddOutputFlags(cmd)
	return cmd
}

func runUpdate(ctx context.Context, c *cli.CLI, args *handler.Arguments) (*handler.Result, error) {
	id, err := taskArg(args)
	if err != nil {
		return nil, err
	}
	p := args.Parser()

	patch := board.TaskPatch{
		Title:        args.StringPtr("title"),
		ClearDueDate: args.GetBool("clear-due"),
	}
	changed := patch.Title != nil || patch.ClearDueDate

	if args.Has("description") {
		desc, err := readDescription(args)
		if err != nil {
			return nil, err
		}
		patch.Description = &desc
		changed = true
	}
	if args.Has("priority") {
		priority, err := p.Priority("priority")
		if err != nil {
			return nil, err
		}
		if priority == "" {
			return nil, cli.UsageError("--priority cannot be empty")
		}
		patch.Priority = &priority
		changed = true
	}
	if args.Has("due") {
		if patch.DueDate, err = p.DueDate("due"); err != nil {
			return nil, err
		}
		if patch.DueDate == nil {
			patch.ClearDueDate = true
		}
		changed = true
	}
	if args.Has("column") {
		col, err := p.ID("column")
		if err != nil {
			return nil, err
		}
		colID := types.ColumnID(col)
		patch.ColumnID = &colID
		changed = true
	}
	if !changed {
		return nil, cli.UsageError("nothing to update: pass at least one field flag")
	}

	t, err := c.Board.UpdateTask(ctx, 0, id, patch)
	if err != nil {
		return nil, err
	}
	return taskResult(t), nil
}
