package task

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/MahdiIsse/project-management-sub001/internal/cli"
	"github.com/MahdiIsse/project-management-sub001/internal/cli/handler"
	"github.com/MahdiIsse/project-management-sub001/internal/models"
	"github.com/MahdiIsse/project-management-sub001/internal/types"
)

// relationCmd builds a "<verb> <task-id> <other-id>" command
func relationCmd(use, short, other string,
	apply func(ctx context.Context, c *cli.CLI, ws types.WorkspaceID, task types.TaskID, otherID int) (*models.Task, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use + " <task-id> <" + other + "-id>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: handler.Command(func(ctx context.Context, c *cli.CLI, args *handler.Arguments) (*handler.Result, error) {
			id, err := taskArg(args)
			if err != nil {
				return nil, err
			}
			otherID, err := cli.ParseID(other+" id", args.Args[1])
			if err != nil {
				return nil, err
			}
			t, err := lookup(ctx, c, id)
			if err != nil {
				return nil, err
			}
			updated, err := apply(ctx, c, t.WorkspaceID, id, otherID)
			if err != nil {
				return nil, err
			}
			return taskResult(updated), nil
		}),
	}
	cli.AddOutputFlags(cmd)
	return cmd
}

// AssignCmd returns the task assign subcommand
func AssignCmd() *cobra.Command {
	return relationCmd("assign", "Assign a person to a task", "assignee",
		func(ctx context.Context, c *cli.CLI, ws types.WorkspaceID, id types.TaskID, other int) (*models.Task, error) {
			return c.Board.AddAssignee(ctx, ws, id, types.AssigneeID(other))
		})
}

// UnassignCmd returns the task unassign subcommand
func UnassignCmd() *cobra.Command {
	return relationCmd("unassign", "Remove a person from a task", "assignee",
		func(ctx context.Context, c *cli.CLI, ws types.WorkspaceID, id types.TaskID, other int) (*models.Task, error) {
			return c.Board.RemoveAssignee(ctx, ws, id, types.AssigneeID(other))
		})
}

// TagCmd returns the task tag subcommand
func TagCmd() *cobra.Command {
	return relationCmd("tag", "Attach a tag to a task", "tag",
		func(ctx context.Context, c *cli.CLI, ws types.WorkspaceID, id types.TaskID, other int) (*models.Task, error) {
			return c.Board.AddTag(ctx, ws, id, types.TagID(other))
		})
}

// UntagCmd returns the task untag subcommand
func UntagCmd() *cobra.Command {
	return relationCmd("untag", "Detach a tag from a task", "tag",
		func(ctx context.Context, c *cli.CLI, ws types.WorkspaceID, id types.TaskID, other int) (*models.Task, error) {
			return c.Board.RemoveTag(ctx, ws, id, types.TagID(other))
		})
}
