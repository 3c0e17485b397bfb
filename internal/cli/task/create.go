package task

import (
	"context"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MahdiIsse/project-management-sub001/internal/board"
	"github.com/MahdiIsse/project-management-sub001/internal/cli"
	"github.com/MahdiIsse/project-management-sub001/internal/cli/handler"
	"github.com/MahdiIsse/project-management-sub001/internal/dto"
	"github.com/MahdiIsse/project-management-sub001/internal/types"
)

// CreateCmd returns the task create subcommand
func CreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new task",
		Long: `Create a task at the bottom of a column.

Examples:
  workboard task create --column=2 --title="Fix login"
  workboard task create --column=2 --title="Fix login" --priority=high --due=2026-12-01
  workboard task create --column=2 --title="Pair" --assignee 1,2 --tag 4

  # Description from stdin
  cat notes.md | workboard task create --column=2 --title="Spec" --description -

  # Quiet mode for bash capture
  TASK_ID=$(workboard task create --column=2 --title="Fix login" --quiet)
`,
		Args: cobra.NoArgs,
		RunE: handler.Command(runCreate),
	}
	cmd.Flags().Int("column", 0, "Column ID (required)")
	cmd.Flags().String("title", "", "Task title (required)")
	cmd.Flags().String("description", "", "Markdown description, or - to read stdin")
	cmd.Flags().String("priority", "", "low, medium or high (default low)")
	cmd.Flags().String("due", "", "Due date as YYYY-MM-DD")
	cmd.Flags().String("assignee", "", "Comma separated assignee ids")
	cmd.Flags().String("tag", "", "Comma separated tag ids")
	_ = cmd.MarkFlagRequired("column")
	_ = cmd.MarkFlagRequired("title")
	cli.AddOutputFlags(cmd)
	return cmd
}

func runCreate(ctx context.Context, c *cli.CLI, args *handler.Arguments) (*handler.Result, error) {
	p := args.Parser()
	colID, err := p.ID("column")
	if err != nil {
		return nil, err
	}
	title, err := p.String("title")
	if err != nil {
		return nil, err
	}
	priority, err := p.Priority("priority")
	if err != nil {
		return nil, err
	}
	due, err := p.DueDate("due")
	if err != nil {
		return nil, err
	}
	description, err := readDescription(args)
	if err != nil {
		return nil, err
	}

	in := board.TaskInput{
		ColumnID:    types.ColumnID(colID),
		Title:       title,
		Description: description,
		DueDate:     due,
		Priority:    priority,
	}
	if args.Has("assignee") {
		ids, err := p.IDs("assignee")
		if err != nil {
			return nil, err
		}
		in.AssigneeIDs = dto.TypedIDs[types.AssigneeID](ids)
	}
	if args.Has("tag") {
		ids, err := p.IDs("tag")
		if err != nil {
			return nil, err
		}
		in.TagIDs = dto.TypedIDs[types.TagID](ids)
	}

	t, err := c.Board.CreateTask(ctx, in)
	if err != nil {
		return nil, err
	}
	return taskResult(t), nil
}

// readDescription returns --description, reading stdin when it is "-"
func readDescription(args *handler.Arguments) (string, error) {
	desc := args.GetString("description", "")
	if desc != "-" {
		return desc, nil
	}
	var b strings.Builder
	if _, err := io.Copy(&b, args.GetCmd().InOrStdin()); err != nil {
		return "", &cli.CodedError{Code: cli.ExitDataErr, Err: err}
	}
	return strings.TrimRight(b.String(), "\n"), nil
}
