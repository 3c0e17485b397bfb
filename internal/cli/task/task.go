// Package task holds the task commands, e.g. workboard task ...
package task

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MahdiIsse/project-management-sub001/internal/cli"
	"github.com/MahdiIsse/project-management-sub001/internal/cli/handler"
	"github.com/MahdiIsse/project-management-sub001/internal/cli/styles"
	"github.com/MahdiIsse/project-management-sub001/internal/dto"
	"github.com/MahdiIsse/project-management-sub001/internal/models"
	"github.com/MahdiIsse/project-management-sub001/internal/types"
)

// TaskCmd returns the task parent command
func TaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}

	cmd.AddCommand(ListCmd())
	cmd.AddCommand(CreateCmd())
	cmd.AddCommand(ShowCmd())
	cmd.AddCommand(UpdateCmd())
	cmd.AddCommand(DeleteCmd())
	cmd.AddCommand(MoveCmd())
	cmd.AddCommand(PriorityCmd())
	cmd.AddCommand(AssignCmd())
	cmd.AddCommand(UnassignCmd())
	cmd.AddCommand(TagCmd())
	cmd.AddCommand(UntagCmd())

	return cmd
}

// taskArg reads the task id from the first argument or --id
func taskArg(args *handler.Arguments) (types.TaskID, error) {
	id, err := cli.IDArg(args.GetCmd(), args.Args, "task id")
	return types.TaskID(id), err
}

// taskResult renders one task as a short summary line
func taskResult(t *models.Task) *handler.Result {
	out := dto.TaskToDto(*t)
	task := *t
	return &handler.Result{
		Data:   out,
		Pretty: func(w io.Writer) { printTaskLine(w, task) },
	}
}

func printTaskLine(w io.Writer, t models.Task) {
	var b strings.Builder
	b.WriteString(styles.SubtitleStyle.Render(fmt.Sprintf("#%d", t.ID)))
	b.WriteString(" ")
	b.WriteString(styles.RenderPriority(t.Priority))
	b.WriteString(" ")
	b.WriteString(styles.ValueStyle.Render(t.Title))
	if len(t.Tags) > 0 {
		b.WriteString(" ")
		b.WriteString(styles.RenderTags(t.Tags))
	}
	if len(t.Assignees) > 0 {
		names := make([]string, len(t.Assignees))
		for i, a := range t.Assignees {
			names[i] = "@" + a.Name
		}
		b.WriteString(" ")
		b.WriteString(styles.SubtitleStyle.Render(strings.Join(names, " ")))
	}
	if t.DueDate != nil {
		b.WriteString(" ")
		b.WriteString(styles.SubtitleStyle.Render("due " + t.DueDate.Format("2006-01-02")))
	}
	fmt.Fprintln(w, b.String())
}

// lookup fetches the task so commands that only take a task id can name
// its workspace to the board
func lookup(ctx context.Context, c *cli.CLI, id types.TaskID) (*models.Task, error) {
	return c.Backend.GetTask(ctx, id)
}
