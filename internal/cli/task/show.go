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
)

// ShowCmd returns the task show subcommand
func ShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <task-id>",
		Short: "Show a task",
		Long:  "Show a task with its markdown description rendered for the terminal.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  handler.Command(runShow),
	}
	cmd.Flags().Int("id", 0, "Task ID")
	cli.AddOutputFlags(cmd)
	return cmd
}

func runShow(ctx context.Context, c *cli.CLI, args *handler.Arguments) (*handler.Result, error) {
	id, err := taskArg(args)
	if err != nil {
		return nil, err
	}
	t, err := c.Backend.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	task := *t
	return &handler.Result{
		Data:   dto.TaskToDto(task),
		Pretty: func(w io.Writer) { fmt.Fprintln(w, styles.RenderCard(renderTask(task))) },
	}, nil
}

func renderTask(t models.Task) string {
	width := styles.CardWidth - 6
	lines := []string{
		styles.RenderHeading(t.Title, t.ID.Int()),
		"",
		styles.LabelStyle.Render("Priority:") + " " + styles.RenderPriority(t.Priority),
	}
	if t.DueDate != nil {
		lines = append(lines, styles.RenderField("Due", t.DueDate.Format("Mon 2 Jan 2006")))
	}
	if len(t.Assignees) > 0 {
		names := make([]string, len(t.Assignees))
		for i, a := range t.Assignees {
			names[i] = a.Name
		}
		lines = append(lines, styles.RenderField("Assignees", strings.Join(names, ", ")))
	}
	if len(t.Tags) > 0 {
		lines = append(lines, styles.LabelStyle.Render("Tags:")+" "+styles.RenderTags(t.Tags))
	}
	lines = append(lines,
		styles.SectionStyle.Render("Description"),
		styles.RenderMarkdown(t.Description, width),
	)
	return strings.Join(lines, "\n")
}
