package task

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MahdiIsse/project-management-sub001/internal/board"
	"github.com/MahdiIsse/project-management-sub001/internal/cli"
	"github.com/MahdiIsse/project-management-sub001/internal/cli/handler"
	"github.com/MahdiIsse/project-management-sub001/internal/cli/styles"
	"github.com/MahdiIsse/project-management-sub001/internal/dto"
	"github.com/MahdiIsse/project-management-sub001/internal/filters"
	"github.com/MahdiIsse/project-management-sub001/internal/models"
	"github.com/MahdiIsse/project-management-sub001/internal/types"
)

// ListCmd returns the task list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks in a workspace",
		Long: `List the tasks of a workspace, grouped by column.

Filters combine: a task must match the search text, have one of the listed
priorities and one of the listed assignees. --filter takes the same query
string the board URL uses; explicit flags override its fields.

Examples:
  workboard task list --workspace=1
  workboard task list --priority high,medium --assignee 3
  workboard task list --search "login" --json
  workboard task list --filter "priorities=High&search=bug"
`,
		Args: cobra.NoArgs,
		RunE: handler.Command(runList),
	}
	cmd.Flags().Int("workspace", 0, "Workspace ID (uses WORKBOARD_WORKSPACE if not specified)")
	cmd.Flags().Int("column", 0, "Only tasks in this column")
	cmd.Flags().String("search", "", "Match title or description")
	cmd.Flags().String("assignee", "", "Comma separated assignee ids")
	cmd.Flags().String("priority", "", "Comma separated priorities (low, medium, high)")
	cmd.Flags().String("filter", "", "Filter query string, e.g. priorities=High&search=x")
	cli.AddOutputFlags(cmd)
	return cmd
}

// parseFilters merges --filter with the explicit filter flags
func parseFilters(args *handler.Arguments) (filters.TaskFilterParams, error) {
	f := filters.Parse(args.GetString("filter", ""))
	if search := args.StringPtr("search"); search != nil {
		f.Search = *search
	}
	if raw := args.GetString("assignee", ""); raw != "" {
		ids, err := cli.ParseIDList("--assignee", raw)
		if err != nil {
			return f, err
		}
		f.AssigneeIDs = dto.TypedIDs[types.AssigneeID](ids)
	}
	if raw := args.GetString("priority", ""); raw != "" {
		f.Priorities = nil
		for _, tok := range splitComma(raw) {
			p, err := cli.ParsePriority(tok)
			if err != nil {
				return f, err
			}
			f.Priorities = append(f.Priorities, p)
		}
	}
	return f, nil
}

func runList(ctx context.Context, c *cli.CLI, args *handler.Arguments) (*handler.Result, error) {
	wsID, err := args.Parser().WorkspaceID()
	if err != nil {
		return nil, err
	}
	f, err := parseFilters(args)
	if err != nil {
		return nil, err
	}

	var tasks []models.Task
	if f.IsZero() {
		items, err := c.Board.Tasks(ctx, wsID)
		if err != nil {
			return nil, err
		}
		tasks = board.Values(items)
	} else if tasks, err = c.Backend.ListTasksFiltered(ctx, wsID, f); err != nil {
		return nil, err
	}

	if colID := types.ColumnID(args.GetInt("column", 0)); colID.Valid() {
		kept := tasks[:0:0]
		for _, t := range tasks {
			if t.ColumnID == colID {
				kept = append(kept, t)
			}
		}
		tasks = kept
	}

	cols, err := c.Board.Columns(ctx, wsID)
	if err != nil {
		return nil, err
	}

	return &handler.Result{
		Data: cli.List(dto.TasksToDtos(tasks)),
		Pretty: func(w io.Writer) {
			if len(tasks) == 0 {
				fmt.Fprintln(w, "No tasks found")
				return
			}
			for _, col := range board.Values(cols) {
				var inCol []models.Task
				for _, t := range tasks {
					if t.ColumnID == col.ID {
						inCol = append(inCol, t)
					}
				}
				if len(inCol) == 0 {
					continue
				}
				fmt.Fprintln(w, styles.SectionStyle.Render(fmt.Sprintf("%s (%d)", col.Title, len(inCol))))
				for _, t := range inCol {
					fmt.Fprint(w, "  ")
					printTaskLine(w, t)
				}
			}
		},
	}, nil
}

func splitComma(s string) []string {
	var out []string
	for _, tok := range strings.Split(s, ",") {
		if tok = strings.TrimSpace(tok); tok != "" {
			out = append(out, tok)
		}
	}
	return out
}
