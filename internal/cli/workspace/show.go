package workspace

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/MahdiIsse/project-management-sub001/internal/board"
	"github.com/MahdiIsse/project-management-sub001/internal/cli"
	"github.com/MahdiIsse/project-management-sub001/internal/cli/handler"
	"github.com/MahdiIsse/project-management-sub001/internal/cli/styles"
	"github.com/MahdiIsse/project-management-sub001/internal/dto"
	"github.com/MahdiIsse/project-management-sub001/internal/types"
)

// Overview is a workspace with its columns and how many tasks each holds
type Overview struct {
	dto.WorkspaceDto
	Columns []ColumnSummary `json:"columns"`
}

type ColumnSummary struct {
	dto.ColumnDto
	TaskCount int `json:"taskCount"`
}

// ShowCmd returns the workspace show subcommand
func ShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [workspace-id]",
		Short: "Show a workspace and its columns",
		Long: `Show a workspace with its columns and task counts. Without an id the
workspace from --workspace or $WORKBOARD_WORKSPACE is shown.`,
		Args: cobra.MaximumNArgs(1),
		RunE: handler.Command(runShow),
	}
	cmd.Flags().Int("workspace", 0, "Workspace ID")
	cli.AddOutputFlags(cmd)
	return cmd
}

func runShow(ctx context.Context, c *cli.CLI, args *handler.Arguments) (*handler.Result, error) {
	var id types.WorkspaceID
	if len(args.Args) > 0 {
		n, err := cli.ParseID("workspace id", args.Args[0])
		if err != nil {
			return nil, err
		}
		id = types.WorkspaceID(n)
	} else {
		var err error
		if id, err = args.Parser().WorkspaceID(); err != nil {
			return nil, err
		}
	}

	ws, err := c.Backend.GetWorkspace(ctx, id)
	if err != nil {
		return nil, err
	}
	cols, err := c.Board.Columns(ctx, id)
	if err != nil {
		return nil, err
	}
	tasks, err := c.Board.Tasks(ctx, id)
	if err != nil {
		return nil, err
	}

	overview := Overview{WorkspaceDto: dto.WorkspaceToDto(*ws), Columns: []ColumnSummary{}}
	for _, col := range board.Values(cols) {
		overview.Columns = append(overview.Columns, ColumnSummary{
			ColumnDto: dto.ColumnToDto(col),
			TaskCount: len(board.ColumnTasks(tasks, col.ID)),
		})
	}

	return &handler.Result{
		Data: overview,
		Pretty: func(w io.Writer) {
			printWorkspace(w, overview.WorkspaceDto)
			fmt.Fprintln(w, styles.SectionStyle.Render("Columns"))
			if len(overview.Columns) == 0 {
				fmt.Fprintln(w, "  (none)")
			}
			for _, col := range overview.Columns {
				fmt.Fprintf(w, "  %s %s\n",
					styles.ColoredText(col.Title, col.Color),
					styles.SubtitleStyle.Render(fmt.Sprintf("#%d · %d tasks", col.ID, col.TaskCount)))
			}
		},
	}, nil
}
