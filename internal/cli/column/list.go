package column

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/MahdiIsse/project-management-sub001/internal/board"
	"github.com/MahdiIsse/project-management-sub001/internal/cli"
	"github.com/MahdiIsse/project-management-sub001/internal/cli/handler"
	"github.com/MahdiIsse/project-management-sub001/internal/dto"
)

// ListCmd returns the column list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List columns in a workspace",
		Long: `List all columns in a workspace (in order).

Examples:
  workboard column list --workspace=1
  workboard column list --workspace=1 --json
  workboard column list --quiet
`,
		Args: cobra.NoArgs,
		RunE: handler.Command(runList),
	}
	addWorkspaceFlag(cmd)
	cli.AddOutputFlags(cmd)
	return cmd
}

func runList(ctx context.Context, c *cli.CLI, args *handler.Arguments) (*handler.Result, error) {
	wsID, err := args.Parser().WorkspaceID()
	if err != nil {
		return nil, err
	}
	items, err := c.Board.Columns(ctx, wsID)
	if err != nil {
		return nil, err
	}
	cols := dto.ColumnsToDtos(board.Values(items))

	return &handler.Result{
		Data: cli.List(cols),
		Pretty: func(w io.Writer) {
			if len(cols) == 0 {
				fmt.Fprintf(w, "No columns in workspace %d\n", wsID)
				return
			}
			for i, col := range cols {
				fmt.Fprintf(w, "  %d. ", i+1)
				printColumn(w, col)
			}
		},
	}, nil
}
