package workspace

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

// ListCmd returns the workspace list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List workspaces",
		Long: `List your workspaces in board order.

Examples:
  workboard workspace list
  workboard workspace list --json
  workboard workspace list --quiet
`,
		Args: cobra.NoArgs,
		RunE: handler.Command(runList),
	}
	cli.AddOutputFlags(cmd)
	return cmd
}

func runList(ctx context.Context, c *cli.CLI, _ *handler.Arguments) (*handler.Result, error) {
	items, err := c.Board.Workspaces(ctx)
	if err != nil {
		return nil, err
	}
	list := dto.WorkspacesToDtos(board.Values(items))

	return &handler.Result{
		Data: cli.List(list),
		Pretty: func(w io.Writer) {
			if len(list) == 0 {
				fmt.Fprintln(w, "No workspaces yet. Create one with: workboard workspace create --title <title>")
				return
			}
			for _, ws := range list {
				printWorkspace(w, ws)
			}
		},
	}, nil
}
