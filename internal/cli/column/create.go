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

// CreateCmd returns the column create subcommand
func CreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new column",
		Long: `Create a new column at the end of a workspace.

Examples:
  workboard column create --title="Review" --workspace=1
  workboard column create --title="Review" --color="#5F87D7" --json

  # Quiet mode for bash capture
  COLUMN_ID=$(workboard column create --title="Review" --quiet)
`,
		Args: cobra.NoArgs,
		RunE: handler.Command(runCreate),
	}
	cmd.Flags().String("title", "", "Column title (required)")
	cmd.Flags().String("color", "", "Border colour as #RRGGBB")
	_ = cmd.MarkFlagRequired("title")
	addWorkspaceFlag(cmd)
	cli.AddOutputFlags(cmd)
	return cmd
}

func runCreate(ctx context.Context, c *cli.CLI, args *handler.Arguments) (*handler.Result, error) {
	p := args.Parser()
	wsID, err := p.WorkspaceID()
	if err != nil {
		return nil, err
	}
	title, err := p.String("title")
	if err != nil {
		return nil, err
	}
	color, err := p.Color("color")
	if err != nil {
		return nil, err
	}

	// Appending needs the current list to pick the next position
	if _, err := c.Board.Columns(ctx, wsID); err != nil {
		return nil, err
	}
	col, err := c.Board.CreateColumn(ctx, board.ColumnInput{WorkspaceID: wsID, Title: title, Color: color})
	if err != nil {
		return nil, err
	}

	out := dto.ColumnToDto(*col)
	return &handler.Result{
		Data: out,
		Pretty: func(w io.Writer) {
			fmt.Fprintf(w, "✓ Column '%s' created (ID: %d)\n", out.Title, out.ID)
		},
	}, nil
}
