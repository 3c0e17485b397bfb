package workspace

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/MahdiIsse/project-management-sub001/internal/board"
	"github.com/MahdiIsse/project-management-sub001/internal/cli"
	"github.com/MahdiIsse/project-management-sub001/internal/cli/handler"
	"github.com/MahdiIsse/project-management-sub001/internal/dto"
)

// CreateCmd returns the workspace create subcommand
func CreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new workspace",
		Long: `Create a new workspace at the end of your list.

Examples:
  workboard workspace create --title "Launch"
  workboard workspace create --title "Launch" --color "#874BFD" --json

  # Quiet mode for bash capture
  WS=$(workboard workspace create --title "Launch" --quiet)
`,
		Args: cobra.NoArgs,
		RunE: handler.Command(runCreate),
	}

	cmd.Flags().String("title", "", "Workspace title (required)")
	cmd.Flags().String("description", "", "Workspace description")
	cmd.Flags().String("color", "", "Accent colour as #RRGGBB")
	_ = cmd.MarkFlagRequired("title")
	cli.AddOutputFlags(cmd)
	return cmd
}

func runCreate(ctx context.Context, c *cli.CLI, args *handler.Arguments) (*handler.Result, error) {
	p := args.Parser()
	title, err := p.String("title")
	if err != nil {
		return nil, err
	}
	color, err := p.Color("color")
	if err != nil {
		return nil, err
	}

	ws, err := c.Board.CreateWorkspace(ctx, board.WorkspaceInput{
		Title:       title,
		Description: args.GetString("description", ""),
		Color:       color,
	})
	if err != nil {
		return nil, err
	}

	out := dto.WorkspaceToDto(*ws)
	return &handler.Result{
		Data: out,
		Pretty: func(w io.Writer) {
			printCreated(w, "Workspace", out.Title, out.ID)
		},
	}, nil
}
