package workspace

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/MahdiIsse/project-management-sub001/internal/board"
	"github.com/MahdiIsse/project-management-sub001/internal/cli"
	"github.com/MahdiIsse/project-management-sub001/internal/cli/handler"
	"github.com/MahdiIsse/project-management-sub001/internal/dto"
	"github.com/MahdiIsse/project-management-sub001/internal/types"
)

// UpdateCmd returns the workspace update subcommand
func UpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <workspace-id>",
		Short: "Update a workspace",
		Long: `Change a workspace's title, description or colour. Only the flags
you pass are changed; --description "" clears the description.`,
		Args: cobra.MaximumNArgs(1),
		RunE: handler.Command(runUpdate),
	}
	cmd.Flags().Int("id", 0, "Workspace ID")
	cmd.Flags().String("title", "", "New title")
	cmd.Flags().String("description", "", "New description")
	cmd.Flags().String("color", "", "New accent colour as #RRGGBB")
	cli.AddOutputFlags(cmd)
	return cmd
}

func runUpdate(ctx context.Context, c *cli.CLI, args *handler.Arguments) (*handler.Result, error) {
	id, err := cli.IDArg(args.GetCmd(), args.Args, "workspace id")
	if err != nil {
		return nil, err
	}

	patch := board.WorkspacePatch{
		Title:       args.StringPtr("title"),
		Description: args.StringPtr("description"),
		Color:       args.StringPtr("color"),
	}
	if patch.Title == nil && patch.Description == nil && patch.Color == nil {
		return nil, cli.UsageError("nothing to update: pass --title, --description or --color")
	}
	if patch.Color != nil && *patch.Color != "" {
		if err := cli.ValidateColorHex(*patch.Color); err != nil {
			return nil, err
		}
	}

	ws, err := c.Board.UpdateWorkspace(ctx, types.WorkspaceID(id), patch)
	if err != nil {
		return nil, err
	}
	out := dto.WorkspaceToDto(*ws)
	return &handler.Result{
		Data:   out,
		Pretty: func(w io.Writer) { printWorkspace(w, out) },
	}, nil
}
