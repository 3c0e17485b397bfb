package column

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

// UpdateCmd returns the column update subcommand
func UpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <column-id>",
		Short: "Rename or recolour a column",
		Args:  cobra.MaximumNArgs(1),
		RunE:  handler.Command(runUpdate),
	}
	cmd.Flags().Int("id", 0, "Column ID")
	cmd.Flags().String("title", "", "New title")
	cmd.Flags().String("color", "", "New border colour as #RRGGBB")
	cli.AddOutputFlags(cmd)
	return cmd
}

func runUpdate(ctx context.Context, c *cli.CLI, args *handler.Arguments) (*handler.Result, error) {
	id, err := cli.IDArg(args.GetCmd(), args.Args, "column id")
	if err != nil {
		return nil, err
	}
	patch := board.ColumnPatch{Title: args.StringPtr("title"), Color: args.StringPtr("color")}
	if patch.Title == nil && patch.Color == nil {
		return nil, cli.UsageError("nothing to update: pass --title or --color")
	}

	col, err := c.Board.UpdateColumn(ctx, 0, types.ColumnID(id), patch)
	if err != nil {
		return nil, err
	}
	out := dto.ColumnToDto(*col)
	return &handler.Result{
		Data:   out,
		Pretty: func(w io.Writer) { printColumn(w, out) },
	}, nil
}
