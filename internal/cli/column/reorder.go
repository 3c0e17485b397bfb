package column

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MahdiIsse/project-management-sub001/internal/cli"
	"github.com/MahdiIsse/project-management-sub001/internal/cli/handler"
	"github.com/MahdiIsse/project-management-sub001/internal/dto"
	"github.com/MahdiIsse/project-management-sub001/internal/types"
)

// ReorderCmd returns the column reorder subcommand
func ReorderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reorder",
		Short: "Reorder the columns of a workspace",
		Long: `Give columns a new order. Listed columns come first; the rest keep
their relative order after them.

Examples:
  workboard column reorder --workspace=1 --order 4,2,3
`,
		Args: cobra.NoArgs,
		RunE: handler.Command(runReorder),
	}
	cmd.Flags().String("order", "", "Comma separated column ids (required)")
	_ = cmd.MarkFlagRequired("order")
	addWorkspaceFlag(cmd)
	cli.AddOutputFlags(cmd)
	return cmd
}

func runReorder(ctx context.Context, c *cli.CLI, args *handler.Arguments) (*handler.Result, error) {
	p := args.Parser()
	wsID, err := p.WorkspaceID()
	if err != nil {
		return nil, err
	}
	ids, err := p.IDs("order")
	if err != nil {
		return nil, err
	}

	items, err := c.Board.Columns(ctx, wsID)
	if err != nil {
		return nil, err
	}
	current := make([]int, len(items))
	for i, it := range items {
		current[i] = it.Value.ID.Int()
	}
	order := cli.CompleteOrder(ids, current)
	if err := c.Board.ReorderColumns(ctx, wsID, dto.TypedIDs[types.ColumnID](order)); err != nil {
		return nil, err
	}
	return &handler.Result{Message: fmt.Sprintf("Reordered %d columns", len(ids))}, nil
}
