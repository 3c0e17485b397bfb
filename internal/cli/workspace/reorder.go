package workspace

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MahdiIsse/project-management-sub001/internal/cli"
	"github.com/MahdiIsse/project-management-sub001/internal/cli/handler"
	"github.com/MahdiIsse/project-management-sub001/internal/dto"
	"github.com/MahdiIsse/project-management-sub001/internal/types"
)

// ReorderCmd returns the workspace reorder subcommand
func ReorderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reorder",
		Short: "Reorder workspaces",
		Long: `Give workspaces a new order. Listed workspaces come first, in the given
order; the rest keep their relative order after them.

Examples:
  workboard workspace reorder --order 3,1,2
`,
		Args: cobra.NoArgs,
		RunE: handler.Command(runReorder),
	}
	cmd.Flags().String("order", "", "Comma separated workspace ids (required)")
	_ = cmd.MarkFlagRequired("order")
	cli.AddOutputFlags(cmd)
	return cmd
}

func runReorder(ctx context.Context, c *cli.CLI, args *handler.Arguments) (*handler.Result, error) {
	ids, err := args.Parser().IDs("order")
	if err != nil {
		return nil, err
	}
	items, err := c.Board.Workspaces(ctx)
	if err != nil {
		return nil, err
	}
	current := make([]int, len(items))
	for i, it := range items {
		current[i] = it.Value.ID.Int()
	}
	order := cli.CompleteOrder(ids, current)
	if err := c.Board.ReorderWorkspaces(ctx, dto.TypedIDs[types.WorkspaceID](order)); err != nil {
		return nil, err
	}
	return &handler.Result{Message: fmt.Sprintf("Reordered %d workspaces", len(ids))}, nil
}
