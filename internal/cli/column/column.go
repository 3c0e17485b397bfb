// Package column holds the column commands, e.g. workboard column ...
package column

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/MahdiIsse/project-management-sub001/internal/cli/styles"
	"github.com/MahdiIsse/project-management-sub001/internal/dto"
)

// ColumnCmd returns the column parent command
func ColumnCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "column",
		Aliases: []string{"col"},
		Short:   "Manage columns",
	}

	cmd.AddCommand(ListCmd())
	cmd.AddCommand(CreateCmd())
	cmd.AddCommand(UpdateCmd())
	cmd.AddCommand(DeleteCmd())
	cmd.AddCommand(ReorderCmd())
	cmd.AddCommand(MoveCmd())

	return cmd
}

func addWorkspaceFlag(cmd *cobra.Command) {
	cmd.Flags().Int("workspace", 0, "Workspace ID (uses WORKBOARD_WORKSPACE if not specified)")
}

func printColumn(w io.Writer, col dto.ColumnDto) {
	fmt.Fprintf(w, "%s %s\n", styles.ColoredText(col.Title, col.Color), styles.SubtitleStyle.Render(fmt.Sprintf("(ID: %d)", col.ID)))
}
