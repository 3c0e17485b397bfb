// Package workspace holds the workspace commands, e.g. workboard workspace ...
package workspace

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/MahdiIsse/project-management-sub001/internal/cli/styles"
	"github.com/MahdiIsse/project-management-sub001/internal/dto"
)

// WorkspaceCmd returns the workspace parent command
func WorkspaceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "workspace",
		Aliases: []string{"ws"},
		Short:   "Manage workspaces",
	}

	cmd.AddCommand(ListCmd())
	cmd.AddCommand(ShowCmd())
	cmd.AddCommand(CreateCmd())
	cmd.AddCommand(UpdateCmd())
	cmd.AddCommand(DeleteCmd())
	cmd.AddCommand(ReorderCmd())
	cmd.AddCommand(UseCmd())

	return cmd
}

func printWorkspace(w io.Writer, ws dto.WorkspaceDto) {
	fmt.Fprintln(w, styles.RenderHeading(styles.ColoredText(ws.Title, ws.Color), ws.ID))
	if ws.Description != "" {
		fmt.Fprintln(w, "  "+styles.SubtitleStyle.Render(ws.Description))
	}
}

func printCreated(w io.Writer, kind, title string, id int) {
	fmt.Fprintf(w, "✓ %s '%s' created (ID: %d)\n", kind, title, id)
}
