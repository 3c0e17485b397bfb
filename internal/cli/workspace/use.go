package workspace

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MahdiIsse/project-management-sub001/internal/cli"
	"github.com/MahdiIsse/project-management-sub001/internal/types"
)

// UseCmd returns the workspace use subcommand
func UseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "use [workspace-id]",
		Short: "Set the workspace for the current shell session",
		Long: `Print the shell command that selects a default workspace. Evaluate it:

  eval $(workboard workspace use 3)        # Use workspace 3
  eval $(workboard workspace use --clear)  # Clear the selection
  workboard workspace use --show           # Show the current workspace

The --workspace flag on other commands takes precedence over
$WORKBOARD_WORKSPACE.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runUse,
	}
	cmd.Flags().Bool("clear", false, "Clear the current workspace")
	cmd.Flags().Bool("show", false, "Show the current workspace")
	return cmd
}

func runUse(cmd *cobra.Command, args []string) error {
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	formatter := cli.NewFormatter(cmd)

	if show, _ := cmd.Flags().GetBool("show"); show {
		current := os.Getenv(cli.WorkspaceEnv)
		if current == "" {
			fmt.Fprintln(out, "No workspace selected")
			return nil
		}
		fmt.Fprintf(out, "%s=%s\n", cli.WorkspaceEnv, current)
		return nil
	}
	if clearFlag, _ := cmd.Flags().GetBool("clear"); clearFlag {
		fmt.Fprintf(out, "unset %s\n", cli.WorkspaceEnv)
		fmt.Fprintln(errOut, "Cleared workspace selection")
		return nil
	}
	if len(args) == 0 {
		return formatter.Fail(cli.UsageError("workspace id required\nUsage: eval $(workboard workspace use <workspace-id>)"))
	}
	n, err := cli.ParseID("workspace id", args[0])
	if err != nil {
		return formatter.Fail(err)
	}

	c, release, err := cli.FromCommand(cmd)
	if err != nil {
		return formatter.Fail(err)
	}
	defer release()

	ws, err := c.Backend.GetWorkspace(cmd.Context(), types.WorkspaceID(n))
	if err != nil {
		return formatter.Fail(err)
	}

	// stdout carries only the export so it can be evaluated
	fmt.Fprintf(out, "export %s=%d\n", cli.WorkspaceEnv, ws.ID)
	fmt.Fprintf(errOut, "Now using workspace %d: %s\n", ws.ID, ws.Title)
	return nil
}
