package cmd

import (
	"github.com/spf13/cobra"

	"github.com/MahdiIsse/project-management-sub001/internal/cli"
	"github.com/MahdiIsse/project-management-sub001/internal/launcher"
)

func boardCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "board",
		Aliases: []string{"tui"},
		Short:   "Open the interactive board",
		Args:    cobra.NoArgs,
		RunE:    runBoard,
	}
}

func runBoard(cmd *cobra.Command, args []string) error {
	c, release, err := cli.FromCommand(cmd)
	if err != nil {
		return err
	}
	defer release()
	return launcher.Launch(cmd.Context(), c)
}
