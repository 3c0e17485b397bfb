// Package cmd assembles the workboard command tree
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/MahdiIsse/project-management-sub001/internal/cli"
	"github.com/MahdiIsse/project-management-sub001/internal/cli/account"
	"github.com/MahdiIsse/project-management-sub001/internal/cli/assignee"
	"github.com/MahdiIsse/project-management-sub001/internal/cli/column"
	"github.com/MahdiIsse/project-management-sub001/internal/cli/styles"
	"github.com/MahdiIsse/project-management-sub001/internal/cli/tag"
	"github.com/MahdiIsse/project-management-sub001/internal/cli/task"
	"github.com/MahdiIsse/project-management-sub001/internal/cli/workspace"
	"github.com/MahdiIsse/project-management-sub001/internal/config"
)

// NewRootCmd builds the full command tree
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "workboard",
		Short: "Workboard - project management boards in the terminal",
		Long: `Workboard organises work into workspaces, columns and tasks.

Run it without a command to open the interactive board, or use the
subcommands to script it. Add --remote to any data command to go through
the HTTP API instead of the local database.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if cfg, err := config.Load(); err == nil {
				styles.InitFromConfig(cfg)
			}
		},
		RunE: runBoard,
	}
	rootCmd.PersistentFlags().Bool("remote", false, "Use the HTTP API configured in api.base_url")
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\nRun '%s --help' for usage.\n", err, cmd.CommandPath())
		return &cli.CodedError{Code: cli.ExitUsage, Err: err}
	})

	rootCmd.AddCommand(workspace.WorkspaceCmd())
	rootCmd.AddCommand(column.ColumnCmd())
	rootCmd.AddCommand(task.TaskCmd())
	rootCmd.AddCommand(tag.TagCmd())
	rootCmd.AddCommand(assignee.AssigneeCmd())
	rootCmd.AddCommand(account.AccountCmd())

	rootCmd.AddCommand(boardCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(daemonCmd())
	rootCmd.AddCommand(tokenCmd())
	return rootCmd
}

// Execute runs the command tree and returns the process exit code
func Execute() int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := NewRootCmd().ExecuteContext(ctx)
	if err == nil {
		return cli.ExitSuccess
	}

	// Coded errors were already reported by the command
	var coded *cli.CodedError
	if !errors.As(err, &coded) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return cli.ExitCode(err)
}
