// Package assignee holds the assignee commands, e.g. workboard assignee ...
package assignee

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/MahdiIsse/project-management-sub001/internal/board"
	"github.com/MahdiIsse/project-management-sub001/internal/cli"
	"github.com/MahdiIsse/project-management-sub001/internal/cli/handler"
	"github.com/MahdiIsse/project-management-sub001/internal/cli/styles"
	"github.com/MahdiIsse/project-management-sub001/internal/dto"
	"github.com/MahdiIsse/project-management-sub001/internal/models"
	"github.com/MahdiIsse/project-management-sub001/internal/types"
)

// AssigneeCmd returns the assignee parent command
func AssigneeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "assignee",
		Aliases: []string{"people"},
		Short:   "Manage assignees",
	}

	cmd.AddCommand(ListCmd())
	cmd.AddCommand(CreateCmd())
	cmd.AddCommand(UpdateCmd())
	cmd.AddCommand(DeleteCmd())
	cmd.AddCommand(AvatarCmd())

	return cmd
}

func printAssignee(w io.Writer, a models.Assignee) {
	fmt.Fprintf(w, "  %s %s", styles.TitleStyle.Render(a.Name), styles.SubtitleStyle.Render(fmt.Sprintf("#%d", a.ID)))
	if a.AvatarURL != "" {
		fmt.Fprintf(w, "  %s", a.AvatarURL)
	}
	fmt.Fprintln(w)
}

func assigneeResult(a *models.Assignee) *handler.Result {
	person := *a
	return &handler.Result{
		Data:   dto.AssigneeToDto(person),
		Pretty: func(w io.Writer) { printAssignee(w, person) },
	}
}

// ListCmd returns the assignee list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List assignees",
		Args:  cobra.NoArgs,
		RunE: handler.Command(func(ctx context.Context, c *cli.CLI, _ *handler.Arguments) (*handler.Result, error) {
			items, err := c.Board.Assignees(ctx)
			if err != nil {
				return nil, err
			}
			people := board.Values(items)
			return &handler.Result{
				Data: cli.List(dto.AssigneesToDtos(people)),
				Pretty: func(w io.Writer) {
					if len(people) == 0 {
						fmt.Fprintln(w, "No assignees yet")
						return
					}
					for _, a := range people {
						printAssignee(w, a)
					}
				},
			}, nil
		}),
	}
	cli.AddOutputFlags(cmd)
	return cmd
}

// CreateCmd returns the assignee create subcommand
func CreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an assignee",
		Args:  cobra.NoArgs,
		RunE: handler.Command(func(ctx context.Context, c *cli.CLI, args *handler.Arguments) (*handler.Result, error) {
			name, err := args.Parser().String("name")
			if err != nil {
				return nil, err
			}
			a, err := c.Board.CreateAssignee(ctx, board.AssigneeInput{Name: name})
			if err != nil {
				return nil, err
			}
			return assigneeResult(a), nil
		}),
	}
	cmd.Flags().String("name", "", "Display name (required)")
	_ = cmd.MarkFlagRequired("name")
	cli.AddOutputFlags(cmd)
	return cmd
}

// UpdateCmd returns the assignee update subcommand
func UpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <assignee-id>",
		Short: "Rename an assignee or clear their avatar",
		Args:  cobra.MaximumNArgs(1),
		RunE: handler.Command(func(ctx context.Context, c *cli.CLI, args *handler.Arguments) (*handler.Result, error) {
			id, err := cli.IDArg(args.GetCmd(), args.Args, "assignee id")
			if err != nil {
				return nil, err
			}
			patch := board.AssigneePatch{Name: args.StringPtr("name")}
			if args.GetBool("clear-avatar") {
				empty := ""
				patch.AvatarURL = &empty
			}
			if patch.Name == nil && patch.AvatarURL == nil {
				return nil, cli.UsageError("nothing to update: pass --name or --clear-avatar")
			}
			a, err := c.Board.UpdateAssignee(ctx, types.AssigneeID(id), patch)
			if err != nil {
				return nil, err
			}
			return assigneeResult(a), nil
		}),
	}
	cmd.Flags().Int("id", 0, "Assignee ID")
	cmd.Flags().String("name", "", "New display name")
	cmd.Flags().Bool("clear-avatar", false, "Remove the avatar")
	cli.AddOutputFlags(cmd)
	return cmd
}

// DeleteCmd returns the assignee delete subcommand
func DeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <assignee-id>",
		Short: "Delete an assignee",
		Long:  "Delete an assignee and unassign them everywhere (requires confirmation unless --force, --quiet or --json).",
		Args:  cobra.MaximumNArgs(1),
		RunE: handler.Command(func(ctx context.Context, c *cli.CLI, args *handler.Arguments) (*handler.Result, error) {
			id, err := cli.IDArg(args.GetCmd(), args.Args, "assignee id")
			if err != nil {
				return nil, err
			}
			a, err := c.Backend.GetAssignee(ctx, types.AssigneeID(id))
			if err != nil {
				return nil, err
			}
			if !cli.Confirm(args.GetCmd(), "Delete assignee '%s'?", a.Name) {
				return &handler.Result{Message: "Cancelled"}, nil
			}
			if err := c.Board.DeleteAssignee(ctx, a.ID); err != nil {
				return nil, err
			}
			return &handler.Result{Message: fmt.Sprintf("Assignee %d deleted", id)}, nil
		}),
	}
	cmd.Flags().Int("id", 0, "Assignee ID")
	cmd.Flags().Bool("force", false, "Skip confirmation")
	cli.AddOutputFlags(cmd)
	return cmd
}

// AvatarCmd returns the assignee avatar subcommand
func AvatarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "avatar <assignee-id> <image-file>",
		Short: "Upload an avatar image",
		Long: `Upload an image and make it the assignee's avatar. The previous avatar
file is removed from the bucket.

Examples:
  workboard assignee avatar 3 ./me.png
`,
		Args: cobra.ExactArgs(2),
		RunE: handler.Command(func(ctx context.Context, c *cli.CLI, args *handler.Arguments) (*handler.Result, error) {
			id, err := cli.ParseID("assignee id", args.Args[0])
			if err != nil {
				return nil, err
			}
			path := args.Args[1]
			f, err := os.Open(path)
			if err != nil {
				return nil, &cli.CodedError{Code: cli.ExitDataErr, Err: fmt.Errorf("cannot open %s: %w", path, err)}
			}
			defer f.Close()

			a, err := c.Backend.UploadAvatar(ctx, types.AssigneeID(id), filepath.Base(path), f)
			if err != nil {
				return nil, err
			}
			c.Board.SetAvatar(a)
			return assigneeResult(a), nil
		}),
	}
	cli.AddOutputFlags(cmd)
	return cmd
}
