// Package tag holds the tag commands, e.g. workboard tag ...
package tag

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MahdiIsse/project-management-sub001/internal/board"
	"github.com/MahdiIsse/project-management-sub001/internal/cli"
	"github.com/MahdiIsse/project-management-sub001/internal/cli/handler"
	"github.com/MahdiIsse/project-management-sub001/internal/cli/styles"
	"github.com/MahdiIsse/project-management-sub001/internal/dto"
	"github.com/MahdiIsse/project-management-sub001/internal/models"
	"github.com/MahdiIsse/project-management-sub001/internal/types"
)

// TagCmd returns the tag parent command
func TagCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Manage tags",
		Long: `Manage the tags you can attach to tasks. Colours are a palette name
(` + paletteNames() + `) or #RRGGBB.`,
	}

	cmd.AddCommand(ListCmd())
	cmd.AddCommand(CreateCmd())
	cmd.AddCommand(UpdateCmd())
	cmd.AddCommand(DeleteCmd())

	return cmd
}

func paletteNames() string {
	names := make([]string, len(models.TagPalette))
	for i, c := range models.TagPalette {
		names[i] = c.Name
	}
	return strings.Join(names, ", ")
}

func tagResult(g *models.Tag) *handler.Result {
	tag := *g
	return &handler.Result{
		Data: dto.TagToDto(tag),
		Pretty: func(w io.Writer) {
			fmt.Fprintf(w, "%s %s\n", styles.RenderTagChip(tag), styles.SubtitleStyle.Render(fmt.Sprintf("(ID: %d)", tag.ID)))
		},
	}
}

// ListCmd returns the tag list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tags",
		Args:  cobra.NoArgs,
		RunE: handler.Command(func(ctx context.Context, c *cli.CLI, _ *handler.Arguments) (*handler.Result, error) {
			items, err := c.Board.Tags(ctx)
			if err != nil {
				return nil, err
			}
			tags := board.Values(items)
			return &handler.Result{
				Data: cli.List(dto.TagsToDtos(tags)),
				Pretty: func(w io.Writer) {
					if len(tags) == 0 {
						fmt.Fprintln(w, "No tags yet")
						return
					}
					for _, g := range tags {
						fmt.Fprintf(w, "  %s %s\n", styles.RenderTagChip(g), styles.SubtitleStyle.Render(fmt.Sprintf("#%d", g.ID)))
					}
				},
			}, nil
		}),
	}
	cli.AddOutputFlags(cmd)
	return cmd
}

// CreateCmd returns the tag create subcommand
func CreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a tag",
		Long: `Create a tag.

Examples:
  workboard tag create --name Bug --color red
  workboard tag create --name Infra --color "#0EA5E9" --quiet
`,
		Args: cobra.NoArgs,
		RunE: handler.Command(func(ctx context.Context, c *cli.CLI, args *handler.Arguments) (*handler.Result, error) {
			name, err := args.Parser().String("name")
			if err != nil {
				return nil, err
			}
			g, err := c.Board.CreateTag(ctx, board.TagInput{Name: name, Color: args.GetString("color", "")})
			if err != nil {
				return nil, err
			}
			return tagResult(g), nil
		}),
	}
	cmd.Flags().String("name", "", "Tag name (required)")
	cmd.Flags().String("color", "", "Palette name or #RRGGBB (default gray)")
	_ = cmd.MarkFlagRequired("name")
	cli.AddOutputFlags(cmd)
	return cmd
}

// UpdateCmd returns the tag update subcommand
func UpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <tag-id>",
		Short: "Rename or recolour a tag",
		Args:  cobra.MaximumNArgs(1),
		RunE: handler.Command(func(ctx context.Context, c *cli.CLI, args *handler.Arguments) (*handler.Result, error) {
			id, err := cli.IDArg(args.GetCmd(), args.Args, "tag id")
			if err != nil {
				return nil, err
			}
			patch := board.TagPatch{Name: args.StringPtr("name"), Color: args.StringPtr("color")}
			if patch.Name == nil && patch.Color == nil {
				return nil, cli.UsageError("nothing to update: pass --name or --color")
			}
			g, err := c.Board.UpdateTag(ctx, types.TagID(id), patch)
			if err != nil {
				return nil, err
			}
			return tagResult(g), nil
		}),
	}
	cmd.Flags().Int("id", 0, "Tag ID")
	cmd.Flags().String("name", "", "New name")
	cmd.Flags().String("color", "", "New palette name or #RRGGBB")
	cli.AddOutputFlags(cmd)
	return cmd
}

// DeleteCmd returns the tag delete subcommand
func DeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <tag-id>",
		Short: "Delete a tag",
		Long:  "Delete a tag and detach it from every task (requires confirmation unless --force, --quiet or --json).",
		Args:  cobra.MaximumNArgs(1),
		RunE: handler.Command(func(ctx context.Context, c *cli.CLI, args *handler.Arguments) (*handler.Result, error) {
			id, err := cli.IDArg(args.GetCmd(), args.Args, "tag id")
			if err != nil {
				return nil, err
			}
			g, err := c.Backend.GetTag(ctx, types.TagID(id))
			if err != nil {
				return nil, err
			}
			if !cli.Confirm(args.GetCmd(), "Delete tag '%s'?", g.Name) {
				return &handler.Result{Message: "Cancelled"}, nil
			}
			if err := c.Board.DeleteTag(ctx, g.ID); err != nil {
				return nil, err
			}
			return &handler.Result{Message: fmt.Sprintf("Tag %d deleted", id)}, nil
		}),
	}
	cmd.Flags().Int("id", 0, "Tag ID")
	cmd.Flags().Bool("force", false, "Skip confirmation")
	cli.AddOutputFlags(cmd)
	return cmd
}
