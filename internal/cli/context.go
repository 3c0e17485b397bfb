package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/MahdiIsse/project-management-sub001/internal/config"
)

type cliKey struct{}

// WithCLI stores a ready CLI in ctx. Commands run with such a context use it
// instead of opening their own; tests inject an in-memory backend this way.
func WithCLI(ctx context.Context, c *CLI) context.Context {
	return context.WithValue(ctx, cliKey{}, c)
}

// FromCommand returns the CLI for cmd and a release function to defer. An
// injected CLI is shared and never closed by the command.
func FromCommand(cmd *cobra.Command) (*CLI, func(), error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if c, ok := ctx.Value(cliKey{}).(*CLI); ok {
		return c, func() {}, nil
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	remote, _ := cmd.Flags().GetBool("remote")
	c, err := NewCLI(ctx, cfg, Options{Remote: remote})
	if err != nil {
		return nil, nil, err
	}
	return c, func() { _ = c.Close() }, nil
}
