// Package launcher runs the interactive board
package launcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	tea "charm.land/bubbletea/v2"

	"github.com/MahdiIsse/project-management-sub001/internal/cli"
	"github.com/MahdiIsse/project-management-sub001/internal/config"
	"github.com/MahdiIsse/project-management-sub001/internal/logging"
	"github.com/MahdiIsse/project-management-sub001/internal/tui"
)

// Launch starts the TUI on c's board and blocks until the user quits or ctx
// is cancelled
func Launch(ctx context.Context, c *cli.CLI) error {
	// Log to a file so the terminal stays clean
	if err := logging.Init(filepath.Join(config.DataDir(), "logs")); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	if c.Events == nil {
		slog.Info("no daemon connection, continuing without live updates")
	}

	model := tui.New(ctx, c.Board, c.Config, c.Events)
	p := tea.NewProgram(model, tea.WithContext(ctx))

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("error running program: %w", err)
	}
	slog.Info("board closed")
	return nil
}
