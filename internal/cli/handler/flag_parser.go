package handler

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/MahdiIsse/project-management-sub001/internal/cli"
	"github.com/MahdiIsse/project-management-sub001/internal/models"
	"github.com/MahdiIsse/project-management-sub001/internal/types"
)

// FlagParser provides common flag extraction patterns
type FlagParser struct {
	cmd *cobra.Command
}

// NewFlagParser creates a new flag parser
func NewFlagParser(cmd *cobra.Command) *FlagParser {
	return &FlagParser{cmd: cmd}
}

// WorkspaceID reads --workspace or the workspace environment variable
func (p *FlagParser) WorkspaceID() (types.WorkspaceID, error) {
	return cli.WorkspaceID(p.cmd)
}

// ID extracts a required positive id from a flag
func (p *FlagParser) ID(flagName string) (int, error) {
	id, err := p.cmd.Flags().GetInt(flagName)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s flag: %w", flagName, err)
	}
	if id <= 0 {
		return 0, cli.UsageError("--%s must be greater than 0", flagName)
	}
	return id, nil
}

// String extracts a required string flag
func (p *FlagParser) String(flagName string) (string, error) {
	value, err := p.cmd.Flags().GetString(flagName)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s flag: %w", flagName, err)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", cli.UsageError("--%s is required", flagName)
	}
	return value, nil
}

// Color extracts and validates an optional hex color flag
func (p *FlagParser) Color(flagName string) (string, error) {
	color, err := p.cmd.Flags().GetString(flagName)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s flag: %w", flagName, err)
	}
	if color == "" {
		return "", nil
	}
	if err := cli.ValidateColorHex(color); err != nil {
		return "", err
	}
	return color, nil
}

// Priority extracts an optional priority; unset reads as empty
func (p *FlagParser) Priority(flagName string) (models.Priority, error) {
	raw, err := p.cmd.Flags().GetString(flagName)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s flag: %w", flagName, err)
	}
	if raw == "" {
		return "", nil
	}
	return cli.ParsePriority(raw)
}

// DueDate extracts an optional due date
func (p *FlagParser) DueDate(flagName string) (*time.Time, error) {
	raw, err := p.cmd.Flags().GetString(flagName)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s flag: %w", flagName, err)
	}
	if raw == "" {
		return nil, nil
	}
	return cli.ParseDueDate(raw)
}

// IDs extracts a required comma separated id list
func (p *FlagParser) IDs(flagName string) ([]int, error) {
	raw, err := p.cmd.Flags().GetString(flagName)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s flag: %w", flagName, err)
	}
	return cli.ParseIDList("--"+flagName, raw)
}
