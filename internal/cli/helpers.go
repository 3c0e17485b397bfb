package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/MahdiIsse/project-management-sub001/internal/dto"
	"github.com/MahdiIsse/project-management-sub001/internal/models"
	"github.com/MahdiIsse/project-management-sub001/internal/types"
)

// WorkspaceEnv names the variable holding the default workspace id
const WorkspaceEnv = "WORKBOARD_WORKSPACE"

// UsageError marks bad command usage; it exits with ExitUsage
func UsageError(format string, args ...any) error {
	return &CodedError{Code: ExitUsage, Err: fmt.Errorf(format, args...)}
}

// ValidateColorHex validates that a color string is in valid hex format #RRGGBB
func ValidateColorHex(color string) error {
	if !models.IsHexColor(color) {
		return &CodedError{
			Code: ExitValidation,
			Err:  fmt.Errorf("color must be in hex format #RRGGBB (e.g., #FF0000), got: %s", color),
		}
	}
	return nil
}

// ParsePriority accepts a priority name (low, medium, high) or its number
func ParsePriority(s string) (models.Priority, error) {
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		if n < 1 || n > 3 {
			return "", fmt.Errorf("%w %d (must be 1, 2 or 3)", models.ErrInvalidPriority, n)
		}
		return models.PriorityFromBackend(n), nil
	}
	return models.ParsePriority(s)
}

// ParseDueDate reads YYYY-MM-DD or an RFC 3339 timestamp
func ParseDueDate(s string) (*time.Time, error) {
	t, err := dto.ParseDate(&s)
	if err != nil {
		return nil, &CodedError{Code: ExitValidation, Err: fmt.Errorf("invalid due date %q: use YYYY-MM-DD", s)}
	}
	return t, nil
}

// ParseID reads a positive integer id
func ParseID(name, raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id <= 0 {
		return 0, UsageError("%s must be a positive integer, got %q", name, raw)
	}
	return id, nil
}

// IDArg reads the id from the first positional argument or, failing that,
// from the --id flag
func IDArg(cmd *cobra.Command, args []string, name string) (int, error) {
	if len(args) > 0 {
		return ParseID(name, args[0])
	}
	if cmd.Flags().Lookup("id") != nil {
		if id, _ := cmd.Flags().GetInt("id"); id > 0 {
			return id, nil
		}
	}
	return 0, UsageError("%s is required", name)
}

// ParseIDList reads a comma separated list of ids such as "3,1,2"
func ParseIDList(name, raw string) ([]int, error) {
	var ids []int
	for _, tok := range strings.Split(raw, ",") {
		if strings.TrimSpace(tok) == "" {
			continue
		}
		id, err := ParseID(name, tok)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, UsageError("%s needs at least one id", name)
	}
	return ids, nil
}

// WorkspaceID reads --workspace, falling back to $WORKBOARD_WORKSPACE
func WorkspaceID(cmd *cobra.Command) (types.WorkspaceID, error) {
	if id, _ := cmd.Flags().GetInt("workspace"); id > 0 {
		return types.WorkspaceID(id), nil
	}
	if raw := os.Getenv(WorkspaceEnv); raw != "" {
		id, err := ParseID(WorkspaceEnv, raw)
		if err != nil {
			return 0, err
		}
		return types.WorkspaceID(id), nil
	}
	return 0, UsageError("no workspace selected: pass --workspace or set %s", WorkspaceEnv)
}

// AddOutputFlags adds the agent-friendly --json and --quiet flags
func AddOutputFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output (IDs only)")
}

// Changed returns a pointer to a string flag's value when it was set
func Changed(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetString(name)
	return &v
}

// CompleteOrder puts the ids of first in front, then every other id of
// current in its existing order. Duplicates in first are dropped.
func CompleteOrder(first, current []int) []int {
	seen := make(map[int]bool, len(current))
	out := make([]int, 0, len(current))
	for _, id := range first {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	for _, id := range current {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
