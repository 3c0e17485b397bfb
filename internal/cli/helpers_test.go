package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MahdiIsse/project-management-sub001/internal/apiclient"
	"github.com/MahdiIsse/project-management-sub001/internal/auth"
	"github.com/MahdiIsse/project-management-sub001/internal/board"
	"github.com/MahdiIsse/project-management-sub001/internal/models"
	"github.com/MahdiIsse/project-management-sub001/internal/services/workspace"
)

// ============================================================================
// Color Validation Tests
// ============================================================================

func TestValidateColorHex_Valid(t *testing.T) {
	for _, color := range []string{"#FF0000", "#00ff00", "#AbCdEf", "#000000"} {
		t.Run(color, func(t *testing.T) {
			assert.NoError(t, ValidateColorHex(color))
		})
	}
}

func TestValidateColorHex_Invalid(t *testing.T) {
	tests := []struct {
		color       string
		description string
	}{
		{"FF0000", "missing # prefix"},
		{"#FFF", "too short"},
		{"#FF00000", "too long"},
		{"#GGGGGG", "invalid hex characters"},
		{"", "empty string"},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			err := ValidateColorHex(tt.color)
			require.Error(t, err)
			assert.Equal(t, ExitValidation, ExitCode(err))
		})
	}
}

// ============================================================================
// Priority Tests
// ============================================================================

func TestParsePriority_Valid(t *testing.T) {
	tests := map[string]models.Priority{
		"low":    models.PriorityLow,
		"MEDIUM": models.PriorityMedium,
		" High ": models.PriorityHigh,
		"1":      models.PriorityLow,
		"2":      models.PriorityMedium,
		"3":      models.PriorityHigh,
	}
	for input, want := range tests {
		t.Run(input, func(t *testing.T) {
			got, err := ParsePriority(input)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestParsePriority_Invalid(t *testing.T) {
	for _, input := range []string{"0", "4", "-1", "urgent", ""} {
		t.Run(input, func(t *testing.T) {
			_, err := ParsePriority(input)
			require.Error(t, err)
			assert.ErrorIs(t, err, models.ErrInvalidPriority)
			assert.Equal(t, ExitValidation, ExitCode(err))
		})
	}
}

// ============================================================================
// Id and Date Parsing Tests
// ============================================================================

func TestParseDueDate(t *testing.T) {
	due, err := ParseDueDate("2026-03-01")
	require.NoError(t, err)
	assert.Equal(t, 2026, due.Year())
	assert.Equal(t, 1, due.Day())

	_, err = ParseDueDate("next week")
	assert.Equal(t, ExitValidation, ExitCode(err))
}

func TestParseIDList(t *testing.T) {
	ids, err := ParseIDList("--order", "3,1, 2,")
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1, 2}, ids)

	_, err = ParseIDList("--order", " , ")
	assert.Equal(t, ExitUsage, ExitCode(err))

	_, err = ParseIDList("--order", "1,0")
	assert.Equal(t, ExitUsage, ExitCode(err))
}

func TestIDArg(t *testing.T) {
	cmd := &cobra.Command{Use: "x"}
	cmd.Flags().Int("id", 0, "")

	id, err := IDArg(cmd, []string{"12"}, "task id")
	require.NoError(t, err)
	assert.Equal(t, 12, id)

	require.NoError(t, cmd.Flags().Set("id", "7"))
	id, err = IDArg(cmd, nil, "task id")
	require.NoError(t, err)
	assert.Equal(t, 7, id)

	_, err = IDArg(&cobra.Command{Use: "y"}, nil, "task id")
	assert.Equal(t, ExitUsage, ExitCode(err))

	_, err = IDArg(cmd, []string{"abc"}, "task id")
	assert.Equal(t, ExitUsage, ExitCode(err))
}

func TestWorkspaceID(t *testing.T) {
	newCmd := func() *cobra.Command {
		cmd := &cobra.Command{Use: "x"}
		cmd.Flags().Int("workspace", 0, "")
		return cmd
	}

	t.Setenv(WorkspaceEnv, "")
	_, err := WorkspaceID(newCmd())
	assert.Equal(t, ExitUsage, ExitCode(err))

	t.Setenv(WorkspaceEnv, "5")
	id, err := WorkspaceID(newCmd())
	require.NoError(t, err)
	assert.EqualValues(t, 5, id)

	cmd := newCmd()
	require.NoError(t, cmd.Flags().Set("workspace", "8"))
	id, err = WorkspaceID(cmd)
	require.NoError(t, err)
	assert.EqualValues(t, 8, id)

	t.Setenv(WorkspaceEnv, "nope")
	_, err = WorkspaceID(newCmd())
	assert.Equal(t, ExitUsage, ExitCode(err))
}

// ============================================================================
// Exit Code Tests
// ============================================================================

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		tag  string
	}{
		{"nil", nil, ExitSuccess, ""},
		{"usage", UsageError("bad"), ExitUsage, "USAGE_ERROR"},
		{"board validation", board.ErrEmptyTitle, ExitValidation, "VALIDATION_ERROR"},
		{"edge of board", fmt.Errorf("move: %w", models.ErrAlreadyLastTask), ExitValidation, "VALIDATION_ERROR"},
		{"service not found", workspace.ErrWorkspaceNotFound, ExitNotFound, "NOT_FOUND"},
		{"remote not found", &apiclient.Error{Status: 404, Message: "gone"}, ExitNotFound, "NOT_FOUND"},
		{"remote validation", &apiclient.Error{Status: 400, Message: "bad"}, ExitValidation, "VALIDATION_ERROR"},
		{"not authenticated", auth.ErrNotAuthenticated, ExitError, "NOT_AUTHENTICATED"},
		{"unknown", errors.New("disk on fire"), ExitError, "ERROR"},
		{"explicit", &CodedError{Code: ExitDataErr, Err: errors.New("garbled")}, ExitDataErr, "DATA_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, ExitCode(tt.err))
			if tt.err != nil {
				assert.Equal(t, tt.tag, ErrorCode(tt.err))
			}
		})
	}
}

func TestCompleteOrder(t *testing.T) {
	assert.Equal(t, []int{3, 1, 2, 4}, CompleteOrder([]int{3, 1, 3}, []int{1, 2, 3, 4}))
	assert.Equal(t, []int{1, 2}, CompleteOrder(nil, []int{1, 2}))
	assert.Equal(t, []int{9}, CompleteOrder([]int{9}, nil))
}
