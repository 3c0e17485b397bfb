package handler

import (
	"testing"

	"github.com/spf13/cobra"

	"github.com/MahdiIsse/project-management-sub001/internal/cli"
	"github.com/MahdiIsse/project-management-sub001/internal/models"
)

// ============================================================================
// Test Helpers
// ============================================================================

// createTestCommand creates a command with the flags the parser reads and
// parses args into it
func createTestCommand(t *testing.T, args ...string) *FlagParser {
	t.Helper()

	cmd := &cobra.Command{
		Use: "test",
		Run: func(cmd *cobra.Command, args []string) {},
	}
	cmd.Flags().Int("task", 0, "")
	cmd.Flags().Int("workspace", 0, "")
	cmd.Flags().String("title", "", "")
	cmd.Flags().String("color", "", "")
	cmd.Flags().String("priority", "", "")
	cmd.Flags().String("due", "", "")
	cmd.Flags().String("order", "", "")
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("failed to parse flags: %v", err)
	}
	return NewFlagParser(cmd)
}

func TestFlagParser_ID(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    int
		wantErr bool
	}{
		{name: "valid id", args: []string{"--task", "42"}, want: 42},
		{name: "zero", args: []string{"--task", "0"}, wantErr: true},
		{name: "negative", args: []string{"--task", "-1"}, wantErr: true},
		{name: "unset", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := createTestCommand(t, tt.args...).ID("task")
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				if code := cli.ExitCode(err); code != cli.ExitUsage {
					t.Errorf("exit code = %d, want %d", code, cli.ExitUsage)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFlagParser_String(t *testing.T) {
	p := createTestCommand(t, "--title", "  Ship it  ")
	got, err := p.String("title")
	if err != nil || got != "Ship it" {
		t.Errorf("String() = %q, %v", got, err)
	}

	if _, err := createTestCommand(t, "--title", "   ").String("title"); err == nil {
		t.Error("expected blank title to fail")
	}
}

func TestFlagParser_Color(t *testing.T) {
	if got, err := createTestCommand(t).Color("color"); err != nil || got != "" {
		t.Errorf("unset color = %q, %v", got, err)
	}
	if got, err := createTestCommand(t, "--color", "#A1B2C3").Color("color"); err != nil || got != "#A1B2C3" {
		t.Errorf("hex color = %q, %v", got, err)
	}
	_, err := createTestCommand(t, "--color", "red").Color("color")
	if code := cli.ExitCode(err); code != cli.ExitValidation {
		t.Errorf("exit code = %d, want %d", code, cli.ExitValidation)
	}
}

func TestFlagParser_Priority(t *testing.T) {
	tests := []struct {
		raw     string
		want    models.Priority
		wantErr bool
	}{
		{raw: "", want: ""},
		{raw: "high", want: models.PriorityHigh},
		{raw: "Medium", want: models.PriorityMedium},
		{raw: "1", want: models.PriorityLow},
		{raw: "7", wantErr: true},
		{raw: "urgent", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := createTestCommand(t, "--priority", tt.raw).Priority("priority")
			if tt.wantErr {
				if cli.ExitCode(err) != cli.ExitValidation {
					t.Errorf("expected a validation error, got %v", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("Priority(%q) = %q, %v", tt.raw, got, err)
			}
		})
	}
}

func TestFlagParser_DueDateAndIDs(t *testing.T) {
	due, err := createTestCommand(t, "--due", "2026-12-24").DueDate("due")
	if err != nil || due == nil || due.Day() != 24 {
		t.Errorf("DueDate() = %v, %v", due, err)
	}
	if due, err := createTestCommand(t).DueDate("due"); err != nil || due != nil {
		t.Errorf("unset due = %v, %v", due, err)
	}

	ids, err := createTestCommand(t, "--order", "3, 1,2").IDs("order")
	if err != nil || len(ids) != 3 || ids[0] != 3 || ids[2] != 2 {
		t.Errorf("IDs() = %v, %v", ids, err)
	}
	if _, err := createTestCommand(t, "--order", "3,x").IDs("order"); cli.ExitCode(err) != cli.ExitUsage {
		t.Errorf("expected a usage error, got %v", err)
	}
}

func TestFlagParser_WorkspaceFromEnv(t *testing.T) {
	t.Setenv(cli.WorkspaceEnv, "9")

	ws, err := createTestCommand(t).WorkspaceID()
	if err != nil || ws != 9 {
		t.Errorf("WorkspaceID() = %d, %v", ws, err)
	}

	ws, err = createTestCommand(t, "--workspace", "4").WorkspaceID()
	if err != nil || ws != 4 {
		t.Errorf("flag should win over the environment, got %d, %v", ws, err)
	}
}
