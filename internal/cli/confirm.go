package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// Confirm asks a yes/no question on the command's streams. --force, --quiet
// and --json skip the prompt and answer yes.
func Confirm(cmd *cobra.Command, format string, args ...any) bool {
	for _, name := range []string{"force", "quiet", "json"} {
		if v, _ := cmd.Flags().GetBool(name); v {
			return true
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), format+" (y/N): ", args...)
	answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
