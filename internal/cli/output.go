package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// OutputFormatter handles three output modes: JSON, quiet, and human-readable
type OutputFormatter struct {
	JSON  bool
	Quiet bool
	Out   io.Writer
	Err   io.Writer
}

// NewFormatter reads --json and --quiet from cmd and writes to its streams
func NewFormatter(cmd *cobra.Command) *OutputFormatter {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	quietMode, _ := cmd.Flags().GetBool("quiet")
	return &OutputFormatter{
		JSON:  jsonOutput,
		Quiet: quietMode,
		Out:   cmd.OutOrStdout(),
		Err:   cmd.ErrOrStderr(),
	}
}

func (f *OutputFormatter) out() io.Writer {
	if f.Out == nil {
		return os.Stdout
	}
	return f.Out
}

func (f *OutputFormatter) errOut() io.Writer {
	if f.Err == nil {
		return os.Stderr
	}
	return f.Err
}

// Success outputs a successful result. Quiet mode prints ids only, one per
// line; human mode calls pretty, or prints the value when pretty is nil.
func (f *OutputFormatter) Success(data any, pretty func(w io.Writer)) error {
	if f.Quiet {
		if ids, ok := quietIDs(data); ok {
			for _, id := range ids {
				fmt.Fprintf(f.out(), "%d\n", id)
			}
			return nil
		}
	}

	if f.JSON {
		return json.NewEncoder(f.out()).Encode(map[string]any{
			"success": true,
			"data":    data,
		})
	}

	if pretty != nil {
		pretty(f.out())
		return nil
	}
	fmt.Fprintf(f.out(), "%+v\n", data)
	return nil
}

// Message reports an action without a result value. Quiet mode prints
// nothing.
func (f *OutputFormatter) Message(format string, args ...any) error {
	switch {
	case f.Quiet:
		return nil
	case f.JSON:
		return json.NewEncoder(f.out()).Encode(map[string]any{
			"success": true,
			"message": fmt.Sprintf(format, args...),
		})
	}
	fmt.Fprintf(f.out(), "✓ "+format+"\n", args...)
	return nil
}

// Error outputs error information
func (f *OutputFormatter) Error(code string, message string) error {
	return f.ErrorWithSuggestion(code, message, "")
}

// ErrorWithSuggestion outputs error information with an optional suggestion
func (f *OutputFormatter) ErrorWithSuggestion(code string, message string, suggestion string) error {
	if f.JSON {
		errData := map[string]any{
			"code":    code,
			"message": message,
		}
		if suggestion != "" {
			errData["suggestion"] = suggestion
		}
		return json.NewEncoder(f.out()).Encode(map[string]any{
			"success": false,
			"error":   errData,
		})
	}

	fmt.Fprintf(f.errOut(), "❌ Error: %s\n", message)
	if suggestion != "" {
		fmt.Fprintf(f.errOut(), "💡 Suggestion: %s\n", suggestion)
	}
	return nil
}

// Fail reports err in the current output mode and returns it wrapped with
// its exit code
func (f *OutputFormatter) Fail(err error) error {
	code := ErrorCode(err)
	suggestion := ""
	if code == "NOT_AUTHENTICATED" {
		suggestion = "create a token with `workboard token` and set api.token or WORKBOARD_TOKEN"
	}
	_ = f.ErrorWithSuggestion(code, err.Error(), suggestion)
	return &CodedError{Code: ExitCode(err), Err: err}
}

func quietIDs(data any) ([]int, bool) {
	switch v := data.(type) {
	case interface{ GetID() int }:
		return []int{v.GetID()}, true
	case []int:
		return v, true
	case interface{ IDs() []int }:
		return v.IDs(), true
	}
	return nil, false
}

type idList[T interface{ GetID() int }] []T

func (l idList[T]) IDs() []int {
	ids := make([]int, len(l))
	for i, v := range l {
		ids[i] = v.GetID()
	}
	return ids
}

// List marks a slice result so quiet mode prints every id. It encodes to
// JSON as the plain array.
func List[T interface{ GetID() int }](items []T) any {
	if items == nil {
		items = []T{}
	}
	return idList[T](items)
}
