// Package handler runs command bodies against the shared CLI and prints
// their results in the selected output mode
package handler

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/MahdiIsse/project-management-sub001/internal/cli"
)

// Result is what a command body produced. Data is printed in JSON and
// quiet mode; Pretty renders it for people. A Result with only a Message
// reports an action that has no value to show.
type Result struct {
	Data    any
	Pretty  func(w io.Writer)
	Message string
}

// Func is a command body
type Func func(ctx context.Context, c *cli.CLI, args *Arguments) (*Result, error)

// Arguments captures parsed CLI arguments and flags
type Arguments struct {
	Flags map[string]any
	Args  []string
	cmd   *cobra.Command
}

// GetCmd returns the cobra command for access to flag parsing utilities
func (a *Arguments) GetCmd() *cobra.Command {
	return a.cmd
}

// Parser returns a FlagParser over the command's flags
func (a *Arguments) Parser() *FlagParser {
	return NewFlagParser(a.cmd)
}

// Command wraps common command execution logic.
// Returns a cobra RunE compatible function
func Command(fn Func) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		formatter := cli.NewFormatter(cmd)

		c, release, err := cli.FromCommand(cmd)
		if err != nil {
			return formatter.Fail(err)
		}
		defer release()

		arguments := &Arguments{
			Flags: parseFlagsToMap(cmd),
			Args:  args,
			cmd:   cmd,
		}

		result, err := fn(cmd.Context(), c, arguments)
		if err != nil {
			return formatter.Fail(err)
		}
		if result == nil {
			return nil
		}
		if result.Data == nil && result.Message != "" {
			return formatter.Message("%s", result.Message)
		}
		return formatter.Success(result.Data, result.Pretty)
	}
}

// parseFlagsToMap converts cobra command flags to a map
func parseFlagsToMap(cmd *cobra.Command) map[string]any {
	flags := make(map[string]any)

	// Visit all flags that were explicitly set
	cmd.Flags().Visit(func(f *pflag.Flag) {
		switch f.Value.Type() {
		case "string":
			if v, err := cmd.Flags().GetString(f.Name); err == nil {
				flags[f.Name] = v
			}
		case "int":
			if v, err := cmd.Flags().GetInt(f.Name); err == nil {
				flags[f.Name] = v
			}
		case "bool":
			if v, err := cmd.Flags().GetBool(f.Name); err == nil {
				flags[f.Name] = v
			}
		case "stringSlice":
			if v, err := cmd.Flags().GetStringSlice(f.Name); err == nil {
				flags[f.Name] = v
			}
		case "intSlice":
			if v, err := cmd.Flags().GetIntSlice(f.Name); err == nil {
				flags[f.Name] = v
			}
		default:
			slog.Debug("unsupported flag type", "flag", f.Name, "type", f.Value.Type())
		}
	})

	return flags
}

// Has reports whether the flag was set on the command line
func (a *Arguments) Has(name string) bool {
	_, ok := a.Flags[name]
	return ok
}

// GetString retrieves a string flag with default
func (a *Arguments) GetString(name string, defaultVal string) string {
	v, ok := a.Flags[name].(string)
	if !ok {
		return defaultVal
	}
	return v
}

// StringPtr returns the flag's value when it was set, nil otherwise
func (a *Arguments) StringPtr(name string) *string {
	v, ok := a.Flags[name].(string)
	if !ok {
		return nil
	}
	return &v
}

// GetInt retrieves an int flag with default
func (a *Arguments) GetInt(name string, defaultVal int) int {
	v, ok := a.Flags[name].(int)
	if !ok {
		return defaultVal
	}
	return v
}

// GetBool retrieves a bool flag
func (a *Arguments) GetBool(name string) bool {
	v, _ := a.Flags[name].(bool)
	return v
}

// GetIntSlice retrieves an int slice flag with default
func (a *Arguments) GetIntSlice(name string, defaultVal []int) []int {
	v, ok := a.Flags[name].([]int)
	if !ok {
		return defaultVal
	}
	return v
}
