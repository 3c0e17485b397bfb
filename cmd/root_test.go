package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MahdiIsse/project-management-sub001/internal/auth"
	"github.com/MahdiIsse/project-management-sub001/internal/cli"
)

func TestRootCmd_Subcommands(t *testing.T) {
	root := NewRootCmd()

	for _, name := range []string{"workspace", "column", "task", "tag", "assignee", "account", "board", "serve", "daemon", "token"} {
		found, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, found.Name())
	}

	remote := root.PersistentFlags().Lookup("remote")
	require.NotNil(t, remote)
	assert.Equal(t, "false", remote.DefValue)
}

func TestRootCmd_UnknownFlagIsUsageError(t *testing.T) {
	root := NewRootCmd()
	var stderr bytes.Buffer
	root.SetErr(&stderr)
	root.SetOut(&stderr)
	root.SetArgs([]string{"token", "--bogus"})

	err := root.Execute()
	require.Error(t, err)
	assert.Equal(t, cli.ExitUsage, cli.ExitCode(err))
	assert.Contains(t, stderr.String(), "unknown flag")
}

func TestTokenCmd(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("WORKBOARD_JWT_SECRET", "test-secret")

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"token", "--owner", "ada"})
	require.NoError(t, root.Execute())

	issuer, err := auth.NewIssuer("test-secret", 0)
	require.NoError(t, err)
	owner, err := issuer.Verify(string(bytes.TrimSpace(out.Bytes())))
	require.NoError(t, err)
	assert.Equal(t, "ada", string(owner))
}

func TestTokenCmd_MissingSecret(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("WORKBOARD_JWT_SECRET", "")

	root := NewRootCmd()
	root.SetArgs([]string{"token"})
	err := root.Execute()
	require.ErrorIs(t, err, auth.ErrMissingSecret)
	assert.Equal(t, cli.ExitError, cli.ExitCode(err))
}
