package assignee

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MahdiIsse/project-management-sub001/internal/cli"
	"github.com/MahdiIsse/project-management-sub001/internal/cli/clitest"
	"github.com/MahdiIsse/project-management-sub001/internal/dto"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestAssigneeCommands(t *testing.T) {
	env := clitest.Setup(t)

	zoe := clitest.JSON[dto.AssigneeDto](t, env, CreateCmd(), "--name", "  Zoe ")
	assert.Equal(t, "Zoe", zoe.Name)
	adam := clitest.JSON[dto.AssigneeDto](t, env, CreateCmd(), "--name", "Adam")

	_, err := env.Run(t, CreateCmd(), "--name", strings.Repeat("x", 101))
	assert.Equal(t, cli.ExitValidation, cli.ExitCode(err))

	list := clitest.JSON[[]dto.AssigneeDto](t, env, ListCmd())
	require.Len(t, list, 2)
	assert.Equal(t, adam.ID, list[0].ID)

	renamed := clitest.JSON[dto.AssigneeDto](t, env, UpdateCmd(), strconv.Itoa(zoe.ID), "--name", "Zoë")
	assert.Equal(t, "Zoë", renamed.Name)

	_, err = env.Run(t, UpdateCmd(), strconv.Itoa(zoe.ID))
	assert.Equal(t, cli.ExitUsage, cli.ExitCode(err))

	out, err := env.Run(t, DeleteCmd(), strconv.Itoa(adam.ID), "--force")
	require.NoError(t, err, out)
	assert.Contains(t, out, "deleted")

	_, err = env.Run(t, DeleteCmd(), strconv.Itoa(adam.ID), "--force")
	assert.Equal(t, cli.ExitNotFound, cli.ExitCode(err))
}

func TestAvatarCommand(t *testing.T) {
	env := clitest.Setup(t)
	a := clitest.JSON[dto.AssigneeDto](t, env, CreateCmd(), "--name", "Avery")
	id := strconv.Itoa(a.ID)

	updated := clitest.JSON[dto.AssigneeDto](t, env, AvatarCmd(), id, writeFile(t, "me.png", pngHeader))
	assert.True(t, strings.HasPrefix(updated.AvatarURL, "http://files.test/avatars/"), updated.AvatarURL)

	t.Run("text file is rejected", func(t *testing.T) {
		_, err := env.Run(t, AvatarCmd(), id, writeFile(t, "notes.txt", []byte("hello")))
		assert.Equal(t, cli.ExitValidation, cli.ExitCode(err))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := env.Run(t, AvatarCmd(), id, filepath.Join(t.TempDir(), "nope.png"))
		assert.Equal(t, cli.ExitDataErr, cli.ExitCode(err))
	})

	cleared := clitest.JSON[dto.AssigneeDto](t, env, UpdateCmd(), id, "--clear-avatar")
	assert.Empty(t, cleared.AvatarURL)
}
