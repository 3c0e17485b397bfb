// Package clitest runs workboard commands against an in-memory database
package clitest

import (
	"context"
	"database/sql"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/MahdiIsse/project-management-sub001/internal/app"
	"github.com/MahdiIsse/project-management-sub001/internal/cli"
	"github.com/MahdiIsse/project-management-sub001/internal/config"
	"github.com/MahdiIsse/project-management-sub001/internal/storage"
	"github.com/MahdiIsse/project-management-sub001/internal/testutil"
)

// Env is one test's CLI and the stores behind it
type Env struct {
	DB  *sql.DB
	App *app.App
	CLI *cli.CLI
	Ctx context.Context
}

// Setup creates a local CLI over a fresh in-memory database and an avatar
// bucket in a temp dir, signed in as testutil.DefaultOwner
func Setup(t *testing.T) *Env {
	t.Helper()

	db, _ := testutil.SetupTestDB(t)
	bucket, err := storage.NewBucket(t.TempDir(), "http://files.test/avatars", 0)
	require.NoError(t, err)

	application := app.New(db, app.WithBucket(bucket))
	t.Cleanup(func() { _ = application.Close() })

	cfg := config.Default()
	c := cli.New(cfg, application.Direct(testutil.DefaultOwner))
	return &Env{DB: db, App: application, CLI: c, Ctx: cli.WithCLI(context.Background(), c)}
}

// Run executes cmd with args using the env's CLI and returns its output.
// Each run gets a fresh board cache, as a new process would.
func (e *Env) Run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	cache := e.CLI.Board.Cache
	cache.Remove(cache.Keys()...)
	cmd.SetContext(e.Ctx)
	return testutil.ExecuteCommand(t, cmd, args...)
}

// JSON runs cmd with --json and decodes the data field of the envelope
func JSON[T any](t *testing.T, e *Env, cmd *cobra.Command, args ...string) T {
	t.Helper()
	out, err := e.Run(t, cmd, append(args, "--json")...)
	require.NoError(t, err, out)
	env := testutil.ParseJSON[struct {
		Success bool `json:"success"`
		Data    T    `json:"data"`
	}](t, out)
	require.True(t, env.Success, out)
	return env.Data
}
