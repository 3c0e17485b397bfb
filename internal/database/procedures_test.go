package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedOnboardingData(t *testing.T) {
	ctx := context.Background()
	_, repo := setupTestDB(t)

	res := repo.Procedures.SeedOnboardingData(ctx, alice)
	require.True(t, res.Success, res.Error)

	workspaces, err := repo.Workspaces.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, workspaces, 1)

	cols, err := repo.Columns.ListByWorkspace(ctx, alice, workspaces[0].ID)
	require.NoError(t, err)
	assert.Len(t, cols, 3)

	tasks, err := repo.Tasks.ListByWorkspace(ctx, alice, workspaces[0].ID)
	require.NoError(t, err)
	assert.NotEmpty(t, tasks)

	again := repo.Procedures.SeedOnboardingData(ctx, alice)
	assert.False(t, again.Success)
	assert.Equal(t, CodeAlreadySeeded, again.ErrorCode)
	assert.NotEmpty(t, again.Error)
}

func TestCleanupUserData(t *testing.T) {
	ctx := context.Background()
	_, repo := setupTestDB(t)

	require.True(t, repo.Procedures.SeedOnboardingData(ctx, alice).Success)
	require.True(t, repo.Procedures.SeedOnboardingData(ctx, bob).Success)

	res := repo.Procedures.CleanupUserData(ctx, alice)
	require.True(t, res.Success)

	ws, err := repo.Workspaces.List(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, ws)
	tags, err := repo.Tags.List(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, tags)
	people, err := repo.Assignees.List(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, people)

	ws, err = repo.Workspaces.List(ctx, bob)
	require.NoError(t, err)
	assert.Len(t, ws, 1, "other owners are untouched")

	// After cleanup the owner can be seeded again
	assert.True(t, repo.Procedures.SeedOnboardingData(ctx, alice).Success)
}
