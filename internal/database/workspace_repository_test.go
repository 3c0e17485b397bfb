package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MahdiIsse/project-management-sub001/internal/models"
)

func TestWorkspaceRepo_CreateAssignsAppendPosition(t *testing.T) {
	_, repo := setupTestDB(t)

	first := createTestWorkspace(t, repo, alice, "One")
	second := createTestWorkspace(t, repo, alice, "Two")
	other := createTestWorkspace(t, repo, bob, "Bob's")

	assert.Equal(t, 0, first.Position)
	assert.Equal(t, 1, second.Position)
	assert.Equal(t, 0, other.Position, "positions are scoped to the owner")
	assert.False(t, first.CreatedAt.IsZero())
}

func TestWorkspaceRepo_OwnerIsolation(t *testing.T) {
	ctx := context.Background()
	_, repo := setupTestDB(t)

	w := createTestWorkspace(t, repo, alice, "Private")

	_, err := repo.Workspaces.Get(ctx, bob, w.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := repo.Workspaces.List(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = repo.Workspaces.Update(ctx, bob, models.Workspace{ID: w.ID, Title: "Hijacked"})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, repo.Workspaces.Delete(ctx, bob, w.ID), ErrNotFound)
}

func TestWorkspaceRepo_Update(t *testing.T) {
	ctx := context.Background()
	_, repo := setupTestDB(t)

	w := createTestWorkspace(t, repo, alice, "Old")
	updated, err := repo.Workspaces.Update(ctx, alice, models.Workspace{
		ID: w.ID, Title: "New", Description: "desc", Color: "#112233",
	})
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Title)
	assert.Equal(t, "desc", updated.Description)
	assert.Equal(t, "#112233", updated.Color)
	assert.Equal(t, w.Position, updated.Position)
}

func TestWorkspaceRepo_UpdatePositionsIsAtomic(t *testing.T) {
	ctx := context.Background()
	_, repo := setupTestDB(t)

	a := createTestWorkspace(t, repo, alice, "A")
	b := createTestWorkspace(t, repo, alice, "B")
	foreign := createTestWorkspace(t, repo, bob, "X")

	err := repo.Workspaces.UpdatePositions(ctx, alice, []models.WorkspacePosition{
		{ID: b.ID, Position: 0},
		{ID: a.ID, Position: 1},
		{ID: foreign.ID, Position: 2},
	})
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := repo.Workspaces.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, a.ID, list[0].ID, "failed batch must not leave partial writes")

	require.NoError(t, repo.Workspaces.UpdatePositions(ctx, alice, []models.WorkspacePosition{
		{ID: b.ID, Position: 0},
		{ID: a.ID, Position: 1},
	}))
	list, err = repo.Workspaces.List(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, b.ID, list[0].ID)
	assert.Equal(t, a.ID, list[1].ID)
}

func TestWorkspaceRepo_DeleteCascades(t *testing.T) {
	ctx := context.Background()
	db, repo := setupTestDB(t)

	w := createTestWorkspace(t, repo, alice, "Doomed")
	c := createTestColumn(t, repo, alice, w.ID, "Todo")
	createTestTask(t, repo, alice, c.ID, "Task")

	require.NoError(t, repo.Workspaces.Delete(ctx, alice, w.ID))

	var n int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM columns`).Scan(&n))
	assert.Zero(t, n)
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks`).Scan(&n))
	assert.Zero(t, n)
}
