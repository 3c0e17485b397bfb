package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MahdiIsse/project-management-sub001/internal/models"
)

func TestTaskRepo_CreateDefaults(t *testing.T) {
	_, repo := setupTestDB(t)

	w := createTestWorkspace(t, repo, alice, "Board")
	c := createTestColumn(t, repo, alice, w.ID, "Todo")

	first := createTestTask(t, repo, alice, c.ID, "First")
	second := createTestTask(t, repo, alice, c.ID, "Second")

	assert.Equal(t, w.ID, first.WorkspaceID, "workspace is derived from the column")
	assert.Equal(t, models.PriorityLow, first.Priority)
	assert.Equal(t, 0, first.Position)
	assert.Equal(t, 1, second.Position)
	assert.NotNil(t, first.Assignees)
	assert.NotNil(t, first.Tags)
}

func TestTaskRepo_CreateWithRelationsAndDueDate(t *testing.T) {
	ctx := context.Background()
	_, repo := setupTestDB(t)

	w := createTestWorkspace(t, repo, alice, "Board")
	c := createTestColumn(t, repo, alice, w.ID, "Todo")
	a, err := repo.Assignees.Create(ctx, alice, models.Assignee{Name: "Ada"})
	require.NoError(t, err)
	g, err := repo.Tags.Create(ctx, alice, models.Tag{Name: "Bug", Color: "red"})
	require.NoError(t, err)

	due := time.Date(2030, 1, 2, 0, 0, 0, 0, time.UTC)
	task, err := repo.Tasks.Create(ctx, alice, models.Task{
		ColumnID:  c.ID,
		Title:     "Fix it",
		Priority:  models.PriorityHigh,
		DueDate:   &due,
		Assignees: []models.Assignee{*a},
		Tags:      []models.Tag{*g},
	}, nil)
	require.NoError(t, err)

	require.NotNil(t, task.DueDate)
	assert.True(t, due.Equal(*task.DueDate))
	assert.Equal(t, models.PriorityHigh, task.Priority)
	require.Len(t, task.Assignees, 1)
	assert.Equal(t, "Ada", task.Assignees[0].Name)
	require.Len(t, task.Tags, 1)
	assert.Equal(t, "red", task.Tags[0].Color)
}

func TestTaskRepo_CreateRejectsMismatchedWorkspace(t *testing.T) {
	ctx := context.Background()
	_, repo := setupTestDB(t)

	w1 := createTestWorkspace(t, repo, alice, "One")
	w2 := createTestWorkspace(t, repo, alice, "Two")
	c := createTestColumn(t, repo, alice, w1.ID, "Todo")

	_, err := repo.Tasks.Create(ctx, alice, models.Task{WorkspaceID: w2.ID, ColumnID: c.ID, Title: "x"}, nil)
	assert.ErrorIs(t, err, ErrColumnOutsideWorkspace)
}

func TestTaskRepo_Relations(t *testing.T) {
	ctx := context.Background()
	_, repo := setupTestDB(t)

	w := createTestWorkspace(t, repo, alice, "Board")
	c := createTestColumn(t, repo, alice, w.ID, "Todo")
	task := createTestTask(t, repo, alice, c.ID, "Task")
	a, err := repo.Assignees.Create(ctx, alice, models.Assignee{Name: "Ada"})
	require.NoError(t, err)
	foreign, err := repo.Assignees.Create(ctx, bob, models.Assignee{Name: "Eve"})
	require.NoError(t, err)

	require.NoError(t, repo.Tasks.AddAssignee(ctx, alice, task.ID, a.ID))
	require.NoError(t, repo.Tasks.AddAssignee(ctx, alice, task.ID, a.ID), "adding twice is a no-op")
	assert.ErrorIs(t, repo.Tasks.AddAssignee(ctx, alice, task.ID, foreign.ID), ErrNotFound)
	assert.ErrorIs(t, repo.Tasks.AddAssignee(ctx, bob, task.ID, foreign.ID), ErrNotFound)

	got, err := repo.Tasks.Get(ctx, alice, task.ID)
	require.NoError(t, err)
	require.Len(t, got.Assignees, 1)
	assert.True(t, got.HasAssignee(a.ID))

	require.NoError(t, repo.Tasks.RemoveAssignee(ctx, alice, task.ID, a.ID))
	got, err = repo.Tasks.Get(ctx, alice, task.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Assignees)

	g, err := repo.Tags.Create(ctx, alice, models.Tag{Name: "Docs", Color: "green"})
	require.NoError(t, err)
	require.NoError(t, repo.Tasks.AddTag(ctx, alice, task.ID, g.ID))

	// Deleting the tag detaches it from the task
	require.NoError(t, repo.Tags.Delete(ctx, alice, g.ID))
	got, err = repo.Tasks.Get(ctx, alice, task.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Tags)
}

func TestTaskRepo_UpdatePositionsMovesAcrossColumns(t *testing.T) {
	ctx := context.Background()
	_, repo := setupTestDB(t)

	w := createTestWorkspace(t, repo, alice, "Board")
	todo := createTestColumn(t, repo, alice, w.ID, "Todo")
	done := createTestColumn(t, repo, alice, w.ID, "Done")
	a := createTestTask(t, repo, alice, todo.ID, "A")
	b := createTestTask(t, repo, alice, todo.ID, "B")

	require.NoError(t, repo.Tasks.UpdatePositions(ctx, alice, []models.TaskPosition{
		{ID: b.ID, ColumnID: todo.ID, Position: 0},
		{ID: a.ID, ColumnID: done.ID, Position: 0},
	}))

	tasks, err := repo.Tasks.ListByWorkspace(ctx, alice, w.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, b.ID, tasks[0].ID)
	assert.Equal(t, todo.ID, tasks[0].ColumnID)
	assert.Equal(t, a.ID, tasks[1].ID)
	assert.Equal(t, done.ID, tasks[1].ColumnID)
}

func TestTaskRepo_UpdatePositionsRollsBack(t *testing.T) {
	ctx := context.Background()
	_, repo := setupTestDB(t)

	w1 := createTestWorkspace(t, repo, alice, "One")
	w2 := createTestWorkspace(t, repo, alice, "Two")
	c1 := createTestColumn(t, repo, alice, w1.ID, "Todo")
	c2 := createTestColumn(t, repo, alice, w2.ID, "Elsewhere")
	a := createTestTask(t, repo, alice, c1.ID, "A")
	b := createTestTask(t, repo, alice, c1.ID, "B")

	err := repo.Tasks.UpdatePositions(ctx, alice, []models.TaskPosition{
		{ID: a.ID, ColumnID: c1.ID, Position: 5},
		{ID: b.ID, ColumnID: c2.ID, Position: 0},
	})
	assert.ErrorIs(t, err, ErrColumnOutsideWorkspace)

	got, err := repo.Tasks.Get(ctx, alice, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Position, "first row of a failed batch must be rolled back")
}

func TestTaskRepo_UpdateFullRecord(t *testing.T) {
	ctx := context.Background()
	_, repo := setupTestDB(t)

	w := createTestWorkspace(t, repo, alice, "Board")
	todo := createTestColumn(t, repo, alice, w.ID, "Todo")
	done := createTestColumn(t, repo, alice, w.ID, "Done")
	task := createTestTask(t, repo, alice, todo.ID, "Task")

	task.Title = "Renamed"
	task.Description = "Body"
	task.Priority = models.PriorityMedium
	task.ColumnID = done.ID

	updated, err := repo.Tasks.Update(ctx, alice, *task)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, "Body", updated.Description)
	assert.Equal(t, models.PriorityMedium, updated.Priority)
	assert.Equal(t, done.ID, updated.ColumnID)
	assert.Nil(t, updated.DueDate)
}
