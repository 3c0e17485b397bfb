package task

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MahdiIsse/project-management-sub001/internal/database"
	"github.com/MahdiIsse/project-management-sub001/internal/events"
	"github.com/MahdiIsse/project-management-sub001/internal/models"
	"github.com/MahdiIsse/project-management-sub001/internal/testutil"
	"github.com/MahdiIsse/project-management-sub001/internal/types"
)

type fixture struct {
	svc   Service
	repo  *database.Repository
	local *events.Local
	ws    types.WorkspaceID
	todo  types.ColumnID
	done  types.ColumnID
}

func setup(t *testing.T) fixture {
	t.Helper()
	_, repo := testutil.SetupTestDB(t)
	ctx := testutil.Ctx("")
	owner := testutil.DefaultOwner

	ws, err := repo.Workspaces.Create(ctx, owner, models.Workspace{Title: "Board"}, nil)
	require.NoError(t, err)
	todo, err := repo.Columns.Create(ctx, owner, models.Column{WorkspaceID: ws.ID, Title: "To Do"}, nil)
	require.NoError(t, err)
	done, err := repo.Columns.Create(ctx, owner, models.Column{WorkspaceID: ws.ID, Title: "Done"}, nil)
	require.NoError(t, err)

	local := events.NewLocal()
	return fixture{
		svc:   NewService(repo.Tasks, local),
		repo:  repo,
		local: local,
		ws:    ws.ID,
		todo:  todo.ID,
		done:  done.ID,
	}
}

func TestCreateTask_Defaults(t *testing.T) {
	t.Parallel()
	f := setup(t)
	ctx := testutil.Ctx("")

	created, err := f.svc.CreateTask(ctx, CreateTaskRequest{ColumnID: f.todo, Title: "Write docs"})
	require.NoError(t, err)

	assert.Equal(t, models.PriorityLow, created.Priority)
	assert.Equal(t, f.ws, created.WorkspaceID)
	assert.Equal(t, 0, created.Position)
	assert.Nil(t, created.DueDate)

	second, err := f.svc.CreateTask(ctx, CreateTaskRequest{ColumnID: f.todo, Title: "Review", Priority: "high"})
	require.NoError(t, err)
	assert.Equal(t, 1, second.Position)
	assert.Equal(t, models.PriorityHigh, second.Priority)

	sent := f.local.Sent()
	require.Len(t, sent, 2)
	assert.Equal(t, events.EntityTask, sent[1].Entity)
	assert.Equal(t, f.ws.Int(), sent[1].WorkspaceID)
	assert.Equal(t, string(testutil.DefaultOwner), sent[1].Owner)
}

func TestCreateTask_WithRelations(t *testing.T) {
	t.Parallel()
	f := setup(t)
	ctx := testutil.Ctx("")
	owner := testutil.DefaultOwner

	a, err := f.repo.Assignees.Create(ctx, owner, models.Assignee{Name: "Ada"})
	require.NoError(t, err)
	g, err := f.repo.Tags.Create(ctx, owner, models.Tag{Name: "Bug", Color: "red"})
	require.NoError(t, err)

	due := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	created, err := f.svc.CreateTask(ctx, CreateTaskRequest{
		ColumnID:    f.todo,
		Title:       "Fix crash",
		DueDate:     &due,
		AssigneeIDs: []types.AssigneeID{a.ID},
		TagIDs:      []types.TagID{g.ID},
	})
	require.NoError(t, err)

	require.Len(t, created.Assignees, 1)
	assert.Equal(t, "Ada", created.Assignees[0].Name)
	require.Len(t, created.Tags, 1)
	assert.Equal(t, "Bug", created.Tags[0].Name)
	require.NotNil(t, created.DueDate)
	assert.True(t, due.Equal(*created.DueDate))

	_, err = f.svc.CreateTask(ctx, CreateTaskRequest{ColumnID: f.todo, Title: "x", TagIDs: []types.TagID{999}})
	assert.ErrorIs(t, err, ErrRelatedNotFound)
}

func TestCreateTask_Validation(t *testing.T) {
	t.Parallel()
	f := setup(t)
	ctx := testutil.Ctx("")

	tests := []struct {
		name string
		req  CreateTaskRequest
		want error
	}{
		{"empty title", CreateTaskRequest{ColumnID: f.todo, Title: ""}, ErrEmptyTitle},
		{"long title", CreateTaskRequest{ColumnID: f.todo, Title: strings.Repeat("t", 256)}, ErrTitleTooLong},
		{"no column", CreateTaskRequest{Title: "x"}, ErrInvalidColumnID},
		{"missing column", CreateTaskRequest{ColumnID: 999, Title: "x"}, ErrColumnNotFound},
		{"wrong workspace", CreateTaskRequest{WorkspaceID: 999, ColumnID: f.todo, Title: "x"}, ErrColumnOutsideWorkspace},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateTask(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := f.svc.CreateTask(ctx, CreateTaskRequest{ColumnID: f.todo, Title: "x", Priority: "urgent"})
	assert.ErrorContains(t, err, "invalid priority")
}

func TestUpdateTask_MergesPartialInput(t *testing.T) {
	t.Parallel()
	f := setup(t)
	ctx := testutil.Ctx("")

	due := time.Date(2026, 12, 24, 0, 0, 0, 0, time.UTC)
	created, err := f.svc.CreateTask(ctx, CreateTaskRequest{
		ColumnID: f.todo, Title: "Draft", Description: "body", DueDate: &due,
	})
	require.NoError(t, err)

	prio := "Medium"
	updated, err := f.svc.UpdateTask(ctx, created.ID, UpdateTaskRequest{Priority: &prio, ColumnID: &f.done})
	require.NoError(t, err)
	assert.Equal(t, "Draft", updated.Title)
	assert.Equal(t, "body", updated.Description)
	assert.Equal(t, models.PriorityMedium, updated.Priority)
	assert.Equal(t, f.done, updated.ColumnID)
	require.NotNil(t, updated.DueDate)

	cleared, err := f.svc.UpdateTask(ctx, created.ID, UpdateTaskRequest{ClearDueDate: true})
	require.NoError(t, err)
	assert.Nil(t, cleared.DueDate)

	bad := "nope"
	_, err = f.svc.UpdateTask(ctx, created.ID, UpdateTaskRequest{Priority: &bad})
	assert.Error(t, err)

	_, err = f.svc.UpdateTask(ctx, 4242, UpdateTaskRequest{Priority: &prio})
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestUpdateTask_RejectsColumnFromOtherWorkspace(t *testing.T) {
	t.Parallel()
	f := setup(t)
	ctx := testutil.Ctx("")
	owner := testutil.DefaultOwner

	other, err := f.repo.Workspaces.Create(ctx, owner, models.Workspace{Title: "Other"}, nil)
	require.NoError(t, err)
	foreign, err := f.repo.Columns.Create(ctx, owner, models.Column{WorkspaceID: other.ID, Title: "Elsewhere"}, nil)
	require.NoError(t, err)

	created, err := f.svc.CreateTask(ctx, CreateTaskRequest{ColumnID: f.todo, Title: "Stay"})
	require.NoError(t, err)

	_, err = f.svc.UpdateTask(ctx, created.ID, UpdateTaskRequest{ColumnID: &foreign.ID})
	assert.ErrorIs(t, err, ErrColumnOutsideWorkspace)
}

func TestUpdateTaskPositions_MoveAcrossColumns(t *testing.T) {
	t.Parallel()
	f := setup(t)
	ctx := testutil.Ctx("")

	a, _ := f.svc.CreateTask(ctx, CreateTaskRequest{ColumnID: f.todo, Title: "A"})
	b, _ := f.svc.CreateTask(ctx, CreateTaskRequest{ColumnID: f.todo, Title: "B"})

	err := f.svc.UpdateTaskPositions(ctx, f.ws, []models.TaskPosition{
		{ID: b.ID, ColumnID: f.todo, Position: 0},
		{ID: a.ID, ColumnID: f.done, Position: 0},
	})
	require.NoError(t, err)

	gotA, err := f.svc.GetTask(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, f.done, gotA.ColumnID)

	gotB, err := f.svc.GetTask(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, gotB.Position)
}

func TestUpdateTaskPositions_RollsBack(t *testing.T) {
	t.Parallel()
	f := setup(t)
	ctx := testutil.Ctx("")

	a, _ := f.svc.CreateTask(ctx, CreateTaskRequest{ColumnID: f.todo, Title: "A"})

	err := f.svc.UpdateTaskPositions(ctx, f.ws, []models.TaskPosition{
		{ID: a.ID, ColumnID: f.done, Position: 3},
		{ID: 999, ColumnID: f.todo, Position: 0},
	})
	assert.ErrorIs(t, err, ErrTaskNotFound)

	got, err := f.svc.GetTask(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, f.todo, got.ColumnID)
	assert.Equal(t, 0, got.Position)
}

func TestRelations(t *testing.T) {
	t.Parallel()
	f := setup(t)
	ctx := testutil.Ctx("")
	owner := testutil.DefaultOwner

	a, err := f.repo.Assignees.Create(ctx, owner, models.Assignee{Name: "Grace"})
	require.NoError(t, err)
	g, err := f.repo.Tags.Create(ctx, owner, models.Tag{Name: "Docs", Color: "blue"})
	require.NoError(t, err)
	created, err := f.svc.CreateTask(ctx, CreateTaskRequest{ColumnID: f.todo, Title: "Relate"})
	require.NoError(t, err)

	withA, err := f.svc.AddAssignee(ctx, created.ID, a.ID)
	require.NoError(t, err)
	assert.True(t, withA.HasAssignee(a.ID))

	// Attaching twice is harmless
	_, err = f.svc.AddAssignee(ctx, created.ID, a.ID)
	require.NoError(t, err)

	withG, err := f.svc.AddTag(ctx, created.ID, g.ID)
	require.NoError(t, err)
	assert.True(t, withG.HasTag(g.ID))
	assert.Len(t, withG.Assignees, 1)

	noA, err := f.svc.RemoveAssignee(ctx, created.ID, a.ID)
	require.NoError(t, err)
	assert.False(t, noA.HasAssignee(a.ID))

	noG, err := f.svc.RemoveTag(ctx, created.ID, g.ID)
	require.NoError(t, err)
	assert.Empty(t, noG.Tags)

	_, err = f.svc.AddTag(ctx, created.ID, 999)
	assert.ErrorIs(t, err, ErrRelatedNotFound)
	_, err = f.svc.AddTag(ctx, 999, g.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)
	_, err = f.svc.AddAssignee(ctx, created.ID, 0)
	assert.ErrorIs(t, err, ErrInvalidAssigneeID)
}

func TestDeleteTask(t *testing.T) {
	t.Parallel()
	f := setup(t)
	ctx := testutil.Ctx("")

	created, err := f.svc.CreateTask(ctx, CreateTaskRequest{ColumnID: f.todo, Title: "Bye"})
	require.NoError(t, err)
	require.NoError(t, f.svc.DeleteTask(ctx, created.ID))

	_, err = f.svc.GetTask(ctx, created.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)

	// Another owner cannot delete what they cannot see
	other, err := f.svc.CreateTask(ctx, CreateTaskRequest{ColumnID: f.todo, Title: "Mine"})
	require.NoError(t, err)
	assert.ErrorIs(t, f.svc.DeleteTask(testutil.Ctx("mallory"), other.ID), ErrTaskNotFound)
}
