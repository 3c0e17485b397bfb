package board

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MahdiIsse/project-management-sub001/internal/events"
	"github.com/MahdiIsse/project-management-sub001/internal/models"
	"github.com/MahdiIsse/project-management-sub001/internal/querycache"
	"github.com/MahdiIsse/project-management-sub001/internal/types"
)

var errBoom = errors.New("backend unavailable")

type fixture struct {
	ctx  context.Context
	be   *fakeBackend
	c    *Client
	ws   types.WorkspaceID
	todo types.ColumnID
	done types.ColumnID
}

func setup(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	be := newFakeBackend()
	c := New(be, querycache.New(), WithRetryDelay(0))

	ws, err := be.CreateWorkspace(ctx, WorkspaceInput{Title: "Board"})
	require.NoError(t, err)
	p0, p1 := 0, 1
	todo, err := be.CreateColumn(ctx, ColumnInput{WorkspaceID: ws.ID, Title: "To Do", Position: &p0})
	require.NoError(t, err)
	done, err := be.CreateColumn(ctx, ColumnInput{WorkspaceID: ws.ID, Title: "Done", Position: &p1})
	require.NoError(t, err)

	return &fixture{ctx: ctx, be: be, c: c, ws: ws.ID, todo: todo.ID, done: done.ID}
}

func (f *fixture) task(t *testing.T, col types.ColumnID, title string, pos int) types.TaskID {
	t.Helper()
	created, err := f.be.CreateTask(f.ctx, TaskInput{ColumnID: col, Title: title, Position: &pos, Priority: models.PriorityLow})
	require.NoError(t, err)
	return created.ID
}

func titles(items []Item[models.Task]) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Value.Title
	}
	return out
}

func TestWorkspaces_RetriesOnce(t *testing.T) {
	f := setup(t)
	f.be.fail = errBoom

	list, err := f.c.Workspaces(f.ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, 2, f.be.listCalls["workspaces"])
}

func TestWorkspaces_RetryCanBeDisabled(t *testing.T) {
	f := setup(t)
	c := New(f.be, nil, WithWorkspaceRetry(0))
	f.be.fail = errBoom

	_, err := c.Workspaces(f.ctx)
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, 1, f.be.listCalls["workspaces"])
}

func TestCreateWorkspace_PendingThenCommitted(t *testing.T) {
	f := setup(t)
	_, err := f.c.Workspaces(f.ctx)
	require.NoError(t, err)

	var during []Item[models.Workspace]
	f.be.onWrite = func() {
		during, _ = querycache.Get[[]Item[models.Workspace]](f.c.Cache, WorkspacesKey)
	}

	created, err := f.c.CreateWorkspace(f.ctx, WorkspaceInput{Title: "  Launch  "})
	require.NoError(t, err)

	require.Len(t, during, 2)
	assert.True(t, during[1].Ref.IsPending())
	assert.Equal(t, "Launch", during[1].Value.Title)
	assert.Equal(t, 1, during[1].Value.Position, "position is the list length")

	after, ok := querycache.Get[[]Item[models.Workspace]](f.c.Cache, WorkspacesKey)
	require.True(t, ok)
	require.Len(t, after, 2)
	assert.True(t, after[1].Ref.Is(created.ID.Int()))
	assert.Equal(t, 1, created.Position)
	assert.True(t, f.c.Cache.IsStale(WorkspacesKey))
}

func TestCreateWorkspace_RollsBackOnFailure(t *testing.T) {
	f := setup(t)
	before, err := f.c.Workspaces(f.ctx)
	require.NoError(t, err)

	f.be.fail = errBoom
	_, err = f.c.CreateWorkspace(f.ctx, WorkspaceInput{Title: "Doomed"})
	assert.ErrorIs(t, err, errBoom)

	after, _ := querycache.Get[[]Item[models.Workspace]](f.c.Cache, WorkspacesKey)
	assert.Equal(t, before, after)
}

func TestCreateWorkspace_ValidatesBeforeTouchingCache(t *testing.T) {
	f := setup(t)
	_, err := f.c.CreateWorkspace(f.ctx, WorkspaceInput{Title: " "})
	assert.ErrorIs(t, err, ErrEmptyTitle)
	_, err = f.c.CreateWorkspace(f.ctx, WorkspaceInput{Title: "ok", Color: "blue"})
	assert.ErrorIs(t, err, ErrInvalidColor)
	assert.Empty(t, f.c.Cache.Keys())
}

func TestUpdateAndDeleteWorkspace(t *testing.T) {
	f := setup(t)
	_, err := f.c.Workspaces(f.ctx)
	require.NoError(t, err)
	_, err = f.c.Columns(f.ctx, f.ws)
	require.NoError(t, err)

	title := "Renamed"
	updated, err := f.c.UpdateWorkspace(f.ctx, f.ws, WorkspacePatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)

	list, _ := querycache.Get[[]Item[models.Workspace]](f.c.Cache, WorkspacesKey)
	assert.Equal(t, "Renamed", list[0].Value.Title)

	require.NoError(t, f.c.DeleteWorkspace(f.ctx, f.ws))
	list, _ = querycache.Get[[]Item[models.Workspace]](f.c.Cache, WorkspacesKey)
	assert.Empty(t, list)
	_, ok := querycache.Get[[]Item[models.Column]](f.c.Cache, ColumnsKey(f.ws))
	assert.False(t, ok)
}

func TestReorderWorkspaces(t *testing.T) {
	f := setup(t)
	second, err := f.be.CreateWorkspace(f.ctx, WorkspaceInput{Title: "Second"})
	require.NoError(t, err)
	_, err = f.c.Workspaces(f.ctx)
	require.NoError(t, err)

	require.NoError(t, f.c.ReorderWorkspaces(f.ctx, []types.WorkspaceID{second.ID, f.ws}))

	list, _ := querycache.Get[[]Item[models.Workspace]](f.c.Cache, WorkspacesKey)
	assert.Equal(t, "Second", list[0].Value.Title)
	assert.Equal(t, 0, list[0].Value.Position)
	assert.Equal(t, 1, list[1].Value.Position)
	assert.Equal(t, 1, f.be.workspaces[f.ws].Position)
}

func TestMoveTask_SwapWithinColumn(t *testing.T) {
	f := setup(t)
	a := f.task(t, f.todo, "A", 0)
	b := f.task(t, f.todo, "B", 1)

	_, err := f.c.Tasks(f.ctx, f.ws)
	require.NoError(t, err)

	require.NoError(t, f.c.MoveTask(f.ctx, f.ws, b, f.todo, 0))

	tasks, _ := querycache.Get[[]Item[models.Task]](f.c.Cache, TasksKey(f.ws))
	col := ColumnTasks(tasks, f.todo)
	assert.Equal(t, []string{"B", "A"}, titles(col))
	assert.Equal(t, 0, col[0].Value.Position)
	assert.Equal(t, 1, col[1].Value.Position)

	assert.ElementsMatch(t, []models.TaskPosition{
		{ID: b, ColumnID: f.todo, Position: 0},
		{ID: a, ColumnID: f.todo, Position: 1},
	}, f.be.lastTaskPositions)
}

func TestMoveTask_AcrossColumnsRenumbersBoth(t *testing.T) {
	f := setup(t)
	a := f.task(t, f.todo, "A", 0)
	f.task(t, f.todo, "B", 1)
	f.task(t, f.done, "C", 0)

	require.NoError(t, f.c.MoveTask(f.ctx, f.ws, a, f.done, 99))

	tasks, _ := querycache.Get[[]Item[models.Task]](f.c.Cache, TasksKey(f.ws))
	assert.Equal(t, []string{"B"}, titles(ColumnTasks(tasks, f.todo)))
	assert.Equal(t, []string{"C", "A"}, titles(ColumnTasks(tasks, f.done)))
	assert.Equal(t, 0, ColumnTasks(tasks, f.todo)[0].Value.Position)
	assert.Equal(t, f.done, f.be.tasks[a].ColumnID)
	assert.Equal(t, 1, f.be.tasks[a].Position)
}

func TestMoveTask_RollbackRestoresOrder(t *testing.T) {
	f := setup(t)
	f.task(t, f.todo, "A", 0)
	b := f.task(t, f.todo, "B", 1)

	before, err := f.c.Tasks(f.ctx, f.ws)
	require.NoError(t, err)

	var during []Item[models.Task]
	f.be.onWrite = func() {
		during, _ = querycache.Get[[]Item[models.Task]](f.c.Cache, TasksKey(f.ws))
	}
	f.be.fail = errBoom
	err = f.c.MoveTask(f.ctx, f.ws, b, f.todo, 0)
	assert.ErrorIs(t, err, errBoom)

	assert.Equal(t, []string{"B", "A"}, titles(during), "optimistic order is visible during the commit")
	after, _ := querycache.Get[[]Item[models.Task]](f.c.Cache, TasksKey(f.ws))
	assert.Equal(t, before, after)
}

func TestMoveTaskBy_Bounds(t *testing.T) {
	f := setup(t)
	a := f.task(t, f.todo, "A", 0)
	b := f.task(t, f.todo, "B", 1)
	_, err := f.c.Tasks(f.ctx, f.ws)
	require.NoError(t, err)

	assert.ErrorIs(t, f.c.MoveTaskBy(f.ctx, 0, a, -1), models.ErrAlreadyFirstTask)
	assert.ErrorIs(t, f.c.MoveTaskBy(f.ctx, 0, b, 1), models.ErrAlreadyLastTask)
	require.NoError(t, f.c.MoveTaskBy(f.ctx, 0, a, 1))
	assert.Equal(t, 1, f.be.tasks[a].Position)

	assert.ErrorIs(t, f.c.MoveTaskToNeighbour(f.ctx, f.ws, b, -1), models.ErrAlreadyFirstColumn)
	require.NoError(t, f.c.MoveTaskToNeighbour(f.ctx, f.ws, b, 1))
	assert.Equal(t, f.done, f.be.tasks[b].ColumnID)
}

func TestReorderColumns_ParentLookup(t *testing.T) {
	f := setup(t)

	err := f.c.ReorderColumns(f.ctx, 0, []types.ColumnID{f.done, f.todo})
	assert.ErrorIs(t, err, ErrParentNotCached)

	_, err = f.c.Columns(f.ctx, f.ws)
	require.NoError(t, err)
	require.NoError(t, f.c.ReorderColumns(f.ctx, 0, []types.ColumnID{f.done, f.todo}))

	cols, _ := querycache.Get[[]Item[models.Column]](f.c.Cache, ColumnsKey(f.ws))
	assert.Equal(t, "Done", cols[0].Value.Title)
	assert.Equal(t, 0, f.be.columns[f.done].Position)

	assert.ErrorIs(t, f.c.MoveColumn(f.ctx, f.ws, f.done, -1), models.ErrAlreadyFirstColumn)
	require.NoError(t, f.c.MoveColumn(f.ctx, f.ws, f.done, 1))
	assert.Equal(t, 1, f.be.columns[f.done].Position)
}

func columnTitles(items []Item[models.Column]) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = fmt.Sprintf("%s(%d)", it.Value.Title, it.Value.Position)
	}
	return out
}

func TestReorderColumns_RollbackRestoresOrder(t *testing.T) {
	f := setup(t)
	before, err := f.c.Columns(f.ctx, f.ws)
	require.NoError(t, err)
	require.Equal(t, []string{"To Do(0)", "Done(1)"}, columnTitles(before))

	var during []Item[models.Column]
	f.be.onWrite = func() {
		during, _ = querycache.Get[[]Item[models.Column]](f.c.Cache, ColumnsKey(f.ws))
	}
	f.be.fail = errBoom
	err = f.c.ReorderColumns(f.ctx, f.ws, []types.ColumnID{f.done, f.todo})
	assert.ErrorIs(t, err, errBoom)

	assert.Equal(t, []string{"Done(0)", "To Do(1)"}, columnTitles(during), "optimistic order is visible during the commit")
	after, _ := querycache.Get[[]Item[models.Column]](f.c.Cache, ColumnsKey(f.ws))
	assert.Equal(t, before, after)
	assert.Equal(t, 0, f.be.columns[f.todo].Position)
	assert.Equal(t, 1, f.be.columns[f.done].Position)
}

func TestMoveColumn_SkipsPendingColumns(t *testing.T) {
	f := setup(t)
	cols, err := f.c.Columns(f.ctx, f.ws)
	require.NoError(t, err)

	draft := Item[models.Column]{Ref: types.NewPending(), Value: models.Column{WorkspaceID: f.ws, Title: "Draft"}}
	f.c.Cache.Set(ColumnsKey(f.ws), append([]Item[models.Column]{draft}, cols...))

	require.NoError(t, f.c.MoveColumn(f.ctx, f.ws, f.done, -1))
	assert.Equal(t, 0, f.be.columns[f.done].Position)
	assert.Equal(t, 1, f.be.columns[f.todo].Position)
}

func TestCreateColumnAndTask(t *testing.T) {
	f := setup(t)
	_, err := f.c.Columns(f.ctx, f.ws)
	require.NoError(t, err)
	_, err = f.c.Tasks(f.ctx, f.ws)
	require.NoError(t, err)

	col, err := f.c.CreateColumn(f.ctx, ColumnInput{WorkspaceID: f.ws, Title: "Review"})
	require.NoError(t, err)
	assert.Equal(t, 2, col.Position)

	task, err := f.c.CreateTask(f.ctx, TaskInput{ColumnID: col.ID, Title: "Check PR"})
	require.NoError(t, err)
	assert.Equal(t, models.PriorityLow, task.Priority)
	assert.Equal(t, f.ws, task.WorkspaceID, "workspace resolved from the cached columns")

	tasks, _ := querycache.Get[[]Item[models.Task]](f.c.Cache, TasksKey(f.ws))
	require.Len(t, tasks, 1)
	assert.True(t, tasks[0].Ref.Is(task.ID.Int()))

	_, err = f.c.CreateTask(f.ctx, TaskInput{ColumnID: col.ID, Title: "x", Priority: "Urgent"})
	assert.Error(t, err)
}

func TestDeleteColumn_DropsItsTasks(t *testing.T) {
	f := setup(t)
	f.task(t, f.todo, "A", 0)
	f.task(t, f.done, "B", 0)
	_, err := f.c.Columns(f.ctx, f.ws)
	require.NoError(t, err)
	_, err = f.c.Tasks(f.ctx, f.ws)
	require.NoError(t, err)

	require.NoError(t, f.c.DeleteColumn(f.ctx, 0, f.todo))

	tasks, _ := querycache.Get[[]Item[models.Task]](f.c.Cache, TasksKey(f.ws))
	assert.Equal(t, []string{"B"}, titles(tasks))
}

func TestRelations_UseCachedEntities(t *testing.T) {
	f := setup(t)
	id := f.task(t, f.todo, "A", 0)
	ada, err := f.be.CreateAssignee(f.ctx, AssigneeInput{Name: "Ada"})
	require.NoError(t, err)
	bug, err := f.be.CreateTag(f.ctx, TagInput{Name: "Bug", Color: "red"})
	require.NoError(t, err)

	_, err = f.c.Tasks(f.ctx, f.ws)
	require.NoError(t, err)
	_, err = f.c.Assignees(f.ctx)
	require.NoError(t, err)

	var during []Item[models.Task]
	f.be.onWrite = func() {
		during, _ = querycache.Get[[]Item[models.Task]](f.c.Cache, TasksKey(f.ws))
	}
	withAda, err := f.c.AddAssignee(f.ctx, 0, id, ada.ID)
	require.NoError(t, err)
	assert.True(t, withAda.HasAssignee(ada.ID))
	require.Len(t, during, 1)
	assert.Equal(t, "Ada", during[0].Value.Assignees[0].Name)

	// Tags are not cached: the tag comes from the backend
	withBug, err := f.c.AddTag(f.ctx, f.ws, id, bug.ID)
	require.NoError(t, err)
	assert.True(t, withBug.HasTag(bug.ID))

	f.be.onWrite = nil
	f.be.fail = errBoom
	_, err = f.c.RemoveTag(f.ctx, f.ws, id, bug.ID)
	assert.ErrorIs(t, err, errBoom)
	tasks, _ := querycache.Get[[]Item[models.Task]](f.c.Cache, TasksKey(f.ws))
	assert.True(t, tasks[0].Value.HasTag(bug.ID), "rolled back")

	_, err = f.c.AddTag(f.ctx, f.ws, id, 12345)
	assert.ErrorIs(t, err, errNotFound)
}

func TestDeleteTag_DetachesFromCachedTasks(t *testing.T) {
	f := setup(t)
	bug, err := f.be.CreateTag(f.ctx, TagInput{Name: "Bug", Color: "red"})
	require.NoError(t, err)
	_, err = f.be.CreateTask(f.ctx, TaskInput{ColumnID: f.todo, Title: "A", TagIDs: []types.TagID{bug.ID}})
	require.NoError(t, err)

	_, err = f.c.Tags(f.ctx)
	require.NoError(t, err)
	before, err := f.c.Tasks(f.ctx, f.ws)
	require.NoError(t, err)

	f.be.fail = errBoom
	require.ErrorIs(t, f.c.DeleteTag(f.ctx, bug.ID), errBoom)
	after, _ := querycache.Get[[]Item[models.Task]](f.c.Cache, TasksKey(f.ws))
	assert.Equal(t, before, after)

	require.NoError(t, f.c.DeleteTag(f.ctx, bug.ID))
	after, _ = querycache.Get[[]Item[models.Task]](f.c.Cache, TasksKey(f.ws))
	assert.Empty(t, after[0].Value.Tags)
	tags, _ := querycache.Get[[]Item[models.Tag]](f.c.Cache, TagsKey)
	assert.Empty(t, tags)
}

func TestUpdateAssignee_RewritesCachedTasks(t *testing.T) {
	f := setup(t)
	ada, err := f.be.CreateAssignee(f.ctx, AssigneeInput{Name: "Ada"})
	require.NoError(t, err)
	_, err = f.be.CreateTask(f.ctx, TaskInput{ColumnID: f.todo, Title: "A", AssigneeIDs: []types.AssigneeID{ada.ID}})
	require.NoError(t, err)
	_, err = f.c.Tasks(f.ctx, f.ws)
	require.NoError(t, err)

	name := "Ada L."
	_, err = f.c.UpdateAssignee(f.ctx, ada.ID, AssigneePatch{Name: &name})
	require.NoError(t, err)

	tasks, _ := querycache.Get[[]Item[models.Task]](f.c.Cache, TasksKey(f.ws))
	assert.Equal(t, "Ada L.", tasks[0].Value.Assignees[0].Name)
}

func TestCyclePriority(t *testing.T) {
	f := setup(t)
	id := f.task(t, f.todo, "A", 0)

	for _, want := range []models.Priority{models.PriorityMedium, models.PriorityHigh, models.PriorityLow} {
		got, err := f.c.CyclePriority(f.ctx, f.ws, id)
		require.NoError(t, err)
		assert.Equal(t, want, got.Priority)
	}
}

func TestWatch_InvalidatesAndConverges(t *testing.T) {
	f := setup(t)
	f.task(t, f.todo, "A", 0)
	_, err := f.c.Tasks(f.ctx, f.ws)
	require.NoError(t, err)
	_, err = f.c.Columns(f.ctx, f.ws)
	require.NoError(t, err)

	// Another client writes directly to the backend
	f.task(t, f.todo, "B", 1)

	ctx, cancel := context.WithCancel(f.ctx)
	defer cancel()
	ch := make(chan events.Event, 1)
	go f.c.Watch(ctx, ch)
	ch <- events.Event{Type: events.EventDatabaseChanged, WorkspaceID: f.ws.Int(), Entity: events.EntityTask}

	require.Eventually(t, func() bool { return f.c.Cache.IsStale(TasksKey(f.ws)) }, time.Second, time.Millisecond)
	assert.False(t, f.c.Cache.IsStale(ColumnsKey(f.ws)), "only the task list is affected")

	tasks, err := f.c.Tasks(f.ctx, f.ws)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, titles(tasks))
}

func TestApply_OwnerWideEvents(t *testing.T) {
	f := setup(t)
	_, err := f.c.Tasks(f.ctx, f.ws)
	require.NoError(t, err)
	_, err = f.c.Tags(f.ctx)
	require.NoError(t, err)
	_, err = f.c.Workspaces(f.ctx)
	require.NoError(t, err)

	f.c.Apply(events.Event{Type: events.EventDatabaseChanged, Entity: events.EntityTag})
	assert.True(t, f.c.Cache.IsStale(TagsKey))
	assert.True(t, f.c.Cache.IsStale(TasksKey(f.ws)))
	assert.False(t, f.c.Cache.IsStale(WorkspacesKey))

	f.c.Apply(events.Event{Type: events.EventDatabaseChanged})
	assert.True(t, f.c.Cache.IsStale(WorkspacesKey))
}
