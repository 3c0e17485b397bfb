package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MahdiIsse/project-management-sub001/internal/app"
	"github.com/MahdiIsse/project-management-sub001/internal/board"
	"github.com/MahdiIsse/project-management-sub001/internal/config"
	"github.com/MahdiIsse/project-management-sub001/internal/events"
	"github.com/MahdiIsse/project-management-sub001/internal/models"
	"github.com/MahdiIsse/project-management-sub001/internal/testutil"
	"github.com/MahdiIsse/project-management-sub001/internal/tui/state"
	"github.com/MahdiIsse/project-management-sub001/internal/types"
)

type fixture struct {
	backend board.Backend
	ws      *models.Workspace
	todo    *models.Column
	done    *models.Column
}

// seed creates one workspace with "To Do" holding two tasks and an empty
// "Done"
func seed(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	db, _ := testutil.SetupTestDB(t)
	backend := app.New(db).Direct(testutil.DefaultOwner)

	ws, err := backend.CreateWorkspace(ctx, board.WorkspaceInput{Title: "Launch", Color: "#874BFD"})
	require.NoError(t, err)
	todo, err := backend.CreateColumn(ctx, board.ColumnInput{WorkspaceID: ws.ID, Title: "To Do"})
	require.NoError(t, err)
	done, err := backend.CreateColumn(ctx, board.ColumnInput{WorkspaceID: ws.ID, Title: "Done"})
	require.NoError(t, err)
	for _, title := range []string{"Write docs", "Ship"} {
		_, err := backend.CreateTask(ctx, board.TaskInput{WorkspaceID: ws.ID, ColumnID: todo.ID, Title: title})
		require.NoError(t, err)
	}
	return fixture{backend: backend, ws: ws, todo: todo, done: done}
}

func newModel(t *testing.T, backend board.Backend, pub events.EventPublisher) *Model {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	m := New(ctx, board.New(backend, nil, board.WithRetryDelay(0)), config.Default(), pub)
	m.Update(tea.WindowSizeMsg{Width: 200, Height: 40})
	drain(t, m, m.loadCmd())
	return m
}

// drain runs cmd and feeds its result back into the model until nothing is
// left. Only loads and mutations are expected.
func drain(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	for cmd != nil {
		msg := cmd()
		switch msg.(type) {
		case boardLoadedMsg, mutationDoneMsg:
		default:
			t.Fatalf("unexpected message %T", msg)
		}
		_, cmd = m.Update(msg)
	}
}

func keyPress(s string) tea.KeyPressMsg {
	switch s {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "esc":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	}
	r := []rune(s)[0]
	return tea.KeyPressMsg{Code: r, Text: s}
}

// press sends a key and drains whatever load or mutation it started
func press(t *testing.T, m *Model, s string) {
	t.Helper()
	_, cmd := m.Update(keyPress(s))
	drain(t, m, cmd)
}

func titles(items []board.Item[models.Task]) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Value.Title)
	}
	return out
}

func lastNotification(m *Model) state.Notification {
	all := m.NotificationState.All()
	if len(all) == 0 {
		return state.Notification{}
	}
	return all[0]
}

func TestModel_LoadsBoard(t *testing.T) {
	f := seed(t)
	m := newModel(t, f.backend, nil)

	require.Len(t, m.workspaces, 1)
	require.Len(t, m.columns, 2)
	assert.Equal(t, []string{"Write docs", "Ship"}, titles(m.columnTasks(0)))
	assert.False(t, m.loading)
	assert.Equal(t, state.Offline, m.Connection)

	content := m.View().Content
	assert.Contains(t, content, "Launch")
	assert.Contains(t, content, "To Do (2)")
	assert.Contains(t, content, "Write docs")
	assert.Contains(t, content, "Offline")
}

func TestModel_EmptyBoard(t *testing.T) {
	db, _ := testutil.SetupTestDB(t)
	m := newModel(t, app.New(db).Direct(testutil.DefaultOwner), nil)

	assert.Empty(t, m.workspaces)
	assert.Contains(t, m.View().Content, "No workspaces yet")

	// Nothing to act on
	press(t, m, "d")
	assert.Equal(t, state.NormalMode, m.UIState.Mode())
}

func TestModel_Navigation(t *testing.T) {
	f := seed(t)
	m := newModel(t, f.backend, nil)

	press(t, m, "j")
	assert.Equal(t, 1, m.UIState.SelectedTask())
	press(t, m, "j")
	assert.Equal(t, 1, m.UIState.SelectedTask(), "selection stops at the last task")

	press(t, m, "l")
	assert.Equal(t, 1, m.UIState.SelectedColumn())
	assert.Equal(t, 0, m.UIState.SelectedTask())
	press(t, m, "l")
	assert.Equal(t, 1, m.UIState.SelectedColumn())

	press(t, m, "h")
	press(t, m, "k")
	assert.Equal(t, 0, m.UIState.SelectedColumn())
	assert.Equal(t, 0, m.UIState.SelectedTask())
}

func TestModel_MoveTaskDown(t *testing.T) {
	f := seed(t)
	m := newModel(t, f.backend, nil)

	press(t, m, "J")

	assert.Equal(t, []string{"Ship", "Write docs"}, titles(m.columnTasks(0)))
	assert.Equal(t, 1, m.UIState.SelectedTask(), "selection follows the moved task")
	assert.Zero(t, m.pending)

	stored, err := f.backend.ListTasks(context.Background(), f.ws.ID)
	require.NoError(t, err)
	for _, task := range stored {
		if task.Title == "Write docs" {
			assert.Equal(t, 1, task.Position)
		}
	}
}

func TestModel_MoveTaskPastTheTop(t *testing.T) {
	f := seed(t)
	m := newModel(t, f.backend, nil)

	press(t, m, "K")

	n := lastNotification(m)
	assert.Equal(t, state.LevelWarning, n.Level)
	assert.Equal(t, "Task is already at the top of the column", n.Message)
	assert.Equal(t, []string{"Write docs", "Ship"}, titles(m.columnTasks(0)))
}

func TestModel_MoveTaskToNextColumn(t *testing.T) {
	f := seed(t)
	m := newModel(t, f.backend, nil)

	press(t, m, ">")

	assert.Equal(t, []string{"Ship"}, titles(m.columnTasks(0)))
	assert.Equal(t, []string{"Write docs"}, titles(m.columnTasks(1)))
	assert.Equal(t, 1, m.UIState.SelectedColumn())

	press(t, m, ">")
	n := lastNotification(m)
	assert.Equal(t, state.LevelWarning, n.Level)
	assert.Equal(t, "Already at last column", n.Message)
}

func TestModel_MoveColumn(t *testing.T) {
	f := seed(t)
	m := newModel(t, f.backend, nil)

	press(t, m, "L")

	require.Len(t, m.columns, 2)
	assert.Equal(t, "Done", m.columns[0].Value.Title)
	assert.Equal(t, "To Do", m.columns[1].Value.Title)
	assert.Equal(t, 1, m.UIState.SelectedColumn())

	press(t, m, "L")
	assert.Equal(t, "Already at last column", lastNotification(m).Message)
}

func TestModel_AddTask(t *testing.T) {
	f := seed(t)
	m := newModel(t, f.backend, nil)

	// Focus returns a cursor blink command, which is not run here
	m.Update(keyPress("a"))
	require.Equal(t, state.AddTaskMode, m.UIState.Mode())
	assert.Contains(t, m.View().Content, "New task in To Do")

	press(t, m, "enter")
	assert.Equal(t, state.AddTaskMode, m.UIState.Mode(), "an empty title keeps the popup open")
	assert.Equal(t, "A task needs a title", lastNotification(m).Message)

	m.input.SetValue("  Deploy  ")
	press(t, m, "enter")

	assert.Equal(t, state.NormalMode, m.UIState.Mode())
	tasks := m.columnTasks(0)
	require.Len(t, tasks, 3)
	assert.Equal(t, "Deploy", tasks[2].Value.Title)
	assert.False(t, tasks[2].Ref.IsPending())
	assert.Equal(t, 2, m.UIState.SelectedTask())
}

func TestModel_AddTaskCancel(t *testing.T) {
	f := seed(t)
	m := newModel(t, f.backend, nil)

	m.Update(keyPress("a"))
	m.input.SetValue("Never mind")
	press(t, m, "esc")

	assert.Equal(t, state.NormalMode, m.UIState.Mode())
	assert.Len(t, m.columnTasks(0), 2)
}

func TestModel_DeleteTask(t *testing.T) {
	f := seed(t)
	m := newModel(t, f.backend, nil)

	press(t, m, "d")
	require.Equal(t, state.DeleteConfirmMode, m.UIState.Mode())
	assert.Contains(t, m.View().Content, "Delete 'Write docs'?")

	press(t, m, "n")
	assert.Equal(t, state.NormalMode, m.UIState.Mode())
	assert.Len(t, m.columnTasks(0), 2)

	press(t, m, "d")
	press(t, m, "y")
	assert.Equal(t, []string{"Ship"}, titles(m.columnTasks(0)))

	stored, err := f.backend.ListTasks(context.Background(), f.ws.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestModel_CyclePriority(t *testing.T) {
	f := seed(t)
	m := newModel(t, f.backend, nil)

	require.Equal(t, models.PriorityLow, m.columnTasks(0)[0].Value.Priority)
	press(t, m, "p")
	assert.Equal(t, models.PriorityMedium, m.columnTasks(0)[0].Value.Priority)
	press(t, m, "p")
	press(t, m, "p")
	assert.Equal(t, models.PriorityLow, m.columnTasks(0)[0].Value.Priority)
}

// blockingBackend holds UpdateTask until released and then fails it
type blockingBackend struct {
	board.Backend
	started chan struct{}
	release chan struct{}
}

var errBackendDown = errors.New("backend down")

func (b *blockingBackend) UpdateTask(ctx context.Context, id types.TaskID, p board.TaskPatch) (*models.Task, error) {
	close(b.started)
	<-b.release
	return nil, errBackendDown
}

func TestModel_OptimisticUpdateRollsBack(t *testing.T) {
	f := seed(t)
	backend := &blockingBackend{Backend: f.backend, started: make(chan struct{}), release: make(chan struct{})}
	m := newModel(t, backend, nil)

	_, cmd := m.Update(keyPress("p"))
	require.NotNil(t, cmd)
	assert.Equal(t, 1, m.pending)

	result := make(chan tea.Msg, 1)
	go func() { result <- cmd() }()

	select {
	case <-backend.started:
	case <-time.After(2 * time.Second):
		t.Fatal("mutation never reached the backend")
	}

	// The edit shows before the backend answers
	m.syncFromCache()
	assert.Equal(t, models.PriorityMedium, m.columnTasks(0)[0].Value.Priority)
	assert.Contains(t, m.View().Content, "saving")

	close(backend.release)
	var msg tea.Msg
	select {
	case msg = <-result:
	case <-time.After(2 * time.Second):
		t.Fatal("mutation never finished")
	}
	_, next := m.Update(msg)
	drain(t, m, next)

	assert.Equal(t, models.PriorityLow, m.columnTasks(0)[0].Value.Priority)
	assert.Zero(t, m.pending)
	n := lastNotification(m)
	assert.Equal(t, state.LevelError, n.Level)
	assert.Contains(t, n.Message, "Could not change the priority")
	assert.Contains(t, n.Message, errBackendDown.Error())
}

func TestModel_PopupsAndHelp(t *testing.T) {
	f := seed(t)
	m := newModel(t, f.backend, nil)

	press(t, m, "?")
	require.Equal(t, state.HelpMode, m.UIState.Mode())
	assert.Contains(t, m.View().Content, "Keyboard shortcuts")
	press(t, m, "x")
	assert.Equal(t, state.NormalMode, m.UIState.Mode())

	press(t, m, "enter")
	require.Equal(t, state.TaskDetailMode, m.UIState.Mode())
	content := m.View().Content
	assert.Contains(t, content, "Write docs")
	assert.Contains(t, content, "No description")
	press(t, m, "esc")
	assert.Equal(t, state.NormalMode, m.UIState.Mode())

	assert.True(t, m.View().AltScreen)
}

func TestModel_SwitchWorkspace(t *testing.T) {
	f := seed(t)
	ctx := context.Background()
	second, err := f.backend.CreateWorkspace(ctx, board.WorkspaceInput{Title: "Research", Color: "#3B82F6"})
	require.NoError(t, err)
	_, err = f.backend.CreateColumn(ctx, board.ColumnInput{WorkspaceID: second.ID, Title: "Ideas"})
	require.NoError(t, err)

	m := newModel(t, f.backend, nil)
	require.Len(t, m.workspaces, 2)

	press(t, m, "}")
	assert.Equal(t, 1, m.UIState.SelectedWorkspace())
	require.Len(t, m.columns, 1)
	assert.Equal(t, "Ideas", m.columns[0].Value.Title)
	assert.NotContains(t, m.View().Content, "This workspace has no columns.")

	press(t, m, "{")
	assert.Equal(t, 0, m.UIState.SelectedWorkspace())
	assert.Len(t, m.columns, 2)
}

func TestModel_ChangeEvents(t *testing.T) {
	f := seed(t)
	pub := events.NewLocal()
	m := newModel(t, f.backend, pub)
	assert.Equal(t, state.Connected, m.Connection)

	// Another client adds a task
	_, err := f.backend.CreateTask(context.Background(), board.TaskInput{WorkspaceID: f.ws.ID, ColumnID: f.done.ID, Title: "Celebrate"})
	require.NoError(t, err)

	m.Update(eventMsg{event: events.Event{Type: events.EventDatabaseChanged, WorkspaceID: f.ws.ID.Int(), Entity: events.EntityTask}})
	require.True(t, m.client.Cache.IsStale(board.TasksKey(f.ws.ID)))

	drain(t, m, m.loadCmd())
	assert.Equal(t, []string{"Celebrate"}, titles(m.columnTasks(1)))

	m.Update(eventsClosedMsg{})
	assert.Equal(t, state.Disconnected, m.Connection)
	assert.Equal(t, state.LevelWarning, lastNotification(m).Level)
}

func TestModel_LoadError(t *testing.T) {
	db, _ := testutil.SetupTestDB(t)
	// No owner: every call fails as unauthenticated
	m := newModel(t, app.New(db).Direct(""), nil)

	require.Error(t, m.loadErr)
	assert.Equal(t, state.LevelError, lastNotification(m).Level)
	assert.Contains(t, m.View().Content, "Could not load the board")
}
