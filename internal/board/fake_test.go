package board

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/MahdiIsse/project-management-sub001/internal/models"
	"github.com/MahdiIsse/project-management-sub001/internal/types"
)

var errNotFound = errors.New("not found")

// fakeBackend is an in-memory Backend. Setting fail makes the next write
// return that error without changing anything.
type fakeBackend struct {
	mu         sync.Mutex
	nextID     int
	workspaces map[types.WorkspaceID]models.Workspace
	columns    map[types.ColumnID]models.Column
	tasks      map[types.TaskID]models.Task
	tags       map[types.TagID]models.Tag
	assignees  map[types.AssigneeID]models.Assignee

	fail              error
	onWrite           func() // runs before every call that honours fail
	listCalls         map[string]int
	lastTaskPositions []models.TaskPosition
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		nextID:     100,
		workspaces: map[types.WorkspaceID]models.Workspace{},
		columns:    map[types.ColumnID]models.Column{},
		tasks:      map[types.TaskID]models.Task{},
		tags:       map[types.TagID]models.Tag{},
		assignees:  map[types.AssigneeID]models.Assignee{},
		listCalls:  map[string]int{},
	}
}

func (f *fakeBackend) id() int {
	f.nextID++
	return f.nextID
}

func (f *fakeBackend) takeFail() error {
	if f.onWrite != nil {
		f.onWrite()
	}
	err := f.fail
	f.fail = nil
	return err
}

func (f *fakeBackend) ListWorkspaces(context.Context) ([]models.Workspace, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls["workspaces"]++
	if err := f.takeFail(); err != nil {
		return nil, err
	}
	out := make([]models.Workspace, 0, len(f.workspaces))
	for _, w := range f.workspaces {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (f *fakeBackend) CreateWorkspace(_ context.Context, in WorkspaceInput) (*models.Workspace, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeFail(); err != nil {
		return nil, err
	}
	w := models.Workspace{ID: types.WorkspaceID(f.id()), Title: in.Title, Description: in.Description, Color: in.Color}
	if in.Position != nil {
		w.Position = *in.Position
	} else {
		w.Position = len(f.workspaces)
	}
	f.workspaces[w.ID] = w
	return &w, nil
}

func (f *fakeBackend) UpdateWorkspace(_ context.Context, id types.WorkspaceID, p WorkspacePatch) (*models.Workspace, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeFail(); err != nil {
		return nil, err
	}
	w, ok := f.workspaces[id]
	if !ok {
		return nil, errNotFound
	}
	if p.Title != nil {
		w.Title = *p.Title
	}
	if p.Description != nil {
		w.Description = *p.Description
	}
	if p.Color != nil {
		w.Color = *p.Color
	}
	f.workspaces[id] = w
	return &w, nil
}

func (f *fakeBackend) DeleteWorkspace(_ context.Context, id types.WorkspaceID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeFail(); err != nil {
		return err
	}
	delete(f.workspaces, id)
	return nil
}

func (f *fakeBackend) UpdateWorkspacePositions(_ context.Context, ps []models.WorkspacePosition) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeFail(); err != nil {
		return err
	}
	for _, p := range ps {
		w := f.workspaces[p.ID]
		w.Position = p.Position
		f.workspaces[p.ID] = w
	}
	return nil
}

func (f *fakeBackend) ListColumns(_ context.Context, ws types.WorkspaceID) ([]models.Column, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls["columns"]++
	var out []models.Column
	for _, c := range f.columns {
		if c.WorkspaceID == ws {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (f *fakeBackend) CreateColumn(_ context.Context, in ColumnInput) (*models.Column, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeFail(); err != nil {
		return nil, err
	}
	c := models.Column{ID: types.ColumnID(f.id()), WorkspaceID: in.WorkspaceID, Title: in.Title, Color: in.Color}
	if in.Position != nil {
		c.Position = *in.Position
	}
	f.columns[c.ID] = c
	return &c, nil
}

func (f *fakeBackend) UpdateColumn(_ context.Context, id types.ColumnID, p ColumnPatch) (*models.Column, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeFail(); err != nil {
		return nil, err
	}
	c, ok := f.columns[id]
	if !ok {
		return nil, errNotFound
	}
	if p.Title != nil {
		c.Title = *p.Title
	}
	if p.Color != nil {
		c.Color = *p.Color
	}
	f.columns[id] = c
	return &c, nil
}

func (f *fakeBackend) DeleteColumn(_ context.Context, id types.ColumnID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeFail(); err != nil {
		return err
	}
	delete(f.columns, id)
	for tid, t := range f.tasks {
		if t.ColumnID == id {
			delete(f.tasks, tid)
		}
	}
	return nil
}

func (f *fakeBackend) UpdateColumnPositions(_ context.Context, _ types.WorkspaceID, ps []models.ColumnPosition) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeFail(); err != nil {
		return err
	}
	for _, p := range ps {
		c := f.columns[p.ID]
		c.Position = p.Position
		f.columns[p.ID] = c
	}
	return nil
}

func (f *fakeBackend) ListTasks(_ context.Context, ws types.WorkspaceID) ([]models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls["tasks"]++
	var out []models.Task
	for _, t := range f.tasks {
		if t.WorkspaceID == ws {
			out = append(out, t.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		ci, cj := f.columns[out[i].ColumnID].Position, f.columns[out[j].ColumnID].Position
		if ci != cj {
			return ci < cj
		}
		return out[i].Position < out[j].Position
	})
	return out, nil
}

func (f *fakeBackend) GetTask(_ context.Context, id types.TaskID) (*models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tasks[id]
	if !ok {
		return nil, errNotFound
	}
	t = t.Clone()
	return &t, nil
}

func (f *fakeBackend) CreateTask(_ context.Context, in TaskInput) (*models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeFail(); err != nil {
		return nil, err
	}
	col, ok := f.columns[in.ColumnID]
	if !ok {
		return nil, errNotFound
	}
	t := models.Task{
		ID: types.TaskID(f.id()), WorkspaceID: col.WorkspaceID, ColumnID: in.ColumnID,
		Title: in.Title, Description: in.Description, DueDate: in.DueDate, Priority: in.Priority,
	}
	if in.Position != nil {
		t.Position = *in.Position
	}
	for _, id := range in.AssigneeIDs {
		t.Assignees = append(t.Assignees, f.assignees[id])
	}
	for _, id := range in.TagIDs {
		t.Tags = append(t.Tags, f.tags[id])
	}
	f.tasks[t.ID] = t
	out := t.Clone()
	return &out, nil
}

func (f *fakeBackend) UpdateTask(_ context.Context, id types.TaskID, p TaskPatch) (*models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeFail(); err != nil {
		return nil, err
	}
	t, ok := f.tasks[id]
	if !ok {
		return nil, errNotFound
	}
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.ColumnID != nil {
		t.ColumnID = *p.ColumnID
	}
	f.tasks[id] = t
	out := t.Clone()
	return &out, nil
}

func (f *fakeBackend) DeleteTask(_ context.Context, id types.TaskID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeFail(); err != nil {
		return err
	}
	delete(f.tasks, id)
	return nil
}

func (f *fakeBackend) UpdateTaskPositions(_ context.Context, _ types.WorkspaceID, ps []models.TaskPosition) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeFail(); err != nil {
		return err
	}
	f.lastTaskPositions = ps
	for _, p := range ps {
		t := f.tasks[p.ID]
		t.ColumnID = p.ColumnID
		t.Position = p.Position
		f.tasks[p.ID] = t
	}
	return nil
}

func (f *fakeBackend) relate(id types.TaskID, fn func(*models.Task) error) (*models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeFail(); err != nil {
		return nil, err
	}
	t, ok := f.tasks[id]
	if !ok {
		return nil, errNotFound
	}
	t = t.Clone()
	if err := fn(&t); err != nil {
		return nil, err
	}
	f.tasks[id] = t
	out := t.Clone()
	return &out, nil
}

func (f *fakeBackend) AddAssignee(_ context.Context, id types.TaskID, aid types.AssigneeID) (*models.Task, error) {
	return f.relate(id, func(t *models.Task) error {
		a, ok := f.assignees[aid]
		if !ok {
			return errNotFound
		}
		if !t.HasAssignee(aid) {
			t.Assignees = append(t.Assignees, a)
		}
		return nil
	})
}

func (f *fakeBackend) RemoveAssignee(_ context.Context, id types.TaskID, aid types.AssigneeID) (*models.Task, error) {
	return f.relate(id, func(t *models.Task) error {
		t.Assignees = removeFrom(t.Assignees, func(a models.Assignee) bool { return a.ID == aid })
		return nil
	})
}

func (f *fakeBackend) AddTag(_ context.Context, id types.TaskID, gid types.TagID) (*models.Task, error) {
	return f.relate(id, func(t *models.Task) error {
		g, ok := f.tags[gid]
		if !ok {
			return errNotFound
		}
		if !t.HasTag(gid) {
			t.Tags = append(t.Tags, g)
		}
		return nil
	})
}

func (f *fakeBackend) RemoveTag(_ context.Context, id types.TaskID, gid types.TagID) (*models.Task, error) {
	return f.relate(id, func(t *models.Task) error {
		t.Tags = removeFrom(t.Tags, func(g models.Tag) bool { return g.ID == gid })
		return nil
	})
}

func (f *fakeBackend) ListTags(context.Context) ([]models.Tag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Tag, 0, len(f.tags))
	for _, g := range f.tags {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeBackend) GetTag(_ context.Context, id types.TagID) (*models.Tag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.tags[id]
	if !ok {
		return nil, errNotFound
	}
	return &g, nil
}

func (f *fakeBackend) CreateTag(_ context.Context, in TagInput) (*models.Tag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeFail(); err != nil {
		return nil, err
	}
	g := models.Tag{ID: types.TagID(f.id()), Name: in.Name, Color: in.Color}
	f.tags[g.ID] = g
	return &g, nil
}

func (f *fakeBackend) UpdateTag(_ context.Context, id types.TagID, p TagPatch) (*models.Tag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeFail(); err != nil {
		return nil, err
	}
	g := f.tags[id]
	if p.Name != nil {
		g.Name = *p.Name
	}
	if p.Color != nil {
		g.Color = *p.Color
	}
	f.tags[id] = g
	return &g, nil
}

func (f *fakeBackend) DeleteTag(_ context.Context, id types.TagID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeFail(); err != nil {
		return err
	}
	delete(f.tags, id)
	for tid, t := range f.tasks {
		t = t.Clone()
		t.Tags = removeFrom(t.Tags, func(g models.Tag) bool { return g.ID == id })
		f.tasks[tid] = t
	}
	return nil
}

func (f *fakeBackend) ListAssignees(context.Context) ([]models.Assignee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Assignee, 0, len(f.assignees))
	for _, a := range f.assignees {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeBackend) GetAssignee(_ context.Context, id types.AssigneeID) (*models.Assignee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.assignees[id]
	if !ok {
		return nil, errNotFound
	}
	return &a, nil
}

func (f *fakeBackend) CreateAssignee(_ context.Context, in AssigneeInput) (*models.Assignee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeFail(); err != nil {
		return nil, err
	}
	a := models.Assignee{ID: types.AssigneeID(f.id()), Name: in.Name, AvatarURL: in.AvatarURL}
	f.assignees[a.ID] = a
	return &a, nil
}

func (f *fakeBackend) UpdateAssignee(_ context.Context, id types.AssigneeID, p AssigneePatch) (*models.Assignee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeFail(); err != nil {
		return nil, err
	}
	a := f.assignees[id]
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.AvatarURL != nil {
		a.AvatarURL = *p.AvatarURL
	}
	f.assignees[id] = a
	return &a, nil
}

func (f *fakeBackend) DeleteAssignee(_ context.Context, id types.AssigneeID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeFail(); err != nil {
		return err
	}
	delete(f.assignees, id)
	return nil
}

var _ Backend = (*fakeBackend)(nil)
