package app

import (
	"context"
	"io"

	"github.com/MahdiIsse/project-management-sub001/internal/auth"
	"github.com/MahdiIsse/project-management-sub001/internal/board"
	"github.com/MahdiIsse/project-management-sub001/internal/filters"
	"github.com/MahdiIsse/project-management-sub001/internal/models"
	"github.com/MahdiIsse/project-management-sub001/internal/services/assignee"
	"github.com/MahdiIsse/project-management-sub001/internal/services/column"
	"github.com/MahdiIsse/project-management-sub001/internal/services/tag"
	"github.com/MahdiIsse/project-management-sub001/internal/services/task"
	"github.com/MahdiIsse/project-management-sub001/internal/services/workspace"
	"github.com/MahdiIsse/project-management-sub001/internal/types"
)

// Direct is the in-process board.Backend: every call goes straight to the
// services as one owner. Priorities cross this boundary as validated text.
type Direct struct {
	app   *App
	owner types.OwnerID
}

var _ board.Backend = (*Direct)(nil)

// Direct returns a backend acting as owner. An empty owner leaves the
// context untouched, so calls fail with auth.ErrNotAuthenticated unless the
// caller's context already carries a user.
func (a *App) Direct(owner types.OwnerID) *Direct {
	return &Direct{app: a, owner: owner}
}

func (d *Direct) ctx(ctx context.Context) context.Context {
	if d.owner == "" {
		return ctx
	}
	return auth.WithUser(ctx, d.owner)
}

func (d *Direct) ListWorkspaces(ctx context.Context) ([]models.Workspace, error) {
	return d.app.WorkspaceService.ListWorkspaces(d.ctx(ctx))
}

func (d *Direct) CreateWorkspace(ctx context.Context, in board.WorkspaceInput) (*models.Workspace, error) {
	return d.app.WorkspaceService.CreateWorkspace(d.ctx(ctx), workspace.CreateWorkspaceRequest{
		Title:       in.Title,
		Description: in.Description,
		Color:       in.Color,
		Position:    in.Position,
	})
}

func (d *Direct) UpdateWorkspace(ctx context.Context, id types.WorkspaceID, p board.WorkspacePatch) (*models.Workspace, error) {
	return d.app.WorkspaceService.UpdateWorkspace(d.ctx(ctx), id, workspace.UpdateWorkspaceRequest{
		Title:       p.Title,
		Description: p.Description,
		Color:       p.Color,
	})
}

func (d *Direct) DeleteWorkspace(ctx context.Context, id types.WorkspaceID) error {
	return d.app.WorkspaceService.DeleteWorkspace(d.ctx(ctx), id)
}

func (d *Direct) UpdateWorkspacePositions(ctx context.Context, positions []models.WorkspacePosition) error {
	return d.app.WorkspaceService.UpdateWorkspacePositions(d.ctx(ctx), positions)
}

func (d *Direct) ListColumns(ctx context.Context, workspaceID types.WorkspaceID) ([]models.Column, error) {
	return d.app.ColumnService.ListColumns(d.ctx(ctx), workspaceID)
}

func (d *Direct) CreateColumn(ctx context.Context, in board.ColumnInput) (*models.Column, error) {
	return d.app.ColumnService.CreateColumn(d.ctx(ctx), column.CreateColumnRequest{
		WorkspaceID: in.WorkspaceID,
		Title:       in.Title,
		Color:       in.Color,
		Position:    in.Position,
	})
}

func (d *Direct) UpdateColumn(ctx context.Context, id types.ColumnID, p board.ColumnPatch) (*models.Column, error) {
	return d.app.ColumnService.UpdateColumn(d.ctx(ctx), id, column.UpdateColumnRequest{Title: p.Title, Color: p.Color})
}

func (d *Direct) DeleteColumn(ctx context.Context, id types.ColumnID) error {
	return d.app.ColumnService.DeleteColumn(d.ctx(ctx), id)
}

func (d *Direct) UpdateColumnPositions(ctx context.Context, workspaceID types.WorkspaceID, positions []models.ColumnPosition) error {
	return d.app.ColumnService.UpdateColumnPositions(d.ctx(ctx), workspaceID, positions)
}

func (d *Direct) ListTasks(ctx context.Context, workspaceID types.WorkspaceID) ([]models.Task, error) {
	return d.app.TaskService.ListTasks(d.ctx(ctx), workspaceID)
}

func (d *Direct) GetTask(ctx context.Context, id types.TaskID) (*models.Task, error) {
	return d.app.TaskService.GetTask(d.ctx(ctx), id)
}

func (d *Direct) CreateTask(ctx context.Context, in board.TaskInput) (*models.Task, error) {
	return d.app.TaskService.CreateTask(d.ctx(ctx), task.CreateTaskRequest{
		WorkspaceID: in.WorkspaceID,
		ColumnID:    in.ColumnID,
		Title:       in.Title,
		Description: in.Description,
		DueDate:     in.DueDate,
		Priority:    string(in.Priority),
		Position:    in.Position,
		AssigneeIDs: in.AssigneeIDs,
		TagIDs:      in.TagIDs,
	})
}

func (d *Direct) UpdateTask(ctx context.Context, id types.TaskID, p board.TaskPatch) (*models.Task, error) {
	req := task.UpdateTaskRequest{
		Title:        p.Title,
		Description:  p.Description,
		DueDate:      p.DueDate,
		ClearDueDate: p.ClearDueDate,
		ColumnID:     p.ColumnID,
	}
	if p.Priority != nil {
		s := string(*p.Priority)
		req.Priority = &s
	}
	return d.app.TaskService.UpdateTask(d.ctx(ctx), id, req)
}

func (d *Direct) DeleteTask(ctx context.Context, id types.TaskID) error {
	return d.app.TaskService.DeleteTask(d.ctx(ctx), id)
}

func (d *Direct) UpdateTaskPositions(ctx context.Context, workspaceID types.WorkspaceID, positions []models.TaskPosition) error {
	return d.app.TaskService.UpdateTaskPositions(d.ctx(ctx), workspaceID, positions)
}

func (d *Direct) AddAssignee(ctx context.Context, taskID types.TaskID, assigneeID types.AssigneeID) (*models.Task, error) {
	return d.app.TaskService.AddAssignee(d.ctx(ctx), taskID, assigneeID)
}

func (d *Direct) RemoveAssignee(ctx context.Context, taskID types.TaskID, assigneeID types.AssigneeID) (*models.Task, error) {
	return d.app.TaskService.RemoveAssignee(d.ctx(ctx), taskID, assigneeID)
}

func (d *Direct) AddTag(ctx context.Context, taskID types.TaskID, tagID types.TagID) (*models.Task, error) {
	return d.app.TaskService.AddTag(d.ctx(ctx), taskID, tagID)
}

func (d *Direct) RemoveTag(ctx context.Context, taskID types.TaskID, tagID types.TagID) (*models.Task, error) {
	return d.app.TaskService.RemoveTag(d.ctx(ctx), taskID, tagID)
}

func (d *Direct) ListTags(ctx context.Context) ([]models.Tag, error) {
	return d.app.TagService.ListTags(d.ctx(ctx))
}

func (d *Direct) GetTag(ctx context.Context, id types.TagID) (*models.Tag, error) {
	return d.app.TagService.GetTag(d.ctx(ctx), id)
}

func (d *Direct) CreateTag(ctx context.Context, in board.TagInput) (*models.Tag, error) {
	return d.app.TagService.CreateTag(d.ctx(ctx), tag.CreateTagRequest{Name: in.Name, Color: in.Color})
}

func (d *Direct) UpdateTag(ctx context.Context, id types.TagID, p board.TagPatch) (*models.Tag, error) {
	return d.app.TagService.UpdateTag(d.ctx(ctx), id, tag.UpdateTagRequest{Name: p.Name, Color: p.Color})
}

func (d *Direct) DeleteTag(ctx context.Context, id types.TagID) error {
	return d.app.TagService.DeleteTag(d.ctx(ctx), id)
}

func (d *Direct) ListAssignees(ctx context.Context) ([]models.Assignee, error) {
	return d.app.AssigneeService.ListAssignees(d.ctx(ctx))
}

func (d *Direct) GetAssignee(ctx context.Context, id types.AssigneeID) (*models.Assignee, error) {
	return d.app.AssigneeService.GetAssignee(d.ctx(ctx), id)
}

func (d *Direct) CreateAssignee(ctx context.Context, in board.AssigneeInput) (*models.Assignee, error) {
	return d.app.AssigneeService.CreateAssignee(d.ctx(ctx), assignee.CreateAssigneeRequest{Name: in.Name, AvatarURL: in.AvatarURL})
}

func (d *Direct) UpdateAssignee(ctx context.Context, id types.AssigneeID, p board.AssigneePatch) (*models.Assignee, error) {
	return d.app.AssigneeService.UpdateAssignee(d.ctx(ctx), id, assignee.UpdateAssigneeRequest{Name: p.Name, AvatarURL: p.AvatarURL})
}

func (d *Direct) DeleteAssignee(ctx context.Context, id types.AssigneeID) error {
	return d.app.AssigneeService.DeleteAssignee(d.ctx(ctx), id)
}

// The calls below go beyond board.Backend; the command line uses them.

func (d *Direct) GetWorkspace(ctx context.Context, id types.WorkspaceID) (*models.Workspace, error) {
	return d.app.WorkspaceService.GetWorkspace(d.ctx(ctx), id)
}

// ListTasksFiltered narrows the workspace's tasks in process
func (d *Direct) ListTasksFiltered(ctx context.Context, workspaceID types.WorkspaceID, f filters.TaskFilterParams) ([]models.Task, error) {
	list, err := d.app.TaskService.ListTasks(d.ctx(ctx), workspaceID)
	if err != nil {
		return nil, err
	}
	return filters.Apply(list, f), nil
}

func (d *Direct) UploadAvatar(ctx context.Context, id types.AssigneeID, filename string, r io.Reader) (*models.Assignee, error) {
	return d.app.AssigneeService.UploadAvatar(d.ctx(ctx), id, filename, r)
}

func (d *Direct) CleanupUserData(ctx context.Context) error {
	return d.app.AccountService.CleanupUserData(d.ctx(ctx))
}

func (d *Direct) SeedOnboardingData(ctx context.Context) error {
	return d.app.AccountService.SeedOnboardingData(d.ctx(ctx))
}
