package apiclient

import (
	"context"
	"io"
	"net/http"

	"github.com/MahdiIsse/project-management-sub001/internal/board"
	"github.com/MahdiIsse/project-management-sub001/internal/dto"
	"github.com/MahdiIsse/project-management-sub001/internal/filters"
	"github.com/MahdiIsse/project-management-sub001/internal/models"
	"github.com/MahdiIsse/project-management-sub001/internal/services/account"
	"github.com/MahdiIsse/project-management-sub001/internal/types"
)

var _ board.Backend = (*Client)(nil)

// Workspaces

func (c *Client) ListWorkspaces(ctx context.Context) ([]models.Workspace, error) {
	var out []dto.WorkspaceDto
	if err := c.do(ctx, http.MethodGet, "/api/workspaces", nil, &out); err != nil {
		return nil, err
	}
	return dto.WorkspacesToModels(out), nil
}

func (c *Client) GetWorkspace(ctx context.Context, id types.WorkspaceID) (*models.Workspace, error) {
	var out dto.WorkspaceDto
	if err := c.do(ctx, http.MethodGet, idPath("/api/workspaces/%d", id.Int()), nil, &out); err != nil {
		return nil, err
	}
	ws := dto.WorkspaceToModel(out)
	return &ws, nil
}

func (c *Client) CreateWorkspace(ctx context.Context, in board.WorkspaceInput) (*models.Workspace, error) {
	var out dto.WorkspaceDto
	req := dto.CreateWorkspaceRequest{Title: in.Title, Description: in.Description, Color: in.Color, Position: in.Position}
	if err := c.do(ctx, http.MethodPost, "/api/workspaces", req, &out); err != nil {
		return nil, err
	}
	ws := dto.WorkspaceToModel(out)
	return &ws, nil
}

func (c *Client) UpdateWorkspace(ctx context.Context, id types.WorkspaceID, p board.WorkspacePatch) (*models.Workspace, error) {
	var out dto.WorkspaceDto
	req := dto.UpdateWorkspaceRequest{Title: p.Title, Description: p.Description, Color: p.Color}
	if err := c.do(ctx, http.MethodPatch, idPath("/api/workspaces/%d", id.Int()), req, &out); err != nil {
		return nil, err
	}
	ws := dto.WorkspaceToModel(out)
	return &ws, nil
}

func (c *Client) DeleteWorkspace(ctx context.Context, id types.WorkspaceID) error {
	return c.do(ctx, http.MethodDelete, idPath("/api/workspaces/%d", id.Int()), nil, nil)
}

func (c *Client) UpdateWorkspacePositions(ctx context.Context, positions []models.WorkspacePosition) error {
	return c.do(ctx, http.MethodPut, "/api/workspaces/positions", dto.WorkspacePositionsToDtos(positions), nil)
}

// Columns

func (c *Client) ListColumns(ctx context.Context, workspaceID types.WorkspaceID) ([]models.Column, error) {
	var out []dto.ColumnDto
	if err := c.do(ctx, http.MethodGet, idPath("/api/workspaces/%d/columns", workspaceID.Int()), nil, &out); err != nil {
		return nil, err
	}
	return dto.ColumnsToModels(out), nil
}

func (c *Client) CreateColumn(ctx context.Context, in board.ColumnInput) (*models.Column, error) {
	var out dto.ColumnDto
	req := dto.CreateColumnRequest{Title: in.Title, Color: in.Color, Position: in.Position}
	if err := c.do(ctx, http.MethodPost, idPath("/api/workspaces/%d/columns", in.WorkspaceID.Int()), req, &out); err != nil {
		return nil, err
	}
	col := dto.ColumnToModel(out)
	return &col, nil
}

func (c *Client) UpdateColumn(ctx context.Context, id types.ColumnID, p board.ColumnPatch) (*models.Column, error) {
	var out dto.ColumnDto
	req := dto.UpdateColumnRequest{Title: p.Title, Color: p.Color}
	if err := c.do(ctx, http.MethodPatch, idPath("/api/columns/%d", id.Int()), req, &out); err != nil {
		return nil, err
	}
	col := dto.ColumnToModel(out)
	return &col, nil
}

func (c *Client) DeleteColumn(ctx context.Context, id types.ColumnID) error {
	return c.do(ctx, http.MethodDelete, idPath("/api/columns/%d", id.Int()), nil, nil)
}

func (c *Client) UpdateColumnPositions(ctx context.Context, workspaceID types.WorkspaceID, positions []models.ColumnPosition) error {
	path := idPath("/api/workspaces/%d/columns/positions", workspaceID.Int())
	return c.do(ctx, http.MethodPut, path, dto.ColumnPositionsToDtos(positions), nil)
}

// Tasks

func (c *Client) ListTasks(ctx context.Context, workspaceID types.WorkspaceID) ([]models.Task, error) {
	return c.ListTasksFiltered(ctx, workspaceID, filters.TaskFilterParams{})
}

// ListTasksFiltered lets the server apply the board filters
func (c *Client) ListTasksFiltered(ctx context.Context, workspaceID types.WorkspaceID, f filters.TaskFilterParams) ([]models.Task, error) {
	var out []dto.ProjectTaskDto
	path := withQuery(idPath("/api/workspaces/%d/tasks", workspaceID.Int()), filters.Encode(f))
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return dto.TasksToModels(out)
}

func (c *Client) GetTask(ctx context.Context, id types.TaskID) (*models.Task, error) {
	return c.taskCall(ctx, http.MethodGet, idPath("/api/tasks/%d", id.Int()), nil)
}

func (c *Client) CreateTask(ctx context.Context, in board.TaskInput) (*models.Task, error) {
	req := dto.CreateTaskRequest{
		ColumnID:    in.ColumnID.Int(),
		Title:       in.Title,
		Description: in.Description,
		DueDate:     dto.FormatDate(in.DueDate),
		Position:    in.Position,
		AssigneeIDs: dto.IntIDs(in.AssigneeIDs),
		TagIDs:      dto.IntIDs(in.TagIDs),
	}
	if in.Priority != "" {
		req.Priority = in.Priority.ToBackend()
	}
	path := "/api/tasks"
	if in.WorkspaceID.Valid() {
		path = idPath("/api/workspaces/%d/tasks", in.WorkspaceID.Int())
	}
	return c.taskCall(ctx, http.MethodPost, path, req)
}

func (c *Client) UpdateTask(ctx context.Context, id types.TaskID, p board.TaskPatch) (*models.Task, error) {
	req := dto.UpdateTaskRequest{
		Title:        p.Title,
		Description:  p.Description,
		DueDate:      dto.FormatDate(p.DueDate),
		ClearDueDate: p.ClearDueDate,
	}
	if p.Priority != nil {
		n := p.Priority.ToBackend()
		req.Priority = &n
	}
	if p.ColumnID != nil {
		n := p.ColumnID.Int()
		req.ColumnID = &n
	}
	return c.taskCall(ctx, http.MethodPatch, idPath("/api/tasks/%d", id.Int()), req)
}

func (c *Client) DeleteTask(ctx context.Context, id types.TaskID) error {
	return c.do(ctx, http.MethodDelete, idPath("/api/tasks/%d", id.Int()), nil, nil)
}

func (c *Client) UpdateTaskPositions(ctx context.Context, workspaceID types.WorkspaceID, positions []models.TaskPosition) error {
	req := dto.TaskPositionsRequest{WorkspaceID: workspaceID.Int(), Positions: dto.TaskPositionsToDtos(positions)}
	return c.do(ctx, http.MethodPut, "/api/tasks/positions", req, nil)
}

func (c *Client) AddAssignee(ctx context.Context, taskID types.TaskID, assigneeID types.AssigneeID) (*models.Task, error) {
	return c.taskCall(ctx, http.MethodPut, idPath("/api/tasks/%d/assignees/%d", taskID.Int(), assigneeID.Int()), nil)
}

func (c *Client) RemoveAssignee(ctx context.Context, taskID types.TaskID, assigneeID types.AssigneeID) (*models.Task, error) {
	return c.taskCall(ctx, http.MethodDelete, idPath("/api/tasks/%d/assignees/%d", taskID.Int(), assigneeID.Int()), nil)
}

func (c *Client) AddTag(ctx context.Context, taskID types.TaskID, tagID types.TagID) (*models.Task, error) {
	return c.taskCall(ctx, http.MethodPut, idPath("/api/tasks/%d/tags/%d", taskID.Int(), tagID.Int()), nil)
}

func (c *Client) RemoveTag(ctx context.Context, taskID types.TaskID, tagID types.TagID) (*models.Task, error) {
	return c.taskCall(ctx, http.MethodDelete, idPath("/api/tasks/%d/tags/%d", taskID.Int(), tagID.Int()), nil)
}

func (c *Client) taskCall(ctx context.Context, method, path string, in any) (*models.Task, error) {
	var out dto.ProjectTaskDto
	if err := c.do(ctx, method, path, in, &out); err != nil {
		return nil, err
	}
	t, err := dto.TaskToModel(out)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Tags

func (c *Client) ListTags(ctx context.Context) ([]models.Tag, error) {
	var out []dto.TagDto
	if err := c.do(ctx, http.MethodGet, "/api/tags", nil, &out); err != nil {
		return nil, err
	}
	return dto.TagsToModels(out), nil
}

func (c *Client) GetTag(ctx context.Context, id types.TagID) (*models.Tag, error) {
	return c.tagCall(ctx, http.MethodGet, idPath("/api/tags/%d", id.Int()), nil)
}

func (c *Client) CreateTag(ctx context.Context, in board.TagInput) (*models.Tag, error) {
	return c.tagCall(ctx, http.MethodPost, "/api/tags", dto.CreateTagRequest{Name: in.Name, Color: in.Color})
}

func (c *Client) UpdateTag(ctx context.Context, id types.TagID, p board.TagPatch) (*models.Tag, error) {
	return c.tagCall(ctx, http.MethodPatch, idPath("/api/tags/%d", id.Int()), dto.UpdateTagRequest{Name: p.Name, Color: p.Color})
}

func (c *Client) DeleteTag(ctx context.Context, id types.TagID) error {
	return c.do(ctx, http.MethodDelete, idPath("/api/tags/%d", id.Int()), nil, nil)
}

func (c *Client) tagCall(ctx context.Context, method, path string, in any) (*models.Tag, error) {
	var out dto.TagDto
	if err := c.do(ctx, method, path, in, &out); err != nil {
		return nil, err
	}
	t := dto.TagToModel(out)
	return &t, nil
}

// Assignees

func (c *Client) ListAssignees(ctx context.Context) ([]models.Assignee, error) {
	var out []dto.AssigneeDto
	if err := c.do(ctx, http.MethodGet, "/api/assignees", nil, &out); err != nil {
		return nil, err
	}
	return dto.AssigneesToModels(out), nil
}

func (c *Client) GetAssignee(ctx context.Context, id types.AssigneeID) (*models.Assignee, error) {
	return c.assigneeCall(ctx, http.MethodGet, idPath("/api/assignees/%d", id.Int()), nil)
}

func (c *Client) CreateAssignee(ctx context.Context, in board.AssigneeInput) (*models.Assignee, error) {
	req := dto.CreateAssigneeRequest{Name: in.Name, AvatarURL: in.AvatarURL}
	return c.assigneeCall(ctx, http.MethodPost, "/api/assignees", req)
}

func (c *Client) UpdateAssignee(ctx context.Context, id types.AssigneeID, p board.AssigneePatch) (*models.Assignee, error) {
	req := dto.UpdateAssigneeRequest{Name: p.Name, AvatarURL: p.AvatarURL}
	return c.assigneeCall(ctx, http.MethodPatch, idPath("/api/assignees/%d", id.Int()), req)
}

func (c *Client) DeleteAssignee(ctx context.Context, id types.AssigneeID) error {
	return c.do(ctx, http.MethodDelete, idPath("/api/assignees/%d", id.Int()), nil, nil)
}

// UploadAvatar sends an image for the assignee's avatar
func (c *Client) UploadAvatar(ctx context.Context, id types.AssigneeID, filename string, r io.Reader) (*models.Assignee, error) {
	var out dto.AssigneeDto
	if err := c.upload(ctx, idPath("/api/assignees/%d/avatar", id.Int()), "avatar", filename, r, &out); err != nil {
		return nil, err
	}
	a := dto.AssigneeToModel(out)
	return &a, nil
}

func (c *Client) assigneeCall(ctx context.Context, method, path string, in any) (*models.Assignee, error) {
	var out dto.AssigneeDto
	if err := c.do(ctx, method, path, in, &out); err != nil {
		return nil, err
	}
	a := dto.AssigneeToModel(out)
	return &a, nil
}

// Procedures

// CleanupUserData deletes everything the signed-in user owns
func (c *Client) CleanupUserData(ctx context.Context) error {
	return c.procedure(ctx, "cleanup_user_data", "/api/rpc/cleanup-user-data")
}

// SeedOnboardingData creates the demo board for a user without workspaces
func (c *Client) SeedOnboardingData(ctx context.Context) error {
	return c.procedure(ctx, "seed_onboarding_data", "/api/rpc/seed-onboarding-data")
}

func (c *Client) procedure(ctx context.Context, name, path string) error {
	var res dto.RPCResult
	if err := c.do(ctx, http.MethodPost, path, nil, &res); err != nil {
		return err
	}
	if !res.Success {
		return &account.ProcedureError{Procedure: name, Code: res.ErrorCode, Message: res.Error}
	}
	return nil
}
