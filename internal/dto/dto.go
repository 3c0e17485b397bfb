// Package dto defines the JSON bodies of the HTTP API and converts them to
// and from the domain models.
//
// Wire conventions:
//   - ids are plain integers
//   - priority is the integer 1 (Low), 2 (Medium) or 3 (High); 0 or any
//     other value reads as Low
//   - due dates and timestamps are RFC 3339 strings
package dto

// WorkspaceDto is a workspace as the API returns it
type WorkspaceDto struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
	Position    int    `json:"position"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

// ColumnDto is a board column
type ColumnDto struct {
	ID          int    `json:"id"`
	WorkspaceID int    `json:"workspaceId"`
	Title       string `json:"title"`
	Color       string `json:"color,omitempty"`
	Position    int    `json:"position"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

// ProjectTaskDto is a task with its assignees and tags embedded
type ProjectTaskDto struct {
	ID          int           `json:"id"`
	WorkspaceID int           `json:"workspaceId"`
	ColumnID    int           `json:"columnId"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	DueDate     *string       `json:"dueDate,omitempty"`
	Priority    int           `json:"priority"`
	Position    int           `json:"position"`
	Assignees   []AssigneeDto `json:"assignees"`
	Tags        []TagDto      `json:"tags"`
	CreatedAt   string        `json:"createdAt,omitempty"`
	UpdatedAt   string        `json:"updatedAt,omitempty"`
}

// AssigneeDto is a person tasks can be assigned to
type AssigneeDto struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// TagDto is a coloured label
type TagDto struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// Request bodies. Pointer fields of the update requests are optional and
// left unchanged when absent.

type CreateWorkspaceRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
	Position    *int   `json:"position,omitempty"`
}

type UpdateWorkspaceRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Color       *string `json:"color,omitempty"`
}

type CreateColumnRequest struct {
	Title    string `json:"title"`
	Color    string `json:"color,omitempty"`
	Position *int   `json:"position,omitempty"`
}

type UpdateColumnRequest struct {
	Title *string `json:"title,omitempty"`
	Color *string `json:"color,omitempty"`
}

type CreateTaskRequest struct {
	ColumnID    int     `json:"columnId"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	DueDate     *string `json:"dueDate,omitempty"`
	Priority    int     `json:"priority,omitempty"`
	Position    *int    `json:"position,omitempty"`
	AssigneeIDs []int   `json:"assigneeIds,omitempty"`
	TagIDs      []int   `json:"tagIds,omitempty"`
}

type UpdateTaskRequest struct {
	Title        *string `json:"title,omitempty"`
	Description  *string `json:"description,omitempty"`
	DueDate      *string `json:"dueDate,omitempty"`
	ClearDueDate bool    `json:"clearDueDate,omitempty"`
	Priority     *int    `json:"priority,omitempty"`
	ColumnID     *int    `json:"columnId,omitempty"`
}

type CreateTagRequest struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

type UpdateTagRequest struct {
	Name  *string `json:"name,omitempty"`
	Color *string `json:"color,omitempty"`
}

type CreateAssigneeRequest struct {
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

type UpdateAssigneeRequest struct {
	Name      *string `json:"name,omitempty"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
}

// Batch reorder rows

type WorkspacePositionDto struct {
	ID       int `json:"id"`
	Position int `json:"position"`
}

type ColumnPositionDto struct {
	ID       int `json:"id"`
	Position int `json:"position"`
}

type TaskPositionDto struct {
	ID       int `json:"id"`
	ColumnID int `json:"columnId"`
	Position int `json:"position"`
}

// RPCResult is the body of the procedure endpoints
type RPCResult struct {
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
	ErrorCode string `json:"error_code,omitempty"`
}

// ErrorResponse is the body of every non-2xx JSON response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// TaskPositionsRequest is the body of PUT /api/tasks/positions. The
// workspace only scopes the change event; every row is checked against the
// owner.
type TaskPositionsRequest struct {
	WorkspaceID int               `json:"workspaceId"`
	Positions   []TaskPositionDto `json:"positions"`
}

// ChangeDto is one message of the websocket change feed
type ChangeDto struct {
	Type        string `json:"type"`
	WorkspaceID int    `json:"workspaceId"`
	Entity      string `json:"entity,omitempty"`
	Sequence    int64  `json:"sequence"`
	Timestamp   string `json:"timestamp,omitempty"`
}

func (d WorkspaceDto) GetID() int   { return d.ID }
func (d ColumnDto) GetID() int      { return d.ID }
func (d ProjectTaskDto) GetID() int { return d.ID }
func (d AssigneeDto) GetID() int    { return d.ID }
func (d TagDto) GetID() int         { return d.ID }
