package models

import "github.com/MahdiIsse/project-management-sub001/internal/types"

// WorkspacePosition is one row of a batch workspace reorder
type WorkspacePosition struct {
	ID       types.WorkspaceID
	Position int
}

// ColumnPosition is one row of a batch column reorder
type ColumnPosition struct {
	ID       types.ColumnID
	Position int
}

// TaskPosition is one row of a batch task reorder. A task may change column
// as part of the same batch.
type TaskPosition struct {
	ID       types.TaskID
	ColumnID types.ColumnID
	Position int
}
