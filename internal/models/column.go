package models

import (
	"time"

	"github.com/MahdiIsse/project-management-sub001/internal/types"
)

// Column is an ordered bucket of tasks inside a workspace (a kanban lane)
type Column struct {
	ID          types.ColumnID
	WorkspaceID types.WorkspaceID
	Title       string
	Color       string // optional border colour
	Position    int    // ordering key within the workspace
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (c *Column) GetID() int { return c.ID.Int() }
