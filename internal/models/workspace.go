package models

import (
	"time"

	"github.com/MahdiIsse/project-management-sub001/internal/types"
)

// Workspace is the top-level container owned by a user. It holds the columns
// and, through them, the tasks of one board.
type Workspace struct {
	ID          types.WorkspaceID
	OwnerID     types.OwnerID
	Title       string
	Description string // optional, empty when unset
	Color       string // optional accent colour
	Position    int    // ordering key among the owner's workspaces
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (w *Workspace) GetID() int { return w.ID.Int() }
