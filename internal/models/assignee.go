package models

import (
	"time"

	"github.com/MahdiIsse/project-management-sub001/internal/types"
)

// Assignee is a person a task can be assigned to
type Assignee struct {
	ID        types.AssigneeID
	OwnerID   types.OwnerID
	Name      string
	AvatarURL string // public URL in the avatar bucket, empty when unset
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (a *Assignee) GetID() int { return a.ID.Int() }
