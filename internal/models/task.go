package models

import (
	"time"

	"github.com/MahdiIsse/project-management-sub001/internal/types"
)

// Task is a unit of work living in a column
type Task struct {
	ID          types.TaskID
	WorkspaceID types.WorkspaceID
	ColumnID    types.ColumnID
	Title       string
	Description string
	DueDate     *time.Time
	Priority    Priority
	Position    int // ordering key within the column
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Many-to-many relations, loaded with the task
	Assignees []Assignee
	Tags      []Tag
}

func (t *Task) GetID() int { return t.ID.Int() }

// HasAssignee reports whether the assignee is attached to the task
func (t *Task) HasAssignee(id types.AssigneeID) bool {
	for _, a := range t.Assignees {
		if a.ID == id {
			return true
		}
	}
	return false
}

// HasTag reports whether the tag is attached to the task
func (t *Task) HasTag(id types.TagID) bool {
	for _, tg := range t.Tags {
		if tg.ID == id {
			return true
		}
	}
	return false
}

// Clone returns a copy of the task that shares no slices with t
func (t Task) Clone() Task {
	out := t
	if t.DueDate != nil {
		d := *t.DueDate
		out.DueDate = &d
	}
	out.Assignees = append([]Assignee(nil), t.Assignees...)
	out.Tags = append([]Tag(nil), t.Tags...)
	return out
}
