package dto

import (
	"fmt"
	"time"

	"github.com/MahdiIsse/project-management-sub001/internal/events"
	"github.com/MahdiIsse/project-management-sub001/internal/models"
	"github.com/MahdiIsse/project-management-sub001/internal/types"
)

// FormatTime renders t as RFC 3339, empty for the zero time
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// ParseTime reads an RFC 3339 string; empty reads as the zero time
func ParseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t, nil
}

// FormatDate renders an optional due date
func FormatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := FormatTime(*t)
	return &s
}

// ParseDate reads an optional due date. A nil or empty string is no date.
// Plain YYYY-MM-DD dates are accepted as midnight UTC.
func ParseDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.DateOnly, *s); err == nil {
		return &t, nil
	}
	t, err := ParseTime(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func WorkspaceToDto(w models.Workspace) WorkspaceDto {
	return WorkspaceDto{
		ID:          w.ID.Int(),
		Title:       w.Title,
		Description: w.Description,
		Color:       w.Color,
		Position:    w.Position,
		CreatedAt:   FormatTime(w.CreatedAt),
		UpdatedAt:   FormatTime(w.UpdatedAt),
	}
}

func WorkspaceToModel(d WorkspaceDto) models.Workspace {
	created, _ := ParseTime(d.CreatedAt)
	updated, _ := ParseTime(d.UpdatedAt)
	return models.Workspace{
		ID:          types.WorkspaceID(d.ID),
		Title:       d.Title,
		Description: d.Description,
		Color:       d.Color,
		Position:    d.Position,
		CreatedAt:   created,
		UpdatedAt:   updated,
	}
}

func ColumnToDto(c models.Column) ColumnDto {
	return ColumnDto{
		ID:          c.ID.Int(),
		WorkspaceID: c.WorkspaceID.Int(),
		Title:       c.Title,
		Color:       c.Color,
		Position:    c.Position,
		CreatedAt:   FormatTime(c.CreatedAt),
		UpdatedAt:   FormatTime(c.UpdatedAt),
	}
}

func ColumnToModel(d ColumnDto) models.Column {
	created, _ := ParseTime(d.CreatedAt)
	updated, _ := ParseTime(d.UpdatedAt)
	return models.Column{
		ID:          types.ColumnID(d.ID),
		WorkspaceID: types.WorkspaceID(d.WorkspaceID),
		Title:       d.Title,
		Color:       d.Color,
		Position:    d.Position,
		CreatedAt:   created,
		UpdatedAt:   updated,
	}
}

func AssigneeToDto(a models.Assignee) AssigneeDto {
	return AssigneeDto{
		ID:        a.ID.Int(),
		Name:      a.Name,
		AvatarURL: a.AvatarURL,
		CreatedAt: FormatTime(a.CreatedAt),
		UpdatedAt: FormatTime(a.UpdatedAt),
	}
}

func AssigneeToModel(d AssigneeDto) models.Assignee {
	created, _ := ParseTime(d.CreatedAt)
	updated, _ := ParseTime(d.UpdatedAt)
	return models.Assignee{
		ID:        types.AssigneeID(d.ID),
		Name:      d.Name,
		AvatarURL: d.AvatarURL,
		CreatedAt: created,
		UpdatedAt: updated,
	}
}

func TagToDto(t models.Tag) TagDto {
	return TagDto{
		ID:        t.ID.Int(),
		Name:      t.Name,
		Color:     t.Color,
		CreatedAt: FormatTime(t.CreatedAt),
		UpdatedAt: FormatTime(t.UpdatedAt),
	}
}

func TagToModel(d TagDto) models.Tag {
	created, _ := ParseTime(d.CreatedAt)
	updated, _ := ParseTime(d.UpdatedAt)
	return models.Tag{
		ID:        types.TagID(d.ID),
		Name:      d.Name,
		Color:     d.Color,
		CreatedAt: created,
		UpdatedAt: updated,
	}
}

// TaskToDto encodes the priority as an integer and embeds the relations.
// The relation slices are never nil so they marshal as [].
func TaskToDto(t models.Task) ProjectTaskDto {
	d := ProjectTaskDto{
		ID:          t.ID.Int(),
		WorkspaceID: t.WorkspaceID.Int(),
		ColumnID:    t.ColumnID.Int(),
		Title:       t.Title,
		Description: t.Description,
		DueDate:     FormatDate(t.DueDate),
		Priority:    t.Priority.ToBackend(),
		Position:    t.Position,
		Assignees:   make([]AssigneeDto, 0, len(t.Assignees)),
		Tags:        make([]TagDto, 0, len(t.Tags)),
		CreatedAt:   FormatTime(t.CreatedAt),
		UpdatedAt:   FormatTime(t.UpdatedAt),
	}
	for _, a := range t.Assignees {
		d.Assignees = append(d.Assignees, AssigneeToDto(a))
	}
	for _, g := range t.Tags {
		d.Tags = append(d.Tags, TagToDto(g))
	}
	return d
}

// TaskToModel decodes a task. Only a malformed due date is an error;
// unknown priorities read as Low.
func TaskToModel(d ProjectTaskDto) (models.Task, error) {
	due, err := ParseDate(d.DueDate)
	if err != nil {
		return models.Task{}, err
	}
	created, _ := ParseTime(d.CreatedAt)
	updated, _ := ParseTime(d.UpdatedAt)

	t := models.Task{
		ID:          types.TaskID(d.ID),
		WorkspaceID: types.WorkspaceID(d.WorkspaceID),
		ColumnID:    types.ColumnID(d.ColumnID),
		Title:       d.Title,
		Description: d.Description,
		DueDate:     due,
		Priority:    models.PriorityFromBackend(d.Priority),
		Position:    d.Position,
		CreatedAt:   created,
		UpdatedAt:   updated,
	}
	for _, a := range d.Assignees {
		t.Assignees = append(t.Assignees, AssigneeToModel(a))
	}
	for _, g := range d.Tags {
		t.Tags = append(t.Tags, TagToModel(g))
	}
	return t, nil
}

// Slice helpers

func WorkspacesToDtos(in []models.Workspace) []WorkspaceDto {
	return mapSlice(in, WorkspaceToDto)
}

func WorkspacesToModels(in []WorkspaceDto) []models.Workspace {
	return mapSlice(in, WorkspaceToModel)
}

func ColumnsToDtos(in []models.Column) []ColumnDto {
	return mapSlice(in, ColumnToDto)
}

func ColumnsToModels(in []ColumnDto) []models.Column {
	return mapSlice(in, ColumnToModel)
}

func TasksToDtos(in []models.Task) []ProjectTaskDto {
	return mapSlice(in, TaskToDto)
}

func TasksToModels(in []ProjectTaskDto) ([]models.Task, error) {
	out := make([]models.Task, 0, len(in))
	for _, d := range in {
		t, err := TaskToModel(d)
		if err != nil {
			return nil, fmt.Errorf("task %d: %w", d.ID, err)
		}
		out = append(out, t)
	}
	return out, nil
}

func TagsToDtos(in []models.Tag) []TagDto {
	return mapSlice(in, TagToDto)
}

func TagsToModels(in []TagDto) []models.Tag {
	return mapSlice(in, TagToModel)
}

func AssigneesToDtos(in []models.Assignee) []AssigneeDto {
	return mapSlice(in, AssigneeToDto)
}

func AssigneesToModels(in []AssigneeDto) []models.Assignee {
	return mapSlice(in, AssigneeToModel)
}

func mapSlice[A, B any](in []A, fn func(A) B) []B {
	out := make([]B, len(in))
	for i, v := range in {
		out[i] = fn(v)
	}
	return out
}

// Positions

func WorkspacePositionsToDtos(in []models.WorkspacePosition) []WorkspacePositionDto {
	return mapSlice(in, func(p models.WorkspacePosition) WorkspacePositionDto {
		return WorkspacePositionDto{ID: p.ID.Int(), Position: p.Position}
	})
}

func WorkspacePositionsToModels(in []WorkspacePositionDto) []models.WorkspacePosition {
	return mapSlice(in, func(p WorkspacePositionDto) models.WorkspacePosition {
		return models.WorkspacePosition{ID: types.WorkspaceID(p.ID), Position: p.Position}
	})
}

func ColumnPositionsToDtos(in []models.ColumnPosition) []ColumnPositionDto {
	return mapSlice(in, func(p models.ColumnPosition) ColumnPositionDto {
		return ColumnPositionDto{ID: p.ID.Int(), Position: p.Position}
	})
}

func ColumnPositionsToModels(in []ColumnPositionDto) []models.ColumnPosition {
	return mapSlice(in, func(p ColumnPositionDto) models.ColumnPosition {
		return models.ColumnPosition{ID: types.ColumnID(p.ID), Position: p.Position}
	})
}

func TaskPositionsToDtos(in []models.TaskPosition) []TaskPositionDto {
	return mapSlice(in, func(p models.TaskPosition) TaskPositionDto {
		return TaskPositionDto{ID: p.ID.Int(), ColumnID: p.ColumnID.Int(), Position: p.Position}
	})
}

func TaskPositionsToModels(in []TaskPositionDto) []models.TaskPosition {
	return mapSlice(in, func(p TaskPositionDto) models.TaskPosition {
		return models.TaskPosition{ID: types.TaskID(p.ID), ColumnID: types.ColumnID(p.ColumnID), Position: p.Position}
	})
}

// IntIDs converts typed ids to the plain integers of the wire format
func IntIDs[T interface{ Int() int }](ids []T) []int {
	return mapSlice(ids, func(id T) int { return id.Int() })
}

// TypedIDs converts wire integers to typed ids
func TypedIDs[T ~int](ids []int) []T {
	return mapSlice(ids, func(id int) T { return T(id) })
}

// ChangeToDto and ChangeToEvent carry events across the websocket feed. The
// owner never leaves the server.
func ChangeToDto(e events.Event) ChangeDto {
	return ChangeDto{
		Type:        string(e.Type),
		WorkspaceID: e.WorkspaceID,
		Entity:      string(e.Entity),
		Sequence:    e.SequenceID,
		Timestamp:   FormatTime(e.Timestamp),
	}
}

func ChangeToEvent(d ChangeDto) events.Event {
	ts, _ := ParseTime(d.Timestamp)
	return events.Event{
		Type:        events.EventType(d.Type),
		WorkspaceID: d.WorkspaceID,
		Entity:      events.Entity(d.Entity),
		SequenceID:  d.Sequence,
		Timestamp:   ts,
	}
}
