package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MahdiIsse/project-management-sub001/internal/models"
	"github.com/MahdiIsse/project-management-sub001/internal/types"
)

// ErrColumnOutsideWorkspace is returned when a task would be placed in a
// column that belongs to a different workspace than the task.
var ErrColumnOutsideWorkspace = errors.New("column belongs to a different workspace")

// TaskRepo handles all task-related database operations, including the
// assignee and tag join tables. Tasks are visible to the owner of their
// workspace.
type TaskRepo struct {
	db *sql.DB
}

const taskSelect = `SELECT t.id, t.workspace_id, t.column_id, t.title, t.description, t.due_date,
	t.priority, t.position, t.created_at, t.updated_at
	FROM tasks t JOIN workspaces w ON w.id = t.workspace_id`

func scanTask(row interface{ Scan(...any) error }) (*models.Task, error) {
	var t models.Task
	var description sql.NullString
	var due sql.NullTime
	var priority string
	if err := row.Scan(&t.ID, &t.WorkspaceID, &t.ColumnID, &t.Title, &description, &due,
		&priority, &t.Position, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.Description = description.String
	t.DueDate = timePtr(due)
	t.Priority = models.Priority(priority)
	t.Assignees = []models.Assignee{}
	t.Tags = []models.Tag{}
	return &t, nil
}

// ListByWorkspace returns every task of a workspace, ordered by column then
// position, with assignees and tags attached.
func (r *TaskRepo) ListByWorkspace(ctx context.Context, owner types.OwnerID, workspaceID types.WorkspaceID) ([]models.Task, error) {
	if _, err := getWorkspace(ctx, r.db, owner, workspaceID); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		taskSelect+` JOIN columns c ON c.id = t.column_id
		WHERE t.workspace_id = ? AND w.owner_id = ?
		ORDER BY c.position, c.id, t.position, t.id`,
		int(workspaceID), string(owner))
	if err != nil {
		return nil, fmt.Errorf("querying tasks for workspace: %w", err)
	}

	tasks := []models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning task row: %w", err)
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if err := loadRelations(ctx, r.db, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// Get returns one task with its relations
func (r *TaskRepo) Get(ctx context.Context, owner types.OwnerID, id types.TaskID) (*models.Task, error) {
	return getTask(ctx, r.db, owner, id)
}

func getTask(ctx context.Context, q querier, owner types.OwnerID, id types.TaskID) (*models.Task, error) {
	row := q.QueryRowContext(ctx, taskSelect+` WHERE t.id = ? AND w.owner_id = ?`, int(id), string(owner))
	t, err := scanTask(row)
	if err != nil {
		return nil, notFound(err)
	}
	tasks := []models.Task{*t}
	if err := loadRelations(ctx, q, tasks); err != nil {
		return nil, err
	}
	return &tasks[0], nil
}

// loadRelations fills Assignees and Tags of every task in place
func loadRelations(ctx context.Context, q querier, tasks []models.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	index := make(map[types.TaskID]int, len(tasks))
	args := make([]any, len(tasks))
	for i, t := range tasks {
		index[t.ID] = i
		args[i] = int(t.ID)
	}
	in := placeholders(len(tasks))

	rows, err := q.QueryContext(ctx,
		`SELECT ta.task_id, a.id, a.owner_id, a.name, a.avatar_url, a.created_at, a.updated_at
		 FROM task_assignees ta JOIN assignees a ON a.id = ta.assignee_id
		 WHERE ta.task_id IN (`+in+`) ORDER BY a.name COLLATE NOCASE, a.id`, args...)
	if err != nil {
		return fmt.Errorf("querying task assignees: %w", err)
	}
	for rows.Next() {
		var taskID types.TaskID
		var a models.Assignee
		var owner string
		var avatar sql.NullString
		if err := rows.Scan(&taskID, &a.ID, &owner, &a.Name, &avatar, &a.CreatedAt, &a.UpdatedAt); err != nil {
			rows.Close()
			return fmt.Errorf("scanning task assignee: %w", err)
		}
		a.OwnerID = types.OwnerID(owner)
		a.AvatarURL = avatar.String
		i := index[taskID]
		tasks[i].Assignees = append(tasks[i].Assignees, a)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	rows, err = q.QueryContext(ctx,
		`SELECT tt.task_id, g.id, g.owner_id, g.name, g.color, g.created_at, g.updated_at
		 FROM task_tags tt JOIN tags g ON g.id = tt.tag_id
		 WHERE tt.task_id IN (`+in+`) ORDER BY g.name COLLATE NOCASE, g.id`, args...)
	if err != nil {
		return fmt.Errorf("querying task tags: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var taskID types.TaskID
		var g models.Tag
		var owner string
		if err := rows.Scan(&taskID, &g.ID, &owner, &g.Name, &g.Color, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return fmt.Errorf("scanning task tag: %w", err)
		}
		g.OwnerID = types.OwnerID(owner)
		i := index[taskID]
		tasks[i].Tags = append(tasks[i].Tags, g)
	}
	return rows.Err()
}

// Create inserts a task into t.ColumnID. The workspace is taken from the
// column; a nil position appends the task to the column. Assignees and tags
// listed on t are attached in the same transaction.
func (r *TaskRepo) Create(ctx context.Context, owner types.OwnerID, t models.Task, position *int) (*models.Task, error) {
	var id types.TaskID
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		created, err := createTask(ctx, tx, owner, t, position)
		if err != nil {
			return err
		}
		id = created.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, owner, id)
}

func createTask(ctx context.Context, q querier, owner types.OwnerID, t models.Task, position *int) (*models.Task, error) {
	col, err := getColumn(ctx, q, owner, t.ColumnID)
	if err != nil {
		return nil, err
	}
	if t.WorkspaceID != 0 && t.WorkspaceID != col.WorkspaceID {
		return nil, ErrColumnOutsideWorkspace
	}
	t.WorkspaceID = col.WorkspaceID
	if t.Priority == "" {
		t.Priority = models.DefaultPriority
	}

	pos, err := resolvePosition(ctx, q, position,
		`SELECT COUNT(*) FROM tasks WHERE column_id = ?`, int(t.ColumnID))
	if err != nil {
		return nil, err
	}

	ts := now()
	res, err := q.ExecContext(ctx,
		`INSERT INTO tasks (workspace_id, column_id, title, description, due_date, priority, position, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		int(t.WorkspaceID), int(t.ColumnID), t.Title, nullString(t.Description), nullTime(t.DueDate),
		string(t.Priority), pos, ts, ts)
	if err != nil {
		return nil, fmt.Errorf("inserting task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	t.ID = types.TaskID(id)
	t.Position = pos
	t.CreatedAt, t.UpdatedAt = ts, ts

	for _, a := range t.Assignees {
		if err := addAssignee(ctx, q, owner, t.ID, a.ID); err != nil {
			return nil, err
		}
	}
	for _, g := range t.Tags {
		if err := addTag(ctx, q, owner, t.ID, g.ID); err != nil {
			return nil, err
		}
	}
	return &t, nil
}

// Update overwrites the scalar fields of a task, including its column.
// Relations are managed with the Add/Remove methods.
func (r *TaskRepo) Update(ctx context.Context, owner types.OwnerID, t models.Task) (*models.Task, error) {
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		current, err := getTask(ctx, tx, owner, t.ID)
		if err != nil {
			return err
		}
		if t.ColumnID != current.ColumnID {
			col, err := getColumn(ctx, tx, owner, t.ColumnID)
			if err != nil {
				return err
			}
			if col.WorkspaceID != current.WorkspaceID {
				return ErrColumnOutsideWorkspace
			}
		}
		_, err = tx.ExecContext(ctx,
			`UPDATE tasks SET column_id = ?, title = ?, description = ?, due_date = ?, priority = ?, updated_at = ?
			 WHERE id = ?`,
			int(t.ColumnID), t.Title, nullString(t.Description), nullTime(t.DueDate), string(t.Priority), now(), int(t.ID))
		if err != nil {
			return fmt.Errorf("updating task: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, owner, t.ID)
}

func (r *TaskRepo) Delete(ctx context.Context, owner types.OwnerID, id types.TaskID) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = ? AND workspace_id IN (SELECT id FROM workspaces WHERE owner_id = ?)`,
		int(id), string(owner))
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return requireAffected(res)
}

// UpdatePositions moves and reorders tasks in one transaction. Each target
// column must belong to the task's own workspace.
func (r *TaskRepo) UpdatePositions(ctx context.Context, owner types.OwnerID, positions []models.TaskPosition) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		ts := now()
		for _, p := range positions {
			var workspaceID types.WorkspaceID
			err := tx.QueryRowContext(ctx,
				`SELECT t.workspace_id FROM tasks t JOIN workspaces w ON w.id = t.workspace_id
				 WHERE t.id = ? AND w.owner_id = ?`, int(p.ID), string(owner)).Scan(&workspaceID)
			if err != nil {
				return fmt.Errorf("task %d: %w", p.ID, notFound(err))
			}

			res, err := tx.ExecContext(ctx,
				`UPDATE tasks SET column_id = ?, position = ?, updated_at = ?
				 WHERE id = ? AND EXISTS (SELECT 1 FROM columns WHERE id = ? AND workspace_id = ?)`,
				int(p.ColumnID), p.Position, ts, int(p.ID), int(p.ColumnID), int(workspaceID))
			if err != nil {
				return fmt.Errorf("updating task %d position: %w", p.ID, err)
			}
			if err := requireAffected(res); err != nil {
				return fmt.Errorf("task %d column %d: %w", p.ID, p.ColumnID, ErrColumnOutsideWorkspace)
			}
		}
		return nil
	})
}

// AddAssignee attaches an assignee to a task. Attaching twice is a no-op.
func (r *TaskRepo) AddAssignee(ctx context.Context, owner types.OwnerID, taskID types.TaskID, assigneeID types.AssigneeID) error {
	return addAssignee(ctx, r.db, owner, taskID, assigneeID)
}

func addAssignee(ctx context.Context, q querier, owner types.OwnerID, taskID types.TaskID, assigneeID types.AssigneeID) error {
	res, err := q.ExecContext(ctx,
		`INSERT OR IGNORE INTO task_assignees (task_id, assignee_id)
		 SELECT t.id, a.id FROM tasks t
		 JOIN workspaces w ON w.id = t.workspace_id
		 JOIN assignees a ON a.owner_id = w.owner_id
		 WHERE t.id = ? AND a.id = ? AND w.owner_id = ?`,
		int(taskID), int(assigneeID), string(owner))
	if err != nil {
		return fmt.Errorf("adding assignee to task: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	if _, err := getTask(ctx, q, owner, taskID); err != nil {
		return err
	}
	return relationExists(ctx, q, `SELECT COUNT(*) FROM task_assignees WHERE task_id = ? AND assignee_id = ?`, int(taskID), int(assigneeID))
}

// RemoveAssignee detaches an assignee from a task
func (r *TaskRepo) RemoveAssignee(ctx context.Context, owner types.OwnerID, taskID types.TaskID, assigneeID types.AssigneeID) error {
	if _, err := getTask(ctx, r.db, owner, taskID); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM task_assignees WHERE task_id = ? AND assignee_id = ?`, int(taskID), int(assigneeID))
	if err != nil {
		return fmt.Errorf("removing assignee from task: %w", err)
	}
	return nil
}

// AddTag attaches a tag to a task. Attaching twice is a no-op.
func (r *TaskRepo) AddTag(ctx context.Context, owner types.OwnerID, taskID types.TaskID, tagID types.TagID) error {
	return addTag(ctx, r.db, owner, taskID, tagID)
}

func addTag(ctx context.Context, q querier, owner types.OwnerID, taskID types.TaskID, tagID types.TagID) error {
	res, err := q.ExecContext(ctx,
		`INSERT OR IGNORE INTO task_tags (task_id, tag_id)
		 SELECT t.id, g.id FROM tasks t
		 JOIN workspaces w ON w.id = t.workspace_id
		 JOIN tags g ON g.owner_id = w.owner_id
		 WHERE t.id = ? AND g.id = ? AND w.owner_id = ?`,
		int(taskID), int(tagID), string(owner))
	if err != nil {
		return fmt.Errorf("adding tag to task: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	if _, err := getTask(ctx, q, owner, taskID); err != nil {
		return err
	}
	return relationExists(ctx, q, `SELECT COUNT(*) FROM task_tags WHERE task_id = ? AND tag_id = ?`, int(taskID), int(tagID))
}

// RemoveTag detaches a tag from a task
func (r *TaskRepo) RemoveTag(ctx context.Context, owner types.OwnerID, taskID types.TaskID, tagID types.TagID) error {
	if _, err := getTask(ctx, r.db, owner, taskID); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `DELETE FROM task_tags WHERE task_id = ? AND tag_id = ?`, int(taskID), int(tagID))
	if err != nil {
		return fmt.Errorf("removing tag from task: %w", err)
	}
	return nil
}

// relationExists distinguishes "already attached" from "not visible" after
// an INSERT OR IGNORE that changed nothing.
func relationExists(ctx context.Context, q querier, query string, args ...any) error {
	var n int
	if err := q.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
