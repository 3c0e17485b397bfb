package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MahdiIsse/project-management-sub001/internal/models"
	"github.com/MahdiIsse/project-management-sub001/internal/types"
)

// AssigneeRepo handles all assignee-related database operations.
type AssigneeRepo struct {
	db *sql.DB
}

const assigneeColumns = `id, owner_id, name, avatar_url, created_at, updated_at`

func scanAssignee(row interface{ Scan(...any) error }) (*models.Assignee, error) {
	var a models.Assignee
	var owner string
	var avatar sql.NullString
	if err := row.Scan(&a.ID, &owner, &a.Name, &avatar, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	a.OwnerID = types.OwnerID(owner)
	a.AvatarURL = avatar.String
	return &a, nil
}

func (r *AssigneeRepo) List(ctx context.Context, owner types.OwnerID) ([]models.Assignee, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+assigneeColumns+` FROM assignees WHERE owner_id = ? ORDER BY name COLLATE NOCASE, id`, string(owner))
	if err != nil {
		return nil, fmt.Errorf("querying assignees: %w", err)
	}
	defer rows.Close()

	out := []models.Assignee{}
	for rows.Next() {
		a, err := scanAssignee(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning assignee row: %w", err)
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func (r *AssigneeRepo) Get(ctx context.Context, owner types.OwnerID, id types.AssigneeID) (*models.Assignee, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+assigneeColumns+` FROM assignees WHERE id = ? AND owner_id = ?`, int(id), string(owner))
	a, err := scanAssignee(row)
	if err != nil {
		return nil, notFound(err)
	}
	return a, nil
}

func (r *AssigneeRepo) Create(ctx context.Context, owner types.OwnerID, a models.Assignee) (*models.Assignee, error) {
	return createAssignee(ctx, r.db, owner, a)
}

func createAssignee(ctx context.Context, q querier, owner types.OwnerID, a models.Assignee) (*models.Assignee, error) {
	ts := now()
	res, err := q.ExecContext(ctx,
		`INSERT INTO assignees (owner_id, name, avatar_url, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		string(owner), a.Name, nullString(a.AvatarURL), ts, ts)
	if err != nil {
		return nil, fmt.Errorf("inserting assignee: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	a.ID = types.AssigneeID(id)
	a.OwnerID = owner
	a.CreatedAt, a.UpdatedAt = ts, ts
	return &a, nil
}

func (r *AssigneeRepo) Update(ctx context.Context, owner types.OwnerID, a models.Assignee) (*models.Assignee, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE assignees SET name = ?, avatar_url = ?, updated_at = ? WHERE id = ? AND owner_id = ?`,
		a.Name, nullString(a.AvatarURL), now(), int(a.ID), string(owner))
	if err != nil {
		return nil, fmt.Errorf("updating assignee: %w", err)
	}
	if err := requireAffected(res); err != nil {
		return nil, err
	}
	return r.Get(ctx, owner, a.ID)
}

// Delete removes an assignee and unassigns them from every task
func (r *AssigneeRepo) Delete(ctx context.Context, owner types.OwnerID, id types.AssigneeID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM assignees WHERE id = ? AND owner_id = ?`, int(id), string(owner))
	if err != nil {
		return fmt.Errorf("deleting assignee: %w", err)
	}
	return requireAffected(res)
}
