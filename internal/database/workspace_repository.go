package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MahdiIsse/project-management-sub001/internal/models"
	"github.com/MahdiIsse/project-management-sub001/internal/types"
)

// WorkspaceRepo handles all workspace-related database operations.
type WorkspaceRepo struct {
	db *sql.DB
}

const workspaceColumns = `id, owner_id, title, description, color, position, created_at, updated_at`

func scanWorkspace(row interface{ Scan(...any) error }) (*models.Workspace, error) {
	var w models.Workspace
	var owner string
	var description, color sql.NullString
	if err := row.Scan(&w.ID, &owner, &w.Title, &description, &color, &w.Position, &w.CreatedAt, &w.UpdatedAt); err != nil {
		return nil, err
	}
	w.OwnerID = types.OwnerID(owner)
	w.Description = description.String
	w.Color = color.String
	return &w, nil
}

// List returns the owner's workspaces ordered by position
func (r *WorkspaceRepo) List(ctx context.Context, owner types.OwnerID) ([]models.Workspace, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+workspaceColumns+` FROM workspaces WHERE owner_id = ? ORDER BY position, id`, string(owner))
	if err != nil {
		return nil, fmt.Errorf("querying workspaces: %w", err)
	}
	defer rows.Close()

	out := []models.Workspace{}
	for rows.Next() {
		w, err := scanWorkspace(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning workspace row: %w", err)
		}
		out = append(out, *w)
	}
	return out, rows.Err()
}

// Get returns one workspace if the owner can see it
func (r *WorkspaceRepo) Get(ctx context.Context, owner types.OwnerID, id types.WorkspaceID) (*models.Workspace, error) {
	return getWorkspace(ctx, r.db, owner, id)
}

func getWorkspace(ctx context.Context, q querier, owner types.OwnerID, id types.WorkspaceID) (*models.Workspace, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+workspaceColumns+` FROM workspaces WHERE id = ? AND owner_id = ?`, int(id), string(owner))
	w, err := scanWorkspace(row)
	if err != nil {
		return nil, notFound(err)
	}
	return w, nil
}

// Create inserts a workspace. A nil position appends it after the owner's
// existing workspaces.
func (r *WorkspaceRepo) Create(ctx context.Context, owner types.OwnerID, w models.Workspace, position *int) (*models.Workspace, error) {
	return createWorkspace(ctx, r.db, owner, w, position)
}

func createWorkspace(ctx context.Context, q querier, owner types.OwnerID, w models.Workspace, position *int) (*models.Workspace, error) {
	pos, err := resolvePosition(ctx, q, position,
		`SELECT COUNT(*) FROM workspaces WHERE owner_id = ?`, string(owner))
	if err != nil {
		return nil, err
	}

	ts := now()
	res, err := q.ExecContext(ctx,
		`INSERT INTO workspaces (owner_id, title, description, color, position, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		string(owner), w.Title, nullString(w.Description), nullString(w.Color), pos, ts, ts)
	if err != nil {
		return nil, fmt.Errorf("inserting workspace: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	w.ID = types.WorkspaceID(id)
	w.OwnerID = owner
	w.Position = pos
	w.CreatedAt, w.UpdatedAt = ts, ts
	return &w, nil
}

// Update overwrites title, description and colour
func (r *WorkspaceRepo) Update(ctx context.Context, owner types.OwnerID, w models.Workspace) (*models.Workspace, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE workspaces SET title = ?, description = ?, color = ?, updated_at = ?
		 WHERE id = ? AND owner_id = ?`,
		w.Title, nullString(w.Description), nullString(w.Color), now(), int(w.ID), string(owner))
	if err != nil {
		return nil, fmt.Errorf("updating workspace: %w", err)
	}
	if err := requireAffected(res); err != nil {
		return nil, err
	}
	return r.Get(ctx, owner, w.ID)
}

// Delete removes a workspace; columns and tasks go with it
func (r *WorkspaceRepo) Delete(ctx context.Context, owner types.OwnerID, id types.WorkspaceID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM workspaces WHERE id = ? AND owner_id = ?`, int(id), string(owner))
	if err != nil {
		return fmt.Errorf("deleting workspace: %w", err)
	}
	return requireAffected(res)
}

// UpdatePositions applies every position in one transaction. If any
// workspace is missing or foreign, nothing is written.
func (r *WorkspaceRepo) UpdatePositions(ctx context.Context, owner types.OwnerID, positions []models.WorkspacePosition) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		ts := now()
		for _, p := range positions {
			res, err := tx.ExecContext(ctx,
				`UPDATE workspaces SET position = ?, updated_at = ? WHERE id = ? AND owner_id = ?`,
				p.Position, ts, int(p.ID), string(owner))
			if err != nil {
				return fmt.Errorf("updating workspace %d position: %w", p.ID, err)
			}
			if err := requireAffected(res); err != nil {
				return fmt.Errorf("workspace %d: %w", p.ID, err)
			}
		}
		return nil
	})
}

func resolvePosition(ctx context.Context, q querier, position *int, countQuery string, args ...any) (int, error) {
	if position != nil {
		return *position, nil
	}
	var n int
	if err := q.QueryRowContext(ctx, countQuery, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting siblings: %w", err)
	}
	return n, nil
}
