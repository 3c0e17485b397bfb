package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MahdiIsse/project-management-sub001/internal/models"
	"github.com/MahdiIsse/project-management-sub001/internal/types"
)

// ColumnRepo handles all column-related database operations. Columns are
// visible to the owner of their workspace.
type ColumnRepo struct {
	db *sql.DB
}

const columnSelect = `SELECT c.id, c.workspace_id, c.title, c.color, c.position, c.created_at, c.updated_at
	FROM columns c JOIN workspaces w ON w.id = c.workspace_id`

func scanColumn(row interface{ Scan(...any) error }) (*models.Column, error) {
	var c models.Column
	var color sql.NullString
	if err := row.Scan(&c.ID, &c.WorkspaceID, &c.Title, &color, &c.Position, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.Color = color.String
	return &c, nil
}

// ListByWorkspace returns a workspace's columns ordered by position
func (r *ColumnRepo) ListByWorkspace(ctx context.Context, owner types.OwnerID, workspaceID types.WorkspaceID) ([]models.Column, error) {
	if _, err := getWorkspace(ctx, r.db, owner, workspaceID); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		columnSelect+` WHERE c.workspace_id = ? AND w.owner_id = ? ORDER BY c.position, c.id`,
		int(workspaceID), string(owner))
	if err != nil {
		return nil, fmt.Errorf("querying columns for workspace: %w", err)
	}
	defer rows.Close()

	out := []models.Column{}
	for rows.Next() {
		c, err := scanColumn(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning column row: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// Get returns one column if the owner can see it
func (r *ColumnRepo) Get(ctx context.Context, owner types.OwnerID, id types.ColumnID) (*models.Column, error) {
	return getColumn(ctx, r.db, owner, id)
}

func getColumn(ctx context.Context, q querier, owner types.OwnerID, id types.ColumnID) (*models.Column, error) {
	row := q.QueryRowContext(ctx, columnSelect+` WHERE c.id = ? AND w.owner_id = ?`, int(id), string(owner))
	c, err := scanColumn(row)
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

// Create inserts a column into c.WorkspaceID. A nil position appends it.
func (r *ColumnRepo) Create(ctx context.Context, owner types.OwnerID, c models.Column, position *int) (*models.Column, error) {
	return createColumn(ctx, r.db, owner, c, position)
}

func createColumn(ctx context.Context, q querier, owner types.OwnerID, c models.Column, position *int) (*models.Column, error) {
	if _, err := getWorkspace(ctx, q, owner, c.WorkspaceID); err != nil {
		return nil, err
	}

	pos, err := resolvePosition(ctx, q, position,
		`SELECT COUNT(*) FROM columns WHERE workspace_id = ?`, int(c.WorkspaceID))
	if err != nil {
		return nil, err
	}

	ts := now()
	res, err := q.ExecContext(ctx,
		`INSERT INTO columns (workspace_id, title, color, position, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		int(c.WorkspaceID), c.Title, nullString(c.Color), pos, ts, ts)
	if err != nil {
		return nil, fmt.Errorf("inserting column: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	c.ID = types.ColumnID(id)
	c.Position = pos
	c.CreatedAt, c.UpdatedAt = ts, ts
	return &c, nil
}

// Update overwrites title and colour
func (r *ColumnRepo) Update(ctx context.Context, owner types.OwnerID, c models.Column) (*models.Column, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE columns SET title = ?, color = ?, updated_at = ?
		 WHERE id = ? AND workspace_id IN (SELECT id FROM workspaces WHERE owner_id = ?)`,
		c.Title, nullString(c.Color), now(), int(c.ID), string(owner))
	if err != nil {
		return nil, fmt.Errorf("updating column: %w", err)
	}
	if err := requireAffected(res); err != nil {
		return nil, err
	}
	return r.Get(ctx, owner, c.ID)
}

// Delete removes a column and its tasks
func (r *ColumnRepo) Delete(ctx context.Context, owner types.OwnerID, id types.ColumnID) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM columns WHERE id = ? AND workspace_id IN (SELECT id FROM workspaces WHERE owner_id = ?)`,
		int(id), string(owner))
	if err != nil {
		return fmt.Errorf("deleting column: %w", err)
	}
	return requireAffected(res)
}

// UpdatePositions reorders columns of one workspace in a single transaction
func (r *ColumnRepo) UpdatePositions(ctx context.Context, owner types.OwnerID, workspaceID types.WorkspaceID, positions []models.ColumnPosition) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := getWorkspace(ctx, tx, owner, workspaceID); err != nil {
			return err
		}
		ts := now()
		for _, p := range positions {
			res, err := tx.ExecContext(ctx,
				`UPDATE columns SET position = ?, updated_at = ? WHERE id = ? AND workspace_id = ?`,
				p.Position, ts, int(p.ID), int(workspaceID))
			if err != nil {
				return fmt.Errorf("updating column %d position: %w", p.ID, err)
			}
			if err := requireAffected(res); err != nil {
				return fmt.Errorf("column %d: %w", p.ID, err)
			}
		}
		return nil
	})
}
