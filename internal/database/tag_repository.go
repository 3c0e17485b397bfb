package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MahdiIsse/project-management-sub001/internal/models"
	"github.com/MahdiIsse/project-management-sub001/internal/types"
)

// TagRepo handles all tag-related database operations.
type TagRepo struct {
	db *sql.DB
}

const tagColumns = `id, owner_id, name, color, created_at, updated_at`

func scanTag(row interface{ Scan(...any) error }) (*models.Tag, error) {
	var t models.Tag
	var owner string
	if err := row.Scan(&t.ID, &owner, &t.Name, &t.Color, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.OwnerID = types.OwnerID(owner)
	return &t, nil
}

func (r *TagRepo) List(ctx context.Context, owner types.OwnerID) ([]models.Tag, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+tagColumns+` FROM tags WHERE owner_id = ? ORDER BY name COLLATE NOCASE, id`, string(owner))
	if err != nil {
		return nil, fmt.Errorf("querying tags: %w", err)
	}
	defer rows.Close()

	out := []models.Tag{}
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning tag row: %w", err)
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func (r *TagRepo) Get(ctx context.Context, owner types.OwnerID, id types.TagID) (*models.Tag, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+tagColumns+` FROM tags WHERE id = ? AND owner_id = ?`, int(id), string(owner))
	t, err := scanTag(row)
	if err != nil {
		return nil, notFound(err)
	}
	return t, nil
}

func (r *TagRepo) Create(ctx context.Context, owner types.OwnerID, t models.Tag) (*models.Tag, error) {
	return createTag(ctx, r.db, owner, t)
}

func createTag(ctx context.Context, q querier, owner types.OwnerID, t models.Tag) (*models.Tag, error) {
	ts := now()
	res, err := q.ExecContext(ctx,
		`INSERT INTO tags (owner_id, name, color, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		string(owner), t.Name, t.Color, ts, ts)
	if err != nil {
		return nil, fmt.Errorf("inserting tag: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	t.ID = types.TagID(id)
	t.OwnerID = owner
	t.CreatedAt, t.UpdatedAt = ts, ts
	return &t, nil
}

func (r *TagRepo) Update(ctx context.Context, owner types.OwnerID, t models.Tag) (*models.Tag, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tags SET name = ?, color = ?, updated_at = ? WHERE id = ? AND owner_id = ?`,
		t.Name, t.Color, now(), int(t.ID), string(owner))
	if err != nil {
		return nil, fmt.Errorf("updating tag: %w", err)
	}
	if err := requireAffected(res); err != nil {
		return nil, err
	}
	return r.Get(ctx, owner, t.ID)
}

// Delete removes a tag and detaches it from every task
func (r *TagRepo) Delete(ctx context.Context, owner types.OwnerID, id types.TagID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tags WHERE id = ? AND owner_id = ?`, int(id), string(owner))
	if err != nil {
		return fmt.Errorf("deleting tag: %w", err)
	}
	return requireAffected(res)
}
