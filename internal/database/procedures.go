package database

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/MahdiIsse/project-management-sub001/internal/models"
	"github.com/MahdiIsse/project-management-sub001/internal/types"
)

// Procedure error codes
const (
	CodeAlreadySeeded = "already_seeded"
	CodeInternal      = "internal_error"
)

// ProcResult is the outcome of a stored procedure. Failures are reported in
// the result rather than as a Go error so callers can branch on ErrorCode.
type ProcResult struct {
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
	ErrorCode string `json:"error_code,omitempty"`
}

func procFailure(code string, err error) ProcResult {
	return ProcResult{Success: false, Error: err.Error(), ErrorCode: code}
}

var errAlreadySeeded = errors.New("onboarding data already exists for this user")

// Procedures holds the multi-table operations that must run atomically
type Procedures struct {
	db *sql.DB
}

// CleanupUserData deletes every workspace, tag and assignee the owner has.
// Columns, tasks and join rows follow through the foreign keys.
func (p *Procedures) CleanupUserData(ctx context.Context, owner types.OwnerID) ProcResult {
	err := withTx(ctx, p.db, func(tx *sql.Tx) error {
		for _, stmt := range []string{
			`DELETE FROM workspaces WHERE owner_id = ?`,
			`DELETE FROM tags WHERE owner_id = ?`,
			`DELETE FROM assignees WHERE owner_id = ?`,
		} {
			if _, err := tx.ExecContext(ctx, stmt, string(owner)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		slog.Error("cleanup_user_data failed", "owner", owner, "error", err)
		return procFailure(CodeInternal, err)
	}
	return ProcResult{Success: true}
}

// SeedOnboardingData creates a demo workspace for an owner that has none
func (p *Procedures) SeedOnboardingData(ctx context.Context, owner types.OwnerID) ProcResult {
	err := withTx(ctx, p.db, func(tx *sql.Tx) error {
		var count int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM workspaces WHERE owner_id = ?`, string(owner)).Scan(&count); err != nil {
			return err
		}
		if count > 0 {
			return errAlreadySeeded
		}
		return seed(ctx, tx, owner)
	})
	switch {
	case errors.Is(err, errAlreadySeeded):
		return procFailure(CodeAlreadySeeded, err)
	case err != nil:
		slog.Error("seed_onboarding_data failed", "owner", owner, "error", err)
		return procFailure(CodeInternal, err)
	}
	return ProcResult{Success: true}
}

func seed(ctx context.Context, q querier, owner types.OwnerID) error {
	ws, err := createWorkspace(ctx, q, owner, models.Workspace{
		Title:       "Getting started",
		Description: "A sample board. Move cards around, then delete it when you are ready.",
		Color:       "#874BFD",
	}, nil)
	if err != nil {
		return err
	}

	var cols []*models.Column
	for _, title := range []string{"To Do", "In Progress", "Done"} {
		c, err := createColumn(ctx, q, owner, models.Column{WorkspaceID: ws.ID, Title: title}, nil)
		if err != nil {
			return err
		}
		cols = append(cols, c)
	}

	tags := map[string]*models.Tag{}
	for _, t := range []models.Tag{
		{Name: "Feature", Color: "blue"},
		{Name: "Bug", Color: "red"},
		{Name: "Docs", Color: "green"},
	} {
		created, err := createTag(ctx, q, owner, t)
		if err != nil {
			return err
		}
		tags[t.Name] = created
	}

	you, err := createAssignee(ctx, q, owner, models.Assignee{Name: string(owner)})
	if err != nil {
		return err
	}
	teammate, err := createAssignee(ctx, q, owner, models.Assignee{Name: "Teammate"})
	if err != nil {
		return err
	}

	due := time.Now().UTC().AddDate(0, 0, 7).Truncate(24 * time.Hour)
	tasks := []models.Task{
		{ColumnID: cols[0].ID, Title: "Create your first workspace", Priority: models.PriorityHigh,
			Assignees: []models.Assignee{*you}, Tags: []models.Tag{*tags["Feature"]}},
		{ColumnID: cols[0].ID, Title: "Invite a teammate", Priority: models.PriorityMedium, DueDate: &due,
			Assignees: []models.Assignee{*teammate}},
		{ColumnID: cols[1].ID, Title: "Drag this card to Done", Description: "Use **J/K** to reorder and **</>** to move between columns.",
			Priority: models.PriorityLow, Assignees: []models.Assignee{*you}, Tags: []models.Tag{*tags["Docs"]}},
		{ColumnID: cols[2].ID, Title: "Sign in", Priority: models.PriorityLow},
	}
	for _, t := range tasks {
		if _, err := createTask(ctx, q, owner, t, nil); err != nil {
			return err
		}
	}
	return nil
}
