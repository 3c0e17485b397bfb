package database

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MahdiIsse/project-management-sub001/internal/models"
	"github.com/MahdiIsse/project-management-sub001/internal/types"
)

// ============================================================================
// DATABASE SETUP HELPERS
// ============================================================================

const (
	alice types.OwnerID = "alice"
	bob   types.OwnerID = "bob"
)

// setupTestDB creates an in-memory database and runs migrations
func setupTestDB(t *testing.T) (*sql.DB, *Repository) {
	t.Helper()
	db, err := OpenMemory(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, NewRepository(db)
}

func createTestWorkspace(t *testing.T, repo *Repository, owner types.OwnerID, title string) *models.Workspace {
	t.Helper()
	w, err := repo.Workspaces.Create(context.Background(), owner, models.Workspace{Title: title}, nil)
	require.NoError(t, err)
	return w
}

func createTestColumn(t *testing.T, repo *Repository, owner types.OwnerID, ws types.WorkspaceID, title string) *models.Column {
	t.Helper()
	c, err := repo.Columns.Create(context.Background(), owner, models.Column{WorkspaceID: ws, Title: title}, nil)
	require.NoError(t, err)
	return c
}

func createTestTask(t *testing.T, repo *Repository, owner types.OwnerID, col types.ColumnID, title string) *models.Task {
	t.Helper()
	task, err := repo.Tasks.Create(context.Background(), owner, models.Task{ColumnID: col, Title: title}, nil)
	require.NoError(t, err)
	return task
}
