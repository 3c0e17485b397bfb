// Package testutil holds helpers shared by package tests: an in-memory
// database, signed-in contexts, a running daemon and cobra output capture.
package testutil

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MahdiIsse/project-management-sub001/internal/auth"
	"github.com/MahdiIsse/project-management-sub001/internal/database"
	"github.com/MahdiIsse/project-management-sub001/internal/types"
)

// DefaultOwner is the user test contexts are signed in as
const DefaultOwner types.OwnerID = "tester"

// SetupTestDB creates an in-memory database with full schema
func SetupTestDB(t *testing.T) (*sql.DB, *database.Repository) {
	t.Helper()
	db, err := database.OpenMemory(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, database.NewRepository(db)
}

// Ctx returns a background context signed in as owner (DefaultOwner if empty)
func Ctx(owner types.OwnerID) context.Context {
	if owner == "" {
		owner = DefaultOwner
	}
	return auth.WithUser(context.Background(), owner)
}
