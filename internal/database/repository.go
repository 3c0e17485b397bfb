package database

import "database/sql"

// Repository groups the per-entity repositories over one connection.
type Repository struct {
	Workspaces *WorkspaceRepo
	Columns    *ColumnRepo
	Tasks      *TaskRepo
	Tags       *TagRepo
	Assignees  *AssigneeRepo
	Procedures *Procedures
}

// NewRepository creates a new Repository instance wrapping the given database connection.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Workspaces: &WorkspaceRepo{db: db},
		Columns:    &ColumnRepo{db: db},
		Tasks:      &TaskRepo{db: db},
		Tags:       &TagRepo{db: db},
		Assignees:  &AssigneeRepo{db: db},
		Procedures: &Procedures{db: db},
	}
}
