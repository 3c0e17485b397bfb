package types

import "strconv"

// ID types give each integer key a meaning of its own so a column id can not
// be passed where a task id is expected.

// WorkspaceID identifies a workspace (the top-level board container)
type WorkspaceID int

// ColumnID identifies a column within a workspace
type ColumnID int

// TaskID identifies a task within a workspace
type TaskID int

// AssigneeID identifies a person tasks can be assigned to
type AssigneeID int

// TagID identifies a tag that can be attached to tasks
type TagID int

// OwnerID identifies the user that owns workspaces, assignees and tags
type OwnerID string

func (id WorkspaceID) Int() int { return int(id) }
func (id ColumnID) Int() int    { return int(id) }
func (id TaskID) Int() int      { return int(id) }
func (id AssigneeID) Int() int  { return int(id) }
func (id TagID) Int() int       { return int(id) }

func (id WorkspaceID) String() string { return strconv.Itoa(int(id)) }
func (id ColumnID) String() string    { return strconv.Itoa(int(id)) }
func (id TaskID) String() string      { return strconv.Itoa(int(id)) }
func (id AssigneeID) String() string  { return strconv.Itoa(int(id)) }
func (id TagID) String() string       { return strconv.Itoa(int(id)) }

// Valid reports whether the id could have been assigned by the database
func (id WorkspaceID) Valid() bool { return id > 0 }
func (id ColumnID) Valid() bool    { return id > 0 }
func (id TaskID) Valid() bool      { return id > 0 }
func (id AssigneeID) Valid() bool  { return id > 0 }
func (id TagID) Valid() bool       { return id > 0 }
