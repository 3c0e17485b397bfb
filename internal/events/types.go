package events

import "time"

// EventType indicates what kind of change occurred
type EventType string

const (
	EventDatabaseChanged EventType = "db_changed"
	EventPing            EventType = "ping"
	EventPong            EventType = "pong"
)

// Entity names the kind of record a change touched. An empty entity means
// "anything in the workspace" and is what batched events carry when several
// kinds changed in one debounce window.
type Entity string

const (
	EntityWorkspace Entity = "workspace"
	EntityColumn    Entity = "column"
	EntityTask      Entity = "task"
	EntityTag       Entity = "tag"
	EntityAssignee  Entity = "assignee"
	EntityAny       Entity = ""
)

// Event represents a data change notification
type Event struct {
	Type        EventType
	WorkspaceID int       // For filtering - 0 means the change is not tied to one workspace
	Entity      Entity    // Which kind of record changed
	Timestamp   time.Time // When the event occurred
	SequenceID  int64     // Monotonically increasing sequence number for ordering
	Owner       string    // Who made the change; empty when unknown or mixed
}

// SubscribeMessage is sent by clients to subscribe to specific workspace updates
type SubscribeMessage struct {
	WorkspaceID int // 0 = all workspaces, >0 = specific workspace
}

// ProtocolVersion is stamped on every message the daemon writes
const ProtocolVersion = 1

// Message wraps events and control messages for wire protocol
type Message struct {
	Version   int               `json:",omitempty"`
	Type      string            // "event", "subscribe", "ping", "pong"
	Event     *Event            `json:",omitempty"`
	Subscribe *SubscribeMessage `json:",omitempty"`
}

// Merge folds other into e the way the batcher coalesces a debounce window:
// differing workspaces widen to 0 and differing entities widen to EntityAny.
// Differing owners widen to empty.
func (e Event) Merge(other Event) Event {
	if e.Owner != other.Owner {
		e.Owner = ""
	}
	if e.WorkspaceID != other.WorkspaceID {
		e.WorkspaceID = 0
	}
	if e.Entity != other.Entity {
		e.Entity = EntityAny
	}
	return e
}
