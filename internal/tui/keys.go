package tui

import (
	"charm.land/bubbles/v2/key"

	"github.com/MahdiIsse/project-management-sub001/internal/config"
)

// keyMap holds the board bindings built from the configured key mappings
type keyMap struct {
	AddTask       key.Binding
	DeleteTask    key.Binding
	ViewTask      key.Binding
	MoveTaskUp    key.Binding
	MoveTaskDown  key.Binding
	MoveTaskLeft  key.Binding
	MoveTaskRight key.Binding
	CyclePriority key.Binding

	MoveColumnLeft  key.Binding
	MoveColumnRight key.Binding

	PrevColumn    key.Binding
	NextColumn    key.Binding
	PrevTask      key.Binding
	NextTask      key.Binding
	PrevWorkspace key.Binding
	NextWorkspace key.Binding

	Refresh key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func newKeyMap(km config.KeyMappings) keyMap {
	bind := func(k, help string, extra ...string) key.Binding {
		return key.NewBinding(key.WithKeys(append([]string{k}, extra...)...), key.WithHelp(k, help))
	}
	return keyMap{
		AddTask:       bind(km.AddTask, "add task"),
		DeleteTask:    bind(km.DeleteTask, "delete task"),
		ViewTask:      bind(km.ViewTask, "task details"),
		MoveTaskUp:    bind(km.MoveTaskUp, "move task up"),
		MoveTaskDown:  bind(km.MoveTaskDown, "move task down"),
		MoveTaskLeft:  bind(km.MoveTaskLeft, "move task to previous column"),
		MoveTaskRight: bind(km.MoveTaskRight, "move task to next column"),
		CyclePriority: bind(km.CyclePriority, "cycle priority"),

		MoveColumnLeft:  bind(km.MoveColumnLeft, "move column left"),
		MoveColumnRight: bind(km.MoveColumnRight, "move column right"),

		PrevColumn:    bind(km.PrevColumn, "previous column", "left"),
		NextColumn:    bind(km.NextColumn, "next column", "right"),
		PrevTask:      bind(km.PrevTask, "previous task", "up"),
		NextTask:      bind(km.NextTask, "next task", "down"),
		PrevWorkspace: bind(km.PrevWorkspace, "previous workspace"),
		NextWorkspace: bind(km.NextWorkspace, "next workspace"),

		Refresh: bind(km.Refresh, "refresh"),
		Help:    bind("?", "toggle help"),
		Quit:    bind(km.Quit, "quit", "ctrl+c"),
	}
}

// helpGroups is the layout of the help popup
func (k keyMap) helpGroups() [][]key.Binding {
	return [][]key.Binding{
		{k.PrevColumn, k.NextColumn, k.PrevTask, k.NextTask, k.PrevWorkspace, k.NextWorkspace},
		{k.AddTask, k.DeleteTask, k.ViewTask, k.CyclePriority, k.MoveTaskUp, k.MoveTaskDown, k.MoveTaskLeft, k.MoveTaskRight},
		{k.MoveColumnLeft, k.MoveColumnRight, k.Refresh, k.Help, k.Quit},
	}
}
