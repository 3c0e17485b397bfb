package config

// KeyMappings defines all configurable board key bindings
type KeyMappings struct {
	// Tasks
	AddTask       string `yaml:"add_task"`
	DeleteTask    string `yaml:"delete_task"`
	ViewTask      string `yaml:"view_task"`
	MoveTaskUp    string `yaml:"move_task_up"`
	MoveTaskDown  string `yaml:"move_task_down"`
	MoveTaskLeft  string `yaml:"move_task_left"`
	MoveTaskRight string `yaml:"move_task_right"`
	CyclePriority string `yaml:"cycle_priority"`

	// Columns
	MoveColumnLeft  string `yaml:"move_column_left"`
	MoveColumnRight string `yaml:"move_column_right"`

	// Navigation
	PrevColumn    string `yaml:"prev_column"`
	NextColumn    string `yaml:"next_column"`
	PrevTask      string `yaml:"prev_task"`
	NextTask      string `yaml:"next_task"`
	NextWorkspace string `yaml:"next_workspace"`
	PrevWorkspace string `yaml:"prev_workspace"`

	// Other
	Refresh string `yaml:"refresh"`
	Quit    string `yaml:"quit"`
}

// DefaultKeyMappings returns the default key mappings
func DefaultKeyMappings() KeyMappings {
	return KeyMappings{
		AddTask:       "a",
		DeleteTask:    "d",
		ViewTask:      "enter",
		MoveTaskUp:    "K",
		MoveTaskDown:  "J",
		MoveTaskLeft:  "<",
		MoveTaskRight: ">",
		CyclePriority: "p",

		MoveColumnLeft:  "H",
		MoveColumnRight: "L",

		PrevColumn:    "h",
		NextColumn:    "l",
		PrevTask:      "k",
		NextTask:      "j",
		NextWorkspace: "}",
		PrevWorkspace: "{",

		Refresh: "r",
		Quit:    "q",
	}
}

// applyDefaults fills in missing key mappings with defaults
func (k *KeyMappings) applyDefaults() {
	d := DefaultKeyMappings()
	fill := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}

	fill(&k.AddTask, d.AddTask)
	fill(&k.DeleteTask, d.DeleteTask)
	fill(&k.ViewTask, d.ViewTask)
	fill(&k.MoveTaskUp, d.MoveTaskUp)
	fill(&k.MoveTaskDown, d.MoveTaskDown)
	fill(&k.MoveTaskLeft, d.MoveTaskLeft)
	fill(&k.MoveTaskRight, d.MoveTaskRight)
	fill(&k.CyclePriority, d.CyclePriority)
	fill(&k.MoveColumnLeft, d.MoveColumnLeft)
	fill(&k.MoveColumnRight, d.MoveColumnRight)
	fill(&k.PrevColumn, d.PrevColumn)
	fill(&k.NextColumn, d.NextColumn)
	fill(&k.PrevTask, d.PrevTask)
	fill(&k.NextTask, d.NextTask)
	fill(&k.NextWorkspace, d.NextWorkspace)
	fill(&k.PrevWorkspace, d.PrevWorkspace)
	fill(&k.Refresh, d.Refresh)
	fill(&k.Quit, d.Quit)
}
