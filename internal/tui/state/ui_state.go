package state

// Mode represents the current interaction mode of the TUI.
// Each mode determines which keyboard shortcuts are active and what UI is displayed.
type Mode int

const (
	NormalMode        Mode = iota // Default navigation mode
	AddTaskMode                   // Typing the title of a new task
	DeleteConfirmMode             // Confirming task deletion
	TaskDetailMode                // Task detail popup
	HelpMode                      // Displaying help screen
)

// UIState manages the user interface state.
// This includes navigation (column/task selection), viewport scrolling,
// terminal dimensions, and the current interaction mode.
type UIState struct {
	selectedWorkspace int
	selectedColumn    int
	selectedTask      int

	width  int
	height int

	mode Mode

	// viewportOffset is the index of the leftmost visible column
	viewportOffset int
	// viewportSize is the number of columns that fit on the screen
	viewportSize int

	// taskScrollOffsets holds the index of the first visible task per column id
	taskScrollOffsets map[int]int
}

// NewUIState creates a new UIState with default values.
func NewUIState() *UIState {
	return &UIState{
		mode:              NormalMode,
		viewportSize:      1,
		taskScrollOffsets: make(map[int]int),
	}
}

func (s *UIState) SelectedWorkspace() int { return s.selectedWorkspace }

// SetSelectedWorkspace switches workspace and resets the board selection
func (s *UIState) SetSelectedWorkspace(index int) {
	if index == s.selectedWorkspace {
		return
	}
	s.selectedWorkspace = index
	s.ResetSelection()
	s.taskScrollOffsets = make(map[int]int)
}

func (s *UIState) SelectedColumn() int { return s.selectedColumn }

func (s *UIState) SetSelectedColumn(index int) { s.selectedColumn = index }

func (s *UIState) SelectedTask() int { return s.selectedTask }

func (s *UIState) SetSelectedTask(index int) { s.selectedTask = index }

func (s *UIState) Width() int { return s.width }

func (s *UIState) Height() int { return s.height }

// SetSize records the terminal size and recalculates the viewport
func (s *UIState) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.calculateViewportSize()
}

// ContentHeight returns the available height for the columns: terminal
// height minus tab bar and status bar, never less than 5.
func (s *UIState) ContentHeight() int {
	const tabBarHeight = 3    // tabs + gap line
	const statusBarHeight = 2 // status bar + gap line
	return max(s.height-tabBarHeight-statusBarHeight, 5)
}

func (s *UIState) Mode() Mode { return s.mode }

func (s *UIState) SetMode(mode Mode) { s.mode = mode }

func (s *UIState) ViewportOffset() int { return s.viewportOffset }

func (s *UIState) ViewportSize() int { return s.viewportSize }

// calculateViewportSize works out how many 46-cell columns (40 content,
// padding, border and spacing) fit beside 4 cells of scroll indicators.
func (s *UIState) calculateViewportSize() {
	if s.width == 0 {
		s.viewportSize = 1
		return
	}
	const columnWidth = 46
	const reservedWidth = 4
	s.viewportSize = max(1, (s.width-reservedWidth)/columnWidth)
}

// ClampSelection keeps the selection inside a board of the given shape.
// taskCount returns the number of tasks in a column index.
func (s *UIState) ClampSelection(columns int, taskCount func(col int) int) {
	if columns == 0 {
		s.ResetSelection()
		return
	}
	s.selectedColumn = min(max(s.selectedColumn, 0), columns-1)
	n := taskCount(s.selectedColumn)
	s.selectedTask = min(max(s.selectedTask, 0), max(n-1, 0))
	s.EnsureSelectionVisible(columns)
}

// EnsureSelectionVisible scrolls the viewport so the selected column shows
func (s *UIState) EnsureSelectionVisible(columns int) {
	if s.selectedColumn < s.viewportOffset {
		s.viewportOffset = s.selectedColumn
	}
	if s.selectedColumn >= s.viewportOffset+s.viewportSize {
		s.viewportOffset = s.selectedColumn - s.viewportSize + 1
	}
	if s.viewportOffset+s.viewportSize > columns {
		s.viewportOffset = max(0, columns-s.viewportSize)
	}
}

// ResetSelection resets both column and task selection to zero.
func (s *UIState) ResetSelection() {
	s.selectedColumn = 0
	s.selectedTask = 0
	s.viewportOffset = 0
}

// TaskScrollOffset returns the vertical scroll offset for a given column.
func (s *UIState) TaskScrollOffset(columnID int) int {
	return s.taskScrollOffsets[columnID]
}

// EnsureTaskVisible adjusts the scroll offset of a column so the selected
// task is one of the visibleCount tasks shown.
func (s *UIState) EnsureTaskVisible(columnID, selectedTaskIdx, visibleCount int) {
	offset := s.taskScrollOffsets[columnID]
	if selectedTaskIdx < offset {
		offset = selectedTaskIdx
	}
	if selectedTaskIdx >= offset+visibleCount {
		offset = selectedTaskIdx - visibleCount + 1
	}
	s.taskScrollOffsets[columnID] = max(0, offset)
}
