package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestViewportSize(t *testing.T) {
	tests := []struct {
		width int
		want  int
	}{
		{0, 1},
		{40, 1},
		{50, 1},
		{96, 2},
		{142, 3},
	}
	for _, tt := range tests {
		s := NewUIState()
		s.SetSize(tt.width, 40)
		assert.Equal(t, tt.want, s.ViewportSize(), "width %d", tt.width)
	}
}

func TestContentHeightHasFloor(t *testing.T) {
	s := NewUIState()
	s.SetSize(100, 3)
	assert.Equal(t, 5, s.ContentHeight())
	s.SetSize(100, 40)
	assert.Equal(t, 35, s.ContentHeight())
}

func TestClampSelection(t *testing.T) {
	counts := []int{3, 0, 1}
	taskCount := func(col int) int { return counts[col] }

	s := NewUIState()
	s.SetSelectedColumn(7)
	s.SetSelectedTask(9)
	s.ClampSelection(len(counts), taskCount)
	assert.Equal(t, 2, s.SelectedColumn())
	assert.Equal(t, 0, s.SelectedTask())

	s.SetSelectedColumn(1)
	s.SetSelectedTask(2)
	s.ClampSelection(len(counts), taskCount)
	assert.Equal(t, 0, s.SelectedTask(), "empty column selects index 0")

	s.ClampSelection(0, taskCount)
	assert.Equal(t, 0, s.SelectedColumn())
}

func TestEnsureSelectionVisible(t *testing.T) {
	s := NewUIState()
	s.SetSize(96, 40) // two columns visible

	s.SetSelectedColumn(4)
	s.EnsureSelectionVisible(6)
	assert.Equal(t, 3, s.ViewportOffset())

	s.SetSelectedColumn(0)
	s.EnsureSelectionVisible(6)
	assert.Equal(t, 0, s.ViewportOffset())

	// Shrinking board pulls the viewport back
	s.SetSelectedColumn(5)
	s.EnsureSelectionVisible(6)
	s.SetSelectedColumn(1)
	s.EnsureSelectionVisible(2)
	assert.Equal(t, 0, s.ViewportOffset())
}

func TestSwitchingWorkspaceResetsSelection(t *testing.T) {
	s := NewUIState()
	s.SetSelectedColumn(2)
	s.SetSelectedTask(3)
	s.EnsureTaskVisible(10, 8, 3)

	s.SetSelectedWorkspace(1)
	assert.Equal(t, 1, s.SelectedWorkspace())
	assert.Equal(t, 0, s.SelectedColumn())
	assert.Equal(t, 0, s.SelectedTask())
	assert.Equal(t, 0, s.TaskScrollOffset(10))
}

func TestEnsureTaskVisible(t *testing.T) {
	s := NewUIState()
	s.EnsureTaskVisible(1, 5, 3)
	assert.Equal(t, 3, s.TaskScrollOffset(1))
	s.EnsureTaskVisible(1, 4, 3)
	assert.Equal(t, 3, s.TaskScrollOffset(1))
	s.EnsureTaskVisible(1, 0, 3)
	assert.Equal(t, 0, s.TaskScrollOffset(1))
}
