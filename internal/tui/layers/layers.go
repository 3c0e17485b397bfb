// Package layers positions popups over the board
package layers

import "charm.land/lipgloss/v2"

// CreateCenteredLayer creates a layer positioned at the center of the screen.
// It returns nil for empty content.
func CreateCenteredLayer(content string, screenWidth int, screenHeight int) *lipgloss.Layer {
	if content == "" {
		return nil
	}

	x := max((screenWidth-lipgloss.Width(content))/2, 0)
	y := max((screenHeight-lipgloss.Height(content))/2, 0)

	return lipgloss.NewLayer(content).X(x).Y(y)
}

// PopupSize picks a popup size that is a fraction of the screen, clamped
// to [minW,maxW] x [minH, screen height - 2]
func PopupSize(screenWidth, screenHeight, minW, maxW, minH int) (int, int) {
	w := min(max(screenWidth*3/4, minW), maxW)
	h := max(min(screenHeight*3/4, screenHeight-2), minH)
	return w, h
}
