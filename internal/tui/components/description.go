package components

import (
	"strings"
	"sync"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/glamour"
	"github.com/muesli/reflow/wordwrap"

	"github.com/MahdiIsse/project-management-sub001/internal/tui/theme"
)

// Glamour renderers are expensive to build, keep one per width
var rendererCache sync.Map // map[int]*glamour.TermRenderer

func getRenderer(width int) (*glamour.TermRenderer, error) {
	if cached, ok := rendererCache.Load(width); ok {
		return cached.(*glamour.TermRenderer), nil
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	rendererCache.Store(width, renderer)
	return renderer, nil
}

// RenderDescription renders markdown, falling back to wrapped plain text
func RenderDescription(description string, width int) string {
	if strings.TrimSpace(description) == "" {
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Subtle)).
			Italic(true).
			Render("No description")
	}
	if renderer, err := getRenderer(width); err == nil {
		if out, err := renderer.Render(description); err == nil {
			return strings.Trim(out, "\n")
		}
	}
	return wordwrap.String(description, width)
}
