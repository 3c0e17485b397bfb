package styles

import (
	"fmt"
	"strings"
	"sync"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/glamour"

	"github.com/MahdiIsse/project-management-sub001/internal/config"
	"github.com/MahdiIsse/project-management-sub001/internal/models"
)

var (
	// Card styles
	CardStyle lipgloss.Style
	CardWidth = 80

	// Text styles
	TitleStyle    lipgloss.Style
	SubtitleStyle lipgloss.Style
	LabelStyle    lipgloss.Style // For field labels like "Priority:", "Due:"
	ValueStyle    lipgloss.Style // For field values
	SectionStyle  lipgloss.Style // For section headers like "Description", "Tags"

	ErrorStyle lipgloss.Style

	initOnce sync.Once
)

func init() {
	Init(config.PresetTheme(""))
}

// Init initializes all CLI styles with the given theme
func Init(theme config.Theme) {
	CardStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Accent)).
		Padding(1, 2).
		Width(CardWidth)

	TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(theme.Title))

	SubtitleStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Subtle))

	LabelStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(theme.Accent))

	ValueStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Normal))

	SectionStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Accent)).
		Bold(true).
		MarginTop(1)

	ErrorStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(theme.ErrorFg)).
		Padding(0, 1)
}

// InitFromConfig applies the configured theme once per process
func InitFromConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	initOnce.Do(func() { Init(cfg.Theme) })
}

// ═══════════════════════════════════════════════════════════════════
// HELPER FUNCTIONS
// ═══════════════════════════════════════════════════════════════════

// ColoredText renders text with a hex color
func ColoredText(text, hexColor string) string {
	if hexColor == "" {
		return text
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(hexColor)).
		Render(text)
}

// BoldColoredText renders bold text with a hex color
func BoldColoredText(text, hexColor string) string {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(hexColor)).
		Render(text)
}

// RenderTagChip renders a tag as a padded chip in its palette colours
func RenderTagChip(tag models.Tag) string {
	c := models.ResolveTagColor(tag.Color)
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(c.Text)).
		Background(lipgloss.Color(c.Background)).
		Padding(0, 1).
		Render(tag.Name)
}

// RenderTags joins the chips of tags with single spaces
func RenderTags(tags []models.Tag) string {
	chips := make([]string, len(tags))
	for i, t := range tags {
		chips[i] = RenderTagChip(t)
	}
	return strings.Join(chips, " ")
}

// RenderPriority renders the priority name in its colour
func RenderPriority(p models.Priority) string {
	return BoldColoredText(p.String(), p.Color())
}

// RenderField renders a "Label: value" line
func RenderField(label, value string) string {
	return LabelStyle.Render(label+":") + " " + ValueStyle.Render(value)
}

// RenderHeading renders a title with its id, e.g. "Ship it (#12)"
func RenderHeading(title string, id int) string {
	return TitleStyle.Render(title) + " " + SubtitleStyle.Render(fmt.Sprintf("(#%d)", id))
}

// RenderCard wraps content in a styled card border
func RenderCard(content string) string {
	return CardStyle.Render(content)
}

var renderers sync.Map // map[int]*glamour.TermRenderer

// RenderMarkdown renders a task description for the terminal. Rendering
// failures fall back to the raw text.
func RenderMarkdown(text string, width int) string {
	if strings.TrimSpace(text) == "" {
		return SubtitleStyle.Italic(true).Render("No description")
	}
	r, ok := renderers.Load(width)
	if !ok {
		created, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return text
		}
		r, _ = renderers.LoadOrStore(width, created)
	}
	out, err := r.(*glamour.TermRenderer).Render(text)
	if err != nil {
		return text
	}
	return strings.TrimSpace(out)
}
