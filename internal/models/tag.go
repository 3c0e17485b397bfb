package models

import (
	"regexp"
	"strings"
	"time"

	"github.com/MahdiIsse/project-management-sub001/internal/types"
)

// Tag is a labelled category attachable to many tasks
type Tag struct {
	ID        types.TagID
	OwnerID   types.OwnerID
	Name      string
	Color     string // palette name (see TagPalette) or #RRGGBB
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (t *Tag) GetID() int { return t.ID.Int() }

// TagColor is one entry of the tag palette: the internal name stored on the
// tag, the display label, and the background/text colours of the chip.
type TagColor struct {
	Name       string
	Label      string
	Background string
	Text       string
}

// TagPalette is the enumerated set of tag colours
var TagPalette = []TagColor{
	{Name: "gray", Label: "Gray", Background: "#E5E7EB", Text: "#374151"},
	{Name: "red", Label: "Red", Background: "#FEE2E2", Text: "#B91C1C"},
	{Name: "orange", Label: "Orange", Background: "#FFEDD5", Text: "#C2410C"},
	{Name: "yellow", Label: "Yellow", Background: "#FEF9C3", Text: "#A16207"},
	{Name: "green", Label: "Green", Background: "#DCFCE7", Text: "#15803D"},
	{Name: "blue", Label: "Blue", Background: "#DBEAFE", Text: "#1D4ED8"},
	{Name: "purple", Label: "Purple", Background: "#F3E8FF", Text: "#7E22CE"},
	{Name: "pink", Label: "Pink", Background: "#FCE7F3", Text: "#BE185D"},
}

// DefaultTagColor is applied to tags created without a colour
const DefaultTagColor = "gray"

var hexColorRegex = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// IsHexColor reports whether s has the #RRGGBB form
func IsHexColor(s string) bool {
	return hexColorRegex.MatchString(s)
}

// LookupTagColor finds a palette entry by its internal name or display label
func LookupTagColor(name string) (TagColor, bool) {
	for _, c := range TagPalette {
		if strings.EqualFold(c.Name, name) || strings.EqualFold(c.Label, name) {
			return c, true
		}
	}
	return TagColor{}, false
}

// ValidTagColor reports whether s is a palette name or a hex colour
func ValidTagColor(s string) bool {
	if IsHexColor(s) {
		return true
	}
	_, ok := LookupTagColor(s)
	return ok
}

// ResolveTagColor returns the style triple for a stored colour. Hex colours
// become their own background with white text; anything unknown falls back
// to the default palette entry.
func ResolveTagColor(color string) TagColor {
	if c, ok := LookupTagColor(color); ok {
		return c
	}
	if IsHexColor(color) {
		return TagColor{Name: color, Label: color, Background: color, Text: "#FFFFFF"}
	}
	c, _ := LookupTagColor(DefaultTagColor)
	return c
}
