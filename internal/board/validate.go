package board

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/MahdiIsse/project-management-sub001/internal/models"
)

// Input errors are reported before anything touches the cache
var (
	ErrEmptyTitle    = errors.New("title cannot be empty")
	ErrTitleTooLong  = errors.New("title is too long")
	ErrInvalidColor  = errors.New("invalid color")
	ErrInvalidTarget = errors.New("invalid target")
)

const (
	maxNameLength      = 100
	maxTaskTitleLength = 255
)

func checkTitle(title string, max int) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrEmptyTitle
	}
	if utf8.RuneCountInString(title) > max {
		return fmt.Errorf("%w (max %d characters)", ErrTitleTooLong, max)
	}
	return nil
}

func checkHex(color string) error {
	if color != "" && !models.IsHexColor(color) {
		return fmt.Errorf("%w %q: want #RRGGBB", ErrInvalidColor, color)
	}
	return nil
}

func checkTagColor(color string) error {
	if color != "" && !models.ValidTagColor(color) {
		return fmt.Errorf("%w %q: want a palette name or #RRGGBB", ErrInvalidColor, color)
	}
	return nil
}

func optional(s *string, check func(string) error) error {
	if s == nil {
		return nil
	}
	return check(*s)
}
