package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPriority is wrapped by ParsePriority failures
var ErrInvalidPriority = errors.New("invalid priority")

// Priority is the closed Low/Medium/High enumeration of task urgency.
// The text form is what the relational store keeps; the API encodes it as
// the integers 1, 2 and 3.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// DefaultPriority is used for new tasks that do not name one
const DefaultPriority = PriorityLow

// Priorities lists every priority from least to most urgent
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

var priorityToBackend = map[Priority]int{
	PriorityLow:    1,
	PriorityMedium: 2,
	PriorityHigh:   3,
}

var priorityFromBackend = map[int]Priority{
	1: PriorityLow,
	2: PriorityMedium,
	3: PriorityHigh,
}

// ParsePriority maps a case-insensitive priority name to its value
func ParsePriority(s string) (Priority, error) {
	for _, p := range Priorities {
		if strings.EqualFold(string(p), strings.TrimSpace(s)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w '%s' (must be: low, medium, high)", ErrInvalidPriority, s)
}

// Valid reports whether p is one of the three known priorities
func (p Priority) Valid() bool {
	_, ok := priorityToBackend[p]
	return ok
}

// PriorityFromBackend decodes the integer form. Unknown values, including
// zero for a missing field, decode to Low.
func PriorityFromBackend(n int) Priority {
	if p, ok := priorityFromBackend[n]; ok {
		return p
	}
	return PriorityLow
}

// ToBackend encodes p as 1, 2 or 3. Invalid priorities encode as Low.
func (p Priority) ToBackend() int {
	if n, ok := priorityToBackend[p]; ok {
		return n
	}
	return priorityToBackend[PriorityLow]
}

// Color returns the hex colour used when rendering the priority
func (p Priority) Color() string {
	switch p {
	case PriorityHigh:
		return "#EF4444"
	case PriorityMedium:
		return "#F59E0B"
	default:
		return "#10B981"
	}
}

func (p Priority) String() string { return string(p) }
