// Package filters encodes task list filters to and from URL query
// parameters and applies them to a task list.
package filters

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/MahdiIsse/project-management-sub001/internal/models"
	"github.com/MahdiIsse/project-management-sub001/internal/types"
)

// Query parameter names
const (
	ParamSearch     = "search"
	ParamAssignees  = "assignees"
	ParamPriorities = "priorities"
)

// TaskFilterParams narrows a task list. Zero-valued fields do not filter.
type TaskFilterParams struct {
	Search      string
	AssigneeIDs []types.AssigneeID
	Priorities  []models.Priority
}

// IsZero reports whether f filters nothing
func (f TaskFilterParams) IsZero() bool {
	return f.Search == "" && len(f.AssigneeIDs) == 0 && len(f.Priorities) == 0
}

// Encode writes the non-empty fields as query parameters. Lists are
// comma-joined.
func Encode(f TaskFilterParams) url.Values {
	v := url.Values{}
	if f.Search != "" {
		v.Set(ParamSearch, f.Search)
	}
	if len(f.AssigneeIDs) > 0 {
		ids := make([]string, len(f.AssigneeIDs))
		for i, id := range f.AssigneeIDs {
			ids[i] = id.String()
		}
		v.Set(ParamAssignees, strings.Join(ids, ","))
	}
	if len(f.Priorities) > 0 {
		ps := make([]string, len(f.Priorities))
		for i, p := range f.Priorities {
			ps[i] = string(p)
		}
		v.Set(ParamPriorities, strings.Join(ps, ","))
	}
	return v
}

// Decode reads filters from query parameters. Non-numeric assignee ids and
// unknown priority names are dropped without error.
func Decode(v url.Values) TaskFilterParams {
	var f TaskFilterParams
	f.Search = v.Get(ParamSearch)

	for _, tok := range splitList(v.Get(ParamAssignees)) {
		n, err := strconv.Atoi(tok)
		if err != nil || n <= 0 {
			continue
		}
		f.AssigneeIDs = append(f.AssigneeIDs, types.AssigneeID(n))
	}
	for _, tok := range splitList(v.Get(ParamPriorities)) {
		p, err := models.ParsePriority(tok)
		if err != nil {
			continue
		}
		f.Priorities = append(f.Priorities, p)
	}
	return f
}

// Parse decodes a raw query string such as "search=x&priorities=High".
// A malformed query decodes as far as url.ParseQuery got.
func Parse(rawQuery string) TaskFilterParams {
	v, _ := url.ParseQuery(strings.TrimPrefix(rawQuery, "?"))
	return Decode(v)
}

// String returns the encoded query without a leading '?'
func (f TaskFilterParams) String() string {
	return Encode(f).Encode()
}

// Apply returns the tasks matching every set filter. Search matches title
// or description case-insensitively; assignees and priorities match any of
// the listed values.
func Apply(tasks []models.Task, f TaskFilterParams) []models.Task {
	if f.IsZero() {
		return tasks
	}
	search := strings.ToLower(strings.TrimSpace(f.Search))

	out := make([]models.Task, 0, len(tasks))
	for i := range tasks {
		t := &tasks[i]
		if search != "" &&
			!strings.Contains(strings.ToLower(t.Title), search) &&
			!strings.Contains(strings.ToLower(t.Description), search) {
			continue
		}
		if len(f.Priorities) > 0 && !containsPriority(f.Priorities, t.Priority) {
			continue
		}
		if len(f.AssigneeIDs) > 0 && !anyAssignee(t, f.AssigneeIDs) {
			continue
		}
		out = append(out, *t)
	}
	return out
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, tok := range strings.Split(s, ",") {
		if tok = strings.TrimSpace(tok); tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

func containsPriority(ps []models.Priority, p models.Priority) bool {
	for _, q := range ps {
		if q == p {
			return true
		}
	}
	return false
}

func anyAssignee(t *models.Task, ids []types.AssigneeID) bool {
	for _, id := range ids {
		if t.HasAssignee(id) {
			return true
		}
	}
	return false
}
