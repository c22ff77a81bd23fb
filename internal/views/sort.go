package views

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/yukikurage/taskboard/internal/models"
)

type SortField string

const (
	SortByTitle      SortField = "title"
	SortByAssignedTo SortField = "assignedTo"
	SortByPriority   SortField = "priority"
	SortByDueDate    SortField = "dueDate"
	SortByStatus     SortField = "status"
)

type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// UserLookup resolves an assignee id to a user.
type UserLookup func(id string) (models.User, bool)

// ParseSortField validates a field name from a query string.
func ParseSortField(s string) (SortField, error) {
	switch f := SortField(s); f {
	case SortByTitle, SortByAssignedTo, SortByPriority, SortByDueDate, SortByStatus:
		return f, nil
	default:
		return "", fmt.Errorf("unknown sort field %q", s)
	}
}

// ParseSortOrder validates an order; empty means ascending.
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(s) {
	case "", string(Asc):
		return Asc, nil
	case string(Desc):
		return Desc, nil
	default:
		return "", fmt.Errorf("unknown sort order %q", s)
	}
}

// Sort returns a sorted copy of tasks. Equal elements keep their collection
// order in both directions. Assignees that lookup cannot resolve sort as an
// empty name.
func Sort(tasks []models.Task, field SortField, order SortOrder, lookup UserLookup) []models.Task {
	out := slices.Clone(tasks)
	compare := comparator(field, lookup)
	if compare == nil {
		return out
	}
	if order == Desc {
		asc := compare
		compare = func(a, b models.Task) int { return asc(b, a) }
	}
	slices.SortStableFunc(out, compare)
	return out
}

func comparator(field SortField, lookup UserLookup) func(a, b models.Task) int {
	switch field {
	case SortByTitle:
		return func(a, b models.Task) int { return cmp.Compare(a.Title, b.Title) }
	case SortByAssignedTo:
		name := func(id string) string {
			if lookup == nil {
				return ""
			}
			u, ok := lookup(id)
			if !ok {
				return ""
			}
			return u.Name
		}
		return func(a, b models.Task) int { return cmp.Compare(name(a.AssignedTo), name(b.AssignedTo)) }
	case SortByPriority:
		return func(a, b models.Task) int { return cmp.Compare(a.Priority.Rank(), b.Priority.Rank()) }
	case SortByDueDate:
		return func(a, b models.Task) int { return cmp.Compare(a.DueDate, b.DueDate) }
	case SortByStatus:
		return func(a, b models.Task) int { return cmp.Compare(a.Status.Rank(), b.Status.Rank()) }
	default:
		return nil
	}
}
