// Package views computes read-only projections over task collections. None
// of the results are persisted.
package views

import (
	"strings"

	"github.com/yukikurage/taskboard/internal/models"
)

// Board holds the kanban columns.
type Board struct {
	Pending    []models.Task `json:"pending"`
	InProgress []models.Task `json:"in-progress"`
	Completed  []models.Task `json:"completed"`
}

// GroupByStatus partitions tasks into kanban columns, keeping collection
// order within each column. Tasks with an unknown status are left out.
func GroupByStatus(tasks []models.Task) Board {
	board := Board{
		Pending:    []models.Task{},
		InProgress: []models.Task{},
		Completed:  []models.Task{},
	}
	for _, t := range tasks {
		switch t.Status {
		case models.TaskStatusPending:
			board.Pending = append(board.Pending, t)
		case models.TaskStatusInProgress:
			board.InProgress = append(board.InProgress, t)
		case models.TaskStatusCompleted:
			board.Completed = append(board.Completed, t)
		}
	}
	return board
}

// IsOverdue reports whether t was due before today and is not completed.
// Tasks without a due date are never overdue.
func IsOverdue(t models.Task, today models.Date) bool {
	if t.DueDate.IsZero() || today.IsZero() {
		return false
	}
	return t.DueDate < today && t.Status != models.TaskStatusCompleted
}

// TaskFilter selects tasks by exact field match. Empty fields match all.
type TaskFilter struct {
	Status     models.TaskStatus
	Priority   models.TaskPriority
	AssignedTo string
}

func (f TaskFilter) matches(t models.Task) bool {
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.Priority != "" && t.Priority != f.Priority {
		return false
	}
	if f.AssignedTo != "" && t.AssignedTo != f.AssignedTo {
		return false
	}
	return true
}

func Filter(tasks []models.Task, f TaskFilter) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// Search returns tasks whose title or description contains query, ignoring
// case. A blank query matches nothing.
func Search(tasks []models.Task, query string) []models.Task {
	q := strings.ToLower(strings.TrimSpace(query))
	out := []models.Task{}
	if q == "" {
		return out
	}
	for _, t := range tasks {
		if strings.Contains(strings.ToLower(t.Title), q) ||
			strings.Contains(strings.ToLower(t.Description), q) {
			out = append(out, t)
		}
	}
	return out
}
