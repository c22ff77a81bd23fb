package views

import (
	"slices"

	"github.com/yukikurage/taskboard/internal/models"
)

// DashboardStats summarises a task collection for one user.
type DashboardStats struct {
	Total        int `json:"total"`
	DueToday     int `json:"dueToday"`
	Overdue      int `json:"overdue"`
	Pending      int `json:"pending"`
	InProgress   int `json:"inProgress"`
	Completed    int `json:"completed"`
	AssignedToMe int `json:"assignedToMe"`
	HighPriority int `json:"highPriority"`
	// Distribution maps each status to its share of Total in percent.
	Distribution map[models.TaskStatus]float64 `json:"distribution"`
}

func Dashboard(tasks []models.Task, currentUserID string, today models.Date) DashboardStats {
	stats := DashboardStats{
		Total:        len(tasks),
		Distribution: make(map[models.TaskStatus]float64, len(models.TaskStatuses)),
	}
	for _, t := range tasks {
		if !today.IsZero() && t.DueDate == today {
			stats.DueToday++
		}
		if IsOverdue(t, today) {
			stats.Overdue++
		}
		switch t.Status {
		case models.TaskStatusPending:
			stats.Pending++
		case models.TaskStatusInProgress:
			stats.InProgress++
		case models.TaskStatusCompleted:
			stats.Completed++
		}
		if currentUserID != "" && t.AssignedTo == currentUserID {
			stats.AssignedToMe++
		}
		if t.Priority == models.PriorityHigh {
			stats.HighPriority++
		}
	}

	counts := map[models.TaskStatus]int{
		models.TaskStatusPending:    stats.Pending,
		models.TaskStatusInProgress: stats.InProgress,
		models.TaskStatusCompleted:  stats.Completed,
	}
	for _, status := range models.TaskStatuses {
		if stats.Total == 0 {
			stats.Distribution[status] = 0
			continue
		}
		stats.Distribution[status] = float64(counts[status]) * 100 / float64(stats.Total)
	}
	return stats
}

// Recent returns up to n tasks, most recently updated first.
func Recent(tasks []models.Task, n int) []models.Task {
	out := slices.Clone(tasks)
	slices.SortStableFunc(out, func(a, b models.Task) int {
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// ProjectTaskCounts counts tasks per project id, including dangling ids.
func ProjectTaskCounts(tasks []models.Task) map[string]int {
	return countBy(tasks, func(t models.Task) string { return t.ProjectID })
}

// UserTaskCounts counts tasks per assignee id.
func UserTaskCounts(tasks []models.Task) map[string]int {
	return countBy(tasks, func(t models.Task) string { return t.AssignedTo })
}

func countBy(tasks []models.Task, key func(models.Task) string) map[string]int {
	counts := make(map[string]int)
	for _, t := range tasks {
		if k := key(t); k != "" {
			counts[k]++
		}
	}
	return counts
}

