// Package seed writes the demo workspace used on first start.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/yukikurage/taskboard/internal/models"
	"github.com/yukikurage/taskboard/internal/repository"
)

// Demo login. The password is never stored; any non-empty value logs in.
const (
	DemoEmail    = "demo@example.com"
	DemoPassword = "demo123"
)

// Options controls a seed run.
type Options struct {
	// Force overwrites existing collections.
	Force bool
	// Now anchors due dates and timestamps. Zero means time.Now.
	Now time.Time
}

// Result reports what a seed run wrote.
type Result struct {
	Seeded   bool
	Users    int
	Projects int
	Tasks    int
}

// Run writes the demo users, projects and tasks unless a user collection
// already exists. The current-session marker is never touched.
func Run(ctx context.Context, repo *repository.CollectionRepository, opts Options, logger *slog.Logger) (Result, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if !opts.Force {
		exists, err := repo.Exists(ctx, repository.KeyUsers)
		if err != nil {
			return Result{}, fmt.Errorf("failed to check user collection: %w", err)
		}
		if exists {
			logger.Info("user collection present, skipping seed")
			return Result{}, nil
		}
	}

	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	data := Demo(now)

	if err := repo.Save(ctx, repository.KeyProjects, data.Projects); err != nil {
		return Result{}, fmt.Errorf("failed to seed projects: %w", err)
	}
	if err := repo.Save(ctx, repository.KeyTasks, data.Tasks); err != nil {
		return Result{}, fmt.Errorf("failed to seed tasks: %w", err)
	}
	// Users last: their presence marks the workspace as seeded.
	if err := repo.Save(ctx, repository.KeyUsers, data.Users); err != nil {
		return Result{}, fmt.Errorf("failed to seed users: %w", err)
	}

	res := Result{
		Seeded:   true,
		Users:    len(data.Users),
		Projects: len(data.Projects),
		Tasks:    len(data.Tasks),
	}
	logger.Info("demo data seeded",
		slog.Int("users", res.Users),
		slog.Int("projects", res.Projects),
		slog.Int("tasks", res.Tasks))
	return res, nil
}

// Dataset is a complete set of demo collections.
type Dataset struct {
	Users    []models.User
	Projects []models.Project
	Tasks    []models.Task
}

// Demo builds the demo dataset relative to now.
func Demo(now time.Time) Dataset {
	now = now.UTC()
	day := func(offset int) models.Date {
		return models.DateOf(now.AddDate(0, 0, offset))
	}
	at := func(hoursAgo int) time.Time {
		return now.Add(-time.Duration(hoursAgo) * time.Hour)
	}

	users := []models.User{
		{ID: "user-demo", Email: DemoEmail, Name: "Demo User", Role: models.RoleAdmin},
		{ID: "user-sarah", Email: "sarah@example.com", Name: "Sarah Chen", Role: models.RoleMember},
		{ID: "user-marcus", Email: "marcus@example.com", Name: "Marcus Johnson", Role: models.RoleMember},
		{ID: "user-priya", Email: "priya@example.com", Name: "Priya Patel", Role: models.RoleMember},
	}

	projects := []models.Project{
		{ID: "project-website", Name: "Website Redesign", Color: "#3b82f6"},
		{ID: "project-mobile", Name: "Mobile App", Color: "#10b981"},
		{ID: "project-marketing", Name: "Marketing", Color: "#f59e0b"},
	}

	tasks := []models.Task{
		{
			ID: "task-homepage", Title: "Design new homepage",
			Description: "Create wireframes and high-fidelity mockups for the landing page.",
			Status:      models.TaskStatusInProgress, Priority: models.PriorityHigh,
			AssignedTo: "user-sarah", DueDate: day(0), ProjectID: "project-website",
			CreatedAt: at(72), UpdatedAt: at(2),
			Comments: []models.Comment{
				{ID: "comment-homepage-1", UserID: "user-demo", Text: "Please include a dark mode variant.", CreatedAt: at(5)},
				{ID: "comment-homepage-2", UserID: "user-sarah", Text: "Will do, first draft by end of day.", CreatedAt: at(2)},
			},
		},
		{
			ID: "task-auth-flow", Title: "Implement login flow",
			Description: "Email sign-in with session persistence for the mobile client.",
			Status:      models.TaskStatusPending, Priority: models.PriorityHigh,
			AssignedTo: "user-demo", DueDate: day(2), ProjectID: "project-mobile",
			CreatedAt: at(48), UpdatedAt: at(48), Comments: []models.Comment{},
		},
		{
			ID: "task-newsletter", Title: "Write launch newsletter",
			Description: "Announce the redesign to existing subscribers.",
			Status:      models.TaskStatusPending, Priority: models.PriorityMedium,
			AssignedTo: "user-priya", DueDate: day(5), ProjectID: "project-marketing",
			CreatedAt: at(30), UpdatedAt: at(20), Comments: []models.Comment{},
		},
		{
			ID: "task-analytics", Title: "Set up analytics",
			Description: "Track page views and sign-up conversion.",
			Status:      models.TaskStatusCompleted, Priority: models.PriorityLow,
			AssignedTo: "user-marcus", DueDate: day(-3), ProjectID: "project-website",
			CreatedAt: at(120), UpdatedAt: at(26), Comments: []models.Comment{},
		},
		{
			ID: "task-push", Title: "Push notification service",
			Description: "Evaluate providers and wire reminders for due tasks.",
			Status:      models.TaskStatusInProgress, Priority: models.PriorityMedium,
			AssignedTo: "user-marcus", DueDate: day(0), ProjectID: "project-mobile",
			CreatedAt: at(60), UpdatedAt: at(8),
			Comments: []models.Comment{
				{ID: "comment-push-1", UserID: "user-marcus", Text: "Shortlisted two providers.", CreatedAt: at(8)},
			},
		},
		{
			ID: "task-copy-review", Title: "Review website copy",
			Description: "Proofread all marketing pages before launch.",
			Status:      models.TaskStatusPending, Priority: models.PriorityLow,
			AssignedTo: "user-demo", DueDate: day(7), ProjectID: "project-marketing",
			CreatedAt: at(12), UpdatedAt: at(12), Comments: []models.Comment{},
		},
	}

	return Dataset{Users: users, Projects: projects, Tasks: tasks}
}
