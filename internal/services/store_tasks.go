package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/yukikurage/taskboard/internal/metrics"
	"github.com/yukikurage/taskboard/internal/models"
	"github.com/yukikurage/taskboard/internal/repository"
	"github.com/yukikurage/taskboard/internal/utils"
)

// NewTask holds the caller-supplied fields of a task. The store assigns the
// id, timestamps and an empty comment list.
type NewTask struct {
	Title       string
	Description string
	Status      models.TaskStatus
	Priority    models.TaskPriority
	AssignedTo  string
	DueDate     models.Date
	ProjectID   string
}

// TaskUpdate is a partial task update; nil fields are left unchanged.
type TaskUpdate struct {
	Title       *string
	Description *string
	Status      *models.TaskStatus
	Priority    *models.TaskPriority
	AssignedTo  *string
	DueDate     *models.Date
	ProjectID   *string
}

func (u TaskUpdate) apply(t *models.Task) {
	if u.Title != nil {
		t.Title = *u.Title
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	if u.Status != nil {
		t.Status = *u.Status
	}
	if u.Priority != nil {
		t.Priority = *u.Priority
	}
	if u.AssignedTo != nil {
		t.AssignedTo = *u.AssignedTo
	}
	if u.DueDate != nil {
		t.DueDate = *u.DueDate
	}
	if u.ProjectID != nil {
		t.ProjectID = *u.ProjectID
	}
}

// AddTask appends a new task and persists the collection.
func (s *Store) AddTask(ctx context.Context, input NewTask) (models.Task, error) {
	s.mu.Lock()

	now := s.now().UTC()
	task := models.Task{
		ID:          utils.NewID("task"),
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
		Priority:    input.Priority,
		AssignedTo:  input.AssignedTo,
		DueDate:     input.DueDate,
		ProjectID:   input.ProjectID,
		CreatedAt:   now,
		UpdatedAt:   now,
		Comments:    []models.Comment{},
	}

	next := make([]models.Task, len(s.tasks), len(s.tasks)+1)
	copy(next, s.tasks)
	next = append(next, task)

	if err := s.commitTasks(ctx, next); err != nil {
		s.mu.Unlock()
		return models.Task{}, err
	}
	s.mu.Unlock()

	s.notify(Change{Collection: repository.KeyTasks, Op: OpCreate, ID: task.ID})
	return task.Clone(), nil
}

// UpdateTask merges update into the task with the given id and refreshes its
// updatedAt. It reports false without persisting when the id is unknown.
func (s *Store) UpdateTask(ctx context.Context, id string, update TaskUpdate) (models.Task, bool, error) {
	return s.mutateTask(ctx, id, func(t *models.Task) bool {
		update.apply(t)
		return true
	})
}

// MoveTask changes a task's status for the kanban board. Moving a task to
// the column it is already in changes nothing.
func (s *Store) MoveTask(ctx context.Context, id string, status models.TaskStatus) (models.Task, bool, error) {
	return s.mutateTask(ctx, id, func(t *models.Task) bool {
		if t.Status == status {
			return false
		}
		t.Status = status
		return true
	})
}

// DeleteTask removes the task with the given id. Deleting an unknown id is a
// no-op that reports false.
func (s *Store) DeleteTask(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()

	i := indexOfTask(s.tasks, id)
	if i < 0 {
		s.mu.Unlock()
		return false, nil
	}

	next := make([]models.Task, 0, len(s.tasks)-1)
	next = append(next, s.tasks[:i]...)
	next = append(next, s.tasks[i+1:]...)

	if err := s.commitTasks(ctx, next); err != nil {
		s.mu.Unlock()
		return false, err
	}
	s.mu.Unlock()

	s.notify(Change{Collection: repository.KeyTasks, Op: OpDelete, ID: id})
	return true, nil
}

// AddComment appends a comment by the current user to a task. It reports
// false when there is no session, the task is unknown or text is blank.
func (s *Store) AddComment(ctx context.Context, taskID, text string) (models.Comment, bool, error) {
	author, ok := s.session.CurrentUser()
	if !ok || strings.TrimSpace(text) == "" {
		return models.Comment{}, false, nil
	}

	var comment models.Comment
	_, changed, err := s.mutateTask(ctx, taskID, func(t *models.Task) bool {
		comment = models.Comment{
			ID:        utils.NewID("comment"),
			UserID:    author.ID,
			Text:      text,
			CreatedAt: s.timestamp(t.UpdatedAt),
		}
		t.Comments = append(t.Comments[:len(t.Comments):len(t.Comments)], comment)
		return true
	})
	if err != nil || !changed {
		return models.Comment{}, false, err
	}
	return comment, true, nil
}

// mutateTask applies fn to a copy of the task and commits it when fn reports
// a change.
func (s *Store) mutateTask(ctx context.Context, id string, fn func(*models.Task) bool) (models.Task, bool, error) {
	s.mu.Lock()

	i := indexOfTask(s.tasks, id)
	if i < 0 {
		s.mu.Unlock()
		return models.Task{}, false, nil
	}

	task := s.tasks[i].Clone()
	if !fn(&task) {
		s.mu.Unlock()
		return task, false, nil
	}
	task.UpdatedAt = s.timestamp(task.UpdatedAt)

	next := make([]models.Task, len(s.tasks))
	copy(next, s.tasks)
	next[i] = task

	if err := s.commitTasks(ctx, next); err != nil {
		s.mu.Unlock()
		return models.Task{}, false, err
	}
	s.mu.Unlock()

	s.notify(Change{Collection: repository.KeyTasks, Op: OpUpdate, ID: id})
	return task.Clone(), true, nil
}

// commitTasks persists next and installs it as the task collection. Callers
// must hold s.mu.
func (s *Store) commitTasks(ctx context.Context, next []models.Task) error {
	if err := s.repo.Save(ctx, repository.KeyTasks, next); err != nil {
		s.logger.Error("failed to save tasks", slog.String("error", err.Error()))
		return persistError(repository.KeyTasks, err)
	}
	s.tasks = next
	metrics.SetCollectionSize(repository.KeyTasks, len(next))
	return nil
}
