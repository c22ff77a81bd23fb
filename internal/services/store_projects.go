package services

import (
	"context"
	"log/slog"

	"github.com/yukikurage/taskboard/internal/metrics"
	"github.com/yukikurage/taskboard/internal/models"
	"github.com/yukikurage/taskboard/internal/repository"
	"github.com/yukikurage/taskboard/internal/utils"
)

type NewProject struct {
	Name  string
	Color string
}

// ProjectUpdate is a partial project update; nil fields are left unchanged.
type ProjectUpdate struct {
	Name  *string
	Color *string
}

// AddProject appends a new project and persists the collection.
func (s *Store) AddProject(ctx context.Context, input NewProject) (models.Project, error) {
	project := models.Project{
		ID:    utils.NewID("project"),
		Name:  input.Name,
		Color: input.Color,
	}

	s.mu.Lock()
	next := make([]models.Project, len(s.projects), len(s.projects)+1)
	copy(next, s.projects)
	next = append(next, project)

	if err := s.commitProjects(ctx, next); err != nil {
		s.mu.Unlock()
		return models.Project{}, err
	}
	s.mu.Unlock()

	s.notify(Change{Collection: repository.KeyProjects, Op: OpCreate, ID: project.ID})
	return project, nil
}

// UpdateProject merges update into the project with the given id.
func (s *Store) UpdateProject(ctx context.Context, id string, update ProjectUpdate) (models.Project, bool, error) {
	s.mu.Lock()

	i := s.indexOfProject(id)
	if i < 0 {
		s.mu.Unlock()
		return models.Project{}, false, nil
	}

	project := s.projects[i]
	if update.Name != nil {
		project.Name = *update.Name
	}
	if update.Color != nil {
		project.Color = *update.Color
	}

	next := make([]models.Project, len(s.projects))
	copy(next, s.projects)
	next[i] = project

	if err := s.commitProjects(ctx, next); err != nil {
		s.mu.Unlock()
		return models.Project{}, false, err
	}
	s.mu.Unlock()

	s.notify(Change{Collection: repository.KeyProjects, Op: OpUpdate, ID: id})
	return project, true, nil
}

// DeleteProject removes the project with the given id. Tasks that reference
// it keep the dangling id.
func (s *Store) DeleteProject(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()

	i := s.indexOfProject(id)
	if i < 0 {
		s.mu.Unlock()
		return false, nil
	}

	next := make([]models.Project, 0, len(s.projects)-1)
	next = append(next, s.projects[:i]...)
	next = append(next, s.projects[i+1:]...)

	if err := s.commitProjects(ctx, next); err != nil {
		s.mu.Unlock()
		return false, err
	}
	s.mu.Unlock()

	s.notify(Change{Collection: repository.KeyProjects, Op: OpDelete, ID: id})
	return true, nil
}

func (s *Store) indexOfProject(id string) int {
	for i := range s.projects {
		if s.projects[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) commitProjects(ctx context.Context, next []models.Project) error {
	if err := s.repo.Save(ctx, repository.KeyProjects, next); err != nil {
		s.logger.Error("failed to save projects", slog.String("error", err.Error()))
		return persistError(repository.KeyProjects, err)
	}
	s.projects = next
	metrics.SetCollectionSize(repository.KeyProjects, len(next))
	return nil
}
