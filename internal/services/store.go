package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/yukikurage/taskboard/internal/metrics"
	"github.com/yukikurage/taskboard/internal/models"
	"github.com/yukikurage/taskboard/internal/repository"
)

// Change operations delivered to subscribers.
const (
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

// Change describes one committed mutation.
type Change struct {
	Collection string
	Op         string
	ID         string
}

// SessionReader exposes the authenticated user to the store.
type SessionReader interface {
	CurrentUser() (models.User, bool)
}

// Store owns the task, project and user collections. Every mutation rewrites
// the whole affected collection through the repository and only then replaces
// the in-memory copy, so a failed save leaves the store unchanged.
type Store struct {
	repo    *repository.CollectionRepository
	session SessionReader
	logger  *slog.Logger
	now     func() time.Time

	mu       sync.RWMutex
	tasks    []models.Task
	projects []models.Project
	users    []models.User

	subMu   sync.Mutex
	subs    map[int]func(Change)
	nextSub int
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = now
	}
}

// WithStoreLogger sets the logger used by the store.
func WithStoreLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore creates an empty Store. Call Hydrate to load persisted state.
func NewStore(repo *repository.CollectionRepository, session SessionReader, opts ...StoreOption) *Store {
	s := &Store{
		repo:    repo,
		session: session,
		logger:  slog.Default(),
		now:     time.Now,
		subs:    make(map[int]func(Change)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Hydrate loads all three collections. Absent or unreadable collections start
// empty.
func (s *Store) Hydrate(ctx context.Context) {
	var (
		tasks    []models.Task
		projects []models.Project
		users    []models.User
	)
	s.repo.Load(ctx, repository.KeyTasks, &tasks)
	s.repo.Load(ctx, repository.KeyProjects, &projects)
	s.repo.Load(ctx, repository.KeyUsers, &users)

	s.mu.Lock()
	s.tasks = tasks
	s.projects = projects
	s.users = users
	s.mu.Unlock()

	metrics.SetCollectionSize(repository.KeyTasks, len(tasks))
	metrics.SetCollectionSize(repository.KeyProjects, len(projects))
	metrics.SetCollectionSize(repository.KeyUsers, len(users))

	s.logger.Info("store hydrated",
		slog.Int("tasks", len(tasks)),
		slog.Int("projects", len(projects)),
		slog.Int("users", len(users)))
}

// TrackUser records a user created outside the store, such as by signup.
// The user collection is already persisted by the caller.
func (s *Store) TrackUser(user models.User) {
	s.mu.Lock()
	replaced := false
	for i := range s.users {
		if s.users[i].ID == user.ID {
			s.users[i] = user
			replaced = true
			break
		}
	}
	if !replaced {
		s.users = append(s.users, user)
	}
	count := len(s.users)
	s.mu.Unlock()

	metrics.SetCollectionSize(repository.KeyUsers, count)
	s.notify(Change{Collection: repository.KeyUsers, Op: OpCreate, ID: user.ID})
}

// Subscribe registers fn to receive every committed change. The returned
// function removes the subscription.
func (s *Store) Subscribe(fn func(Change)) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

// notify must be called without s.mu held so subscribers may read the store.
func (s *Store) notify(change Change) {
	metrics.ObserveMutation(change.Collection, change.Op)

	s.subMu.Lock()
	fns := make([]func(Change), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(change)
	}
}

// Tasks returns a copy of the task collection in insertion order.
func (s *Store) Tasks() []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = t.Clone()
	}
	return out
}

// Projects returns a copy of the project collection.
func (s *Store) Projects() []models.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Project, len(s.projects))
	copy(out, s.projects)
	return out
}

// Users returns a copy of the user collection.
func (s *Store) Users() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.User, len(s.users))
	copy(out, s.users)
	return out
}

func (s *Store) GetTaskByID(id string) (models.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := indexOfTask(s.tasks, id); i >= 0 {
		return s.tasks[i].Clone(), true
	}
	return models.Task{}, false
}

func (s *Store) GetProjectByID(id string) (models.Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.projects {
		if p.ID == id {
			return p, true
		}
	}
	return models.Project{}, false
}

func (s *Store) GetUserByID(id string) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.ID == id {
			return u, true
		}
	}
	return models.User{}, false
}

// timestamp returns the current UTC time, never earlier than prev.
func (s *Store) timestamp(prev time.Time) time.Time {
	now := s.now().UTC()
	if now.Before(prev) {
		return prev
	}
	return now
}

func indexOfTask(tasks []models.Task, id string) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}
