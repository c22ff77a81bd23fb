package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/yukikurage/taskboard/internal/metrics"
	"github.com/yukikurage/taskboard/internal/models"
	"github.com/yukikurage/taskboard/internal/repository"
	"github.com/yukikurage/taskboard/internal/utils"
)

// AuthService holds the single process-wide session and owns the persisted
// user collection and current-session marker.
//
// Passwords are required to be non-empty but are never stored or verified.
// This is a demo login, not a security boundary.
type AuthService struct {
	repo   *repository.CollectionRepository
	logger *slog.Logger

	mu      sync.RWMutex
	current *models.User

	onUserCreated []func(models.User)
}

// AuthOption configures an AuthService.
type AuthOption func(*AuthService)

// WithUserCreatedHook registers fn to run after a signup is persisted.
func WithUserCreatedHook(fn func(models.User)) AuthOption {
	return func(s *AuthService) {
		s.onUserCreated = append(s.onUserCreated, fn)
	}
}

// WithAuthLogger sets the logger used by the service.
func WithAuthLogger(logger *slog.Logger) AuthOption {
	return func(s *AuthService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewAuthService creates a new AuthService.
func NewAuthService(repo *repository.CollectionRepository, opts ...AuthOption) *AuthService {
	s := &AuthService{
		repo:   repo,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Restore re-establishes the session from the persisted marker. It reports
// whether a session was found.
func (s *AuthService) Restore(ctx context.Context) bool {
	var user models.User
	if !s.repo.Load(ctx, repository.KeyCurrentUser, &user) || user.ID == "" {
		return false
	}

	s.mu.Lock()
	s.current = &user
	s.mu.Unlock()

	s.logger.Info("session restored", slog.String("user_id", user.ID))
	return true
}

// CurrentUser returns the authenticated user, if any.
func (s *AuthService) CurrentUser() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return models.User{}, false
	}
	return *s.current, true
}

// IsAuthenticated reports whether a session is active.
func (s *AuthService) IsAuthenticated() bool {
	_, ok := s.CurrentUser()
	return ok
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// LoginE looks up the user by exact email and establishes the session.
// On failure the session is left unchanged.
func (s *AuthService) LoginE(ctx context.Context, input LoginInput) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, found := findUserByEmail(s.loadUsers(ctx), input.Email)
	if !found || input.Password == "" {
		return models.User{}, ErrInvalidCredentials
	}

	if err := s.establish(ctx, user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// Login is the boolean form of LoginE.
func (s *AuthService) Login(ctx context.Context, email, password string) bool {
	_, err := s.LoginE(ctx, LoginInput{Email: email, Password: password})
	metrics.ObserveAuth("login", err == nil)
	if err != nil && !errors.Is(err, ErrInvalidCredentials) {
		s.logger.Error("login failed", slog.String("error", err.Error()))
	}
	return err == nil
}

// SignupInput represents the required information to create a new user.
type SignupInput struct {
	Email    string
	Password string
	Name     string
}

// SignupE creates a member account and makes it the current session. Email
// uniqueness is an exact, case-sensitive comparison.
func (s *AuthService) SignupE(ctx context.Context, input SignupInput) (models.User, error) {
	if input.Email == "" {
		return models.User{}, ErrEmailRequired
	}
	if input.Password == "" {
		return models.User{}, ErrPasswordRequired
	}

	s.mu.Lock()
	users := s.loadUsers(ctx)
	if _, taken := findUserByEmail(users, input.Email); taken {
		s.mu.Unlock()
		return models.User{}, ErrEmailTaken
	}

	user := models.User{
		ID:    utils.NewID("user"),
		Email: input.Email,
		Name:  strings.TrimSpace(input.Name),
		Role:  models.RoleMember,
	}

	if err := s.repo.Save(ctx, repository.KeyUsers, append(users, user)); err != nil {
		s.mu.Unlock()
		return models.User{}, persistError(repository.KeyUsers, err)
	}

	if err := s.establish(ctx, user); err != nil {
		s.mu.Unlock()
		return models.User{}, err
	}
	hooks := s.onUserCreated
	s.mu.Unlock()

	s.logger.Info("user registered", slog.String("user_id", user.ID))
	for _, fn := range hooks {
		fn(user)
	}
	return user, nil
}

// Signup is the boolean form of SignupE.
func (s *AuthService) Signup(ctx context.Context, email, password, name string) bool {
	_, err := s.SignupE(ctx, SignupInput{Email: email, Password: password, Name: name})
	metrics.ObserveAuth("signup", err == nil)
	if err != nil && errors.Is(err, ErrPersist) {
		s.logger.Error("signup failed", slog.String("error", err.Error()))
	}
	return err == nil
}

// Logout clears the session and its persisted marker. The in-memory session
// is cleared even when removing the marker fails.
func (s *AuthService) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	if err := s.repo.Remove(ctx, repository.KeyCurrentUser); err != nil {
		s.logger.Warn("failed to clear session marker", slog.String("error", err.Error()))
		return persistError(repository.KeyCurrentUser, err)
	}
	return nil
}

// establish persists the session marker and then sets the in-memory session.
// Callers must hold s.mu.
func (s *AuthService) establish(ctx context.Context, user models.User) error {
	if err := s.repo.Save(ctx, repository.KeyCurrentUser, user); err != nil {
		return persistError(repository.KeyCurrentUser, err)
	}
	s.current = &user
	return nil
}

func (s *AuthService) loadUsers(ctx context.Context) []models.User {
	var users []models.User
	s.repo.Load(ctx, repository.KeyUsers, &users)
	return users
}

func findUserByEmail(users []models.User, email string) (models.User, bool) {
	for _, u := range users {
		if u.Email == email {
			return u, true
		}
	}
	return models.User{}, false
}
