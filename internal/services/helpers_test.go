package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/yukikurage/taskboard/internal/models"
	"github.com/yukikurage/taskboard/internal/repository"
)

var errStorageDown = errors.New("storage unavailable")

// flakyKV wraps the memory backend and fails writes while broken is set.
type flakyKV struct {
	*repository.MemoryKVRepository
	mu     sync.Mutex
	broken bool
}

func newFlakyKV() *flakyKV {
	return &flakyKV{MemoryKVRepository: repository.NewMemoryKVRepository()}
}

func (f *flakyKV) setBroken(v bool) {
	f.mu.Lock()
	f.broken = v
	f.mu.Unlock()
}

func (f *flakyKV) Set(ctx context.Context, key string, value []byte) error {
	f.mu.Lock()
	broken := f.broken
	f.mu.Unlock()
	if broken {
		return errStorageDown
	}
	return f.MemoryKVRepository.Set(ctx, key, value)
}

func (f *flakyKV) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	broken := f.broken
	f.mu.Unlock()
	if broken {
		return errStorageDown
	}
	return f.MemoryKVRepository.Delete(ctx, key)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type staticSession struct {
	user *models.User
}

func (s staticSession) CurrentUser() (models.User, bool) {
	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

type storeTestEnv struct {
	kv    *flakyKV
	repo  *repository.CollectionRepository
	auth  *AuthService
	store *Store
	clock *fakeClock
}

func setupStoreTestEnv(t *testing.T) storeTestEnv {
	t.Helper()

	kv := newFlakyKV()
	repo := repository.NewCollectionRepository(kv, "taskManager_", nil)
	clock := newFakeClock()

	env := storeTestEnv{kv: kv, repo: repo, clock: clock}
	env.auth = NewAuthService(repo, WithUserCreatedHook(func(u models.User) {
		env.store.TrackUser(u)
	}))
	env.store = NewStore(repo, env.auth, WithClock(clock.Now))
	env.store.Hydrate(context.Background())
	return env
}

func ptr[T any](v T) *T {
	return &v
}
