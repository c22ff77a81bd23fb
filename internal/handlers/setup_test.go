package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/taskboard/internal/database"
	"github.com/yukikurage/taskboard/internal/models"
	"github.com/yukikurage/taskboard/internal/repository"
	"github.com/yukikurage/taskboard/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testNow = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

type apiTestEnv struct {
	db     *gorm.DB
	repo   *repository.CollectionRepository
	auth   *services.AuthService
	store  *services.Store
	router *gin.Engine
}

func setupAPITestEnv(t *testing.T) *apiTestEnv {
	t.Helper()

	// Create in-memory SQLite database
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, database.Migrate(db))

	env := &apiTestEnv{db: db}
	env.repo = repository.NewCollectionRepository(repository.NewGormKVRepository(db), "taskManager_", nil)
	env.auth = services.NewAuthService(env.repo, services.WithUserCreatedHook(func(u models.User) {
		env.store.TrackUser(u)
	}))
	env.store = services.NewStore(env.repo, env.auth, services.WithClock(func() time.Time { return testNow }))
	env.store.Hydrate(context.Background())

	gin.SetMode(gin.TestMode)
	env.router = gin.New()
	env.router.Use(sessions.Sessions(SessionCookieName, cookie.NewStore([]byte("secret"))))
	RegisterRoutes(env.router, Dependencies{
		Auth:  env.auth,
		Store: env.store,
		Now:   func() time.Time { return testNow },
	})

	return env
}

// login signs up a fresh user and makes it the process session.
func (env *apiTestEnv) login(t *testing.T, email, name string) models.User {
	t.Helper()
	user, err := env.auth.SignupE(context.Background(), services.SignupInput{
		Email:    email,
		Password: "secret",
		Name:     name,
	})
	require.NoError(t, err)
	return user
}

func (env *apiTestEnv) addTask(t *testing.T, input services.NewTask) models.Task {
	t.Helper()
	if input.Status == "" {
		input.Status = models.TaskStatusPending
	}
	if input.Priority == "" {
		input.Priority = models.PriorityMedium
	}
	task, err := env.store.AddTask(context.Background(), input)
	require.NoError(t, err)
	return task
}

func (env *apiTestEnv) do(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, path, bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
