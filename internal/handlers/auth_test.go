package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/taskboard/internal/dto"
	apierrors "github.com/yukikurage/taskboard/internal/errors"
	"github.com/yukikurage/taskboard/internal/middleware"
	"github.com/yukikurage/taskboard/internal/models"
)

func TestAuthHandler_Signup(t *testing.T) {
	env := setupAPITestEnv(t)

	payload := map[string]string{
		"email":    "new@example.com",
		"password": "supersecret",
		"name":     "New User",
	}
	w := env.do(t, http.MethodPost, "/api/auth/signup", payload)

	require.Equal(t, http.StatusCreated, w.Code)

	response := decodeBody[dto.UserDTO](t, w)
	require.Equal(t, payload["email"], response.Email)
	require.Equal(t, models.RoleMember, response.Role)

	current, ok := env.auth.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, response.ID, current.ID)

	_, tracked := env.store.GetUserByID(response.ID)
	assert.True(t, tracked)
}

func TestAuthHandler_SignupDuplicate(t *testing.T) {
	env := setupAPITestEnv(t)
	env.login(t, "a@x.com", "Alice")

	w := env.do(t, http.MethodPost, "/api/auth/signup", map[string]string{
		"email": "a@x.com", "password": "pw2", "name": "Alice2",
	})

	require.Equal(t, http.StatusConflict, w.Code)
	assert.Len(t, env.store.Users(), 1)
	assert.Equal(t, "Alice", env.store.Users()[0].Name)
}

func TestAuthHandler_SignupInvalid(t *testing.T) {
	env := setupAPITestEnv(t)

	w := env.do(t, http.MethodPost, "/api/auth/signup", map[string]string{
		"email": "not-an-email", "password": "pw", "name": "X",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Login(t *testing.T) {
	env := setupAPITestEnv(t)
	env.login(t, "existing@example.com", "Existing")
	w := env.do(t, http.MethodPost, "/api/auth/logout", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.False(t, env.auth.IsAuthenticated())

	w = env.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "existing@example.com",
		"password": "anything",
	})

	require.Equal(t, http.StatusOK, w.Code)
	response := decodeBody[dto.UserDTO](t, w)
	require.Equal(t, "Existing", response.Name)
	require.True(t, env.auth.IsAuthenticated())

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies, "expected notification cookie to be set")
}

func TestAuthHandler_LoginUnknownEmail(t *testing.T) {
	env := setupAPITestEnv(t)

	w := env.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "nouser@x.com",
		"password": "anything",
	})

	require.Equal(t, http.StatusUnauthorized, w.Code)
	response := decodeBody[apierrors.APIError](t, w)
	assert.Equal(t, apierrors.ErrCodeInvalidCredentials, response.Code)
	assert.False(t, env.auth.IsAuthenticated())
}

func TestAuthHandler_GetCurrentUser(t *testing.T) {
	env := setupAPITestEnv(t)

	w := env.do(t, http.MethodGet, "/api/auth/me", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	user := env.login(t, "current@example.com", "Current")

	w = env.do(t, http.MethodGet, "/api/auth/me", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, user.ID, decodeBody[dto.UserDTO](t, w).ID)
}

func TestAuthHandler_GetCurrentUser_NoContext(t *testing.T) {
	env := setupAPITestEnv(t)
	handler := NewAuthHandler(env.auth)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	handler.GetCurrentUser(c)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Set(middleware.ContextKeyUser, models.User{ID: "user-1", Name: "Ctx"})
	handler.GetCurrentUser(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Ctx", decodeBody[dto.UserDTO](t, w).Name)
}
