package middleware

import (
	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/taskboard/internal/errors"
	"github.com/yukikurage/taskboard/internal/models"
)

// ContextKeyUser is the gin context key holding the authenticated user.
const ContextKeyUser = "currentUser"

// Session exposes the process-wide authenticated user.
type Session interface {
	CurrentUser() (models.User, bool)
}

// RequireAuth rejects requests while no user is logged in
func RequireAuth(session Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := session.CurrentUser()
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		// Store user in context for easy access in handlers
		c.Set(ContextKeyUser, user)
		c.Next()
	}
}

// GetUser retrieves the current user from context
func GetUser(c *gin.Context) (models.User, bool) {
	v, exists := c.Get(ContextKeyUser)
	if !exists {
		return models.User{}, false
	}
	user, ok := v.(models.User)
	return user, ok
}
