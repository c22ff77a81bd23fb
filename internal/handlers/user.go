package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskboard/internal/dto"
	apierrors "github.com/yukikurage/taskboard/internal/errors"
	"github.com/yukikurage/taskboard/internal/services"
	"github.com/yukikurage/taskboard/internal/views"
)

type UserHandler struct {
	store *services.Store
}

func NewUserHandler(store *services.Store) *UserHandler {
	return &UserHandler{
		store: store,
	}
}

// ListUsers returns the team with assigned task counts
func (h *UserHandler) ListUsers(c *gin.Context) {
	counts := views.UserTaskCounts(h.store.Tasks())
	users := h.store.Users()

	out := make([]dto.UserDTO, len(users))
	for i, u := range users {
		out[i] = dto.ToUserDTO(u)
		count := counts[u.ID]
		out[i].TaskCount = &count
	}

	c.JSON(http.StatusOK, gin.H{
		"users": out,
	})
}

func (h *UserHandler) GetUser(c *gin.Context) {
	user, ok := h.store.GetUserByID(c.Param("id"))
	if !ok {
		apierrors.NotFound(c, "User not found")
		return
	}

	out := dto.ToUserDTO(user)
	count := views.UserTaskCounts(h.store.Tasks())[user.ID]
	out.TaskCount = &count
	c.JSON(http.StatusOK, out)
}
