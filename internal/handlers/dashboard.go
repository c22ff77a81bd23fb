package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskboard/internal/dto"
	"github.com/yukikurage/taskboard/internal/middleware"
	"github.com/yukikurage/taskboard/internal/models"
	"github.com/yukikurage/taskboard/internal/services"
	"github.com/yukikurage/taskboard/internal/views"
)

// RecentTaskLimit is the number of tasks shown under "recent activity".
const RecentTaskLimit = 5

type DashboardHandler struct {
	store *services.Store
	now   func() time.Time
}

func NewDashboardHandler(store *services.Store, now func() time.Time) *DashboardHandler {
	if now == nil {
		now = time.Now
	}
	return &DashboardHandler{
		store: store,
		now:   now,
	}
}

// GetDashboard returns stats for the current user. "Today" is the UTC date.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	user, _ := middleware.GetUser(c)
	tasks := h.store.Tasks()
	today := models.DateOf(h.now().UTC())

	c.JSON(http.StatusOK, dto.DashboardResponse{
		Stats:  views.Dashboard(tasks, user.ID, today),
		Recent: dto.ToTaskDTOs(views.Recent(tasks, RecentTaskLimit), h.store, today),
	})
}
