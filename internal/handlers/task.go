package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskboard/internal/dto"
	apierrors "github.com/yukikurage/taskboard/internal/errors"
	"github.com/yukikurage/taskboard/internal/middleware"
	"github.com/yukikurage/taskboard/internal/models"
	"github.com/yukikurage/taskboard/internal/services"
	"github.com/yukikurage/taskboard/internal/views"
)

type TaskHandler struct {
	store *services.Store
	now   func() time.Time
}

func NewTaskHandler(store *services.Store, now func() time.Time) *TaskHandler {
	if now == nil {
		now = time.Now
	}
	return &TaskHandler{
		store: store,
		now:   now,
	}
}

// today is the UTC date used to flag overdue tasks.
func (h *TaskHandler) today() models.Date {
	return models.DateOf(h.now().UTC())
}

// ListTasks returns tasks filtered, searched and sorted by query parameters:
// status, priority, assignee ("me" or a user id), q, sort and order. The
// default order is by due date, earliest first.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	var filter views.TaskFilter

	if s := c.Query("status"); s != "" && s != "all" {
		status := models.TaskStatus(s)
		if !status.Valid() {
			apierrors.BadRequest(c, "Invalid status")
			return
		}
		filter.Status = status
	}

	if p := c.Query("priority"); p != "" && p != "all" {
		priority := models.TaskPriority(p)
		if !priority.Valid() {
			apierrors.BadRequest(c, "Invalid priority")
			return
		}
		filter.Priority = priority
	}

	switch assignee := c.Query("assignee"); assignee {
	case "", "all":
	case "me":
		user, _ := middleware.GetUser(c)
		filter.AssignedTo = user.ID
	default:
		filter.AssignedTo = assignee
	}

	tasks := views.Filter(h.store.Tasks(), filter)

	if q := c.Query("q"); strings.TrimSpace(q) != "" {
		tasks = views.Search(tasks, q)
	}

	field := c.Query("sort")
	if field == "" {
		field = string(views.SortByDueDate)
	}
	sortField, err := views.ParseSortField(field)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}
	order, err := views.ParseSortOrder(c.Query("order"))
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}
	tasks = views.Sort(tasks, sortField, order, h.store.GetUserByID)

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, h.store, h.today()))
}

// GetBoard returns tasks grouped into kanban columns
func (h *TaskHandler) GetBoard(c *gin.Context) {
	board := views.GroupByStatus(h.store.Tasks())
	c.JSON(http.StatusOK, dto.ToBoardResponse(board, h.store, h.today()))
}

// GetTask returns a specific task by ID
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, ok := h.store.GetTaskByID(c.Param("id"))
	if !ok {
		apierrors.NotFound(c, "Task not found")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(task, h.store, h.today()))
}

// CreateTask creates a new task
func (h *TaskHandler) CreateTask(c *gin.Context) {
	type CreateTaskRequest struct {
		Title       string              `json:"title" binding:"required"`
		Description string              `json:"description"`
		Status      models.TaskStatus   `json:"status" binding:"omitempty,oneof=pending in-progress completed"`
		Priority    models.TaskPriority `json:"priority" binding:"omitempty,oneof=low medium high"`
		AssignedTo  string              `json:"assignedTo"`
		DueDate     string              `json:"dueDate" binding:"required"`
		CategoryID  string              `json:"categoryId"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if strings.TrimSpace(req.Title) == "" {
		apierrors.BadRequest(c, "Title is required")
		return
	}

	dueDate, err := models.ParseDate(req.DueDate)
	if err != nil {
		apierrors.BadRequest(c, "Due date must be YYYY-MM-DD")
		return
	}

	// Defaults match the new-task form
	if req.Status == "" {
		req.Status = models.TaskStatusPending
	}
	if req.Priority == "" {
		req.Priority = models.PriorityMedium
	}

	task, err := h.store.AddTask(c.Request.Context(), services.NewTask{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		AssignedTo:  req.AssignedTo,
		DueDate:     dueDate,
		ProjectID:   req.CategoryID,
	})
	if err != nil {
		respondStoreError(c, "create task", err)
		return
	}

	notify(c, NotificationSuccess, "Task created successfully")
	c.JSON(http.StatusCreated, dto.ToTaskDTO(task, h.store, h.today()))
}

// UpdateTask applies a partial update; absent fields are left unchanged
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	type UpdateTaskRequest struct {
		Title       *string              `json:"title"`
		Description *string              `json:"description"`
		Status      *models.TaskStatus   `json:"status" binding:"omitempty,oneof=pending in-progress completed"`
		Priority    *models.TaskPriority `json:"priority" binding:"omitempty,oneof=low medium high"`
		AssignedTo  *string              `json:"assignedTo"`
		DueDate     *string              `json:"dueDate"`
		CategoryID  *string              `json:"categoryId"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		apierrors.BadRequest(c, "Title cannot be empty")
		return
	}

	update := services.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		AssignedTo:  req.AssignedTo,
		ProjectID:   req.CategoryID,
	}

	if req.DueDate != nil {
		dueDate, err := models.ParseDate(*req.DueDate)
		if err != nil {
			apierrors.BadRequest(c, "Due date must be YYYY-MM-DD")
			return
		}
		update.DueDate = &dueDate
	}

	task, ok, err := h.store.UpdateTask(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		respondStoreError(c, "update task", err)
		return
	}
	if !ok {
		apierrors.NotFound(c, "Task not found")
		return
	}

	notify(c, NotificationSuccess, "Task updated successfully")
	c.JSON(http.StatusOK, dto.ToTaskDTO(task, h.store, h.today()))
}

// DeleteTask deletes a task. Deleting an unknown task succeeds.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	deleted, err := h.store.DeleteTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondStoreError(c, "delete task", err)
		return
	}

	if deleted {
		notify(c, NotificationSuccess, "Task deleted successfully")
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
		"deleted": deleted,
	})
}

// MoveTask moves a task to another kanban column
func (h *TaskHandler) MoveTask(c *gin.Context) {
	type MoveTaskRequest struct {
		Status models.TaskStatus `json:"status" binding:"required,oneof=pending in-progress completed"`
	}

	var req MoveTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if _, ok := h.store.GetTaskByID(c.Param("id")); !ok {
		apierrors.NotFound(c, "Task not found")
		return
	}

	task, moved, err := h.store.MoveTask(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		respondStoreError(c, "move task", err)
		return
	}
	if !moved && task.ID == "" {
		apierrors.NotFound(c, "Task not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"task":  dto.ToTaskDTO(task, h.store, h.today()),
		"moved": moved,
	})
}

// AddComment appends a comment by the current user
func (h *TaskHandler) AddComment(c *gin.Context) {
	type AddCommentRequest struct {
		Text string `json:"text"`
	}

	var req AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		apierrors.BadRequest(c, "Comment text is required")
		return
	}

	if _, ok := h.store.GetTaskByID(c.Param("id")); !ok {
		apierrors.NotFound(c, "Task not found")
		return
	}

	_, added, err := h.store.AddComment(c.Request.Context(), c.Param("id"), text)
	if err != nil {
		respondStoreError(c, "add comment", err)
		return
	}
	if !added {
		apierrors.NotFound(c, "Task not found")
		return
	}

	task, _ := h.store.GetTaskByID(c.Param("id"))
	notify(c, NotificationSuccess, "Comment added")
	c.JSON(http.StatusCreated, dto.ToTaskDTO(task, h.store, h.today()))
}
