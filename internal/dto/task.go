package dto

import (
	"time"

	"github.com/yukikurage/taskboard/internal/models"
	"github.com/yukikurage/taskboard/internal/views"
)

// Fallback labels for references that no longer resolve.
const (
	UnassignedLabel = "Unassigned"
	NoProjectLabel  = "No project"
	UnknownUser     = "Unknown user"
)

// Resolver looks up referenced records.
type Resolver interface {
	GetUserByID(id string) (models.User, bool)
	GetProjectByID(id string) (models.Project, bool)
}

// UserDTO represents a user in API responses
type UserDTO struct {
	ID        string          `json:"id"`
	Email     string          `json:"email"`
	Name      string          `json:"name"`
	Role      models.UserRole `json:"role"`
	Avatar    string          `json:"avatar,omitempty"`
	TaskCount *int            `json:"taskCount,omitempty"`
}

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	TaskCount *int   `json:"taskCount,omitempty"`
}

// CommentDTO represents a comment with its resolved author
type CommentDTO struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	AuthorName string    `json:"authorName"`
	Text       string    `json:"text"`
	Date       time.Time `json:"date"`
}

// TaskDTO represents a task in API responses. Assignee and Project are nil
// when the reference is empty or dangling. Overdue is relative to the date
// the response was built.
type TaskDTO struct {
	ID           string              `json:"id"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	Status       models.TaskStatus   `json:"status"`
	Priority     models.TaskPriority `json:"priority"`
	AssignedTo   string              `json:"assignedTo"`
	Assignee     *UserDTO            `json:"assignee"`
	AssigneeName string              `json:"assigneeName"`
	DueDate      models.Date         `json:"dueDate"`
	Overdue      bool                `json:"overdue"`
	CategoryID   string              `json:"categoryId"`
	Project      *ProjectDTO         `json:"project"`
	ProjectName  string              `json:"projectName"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
	Comments     []CommentDTO        `json:"comments"`
}

// TaskListResponse represents a list of tasks
type TaskListResponse struct {
	Tasks []TaskDTO `json:"tasks"`
	Count int       `json:"count"`
}

// BoardResponse holds the kanban columns
type BoardResponse struct {
	Pending    []TaskDTO `json:"pending"`
	InProgress []TaskDTO `json:"in-progress"`
	Completed  []TaskDTO `json:"completed"`
}

// DashboardResponse combines stats with the most recent tasks
type DashboardResponse struct {
	Stats  views.DashboardStats `json:"stats"`
	Recent []TaskDTO            `json:"recent"`
}

// Conversion functions

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:     user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Role:   user.Role,
		Avatar: user.Avatar,
	}
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(project models.Project) ProjectDTO {
	return ProjectDTO{
		ID:    project.ID,
		Name:  project.Name,
		Color: project.Color,
	}
}

// ToTaskDTO converts a Task model to TaskDTO, resolving references through r
func ToTaskDTO(task models.Task, r Resolver, today models.Date) TaskDTO {
	dto := TaskDTO{
		ID:           task.ID,
		Title:        task.Title,
		Description:  task.Description,
		Status:       task.Status,
		Priority:     task.Priority,
		AssignedTo:   task.AssignedTo,
		AssigneeName: UnassignedLabel,
		DueDate:      task.DueDate,
		Overdue:      views.IsOverdue(task, today),
		CategoryID:   task.ProjectID,
		ProjectName:  NoProjectLabel,
		CreatedAt:    task.CreatedAt,
		UpdatedAt:    task.UpdatedAt,
		Comments:     make([]CommentDTO, len(task.Comments)),
	}

	if user, ok := r.GetUserByID(task.AssignedTo); ok {
		assignee := ToUserDTO(user)
		dto.Assignee = &assignee
		dto.AssigneeName = user.Name
	}

	if project, ok := r.GetProjectByID(task.ProjectID); ok {
		p := ToProjectDTO(project)
		dto.Project = &p
		dto.ProjectName = project.Name
	}

	for i, comment := range task.Comments {
		author := UnknownUser
		if user, ok := r.GetUserByID(comment.UserID); ok {
			author = user.Name
		}
		dto.Comments[i] = CommentDTO{
			ID:         comment.ID,
			UserID:     comment.UserID,
			AuthorName: author,
			Text:       comment.Text,
			Date:       comment.CreatedAt,
		}
	}

	return dto
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task, r Resolver, today models.Date) []TaskDTO {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task, r, today)
	}
	return items
}

// ToTaskListResponse converts a slice of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task, r Resolver, today models.Date) TaskListResponse {
	return TaskListResponse{
		Tasks: ToTaskDTOs(tasks, r, today),
		Count: len(tasks),
	}
}

// ToBoardResponse converts kanban columns
func ToBoardResponse(board views.Board, r Resolver, today models.Date) BoardResponse {
	return BoardResponse{
		Pending:    ToTaskDTOs(board.Pending, r, today),
		InProgress: ToTaskDTOs(board.InProgress, r, today),
		Completed:  ToTaskDTOs(board.Completed, r, today),
	}
}
