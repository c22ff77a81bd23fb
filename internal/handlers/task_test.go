package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/taskboard/internal/dto"
	"github.com/yukikurage/taskboard/internal/models"
	"github.com/yukikurage/taskboard/internal/services"
)

// TaskHandlerTestSuite defines the test suite for TaskHandler
type TaskHandlerTestSuite struct {
	suite.Suite
	env  *apiTestEnv
	user models.User
}

func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}

// SetupTest runs before each test
func (suite *TaskHandlerTestSuite) SetupTest() {
	suite.env = setupAPITestEnv(suite.T())
	suite.user = suite.env.login(suite.T(), "alice@example.com", "Alice")
}

func (suite *TaskHandlerTestSuite) addTask(input services.NewTask) models.Task {
	return suite.env.addTask(suite.T(), input)
}

func (suite *TaskHandlerTestSuite) TestListTasks_Unauthorized() {
	suite.Require().NoError(suite.env.auth.Logout(context.Background()))

	w := suite.env.do(suite.T(), http.MethodGet, "/api/tasks", nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *TaskHandlerTestSuite) TestListTasks_Filters() {
	suite.addTask(services.NewTask{Title: "mine pending", AssignedTo: suite.user.ID})
	suite.addTask(services.NewTask{Title: "theirs high", AssignedTo: "user-other", Priority: models.PriorityHigh})
	suite.addTask(services.NewTask{Title: "mine done", AssignedTo: suite.user.ID, Status: models.TaskStatusCompleted})

	w := suite.env.do(suite.T(), http.MethodGet, "/api/tasks", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal(3, decodeBody[dto.TaskListResponse](suite.T(), w).Count)

	w = suite.env.do(suite.T(), http.MethodGet, "/api/tasks?assignee=me&status=pending", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	resp := decodeBody[dto.TaskListResponse](suite.T(), w)
	suite.Require().Len(resp.Tasks, 1)
	suite.Equal("mine pending", resp.Tasks[0].Title)

	w = suite.env.do(suite.T(), http.MethodGet, "/api/tasks?priority=high&status=all", nil)
	resp = decodeBody[dto.TaskListResponse](suite.T(), w)
	suite.Require().Len(resp.Tasks, 1)
	suite.Equal("theirs high", resp.Tasks[0].Title)

	w = suite.env.do(suite.T(), http.MethodGet, "/api/tasks?status=archived", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestListTasks_SearchAndSort() {
	suite.addTask(services.NewTask{Title: "Report B", DueDate: "2024-03-05"})
	suite.addTask(services.NewTask{Title: "Report A", DueDate: "2024-03-02"})
	suite.addTask(services.NewTask{Title: "Unrelated", Description: "see report", DueDate: "2024-03-09"})
	suite.addTask(services.NewTask{Title: "Other", DueDate: "2024-03-01"})

	w := suite.env.do(suite.T(), http.MethodGet, "/api/tasks?q=REPORT&sort=dueDate&order=desc", nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	resp := decodeBody[dto.TaskListResponse](suite.T(), w)
	titles := make([]string, len(resp.Tasks))
	for i, task := range resp.Tasks {
		titles[i] = task.Title
	}
	suite.Equal([]string{"Unrelated", "Report B", "Report A"}, titles)

	w = suite.env.do(suite.T(), http.MethodGet, "/api/tasks?sort=createdAt", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestGetBoard() {
	suite.addTask(services.NewTask{Title: "t1", Status: models.TaskStatusPending})
	suite.addTask(services.NewTask{Title: "t2", Status: models.TaskStatusCompleted})

	w := suite.env.do(suite.T(), http.MethodGet, "/api/tasks/board", nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	board := decodeBody[dto.BoardResponse](suite.T(), w)
	suite.Len(board.Pending, 1)
	suite.Empty(board.InProgress)
	suite.Len(board.Completed, 1)
}

func (suite *TaskHandlerTestSuite) TestGetTask_ResolvesDanglingReferences() {
	task := suite.addTask(services.NewTask{Title: "orphan", AssignedTo: "user-gone", ProjectID: "project-gone"})

	w := suite.env.do(suite.T(), http.MethodGet, "/api/tasks/"+task.ID, nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	got := decodeBody[dto.TaskDTO](suite.T(), w)
	suite.Nil(got.Assignee)
	suite.Equal(dto.UnassignedLabel, got.AssigneeName)
	suite.Nil(got.Project)
	suite.Equal(dto.NoProjectLabel, got.ProjectName)
}

func (suite *TaskHandlerTestSuite) TestGetTask_NotFound() {
	w := suite.env.do(suite.T(), http.MethodGet, "/api/tasks/task-missing", nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_Success() {
	w := suite.env.do(suite.T(), http.MethodPost, "/api/tasks", map[string]any{
		"title":      "New Task",
		"dueDate":    "2024-03-10",
		"assignedTo": suite.user.ID,
	})
	suite.Require().Equal(http.StatusCreated, w.Code)

	got := decodeBody[dto.TaskDTO](suite.T(), w)
	suite.Equal("New Task", got.Title)
	suite.Equal(models.TaskStatusPending, got.Status)
	suite.Equal(models.PriorityMedium, got.Priority)
	suite.Equal("Alice", got.AssigneeName)
	suite.Equal(testNow, got.CreatedAt)
	suite.Empty(got.Comments)

	_, ok := suite.env.store.GetTaskByID(got.ID)
	suite.True(ok)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_InvalidRequest() {
	cases := []map[string]any{
		{"dueDate": "2024-03-10"},
		{"title": "   ", "dueDate": "2024-03-10"},
		{"title": "x"},
		{"title": "x", "dueDate": "03/10/2024"},
		{"title": "x", "dueDate": "2024-03-10", "status": "inProgress"},
		{"title": "x", "dueDate": "2024-03-10", "priority": "urgent"},
	}

	for _, body := range cases {
		w := suite.env.do(suite.T(), http.MethodPost, "/api/tasks", body)
		suite.Equal(http.StatusBadRequest, w.Code, "body: %v", body)
	}
	suite.Empty(suite.env.store.Tasks())
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_Partial() {
	task := suite.addTask(services.NewTask{Title: "Original", Description: "keep me", DueDate: "2024-03-10"})

	w := suite.env.do(suite.T(), http.MethodPatch, "/api/tasks/"+task.ID, map[string]any{
		"title":    "Updated",
		"priority": "high",
	})
	suite.Require().Equal(http.StatusOK, w.Code)

	got := decodeBody[dto.TaskDTO](suite.T(), w)
	suite.Equal("Updated", got.Title)
	suite.Equal(models.PriorityHigh, got.Priority)
	suite.Equal("keep me", got.Description)
	suite.Equal(models.Date("2024-03-10"), got.DueDate)
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_InvalidRequest() {
	task := suite.addTask(services.NewTask{Title: "Original"})

	w := suite.env.do(suite.T(), http.MethodPatch, "/api/tasks/"+task.ID, map[string]any{"title": ""})
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.env.do(suite.T(), http.MethodPatch, "/api/tasks/"+task.ID, map[string]any{"status": "done"})
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.env.do(suite.T(), http.MethodPatch, "/api/tasks/task-missing", map[string]any{"title": "x"})
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestDeleteTask_Idempotent() {
	task := suite.addTask(services.NewTask{Title: "Delete me"})

	w := suite.env.do(suite.T(), http.MethodDelete, "/api/tasks/"+task.ID, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal(true, decodeBody[map[string]any](suite.T(), w)["deleted"])

	w = suite.env.do(suite.T(), http.MethodDelete, "/api/tasks/"+task.ID, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal(false, decodeBody[map[string]any](suite.T(), w)["deleted"])

	_, ok := suite.env.store.GetTaskByID(task.ID)
	suite.False(ok)
}

func (suite *TaskHandlerTestSuite) TestMoveTask() {
	task := suite.addTask(services.NewTask{Title: "Move me"})

	w := suite.env.do(suite.T(), http.MethodPost, "/api/tasks/"+task.ID+"/move", map[string]string{"status": "in-progress"})
	suite.Require().Equal(http.StatusOK, w.Code)

	type moveResponse struct {
		Task  dto.TaskDTO `json:"task"`
		Moved bool        `json:"moved"`
	}
	resp := decodeBody[moveResponse](suite.T(), w)
	suite.True(resp.Moved)
	suite.Equal(models.TaskStatusInProgress, resp.Task.Status)

	w = suite.env.do(suite.T(), http.MethodPost, "/api/tasks/"+task.ID+"/move", map[string]string{"status": "in-progress"})
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.False(decodeBody[moveResponse](suite.T(), w).Moved)

	w = suite.env.do(suite.T(), http.MethodPost, "/api/tasks/task-missing/move", map[string]string{"status": "completed"})
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestAddComment() {
	task := suite.addTask(services.NewTask{Title: "Discuss"})

	w := suite.env.do(suite.T(), http.MethodPost, "/api/tasks/"+task.ID+"/comments", map[string]string{"text": "  Looks good  "})
	suite.Require().Equal(http.StatusCreated, w.Code)

	got := decodeBody[dto.TaskDTO](suite.T(), w)
	suite.Require().Len(got.Comments, 1)
	suite.Equal("Looks good", got.Comments[0].Text)
	suite.Equal("Alice", got.Comments[0].AuthorName)
	suite.Equal(suite.user.ID, got.Comments[0].UserID)
}

func (suite *TaskHandlerTestSuite) TestAddComment_Empty() {
	task := suite.addTask(services.NewTask{Title: "Discuss"})

	w := suite.env.do(suite.T(), http.MethodPost, "/api/tasks/"+task.ID+"/comments", map[string]string{"text": "   "})
	suite.Equal(http.StatusBadRequest, w.Code)

	got, _ := suite.env.store.GetTaskByID(task.ID)
	suite.Empty(got.Comments)

	w = suite.env.do(suite.T(), http.MethodPost, "/api/tasks/task-missing/comments", map[string]string{"text": "hi"})
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestListTasks_DefaultsToDueDateOrder() {
	suite.addTask(services.NewTask{Title: "later", DueDate: "2024-03-09"})
	suite.addTask(services.NewTask{Title: "sooner", DueDate: "2024-03-02"})
	suite.addTask(services.NewTask{Title: "middle", DueDate: "2024-03-05"})

	w := suite.env.do(suite.T(), http.MethodGet, "/api/tasks", nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	resp := decodeBody[dto.TaskListResponse](suite.T(), w)
	titles := make([]string, len(resp.Tasks))
	for i, task := range resp.Tasks {
		titles[i] = task.Title
	}
	suite.Equal([]string{"sooner", "middle", "later"}, titles)
}

func (suite *TaskHandlerTestSuite) TestGetTask_Overdue() {
	late := suite.addTask(services.NewTask{Title: "late", DueDate: "2024-02-28"})
	done := suite.addTask(services.NewTask{Title: "done", DueDate: "2024-02-28", Status: models.TaskStatusCompleted})
	today := suite.addTask(services.NewTask{Title: "today", DueDate: models.DateOf(testNow)})

	cases := map[string]bool{late.ID: true, done.ID: false, today.ID: false}
	for id, want := range cases {
		w := suite.env.do(suite.T(), http.MethodGet, "/api/tasks/"+id, nil)
		suite.Require().Equal(http.StatusOK, w.Code)
		suite.Equal(want, decodeBody[dto.TaskDTO](suite.T(), w).Overdue, "task %s", id)
	}
}

func (suite *TaskHandlerTestSuite) TestCreateTask_ValidationDetails() {
	w := suite.env.do(suite.T(), http.MethodPost, "/api/tasks", map[string]any{
		"title":    "x",
		"dueDate":  "2024-03-10",
		"priority": "urgent",
	})
	suite.Require().Equal(http.StatusBadRequest, w.Code)

	type errorResponse struct {
		Code    string       `json:"code"`
		Details []FieldError `json:"details"`
	}
	resp := decodeBody[errorResponse](suite.T(), w)
	suite.Equal("INVALID_INPUT", resp.Code)
	suite.Require().Len(resp.Details, 1)
	suite.Equal("Priority", resp.Details[0].Field)
	suite.Equal("oneof", resp.Details[0].Rule)

	w = suite.env.do(suite.T(), http.MethodPost, "/api/tasks", "not an object")
	suite.Require().Equal(http.StatusBadRequest, w.Code)
	suite.NotContains(w.Body.String(), "details")
}
