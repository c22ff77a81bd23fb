package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskboard/internal/middleware"
	"github.com/yukikurage/taskboard/internal/services"
)

// Dependencies are the services shared by all handlers.
type Dependencies struct {
	Auth  *services.AuthService
	Store *services.Store
	// Now overrides the clock used for "today" on the dashboard and for
	// overdue flags.
	Now func() time.Time
}

// RegisterRoutes mounts the health check and the JSON API on r. Session
// middleware, if any, must already be installed on r.
func RegisterRoutes(r gin.IRouter, deps Dependencies) {
	authHandler := NewAuthHandler(deps.Auth)
	taskHandler := NewTaskHandler(deps.Store, deps.Now)
	projectHandler := NewProjectHandler(deps.Store)
	userHandler := NewUserHandler(deps.Store)
	dashboardHandler := NewDashboardHandler(deps.Store, deps.Now)
	notificationHandler := NewNotificationHandler()

	requireAuth := middleware.RequireAuth(deps.Auth)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Taskboard API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", requireAuth, authHandler.GetCurrentUser)
		}

		api.GET("/notifications", notificationHandler.List)

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/board", taskHandler.GetBoard)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PATCH("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
			tasks.POST("/:id/move", taskHandler.MoveTask)
			tasks.POST("/:id/comments", taskHandler.AddComment)
		}

		// Project routes (protected)
		projects := api.Group("/projects")
		projects.Use(requireAuth)
		{
			projects.GET("", projectHandler.ListProjects)
			projects.POST("", projectHandler.CreateProject)
			projects.PATCH("/:id", projectHandler.UpdateProject)
			projects.DELETE("/:id", projectHandler.DeleteProject)
		}

		// Team routes (protected)
		users := api.Group("/users")
		users.Use(requireAuth)
		{
			users.GET("", userHandler.ListUsers)
			users.GET("/:id", userHandler.GetUser)
		}

		api.GET("/dashboard", requireAuth, dashboardHandler.GetDashboard)
	}
}
