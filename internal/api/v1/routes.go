package v1

import (
	"kanbanflow/internal/api/v1/handlers"
	"kanbanflow/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	// Auth
	api.Post("/auth/register", handlers.Register)
	api.Post("/auth/login", handlers.Login)
	api.Get("/auth/verify/:token", handlers.VerifyEmail)
	api.Post("/auth/resend-verification", middleware.UseToken, handlers.ResendVerification)
	api.Get("/auth/me", middleware.UseToken, handlers.Me)

	// User
	userRoutes := api.Group("/users", middleware.UseToken)
	userRoutes.Get("/:id", handlers.GetUser)
	userRoutes.Put("/:id", handlers.UpdateUser)

	// Project
	projectRoutes := api.Group("/projects", middleware.UseToken)
	projectRoutes.Post("/", handlers.CreateProject)
	projectRoutes.Get("/", handlers.ListProjects)
	projectRoutes.Get("/:id", handlers.GetProject)
	projectRoutes.Put("/:id", handlers.UpdateProject)
	projectRoutes.Delete("/:id", handlers.DeleteProject)
	projectRoutes.Patch("/:id/column-order", handlers.UpdateColumnOrder)

	// Column
	columnRoutes := api.Group("/columns", middleware.UseToken)
	columnRoutes.Post("/", handlers.CreateColumn)
	columnRoutes.Get("/", handlers.ListColumns)
	columnRoutes.Get("/:id", handlers.GetColumn)
	columnRoutes.Put("/:id", handlers.UpdateColumn)
	columnRoutes.Delete("/:id", handlers.DeleteColumn)
	columnRoutes.Patch("/:id/task-order", handlers.UpdateTaskOrder)

	// Task
	taskRoutes := api.Group("/tasks", middleware.UseToken)
	taskRoutes.Post("/", handlers.CreateTask)
	taskRoutes.Get("/", handlers.ListTasks)
	taskRoutes.Get("/upcoming", handlers.UpcomingTasks)
	taskRoutes.Get("/overdue", handlers.OverdueTasks)
	taskRoutes.Get("/:id", handlers.GetTask)
	taskRoutes.Put("/:id", handlers.UpdateTask)
	taskRoutes.Patch("/:id/move", handlers.MoveTask)
	taskRoutes.Delete("/:id", handlers.DeleteTask)

	// Notification
	notificationRoutes := api.Group("/notifications", middleware.UseToken)
	notificationRoutes.Get("/", handlers.ListNotifications)
	notificationRoutes.Patch("/read-all", handlers.MarkAllNotificationsRead)
	notificationRoutes.Patch("/:id/read", handlers.MarkNotificationRead)
	notificationRoutes.Delete("/:id", handlers.DeleteNotification)

	// Analytics
	analyticsRoutes := api.Group("/analytics", middleware.UseToken)
	analyticsRoutes.Get("/statistics", handlers.GetUserStatistics)
	analyticsRoutes.Get("/activity", handlers.GetActivityByDay)
	analyticsRoutes.Get("/velocity", handlers.GetCompletionVelocity)
	analyticsRoutes.Get("/projects/:projectId/distribution", handlers.GetColumnDistribution)

	// File Upload
	uploadRoutes := api.Group("/upload", middleware.UseToken)
	uploadRoutes.Post("/avatar", handlers.UploadAvatar)
	uploadRoutes.Get("/:filename", handlers.GetFile)
}
