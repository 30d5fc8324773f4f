package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"kanbanflow/internal/analytics"
	"kanbanflow/internal/config"
	"kanbanflow/internal/models"
	"kanbanflow/internal/store"
	"kanbanflow/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Task handlers

// ownedTask mengambil task dan memastikan user memiliki proyeknya.
func ownedTask(c *fiber.Ctx, userID, taskID int) (models.Task, error) {
	task, err := config.Store.GetTask(taskID)
	if errors.Is(err, store.ErrNotFound) {
		c.Status(404).JSON(fiber.Map{
			"message": "Task not found",
			"success": false,
			"status":  404,
		})
		return models.Task{}, err
	}
	if err != nil {
		logger.ErrorLogger.Error("Error fetching task", zap.Error(err))
		c.Status(500).JSON(fiber.Map{
			"message": "Error fetching task",
			"success": false,
			"status":  500,
		})
		return models.Task{}, err
	}
	if _, err := ownedProject(c, userID, task.ProjectID); err != nil {
		return models.Task{}, err
	}
	return task, nil
}

// parseDeadline menerima string RFC3339 dan mengembalikan waktunya.
func parseDeadline(value string) (*time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTask membuat task baru di sebuah kolom.
// Task langsung terdaftar di task_ids kolom; kalau ada deadline,
// sepasang timer pengingat ikut dipasang.
func CreateTask(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	// struct TaskRequest menerima inputan dari user
	type TaskRequest struct {
		Title       string   `json:"title" validate:"required"`
		Description string   `json:"description"`
		ColumnID    int      `json:"column_id" validate:"required"`
		Deadline    string   `json:"deadline"`
		Labels      []string `json:"labels"`
	}

	var req TaskRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in create task", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
			"success": false,
			"status":  400,
		})
	}

	if err := config.Validate.Struct(req); err != nil {
		logger.ErrorLogger.Error("Validation error in create task", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Validation error",
			"errors":  err.Error(),
			"success": false,
			"status":  400,
		})
	}

	if _, err := ownedColumn(c, userID, req.ColumnID); err != nil {
		return nil
	}

	var deadline *time.Time
	if req.Deadline != "" {
		var err error
		deadline, err = parseDeadline(req.Deadline)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{
				"message": "Invalid deadline format, use RFC3339",
				"success": false,
				"status":  400,
			})
		}
	}

	task, err := config.Store.CreateTask(req.Title, req.Description, req.ColumnID, deadline, req.Labels)
	if err != nil {
		logger.ErrorLogger.Error("Error creating task", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error creating task",
			"success": false,
			"status":  500,
		})
	}

	// Pasang pengingat deadline kalau ada
	if task.Deadline != nil {
		config.Deadlines.Schedule(task, userID)
	}

	logger.AuditLogger.Info("Task created successfully", zap.Int("task_id", task.ID))
	return c.Status(201).JSON(fiber.Map{
		"message": "Task created successfully",
		"success": true,
		"status":  201,
		"data":    task,
	})
}

// ListTasks mengambil semua task sebuah proyek.
func ListTasks(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	projectID := c.QueryInt("projectId")
	if projectID == 0 {
		return c.Status(400).JSON(fiber.Map{
			"message": "projectId query parameter is required",
			"success": false,
			"status":  400,
		})
	}

	if _, err := ownedProject(c, userID, projectID); err != nil {
		return nil
	}

	tasks, err := config.Store.ListTasks(projectID)
	if err != nil {
		logger.ErrorLogger.Error("Error fetching tasks", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching tasks",
			"success": false,
			"status":  500,
		})
	}

	// Simpan tiap task ke Redis dengan waktu kadaluarsa 1 jam
	for _, task := range tasks {
		cacheKey := fmt.Sprintf("task:%d", task.ID)
		if jsonData, err := json.Marshal(task); err == nil {
			config.RedisClient.Set(config.Ctx, cacheKey, jsonData, time.Hour)
		}
	}

	logger.AuditLogger.Info("Tasks fetched successfully", zap.Int("project_id", projectID))
	return c.JSON(fiber.Map{
		"message": "Tasks fetched successfully",
		"success": true,
		"status":  200,
		"data":    tasks,
	})
}

// UpcomingTasks mengambil task ber-deadline dalam `days` hari ke depan.
func UpcomingTasks(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	days := c.QueryInt("days", 7)
	if days <= 0 {
		days = 7
	}

	tasks, err := config.Store.FindUpcomingTasks(userID, days)
	if err != nil {
		logger.ErrorLogger.Error("Error fetching upcoming tasks", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching upcoming tasks",
			"success": false,
			"status":  500,
		})
	}

	return c.JSON(fiber.Map{
		"message": "Upcoming tasks fetched successfully",
		"success": true,
		"status":  200,
		"data":    tasks,
	})
}

// OverdueTasks mengambil task yang deadline-nya sudah lewat.
func OverdueTasks(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	tasks, err := config.Store.FindOverdueTasks(userID)
	if err != nil {
		logger.ErrorLogger.Error("Error fetching overdue tasks", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching overdue tasks",
			"success": false,
			"status":  500,
		})
	}

	return c.JSON(fiber.Map{
		"message": "Overdue tasks fetched successfully",
		"success": true,
		"status":  200,
		"data":    tasks,
	})
}

// GetTask mengambil satu task, dengan cache Redis 1 jam.
func GetTask(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	taskID, err := c.ParamsInt("id")
	if err != nil {
		logger.ErrorLogger.Error("Invalid task ID", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid task ID",
			"success": false,
			"status":  400,
		})
	}

	// Coba ambil data task dari cache Redis
	cacheKey := fmt.Sprintf("task:%d", taskID)
	if cached, err := config.RedisClient.Get(config.Ctx, cacheKey).Result(); err == nil {
		var task models.Task
		if err = json.Unmarshal([]byte(cached), &task); err == nil {
			if _, err := ownedProject(c, userID, task.ProjectID); err != nil {
				return nil
			}
			return c.JSON(fiber.Map{
				"message": "Task found (from cache)",
				"success": true,
				"status":  200,
				"data":    task,
			})
		}
	}

	task, err := ownedTask(c, userID, taskID)
	if err != nil {
		return nil
	}

	// Simpan data task ke cache selama 1 jam
	if taskJSON, err := json.Marshal(task); err == nil {
		config.RedisClient.SetEX(config.Ctx, cacheKey, taskJSON, time.Hour)
	}

	return c.JSON(fiber.Map{
		"message": "Task found",
		"success": true,
		"status":  200,
		"data":    task,
	})
}

// UpdateTask memperbarui field task. Kolom bisa ikut diganti (dipindah),
// dan perubahan deadline memasang ulang / membatalkan timer pengingat.
func UpdateTask(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	taskID, err := c.ParamsInt("id")
	if err != nil {
		logger.ErrorLogger.Error("Invalid task ID", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid task ID",
			"success": false,
			"status":  400,
		})
	}

	task, err := ownedTask(c, userID, taskID)
	if err != nil {
		return nil
	}

	// pointer (*) untuk menandakan bahwa field bisa kosong.
	// Deadline: tidak dikirim = tetap, "" = dihapus, RFC3339 = diganti.
	type UpdateTaskRequest struct {
		Title       *string  `json:"title"`
		Description *string  `json:"description"`
		ColumnID    *int     `json:"column_id"`
		Deadline    *string  `json:"deadline"`
		Labels      []string `json:"labels"`
	}

	var req UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in update task", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
			"success": false,
			"status":  400,
		})
	}

	// Pindah kolom dulu kalau diminta, supaya task_ids tetap konsisten
	if req.ColumnID != nil && *req.ColumnID != task.ColumnID {
		if _, err := ownedColumn(c, userID, *req.ColumnID); err != nil {
			return nil
		}
		task, err = config.Store.MoveTask(taskID, *req.ColumnID)
		if err != nil {
			logger.ErrorLogger.Error("Error moving task", zap.Error(err))
			return c.Status(500).JSON(fiber.Map{
				"message": "Error moving task",
				"success": false,
				"status":  500,
			})
		}
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Labels != nil {
		task.Labels = req.Labels
	}

	deadlineChanged := false
	if req.Deadline != nil {
		deadlineChanged = true
		if *req.Deadline == "" {
			task.Deadline = nil
		} else {
			deadline, err := parseDeadline(*req.Deadline)
			if err != nil {
				return c.Status(400).JSON(fiber.Map{
					"message": "Invalid deadline format, use RFC3339",
					"success": false,
					"status":  400,
				})
			}
			task.Deadline = deadline
		}
	}

	updated, err := config.Store.SaveTask(task)
	if err != nil {
		logger.ErrorLogger.Error("Error updating task", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error updating task",
			"success": false,
			"status":  500,
		})
	}

	// Timer lama dibatalkan; deadline baru memasang sepasang timer lagi
	if deadlineChanged {
		if updated.Deadline != nil {
			config.Deadlines.Schedule(updated, userID)
		} else {
			config.Deadlines.Cancel(updated.ID)
		}
	}

	// Perbarui cache Redis untuk task ini
	cacheKey := fmt.Sprintf("task:%d", taskID)
	config.RedisClient.Del(config.Ctx, cacheKey)
	if taskJSON, err := json.Marshal(updated); err == nil {
		config.RedisClient.SetEX(config.Ctx, cacheKey, taskJSON, time.Hour)
	}

	logger.AuditLogger.Info("Task updated", zap.Int("task_id", taskID))
	return c.JSON(fiber.Map{
		"message": "Task updated successfully",
		"success": true,
		"status":  200,
		"data":    updated,
	})
}

// MoveTask memindahkan task ke kolom lain.
// Pemindahan ke kolom yang sama adalah no-op tanpa efek samping.
func MoveTask(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	taskID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid task ID",
			"success": false,
			"status":  400,
		})
	}

	task, err := ownedTask(c, userID, taskID)
	if err != nil {
		return nil
	}

	type MoveTaskRequest struct {
		TargetColumnID int `json:"target_column_id" validate:"required"`
	}

	var req MoveTaskRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in move task", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
			"success": false,
			"status":  400,
		})
	}

	if err := config.Validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Validation error",
			"errors":  err.Error(),
			"success": false,
			"status":  400,
		})
	}

	if task.ColumnID == req.TargetColumnID {
		// Sudah di kolom tujuan, kembalikan apa adanya
		return c.JSON(fiber.Map{
			"message": "Task already in target column",
			"success": true,
			"status":  200,
			"data":    task,
		})
	}

	target, err := ownedColumn(c, userID, req.TargetColumnID)
	if err != nil {
		return nil
	}

	moved, err := config.Store.MoveTask(taskID, req.TargetColumnID)
	if err != nil {
		logger.ErrorLogger.Error("Error moving task", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error moving task",
			"success": false,
			"status":  500,
		})
	}

	// Masuk ke kolom terminal berarti task selesai
	if analytics.IsDoneTitle(target.Title) {
		notification, err := config.Store.CreateNotification(
			userID, moved.ID, models.NotificationTaskCompleted,
			fmt.Sprintf("Task %q was completed.", moved.Title),
		)
		if err != nil {
			logger.ErrorLogger.Error("Error creating completion notification", zap.Error(err))
		} else if payload, err := json.Marshal(notification); err == nil {
			config.Hub.Push(userID, payload)
		}
	}

	// Cache task lama sudah tidak berlaku
	config.RedisClient.Del(config.Ctx, fmt.Sprintf("task:%d", taskID))

	logger.AuditLogger.Info("Task moved",
		zap.Int("task_id", taskID), zap.Int("target_column_id", req.TargetColumnID))
	return c.JSON(fiber.Map{
		"message": "Task moved successfully",
		"success": true,
		"status":  200,
		"data":    moved,
	})
}

// DeleteTask menghapus task: lepas dari kolom, batalkan timer, hapus notifikasi.
func DeleteTask(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	taskID, err := c.ParamsInt("id")
	if err != nil {
		logger.ErrorLogger.Error("Invalid task ID", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid task ID",
			"success": false,
			"status":  400,
		})
	}

	if _, err := ownedTask(c, userID, taskID); err != nil {
		return nil
	}

	if err := config.Store.DeleteTask(taskID); err != nil {
		logger.ErrorLogger.Error("Error deleting task", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error deleting task",
			"success": false,
			"status":  500,
		})
	}

	// Hapus cache Redis untuk task ini
	config.RedisClient.Del(config.Ctx, fmt.Sprintf("task:%d", taskID))

	logger.AuditLogger.Info("Task deleted", zap.Int("task_id", taskID))
	return c.JSON(fiber.Map{
		"message": "Task deleted successfully",
		"success": true,
		"status":  200,
	})
}
