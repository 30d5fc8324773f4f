package handlers

import (
	"errors"
	"fmt"

	"kanbanflow/internal/config"
	"kanbanflow/internal/models"
	"kanbanflow/internal/store"
	"kanbanflow/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Column handlers

// ownedColumn mengambil kolom dan memastikan user memiliki proyeknya.
func ownedColumn(c *fiber.Ctx, userID, columnID int) (models.Column, error) {
	column, err := config.Store.GetColumn(columnID)
	if errors.Is(err, store.ErrNotFound) {
		c.Status(404).JSON(fiber.Map{
			"message": "Column not found",
			"success": false,
			"status":  404,
		})
		return models.Column{}, err
	}
	if err != nil {
		logger.ErrorLogger.Error("Error fetching column", zap.Error(err))
		c.Status(500).JSON(fiber.Map{
			"message": "Error fetching column",
			"success": false,
			"status":  500,
		})
		return models.Column{}, err
	}
	if _, err := ownedProject(c, userID, column.ProjectID); err != nil {
		return models.Column{}, err
	}
	return column, nil
}

// CreateColumn membuat kolom baru di proyek milik user.
func CreateColumn(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	type ColumnRequest struct {
		Title     string `json:"title" validate:"required"`
		ProjectID int    `json:"project_id" validate:"required"`
	}

	var req ColumnRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in create column", zap.Error(err))
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

	if _, err := ownedProject(c, userID, req.ProjectID); err != nil {
		return nil
	}

	column, err := config.Store.CreateColumn(req.Title, req.ProjectID)
	if err != nil {
		logger.ErrorLogger.Error("Error creating column", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error creating column",
			"success": false,
			"status":  500,
		})
	}

	// column_order proyek berubah, buang cache-nya
	config.RedisClient.Del(config.Ctx, fmt.Sprintf("project:%d", req.ProjectID))

	logger.AuditLogger.Info("Column created", zap.Int("column_id", column.ID))
	return c.Status(201).JSON(fiber.Map{
		"message": "Column created successfully",
		"success": true,
		"status":  201,
		"data":    column,
	})
}

// ListColumns mengambil semua kolom sebuah proyek.
func ListColumns(c *fiber.Ctx) error {
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

	columns, err := config.Store.ListColumns(projectID)
	if err != nil {
		logger.ErrorLogger.Error("Error fetching columns", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching columns",
			"success": false,
			"status":  500,
		})
	}

	return c.JSON(fiber.Map{
		"message": "Columns fetched successfully",
		"success": true,
		"status":  200,
		"data":    columns,
	})
}

// GetColumn mengambil satu kolom.
func GetColumn(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	columnID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid column ID",
			"success": false,
			"status":  400,
		})
	}

	column, err := ownedColumn(c, userID, columnID)
	if err != nil {
		return nil
	}

	return c.JSON(fiber.Map{
		"message": "Column found",
		"success": true,
		"status":  200,
		"data":    column,
	})
}

// UpdateColumn mengganti judul kolom.
func UpdateColumn(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	columnID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid column ID",
			"success": false,
			"status":  400,
		})
	}

	if _, err := ownedColumn(c, userID, columnID); err != nil {
		return nil
	}

	type UpdateColumnRequest struct {
		Title string `json:"title" validate:"required"`
	}

	var req UpdateColumnRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in update column", zap.Error(err))
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

	column, err := config.Store.UpdateColumn(columnID, req.Title)
	if err != nil {
		logger.ErrorLogger.Error("Error updating column", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error updating column",
			"success": false,
			"status":  500,
		})
	}

	logger.AuditLogger.Info("Column updated", zap.Int("column_id", columnID))
	return c.JSON(fiber.Map{
		"message": "Column updated successfully",
		"success": true,
		"status":  200,
		"data":    column,
	})
}

// DeleteColumn menghapus kolom beserta seluruh task di dalamnya.
func DeleteColumn(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	columnID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid column ID",
			"success": false,
			"status":  400,
		})
	}

	column, err := ownedColumn(c, userID, columnID)
	if err != nil {
		return nil
	}

	if err := config.Store.DeleteColumn(columnID); err != nil {
		logger.ErrorLogger.Error("Error deleting column", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error deleting column",
			"success": false,
			"status":  500,
		})
	}

	config.RedisClient.Del(config.Ctx, fmt.Sprintf("project:%d", column.ProjectID))

	logger.AuditLogger.Info("Column deleted", zap.Int("column_id", columnID))
	return c.JSON(fiber.Map{
		"message": "Column deleted successfully",
		"success": true,
		"status":  200,
	})
}

// UpdateTaskOrder mengganti urutan task dalam kolom secara keseluruhan.
func UpdateTaskOrder(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	columnID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid column ID",
			"success": false,
			"status":  400,
		})
	}

	if _, err := ownedColumn(c, userID, columnID); err != nil {
		return nil
	}

	type TaskOrderRequest struct {
		TaskIDs []int64 `json:"task_ids" validate:"required"`
	}

	var req TaskOrderRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in update task order", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
			"success": false,
			"status":  400,
		})
	}

	column, err := config.Store.ReorderColumnTasks(columnID, req.TaskIDs)
	if errors.Is(err, store.ErrInvalidOrder) {
		return c.Status(400).JSON(fiber.Map{
			"message": "Task order must contain exactly the column's tasks",
			"success": false,
			"status":  400,
		})
	}
	if err != nil {
		logger.ErrorLogger.Error("Error updating task order", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error updating task order",
			"success": false,
			"status":  500,
		})
	}

	logger.AuditLogger.Info("Task order updated", zap.Int("column_id", columnID))
	return c.JSON(fiber.Map{
		"message": "Task order updated successfully",
		"success": true,
		"status":  200,
		"data":    column,
	})
}
