package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"kanbanflow/internal/config"
	"kanbanflow/internal/models"
	"kanbanflow/internal/store"
	"kanbanflow/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Project handlers

// ownedProject mengambil proyek dan memastikan user adalah pemiliknya.
// Response error sudah ditulis ke context kalau pengecekan gagal.
func ownedProject(c *fiber.Ctx, userID, projectID int) (models.Project, error) {
	project, err := config.Store.GetProject(projectID)
	if errors.Is(err, store.ErrNotFound) {
		c.Status(404).JSON(fiber.Map{
			"message": "Project not found",
			"success": false,
			"status":  404,
		})
		return models.Project{}, err
	}
	if err != nil {
		logger.ErrorLogger.Error("Error fetching project", zap.Error(err))
		c.Status(500).JSON(fiber.Map{
			"message": "Error fetching project",
			"success": false,
			"status":  500,
		})
		return models.Project{}, err
	}
	if project.Owner != userID {
		logger.SecurityLogger.Warn("Forbidden project access",
			zap.Int("user_id", userID), zap.Int("project_id", projectID))
		c.Status(403).JSON(fiber.Map{
			"message": "Forbidden",
			"success": false,
			"status":  403,
		})
		return models.Project{}, errors.New("forbidden")
	}
	return project, nil
}

// CreateProject membuat proyek baru beserta kolom bawaannya.
func CreateProject(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	type ProjectRequest struct {
		Name        string `json:"name" validate:"required"`
		Description string `json:"description"`
	}

	var req ProjectRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in create project", zap.Error(err))
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

	project, err := config.Store.CreateProject(req.Name, req.Description, userID)
	if err != nil {
		logger.ErrorLogger.Error("Error creating project", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error creating project",
			"success": false,
			"status":  500,
		})
	}

	logger.AuditLogger.Info("Project created", zap.Int("project_id", project.ID))
	return c.Status(201).JSON(fiber.Map{
		"message": "Project created successfully",
		"success": true,
		"status":  201,
		"data":    project,
	})
}

// ListProjects mengambil semua proyek milik user.
func ListProjects(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	projects, err := config.Store.ListProjects(userID)
	if err != nil {
		logger.ErrorLogger.Error("Error fetching projects", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching projects",
			"success": false,
			"status":  500,
		})
	}

	return c.JSON(fiber.Map{
		"message": "Projects fetched successfully",
		"success": true,
		"status":  200,
		"data":    projects,
	})
}

// GetProject mengambil satu proyek, dengan cache Redis 1 jam.
func GetProject(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	projectID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid project ID",
			"success": false,
			"status":  400,
		})
	}

	// Coba ambil dari cache Redis dulu
	cacheKey := fmt.Sprintf("project:%d", projectID)
	if cached, err := config.RedisClient.Get(config.Ctx, cacheKey).Result(); err == nil {
		var project models.Project
		if err = json.Unmarshal([]byte(cached), &project); err == nil {
			if project.Owner != userID {
				return c.Status(403).JSON(fiber.Map{
					"message": "Forbidden",
					"success": false,
					"status":  403,
				})
			}
			return c.JSON(fiber.Map{
				"message": "Project found (from cache)",
				"success": true,
				"status":  200,
				"data":    project,
			})
		}
	}

	project, err := ownedProject(c, userID, projectID)
	if err != nil {
		return nil
	}

	// Simpan ke cache selama 1 jam
	if projectJSON, err := json.Marshal(project); err == nil {
		config.RedisClient.SetEX(config.Ctx, cacheKey, projectJSON, time.Hour)
	}

	return c.JSON(fiber.Map{
		"message": "Project found",
		"success": true,
		"status":  200,
		"data":    project,
	})
}

// UpdateProject memperbarui nama/deskripsi proyek.
func UpdateProject(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	projectID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid project ID",
			"success": false,
			"status":  400,
		})
	}

	if _, err := ownedProject(c, userID, projectID); err != nil {
		return nil
	}

	type UpdateProjectRequest struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}

	var req UpdateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in update project", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
			"success": false,
			"status":  400,
		})
	}

	project, err := config.Store.UpdateProject(projectID, req.Name, req.Description)
	if err != nil {
		logger.ErrorLogger.Error("Error updating project", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error updating project",
			"success": false,
			"status":  500,
		})
	}

	// Cache lama sudah tidak berlaku
	config.RedisClient.Del(config.Ctx, fmt.Sprintf("project:%d", projectID))

	logger.AuditLogger.Info("Project updated", zap.Int("project_id", projectID))
	return c.JSON(fiber.Map{
		"message": "Project updated successfully",
		"success": true,
		"status":  200,
		"data":    project,
	})
}

// DeleteProject menghapus proyek beserta kolom dan task di dalamnya.
func DeleteProject(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	projectID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid project ID",
			"success": false,
			"status":  400,
		})
	}

	if _, err := ownedProject(c, userID, projectID); err != nil {
		return nil
	}

	if err := config.Store.DeleteProject(projectID); err != nil {
		logger.ErrorLogger.Error("Error deleting project", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error deleting project",
			"success": false,
			"status":  500,
		})
	}

	config.RedisClient.Del(config.Ctx, fmt.Sprintf("project:%d", projectID))

	logger.AuditLogger.Info("Project deleted", zap.Int("project_id", projectID))
	return c.JSON(fiber.Map{
		"message": "Project deleted successfully",
		"success": true,
		"status":  200,
	})
}

// UpdateColumnOrder mengganti urutan kolom proyek secara keseluruhan.
func UpdateColumnOrder(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	projectID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid project ID",
			"success": false,
			"status":  400,
		})
	}

	if _, err := ownedProject(c, userID, projectID); err != nil {
		return nil
	}

	type ColumnOrderRequest struct {
		ColumnOrder []int64 `json:"column_order" validate:"required"`
	}

	var req ColumnOrderRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in update column order", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
			"success": false,
			"status":  400,
		})
	}

	project, err := config.Store.ReorderProjectColumns(projectID, req.ColumnOrder)
	if errors.Is(err, store.ErrInvalidOrder) {
		return c.Status(400).JSON(fiber.Map{
			"message": "Column order must contain exactly the project's columns",
			"success": false,
			"status":  400,
		})
	}
	if err != nil {
		logger.ErrorLogger.Error("Error updating column order", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error updating column order",
			"success": false,
			"status":  500,
		})
	}

	config.RedisClient.Del(config.Ctx, fmt.Sprintf("project:%d", projectID))

	logger.AuditLogger.Info("Column order updated", zap.Int("project_id", projectID))
	return c.JSON(fiber.Map{
		"message": "Column order updated successfully",
		"success": true,
		"status":  200,
		"data":    project,
	})
}
