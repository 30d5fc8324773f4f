package handlers

import (
	"time"

	"kanbanflow/internal/analytics"
	"kanbanflow/internal/config"
	"kanbanflow/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Analytics handlers

// rangeParams membaca query timeRange, startDate, dan endDate.
// Tanggal memakai format ISO (2006-01-02); tanggal tidak valid diabaikan.
func rangeParams(c *fiber.Ctx) (analytics.TimeRange, *time.Time, *time.Time) {
	tr := analytics.TimeRange(c.Query("timeRange", string(analytics.RangeMonth)))

	var start, end *time.Time
	if raw := c.Query("startDate"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			start = &t
		}
	}
	if raw := c.Query("endDate"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			end = &t
		}
	}
	return tr, start, end
}

// GetUserStatistics mengembalikan rollup statistik task milik user.
func GetUserStatistics(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)
	tr, start, end := rangeParams(c)

	stats, err := config.Analytics.UserStatistics(userID, tr, start, end)
	if err != nil {
		logger.ErrorLogger.Error("Error building user statistics", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error building user statistics",
			"success": false,
			"status":  500,
		})
	}

	return c.JSON(fiber.Map{
		"message": "User statistics fetched successfully",
		"success": true,
		"status":  200,
		"data":    stats,
	})
}

// GetActivityByDay mengembalikan jumlah task yang dibuat per hari.
func GetActivityByDay(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)
	tr, start, end := rangeParams(c)

	activity, err := config.Analytics.ActivityByDay(userID, tr, start, end)
	if err != nil {
		logger.ErrorLogger.Error("Error building activity", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error building activity",
			"success": false,
			"status":  500,
		})
	}

	return c.JSON(fiber.Map{
		"message": "Activity fetched successfully",
		"success": true,
		"status":  200,
		"data":    activity,
	})
}

// GetCompletionVelocity mengembalikan jumlah task selesai per hari.
func GetCompletionVelocity(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)
	tr, start, end := rangeParams(c)

	velocity, err := config.Analytics.CompletionVelocity(userID, tr, start, end)
	if err != nil {
		logger.ErrorLogger.Error("Error building completion velocity", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error building completion velocity",
			"success": false,
			"status":  500,
		})
	}

	return c.JSON(fiber.Map{
		"message": "Completion velocity fetched successfully",
		"success": true,
		"status":  200,
		"data":    velocity,
	})
}

// GetColumnDistribution mengembalikan sebaran task per kolom satu proyek.
func GetColumnDistribution(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	projectID, err := c.ParamsInt("projectId")
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

	distribution, err := config.Analytics.ColumnDistribution(projectID)
	if err != nil {
		logger.ErrorLogger.Error("Error building column distribution", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error building column distribution",
			"success": false,
			"status":  500,
		})
	}

	return c.JSON(fiber.Map{
		"message": "Column distribution fetched successfully",
		"success": true,
		"status":  200,
		"data":    distribution,
	})
}
