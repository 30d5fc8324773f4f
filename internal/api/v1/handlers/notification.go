package handlers

import (
	"errors"

	"kanbanflow/internal/config"
	"kanbanflow/internal/store"
	"kanbanflow/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Notification handlers

// ListNotifications mengambil semua notifikasi milik user, terbaru dulu.
func ListNotifications(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	notifications, err := config.Store.ListNotifications(userID)
	if err != nil {
		logger.ErrorLogger.Error("Error fetching notifications", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching notifications",
			"success": false,
			"status":  500,
		})
	}

	return c.JSON(fiber.Map{
		"message": "Notifications fetched successfully",
		"success": true,
		"status":  200,
		"data":    notifications,
	})
}

// MarkNotificationRead menandai satu notifikasi sebagai sudah dibaca.
func MarkNotificationRead(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	notificationID, err := c.ParamsInt("id")
	if err != nil {
		logger.ErrorLogger.Error("Invalid notification ID", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid notification ID",
			"success": false,
			"status":  400,
		})
	}

	notification, err := config.Store.MarkNotificationRead(notificationID, userID)
	if errors.Is(err, store.ErrNotFound) {
		return c.Status(404).JSON(fiber.Map{
			"message": "Notification not found",
			"success": false,
			"status":  404,
		})
	}
	if err != nil {
		logger.ErrorLogger.Error("Error marking notification as read", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error marking notification as read",
			"success": false,
			"status":  500,
		})
	}

	return c.JSON(fiber.Map{
		"message": "Notification marked as read",
		"success": true,
		"status":  200,
		"data":    notification,
	})
}

// MarkAllNotificationsRead menandai semua notifikasi user sebagai sudah dibaca.
func MarkAllNotificationsRead(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	if err := config.Store.MarkAllNotificationsRead(userID); err != nil {
		logger.ErrorLogger.Error("Error marking all notifications as read", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error marking all notifications as read",
			"success": false,
			"status":  500,
		})
	}

	return c.JSON(fiber.Map{
		"message": "All notifications marked as read",
		"success": true,
		"status":  200,
	})
}

// DeleteNotification menghapus satu notifikasi milik user.
func DeleteNotification(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	notificationID, err := c.ParamsInt("id")
	if err != nil {
		logger.ErrorLogger.Error("Invalid notification ID", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid notification ID",
			"success": false,
			"status":  400,
		})
	}

	err = config.Store.DeleteNotification(notificationID, userID)
	if errors.Is(err, store.ErrNotFound) {
		return c.Status(404).JSON(fiber.Map{
			"message": "Notification not found",
			"success": false,
			"status":  404,
		})
	}
	if err != nil {
		logger.ErrorLogger.Error("Error deleting notification", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error deleting notification",
			"success": false,
			"status":  500,
		})
	}

	return c.JSON(fiber.Map{
		"message": "Notification deleted successfully",
		"success": true,
		"status":  200,
	})
}
