package handlers

import (
	"database/sql"

	"kanbanflow/internal/config"
	"kanbanflow/internal/models"
	"kanbanflow/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// User handlers

// GetUser mengembalikan profil user; hanya boleh mengakses miliknya sendiri.
func GetUser(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	targetID, err := c.ParamsInt("id")
	if err != nil {
		logger.ErrorLogger.Error("Invalid user ID", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid user ID",
			"success": false,
			"status":  400,
		})
	}

	if targetID != userID {
		logger.SecurityLogger.Warn("Forbidden user access",
			zap.Int("user_id", userID), zap.Int("target_id", targetID))
		return c.Status(403).JSON(fiber.Map{
			"message": "Forbidden",
			"success": false,
			"status":  403,
		})
	}

	var user models.User
	var lastLogin sql.NullTime
	err = config.DB.QueryRow(
		"SELECT id, email, full_name, avatar_url, is_verified, created_at, updated_at, last_login FROM users WHERE id = $1",
		targetID,
	).Scan(&user.ID, &user.Email, &user.FullName, &user.AvatarURL, &user.IsVerified, &user.CreatedAt, &user.UpdatedAt, &lastLogin)
	if err != nil {
		logger.ErrorLogger.Error("User not found", zap.Error(err))
		return c.Status(404).JSON(fiber.Map{
			"message": "User not found",
			"success": false,
			"status":  404,
		})
	}
	if lastLogin.Valid {
		user.LastLogin = lastLogin.Time
	}

	return c.JSON(fiber.Map{
		"message": "User found",
		"success": true,
		"status":  200,
		"data":    user,
	})
}

// UpdateUser memperbarui nama lengkap / avatar milik user sendiri.
func UpdateUser(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	targetID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid user ID",
			"success": false,
			"status":  400,
		})
	}

	if targetID != userID {
		logger.SecurityLogger.Warn("Forbidden user update",
			zap.Int("user_id", userID), zap.Int("target_id", targetID))
		return c.Status(403).JSON(fiber.Map{
			"message": "Forbidden",
			"success": false,
			"status":  403,
		})
	}

	// pointer (*) untuk menandakan bahwa field bisa kosong
	type UpdateUserRequest struct {
		FullName  *string `json:"full_name"`
		AvatarURL *string `json:"avatar_url"`
	}

	var req UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in update user", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
			"success": false,
			"status":  400,
		})
	}

	_, err = config.DB.Exec(`
		UPDATE users
		SET full_name = COALESCE($1, full_name),
			avatar_url = COALESCE($2, avatar_url),
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $3`,
		req.FullName, req.AvatarURL, targetID,
	)
	if err != nil {
		logger.ErrorLogger.Error("Error updating user", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error updating user",
			"success": false,
			"status":  500,
		})
	}

	logger.AuditLogger.Info("User updated", zap.Int("user_id", targetID))
	return c.JSON(fiber.Map{
		"message": "User updated successfully",
		"success": true,
		"status":  200,
	})
}
