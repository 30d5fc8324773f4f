package handlers

import (
	"fmt"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"kanbanflow/internal/config"
	"kanbanflow/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// File Handling

// Fungsi untuk validasi file avatar
func validateAvatarFile(file *multipart.FileHeader) error {
	// Validasi ukuran file maksimal 5MB
	if file.Size > 5<<20 {
		return fiber.NewError(fiber.StatusBadRequest, "File size exceeds the limit of 5MB")
	}

	// Validasi ekstensi file
	ext := strings.ToLower(filepath.Ext(file.Filename))
	allowedExts := map[string]bool{".jpg": true, ".jpeg": true, ".png": true}
	if !allowedExts[ext] {
		return fiber.NewError(fiber.StatusBadRequest, "File type not allowed")
	}

	// Validasi tipe konten
	contentType := file.Header.Get("Content-Type")
	if !strings.Contains(contentType, "image") {
		return fiber.NewError(fiber.StatusBadRequest, "File must be an image")
	}

	return nil
}

// Fungsi untuk mendapatkan file yang sudah diunggah
func GetFile(c *fiber.Ctx) error {
	filename := c.Params("filename")
	filePath := path.Join("uploads", filename)
	return c.SendFile(filePath)
}

// UploadAvatar menyimpan gambar avatar dan memperbarui avatar_url user.
func UploadAvatar(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	// Pastikan folder uploads sudah ada
	uploadDir := "uploads"
	if _, err := os.Stat(uploadDir); os.IsNotExist(err) {
		if err := os.Mkdir(uploadDir, os.ModePerm); err != nil {
			logger.ErrorLogger.Error("Error creating upload directory", zap.Error(err))
			return c.Status(500).JSON(fiber.Map{
				"message": "Error creating upload directory",
				"success": false,
				"status":  500,
			})
		}
	}

	file, err := c.FormFile("avatar")
	if err != nil {
		logger.ErrorLogger.Error("Error uploading file", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Error uploading file",
			"success": false,
			"status":  400,
		})
	}

	if err := validateAvatarFile(file); err != nil {
		logger.ErrorLogger.Error("Error validating file", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": err.Error(),
			"success": false,
			"status":  400,
		})
	}

	// Ubah nama file menjadi unik (berdasarkan timestamp)
	newFilename := fmt.Sprintf("%d%s", time.Now().UnixNano(), filepath.Ext(file.Filename))
	filePath := path.Join(uploadDir, newFilename)

	if err := c.SaveFile(file, filePath); err != nil {
		logger.ErrorLogger.Error("Error saving file", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error saving file",
			"success": false,
			"status":  500,
		})
	}

	fileURL := fmt.Sprintf("/uploads/%s", newFilename)

	_, err = config.DB.Exec("UPDATE users SET avatar_url = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2", fileURL, userID)
	if err != nil {
		logger.ErrorLogger.Error("Error updating avatar", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error updating avatar",
			"success": false,
			"status":  500,
		})
	}

	logger.AuditLogger.Info("Avatar uploaded", zap.String("filename", newFilename))
	return c.JSON(fiber.Map{
		"message": "Avatar uploaded successfully",
		"success": true,
		"status":  200,
		"data": fiber.Map{
			"avatar_url": fileURL,
		},
	})
}
