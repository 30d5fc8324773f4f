package handlers

import (
	"database/sql"
	"time"

	"kanbanflow/internal/config"
	"kanbanflow/internal/models"
	"kanbanflow/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Auth handlers

// Register membuat user baru dan mengirim email verifikasi.
func Register(c *fiber.Ctx) error {
	// struct RegisterRequest menerima inputan dari user
	type RegisterRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=6"`
		FullName string `json:"full_name" validate:"required"`
	}

	// variabel req digunakan untuk menerima inputan dari user
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in register", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
			"success": false,
			"status":  400,
		})
	}

	// Validasi dengan validator
	if err := config.Validate.Struct(req); err != nil {
		logger.AuditLogger.Warn("Validation error during register", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Validation error",
			"errors":  err.Error(),
			"success": false,
			"status":  400,
		})
	}

	// Hash password dengan bcrypt
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.ErrorLogger.Error("Error hashing password", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error hashing password",
			"success": false,
			"status":  500,
		})
	}

	// Token verifikasi sekali pakai untuk konfirmasi email
	verificationToken := uuid.NewString()

	// Insert data user ke dalam database
	// Jika email sudah ada, maka akan dikembalikan response error 409
	var userID int
	err = config.DB.QueryRow(
		"INSERT INTO users (email, password, full_name, verification_token) VALUES ($1, $2, $3, $4) RETURNING id",
		req.Email, string(hashedPassword), req.FullName, verificationToken,
	).Scan(&userID)
	if err != nil {
		// Unique violation berarti email sudah terdaftar
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" {
				logger.SecurityLogger.Warn("Duplicate email", zap.String("email", req.Email))
				return c.Status(409).JSON(fiber.Map{
					"message": "Email already exists",
					"success": false,
					"status":  409,
				})
			}
		}
		logger.ErrorLogger.Error("Error creating user", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error creating user",
			"success": false,
			"status":  500,
		})
	}

	// Kirim email verifikasi, kegagalan hanya dicatat
	if err := config.Mail.SendVerificationEmail(req.Email, verificationToken, req.FullName); err != nil {
		logger.ErrorLogger.Error("Error sending verification email", zap.Error(err))
	}

	logger.AuditLogger.Info("User registered successfully", zap.Int("userID", userID))
	return c.Status(201).JSON(fiber.Map{
		"message": "User registered successfully. Check your inbox to verify your email.",
		"success": true,
		"status":  201,
		"data": fiber.Map{
			"id": userID,
		},
	})
}

// fungsi login dengan menggunakan JSON Web Token (JWT)
func Login(c *fiber.Ctx) error {
	// struct LoginRequest menerima inputan dari user
	type LoginRequest struct {
		Email      string `json:"email" validate:"required,email"`
		Password   string `json:"password" validate:"required"`
		RememberMe bool   `json:"remember_me"`
	}

	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in login", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
			"success": false,
			"status":  400,
		})
	}

	if err := config.Validate.Struct(req); err != nil {
		logger.AuditLogger.Warn("Validation error during login", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Validation error",
			"errors":  err.Error(),
			"success": false,
			"status":  400,
		})
	}

	// variabel user digunakan untuk menerima data user dari database
	var user struct {
		ID        int
		Email     string
		Password  string
		FullName  string
		AvatarURL string
	}

	err := config.DB.QueryRow(
		"SELECT id, email, password, full_name, avatar_url FROM users WHERE email = $1",
		req.Email).Scan(&user.ID, &user.Email, &user.Password, &user.FullName, &user.AvatarURL)
	if err != nil {
		// error 401, jika data user tidak ditemukan
		logger.SecurityLogger.Warn("User not found", zap.String("email", req.Email))
		return c.Status(401).JSON(fiber.Map{
			"message": "Invalid credentials",
			"success": false,
			"status":  401,
		})
	}

	// bandingkan password yang dikirimkan dengan hash di database
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		logger.SecurityLogger.Warn("Invalid password", zap.String("email", req.Email))
		return c.Status(401).JSON(fiber.Map{
			"message": "Invalid credentials",
			"success": false,
			"status":  401,
		})
	}

	// Catat waktu login terakhir
	if _, err := config.DB.Exec("UPDATE users SET last_login = CURRENT_TIMESTAMP WHERE id = $1", user.ID); err != nil {
		logger.ErrorLogger.Error("Error updating last login", zap.Error(err))
	}

	// Masa berlaku token: 24 jam, atau 7 hari kalau remember_me
	expiry := 24 * time.Hour
	if req.RememberMe {
		expiry = 7 * 24 * time.Hour
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"exp":     time.Now().Add(expiry).Unix(),
	})

	tokenString, err := token.SignedString(config.SecretKey)
	if err != nil {
		logger.ErrorLogger.Error("Error generating token", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error generating token",
			"success": false,
			"status":  500,
		})
	}

	logger.AuditLogger.Info("Login success", zap.Int("user_id", user.ID))
	return c.JSON(fiber.Map{
		"message": "Login success",
		"success": true,
		"status":  200,
		"data": fiber.Map{
			"token": tokenString,
			"user": fiber.Map{
				"id":         user.ID,
				"email":      user.Email,
				"full_name":  user.FullName,
				"avatar_url": user.AvatarURL,
			},
		},
	})
}

// VerifyEmail menandai email user terverifikasi berdasarkan token.
func VerifyEmail(c *fiber.Ctx) error {
	token := c.Params("token")

	var userID int
	err := config.DB.QueryRow(
		"SELECT id FROM users WHERE verification_token = $1", token,
	).Scan(&userID)
	if err != nil {
		logger.SecurityLogger.Warn("Invalid verification token", zap.String("token", token))
		return c.Status(404).JSON(fiber.Map{
			"message": "Invalid or expired verification token",
			"success": false,
			"status":  404,
		})
	}

	// Token sekali pakai: kosongkan setelah terverifikasi
	_, err = config.DB.Exec(
		"UPDATE users SET is_verified = TRUE, verification_token = NULL, updated_at = CURRENT_TIMESTAMP WHERE id = $1",
		userID,
	)
	if err != nil {
		logger.ErrorLogger.Error("Error verifying email", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error verifying email",
			"success": false,
			"status":  500,
		})
	}

	logger.AuditLogger.Info("Email verified", zap.Int("user_id", userID))
	return c.JSON(fiber.Map{
		"message": "Email verified successfully",
		"success": true,
		"status":  200,
	})
}

// ResendVerification mengirim ulang email verifikasi.
func ResendVerification(c *fiber.Ctx) error {
	type ResendRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	var req ResendRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in resend verification", zap.Error(err))
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

	var user models.User
	var token sql.NullString
	err := config.DB.QueryRow(
		"SELECT id, full_name, is_verified, verification_token FROM users WHERE email = $1",
		req.Email,
	).Scan(&user.ID, &user.FullName, &user.IsVerified, &token)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{
			"message": "User not found",
			"success": false,
			"status":  404,
		})
	}

	if user.IsVerified {
		return c.Status(400).JSON(fiber.Map{
			"message": "Email is already verified",
			"success": false,
			"status":  400,
		})
	}

	// Kalau token sudah hilang, buat yang baru
	if !token.Valid || token.String == "" {
		token.String = uuid.NewString()
		_, err := config.DB.Exec(
			"UPDATE users SET verification_token = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2",
			token.String, user.ID,
		)
		if err != nil {
			logger.ErrorLogger.Error("Error regenerating verification token", zap.Error(err))
			return c.Status(500).JSON(fiber.Map{
				"message": "Error regenerating verification token",
				"success": false,
				"status":  500,
			})
		}
	}

	if err := config.Mail.SendVerificationEmail(req.Email, token.String, user.FullName); err != nil {
		logger.ErrorLogger.Error("Error sending verification email", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error sending verification email",
			"success": false,
			"status":  500,
		})
	}

	logger.AuditLogger.Info("Verification email resent", zap.Int("user_id", user.ID))
	return c.JSON(fiber.Map{
		"message": "Verification email sent",
		"success": true,
		"status":  200,
	})
}

// Me mengembalikan profil user yang sedang login.
func Me(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	var user models.User
	var lastLogin sql.NullTime
	err := config.DB.QueryRow(
		"SELECT id, email, full_name, avatar_url, is_verified, created_at, last_login FROM users WHERE id = $1",
		userID,
	).Scan(&user.ID, &user.Email, &user.FullName, &user.AvatarURL, &user.IsVerified, &user.CreatedAt, &lastLogin)
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
		"message": "Profile found",
		"success": true,
		"status":  200,
		"data":    user,
	})
}
