package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kanbanflow/configs"
	v1 "kanbanflow/internal/api/v1"
	"kanbanflow/internal/analytics"
	"kanbanflow/internal/config"
	"kanbanflow/internal/mailer"
	"kanbanflow/internal/middleware"
	"kanbanflow/internal/repository"
	"kanbanflow/internal/scheduler"
	"kanbanflow/internal/store"
	myws "kanbanflow/internal/websocket"
	"kanbanflow/pkg/database"
	"kanbanflow/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

func main() {
	// Inisialisasi logger
	logger.InitLoggers()
	defer logger.SyncLoggers()
	logger.SystemLogger.Info("Starting application", zap.String("time", time.Now().Format(time.RFC3339)))

	// Load config
	cfg := configs.LoadConfig()
	// Inisialisasi database
	config.DB = database.ConnectDB(cfg)
	defer config.DB.Close()

	logger.SystemLogger.Info("Database Connected")

	// ----- Inisialisasi repository ----- //
	// Buat tabel jika belum ada:
	repository.CreateTableIfNotExists(config.DB)
	// Jika ingin menghapus tabel:
	// repository.DeleteAllTable(config.DB)

	// Inisialisasi Redis
	config.RedisClient = database.ConnectRedis(cfg)
	defer config.RedisClient.Close()

	// Inisialisasi mailer dan WebSocket hub
	config.Mail = mailer.New(cfg)
	config.Hub = myws.NewHub()
	go config.Hub.Run()

	// Store, analitik, dan scheduler deadline
	config.Store = store.New(config.DB)
	config.Analytics = analytics.NewService(config.Store)

	notifier := &scheduler.Notifier{
		Store: config.Store,
		Hub:   config.Hub,
		Mail:  config.Mail,
	}
	config.Deadlines = scheduler.New(notifier.Notify)
	config.Store.SetTimerCanceller(config.Deadlines)

	// Timer hilang saat proses mati; pasang ulang dari database
	tasks, owners, err := config.Store.TasksWithDeadlines()
	if err != nil {
		logger.ErrorLogger.Error("Error recovering deadline timers", zap.Error(err))
	} else {
		config.Deadlines.Recover(tasks, owners)
		logger.SystemLogger.Info("Deadline timers recovered", zap.Int("tasks", len(tasks)))
	}

	app := fiber.New()

	// Middleware
	app.Use(middleware.ErrorHandler())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
	}))

	// Daftarkan route API v1
	v1.RegisterRoutes(app)

	// WebSocket: token JWT dikirim lewat query karena browser tidak bisa
	// menaruh header Authorization di handshake
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			userID, err := middleware.ParseUserID(c.Query("token"))
			if err != nil {
				logger.SecurityLogger.Warn("Rejected WebSocket upgrade", zap.Error(err))
				return fiber.ErrUnauthorized
			}
			c.Locals("userID", userID)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		client := &myws.Client{
			UserID: c.Locals("userID").(int),
			Conn:   c,
		}
		config.Hub.Register <- client
		defer func() {
			config.Hub.Unregister <- client
		}()
		// Koneksi hanya untuk push; pesan masuk dibaca dan dibuang
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// Matikan server dengan rapi saat menerima SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		logger.SystemLogger.Info("Shutting down application")
		config.Deadlines.Shutdown()
		_ = app.Shutdown()
	}()

	logger.SystemLogger.Info("Application ready", zap.Int("port", cfg.AppPort))
	if err := app.Listen(fmt.Sprintf(":%d", cfg.AppPort)); err != nil {
		logger.ErrorLogger.Error("Application failed to start", zap.Error(err))
	}
}
