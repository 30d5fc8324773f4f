package test

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/http/httptest"
	"os"
	"testing"
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
	"github.com/joho/godotenv"
)

func connectDBTest(cfg configs.Config) *sql.DB {
	psqlconn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBNameTest)
	db, err := sql.Open("postgres", psqlconn)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	return db
}

func TestMain(m *testing.M) {
	// Initialize logger for testing
	logger.InitLoggers()
	defer logger.SyncLoggers()

	// Set GO_ENV to "test" so LoadConfig does not print .env logs
	os.Setenv("GO_ENV", "test")

	// Try to load .env (if exists)
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../.env"); err != nil {
			logger.SystemLogger.Info("No .env file found, using default values")
		}
	}

	// Initialize database for testing
	cfg := configs.LoadConfig()
	config.DB = connectDBTest(cfg)
	defer config.DB.Close()

	logger.SystemLogger.Info("Database Connected")

	// Create tables if they don't exist
	repository.CreateTableIfNotExists(config.DB)

	// Initialize Redis client
	config.RedisClient = database.ConnectRedis(cfg)
	defer config.RedisClient.Close()

	// Wire the rest of the application dependencies
	config.Mail = mailer.New(cfg) // SMTP host kosong: email hanya dicatat
	config.Hub = myws.NewHub()
	go config.Hub.Run()

	config.Store = store.New(config.DB)
	config.Analytics = analytics.NewService(config.Store)

	notifier := &scheduler.Notifier{Store: config.Store, Hub: config.Hub, Mail: config.Mail}
	config.Deadlines = scheduler.New(notifier.Notify)
	config.Store.SetTimerCanceller(config.Deadlines)

	// Run all tests
	code := m.Run()

	// Clean up: delete all tables so the database is empty after tests
	config.Deadlines.Shutdown()
	repository.DeleteAllTable(config.DB)

	// Exit with the test code
	os.Exit(code)
}

// CreateTestApp menginisialisasi aplikasi Fiber dengan route yang akan di-test
func CreateTestApp() *fiber.App {
	app := fiber.New()
	app.Use(middleware.ErrorHandler())
	v1.RegisterRoutes(app)
	return app
}

// RegisterTestUser mendaftarkan user baru lalu login untuk mendapatkan token
func RegisterTestUser(app *fiber.App, t *testing.T) (string, int, string) {
	t.Helper()

	email := fmt.Sprintf("user_%d@example.com", time.Now().UnixNano())
	registerBody := map[string]string{
		"email":     email,
		"password":  "secret123",
		"full_name": "Test User",
	}
	registerJSON, _ := json.Marshal(registerBody)
	req := httptest.NewRequest("POST", "/api/v1/auth/register", bytes.NewReader(registerJSON))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Error registering user: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != 201 {
		t.Fatalf("Expected status 201 on register but got %d", resp.StatusCode)
	}

	// Login user
	loginBody := map[string]string{
		"email":    email,
		"password": "secret123",
	}
	loginJSON, _ := json.Marshal(loginBody)
	req = httptest.NewRequest("POST", "/api/v1/auth/login", bytes.NewReader(loginJSON))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Error logging in: %v", err)
	}
	defer resp.Body.Close()

	var loginResult map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&loginResult); err != nil {
		t.Fatalf("Error decoding login response: %v", err)
	}
	data, ok := loginResult["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected data field in login response")
	}
	token, ok := data["token"].(string)
	if !ok || token == "" {
		t.Fatalf("Expected valid token in login response")
	}
	user, ok := data["user"].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected user field in login response")
	}
	userID := int(user["id"].(float64))

	// Kembalikan token, userID, dan email
	return token, userID, email
}

// DoJSON mengirim request JSON ber-token dan mengembalikan response ter-decode
func DoJSON(app *fiber.App, t *testing.T, method, target, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, target, err)
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Error decoding response of %s %s: %v", method, target, err)
	}
	return resp.StatusCode, result
}

// dataMap mengambil field data sebagai objek
func dataMap(t *testing.T, result map[string]interface{}) map[string]interface{} {
	t.Helper()
	data, ok := result["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected data object in response, got %v", result)
	}
	return data
}

// dataList mengambil field data sebagai array
func dataList(t *testing.T, result map[string]interface{}) []interface{} {
	t.Helper()
	data, ok := result["data"].([]interface{})
	if !ok {
		t.Fatalf("Expected data array in response, got %v", result)
	}
	return data
}
