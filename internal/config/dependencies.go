package config

import (
	"context"
	"database/sql"

	"kanbanflow/internal/analytics"
	"kanbanflow/internal/mailer"
	"kanbanflow/internal/scheduler"
	"kanbanflow/internal/store"
	myws "kanbanflow/internal/websocket"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
)

var (
	// Global dependency yang akan digunakan di seluruh aplikasi
	DB          *sql.DB
	SecretKey   = []byte("secret")
	Validate    = validator.New()
	Ctx         = context.Background()
	RedisClient *redis.Client
	Store       *store.Store
	Analytics   *analytics.Service
	Deadlines   *scheduler.Scheduler
	Hub         *myws.Hub
	Mail        *mailer.Mailer
)
