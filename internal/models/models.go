package models

import (
	"time"
)

type User struct {
	ID                int       `json:"id"`
	Email             string    `json:"email"`
	FullName          string    `json:"full_name"`
	AvatarURL         string    `json:"avatar_url"`
	IsVerified        bool      `json:"is_verified"`
	VerificationToken string    `json:"-"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
	LastLogin         time.Time `json:"last_login"`
}

type Project struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Owner       int       `json:"owner"`
	ColumnOrder []int64   `json:"column_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Column struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	ProjectID int       `json:"project_id"`
	TaskIDs   []int64   `json:"task_ids"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Task struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	ColumnID    int        `json:"column_id"`
	ProjectID   int        `json:"project_id"`
	Deadline    *time.Time `json:"deadline"`
	Labels      []string   `json:"labels"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Tipe notifikasi yang dikenali aplikasi.
const (
	NotificationDeadlineApproaching = "deadline-approaching"
	NotificationDeadlineMissed      = "deadline-missed"
	NotificationTaskAssigned        = "task-assigned"
	NotificationTaskCompleted       = "task-completed"
)

type Notification struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	TaskID    int       `json:"task_id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
