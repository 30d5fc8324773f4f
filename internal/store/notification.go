package store

import (
	"database/sql"
	"errors"

	"kanbanflow/internal/models"
)

func (s *Store) CreateNotification(userID, taskID int, notifType, message string) (models.Notification, error) {
	var n models.Notification
	err := s.DB.QueryRow(`
		INSERT INTO notifications (user_id, task_id, type, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, task_id, type, message, is_read, created_at`,
		userID, taskID, notifType, message,
	).Scan(&n.ID, &n.UserID, &n.TaskID, &n.Type, &n.Message, &n.IsRead, &n.CreatedAt)
	if err != nil {
		return models.Notification{}, err
	}
	return n, nil
}

// ListNotifications mengembalikan notifikasi user, terbaru lebih dulu.
func (s *Store) ListNotifications(userID int) ([]models.Notification, error) {
	rows, err := s.DB.Query(`
		SELECT id, user_id, task_id, type, message, is_read, created_at
		FROM notifications WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := []models.Notification{}
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.TaskID, &n.Type, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// MarkNotificationRead hanya berlaku untuk notifikasi milik user tersebut.
func (s *Store) MarkNotificationRead(id, userID int) (models.Notification, error) {
	var n models.Notification
	err := s.DB.QueryRow(`
		UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, task_id, type, message, is_read, created_at`,
		id, userID,
	).Scan(&n.ID, &n.UserID, &n.TaskID, &n.Type, &n.Message, &n.IsRead, &n.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Notification{}, ErrNotFound
	}
	if err != nil {
		return models.Notification{}, err
	}
	return n, nil
}

func (s *Store) MarkAllNotificationsRead(userID int) error {
	_, err := s.DB.Exec(
		"UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE",
		userID,
	)
	return err
}

func (s *Store) DeleteNotification(id, userID int) error {
	result, err := s.DB.Exec(
		"DELETE FROM notifications WHERE id = $1 AND user_id = $2", id, userID,
	)
	if err != nil {
		return err
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteNotificationsByTask(taskID int) error {
	_, err := s.DB.Exec("DELETE FROM notifications WHERE task_id = $1", taskID)
	return err
}
