package scheduler

import (
	"encoding/json"

	"kanbanflow/internal/mailer"
	"kanbanflow/internal/models"
	"kanbanflow/internal/store"
	myws "kanbanflow/internal/websocket"
	"kanbanflow/pkg/logger"

	"go.uber.org/zap"
)

// Notifier adalah efek samping produksi dari timer yang menyala:
// satu baris notifikasi, push ke WebSocket, dan (untuk approaching)
// email pengingat. Semua best-effort: kegagalan dicatat lalu ditelan,
// tidak ada retry.
type Notifier struct {
	Store *store.Store
	Hub   *myws.Hub
	Mail  *mailer.Mailer
}

func (n *Notifier) Notify(task models.Task, ownerID int, kind Kind) {
	notification, err := n.Store.CreateNotification(
		ownerID, task.ID, NotificationType(kind), Message(kind, task.Title),
	)
	if err != nil {
		logger.ErrorLogger.Error("Error inserting deadline notification",
			zap.Int("task_id", task.ID), zap.String("kind", string(kind)), zap.Error(err))
		return
	}

	logger.AuditLogger.Info("Deadline notification created",
		zap.Int("task_id", task.ID), zap.String("kind", string(kind)))

	if n.Hub != nil {
		if payload, err := json.Marshal(notification); err == nil {
			n.Hub.Push(ownerID, payload)
		}
	}

	if n.Mail != nil && kind == KindApproaching && task.Deadline != nil {
		var email string
		var verified bool
		err := n.Store.DB.QueryRow(
			"SELECT email, is_verified FROM users WHERE id = $1", ownerID,
		).Scan(&email, &verified)
		if err == nil && verified {
			if err := n.Mail.SendDeadlineEmail(email, task.Title, *task.Deadline); err != nil {
				logger.ErrorLogger.Error("Error sending deadline email",
					zap.Int("task_id", task.ID), zap.Error(err))
			}
		}
	}
}
