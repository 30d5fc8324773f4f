package test

import (
	"fmt"
	"net/http"
	"testing"

	"kanbanflow/internal/config"
	"kanbanflow/internal/models"
)

func TestNotificationLifecycle(t *testing.T) {
	app := CreateTestApp()
	token, userID, _ := RegisterTestUser(app, t)

	// Tanam dua notifikasi langsung lewat store
	first, err := config.Store.CreateNotification(
		userID, 0, models.NotificationDeadlineApproaching, "Deadline is near")
	if err != nil {
		t.Fatalf("Error creating notification: %v", err)
	}
	if _, err := config.Store.CreateNotification(
		userID, 0, models.NotificationDeadlineMissed, "Deadline missed"); err != nil {
		t.Fatalf("Error creating notification: %v", err)
	}

	status, result := DoJSON(app, t, "GET", "/api/v1/notifications/", token, nil)
	if status != http.StatusOK {
		t.Fatalf("Expected status %d but got %d", http.StatusOK, status)
	}
	notifications := dataList(t, result)
	if len(notifications) != 2 {
		t.Fatalf("Expected 2 notifications but got %d", len(notifications))
	}

	// Tandai satu sebagai dibaca
	status, result = DoJSON(app, t, "PATCH",
		fmt.Sprintf("/api/v1/notifications/%d/read", first.ID), token, nil)
	if status != http.StatusOK {
		t.Fatalf("Expected status %d but got %d", http.StatusOK, status)
	}
	if dataMap(t, result)["is_read"] != true {
		t.Errorf("Expected notification to be read")
	}

	// Tandai semua
	status, _ = DoJSON(app, t, "PATCH", "/api/v1/notifications/read-all", token, nil)
	if status != http.StatusOK {
		t.Fatalf("Expected status %d but got %d", http.StatusOK, status)
	}

	status, result = DoJSON(app, t, "GET", "/api/v1/notifications/", token, nil)
	if status != http.StatusOK {
		t.Fatalf("Expected status %d but got %d", http.StatusOK, status)
	}
	for _, raw := range dataList(t, result) {
		n := raw.(map[string]interface{})
		if n["is_read"] != true {
			t.Errorf("Expected all notifications read, found unread %v", n["id"])
		}
	}

	// Hapus satu
	status, _ = DoJSON(app, t, "DELETE",
		fmt.Sprintf("/api/v1/notifications/%d", first.ID), token, nil)
	if status != http.StatusOK {
		t.Fatalf("Expected status %d but got %d", http.StatusOK, status)
	}
	status, result = DoJSON(app, t, "GET", "/api/v1/notifications/", token, nil)
	if status != http.StatusOK {
		t.Fatalf("Expected status %d but got %d", http.StatusOK, status)
	}
	if len(dataList(t, result)) != 1 {
		t.Errorf("Expected 1 notification after delete")
	}
}

func TestNotificationOwnership(t *testing.T) {
	app := CreateTestApp()
	_, ownerID, _ := RegisterTestUser(app, t)
	strangerToken, _, _ := RegisterTestUser(app, t)

	notification, err := config.Store.CreateNotification(
		ownerID, 0, models.NotificationTaskCompleted, "Done")
	if err != nil {
		t.Fatalf("Error creating notification: %v", err)
	}

	// Notifikasi orang lain tidak terlihat dan tidak bisa diubah
	status, _ := DoJSON(app, t, "PATCH",
		fmt.Sprintf("/api/v1/notifications/%d/read", notification.ID), strangerToken, nil)
	if status != http.StatusNotFound {
		t.Errorf("Expected status %d but got %d", http.StatusNotFound, status)
	}
	status, _ = DoJSON(app, t, "DELETE",
		fmt.Sprintf("/api/v1/notifications/%d", notification.ID), strangerToken, nil)
	if status != http.StatusNotFound {
		t.Errorf("Expected status %d but got %d", http.StatusNotFound, status)
	}
}
