package test

import (
	"fmt"
	"net/http"
	"testing"
)

func TestCreateAndRenameColumn(t *testing.T) {
	app := CreateTestApp()
	token, _, _ := RegisterTestUser(app, t)

	project := createProject(app, t, token, "Column Board")
	projectID := int(project["id"].(float64))

	status, result := DoJSON(app, t, "POST", "/api/v1/columns/", token, map[string]interface{}{
		"title":      "Review",
		"project_id": projectID,
	})
	if status != http.StatusCreated {
		t.Fatalf("Expected status %d but got %d", http.StatusCreated, status)
	}
	column := dataMap(t, result)
	columnID := int(column["id"].(float64))

	// Kolom baru masuk ke akhir column_order
	status, result = DoJSON(app, t, "GET",
		fmt.Sprintf("/api/v1/projects/%d", projectID), token, nil)
	if status != http.StatusOK {
		t.Fatalf("Expected status %d but got %d", http.StatusOK, status)
	}
	order := dataMap(t, result)["column_order"].([]interface{})
	if len(order) != 4 {
		t.Fatalf("Expected 4 columns but got %d", len(order))
	}
	if int(order[3].(float64)) != columnID {
		t.Errorf("Expected new column %d at the end of column_order", columnID)
	}

	status, result = DoJSON(app, t, "PUT",
		fmt.Sprintf("/api/v1/columns/%d", columnID), token, map[string]string{
			"title": "Code Review",
		})
	if status != http.StatusOK {
		t.Fatalf("Expected status %d but got %d", http.StatusOK, status)
	}
	if dataMap(t, result)["title"] != "Code Review" {
		t.Errorf("Expected renamed column")
	}
}

func TestDeleteColumnRemovesTasks(t *testing.T) {
	app := CreateTestApp()
	token, _, _ := RegisterTestUser(app, t)

	project := createProject(app, t, token, "Shrinking Board")
	order := project["column_order"].([]interface{})
	columnID := int(order[0].(float64))

	status, result := DoJSON(app, t, "POST", "/api/v1/tasks/", token, map[string]interface{}{
		"title":     "Trapped task",
		"column_id": columnID,
	})
	if status != http.StatusCreated {
		t.Fatalf("Expected status %d creating task but got %d", http.StatusCreated, status)
	}
	taskID := int(dataMap(t, result)["id"].(float64))

	status, _ = DoJSON(app, t, "DELETE",
		fmt.Sprintf("/api/v1/columns/%d", columnID), token, nil)
	if status != http.StatusOK {
		t.Fatalf("Expected status %d deleting column but got %d", http.StatusOK, status)
	}

	status, _ = DoJSON(app, t, "GET",
		fmt.Sprintf("/api/v1/columns/%d", columnID), token, nil)
	if status != http.StatusNotFound {
		t.Errorf("Expected status %d for deleted column but got %d", http.StatusNotFound, status)
	}
	status, _ = DoJSON(app, t, "GET",
		fmt.Sprintf("/api/v1/tasks/%d", taskID), token, nil)
	if status != http.StatusNotFound {
		t.Errorf("Expected status %d for cascaded task but got %d", http.StatusNotFound, status)
	}

	// column_order ikut menyusut
	projectID := int(project["id"].(float64))
	status, result = DoJSON(app, t, "GET",
		fmt.Sprintf("/api/v1/projects/%d", projectID), token, nil)
	if status != http.StatusOK {
		t.Fatalf("Expected status %d but got %d", http.StatusOK, status)
	}
	remaining := dataMap(t, result)["column_order"].([]interface{})
	if len(remaining) != 2 {
		t.Errorf("Expected 2 remaining columns but got %d", len(remaining))
	}
}

func TestUpdateTaskOrder(t *testing.T) {
	app := CreateTestApp()
	token, _, _ := RegisterTestUser(app, t)

	project := createProject(app, t, token, "Ordered Board")
	order := project["column_order"].([]interface{})
	columnID := int(order[0].(float64))

	taskIDs := []int{}
	for _, title := range []string{"first", "second", "third"} {
		status, result := DoJSON(app, t, "POST", "/api/v1/tasks/", token, map[string]interface{}{
			"title":     title,
			"column_id": columnID,
		})
		if status != http.StatusCreated {
			t.Fatalf("Expected status %d creating task but got %d", http.StatusCreated, status)
		}
		taskIDs = append(taskIDs, int(dataMap(t, result)["id"].(float64)))
	}

	reversed := []int{taskIDs[2], taskIDs[1], taskIDs[0]}
	status, result := DoJSON(app, t, "PATCH",
		fmt.Sprintf("/api/v1/columns/%d/task-order", columnID), token,
		map[string]interface{}{"task_ids": reversed})
	if status != http.StatusOK {
		t.Fatalf("Expected status %d but got %d", http.StatusOK, status)
	}
	got := dataMap(t, result)["task_ids"].([]interface{})
	for i := range reversed {
		if int(got[i].(float64)) != reversed[i] {
			t.Errorf("Expected task %d at position %d but got %v", reversed[i], i, got[i])
		}
	}

	// Id asing membuat urutan ditolak
	status, _ = DoJSON(app, t, "PATCH",
		fmt.Sprintf("/api/v1/columns/%d/task-order", columnID), token,
		map[string]interface{}{"task_ids": []int{taskIDs[0], taskIDs[1], 999999}})
	if status != http.StatusBadRequest {
		t.Errorf("Expected status %d for foreign id but got %d", http.StatusBadRequest, status)
	}
}
