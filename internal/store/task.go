package store

import (
	"database/sql"
	"errors"
	"time"

	"kanbanflow/internal/models"

	"github.com/lib/pq"
)

const taskColumns = "id, title, description, column_id, project_id, deadline, labels, created_at, updated_at"

func scanTask(row interface{ Scan(...interface{}) error }) (models.Task, error) {
	var t models.Task
	var deadline sql.NullTime
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.ColumnID, &t.ProjectID,
		&deadline, pq.Array(&t.Labels), &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return models.Task{}, err
	}
	if deadline.Valid {
		d := deadline.Time
		t.Deadline = &d
	}
	return t, nil
}

func (s *Store) GetTask(id int) (models.Task, error) {
	row := s.DB.QueryRow("SELECT "+taskColumns+" FROM tasks WHERE id = $1", id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, ErrNotFound
	}
	if err != nil {
		return models.Task{}, err
	}
	return t, nil
}

func (s *Store) listTasks(query string, args ...interface{}) ([]models.Task, error) {
	rows, err := s.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *Store) ListTasks(projectID int) ([]models.Task, error) {
	return s.listTasks("SELECT "+taskColumns+" FROM tasks WHERE project_id = $1 ORDER BY id", projectID)
}

// CreateTask menyimpan task baru dan langsung mendaftarkannya di kolom.
// project_id diturunkan dari kolomnya supaya denormalisasi selalu konsisten.
func (s *Store) CreateTask(title, description string, columnID int, deadline *time.Time, labels []string) (models.Task, error) {
	column, err := s.GetColumn(columnID)
	if err != nil {
		return models.Task{}, err
	}
	if labels == nil {
		labels = []string{}
	}

	var taskID int
	err = s.DB.QueryRow(
		"INSERT INTO tasks (title, description, column_id, project_id, deadline, labels) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id",
		title, description, columnID, column.ProjectID, deadline, pq.Array(labels),
	).Scan(&taskID)
	if err != nil {
		return models.Task{}, err
	}

	if err := s.AddTaskToColumn(columnID, taskID); err != nil {
		return models.Task{}, err
	}

	return s.GetTask(taskID)
}

// SaveTask menulis ulang field task yang bisa diubah.
// Pemindahan kolom dan penjadwalan ulang deadline diurus pemanggil.
func (s *Store) SaveTask(t models.Task) (models.Task, error) {
	labels := t.Labels
	if labels == nil {
		labels = []string{}
	}
	res, err := s.DB.Exec(`
		UPDATE tasks
		SET title = $1, description = $2, column_id = $3, project_id = $4,
			deadline = $5, labels = $6, updated_at = CURRENT_TIMESTAMP
		WHERE id = $7`,
		t.Title, t.Description, t.ColumnID, t.ProjectID, t.Deadline, pq.Array(labels), t.ID,
	)
	if err != nil {
		return models.Task{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.Task{}, ErrNotFound
	}
	return s.GetTask(t.ID)
}

// MoveTask memindahkan task ke kolom lain: lepas dari kolom lama, daftar di
// kolom baru, lalu perbarui column_id (dan project_id mengikuti kolom baru).
// Pemindahan ke kolom yang sama adalah no-op.
func (s *Store) MoveTask(taskID, targetColumnID int) (models.Task, error) {
	task, err := s.GetTask(taskID)
	if err != nil {
		return models.Task{}, err
	}
	if task.ColumnID == targetColumnID {
		return task, nil
	}

	target, err := s.GetColumn(targetColumnID)
	if err != nil {
		return models.Task{}, err
	}

	if err := s.RemoveTaskFromColumn(task.ColumnID, taskID); err != nil {
		return models.Task{}, err
	}
	if err := s.AddTaskToColumn(targetColumnID, taskID); err != nil {
		return models.Task{}, err
	}

	_, err = s.DB.Exec(
		"UPDATE tasks SET column_id = $1, project_id = $2, updated_at = CURRENT_TIMESTAMP WHERE id = $3",
		targetColumnID, target.ProjectID, taskID,
	)
	if err != nil {
		return models.Task{}, err
	}
	return s.GetTask(taskID)
}

// DeleteTask melepas task dari kolomnya, membatalkan timer deadline,
// menghapus notifikasinya, lalu menghapus barisnya.
func (s *Store) DeleteTask(id int) error {
	task, err := s.GetTask(id)
	if err != nil {
		return err
	}

	if err := s.RemoveTaskFromColumn(task.ColumnID, id); err != nil {
		return err
	}

	s.cancelTimers(id)

	if err := s.DeleteNotificationsByTask(id); err != nil {
		return err
	}

	_, err = s.DB.Exec("DELETE FROM tasks WHERE id = $1", id)
	return err
}

// TasksWithDeadlines mengembalikan semua task ber-deadline beserta pemilik
// proyeknya. Dipakai scheduler untuk memulihkan timer saat proses start.
func (s *Store) TasksWithDeadlines() ([]models.Task, map[int]int, error) {
	rows, err := s.DB.Query(`
		SELECT t.id, t.title, t.description, t.column_id, t.project_id, t.deadline,
			t.labels, t.created_at, t.updated_at, p.owner
		FROM tasks t
		JOIN projects p ON p.id = t.project_id
		WHERE t.deadline IS NOT NULL`)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	tasks := []models.Task{}
	owners := map[int]int{}
	for rows.Next() {
		var t models.Task
		var deadline sql.NullTime
		var owner int
		err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.ColumnID, &t.ProjectID,
			&deadline, pq.Array(&t.Labels), &t.CreatedAt, &t.UpdatedAt, &owner)
		if err != nil {
			return nil, nil, err
		}
		if deadline.Valid {
			d := deadline.Time
			t.Deadline = &d
		}
		tasks = append(tasks, t)
		owners[t.ID] = owner
	}
	return tasks, owners, rows.Err()
}

// FindUpcomingTasks mengembalikan task milik owner yang deadline-nya jatuh
// dalam `days` hari ke depan.
func (s *Store) FindUpcomingTasks(owner, days int) ([]models.Task, error) {
	return s.listTasks(`
		SELECT `+taskColumns+` FROM tasks
		WHERE project_id IN (SELECT id FROM projects WHERE owner = $1)
		AND deadline >= CURRENT_TIMESTAMP
		AND deadline <= CURRENT_TIMESTAMP + ($2 || ' days')::interval
		ORDER BY deadline`, owner, days)
}

// FindOverdueTasks mengembalikan task milik owner yang deadline-nya terlewat.
func (s *Store) FindOverdueTasks(owner int) ([]models.Task, error) {
	return s.listTasks(`
		SELECT `+taskColumns+` FROM tasks
		WHERE project_id IN (SELECT id FROM projects WHERE owner = $1)
		AND deadline < CURRENT_TIMESTAMP
		ORDER BY deadline`, owner)
}
