package store

import (
	"database/sql"
	"errors"

	"kanbanflow/internal/models"

	"github.com/lib/pq"
)

func (s *Store) GetColumn(id int) (models.Column, error) {
	var c models.Column
	err := s.DB.QueryRow(
		"SELECT id, title, project_id, task_ids, created_at, updated_at FROM columns WHERE id = $1",
		id,
	).Scan(&c.ID, &c.Title, &c.ProjectID, pq.Array(&c.TaskIDs), &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Column{}, ErrNotFound
	}
	if err != nil {
		return models.Column{}, err
	}
	return c, nil
}

func (s *Store) ListColumns(projectID int) ([]models.Column, error) {
	rows, err := s.DB.Query(
		"SELECT id, title, project_id, task_ids, created_at, updated_at FROM columns WHERE project_id = $1 ORDER BY id",
		projectID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns := []models.Column{}
	for rows.Next() {
		var c models.Column
		if err := rows.Scan(&c.ID, &c.Title, &c.ProjectID, pq.Array(&c.TaskIDs), &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		columns = append(columns, c)
	}
	return columns, rows.Err()
}

// CreateColumn membuat kolom baru dan mendaftarkannya di column_order proyek.
func (s *Store) CreateColumn(title string, projectID int) (models.Column, error) {
	if _, err := s.GetProject(projectID); err != nil {
		return models.Column{}, err
	}

	var columnID int
	err := s.DB.QueryRow(
		"INSERT INTO columns (title, project_id) VALUES ($1, $2) RETURNING id",
		title, projectID,
	).Scan(&columnID)
	if err != nil {
		return models.Column{}, err
	}

	if err := s.appendColumnToProject(projectID, int64(columnID)); err != nil {
		return models.Column{}, err
	}

	return s.GetColumn(columnID)
}

func (s *Store) UpdateColumn(id int, title string) (models.Column, error) {
	if _, err := s.GetColumn(id); err != nil {
		return models.Column{}, err
	}
	_, err := s.DB.Exec(
		"UPDATE columns SET title = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2",
		title, id,
	)
	if err != nil {
		return models.Column{}, err
	}
	return s.GetColumn(id)
}

// DeleteColumn menghapus kolom beserta seluruh task di dalamnya.
// Penghapusan berjalan satu task per panggilan; task yang sudah hilang
// dilewati supaya cascade tetap idempoten.
func (s *Store) DeleteColumn(id int) error {
	column, err := s.GetColumn(id)
	if err != nil {
		return err
	}

	for _, taskID := range column.TaskIDs {
		if err := s.DeleteTask(int(taskID)); err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
	}

	if err := s.removeColumnFromProject(column.ProjectID, int64(id)); err != nil {
		return err
	}

	_, err = s.DB.Exec("DELETE FROM columns WHERE id = $1", id)
	return err
}

// ReorderColumnTasks mengganti task_ids secara keseluruhan.
// Urutan baru wajib permutasi dari himpunan task saat ini; daftar yang
// menjatuhkan atau menduplikasi id ditolak.
func (s *Store) ReorderColumnTasks(id int, newOrder []int64) (models.Column, error) {
	column, err := s.GetColumn(id)
	if err != nil {
		return models.Column{}, err
	}
	if !samePermutation(column.TaskIDs, newOrder) {
		return models.Column{}, ErrInvalidOrder
	}

	_, err = s.DB.Exec(
		"UPDATE columns SET task_ids = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2",
		pq.Array(newOrder), id,
	)
	if err != nil {
		return models.Column{}, err
	}
	return s.GetColumn(id)
}

// AddTaskToColumn menambahkan task di ujung daftar kolom.
func (s *Store) AddTaskToColumn(columnID, taskID int) error {
	column, err := s.GetColumn(columnID)
	if err != nil {
		return err
	}
	ids := append(column.TaskIDs, int64(taskID))
	_, err = s.DB.Exec(
		"UPDATE columns SET task_ids = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2",
		pq.Array(ids), columnID,
	)
	return err
}

// RemoveTaskFromColumn melepas task dari daftar kolom.
// Kolom atau task yang sudah tidak ada dianggap sukses (idempoten).
func (s *Store) RemoveTaskFromColumn(columnID, taskID int) error {
	column, err := s.GetColumn(columnID)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if !containsID(column.TaskIDs, int64(taskID)) {
		return nil
	}
	ids := removeID(column.TaskIDs, int64(taskID))
	_, err = s.DB.Exec(
		"UPDATE columns SET task_ids = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2",
		pq.Array(ids), columnID,
	)
	return err
}
