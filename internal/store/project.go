package store

import (
	"database/sql"
	"errors"

	"kanbanflow/internal/models"

	"github.com/lib/pq"
)

// Kolom bawaan yang dibuat untuk setiap proyek baru.
var defaultColumnTitles = []string{"To Do", "In Progress", "Done"}

func (s *Store) GetProject(id int) (models.Project, error) {
	var p models.Project
	err := s.DB.QueryRow(
		"SELECT id, name, description, owner, column_order, created_at, updated_at FROM projects WHERE id = $1",
		id,
	).Scan(&p.ID, &p.Name, &p.Description, &p.Owner, pq.Array(&p.ColumnOrder), &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Project{}, ErrNotFound
	}
	if err != nil {
		return models.Project{}, err
	}
	return p, nil
}

func (s *Store) ListProjects(owner int) ([]models.Project, error) {
	rows, err := s.DB.Query(
		"SELECT id, name, description, owner, column_order, created_at, updated_at FROM projects WHERE owner = $1 ORDER BY id",
		owner,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Owner, pq.Array(&p.ColumnOrder), &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// CreateProject membuat proyek baru beserta tiga kolom bawaan.
// Setiap kolom langsung terdaftar di column_order lewat CreateColumn.
func (s *Store) CreateProject(name, description string, owner int) (models.Project, error) {
	var projectID int
	err := s.DB.QueryRow(
		"INSERT INTO projects (name, description, owner) VALUES ($1, $2, $3) RETURNING id",
		name, description, owner,
	).Scan(&projectID)
	if err != nil {
		return models.Project{}, err
	}

	for _, title := range defaultColumnTitles {
		if _, err := s.CreateColumn(title, projectID); err != nil {
			return models.Project{}, err
		}
	}

	return s.GetProject(projectID)
}

func (s *Store) UpdateProject(id int, name, description *string) (models.Project, error) {
	if _, err := s.GetProject(id); err != nil {
		return models.Project{}, err
	}
	_, err := s.DB.Exec(`
		UPDATE projects
		SET name = COALESCE($1, name),
			description = COALESCE($2, description),
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $3`,
		name, description, id,
	)
	if err != nil {
		return models.Project{}, err
	}
	return s.GetProject(id)
}

// DeleteProject menghapus proyek beserta seluruh kolomnya satu per satu.
// Kolom yang sudah hilang dilewati agar cascade tetap bisa diulang.
func (s *Store) DeleteProject(id int) error {
	project, err := s.GetProject(id)
	if err != nil {
		return err
	}

	for _, columnID := range project.ColumnOrder {
		if err := s.DeleteColumn(int(columnID)); err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
	}

	_, err = s.DB.Exec("DELETE FROM projects WHERE id = $1", id)
	return err
}

// ReorderProjectColumns mengganti column_order secara keseluruhan.
// Urutan baru harus permutasi dari himpunan kolom saat ini.
func (s *Store) ReorderProjectColumns(id int, newOrder []int64) (models.Project, error) {
	project, err := s.GetProject(id)
	if err != nil {
		return models.Project{}, err
	}
	if !samePermutation(project.ColumnOrder, newOrder) {
		return models.Project{}, ErrInvalidOrder
	}

	_, err = s.DB.Exec(
		"UPDATE projects SET column_order = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2",
		pq.Array(newOrder), id,
	)
	if err != nil {
		return models.Project{}, err
	}
	return s.GetProject(id)
}

func (s *Store) appendColumnToProject(projectID int, columnID int64) error {
	project, err := s.GetProject(projectID)
	if err != nil {
		return err
	}
	order := append(project.ColumnOrder, columnID)
	_, err = s.DB.Exec(
		"UPDATE projects SET column_order = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2",
		pq.Array(order), projectID,
	)
	return err
}

func (s *Store) removeColumnFromProject(projectID int, columnID int64) error {
	project, err := s.GetProject(projectID)
	if errors.Is(err, ErrNotFound) {
		// Proyek sudah tidak ada, tidak ada yang perlu dilepas.
		return nil
	}
	if err != nil {
		return err
	}
	order := removeID(project.ColumnOrder, columnID)
	_, err = s.DB.Exec(
		"UPDATE projects SET column_order = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2",
		pq.Array(order), projectID,
	)
	return err
}
