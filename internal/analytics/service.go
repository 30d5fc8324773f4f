package analytics

import (
	"time"

	"kanbanflow/internal/models"
	"kanbanflow/internal/store"
)

// Service menjalankan rollup read-only di atas store.
// Predicate kolom terminal bisa diganti lewat field Done, misalnya saat
// nanti ada flag eksplisit di kolom.
type Service struct {
	Store *store.Store
	Done  func(title string) bool
}

func NewService(st *store.Store) *Service {
	return &Service{Store: st, Done: IsDoneTitle}
}

// collect memuat proyek, kolom, dan task milik user; task disaring
// menurut created_at dalam [start, end].
func (s *Service) collect(owner int, start, end time.Time) ([]models.Project, []models.Task, map[int]bool, error) {
	projects, err := s.Store.ListProjects(owner)
	if err != nil {
		return nil, nil, nil, err
	}

	doneColumns := map[int]bool{}
	tasks := []models.Task{}
	for _, project := range projects {
		columns, err := s.Store.ListColumns(project.ID)
		if err != nil {
			return nil, nil, nil, err
		}
		for _, column := range columns {
			if s.Done(column.Title) {
				doneColumns[column.ID] = true
			}
		}

		projectTasks, err := s.Store.ListTasks(project.ID)
		if err != nil {
			return nil, nil, nil, err
		}
		for _, task := range projectTasks {
			if task.CreatedAt.Before(start) || task.CreatedAt.After(end) {
				continue
			}
			tasks = append(tasks, task)
		}
	}

	return projects, tasks, doneColumns, nil
}

func (s *Service) UserStatistics(owner int, tr TimeRange, customStart, customEnd *time.Time) (UserStatistics, error) {
	now := time.Now()
	start, end := ResolveRange(tr, customStart, customEnd, now)

	projects, tasks, doneColumns, err := s.collect(owner, start, end)
	if err != nil {
		return UserStatistics{}, err
	}

	return BuildUserStatistics(projects, tasks, doneColumns, now), nil
}

// ActivityByDay menghitung task yang dibuat per hari kalender.
func (s *Service) ActivityByDay(owner int, tr TimeRange, customStart, customEnd *time.Time) ([]ActivityPoint, error) {
	start, end := ResolveRange(tr, customStart, customEnd, time.Now())

	_, tasks, _, err := s.collect(owner, start, end)
	if err != nil {
		return nil, err
	}

	created := make([]time.Time, 0, len(tasks))
	for _, task := range tasks {
		created = append(created, task.CreatedAt)
	}
	return CountByDay(start, end, created), nil
}

// CompletionVelocity menghitung task di kolom terminal yang ter-update
// per hari kalender (proksi waktu penyelesaian).
func (s *Service) CompletionVelocity(owner int, tr TimeRange, customStart, customEnd *time.Time) ([]ActivityPoint, error) {
	start, end := ResolveRange(tr, customStart, customEnd, time.Now())

	projects, err := s.Store.ListProjects(owner)
	if err != nil {
		return nil, err
	}

	completedAt := []time.Time{}
	for _, project := range projects {
		columns, err := s.Store.ListColumns(project.ID)
		if err != nil {
			return nil, err
		}
		doneColumns := map[int]bool{}
		for _, column := range columns {
			if s.Done(column.Title) {
				doneColumns[column.ID] = true
			}
		}

		tasks, err := s.Store.ListTasks(project.ID)
		if err != nil {
			return nil, err
		}
		for _, task := range tasks {
			if !doneColumns[task.ColumnID] {
				continue
			}
			if task.UpdatedAt.Before(start) || task.UpdatedAt.After(end) {
				continue
			}
			completedAt = append(completedAt, task.UpdatedAt)
		}
	}

	return CountByDay(start, end, completedAt), nil
}

func (s *Service) ColumnDistribution(projectID int) ([]ColumnDistribution, error) {
	columns, err := s.Store.ListColumns(projectID)
	if err != nil {
		return nil, err
	}
	tasks, err := s.Store.ListTasks(projectID)
	if err != nil {
		return nil, err
	}
	return BuildDistribution(columns, tasks), nil
}
