package analytics

import (
	"math"
	"regexp"
	"sort"
	"time"

	"kanbanflow/internal/models"
)

// TimeRange adalah pilihan rentang waktu untuk endpoint analitik.
type TimeRange string

const (
	RangeWeek   TimeRange = "week"
	RangeMonth  TimeRange = "month"
	RangeAll    TimeRange = "all"
	RangeCustom TimeRange = "custom"
)

// Kolom "selesai" dikenali dari judulnya, bukan dari flag status.
// Pola mengikuti konvensi penamaan yang dipakai board: done/complete
// serta padanan "готово".
var doneTitlePattern = regexp.MustCompile(`(?i)готово|done|complete`)

// IsDoneTitle adalah predicate bawaan untuk kolom terminal.
func IsDoneTitle(title string) bool {
	return doneTitlePattern.MatchString(title)
}

type ProjectStats struct {
	ID                  int    `json:"id"`
	Name                string `json:"name"`
	TasksCount          int    `json:"tasksCount"`
	CompletedTasksCount int    `json:"completedTasksCount"`
	CompletionRate      int    `json:"completionRate"`
}

type UserStatistics struct {
	TotalTasks        int            `json:"totalTasks"`
	CompletedTasks    int            `json:"completedTasks"`
	CompletionRate    int            `json:"completionRate"`
	OverdueTasks      int            `json:"overdueTasks"`
	UpcomingDeadlines int            `json:"upcomingDeadlines"`
	Projects          []ProjectStats `json:"projects"`
}

type ActivityPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type ColumnDistribution struct {
	ColumnID    int    `json:"columnId"`
	ColumnTitle string `json:"columnTitle"`
	TasksCount  int    `json:"tasksCount"`
	Percentage  int    `json:"percentage"`
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// ResolveRange menerjemahkan pilihan rentang menjadi [start, end] yang
// sudah diratakan ke batas hari. Rentang custom tanpa tanggal lengkap
// jatuh kembali ke "month".
func ResolveRange(tr TimeRange, customStart, customEnd *time.Time, now time.Time) (time.Time, time.Time) {
	end := endOfDay(now)

	switch tr {
	case RangeWeek:
		return startOfDay(now.AddDate(0, 0, -7)), end
	case RangeCustom:
		if customStart != nil && customEnd != nil {
			return startOfDay(*customStart), endOfDay(*customEnd)
		}
		return startOfDay(now.AddDate(0, -1, 0)), end
	case RangeAll:
		return startOfDay(time.Date(2000, 1, 1, 0, 0, 0, 0, now.Location())), end
	default: // month
		return startOfDay(now.AddDate(0, -1, 0)), end
	}
}

func percentage(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

// BuildUserStatistics menghitung rollup untuk satu user dari task yang
// dibuat dalam rentang. doneColumns memetakan id kolom → kolom terminal.
func BuildUserStatistics(projects []models.Project, tasks []models.Task, doneColumns map[int]bool, now time.Time) UserStatistics {
	completed := 0
	overdue := 0
	upcoming := 0
	nextWeek := now.AddDate(0, 0, 7)

	for _, task := range tasks {
		done := doneColumns[task.ColumnID]
		if done {
			completed++
		}
		if task.Deadline == nil || done {
			continue
		}
		if task.Deadline.Before(now) {
			overdue++
		} else if !task.Deadline.After(nextWeek) {
			upcoming++
		}
	}

	stats := UserStatistics{
		TotalTasks:        len(tasks),
		CompletedTasks:    completed,
		CompletionRate:    percentage(completed, len(tasks)),
		OverdueTasks:      overdue,
		UpcomingDeadlines: upcoming,
		Projects:          []ProjectStats{},
	}

	for _, project := range projects {
		ps := ProjectStats{ID: project.ID, Name: project.Name}
		for _, task := range tasks {
			if task.ProjectID != project.ID {
				continue
			}
			ps.TasksCount++
			if doneColumns[task.ColumnID] {
				ps.CompletedTasksCount++
			}
		}
		ps.CompletionRate = percentage(ps.CompletedTasksCount, ps.TasksCount)
		stats.Projects = append(stats.Projects, ps)
	}

	// Proyek diurutkan menurun berdasarkan persentase selesai.
	sort.SliceStable(stats.Projects, func(i, j int) bool {
		return stats.Projects[i].CompletionRate > stats.Projects[j].CompletionRate
	})

	return stats
}

// CountByDay mengelompokkan timestamp per hari kalender dalam rentang.
// Setiap hari di rentang muncul di output, hari kosong bernilai 0.
func CountByDay(start, end time.Time, times []time.Time) []ActivityPoint {
	points := []ActivityPoint{}
	index := map[string]int{}

	for day := startOfDay(start); !day.After(end); day = day.AddDate(0, 0, 1) {
		key := day.Format("2006-01-02")
		index[key] = len(points)
		points = append(points, ActivityPoint{Date: key, Count: 0})
	}

	for _, t := range times {
		key := t.Format("2006-01-02")
		if i, ok := index[key]; ok {
			points[i].Count++
		}
	}

	return points
}

// BuildDistribution menghitung jumlah task dan persentase per kolom
// untuk satu proyek. Proyek tanpa task menghasilkan persentase 0.
func BuildDistribution(columns []models.Column, tasks []models.Task) []ColumnDistribution {
	distribution := []ColumnDistribution{}
	for _, column := range columns {
		count := 0
		for _, task := range tasks {
			if task.ColumnID == column.ID {
				count++
			}
		}
		distribution = append(distribution, ColumnDistribution{
			ColumnID:    column.ID,
			ColumnTitle: column.Title,
			TasksCount:  count,
			Percentage:  percentage(count, len(tasks)),
		})
	}
	return distribution
}
