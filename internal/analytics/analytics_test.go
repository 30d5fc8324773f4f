package analytics

import (
	"testing"
	"time"

	"kanbanflow/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsDoneTitle(t *testing.T) {
	assert.True(t, IsDoneTitle("Done"))
	assert.True(t, IsDoneTitle("DONE"))
	assert.True(t, IsDoneTitle("Completed"))
	assert.True(t, IsDoneTitle("Готово"))
	assert.True(t, IsDoneTitle("done tasks"))
	assert.False(t, IsDoneTitle("To Do"))
	assert.False(t, IsDoneTitle("In Progress"))
	assert.False(t, IsDoneTitle("Backlog"))
}

func TestResolveRange(t *testing.T) {
	now := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)

	t.Run("week", func(t *testing.T) {
		start, end := ResolveRange(RangeWeek, nil, nil, now)
		assert.Equal(t, time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC), start)
		assert.Equal(t, 15, end.Day())
		assert.Equal(t, 23, end.Hour())
	})

	t.Run("month is the default", func(t *testing.T) {
		start, _ := ResolveRange(RangeMonth, nil, nil, now)
		assert.Equal(t, time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC), start)

		defaultStart, _ := ResolveRange(TimeRange("bogus"), nil, nil, now)
		assert.Equal(t, start, defaultStart)
	})

	t.Run("all starts at 2000", func(t *testing.T) {
		start, _ := ResolveRange(RangeAll, nil, nil, now)
		assert.Equal(t, 2000, start.Year())
	})

	t.Run("custom aligns to day bounds", func(t *testing.T) {
		customStart := time.Date(2024, 1, 10, 9, 15, 0, 0, time.UTC)
		customEnd := time.Date(2024, 1, 20, 11, 45, 0, 0, time.UTC)
		start, end := ResolveRange(RangeCustom, &customStart, &customEnd, now)
		assert.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), start)
		assert.Equal(t, 20, end.Day())
		assert.Equal(t, 23, end.Hour())
	})

	t.Run("custom without dates falls back to month", func(t *testing.T) {
		start, _ := ResolveRange(RangeCustom, nil, nil, now)
		assert.Equal(t, time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC), start)
	})
}

func TestBuildUserStatistics(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-48 * time.Hour)
	soon := now.Add(72 * time.Hour)
	far := now.AddDate(0, 1, 0)

	projects := []models.Project{
		{ID: 1, Name: "Website"},
		{ID: 2, Name: "Mobile App"},
	}
	doneColumns := map[int]bool{30: true}

	tasks := []models.Task{
		{ID: 1, ProjectID: 1, ColumnID: 30},                  // selesai
		{ID: 2, ProjectID: 1, ColumnID: 30, Deadline: &past}, // selesai, deadline lewat diabaikan
		{ID: 3, ProjectID: 1, ColumnID: 10, Deadline: &past}, // overdue
		{ID: 4, ProjectID: 2, ColumnID: 10, Deadline: &soon}, // upcoming
		{ID: 5, ProjectID: 2, ColumnID: 10, Deadline: &far},  // di luar 7 hari
	}

	stats := BuildUserStatistics(projects, tasks, doneColumns, now)

	assert.Equal(t, 5, stats.TotalTasks)
	assert.Equal(t, 2, stats.CompletedTasks)
	assert.Equal(t, 40, stats.CompletionRate)
	assert.Equal(t, 1, stats.OverdueTasks)
	assert.Equal(t, 1, stats.UpcomingDeadlines)

	// Proyek dengan persentase selesai tertinggi di depan
	require.Len(t, stats.Projects, 2)
	assert.Equal(t, "Website", stats.Projects[0].Name)
	assert.Equal(t, 3, stats.Projects[0].TasksCount)
	assert.Equal(t, 2, stats.Projects[0].CompletedTasksCount)
	assert.Equal(t, 67, stats.Projects[0].CompletionRate)
	assert.Equal(t, "Mobile App", stats.Projects[1].Name)
	assert.Equal(t, 0, stats.Projects[1].CompletionRate)
}

func TestBuildUserStatisticsEmpty(t *testing.T) {
	stats := BuildUserStatistics(nil, nil, nil, time.Now())
	assert.Equal(t, 0, stats.TotalTasks)
	assert.Equal(t, 0, stats.CompletionRate)
	assert.Empty(t, stats.Projects)
}

func TestCountByDayZeroFillsRange(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 3, 23, 59, 59, 0, time.UTC)

	times := []time.Time{
		time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 1, 17, 30, 0, 0, time.UTC),
		time.Date(2024, 1, 3, 8, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC), // di luar rentang
	}

	points := CountByDay(start, end, times)

	require.Len(t, points, 3)
	assert.Equal(t, ActivityPoint{Date: "2024-01-01", Count: 2}, points[0])
	assert.Equal(t, ActivityPoint{Date: "2024-01-02", Count: 0}, points[1])
	assert.Equal(t, ActivityPoint{Date: "2024-01-03", Count: 1}, points[2])
}

func TestBuildDistribution(t *testing.T) {
	columns := []models.Column{
		{ID: 10, Title: "To Do"},
		{ID: 20, Title: "In Progress"},
		{ID: 30, Title: "Done"},
	}
	tasks := make([]models.Task, 0, 10)
	for i := 0; i < 3; i++ {
		tasks = append(tasks, models.Task{ColumnID: 10})
	}
	for i := 0; i < 7; i++ {
		tasks = append(tasks, models.Task{ColumnID: 30})
	}

	distribution := BuildDistribution(columns, tasks)

	require.Len(t, distribution, 3)
	assert.Equal(t, 3, distribution[0].TasksCount)
	assert.Equal(t, 30, distribution[0].Percentage)
	assert.Equal(t, 0, distribution[1].TasksCount)
	assert.Equal(t, 0, distribution[1].Percentage)
	assert.Equal(t, 7, distribution[2].TasksCount)
	assert.Equal(t, 70, distribution[2].Percentage)
}

func TestBuildDistributionEmptyProject(t *testing.T) {
	columns := []models.Column{{ID: 10, Title: "To Do"}}
	distribution := BuildDistribution(columns, nil)

	require.Len(t, distribution, 1)
	assert.Equal(t, 0, distribution[0].TasksCount)
	assert.Equal(t, 0, distribution[0].Percentage)
}
