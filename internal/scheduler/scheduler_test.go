package scheduler

import (
	"sync"
	"testing"
	"time"

	"kanbanflow/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu    sync.Mutex
	calls []Kind
}

func (r *recorder) notify(task models.Task, ownerID int, kind Kind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, kind)
}

func (r *recorder) kinds() []Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Kind{}, r.calls...)
}

func taskWithDeadline(id int, deadline time.Time) models.Task {
	return models.Task{ID: id, Title: "Write report", Deadline: &deadline}
}

func TestScheduleWithoutDeadline(t *testing.T) {
	rec := &recorder{}
	s := New(rec.notify)
	defer s.Shutdown()

	s.Schedule(models.Task{ID: 1, Title: "No deadline"}, 10)

	assert.Equal(t, 0, s.ActiveTimers(1))
	assert.Empty(t, rec.kinds())
}

func TestScheduleFarFutureArmsBothTimers(t *testing.T) {
	rec := &recorder{}
	s := New(rec.notify)
	defer s.Shutdown()

	s.Schedule(taskWithDeadline(1, time.Now().Add(48*time.Hour)), 10)

	assert.Equal(t, 2, s.ActiveTimers(1))
	assert.Empty(t, rec.kinds())
}

func TestScheduleInsideApproachingWindow(t *testing.T) {
	rec := &recorder{}
	s := New(rec.notify)
	defer s.Shutdown()

	// 1 jam lagi: jendela approaching sudah lewat, hanya missed yang dipasang
	s.Schedule(taskWithDeadline(1, time.Now().Add(time.Hour)), 10)

	assert.Equal(t, 1, s.ActiveTimers(1))
	assert.Empty(t, rec.kinds())
}

func TestSchedulePastDeadlineNotifiesImmediately(t *testing.T) {
	rec := &recorder{}
	s := New(rec.notify)
	defer s.Shutdown()

	s.Schedule(taskWithDeadline(1, time.Now().Add(-time.Hour)), 10)

	require.Equal(t, []Kind{KindMissed}, rec.kinds())
	assert.Equal(t, 0, s.ActiveTimers(1))
}

func TestRescheduleReplacesExistingTimers(t *testing.T) {
	rec := &recorder{}
	s := New(rec.notify)
	defer s.Shutdown()

	task := taskWithDeadline(1, time.Now().Add(48*time.Hour))
	s.Schedule(task, 10)
	s.Schedule(task, 10)
	s.Schedule(taskWithDeadline(1, time.Now().Add(72*time.Hour)), 10)

	// Berapa kali pun dipasang ulang, maksimal dua timer per task
	assert.Equal(t, 2, s.ActiveTimers(1))
}

func TestTimerFires(t *testing.T) {
	fired := make(chan Kind, 2)
	s := New(func(task models.Task, ownerID int, kind Kind) {
		fired <- kind
	})
	defer s.Shutdown()

	s.Schedule(taskWithDeadline(1, time.Now().Add(20*time.Millisecond)), 10)

	select {
	case kind := <-fired:
		assert.Equal(t, KindMissed, kind)
	case <-time.After(time.Second):
		t.Fatal("missed timer did not fire")
	}
	assert.Equal(t, 0, s.ActiveTimers(1))
}

func TestCancelStopsBothTimers(t *testing.T) {
	rec := &recorder{}
	s := New(rec.notify)
	defer s.Shutdown()

	s.Schedule(taskWithDeadline(1, time.Now().Add(48*time.Hour)), 10)
	s.Cancel(1)

	assert.Equal(t, 0, s.ActiveTimers(1))

	// Cancel untuk task tanpa timer tidak apa-apa
	s.Cancel(999)
}

func TestRecoverReschedulesAllTasks(t *testing.T) {
	rec := &recorder{}
	s := New(rec.notify)
	defer s.Shutdown()

	tasks := []models.Task{
		taskWithDeadline(1, time.Now().Add(48*time.Hour)),
		taskWithDeadline(2, time.Now().Add(time.Hour)),
		taskWithDeadline(3, time.Now().Add(-time.Hour)),
	}
	owners := map[int]int{1: 10, 2: 10, 3: 20}

	s.Recover(tasks, owners)

	assert.Equal(t, 2, s.ActiveTimers(1))
	assert.Equal(t, 1, s.ActiveTimers(2))
	assert.Equal(t, 0, s.ActiveTimers(3))
	assert.Equal(t, []Kind{KindMissed}, rec.kinds())
}

func TestShutdownStopsEverything(t *testing.T) {
	rec := &recorder{}
	s := New(rec.notify)

	s.Schedule(taskWithDeadline(1, time.Now().Add(48*time.Hour)), 10)
	s.Schedule(taskWithDeadline(2, time.Now().Add(48*time.Hour)), 20)
	s.Shutdown()

	assert.Equal(t, 0, s.ActiveTimers(1))
	assert.Equal(t, 0, s.ActiveTimers(2))
}

func TestMessageAndNotificationType(t *testing.T) {
	assert.Contains(t, Message(KindApproaching, "Write report"), "approaching")
	assert.Contains(t, Message(KindMissed, "Write report"), "missed")
	assert.Equal(t, models.NotificationDeadlineApproaching, NotificationType(KindApproaching))
	assert.Equal(t, models.NotificationDeadlineMissed, NotificationType(KindMissed))
}
