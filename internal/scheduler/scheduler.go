package scheduler

import (
	"fmt"
	"sync"
	"time"

	"kanbanflow/internal/models"
)

// Kind membedakan dua pengingat yang dipasang per task.
type Kind string

const (
	KindApproaching Kind = "approaching"
	KindMissed      Kind = "missed"
)

// Pengingat "approaching" dipasang 24 jam sebelum deadline.
const ApproachingWindow = 24 * time.Hour

// NotifyFunc dipanggil sekali setiap timer menyala (atau langsung, untuk
// deadline yang sudah lewat). Kegagalan di dalamnya tidak di-retry.
type NotifyFunc func(task models.Task, ownerID int, kind Kind)

type timerKey struct {
	taskID int
	kind   Kind
}

// Scheduler adalah registry timer deadline dalam proses.
// State-nya volatil: restart proses menghilangkan semua timer, karena itu
// Recover dipanggil saat start untuk memasang ulang dari database.
type Scheduler struct {
	mu     sync.Mutex
	timers map[timerKey]*time.Timer
	notify NotifyFunc
}

func New(notify NotifyFunc) *Scheduler {
	return &Scheduler{
		timers: make(map[timerKey]*time.Timer),
		notify: notify,
	}
}

// Schedule memasang sepasang timer untuk task yang punya deadline.
// Timer lama untuk task yang sama selalu dibatalkan dulu, jadi aman
// dipanggil berulang kali (maksimal 2 timer hidup per task).
func (s *Scheduler) Schedule(task models.Task, ownerID int) {
	if task.Deadline == nil {
		return
	}

	s.Cancel(task.ID)

	deadline := *task.Deadline
	now := time.Now()

	// Timer "approaching" hanya dipasang kalau jendela 24 jam belum lewat.
	approachingAt := deadline.Add(-ApproachingWindow)
	if approachingAt.After(now) {
		s.arm(task, ownerID, KindApproaching, approachingAt.Sub(now))
	}

	if deadline.Before(now) {
		// Deadline sudah lewat: langsung terbitkan notifikasi missed.
		s.notify(task, ownerID, KindMissed)
	} else {
		s.arm(task, ownerID, KindMissed, deadline.Sub(now))
	}
}

func (s *Scheduler) arm(task models.Task, ownerID int, kind Kind, d time.Duration) {
	key := timerKey{taskID: task.ID, kind: kind}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.timers[key] = time.AfterFunc(d, func() {
		s.mu.Lock()
		delete(s.timers, key)
		s.mu.Unlock()
		s.notify(task, ownerID, kind)
	})
}

// Cancel mematikan kedua timer milik task kalau ada.
// Aman dipanggil untuk task tanpa timer.
func (s *Scheduler) Cancel(taskID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, kind := range []Kind{KindApproaching, KindMissed} {
		key := timerKey{taskID: taskID, kind: kind}
		if timer, ok := s.timers[key]; ok {
			timer.Stop()
			delete(s.timers, key)
		}
	}
}

// ActiveTimers menghitung timer yang masih hidup untuk sebuah task.
func (s *Scheduler) ActiveTimers(taskID int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for key := range s.timers {
		if key.taskID == taskID {
			count++
		}
	}
	return count
}

// Recover memasang ulang timer untuk semua task ber-deadline, dipanggil
// sekali saat proses start. Deadline yang sudah lewat langsung menghasilkan
// notifikasi missed lewat jalur Schedule biasa.
func (s *Scheduler) Recover(tasks []models.Task, owners map[int]int) {
	for _, task := range tasks {
		s.Schedule(task, owners[task.ID])
	}
}

// Shutdown mematikan seluruh timer yang tersisa.
func (s *Scheduler) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, timer := range s.timers {
		timer.Stop()
		delete(s.timers, key)
	}
}

// Message menyusun teks notifikasi untuk sebuah pengingat.
func Message(kind Kind, taskTitle string) string {
	if kind == KindApproaching {
		return fmt.Sprintf("Deadline for task %q is approaching (24 hours left).", taskTitle)
	}
	return fmt.Sprintf("Deadline for task %q has been missed.", taskTitle)
}

// NotificationType memetakan jenis pengingat ke tipe notifikasi tersimpan.
func NotificationType(kind Kind) string {
	if kind == KindApproaching {
		return models.NotificationDeadlineApproaching
	}
	return models.NotificationDeadlineMissed
}
