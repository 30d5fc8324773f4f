package store

import (
	"database/sql"
	"errors"
)

// Error yang dikembalikan store, handler yang memetakan ke status HTTP.
var (
	ErrNotFound     = errors.New("record not found")
	ErrInvalidOrder = errors.New("order is not a permutation of the current set")
)

// TimerCanceller membatalkan timer deadline milik sebuah task.
// Diimplementasikan oleh scheduler; diset setelah keduanya dibuat.
type TimerCanceller interface {
	Cancel(taskID int)
}

// Store menjaga konsistensi relasi antar entitas:
// projects.column_order, columns.task_ids, dan tasks.column_id/project_id.
type Store struct {
	DB     *sql.DB
	timers TimerCanceller
}

func New(db *sql.DB) *Store {
	return &Store{DB: db}
}

func (s *Store) SetTimerCanceller(tc TimerCanceller) {
	s.timers = tc
}

func (s *Store) cancelTimers(taskID int) {
	if s.timers != nil {
		s.timers.Cancel(taskID)
	}
}

// samePermutation memeriksa apakah next berisi elemen yang sama persis
// dengan current (duplikat pun harus sama jumlahnya).
func samePermutation(current, next []int64) bool {
	if len(current) != len(next) {
		return false
	}
	counts := make(map[int64]int, len(current))
	for _, id := range current {
		counts[id]++
	}
	for _, id := range next {
		counts[id]--
		if counts[id] < 0 {
			return false
		}
	}
	return true
}

func removeID(ids []int64, id int64) []int64 {
	out := make([]int64, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
