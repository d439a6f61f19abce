package services

import (
	"slices"
	"sync"

	"github.com/avatarctic/clinic-console/internal/core/domain/medical"
)

// SchedulerBoard is the appointment collection a workspace's calendar shows. Events are
// applied to it optimistically and it is replaced wholesale when the backend is refetched.
type SchedulerBoard struct {
	mu           sync.RWMutex
	appointments []medical.Appointment
	loaded       bool
}

func NewSchedulerBoard() *SchedulerBoard {
	return &SchedulerBoard{}
}

// Appointments returns a copy of the board and whether it was ever loaded.
func (b *SchedulerBoard) Appointments() ([]medical.Appointment, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.appointments), b.loaded
}

// Replace swaps in a freshly fetched collection.
func (b *SchedulerBoard) Replace(list []medical.Appointment) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if list == nil {
		list = []medical.Appointment{}
	}
	b.appointments = slices.Clone(list)
	b.loaded = true
}

// Apply patches the appointment with the given id in place. It reports whether it was found.
func (b *SchedulerBoard) Apply(id int64, patch medical.AppointmentPatch) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := slices.IndexFunc(b.appointments, func(a medical.Appointment) bool { return a.ID == id })
	if i < 0 {
		return false
	}
	b.appointments[i] = patch.ApplyTo(b.appointments[i])
	return true
}

// Upsert stores the authoritative version of one appointment.
func (b *SchedulerBoard) Upsert(a medical.Appointment) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := slices.IndexFunc(b.appointments, func(x medical.Appointment) bool { return x.ID == a.ID })
	if i < 0 {
		b.appointments = append(b.appointments, a)
		return
	}
	b.appointments[i] = a
}

func (b *SchedulerBoard) Remove(id int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.appointments = slices.DeleteFunc(b.appointments, func(a medical.Appointment) bool { return a.ID == id })
}

func (b *SchedulerBoard) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.appointments = nil
	b.loaded = false
}
