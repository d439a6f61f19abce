package medical

import "time"

// EventKind is the scheduler interaction that produced an event.
type EventKind string

const (
	EventDrag   EventKind = "drag"
	EventResize EventKind = "resize"
	EventEdit   EventKind = "edit"
)

// SchedulerEvent carries the delta emitted by the calendar widget for one appointment.
type SchedulerEvent struct {
	AppointmentID int64     `json:"appointment_id" validate:"required"`
	Kind          EventKind `json:"kind" validate:"required,oneof=drag resize edit"`
	OldStart      time.Time `json:"old_start"`
	OldEnd        time.Time `json:"old_end"`
	NewStart      time.Time `json:"new_start" validate:"required"`
	NewEnd        time.Time `json:"new_end" validate:"required,gtfield=NewStart"`
	OldDoctor     *int64    `json:"old_doctor,omitempty"`
	NewDoctor     *int64    `json:"new_doctor,omitempty"`
	Subject       *string   `json:"subject,omitempty"`
	Status        *string   `json:"status,omitempty"`
}

// Patch is the update the event must persist. A resize never reassigns the doctor.
func (e SchedulerEvent) Patch() AppointmentPatch {
	start, end := e.NewStart, e.NewEnd
	p := AppointmentPatch{StartTime: &start, EndTime: &end}
	if e.Kind != EventResize && e.NewDoctor != nil {
		p.Doctor = e.NewDoctor
	}
	if e.Kind == EventEdit {
		p.Subject = e.Subject
		p.Status = e.Status
	}
	return p
}
