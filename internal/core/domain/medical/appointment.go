package medical

import (
	"errors"
	"strings"
	"time"
)

const (
	DefaultStatus        = "Confirmé"
	DefaultCategoryColor = "#0077BE"
	DefaultSubject       = "Consultation"
)

// Appointment is the scheduler-facing view of an appointment.
type Appointment struct {
	ID            int64     `json:"Id"`
	Subject       string    `json:"Subject"`
	StartTime     time.Time `json:"StartTime"`
	EndTime       time.Time `json:"EndTime"`
	Description   string    `json:"Description"`
	Status        string    `json:"Status"`
	CategoryColor string    `json:"CategoryColor"`

	Patient      *int64 `json:"patient,omitempty"`
	Doctor       *int64 `json:"doctor,omitempty"`
	PatientName  string `json:"patient_name,omitempty"`
	PatientPhone string `json:"patient_phone,omitempty"`
	DoctorName   string `json:"doctor_name,omitempty"`

	ToothNumber    *int            `json:"tooth_number"`
	TreatmentSteps []TreatmentStep `json:"treatment_steps"`
}

// AppointmentRecord is the backend wire shape, where any descriptive field may be missing.
type AppointmentRecord struct {
	ID            int64     `json:"id"`
	Subject       *string   `json:"Subject"`
	StartTime     time.Time `json:"StartTime"`
	EndTime       time.Time `json:"EndTime"`
	Description   *string   `json:"Description"`
	Status        *string   `json:"Status"`
	CategoryColor *string   `json:"CategoryColor"`

	Patient      *int64  `json:"patient"`
	PatientName  *string `json:"patient_name"`
	PatientPhone *string `json:"patient_phone"`
	Doctor       *int64  `json:"doctor"`
	DoctorName   *string `json:"doctor_name"`

	ToothNumber    *int            `json:"tooth_number"`
	TreatmentSteps []TreatmentStep `json:"treatment_steps"`
}

// ToAppointment applies the per-field defaults: Subject falls back to the patient name and then
// to "Consultation", Status to "Confirmé", CategoryColor to "#0077BE", Description to "".
func (r AppointmentRecord) ToAppointment() Appointment {
	steps := r.TreatmentSteps
	if steps == nil {
		steps = []TreatmentStep{}
	}
	return Appointment{
		ID:             r.ID,
		Subject:        firstNonEmpty(r.Subject, r.PatientName, strPtr(DefaultSubject)),
		StartTime:      r.StartTime,
		EndTime:        r.EndTime,
		Description:    firstNonEmpty(r.Description),
		Status:         firstNonEmpty(r.Status, strPtr(DefaultStatus)),
		CategoryColor:  firstNonEmpty(r.CategoryColor, strPtr(DefaultCategoryColor)),
		Patient:        r.Patient,
		Doctor:         r.Doctor,
		PatientName:    firstNonEmpty(r.PatientName),
		PatientPhone:   firstNonEmpty(r.PatientPhone),
		DoctorName:     firstNonEmpty(r.DoctorName),
		ToothNumber:    r.ToothNumber,
		TreatmentSteps: steps,
	}
}

func firstNonEmpty(vals ...*string) string {
	for _, v := range vals {
		if v != nil && strings.TrimSpace(*v) != "" {
			return *v
		}
	}
	return ""
}

func strPtr(s string) *string { return &s }

// CreateAppointmentRequest is a new appointment from the scheduler editor.
type CreateAppointmentRequest struct {
	Subject       string    `json:"Subject"`
	StartTime     time.Time `json:"StartTime" validate:"required"`
	EndTime       time.Time `json:"EndTime" validate:"required,gtfield=StartTime"`
	Description   string    `json:"Description"`
	Status        string    `json:"Status"`
	CategoryColor string    `json:"CategoryColor" validate:"omitempty,hexcolor"`
	Patient       *int64    `json:"patient"`
	Doctor        *int64    `json:"doctor"`
	ToothNumber   *int      `json:"tooth_number" validate:"omitempty,fdi_tooth"`
}

// AppointmentPayload is the backend body for creating an appointment.
type AppointmentPayload struct {
	Subject       string    `json:"Subject"`
	StartTime     time.Time `json:"StartTime"`
	EndTime       time.Time `json:"EndTime"`
	Description   string    `json:"Description"`
	Status        string    `json:"Status"`
	CategoryColor string    `json:"CategoryColor"`
	Patient       *int64    `json:"patient"`
	Doctor        *int64    `json:"doctor"`
	ToothNumber   *int      `json:"tooth_number"`
}

// Payload fills the defaults the backend expects on creation.
func (r CreateAppointmentRequest) Payload() AppointmentPayload {
	p := AppointmentPayload{
		Subject:       r.Subject,
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
		Description:   r.Description,
		Status:        r.Status,
		CategoryColor: r.CategoryColor,
		Patient:       r.Patient,
		Doctor:        r.Doctor,
		ToothNumber:   r.ToothNumber,
	}
	if p.Status == "" {
		p.Status = DefaultStatus
	}
	if p.CategoryColor == "" {
		p.CategoryColor = DefaultCategoryColor
	}
	if p.ToothNumber != nil && *p.ToothNumber == 0 {
		p.ToothNumber = nil
	}
	return p
}

// AppointmentPatch is a partial update; only non-nil fields are sent.
type AppointmentPatch struct {
	Subject       *string    `json:"Subject,omitempty"`
	StartTime     *time.Time `json:"StartTime,omitempty" validate:"omitempty"`
	EndTime       *time.Time `json:"EndTime,omitempty" validate:"omitempty"`
	Description   *string    `json:"Description,omitempty"`
	Status        *string    `json:"Status,omitempty"`
	CategoryColor *string    `json:"CategoryColor,omitempty" validate:"omitempty,hexcolor"`
	Patient       *int64     `json:"patient,omitempty"`
	Doctor        *int64     `json:"doctor,omitempty"`
	ToothNumber   *int       `json:"tooth_number,omitempty" validate:"omitempty,fdi_tooth"`
}

var ErrInvalidRange = errors.New("appointment must end after it starts")

// Validate rejects a patch that would leave the appointment ending before it starts.
func (p AppointmentPatch) Validate() error {
	if p.StartTime != nil && p.EndTime != nil && !p.EndTime.After(*p.StartTime) {
		return ErrInvalidRange
	}
	return nil
}

// ApplyTo returns a copy of a with the patch applied.
func (p AppointmentPatch) ApplyTo(a Appointment) Appointment {
	if p.Subject != nil {
		a.Subject = *p.Subject
	}
	if p.StartTime != nil {
		a.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		a.EndTime = *p.EndTime
	}
	if p.Description != nil {
		a.Description = *p.Description
	}
	if p.Status != nil {
		a.Status = *p.Status
	}
	if p.CategoryColor != nil {
		a.CategoryColor = *p.CategoryColor
	}
	if p.Patient != nil {
		a.Patient = p.Patient
	}
	if p.Doctor != nil {
		a.Doctor = p.Doctor
	}
	if p.ToothNumber != nil {
		a.ToothNumber = p.ToothNumber
	}
	return a
}
