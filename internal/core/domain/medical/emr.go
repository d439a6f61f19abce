package medical

// Session is the clinical session open in a workspace: which patient chart is displayed and
// which appointment, if any, new findings and treatments are recorded against.
type Session struct {
	CurrentPatientID    *int64 `json:"current_patient_id"`
	ActiveAppointmentID *int64 `json:"active_appointment_id"`
	IsReadOnly          bool   `json:"is_read_only"`
}

// NewSession opens a chart. Without an appointment the chart is read-only.
func NewSession(patientID int64, appointmentID *int64) Session {
	return Session{
		CurrentPatientID:    &patientID,
		ActiveAppointmentID: appointmentID,
		IsReadOnly:          appointmentID == nil,
	}
}

// ClosedSession is the state with no chart open.
func ClosedSession() Session {
	return Session{IsReadOnly: true}
}

// StartSessionRequest opens a chart from the console.
type StartSessionRequest struct {
	PatientID     int64  `json:"patient_id" validate:"required"`
	AppointmentID *int64 `json:"appointment_id,omitempty"`
}

// EMRContext is everything the chart displays for a patient.
type EMRContext struct {
	Patient    *Patient        `json:"patient"`
	Treatments []TreatmentStep `json:"treatments"`
}
