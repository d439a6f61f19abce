package medical_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avatarctic/clinic-console/internal/core/domain/medical"
)

func ptr[T any](v T) *T { return &v }

func TestToAppointmentDefaults(t *testing.T) {
	start := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	rec := medical.AppointmentRecord{ID: 7, StartTime: start, EndTime: start.Add(30 * time.Minute)}

	a := rec.ToAppointment()
	assert.Equal(t, int64(7), a.ID)
	assert.Equal(t, medical.DefaultSubject, a.Subject)
	assert.Equal(t, medical.DefaultStatus, a.Status)
	assert.Equal(t, medical.DefaultCategoryColor, a.CategoryColor)
	assert.Equal(t, "", a.Description)
	assert.NotNil(t, a.TreatmentSteps)
	assert.Empty(t, a.TreatmentSteps)

	rec.PatientName = ptr("Amina Benali")
	assert.Equal(t, "Amina Benali", rec.ToAppointment().Subject)

	rec.Subject = ptr("Détartrage")
	rec.Status = ptr("Annulé")
	rec.CategoryColor = ptr("#ff0000")
	a = rec.ToAppointment()
	assert.Equal(t, "Détartrage", a.Subject)
	assert.Equal(t, "Annulé", a.Status)
	assert.Equal(t, "#ff0000", a.CategoryColor)

	rec.Subject = ptr("  ")
	assert.Equal(t, "Amina Benali", rec.ToAppointment().Subject)
}

func TestCreateAppointmentPayload(t *testing.T) {
	start := time.Now()
	p := medical.CreateAppointmentRequest{StartTime: start, EndTime: start.Add(time.Hour), ToothNumber: ptr(0)}.Payload()
	assert.Equal(t, medical.DefaultStatus, p.Status)
	assert.Equal(t, medical.DefaultCategoryColor, p.CategoryColor)
	assert.Nil(t, p.ToothNumber)

	p = medical.CreateAppointmentRequest{Status: "Reporté", ToothNumber: ptr(36)}.Payload()
	assert.Equal(t, "Reporté", p.Status)
	require.NotNil(t, p.ToothNumber)
	assert.Equal(t, 36, *p.ToothNumber)
}

func TestAppointmentPatch(t *testing.T) {
	start := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	assert.NoError(t, medical.AppointmentPatch{}.Validate())
	assert.NoError(t, medical.AppointmentPatch{StartTime: &start, EndTime: &end}.Validate())
	assert.ErrorIs(t, medical.AppointmentPatch{StartTime: &end, EndTime: &start}.Validate(), medical.ErrInvalidRange)
	assert.ErrorIs(t, medical.AppointmentPatch{StartTime: &start, EndTime: &start}.Validate(), medical.ErrInvalidRange)

	orig := medical.Appointment{ID: 1, Subject: "Consultation", Status: medical.DefaultStatus, StartTime: start, EndTime: end}
	got := medical.AppointmentPatch{Subject: ptr("Extraction"), Doctor: ptr(int64(3))}.ApplyTo(orig)
	assert.Equal(t, "Extraction", got.Subject)
	assert.Equal(t, medical.DefaultStatus, got.Status)
	require.NotNil(t, got.Doctor)
	assert.Equal(t, int64(3), *got.Doctor)
	assert.Equal(t, "Consultation", orig.Subject)
}

func TestSchedulerEventPatch(t *testing.T) {
	start := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	ev := medical.SchedulerEvent{
		AppointmentID: 5,
		Kind:          medical.EventDrag,
		NewStart:      start,
		NewEnd:        start.Add(time.Hour),
		NewDoctor:     ptr(int64(9)),
		Subject:       ptr("ignored"),
	}

	p := ev.Patch()
	require.NotNil(t, p.StartTime)
	assert.True(t, p.StartTime.Equal(start))
	require.NotNil(t, p.Doctor)
	assert.Equal(t, int64(9), *p.Doctor)
	assert.Nil(t, p.Subject)

	ev.Kind = medical.EventResize
	assert.Nil(t, ev.Patch().Doctor)

	ev.Kind = medical.EventEdit
	p = ev.Patch()
	require.NotNil(t, p.Subject)
	assert.Equal(t, "ignored", *p.Subject)
}

func TestIsValidFDI(t *testing.T) {
	for _, n := range []int{11, 18, 21, 36, 48, 51, 55, 85} {
		assert.True(t, medical.IsValidFDI(n), "%d", n)
	}
	for _, n := range []int{0, 9, 10, 19, 49, 56, 86, 91, 111} {
		assert.False(t, medical.IsValidFDI(n), "%d", n)
	}
}

func TestSessions(t *testing.T) {
	s := medical.NewSession(4, nil)
	require.NotNil(t, s.CurrentPatientID)
	assert.Equal(t, int64(4), *s.CurrentPatientID)
	assert.True(t, s.IsReadOnly)

	s = medical.NewSession(4, ptr(int64(12)))
	assert.False(t, s.IsReadOnly)

	closed := medical.ClosedSession()
	assert.Nil(t, closed.CurrentPatientID)
	assert.True(t, closed.IsReadOnly)
}

func TestPatientNormalize(t *testing.T) {
	p := medical.Patient{FirstName: "Amina", LastName: "Benali"}
	p.Normalize()
	assert.Equal(t, "Amina Benali", p.FullName)
	assert.NotNil(t, p.Findings)

	q := medical.PatientQuery{Search: "  ben ", Page: 0}.Normalized()
	assert.Equal(t, "ben", q.Search)
	assert.Equal(t, 1, q.Page)
}
