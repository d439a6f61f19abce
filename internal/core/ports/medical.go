package ports

import (
	"context"

	"github.com/avatarctic/clinic-console/internal/core/domain/medical"
	"github.com/avatarctic/clinic-console/internal/core/domain/user"
)

// PatientRepository defines the backend operations on patients
type PatientRepository interface {
	List(ctx context.Context, scope RequestScope, q medical.PatientQuery) (*medical.PatientPage, error)
	Get(ctx context.Context, scope RequestScope, id int64) (*medical.Patient, error)
	Create(ctx context.Context, scope RequestScope, req *medical.CreatePatientRequest) (*medical.Patient, error)
	Update(ctx context.Context, scope RequestScope, id int64, req *medical.UpdatePatientRequest) (*medical.Patient, error)
	Delete(ctx context.Context, scope RequestScope, id int64) error
}

// AppointmentRepository defines the backend operations on appointments
type AppointmentRepository interface {
	List(ctx context.Context, scope RequestScope) ([]medical.Appointment, error)
	Get(ctx context.Context, scope RequestScope, id int64) (*medical.Appointment, error)
	Create(ctx context.Context, scope RequestScope, payload medical.AppointmentPayload) (*medical.Appointment, error)
	Update(ctx context.Context, scope RequestScope, id int64, patch medical.AppointmentPatch) (*medical.Appointment, error)
	Delete(ctx context.Context, scope RequestScope, id int64) error
}

// TreatmentRepository defines the backend operations on treatment steps
type TreatmentRepository interface {
	ListByPatient(ctx context.Context, scope RequestScope, patientID int64) ([]medical.TreatmentStep, error)
	Create(ctx context.Context, scope RequestScope, payload medical.TreatmentPayload) (*medical.TreatmentStep, error)
}

// FindingRepository defines the backend operations on tooth findings
type FindingRepository interface {
	Create(ctx context.Context, scope RequestScope, payload medical.FindingPayload) (*medical.ToothFinding, error)
}

// StaffRepository reads the clinic's user directory
type StaffRepository interface {
	List(ctx context.Context, scope RequestScope, role user.UserRole) ([]user.StaffMember, error)
	Get(ctx context.Context, scope RequestScope, id int64) (*user.StaffMember, error)
}
