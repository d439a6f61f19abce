package services

import (
	"context"

	"github.com/avatarctic/clinic-console/internal/core/domain/audit"
	"github.com/avatarctic/clinic-console/internal/core/domain/medical"
	"github.com/avatarctic/clinic-console/internal/core/ports"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// MedicalService drives the clinical chart of a workspace.
type MedicalService struct {
	patients   ports.PatientRepository
	treatments ports.TreatmentRepository
	findings   ports.FindingRepository
	logger     *logrus.Logger
}

func NewMedicalService(patients ports.PatientRepository, treatments ports.TreatmentRepository, findings ports.FindingRepository, logger *logrus.Logger) *MedicalService {
	return &MedicalService{patients: patients, treatments: treatments, findings: findings, logger: logger}
}

// StartSession opens a patient's chart. Without an appointment the chart is read-only.
func (s *MedicalService) StartSession(ctx context.Context, ws *Workspace, patientID int64, appointmentID *int64) (medical.Session, error) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return ws.Medical.Start(ctx, patientID, appointmentID)
}

func (s *MedicalService) ClearSession(ctx context.Context, ws *Workspace) error {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return ws.Medical.Clear(ctx)
}

// Context loads the open patient and their treatments concurrently. Either part degrades to
// empty on failure.
func (s *MedicalService) Context(ctx context.Context, ws *Workspace) (*medical.EMRContext, error) {
	sess := ws.Medical.Snapshot()
	if sess.CurrentPatientID == nil {
		return nil, ErrNoActivePatient
	}
	patientID := *sess.CurrentPatientID

	out := &medical.EMRContext{Treatments: []medical.TreatmentStep{}}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.patients.Get(gctx, ws, patientID)
		if degrade(err) {
			s.warn(ws, err, "failed to load chart patient")
			return nil
		}
		out.Patient = p
		return err
	})
	g.Go(func() error {
		steps, err := s.treatments.ListByPatient(gctx, ws, patientID)
		if degrade(err) {
			s.warn(ws, err, "failed to load chart treatments")
			return nil
		}
		if steps != nil {
			out.Treatments = steps
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// AddToothFinding records a finding for the open patient, linked to the active appointment
// when there is one.
func (s *MedicalService) AddToothFinding(ctx context.Context, ws *Workspace, req *medical.CreateFindingRequest) (*medical.ToothFinding, error) {
	sess := ws.Medical.Snapshot()
	if sess.CurrentPatientID == nil {
		return nil, ErrNoActivePatient
	}
	f, err := s.findings.Create(ctx, ws, medical.FindingPayload{
		ToothNumber: req.ToothNumber,
		Condition:   req.Condition,
		Surface:     req.Surface,
		Notes:       req.Notes,
		Patient:     *sess.CurrentPatientID,
		FoundIn:     sess.ActiveAppointmentID,
	})
	if err != nil {
		return nil, err
	}
	ws.recordChange(ctx, audit.ActionCreate, audit.ResourceFinding, f.ID)
	return f, nil
}

// AddTreatmentStep records a treatment against the active appointment; it needs one.
func (s *MedicalService) AddTreatmentStep(ctx context.Context, ws *Workspace, req *medical.CreateTreatmentRequest) (*medical.TreatmentStep, error) {
	sess := ws.Medical.Snapshot()
	if sess.CurrentPatientID == nil {
		return nil, ErrNoActivePatient
	}
	if sess.ActiveAppointmentID == nil {
		return nil, ErrNoActiveAppointment
	}
	status := req.Status
	if status == "" {
		status = medical.StepPending
	}
	step, err := s.treatments.Create(ctx, ws, medical.TreatmentPayload{
		ToothNumber: req.ToothNumber,
		StepType:    req.StepType,
		Description: req.Description,
		Price:       req.Price,
		Status:      status,
		Appointment: *sess.ActiveAppointmentID,
	})
	if err != nil {
		return nil, err
	}
	ws.recordChange(ctx, audit.ActionCreate, audit.ResourceTreatment, step.ID)
	return step, nil
}

func (s *MedicalService) warn(ws *Workspace, err error, msg string) {
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"workspace_id": ws.ID, "subdomain": ws.Tenant.Context().Label()}).WithError(err).Warn(msg)
	}
}
