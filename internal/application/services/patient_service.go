package services

import (
	"context"

	"github.com/avatarctic/clinic-console/internal/core/domain/audit"
	"github.com/avatarctic/clinic-console/internal/core/domain/medical"
	"github.com/avatarctic/clinic-console/internal/core/ports"
	"github.com/sirupsen/logrus"
)

// PatientService reads and writes patients through the backend. Failed reads degrade to
// empty results; failed writes are returned.
type PatientService struct {
	repo   ports.PatientRepository
	logger *logrus.Logger
}

func NewPatientService(repo ports.PatientRepository, logger *logrus.Logger) *PatientService {
	return &PatientService{repo: repo, logger: logger}
}

func (s *PatientService) List(ctx context.Context, ws *Workspace, q medical.PatientQuery) (*medical.PatientPage, error) {
	page, err := s.repo.List(ctx, ws, q.Normalized())
	if degrade(err) {
		s.warn(ws, err, "failed to list patients")
		return medical.EmptyPatientPage(), nil
	}
	if err != nil {
		return nil, err
	}
	return page, nil
}

// Search is List behind the workspace's debouncer. A search overtaken by a newer one from the
// same workspace returns ErrSuperseded without calling the backend.
func (s *PatientService) Search(ctx context.Context, ws *Workspace, q medical.PatientQuery) (*medical.PatientPage, error) {
	if err := ws.Search.Wait(ctx); err != nil {
		return nil, err
	}
	return s.List(ctx, ws, q)
}

// Get returns nil when the patient cannot be read.
func (s *PatientService) Get(ctx context.Context, ws *Workspace, id int64) (*medical.Patient, error) {
	p, err := s.repo.Get(ctx, ws, id)
	if degrade(err) {
		s.warn(ws, err, "failed to get patient")
		return nil, nil
	}
	return p, err
}

func (s *PatientService) Create(ctx context.Context, ws *Workspace, req *medical.CreatePatientRequest) (*medical.Patient, error) {
	p, err := s.repo.Create(ctx, ws, req)
	if err != nil {
		return nil, err
	}
	ws.recordChange(ctx, audit.ActionCreate, audit.ResourcePatient, p.ID)
	return p, nil
}

func (s *PatientService) Update(ctx context.Context, ws *Workspace, id int64, req *medical.UpdatePatientRequest) (*medical.Patient, error) {
	p, err := s.repo.Update(ctx, ws, id, req)
	if err != nil {
		return nil, err
	}
	ws.recordChange(ctx, audit.ActionUpdate, audit.ResourcePatient, id)
	return p, nil
}

func (s *PatientService) Delete(ctx context.Context, ws *Workspace, id int64) error {
	if err := s.repo.Delete(ctx, ws, id); err != nil {
		return err
	}
	ws.recordChange(ctx, audit.ActionDelete, audit.ResourcePatient, id)
	return nil
}

func (s *PatientService) warn(ws *Workspace, err error, msg string) {
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"workspace_id": ws.ID, "subdomain": ws.Tenant.Context().Label()}).WithError(err).Warn(msg)
	}
}
