package services

import (
	"context"
	"errors"

	"github.com/avatarctic/clinic-console/internal/core/domain/audit"
	"github.com/avatarctic/clinic-console/internal/core/domain/medical"
	"github.com/avatarctic/clinic-console/internal/core/ports"
	"github.com/sirupsen/logrus"
)

// AppointmentService keeps each workspace's scheduler board in step with the backend.
type AppointmentService struct {
	repo   ports.AppointmentRepository
	logger *logrus.Logger
}

func NewAppointmentService(repo ports.AppointmentRepository, logger *logrus.Logger) *AppointmentService {
	return &AppointmentService{repo: repo, logger: logger}
}

// List fetches the appointments and replaces the board with them. A failed read yields an
// empty list and leaves the board as it was.
func (s *AppointmentService) List(ctx context.Context, ws *Workspace) ([]medical.Appointment, error) {
	list, err := s.repo.List(ctx, ws)
	if degrade(err) {
		s.warn(ws, err, "failed to list appointments")
		return []medical.Appointment{}, nil
	}
	if err != nil {
		return nil, err
	}
	ws.Board.Replace(list)
	return list, nil
}

func (s *AppointmentService) Get(ctx context.Context, ws *Workspace, id int64) (*medical.Appointment, error) {
	a, err := s.repo.Get(ctx, ws, id)
	if degrade(err) {
		s.warn(ws, err, "failed to get appointment")
		return nil, nil
	}
	return a, err
}

func (s *AppointmentService) Create(ctx context.Context, ws *Workspace, req *medical.CreateAppointmentRequest) (*medical.Appointment, error) {
	a, err := s.repo.Create(ctx, ws, req.Payload())
	if err != nil {
		return nil, err
	}
	ws.Board.Upsert(*a)
	ws.recordChange(ctx, audit.ActionCreate, audit.ResourceAppointment, a.ID)
	return a, nil
}

func (s *AppointmentService) Update(ctx context.Context, ws *Workspace, id int64, patch medical.AppointmentPatch) (*medical.Appointment, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	a, err := s.repo.Update(ctx, ws, id, patch)
	if err != nil {
		return nil, err
	}
	ws.Board.Upsert(*a)
	ws.recordChange(ctx, audit.ActionUpdate, audit.ResourceAppointment, id)
	return a, nil
}

func (s *AppointmentService) Delete(ctx context.Context, ws *Workspace, id int64) error {
	if err := s.repo.Delete(ctx, ws, id); err != nil {
		return err
	}
	ws.Board.Remove(id)
	ws.recordChange(ctx, audit.ActionDelete, audit.ResourceAppointment, id)
	return nil
}

// ApplyEvent moves, resizes or edits an appointment on the board before the backend has
// confirmed it. If the backend refuses, the board is refetched and the error returned along
// with the reconciled board. A refusal that ended the session returns no board.
func (s *AppointmentService) ApplyEvent(ctx context.Context, ws *Workspace, ev medical.SchedulerEvent) ([]medical.Appointment, error) {
	patch := ev.Patch()
	if err := patch.Validate(); err != nil {
		list, _ := ws.Board.Appointments()
		return list, err
	}
	if _, loaded := ws.Board.Appointments(); !loaded {
		if _, err := s.List(ctx, ws); err != nil {
			return nil, err
		}
	}

	before, _ := ws.Board.Appointments()
	wasAuthenticated := ws.Session.Snapshot().IsAuthenticated
	ws.Board.Apply(ev.AppointmentID, patch)

	updated, err := s.repo.Update(ctx, ws, ev.AppointmentID, patch)
	if err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"workspace_id": ws.ID, "appointment_id": ev.AppointmentID, "kind": ev.Kind}).WithError(err).Warn("scheduler change rejected; reconciling")
		}
		if errors.Is(err, ports.ErrTenantMismatch) || (wasAuthenticated && !ws.Session.Snapshot().IsAuthenticated) {
			// The session is gone and the board with it.
			ws.Board.Reset()
			return []medical.Appointment{}, err
		}
		s.reconcile(ctx, ws, before)
		list, _ := ws.Board.Appointments()
		return list, err
	}
	ws.Board.Upsert(*updated)
	ws.recordChange(ctx, audit.ActionUpdate, audit.ResourceAppointment, ev.AppointmentID)
	list, _ := ws.Board.Appointments()
	return list, nil
}

// reconcile refetches the board, falling back to the state before the optimistic change.
func (s *AppointmentService) reconcile(ctx context.Context, ws *Workspace, before []medical.Appointment) {
	list, err := s.repo.List(ctx, ws)
	if err != nil {
		s.warn(ws, err, "refetch after rejected scheduler change failed; restoring previous board")
		ws.Board.Replace(before)
		return
	}
	ws.Board.Replace(list)
}

func (s *AppointmentService) warn(ws *Workspace, err error, msg string) {
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"workspace_id": ws.ID, "subdomain": ws.Tenant.Context().Label()}).WithError(err).Warn(msg)
	}
}
