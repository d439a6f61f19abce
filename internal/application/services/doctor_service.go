package services

import (
	"context"

	"github.com/avatarctic/clinic-console/internal/core/domain/user"
	"github.com/avatarctic/clinic-console/internal/core/ports"
	"github.com/sirupsen/logrus"
)

// DoctorService reads the clinic staff directory.
type DoctorService struct {
	repo   ports.StaffRepository
	logger *logrus.Logger
}

func NewDoctorService(repo ports.StaffRepository, logger *logrus.Logger) *DoctorService {
	return &DoctorService{repo: repo, logger: logger}
}

// Doctors returns the clinic's doctors as scheduler resources, coloured by position.
func (s *DoctorService) Doctors(ctx context.Context, ws *Workspace) ([]user.DoctorResource, error) {
	staff, err := s.repo.List(ctx, ws, user.RoleDoctor)
	if degrade(err) {
		s.warn(ws, err, "failed to list doctors")
		return []user.DoctorResource{}, nil
	}
	if err != nil {
		return nil, err
	}
	out := make([]user.DoctorResource, 0, len(staff))
	for i, m := range staff {
		out = append(out, m.AsResource(i))
	}
	return out, nil
}

func (s *DoctorService) Staff(ctx context.Context, ws *Workspace) ([]user.StaffMember, error) {
	staff, err := s.repo.List(ctx, ws, "")
	if degrade(err) {
		s.warn(ws, err, "failed to list staff")
		return []user.StaffMember{}, nil
	}
	return staff, err
}

func (s *DoctorService) StaffMember(ctx context.Context, ws *Workspace, id int64) (*user.StaffMember, error) {
	m, err := s.repo.Get(ctx, ws, id)
	if degrade(err) {
		s.warn(ws, err, "failed to get staff member")
		return nil, nil
	}
	return m, err
}

func (s *DoctorService) warn(ws *Workspace, err error, msg string) {
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"workspace_id": ws.ID, "subdomain": ws.Tenant.Context().Label()}).WithError(err).Warn(msg)
	}
}
