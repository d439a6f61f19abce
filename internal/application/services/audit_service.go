package services

import (
	"context"
	"time"

	"github.com/avatarctic/clinic-console/internal/core/domain/audit"
	"github.com/avatarctic/clinic-console/internal/core/ports"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	defaultAuditPageSize = 50
	maxAuditPageSize     = 500
)

type AuditService struct {
	repo   ports.AuditRepository
	logger *logrus.Logger
}

func NewAuditService(repo ports.AuditRepository, logger *logrus.Logger) ports.AuditService {
	return &AuditService{
		repo:   repo,
		logger: logger,
	}
}

func (s *AuditService) LogAction(ctx context.Context, req *audit.CreateAuditLogRequest) error {
	auditLog := &audit.AuditLog{
		ID:          uuid.New(),
		WorkspaceID: req.WorkspaceID,
		ClinicID:    req.ClinicID,
		Subdomain:   req.Subdomain,
		Username:    req.Username,
		Action:      string(req.Action),
		Resource:    string(req.Resource),
		ResourceID:  req.ResourceID,
		Details:     req.Details,
		IPAddress:   req.IPAddress,
		UserAgent:   req.UserAgent,
		Timestamp:   time.Now().UTC(),
	}
	fields := logrus.Fields{"workspace_id": req.WorkspaceID, "subdomain": req.Subdomain, "clinic_id": req.ClinicID, "action": req.Action, "resource": req.Resource}

	err := s.repo.Create(ctx, auditLog)
	if err != nil {
		if s.logger != nil {
			s.logger.WithFields(fields).WithError(err).Error("failed to persist audit log")
		}
		return err
	}
	if s.logger != nil {
		s.logger.WithFields(fields).WithField("resource_id", req.ResourceID).Debug("audit log persisted")
	}
	return nil
}

// GetAuditLogs returns one page of entries and the total matching the filter.
func (s *AuditService) GetAuditLogs(ctx context.Context, filter *audit.AuditLogFilter) ([]*audit.AuditLog, int, error) {
	switch {
	case filter.Limit <= 0:
		filter.Limit = defaultAuditPageSize
	case filter.Limit > maxAuditPageSize:
		filter.Limit = maxAuditPageSize
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	logs, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}
