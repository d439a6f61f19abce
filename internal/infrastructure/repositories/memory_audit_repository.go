package repositories

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/avatarctic/clinic-console/internal/core/domain/audit"
	"github.com/avatarctic/clinic-console/internal/core/ports"
)

// MemoryAuditRepository keeps the most recent audit entries in memory and mirrors each one to
// the log. It is used when no database is configured.
type MemoryAuditRepository struct {
	mu       sync.RWMutex
	entries  []*audit.AuditLog
	capacity int
	logger   *logrus.Logger
}

func NewMemoryAuditRepository(capacity int, logger *logrus.Logger) *MemoryAuditRepository {
	if capacity <= 0 {
		capacity = 1000
	}
	return &MemoryAuditRepository{capacity: capacity, logger: logger}
}

var _ ports.AuditRepository = (*MemoryAuditRepository)(nil)

func (r *MemoryAuditRepository) Create(ctx context.Context, log *audit.AuditLog) error {
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	cp := *log

	r.mu.Lock()
	r.entries = append(r.entries, &cp)
	if over := len(r.entries) - r.capacity; over > 0 {
		r.entries = slices.Delete(r.entries, 0, over)
	}
	r.mu.Unlock()

	if r.logger != nil {
		r.logger.WithFields(logrus.Fields{
			"audit_id":     log.ID,
			"workspace_id": log.WorkspaceID,
			"subdomain":    log.Subdomain,
			"clinic_id":    log.ClinicID,
			"username":     log.Username,
			"action":       log.Action,
			"resource":     log.Resource,
			"resource_id":  log.ResourceID,
		}).Info("audit")
	}
	return nil
}

// List returns matching entries, newest first.
func (r *MemoryAuditRepository) List(ctx context.Context, filter *audit.AuditLogFilter) ([]*audit.AuditLog, error) {
	matched := r.match(filter)
	if filter != nil {
		if filter.Offset > 0 {
			if filter.Offset >= len(matched) {
				return []*audit.AuditLog{}, nil
			}
			matched = matched[filter.Offset:]
		}
		if filter.Limit > 0 && len(matched) > filter.Limit {
			matched = matched[:filter.Limit]
		}
	}
	return matched, nil
}

func (r *MemoryAuditRepository) Count(ctx context.Context, filter *audit.AuditLogFilter) (int, error) {
	return len(r.match(filter)), nil
}

func (r *MemoryAuditRepository) match(filter *audit.AuditLogFilter) []*audit.AuditLog {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*audit.AuditLog{}
	for i := len(r.entries) - 1; i >= 0; i-- {
		e := r.entries[i]
		if filter != nil {
			if filter.ClinicID != nil && (e.ClinicID == nil || *e.ClinicID != *filter.ClinicID) {
				continue
			}
			if filter.Subdomain != "" && e.Subdomain != filter.Subdomain {
				continue
			}
			if filter.Username != "" && e.Username != filter.Username {
				continue
			}
			if filter.Action != nil && e.Action != string(*filter.Action) {
				continue
			}
			if filter.Resource != nil && e.Resource != string(*filter.Resource) {
				continue
			}
			if filter.StartTime != nil && e.Timestamp.Before(*filter.StartTime) {
				continue
			}
			if filter.EndTime != nil && e.Timestamp.After(*filter.EndTime) {
				continue
			}
		}
		cp := *e
		out = append(out, &cp)
	}
	return out
}
