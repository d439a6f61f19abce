package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/avatarctic/clinic-console/internal/core/domain/tenant"
	"github.com/avatarctic/clinic-console/internal/core/ports"
	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
)

// TenantContextService owns the tenant context of one workspace. The context is derived from
// the hostname at creation and carries the clinic id confirmed by the backend after login.
type TenantContextService struct {
	store  ports.Store
	key    string
	host   string
	logger *logrus.Logger

	mu    sync.Mutex
	state atomic.Pointer[tenant.Context]
}

func NewTenantContextService(store ports.Store, key, host string, logger *logrus.Logger) *TenantContextService {
	s := &TenantContextService{store: store, key: key, host: host, logger: logger}
	initial := tenant.NewContext(host)
	s.state.Store(&initial)
	return s
}

// Context returns a consistent copy of the tenant context.
func (s *TenantContextService) Context() tenant.Context {
	return *s.state.Load()
}

// Hydrate restores the clinic linkage when it was recorded for the same subdomain.
func (s *TenantContextService) Hydrate(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok, err := s.store.Get(ctx, s.key)
	if err != nil {
		if s.logger != nil {
			s.logger.WithError(err).Warn("failed to read clinic linkage")
		}
		return
	}
	if !ok {
		return
	}
	var link tenant.Linkage
	if err := json.Unmarshal(data, &link); err != nil {
		if s.logger != nil {
			s.logger.WithError(err).Warn("discarding corrupt clinic linkage")
		}
		return
	}
	cur := *s.state.Load()
	if link.Subdomain != cur.Label() {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"stored_subdomain": link.Subdomain, "subdomain": cur.Label()}).Warn("ignoring clinic linkage recorded for another subdomain")
		}
		return
	}
	clinicID := link.ClinicID
	cur.ClinicID = &clinicID
	s.state.Store(&cur)
}

// SetClinicInfo binds the workspace to the clinic the backend confirmed and persists the link.
func (s *TenantContextService) SetClinicInfo(ctx context.Context, clinicID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := *s.state.Load()
	data, err := json.Marshal(tenant.Linkage{ClinicID: clinicID, Subdomain: cur.Label()})
	if err != nil {
		return fmt.Errorf("failed to encode clinic linkage: %w", err)
	}
	if err := s.store.Set(ctx, s.key, data, 0); err != nil {
		return fmt.Errorf("failed to persist clinic linkage: %w", err)
	}
	cur.ClinicID = &clinicID
	s.state.Store(&cur)
	return nil
}

// Reset re-derives the context from the hostname without touching storage.
func (s *TenantContextService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fresh := tenant.NewContext(s.host)
	s.state.Store(&fresh)
}

// Clear resets the context and deletes the persisted linkage.
func (s *TenantContextService) Clear(ctx context.Context) error {
	s.Reset()
	if err := s.store.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("failed to delete clinic linkage: %w", err)
	}
	return nil
}
