package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/avatarctic/clinic-console/internal/core/domain/audit"
	"github.com/avatarctic/clinic-console/internal/core/domain/permission"
	"github.com/avatarctic/clinic-console/internal/core/domain/tenant"
	"github.com/avatarctic/clinic-console/internal/core/ports"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Durable record names; each workspace stores them under its own namespace.
const (
	SessionStorageKey = "surgery-auth-storage"
	TenantStorageKey  = "clinic-linkage"
	MedicalStorageKey = "medical-session-storage"
)

const tierRefreshTimeout = 10 * time.Second

// StorageKey namespaces a durable record to one workspace.
func StorageKey(id uuid.UUID, name string) string {
	return "workspace:" + id.String() + ":" + name
}

// WorkspaceDeps are the collaborators shared by every workspace.
type WorkspaceDeps struct {
	Store         ports.Store
	Tiers         ports.TierResolver
	Audit         ports.AuditService
	Logger        *logrus.Logger
	SessionTTL    time.Duration
	DebounceDelay time.Duration
}

type tierState struct {
	clinicID int64
	tier     tenant.SubscriptionTier
}

// Workspace is the state one browser works against: its session, tenant context, tier, open
// chart and calendar. Compound changes are serialised by mu.
type Workspace struct {
	ID uuid.UUID

	Session *SessionStore
	Tenant  *TenantContextService
	Medical *MedicalSessionStore
	Board   *SchedulerBoard
	Search  *Debouncer

	hostname string
	tiers    ports.TierResolver
	audit    ports.AuditService
	logger   *logrus.Logger

	mu          sync.Mutex
	hydrateOnce sync.Once
	tier        atomic.Pointer[tierState]
	lastSeen    atomic.Int64
}

func NewWorkspace(id uuid.UUID, host string, deps WorkspaceDeps) *Workspace {
	hostname := tenant.Hostname(host)
	w := &Workspace{
		ID:       id,
		hostname: hostname,
		tiers:    deps.Tiers,
		audit:    deps.Audit,
		logger:   deps.Logger,
	}
	w.Session = NewSessionStore(deps.Store, StorageKey(id, SessionStorageKey), deps.SessionTTL, deps.Logger,
		StorageKey(id, TenantStorageKey), StorageKey(id, MedicalStorageKey)).BindHostname(hostname)
	w.Tenant = NewTenantContextService(deps.Store, StorageKey(id, TenantStorageKey), hostname, deps.Logger)
	w.Medical = NewMedicalSessionStore(deps.Store, StorageKey(id, MedicalStorageKey), deps.Logger)
	w.Board = NewSchedulerBoard()
	w.Search = NewDebouncer(deps.DebounceDelay)
	w.Touch(time.Now())
	return w
}

// Hostname is the host the workspace was created for, without port.
func (w *Workspace) Hostname() string {
	return w.hostname
}

func (w *Workspace) AccessToken() string {
	return w.Session.Snapshot().Token
}

// Hydrate restores the workspace from durable storage exactly once.
func (w *Workspace) Hydrate(ctx context.Context) {
	w.hydrateOnce.Do(func() {
		w.mu.Lock()
		w.Session.Hydrate(ctx)
		snap := w.Session.Snapshot()
		if snap.IsAuthenticated {
			w.Tenant.Hydrate(ctx)
			w.Medical.Hydrate(ctx)
		}
		w.mu.Unlock()

		if snap.IsAuthenticated {
			w.RefreshTierAsync()
		}
		if w.logger != nil {
			w.logger.WithFields(logrus.Fields{"workspace_id": w.ID, "subdomain": w.Tenant.Context().Label(), "authenticated": snap.IsAuthenticated}).Debug("workspace hydrated")
		}
	})
}

func (w *Workspace) Hydrated() bool {
	return w.Session.Snapshot().HasHydrated
}

// Tier is the resolved tier of the signed-in clinic, or the lowest tier until it is known.
func (w *Workspace) Tier() tenant.SubscriptionTier {
	st := w.tier.Load()
	clinic := w.Session.Snapshot().ClinicID()
	if st == nil || clinic == nil || *clinic != st.clinicID {
		return tenant.LowestTier()
	}
	return st.tier
}

// RefreshTier resolves the tier for the current clinic. The result is kept only if the
// session still belongs to the same clinic when the lookup completes.
func (w *Workspace) RefreshTier(ctx context.Context) tenant.SubscriptionTier {
	clinic := w.Session.Snapshot().ClinicID()
	if clinic == nil || w.tiers == nil {
		w.tier.Store(nil)
		return tenant.LowestTier()
	}
	t := w.tiers.Resolve(ctx, clinic)
	if cur := w.Session.Snapshot().ClinicID(); cur == nil || *cur != *clinic {
		return tenant.LowestTier()
	}
	w.tier.Store(&tierState{clinicID: *clinic, tier: t})
	if w.logger != nil {
		w.logger.WithFields(logrus.Fields{"workspace_id": w.ID, "clinic_id": *clinic, "tier": t}).Debug("subscription tier resolved")
	}
	return t
}

// RefreshTierAsync resolves the tier in the background.
func (w *Workspace) RefreshTierAsync() {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), tierRefreshTimeout)
		defer cancel()
		w.RefreshTier(ctx)
	}()
}

// Grant is the effective permission set for the current role and tier.
func (w *Workspace) Grant() permission.Grant {
	return permission.NewGrant(w.Session.Snapshot().Role(), w.Tier())
}

// Logout tears the session down in memory and in storage.
func (w *Workspace) Logout(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.logoutLocked(ctx)
}

func (w *Workspace) logoutLocked(ctx context.Context) error {
	err := w.Session.Logout(ctx)
	w.Tenant.Reset()
	w.Medical.Reset()
	w.Board.Reset()
	w.tier.Store(nil)
	return err
}

// ForceLogout ends the session after the backend rejected it for another clinic.
func (w *Workspace) ForceLogout(ctx context.Context, reason string) {
	snap := w.Session.Snapshot()
	tc := w.Tenant.Context()

	w.mu.Lock()
	err := w.logoutLocked(ctx)
	w.mu.Unlock()

	if w.logger != nil {
		entry := w.logger.WithFields(logrus.Fields{
			"workspace_id": w.ID,
			"subdomain":    tc.Label(),
			"clinic_id":    snap.ClinicID(),
			"username":     snap.Username(),
			"reason":       reason,
		})
		if err != nil {
			entry = entry.WithError(err)
		}
		entry.Error("tenant mismatch: session terminated")
	}
	w.record(ctx, auditEntry{
		username: snap.Username(),
		tenant:   tc,
		clinicID: snap.ClinicID(),
		action:   audit.ActionTenantMismatch,
		details:  map[string]any{"detail": reason},
	})
}

// Touch marks the workspace as used at now.
func (w *Workspace) Touch(now time.Time) {
	w.lastSeen.Store(now.UnixNano())
}

func (w *Workspace) LastSeen() time.Time {
	return time.Unix(0, w.lastSeen.Load())
}

type auditEntry struct {
	username   string
	tenant     tenant.Context
	clinicID   *int64
	action     audit.AuditAction
	resource   audit.AuditResource
	resourceID *int64
	details    any
}

// record writes an audit entry. Failures are logged by the audit service.
func (w *Workspace) record(ctx context.Context, e auditEntry) {
	if w.audit == nil {
		return
	}
	if e.resource == "" {
		e.resource = audit.ResourceSession
	}
	ci := clientInfoFrom(ctx)
	_ = w.audit.LogAction(ctx, &audit.CreateAuditLogRequest{
		WorkspaceID: w.ID,
		ClinicID:    e.clinicID,
		Subdomain:   e.tenant.Label(),
		Username:    e.username,
		Action:      e.action,
		Resource:    e.resource,
		ResourceID:  e.resourceID,
		Details:     e.details,
		IPAddress:   ci.IPAddress,
		UserAgent:   ci.UserAgent,
	})
}

// recordChange audits a clinical write made by the signed-in user.
func (w *Workspace) recordChange(ctx context.Context, action audit.AuditAction, resource audit.AuditResource, id int64) {
	snap := w.Session.Snapshot()
	w.record(ctx, auditEntry{
		username:   snap.Username(),
		tenant:     w.Tenant.Context(),
		clinicID:   snap.ClinicID(),
		action:     action,
		resource:   resource,
		resourceID: &id,
	})
}
