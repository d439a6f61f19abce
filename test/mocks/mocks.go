package mocks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/avatarctic/clinic-console/internal/core/domain/audit"
	"github.com/avatarctic/clinic-console/internal/core/domain/auth"
	"github.com/avatarctic/clinic-console/internal/core/domain/medical"
	"github.com/avatarctic/clinic-console/internal/core/domain/tenant"
	"github.com/avatarctic/clinic-console/internal/core/domain/user"
	"github.com/avatarctic/clinic-console/internal/core/ports"
)

// AuthGatewayMock is a lightweight mock for AuthGateway
type AuthGatewayMock struct {
	LoginFn func(ctx context.Context, scope ports.RequestScope, req *auth.LoginRequest) (*auth.LoginResult, error)
}

func (m *AuthGatewayMock) Login(ctx context.Context, scope ports.RequestScope, req *auth.LoginRequest) (*auth.LoginResult, error) {
	if m.LoginFn != nil {
		return m.LoginFn(ctx, scope, req)
	}
	return nil, &ports.BackendError{Status: 401, Detail: "No active account found with the given credentials"}
}

// PatientRepositoryMock is a lightweight mock for PatientRepository
type PatientRepositoryMock struct {
	ListFn   func(ctx context.Context, scope ports.RequestScope, q medical.PatientQuery) (*medical.PatientPage, error)
	GetFn    func(ctx context.Context, scope ports.RequestScope, id int64) (*medical.Patient, error)
	CreateFn func(ctx context.Context, scope ports.RequestScope, req *medical.CreatePatientRequest) (*medical.Patient, error)
	UpdateFn func(ctx context.Context, scope ports.RequestScope, id int64, req *medical.UpdatePatientRequest) (*medical.Patient, error)
	DeleteFn func(ctx context.Context, scope ports.RequestScope, id int64) error
}

func (m *PatientRepositoryMock) List(ctx context.Context, scope ports.RequestScope, q medical.PatientQuery) (*medical.PatientPage, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, scope, q)
	}
	return medical.EmptyPatientPage(), nil
}
func (m *PatientRepositoryMock) Get(ctx context.Context, scope ports.RequestScope, id int64) (*medical.Patient, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, scope, id)
	}
	return nil, &ports.BackendError{Status: 404, Detail: "Not found."}
}
func (m *PatientRepositoryMock) Create(ctx context.Context, scope ports.RequestScope, req *medical.CreatePatientRequest) (*medical.Patient, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, scope, req)
	}
	p := &medical.Patient{ID: 1, FirstName: req.FirstName, LastName: req.LastName}
	p.Normalize()
	return p, nil
}
func (m *PatientRepositoryMock) Update(ctx context.Context, scope ports.RequestScope, id int64, req *medical.UpdatePatientRequest) (*medical.Patient, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, scope, id, req)
	}
	return &medical.Patient{ID: id, Findings: []medical.ToothFinding{}}, nil
}
func (m *PatientRepositoryMock) Delete(ctx context.Context, scope ports.RequestScope, id int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, scope, id)
	}
	return nil
}

// AppointmentRepositoryMock is a lightweight mock for AppointmentRepository
type AppointmentRepositoryMock struct {
	ListFn   func(ctx context.Context, scope ports.RequestScope) ([]medical.Appointment, error)
	GetFn    func(ctx context.Context, scope ports.RequestScope, id int64) (*medical.Appointment, error)
	CreateFn func(ctx context.Context, scope ports.RequestScope, payload medical.AppointmentPayload) (*medical.Appointment, error)
	UpdateFn func(ctx context.Context, scope ports.RequestScope, id int64, patch medical.AppointmentPatch) (*medical.Appointment, error)
	DeleteFn func(ctx context.Context, scope ports.RequestScope, id int64) error
}

func (m *AppointmentRepositoryMock) List(ctx context.Context, scope ports.RequestScope) ([]medical.Appointment, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, scope)
	}
	return []medical.Appointment{}, nil
}
func (m *AppointmentRepositoryMock) Get(ctx context.Context, scope ports.RequestScope, id int64) (*medical.Appointment, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, scope, id)
	}
	return nil, &ports.BackendError{Status: 404, Detail: "Not found."}
}
func (m *AppointmentRepositoryMock) Create(ctx context.Context, scope ports.RequestScope, payload medical.AppointmentPayload) (*medical.Appointment, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, scope, payload)
	}
	return &medical.Appointment{
		ID:            1,
		Subject:       payload.Subject,
		StartTime:     payload.StartTime,
		EndTime:       payload.EndTime,
		Status:        payload.Status,
		CategoryColor: payload.CategoryColor,
	}, nil
}
func (m *AppointmentRepositoryMock) Update(ctx context.Context, scope ports.RequestScope, id int64, patch medical.AppointmentPatch) (*medical.Appointment, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, scope, id, patch)
	}
	a := patch.ApplyTo(medical.Appointment{ID: id})
	return &a, nil
}
func (m *AppointmentRepositoryMock) Delete(ctx context.Context, scope ports.RequestScope, id int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, scope, id)
	}
	return nil
}

// TreatmentRepositoryMock is a lightweight mock for TreatmentRepository
type TreatmentRepositoryMock struct {
	ListByPatientFn func(ctx context.Context, scope ports.RequestScope, patientID int64) ([]medical.TreatmentStep, error)
	CreateFn        func(ctx context.Context, scope ports.RequestScope, payload medical.TreatmentPayload) (*medical.TreatmentStep, error)
}

func (m *TreatmentRepositoryMock) ListByPatient(ctx context.Context, scope ports.RequestScope, patientID int64) ([]medical.TreatmentStep, error) {
	if m.ListByPatientFn != nil {
		return m.ListByPatientFn(ctx, scope, patientID)
	}
	return []medical.TreatmentStep{}, nil
}
func (m *TreatmentRepositoryMock) Create(ctx context.Context, scope ports.RequestScope, payload medical.TreatmentPayload) (*medical.TreatmentStep, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, scope, payload)
	}
	return &medical.TreatmentStep{
		ID:          1,
		ToothNumber: payload.ToothNumber,
		StepType:    payload.StepType,
		Status:      payload.Status,
		Appointment: payload.Appointment,
	}, nil
}

// FindingRepositoryMock is a lightweight mock for FindingRepository
type FindingRepositoryMock struct {
	CreateFn func(ctx context.Context, scope ports.RequestScope, payload medical.FindingPayload) (*medical.ToothFinding, error)
}

func (m *FindingRepositoryMock) Create(ctx context.Context, scope ports.RequestScope, payload medical.FindingPayload) (*medical.ToothFinding, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, scope, payload)
	}
	return &medical.ToothFinding{ID: 1, ToothNumber: payload.ToothNumber, Condition: payload.Condition}, nil
}

// StaffRepositoryMock is a lightweight mock for StaffRepository
type StaffRepositoryMock struct {
	ListFn func(ctx context.Context, scope ports.RequestScope, role user.UserRole) ([]user.StaffMember, error)
	GetFn  func(ctx context.Context, scope ports.RequestScope, id int64) (*user.StaffMember, error)
}

func (m *StaffRepositoryMock) List(ctx context.Context, scope ports.RequestScope, role user.UserRole) ([]user.StaffMember, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, scope, role)
	}
	return []user.StaffMember{}, nil
}
func (m *StaffRepositoryMock) Get(ctx context.Context, scope ports.RequestScope, id int64) (*user.StaffMember, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, scope, id)
	}
	return nil, &ports.BackendError{Status: 404, Detail: "Not found."}
}

// TierRepositoryMock is a lightweight mock for TierRepository
type TierRepositoryMock struct {
	GetTierFn func(ctx context.Context, clinicID int64) (tenant.SubscriptionTier, error)
	SetTierFn func(ctx context.Context, clinicID int64, tier tenant.SubscriptionTier) error
}

func (m *TierRepositoryMock) GetTier(ctx context.Context, clinicID int64) (tenant.SubscriptionTier, error) {
	if m.GetTierFn != nil {
		return m.GetTierFn(ctx, clinicID)
	}
	return "", ports.ErrTierNotFound
}
func (m *TierRepositoryMock) SetTier(ctx context.Context, clinicID int64, tier tenant.SubscriptionTier) error {
	if m.SetTierFn != nil {
		return m.SetTierFn(ctx, clinicID, tier)
	}
	return nil
}

// TierResolverMock resolves every clinic to Tier unless ResolveFn is set.
type TierResolverMock struct {
	Tier      tenant.SubscriptionTier
	ResolveFn func(ctx context.Context, clinicID *int64) tenant.SubscriptionTier
}

func (m *TierResolverMock) Resolve(ctx context.Context, clinicID *int64) tenant.SubscriptionTier {
	if m.ResolveFn != nil {
		return m.ResolveFn(ctx, clinicID)
	}
	if clinicID == nil || m.Tier == "" {
		return tenant.LowestTier()
	}
	return m.Tier
}

// AuditServiceMock records every request it is given.
type AuditServiceMock struct {
	LogActionFn    func(ctx context.Context, req *audit.CreateAuditLogRequest) error
	GetAuditLogsFn func(ctx context.Context, filter *audit.AuditLogFilter) ([]*audit.AuditLog, int, error)

	mu      sync.Mutex
	entries []audit.CreateAuditLogRequest
}

func (m *AuditServiceMock) LogAction(ctx context.Context, req *audit.CreateAuditLogRequest) error {
	m.mu.Lock()
	m.entries = append(m.entries, *req)
	m.mu.Unlock()
	if m.LogActionFn != nil {
		return m.LogActionFn(ctx, req)
	}
	return nil
}
func (m *AuditServiceMock) GetAuditLogs(ctx context.Context, filter *audit.AuditLogFilter) ([]*audit.AuditLog, int, error) {
	if m.GetAuditLogsFn != nil {
		return m.GetAuditLogsFn(ctx, filter)
	}
	return []*audit.AuditLog{}, 0, nil
}

// Entries returns a copy of the recorded requests.
func (m *AuditServiceMock) Entries() []audit.CreateAuditLogRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]audit.CreateAuditLogRequest(nil), m.entries...)
}

// Actions lists the recorded actions in order.
func (m *AuditServiceMock) Actions() []audit.AuditAction {
	var out []audit.AuditAction
	for _, e := range m.Entries() {
		out = append(out, e.Action)
	}
	return out
}

// AuditRepositoryMock is a lightweight mock for AuditRepository
type AuditRepositoryMock struct {
	CreateFn func(ctx context.Context, log *audit.AuditLog) error
	ListFn   func(ctx context.Context, filter *audit.AuditLogFilter) ([]*audit.AuditLog, error)
	CountFn  func(ctx context.Context, filter *audit.AuditLogFilter) (int, error)
}

func (m *AuditRepositoryMock) Create(ctx context.Context, log *audit.AuditLog) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, log)
	}
	return nil
}
func (m *AuditRepositoryMock) List(ctx context.Context, filter *audit.AuditLogFilter) ([]*audit.AuditLog, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, filter)
	}
	return []*audit.AuditLog{}, nil
}
func (m *AuditRepositoryMock) Count(ctx context.Context, filter *audit.AuditLogFilter) (int, error) {
	if m.CountFn != nil {
		return m.CountFn(ctx, filter)
	}
	return 0, nil
}

// RateLimitRepositoryMock is a lightweight mock for RateLimitRepository
type RateLimitRepositoryMock struct {
	IncrementWindowFn func(ctx context.Context, key string, window time.Duration, keyPrefix string, ttl time.Duration) (int, time.Time, error)
}

func (m *RateLimitRepositoryMock) IncrementWindow(ctx context.Context, key string, window time.Duration, keyPrefix string, ttl time.Duration) (int, time.Time, error) {
	if m.IncrementWindowFn != nil {
		return m.IncrementWindowFn(ctx, key, window, keyPrefix, ttl)
	}
	return 1, time.Now().Truncate(window), nil
}

// RateLimiterServiceMock allows everything unless AllowFn is set.
type RateLimiterServiceMock struct {
	AllowFn func(ctx context.Context, tenantKey string) (bool, int, int, time.Time, error)
}

func (m *RateLimiterServiceMock) Allow(ctx context.Context, tenantKey string) (bool, int, int, time.Time, error) {
	if m.AllowFn != nil {
		return m.AllowFn(ctx, tenantKey)
	}
	return true, 100, 100, time.Now().Add(time.Minute), nil
}

// RequestScopeMock is a fixed request scope that records forced logouts.
type RequestScopeMock struct {
	Host  string
	Token string

	mu      sync.Mutex
	reasons []string
}

func (m *RequestScopeMock) Hostname() string    { return m.Host }
func (m *RequestScopeMock) AccessToken() string { return m.Token }
func (m *RequestScopeMock) ForceLogout(ctx context.Context, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reasons = append(m.reasons, reason)
}

// LogoutReasons returns the reasons ForceLogout was called with.
func (m *RequestScopeMock) LogoutReasons() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.reasons...)
}

// ErrStoreUnavailable is what StoreMock returns for injected failures.
var ErrStoreUnavailable = errors.New("store unavailable")

// StoreMock is an in-memory ports.Store whose operations can be made to fail.
type StoreMock struct {
	FailGet    bool
	FailSet    bool
	FailDelete bool

	mu   sync.Mutex
	data map[string][]byte
	ttls map[string]time.Duration
}

func NewStoreMock() *StoreMock {
	return &StoreMock{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *StoreMock) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailGet {
		return nil, false, fmt.Errorf("get %s: %w", key, ErrStoreUnavailable)
	}
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}
func (m *StoreMock) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSet {
		return fmt.Errorf("set %s: %w", key, ErrStoreUnavailable)
	}
	m.data[key] = append([]byte(nil), value...)
	m.ttls[key] = ttl
	return nil
}
func (m *StoreMock) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailDelete {
		return fmt.Errorf("delete %s: %w", key, ErrStoreUnavailable)
	}
	delete(m.data, key)
	delete(m.ttls, key)
	return nil
}

// Has reports whether key is stored.
func (m *StoreMock) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok
}

// TTL is the ttl the key was last written with.
func (m *StoreMock) TTL(key string) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ttls[key]
}

// Put writes raw bytes directly, bypassing failure injection.
func (m *StoreMock) Put(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
}
