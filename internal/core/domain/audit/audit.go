package audit

import (
	"time"

	"github.com/google/uuid"
)

type AuditLog struct {
	ID          uuid.UUID `json:"id" db:"id"`
	WorkspaceID uuid.UUID `json:"workspace_id" db:"workspace_id"`
	ClinicID    *int64    `json:"clinic_id" db:"clinic_id"`
	Subdomain   string    `json:"subdomain" db:"subdomain"`
	Username    string    `json:"username" db:"username"`
	Action      string    `json:"action" db:"action"`
	Resource    string    `json:"resource" db:"resource"`
	ResourceID  *int64    `json:"resource_id" db:"resource_id"`
	Details     any       `json:"details" db:"details"`
	IPAddress   string    `json:"ip_address" db:"ip_address"`
	UserAgent   string    `json:"user_agent" db:"user_agent"`
	Timestamp   time.Time `json:"timestamp" db:"timestamp"`
}

type AuditAction string

const (
	ActionLogin          AuditAction = "login"
	ActionLoginFailed    AuditAction = "login_failed"
	ActionLogout         AuditAction = "logout"
	ActionTenantMismatch AuditAction = "tenant_mismatch"
	ActionCreate         AuditAction = "create"
	ActionUpdate         AuditAction = "update"
	ActionDelete         AuditAction = "delete"
)

type AuditResource string

const (
	ResourceSession     AuditResource = "session"
	ResourcePatient     AuditResource = "patient"
	ResourceAppointment AuditResource = "appointment"
	ResourceFinding     AuditResource = "finding"
	ResourceTreatment   AuditResource = "treatment"
)

// CreateAuditLogRequest represents the request to create an audit log entry
type CreateAuditLogRequest struct {
	WorkspaceID uuid.UUID     `json:"workspace_id"`
	ClinicID    *int64        `json:"clinic_id,omitempty"`
	Subdomain   string        `json:"subdomain"`
	Username    string        `json:"username,omitempty"`
	Action      AuditAction   `json:"action"`
	Resource    AuditResource `json:"resource"`
	ResourceID  *int64        `json:"resource_id,omitempty"`
	Details     any           `json:"details,omitempty"`
	IPAddress   string        `json:"ip_address"`
	UserAgent   string        `json:"user_agent"`
}

// AuditLogFilter represents filters for querying audit logs
type AuditLogFilter struct {
	ClinicID  *int64         `json:"clinic_id,omitempty"`
	Subdomain string         `json:"subdomain,omitempty" query:"subdomain"`
	Username  string         `json:"username,omitempty" query:"username"`
	Action    *AuditAction   `json:"action,omitempty"`
	Resource  *AuditResource `json:"resource,omitempty"`
	StartTime *time.Time     `json:"start_time,omitempty"`
	EndTime   *time.Time     `json:"end_time,omitempty"`
	Limit     int            `json:"limit" query:"limit"`
	Offset    int            `json:"offset" query:"offset"`
}
