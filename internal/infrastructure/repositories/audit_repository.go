package repositories

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/avatarctic/clinic-console/internal/core/domain/audit"
	"github.com/avatarctic/clinic-console/internal/core/ports"
	"github.com/avatarctic/clinic-console/internal/infrastructure/db"
)

type auditRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

// NewAuditRepository creates a new instance of AuditRepository
func NewAuditRepository(database *db.Database, logger *logrus.Logger) ports.AuditRepository {
	return &auditRepository{
		db:     database,
		logger: logger,
	}
}

// auditRow is the scan target; details come back as raw JSONB.
type auditRow struct {
	ID          uuid.UUID      `db:"id"`
	WorkspaceID uuid.UUID      `db:"workspace_id"`
	ClinicID    sql.NullInt64  `db:"clinic_id"`
	Subdomain   string         `db:"subdomain"`
	Username    string         `db:"username"`
	Action      string         `db:"action"`
	Resource    string         `db:"resource"`
	ResourceID  sql.NullInt64  `db:"resource_id"`
	Details     sql.NullString `db:"details"`
	IPAddress   string         `db:"ip_address"`
	UserAgent   string         `db:"user_agent"`
	Timestamp   time.Time      `db:"timestamp"`
}

func (r auditRow) toLog() *audit.AuditLog {
	log := &audit.AuditLog{
		ID:          r.ID,
		WorkspaceID: r.WorkspaceID,
		Subdomain:   r.Subdomain,
		Username:    r.Username,
		Action:      r.Action,
		Resource:    r.Resource,
		IPAddress:   r.IPAddress,
		UserAgent:   r.UserAgent,
		Timestamp:   r.Timestamp,
	}
	if r.ClinicID.Valid {
		v := r.ClinicID.Int64
		log.ClinicID = &v
	}
	if r.ResourceID.Valid {
		v := r.ResourceID.Int64
		log.ResourceID = &v
	}
	if r.Details.Valid && r.Details.String != "" {
		var details any
		if err := json.Unmarshal([]byte(r.Details.String), &details); err == nil {
			log.Details = details
		}
	}
	return log
}

// Create inserts a new audit log entry into the database
func (r *auditRepository) Create(ctx context.Context, log *audit.AuditLog) error {
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	if log.Timestamp.IsZero() {
		log.Timestamp = time.Now().UTC()
	}

	// Convert details to JSON if not nil
	var detailsJSON []byte
	var err error
	if log.Details != nil {
		detailsJSON, err = json.Marshal(log.Details)
		if err != nil {
			return err
		}
	}

	query := `
		INSERT INTO audit_logs (
			id, workspace_id, clinic_id, subdomain, username, action, resource,
			resource_id, details, ip_address, user_agent, timestamp
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		)`

	_, err = r.db.DB.ExecContext(ctx, query,
		log.ID,
		log.WorkspaceID,
		log.ClinicID,
		log.Subdomain,
		log.Username,
		log.Action,
		log.Resource,
		log.ResourceID,
		detailsJSON,
		log.IPAddress,
		log.UserAgent,
		log.Timestamp,
	)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"subdomain": log.Subdomain, "clinic_id": log.ClinicID, "action": log.Action}).WithError(err).Error("db: failed to insert audit log")
		}
		return err
	}
	if r.logger != nil {
		r.logger.WithFields(logrus.Fields{"subdomain": log.Subdomain, "action": log.Action, "resource_id": log.ResourceID}).Debug("db: audit log inserted")
	}
	return nil
}

// List retrieves audit logs based on the provided filter
func (r *auditRepository) List(ctx context.Context, filter *audit.AuditLogFilter) ([]*audit.AuditLog, error) {
	query, args := buildAuditQuery(filter, false)
	if r.logger != nil {
		r.logger.WithFields(logrus.Fields{"query": query, "args": args}).Debug("db: executing audit list query")
	}
	var rows []auditRow
	if err := r.db.DB.SelectContext(ctx, &rows, query, args...); err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"query": query}).WithError(err).Error("db: failed to execute audit list query")
		}
		return nil, err
	}
	logs := make([]*audit.AuditLog, 0, len(rows))
	for _, row := range rows {
		logs = append(logs, row.toLog())
	}
	return logs, nil
}

// Count returns the total number of audit logs matching the filter
func (r *auditRepository) Count(ctx context.Context, filter *audit.AuditLogFilter) (int, error) {
	query, args := buildAuditQuery(filter, true)

	var count int
	if err := r.db.DB.GetContext(ctx, &count, query, args...); err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"query": query}).WithError(err).Error("db: failed to execute audit count query")
		}
		return 0, err
	}
	return count, nil
}

// buildAuditQuery constructs the SQL query and arguments for listing/counting audit logs
func buildAuditQuery(filter *audit.AuditLogFilter, isCount bool) (string, []any) {
	var selectClause string
	if isCount {
		selectClause = "SELECT COUNT(*)"
	} else {
		selectClause = `SELECT
			id, workspace_id, clinic_id, subdomain, username, action, resource,
			resource_id, details, ip_address, user_agent, timestamp`
	}

	query := selectClause + " FROM audit_logs"
	var conditions []string
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		conditions = append(conditions, cond+" $"+strconv.Itoa(len(args)))
	}

	if filter != nil {
		if filter.ClinicID != nil {
			add("clinic_id =", *filter.ClinicID)
		}
		if filter.Subdomain != "" {
			add("subdomain =", filter.Subdomain)
		}
		if filter.Username != "" {
			add("username =", filter.Username)
		}
		if filter.Action != nil {
			add("action =", string(*filter.Action))
		}
		if filter.Resource != nil {
			add("resource =", string(*filter.Resource))
		}
		if filter.StartTime != nil {
			add("timestamp >=", *filter.StartTime)
		}
		if filter.EndTime != nil {
			add("timestamp <=", *filter.EndTime)
		}
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	// Add ORDER BY and LIMIT/OFFSET for non-count queries
	if !isCount {
		query += " ORDER BY timestamp DESC"
		if filter != nil {
			if filter.Limit > 0 {
				args = append(args, filter.Limit)
				query += " LIMIT $" + strconv.Itoa(len(args))
			}
			if filter.Offset > 0 {
				args = append(args, filter.Offset)
				query += " OFFSET $" + strconv.Itoa(len(args))
			}
		}
	}

	return query, args
}
