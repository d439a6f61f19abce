package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/avatarctic/clinic-console/internal/core/domain/tenant"
	"github.com/avatarctic/clinic-console/internal/core/ports"
	"github.com/avatarctic/clinic-console/internal/infrastructure/db"
)

// SubscriptionRepository stores clinic tiers in the clinic_subscriptions table.
type SubscriptionRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(database *db.Database, logger *logrus.Logger) ports.TierRepository {
	return &SubscriptionRepository{
		db:     database,
		logger: logger,
	}
}

// GetTier retrieves the tier of a clinic
func (r *SubscriptionRepository) GetTier(ctx context.Context, clinicID int64) (tenant.SubscriptionTier, error) {
	var raw string
	err := r.db.DB.GetContext(ctx, &raw, `SELECT tier FROM clinic_subscriptions WHERE clinic_id = $1`, clinicID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ports.ErrTierNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get subscription tier: %w", err)
	}
	tier, ok := tenant.ParseTier(raw)
	if !ok {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"clinic_id": clinicID, "tier": raw}).Warn("db: unknown tier stored for clinic")
		}
		return "", ports.ErrTierNotFound
	}
	return tier, nil
}

// SetTier creates or replaces the tier of a clinic
func (r *SubscriptionRepository) SetTier(ctx context.Context, clinicID int64, tier tenant.SubscriptionTier) error {
	query := `
		INSERT INTO clinic_subscriptions (clinic_id, tier, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (clinic_id) DO UPDATE SET tier = EXCLUDED.tier, updated_at = NOW()`

	if _, err := r.db.DB.ExecContext(ctx, query, clinicID, string(tier)); err != nil {
		return fmt.Errorf("failed to set subscription tier: %w", err)
	}
	return nil
}
