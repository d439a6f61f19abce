package ports

import (
	"context"
	"errors"

	"github.com/avatarctic/clinic-console/internal/core/domain/tenant"
)

// ErrTierNotFound is returned when no subscription is recorded for a clinic.
var ErrTierNotFound = errors.New("subscription tier not found")

// TierRepository stores the subscription tier of each clinic.
type TierRepository interface {
	GetTier(ctx context.Context, clinicID int64) (tenant.SubscriptionTier, error)
	SetTier(ctx context.Context, clinicID int64, tier tenant.SubscriptionTier) error
}

// TierResolver answers which tier applies to a clinic. It never fails: anything it cannot
// establish resolves to the lowest tier.
type TierResolver interface {
	Resolve(ctx context.Context, clinicID *int64) tenant.SubscriptionTier
}
