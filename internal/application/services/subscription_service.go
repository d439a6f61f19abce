package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/avatarctic/clinic-console/internal/core/domain/tenant"
	"github.com/avatarctic/clinic-console/internal/core/ports"
	"github.com/sirupsen/logrus"
)

// SubscriptionService resolves the tier of a clinic: the tier repository first, then the
// configured clinic map, then the default tier for any clinic the backend vouched for.
type SubscriptionService struct {
	repo        ports.TierRepository
	configured  map[int64]tenant.SubscriptionTier
	defaultTier tenant.SubscriptionTier
	logger      *logrus.Logger
}

func NewSubscriptionService(repo ports.TierRepository, configured map[int64]tenant.SubscriptionTier, defaultTier tenant.SubscriptionTier, logger *logrus.Logger) *SubscriptionService {
	if !defaultTier.IsValid() {
		defaultTier = tenant.LowestTier()
	}
	return &SubscriptionService{repo: repo, configured: configured, defaultTier: defaultTier, logger: logger}
}

// Resolve never fails. No clinic, or a lookup error, yields the lowest tier.
func (s *SubscriptionService) Resolve(ctx context.Context, clinicID *int64) tenant.SubscriptionTier {
	if clinicID == nil {
		return tenant.LowestTier()
	}
	if s.repo != nil {
		t, err := s.repo.GetTier(ctx, *clinicID)
		switch {
		case err == nil && t.IsValid():
			return t
		case err != nil && !errors.Is(err, ports.ErrTierNotFound):
			if s.logger != nil {
				s.logger.WithFields(logrus.Fields{"clinic_id": *clinicID}).WithError(err).Warn("tier lookup failed; using lowest tier")
			}
			return tenant.LowestTier()
		}
	}
	if t, ok := s.configured[*clinicID]; ok {
		return t
	}
	return s.defaultTier
}

// SetTier records the tier of a clinic.
func (s *SubscriptionService) SetTier(ctx context.Context, clinicID int64, tier tenant.SubscriptionTier) error {
	if !tier.IsValid() {
		return fmt.Errorf("unknown subscription tier %q", tier)
	}
	if s.repo == nil {
		return errors.New("no subscription store configured")
	}
	if err := s.repo.SetTier(ctx, clinicID, tier); err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"clinic_id": clinicID, "tier": tier}).WithError(err).Error("failed to set subscription tier")
		}
		return err
	}
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"clinic_id": clinicID, "tier": tier}).Info("subscription tier set")
	}
	return nil
}
