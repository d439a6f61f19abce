package feature

import (
	"slices"

	"github.com/avatarctic/clinic-console/internal/core/domain/permission"
)

// FlagKey names a UI element that is shown only when the session holds one of its permissions.
type FlagKey string

const (
	ShowBillingTab     FlagKey = "SHOW_BILLING_TAB"
	ShowAnalytics      FlagKey = "SHOW_ANALYTICS"
	ShowAIFeatures     FlagKey = "SHOW_AI_FEATURES"
	ShowDeleteButtons  FlagKey = "SHOW_DELETE_BUTTONS"
	ShowUserManagement FlagKey = "SHOW_USER_MANAGEMENT"
)

// FeatureFlag is a permission-gated UI element. Any one of Permissions enables it.
type FeatureFlag struct {
	Key         FlagKey                 `json:"key"`
	Permissions []permission.Permission `json:"permissions"`
}

var flags = []FeatureFlag{
	{Key: ShowBillingTab, Permissions: []permission.Permission{permission.ViewBilling}},
	{Key: ShowAnalytics, Permissions: []permission.Permission{permission.ViewAnalytics}},
	{Key: ShowAIFeatures, Permissions: []permission.Permission{permission.UseAIDiagnosis}},
	{Key: ShowDeleteButtons, Permissions: []permission.Permission{permission.DeletePatients, permission.DeleteAppointments}},
	{Key: ShowUserManagement, Permissions: []permission.Permission{permission.ManageUsers}},
}

// All returns every flag definition.
func All() []FeatureFlag {
	out := make([]FeatureFlag, len(flags))
	for i, f := range flags {
		out[i] = FeatureFlag{Key: f.Key, Permissions: slices.Clone(f.Permissions)}
	}
	return out
}

// IsEnabled evaluates a single flag for a grant.
func (f FeatureFlag) IsEnabled(g permission.Grant) bool {
	return g.HasAny(f.Permissions...)
}

// Evaluate reports every flag for a grant.
func Evaluate(g permission.Grant) map[FlagKey]bool {
	out := make(map[FlagKey]bool, len(flags))
	for _, f := range flags {
		out[f.Key] = f.IsEnabled(g)
	}
	return out
}
